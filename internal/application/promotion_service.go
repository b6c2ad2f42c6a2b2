package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborstay/service-booking/internal/domain"
	promoDomain "github.com/harborstay/service-booking/internal/domain/promotion"
	roomDomain "github.com/harborstay/service-booking/internal/domain/room"
)

// CreatePromotionRequest holds data to create a promotion (admin).
type CreatePromotionRequest struct {
	Code           string     `json:"code" binding:"required"`
	DiscountType   string     `json:"discount_type" binding:"required"`
	DiscountValue  int64      `json:"discount_value" binding:"required"`
	MinOrderAmount int64      `json:"min_order_amount_cents"`
	MaxDiscount    int64      `json:"max_discount_cents"`
	HotelID        *uuid.UUID `json:"hotel_id"`
	StartDate      string     `json:"start_date" binding:"required"`
	EndDate        string     `json:"end_date" binding:"required"`
}

// ValidatePromotionRequest holds data to validate a promotion against a
// candidate amount and room set.
type ValidatePromotionRequest struct {
	Code        string      `json:"code" binding:"required"`
	AmountCents int64       `json:"amount_cents" binding:"required,gt=0"`
	RoomIDs     []uuid.UUID `json:"room_ids"`
}

// PromotionDTO is the API response representation of a promotion.
type PromotionDTO struct {
	ID             uuid.UUID  `json:"id"`
	Code           string     `json:"code"`
	DiscountType   string     `json:"discount_type"`
	DiscountValue  int64      `json:"discount_value"`
	MinOrderAmount int64      `json:"min_order_amount_cents"`
	MaxDiscount    int64      `json:"max_discount_cents"`
	HotelID        *uuid.UUID `json:"hotel_id,omitempty"`
	Active         bool       `json:"active"`
	StartDate      time.Time  `json:"start_date"`
	EndDate        time.Time  `json:"end_date"`
}

// PromotionDecision is the outcome of validating a promotion. The same inputs
// always yield the same decision, so the preview shown in the UI matches what
// is charged at booking creation.
type PromotionDecision struct {
	Valid            bool   `json:"valid"`
	Code             string `json:"code"`
	Reason           string `json:"reason,omitempty"`
	Message          string `json:"message,omitempty"`
	DiscountType     string `json:"discount_type,omitempty"`
	DiscountValue    int64  `json:"discount_value,omitempty"`
	DiscountCents    int64  `json:"discount_cents"`
	FinalAmountCents int64  `json:"final_amount_cents"`

	promotion *promoDomain.Promotion
}

// Promotion returns the underlying promotion for a valid decision.
func (d *PromotionDecision) Promotion() *promoDomain.Promotion { return d.promotion }

// PromotionService handles promotion use cases.
type PromotionService struct {
	promos promoDomain.PromotionRepository
	rooms  roomDomain.RoomRepository
	logger *zap.Logger
}

// NewPromotionService creates a new PromotionService.
func NewPromotionService(promos promoDomain.PromotionRepository, rooms roomDomain.RoomRepository, logger *zap.Logger) *PromotionService {
	return &PromotionService{promos: promos, rooms: rooms, logger: logger}
}

// CreatePromotion creates a new promotion (admin only).
func (s *PromotionService) CreatePromotion(ctx context.Context, req CreatePromotionRequest) (*PromotionDTO, error) {
	startDate, err := time.Parse(time.RFC3339, req.StartDate)
	if err != nil {
		return nil, domain.NewValidationError("invalid start_date format (use RFC3339)")
	}
	endDate, err := time.Parse(time.RFC3339, req.EndDate)
	if err != nil {
		return nil, domain.NewValidationError("invalid end_date format (use RFC3339)")
	}

	promo, err := promoDomain.NewPromotion(
		req.Code,
		promoDomain.DiscountType(req.DiscountType),
		req.DiscountValue,
		req.MinOrderAmount,
		req.MaxDiscount,
		req.HotelID,
		startDate,
		endDate,
	)
	if err != nil {
		return nil, err
	}

	if err := s.promos.Save(ctx, promo); err != nil {
		return nil, err
	}

	s.logger.Info("promotion created", zap.String("code", promo.Code()))
	dto := toPromotionDTO(promo)
	return &dto, nil
}

// Validate checks a promotion against an amount and room set. This is the
// non-binding UI preview; booking creation runs the same decision
// authoritatively inside its transaction.
func (s *PromotionService) Validate(ctx context.Context, req ValidatePromotionRequest) (*PromotionDecision, error) {
	hotelIDs, err := s.resolveHotels(ctx, req.RoomIDs)
	if err != nil {
		return nil, err
	}
	return s.Decide(ctx, req.Code, req.AmountCents, hotelIDs)
}

// Decide evaluates the promotion rules in order (existence/active, validity
// window, minimum amount, hotel scope) against the candidate amount. A failed
// rule yields an invalid decision with its reason, never an error: the
// booking flow proceeds at full price unless the caller aborts.
func (s *PromotionService) Decide(ctx context.Context, code string, amountCents int64, hotelIDs []uuid.UUID) (*PromotionDecision, error) {
	rejected := func(reason promoDomain.RejectionReason, message string) *PromotionDecision {
		return &PromotionDecision{
			Valid:            false,
			Code:             promoDomain.NormalizeCode(code),
			Reason:           string(reason),
			Message:          message,
			FinalAmountCents: amountCents,
		}
	}

	promo, err := s.promos.FindByCode(ctx, code)
	if err != nil {
		if domain.IsKind(err, domain.ErrNotFound) {
			return rejected(promoDomain.ReasonNotFound, "promotion code not found"), nil
		}
		return nil, err
	}
	if !promo.Active() {
		return rejected(promoDomain.ReasonNotFound, "promotion code not found"), nil
	}

	if rej := promo.CheckUsable(time.Now().UTC(), amountCents, hotelIDs); rej != nil {
		return rejected(rej.Reason, rej.Message), nil
	}

	discount := promo.CalculateDiscount(amountCents)
	final := amountCents - discount
	if final < 0 {
		final = 0
	}

	return &PromotionDecision{
		Valid:            true,
		Code:             promo.Code(),
		DiscountType:     string(promo.DiscountType()),
		DiscountValue:    promo.DiscountValue(),
		DiscountCents:    discount,
		FinalAmountCents: final,
		promotion:        promo,
	}, nil
}

// ListActive returns all currently active promotions.
func (s *PromotionService) ListActive(ctx context.Context) ([]PromotionDTO, error) {
	promos, err := s.promos.FindActive(ctx)
	if err != nil {
		return nil, err
	}

	dtos := make([]PromotionDTO, len(promos))
	for i, p := range promos {
		dtos[i] = toPromotionDTO(p)
	}
	return dtos, nil
}

// DeactivatePromotion turns a promotion off (admin only).
func (s *PromotionService) DeactivatePromotion(ctx context.Context, id uuid.UUID) error {
	promo, err := s.promos.FindByID(ctx, id)
	if err != nil {
		return err
	}
	promo.Deactivate()
	return s.promos.Update(ctx, promo)
}

func (s *PromotionService) resolveHotels(ctx context.Context, roomIDs []uuid.UUID) ([]uuid.UUID, error) {
	if len(roomIDs) == 0 {
		return nil, nil
	}
	rooms, err := s.rooms.FindByIDs(ctx, roomIDs)
	if err != nil {
		return nil, err
	}
	hotelIDs := make([]uuid.UUID, len(rooms))
	for i, r := range rooms {
		hotelIDs[i] = r.HotelID()
	}
	return hotelIDs, nil
}

func toPromotionDTO(p *promoDomain.Promotion) PromotionDTO {
	return PromotionDTO{
		ID:             p.ID(),
		Code:           p.Code(),
		DiscountType:   string(p.DiscountType()),
		DiscountValue:  p.DiscountValue(),
		MinOrderAmount: p.MinOrderAmount(),
		MaxDiscount:    p.MaxDiscount(),
		HotelID:        p.HotelID(),
		Active:         p.Active(),
		StartDate:      p.StartDate(),
		EndDate:        p.EndDate(),
	}
}
