package application

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	"github.com/harborstay/service-booking/internal/domain"
	bookingDomain "github.com/harborstay/service-booking/internal/domain/booking"
	roomDomain "github.com/harborstay/service-booking/internal/domain/room"
	"github.com/harborstay/service-booking/internal/events"
)

// RoomSelection is one requested room with its guest counts.
type RoomSelection struct {
	RoomID   uuid.UUID `json:"room_id" binding:"required"`
	Adults   int       `json:"adults" binding:"required,gt=0"`
	Children int       `json:"children" binding:"gte=0"`
}

// CreateBookingRequest is the DTO for creating one or more room bookings.
type CreateBookingRequest struct {
	GuestID    string          `json:"guest_id" binding:"required"`
	CheckIn    string          `json:"check_in" binding:"required"`
	CheckOut   string          `json:"check_out" binding:"required"`
	PromoCode  string          `json:"promo_code"`
	Selections []RoomSelection `json:"selections" binding:"required,min=1,dive"`
}

// CreateBookingResult is the outcome of a successful create: the persisted
// bookings plus the promotion decision (which may be a non-fatal rejection;
// the booking then proceeded at full price).
type CreateBookingResult struct {
	Bookings  []BookingDTO       `json:"bookings"`
	Promotion *PromotionDecision `json:"promotion,omitempty"`
}

// RoomUnavailableError reports the room that failed the availability check.
// The whole request is rejected; no partial booking is committed.
type RoomUnavailableError struct {
	RoomID   uuid.UUID
	CheckIn  time.Time
	CheckOut time.Time
}

func (e *RoomUnavailableError) Error() string {
	return fmt.Sprintf("room %s is already booked between %s and %s",
		e.RoomID, e.CheckIn.Format(time.DateOnly), e.CheckOut.Format(time.DateOnly))
}

func (e *RoomUnavailableError) Unwrap() error { return domain.ErrConflict }

// BookingService orchestrates booking creation. The availability check, the
// promotion decision and the inserts run inside one database transaction with
// the selected room rows locked, so two concurrent requests for the same room
// cannot both observe it as free.
type BookingService struct {
	tx        bookingDomain.Transactor
	bookings  bookingDomain.BookingRepository
	payments  bookingDomain.PaymentRecordRepository
	rooms     roomDomain.RoomRepository
	promotion *PromotionService
	publisher events.Publisher
	currency  string
	logger    *zap.Logger
}

// NewBookingService creates a new BookingService.
func NewBookingService(
	tx bookingDomain.Transactor,
	bookings bookingDomain.BookingRepository,
	payments bookingDomain.PaymentRecordRepository,
	rooms roomDomain.RoomRepository,
	promotion *PromotionService,
	publisher events.Publisher,
	currency string,
	logger *zap.Logger,
) *BookingService {
	return &BookingService{
		tx:        tx,
		bookings:  bookings,
		payments:  payments,
		rooms:     rooms,
		promotion: promotion,
		publisher: publisher,
		currency:  currency,
		logger:    logger,
	}
}

// Create books every selected room for [checkIn, checkOut) atomically. On
// success every booking is pending payment / pending occupancy with an
// immutable unit price snapshot. Any unavailable room rejects the entire
// request.
func (s *BookingService) Create(ctx context.Context, req CreateBookingRequest) (*CreateBookingResult, error) {
	checkIn, checkOut, err := ParseStayInterval(req.CheckIn, req.CheckOut)
	if err != nil {
		return nil, err
	}

	roomIDs := make([]uuid.UUID, len(req.Selections))
	seen := make(map[uuid.UUID]bool, len(req.Selections))
	for i, sel := range req.Selections {
		if seen[sel.RoomID] {
			return nil, domain.NewValidationError("room %s selected more than once", sel.RoomID)
		}
		seen[sel.RoomID] = true
		roomIDs[i] = sel.RoomID
	}

	var result CreateBookingResult

	err = s.tx.WithinTx(ctx, func(ctx context.Context) error {
		// Lock the room rows first. Concurrent creates for the same room
		// serialize here, so the overlap check below always sees the other
		// transaction's committed bookings.
		rooms, err := s.rooms.FindByIDsForUpdate(ctx, roomIDs)
		if err != nil {
			return err
		}
		roomsByID := make(map[uuid.UUID]*roomDomain.Room, len(rooms))
		for _, r := range rooms {
			roomsByID[r.ID()] = r
		}

		nights := bookingDomain.Nights(checkIn, checkOut)
		var combined int64
		subtotals := make([]int64, len(req.Selections))
		hotelIDs := make([]uuid.UUID, len(req.Selections))

		for i, sel := range req.Selections {
			rm := roomsByID[sel.RoomID]
			if err := rm.CanAccommodate(sel.Adults, sel.Children); err != nil {
				return err
			}

			free, err := s.bookings.FindOverlapping(ctx, sel.RoomID, checkIn, checkOut)
			if err != nil {
				return err
			}
			if len(free) > 0 {
				return &RoomUnavailableError{RoomID: sel.RoomID, CheckIn: checkIn, CheckOut: checkOut}
			}

			subtotals[i] = int64(nights) * rm.NightlyRate()
			combined += subtotals[i]
			hotelIDs[i] = rm.HotelID()
		}

		var decision *PromotionDecision
		if req.PromoCode != "" {
			decision, err = s.promotion.Decide(ctx, req.PromoCode, combined, hotelIDs)
			if err != nil {
				return err
			}
			result.Promotion = decision
		}

		discounts := allocateDiscount(decision, subtotals)

		groupID := uuid.New()
		result.Bookings = make([]BookingDTO, 0, len(req.Selections))

		for i, sel := range req.Selections {
			rm := roomsByID[sel.RoomID]
			b := bookingDomain.NewBooking(
				groupID, rm.ID(), rm.HotelID(), req.GuestID,
				checkIn, checkOut,
				sel.Adults, sel.Children,
				rm.NightlyRate(), s.currency,
			)
			if discounts[i] > 0 {
				promo := decision.Promotion()
				if err := b.ApplyPromotion(promo.ID(), promo.Code(), discounts[i]); err != nil {
					return err
				}
			}
			if err := s.bookings.Save(ctx, b); err != nil {
				return err
			}

			record := bookingDomain.NewPaymentRecord(b.ID(), b.TotalCents(), s.currency)
			if err := s.payments.Save(ctx, record); err != nil {
				return err
			}

			result.Bookings = append(result.Bookings, toBookingDTO(b))
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	s.logger.Info("booking group created",
		zap.String("guest_id", req.GuestID),
		zap.Int("rooms", len(result.Bookings)),
		zap.String("check_in", req.CheckIn),
		zap.String("check_out", req.CheckOut),
	)

	for _, dto := range result.Bookings {
		s.publishEvent(ctx, events.BookingCreated, dto, 0)
	}

	return &result, nil
}

// GetBooking retrieves a booking by ID.
func (s *BookingService) GetBooking(ctx context.Context, id uuid.UUID) (*BookingDTO, error) {
	b, err := s.bookings.FindByID(ctx, id)
	if err != nil {
		return nil, err
	}
	dto := toBookingDTO(b)
	return &dto, nil
}

// ListGuestBookings retrieves all bookings of a guest, newest first.
func (s *BookingService) ListGuestBookings(ctx context.Context, guestID string) ([]BookingDTO, error) {
	list, err := s.bookings.ListByGuest(ctx, guestID)
	if err != nil {
		return nil, err
	}
	dtos := make([]BookingDTO, len(list))
	for i, b := range list {
		dtos[i] = toBookingDTO(b)
	}
	return dtos, nil
}

func (s *BookingService) publishEvent(ctx context.Context, eventType string, dto BookingDTO, refundCents int64) {
	evt := events.BookingEvent{
		BookingID:       dto.ID,
		GroupID:         dto.GroupID,
		RoomID:          dto.RoomID,
		HotelID:         dto.HotelID,
		GuestID:         dto.GuestID,
		CheckIn:         dto.CheckIn,
		CheckOut:        dto.CheckOut,
		PaymentStatus:   dto.PaymentStatus,
		OccupancyStatus: dto.OccupancyStatus,
		TotalCents:      dto.TotalCents,
		RefundCents:     refundCents,
		OccurredAt:      time.Now().UTC(),
	}
	if err := s.publisher.Publish(ctx, eventType, dto.GroupID.String(), evt); err != nil {
		s.logger.Warn("failed to publish booking event",
			zap.String("type", eventType),
			zap.String("booking_id", dto.ID.String()),
			zap.Error(err),
		)
	}
}

// ParseStayInterval validates and parses a [checkIn, checkOut) date pair.
// Rejected before any side effect: reversed or empty intervals, and check-in
// before the server's local calendar day.
func ParseStayInterval(checkInStr, checkOutStr string) (time.Time, time.Time, error) {
	checkIn, err := time.Parse(time.DateOnly, checkInStr)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("invalid check_in date (use YYYY-MM-DD)")
	}
	checkOut, err := time.Parse(time.DateOnly, checkOutStr)
	if err != nil {
		return time.Time{}, time.Time{}, domain.NewValidationError("invalid check_out date (use YYYY-MM-DD)")
	}
	if !checkIn.Before(checkOut) {
		return time.Time{}, time.Time{}, domain.NewValidationError("check_in must be before check_out")
	}

	now := time.Now()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	if checkIn.Before(today) {
		return time.Time{}, time.Time{}, domain.NewValidationError("check_in cannot be in the past")
	}
	return checkIn, checkOut, nil
}

// allocateDiscount splits a group-level discount across bookings in
// proportion to their subtotals, putting the rounding remainder on the last
// booking so the per-booking discounts always sum to the group discount.
func allocateDiscount(decision *PromotionDecision, subtotals []int64) []int64 {
	discounts := make([]int64, len(subtotals))
	if decision == nil || !decision.Valid || decision.DiscountCents == 0 {
		return discounts
	}

	var combined int64
	for _, sub := range subtotals {
		combined += sub
	}
	if combined == 0 {
		return discounts
	}

	var allocated int64
	for i, sub := range subtotals {
		if i == len(subtotals)-1 {
			discounts[i] = decision.DiscountCents - allocated
			break
		}
		discounts[i] = decision.DiscountCents * sub / combined
		allocated += discounts[i]
	}
	return discounts
}
