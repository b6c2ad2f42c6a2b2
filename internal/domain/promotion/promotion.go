package promotion

import (
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/service-booking/internal/domain"
)

// DiscountType represents the type of discount.
type DiscountType string

const (
	DiscountTypePercent DiscountType = "percent"
	DiscountTypeFixed   DiscountType = "fixed"
)

// RejectionReason identifies why a promotion could not be applied. Rules are
// evaluated in a fixed order, first failure wins, so the reason for a given
// input never changes between a preview call and the authoritative call.
type RejectionReason string

const (
	ReasonNotFound      RejectionReason = "not_found"
	ReasonNotYetStarted RejectionReason = "not_yet_started"
	ReasonExpired       RejectionReason = "expired"
	ReasonBelowMinimum  RejectionReason = "below_minimum"
	ReasonHotelMismatch RejectionReason = "hotel_mismatch"
)

// Rejection is returned when a promotion fails validation. The booking flow
// treats it as non-fatal: the caller may proceed at full price or abort.
type Rejection struct {
	Reason  RejectionReason
	Message string
}

func (r *Rejection) Error() string { return r.Message }

// Promotion is the aggregate root for promotional codes. Codes are unique
// case-insensitively; they are stored uppercased.
type Promotion struct {
	id             uuid.UUID
	code           string
	discountType   DiscountType
	discountValue  int64 // percent (1-100) or fixed amount in minor units
	minOrderAmount int64 // 0 means no minimum
	maxDiscount    int64 // absolute cap for percent type, 0 means uncapped
	hotelID        *uuid.UUID
	active         bool
	startDate      time.Time
	endDate        time.Time
	createdAt      time.Time
	updatedAt      time.Time
}

// NewPromotion creates a new promotion.
func NewPromotion(code string, discountType DiscountType, discountValue, minOrderAmount, maxDiscount int64, hotelID *uuid.UUID, startDate, endDate time.Time) (*Promotion, error) {
	code = strings.ToUpper(strings.TrimSpace(code))
	if code == "" {
		return nil, domain.NewValidationError("promotion code is required")
	}
	if discountType != DiscountTypePercent && discountType != DiscountTypeFixed {
		return nil, domain.NewValidationError("invalid discount type: %s", discountType)
	}
	if discountValue <= 0 {
		return nil, domain.NewValidationError("discount value must be positive")
	}
	if discountType == DiscountTypePercent && discountValue > 100 {
		return nil, domain.NewValidationError("percent discount cannot exceed 100")
	}
	if discountType == DiscountTypeFixed && maxDiscount > 0 {
		return nil, domain.NewValidationError("max discount cap applies to percent type only")
	}
	if endDate.Before(startDate) {
		return nil, domain.NewValidationError("end date must be after start date")
	}

	now := time.Now().UTC()
	return &Promotion{
		id:             uuid.New(),
		code:           code,
		discountType:   discountType,
		discountValue:  discountValue,
		minOrderAmount: minOrderAmount,
		maxDiscount:    maxDiscount,
		hotelID:        hotelID,
		active:         true,
		startDate:      startDate,
		endDate:        endDate,
		createdAt:      now,
		updatedAt:      now,
	}, nil
}

// Reconstitute rebuilds a Promotion from persistence.
func Reconstitute(id uuid.UUID, code string, discountType DiscountType, discountValue, minOrderAmount, maxDiscount int64, hotelID *uuid.UUID, active bool, startDate, endDate, createdAt, updatedAt time.Time) *Promotion {
	return &Promotion{
		id: id, code: code, discountType: discountType, discountValue: discountValue,
		minOrderAmount: minOrderAmount, maxDiscount: maxDiscount,
		hotelID: hotelID, active: active,
		startDate: startDate, endDate: endDate,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

func (p *Promotion) ID() uuid.UUID              { return p.id }
func (p *Promotion) Code() string               { return p.code }
func (p *Promotion) DiscountType() DiscountType { return p.discountType }
func (p *Promotion) DiscountValue() int64       { return p.discountValue }
func (p *Promotion) MinOrderAmount() int64      { return p.minOrderAmount }
func (p *Promotion) MaxDiscount() int64         { return p.maxDiscount }
func (p *Promotion) HotelID() *uuid.UUID        { return p.hotelID }
func (p *Promotion) Active() bool               { return p.active }
func (p *Promotion) StartDate() time.Time       { return p.startDate }
func (p *Promotion) EndDate() time.Time         { return p.endDate }
func (p *Promotion) CreatedAt() time.Time       { return p.createdAt }
func (p *Promotion) UpdatedAt() time.Time       { return p.updatedAt }

// Deactivate turns the promotion off.
func (p *Promotion) Deactivate() {
	p.active = false
	p.updatedAt = time.Now().UTC()
}

// CheckUsable validates the promotion against an order, evaluating the rules
// in a fixed order: validity window, minimum order amount, hotel scope.
// The existence/active rule is evaluated by the caller via FindByCode.
// hotelIDs is the set of hotels the candidate rooms belong to.
func (p *Promotion) CheckUsable(now time.Time, amount int64, hotelIDs []uuid.UUID) *Rejection {
	if now.Before(p.startDate) {
		return &Rejection{Reason: ReasonNotYetStarted, Message: "promotion " + p.code + " has not started yet"}
	}
	if now.After(p.endDate) {
		return &Rejection{Reason: ReasonExpired, Message: "promotion " + p.code + " has expired"}
	}
	if p.minOrderAmount > 0 && amount < p.minOrderAmount {
		return &Rejection{Reason: ReasonBelowMinimum, Message: "order amount is below the promotion minimum"}
	}
	if p.hotelID != nil {
		for _, h := range hotelIDs {
			if h != *p.hotelID {
				return &Rejection{Reason: ReasonHotelMismatch, Message: "promotion " + p.code + " is limited to another hotel"}
			}
		}
	}
	return nil
}

// CalculateDiscount computes the discount for the given amount. Percent
// discounts are capped by the max discount when set; fixed discounts never
// exceed the amount, so the final total cannot go negative.
func (p *Promotion) CalculateDiscount(amount int64) int64 {
	var discount int64
	switch p.discountType {
	case DiscountTypePercent:
		discount = amount * p.discountValue / 100
		if p.maxDiscount > 0 && discount > p.maxDiscount {
			discount = p.maxDiscount
		}
	case DiscountTypeFixed:
		discount = p.discountValue
	}
	if discount > amount {
		discount = amount
	}
	return discount
}

// NormalizeCode canonicalizes a user-supplied promotion code for lookup.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
