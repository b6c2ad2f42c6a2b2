package application

import (
	"time"

	"github.com/google/uuid"

	bookingDomain "github.com/harborstay/service-booking/internal/domain/booking"
	roomDomain "github.com/harborstay/service-booking/internal/domain/room"
)

// BookingDTO is the API response representation of a booking.
type BookingDTO struct {
	ID              uuid.UUID  `json:"id"`
	GroupID         uuid.UUID  `json:"group_id"`
	RoomID          uuid.UUID  `json:"room_id"`
	HotelID         uuid.UUID  `json:"hotel_id"`
	GuestID         string     `json:"guest_id"`
	CheckIn         string     `json:"check_in"`
	CheckOut        string     `json:"check_out"`
	Adults          int        `json:"adults"`
	Children        int        `json:"children"`
	Nights          int        `json:"nights"`
	UnitPriceCents  int64      `json:"unit_price_cents"`
	Currency        string     `json:"currency"`
	PromotionCode   string     `json:"promotion_code,omitempty"`
	DiscountCents   int64      `json:"discount_cents"`
	TotalCents      int64      `json:"total_cents"`
	PaymentStatus   string     `json:"payment_status"`
	OccupancyStatus string     `json:"occupancy_status"`
	PaidCents       int64      `json:"paid_cents"`
	RefundCents     *int64     `json:"refund_cents,omitempty"`
	FeeCents        *int64     `json:"fee_cents,omitempty"`
	ActualCheckOut  *time.Time `json:"actual_check_out,omitempty"`
	FinalTotalCents *int64     `json:"final_total_cents,omitempty"`
	CreatedAt       time.Time  `json:"created_at"`
}

// RoomDTO is the API response representation of a room.
type RoomDTO struct {
	ID           uuid.UUID `json:"id"`
	HotelID      uuid.UUID `json:"hotel_id"`
	Number       string    `json:"number"`
	NightlyRate  int64     `json:"nightly_rate_cents"`
	MaxAdults    int       `json:"max_adults"`
	MaxChildren  int       `json:"max_children"`
	Housekeeping string    `json:"housekeeping_status"`
}

func toBookingDTO(b *bookingDomain.Booking) BookingDTO {
	return BookingDTO{
		ID:              b.ID(),
		GroupID:         b.GroupID(),
		RoomID:          b.RoomID(),
		HotelID:         b.HotelID(),
		GuestID:         b.GuestID(),
		CheckIn:         b.CheckIn().Format(time.DateOnly),
		CheckOut:        b.CheckOut().Format(time.DateOnly),
		Adults:          b.Adults(),
		Children:        b.Children(),
		Nights:          b.BookedNights(),
		UnitPriceCents:  b.UnitPriceCents(),
		Currency:        b.Currency(),
		PromotionCode:   b.PromotionCode(),
		DiscountCents:   b.DiscountCents(),
		TotalCents:      b.TotalCents(),
		PaymentStatus:   string(b.PaymentStatus()),
		OccupancyStatus: string(b.OccupancyStatus()),
		PaidCents:       b.PaidCents(),
		RefundCents:     b.RefundCents(),
		FeeCents:        b.FeeCents(),
		ActualCheckOut:  b.ActualCheckOut(),
		FinalTotalCents: b.FinalTotalCents(),
		CreatedAt:       b.CreatedAt(),
	}
}

func toRoomDTO(r *roomDomain.Room) RoomDTO {
	return RoomDTO{
		ID:           r.ID(),
		HotelID:      r.HotelID(),
		Number:       r.Number(),
		NightlyRate:  r.NightlyRate(),
		MaxAdults:    r.MaxAdults(),
		MaxChildren:  r.MaxChildren(),
		Housekeeping: string(r.Housekeeping()),
	}
}
