package booking

import (
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/service-booking/internal/domain"
)

// PaymentStatus is the money side of a booking's lifecycle.
type PaymentStatus string

const (
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentCanceled PaymentStatus = "canceled"
)

// OccupancyStatus is the physical side of a booking's lifecycle, distinct
// from payment status. canceled is an alternate terminal state reachable only
// from pending.
type OccupancyStatus string

const (
	OccupancyPending    OccupancyStatus = "pending"
	OccupancyCheckedIn  OccupancyStatus = "checkedin"
	OccupancyCheckedOut OccupancyStatus = "checkedout"
	OccupancyCompleted  OccupancyStatus = "completed"
	OccupancyCanceled   OccupancyStatus = "canceled"
)

// Booking is the aggregate root for a single room reservation. Multi-room
// requests produce one Booking per room sharing a group ID. The unit price is
// snapshotted at creation time and never changes afterwards, so later rate
// changes do not retroactively alter existing bookings.
type Booking struct {
	id              uuid.UUID
	groupID         uuid.UUID
	roomID          uuid.UUID
	hotelID         uuid.UUID
	guestID         string
	checkIn         time.Time
	checkOut        time.Time
	adults          int
	children        int
	unitPriceCents  int64
	currency        string
	promotionID     *uuid.UUID
	promotionCode   string
	discountCents   int64
	paymentStatus   PaymentStatus
	occupancyStatus OccupancyStatus
	paidCents       int64
	refundCents     *int64
	feeCents        *int64
	actualCheckOut  *time.Time
	finalTotalCents *int64
	version         int64
	createdAt       time.Time
	updatedAt       time.Time
}

// NewBooking creates a booking in pending payment / pending occupancy state.
// Date-interval and capacity validation happens upstream in the booking
// service, which sees the room reference data.
func NewBooking(groupID, roomID, hotelID uuid.UUID, guestID string, checkIn, checkOut time.Time, adults, children int, unitPriceCents int64, currency string) *Booking {
	now := time.Now().UTC()
	return &Booking{
		id:              uuid.New(),
		groupID:         groupID,
		roomID:          roomID,
		hotelID:         hotelID,
		guestID:         guestID,
		checkIn:         checkIn,
		checkOut:        checkOut,
		adults:          adults,
		children:        children,
		unitPriceCents:  unitPriceCents,
		currency:        currency,
		paymentStatus:   PaymentPending,
		occupancyStatus: OccupancyPending,
		version:         1,
		createdAt:       now,
		updatedAt:       now,
	}
}

// Reconstitute rebuilds a Booking from persisted data.
func Reconstitute(
	id, groupID, roomID, hotelID uuid.UUID,
	guestID string,
	checkIn, checkOut time.Time,
	adults, children int,
	unitPriceCents int64,
	currency string,
	promotionID *uuid.UUID,
	promotionCode string,
	discountCents int64,
	paymentStatus PaymentStatus,
	occupancyStatus OccupancyStatus,
	paidCents int64,
	refundCents, feeCents *int64,
	actualCheckOut *time.Time,
	finalTotalCents *int64,
	version int64,
	createdAt, updatedAt time.Time,
) *Booking {
	return &Booking{
		id: id, groupID: groupID, roomID: roomID, hotelID: hotelID,
		guestID: guestID, checkIn: checkIn, checkOut: checkOut,
		adults: adults, children: children,
		unitPriceCents: unitPriceCents, currency: currency,
		promotionID: promotionID, promotionCode: promotionCode, discountCents: discountCents,
		paymentStatus: paymentStatus, occupancyStatus: occupancyStatus,
		paidCents: paidCents, refundCents: refundCents, feeCents: feeCents,
		actualCheckOut: actualCheckOut, finalTotalCents: finalTotalCents,
		version: version, createdAt: createdAt, updatedAt: updatedAt,
	}
}

// --- Getters ---

func (b *Booking) ID() uuid.UUID                    { return b.id }
func (b *Booking) GroupID() uuid.UUID               { return b.groupID }
func (b *Booking) RoomID() uuid.UUID                { return b.roomID }
func (b *Booking) HotelID() uuid.UUID               { return b.hotelID }
func (b *Booking) GuestID() string                  { return b.guestID }
func (b *Booking) CheckIn() time.Time               { return b.checkIn }
func (b *Booking) CheckOut() time.Time              { return b.checkOut }
func (b *Booking) Adults() int                      { return b.adults }
func (b *Booking) Children() int                    { return b.children }
func (b *Booking) UnitPriceCents() int64            { return b.unitPriceCents }
func (b *Booking) Currency() string                 { return b.currency }
func (b *Booking) PromotionID() *uuid.UUID          { return b.promotionID }
func (b *Booking) PromotionCode() string            { return b.promotionCode }
func (b *Booking) DiscountCents() int64             { return b.discountCents }
func (b *Booking) PaymentStatus() PaymentStatus     { return b.paymentStatus }
func (b *Booking) OccupancyStatus() OccupancyStatus { return b.occupancyStatus }
func (b *Booking) PaidCents() int64                 { return b.paidCents }
func (b *Booking) RefundCents() *int64              { return b.refundCents }
func (b *Booking) FeeCents() *int64                 { return b.feeCents }
func (b *Booking) ActualCheckOut() *time.Time       { return b.actualCheckOut }
func (b *Booking) FinalTotalCents() *int64          { return b.finalTotalCents }
func (b *Booking) Version() int64                   { return b.version }
func (b *Booking) CreatedAt() time.Time             { return b.createdAt }
func (b *Booking) UpdatedAt() time.Time             { return b.updatedAt }

// BookedNights returns the number of nights originally booked.
func (b *Booking) BookedNights() int {
	return Nights(b.checkIn, b.checkOut)
}

// TotalCents is the agreed price: booked nights times the unit price snapshot,
// minus the discount applied at creation.
func (b *Booking) TotalCents() int64 {
	total := int64(b.BookedNights())*b.unitPriceCents - b.discountCents
	if total < 0 {
		total = 0
	}
	return total
}

// ApplyPromotion records the promotion applied at creation time. Only valid
// before the booking has been persisted and paid.
func (b *Booking) ApplyPromotion(promotionID uuid.UUID, code string, discountCents int64) error {
	if b.paymentStatus != PaymentPending {
		return domain.NewInvalidStateError("promotion can only be applied to a pending booking")
	}
	b.promotionID = &promotionID
	b.promotionCode = code
	b.discountCents = discountCents
	b.updatedAt = time.Now().UTC()
	return nil
}

// --- State transitions ---

// MarkPaid transitions payment status from pending to paid and records the
// paid amount. Re-invocation on an already-paid booking is a no-op so that
// duplicate client retries are tolerated; the returned bool reports whether
// anything changed.
func (b *Booking) MarkPaid() (bool, error) {
	switch b.paymentStatus {
	case PaymentPaid:
		return false, nil
	case PaymentCanceled:
		return false, domain.NewInvalidTransitionError(string(PaymentCanceled), string(PaymentPaid))
	}
	b.paymentStatus = PaymentPaid
	b.paidCents = b.TotalCents()
	b.updatedAt = time.Now().UTC()
	return true, nil
}

// Cancel transitions the booking to its terminal canceled state and persists
// the refund split so it stays queryable afterwards. Only allowed before
// physical check-in while payment status is pending or paid.
func (b *Booking) Cancel(refundCents, feeCents int64) error {
	if b.occupancyStatus != OccupancyPending {
		return domain.NewInvalidStateError("booking cannot be canceled after check-in (occupancy status %s)", b.occupancyStatus)
	}
	if b.paymentStatus == PaymentCanceled {
		return domain.NewInvalidTransitionError(string(PaymentCanceled), string(PaymentCanceled))
	}
	now := time.Now().UTC()
	b.paymentStatus = PaymentCanceled
	b.occupancyStatus = OccupancyCanceled
	b.refundCents = &refundCents
	b.feeCents = &feeCents
	b.updatedAt = now
	return nil
}

// CheckInGuest transitions occupancy from pending to checkedin. Requires the
// booking to be paid.
func (b *Booking) CheckInGuest() error {
	if b.occupancyStatus != OccupancyPending {
		return domain.NewInvalidTransitionError(string(b.occupancyStatus), string(OccupancyCheckedIn))
	}
	if b.paymentStatus != PaymentPaid {
		return domain.NewInvalidStateError("check-in requires payment status %s, got %s", PaymentPaid, b.paymentStatus)
	}
	b.occupancyStatus = OccupancyCheckedIn
	b.updatedAt = time.Now().UTC()
	return nil
}

// CheckOutGuest transitions occupancy from checkedin to checkedout, recording
// the actual checkout time and the finalized invoice. Any amount collected at
// the desk settles into the paid amount; any refund is tracked on the booking.
func (b *Booking) CheckOutGuest(actual time.Time, inv Invoice) error {
	if b.occupancyStatus != OccupancyCheckedIn {
		return domain.NewInvalidTransitionError(string(b.occupancyStatus), string(OccupancyCheckedOut))
	}
	now := time.Now().UTC()
	actualUTC := actual.UTC()
	b.occupancyStatus = OccupancyCheckedOut
	b.actualCheckOut = &actualUTC
	total := inv.TotalCents
	b.finalTotalCents = &total
	if inv.RefundCents > 0 {
		r := inv.RefundCents
		b.refundCents = &r
	}
	b.paidCents = total
	b.updatedAt = now
	return nil
}

// Complete transitions occupancy from checkedout to completed. This is an
// explicit staff action after housekeeping has cleared the room.
func (b *Booking) Complete() error {
	if b.occupancyStatus != OccupancyCheckedOut {
		return domain.NewInvalidTransitionError(string(b.occupancyStatus), string(OccupancyCompleted))
	}
	b.occupancyStatus = OccupancyCompleted
	b.updatedAt = time.Now().UTC()
	return nil
}

// IncrementVersion bumps the version for optimistic locking.
func (b *Booking) IncrementVersion() {
	b.version++
	b.updatedAt = time.Now().UTC()
}
