package booking

import (
	"time"

	"github.com/google/uuid"
)

// PaymentRecord is the authoritative record of money movement for a booking.
// Booking.paymentStatus is a denormalized mirror of this record kept
// consistent by the payment ledger.
type PaymentRecord struct {
	ID          uuid.UUID
	BookingID   uuid.UUID
	AmountCents int64
	Currency    string
	Method      string
	Status      PaymentStatus
	ExternalRef string
	CreatedAt   time.Time
	UpdatedAt   time.Time
}

// NewPaymentRecord creates a pending payment record for a booking.
func NewPaymentRecord(bookingID uuid.UUID, amountCents int64, currency string) *PaymentRecord {
	now := time.Now().UTC()
	return &PaymentRecord{
		ID:          uuid.New(),
		BookingID:   bookingID,
		AmountCents: amountCents,
		Currency:    currency,
		Status:      PaymentPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}
}

// Settle records the completed payment. The external reference is the code
// returned by the already-succeeded gateway call.
func (r *PaymentRecord) Settle(method, externalRef string) {
	r.Status = PaymentPaid
	r.Method = method
	r.ExternalRef = externalRef
	r.UpdatedAt = time.Now().UTC()
}

// Void marks the record canceled.
func (r *PaymentRecord) Void() {
	r.Status = PaymentCanceled
	r.UpdatedAt = time.Now().UTC()
}
