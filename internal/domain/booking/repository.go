package booking

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// BookingRepository defines the persistence contract for Booking aggregates.
type BookingRepository interface {
	// Save persists a new booking.
	Save(ctx context.Context, b *Booking) error

	// Update persists changes to an existing booking with optimistic locking.
	Update(ctx context.Context, b *Booking) error

	// FindByID retrieves a booking by its unique ID.
	FindByID(ctx context.Context, id uuid.UUID) (*Booking, error)

	// ListByGuest retrieves all bookings for a guest, newest first.
	ListByGuest(ctx context.Context, guestID string) ([]*Booking, error)

	// FindOverlapping returns the non-canceled bookings for a room whose
	// [checkIn, checkOut) interval overlaps the given one.
	FindOverlapping(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) ([]*Booking, error)
}

// PaymentRecordRepository defines persistence for payment records.
type PaymentRecordRepository interface {
	Save(ctx context.Context, r *PaymentRecord) error
	Update(ctx context.Context, r *PaymentRecord) error
	FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*PaymentRecord, error)
}

// Transactor runs a function inside a single database transaction. All
// repository calls made with the derived context share that transaction; it
// is the mechanism that prevents double-booking under concurrent requests.
type Transactor interface {
	WithinTx(ctx context.Context, fn func(ctx context.Context) error) error
}
