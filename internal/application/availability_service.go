package application

import (
	"context"
	"time"

	"github.com/google/uuid"
	"go.uber.org/zap"

	bookingDomain "github.com/harborstay/service-booking/internal/domain/booking"
)

// AvailabilityService answers whether rooms are free for a date interval.
// A room is "not bookable" for an interval if any non-canceled booking
// overlaps it, regardless of the room's stored housekeeping status.
type AvailabilityService struct {
	bookings bookingDomain.BookingRepository
	logger   *zap.Logger
}

// NewAvailabilityService creates a new AvailabilityService.
func NewAvailabilityService(bookings bookingDomain.BookingRepository, logger *zap.Logger) *AvailabilityService {
	return &AvailabilityService{bookings: bookings, logger: logger}
}

// IsFree reports whether the room has no overlapping non-canceled booking for
// [checkIn, checkOut). Date-interval validation happens upstream.
func (s *AvailabilityService) IsFree(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) (bool, error) {
	overlapping, err := s.bookings.FindOverlapping(ctx, roomID, checkIn, checkOut)
	if err != nil {
		return false, err
	}
	return len(overlapping) == 0, nil
}

// IsFreeBulk checks several rooms for the same interval.
func (s *AvailabilityService) IsFreeBulk(ctx context.Context, roomIDs []uuid.UUID, checkIn, checkOut time.Time) (map[uuid.UUID]bool, error) {
	result := make(map[uuid.UUID]bool, len(roomIDs))
	for _, id := range roomIDs {
		free, err := s.IsFree(ctx, id, checkIn, checkOut)
		if err != nil {
			return nil, err
		}
		result[id] = free
	}
	return result, nil
}
