package room

import (
	"context"

	"github.com/google/uuid"
)

// RoomRepository defines persistence operations for rooms.
type RoomRepository interface {
	Save(ctx context.Context, r *Room) error
	Update(ctx context.Context, r *Room) error
	FindByID(ctx context.Context, id uuid.UUID) (*Room, error)

	// FindByIDs retrieves the given rooms. Missing IDs yield a not-found error.
	FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*Room, error)

	// FindByIDsForUpdate behaves like FindByIDs but acquires row-level locks.
	// Must be called inside a transaction; the locks serialize concurrent
	// booking attempts for the same rooms.
	FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*Room, error)

	ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]*Room, error)
}
