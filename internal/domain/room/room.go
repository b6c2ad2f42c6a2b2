package room

import (
	"time"

	"github.com/google/uuid"

	"github.com/harborstay/service-booking/internal/domain"
)

// HousekeepingStatus is the physical state of a room as tracked by staff.
// Bookability for an interval is decided by the availability check, not by
// this status.
type HousekeepingStatus string

const (
	StatusAvailable   HousekeepingStatus = "available"
	StatusOccupied    HousekeepingStatus = "occupied"
	StatusCleaning    HousekeepingStatus = "cleaning"
	StatusMaintenance HousekeepingStatus = "maintenance"
)

// Room is the reference entity for a bookable hotel room.
type Room struct {
	id             uuid.UUID
	hotelID        uuid.UUID
	number         string
	nightlyRate    int64 // minor currency units per night
	maxAdults      int
	maxChildren    int
	housekeeping   HousekeepingStatus
	createdAt      time.Time
	updatedAt      time.Time
}

// NewRoom creates a room in the available housekeeping state.
func NewRoom(hotelID uuid.UUID, number string, nightlyRate int64, maxAdults, maxChildren int) (*Room, error) {
	if number == "" {
		return nil, domain.NewValidationError("room number is required")
	}
	if nightlyRate <= 0 {
		return nil, domain.NewValidationError("nightly rate must be positive")
	}
	if maxAdults <= 0 {
		return nil, domain.NewValidationError("max adults must be positive")
	}
	if maxChildren < 0 {
		return nil, domain.NewValidationError("max children cannot be negative")
	}

	now := time.Now().UTC()
	return &Room{
		id:           uuid.New(),
		hotelID:      hotelID,
		number:       number,
		nightlyRate:  nightlyRate,
		maxAdults:    maxAdults,
		maxChildren:  maxChildren,
		housekeeping: StatusAvailable,
		createdAt:    now,
		updatedAt:    now,
	}, nil
}

// Reconstitute rebuilds a Room from persistence.
func Reconstitute(id, hotelID uuid.UUID, number string, nightlyRate int64, maxAdults, maxChildren int, housekeeping HousekeepingStatus, createdAt, updatedAt time.Time) *Room {
	return &Room{
		id: id, hotelID: hotelID, number: number, nightlyRate: nightlyRate,
		maxAdults: maxAdults, maxChildren: maxChildren, housekeeping: housekeeping,
		createdAt: createdAt, updatedAt: updatedAt,
	}
}

func (r *Room) ID() uuid.UUID                    { return r.id }
func (r *Room) HotelID() uuid.UUID               { return r.hotelID }
func (r *Room) Number() string                   { return r.number }
func (r *Room) NightlyRate() int64               { return r.nightlyRate }
func (r *Room) MaxAdults() int                   { return r.maxAdults }
func (r *Room) MaxChildren() int                 { return r.maxChildren }
func (r *Room) Housekeeping() HousekeepingStatus { return r.housekeeping }
func (r *Room) CreatedAt() time.Time             { return r.createdAt }
func (r *Room) UpdatedAt() time.Time             { return r.updatedAt }

// CanAccommodate checks the requested guest counts against the room's
// configured maximums.
func (r *Room) CanAccommodate(adults, children int) error {
	if adults <= 0 {
		return domain.NewValidationError("at least one adult is required")
	}
	if adults > r.maxAdults {
		return domain.NewValidationError("room %s allows at most %d adults, got %d", r.number, r.maxAdults, adults)
	}
	if children > r.maxChildren {
		return domain.NewValidationError("room %s allows at most %d children, got %d", r.number, r.maxChildren, children)
	}
	return nil
}

// SetHousekeeping moves the room to the given housekeeping status.
func (r *Room) SetHousekeeping(status HousekeepingStatus) error {
	switch status {
	case StatusAvailable, StatusOccupied, StatusCleaning, StatusMaintenance:
	default:
		return domain.NewValidationError("unknown housekeeping status: %s", status)
	}
	r.housekeeping = status
	r.updatedAt = time.Now().UTC()
	return nil
}
