package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/harborstay/service-booking/internal/domain"
	roomDomain "github.com/harborstay/service-booking/internal/domain/room"
)

// RoomModel is the GORM model for the rooms table.
type RoomModel struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey"`
	HotelID      uuid.UUID `gorm:"type:uuid;not null;index"`
	Number       string    `gorm:"type:varchar(20);not null"`
	NightlyRate  int64     `gorm:"not null"`
	MaxAdults    int       `gorm:"not null"`
	MaxChildren  int       `gorm:"not null;default:0"`
	Housekeeping string    `gorm:"type:varchar(20);not null;default:'available'"`
	CreatedAt    time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt    time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName sets the table name.
func (RoomModel) TableName() string { return "rooms" }

// GormRoomRepository implements RoomRepository using GORM.
type GormRoomRepository struct {
	db *gorm.DB
}

// NewGormRoomRepository creates a new GormRoomRepository.
func NewGormRoomRepository(db *gorm.DB) *GormRoomRepository {
	return &GormRoomRepository{db: db}
}

// Save persists a new room.
func (r *GormRoomRepository) Save(ctx context.Context, rm *roomDomain.Room) error {
	return conn(ctx, r.db).Create(toRoomModel(rm)).Error
}

// Update updates a room.
func (r *GormRoomRepository) Update(ctx context.Context, rm *roomDomain.Room) error {
	return conn(ctx, r.db).Save(toRoomModel(rm)).Error
}

// FindByID retrieves a room by ID.
func (r *GormRoomRepository) FindByID(ctx context.Context, id uuid.UUID) (*roomDomain.Room, error) {
	var model RoomModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Room", id.String())
		}
		return nil, err
	}
	return toRoomDomain(&model), nil
}

// FindByIDs retrieves the given rooms without locking.
func (r *GormRoomRepository) FindByIDs(ctx context.Context, ids []uuid.UUID) ([]*roomDomain.Room, error) {
	return r.findByIDs(ctx, ids, false)
}

// FindByIDsForUpdate retrieves the given rooms with SELECT ... FOR UPDATE.
// The rows are ordered by ID so concurrent multi-room requests acquire locks
// in a consistent order and cannot deadlock each other.
func (r *GormRoomRepository) FindByIDsForUpdate(ctx context.Context, ids []uuid.UUID) ([]*roomDomain.Room, error) {
	return r.findByIDs(ctx, ids, true)
}

func (r *GormRoomRepository) findByIDs(ctx context.Context, ids []uuid.UUID, forUpdate bool) ([]*roomDomain.Room, error) {
	q := conn(ctx, r.db).Where("id IN ?", ids).Order("id ASC")
	if forUpdate {
		q = q.Clauses(clause.Locking{Strength: "UPDATE"})
	}

	var models []RoomModel
	if err := q.Find(&models).Error; err != nil {
		return nil, err
	}
	if len(models) != len(ids) {
		found := make(map[uuid.UUID]bool, len(models))
		for i := range models {
			found[models[i].ID] = true
		}
		for _, id := range ids {
			if !found[id] {
				return nil, domain.NewNotFoundError("Room", id.String())
			}
		}
	}

	rooms := make([]*roomDomain.Room, len(models))
	for i := range models {
		rooms[i] = toRoomDomain(&models[i])
	}
	return rooms, nil
}

// ListByHotel retrieves all rooms of a hotel.
func (r *GormRoomRepository) ListByHotel(ctx context.Context, hotelID uuid.UUID) ([]*roomDomain.Room, error) {
	var models []RoomModel
	if err := conn(ctx, r.db).
		Where("hotel_id = ?", hotelID).
		Order("number ASC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	rooms := make([]*roomDomain.Room, len(models))
	for i := range models {
		rooms[i] = toRoomDomain(&models[i])
	}
	return rooms, nil
}

func toRoomDomain(m *RoomModel) *roomDomain.Room {
	return roomDomain.Reconstitute(
		m.ID, m.HotelID, m.Number, m.NightlyRate,
		m.MaxAdults, m.MaxChildren,
		roomDomain.HousekeepingStatus(m.Housekeeping),
		m.CreatedAt, m.UpdatedAt,
	)
}

func toRoomModel(rm *roomDomain.Room) *RoomModel {
	return &RoomModel{
		ID:           rm.ID(),
		HotelID:      rm.HotelID(),
		Number:       rm.Number(),
		NightlyRate:  rm.NightlyRate(),
		MaxAdults:    rm.MaxAdults(),
		MaxChildren:  rm.MaxChildren(),
		Housekeeping: string(rm.Housekeeping()),
		CreatedAt:    rm.CreatedAt(),
		UpdatedAt:    rm.UpdatedAt(),
	}
}
