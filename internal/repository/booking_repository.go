package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborstay/service-booking/internal/domain"
	bookingDomain "github.com/harborstay/service-booking/internal/domain/booking"
)

// BookingModel is the GORM persistence model for the bookings table.
type BookingModel struct {
	ID              uuid.UUID  `gorm:"type:uuid;primaryKey"`
	GroupID         uuid.UUID  `gorm:"type:uuid;not null;index"`
	RoomID          uuid.UUID  `gorm:"type:uuid;not null;index:idx_bookings_room_interval"`
	HotelID         uuid.UUID  `gorm:"type:uuid;not null"`
	GuestID         string     `gorm:"type:varchar(255);not null;index"`
	CheckIn         time.Time  `gorm:"type:date;not null;index:idx_bookings_room_interval"`
	CheckOut        time.Time  `gorm:"type:date;not null"`
	Adults          int        `gorm:"not null"`
	Children        int        `gorm:"not null;default:0"`
	UnitPriceCents  int64      `gorm:"not null"`
	Currency        string     `gorm:"type:varchar(3);not null"`
	PromotionID     *uuid.UUID `gorm:"type:uuid"`
	PromotionCode   string     `gorm:"type:varchar(50)"`
	DiscountCents   int64      `gorm:"not null;default:0"`
	PaymentStatus   string     `gorm:"type:varchar(20);not null;default:'pending';index"`
	OccupancyStatus string     `gorm:"type:varchar(20);not null;default:'pending'"`
	PaidCents       int64      `gorm:"not null;default:0"`
	RefundCents     *int64
	FeeCents        *int64
	ActualCheckOut  *time.Time `gorm:"type:timestamptz"`
	FinalTotalCents *int64
	Version         int64     `gorm:"not null;default:1"`
	CreatedAt       time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt       time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName specifies the table name for GORM.
func (BookingModel) TableName() string {
	return "bookings"
}

// BookingRepositoryImpl is the GORM-based implementation of BookingRepository.
type BookingRepositoryImpl struct {
	db *gorm.DB
}

// NewBookingRepository creates a new GORM-based booking repository.
func NewBookingRepository(db *gorm.DB) *BookingRepositoryImpl {
	return &BookingRepositoryImpl{db: db}
}

// Save persists a new booking aggregate.
func (r *BookingRepositoryImpl) Save(ctx context.Context, b *bookingDomain.Booking) error {
	return conn(ctx, r.db).Create(toBookingModel(b)).Error
}

// Update persists changes to an existing booking with optimistic locking.
func (r *BookingRepositoryImpl) Update(ctx context.Context, b *bookingDomain.Booking) error {
	model := toBookingModel(b)
	previousVersion := b.Version() - 1

	result := conn(ctx, r.db).
		Model(&BookingModel{}).
		Where("id = ? AND version = ?", model.ID, previousVersion).
		Select("*").
		Updates(model)

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return domain.NewConflictError("booking was modified by another transaction")
	}
	return nil
}

// FindByID retrieves a booking by its unique ID.
func (r *BookingRepositoryImpl) FindByID(ctx context.Context, id uuid.UUID) (*bookingDomain.Booking, error) {
	var model BookingModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Booking", id.String())
		}
		return nil, err
	}
	return toBookingDomain(&model), nil
}

// ListByGuest retrieves all bookings for a guest, newest first.
func (r *BookingRepositoryImpl) ListByGuest(ctx context.Context, guestID string) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := conn(ctx, r.db).
		Where("guest_id = ?", guestID).
		Order("created_at DESC").
		Find(&models).Error; err != nil {
		return nil, err
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toBookingDomain(&models[i])
	}
	return bookings, nil
}

// FindOverlapping returns non-canceled bookings for a room whose half-open
// interval overlaps [checkIn, checkOut). A candidate [a,b) conflicts with an
// existing [c,d) iff a < d AND c < b, so boundary equality (same-day
// turnover) is not a conflict.
func (r *BookingRepositoryImpl) FindOverlapping(ctx context.Context, roomID uuid.UUID, checkIn, checkOut time.Time) ([]*bookingDomain.Booking, error) {
	var models []BookingModel
	if err := conn(ctx, r.db).
		Where("room_id = ?", roomID).
		Where("payment_status <> ?", string(bookingDomain.PaymentCanceled)).
		Where("check_in < ? AND ? < check_out", checkOut, checkIn).
		Find(&models).Error; err != nil {
		return nil, err
	}

	bookings := make([]*bookingDomain.Booking, len(models))
	for i := range models {
		bookings[i] = toBookingDomain(&models[i])
	}
	return bookings, nil
}

// toBookingDomain maps a BookingModel to the domain Booking aggregate.
func toBookingDomain(m *BookingModel) *bookingDomain.Booking {
	return bookingDomain.Reconstitute(
		m.ID, m.GroupID, m.RoomID, m.HotelID,
		m.GuestID,
		m.CheckIn, m.CheckOut,
		m.Adults, m.Children,
		m.UnitPriceCents,
		m.Currency,
		m.PromotionID,
		m.PromotionCode,
		m.DiscountCents,
		bookingDomain.PaymentStatus(m.PaymentStatus),
		bookingDomain.OccupancyStatus(m.OccupancyStatus),
		m.PaidCents,
		m.RefundCents, m.FeeCents,
		m.ActualCheckOut,
		m.FinalTotalCents,
		m.Version,
		m.CreatedAt, m.UpdatedAt,
	)
}

// toBookingModel maps a domain Booking aggregate to a BookingModel.
func toBookingModel(b *bookingDomain.Booking) *BookingModel {
	return &BookingModel{
		ID:              b.ID(),
		GroupID:         b.GroupID(),
		RoomID:          b.RoomID(),
		HotelID:         b.HotelID(),
		GuestID:         b.GuestID(),
		CheckIn:         b.CheckIn(),
		CheckOut:        b.CheckOut(),
		Adults:          b.Adults(),
		Children:        b.Children(),
		UnitPriceCents:  b.UnitPriceCents(),
		Currency:        b.Currency(),
		PromotionID:     b.PromotionID(),
		PromotionCode:   b.PromotionCode(),
		DiscountCents:   b.DiscountCents(),
		PaymentStatus:   string(b.PaymentStatus()),
		OccupancyStatus: string(b.OccupancyStatus()),
		PaidCents:       b.PaidCents(),
		RefundCents:     b.RefundCents(),
		FeeCents:        b.FeeCents(),
		ActualCheckOut:  b.ActualCheckOut(),
		FinalTotalCents: b.FinalTotalCents(),
		Version:         b.Version(),
		CreatedAt:       b.CreatedAt(),
		UpdatedAt:       b.UpdatedAt(),
	}
}
