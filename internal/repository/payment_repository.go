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

// PaymentRecordModel is the GORM model for the payment_records table.
type PaymentRecordModel struct {
	ID          uuid.UUID `gorm:"type:uuid;primaryKey"`
	BookingID   uuid.UUID `gorm:"type:uuid;uniqueIndex;not null"`
	AmountCents int64     `gorm:"not null"`
	Currency    string    `gorm:"type:varchar(3);not null"`
	Method      string    `gorm:"type:varchar(50)"`
	Status      string    `gorm:"type:varchar(20);not null;default:'pending'"`
	ExternalRef string    `gorm:"type:varchar(255)"`
	CreatedAt   time.Time `gorm:"type:timestamptz;not null;default:now()"`
	UpdatedAt   time.Time `gorm:"type:timestamptz;not null;default:now()"`
}

// TableName sets the table name.
func (PaymentRecordModel) TableName() string { return "payment_records" }

// PaymentRecordRepositoryImpl is the GORM-based payment record repository.
type PaymentRecordRepositoryImpl struct {
	db *gorm.DB
}

// NewPaymentRecordRepository creates a new payment record repository.
func NewPaymentRecordRepository(db *gorm.DB) *PaymentRecordRepositoryImpl {
	return &PaymentRecordRepositoryImpl{db: db}
}

// Save persists a new payment record.
func (r *PaymentRecordRepositoryImpl) Save(ctx context.Context, rec *bookingDomain.PaymentRecord) error {
	return conn(ctx, r.db).Create(toPaymentModel(rec)).Error
}

// Update persists changes to an existing payment record.
func (r *PaymentRecordRepositoryImpl) Update(ctx context.Context, rec *bookingDomain.PaymentRecord) error {
	return conn(ctx, r.db).
		Model(&PaymentRecordModel{}).
		Where("id = ?", rec.ID).
		Select("*").
		Updates(toPaymentModel(rec)).Error
}

// FindByBookingID retrieves the payment record for a booking.
func (r *PaymentRecordRepositoryImpl) FindByBookingID(ctx context.Context, bookingID uuid.UUID) (*bookingDomain.PaymentRecord, error) {
	var model PaymentRecordModel
	if err := conn(ctx, r.db).Where("booking_id = ?", bookingID).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("PaymentRecord", bookingID.String())
		}
		return nil, err
	}
	return toPaymentDomain(&model), nil
}

func toPaymentDomain(m *PaymentRecordModel) *bookingDomain.PaymentRecord {
	return &bookingDomain.PaymentRecord{
		ID:          m.ID,
		BookingID:   m.BookingID,
		AmountCents: m.AmountCents,
		Currency:    m.Currency,
		Method:      m.Method,
		Status:      bookingDomain.PaymentStatus(m.Status),
		ExternalRef: m.ExternalRef,
		CreatedAt:   m.CreatedAt,
		UpdatedAt:   m.UpdatedAt,
	}
}

func toPaymentModel(rec *bookingDomain.PaymentRecord) *PaymentRecordModel {
	return &PaymentRecordModel{
		ID:          rec.ID,
		BookingID:   rec.BookingID,
		AmountCents: rec.AmountCents,
		Currency:    rec.Currency,
		Method:      rec.Method,
		Status:      string(rec.Status),
		ExternalRef: rec.ExternalRef,
		CreatedAt:   rec.CreatedAt,
		UpdatedAt:   rec.UpdatedAt,
	}
}
