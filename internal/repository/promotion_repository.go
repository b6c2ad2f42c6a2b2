package repository

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/harborstay/service-booking/internal/domain"
	promoDomain "github.com/harborstay/service-booking/internal/domain/promotion"
)

// PromotionModel is the GORM model for the promotions table.
type PromotionModel struct {
	ID             uuid.UUID  `gorm:"type:uuid;primaryKey"`
	Code           string     `gorm:"type:varchar(50);uniqueIndex;not null"`
	DiscountType   string     `gorm:"type:varchar(20);not null"`
	DiscountValue  int64      `gorm:"not null"`
	MinOrderAmount int64      `gorm:"default:0"`
	MaxDiscount    int64      `gorm:"default:0"`
	HotelID        *uuid.UUID `gorm:"type:uuid"`
	Active         bool       `gorm:"not null;default:true"`
	StartDate      time.Time  `gorm:"not null"`
	EndDate        time.Time  `gorm:"not null"`
	CreatedAt      time.Time  `gorm:"not null"`
	UpdatedAt      time.Time  `gorm:"not null"`
}

// TableName sets the table name.
func (PromotionModel) TableName() string { return "promotions" }

// GormPromotionRepository implements PromotionRepository using GORM.
type GormPromotionRepository struct {
	db *gorm.DB
}

// NewGormPromotionRepository creates a new GormPromotionRepository.
func NewGormPromotionRepository(db *gorm.DB) *GormPromotionRepository {
	return &GormPromotionRepository{db: db}
}

// Save persists a new promotion.
func (r *GormPromotionRepository) Save(ctx context.Context, p *promoDomain.Promotion) error {
	return conn(ctx, r.db).Create(toPromotionModel(p)).Error
}

// Update updates a promotion.
func (r *GormPromotionRepository) Update(ctx context.Context, p *promoDomain.Promotion) error {
	return conn(ctx, r.db).Save(toPromotionModel(p)).Error
}

// FindByCode returns a promotion by its canonical code.
func (r *GormPromotionRepository) FindByCode(ctx context.Context, code string) (*promoDomain.Promotion, error) {
	var model PromotionModel
	if err := conn(ctx, r.db).Where("code = ?", promoDomain.NormalizeCode(code)).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Promotion", code)
		}
		return nil, err
	}
	return toPromotionDomain(&model), nil
}

// FindByID returns a promotion by ID.
func (r *GormPromotionRepository) FindByID(ctx context.Context, id uuid.UUID) (*promoDomain.Promotion, error) {
	var model PromotionModel
	if err := conn(ctx, r.db).Where("id = ?", id).First(&model).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, domain.NewNotFoundError("Promotion", id.String())
		}
		return nil, err
	}
	return toPromotionDomain(&model), nil
}

// FindActive returns all promotions currently inside their validity window.
func (r *GormPromotionRepository) FindActive(ctx context.Context) ([]*promoDomain.Promotion, error) {
	var models []PromotionModel
	now := time.Now().UTC()
	if err := conn(ctx, r.db).
		Where("active = ?", true).
		Where("start_date <= ? AND end_date >= ?", now, now).
		Find(&models).Error; err != nil {
		return nil, err
	}

	promos := make([]*promoDomain.Promotion, len(models))
	for i := range models {
		promos[i] = toPromotionDomain(&models[i])
	}
	return promos, nil
}

func toPromotionDomain(m *PromotionModel) *promoDomain.Promotion {
	return promoDomain.Reconstitute(
		m.ID, m.Code,
		promoDomain.DiscountType(m.DiscountType),
		m.DiscountValue, m.MinOrderAmount, m.MaxDiscount,
		m.HotelID, m.Active,
		m.StartDate, m.EndDate,
		m.CreatedAt, m.UpdatedAt,
	)
}

func toPromotionModel(p *promoDomain.Promotion) *PromotionModel {
	return &PromotionModel{
		ID:             p.ID(),
		Code:           p.Code(),
		DiscountType:   string(p.DiscountType()),
		DiscountValue:  p.DiscountValue(),
		MinOrderAmount: p.MinOrderAmount(),
		MaxDiscount:    p.MaxDiscount(),
		HotelID:        p.HotelID(),
		Active:         p.Active(),
		StartDate:      p.StartDate(),
		EndDate:        p.EndDate(),
		CreatedAt:      p.CreatedAt(),
		UpdatedAt:      p.UpdatedAt(),
	}
}
