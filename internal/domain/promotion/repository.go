package promotion

import (
	"context"

	"github.com/google/uuid"
)

// PromotionRepository defines persistence operations for promotions.
type PromotionRepository interface {
	Save(ctx context.Context, p *Promotion) error
	Update(ctx context.Context, p *Promotion) error

	// FindByCode looks a promotion up by its canonical (uppercased) code.
	FindByCode(ctx context.Context, code string) (*Promotion, error)
	FindByID(ctx context.Context, id uuid.UUID) (*Promotion, error)
	FindActive(ctx context.Context) ([]*Promotion, error)
}
