package repository

import (
	"context"

	"gorm.io/gorm"
)

type txKey struct{}

// GormTransactor implements booking.Transactor on top of a GORM connection.
// The transaction handle travels in the context so that repositories joined
// to the same request automatically share it.
type GormTransactor struct {
	db *gorm.DB
}

// NewGormTransactor creates a transactor bound to the given connection.
func NewGormTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

// WithinTx runs fn inside a single database transaction. The transaction is
// committed when fn returns nil and rolled back otherwise, so a failure never
// commits partial state.
func (t *GormTransactor) WithinTx(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey{}, tx))
	})
}

// conn returns the transaction from the context when one is active, falling
// back to the base connection.
func conn(ctx context.Context, db *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey{}).(*gorm.DB); ok {
		return tx
	}
	return db.WithContext(ctx)
}
