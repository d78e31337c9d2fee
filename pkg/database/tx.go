package database

import (
	"context"

	"gorm.io/gorm"
)

type txKeyType struct{}

var txKey txKeyType

// Transactor runs a function inside a single database transaction.
// Repositories pick the transaction handle out of the context, so a
// service can compose several repository calls into one atomic unit.
type Transactor interface {
	Transaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// GormTransactor is the production Transactor backed by *gorm.DB.
type GormTransactor struct {
	db *gorm.DB
}

func NewTransactor(db *gorm.DB) *GormTransactor {
	return &GormTransactor{db: db}
}

func (t *GormTransactor) Transaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return t.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(context.WithValue(ctx, txKey, tx))
	})
}

// FromContext returns the transaction handle stored by Transaction,
// or the fallback connection when the call is not transactional.
func FromContext(ctx context.Context, fallback *gorm.DB) *gorm.DB {
	if tx, ok := ctx.Value(txKey).(*gorm.DB); ok {
		return tx
	}
	return fallback.WithContext(ctx)
}
