package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"

	"github.com/openfedcloud/fedmgr/pkg/database"
	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
)

// Postgres error codes surfaced as typed failures. The store is the
// single serialization point for uniqueness: constraint violation on
// commit is the canonical conflict signal, never a pre-check.
const (
	pgUniqueViolation  = "23505"
	pgNotNullViolation = "23502"
	pgFKViolation      = "23503"
)

// BaseRepository defines the CRUD surface shared by every entity.
type BaseRepository[T any] interface {
	Create(ctx context.Context, obj *T) error
	GetByID(ctx context.Context, id any, dest *T) error
	Update(ctx context.Context, obj *T) error
	Delete(ctx context.Context, id any) error
	List(ctx context.Context, params ListParams) ([]T, int64, error)
}

type baseRepository[T any] struct {
	db   *gorm.DB
	kind string
}

func NewBaseRepository[T any](db *gorm.DB, kind string) BaseRepository[T] {
	return &baseRepository[T]{db: db, kind: kind}
}

// conn returns the ambient transaction handle when one is running.
func (r *baseRepository[T]) conn(ctx context.Context) *gorm.DB {
	return database.FromContext(ctx, r.db)
}

func (r *baseRepository[T]) Create(ctx context.Context, obj *T) error {
	if err := r.conn(ctx).Create(obj).Error; err != nil {
		return translateWriteError(err, r.kind)
	}
	return nil
}

func (r *baseRepository[T]) GetByID(ctx context.Context, id any, dest *T) error {
	if err := r.conn(ctx).First(dest, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return appErr.Newf(appErr.CodeNotFound, "%s with id '%v' does not exist", r.kind, id)
		}
		return appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("get %s failed", r.kind))
	}
	return nil
}

func (r *baseRepository[T]) Update(ctx context.Context, obj *T) error {
	res := r.conn(ctx).Save(obj)
	if res.Error != nil {
		return translateWriteError(res.Error, r.kind)
	}
	return nil
}

func (r *baseRepository[T]) Delete(ctx context.Context, id any) error {
	var t T
	res := r.conn(ctx).Delete(&t, "id = ?", id)
	if res.Error != nil {
		return translateDeleteError(res.Error, r.kind)
	}
	if res.RowsAffected == 0 {
		return appErr.Newf(appErr.CodeNotFound, "%s with id '%v' does not exist", r.kind, id)
	}
	return nil
}

func (r *baseRepository[T]) List(ctx context.Context, params ListParams) ([]T, int64, error) {
	var t T
	q := r.conn(ctx).Model(&t)
	q = ApplyFilters(q, params.Filters)

	// Total respects filters but ignores pagination.
	var total int64
	if err := q.Count(&total).Error; err != nil {
		return nil, 0, appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("count %ss failed", r.kind))
	}

	var out []T
	q = q.Order(params.OrderClause()).Offset(params.Skip)
	if params.Limit > 0 {
		q = q.Limit(params.Limit)
	}
	if err := q.Find(&out).Error; err != nil {
		return nil, 0, appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("list %ss failed", r.kind))
	}
	return out, total, nil
}

// translateWriteError maps store-level integrity failures on insert or
// update into the error taxonomy. Raw driver errors never escape.
func translateWriteError(err error, kind string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		switch pgErr.Code {
		case pgUniqueViolation:
			return appErr.Newf(appErr.CodeConflict,
				"%s violates uniqueness on '%s'", kind, pgErr.ConstraintName)
		case pgNotNullViolation:
			return appErr.Newf(appErr.CodeUnprocessable,
				"%s field '%s' cannot be null", kind, pgErr.ColumnName)
		case pgFKViolation:
			return appErr.Newf(appErr.CodeUnprocessable,
				"%s references a missing row ('%s')", kind, pgErr.ConstraintName)
		}
	}
	if errors.Is(err, gorm.ErrDuplicatedKey) {
		return appErr.Newf(appErr.CodeConflict, "%s already exists", kind)
	}
	return appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("persist %s failed", kind))
}

// translateDeleteError maps restrict-constraint violations on delete
// into DeleteFailed.
func translateDeleteError(err error, kind string) error {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) && pgErr.Code == pgFKViolation {
		return appErr.Newf(appErr.CodeDeleteFailed,
			"%s still has dependent rows ('%s')", kind, pgErr.ConstraintName)
	}
	return appErr.Wrap(err, appErr.CodeInternal, fmt.Sprintf("delete %s failed", kind))
}
