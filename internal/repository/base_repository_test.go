package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	appErr "github.com/openfedcloud/fedmgr/pkg/errors"
)

func TestTranslateWriteError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		code appErr.Code
	}{
		{
			name: "unique violation becomes conflict",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "idx_providers_name"},
			code: appErr.CodeConflict,
		},
		{
			name: "unique violation on a partial index becomes conflict",
			err:  &pgconn.PgError{Code: "23505", ConstraintName: "idx_projects_single_root"},
			code: appErr.CodeConflict,
		},
		{
			name: "not-null violation becomes unprocessable",
			err:  &pgconn.PgError{Code: "23502", ColumnName: "provider_id"},
			code: appErr.CodeUnprocessable,
		},
		{
			name: "foreign-key violation on insert becomes unprocessable",
			err:  &pgconn.PgError{Code: "23503", ConstraintName: "fk_regions_provider"},
			code: appErr.CodeUnprocessable,
		},
		{
			name: "gorm duplicate sentinel becomes conflict",
			err:  gorm.ErrDuplicatedKey,
			code: appErr.CodeConflict,
		},
		{
			name: "anything else stays internal",
			err:  errors.New("connection reset"),
			code: appErr.CodeInternal,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := translateWriteError(tt.err, "provider")
			require.Equal(t, tt.code, appErr.CodeOf(got))
		})
	}
}

func TestTranslateWriteError_WrappedDriverError(t *testing.T) {
	// gorm surfaces driver errors wrapped; translation must see through.
	inner := &pgconn.PgError{Code: "23505", ConstraintName: "idx_idp_overrides_pair"}
	got := translateWriteError(fmt.Errorf("create failed: %w", inner), "idp override")
	require.Equal(t, appErr.CodeConflict, appErr.CodeOf(got))

	var app *appErr.AppError
	require.True(t, errors.As(got, &app))
	require.Contains(t, app.Message, "idx_idp_overrides_pair")
}

func TestTranslateDeleteError(t *testing.T) {
	t.Run("restrict violation becomes delete_failed", func(t *testing.T) {
		err := &pgconn.PgError{Code: "23503", ConstraintName: "fk_regions_provider"}
		got := translateDeleteError(err, "provider")
		require.Equal(t, appErr.CodeDeleteFailed, appErr.CodeOf(got))
	})

	t.Run("anything else stays internal", func(t *testing.T) {
		got := translateDeleteError(errors.New("connection reset"), "provider")
		require.Equal(t, appErr.CodeInternal, appErr.CodeOf(got))
	})
}

// widget is a throwaway table for exercising the generic repository
// against a real database.
type widget struct {
	ID        uint `gorm:"primaryKey"`
	Name      string
	CreatedAt time.Time
}

func openTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	// cache=shared keeps the in-memory database visible across the
	// connection pool.
	db, err := gorm.Open(sqlite.Open("file::memory:?cache=shared"), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&widget{}))
	require.NoError(t, db.Exec("DELETE FROM widgets").Error)
	return db
}

func TestBaseRepository_ListPagination(t *testing.T) {
	db := openTestDB(t)
	repo := NewBaseRepository[widget](db, "widget")
	ctx := context.Background()

	base := time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC)
	for i := 0; i < 5; i++ {
		w := widget{Name: fmt.Sprintf("w%d", i), CreatedAt: base.Add(time.Duration(i) * time.Hour)}
		require.NoError(t, repo.Create(ctx, &w))
	}

	t.Run("total ignores pagination", func(t *testing.T) {
		items, total, err := repo.List(ctx, ListParams{Sort: "created_at", Skip: 0, Limit: 2})
		require.NoError(t, err)
		require.Len(t, items, 2)
		require.Equal(t, int64(5), total)

		items, total, err = repo.List(ctx, ListParams{Sort: "created_at", Skip: 4, Limit: 2})
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, int64(5), total)
	})

	t.Run("page beyond range is empty with unchanged total", func(t *testing.T) {
		items, total, err := repo.List(ctx, ListParams{Sort: "created_at", Skip: 10, Limit: 2})
		require.NoError(t, err)
		require.Empty(t, items)
		require.Equal(t, int64(5), total)
	})

	t.Run("total respects filters", func(t *testing.T) {
		items, total, err := repo.List(ctx, ListParams{
			Filters: []Filter{{Field: "name", Op: OpEq, Value: "w3"}},
			Sort:    "created_at",
			Limit:   10,
		})
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, int64(1), total)
	})

	t.Run("descending sort returns newest first", func(t *testing.T) {
		items, _, err := repo.List(ctx, ListParams{Sort: "-created_at", Limit: 1})
		require.NoError(t, err)
		require.Len(t, items, 1)
		require.Equal(t, "w4", items[0].Name)
	})
}

func TestBaseRepository_DeleteMissingRow(t *testing.T) {
	db := openTestDB(t)
	repo := NewBaseRepository[widget](db, "widget")

	err := repo.Delete(context.Background(), 424242)
	require.Error(t, err)
	require.Equal(t, appErr.CodeNotFound, appErr.CodeOf(err))
}
