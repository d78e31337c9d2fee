package handlers

import (
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/openfedcloud/fedmgr/internal/repository"
)

func TestParseList(t *testing.T) {
	opts := ListOptions{Contains: []string{"name"}, Exact: []string{"status"}}

	t.Run("defaults", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/providers", nil)
		params := parseList(r, opts)
		assert.Equal(t, 0, params.Skip)
		assert.Equal(t, defaultPageLimit, params.Limit)
		assert.Empty(t, params.Filters)
		assert.Equal(t, "created_at DESC", params.OrderClause())
	})

	t.Run("pagination and sort", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/providers?skip=40&limit=20&sort=-updated_at", nil)
		params := parseList(r, opts)
		assert.Equal(t, 40, params.Skip)
		assert.Equal(t, 20, params.Limit)
		assert.Equal(t, "updated_at DESC", params.OrderClause())
	})

	t.Run("limit is capped", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/providers?limit=99999", nil)
		params := parseList(r, opts)
		assert.Equal(t, maxPageLimit, params.Limit)
	})

	t.Run("unknown sort column falls back to default", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/providers?sort=rally_password", nil)
		params := parseList(r, opts)
		assert.Equal(t, "created_at DESC", params.OrderClause())
	})

	t.Run("contains and exact filters", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/providers?name=cloud&status=active", nil)
		params := parseList(r, opts)
		assert.Len(t, params.Filters, 2)
		assert.Contains(t, params.Filters, repository.Filter{
			Field: "name", Op: repository.OpContains, Value: "cloud",
		})
		assert.Contains(t, params.Filters, repository.Filter{
			Field: "status", Op: repository.OpEq, Value: "active",
		})
	})

	t.Run("timestamp ranges", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/providers?created_after=2026-01-01T00:00:00Z&updated_before=2026-06-01T00:00:00Z", nil)
		params := parseList(r, opts)
		assert.Len(t, params.Filters, 2)
		assert.Equal(t, "created_at", params.Filters[0].Field)
		assert.Equal(t, repository.OpGte, params.Filters[0].Op)
	})

	t.Run("garbage timestamps are dropped", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/providers?created_after=yesterday", nil)
		params := parseList(r, opts)
		assert.Empty(t, params.Filters)
	})
}
