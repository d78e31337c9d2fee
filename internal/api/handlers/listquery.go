package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/openfedcloud/fedmgr/internal/repository"
)

const (
	defaultPageLimit = 100
	maxPageLimit     = 1000
)

// ListOptions names the columns a collection endpoint accepts filters
// on. Anything else in the query string is ignored, never forwarded.
type ListOptions struct {
	// Contains columns match case-insensitive substrings.
	Contains []string
	// Exact columns match verbatim.
	Exact []string
}

// parseList turns the query string into an already-validated list
// descriptor: skip/limit pagination, one sort column with optional '-'
// prefix, per-column filters and the shared timestamp ranges.
func parseList(r *http.Request, opts ListOptions) repository.ListParams {
	q := r.URL.Query()
	params := repository.ListParams{Limit: defaultPageLimit}

	if skip, err := strconv.Atoi(q.Get("skip")); err == nil && skip > 0 {
		params.Skip = skip
	}
	if limit, err := strconv.Atoi(q.Get("limit")); err == nil && limit > 0 {
		if limit > maxPageLimit {
			limit = maxPageLimit
		}
		params.Limit = limit
	}

	sortable := map[string]bool{"created_at": true, "updated_at": true}
	for _, f := range opts.Contains {
		sortable[f] = true
		if v := q.Get(f); v != "" {
			params.Filters = append(params.Filters, repository.Filter{
				Field: f, Op: repository.OpContains, Value: v,
			})
		}
	}
	for _, f := range opts.Exact {
		sortable[f] = true
		if v := q.Get(f); v != "" {
			params.Filters = append(params.Filters, repository.Filter{
				Field: f, Op: repository.OpEq, Value: v,
			})
		}
	}

	if sort := q.Get("sort"); sort != "" {
		field := sort
		if field[0] == '-' {
			field = field[1:]
		}
		if sortable[field] {
			params.Sort = sort
		}
	}

	if t, ok := queryTime(q.Get("created_before")); ok {
		params.Filters = append(params.Filters, repository.CreatedBefore(t))
	}
	if t, ok := queryTime(q.Get("created_after")); ok {
		params.Filters = append(params.Filters, repository.CreatedAfter(t))
	}
	if t, ok := queryTime(q.Get("updated_before")); ok {
		params.Filters = append(params.Filters, repository.UpdatedBefore(t))
	}
	if t, ok := queryTime(q.Get("updated_after")); ok {
		params.Filters = append(params.Filters, repository.UpdatedAfter(t))
	}
	return params
}

func queryTime(raw string) (time.Time, bool) {
	if raw == "" {
		return time.Time{}, false
	}
	t, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
