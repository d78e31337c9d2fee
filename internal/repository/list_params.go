package repository

import (
	"fmt"
	"strings"

	"gorm.io/gorm"
)

// FilterOp is the comparison applied by one filter predicate.
type FilterOp string

const (
	OpEq       FilterOp = "eq"
	OpContains FilterOp = "contains"
	OpGte      FilterOp = "gte"
	OpLte      FilterOp = "lte"
)

// Filter is one already-validated predicate on a column. Parsing and
// validating query parameters is the HTTP layer's job; by the time a
// Filter reaches a repository its Field names a real column.
type Filter struct {
	Field string
	Op    FilterOp
	Value any
}

// Clause renders the predicate as a SQL fragment plus its argument.
func (f Filter) Clause() (string, any) {
	switch f.Op {
	case OpContains:
		return fmt.Sprintf("%s ILIKE ?", f.Field), fmt.Sprintf("%%%v%%", f.Value)
	case OpGte:
		return fmt.Sprintf("%s >= ?", f.Field), f.Value
	case OpLte:
		return fmt.Sprintf("%s <= ?", f.Field), f.Value
	default:
		return fmt.Sprintf("%s = ?", f.Field), f.Value
	}
}

// ListParams is the filter/sort/pagination descriptor accepted by every
// List operation. Sort uses the field name, with a '-' prefix for
// descending order; the zero value sorts by newest first.
type ListParams struct {
	Filters []Filter
	Sort    string
	Skip    int
	Limit   int
}

// OrderClause renders the sort descriptor for the query builder.
func (p ListParams) OrderClause() string {
	sort := p.Sort
	if sort == "" {
		sort = "-created_at"
	}
	if strings.HasPrefix(sort, "-") {
		return sort[1:] + " DESC"
	}
	return sort + " ASC"
}

// ApplyFilters attaches every predicate to the query.
func ApplyFilters(q *gorm.DB, filters []Filter) *gorm.DB {
	for _, f := range filters {
		clause, arg := f.Clause()
		q = q.Where(clause, arg)
	}
	return q
}

// CreatedBefore and friends are shorthands for the timestamp-range
// predicates every entity supports.
func CreatedBefore(v any) Filter { return Filter{Field: "created_at", Op: OpLte, Value: v} }
func CreatedAfter(v any) Filter  { return Filter{Field: "created_at", Op: OpGte, Value: v} }
func UpdatedBefore(v any) Filter { return Filter{Field: "updated_at", Op: OpLte, Value: v} }
func UpdatedAfter(v any) Filter  { return Filter{Field: "updated_at", Op: OpGte, Value: v} }
