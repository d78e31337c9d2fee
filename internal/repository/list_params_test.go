package repository

import (
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func TestFilterClauses(t *testing.T) {
	tests := []struct {
		filter  Filter
		clause  string
		arg     any
	}{
		{Filter{Field: "name", Op: OpContains, Value: "cloud"}, "name ILIKE ?", "%cloud%"},
		{Filter{Field: "is_root", Op: OpEq, Value: true}, "is_root = ?", true},
		{Filter{Field: "overbooking_cpu", Op: OpGte, Value: 1.5}, "overbooking_cpu >= ?", 1.5},
		{Filter{Field: "bandwidth_in", Op: OpLte, Value: 10.0}, "bandwidth_in <= ?", 10.0},
	}
	for _, tc := range tests {
		clause, arg := tc.filter.Clause()
		require.Equal(t, tc.clause, clause)
		require.Equal(t, tc.arg, arg)
	}
}

func TestTimestampShorthands(t *testing.T) {
	cutoff := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)

	clause, arg := CreatedBefore(cutoff).Clause()
	require.Equal(t, "created_at <= ?", clause)
	require.Equal(t, cutoff, arg)

	clause, _ = UpdatedAfter(cutoff).Clause()
	require.Equal(t, "updated_at >= ?", clause)
}

func TestOrderClause(t *testing.T) {
	require.Equal(t, "created_at DESC", ListParams{}.OrderClause())
	require.Equal(t, "name ASC", ListParams{Sort: "name"}.OrderClause())
	require.Equal(t, "name DESC", ListParams{Sort: "-name"}.OrderClause())
}
