package postgres

import (
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
)

func uniqueViolation() error {
	return &pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"}
}

func uniqueViolationOn(constraint string) error {
	return &pgconn.PgError{
		Code:           "23505",
		Message:        "duplicate key value violates unique constraint \"" + constraint + "\"",
		ConstraintName: constraint,
	}
}

func TestOrderClauseDefaults(t *testing.T) {
	cases := []struct {
		orderBy, order string
		want           string
	}{
		{"", "", "created_at DESC"},
		{"updated_at", "ASC", "updated_at ASC"},
		{"data->>'username'", "DESC", "created_at DESC"},
		{"created_at", "asc; DROP TABLE role", "created_at DESC"},
	}

	for _, tc := range cases {
		if got := orderClause(tc.orderBy, tc.order); got != tc.want {
			t.Errorf("orderClause(%q, %q) = %q, want %q", tc.orderBy, tc.order, got, tc.want)
		}
	}
}
