package postgres

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestIsUniqueViolation(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want bool
	}{
		{"unique", &pgconn.PgError{Code: "23505"}, true},
		{"wrapped unique", fmt.Errorf("insert user: %w", &pgconn.PgError{Code: "23505"}), true},
		{"fk violation", &pgconn.PgError{Code: "23503"}, false},
		{"plain", errors.New("boom"), false},
		{"nil", nil, false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := IsUniqueViolation(tt.err); got != tt.want {
				t.Fatalf("IsUniqueViolation(%v) = %v, want %v", tt.err, got, tt.want)
			}
		})
	}
}

func TestIsNoRows(t *testing.T) {
	if !IsNoRows(fmt.Errorf("get profile: %w", pgx.ErrNoRows)) {
		t.Fatal("wrapped ErrNoRows not detected")
	}
	if IsNoRows(errors.New("no rows")) {
		t.Fatal("unrelated error detected as no rows")
	}
}

func TestPool_NilSafe(t *testing.T) {
	var p *Pool
	ctx := context.Background()

	if err := p.Ping(ctx); !errors.Is(err, errNilDB) {
		t.Fatalf("Ping: %v", err)
	}
	if _, err := p.Exec(ctx, "SELECT 1"); !errors.Is(err, errNilDB) {
		t.Fatalf("Exec: %v", err)
	}
	if _, err := p.Query(ctx, "SELECT 1"); !errors.Is(err, errNilDB) {
		t.Fatalf("Query: %v", err)
	}
	var n int
	if err := p.QueryRow(ctx, "SELECT 1").Scan(&n); !errors.Is(err, errNilDB) {
		t.Fatalf("QueryRow: %v", err)
	}
	if p.SQLDB() != nil {
		t.Fatal("SQLDB on nil pool should be nil")
	}
	if err := p.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
}
