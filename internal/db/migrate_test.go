package db

import (
	"context"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"reflect"
	"testing"
	"time"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

func TestListMigrations(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"0002_b.sql", "0001_a.sql", "notes.txt"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("SELECT 1;"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "0003_dir.sql"), 0o700); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	got, err := ListMigrations(dir)
	if err != nil {
		t.Fatalf("ListMigrations() error = %v", err)
	}
	want := []string{"0001_a.sql", "0002_b.sql"}
	if !reflect.DeepEqual(got, want) {
		t.Fatalf("ListMigrations() = %v, want %v", got, want)
	}

	if _, err := ListMigrations(filepath.Join(dir, "missing")); err == nil {
		t.Fatal("expected error for missing directory")
	}
}

func TestRepositoryMigrationsDirectory(t *testing.T) {
	got, err := ListMigrations(filepath.Join("..", "..", "migrations"))
	if err != nil {
		t.Fatalf("ListMigrations() error = %v", err)
	}
	if len(got) == 0 || got[0] != "0001_format_snapshots.sql" {
		t.Fatalf("unexpected migrations: %v", got)
	}
}

func TestShouldRetryMigration(t *testing.T) {
	cases := []struct {
		name string
		err  error
		want bool
	}{
		{"nil", nil, false},
		{"deadline", fmt.Errorf("apply: %w", context.DeadlineExceeded), true},
		{"serialization", &pgconn.PgError{Code: "40001"}, true},
		{"deadlock", fmt.Errorf("commit: %w", &pgconn.PgError{Code: "40P01"}), true},
		{"syntax", &pgconn.PgError{Code: "42601"}, false},
		{"txClosed", pgx.ErrTxClosed, true},
		{"other", errors.New("boom"), false},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shouldRetryMigration(tc.err); got != tc.want {
				t.Fatalf("shouldRetryMigration() = %v, want %v", got, tc.want)
			}
		})
	}
}

func TestBackoffCapped(t *testing.T) {
	if backoff(1) != migrationBaseBackoff {
		t.Fatalf("unexpected first backoff %v", backoff(1))
	}
	if backoff(10) != migrationMaxBackoff {
		t.Fatalf("expected backoff to cap at %v, got %v", migrationMaxBackoff, backoff(10))
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	start := time.Now()
	if err := sleepBackoff(ctx, 5); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
	if time.Since(start) > time.Second {
		t.Fatal("sleepBackoff ignored cancellation")
	}
}
