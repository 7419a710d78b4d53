package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/jackc/pgx/v5"

	"github.com/vidfriends/formatlist/internal/db"
	"github.com/vidfriends/formatlist/internal/videos"
)

// PostgresSnapshotRepository stores yt-dlp info documents in PostgreSQL.
type PostgresSnapshotRepository struct {
	pool    db.Pool
	nowFunc func() time.Time
}

// NewPostgresSnapshotRepository constructs a snapshot repository backed by PostgreSQL.
func NewPostgresSnapshotRepository(pool db.Pool) *PostgresSnapshotRepository {
	return &PostgresSnapshotRepository{pool: pool, nowFunc: func() time.Time { return time.Now().UTC() }}
}

// Save upserts the info document captured for url.
func (r *PostgresSnapshotRepository) Save(ctx context.Context, url string, data []byte) error {
	if strings.TrimSpace(url) == "" {
		return errors.New("snapshot url is required")
	}
	if !json.Valid(data) {
		return errors.New("snapshot is not valid JSON")
	}

	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	_, err = conn.Exec(ctx, `
        INSERT INTO format_snapshots (url, info, captured_at)
        VALUES ($1, $2, $3)
        ON CONFLICT (url) DO UPDATE
        SET info = EXCLUDED.info, captured_at = EXCLUDED.captured_at
    `, url, data, r.nowFunc())
	if err != nil {
		return fmt.Errorf("upsert format snapshot: %w", err)
	}

	return nil
}

// Load returns the most recent info document stored for url.
func (r *PostgresSnapshotRepository) Load(ctx context.Context, url string) ([]byte, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return nil, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var data []byte
	err = conn.QueryRow(ctx, `
        SELECT info
        FROM format_snapshots
        WHERE url = $1
    `, url).Scan(&data)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, videos.ErrSnapshotNotFound
		}
		return nil, fmt.Errorf("select format snapshot: %w", err)
	}

	return data, nil
}

// CapturedAt reports when the snapshot for url was stored.
func (r *PostgresSnapshotRepository) CapturedAt(ctx context.Context, url string) (time.Time, error) {
	conn, err := r.pool.Acquire(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("acquire connection: %w", err)
	}
	defer conn.Release()

	var capturedAt time.Time
	err = conn.QueryRow(ctx, `SELECT captured_at FROM format_snapshots WHERE url = $1`, url).Scan(&capturedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return time.Time{}, ErrNotFound
		}
		return time.Time{}, fmt.Errorf("select snapshot capture time: %w", err)
	}

	return capturedAt.UTC(), nil
}

var _ videos.SnapshotStore = (*PostgresSnapshotRepository)(nil)
