package app

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/vidfriends/formatlist/internal/config"
	"github.com/vidfriends/formatlist/internal/db"
	"github.com/vidfriends/formatlist/internal/repositories"
	"github.com/vidfriends/formatlist/internal/storage"
	"github.com/vidfriends/formatlist/internal/videos"
)

type fakePool struct {
	closed *bool
}

func (fakePool) Acquire(context.Context) (*pgxpool.Conn, error) {
	return nil, errors.New("not implemented")
}

func (p fakePool) Close() {
	if p.closed != nil {
		*p.closed = true
	}
}

func baseConfig(source string) config.Config {
	return config.Config{
		Source:       source,
		YTDLPPath:    "yt-dlp",
		YTDLPTimeout: time.Second,
		YTDLPRate:    2,
		YTDLPBurst:   1,
		SnapshotFile: "info.json",
		DatabaseURL:  "postgres://localhost/formatlist",
		ObjectStore:  config.ObjectStoreConfig{Bucket: "snapshots", Endpoint: "http://localhost:9000", Region: "us-east-1", Prefix: "formats"},
	}
}

func TestBuildDependenciesYTDLP(t *testing.T) {
	deps, err := buildDependencies(context.Background(), baseConfig(config.SourceYTDLP), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deps.YTDLP == nil || deps.YTDLP.Limiter == nil {
		t.Fatal("expected rate limited yt-dlp provider")
	}
	if deps.Provider != videos.Provider(deps.YTDLP) {
		t.Fatalf("expected yt-dlp provider to serve listings, got %T", deps.Provider)
	}
	if deps.Store != nil || deps.Pool != nil {
		t.Fatalf("unexpected store or pool: %+v", deps)
	}
}

func TestBuildDependenciesWithoutRateLimit(t *testing.T) {
	cfg := baseConfig(config.SourceYTDLP)
	cfg.YTDLPRate = 0

	deps, err := buildDependencies(context.Background(), cfg, nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if deps.YTDLP.Limiter != nil {
		t.Fatal("expected no limiter when rate is zero")
	}
}

func TestBuildDependenciesFile(t *testing.T) {
	deps, err := buildDependencies(context.Background(), baseConfig(config.SourceFile), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	provider, ok := deps.Provider.(*videos.FileProvider)
	if !ok {
		t.Fatalf("expected file provider, got %T", deps.Provider)
	}
	if provider.Path != "info.json" {
		t.Fatalf("unexpected path %q", provider.Path)
	}
}

func TestBuildDependenciesPostgres(t *testing.T) {
	var closed bool
	var gotURL string
	connect := func(_ context.Context, url string) (db.Pool, error) {
		gotURL = url
		return fakePool{closed: &closed}, nil
	}

	deps, err := buildDependencies(context.Background(), baseConfig(config.SourcePostgres), connect)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if gotURL != "postgres://localhost/formatlist" {
		t.Fatalf("unexpected database url %q", gotURL)
	}
	if _, ok := deps.Store.(*repositories.PostgresSnapshotRepository); !ok {
		t.Fatalf("expected postgres snapshot store, got %T", deps.Store)
	}
	if _, ok := deps.Provider.(*videos.SnapshotProvider); !ok {
		t.Fatalf("expected snapshot provider, got %T", deps.Provider)
	}

	deps.Close()
	if !closed {
		t.Fatal("expected Close to release the pool")
	}
}

func TestBuildDependenciesPostgresConnectError(t *testing.T) {
	connect := func(context.Context, string) (db.Pool, error) {
		return nil, errors.New("connection refused")
	}

	if _, err := buildDependencies(context.Background(), baseConfig(config.SourcePostgres), connect); err == nil {
		t.Fatal("expected connect error")
	}
}

func TestBuildDependenciesS3(t *testing.T) {
	t.Setenv("AWS_ACCESS_KEY_ID", "test")
	t.Setenv("AWS_SECRET_ACCESS_KEY", "test")

	deps, err := buildDependencies(context.Background(), baseConfig(config.SourceS3), nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := deps.Store.(*storage.S3SnapshotStore); !ok {
		t.Fatalf("expected s3 snapshot store, got %T", deps.Store)
	}
	if _, ok := deps.Provider.(*videos.SnapshotProvider); !ok {
		t.Fatalf("expected snapshot provider, got %T", deps.Provider)
	}
}

func TestBuildDependenciesUnknownSource(t *testing.T) {
	if _, err := buildDependencies(context.Background(), baseConfig("ftp"), nil); err == nil {
		t.Fatal("expected error for unknown source")
	}
}
