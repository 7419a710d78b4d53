package app

import (
	"context"
	"fmt"

	"golang.org/x/time/rate"

	"github.com/vidfriends/formatlist/internal/config"
	"github.com/vidfriends/formatlist/internal/db"
	"github.com/vidfriends/formatlist/internal/repositories"
	"github.com/vidfriends/formatlist/internal/storage"
	"github.com/vidfriends/formatlist/internal/videos"
)

// ConnectFunc opens the database pool used by the postgres source.
type ConnectFunc func(ctx context.Context, databaseURL string) (db.Pool, error)

func connectPostgres(ctx context.Context, databaseURL string) (db.Pool, error) {
	pool, err := db.Connect(ctx, databaseURL)
	if err != nil {
		return nil, err
	}
	return pool, nil
}

// dependencies are the collaborators selected by configuration.
type dependencies struct {
	// Provider serves listings for the configured source.
	Provider videos.Provider
	// YTDLP always shells out to yt-dlp; snapshots are captured through it.
	YTDLP *videos.YTDLPProvider
	// Store is set for the postgres and s3 sources.
	Store videos.SnapshotStore
	// Pool is set for the postgres source.
	Pool db.Pool
}

func (d dependencies) Close() {
	if d.Pool != nil {
		d.Pool.Close()
	}
}

// buildDependencies wires together the metadata source selected by cfg.
func buildDependencies(ctx context.Context, cfg config.Config, connect ConnectFunc) (dependencies, error) {
	ytDlp := videos.NewYTDLPProvider(cfg.YTDLPPath, cfg.YTDLPTimeout)
	if cfg.YTDLPRate > 0 {
		burst := cfg.YTDLPBurst
		if burst <= 0 {
			burst = 1
		}
		ytDlp.Limiter = rate.NewLimiter(rate.Limit(cfg.YTDLPRate), burst)
	}

	deps := dependencies{YTDLP: ytDlp}

	switch cfg.Source {
	case config.SourceYTDLP, "":
		deps.Provider = ytDlp
	case config.SourceFile:
		deps.Provider = videos.NewFileProvider(cfg.SnapshotFile)
	case config.SourcePostgres:
		if connect == nil {
			connect = connectPostgres
		}
		pool, err := connect(ctx, cfg.DatabaseURL)
		if err != nil {
			return dependencies{}, err
		}
		deps.Pool = pool
		deps.Store = repositories.NewPostgresSnapshotRepository(pool)
		deps.Provider = videos.NewSnapshotProvider(deps.Store)
	case config.SourceS3:
		store, err := storage.NewS3SnapshotStore(ctx, cfg.ObjectStore)
		if err != nil {
			return dependencies{}, err
		}
		deps.Store = store
		deps.Provider = videos.NewSnapshotProvider(store)
	default:
		return dependencies{}, fmt.Errorf("unknown metadata source %q", cfg.Source)
	}

	return deps, nil
}
