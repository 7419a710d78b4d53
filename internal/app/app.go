package app

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"runtime/debug"
	"strings"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/vidfriends/formatlist/internal/config"
	"github.com/vidfriends/formatlist/internal/db"
	"github.com/vidfriends/formatlist/internal/handlers"
	"github.com/vidfriends/formatlist/internal/httpserver"
	"github.com/vidfriends/formatlist/internal/listing"
	"github.com/vidfriends/formatlist/internal/logging"
	"github.com/vidfriends/formatlist/internal/middleware"
	"github.com/vidfriends/formatlist/internal/videos"
)

var version = "dev"

// Env holds the process-level collaborators commands are built from.
type Env struct {
	LoadConfig func() (config.Config, error)
	Connect    ConnectFunc
}

func (e Env) withDefaults() Env {
	if e.LoadConfig == nil {
		e.LoadConfig = config.Load
	}
	if e.Connect == nil {
		e.Connect = connectPostgres
	}
	return e
}

// Run executes the formatlist command line.
func Run(ctx context.Context, args []string, stdout, stderr io.Writer) error {
	cmd := NewRootCommand(Env{})
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)
	return cmd.ExecuteContext(ctx)
}

// NewRootCommand builds the formatlist command tree.
func NewRootCommand(env Env) *cobra.Command {
	env = env.withDefaults()

	root := &cobra.Command{
		Use:           "formatlist",
		Short:         "List and classify the downloadable formats of a video.",
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	root.AddCommand(
		newListCommand(env),
		newServeCommand(env),
		newSnapshotCommand(env),
		newMigrateCommand(env),
		newVersionCommand(),
	)
	return root
}

func setup(cmd *cobra.Command, env Env) (config.Config, *slog.Logger, error) {
	cfg, err := env.LoadConfig()
	if err != nil {
		return config.Config{}, nil, err
	}
	logger := logging.New(cmd.ErrOrStderr(), cfg.LogLevel)
	slog.SetDefault(logger)
	return cfg, logger, nil
}

func newListCommand(env Env) *cobra.Command {
	var (
		asJSON bool
		raw    bool
	)

	cmd := &cobra.Command{
		Use:   "list <url>",
		Short: "Print the audio, video and combined formats available for a URL",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, env)
			if err != nil {
				return err
			}

			deps, err := buildDependencies(cmd.Context(), cfg, env.Connect)
			if err != nil {
				return err
			}
			defer deps.Close()

			provider := deps.Provider
			if raw {
				dumper, ok := provider.(videos.Dumper)
				if !ok {
					return fmt.Errorf("source %q cannot print raw metadata", cfg.Source)
				}
				provider = teeProvider{source: dumper, w: cmd.OutOrStdout()}
			}

			ctx := logging.WithLogger(cmd.Context(), logger)
			result, err := listing.NewService(provider).List(ctx, args[0])
			if err != nil {
				return fmt.Errorf("extract formats: %w", err)
			}

			writeFailures(cmd.ErrOrStderr(), result.Listing.Failures)
			if asJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return writeTable(cmd.OutOrStdout(), result)
		},
	}

	cmd.Flags().BoolVar(&asJSON, "json", false, "print rows as JSON")
	cmd.Flags().BoolVar(&raw, "raw", false, "print the raw metadata document before the listing")
	return cmd
}

func newServeCommand(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Serve format listings over HTTP",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, logger, err := setup(cmd, env)
			if err != nil {
				return err
			}

			deps, err := buildDependencies(cmd.Context(), cfg, env.Connect)
			if err != nil {
				return err
			}
			defer deps.Close()

			mux := http.NewServeMux()
			handlers.RegisterRoutes(mux, handlers.Dependencies{
				Formats: listing.NewService(deps.Provider),
				Limiter: middleware.NewIPRateLimiter(cfg.HTTPRate, time.Minute, cfg.HTTPBurst, 10*time.Minute),
				Source:  cfg.Source,
			})

			srv := httpserver.New(cfg.AppPort, middleware.RequestLogger(logger)(mux))

			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			logger.Info("starting http server", "port", cfg.AppPort, "source", cfg.Source)
			return srv.ListenAndServe(ctx, logger)
		},
	}
}

func newSnapshotCommand(env Env) *cobra.Command {
	return &cobra.Command{
		Use:   "snapshot <url>",
		Short: "Capture the metadata for a URL with yt-dlp into the snapshot store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, env)
			if err != nil {
				return err
			}

			deps, err := buildDependencies(cmd.Context(), cfg, env.Connect)
			if err != nil {
				return err
			}
			defer deps.Close()

			if deps.Store == nil {
				return fmt.Errorf("source %q has no snapshot store; use %q or %q", cfg.Source, config.SourcePostgres, config.SourceS3)
			}

			info, err := videos.Capture(cmd.Context(), deps.YTDLP, deps.Store, args[0])
			if err != nil {
				return err
			}

			logger.Info("snapshot stored", "url", args[0], "formats", len(info.Formats))
			fmt.Fprintf(cmd.OutOrStdout(), "stored %d formats for %q\n", len(info.Formats), info.Title)
			return nil
		},
	}
}

func newMigrateCommand(env Env) *cobra.Command {
	return &cobra.Command{
		Use:       "migrate [up|status]",
		Short:     "Apply or inspect database migrations for the postgres snapshot store",
		Args:      cobra.MaximumNArgs(1),
		ValidArgs: []string{"up", "status"},
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, logger, err := setup(cmd, env)
			if err != nil {
				return err
			}

			command := "up"
			if len(args) > 0 {
				command = args[0]
			}
			if command != "up" && command != "status" {
				return fmt.Errorf("unknown migrate command %q", command)
			}

			migrationDir := cfg.MigrationDir
			if !filepath.IsAbs(migrationDir) {
				wd, err := os.Getwd()
				if err != nil {
					return fmt.Errorf("determine working directory: %w", err)
				}
				migrationDir = filepath.Join(wd, migrationDir)
			}

			pool, err := env.Connect(cmd.Context(), cfg.DatabaseURL)
			if err != nil {
				return err
			}
			defer pool.Close()

			out := cmd.OutOrStdout()
			if command == "status" {
				states, err := db.MigrationStatus(cmd.Context(), pool, migrationDir)
				if err != nil {
					return err
				}
				for _, state := range states {
					mark := " "
					if state.Applied {
						mark = "x"
					}
					fmt.Fprintf(out, "[%s] %s\n", mark, state.Name)
				}
				return nil
			}

			applied, err := db.Migrate(cmd.Context(), pool, migrationDir, logger)
			if err != nil {
				return err
			}
			if len(applied) == 0 {
				fmt.Fprintln(out, "no migrations to apply")
			}
			for _, name := range applied {
				fmt.Fprintf(out, "applied migration %s\n", name)
			}
			return nil
		},
	}
}

func newVersionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print formatlist version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			_, err := fmt.Fprintf(cmd.OutOrStdout(), "formatlist %s\n", resolveVersion())
			return err
		},
		DisableFlagsInUseLine: true,
	}
}

func resolveVersion() string {
	if version != "" && version != "dev" {
		return strings.TrimPrefix(version, "v")
	}
	if info, ok := debug.ReadBuildInfo(); ok {
		if info.Main.Version != "" && info.Main.Version != "(devel)" {
			return strings.TrimPrefix(info.Main.Version, "v")
		}
	}
	return "dev"
}

// teeProvider writes each raw document it fetches to w before parsing it.
type teeProvider struct {
	source videos.Dumper
	w      io.Writer
}

func (t teeProvider) Lookup(ctx context.Context, url string) (videos.Info, error) {
	data, err := t.source.Dump(ctx, url)
	if err != nil {
		return videos.Info{}, err
	}
	if _, err := fmt.Fprintf(t.w, "%s\n", data); err != nil {
		return videos.Info{}, err
	}
	info, err := videos.DecodeInfo(data)
	if err != nil {
		return videos.Info{}, err
	}
	if info.URL == "" {
		info.URL = url
	}
	return info, nil
}
