// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Gatehouse Contributors

package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/samber/oops"
	"github.com/spf13/cobra"

	"github.com/gatehouse-auth/gatehouse/internal/auth"
	"github.com/gatehouse-auth/gatehouse/internal/auth/postgres"
	"github.com/gatehouse-auth/gatehouse/internal/config"
	"github.com/gatehouse-auth/gatehouse/internal/httpapi"
	"github.com/gatehouse-auth/gatehouse/internal/logging"
	"github.com/gatehouse-auth/gatehouse/internal/observability"
	"github.com/gatehouse-auth/gatehouse/internal/store"
	"github.com/gatehouse-auth/gatehouse/internal/token"
)

// database is the part of *pgxpool.Pool the server needs.
type database interface {
	postgres.Pool
	Ping(ctx context.Context) error
	Close()
}

// ServeDeps holds injectable dependencies for serve. Nil fields use the
// production implementations.
type ServeDeps struct {
	// Connect opens the database. Default: store.Connect.
	Connect func(ctx context.Context, url string, timeout time.Duration, logger *slog.Logger) (database, error)
	// Migrate applies pending migrations. Default: store.Migrator.Up.
	Migrate func(url string) error
	// OnReady is called with the API address once both servers listen.
	OnReady func(addr string)
}

// NewServeCmd creates the serve command.
func NewServeCmd() *cobra.Command {
	var printConfig bool

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the auth API",
		Long: `Serve the /auth HTTP API and, unless disabled, the metrics and
health endpoints. Pending migrations run first when database.auto_migrate is set.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := loadConfig(cmd)
			if err != nil {
				return err
			}
			if printConfig {
				return cfg.Dump(cmd.OutOrStdout())
			}
			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return runServe(ctx, cfg, nil)
		},
	}

	cmd.Flags().String("http-addr", ":4004", "API listen address")
	cmd.Flags().String("metrics-addr", "127.0.0.1:9100", "metrics/health HTTP address (empty = disabled)")
	cmd.Flags().Bool("auto-migrate", true, "apply pending migrations on start")
	cmd.Flags().BoolVar(&printConfig, "print-config", false, "print the effective configuration (secrets redacted) and exit")

	return cmd
}

func defaultConnect(ctx context.Context, url string, timeout time.Duration, logger *slog.Logger) (database, error) {
	return store.Connect(ctx, url, timeout, logger)
}

func defaultMigrate(url string) (err error) {
	m, err := store.NewMigrator(url)
	if err != nil {
		return err
	}
	defer func() {
		if closeErr := m.Close(); closeErr != nil && err == nil {
			err = closeErr
		}
	}()
	return m.Up()
}

// runServe wires the service from cfg and blocks until ctx ends or a server
// fails.
func runServe(ctx context.Context, cfg *config.Config, deps *ServeDeps) error {
	if deps == nil {
		deps = &ServeDeps{}
	}
	if deps.Connect == nil {
		deps.Connect = defaultConnect
	}
	if deps.Migrate == nil {
		deps.Migrate = defaultMigrate
	}

	if err := cfg.Validate(); err != nil {
		return err
	}
	level, err := logging.ParseLevel(cfg.Log.Level)
	if err != nil {
		return err
	}
	logger := logging.SetDefault("gatehouse", version, cfg.Log.Format, level)
	gin.SetMode(gin.ReleaseMode)

	logger.Info("starting gatehouse",
		"http_addr", cfg.HTTP.Addr,
		"metrics_addr", cfg.Metrics.Addr,
		"version", version,
	)

	db, err := deps.Connect(ctx, cfg.Database.URL, cfg.Database.ConnectTimeout, logger)
	if err != nil {
		return err
	}
	defer db.Close()

	if cfg.Database.AutoMigrate {
		if err := deps.Migrate(cfg.Database.URL); err != nil {
			return oops.With("operation", "auto migrate").Wrap(err)
		}
		logger.Info("database schema up to date")
	}

	obs := observability.NewServer(cfg.Metrics.Addr, db.Ping, observability.WithLogger(logger))

	service, sweeper, err := buildService(cfg, db, obs.Metrics(), logger)
	if err != nil {
		return err
	}

	cookies := httpapi.NewCookies(cfg.Cookie.Secure, cfg.Cookie.Domain)
	cookies.AccessTTL = cfg.Token.AccessTTL
	cookies.RefreshTTL = cfg.Token.RefreshTTL

	router := httpapi.NewRouter(httpapi.Options{
		Service:   service,
		Cookies:   cookies,
		AppOrigin: cfg.HTTP.AppOrigin,
		Logger:    logger,
		Metrics:   obs.Metrics(),
	})

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	sweeper.Start(ctx)
	defer sweeper.Stop()

	var obsErrCh <-chan error
	if cfg.Metrics.Addr != "" {
		obsErrCh, err = obs.Start()
		if err != nil {
			return err
		}
		defer stopWithTimeout(logger, "observability", cfg.HTTP.ShutdownTimeout, obs.Stop)
	}

	api := httpapi.NewServer(cfg.HTTP.Addr, router, cfg.HTTP.ReadHeaderTimeout, logger)
	apiErrCh, err := api.Start()
	if err != nil {
		return err
	}
	defer stopWithTimeout(logger, "http", cfg.HTTP.ShutdownTimeout, api.Stop)

	if deps.OnReady != nil {
		deps.OnReady(api.Addr())
	}
	logger.Info("gatehouse ready", "addr", api.Addr())

	select {
	case <-ctx.Done():
		logger.Info("shutting down")
		return nil
	case err := <-apiErrCh:
		return oops.With("server", "http").Wrap(err)
	case err := <-obsErrCh:
		return oops.With("server", "observability").Wrap(err)
	}
}

// buildService assembles the engine over the Postgres repositories.
func buildService(cfg *config.Config, db postgres.Pool, metrics auth.MetricsRecorder, logger *slog.Logger) (*auth.Service, *auth.Sweeper, error) {
	users := postgres.NewUserRepository(db)
	sessions := postgres.NewSessionRepository(db)
	codes := postgres.NewVerificationCodeRepository(db)

	hasher, err := auth.NewArgon2idHasher(cfg.HasherParams())
	if err != nil {
		return nil, nil, err
	}
	credentials, err := auth.NewCredentials(users, hasher)
	if err != nil {
		return nil, nil, err
	}
	codec, err := token.NewCodec(cfg.TokenConfig())
	if err != nil {
		return nil, nil, err
	}

	service, err := auth.NewService(auth.ServiceDeps{
		Credentials: credentials,
		Sessions:    sessions,
		Codes:       codes,
		Tokens:      codec,
		Notifier:    auth.NewLogNotifier(logger, cfg.HTTP.AppOrigin),
		Metrics:     metrics,
		Logger:      logger,
	}, cfg.AuthConfig())
	if err != nil {
		return nil, nil, err
	}

	sweeper, err := auth.NewSweeper(sessions, codes, cfg.Database.SweepInterval, auth.WithSweepLogger(logger))
	if err != nil {
		return nil, nil, err
	}
	return service, sweeper, nil
}

func stopWithTimeout(logger *slog.Logger, name string, timeout time.Duration, stop func(context.Context) error) {
	ctx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()
	if err := stop(ctx); err != nil {
		logger.Warn("error stopping server", "server", name, "error", err)
	}
}
