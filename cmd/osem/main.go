package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/opensensemap/osem-map/internal/api"
	"github.com/opensensemap/osem-map/internal/catalog"
	"github.com/opensensemap/osem-map/internal/config"
	"github.com/opensensemap/osem-map/internal/database"
	"github.com/opensensemap/osem-map/internal/logger"
	"github.com/opensensemap/osem-map/internal/middleware"
	"github.com/opensensemap/osem-map/internal/onboarding"
	"github.com/opensensemap/osem-map/internal/repository"
	"github.com/urfave/cli/v2"
)

func databaseFlag() *cli.StringFlag {
	return &cli.StringFlag{
		Name:     "database-url",
		Aliases:  []string{"d"},
		Value:    config.DefaultDatabaseURL,
		Usage:    "PostgreSQL connection URL",
		EnvVars:  []string{"DATABASE_URL"},
		Required: true,
	}
}

func main() {
	app := &cli.App{
		Name:  "osem",
		Usage: "openSenseMap map, chart and device onboarding API",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "log-level",
				Aliases: []string{"l"},
				Value:   "info",
				Usage:   "Log level (debug, info, warn, error)",
				EnvVars: []string{"LOG_LEVEL"},
			},
		},
		Before: func(c *cli.Context) error {
			logger.Setup(logger.ParseLevel(c.String("log-level")))
			return nil
		},
		Commands: []*cli.Command{
			{
				Name:  "serve",
				Usage: "Run the HTTP server",
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:    "port",
						Aliases: []string{"p"},
						Value:   config.DefaultPort,
						Usage:   "HTTP server port",
						EnvVars: []string{"PORT"},
					},
					databaseFlag(),
					&cli.IntFlag{
						Name:    "rate-limit",
						Value:   config.DefaultRateLimit,
						Usage:   "Requests per minute per IP address",
						EnvVars: []string{"RATE_LIMIT"},
					},
					&cli.IntFlag{
						Name:    "write-rate-limit",
						Value:   config.DefaultWriteRateLimit,
						Usage:   "POST requests per minute per IP address",
						EnvVars: []string{"WRITE_RATE_LIMIT"},
					},
					&cli.DurationFlag{
						Name:    "session-ttl",
						Value:   config.DefaultSessionTTL,
						Usage:   "Idle lifetime of an onboarding session",
						EnvVars: []string{"SESSION_TTL"},
					},
					&cli.BoolFlag{
						Name:    "migrate",
						Usage:   "Apply database migrations before serving",
						EnvVars: []string{"MIGRATE_ON_START"},
					},
				},
				Action: serve,
			},
			{
				Name:  "migrate",
				Usage: "Apply database migrations",
				Flags: []cli.Flag{
					databaseFlag(),
					&cli.BoolFlag{
						Name:  "status",
						Usage: "Only print the migration status",
					},
				},
				Action: migrate,
			},
		},
	}

	if err := app.Run(os.Args); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func migrate(c *cli.Context) error {
	ctx := c.Context

	pool, err := database.Connect(ctx, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if c.Bool("status") {
		status, err := database.MigrationStatus(ctx, pool)
		if err != nil {
			return err
		}
		for _, s := range status {
			slog.Info("migration", "version", s.Source.Version, "path", s.Source.Path, "state", s.State)
		}
		return nil
	}

	if err := database.Migrate(ctx, pool); err != nil {
		return err
	}
	slog.Info("migrations applied")
	return nil
}

func serve(c *cli.Context) error {
	ctx := c.Context
	port := c.String("port")

	pool, err := database.Connect(ctx, c.String("database-url"))
	if err != nil {
		return fmt.Errorf("failed to connect to database: %w", err)
	}
	defer pool.Close()

	if c.Bool("migrate") {
		if err := database.Migrate(ctx, pool); err != nil {
			return err
		}
	}

	devices, err := repository.NewDeviceRepository(pool)
	if err != nil {
		return err
	}
	campaigns, err := repository.NewCampaignRepository(pool)
	if err != nil {
		return err
	}
	measurements, err := repository.NewMeasurementRepository(pool)
	if err != nil {
		return err
	}

	cat, err := catalog.Load()
	if err != nil {
		return fmt.Errorf("failed to load device catalog: %w", err)
	}

	sessions, err := onboarding.NewService(devices, cat,
		onboarding.WithTTL(c.Duration("session-ttl")),
		onboarding.WithLogger(slog.Default().With("component", "onboarding")),
	)
	if err != nil {
		return fmt.Errorf("failed to create onboarding service: %w", err)
	}
	defer sessions.Close()

	h, err := api.New(devices, campaigns, measurements, sessions, cat)
	if err != nil {
		return fmt.Errorf("failed to create API handler: %w", err)
	}

	limiter, err := middleware.NewRateLimiter(c.Int("rate-limit"),
		middleware.WithWriteLimit(c.Int("write-rate-limit")),
		middleware.WithExemptPrefixes("/healthz"),
	)
	if err != nil {
		return fmt.Errorf("failed to create rate limiter: %w", err)
	}
	defer limiter.Close()

	mux := http.NewServeMux()
	h.RegisterRoutes(mux)
	mux.HandleFunc("GET /healthz", func(w http.ResponseWriter, r *http.Request) {
		if err := pool.Ping(r.Context()); err != nil {
			http.Error(w, "database unavailable", http.StatusServiceUnavailable)
			return
		}
		w.WriteHeader(http.StatusNoContent)
	})

	server := &http.Server{
		Addr: ":" + port,
		Handler: middleware.Chain(mux,
			middleware.RequestLogger(slog.Default()),
			limiter.Middleware,
			middleware.CacheControl,
		),
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	serverErr := make(chan error, 1)
	done := make(chan os.Signal, 1)
	signal.Notify(done, os.Interrupt, syscall.SIGTERM)

	go func() {
		slog.Info("starting server", "server_addr", "http://localhost:"+port)
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			serverErr <- err
		}
	}()

	select {
	case err := <-serverErr:
		return fmt.Errorf("server error: %w", err)
	case <-done:
		slog.Info("shutting down server")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
