package main

import (
	"context"
	"database/sql"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	_ "github.com/jackc/pgx/v4/stdlib"

	"github.com/manzanit0/photon/cmd/geoserver/api"
	"github.com/manzanit0/photon/pkg/env"
	"github.com/manzanit0/photon/pkg/logger"
	"github.com/manzanit0/photon/pkg/photon"
	"github.com/manzanit0/photon/pkg/places"
	"github.com/manzanit0/photon/pkg/whttp"
)

const ServiceName = "geoserver"

func main() {
	cfg, err := env.Load()
	if err != nil {
		panic(err)
	}

	logger.InitGlobalSlog(ServiceName, cfg.LogLevel)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	if err := run(ctx, cfg); err != nil {
		slog.Error("server shutdown abruptly", "error", err.Error())
		os.Exit(1)
	}

	slog.Info("server exited")
}

func run(ctx context.Context, cfg env.Config) error {
	client := photon.NewClient(cfg.PhotonURL,
		photon.WithHTTPClient(whttp.NewClient(cfg.HTTPTimeout, cfg.Debug)))

	var repo places.Repository
	if cfg.DatabaseURL != "" {
		db, err := sql.Open("pgx", cfg.DatabaseURL)
		if err != nil {
			return fmt.Errorf("open db connection: %w", err)
		}

		defer func() {
			err = db.Close()
			if err != nil {
				slog.Error("close db connection", "error", err.Error())
			}
		}()

		if err := db.PingContext(ctx); err != nil {
			return fmt.Errorf("ping database: %w", err)
		}

		slog.Info("connected to the database successfully")

		pg := places.NewPgRepository(db)
		if err := pg.Migrate(ctx); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
		repo = pg
	} else {
		slog.Warn("DATABASE_URL not set, places registry disabled")
	}

	if !cfg.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	r := api.NewRouter(client, repo, cfg.Debug)

	srv := &http.Server{Addr: fmt.Sprintf(":%s", cfg.Port), Handler: r}
	errs := make(chan error, 1)
	go func() {
		slog.Info(fmt.Sprintf("serving HTTP on :%s", cfg.Port), "photon_url", cfg.PhotonURL)

		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errs <- err
		}
	}()

	select {
	case err := <-errs:
		return fmt.Errorf("listen: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("forced shutdown: %w", err)
	}

	slog.Info("server shutdown gracefully")

	return nil
}
