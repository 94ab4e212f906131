package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/primal-host/participation/internal/config"
	"github.com/primal-host/participation/internal/database"
	"github.com/primal-host/participation/internal/ingest"
	"github.com/primal-host/participation/internal/logging"
	"github.com/primal-host/participation/internal/participation"
	"github.com/primal-host/participation/internal/server"
	"github.com/primal-host/participation/internal/store"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		slog.Error("config load failed", "error", err)
		os.Exit(1)
	}

	logger, err := logging.New(os.Stdout, cfg.LogLevel, cfg.LogFormat)
	if err != nil {
		slog.Error("logger setup failed", "error", err)
		os.Exit(1)
	}
	slog.SetDefault(logger)
	slog.Info("participation starting", "version", config.Version, "driver", cfg.DBDriver)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	st, err := openStore(ctx, cfg)
	cancel()
	if err != nil {
		slog.Error("database open failed", "error", err)
		os.Exit(1)
	}
	defer st.Close()
	slog.Info("database connected")

	// Seed the store. INGEST_POLICY decides whether a failure stops startup.
	ctx, cancel = context.WithTimeout(context.Background(), 30*time.Second)
	err = seed(ctx, st, cfg.SeedFile)
	cancel()
	if err != nil {
		if cfg.IngestPolicy == config.IngestFail {
			slog.Error("ingestion failed", "error", err)
			st.Close()
			os.Exit(1)
		}
		slog.Warn("ingestion failed, serving existing data", "error", err)
	}

	engine, err := participation.New(st, participation.Params{
		Epochs:           cfg.Epochs,
		SlotsPerEpoch:    cfg.SlotsPerEpoch,
		ValidatorSetSize: cfg.ValidatorSetSize,
		Denominator:      participation.Denominator(cfg.RateDenominator),
		Clamp:            cfg.RateClamp,
	})
	if err != nil {
		slog.Error("engine init failed", "error", err)
		st.Close()
		os.Exit(1)
	}

	srv := server.New(engine, st, cfg.ListenAddr)

	go func() {
		if err := srv.Start(); err != nil {
			slog.Error("server error", "error", err)
			os.Exit(1)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	sig := <-quit
	slog.Info("shutting down", "signal", sig.String())

	ctx, cancel = context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := srv.Shutdown(ctx); err != nil {
		slog.Error("shutdown error", "error", err)
	}
	slog.Info("stopped")
}

func openStore(ctx context.Context, cfg *config.Config) (store.Store, error) {
	if cfg.DBDriver == config.DriverSQLite {
		db, err := database.OpenSQLite(ctx, cfg.SQLitePath)
		if err != nil {
			return nil, err
		}
		return store.NewSQLite(db), nil
	}
	db, err := database.Open(ctx, cfg.DSN())
	if err != nil {
		return nil, err
	}
	return store.NewPostgres(db.Pool), nil
}

func seed(ctx context.Context, st store.Store, seedFile string) error {
	rows, err := ingest.Records(seedFile)
	if err != nil {
		return err
	}
	return ingest.Run(ctx, st, rows)
}
