package main

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"github.com/DrewGregory/scavhunt/internal/config"
	"github.com/DrewGregory/scavhunt/internal/database"
	"github.com/DrewGregory/scavhunt/internal/migrations"
	"github.com/DrewGregory/scavhunt/internal/server"
)

func main() {
	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	if err := run(ctx, os.Stdout); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, stdout io.Writer) error {
	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logger := slog.New(slog.NewJSONHandler(stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	// --- SQLite ---
	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	logger.Info("connected to sqlite", "path", cfg.DBPath)

	// --- Object storage ---
	uploader, err := server.NewSpacesUploader(ctx,
		cfg.SpacesBucket, cfg.SpacesRegion, cfg.SpacesEndpoint, cfg.SpacesKey, cfg.SpacesSecret)
	if err != nil {
		return fmt.Errorf("configuring object storage: %w", err)
	}
	logger.Info("object storage configured", "bucket", cfg.SpacesBucket, "region", cfg.SpacesRegion)

	// --- HTTP server ---
	store := server.NewSQLiteStore(db)
	srv := server.New(cfg.HTTPAddr, logger, db, store, uploader, server.Options{
		AdminTeamID: cfg.AdminTeamID,
		EventStart:  cfg.StartTime,
		EventEnd:    cfg.EndTime,
	})

	// --- Run ---
	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		logger.Info("starting http server", "addr", cfg.HTTPAddr)
		return srv.Run(gctx)
	})

	g.Go(func() error {
		<-gctx.Done()
		logger.Info("shutting down http server")
		return srv.Shutdown(context.Background())
	})

	return g.Wait()
}
