package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"

	"github.com/DrewGregory/scavhunt/internal/database"
	"github.com/DrewGregory/scavhunt/internal/migrations"
	"github.com/DrewGregory/scavhunt/internal/server"
)

// The seeder only needs the database; it deliberately does not share the
// server's config struct, which requires the full event environment.
type seedConfig struct {
	DBPath   string     `env:"DB_PATH" envDefault:"data/scavhunt.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`
}

func main() {
	challengesPath := flag.String("challenges", "scripts/challenges.csv", "path to challenges CSV")
	teamsPath := flag.String("teams", "scripts/teams.csv", "path to teams CSV")
	flag.Parse()

	if err := run(context.Background(), *challengesPath, *teamsPath); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(ctx context.Context, challengesPath, teamsPath string) error {
	_ = godotenv.Load()

	cfg, err := env.ParseAs[seedConfig]()
	if err != nil {
		return fmt.Errorf("parsing environment: %w", err)
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: cfg.LogLevel,
	}))

	db, err := database.Open(ctx, cfg.DBPath)
	if err != nil {
		return fmt.Errorf("connecting to sqlite: %w", err)
	}
	defer db.Close()

	if err := migrations.Run(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}

	store := server.NewSQLiteStore(db)

	if err := server.SeedChallengesCSV(ctx, logger, store, challengesPath); err != nil {
		return err
	}
	if err := server.SeedTeamsCSV(ctx, logger, store, teamsPath); err != nil {
		return err
	}

	logger.Info("seeding complete")
	return nil
}
