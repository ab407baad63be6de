package config

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

type Config struct {
	HTTPAddr string     `env:"HTTP_ADDR" envDefault:":8080"`
	DBPath   string     `env:"DB_PATH" envDefault:"data/scavhunt.db"`
	LogLevel slog.Level `env:"LOG_LEVEL" envDefault:"INFO"`

	// AdminTeamID is the one team allowed to review submissions.
	AdminTeamID string `env:"ADMIN_TEAM_ID,required"`

	// Event window, RFC 3339. The leaderboard series is anchored at
	// StartTime and clamped at min(now, EndTime) for display.
	StartTimeRaw string `env:"START_TIME,required"`
	EndTimeRaw   string `env:"END_TIME,required"`

	// Object storage (DigitalOcean Spaces or any S3-compatible endpoint).
	SpacesBucket   string `env:"SPACES_BUCKET,required"`
	SpacesRegion   string `env:"SPACES_REGION,required"`
	SpacesEndpoint string `env:"SPACES_ENDPOINT,required"`
	SpacesKey      string `env:"SPACES_KEY,required"`
	SpacesSecret   string `env:"SPACES_SECRET,required"`

	StartTime time.Time `env:"-"`
	EndTime   time.Time `env:"-"`
}

func Load() (*Config, error) {
	// A missing .env is fine; real environments set variables directly.
	_ = godotenv.Load()

	cfg, err := env.ParseAs[Config]()
	if err != nil {
		return nil, fmt.Errorf("parsing environment: %w", err)
	}

	cfg.StartTime, err = time.Parse(time.RFC3339, cfg.StartTimeRaw)
	if err != nil {
		return nil, fmt.Errorf("parsing START_TIME: %w", err)
	}
	cfg.EndTime, err = time.Parse(time.RFC3339, cfg.EndTimeRaw)
	if err != nil {
		return nil, fmt.Errorf("parsing END_TIME: %w", err)
	}
	if !cfg.EndTime.After(cfg.StartTime) {
		return nil, fmt.Errorf("END_TIME %s is not after START_TIME %s", cfg.EndTimeRaw, cfg.StartTimeRaw)
	}

	return &cfg, nil
}
