package server

import (
	"context"
	"crypto/rand"
	"encoding/csv"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
)

// SeedChallengesCSV upserts challenges by title from a CSV with columns
// title, prompt, pts, full, lat, lng, numWinners (header row skipped).
// Empty lat/lng leaves the challenge unanchored.
func SeedChallengesCSV(ctx context.Context, logger *slog.Logger, store Store, path string) error {
	records, err := readCSV(path)
	if err != nil {
		return err
	}

	for i, rec := range records {
		if len(rec) < 7 {
			return fmt.Errorf("challenges row %d: expected 7 columns, got %d", i+2, len(rec))
		}

		c := Challenge{
			Title:  rec[0],
			Prompt: rec[1],
		}
		if c.Prompt == "" {
			c.Prompt = " "
		}
		if c.Pts, err = strconv.Atoi(rec[2]); err != nil {
			return fmt.Errorf("challenges row %d: parsing pts: %w", i+2, err)
		}
		if c.NumWinners, err = strconv.Atoi(rec[6]); err != nil {
			return fmt.Errorf("challenges row %d: parsing numWinners: %w", i+2, err)
		}
		if rec[4] != "" && rec[5] != "" {
			var p Point
			if p.Lat, err = strconv.ParseFloat(rec[4], 64); err != nil {
				return fmt.Errorf("challenges row %d: parsing lat: %w", i+2, err)
			}
			if p.Lng, err = strconv.ParseFloat(rec[5], 64); err != nil {
				return fmt.Errorf("challenges row %d: parsing lng: %w", i+2, err)
			}
			c.Loc = &p
		}

		if err := store.UpsertChallenge(ctx, c); err != nil {
			return fmt.Errorf("upserting challenge %q: %w", c.Title, err)
		}
	}

	logger.Info("challenges seeded", "count", len(records))
	return nil
}

// SeedTeamsCSV imports teams from a CSV with columns emoji, name, size,
// members ("First Family, First Family"). New teams get a fresh random
// access code, logged exactly once here; only its hash is stored. Existing
// teams (by name) have emoji and roster updated and keep their code.
func SeedTeamsCSV(ctx context.Context, logger *slog.Logger, store Store, path string) error {
	records, err := readCSV(path)
	if err != nil {
		return err
	}

	for i, rec := range records {
		if len(rec) < 4 {
			return fmt.Errorf("teams row %d: expected 4 columns, got %d", i+2, len(rec))
		}
		emoji, name := rec[0], rec[1]
		members := parseMembers(rec[3])

		_, err := store.TeamByName(ctx, name)
		switch {
		case errors.Is(err, ErrNotFound):
			code := newTeamCode()
			team, err := store.CreateTeam(ctx, Team{
				Name:    name,
				Emoji:   emoji,
				Members: members,
			}, hashTeamCode(code))
			if err != nil {
				return fmt.Errorf("creating team %q: %w", name, err)
			}
			// The plaintext code exists only in this log line.
			logger.Info("team created", "name", name, "id", team.ID, "code", code)
		case err != nil:
			return fmt.Errorf("looking up team %q: %w", name, err)
		default:
			if err := store.UpdateTeamRoster(ctx, name, emoji, members); err != nil {
				return fmt.Errorf("updating team %q: %w", name, err)
			}
		}
	}

	logger.Info("teams seeded", "count", len(records))
	return nil
}

func readCSV(path string) ([][]string, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", path, err)
	}
	defer f.Close()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1
	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	if len(records) == 0 {
		return nil, nil
	}
	return records[1:], nil // skip header
}

func parseMembers(s string) []TeamMember {
	if strings.TrimSpace(s) == "" {
		return nil
	}
	var members []TeamMember
	for _, m := range strings.Split(s, ", ") {
		first, family, _ := strings.Cut(m, " ")
		members = append(members, TeamMember{FirstName: first, FamilyName: family})
	}
	return members
}

func newTeamCode() string {
	buf := make([]byte, 16)
	rand.Read(buf)
	return hex.EncodeToString(buf)
}
