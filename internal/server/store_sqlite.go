package server

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
)

// timeLayout is RFC 3339 UTC with a fixed nanosecond width. RFC3339Nano drops
// trailing fractional zeros, which breaks lexicographic ordering of the stored
// text ("...00.5Z" sorts after "...00.51Z"); a constant-width format keeps
// string order equal to time order for ORDER BY and MAX over these columns.
const timeLayout = "2006-01-02T15:04:05.000000000Z"

type SQLiteStore struct {
	db *sql.DB
}

func NewSQLiteStore(db *sql.DB) *SQLiteStore {
	return &SQLiteStore{db: db}
}

func (s *SQLiteStore) scanTeam(row *sql.Row) (Team, error) {
	var t Team
	var membersJSON string
	err := row.Scan(&t.ID, &t.Name, &t.Emoji, &membersJSON)
	if errors.Is(err, sql.ErrNoRows) {
		return t, ErrNotFound
	}
	if err != nil {
		return t, err
	}
	if err := json.Unmarshal([]byte(membersJSON), &t.Members); err != nil {
		return t, fmt.Errorf("decoding members for team %s: %w", t.ID, err)
	}
	return t, nil
}

func (s *SQLiteStore) TeamByCodeHash(ctx context.Context, codeHash string) (Team, error) {
	return s.scanTeam(s.db.QueryRowContext(ctx, `
		SELECT id, name, emoji, members FROM teams WHERE code_hash = ?
	`, codeHash))
}

func (s *SQLiteStore) TeamByName(ctx context.Context, name string) (Team, error) {
	return s.scanTeam(s.db.QueryRowContext(ctx, `
		SELECT id, name, emoji, members FROM teams WHERE name = ?
	`, name))
}

func (s *SQLiteStore) CreateTeam(ctx context.Context, t Team, codeHash string) (Team, error) {
	membersJSON, err := json.Marshal(t.Members)
	if err != nil {
		return Team{}, err
	}
	t.ID = uuid.NewString()
	_, err = s.db.ExecContext(ctx, `
		INSERT INTO teams (id, code_hash, name, emoji, members)
		VALUES (?, ?, ?, ?, ?)
	`, t.ID, codeHash, t.Name, t.Emoji, string(membersJSON))
	if err != nil {
		return Team{}, err
	}
	return t, nil
}

func (s *SQLiteStore) UpdateTeamRoster(ctx context.Context, name, emoji string, members []TeamMember) error {
	membersJSON, err := json.Marshal(members)
	if err != nil {
		return err
	}
	result, err := s.db.ExecContext(ctx, `
		UPDATE teams SET emoji = ?, members = ? WHERE name = ?
	`, emoji, string(membersJSON), name)
	if err != nil {
		return err
	}
	n, _ := result.RowsAffected()
	if n == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *SQLiteStore) ListTeams(ctx context.Context) ([]Team, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, emoji, members FROM teams ORDER BY created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var teams []Team
	for rows.Next() {
		var t Team
		var membersJSON string
		if err := rows.Scan(&t.ID, &t.Name, &t.Emoji, &membersJSON); err != nil {
			return nil, err
		}
		if err := json.Unmarshal([]byte(membersJSON), &t.Members); err != nil {
			return nil, fmt.Errorf("decoding members for team %s: %w", t.ID, err)
		}
		teams = append(teams, t)
	}
	return teams, rows.Err()
}

func scanChallenge(c *Challenge, lat, lng *sql.NullFloat64) {
	if lat.Valid && lng.Valid {
		c.Loc = &Point{Lat: lat.Float64, Lng: lng.Float64}
	}
}

func (s *SQLiteStore) ChallengeByID(ctx context.Context, id string) (Challenge, error) {
	var c Challenge
	var lat, lng sql.NullFloat64
	err := s.db.QueryRowContext(ctx, `
		SELECT id, title, prompt, lat, lng, pts, num_winners
		FROM challenges WHERE id = ?
	`, id).Scan(&c.ID, &c.Title, &c.Prompt, &lat, &lng, &c.Pts, &c.NumWinners)
	if errors.Is(err, sql.ErrNoRows) {
		return c, ErrNotFound
	}
	if err != nil {
		return c, err
	}
	scanChallenge(&c, &lat, &lng)
	return c, nil
}

// UpsertChallenge inserts or updates a challenge keyed by title, matching the
// seeding contract: titles are stable across reseeds, ids are not reused.
func (s *SQLiteStore) UpsertChallenge(ctx context.Context, c Challenge) error {
	var lat, lng any
	if c.Loc != nil {
		lat, lng = c.Loc.Lat, c.Loc.Lng
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO challenges (id, title, prompt, lat, lng, pts, num_winners)
		VALUES (?, ?, ?, ?, ?, ?, ?)
		ON CONFLICT(title) DO UPDATE SET
			prompt = excluded.prompt,
			lat = excluded.lat,
			lng = excluded.lng,
			pts = excluded.pts,
			num_winners = excluded.num_winners
	`, uuid.NewString(), c.Title, c.Prompt, lat, lng, c.Pts, c.NumWinners)
	return err
}

func (s *SQLiteStore) ListChallenges(ctx context.Context) ([]Challenge, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, title, prompt, lat, lng, pts, num_winners
		FROM challenges ORDER BY pts DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var challenges []Challenge
	for rows.Next() {
		var c Challenge
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&c.ID, &c.Title, &c.Prompt, &lat, &lng, &c.Pts, &c.NumWinners); err != nil {
			return nil, err
		}
		scanChallenge(&c, &lat, &lng)
		challenges = append(challenges, c)
	}
	return challenges, rows.Err()
}

func (s *SQLiteStore) ListChallengeStats(ctx context.Context) ([]ChallengeStats, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT c.id, c.title, c.prompt, c.lat, c.lng, c.pts, c.num_winners,
			(SELECT COUNT(*) FROM submissions s WHERE s.challenge_id = c.id AND s.status = 'accepted'),
			(SELECT COUNT(*) FROM submissions s WHERE s.challenge_id = c.id AND s.status = 'pending')
		FROM challenges c
		ORDER BY c.pts DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	stats := []ChallengeStats{}
	for rows.Next() {
		var cs ChallengeStats
		var lat, lng sql.NullFloat64
		if err := rows.Scan(&cs.ID, &cs.Title, &cs.Prompt, &lat, &lng, &cs.Pts, &cs.NumWinners, &cs.Accepted, &cs.Pending); err != nil {
			return nil, err
		}
		scanChallenge(&cs.Challenge, &lat, &lng)
		stats = append(stats, cs)
	}
	return stats, rows.Err()
}

func (s *SQLiteStore) CreateSubmission(ctx context.Context, teamID, challengeID, note string, mediaURL *string, createdAt time.Time) (string, error) {
	id := uuid.NewString()
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO submissions (id, team_id, challenge_id, status, media_url, note, created_at)
		VALUES (?, ?, ?, 'pending', ?, ?, ?)
	`, id, teamID, challengeID, mediaURL, note, createdAt.UTC().Format(timeLayout))
	if err != nil {
		return "", err
	}
	return id, nil
}

// ReviewSubmission applies the one-way outcome transition. Re-applying the
// current outcome is a no-op; reversing a decided outcome returns ErrConflict.
func (s *SQLiteStore) ReviewSubmission(ctx context.Context, id string, status SubmissionStatus) error {
	var current SubmissionStatus
	err := s.db.QueryRowContext(ctx, `
		SELECT status FROM submissions WHERE id = ?
	`, id).Scan(&current)
	if errors.Is(err, sql.ErrNoRows) {
		return ErrNotFound
	}
	if err != nil {
		return err
	}

	switch {
	case current == status:
		return nil
	case current != StatusPending:
		return ErrConflict
	}

	_, err = s.db.ExecContext(ctx, `
		UPDATE submissions SET status = ? WHERE id = ?
	`, status, id)
	return err
}

func (s *SQLiteStore) ListSubmissionDetails(ctx context.Context) ([]SubmissionDetail, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.id, s.note, s.media_url, s.status, s.created_at,
			t.id, t.name, t.emoji,
			c.id, c.title, c.pts
		FROM submissions s
		JOIN teams t ON t.id = s.team_id
		JOIN challenges c ON c.id = s.challenge_id
		ORDER BY s.created_at DESC
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	subs := []SubmissionDetail{}
	for rows.Next() {
		var d SubmissionDetail
		var createdAt string
		if err := rows.Scan(&d.ID, &d.Note, &d.MediaURL, &d.Status, &createdAt,
			&d.Team.ID, &d.Team.Name, &d.Team.Emoji,
			&d.Challenge.ID, &d.Challenge.Title, &d.Challenge.Pts); err != nil {
			return nil, err
		}
		d.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, fmt.Errorf("parsing created_at for submission %s: %w", d.ID, err)
		}
		subs = append(subs, d)
	}
	return subs, rows.Err()
}

func (s *SQLiteStore) AcceptedSubmissions(ctx context.Context) ([]AcceptedSubmission, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT s.team_id, s.challenge_id, c.pts, s.created_at
		FROM submissions s
		JOIN challenges c ON c.id = s.challenge_id
		WHERE s.status = 'accepted'
		ORDER BY s.created_at
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var accepted []AcceptedSubmission
	for rows.Next() {
		var a AcceptedSubmission
		var createdAt string
		if err := rows.Scan(&a.TeamID, &a.ChallengeID, &a.Pts, &createdAt); err != nil {
			return nil, err
		}
		a.CreatedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		accepted = append(accepted, a)
	}
	return accepted, rows.Err()
}

func (s *SQLiteStore) LatestLocation(ctx context.Context, teamID string) (LocationSample, error) {
	var l LocationSample
	var createdAt string
	err := s.db.QueryRowContext(ctx, `
		SELECT id, team_id, lat, lng, created_at
		FROM locations WHERE team_id = ?
		ORDER BY created_at DESC LIMIT 1
	`, teamID).Scan(&l.ID, &l.TeamID, &l.Loc.Lat, &l.Loc.Lng, &createdAt)
	if errors.Is(err, sql.ErrNoRows) {
		return l, ErrNotFound
	}
	if err != nil {
		return l, err
	}
	l.CreatedAt, err = time.Parse(timeLayout, createdAt)
	return l, err
}

// RecordLocation appends a sample unconditionally. The 15-minute throttle is
// a read-then-write check in the handler and is deliberately not guarded by a
// transaction; concurrent requests inside one window may both pass it.
func (s *SQLiteStore) RecordLocation(ctx context.Context, teamID string, loc Point, at time.Time) (LocationSample, error) {
	l := LocationSample{
		ID:        uuid.NewString(),
		TeamID:    teamID,
		Loc:       loc,
		CreatedAt: at.UTC(),
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO locations (id, team_id, lat, lng, created_at)
		VALUES (?, ?, ?, ?, ?)
	`, l.ID, teamID, loc.Lat, loc.Lng, l.CreatedAt.Format(timeLayout))
	if err != nil {
		return LocationSample{}, err
	}
	return l, nil
}

func (s *SQLiteStore) LatestTeamLocations(ctx context.Context) ([]TeamLocation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT l.team_id, t.emoji, l.lat, l.lng, l.created_at
		FROM locations l
		JOIN teams t ON t.id = l.team_id
		WHERE l.created_at = (
			SELECT MAX(created_at) FROM locations WHERE team_id = l.team_id
		)
		GROUP BY l.team_id
	`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	locations := []TeamLocation{}
	for rows.Next() {
		var tl TeamLocation
		var createdAt string
		if err := rows.Scan(&tl.TeamID, &tl.Emoji, &tl.Loc.Lat, &tl.Loc.Lng, &createdAt); err != nil {
			return nil, err
		}
		tl.RecordedAt, err = time.Parse(timeLayout, createdAt)
		if err != nil {
			return nil, err
		}
		locations = append(locations, tl)
	}
	return locations, rows.Err()
}
