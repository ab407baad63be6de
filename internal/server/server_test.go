package server

import (
	"context"
	"database/sql"
	"io"
	"log/slog"
	"net/http"
	"testing"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/DrewGregory/scavhunt/internal/database"
	"github.com/DrewGregory/scavhunt/internal/migrations"
)

const (
	adminCode = "admin999"
	teamACode = "abc123"
	teamBCode = "def456"
)

var eventStart = time.Date(2024, 8, 25, 10, 0, 0, 0, time.UTC)

type fakeUploader struct {
	err  error
	keys []string
}

func (f *fakeUploader) Upload(_ context.Context, key, _ string, _ io.Reader) (string, error) {
	if f.err != nil {
		return "", f.err
	}
	f.keys = append(f.keys, key)
	return "https://cdn.test/" + key, nil
}

type testEnv struct {
	db       *sql.DB
	store    *SQLiteStore
	router   *chi.Mux
	uploader *fakeUploader
	now      time.Time

	adminID string
	teamA   Team
	teamB   Team
}

// setupEnv builds a router over an in-memory store seeded with an admin team,
// two player teams and two challenges ("Statue Selfie" 10 pts, "Fountain Dip"
// 5 pts). The clock starts one hour into the event and is advanced by
// mutating env.now.
func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	ctx := context.Background()

	db, err := database.Open(ctx, ":memory:")
	if err != nil {
		t.Fatalf("opening database: %v", err)
	}
	t.Cleanup(func() { db.Close() })

	if err := migrations.Run(db); err != nil {
		t.Fatalf("running migrations: %v", err)
	}

	store := NewSQLiteStore(db)
	env := &testEnv{
		db:       db,
		store:    store,
		uploader: &fakeUploader{},
		now:      eventStart.Add(time.Hour),
	}

	admin, err := store.CreateTeam(ctx, Team{Name: "Organizers", Emoji: "🦉"}, hashTeamCode(adminCode))
	if err != nil {
		t.Fatalf("creating admin team: %v", err)
	}
	env.adminID = admin.ID

	env.teamA, err = store.CreateTeam(ctx, Team{
		Name:  "Alpha",
		Emoji: "🐙",
		Members: []TeamMember{
			{FirstName: "Ada", FamilyName: "Lovelace"},
			{FirstName: "Grace", FamilyName: "Hopper"},
		},
	}, hashTeamCode(teamACode))
	if err != nil {
		t.Fatalf("creating team A: %v", err)
	}

	env.teamB, err = store.CreateTeam(ctx, Team{Name: "Bravo", Emoji: "🦀"}, hashTeamCode(teamBCode))
	if err != nil {
		t.Fatalf("creating team B: %v", err)
	}

	for _, c := range []Challenge{
		{Title: "Statue Selfie", Prompt: "Photo with the statue", Loc: &Point{Lat: 37.7, Lng: -122.4}, Pts: 10, NumWinners: 3},
		{Title: "Fountain Dip", Prompt: "Touch the fountain", Pts: 5, NumWinners: 1},
	} {
		if err := store.UpsertChallenge(ctx, c); err != nil {
			t.Fatalf("seeding challenge %q: %v", c.Title, err)
		}
	}

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	r := chi.NewRouter()
	addRoutes(r, logger, db, store, env.uploader, Options{
		AdminTeamID: env.adminID,
		EventStart:  eventStart,
		EventEnd:    eventStart.Add(8 * time.Hour),
		Now:         func() time.Time { return env.now },
	})
	env.router = r

	return env
}

func (e *testEnv) challengeID(t *testing.T, title string) string {
	t.Helper()
	challenges, err := e.store.ListChallenges(context.Background())
	if err != nil {
		t.Fatalf("listing challenges: %v", err)
	}
	for _, c := range challenges {
		if c.Title == title {
			return c.ID
		}
	}
	t.Fatalf("challenge %q not seeded", title)
	return ""
}

func (e *testEnv) submissionCount(t *testing.T) int {
	t.Helper()
	var n int
	if err := e.db.QueryRow(`SELECT COUNT(*) FROM submissions`).Scan(&n); err != nil {
		t.Fatalf("counting submissions: %v", err)
	}
	return n
}

func (e *testEnv) locationCount(t *testing.T, teamID string) int {
	t.Helper()
	var n int
	if err := e.db.QueryRow(`SELECT COUNT(*) FROM locations WHERE team_id = ?`, teamID).Scan(&n); err != nil {
		t.Fatalf("counting locations: %v", err)
	}
	return n
}

func withTeamCookie(req *http.Request, code string) *http.Request {
	req.AddCookie(&http.Cookie{Name: teamCookieName, Value: code})
	return req
}

func (e *testEnv) submit(t *testing.T, teamID, challengeTitle, note string, at time.Time) string {
	t.Helper()
	id, err := e.store.CreateSubmission(context.Background(), teamID, e.challengeID(t, challengeTitle), note, nil, at)
	if err != nil {
		t.Fatalf("creating submission: %v", err)
	}
	return id
}

func (e *testEnv) accept(t *testing.T, submissionID string) {
	t.Helper()
	if err := e.store.ReviewSubmission(context.Background(), submissionID, StatusAccepted); err != nil {
		t.Fatalf("accepting submission: %v", err)
	}
}
