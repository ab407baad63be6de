package server

import (
	"context"
	"errors"
	"time"
)

var (
	ErrNotFound = errors.New("not found")
	// ErrConflict is returned when a review tries to reverse a decided
	// submission.
	ErrConflict = errors.New("conflict")
)

// Point is a geographic coordinate pair.
type Point struct {
	Lat float64 `json:"lat"`
	Lng float64 `json:"lng"`
}

type TeamMember struct {
	FirstName  string `json:"firstName"`
	FamilyName string `json:"familyName"`
}

type Team struct {
	ID      string       `json:"id"`
	Name    string       `json:"name"`
	Emoji   string       `json:"emoji"`
	Members []TeamMember `json:"members"`
}

// Challenge is a scorable task. Loc is nil for unanchored challenges.
type Challenge struct {
	ID         string `json:"id"`
	Title      string `json:"title"`
	Prompt     string `json:"prompt"`
	Loc        *Point `json:"loc"`
	Pts        int    `json:"pts"`
	NumWinners int    `json:"numWinners"`
}

// ChallengeStats is a challenge joined with its non-rejected submissions,
// partitioned into accepted and still-pending counts.
type ChallengeStats struct {
	Challenge
	Accepted int `json:"accepted"`
	Pending  int `json:"pending"`
}

type SubmissionStatus string

const (
	StatusPending  SubmissionStatus = "pending"
	StatusAccepted SubmissionStatus = "accepted"
	StatusRejected SubmissionStatus = "rejected"
)

// SubmissionRef names the team and challenge a submission belongs to,
// denormalized for the feed.
type SubmissionRef struct {
	ID    string `json:"id"`
	Name  string `json:"name,omitempty"`
	Emoji string `json:"emoji,omitempty"`
	Title string `json:"title,omitempty"`
	Pts   int    `json:"pts,omitempty"`
}

type SubmissionDetail struct {
	ID        string           `json:"id"`
	Note      string           `json:"note"`
	MediaURL  *string          `json:"mediaURL"`
	Status    SubmissionStatus `json:"status"`
	CreatedAt time.Time        `json:"createdAt"`
	Team      SubmissionRef    `json:"team"`
	Challenge SubmissionRef    `json:"challenge"`
}

// AcceptedSubmission is one row of the leaderboard aggregation: an accepted
// submission joined with its challenge's point value.
type AcceptedSubmission struct {
	TeamID      string
	ChallengeID string
	Pts         int
	CreatedAt   time.Time
}

type LocationSample struct {
	ID        string
	TeamID    string
	Loc       Point
	CreatedAt time.Time
}

// TeamLocation is a team's most recent sample, paired with its emoji for
// map rendering.
type TeamLocation struct {
	TeamID     string    `json:"teamId"`
	Emoji      string    `json:"emoji"`
	Loc        Point     `json:"loc"`
	RecordedAt time.Time `json:"recordedAt"`
}

type Store interface {
	TeamByCodeHash(ctx context.Context, codeHash string) (Team, error)
	TeamByName(ctx context.Context, name string) (Team, error)
	CreateTeam(ctx context.Context, t Team, codeHash string) (Team, error)
	UpdateTeamRoster(ctx context.Context, name, emoji string, members []TeamMember) error
	ListTeams(ctx context.Context) ([]Team, error)

	ChallengeByID(ctx context.Context, id string) (Challenge, error)
	UpsertChallenge(ctx context.Context, c Challenge) error
	ListChallenges(ctx context.Context) ([]Challenge, error)
	ListChallengeStats(ctx context.Context) ([]ChallengeStats, error)

	CreateSubmission(ctx context.Context, teamID, challengeID, note string, mediaURL *string, createdAt time.Time) (string, error)
	ReviewSubmission(ctx context.Context, id string, status SubmissionStatus) error
	ListSubmissionDetails(ctx context.Context) ([]SubmissionDetail, error)
	AcceptedSubmissions(ctx context.Context) ([]AcceptedSubmission, error)

	LatestLocation(ctx context.Context, teamID string) (LocationSample, error)
	RecordLocation(ctx context.Context, teamID string, loc Point, at time.Time) (LocationSample, error)
	LatestTeamLocations(ctx context.Context) ([]TeamLocation, error)
}
