package server

import (
	"sort"
	"time"
)

type SeriesPoint struct {
	T      time.Time `json:"t"`
	Points int       `json:"points"`
}

type TeamScore struct {
	Team
	Points int           `json:"points"`
	Series []SeriesPoint `json:"series"`
}

// computeScores credits each team once per distinct accepted challenge and
// builds the cumulative series anchored at eventStart. accepted must be
// ordered by creation time ascending; a second accepted submission against an
// already-credited challenge adds no points and no series step, so the series
// is non-decreasing and ends at the team's total.
func computeScores(teams []Team, accepted []AcceptedSubmission, eventStart time.Time) []TeamScore {
	scores := make([]TeamScore, len(teams))
	byTeam := make(map[string]*TeamScore, len(teams))
	for i, t := range teams {
		scores[i] = TeamScore{
			Team:   t,
			Series: []SeriesPoint{{T: eventStart, Points: 0}},
		}
		byTeam[t.ID] = &scores[i]
	}

	credited := make(map[string]map[string]bool)
	for _, a := range accepted {
		ts, ok := byTeam[a.TeamID]
		if !ok {
			continue
		}
		if credited[a.TeamID][a.ChallengeID] {
			continue
		}
		if credited[a.TeamID] == nil {
			credited[a.TeamID] = make(map[string]bool)
		}
		credited[a.TeamID][a.ChallengeID] = true

		ts.Points += a.Pts
		ts.Series = append(ts.Series, SeriesPoint{T: a.CreatedAt, Points: ts.Points})
	}

	sort.Slice(scores, func(i, j int) bool {
		return scores[i].Points > scores[j].Points
	})
	return scores
}

// clampEnd returns the display end of the series x-axis:
// min(now, eventEnd), never before eventStart.
func clampEnd(now, eventStart, eventEnd time.Time) time.Time {
	switch {
	case now.Before(eventStart):
		return eventStart
	case now.After(eventEnd):
		return eventEnd
	default:
		return now
	}
}
