package server

import (
	"errors"
	"net/http"
	"time"
)

type LeaderboardResponse struct {
	StartTime time.Time   `json:"startTime"`
	EndTime   time.Time   `json:"endTime"`
	Teams     []TeamScore `json:"teams"`
}

// handleLeaderboard returns every team's point total and cumulative series,
// ranked descending. Ties are unordered.
func handleLeaderboard(store Store, opts Options) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := teamFromRequest(r, store); err != nil {
			if errors.Is(err, errNoTeam) {
				writeError(w, http.StatusUnauthorized, "not signed in")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		teams, err := store.ListTeams(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		accepted, err := store.AcceptedSubmissions(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, LeaderboardResponse{
			StartTime: opts.EventStart,
			EndTime:   clampEnd(opts.Now(), opts.EventStart, opts.EventEnd),
			Teams:     computeScores(teams, accepted, opts.EventStart),
		})
	}
}
