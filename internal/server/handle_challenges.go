package server

import (
	"errors"
	"net/http"
)

type ChallengesResponse struct {
	Challenges []ChallengeStats `json:"challenges"`
}

// handleChallenges returns the catalog with per-challenge accepted and
// pending counts, highest point value first.
func handleChallenges(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := teamFromRequest(r, store); err != nil {
			if errors.Is(err, errNoTeam) {
				writeError(w, http.StatusUnauthorized, "not signed in")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		stats, err := store.ListChallengeStats(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, ChallengesResponse{Challenges: stats})
	}
}
