package server

import (
	"errors"
	"net/http"
)

type SubmissionFeedResponse struct {
	Submissions []SubmissionDetail `json:"submissions"`
}

// handleSubmissionFeed returns every submission newest-first, with team and
// challenge lookups resolved for display.
func handleSubmissionFeed(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := teamFromRequest(r, store); err != nil {
			if errors.Is(err, errNoTeam) {
				writeError(w, http.StatusUnauthorized, "not signed in")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		subs, err := store.ListSubmissionDetails(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, SubmissionFeedResponse{Submissions: subs})
	}
}
