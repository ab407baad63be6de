package server

import (
	"errors"
	"log/slog"
	"net/http"
	"time"
)

// locationThrottle is the minimum spacing between stored samples per team.
const locationThrottle = 15 * time.Minute

type TeamRequest struct {
	Location *Point `json:"location"`
}

// TeamResponse carries the resolved team, or null when the request has no
// valid access-code cookie.
type TeamResponse struct {
	Team *Team `json:"team"`
}

// handleTeam resolves the requesting team and, when the body carries a
// location, opportunistically records a sample. Sampling is best-effort and
// lossy: a new sample is kept only if the latest one is at least 15 minutes
// old. The check-then-write is not transactional; near-simultaneous requests
// may both pass it.
func handleTeam(logger *slog.Logger, store Store, now func() time.Time) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		var req TeamRequest
		// A malformed or empty body just means "no location"; identity
		// resolution still runs.
		_ = readJSON(r, &req)

		team, err := teamFromRequest(r, store)
		if errors.Is(err, errNoTeam) {
			writeJSON(w, http.StatusOK, TeamResponse{Team: nil})
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		if req.Location != nil {
			if err := recordLocation(r, store, team.ID, *req.Location, now()); err != nil {
				writeError(w, http.StatusInternalServerError, "internal error")
				return
			}
		}

		writeJSON(w, http.StatusOK, TeamResponse{Team: &team})
	}
}

func recordLocation(r *http.Request, store Store, teamID string, loc Point, now time.Time) error {
	latest, err := store.LatestLocation(r.Context(), teamID)
	if err != nil && !errors.Is(err, ErrNotFound) {
		return err
	}
	if err == nil && now.Sub(latest.CreatedAt) < locationThrottle {
		return nil
	}

	_, err = store.RecordLocation(r.Context(), teamID, loc, now)
	return err
}
