package server

import (
	"errors"
	"net/http"
)

type MapResponse struct {
	Locations  []TeamLocation `json:"locations"`
	Challenges []Challenge    `json:"challenges"`
}

// handleMap returns each team's most recent location sample (teams with no
// samples are omitted) together with the challenge pins.
func handleMap(store Store) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if _, err := teamFromRequest(r, store); err != nil {
			if errors.Is(err, errNoTeam) {
				writeError(w, http.StatusUnauthorized, "not signed in")
				return
			}
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		locations, err := store.LatestTeamLocations(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		challenges, err := store.ListChallenges(r.Context())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, MapResponse{
			Locations:  locations,
			Challenges: challenges,
		})
	}
}
