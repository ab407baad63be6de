package server

import (
	"errors"
	"net/http"
)

type ReviewRequest struct {
	SubmissionID string `json:"submissionId"`
	// Accepted defaults to true when omitted.
	Accepted *bool `json:"accepted"`
}

type ReviewResponse struct {
	Success bool `json:"success"`
}

// handleReview applies an accept/reject outcome to a pending submission.
// Only the configured admin team may review.
func handleReview(store Store, adminTeamID string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		team, err := teamFromRequest(r, store)
		if errors.Is(err, errNoTeam) {
			writeError(w, http.StatusUnauthorized, "not signed in")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}
		if team.ID != adminTeamID {
			writeError(w, http.StatusForbidden, "insufficient team permission to review submissions")
			return
		}

		var req ReviewRequest
		if err := readJSON(r, &req); err != nil || req.SubmissionID == "" {
			writeError(w, http.StatusBadRequest, "invalid request body")
			return
		}

		status := StatusAccepted
		if req.Accepted != nil && !*req.Accepted {
			status = StatusRejected
		}

		err = store.ReviewSubmission(r.Context(), req.SubmissionID, status)
		switch {
		case errors.Is(err, ErrNotFound):
			writeError(w, http.StatusNotFound, "submission not found")
			return
		case errors.Is(err, ErrConflict):
			writeError(w, http.StatusConflict, "submission already reviewed")
			return
		case err != nil:
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, ReviewResponse{Success: true})
	}
}
