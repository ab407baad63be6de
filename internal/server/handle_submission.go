package server

import (
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"path/filepath"
	"strings"
	"time"
)

const maxUploadBytes = 500 << 20 // 500 MB

// SubmissionResponse is the discriminated create result: status is "success"
// or "error", and submissionId is set only on success.
type SubmissionResponse struct {
	Status       string `json:"status"`
	Message      string `json:"message"`
	SubmissionID string `json:"submissionId,omitempty"`
}

func submissionError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, SubmissionResponse{Status: "error", Message: msg})
}

// handleCreateSubmission accepts a multipart form with a note, a challenge id
// and either a media file or an explicit skipUpload flag. The upload runs
// before the insert and a failed upload aborts the whole operation: no ledger
// record exists without a confirmed upload or an explicit skip.
func handleCreateSubmission(logger *slog.Logger, store Store, uploader Uploader) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		r.Body = http.MaxBytesReader(w, r.Body, maxUploadBytes)
		if err := r.ParseMultipartForm(32 << 20); err != nil {
			submissionError(w, "invalid multipart form")
			return
		}

		note := r.FormValue("note")
		if note == "" {
			submissionError(w, "Please provide a note")
			return
		}

		team, err := teamFromRequest(r, store)
		if errors.Is(err, errNoTeam) {
			submissionError(w, "Team with team code not found")
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		challengeID := r.FormValue("challengeId")
		if challengeID == "" {
			submissionError(w, "Please provide challengeId")
			return
		}
		challenge, err := store.ChallengeByID(r.Context(), challengeID)
		if errors.Is(err, ErrNotFound) {
			submissionError(w, fmt.Sprintf("Challenge with id '%s' not found", challengeID))
			return
		}
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		var mediaURL *string
		if r.FormValue("skipUpload") != "true" {
			file, header, err := r.FormFile("file")
			if err != nil {
				submissionError(w, "Please provide a file")
				return
			}
			defer file.Close()

			contentType := header.Header.Get("Content-Type")
			if contentType == "" {
				submissionError(w, "Invalid file, missing content type")
				return
			}

			key := mediaKey(challenge.ID, team.ID, header.Filename)
			url, err := uploader.Upload(r.Context(), key, contentType, file)
			if err != nil {
				logger.Error("media upload failed", "key", key, "error", err)
				submissionError(w, "Failed to upload file. Try again or skip upload and send us the file elsewhere")
				return
			}
			mediaURL = &url
		}

		id, err := store.CreateSubmission(r.Context(), team.ID, challenge.ID, note, mediaURL, time.Now())
		if err != nil {
			writeError(w, http.StatusInternalServerError, "internal error")
			return
		}

		writeJSON(w, http.StatusOK, SubmissionResponse{
			Status:       "success",
			Message:      "Submission uploaded successfully",
			SubmissionID: id,
		})
	}
}

// mediaKey namespaces uploads by challenge and team with a random suffix so
// repeated attempts never overwrite each other.
func mediaKey(challengeID, teamID, filename string) string {
	buf := make([]byte, 8)
	rand.Read(buf)

	ext := strings.TrimPrefix(filepath.Ext(filename), ".")
	if ext == "" {
		ext = "bin"
	}
	return fmt.Sprintf("%s/%s/%s.%s", challengeID, teamID, hex.EncodeToString(buf), ext)
}
