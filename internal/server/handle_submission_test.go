package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"net/textproto"
	"strings"
	"testing"
)

type submitForm struct {
	note        string
	challengeID string
	skipUpload  bool
	fileName    string
	fileType    string
	fileBody    string
}

func postSubmission(t *testing.T, env *testEnv, code string, form submitForm) *httptest.ResponseRecorder {
	t.Helper()

	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	if form.note != "" {
		mw.WriteField("note", form.note)
	}
	if form.challengeID != "" {
		mw.WriteField("challengeId", form.challengeID)
	}
	if form.skipUpload {
		mw.WriteField("skipUpload", "true")
	}
	if form.fileName != "" {
		h := make(textproto.MIMEHeader)
		h.Set("Content-Disposition", `form-data; name="file"; filename="`+form.fileName+`"`)
		h.Set("Content-Type", form.fileType)
		part, err := mw.CreatePart(h)
		if err != nil {
			t.Fatalf("creating file part: %v", err)
		}
		part.Write([]byte(form.fileBody))
	}
	mw.Close()

	req := httptest.NewRequest(http.MethodPost, "/api/submissions", &buf)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	if code != "" {
		withTeamCookie(req, code)
	}
	w := httptest.NewRecorder()
	env.router.ServeHTTP(w, req)
	return w
}

func decodeSubmission(t *testing.T, w *httptest.ResponseRecorder) SubmissionResponse {
	t.Helper()
	var resp SubmissionResponse
	if err := json.NewDecoder(w.Body).Decode(&resp); err != nil {
		t.Fatalf("decoding response: %v", err)
	}
	return resp
}

func TestCreateSubmissionWithUpload(t *testing.T) {
	env := setupEnv(t)

	w := postSubmission(t, env, teamACode, submitForm{
		note:        "did it!",
		challengeID: env.challengeID(t, "Statue Selfie"),
		fileName:    "proof.jpg",
		fileType:    "image/jpeg",
		fileBody:    "jpegbytes",
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeSubmission(t, w)
	if resp.Status != "success" || resp.SubmissionID == "" {
		t.Fatalf("expected success with submission id, got %+v", resp)
	}

	if len(env.uploader.keys) != 1 {
		t.Fatalf("expected 1 upload, got %d", len(env.uploader.keys))
	}
	if !strings.HasSuffix(env.uploader.keys[0], ".jpg") {
		t.Errorf("expected key with original extension, got %q", env.uploader.keys[0])
	}

	subs, err := env.store.ListSubmissionDetails(context.Background())
	if err != nil {
		t.Fatalf("listing submissions: %v", err)
	}
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(subs))
	}
	if subs[0].Status != StatusPending {
		t.Errorf("expected pending status, got %q", subs[0].Status)
	}
	if subs[0].MediaURL == nil || !strings.HasPrefix(*subs[0].MediaURL, "https://cdn.test/") {
		t.Errorf("expected uploaded media URL, got %v", subs[0].MediaURL)
	}
}

func TestCreateSubmissionSkipUpload(t *testing.T) {
	env := setupEnv(t)

	w := postSubmission(t, env, teamACode, submitForm{
		note:        "no photo, trust us",
		challengeID: env.challengeID(t, "Fountain Dip"),
		skipUpload:  true,
	})
	if w.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", w.Code, w.Body.String())
	}

	if len(env.uploader.keys) != 0 {
		t.Errorf("expected no uploads, got %d", len(env.uploader.keys))
	}

	subs, _ := env.store.ListSubmissionDetails(context.Background())
	if len(subs) != 1 {
		t.Fatalf("expected 1 submission, got %d", len(subs))
	}
	if subs[0].MediaURL != nil {
		t.Errorf("expected null media URL on skip, got %q", *subs[0].MediaURL)
	}
}

func TestCreateSubmissionEmptyNote(t *testing.T) {
	env := setupEnv(t)

	w := postSubmission(t, env, teamACode, submitForm{
		challengeID: env.challengeID(t, "Statue Selfie"),
		skipUpload:  true,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if resp := decodeSubmission(t, w); resp.Status != "error" {
		t.Errorf("expected error status, got %+v", resp)
	}
	if n := env.submissionCount(t); n != 0 {
		t.Errorf("expected ledger unchanged, got %d submissions", n)
	}
}

func TestCreateSubmissionUnknownChallenge(t *testing.T) {
	env := setupEnv(t)

	w := postSubmission(t, env, teamACode, submitForm{
		note:        "did it!",
		challengeID: "nope",
		skipUpload:  true,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if n := env.submissionCount(t); n != 0 {
		t.Errorf("expected ledger unchanged, got %d submissions", n)
	}
}

func TestCreateSubmissionNoTeam(t *testing.T) {
	env := setupEnv(t)

	w := postSubmission(t, env, "", submitForm{
		note:        "did it!",
		challengeID: env.challengeID(t, "Statue Selfie"),
		skipUpload:  true,
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if n := env.submissionCount(t); n != 0 {
		t.Errorf("expected ledger unchanged, got %d submissions", n)
	}
}

func TestCreateSubmissionMissingFile(t *testing.T) {
	env := setupEnv(t)

	w := postSubmission(t, env, teamACode, submitForm{
		note:        "did it!",
		challengeID: env.challengeID(t, "Statue Selfie"),
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d", w.Code)
	}
	if n := env.submissionCount(t); n != 0 {
		t.Errorf("expected ledger unchanged, got %d submissions", n)
	}
}

func TestCreateSubmissionUploadFailureAbortsInsert(t *testing.T) {
	env := setupEnv(t)
	env.uploader.err = errors.New("spaces unavailable")

	w := postSubmission(t, env, teamACode, submitForm{
		note:        "did it!",
		challengeID: env.challengeID(t, "Statue Selfie"),
		fileName:    "proof.mp4",
		fileType:    "video/mp4",
		fileBody:    "mp4bytes",
	})
	if w.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", w.Code, w.Body.String())
	}

	resp := decodeSubmission(t, w)
	if resp.Status != "error" || !strings.Contains(resp.Message, "skip upload") {
		t.Errorf("expected upload-failure message with skip hint, got %+v", resp)
	}
	if n := env.submissionCount(t); n != 0 {
		t.Errorf("expected no record after failed upload, got %d submissions", n)
	}
}
