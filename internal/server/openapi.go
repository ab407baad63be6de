package server

import (
	"encoding/json"
	"net/http"

	openapi "github.com/swaggest/openapi-go"
	"github.com/swaggest/openapi-go/openapi3"
)

// ErrorResponse is returned for all error responses.
type ErrorResponse struct {
	Error string `json:"error"`
}

func newOpenAPISpec() *openapi3.Spec {
	r := openapi3.NewReflector()
	r.Spec.Info.Title = "ScavHunt API"
	r.Spec.Info.Version = "0.1.0"
	r.Spec.Info.WithDescription("Backend API for the team scavenger-hunt event.")

	// GET /healthz
	getHealthz, _ := r.NewOperationContext(http.MethodGet, "/healthz")
	getHealthz.SetSummary("Health check")
	getHealthz.SetDescription("Returns the health status of backend dependencies.")
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getHealthz.AddRespStructure(HealthResponse{}, openapi.WithHTTPStatus(http.StatusServiceUnavailable))
	_ = r.AddOperation(getHealthz)

	// GET /begin/{teamCode}
	getBegin, _ := r.NewOperationContext(http.MethodGet, "/begin/{teamCode}")
	getBegin.SetSummary("Begin link")
	getBegin.SetDescription("Stores the team's access code in a cookie and redirects to the app.")
	getBegin.AddRespStructure(nil, openapi.WithHTTPStatus(http.StatusFound))
	_ = r.AddOperation(getBegin)

	// POST /api/team
	postTeam, _ := r.NewOperationContext(http.MethodPost, "/api/team")
	postTeam.SetSummary("Resolve team")
	postTeam.SetDescription("Resolves the requesting team from the access-code cookie. An optional location is recorded if the team's latest sample is at least 15 minutes old.")
	postTeam.AddReqStructure(TeamRequest{})
	postTeam.AddRespStructure(TeamResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	_ = r.AddOperation(postTeam)

	// GET /api/challenges
	getChallenges, _ := r.NewOperationContext(http.MethodGet, "/api/challenges")
	getChallenges.SetSummary("Challenge catalog")
	getChallenges.SetDescription("Challenges with accepted and pending submission counts, highest points first. Requires the team cookie.")
	getChallenges.AddRespStructure(ChallengesResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getChallenges.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getChallenges)

	// GET /api/submissions
	getSubs, _ := r.NewOperationContext(http.MethodGet, "/api/submissions")
	getSubs.SetSummary("Submission feed")
	getSubs.SetDescription("All submissions newest first with team and challenge details. Requires the team cookie.")
	getSubs.AddRespStructure(SubmissionFeedResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getSubs.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getSubs)

	// POST /api/submissions
	postSub, _ := r.NewOperationContext(http.MethodPost, "/api/submissions")
	postSub.SetSummary("Create submission")
	postSub.SetDescription("Multipart form: note, challengeId, optional file, optional skipUpload=true. The media upload must succeed (or be skipped) before the submission is recorded.")
	postSub.AddRespStructure(SubmissionResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postSub.AddRespStructure(SubmissionResponse{}, openapi.WithHTTPStatus(http.StatusBadRequest))
	_ = r.AddOperation(postSub)

	// POST /api/submissions/review
	postReview, _ := r.NewOperationContext(http.MethodPost, "/api/submissions/review")
	postReview.SetSummary("Review submission")
	postReview.SetDescription("Accept or reject a pending submission. Admin team only; accepted defaults to true.")
	postReview.AddReqStructure(ReviewRequest{})
	postReview.AddRespStructure(ReviewResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	postReview.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	postReview.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusForbidden))
	postReview.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusConflict))
	_ = r.AddOperation(postReview)

	// GET /api/leaderboard
	getBoard, _ := r.NewOperationContext(http.MethodGet, "/api/leaderboard")
	getBoard.SetSummary("Leaderboard")
	getBoard.SetDescription("Point totals and cumulative point series per team, ranked descending. Requires the team cookie.")
	getBoard.AddRespStructure(LeaderboardResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getBoard.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getBoard)

	// GET /api/map
	getMap, _ := r.NewOperationContext(http.MethodGet, "/api/map")
	getMap.SetSummary("Team map")
	getMap.SetDescription("Latest location per team plus challenge pins. Requires the team cookie.")
	getMap.AddRespStructure(MapResponse{}, openapi.WithHTTPStatus(http.StatusOK))
	getMap.AddRespStructure(ErrorResponse{}, openapi.WithHTTPStatus(http.StatusUnauthorized))
	_ = r.AddOperation(getMap)

	return r.Spec
}

func handleOpenAPI() http.HandlerFunc {
	spec := newOpenAPISpec()
	data, _ := json.MarshalIndent(spec, "", "  ")

	return func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json; charset=utf-8")
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write(data)
	}
}
