package server

import (
	"database/sql"
	"log/slog"

	"github.com/go-chi/chi/v5"
	"github.com/swaggest/swgui/v5emb"
)

func addRoutes(r chi.Router, logger *slog.Logger, db *sql.DB, store Store, uploader Uploader, opts Options) {
	r.Get("/openapi.json", handleOpenAPI())
	r.Mount("/docs", v5emb.New("ScavHunt API", "/openapi.json", "/docs"))
	r.Get("/healthz", handleHealth(logger, db))

	// Begin link: sets the access-code cookie from a QR code / shared URL.
	r.Get("/begin/{teamCode}", handleBegin())

	r.Route("/api", func(r chi.Router) {
		r.Post("/team", handleTeam(logger, store, opts.Now))
		r.Get("/challenges", handleChallenges(store))
		r.Get("/submissions", handleSubmissionFeed(store))
		r.Post("/submissions", handleCreateSubmission(logger, store, uploader))
		r.Post("/submissions/review", handleReview(store, opts.AdminTeamID))
		r.Get("/leaderboard", handleLeaderboard(store, opts))
		r.Get("/map", handleMap(store))
	})
}
