package server

import (
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
)

// handleBegin stores the access code from a begin link in a long-lived cookie
// and sends the player to the app. The code itself is opaque here; identity
// resolution hashes it on every request.
func handleBegin() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		code := chi.URLParam(r, "teamCode")
		if code != "" {
			http.SetCookie(w, &http.Cookie{
				Name:     teamCookieName,
				Value:    code,
				Path:     "/",
				MaxAge:   int(7 * 24 * time.Hour / time.Second),
				SameSite: http.SameSiteStrictMode,
			})
		}
		http.Redirect(w, r, "/", http.StatusFound)
	}
}
