package server

import (
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"net/http"
)

// teamCookieName carries the team's plaintext access code. Only the sha-256
// hash of the code is ever stored or compared.
const teamCookieName = "teamCode"

var errNoTeam = errors.New("no team for request")

func hashTeamCode(code string) string {
	sum := sha256.Sum256([]byte(code))
	return hex.EncodeToString(sum[:])
}

// teamFromRequest resolves the requesting team from the access-code cookie.
// Returns errNoTeam when the cookie is absent or matches no team.
func teamFromRequest(r *http.Request, store Store) (Team, error) {
	cookie, err := r.Cookie(teamCookieName)
	if err != nil || cookie.Value == "" {
		return Team{}, errNoTeam
	}

	team, err := store.TeamByCodeHash(r.Context(), hashTeamCode(cookie.Value))
	if errors.Is(err, ErrNotFound) {
		return Team{}, errNoTeam
	}
	return team, err
}
