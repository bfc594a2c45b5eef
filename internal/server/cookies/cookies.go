// Package cookies reads and writes the session cookies on the server side.
// Both cookies are http-only and strict same-site; Secure is on unless the
// Manager is told otherwise for plain-http development.
package cookies

import (
	"net/http"
	"time"
)

const (
	AccessTokenName  = "accessToken"
	RefreshTokenName = "refreshToken"
)

type Manager struct {
	// Insecure drops the Secure attribute. Only for local plain-http runs.
	Insecure bool
}

// JWTCookies holds whatever session cookies came with a request; a missing
// cookie is nil.
type JWTCookies struct {
	AccessToken  *http.Cookie
	RefreshToken *http.Cookie
}

func (m Manager) GetJWTCookies(r *http.Request) JWTCookies {
	var c JWTCookies
	if v, err := r.Cookie(AccessTokenName); err == nil {
		c.AccessToken = v
	}
	if v, err := r.Cookie(RefreshTokenName); err == nil {
		c.RefreshToken = v
	}
	return c
}

func (m Manager) SetAccessTokenCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, m.cookie(AccessTokenName, token, maxAge))
}

func (m Manager) SetRefreshTokenCookie(w http.ResponseWriter, token string, maxAge time.Duration) {
	http.SetCookie(w, m.cookie(RefreshTokenName, token, maxAge))
}

// SetJWTCookies sets both cookies, each with its own max-age.
func (m Manager) SetJWTCookies(w http.ResponseWriter, accessToken, refreshToken string, accessMaxAge, refreshMaxAge time.Duration) {
	m.SetAccessTokenCookie(w, accessToken, accessMaxAge)
	m.SetRefreshTokenCookie(w, refreshToken, refreshMaxAge)
}

// RemoveJWTCookies tells the client to drop both cookies.
func (m Manager) RemoveJWTCookies(w http.ResponseWriter) {
	for _, name := range []string{AccessTokenName, RefreshTokenName} {
		c := m.cookie(name, "", 0)
		c.MaxAge = -1
		c.Expires = time.Unix(0, 0)
		http.SetCookie(w, c)
	}
}

func (m Manager) cookie(name, value string, maxAge time.Duration) *http.Cookie {
	return &http.Cookie{
		Name:     name,
		Value:    value,
		Path:     "/",
		MaxAge:   int(maxAge.Seconds()),
		HttpOnly: true,
		Secure:   !m.Insecure,
		SameSite: http.SameSiteStrictMode,
	}
}
