// Package httpapi is a small development backend that speaks the same API
// as the production gateway: cookie-based JWT sessions and the user
// endpoints the client needs.
package httpapi

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"time"

	"github.com/dmitrijs2005/gatewayclient/internal/logging"
	"github.com/dmitrijs2005/gatewayclient/internal/server/auth"
	"github.com/dmitrijs2005/gatewayclient/internal/server/cookies"
)

type Options struct {
	SecretKey       []byte
	AccessTokenTTL  time.Duration
	RefreshTokenTTL time.Duration
	Cookies         cookies.Manager
	Logger          logging.Logger
}

type Server struct {
	users  *Users
	opts   Options
	logger logging.Logger
}

func New(users *Users, opts Options) *Server {
	logger := opts.Logger
	if logger == nil {
		logger = logging.Nop()
	}
	return &Server{users: users, opts: opts, logger: logger}
}

// Handler returns the root http.Handler with every route under /v1.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("GET /v1/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusOK, map[string]any{"ok": true})
	})

	mux.HandleFunc("POST /v1/auth/login", s.handleLogin)
	mux.HandleFunc("POST /v1/auth/logout", s.handleLogout)
	mux.HandleFunc("POST /v1/auth/refresh", s.handleRefresh)

	mux.Handle("GET /v1/user/getUserDetails", s.authMiddleware(http.HandlerFunc(s.handleGetUserDetails)))
	mux.Handle("PUT /v1/user/updateUserDetails", s.authMiddleware(http.HandlerFunc(s.handleUpdateUserDetails)))

	return s.withLogging(mux)
}

type contextKey string

const usernameContextKey contextKey = "username"

func usernameFrom(ctx context.Context) string {
	v, _ := ctx.Value(usernameContextKey).(string)
	return v
}

func (s *Server) authMiddleware(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		c := s.opts.Cookies.GetJWTCookies(r)
		if c.AccessToken == nil {
			writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
			return
		}

		username, err := auth.ParseToken(c.AccessToken.Value, auth.KindAccess, s.opts.SecretKey)
		if err != nil {
			writeError(w, http.StatusUnauthorized, err)
			return
		}

		ctx := context.WithValue(r.Context(), usernameContextKey, username)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func (s *Server) handleLogin(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Username string `json:"username"`
		Password string `json:"password"`
	}
	if err := parseJSON(r, &req); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if req.Username == "" || req.Password == "" {
		writeError(w, http.StatusUnprocessableEntity, errors.New("username and password are required"))
		return
	}

	p, err := s.users.Authenticate(req.Username, req.Password)
	if errors.Is(err, ErrInvalidCredentials) {
		writeError(w, http.StatusUnauthorized, err)
		return
	}
	if err != nil {
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	if err := s.issueTokens(w, p.Username); err != nil {
		s.logger.Error(r.Context(), "failed to issue tokens", "error", err)
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}

	s.logger.Info(r.Context(), "user logged in", "username", p.Username)
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleLogout(w http.ResponseWriter, r *http.Request) {
	s.opts.Cookies.RemoveJWTCookies(w)
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleRefresh(w http.ResponseWriter, r *http.Request) {
	c := s.opts.Cookies.GetJWTCookies(r)
	if c.RefreshToken == nil {
		writeError(w, http.StatusUnauthorized, errors.New("unauthorized"))
		return
	}

	username, err := auth.ParseToken(c.RefreshToken.Value, auth.KindRefresh, s.opts.SecretKey)
	if err != nil {
		s.opts.Cookies.RemoveJWTCookies(w)
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	if _, err := s.users.Get(username); err != nil {
		s.opts.Cookies.RemoveJWTCookies(w)
		writeError(w, http.StatusUnauthorized, err)
		return
	}

	if err := s.issueTokens(w, username); err != nil {
		writeError(w, http.StatusInternalServerError, errors.New("internal error"))
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleGetUserDetails(w http.ResponseWriter, r *http.Request) {
	p, err := s.users.Get(usernameFrom(r.Context()))
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, p)
}

func (s *Server) handleUpdateUserDetails(w http.ResponseWriter, r *http.Request) {
	var p Profile
	if err := parseJSON(r, &p); err != nil {
		writeError(w, http.StatusBadRequest, err)
		return
	}
	if p.Email != "" && !strings.Contains(p.Email, "@") {
		writeError(w, http.StatusUnprocessableEntity, errors.New("invalid email"))
		return
	}

	updated, err := s.users.Update(usernameFrom(r.Context()), p)
	if err != nil {
		writeError(w, http.StatusNotFound, err)
		return
	}
	writeJSON(w, http.StatusOK, updated)
}

func (s *Server) issueTokens(w http.ResponseWriter, username string) error {
	access, err := auth.GenerateToken(username, auth.KindAccess, s.opts.SecretKey, s.opts.AccessTokenTTL)
	if err != nil {
		return err
	}
	refresh, err := auth.GenerateToken(username, auth.KindRefresh, s.opts.SecretKey, s.opts.RefreshTokenTTL)
	if err != nil {
		return err
	}
	s.opts.Cookies.SetJWTCookies(w, access, refresh, s.opts.AccessTokenTTL, s.opts.RefreshTokenTTL)
	return nil
}

type statusRecorder struct {
	http.ResponseWriter
	status int
}

func (r *statusRecorder) WriteHeader(status int) {
	r.status = status
	r.ResponseWriter.WriteHeader(status)
}

func (s *Server) withLogging(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()
		rec := &statusRecorder{ResponseWriter: w, status: http.StatusOK}
		next.ServeHTTP(rec, r)
		s.logger.Info(r.Context(), "request",
			"method", r.Method,
			"path", r.URL.Path,
			"status", rec.status,
			"duration", time.Since(start),
			"request_id", r.Header.Get("X-Request-Id"),
		)
	})
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func writeError(w http.ResponseWriter, status int, err error) {
	writeJSON(w, status, map[string]any{"error": err.Error()})
}

func parseJSON(r *http.Request, dst any) error {
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		return fmt.Errorf("invalid json: %w", err)
	}
	return nil
}
