// Package bootstrap decides, once at startup, whether the client has a
// session: it asks the backend who the current user is and routes to the
// dashboard or to the login screen accordingly.
package bootstrap

import (
	"context"
	"sync"

	"github.com/dmitrijs2005/gatewayclient/internal/client/query"
	"github.com/dmitrijs2005/gatewayclient/internal/client/session"
	"github.com/dmitrijs2005/gatewayclient/internal/logging"
)

const (
	RouteDashboard = "/dashboard"
	RouteLogin     = "/login"

	// Placeholder is shown instead of the real view until the gate opens.
	Placeholder = "...loading"
)

// Navigator moves the application to another route, replacing the current
// one.
type Navigator interface {
	Replace(route string)
}

// SelfQuery fetches the current user's profile.
type SelfQuery interface {
	Use(ctx context.Context, qc *query.Client, opts query.HookOptions[struct{}]) *query.Result[session.UserProfile]
}

// Bootstrapper is a one-shot gate. It is not a guard: later changes to the
// session do not re-run it.
type Bootstrapper struct {
	self   SelfQuery
	qc     *query.Client
	store  *session.Store
	nav    Navigator
	logger logging.Logger

	once sync.Once
	done chan struct{}

	mu      sync.Mutex
	settled bool
}

func New(self SelfQuery, qc *query.Client, store *session.Store, nav Navigator, logger logging.Logger) *Bootstrapper {
	if logger == nil {
		logger = logging.Nop()
	}
	return &Bootstrapper{
		self:   self,
		qc:     qc,
		store:  store,
		nav:    nav,
		logger: logger,
		done:   make(chan struct{}),
	}
}

// Start issues the self query. Only the first call does anything; it
// returns without waiting for the answer.
func (b *Bootstrapper) Start(ctx context.Context) {
	b.once.Do(func() {
		b.logger.Debug(ctx, "bootstrap started")
		r := b.self.Use(ctx, b.qc, query.HookOptions[struct{}]{})
		go b.finish(ctx, r)
	})
}

func (b *Bootstrapper) finish(ctx context.Context, r *query.Result[session.UserProfile]) {
	<-r.Done()

	route := RouteDashboard
	if err := r.Err(); err != nil {
		b.store.Logout()
		route = RouteLogin
		b.logger.Info(ctx, "bootstrap finished without session", "error", err)
	} else {
		b.store.Login(r.Data())
		b.logger.Info(ctx, "bootstrap finished", "username", r.Data().Username)
	}
	b.nav.Replace(route)

	b.mu.Lock()
	b.settled = true
	b.mu.Unlock()
	close(b.done)
}

// Ready reports whether the gate is open: the self query has settled and
// the session is no longer in the unknown state.
func (b *Bootstrapper) Ready() bool {
	b.mu.Lock()
	settled := b.settled
	b.mu.Unlock()
	return settled && b.store.AuthState() != session.AuthUnknown
}

// View returns children once the gate is open and Placeholder before.
func (b *Bootstrapper) View(children string) string {
	if !b.Ready() {
		return Placeholder
	}
	return children
}

// Wait blocks until the bootstrap has finished or ctx is done. Start must
// have been called.
func (b *Bootstrapper) Wait(ctx context.Context) error {
	select {
	case <-b.done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}

// History is a Navigator that remembers every route it was sent to.
type History struct {
	mu     sync.Mutex
	routes []string
}

func (h *History) Replace(route string) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.routes = append(h.routes, route)
}

// Current returns the last route, or "" if there was none.
func (h *History) Current() string {
	h.mu.Lock()
	defer h.mu.Unlock()
	if len(h.routes) == 0 {
		return ""
	}
	return h.routes[len(h.routes)-1]
}

func (h *History) Routes() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	return append([]string(nil), h.routes...)
}
