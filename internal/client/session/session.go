// Package session holds the client's belief about who the current user is.
//
// A Store is created once when the client starts and lives for the rest of
// the process. State only changes through Login, Logout and UpdateUser.
package session

import (
	"errors"
	"sync"
)

var ErrNotAuthenticated = errors.New("session is not authenticated")

// AuthState is the authentication tri-state.
type AuthState int

const (
	AuthUnknown AuthState = iota
	AuthAuthenticated
	AuthUnauthenticated
)

func (s AuthState) String() string {
	switch s {
	case AuthAuthenticated:
		return "authenticated"
	case AuthUnauthenticated:
		return "unauthenticated"
	}
	return "unknown"
}

// Gender is the backend's numeric gender code.
type Gender int

// Role is the backend's role name.
type Role string

// UserProfile mirrors the backend's user payload. Nil Gender and Role mean
// unknown.
type UserProfile struct {
	Username    string  `json:"username"`
	Firstname   string  `json:"firstname"`
	Lastname    string  `json:"lastname"`
	NationalID  string  `json:"nationalid"`
	Gender      *Gender `json:"gender"`
	Nationality string  `json:"nationality"`
	PhoneNumber string  `json:"phoneNumber"`
	Email       string  `json:"email"`
	Birthdate   string  `json:"birthdate"`
	Role        *Role   `json:"role"`
}

// Session is a point-in-time copy of the store's state.
type Session struct {
	Profile   UserProfile
	AuthState AuthState
}

// Authenticated reports whether the session belongs to a signed-in user.
func (s Session) Authenticated() bool {
	return s.AuthState == AuthAuthenticated
}

// Store is the single mutable session cell. It is safe for concurrent use;
// subscribers are called synchronously, outside the lock, after each
// transition.
type Store struct {
	mu      sync.Mutex
	state   Session
	subs    map[int]func(Session)
	nextSub int
}

func NewStore() *Store {
	return &Store{subs: map[int]func(Session){}}
}

// Login replaces the profile and marks the session authenticated.
func (s *Store) Login(p UserProfile) {
	s.set(Session{Profile: clone(p), AuthState: AuthAuthenticated})
}

// Logout resets the profile to its empty defaults and marks the session
// unauthenticated.
func (s *Store) Logout() {
	s.set(Session{AuthState: AuthUnauthenticated})
}

// UpdateUser replaces the profile of an authenticated session. The auth
// state does not change.
func (s *Store) UpdateUser(p UserProfile) error {
	s.mu.Lock()
	if s.state.AuthState != AuthAuthenticated {
		s.mu.Unlock()
		return ErrNotAuthenticated
	}
	s.state.Profile = clone(p)
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snap)
	return nil
}

func (s *Store) Snapshot() Session {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Session{Profile: clone(s.state.Profile), AuthState: s.state.AuthState}
}

func (s *Store) AuthState() AuthState {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state.AuthState
}

// Subscribe registers fn to be called with the new state after every
// transition. The returned func removes the subscription.
func (s *Store) Subscribe(fn func(Session)) (unsubscribe func()) {
	s.mu.Lock()
	id := s.nextSub
	s.nextSub++
	s.subs[id] = fn
	s.mu.Unlock()

	return func() {
		s.mu.Lock()
		delete(s.subs, id)
		s.mu.Unlock()
	}
}

func (s *Store) set(next Session) {
	s.mu.Lock()
	s.state = next
	snap, subs := s.snapshotLocked()
	s.mu.Unlock()

	notify(subs, snap)
}

func (s *Store) snapshotLocked() (Session, []func(Session)) {
	snap := Session{Profile: clone(s.state.Profile), AuthState: s.state.AuthState}
	subs := make([]func(Session), 0, len(s.subs))
	for _, fn := range s.subs {
		subs = append(subs, fn)
	}
	return snap, subs
}

func notify(subs []func(Session), snap Session) {
	for _, fn := range subs {
		fn(snap)
	}
}

// clone copies the pointer fields so callers never share them with the store.
func clone(p UserProfile) UserProfile {
	if p.Gender != nil {
		g := *p.Gender
		p.Gender = &g
	}
	if p.Role != nil {
		r := *p.Role
		p.Role = &r
	}
	return p
}
