package cli

import (
	"context"
	"errors"
	"fmt"

	"github.com/dmitrijs2005/gatewayclient/internal/client/apierr"
	"github.com/dmitrijs2005/gatewayclient/internal/client/bootstrap"
	"github.com/dmitrijs2005/gatewayclient/internal/client/queries"
	"github.com/dmitrijs2005/gatewayclient/internal/client/query"
	"github.com/dmitrijs2005/gatewayclient/internal/client/session"
	"github.com/dmitrijs2005/gatewayclient/internal/client/storage"
)

// getSimpleText and getPassword are indirections used to facilitate testing.
// They point to interactive input helpers and can be swapped in tests.
var getSimpleText = GetSimpleText
var getPassword = GetPassword

// Login prompts for credentials and signs in. On success the local
// logged-in flag is set, the session becomes authenticated and the app
// moves to the dashboard. Failures have already been shown to the user by
// the notification sink and are returned as is.
func (a *App) Login(ctx context.Context) error {
	username, err := getSimpleText(a.reader, "Enter username", a.out)
	if err != nil {
		a.logger.Error(ctx, "failed to read username", "error", err)
		return err
	}

	password, err := getPassword(a.out)
	if err != nil {
		a.logger.Error(ctx, "failed to read password", "error", err)
		return err
	}
	creds := queries.Credentials{Username: username, Password: string(password)}
	clear(password)

	profile, err := a.queries.Login.Use(a.qc, query.HookOptions[queries.Credentials]{
		QueryKeyParam: &creds,
		QueryOptions:  queries.InvalidateSelf(),
	}).Mutate(ctx, creds)
	if err != nil {
		a.logger.Debug(ctx, "login failed", "username", username, "error", err)
		return err
	}

	if err := a.local.SetLoggedIn(ctx); err != nil {
		a.logger.Error(ctx, "failed to set logged-in flag", "error", err)
		return err
	}
	a.session.Login(profile)
	a.history.Replace(bootstrap.RouteDashboard)

	fmt.Fprintf(a.out, "Signed in as %s\n", profile.Username)
	return nil
}

// Logout ends the server session and resets every piece of local state
// that belonged to it.
func (a *App) Logout(ctx context.Context) error {
	_, err := a.queries.Logout.Use(a.qc, query.HookOptions[struct{}]{
		QueryOptions: queries.InvalidateSelf(),
	}).Mutate(ctx, struct{}{})
	if err != nil {
		return err
	}

	a.signedOut(ctx)
	fmt.Fprintln(a.out, "Signed out")
	return nil
}

func (a *App) signedOut(ctx context.Context) {
	if err := a.local.Remove(ctx, storage.LoggedInKey); err != nil {
		a.logger.Warn(ctx, "failed to clear logged-in flag", "error", err)
	}
	a.qc.Engine.Clear()
	a.session.Logout()
	a.history.Replace(bootstrap.RouteLogin)
}

// WhoAmI fetches the current user from the backend and prints it. A 401
// means the session is gone, so the app falls back to the login route.
func (a *App) WhoAmI(ctx context.Context) error {
	p, err := a.queries.SelfSuspense.Use(ctx, a.qc, query.HookOptions[struct{}]{})
	if err != nil {
		if errors.Is(err, apierr.ErrUnauthorized) {
			a.signedOut(ctx)
		}
		return err
	}

	if a.session.Snapshot().Authenticated() {
		if err := a.session.UpdateUser(p); err != nil {
			return err
		}
	} else {
		a.session.Login(p)
		a.history.Replace(bootstrap.RouteDashboard)
	}

	printProfile(a.out, p)
	return nil
}

// Update edits the signed-in user's contact details. Empty answers keep
// the current value.
func (a *App) Update(ctx context.Context) error {
	snap := a.session.Snapshot()
	if !snap.Authenticated() {
		fmt.Fprintln(a.out, "Please log in first")
		return session.ErrNotAuthenticated
	}
	p := snap.Profile

	fields := []struct {
		label string
		value *string
	}{
		{"First name", &p.Firstname},
		{"Last name", &p.Lastname},
		{"Email", &p.Email},
		{"Phone number", &p.PhoneNumber},
	}
	for _, f := range fields {
		v, err := getSimpleText(a.reader, fmt.Sprintf("%s [%s]", f.label, *f.value), a.out)
		if err != nil {
			a.logger.Error(ctx, "failed to read input", "field", f.label, "error", err)
			return err
		}
		if v != "" {
			*f.value = v
		}
	}

	updated, err := a.queries.UpdateUser.Use(a.qc, query.HookOptions[session.UserProfile]{
		QueryKeyParam: &p,
		QueryOptions:  queries.InvalidateSelf(),
	}).Mutate(ctx, p)
	if err != nil {
		return err
	}

	if err := a.session.UpdateUser(updated); err != nil {
		a.logger.Error(ctx, "failed to update session", "error", err)
		return err
	}
	fmt.Fprintln(a.out, "Profile updated")
	return nil
}

// Status prints the local view of the session without calling the backend.
func (a *App) Status(ctx context.Context) error {
	snap := a.session.Snapshot()
	flag, err := a.local.IsLoggedIn(ctx)
	if err != nil {
		a.logger.Error(ctx, "failed to read logged-in flag", "error", err)
		return err
	}

	fmt.Fprintf(a.out, "Session: %s\n", snap.AuthState)
	if snap.Authenticated() {
		fmt.Fprintf(a.out, "User: %s\n", snap.Profile.Username)
	}
	fmt.Fprintf(a.out, "Route: %s\n", a.history.Current())
	fmt.Fprintf(a.out, "Logged-in flag: %t\n", flag)
	return nil
}
