package queries

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gatewayclient/internal/client/apierr"
	"github.com/dmitrijs2005/gatewayclient/internal/client/client"
	"github.com/dmitrijs2005/gatewayclient/internal/client/query"
	"github.com/dmitrijs2005/gatewayclient/internal/client/session"
)

type call struct {
	req client.Request
}

// fakeAPI answers by endpoint and records every request.
type fakeAPI struct {
	calls     []call
	responses map[string]any
	errs      map[string]error
}

func (f *fakeAPI) Do(_ context.Context, req client.Request, out any) error {
	f.calls = append(f.calls, call{req: req})
	if err := f.errs[req.Endpoint]; err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	b, err := json.Marshal(f.responses[req.Endpoint])
	if err != nil {
		return err
	}
	return json.Unmarshal(b, out)
}

func newQueryClient() *query.Client {
	return query.NewClient(query.NewEngine(query.EngineConfig{Retries: -1, StaleTime: time.Hour}, nil), nil)
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}

func TestSelf_KeyIsDeterministic(t *testing.T) {
	q := New(&fakeAPI{})

	a := q.Self.Key(query.HookOptions[struct{}]{})
	b := q.Self.Key(query.HookOptions[struct{}]{})

	assert.True(t, a.Equal(b))
	assert.True(t, a.Equal(query.Key{"get-user-details"}))
	assert.True(t, q.SelfSuspense.Key(query.HookOptions[struct{}]{}).Equal(a))
}

func TestSelf_SecondUseIsServedFromCache(t *testing.T) {
	api := &fakeAPI{responses: map[string]any{EndpointSelf: map[string]any{"username": "u1"}}}
	q := New(api)
	qc := newQueryClient()

	p, err := q.Self.Use(context.Background(), qc, query.HookOptions[struct{}]{}).Wait(waitCtx(t))
	require.NoError(t, err)
	assert.Equal(t, "u1", p.Username)

	p, err = q.SelfSuspense.Use(waitCtx(t), qc, query.HookOptions[struct{}]{})
	require.NoError(t, err)
	assert.Equal(t, "u1", p.Username)

	require.Len(t, api.calls, 1)
	assert.Equal(t, EndpointSelf, api.calls[0].req.Endpoint)
	assert.Equal(t, http.MethodGet, api.calls[0].req.Method)
}

func TestSelf_FailureCarriesStatus(t *testing.T) {
	api := &fakeAPI{errs: map[string]error{EndpointSelf: &client.HTTPError{StatusCode: 401}}}
	q := New(api)

	_, err := q.SelfSuspense.Use(waitCtx(t), newQueryClient(), query.HookOptions[struct{}]{})

	assert.ErrorIs(t, err, apierr.ErrUnauthorized)
}

func TestLogin_PostsCredentialsAndInvalidatesSelf(t *testing.T) {
	api := &fakeAPI{responses: map[string]any{
		EndpointSelf:  map[string]any{"username": "before"},
		EndpointLogin: map[string]any{"username": "u1"},
	}}
	q := New(api)
	qc := newQueryClient()

	_, err := q.SelfSuspense.Use(waitCtx(t), qc, query.HookOptions[struct{}]{})
	require.NoError(t, err)

	creds := Credentials{Username: "u1", Password: "secret"}
	h := q.Login.Use(qc, query.HookOptions[Credentials]{QueryKeyParam: &creds, QueryOptions: InvalidateSelf()})
	p, err := h.Mutate(context.Background(), creds)
	require.NoError(t, err)
	assert.Equal(t, "u1", p.Username)
	assert.True(t, h.Key().Equal(query.Key{"login", "u1"}))

	last := api.calls[len(api.calls)-1].req
	assert.Equal(t, EndpointLogin, last.Endpoint)
	assert.Equal(t, http.MethodPost, last.Method)
	assert.Equal(t, creds, last.Body)

	api.responses[EndpointSelf] = map[string]any{"username": "after"}
	self, err := q.SelfSuspense.Use(waitCtx(t), qc, query.HookOptions[struct{}]{})
	require.NoError(t, err)
	assert.Equal(t, "after", self.Username)
}

func TestLogoutAndUpdateUser_Endpoints(t *testing.T) {
	api := &fakeAPI{responses: map[string]any{EndpointUpdateUser: map[string]any{"username": "u1", "email": "e@x"}}}
	q := New(api)
	qc := newQueryClient()

	_, err := q.Logout.Use(qc, query.HookOptions[struct{}]{}).Mutate(context.Background(), struct{}{})
	require.NoError(t, err)

	updated, err := q.UpdateUser.Use(qc, query.HookOptions[session.UserProfile]{}).
		Mutate(context.Background(), session.UserProfile{Username: "u1", Email: "e@x"})
	require.NoError(t, err)
	assert.Equal(t, "e@x", updated.Email)

	require.Len(t, api.calls, 2)
	assert.Equal(t, EndpointLogout, api.calls[0].req.Endpoint)
	assert.Equal(t, http.MethodPost, api.calls[0].req.Method)
	assert.Equal(t, EndpointUpdateUser, api.calls[1].req.Endpoint)
	assert.Equal(t, http.MethodPut, api.calls[1].req.Method)
}
