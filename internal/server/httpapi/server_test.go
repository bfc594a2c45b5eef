package httpapi

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/cookiejar"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/dmitrijs2005/gatewayclient/internal/server/auth"
	"github.com/dmitrijs2005/gatewayclient/internal/server/cookies"
)

var secret = []byte("test-secret")

func newTestServer(t *testing.T, accessTTL time.Duration) (*httptest.Server, *http.Client) {
	t.Helper()
	users := NewUsers()
	role := "admin"
	require.NoError(t, users.Add(Profile{Username: "u1", Firstname: "Sara", Role: &role}, "pass"))

	s := New(users, Options{
		SecretKey:       secret,
		AccessTokenTTL:  accessTTL,
		RefreshTokenTTL: time.Hour,
		Cookies:         cookies.Manager{Insecure: true},
	})
	srv := httptest.NewServer(s.Handler())
	t.Cleanup(srv.Close)

	jar, err := cookiejar.New(nil)
	require.NoError(t, err)
	return srv, &http.Client{Jar: jar}
}

func do(t *testing.T, c *http.Client, method, url string, body any) (*http.Response, map[string]any) {
	t.Helper()
	var buf bytes.Buffer
	if body != nil {
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}
	req, err := http.NewRequest(method, url, &buf)
	require.NoError(t, err)
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.Do(req)
	require.NoError(t, err)
	defer resp.Body.Close()

	out := map[string]any{}
	_ = json.NewDecoder(resp.Body).Decode(&out)
	return resp, out
}

func login(t *testing.T, srv *httptest.Server, c *http.Client) {
	t.Helper()
	resp, body := do(t, c, http.MethodPost, srv.URL+"/v1/auth/login", map[string]string{"username": "u1", "password": "pass"})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	require.Equal(t, "u1", body["username"])
}

func TestUserDetails_RequiresSession(t *testing.T) {
	srv, c := newTestServer(t, time.Minute)

	resp, _ := do(t, c, http.MethodGet, srv.URL+"/v1/user/getUserDetails", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestLoginThenUserDetails(t *testing.T) {
	srv, c := newTestServer(t, time.Minute)
	login(t, srv, c)

	resp, body := do(t, c, http.MethodGet, srv.URL+"/v1/user/getUserDetails", nil)

	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "u1", body["username"])
	assert.Equal(t, "Sara", body["firstname"])
	assert.Equal(t, "admin", body["role"])
	assert.Nil(t, body["gender"])
}

func TestLogin_Failures(t *testing.T) {
	srv, c := newTestServer(t, time.Minute)

	resp, _ := do(t, c, http.MethodPost, srv.URL+"/v1/auth/login", map[string]string{"username": "u1", "password": "nope"})
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, c, http.MethodPost, srv.URL+"/v1/auth/login", map[string]string{"username": "u1"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)

	resp, _ = do(t, c, http.MethodPost, srv.URL+"/v1/auth/login", map[string]string{"user": "u1"})
	assert.Equal(t, http.StatusBadRequest, resp.StatusCode)

	resp, _ = do(t, c, http.MethodGet, srv.URL+"/v1/auth/login", nil)
	assert.Equal(t, http.StatusMethodNotAllowed, resp.StatusCode)
}

func TestLogoutClearsSession(t *testing.T) {
	srv, c := newTestServer(t, time.Minute)
	login(t, srv, c)

	resp, _ := do(t, c, http.MethodPost, srv.URL+"/v1/auth/logout", nil)
	require.Equal(t, http.StatusOK, resp.StatusCode)

	resp, _ = do(t, c, http.MethodGet, srv.URL+"/v1/user/getUserDetails", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUpdateUserDetails(t *testing.T) {
	srv, c := newTestServer(t, time.Minute)
	login(t, srv, c)

	resp, body := do(t, c, http.MethodPut, srv.URL+"/v1/user/updateUserDetails",
		map[string]any{"username": "someone-else", "email": "u1@example.com", "gender": 1})
	require.Equal(t, http.StatusOK, resp.StatusCode)
	assert.Equal(t, "u1", body["username"])
	assert.Equal(t, "u1@example.com", body["email"])
	assert.Equal(t, float64(1), body["gender"])

	resp, _ = do(t, c, http.MethodPut, srv.URL+"/v1/user/updateUserDetails", map[string]any{"email": "broken"})
	assert.Equal(t, http.StatusUnprocessableEntity, resp.StatusCode)
}

func TestExpiredAccessTokenAndRefresh(t *testing.T) {
	srv, c := newTestServer(t, -time.Second)

	resp, _ := do(t, c, http.MethodPost, srv.URL+"/v1/auth/login", map[string]string{"username": "u1", "password": "pass"})
	require.Equal(t, http.StatusOK, resp.StatusCode)

	// negative max-age means the jar never stores the access token
	resp, _ = do(t, c, http.MethodGet, srv.URL+"/v1/user/getUserDetails", nil)
	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)

	resp, _ = do(t, c, http.MethodPost, srv.URL+"/v1/auth/refresh", nil)
	assert.Equal(t, http.StatusOK, resp.StatusCode)
}

func TestExpiredTokenIsRejected(t *testing.T) {
	srv, _ := newTestServer(t, time.Minute)
	tok, err := auth.GenerateToken("u1", auth.KindAccess, secret, -time.Second)
	require.NoError(t, err)

	req, err := http.NewRequest(http.MethodGet, srv.URL+"/v1/user/getUserDetails", nil)
	require.NoError(t, err)
	req.AddCookie(&http.Cookie{Name: cookies.AccessTokenName, Value: tok})
	resp, err := http.DefaultClient.Do(req)
	require.NoError(t, err)
	resp.Body.Close()

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestRefresh_WithoutCookie(t *testing.T) {
	srv, c := newTestServer(t, time.Minute)

	resp, _ := do(t, c, http.MethodPost, srv.URL+"/v1/auth/refresh", nil)

	assert.Equal(t, http.StatusUnauthorized, resp.StatusCode)
}

func TestUsers(t *testing.T) {
	u := NewUsers()
	require.NoError(t, u.Add(Profile{Username: "a"}, "pw"))
	assert.ErrorIs(t, u.Add(Profile{Username: "a"}, "pw"), ErrUserExists)

	_, err := u.Authenticate("a", "bad")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
	_, err = u.Authenticate("missing", "pw")
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	_, err = u.Get("missing")
	assert.ErrorIs(t, err, ErrUserNotFound)
	_, err = u.Update("missing", Profile{})
	assert.ErrorIs(t, err, ErrUserNotFound)
}
