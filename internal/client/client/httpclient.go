package client

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/cookiejar"
	"strings"

	"github.com/google/uuid"
	"golang.org/x/net/publicsuffix"

	"github.com/dmitrijs2005/gatewayclient/internal/client/storage"
	"github.com/dmitrijs2005/gatewayclient/internal/logging"
)

const (
	apiPrefix       = "/v1"
	requestIDHeader = "X-Request-Id"
	maxErrorBody    = 64 << 10
)

// ResponseInterceptor observes every response before its status is
// interpreted. Interceptors run in registration order and must not consume
// the body.
type ResponseInterceptor func(ctx context.Context, resp *http.Response)

// HTTPClient is the Client bound to one backend origin. It keeps cookies
// between calls, so server-set session cookies are sent back automatically.
type HTTPClient struct {
	baseURL      string
	http         *http.Client
	headers      http.Header
	interceptors []ResponseInterceptor
	logger       logging.Logger
}

type Option func(*HTTPClient)

// WithHTTPClient replaces the underlying *http.Client. A cookie jar is
// attached if hc has none.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *HTTPClient) {
		cp := *hc
		c.http = &cp
	}
}

func WithInterceptor(i ResponseInterceptor) Option {
	return func(c *HTTPClient) {
		c.interceptors = append(c.interceptors, i)
	}
}

func WithHeader(key, value string) Option {
	return func(c *HTTPClient) {
		c.headers.Set(key, value)
	}
}

func WithLogger(l logging.Logger) Option {
	return func(c *HTTPClient) {
		c.logger = l
	}
}

// NewHTTPClient creates a client for the API under baseURL + "/v1".
func NewHTTPClient(baseURL string, opts ...Option) (*HTTPClient, error) {
	c := &HTTPClient{
		baseURL: strings.TrimRight(baseURL, "/") + apiPrefix,
		http:    &http.Client{},
		headers: http.Header{},
		logger:  logging.Nop(),
	}
	c.headers.Set("Content-Type", "application/json")
	c.headers.Set("Accept", "application/json")

	for _, o := range opts {
		o(c)
	}

	if c.http.Jar == nil {
		jar, err := cookiejar.New(&cookiejar.Options{PublicSuffixList: publicsuffix.List})
		if err != nil {
			return nil, err
		}
		c.http.Jar = jar
	}

	return c, nil
}

// BaseURL returns the resolved API root, including the version prefix.
func (c *HTTPClient) BaseURL() string {
	return c.baseURL
}

func (c *HTTPClient) url(endpoint string) string {
	return c.baseURL + "/" + strings.TrimLeft(endpoint, "/")
}

func (c *HTTPClient) Do(ctx context.Context, req Request, out any) error {
	method := req.Method
	if method == "" {
		method = http.MethodGet
	}

	var body io.Reader
	if req.Body != nil {
		b, err := json.Marshal(req.Body)
		if err != nil {
			return fmt.Errorf("encode request: %w", err)
		}
		body = bytes.NewReader(b)
	}

	httpReq, err := http.NewRequestWithContext(ctx, method, c.url(req.Endpoint), body)
	if err != nil {
		return fmt.Errorf("build request: %w", err)
	}
	for k, vs := range c.headers {
		for _, v := range vs {
			httpReq.Header.Add(k, v)
		}
	}
	requestID := uuid.NewString()
	httpReq.Header.Set(requestIDHeader, requestID)

	resp, err := c.http.Do(httpReq)
	if err != nil {
		c.logger.Debug(ctx, "request failed", "method", method, "endpoint", req.Endpoint, "request_id", requestID, "error", err)
		return fmt.Errorf("%w: %v", ErrUnavailable, err)
	}
	defer resp.Body.Close()

	c.logger.Debug(ctx, "request finished", "method", method, "endpoint", req.Endpoint, "request_id", requestID, "status", resp.StatusCode)

	for _, i := range c.interceptors {
		i(ctx, resp)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		b, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		return &HTTPError{StatusCode: resp.StatusCode, Body: string(b)}
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("%w: read body: %v", ErrUnavailable, err)
	}
	if out == nil || len(bytes.TrimSpace(data)) == 0 {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode response: %w", err)
	}
	return nil
}

// KeyRemover is the slice of local storage the 401 interceptor needs.
type KeyRemover interface {
	Remove(ctx context.Context, key string) error
}

// UnauthorizedInterceptor clears the local "logged in" flag whenever the
// backend answers 401. It does nothing for any other status.
func UnauthorizedInterceptor(store KeyRemover, logger logging.Logger) ResponseInterceptor {
	if logger == nil {
		logger = logging.Nop()
	}
	return func(ctx context.Context, resp *http.Response) {
		if resp.StatusCode != http.StatusUnauthorized {
			return
		}
		if err := store.Remove(ctx, storage.LoggedInKey); err != nil {
			logger.Warn(ctx, "failed to clear login flag", "error", err)
		}
	}
}
