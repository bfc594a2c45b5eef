package client

import (
	"context"
	"net/http"
)

// Request describes one backend call. Endpoint is relative to the API base
// (e.g. "/user/getUserDetails"); an empty Method means GET. A non-nil Body is
// sent as JSON.
type Request struct {
	Endpoint string
	Method   string
	Body     any
}

// Client performs a single request against the backend and decodes the JSON
// response into out (which may be nil to discard it).
//
// A non-2xx response is reported as *HTTPError; anything that prevented a
// response from being read is wrapped in ErrUnavailable.
type Client interface {
	Do(ctx context.Context, req Request, out any) error
}

// Get is shorthand for a GET Request.
func Get(endpoint string) Request {
	return Request{Endpoint: endpoint, Method: http.MethodGet}
}

// Post is shorthand for a POST Request with a JSON body.
func Post(endpoint string, body any) Request {
	return Request{Endpoint: endpoint, Method: http.MethodPost, Body: body}
}

// Put is shorthand for a PUT Request with a JSON body.
func Put(endpoint string, body any) Request {
	return Request{Endpoint: endpoint, Method: http.MethodPut, Body: body}
}
