package client

import (
	"context"
	"errors"

	"github.com/dmitrijs2005/gatewayclient/internal/client/apierr"
)

// Call performs exactly one request through c and decodes the response as T.
//
// Every failure is reduced to an *apierr.Error: the response status when the
// backend answered with one, apierr.DefaultStatus for everything else
// (network failure, cancellation, undecodable body). Call never retries.
func Call[T any](ctx context.Context, c Client, req Request) (T, error) {
	var out T
	if err := c.Do(ctx, req, &out); err != nil {
		var zero T
		return zero, mapError(err)
	}
	return out, nil
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	var he *HTTPError
	if errors.As(err, &he) {
		return apierr.New(he.StatusCode)
	}
	return apierr.New(apierr.DefaultStatus)
}
