// Package client is the transport layer between the application and its
// single backend.
//
// # Overview
//
// The package provides:
//  1. A transport contract (see the Client interface): one request in, one
//     decoded JSON response or an error out.
//  2. A concrete HTTP implementation (see HTTPClient) bound to
//     "<base>/v1", with a cookie jar, JSON default headers, a per-request
//     X-Request-Id and a response interceptor chain.
//  3. The call normalizer Call, which reduces every failure to an
//     *apierr.Error carrying only an HTTP status.
//
// # Error Handling
//
// HTTPClient reports non-2xx responses as *HTTPError and transport failures
// wrapped in ErrUnavailable. Call maps the former to their status and
// everything else to apierr.DefaultStatus.
//
// # Interceptors
//
// UnauthorizedInterceptor removes the local "isLoggedIn" flag on any 401,
// before the error reaches presentation and regardless of whether it will be
// shown to the user.
package client
