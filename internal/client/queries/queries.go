// Package queries defines the backend endpoints the client uses, as query
// and mutation definitions bound to one transport.
package queries

import (
	"context"

	"github.com/dmitrijs2005/gatewayclient/internal/client/client"
	"github.com/dmitrijs2005/gatewayclient/internal/client/query"
	"github.com/dmitrijs2005/gatewayclient/internal/client/session"
)

const (
	EndpointSelf       = "/user/getUserDetails"
	EndpointUpdateUser = "/user/updateUserDetails"
	EndpointLogin      = "/auth/login"
	EndpointLogout     = "/auth/logout"
)

// SelfKey caches the current user's profile.
var SelfKey = query.Key{"get-user-details"}

// Credentials is the login request body.
type Credentials struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Queries holds every endpoint definition.
type Queries struct {
	// Self fetches the signed-in user. Used at startup to decide whether a
	// session exists.
	Self         *query.Query[session.UserProfile, struct{}]
	SelfSuspense *query.SuspenseQuery[session.UserProfile, struct{}]

	Login      *query.Mutation[session.UserProfile, Credentials]
	Logout     *query.Mutation[struct{}, struct{}]
	UpdateUser *query.Mutation[session.UserProfile, session.UserProfile]
}

func New(api client.Client) *Queries {
	self := query.QueryConfig[session.UserProfile, struct{}]{
		KeyFn: func(struct{}) query.Key { return SelfKey },
		Fn: func(ctx context.Context, _ struct{}) (session.UserProfile, error) {
			return client.Call[session.UserProfile](ctx, api, client.Get(EndpointSelf))
		},
		Options: query.Options{ShowToastOnError: query.Bool(true)},
	}

	return &Queries{
		Self:         query.NewQuery(self),
		SelfSuspense: query.NewSuspenseQuery(self),

		Login: query.NewMutation(query.MutationConfig[session.UserProfile, Credentials]{
			KeyFn: func(c Credentials) query.Key { return query.Key{"login", c.Username} },
			Fn: func(ctx context.Context, c Credentials) (session.UserProfile, error) {
				return client.Call[session.UserProfile](ctx, api, client.Post(EndpointLogin, c))
			},
		}),
		Logout: query.NewMutation(query.MutationConfig[struct{}, struct{}]{
			Fn: func(ctx context.Context, _ struct{}) (struct{}, error) {
				return client.Call[struct{}](ctx, api, client.Post(EndpointLogout, nil))
			},
		}),
		UpdateUser: query.NewMutation(query.MutationConfig[session.UserProfile, session.UserProfile]{
			KeyFn: func(p session.UserProfile) query.Key { return query.Key{"update-user-details", p.Username} },
			Fn: func(ctx context.Context, p session.UserProfile) (session.UserProfile, error) {
				return client.Call[session.UserProfile](ctx, api, client.Put(EndpointUpdateUser, p))
			},
		}),
	}
}

// InvalidateSelf is the QueryOptions for mutations that change who the
// current user is.
func InvalidateSelf() query.QueryOptions {
	return query.QueryOptions{Invalidates: []query.Key{SelfKey}}
}
