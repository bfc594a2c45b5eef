// Package query binds backend calls to a caching engine behind three
// definition builders: NewQuery, NewSuspenseQuery and NewMutation.
//
// Every call a definition makes goes through WithErrorHandling, so a failure
// is reported to the user exactly once per attempt (unless disabled for the
// definition or the use) and is then returned to the caller unchanged. The
// notify flag is resolved by ResolveShowToast: per-use value, then the
// definition default, then true.
//
// Engine caches successful query results by Key, deduplicates concurrent
// fetches of the same Key and retries failed ones with exponential backoff.
// Mutations are not cached; a successful mutation invalidates the keys named
// in its QueryOptions.
package query
