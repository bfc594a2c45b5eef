package query

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sethvargo/go-retry"
	"golang.org/x/sync/singleflight"

	"github.com/dmitrijs2005/gatewayclient/internal/client/apierr"
	"github.com/dmitrijs2005/gatewayclient/internal/logging"
)

const (
	DefaultRetries   = 3
	DefaultRetryBase = time.Second
	maxRetryDelay    = 30 * time.Second
)

// QueryOptions tunes one query or mutation on top of the engine defaults.
type QueryOptions struct {
	// StaleTime is how long a successful result is served from cache. Zero
	// uses the engine default.
	StaleTime time.Duration
	// Retries is the number of extra attempts after a retryable failure.
	// Zero uses the engine default; a negative value disables retries.
	Retries int
	// Invalidates lists keys (or key prefixes) to invalidate after a
	// successful mutation. Ignored for queries.
	Invalidates []Key
}

type EngineConfig struct {
	StaleTime time.Duration
	// Retries applies to queries; mutations are not retried unless asked.
	Retries   int
	RetryBase time.Duration
	// ShouldRetry decides whether a failed attempt is tried again. The
	// default retries everything except 4xx responses.
	ShouldRetry func(err error) bool
}

type entry struct {
	key         Key
	value       any
	updatedAt   time.Time
	invalidated bool
}

// Engine is the caching engine behind the query and mutation factories. It
// caches successful results by Key, runs at most one fetch per Key at a
// time, and retries failed fetches with exponential backoff.
//
// A fetch is not aborted when the caller that started it stops waiting;
// joining callers still receive its result.
type Engine struct {
	cfg    EngineConfig
	logger logging.Logger
	now    func() time.Time

	group singleflight.Group

	mu       sync.Mutex
	entries  map[string]*entry
	mutating map[string]int
	// gen changes on every Invalidate and Clear; a fetch that started under
	// an older gen must not write its result back.
	gen uint64
}

func NewEngine(cfg EngineConfig, logger logging.Logger) *Engine {
	if cfg.Retries == 0 {
		cfg.Retries = DefaultRetries
	}
	if cfg.RetryBase <= 0 {
		cfg.RetryBase = DefaultRetryBase
	}
	if cfg.ShouldRetry == nil {
		cfg.ShouldRetry = DefaultShouldRetry
	}
	if logger == nil {
		logger = logging.Nop()
	}
	return &Engine{
		cfg:      cfg,
		logger:   logger,
		now:      time.Now,
		entries:  map[string]*entry{},
		mutating: map[string]int{},
	}
}

// DefaultShouldRetry retries every failure except client errors (4xx),
// which will not change by asking again.
func DefaultShouldRetry(err error) bool {
	status, ok := apierr.StatusCode(err)
	if !ok {
		return true
	}
	return status < 400 || status > 499
}

// Fetch returns the cached value for key while it is fresh, and otherwise
// runs fn, joining a fetch already in flight for the same key.
func (e *Engine) Fetch(ctx context.Context, key Key, opts QueryOptions, fn func(ctx context.Context) (any, error)) (any, error) {
	if v, ok := e.fresh(key, opts); ok {
		e.logger.Debug(ctx, "query cache hit", "key", key.Hash())
		return v, nil
	}

	hash := key.Hash()
	ch := e.group.DoChan(hash, func() (any, error) {
		e.logger.Debug(ctx, "query fetch", "key", hash)
		gen := e.generation()
		v, err := e.run(context.WithoutCancel(ctx), hash, e.queryRetries(opts), fn)
		if err != nil {
			return nil, err
		}
		if !e.storeIfCurrent(key, v, gen) {
			e.logger.Debug(ctx, "query result not cached, cache changed during fetch", "key", hash)
		}
		return v, nil
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Shared {
			e.logger.Debug(ctx, "query deduplicated", "key", hash)
		}
		return res.Val, res.Err
	}
}

// Mutate runs fn once (plus any retries requested in opts) and, on success,
// invalidates opts.Invalidates. key may be nil.
func (e *Engine) Mutate(ctx context.Context, key Key, opts QueryOptions, fn func(ctx context.Context) (any, error)) (any, error) {
	hash := ""
	if key != nil {
		hash = key.Hash()
		e.mu.Lock()
		e.mutating[hash]++
		e.mu.Unlock()
		defer func() {
			e.mu.Lock()
			if e.mutating[hash]--; e.mutating[hash] <= 0 {
				delete(e.mutating, hash)
			}
			e.mu.Unlock()
		}()
	}

	retries := 0
	if opts.Retries > 0 {
		retries = opts.Retries
	}

	v, err := e.run(ctx, hash, retries, fn)
	if err != nil {
		return nil, err
	}
	e.Invalidate(opts.Invalidates...)
	return v, nil
}

// IsMutating returns the number of mutations with key currently running.
func (e *Engine) IsMutating(key Key) int {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.mutating[key.Hash()]
}

// Invalidate marks every cached entry whose key starts with one of prefixes
// as stale; the next Fetch for it goes to the backend.
func (e *Engine) Invalidate(prefixes ...Key) {
	if len(prefixes) == 0 {
		return
	}
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	for _, en := range e.entries {
		for _, p := range prefixes {
			if en.key.HasPrefix(p) {
				en.invalidated = true
				break
			}
		}
	}
}

// Peek returns the cached value for key regardless of freshness.
func (e *Engine) Peek(key Key) (any, bool) {
	e.mu.Lock()
	defer e.mu.Unlock()
	en, ok := e.entries[key.Hash()]
	if !ok {
		return nil, false
	}
	return en.value, true
}

// SetData stores v as the current value for key, as if it had been fetched.
func (e *Engine) SetData(key Key, v any) {
	e.store(key, v)
}

// Clear drops every cached entry.
func (e *Engine) Clear() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.gen++
	e.entries = map[string]*entry{}
}

func (e *Engine) fresh(key Key, opts QueryOptions) (any, bool) {
	stale := opts.StaleTime
	if stale == 0 {
		stale = e.cfg.StaleTime
	}
	if stale <= 0 {
		return nil, false
	}

	e.mu.Lock()
	defer e.mu.Unlock()
	en, ok := e.entries[key.Hash()]
	if !ok || en.invalidated || e.now().Sub(en.updatedAt) >= stale {
		return nil, false
	}
	return en.value, true
}

func (e *Engine) generation() uint64 {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.gen
}

// storeIfCurrent caches v only if no Invalidate or Clear happened since gen
// was read.
func (e *Engine) storeIfCurrent(key Key, v any, gen uint64) bool {
	e.mu.Lock()
	defer e.mu.Unlock()
	if e.gen != gen {
		return false
	}
	e.entries[key.Hash()] = &entry{key: key, value: v, updatedAt: e.now()}
	return true
}

func (e *Engine) store(key Key, v any) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.entries[key.Hash()] = &entry{key: key, value: v, updatedAt: e.now()}
}

func (e *Engine) queryRetries(opts QueryOptions) int {
	switch {
	case opts.Retries < 0:
		return 0
	case opts.Retries > 0:
		return opts.Retries
	case e.cfg.Retries < 0:
		return 0
	}
	return e.cfg.Retries
}

// run calls fn until it succeeds, fails with a non-retryable error or runs
// out of retries. The error returned is the one fn returned last.
func (e *Engine) run(ctx context.Context, hash string, retries int, fn func(ctx context.Context) (any, error)) (any, error) {
	b := retry.WithCappedDuration(maxRetryDelay, retry.NewExponential(e.cfg.RetryBase))
	b = retry.WithMaxRetries(uint64(retries), b)

	var (
		out     any
		lastErr error
		attempt int
	)
	err := retry.Do(ctx, b, func(ctx context.Context) error {
		attempt++
		v, err := fn(ctx)
		if err != nil {
			lastErr = err
			if attempt <= retries && e.cfg.ShouldRetry(err) {
				e.logger.Debug(ctx, "retrying", "key", hash, "attempt", attempt, "error", err)
				return retry.RetryableError(err)
			}
			return err
		}
		out = v
		return nil
	})
	if err != nil {
		if lastErr != nil {
			return nil, lastErr
		}
		return nil, err
	}
	return out, nil
}

var errTypeMismatch = errors.New("cached value has unexpected type")
