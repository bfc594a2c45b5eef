package query

import (
	"context"
	"fmt"
	"sync"

	"github.com/dmitrijs2005/gatewayclient/internal/client/errmsg"
)

// Client is the runtime that query and mutation definitions are bound to
// when used. One Client is created at startup and passed to every Use.
type Client struct {
	Engine  *Engine
	Handler *ErrorHandler
}

func NewClient(engine *Engine, handler *ErrorHandler) *Client {
	return &Client{Engine: engine, Handler: handler}
}

// Options are the defaults a definition is created with.
type Options struct {
	ShowToastOnError *bool
}

// HookOptions are the per-use overrides.
type HookOptions[TParam any] struct {
	QueryKeyParam      *TParam
	CustomErrorMessage errmsg.Overrides
	QueryOptions       QueryOptions
	ShowToastOnError   *bool
}

func (o HookOptions[TParam]) param() TParam {
	if o.QueryKeyParam != nil {
		return *o.QueryKeyParam
	}
	var zero TParam
	return zero
}

type Status int

const (
	StatusPending Status = iota
	StatusSuccess
	StatusError
)

func (s Status) String() string {
	switch s {
	case StatusSuccess:
		return "success"
	case StatusError:
		return "error"
	}
	return "pending"
}

// Result is the observable state of one query use. It starts pending and
// settles exactly once.
type Result[T any] struct {
	done chan struct{}
	once sync.Once

	mu     sync.RWMutex
	status Status
	data   T
	err    error
}

func newResult[T any]() *Result[T] {
	return &Result[T]{done: make(chan struct{})}
}

func (r *Result[T]) settle(v T, err error) {
	r.once.Do(func() {
		r.mu.Lock()
		if err != nil {
			r.status, r.err = StatusError, err
		} else {
			r.status, r.data = StatusSuccess, v
		}
		r.mu.Unlock()
		close(r.done)
	})
}

func (r *Result[T]) Status() Status {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.status
}

func (r *Result[T]) Data() T {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.data
}

func (r *Result[T]) Err() error {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return r.err
}

func (r *Result[T]) IsPending() bool { return r.Status() == StatusPending }
func (r *Result[T]) IsSuccess() bool { return r.Status() == StatusSuccess }
func (r *Result[T]) IsError() bool   { return r.Status() == StatusError }

// Done is closed once the result has settled.
func (r *Result[T]) Done() <-chan struct{} {
	return r.done
}

// Wait blocks until the result settles or ctx is done.
func (r *Result[T]) Wait(ctx context.Context) (T, error) {
	select {
	case <-r.done:
		r.mu.RLock()
		defer r.mu.RUnlock()
		return r.data, r.err
	case <-ctx.Done():
		var zero T
		return zero, ctx.Err()
	}
}

type QueryConfig[TData, TParam any] struct {
	KeyFn   func(param TParam) Key
	Fn      func(ctx context.Context, param TParam) (TData, error)
	Options Options
}

// Query is a cached read bound to a key function and a call function.
type Query[TData, TParam any] struct {
	cfg QueryConfig[TData, TParam]
}

// NewQuery defines a query. KeyFn and Fn are required.
func NewQuery[TData, TParam any](cfg QueryConfig[TData, TParam]) *Query[TData, TParam] {
	if cfg.KeyFn == nil || cfg.Fn == nil {
		panic("query: NewQuery requires KeyFn and Fn")
	}
	return &Query[TData, TParam]{cfg: cfg}
}

// Key returns the cache key the query uses under opts.
func (q *Query[TData, TParam]) Key(opts HookOptions[TParam]) Key {
	return q.cfg.KeyFn(opts.param())
}

// Use starts (or joins, or serves from cache) the query and returns its
// result immediately. A fresh cached value settles the result before Use
// returns.
func (q *Query[TData, TParam]) Use(ctx context.Context, qc *Client, opts HookOptions[TParam]) *Result[TData] {
	r := newResult[TData]()
	key := q.Key(opts)

	if v, ok := qc.Engine.fresh(key, opts.QueryOptions); ok {
		r.settle(typed[TData](v, nil))
		return r
	}

	go func() {
		r.settle(typed[TData](qc.Engine.Fetch(ctx, key, opts.QueryOptions, q.fetcher(qc, opts))))
	}()
	return r
}

func (q *Query[TData, TParam]) fetcher(qc *Client, opts HookOptions[TParam]) func(ctx context.Context) (any, error) {
	param := opts.param()
	show := ResolveShowToast(opts.ShowToastOnError, q.cfg.Options.ShowToastOnError)
	return func(ctx context.Context) (any, error) {
		return WithErrorHandling(ctx, qc.Handler, ErrorHandlingConfig[TData]{
			Call:               func(ctx context.Context) (TData, error) { return q.cfg.Fn(ctx, param) },
			CustomErrorMessage: opts.CustomErrorMessage,
			ShowToastOnError:   &show,
		})
	}
}

// SuspenseQuery is a Query whose Use blocks until the result settles
// instead of handing back a pending Result.
type SuspenseQuery[TData, TParam any] struct {
	q *Query[TData, TParam]
}

func NewSuspenseQuery[TData, TParam any](cfg QueryConfig[TData, TParam]) *SuspenseQuery[TData, TParam] {
	return &SuspenseQuery[TData, TParam]{q: NewQuery(cfg)}
}

func (s *SuspenseQuery[TData, TParam]) Key(opts HookOptions[TParam]) Key {
	return s.q.Key(opts)
}

func (s *SuspenseQuery[TData, TParam]) Use(ctx context.Context, qc *Client, opts HookOptions[TParam]) (TData, error) {
	return s.q.Use(ctx, qc, opts).Wait(ctx)
}

type MutationConfig[TData, TParams any] struct {
	// KeyFn is optional.
	KeyFn   func(params TParams) Key
	Fn      func(ctx context.Context, params TParams) (TData, error)
	Options Options
}

// Mutation is an uncached write that may invalidate queries.
type Mutation[TData, TParams any] struct {
	cfg MutationConfig[TData, TParams]
}

// NewMutation defines a mutation. Fn is required.
func NewMutation[TData, TParams any](cfg MutationConfig[TData, TParams]) *Mutation[TData, TParams] {
	if cfg.Fn == nil {
		panic("query: NewMutation requires Fn")
	}
	return &Mutation[TData, TParams]{cfg: cfg}
}

// Use binds the mutation to qc. The mutation key is only computed when the
// definition has a KeyFn and opts carries a QueryKeyParam.
func (m *Mutation[TData, TParams]) Use(qc *Client, opts HookOptions[TParams]) *MutationHandle[TData, TParams] {
	var key Key
	if m.cfg.KeyFn != nil && opts.QueryKeyParam != nil {
		key = m.cfg.KeyFn(*opts.QueryKeyParam)
	}
	return &MutationHandle[TData, TParams]{
		m:    m,
		qc:   qc,
		opts: opts,
		key:  key,
		show: ResolveShowToast(opts.ShowToastOnError, m.cfg.Options.ShowToastOnError),
	}
}

// MutationHandle runs a bound mutation and remembers the last outcome.
type MutationHandle[TData, TParams any] struct {
	m    *Mutation[TData, TParams]
	qc   *Client
	opts HookOptions[TParams]
	key  Key
	show bool

	mu     sync.Mutex
	status Status
	ran    bool
	data   TData
	err    error
}

// Key is nil when no mutation key was computed.
func (h *MutationHandle[TData, TParams]) Key() Key {
	return h.key
}

func (h *MutationHandle[TData, TParams]) Mutate(ctx context.Context, params TParams) (TData, error) {
	h.mu.Lock()
	h.ran, h.status = true, StatusPending
	h.mu.Unlock()

	v, err := typed[TData](h.qc.Engine.Mutate(ctx, h.key, h.opts.QueryOptions, func(ctx context.Context) (any, error) {
		return WithErrorHandling(ctx, h.qc.Handler, ErrorHandlingConfig[TData]{
			Call:               func(ctx context.Context) (TData, error) { return h.m.cfg.Fn(ctx, params) },
			CustomErrorMessage: h.opts.CustomErrorMessage,
			ShowToastOnError:   &h.show,
		})
	}))

	h.mu.Lock()
	defer h.mu.Unlock()
	h.data, h.err = v, err
	if err != nil {
		h.status = StatusError
	} else {
		h.status = StatusSuccess
	}
	return v, err
}

// Status reports the outcome of the last Mutate. ok is false if Mutate has
// not been called since the handle was created or reset.
func (h *MutationHandle[TData, TParams]) Status() (status Status, ok bool) {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.status, h.ran
}

func (h *MutationHandle[TData, TParams]) Data() TData {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.data
}

func (h *MutationHandle[TData, TParams]) Err() error {
	h.mu.Lock()
	defer h.mu.Unlock()
	return h.err
}

func (h *MutationHandle[TData, TParams]) Reset() {
	h.mu.Lock()
	defer h.mu.Unlock()
	var zero TData
	h.ran, h.status, h.data, h.err = false, StatusPending, zero, nil
}

func typed[T any](v any, err error) (T, error) {
	var zero T
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	t, ok := v.(T)
	if !ok {
		return zero, fmt.Errorf("%w: %T", errTypeMismatch, v)
	}
	return t, nil
}
