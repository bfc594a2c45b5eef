package query

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/dmitrijs2005/gatewayclient/internal/client/errmsg"
	"github.com/dmitrijs2005/gatewayclient/internal/client/notify"
)

type classifyCall struct {
	err       error
	overrides errmsg.Overrides
	sink      notify.Sink
}

type fakeClassifier struct {
	mu    sync.Mutex
	calls []classifyCall
}

func (f *fakeClassifier) Classify(_ context.Context, err error, overrides errmsg.Overrides, sink notify.Sink) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, classifyCall{err: err, overrides: overrides, sink: sink})
}

func (f *fakeClassifier) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func newTestClient(t *testing.T, cfg EngineConfig) (*Client, *fakeClassifier) {
	t.Helper()
	if cfg.RetryBase == 0 {
		cfg.RetryBase = time.Millisecond
	}
	fc := &fakeClassifier{}
	sink := notify.SinkFunc(func(notify.Notification) {})
	return NewClient(NewEngine(cfg, nil), NewErrorHandler(fc, sink)), fc
}

func waitCtx(t *testing.T) context.Context {
	t.Helper()
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	t.Cleanup(cancel)
	return ctx
}
