package query

import (
	"context"

	"github.com/dmitrijs2005/gatewayclient/internal/client/errmsg"
	"github.com/dmitrijs2005/gatewayclient/internal/client/notify"
)

// Classifier turns an error into exactly one notification on sink.
type Classifier interface {
	Classify(ctx context.Context, err error, overrides errmsg.Overrides, sink notify.Sink)
}

// ErrorHandler is the single place failed calls are reported to the user.
type ErrorHandler struct {
	classifier Classifier
	sink       notify.Sink
}

func NewErrorHandler(classifier Classifier, sink notify.Sink) *ErrorHandler {
	return &ErrorHandler{classifier: classifier, sink: sink}
}

// Handle notifies about err when show is true and returns err unchanged.
func (h *ErrorHandler) Handle(ctx context.Context, err error, overrides errmsg.Overrides, show bool) error {
	if show && h != nil && h.classifier != nil {
		h.classifier.Classify(ctx, err, overrides, h.sink)
	}
	return err
}

type ErrorHandlingConfig[T any] struct {
	Call               func(ctx context.Context) (T, error)
	CustomErrorMessage errmsg.Overrides
	// ShowToastOnError defaults to true when nil.
	ShowToastOnError *bool
}

// WithErrorHandling runs cfg.Call. On failure it reports the error through h
// (unless disabled) and then returns the very same error value.
func WithErrorHandling[T any](ctx context.Context, h *ErrorHandler, cfg ErrorHandlingConfig[T]) (T, error) {
	v, err := cfg.Call(ctx)
	if err != nil {
		var zero T
		return zero, h.Handle(ctx, err, cfg.CustomErrorMessage, ResolveShowToast(cfg.ShowToastOnError, nil))
	}
	return v, nil
}

// ResolveShowToast picks the notify-on-error flag: an explicit per-call
// value wins over the factory default, and with neither set errors are
// shown.
func ResolveShowToast(perCall, factoryDefault *bool) bool {
	if perCall != nil {
		return *perCall
	}
	if factoryDefault != nil {
		return *factoryDefault
	}
	return true
}

// Bool returns a pointer to v, for the optional flags above.
func Bool(v bool) *bool {
	return &v
}
