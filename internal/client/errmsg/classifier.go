// Package errmsg turns a failed backend call into a user-visible, localized
// error notification.
//
// The status code is read from an *apierr.Error. Known codes map to a
// localized message/description pair that call sites may override per code;
// everything else, including errors without a status, gets the generic
// "unknown error" pair.
package errmsg

import (
	"context"
	"net/http"

	"golang.org/x/text/language"
	"golang.org/x/text/message"

	"github.com/dmitrijs2005/gatewayclient/internal/client/apierr"
	"github.com/dmitrijs2005/gatewayclient/internal/client/notify"
	"github.com/dmitrijs2005/gatewayclient/internal/logging"
)

// Message is a message/description pair. An empty field means "not set".
type Message struct {
	Message     string
	Description string
}

// Overrides replaces the default pair for individual status codes. Codes
// missing from the table keep their defaults; within an entry, an empty field
// falls back to the default for that field.
type Overrides map[int]Message

// Classifier resolves notifications for failed calls. It is safe for
// concurrent use.
type Classifier struct {
	printer    *message.Printer
	direction  notify.Direction
	logger     logging.Logger
	production bool
}

// NewClassifier builds a Classifier for the given language. Outside of
// production every classified error is also logged.
func NewClassifier(tag language.Tag, logger logging.Logger, production bool) *Classifier {
	tag = MatchLocale(tag.String())
	if logger == nil {
		logger = logging.Nop()
	}
	return &Classifier{
		printer:    newPrinter(tag),
		direction:  directionOf(tag),
		logger:     logger,
		production: production,
	}
}

func groupOf(status int) (group string, known bool) {
	switch status {
	case http.StatusBadRequest:
		return groupBadRequest, true
	case http.StatusUnauthorized:
		return groupUnauthorized, true
	case http.StatusForbidden:
		return groupForbidden, true
	case http.StatusNotFound:
		return groupNotFound, true
	case http.StatusUnprocessableEntity:
		return groupValidation, true
	case http.StatusTooManyRequests:
		return groupRateLimited, true
	case http.StatusInternalServerError, http.StatusBadGateway, http.StatusServiceUnavailable:
		return groupServer, true
	}
	return groupUnknown, false
}

// Resolve returns the notification for status under the given overrides.
func (c *Classifier) Resolve(status int, overrides Overrides) notify.Notification {
	group, known := groupOf(status)

	n := notify.Notification{
		Message:     c.printer.Sprintf(messageKey(group)),
		Description: c.printer.Sprintf(descriptionKey(group)),
		Direction:   c.direction,
	}
	if !known {
		return n
	}

	if o, ok := overrides[status]; ok {
		if o.Message != "" {
			n.Message = o.Message
		}
		if o.Description != "" {
			n.Description = o.Description
		}
	}
	return n
}

// Classify sends exactly one notification for err to sink. It never fails:
// a panicking sink is recovered and logged.
func (c *Classifier) Classify(ctx context.Context, err error, overrides Overrides, sink notify.Sink) {
	status, _ := apierr.StatusCode(err)
	n := c.Resolve(status, overrides)

	if sink != nil {
		func() {
			defer func() {
				if r := recover(); r != nil {
					c.logger.Error(ctx, "notification sink panicked", "panic", r)
				}
			}()
			sink.Error(n)
		}()
	}

	if !c.production {
		c.logger.Error(ctx, "API Error", "error", err, "status", status)
	}
}
