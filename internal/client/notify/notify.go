// Package notify is the contract between the error pipeline and whatever
// renders user-visible error toasts. The pipeline only ever calls Sink.Error;
// rendering is someone else's job.
package notify

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/google/uuid"
	"golang.org/x/term"
)

// Direction is the text direction the notification should be rendered in.
type Direction string

const (
	LTR Direction = "ltr"
	RTL Direction = "rtl"
)

// Notification is the payload handed to a Sink.
type Notification struct {
	Message     string
	Description string
	Direction   Direction
}

// Sink displays an error notification. Fire-and-forget: implementations must
// not block for long and the caller never inspects the outcome.
type Sink interface {
	Error(n Notification)
}

// SinkFunc adapts a plain function to Sink.
type SinkFunc func(n Notification)

func (f SinkFunc) Error(n Notification) { f(n) }

// Detachable forwards to a Sink until Detach is called and silently drops
// notifications afterwards. Use it when the renderer can go away while calls
// are still in flight.
type Detachable struct {
	mu     sync.RWMutex
	target Sink
}

func NewDetachable(target Sink) *Detachable {
	return &Detachable{target: target}
}

func (d *Detachable) Error(n Notification) {
	d.mu.RLock()
	defer d.mu.RUnlock()
	if d.target != nil {
		d.target.Error(n)
	}
}

// Detach stops forwarding. It is safe to call more than once.
func (d *Detachable) Detach() {
	d.mu.Lock()
	d.target = nil
	d.mu.Unlock()
}

// ConsoleSink writes notifications as text lines, one notification per block.
// Each line gets a short id so repeated toasts can be told apart in logs.
type ConsoleSink struct {
	mu  sync.Mutex
	w   io.Writer
	tty bool
}

// NewConsoleSink writes to w. When w is a terminal, right-to-left
// notifications are wrapped in Unicode directional isolates so the terminal
// lays them out correctly.
func NewConsoleSink(w io.Writer) *ConsoleSink {
	tty := false
	if f, ok := w.(*os.File); ok {
		tty = term.IsTerminal(int(f.Fd()))
	}
	return &ConsoleSink{w: w, tty: tty}
}

const (
	rtlIsolate = "\u2067"
	popIsolate = "\u2069"
)

func (c *ConsoleSink) Error(n Notification) {
	c.mu.Lock()
	defer c.mu.Unlock()

	id := uuid.NewString()[:8]
	msg, desc := n.Message, n.Description
	if c.tty && n.Direction == RTL {
		msg = rtlIsolate + msg + popIsolate
		desc = rtlIsolate + desc + popIsolate
	}
	_, _ = fmt.Fprintf(c.w, "[error %s] %s\n", id, msg)
	if desc != "" {
		_, _ = fmt.Fprintf(c.w, "            %s\n", desc)
	}
}
