// Package notify carries user-facing toast notifications from widgets to whatever
// surface displays them.
package notify

import (
	"context"
	"sync"

	"github.com/rs/zerolog"
)

// Variant selects the toast styling
type Variant string

const (
	VariantDefault     Variant = "default"
	VariantDestructive Variant = "destructive"
)

// Notification is a fire-and-forget toast
type Notification struct {
	Title       string  `json:"title"`
	Description string  `json:"description"`
	Variant     Variant `json:"variant"`
}

// Success builds a default-variant notification
func Success(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDefault}
}

// Failure builds a destructive notification
func Failure(title, description string) Notification {
	return Notification{Title: title, Description: description, Variant: VariantDestructive}
}

// Notifier accepts notifications without acknowledging them
type Notifier interface {
	Notify(ctx context.Context, n Notification)
}

// Func adapts a function to Notifier
type Func func(ctx context.Context, n Notification)

// Notify implements Notifier
func (f Func) Notify(ctx context.Context, n Notification) { f(ctx, n) }

// Discard drops every notification
var Discard Notifier = Func(func(context.Context, Notification) {})

type ctxKey struct{}

// NewContext returns a context whose requests are notified through n
func NewContext(ctx context.Context, n Notifier) context.Context {
	return context.WithValue(ctx, ctxKey{}, n)
}

// FromContext returns the notifier carried by ctx, or fallback when there is none
func FromContext(ctx context.Context, fallback Notifier) Notifier {
	if n, ok := ctx.Value(ctxKey{}).(Notifier); ok && n != nil {
		return n
	}
	if fallback == nil {
		return Discard
	}
	return fallback
}

type fanout []Notifier

func (f fanout) Notify(ctx context.Context, n Notification) {
	for _, nt := range f {
		nt.Notify(ctx, n)
	}
}

// Fanout delivers each notification to every non-nil notifier in order
func Fanout(ns ...Notifier) Notifier {
	out := make(fanout, 0, len(ns))
	for _, n := range ns {
		if n != nil {
			out = append(out, n)
		}
	}
	return out
}

// Logging writes notifications to the logger at debug level, failures at warn
func Logging(lgr zerolog.Logger) Notifier {
	return Func(func(_ context.Context, n Notification) {
		ev := lgr.Debug()
		if n.Variant == VariantDestructive {
			ev = lgr.Warn()
		}
		ev.Str("title", n.Title).Str("description", n.Description).Msg("Notification")
	})
}

// Recorder keeps notifications in memory; safe for concurrent use
type Recorder struct {
	mu    sync.Mutex
	items []Notification
}

// Notify implements Notifier
func (r *Recorder) Notify(_ context.Context, n Notification) {
	r.mu.Lock()
	r.items = append(r.items, n)
	r.mu.Unlock()
}

// All returns a copy of the recorded notifications
func (r *Recorder) All() []Notification {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]Notification(nil), r.items...)
}
