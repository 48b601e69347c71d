package reveal

import "sync/atomic"

// Event kinds sent by the browser
const (
	EventScroll    = "scroll"
	EventIntersect = "intersect"
)

// Event is a measurement report from the browser
type Event struct {
	Kind           string    `json:"kind"`
	ViewportHeight float64   `json:"viewportHeight,omitempty"`
	Elements       []Element `json:"elements,omitempty"`
	Entries        []Entry   `json:"entries,omitempty"`
}

// Page couples a Tracker and an Observer for one mounted browser page
type Page struct {
	Tracker  *Tracker
	Observer *Observer
	closed   atomic.Bool
}

// NewPage creates a page with the given scroll offset
func NewPage(offset float64) *Page {
	return &Page{Tracker: NewTracker(offset), Observer: NewObserver()}
}

// Handle applies one event and returns the ids to reveal. Events after Close are ignored.
func (p *Page) Handle(ev Event) []string {
	if p.closed.Load() {
		return nil
	}
	switch ev.Kind {
	case EventScroll:
		return p.Tracker.Scan(ev.ViewportHeight, ev.Elements)
	case EventIntersect:
		return p.Observer.Intersect(ev.Entries)
	}
	return nil
}

// Close detaches the page; pending observer callbacks will never fire
func (p *Page) Close() {
	if p.closed.CompareAndSwap(false, true) {
		p.Observer.Disconnect()
	}
}

// Closed reports whether Close was called
func (p *Page) Closed() bool {
	return p.closed.Load()
}
