// Package reveal decides when page elements become visible and should animate in.
// The browser reports measurements; the server answers with the element ids to reveal.
package reveal

import "sync"

// MarkerClass marks elements handled by the scroll Tracker
const MarkerClass = "reveal"

// ActiveClass is added to an element once revealed
const ActiveClass = "active"

// DefaultOffset is how far above the viewport bottom an element must reach
const DefaultOffset = 150.0

// Element is a marker element's position relative to the viewport top
type Element struct {
	ID  string  `json:"id"`
	Top float64 `json:"top"`
}

// Tracker activates marker elements as they scroll into view. Activation is permanent.
type Tracker struct {
	mu     sync.Mutex
	offset float64
	active map[string]bool
}

// NewTracker creates a tracker; a non-positive offset uses DefaultOffset
func NewTracker(offset float64) *Tracker {
	if offset <= 0 {
		offset = DefaultOffset
	}
	return &Tracker{offset: offset, active: make(map[string]bool)}
}

// Scan evaluates one measurement pass (on mount or on scroll) and returns the
// ids that became active in this pass
func (t *Tracker) Scan(viewportHeight float64, elements []Element) []string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var activated []string
	for _, el := range elements {
		if el.ID == "" || t.active[el.ID] {
			continue
		}
		if el.Top < viewportHeight-t.offset {
			t.active[el.ID] = true
			activated = append(activated, el.ID)
		}
	}
	return activated
}

// Active reports whether the element has been activated
func (t *Tracker) Active(id string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.active[id]
}
