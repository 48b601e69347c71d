package reveal

import "sync"

// Entry is one intersection report for an observed element
type Entry struct {
	ID    string  `json:"id"`
	Ratio float64 `json:"ratio"`
}

type target struct {
	threshold float64
	onVisible func(id string)
}

// Observer fires a one-shot callback per registered element once its visible
// ratio reaches the element's threshold
type Observer struct {
	mu      sync.Mutex
	targets map[string]target
	order   []string
}

// NewObserver creates an empty observer
func NewObserver() *Observer {
	return &Observer{targets: make(map[string]target)}
}

// Observe registers id; registering the same id again replaces the previous target
func (o *Observer) Observe(id string, threshold float64, onVisible func(id string)) {
	o.mu.Lock()
	defer o.mu.Unlock()

	if _, ok := o.targets[id]; !ok {
		o.order = append(o.order, id)
	}
	o.targets[id] = target{threshold: threshold, onVisible: onVisible}
}

// Watched lists the ids still waiting to become visible, in registration order
func (o *Observer) Watched() []string {
	o.mu.Lock()
	defer o.mu.Unlock()

	out := make([]string, 0, len(o.targets))
	for _, id := range o.order {
		if _, ok := o.targets[id]; ok {
			out = append(out, id)
		}
	}
	return out
}

// Intersect applies intersection reports and returns the ids that became
// visible. Each id fires at most once; callbacks run after the lock is released.
func (o *Observer) Intersect(entries []Entry) []string {
	o.mu.Lock()
	var (
		fired []string
		calls []func(string)
	)
	for _, e := range entries {
		t, ok := o.targets[e.ID]
		if !ok || e.Ratio <= 0 || e.Ratio < t.threshold {
			continue
		}
		delete(o.targets, e.ID)
		fired = append(fired, e.ID)
		calls = append(calls, t.onVisible)
	}
	o.mu.Unlock()

	for i, id := range fired {
		if calls[i] != nil {
			calls[i](id)
		}
	}
	return fired
}

// Disconnect drops every pending target
func (o *Observer) Disconnect() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.targets = make(map[string]target)
	o.order = nil
}
