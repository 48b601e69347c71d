package reveal

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTracker_ActivatesAboveOffset(t *testing.T) {
	tr := NewTracker(0)

	got := tr.Scan(800, []Element{
		{ID: "a", Top: 100},
		{ID: "b", Top: 649},
		{ID: "c", Top: 650},
		{ID: "d", Top: 1200},
	})
	assert.Equal(t, []string{"a", "b"}, got)
	assert.False(t, tr.Active("c"))
}

func TestTracker_ActivationIsPermanent(t *testing.T) {
	tr := NewTracker(150)
	assert.Equal(t, []string{"cta"}, tr.Scan(800, []Element{{ID: "cta", Top: 300}}))

	// scrolled back out of view: stays active and is not reported again
	assert.Empty(t, tr.Scan(800, []Element{{ID: "cta", Top: 2000}}))
	assert.True(t, tr.Active("cta"))
}

func TestObserver_OneShot(t *testing.T) {
	o := NewObserver()
	var calls []string
	o.Observe("hero-title", 0.1, func(id string) { calls = append(calls, id) })
	o.Observe("hero-actions", 0.1, func(id string) { calls = append(calls, id) })

	assert.Empty(t, o.Intersect([]Entry{{ID: "hero-title", Ratio: 0.05}, {ID: "hero-actions", Ratio: 0}}))
	assert.Equal(t, []string{"hero-title"}, o.Intersect([]Entry{{ID: "hero-title", Ratio: 0.1}}))
	assert.Empty(t, o.Intersect([]Entry{{ID: "hero-title", Ratio: 1}}))

	assert.Equal(t, []string{"hero-title"}, calls)
	assert.Equal(t, []string{"hero-actions"}, o.Watched())
}

func TestObserver_UnknownIDIgnored(t *testing.T) {
	o := NewObserver()
	assert.Empty(t, o.Intersect([]Entry{{ID: "nope", Ratio: 1}}))
}

func TestPage_CloseDetaches(t *testing.T) {
	p := NewPage(150)
	fired := false
	p.Observer.Observe("hero-title", 0.1, func(string) { fired = true })

	assert.Equal(t, []string{"x"}, p.Handle(Event{Kind: EventScroll, ViewportHeight: 900, Elements: []Element{{ID: "x", Top: 10}}}))

	p.Close()
	p.Close()
	assert.True(t, p.Closed())
	assert.Nil(t, p.Handle(Event{Kind: EventIntersect, Entries: []Entry{{ID: "hero-title", Ratio: 1}}}))
	assert.Nil(t, p.Handle(Event{Kind: EventScroll, ViewportHeight: 900, Elements: []Element{{ID: "y", Top: 10}}}))
	assert.False(t, fired)
}

func TestPage_UnknownKind(t *testing.T) {
	assert.Nil(t, NewPage(0).Handle(Event{Kind: "resize"}))
}
