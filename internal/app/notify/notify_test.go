package notify

import (
	"bytes"
	"context"
	"fmt"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
)

type topicSpy struct {
	topic string
	got   []Notification
}

func (s *topicSpy) PublishNotification(topic string, n Notification) {
	s.topic = topic
	s.got = append(s.got, n)
}

func TestFanout_SkipsNil(t *testing.T) {
	var a, b Recorder
	n := Fanout(&a, nil, &b)

	n.Notify(context.Background(), Success("Saved", "Department saved."))

	assert.Len(t, a.All(), 1)
	assert.Len(t, b.All(), 1)
	assert.Equal(t, VariantDefault, a.All()[0].Variant)
}

func TestFromContext(t *testing.T) {
	var carried, fallback Recorder
	ctx := NewContext(context.Background(), &carried)

	FromContext(ctx, &fallback).Notify(ctx, Success("Saved", ""))
	FromContext(context.Background(), &fallback).Notify(ctx, Success("Saved", ""))
	FromContext(context.Background(), nil).Notify(ctx, Success("Dropped", ""))

	assert.Len(t, carried.All(), 1)
	assert.Len(t, fallback.All(), 1)
}

func TestMailbox_DrainOnce(t *testing.T) {
	m := NewMailbox()
	m.For("s1").Notify(context.Background(), Failure("Error", "boom"))
	m.Put("s2", Success("Ok", ""))
	m.Put("", Success("dropped", ""))

	got := m.Drain("s1")
	assert.Equal(t, []Notification{Failure("Error", "boom")}, got)
	assert.Empty(t, m.Drain("s1"))
	assert.Len(t, m.Drain("s2"), 1)
}

func TestMailbox_KeepsNewest(t *testing.T) {
	m := NewMailbox()
	for i := 0; i < maxPending+4; i++ {
		m.Put("s", Success(fmt.Sprint(i), ""))
	}

	got := m.Drain("s")
	assert.Len(t, got, maxPending)
	assert.Equal(t, "4", got[0].Title)
}

func TestToTopic(t *testing.T) {
	spy := &topicSpy{}
	ToTopic(spy, "class:1").Notify(context.Background(), Success("Notice Posted", ""))

	assert.Equal(t, "class:1", spy.topic)
	assert.Len(t, spy.got, 1)
}

func TestLogging(t *testing.T) {
	var buf bytes.Buffer
	lgr := zerolog.New(&buf).Level(zerolog.DebugLevel)

	Logging(lgr).Notify(context.Background(), Failure("Error", "Failed to post notice."))

	assert.Contains(t, buf.String(), `"level":"warn"`)
	assert.Contains(t, buf.String(), "Failed to post notice.")
}
