package notify

import (
	"context"
	"sync"
)

// maxPending caps the notifications queued for one session
const maxPending = 16

// Mailbox queues notifications per browser session until the next page render
// drains them, so toasts survive a post/redirect/get round trip.
type Mailbox struct {
	mu      sync.Mutex
	pending map[string][]Notification
}

// NewMailbox creates an empty mailbox
func NewMailbox() *Mailbox {
	return &Mailbox{pending: make(map[string][]Notification)}
}

// Put queues n for the session, dropping the oldest entry once full
func (m *Mailbox) Put(sessionID string, n Notification) {
	if sessionID == "" {
		return
	}
	m.mu.Lock()
	defer m.mu.Unlock()

	q := append(m.pending[sessionID], n)
	if len(q) > maxPending {
		q = q[len(q)-maxPending:]
	}
	m.pending[sessionID] = q
}

// Drain returns and forgets the queued notifications of the session
func (m *Mailbox) Drain(sessionID string) []Notification {
	m.mu.Lock()
	defer m.mu.Unlock()

	q := m.pending[sessionID]
	delete(m.pending, sessionID)
	return q
}

// For returns a Notifier writing into the session's queue
func (m *Mailbox) For(sessionID string) Notifier {
	return Func(func(_ context.Context, n Notification) {
		m.Put(sessionID, n)
	})
}

// Publisher pushes a notification to every live connection subscribed to a topic
type Publisher interface {
	PublishNotification(topic string, n Notification)
}

// ToTopic returns a Notifier publishing to the topic
func ToTopic(p Publisher, topic string) Notifier {
	return Func(func(_ context.Context, n Notification) {
		p.PublishNotification(topic, n)
	})
}
