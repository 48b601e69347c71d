package websocket

import (
	"context"
	"encoding/json"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/cuetclass/internal/app/notify"
)

// Message types exchanged over the socket
const (
	TypeNotification = "notification"
	TypeReveal       = "reveal"
	TypeError        = "error"
)

// broadcastBuffer bounds the publications queued while the hub loop is busy
const broadcastBuffer = 64

// Hub maintains the set of active clients and pushes messages to the clients
// subscribed to a topic. A topic is a browser session.
type Hub struct {
	// Registered clients organized by topic
	clients map[string]map[*Client]bool

	// Outbound messages waiting to be delivered
	broadcast chan *Message

	// Register requests from the clients
	register chan *Client

	// Unregister requests from clients
	unregister chan *Client

	// Closed once Run returns
	done chan struct{}

	// Mutex for concurrent access to clients map
	mu sync.RWMutex

	logger zerolog.Logger
}

// Message is the frame sent to the browser
type Message struct {
	// Type of message: "notification", "reveal" or "error"
	Type string `json:"type"`

	// Topic the message was published to
	Topic string `json:"topic,omitempty"`

	// Notification payload of a notification message
	Notification *notify.Notification `json:"notification,omitempty"`

	// Element ids to reveal
	IDs []string `json:"ids,omitempty"`

	// Error text of an error message
	Error string `json:"error,omitempty"`

	Timestamp time.Time `json:"timestamp"`
}

// NewHub creates a new Hub instance
func NewHub(logger zerolog.Logger) *Hub {
	return &Hub{
		broadcast:  make(chan *Message, broadcastBuffer),
		register:   make(chan *Client),
		unregister: make(chan *Client),
		done:       make(chan struct{}),
		clients:    make(map[string]map[*Client]bool),
		logger:     logger,
	}
}

// Run handles registrations and deliveries until ctx is done, then closes
// every remaining client
func (h *Hub) Run(ctx context.Context) {
	defer close(h.done)
	for {
		select {
		case client := <-h.register:
			h.registerClient(client)

		case client := <-h.unregister:
			h.unregisterClient(client)

		case message := <-h.broadcast:
			h.deliver(message)

		case <-ctx.Done():
			h.closeAll()
			return
		}
	}
}

// Register adds a client; it reports false once the hub has stopped
func (h *Hub) Register(client *Client) bool {
	select {
	case h.register <- client:
		return true
	case <-h.done:
		return false
	}
}

// Unregister removes a client; a no-op once the hub has stopped
func (h *Hub) Unregister(client *Client) {
	select {
	case h.unregister <- client:
	case <-h.done:
	}
}

func (h *Hub) registerClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if _, ok := h.clients[client.topic]; !ok {
		h.clients[client.topic] = make(map[*Client]bool)
	}
	h.clients[client.topic][client] = true

	h.logger.Debug().
		Str("topic", client.topic).
		Str("addr", client.remoteAddr()).
		Msg("Client registered")
}

func (h *Hub) unregisterClient(client *Client) {
	h.mu.Lock()
	defer h.mu.Unlock()
	h.removeLocked(client)
}

// removeLocked drops the client and releases its resources; h.mu must be held
func (h *Hub) removeLocked(client *Client) {
	clients, ok := h.clients[client.topic]
	if !ok || !clients[client] {
		return
	}
	delete(clients, client)
	close(client.send)
	client.page.Close()

	if len(clients) == 0 {
		delete(h.clients, client.topic)
	}

	h.logger.Debug().
		Str("topic", client.topic).
		Str("addr", client.remoteAddr()).
		Msg("Client unregistered")
}

// deliver sends a message to all clients of its topic. Clients whose send
// buffer is full are dropped.
func (h *Hub) deliver(message *Message) {
	data, err := json.Marshal(message)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("topic", message.Topic).
			Msg("Failed to marshal message")
		return
	}

	h.mu.Lock()
	defer h.mu.Unlock()

	clients, ok := h.clients[message.Topic]
	if !ok {
		h.logger.Debug().
			Str("topic", message.Topic).
			Msg("No clients on topic")
		return
	}

	for client := range clients {
		select {
		case client.send <- data:
		default:
			h.logger.Warn().
				Str("topic", message.Topic).
				Msg("Dropping slow client")
			h.removeLocked(client)
		}
	}
}

func (h *Hub) closeAll() {
	h.mu.Lock()
	defer h.mu.Unlock()

	for _, clients := range h.clients {
		for client := range clients {
			h.removeLocked(client)
		}
	}
}

// PublishNotification queues a notification for every connection on the
// topic. It never blocks; when the queue is full the notification is dropped.
func (h *Hub) PublishNotification(topic string, n notify.Notification) {
	if topic == "" {
		return
	}
	msg := &Message{Type: TypeNotification, Topic: topic, Notification: &n, Timestamp: time.Now()}

	select {
	case h.broadcast <- msg:
	default:
		h.logger.Warn().
			Str("topic", topic).
			Str("title", n.Title).
			Msg("Notification queue full, dropping")
	}
}

// ClientsCount returns the number of connected clients for a topic
func (h *Hub) ClientsCount(topic string) int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.clients[topic])
}

// Connections returns the number of connected clients across all topics
func (h *Hub) Connections() int {
	h.mu.RLock()
	defer h.mu.RUnlock()
	n := 0
	for _, clients := range h.clients {
		n += len(clients)
	}
	return n
}

var _ notify.Publisher = (*Hub)(nil)
