package websocket

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog"

	"github.com/yigit/cuetclass/internal/app/reveal"
)

// Handler upgrades page connections and attaches them to the hub
type Handler struct {
	hub      *Hub
	messages *MessageHandler
	// topicOf resolves the session a request belongs to; empty means anonymous
	topicOf func(*gin.Context) string
	// newPage builds the reveal state for a fresh connection
	newPage func() *reveal.Page
	logger  zerolog.Logger
}

// NewHandler creates a new WebSocket handler
func NewHandler(
	hub *Hub,
	topicOf func(*gin.Context) string,
	newPage func() *reveal.Page,
	logger zerolog.Logger,
) *Handler {
	if newPage == nil {
		newPage = func() *reveal.Page { return reveal.NewPage(reveal.DefaultOffset) }
	}
	return &Handler{
		hub:      hub,
		messages: NewMessageHandler(logger),
		topicOf:  topicOf,
		newPage:  newPage,
		logger:   logger,
	}
}

// HandleConnection upgrades the request to a websocket carrying session
// notifications and reveal events
func (h *Handler) HandleConnection(c *gin.Context) {
	topic := h.topicOf(c)
	if topic == "" {
		c.JSON(http.StatusBadRequest, gin.H{
			"error": "Session not found",
		})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Error().
			Err(err).
			Str("topic", topic).
			Msg("Failed to upgrade connection to WebSocket")
		return
	}

	client := &Client{
		hub:      h.hub,
		conn:     conn,
		send:     make(chan []byte, sendBuffer),
		topic:    topic,
		page:     h.newPage(),
		messages: h.messages,
		logger:   h.logger,
	}
	if !h.hub.Register(client) {
		client.page.Close()
		conn.Close()
		return
	}

	go client.writePump()
	go client.readPump()

	h.logger.Debug().
		Str("topic", topic).
		Str("remoteAddr", conn.RemoteAddr().String()).
		Msg("WebSocket connection established")
}
