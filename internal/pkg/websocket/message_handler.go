package websocket

import (
	"bytes"
	"encoding/json"
	"time"

	"github.com/rs/zerolog"

	"github.com/yigit/cuetclass/internal/app/reveal"
)

// MessageHandler turns browser measurement reports into reveal replies
type MessageHandler struct {
	logger zerolog.Logger
}

// NewMessageHandler creates a new MessageHandler
func NewMessageHandler(logger zerolog.Logger) *MessageHandler {
	return &MessageHandler{logger: logger}
}

// Handle applies one inbound frame to the page and returns the encoded reply,
// or nil when there is nothing to send
func (h *MessageHandler) Handle(page *reveal.Page, raw []byte) []byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return nil
	}

	var ev reveal.Event
	if err := json.Unmarshal(raw, &ev); err != nil {
		h.logger.Debug().
			Err(err).
			Int("size", len(raw)).
			Msg("Failed to unmarshal client message")
		return h.encode(&Message{Type: TypeError, Error: "malformed message"})
	}

	switch ev.Kind {
	case reveal.EventScroll, reveal.EventIntersect:
	default:
		return h.encode(&Message{Type: TypeError, Error: "unknown message kind"})
	}

	ids := page.Handle(ev)
	if len(ids) == 0 {
		return nil
	}
	return h.encode(&Message{Type: TypeReveal, IDs: ids})
}

func (h *MessageHandler) encode(m *Message) []byte {
	m.Timestamp = time.Now()
	data, err := json.Marshal(m)
	if err != nil {
		h.logger.Error().Err(err).Str("type", m.Type).Msg("Failed to marshal reply")
		return nil
	}
	return data
}
