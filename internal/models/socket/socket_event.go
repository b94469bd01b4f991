package socket

import (
	"encoding/json"
)

// SocketEvent is the single wire shape of every inbound and outbound frame.
type SocketEvent struct {
	Type    string          `json:"type"`
	Payload json.RawMessage `json:"payload,omitempty"`
}

// Event is an externally supplied event fanned out to subscribers verbatim.
type Event struct {
	Type    string          `json:"type" validate:"required"`
	Payload json.RawMessage `json:"payload"`
}

type outboundFrame struct {
	Type    string `json:"type"`
	Payload any    `json:"payload"`
}

// Encode marshals an outbound frame.
func Encode(eventType string, payload any) ([]byte, error) {
	if payload == nil {
		payload = struct{}{}
	}
	return json.Marshal(outboundFrame{Type: eventType, Payload: payload})
}

// EncodeEvent marshals an external event, keeping its payload bytes untouched.
func EncodeEvent(event Event) ([]byte, error) {
	payload := event.Payload
	if len(payload) == 0 {
		payload = json.RawMessage("{}")
	}
	return json.Marshal(SocketEvent{Type: event.Type, Payload: payload})
}
