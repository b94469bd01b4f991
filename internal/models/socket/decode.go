package socket

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/go-playground/validator/v10"
)

// Message is a decoded inbound frame. Payload holds a pointer to the payload
// struct registered for Type, or nil when Type is not a known inbound kind.
type Message struct {
	Type    string
	Payload any
}

// Known reports whether the frame kind has a registered payload shape.
func (m *Message) Known() bool { return m.Payload != nil }

type payloadShape struct {
	new      func() any
	isStruct bool
}

var inboundPayloads = map[string]payloadShape{
	enums.SOCKET_EVENT_JOIN_SESSION:         {func() any { return &JoinSessionPayload{} }, true},
	enums.SOCKET_EVENT_LEAVE_SESSION:        {func() any { return &LeaveSessionPayload{} }, true},
	enums.SOCKET_EVENT_WEBRTC_OFFER:         {func() any { return &WebRTCOfferPayload{} }, true},
	enums.SOCKET_EVENT_WEBRTC_ANSWER:        {func() any { return &WebRTCAnswerPayload{} }, true},
	enums.SOCKET_EVENT_WEBRTC_ICE_CANDIDATE: {func() any { return &WebRTCIceCandidatePayload{} }, true},
	enums.SOCKET_EVENT_DRAWING_ACTION:       {func() any { return &DrawingActionPayload{} }, false},
	enums.SOCKET_EVENT_VOTE_SUBSCRIBE:       {func() any { return &VoteSubscribePayload{} }, true},
	enums.SOCKET_EVENT_VOTE_UNSUBSCRIBE:     {func() any { return &VoteUnsubscribePayload{} }, true},
	enums.SOCKET_EVENT_INSIGHT_SUBSCRIBE:    {func() any { return &InsightSubscribePayload{} }, true},
	enums.SOCKET_EVENT_INSIGHT_UNSUBSCRIBE:  {func() any { return &InsightUnsubscribePayload{} }, true},
	enums.SOCKET_EVENT_INSIGHT_ACKNOWLEDGE:  {func() any { return &InsightAcknowledgePayload{} }, true},
	enums.SOCKET_EVENT_PING:                 {func() any { return &PingPayload{} }, true},
}

var validate = validator.New(validator.WithRequiredStructEnabled())

// Decode parses and validates one inbound frame. Frames of an unknown kind
// decode without error and report Known() == false.
func Decode(data []byte) (*Message, error) {
	var envelope SocketEvent
	if err := json.Unmarshal(data, &envelope); err != nil {
		return nil, errs.Validation("malformed frame", err)
	}
	envelope.Type = strings.TrimSpace(envelope.Type)
	if envelope.Type == "" {
		return nil, errs.Validation("missing message type", nil)
	}

	shape, ok := inboundPayloads[envelope.Type]
	if !ok {
		return &Message{Type: envelope.Type}, nil
	}

	payload := shape.new()
	if !isBlank(envelope.Payload) {
		if err := json.Unmarshal(envelope.Payload, payload); err != nil {
			return nil, errs.Validation(fmt.Sprintf("invalid %s payload", envelope.Type), err)
		}
	}
	if shape.isStruct {
		if err := validate.Struct(payload); err != nil {
			return nil, errs.Validation(fmt.Sprintf("invalid %s payload", envelope.Type), err)
		}
		if err := checkRawFields(payload); err != nil {
			return nil, errs.Validation(fmt.Sprintf("invalid %s payload", envelope.Type), err)
		}
	}
	if drawing, ok := payload.(*DrawingActionPayload); ok && *drawing == nil {
		*drawing = DrawingActionPayload{}
	}

	return &Message{Type: envelope.Type, Payload: payload}, nil
}

// ValidateEvent checks an externally supplied event before fanout.
func ValidateEvent(event Event) error {
	if err := validate.Struct(event); err != nil {
		return errs.Validation("invalid event", err)
	}
	if len(event.Payload) > 0 && !json.Valid(event.Payload) {
		return errs.Validation("event payload is not valid JSON", nil)
	}
	return nil
}

// checkRawFields rejects relay blobs that were sent as an explicit null.
func checkRawFields(payload any) error {
	var raw json.RawMessage
	switch p := payload.(type) {
	case *WebRTCOfferPayload:
		raw = p.Offer
	case *WebRTCAnswerPayload:
		raw = p.Answer
	case *WebRTCIceCandidatePayload:
		raw = p.Candidate
	default:
		return nil
	}
	if isBlank(raw) {
		return errs.ErrInvalidParams
	}
	return nil
}

func isBlank(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}
