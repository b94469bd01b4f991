package socket

import "encoding/json"

type JoinSessionPayload struct {
	GroupId     string         `json:"groupId" validate:"required,max=128,excludes=:"`
	SessionType string         `json:"sessionType" validate:"required,max=64,excludes=:"`
	Metadata    map[string]any `json:"metadata,omitempty"`
}

type LeaveSessionPayload struct{}

type WebRTCOfferPayload struct {
	TargetUserId string          `json:"targetUserId" validate:"required"`
	Offer        json.RawMessage `json:"offer" validate:"required"`
}

type WebRTCAnswerPayload struct {
	TargetUserId string          `json:"targetUserId" validate:"required"`
	Answer       json.RawMessage `json:"answer" validate:"required"`
}

type WebRTCIceCandidatePayload struct {
	TargetUserId string          `json:"targetUserId" validate:"required"`
	Candidate    json.RawMessage `json:"candidate" validate:"required"`
}

// DrawingActionPayload is freeform; the server only enriches it.
type DrawingActionPayload map[string]any

type VoteSubscribePayload struct {
	GroupId string `json:"groupId" validate:"required,max=128,excludes=:"`
}

type VoteUnsubscribePayload struct {
	GroupId string `json:"groupId" validate:"required,max=128,excludes=:"`
}

type InsightSubscribePayload struct {
	GroupId   string `json:"groupId" validate:"required,max=128,excludes=:"`
	SessionId string `json:"sessionId,omitempty"`
}

type InsightUnsubscribePayload struct {
	GroupId string `json:"groupId" validate:"required,max=128,excludes=:"`
}

type InsightAcknowledgePayload struct {
	InsightId string `json:"insightId" validate:"required"`
	GroupId   string `json:"groupId" validate:"required,max=128,excludes=:"`
}

type PingPayload struct{}
