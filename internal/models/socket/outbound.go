package socket

import "encoding/json"

type Participant struct {
	UserId   string `json:"userId"`
	Username string `json:"username"`
}

type ConnectionEstablishedPayload struct {
	UserId       string `json:"userId"`
	Username     string `json:"username"`
	ConnectionId string `json:"connectionId"`
	Timestamp    int64  `json:"timestamp"`
}

type SessionJoinedPayload struct {
	GroupId      string        `json:"groupId"`
	SessionType  string        `json:"sessionType"`
	SessionId    string        `json:"sessionId"`
	Participants []Participant `json:"participants"`
}

type SessionLeftPayload struct {
	SessionId string `json:"sessionId"`
}

type UserJoinedPayload struct {
	UserId   string         `json:"userId"`
	Username string         `json:"username"`
	JoinedAt string         `json:"joinedAt"`
	Metadata map[string]any `json:"metadata,omitempty"`
}

type UserLeftPayload struct {
	UserId   string `json:"userId"`
	Username string `json:"username"`
	LeftAt   string `json:"leftAt"`
}

type WebRTCOfferRelayPayload struct {
	FromUserId string          `json:"fromUserId"`
	Offer      json.RawMessage `json:"offer"`
}

type WebRTCAnswerRelayPayload struct {
	FromUserId string          `json:"fromUserId"`
	Answer     json.RawMessage `json:"answer"`
}

type WebRTCIceCandidateRelayPayload struct {
	FromUserId string          `json:"fromUserId"`
	Candidate  json.RawMessage `json:"candidate"`
}

type SubscriptionPayload struct {
	GroupId   string `json:"groupId"`
	SessionId string `json:"sessionId,omitempty"`
}

type InsightAcknowledgedPayload struct {
	InsightId      string `json:"insightId"`
	GroupId        string `json:"groupId"`
	AcknowledgedAt string `json:"acknowledgedAt"`
}

type PongPayload struct {
	Timestamp int64 `json:"timestamp"`
}

type ErrorPayload struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
