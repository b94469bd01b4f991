package signaling

import (
	"context"
	"time"
)

// Transport is the manager's view of one full-duplex client socket.
// Implementations must make Send non-blocking and safe for concurrent use.
type Transport interface {
	Send(data []byte) error
	Ping() error
	// Close sends a close frame with the given status and then releases the socket.
	Close(code int, reason string) error
	// Terminate drops the socket without a close handshake.
	Terminate()
	IsOpen() bool
	// OnPong registers the callback invoked for every pong received.
	OnPong(fn func())
}

// AuthorizationStore answers group membership questions.
type AuthorizationStore interface {
	IsActiveMember(ctx context.Context, groupId string, userId string) (bool, error)
}

// ParticipantStore records session participation. UpsertJoin must be idempotent.
type ParticipantStore interface {
	UpsertJoin(ctx context.Context, sessionId string, userId string, sessionType string) error
	MarkLeft(ctx context.Context, sessionId string, userId string) error
}

// InsightStore records insight acknowledgments. Only the first acknowledgment
// sets the timestamp; later calls return the stored one.
type InsightStore interface {
	Acknowledge(ctx context.Context, insightId string, groupId string) (time.Time, error)
}

// Stores bundles the external collaborators the manager depends on.
type Stores struct {
	Authorization AuthorizationStore
	Participants  ParticipantStore
	Insights      InsightStore
}
