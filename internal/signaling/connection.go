package signaling

import (
	"time"

	"golang.org/x/time/rate"
)

// Connection is one registered client. Mutable fields are guarded by the
// owning Manager's lock.
type Connection struct {
	ID          string
	UserId      string
	Username    string
	Transport   Transport
	ConnectedAt time.Time

	alive     bool
	sessionId string
	groupId   string
	limiter   *rate.Limiter
}

// ConnectionInfo is a point-in-time copy of a Connection's state.
type ConnectionInfo struct {
	ID          string
	UserId      string
	Username    string
	SessionId   string
	GroupId     string
	Alive       bool
	Open        bool
	ConnectedAt time.Time
}

func (c *Connection) info() ConnectionInfo {
	return ConnectionInfo{
		ID:          c.ID,
		UserId:      c.UserId,
		Username:    c.Username,
		SessionId:   c.sessionId,
		GroupId:     c.groupId,
		Alive:       c.alive,
		Open:        c.Transport.IsOpen(),
		ConnectedAt: c.ConnectedAt,
	}
}

// recipient is a transport captured under the lock for delivery after it.
type recipient struct {
	userId    string
	transport Transport
}

type connectionRegistry struct {
	byUser map[string]*Connection
}

func newConnectionRegistry() connectionRegistry {
	return connectionRegistry{byUser: make(map[string]*Connection)}
}

// put stores conn and returns the connection it replaced, if any.
func (r *connectionRegistry) put(conn *Connection) *Connection {
	prev := r.byUser[conn.UserId]
	r.byUser[conn.UserId] = conn
	return prev
}

func (r *connectionRegistry) get(userId string) *Connection {
	return r.byUser[userId]
}

func (r *connectionRegistry) remove(userId string) {
	delete(r.byUser, userId)
}

func (r *connectionRegistry) all() []*Connection {
	conns := make([]*Connection, 0, len(r.byUser))
	for _, conn := range r.byUser {
		conns = append(conns, conn)
	}
	return conns
}

func (r *connectionRegistry) len() int {
	return len(r.byUser)
}

// openRecipient returns the transport for userId when it is registered and open.
func (r *connectionRegistry) openRecipient(userId string) (recipient, bool) {
	conn := r.byUser[userId]
	if conn == nil || !conn.Transport.IsOpen() {
		return recipient{}, false
	}
	return recipient{userId: userId, transport: conn.Transport}, true
}
