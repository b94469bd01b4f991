package signaling

import (
	"context"
	"fmt"
	"maps"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/utils"
	"github.com/rs/zerolog/log"
)

func (m *Manager) authorize(ctx context.Context, groupId string, userId string) error {
	ok, err := m.stores.Authorization.IsActiveMember(ctx, groupId, userId)
	if err != nil {
		return errs.Processing(fmt.Errorf("membership check: %w", err))
	}
	if !ok {
		return errs.NotMember(groupId)
	}
	return nil
}

func (m *Manager) handleJoinSession(ctx context.Context, conn *Connection, payload any) error {
	p := payload.(*socket.JoinSessionPayload)

	if err := m.authorize(ctx, p.GroupId, conn.UserId); err != nil {
		return err
	}

	sessionId := SessionID(p.GroupId, p.SessionType)
	if err := m.stores.Participants.UpsertJoin(ctx, sessionId, conn.UserId, p.SessionType); err != nil {
		return errs.Processing(fmt.Errorf("upsert join: %w", err))
	}

	m.mu.Lock()
	if !m.isCurrentLocked(conn) {
		current := m.connections.get(conn.UserId)
		keep := current != nil && current.sessionId == sessionId
		m.mu.Unlock()
		// The row now belongs to no connection unless the replacement joined too.
		if !keep {
			if err := m.stores.Participants.MarkLeft(ctx, sessionId, conn.UserId); err != nil {
				log.Warn().Str("module", "signaling").Str("user_id", conn.UserId).Str("session_id", sessionId).Err(err).Msg("rollback of stale join failed")
			}
		}
		return nil
	}
	var previous *departure
	if conn.sessionId != "" && conn.sessionId != sessionId {
		previous = m.leaveLocked(conn)
	}
	added := m.sessions.add(sessionId, p.GroupId, p.SessionType, conn.UserId)
	conn.sessionId = sessionId
	conn.groupId = p.GroupId
	participants := m.participantsLocked(sessionId)
	others := m.recipientsLocked(m.sessions.members(sessionId), conn.UserId)
	m.updateGaugesLocked()
	m.mu.Unlock()

	if previous != nil {
		_ = m.completeDeparture(previous, true)
	}

	if added {
		data, err := socket.Encode(enums.SOCKET_EVENT_USER_JOINED, socket.UserJoinedPayload{
			UserId:   conn.UserId,
			Username: conn.Username,
			JoinedAt: utils.FormatTimestamp(m.clock.Now()),
			Metadata: p.Metadata,
		})
		if err != nil {
			return errs.Processing(err)
		}
		m.deliver(others, data)
	}

	log.Info().Str("module", "signaling").Str("user_id", conn.UserId).Str("session_id", sessionId).Bool("rejoin", !added).Msg("joined session")

	m.send(conn.Transport, enums.SOCKET_EVENT_SESSION_JOINED, socket.SessionJoinedPayload{
		GroupId:      p.GroupId,
		SessionType:  p.SessionType,
		SessionId:    sessionId,
		Participants: participants,
	})
	return nil
}

func (m *Manager) handleLeaveSession(ctx context.Context, conn *Connection, payload any) error {
	m.mu.Lock()
	var d *departure
	if m.isCurrentLocked(conn) {
		d = m.leaveLocked(conn)
	}
	m.updateGaugesLocked()
	m.mu.Unlock()

	if d == nil {
		return nil
	}

	err := m.completeDeparture(d, true)
	log.Info().Str("module", "signaling").Str("user_id", conn.UserId).Str("session_id", d.sessionId).Msg("left session")
	m.send(conn.Transport, enums.SOCKET_EVENT_SESSION_LEFT, socket.SessionLeftPayload{SessionId: d.sessionId})
	if err != nil {
		return errs.Processing(err)
	}
	return nil
}

func (m *Manager) handleDrawingAction(ctx context.Context, conn *Connection, payload any) error {
	p := payload.(*socket.DrawingActionPayload)

	m.mu.Lock()
	sessionId := conn.sessionId
	var others []recipient
	if sessionId != "" {
		others = m.recipientsLocked(m.sessions.members(sessionId), conn.UserId)
	}
	m.mu.Unlock()

	if sessionId == "" {
		return errs.NotInSession()
	}

	enriched := make(map[string]any, len(*p)+3)
	maps.Copy(enriched, *p)
	enriched["userId"] = conn.UserId
	enriched["username"] = conn.Username
	enriched["timestamp"] = m.clock.Now().UnixMilli()

	data, err := socket.Encode(enums.SOCKET_EVENT_DRAWING_ACTION, enriched)
	if err != nil {
		return errs.Processing(err)
	}
	m.deliver(others, data)
	return nil
}

func (m *Manager) handlePing(ctx context.Context, conn *Connection, payload any) error {
	m.send(conn.Transport, enums.SOCKET_EVENT_PONG, socket.PongPayload{Timestamp: m.clock.Now().UnixMilli()})
	return nil
}
