package signaling

import (
	"context"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/utils"
	"github.com/rs/zerolog/log"
)

func (m *Manager) subscribe(ctx context.Context, conn *Connection, registry *subscriptionRegistry, groupId string) error {
	if err := m.authorize(ctx, groupId, conn.UserId); err != nil {
		return err
	}

	m.mu.Lock()
	if !m.isCurrentLocked(conn) {
		m.mu.Unlock()
		return nil
	}
	registry.subscribe(groupId, conn.UserId)
	m.updateGaugesLocked()
	m.mu.Unlock()

	log.Info().Str("module", "signaling").Str("domain", registry.domain).Str("user_id", conn.UserId).Str("group_id", groupId).Msg("subscribed")
	return nil
}

func (m *Manager) unsubscribe(conn *Connection, registry *subscriptionRegistry, groupId string) {
	m.mu.Lock()
	registry.unsubscribe(groupId, conn.UserId)
	m.updateGaugesLocked()
	m.mu.Unlock()

	log.Info().Str("module", "signaling").Str("domain", registry.domain).Str("user_id", conn.UserId).Str("group_id", groupId).Msg("unsubscribed")
}

func (m *Manager) handleVoteSubscribe(ctx context.Context, conn *Connection, payload any) error {
	p := payload.(*socket.VoteSubscribePayload)
	if err := m.subscribe(ctx, conn, &m.votes, p.GroupId); err != nil {
		return err
	}
	m.send(conn.Transport, enums.SOCKET_EVENT_VOTE_SUBSCRIBED, socket.SubscriptionPayload{GroupId: p.GroupId})
	return nil
}

func (m *Manager) handleVoteUnsubscribe(ctx context.Context, conn *Connection, payload any) error {
	p := payload.(*socket.VoteUnsubscribePayload)
	m.unsubscribe(conn, &m.votes, p.GroupId)
	m.send(conn.Transport, enums.SOCKET_EVENT_VOTE_UNSUBSCRIBED, socket.SubscriptionPayload{GroupId: p.GroupId})
	return nil
}

func (m *Manager) handleInsightSubscribe(ctx context.Context, conn *Connection, payload any) error {
	p := payload.(*socket.InsightSubscribePayload)
	if err := m.subscribe(ctx, conn, &m.insights, p.GroupId); err != nil {
		return err
	}
	m.send(conn.Transport, enums.SOCKET_EVENT_INSIGHT_SUBSCRIBED, socket.SubscriptionPayload{GroupId: p.GroupId, SessionId: p.SessionId})
	return nil
}

func (m *Manager) handleInsightUnsubscribe(ctx context.Context, conn *Connection, payload any) error {
	p := payload.(*socket.InsightUnsubscribePayload)
	m.unsubscribe(conn, &m.insights, p.GroupId)
	m.send(conn.Transport, enums.SOCKET_EVENT_INSIGHT_UNSUBSCRIBED, socket.SubscriptionPayload{GroupId: p.GroupId})
	return nil
}

func (m *Manager) handleInsightAcknowledge(ctx context.Context, conn *Connection, payload any) error {
	p := payload.(*socket.InsightAcknowledgePayload)

	acknowledgedAt, err := m.stores.Insights.Acknowledge(ctx, p.InsightId, p.GroupId)
	if err != nil {
		return errs.AckFailed(err)
	}

	log.Info().Str("module", "signaling").Str("user_id", conn.UserId).Str("group_id", p.GroupId).Str("insight_id", p.InsightId).Msg("insight acknowledged")
	m.send(conn.Transport, enums.SOCKET_EVENT_INSIGHT_ACKNOWLEDGED, socket.InsightAcknowledgedPayload{
		InsightId:      p.InsightId,
		GroupId:        p.GroupId,
		AcknowledgedAt: utils.FormatTimestamp(acknowledgedAt),
	})
	return nil
}
