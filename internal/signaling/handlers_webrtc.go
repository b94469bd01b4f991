package signaling

import (
	"context"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/rs/zerolog/log"
)

// An unreachable offer target is reported to the sender. Answers and
// candidates to an unreachable target are dropped without a reply.

func (m *Manager) handleWebRTCOffer(ctx context.Context, conn *Connection, payload any) error {
	p := payload.(*socket.WebRTCOfferPayload)
	relayed := m.relay(p.TargetUserId, enums.SOCKET_EVENT_WEBRTC_OFFER, socket.WebRTCOfferRelayPayload{
		FromUserId: conn.UserId,
		Offer:      p.Offer,
	})
	if !relayed {
		return errs.PeerNotFound(p.TargetUserId)
	}
	return nil
}

func (m *Manager) handleWebRTCAnswer(ctx context.Context, conn *Connection, payload any) error {
	p := payload.(*socket.WebRTCAnswerPayload)
	if !m.relay(p.TargetUserId, enums.SOCKET_EVENT_WEBRTC_ANSWER, socket.WebRTCAnswerRelayPayload{
		FromUserId: conn.UserId,
		Answer:     p.Answer,
	}) {
		log.Debug().Str("module", "signaling").Str("user_id", conn.UserId).Str("target", p.TargetUserId).Msg("answer target unavailable")
	}
	return nil
}

func (m *Manager) handleWebRTCIceCandidate(ctx context.Context, conn *Connection, payload any) error {
	p := payload.(*socket.WebRTCIceCandidatePayload)
	if !m.relay(p.TargetUserId, enums.SOCKET_EVENT_WEBRTC_ICE_CANDIDATE, socket.WebRTCIceCandidateRelayPayload{
		FromUserId: conn.UserId,
		Candidate:  p.Candidate,
	}) {
		log.Debug().Str("module", "signaling").Str("user_id", conn.UserId).Str("target", p.TargetUserId).Msg("candidate target unavailable")
	}
	return nil
}

// relay reports whether targetUserId had an open connection to write to.
func (m *Manager) relay(targetUserId string, eventType string, payload any) bool {
	m.mu.Lock()
	target, ok := m.connections.openRecipient(targetUserId)
	m.mu.Unlock()
	if !ok {
		return false
	}
	m.send(target.transport, eventType, payload)
	return true
}
