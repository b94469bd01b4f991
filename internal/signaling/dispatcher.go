package signaling

import (
	"context"
	"fmt"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/rs/zerolog/log"
)

type handlerFunc func(ctx context.Context, conn *Connection, payload any) error

// dispatcher routes decoded frames to handlers and turns every handler
// failure into an error reply on the originating connection.
type dispatcher struct {
	manager *Manager
	routes  map[string]handlerFunc
}

func newDispatcher(m *Manager) *dispatcher {
	return &dispatcher{
		manager: m,
		routes: map[string]handlerFunc{
			enums.SOCKET_EVENT_JOIN_SESSION:         m.handleJoinSession,
			enums.SOCKET_EVENT_LEAVE_SESSION:        m.handleLeaveSession,
			enums.SOCKET_EVENT_WEBRTC_OFFER:         m.handleWebRTCOffer,
			enums.SOCKET_EVENT_WEBRTC_ANSWER:        m.handleWebRTCAnswer,
			enums.SOCKET_EVENT_WEBRTC_ICE_CANDIDATE: m.handleWebRTCIceCandidate,
			enums.SOCKET_EVENT_DRAWING_ACTION:       m.handleDrawingAction,
			enums.SOCKET_EVENT_VOTE_SUBSCRIBE:       m.handleVoteSubscribe,
			enums.SOCKET_EVENT_VOTE_UNSUBSCRIBE:     m.handleVoteUnsubscribe,
			enums.SOCKET_EVENT_INSIGHT_SUBSCRIBE:    m.handleInsightSubscribe,
			enums.SOCKET_EVENT_INSIGHT_UNSUBSCRIBE:  m.handleInsightUnsubscribe,
			enums.SOCKET_EVENT_INSIGHT_ACKNOWLEDGE:  m.handleInsightAcknowledge,
			enums.SOCKET_EVENT_PING:                 m.handlePing,
		},
	}
}

func (d *dispatcher) dispatch(conn *Connection, data []byte) {
	m := d.manager

	m.mu.Lock()
	current := m.isCurrentLocked(conn)
	m.mu.Unlock()
	if !current {
		log.Debug().Str("module", "signaling").Str("user_id", conn.UserId).Str("connection_id", conn.ID).Msg("frame from replaced connection ignored")
		return
	}

	if conn.limiter != nil && !conn.limiter.Allow() {
		d.replyError(conn, "", errs.RateLimited())
		return
	}

	msg, err := socket.Decode(data)
	if err != nil {
		m.metrics.FramesReceived.WithLabelValues("invalid").Inc()
		d.replyError(conn, "", err)
		return
	}

	handler, ok := d.routes[msg.Type]
	if !ok || !msg.Known() {
		m.metrics.FramesReceived.WithLabelValues("unknown").Inc()
		log.Warn().Str("module", "signaling").Str("user_id", conn.UserId).Str("type", msg.Type).Msg("unknown message type ignored")
		return
	}
	m.metrics.FramesReceived.WithLabelValues(msg.Type).Inc()

	ctx, cancel := context.WithTimeout(m.ctx, m.opts.StoreTimeout)
	defer cancel()

	if err := d.invoke(ctx, handler, conn, msg); err != nil {
		d.replyError(conn, msg.Type, err)
	}
}

func (d *dispatcher) invoke(ctx context.Context, handler handlerFunc, conn *Connection, msg *socket.Message) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errs.Processing(fmt.Errorf("handler panic: %v", r))
		}
	}()
	return handler(ctx, conn, msg.Payload)
}

func (d *dispatcher) replyError(conn *Connection, messageType string, err error) {
	se := errs.AsSignalError(err)

	event := log.Warn()
	if se.Code == enums.ERROR_CODE_PROCESSING_FAILURE {
		event = log.Error()
	}
	event.Str("module", "signaling").Str("user_id", conn.UserId).Str("type", messageType).Str("code", se.Code).Err(err).Msg("message failed")

	d.manager.metrics.ErrorReplies.WithLabelValues(se.Code).Inc()
	d.manager.send(conn.Transport, enums.SOCKET_EVENT_ERROR, socket.ErrorPayload{Code: se.Code, Message: se.Message})
}
