package signaling

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"sync"
	"time"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/metrics"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/utils"
	"github.com/google/uuid"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/rs/zerolog/log"
	"golang.org/x/time/rate"
)

const defaultStoreTimeout = 5 * time.Second

type Options struct {
	Clock   clockwork.Clock
	Metrics *metrics.SignalingMetrics
	// StoreTimeout bounds every call to an external store.
	StoreTimeout time.Duration
	// LivenessInterval is the probe period. Zero disables the monitor.
	LivenessInterval time.Duration
	// RateLimit is the per-connection inbound frame rate. Zero disables limiting.
	RateLimit rate.Limit
	RateBurst int
}

// Manager owns every registered connection together with the session and
// subscription registries. A single mutex guards all registry state and is
// never held across a store call or a transport write.
type Manager struct {
	mu          sync.Mutex
	connections connectionRegistry
	sessions    sessionRegistry
	votes       subscriptionRegistry
	insights    subscriptionRegistry
	stopped     bool

	stores     Stores
	clock      clockwork.Clock
	metrics    *metrics.SignalingMetrics
	opts       Options
	dispatcher *dispatcher
	liveness   *LivenessMonitor

	startOnce sync.Once
	ctx       context.Context
	cancel    context.CancelFunc
}

// departure is a session leave captured under the lock and completed after it.
type departure struct {
	sessionId string
	userId    string
	username  string
	remaining []recipient
}

func NewManager(stores Stores, opts Options) *Manager {
	if opts.Clock == nil {
		opts.Clock = clockwork.NewRealClock()
	}
	if opts.Metrics == nil {
		opts.Metrics = metrics.NewSignalingMetrics(prometheus.NewRegistry())
	}
	if opts.StoreTimeout <= 0 {
		opts.StoreTimeout = defaultStoreTimeout
	}
	if opts.RateBurst <= 0 {
		opts.RateBurst = 1
	}

	ctx, cancel := context.WithCancel(context.Background())
	m := &Manager{
		connections: newConnectionRegistry(),
		sessions:    newSessionRegistry(),
		votes:       newSubscriptionRegistry(enums.DOMAIN_VOTE),
		insights:    newSubscriptionRegistry(enums.DOMAIN_INSIGHT),
		stores:      stores,
		clock:       opts.Clock,
		metrics:     opts.Metrics,
		opts:        opts,
		ctx:         ctx,
		cancel:      cancel,
	}
	m.dispatcher = newDispatcher(m)
	if opts.LivenessInterval > 0 {
		m.liveness = NewLivenessMonitor(opts.Clock, opts.LivenessInterval, m.Sweep)
	}
	return m
}

// Start launches the liveness monitor.
func (m *Manager) Start() {
	m.startOnce.Do(func() {
		if m.liveness != nil {
			m.liveness.Start(m.ctx)
		}
	})
	log.Info().Str("module", "signaling").Dur("liveness_interval", m.opts.LivenessInterval).Msg("signaling manager started")
}

// Shutdown closes every transport with a going-away status, records every
// departure and empties all registries. It is safe to call more than once.
func (m *Manager) Shutdown() {
	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		return
	}
	m.stopped = true

	conns := m.connections.all()
	departures := make([]*departure, 0, len(conns))
	for _, conn := range conns {
		if d := m.detachLocked(conn); d != nil {
			departures = append(departures, d)
		}
	}
	m.connections = newConnectionRegistry()
	m.sessions = newSessionRegistry()
	m.votes.clear()
	m.insights.clear()
	m.updateGaugesLocked()
	m.mu.Unlock()

	m.cancel()
	if m.liveness != nil {
		m.liveness.Wait()
	}

	// Close blocks on a stalled writer for up to its write timeout.
	var wg sync.WaitGroup
	for _, conn := range conns {
		wg.Add(1)
		go func(conn *Connection) {
			defer wg.Done()
			if err := conn.Transport.Close(enums.CLOSE_CODE_GOING_AWAY, enums.CLOSE_REASON_SERVER_SHUTDOWN); err != nil {
				log.Debug().Str("module", "signaling").Str("user_id", conn.UserId).Err(err).Msg("close on shutdown failed")
			}
		}(conn)
	}
	wg.Wait()
	for _, d := range departures {
		_ = m.completeDeparture(d, false)
	}

	log.Info().Str("module", "signaling").Int("connections", len(conns)).Msg("signaling manager stopped")
}

// Register adds a connection for userId, replacing any previous one. The
// replaced transport is left open; its session and subscriptions are dropped.
func (m *Manager) Register(userId string, username string, transport Transport) (*Connection, error) {
	conn := &Connection{
		ID:          uuid.NewString(),
		UserId:      userId,
		Username:    username,
		Transport:   transport,
		ConnectedAt: m.clock.Now(),
		alive:       true,
	}
	if m.opts.RateLimit > 0 {
		conn.limiter = rate.NewLimiter(m.opts.RateLimit, m.opts.RateBurst)
	}
	transport.OnPong(func() { m.markAlive(conn) })

	m.mu.Lock()
	if m.stopped {
		m.mu.Unlock()
		_ = transport.Close(enums.CLOSE_CODE_GOING_AWAY, enums.CLOSE_REASON_SERVER_SHUTDOWN)
		return nil, errs.ErrManagerStopped
	}
	var replaced *departure
	if prev := m.connections.put(conn); prev != nil {
		replaced = m.detachLocked(prev)
		log.Info().Str("module", "signaling").Str("user_id", userId).Str("previous_connection", prev.ID).Msg("connection replaced")
	}
	m.updateGaugesLocked()
	m.mu.Unlock()

	if replaced != nil {
		_ = m.completeDeparture(replaced, true)
	}

	m.send(conn.Transport, enums.SOCKET_EVENT_CONNECTION_ESTABLISHED, socket.ConnectionEstablishedPayload{
		UserId:       userId,
		Username:     username,
		ConnectionId: conn.ID,
		Timestamp:    m.clock.Now().UnixMilli(),
	})

	log.Info().Str("module", "signaling").Str("user_id", userId).Str("connection_id", conn.ID).Msg("connection registered")
	return conn, nil
}

// Unregister removes whatever connection userId holds. Unknown ids are ignored.
func (m *Manager) Unregister(userId string) {
	m.mu.Lock()
	conn := m.connections.get(userId)
	if conn == nil {
		m.mu.Unlock()
		return
	}
	d := m.detachLocked(conn)
	m.connections.remove(userId)
	m.updateGaugesLocked()
	m.mu.Unlock()

	if d != nil {
		_ = m.completeDeparture(d, true)
	}
	log.Info().Str("module", "signaling").Str("user_id", userId).Str("connection_id", conn.ID).Msg("connection unregistered")
}

// UnregisterConnection removes conn only if it is still the registered
// connection for its user.
func (m *Manager) UnregisterConnection(conn *Connection) {
	m.mu.Lock()
	if m.connections.get(conn.UserId) != conn {
		m.mu.Unlock()
		return
	}
	d := m.detachLocked(conn)
	m.connections.remove(conn.UserId)
	m.updateGaugesLocked()
	m.mu.Unlock()

	if d != nil {
		_ = m.completeDeparture(d, true)
	}
	log.Info().Str("module", "signaling").Str("user_id", conn.UserId).Str("connection_id", conn.ID).Msg("connection unregistered")
}

// Lookup returns a snapshot of the connection registered for userId.
func (m *Manager) Lookup(userId string) (ConnectionInfo, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	conn := m.connections.get(userId)
	if conn == nil {
		return ConnectionInfo{}, false
	}
	return conn.info(), true
}

// IsUserConnected reports whether userId has a registered, open connection.
func (m *Manager) IsUserConnected(userId string) bool {
	m.mu.Lock()
	defer m.mu.Unlock()
	_, ok := m.connections.openRecipient(userId)
	return ok
}

// Dispatch decodes and handles one inbound frame from conn.
func (m *Manager) Dispatch(conn *Connection, data []byte) {
	m.dispatcher.dispatch(conn, data)
}

// SendToUser delivers an event directly to one user.
func (m *Manager) SendToUser(userId string, event socket.Event) error {
	if err := socket.ValidateEvent(event); err != nil {
		return err
	}
	data, err := socket.EncodeEvent(event)
	if err != nil {
		return fmt.Errorf("encode event: %w", err)
	}

	m.mu.Lock()
	target, ok := m.connections.openRecipient(userId)
	m.mu.Unlock()
	if !ok {
		return errs.ErrUserNotConnected
	}
	return target.transport.Send(data)
}

// BroadcastVoteEvent fans a vote event out to the group's vote subscribers
// and returns how many connections it was delivered to.
func (m *Manager) BroadcastVoteEvent(groupId string, event socket.Event) (int, error) {
	if !slices.Contains(enums.VoteEvents, event.Type) {
		return 0, errs.ErrUnsupportedEventType
	}
	return m.broadcastEvent(&m.votes, groupId, event)
}

// BroadcastInsightEvent fans an insight event out to the group's insight
// subscribers and returns how many connections it was delivered to.
func (m *Manager) BroadcastInsightEvent(groupId string, event socket.Event) (int, error) {
	if !slices.Contains(enums.InsightEvents, event.Type) {
		return 0, errs.ErrUnsupportedEventType
	}
	return m.broadcastEvent(&m.insights, groupId, event)
}

func (m *Manager) broadcastEvent(registry *subscriptionRegistry, groupId string, event socket.Event) (int, error) {
	if groupId == "" {
		return 0, errs.ErrEmptyGroupId
	}
	if err := socket.ValidateEvent(event); err != nil {
		return 0, err
	}
	data, err := socket.EncodeEvent(event)
	if err != nil {
		return 0, fmt.Errorf("encode event: %w", err)
	}

	m.mu.Lock()
	subscribers := registry.subscribers(groupId)
	targets := m.recipientsLocked(subscribers, "")
	m.mu.Unlock()

	if len(subscribers) == 0 {
		log.Debug().Str("module", "signaling").Str("domain", registry.domain).Str("group_id", groupId).Str("type", event.Type).Msg("no subscribers for group")
		return 0, nil
	}

	delivered := m.deliver(targets, data)
	m.metrics.BroadcastDeliveries.WithLabelValues(registry.domain).Add(float64(delivered))
	log.Debug().Str("module", "signaling").Str("domain", registry.domain).Str("group_id", groupId).Str("type", event.Type).
		Int("subscribers", len(subscribers)).Int("delivered", delivered).Msg("event broadcast")
	return delivered, nil
}

// GetConnectedGroupMembers returns every open connection that is in a session
// of groupId or subscribes to either event domain of it, ordered by user id.
func (m *Manager) GetConnectedGroupMembers(groupId string) []socket.Participant {
	m.mu.Lock()
	defer m.mu.Unlock()

	seen := make(map[string]struct{})
	var ids []string
	collect := func(userIds []string) {
		for _, userId := range userIds {
			if _, ok := seen[userId]; ok {
				continue
			}
			seen[userId] = struct{}{}
			ids = append(ids, userId)
		}
	}
	collect(m.sessions.membersOfGroup(groupId))
	collect(m.votes.subscribers(groupId))
	collect(m.insights.subscribers(groupId))
	sort.Strings(ids)

	members := make([]socket.Participant, 0, len(ids))
	for _, userId := range ids {
		conn := m.connections.get(userId)
		if conn == nil || !conn.Transport.IsOpen() {
			continue
		}
		members = append(members, socket.Participant{UserId: conn.UserId, Username: conn.Username})
	}
	return members
}

// Participants returns the members of sessionId in join order. Ids whose
// connection is gone are skipped.
func (m *Manager) Participants(sessionId string) []socket.Participant {
	m.mu.Lock()
	defer m.mu.Unlock()
	return m.participantsLocked(sessionId)
}

func (m *Manager) participantsLocked(sessionId string) []socket.Participant {
	members := m.sessions.members(sessionId)
	participants := make([]socket.Participant, 0, len(members))
	for _, userId := range members {
		conn := m.connections.get(userId)
		if conn == nil {
			continue
		}
		participants = append(participants, socket.Participant{UserId: conn.UserId, Username: conn.Username})
	}
	return participants
}

// recipientsLocked resolves userIds to open transports, skipping exclude.
func (m *Manager) recipientsLocked(userIds []string, exclude string) []recipient {
	recipients := make([]recipient, 0, len(userIds))
	for _, userId := range userIds {
		if userId == exclude {
			continue
		}
		if r, ok := m.connections.openRecipient(userId); ok {
			recipients = append(recipients, r)
		}
	}
	return recipients
}

func (m *Manager) isCurrentLocked(conn *Connection) bool {
	return !m.stopped && m.connections.get(conn.UserId) == conn
}

func (m *Manager) markAlive(conn *Connection) {
	m.mu.Lock()
	conn.alive = true
	m.mu.Unlock()
}

// detachLocked removes conn from its session and from every subscription set.
// The returned departure, if any, must be completed after unlocking.
func (m *Manager) detachLocked(conn *Connection) *departure {
	d := m.leaveLocked(conn)
	m.votes.removeUser(conn.UserId)
	m.insights.removeUser(conn.UserId)
	return d
}

// leaveLocked takes conn out of its current session.
func (m *Manager) leaveLocked(conn *Connection) *departure {
	if conn.sessionId == "" {
		return nil
	}
	sessionId := conn.sessionId
	m.sessions.remove(sessionId, conn.UserId)
	conn.sessionId = ""
	conn.groupId = ""
	return &departure{
		sessionId: sessionId,
		userId:    conn.UserId,
		username:  conn.Username,
		remaining: m.recipientsLocked(m.sessions.members(sessionId), conn.UserId),
	}
}

// completeDeparture records the leave in the participant store and, when
// notify is set, tells the remaining members.
func (m *Manager) completeDeparture(d *departure, notify bool) error {
	ctx, cancel := m.storeContext()
	defer cancel()

	var storeErr error
	if err := m.stores.Participants.MarkLeft(ctx, d.sessionId, d.userId); err != nil {
		storeErr = fmt.Errorf("mark left: %w", err)
		log.Error().Str("module", "signaling").Str("user_id", d.userId).Str("session_id", d.sessionId).Err(err).Msg("failed to record session leave")
	}

	if notify && len(d.remaining) > 0 {
		data, err := socket.Encode(enums.SOCKET_EVENT_USER_LEFT, socket.UserLeftPayload{
			UserId:   d.userId,
			Username: d.username,
			LeftAt:   utils.FormatTimestamp(m.clock.Now()),
		})
		if err == nil {
			m.deliver(d.remaining, data)
		}
	}
	return storeErr
}

// storeContext bounds a store call that must finish even during shutdown.
func (m *Manager) storeContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(context.WithoutCancel(m.ctx), m.opts.StoreTimeout)
}

func (m *Manager) updateGaugesLocked() {
	m.metrics.ConnectionsActive.Set(float64(m.connections.len()))
	m.metrics.SessionsActive.Set(float64(m.sessions.len()))
	m.metrics.SubscriptionsActive.WithLabelValues(enums.DOMAIN_VOTE).Set(float64(m.votes.len()))
	m.metrics.SubscriptionsActive.WithLabelValues(enums.DOMAIN_INSIGHT).Set(float64(m.insights.len()))
}

// deliver writes data to every recipient and returns the number of successful sends.
func (m *Manager) deliver(recipients []recipient, data []byte) int {
	delivered := 0
	for _, r := range recipients {
		if err := r.transport.Send(data); err != nil {
			log.Debug().Str("module", "signaling").Str("user_id", r.userId).Err(err).Msg("dropped frame")
			continue
		}
		delivered++
	}
	return delivered
}

// send encodes and writes one frame to a single transport.
func (m *Manager) send(transport Transport, eventType string, payload any) {
	data, err := socket.Encode(eventType, payload)
	if err != nil {
		log.Error().Str("module", "signaling").Str("type", eventType).Err(err).Msg("failed to encode frame")
		return
	}
	if err := transport.Send(data); err != nil {
		log.Debug().Str("module", "signaling").Str("type", eventType).Err(err).Msg("dropped frame")
	}
}
