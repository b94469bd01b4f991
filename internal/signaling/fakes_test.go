package signaling

import (
	"context"
	"encoding/json"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/metrics"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/jonboulle/clockwork"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

var errTransportClosed = errors.New("transport closed")

type fakeTransport struct {
	mu          sync.Mutex
	frames      [][]byte
	open        bool
	pings       int
	closeCode   int
	closeReason string
	terminated  bool
	onPong      func()
	dropOnPing  bool
}

func newFakeTransport() *fakeTransport {
	return &fakeTransport{open: true}
}

func (f *fakeTransport) Send(data []byte) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if !f.open {
		return errTransportClosed
	}
	f.frames = append(f.frames, append([]byte(nil), data...))
	return nil
}

func (f *fakeTransport) Ping() error {
	f.mu.Lock()
	if !f.open {
		f.mu.Unlock()
		return errTransportClosed
	}
	f.pings++
	respond := !f.dropOnPing
	onPong := f.onPong
	f.mu.Unlock()

	if respond && onPong != nil {
		onPong()
	}
	return nil
}

func (f *fakeTransport) Close(code int, reason string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.closeCode = code
	f.closeReason = reason
	return nil
}

func (f *fakeTransport) Terminate() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.open = false
	f.terminated = true
}

func (f *fakeTransport) IsOpen() bool {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.open
}

func (f *fakeTransport) OnPong(fn func()) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.onPong = fn
}

func (f *fakeTransport) silence() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.dropOnPing = true
}

func (f *fakeTransport) events(t *testing.T) []socket.SocketEvent {
	t.Helper()
	f.mu.Lock()
	defer f.mu.Unlock()
	events := make([]socket.SocketEvent, 0, len(f.frames))
	for _, frame := range f.frames {
		var event socket.SocketEvent
		require.NoError(t, json.Unmarshal(frame, &event))
		events = append(events, event)
	}
	return events
}

func (f *fakeTransport) ofType(t *testing.T, eventType string) []socket.SocketEvent {
	t.Helper()
	var matched []socket.SocketEvent
	for _, event := range f.events(t) {
		if event.Type == eventType {
			matched = append(matched, event)
		}
	}
	return matched
}

func (f *fakeTransport) reset() {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.frames = nil
}

type participantCall struct {
	sessionId   string
	userId      string
	sessionType string
}

type fakeStores struct {
	mu          sync.Mutex
	members     map[string]map[string]bool
	authErr     error
	upserts     []participantCall
	upsertErr   error
	leaves      []participantCall
	markLeftErr error
	acks        map[string]time.Time
	ackErr      error
	panicOnAuth bool
	onUpsert    func()
	now         func() time.Time
}

func newFakeStores(now func() time.Time) *fakeStores {
	return &fakeStores{
		members: make(map[string]map[string]bool),
		acks:    make(map[string]time.Time),
		now:     now,
	}
}

func (s *fakeStores) allow(groupId string, userIds ...string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.members[groupId] == nil {
		s.members[groupId] = make(map[string]bool)
	}
	for _, userId := range userIds {
		s.members[groupId][userId] = true
	}
}

func (s *fakeStores) IsActiveMember(ctx context.Context, groupId string, userId string) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.panicOnAuth {
		panic("membership store exploded")
	}
	if s.authErr != nil {
		return false, s.authErr
	}
	return s.members[groupId][userId], nil
}

func (s *fakeStores) UpsertJoin(ctx context.Context, sessionId string, userId string, sessionType string) error {
	s.mu.Lock()
	if s.upsertErr != nil {
		s.mu.Unlock()
		return s.upsertErr
	}
	s.upserts = append(s.upserts, participantCall{sessionId, userId, sessionType})
	hook := s.onUpsert
	s.onUpsert = nil
	s.mu.Unlock()

	if hook != nil {
		hook()
	}
	return nil
}

func (s *fakeStores) MarkLeft(ctx context.Context, sessionId string, userId string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.markLeftErr != nil {
		return s.markLeftErr
	}
	s.leaves = append(s.leaves, participantCall{sessionId: sessionId, userId: userId})
	return nil
}

func (s *fakeStores) Acknowledge(ctx context.Context, insightId string, groupId string) (time.Time, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.ackErr != nil {
		return time.Time{}, s.ackErr
	}
	if insightId == "missing" {
		return time.Time{}, errs.ErrRecordNotFound
	}
	if at, ok := s.acks[insightId]; ok {
		return at, nil
	}
	at := s.now()
	s.acks[insightId] = at
	return at, nil
}

func (s *fakeStores) upsertCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.upserts)
}

func (s *fakeStores) leaveCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.leaves)
}

type fakeClock interface {
	clockwork.Clock
	Advance(d time.Duration)
	BlockUntil(n int)
}

type testEnv struct {
	manager *Manager
	stores  *fakeStores
	clock   fakeClock
	metrics *metrics.SignalingMetrics
}

func newTestEnv(t *testing.T, mutate ...func(*Options)) *testEnv {
	t.Helper()
	clock := clockwork.NewFakeClockAt(time.Date(2024, 5, 1, 10, 0, 0, 0, time.UTC))
	stores := newFakeStores(clock.Now)
	m := metrics.NewSignalingMetrics(prometheus.NewRegistry())
	opts := Options{Clock: clock, Metrics: m, StoreTimeout: time.Second}
	for _, fn := range mutate {
		fn(&opts)
	}
	manager := NewManager(Stores{Authorization: stores, Participants: stores, Insights: stores}, opts)
	t.Cleanup(manager.Shutdown)
	return &testEnv{manager: manager, stores: stores, clock: clock, metrics: m}
}

func (e *testEnv) connect(t *testing.T, userId string) (*Connection, *fakeTransport) {
	t.Helper()
	transport := newFakeTransport()
	conn, err := e.manager.Register(userId, "name-"+userId, transport)
	require.NoError(t, err)
	return conn, transport
}

func (e *testEnv) send(t *testing.T, conn *Connection, eventType string, payload any) {
	t.Helper()
	frame := map[string]any{"type": eventType}
	if payload != nil {
		frame["payload"] = payload
	}
	data, err := json.Marshal(frame)
	require.NoError(t, err)
	e.manager.Dispatch(conn, data)
}

func (e *testEnv) join(t *testing.T, conn *Connection, groupId string, sessionType string) {
	t.Helper()
	e.send(t, conn, "join-session", map[string]any{"groupId": groupId, "sessionType": sessionType})
}

func decodePayload[T any](t *testing.T, event socket.SocketEvent) T {
	t.Helper()
	var payload T
	require.NoError(t, json.Unmarshal(event.Payload, &payload))
	return payload
}
