package signaling

import (
	"errors"
	"testing"
	"time"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestVoteSubscribe_RequiresMembership(t *testing.T) {
	env := newTestEnv(t)
	a, transport := env.connect(t, "a")

	env.send(t, a, "vote:subscribe", map[string]any{"groupId": "G"})

	errs := transport.ofType(t, enums.SOCKET_EVENT_ERROR)
	require.Len(t, errs, 1)
	assert.Equal(t, enums.ERROR_CODE_NOT_MEMBER, decodePayload[socket.ErrorPayload](t, errs[0]).Code)
	assert.Empty(t, transport.ofType(t, enums.SOCKET_EVENT_VOTE_SUBSCRIBED))

	env.manager.mu.Lock()
	defer env.manager.mu.Unlock()
	assert.NotContains(t, env.manager.votes.groups, "G")
}

func TestVoteSubscribe_Idempotent(t *testing.T) {
	env := newTestEnv(t)
	env.stores.allow("G", "a")
	a, transport := env.connect(t, "a")

	env.send(t, a, "vote:subscribe", map[string]any{"groupId": "G"})
	env.send(t, a, "vote:subscribe", map[string]any{"groupId": "G"})

	assert.Len(t, transport.ofType(t, enums.SOCKET_EVENT_VOTE_SUBSCRIBED), 2)
	assert.Equal(t, 1.0, testutil.ToFloat64(env.metrics.SubscriptionsActive.WithLabelValues(enums.DOMAIN_VOTE)))

	n, err := env.manager.BroadcastVoteEvent("G", socket.Event{Type: "vote:proposed"})
	require.NoError(t, err)
	assert.Equal(t, 1, n)
}

func TestUnsubscribe_NeedsNoMembership(t *testing.T) {
	env := newTestEnv(t)
	env.stores.allow("G", "a")
	a, transport := env.connect(t, "a")
	env.send(t, a, "vote:subscribe", map[string]any{"groupId": "G"})
	env.send(t, a, "insight:subscribe", map[string]any{"groupId": "G"})

	env.stores.authErr = errors.New("db down")
	env.send(t, a, "vote:unsubscribe", map[string]any{"groupId": "G"})
	env.send(t, a, "insight:unsubscribe", map[string]any{"groupId": "G"})

	assert.Len(t, transport.ofType(t, enums.SOCKET_EVENT_VOTE_UNSUBSCRIBED), 1)
	assert.Len(t, transport.ofType(t, enums.SOCKET_EVENT_INSIGHT_UNSUBSCRIBED), 1)
	assert.Empty(t, transport.ofType(t, enums.SOCKET_EVENT_ERROR))

	env.manager.mu.Lock()
	defer env.manager.mu.Unlock()
	assert.NotContains(t, env.manager.votes.groups, "G")
	assert.NotContains(t, env.manager.insights.groups, "G")
}

func TestInsightAcknowledge(t *testing.T) {
	env := newTestEnv(t)
	a, transport := env.connect(t, "a")

	env.send(t, a, "insight:acknowledge", map[string]any{"insightId": "i1", "groupId": "G"})

	acked := transport.ofType(t, enums.SOCKET_EVENT_INSIGHT_ACKNOWLEDGED)
	require.Len(t, acked, 1)
	assert.Equal(t, socket.InsightAcknowledgedPayload{
		InsightId:      "i1",
		GroupId:        "G",
		AcknowledgedAt: "2024-05-01T10:00:00.000Z",
	}, decodePayload[socket.InsightAcknowledgedPayload](t, acked[0]))
}

func TestInsightAcknowledge_FirstWins(t *testing.T) {
	env := newTestEnv(t)
	a, transport := env.connect(t, "a")

	env.send(t, a, "insight:acknowledge", map[string]any{"insightId": "i1", "groupId": "G"})
	env.clock.Advance(90 * time.Second)
	env.send(t, a, "insight:acknowledge", map[string]any{"insightId": "i1", "groupId": "G"})

	acked := transport.ofType(t, enums.SOCKET_EVENT_INSIGHT_ACKNOWLEDGED)
	require.Len(t, acked, 2)
	first := decodePayload[socket.InsightAcknowledgedPayload](t, acked[0])
	second := decodePayload[socket.InsightAcknowledgedPayload](t, acked[1])
	assert.Equal(t, first.AcknowledgedAt, second.AcknowledgedAt)
}

func TestInsightAcknowledge_Failures(t *testing.T) {
	env := newTestEnv(t)
	a, transport := env.connect(t, "a")

	env.send(t, a, "insight:acknowledge", map[string]any{"insightId": "missing", "groupId": "G"})
	env.stores.ackErr = errors.New("db down")
	env.send(t, a, "insight:acknowledge", map[string]any{"insightId": "i2", "groupId": "G"})

	errs := transport.ofType(t, enums.SOCKET_EVENT_ERROR)
	require.Len(t, errs, 2)
	for _, e := range errs {
		assert.Equal(t, enums.ERROR_CODE_ACK_FAILED, decodePayload[socket.ErrorPayload](t, e).Code)
	}
	assert.Empty(t, transport.ofType(t, enums.SOCKET_EVENT_INSIGHT_ACKNOWLEDGED))
}
