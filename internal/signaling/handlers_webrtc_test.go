package signaling

import (
	"testing"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/models/socket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestWebRTCOffer_RelayedVerbatim(t *testing.T) {
	env := newTestEnv(t)
	a, aTransport := env.connect(t, "A")
	_, bTransport := env.connect(t, "B")
	aTransport.reset()

	offer := map[string]any{"type": "offer", "sdp": "v=0\r\no=- 1 2 IN IP4 127.0.0.1"}
	env.send(t, a, "webrtc-offer", map[string]any{"targetUserId": "B", "offer": offer})

	relayed := bTransport.ofType(t, enums.SOCKET_EVENT_WEBRTC_OFFER)
	require.Len(t, relayed, 1)
	payload := decodePayload[map[string]any](t, relayed[0])
	assert.Equal(t, "A", payload["fromUserId"])
	assert.Equal(t, offer, payload["offer"])
	assert.Empty(t, aTransport.events(t))
}

func TestWebRTCAnswerAndCandidate_Relayed(t *testing.T) {
	env := newTestEnv(t)
	a, _ := env.connect(t, "A")
	_, bTransport := env.connect(t, "B")

	env.send(t, a, "webrtc-answer", map[string]any{"targetUserId": "B", "answer": map[string]any{"sdp": "x"}})
	env.send(t, a, "webrtc-ice-candidate", map[string]any{"targetUserId": "B", "candidate": map[string]any{"candidate": "c1"}})

	answers := bTransport.ofType(t, enums.SOCKET_EVENT_WEBRTC_ANSWER)
	require.Len(t, answers, 1)
	assert.Equal(t, "A", decodePayload[socket.WebRTCAnswerRelayPayload](t, answers[0]).FromUserId)

	candidates := bTransport.ofType(t, enums.SOCKET_EVENT_WEBRTC_ICE_CANDIDATE)
	require.Len(t, candidates, 1)
	assert.JSONEq(t, `{"candidate":"c1"}`, string(decodePayload[socket.WebRTCIceCandidateRelayPayload](t, candidates[0]).Candidate))
}

func TestWebRTC_UnavailableTarget(t *testing.T) {
	env := newTestEnv(t)
	a, aTransport := env.connect(t, "A")
	_, bTransport := env.connect(t, "B")
	bTransport.Terminate()
	aTransport.reset()

	for _, target := range []string{"B", "nobody"} {
		env.send(t, a, "webrtc-answer", map[string]any{"targetUserId": target, "answer": map[string]any{"sdp": "x"}})
		env.send(t, a, "webrtc-ice-candidate", map[string]any{"targetUserId": target, "candidate": map[string]any{"c": 1}})
	}
	assert.Empty(t, aTransport.events(t), "answers and candidates to unavailable peers are dropped silently")

	env.send(t, a, "webrtc-offer", map[string]any{"targetUserId": "B", "offer": map[string]any{"sdp": "x"}})

	events := aTransport.events(t)
	require.Len(t, events, 1)
	assert.Equal(t, enums.SOCKET_EVENT_ERROR, events[0].Type)
	assert.Equal(t, enums.ERROR_CODE_PEER_NOT_FOUND, decodePayload[socket.ErrorPayload](t, events[0]).Code)
}
