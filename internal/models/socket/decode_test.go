package socket

import (
	"encoding/json"
	"testing"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
	"github.com/GabrielGomez33/mirror-server-sub002/internal/errs"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_JoinSession(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"join-session","payload":{"groupId":"G1","sessionType":"video","metadata":{"camera":true}}}`))
	require.NoError(t, err)
	require.True(t, msg.Known())

	payload, ok := msg.Payload.(*JoinSessionPayload)
	require.True(t, ok)
	assert.Equal(t, "G1", payload.GroupId)
	assert.Equal(t, "video", payload.SessionType)
	assert.Equal(t, true, payload.Metadata["camera"])
}

func TestDecode_InvalidFrames(t *testing.T) {
	tests := []struct {
		name  string
		frame string
	}{
		{"not json", `hello`},
		{"missing type", `{"payload":{}}`},
		{"blank type", `{"type":"  "}`},
		{"join without group", `{"type":"join-session","payload":{"sessionType":"video"}}`},
		{"join without payload", `{"type":"join-session"}`},
		{"offer without target", `{"type":"webrtc-offer","payload":{"offer":{"sdp":"x"}}}`},
		{"offer with null blob", `{"type":"webrtc-offer","payload":{"targetUserId":"u2","offer":null}}`},
		{"answer without blob", `{"type":"webrtc-answer","payload":{"targetUserId":"u2"}}`},
		{"ack without insight", `{"type":"insight:acknowledge","payload":{"groupId":"G1"}}`},
		{"drawing not an object", `{"type":"drawing-action","payload":[1,2,3]}`},
		{"group id wrong type", `{"type":"vote:subscribe","payload":{"groupId":42}}`},
		{"separator in group id", `{"type":"join-session","payload":{"groupId":"G:secret","sessionType":"video"}}`},
		{"separator in session type", `{"type":"join-session","payload":{"groupId":"G","sessionType":"secret:video"}}`},
		{"separator in subscribed group", `{"type":"insight:subscribe","payload":{"groupId":"G:secret"}}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			msg, err := Decode([]byte(tt.frame))
			require.Error(t, err)
			assert.Nil(t, msg)
			assert.Equal(t, enums.ERROR_CODE_INVALID_MESSAGE, errs.CodeOf(err))
		})
	}
}

func TestDecode_UnknownTypeIsNotAnError(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"future-kind","payload":{"x":1}}`))
	require.NoError(t, err)
	assert.False(t, msg.Known())
	assert.Equal(t, "future-kind", msg.Type)
}

func TestDecode_PayloadlessKinds(t *testing.T) {
	for _, frame := range []string{`{"type":"ping"}`, `{"type":"leave-session","payload":{}}`, `{"type":"ping","payload":null}`} {
		msg, err := Decode([]byte(frame))
		require.NoError(t, err, frame)
		assert.True(t, msg.Known())
	}
}

func TestDecode_DrawingActionDefaultsToEmptyObject(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"drawing-action"}`))
	require.NoError(t, err)

	payload, ok := msg.Payload.(*DrawingActionPayload)
	require.True(t, ok)
	assert.NotNil(t, *payload)
	assert.Empty(t, *payload)
}

func TestDecode_RelayBlobKeptVerbatim(t *testing.T) {
	msg, err := Decode([]byte(`{"type":"webrtc-offer","payload":{"targetUserId":"B","offer":{"type":"offer","sdp":"v=0"}}}`))
	require.NoError(t, err)

	payload := msg.Payload.(*WebRTCOfferPayload)
	assert.Equal(t, "B", payload.TargetUserId)
	assert.JSONEq(t, `{"type":"offer","sdp":"v=0"}`, string(payload.Offer))
}

func TestEncode(t *testing.T) {
	data, err := Encode(enums.SOCKET_EVENT_PONG, PongPayload{Timestamp: 1700000000000})
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"pong","payload":{"timestamp":1700000000000}}`, string(data))

	data, err = Encode(enums.SOCKET_EVENT_SESSION_LEFT, nil)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"session-left","payload":{}}`, string(data))
}

func TestEncodeEvent_PassesPayloadThrough(t *testing.T) {
	event := Event{Type: enums.SOCKET_EVENT_VOTE_CAST, Payload: json.RawMessage(`{"voteId":"v1","choice":"yes"}`)}
	data, err := EncodeEvent(event)
	require.NoError(t, err)
	assert.JSONEq(t, `{"type":"vote:cast","payload":{"voteId":"v1","choice":"yes"}}`, string(data))
}

func TestValidateEvent(t *testing.T) {
	assert.NoError(t, ValidateEvent(Event{Type: "vote:cast", Payload: json.RawMessage(`{}`)}))
	assert.NoError(t, ValidateEvent(Event{Type: "vote:cast"}))
	assert.Error(t, ValidateEvent(Event{Payload: json.RawMessage(`{}`)}))
	assert.Error(t, ValidateEvent(Event{Type: "vote:cast", Payload: json.RawMessage(`{broken`)}))
}
