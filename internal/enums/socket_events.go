package enums

// Inbound socket events
const (
	SOCKET_EVENT_JOIN_SESSION         = "join-session"
	SOCKET_EVENT_LEAVE_SESSION        = "leave-session"
	SOCKET_EVENT_WEBRTC_OFFER         = "webrtc-offer"
	SOCKET_EVENT_WEBRTC_ANSWER        = "webrtc-answer"
	SOCKET_EVENT_WEBRTC_ICE_CANDIDATE = "webrtc-ice-candidate"
	SOCKET_EVENT_DRAWING_ACTION       = "drawing-action"
	SOCKET_EVENT_VOTE_SUBSCRIBE       = "vote:subscribe"
	SOCKET_EVENT_VOTE_UNSUBSCRIBE     = "vote:unsubscribe"
	SOCKET_EVENT_INSIGHT_SUBSCRIBE    = "insight:subscribe"
	SOCKET_EVENT_INSIGHT_UNSUBSCRIBE  = "insight:unsubscribe"
	SOCKET_EVENT_INSIGHT_ACKNOWLEDGE  = "insight:acknowledge"
	SOCKET_EVENT_PING                 = "ping"
)

// Outbound socket events
const (
	SOCKET_EVENT_CONNECTION_ESTABLISHED = "connection-established"
	SOCKET_EVENT_SESSION_JOINED         = "session-joined"
	SOCKET_EVENT_SESSION_LEFT           = "session-left"
	SOCKET_EVENT_USER_JOINED            = "user-joined"
	SOCKET_EVENT_USER_LEFT              = "user-left"
	SOCKET_EVENT_VOTE_SUBSCRIBED        = "vote:subscribed"
	SOCKET_EVENT_VOTE_UNSUBSCRIBED      = "vote:unsubscribed"
	SOCKET_EVENT_VOTE_PROPOSED          = "vote:proposed"
	SOCKET_EVENT_VOTE_CAST              = "vote:cast"
	SOCKET_EVENT_VOTE_COMPLETED         = "vote:completed"
	SOCKET_EVENT_VOTE_CANCELLED         = "vote:cancelled"
	SOCKET_EVENT_INSIGHT_SUBSCRIBED     = "insight:subscribed"
	SOCKET_EVENT_INSIGHT_UNSUBSCRIBED   = "insight:unsubscribed"
	SOCKET_EVENT_INSIGHT_ACKNOWLEDGED   = "insight:acknowledged"
	SOCKET_EVENT_CONVERSATION_INSIGHT   = "conversation:insight"
	SOCKET_EVENT_CONVERSATION_SUMMARY   = "conversation:summary"
	SOCKET_EVENT_PONG                   = "pong"
	SOCKET_EVENT_ERROR                  = "error"
)

// VoteEvents are the kinds an external caller may fan out to vote subscribers.
var VoteEvents = []string{
	SOCKET_EVENT_VOTE_PROPOSED,
	SOCKET_EVENT_VOTE_CAST,
	SOCKET_EVENT_VOTE_COMPLETED,
	SOCKET_EVENT_VOTE_CANCELLED,
}

// InsightEvents are the kinds an external caller may fan out to insight subscribers.
var InsightEvents = []string{
	SOCKET_EVENT_CONVERSATION_INSIGHT,
	SOCKET_EVENT_CONVERSATION_SUMMARY,
}
