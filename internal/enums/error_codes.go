package enums

// Error codes carried by outbound error frames
const (
	ERROR_CODE_INVALID_MESSAGE    = "INVALID_MESSAGE"
	ERROR_CODE_NOT_MEMBER         = "NOT_MEMBER"
	ERROR_CODE_NOT_IN_SESSION     = "NOT_IN_SESSION"
	ERROR_CODE_PEER_NOT_FOUND     = "PEER_NOT_FOUND"
	ERROR_CODE_ACK_FAILED         = "ACK_FAILED"
	ERROR_CODE_RATE_LIMITED       = "RATE_LIMITED"
	ERROR_CODE_PROCESSING_FAILURE = "MESSAGE_PROCESSING_ERROR"
)

// Subscription domains
const (
	DOMAIN_VOTE    = "vote"
	DOMAIN_INSIGHT = "insight"
)

// Session kinds
const (
	SESSION_TYPE_VIDEO   = "video"
	SESSION_TYPE_DRAWING = "drawing"
)

// TOKEN_SCOPE_SERVICE marks tokens allowed to inject events over REST.
const TOKEN_SCOPE_SERVICE = "service"

const CLOSE_REASON_SERVER_SHUTDOWN = "Server shutdown"

// CLOSE_CODE_GOING_AWAY is the close status sent to every client on shutdown.
const CLOSE_CODE_GOING_AWAY = 1001
