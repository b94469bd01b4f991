package errs

type Error string

func (e Error) Error() string { return string(e) }

const (
	ErrInvalidRequestBody   = Error("invalid request body")
	ErrInvalidRequest       = Error("invalid request")
	ErrInvalidParams        = Error("invalid params")
	ErrUnauthorized         = Error("unauthorized")
	ErrForbidden            = Error("forbidden")
	ErrInvalidToken         = Error("invalid token")
	ErrInvalidUser          = Error("invalid user")
	ErrRecordNotFound       = Error("record not found")
	ErrUnsupportedEventType = Error("unsupported event type")
	ErrUserNotConnected     = Error("user not connected")
	ErrManagerStopped       = Error("signaling manager stopped")
	ErrEmptyGroupId         = Error("group id is empty")
	ErrTransportClosed      = Error("transport closed")
	ErrSendBufferFull       = Error("send buffer full")
)
