package errs

import (
	"errors"
	"fmt"

	"github.com/GabrielGomez33/mirror-server-sub002/internal/enums"
)

// SignalError is a handler failure that maps onto an error reply frame.
type SignalError struct {
	Code    string
	Message string
	Err     error
}

func (e *SignalError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Err)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *SignalError) Unwrap() error { return e.Err }

// Validation reports a frame that could not be decoded or failed validation.
func Validation(message string, err error) *SignalError {
	return &SignalError{Code: enums.ERROR_CODE_INVALID_MESSAGE, Message: message, Err: err}
}

// NotMember reports a failed group membership check.
func NotMember(groupId string) *SignalError {
	return &SignalError{
		Code:    enums.ERROR_CODE_NOT_MEMBER,
		Message: fmt.Sprintf("not an active member of group %s", groupId),
	}
}

// NotInSession reports an action that requires a current session.
func NotInSession() *SignalError {
	return &SignalError{Code: enums.ERROR_CODE_NOT_IN_SESSION, Message: "not in a session"}
}

// PeerNotFound reports a relay target without an open connection.
func PeerNotFound(userId string) *SignalError {
	return &SignalError{
		Code:    enums.ERROR_CODE_PEER_NOT_FOUND,
		Message: fmt.Sprintf("peer %s is not connected", userId),
	}
}

// AckFailed reports an insight acknowledgment the store could not record.
func AckFailed(err error) *SignalError {
	return &SignalError{Code: enums.ERROR_CODE_ACK_FAILED, Message: "failed to acknowledge insight", Err: err}
}

// RateLimited reports a frame dropped by the per-connection limiter.
func RateLimited() *SignalError {
	return &SignalError{Code: enums.ERROR_CODE_RATE_LIMITED, Message: "too many messages"}
}

// Processing wraps an unexpected handler or collaborator failure.
func Processing(err error) *SignalError {
	return &SignalError{Code: enums.ERROR_CODE_PROCESSING_FAILURE, Message: "failed to process message", Err: err}
}

// AsSignalError converts any error into a SignalError. Errors that are not
// already classified become processing failures.
func AsSignalError(err error) *SignalError {
	if err == nil {
		return nil
	}
	var se *SignalError
	if errors.As(err, &se) {
		return se
	}
	return Processing(err)
}

// CodeOf returns the wire error code for err.
func CodeOf(err error) string {
	if se := AsSignalError(err); se != nil {
		return se.Code
	}
	return ""
}
