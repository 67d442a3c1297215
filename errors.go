package googlestt

import (
	"errors"
	"fmt"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
)

type ErrorStatus string

const (
	ErrorStatusCredential   ErrorStatus = "credential_error"
	ErrorStatusChannel      ErrorStatus = "channel_error"
	ErrorStatusStart        ErrorStatus = "start_error"
	ErrorStatusWrite        ErrorStatus = "write_error"
	ErrorStatusConfig       ErrorStatus = "config_error"
	ErrorStatusInvalidState ErrorStatus = "invalid_state"
	ErrorStatusUnsupported  ErrorStatus = "unsupported"
)

type Error struct {
	Status  ErrorStatus
	Message string
	Code    *codes.Code
	Cause   error
}

func (e *Error) Error() string {
	if e.Code != nil {
		return fmt.Sprintf("googlestt: %s (code=%s): %s", e.Status, e.Code.String(), e.Message)
	}
	return fmt.Sprintf("googlestt: %s: %s", e.Status, e.Message)
}

func (e *Error) Unwrap() error {
	return e.Cause
}

func NewError(errStatus ErrorStatus, message string) *Error {
	return &Error{
		Status:  errStatus,
		Message: message,
	}
}

func NewErrorWithCause(errStatus ErrorStatus, message string, cause error) *Error {
	e := &Error{
		Status:  errStatus,
		Message: message,
		Cause:   cause,
	}
	if st, ok := status.FromError(cause); ok && st.Code() != codes.OK {
		code := st.Code()
		e.Code = &code
	}
	return e
}

func IsErrorStatus(err error, errStatus ErrorStatus) bool {
	var sttErr *Error
	if errors.As(err, &sttErr) {
		return sttErr.Status == errStatus
	}
	return false
}

var (
	ErrSessionNotReady     = NewError(ErrorStatusInvalidState, "session is not ready")
	ErrSessionNotStreaming = NewError(ErrorStatusInvalidState, "session is not streaming")
	ErrSessionTerminal     = NewError(ErrorStatusInvalidState, "session has terminated")
	ErrEngineClosed        = NewError(ErrorStatusInvalidState, "engine is closed")
	ErrUnsupportedSetting  = NewError(ErrorStatusUnsupported, "setting is not supported")
)
