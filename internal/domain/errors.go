package domain

import (
	"errors"
	"strings"
)

// Common errors used throughout the application.
var (
	ErrNotFound     = errors.New("not found")
	ErrInvalidInput = errors.New("invalid input")
	ErrUnauthorized = errors.New("unauthorized")

	// ErrInvalidStack is returned when the oracle does not recognise the
	// free-text input as a development tech stack.
	ErrInvalidStack = errors.New("invalid input. Please provide a valid tech stack")

	// ErrUpstream wraps every failure of the AI text oracle.
	ErrUpstream = errors.New("upstream error")

	// ErrFormat is returned when an oracle answer cannot be parsed into the
	// expected shape.
	ErrFormat = errors.New("format error")
)

// Messages shown to users for the errors above.
const (
	MsgInvalidStack        = "Invalid input. Please provide a valid tech stack."
	MsgMissingFields       = "Stack or OS selection missing."
	MsgPopularStacksFailed = "Failed to fetch popular stacks"
	MsgSaveFailed          = "Failed to save stack"
	MsgFetchFailed         = "Failed to fetch stacks"
	MsgDeleteFailed        = "Failed to delete stack"
)

// ErrorResponse is the JSON body of every API error.
type ErrorResponse struct {
	Error string `json:"error"`
}

// UpstreamMessage returns the oracle's own message from an ErrUpstream chain,
// without the sentinel prefix. Other errors are returned as is.
func UpstreamMessage(err error) string {
	msg := err.Error()
	prefix := ErrUpstream.Error() + ": "
	if i := strings.LastIndex(msg, prefix); i >= 0 && errors.Is(err, ErrUpstream) {
		return msg[i+len(prefix):]
	}
	return msg
}
