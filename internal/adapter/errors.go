package adapter

import (
	"errors"
	"fmt"
)

var (
	ErrBadRequest          = errors.New("bad request")
	ErrNotFound            = errors.New("not found")
	ErrInternalServerError = errors.New("internal server error")

	// ErrSessionClosed is returned once a session has been closed by either
	// side.
	ErrSessionClosed = errors.New("session closed")
)

// CloseError reports that the server ended the session with a close frame.
type CloseError struct {
	Code   int
	Reason string
}

func (e *CloseError) Error() string {
	return fmt.Sprintf("session closed by server (%d): %s", e.Code, e.Reason)
}

func (e *CloseError) Unwrap() error {
	return ErrSessionClosed
}
