package client

import "errors"

var (
	ErrNotConnected     = errors.New("client is not connected")
	ErrAlreadyConnected = errors.New("client is already connected")
	ErrUnknownBackend   = errors.New("unknown client backend")
	ErrJoinRejected     = errors.New("join rejected")
	ErrUnexpectedReply  = errors.New("unexpected reply")
)
