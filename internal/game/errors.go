package game

import "errors"

var (
	ErrInvalidName    = errors.New("invalid name")
	ErrNameInUse      = errors.New("name in use")
	ErrNotJoined      = errors.New("player is not joined")
	ErrPlayerNotFound = errors.New("player not found")
)
