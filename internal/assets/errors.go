package assets

import "errors"

var (
	ErrModelNotFound = errors.New("model file not found")
	ErrInvalidModel  = errors.New("invalid glTF document")
)
