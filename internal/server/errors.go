// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package server

import "errors"

var (
	// ErrAlreadyListening is returned by Listen while the server is listening.
	ErrAlreadyListening = errors.New("server is already listening")

	// ErrServerClosed is returned by Listen after the server has stopped.
	// A server listens at most once.
	ErrServerClosed = errors.New("server closed")
)
