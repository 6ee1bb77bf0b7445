// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package http

import "errors"

var (
	// ErrSessionClosed is returned by Send on a session that is closing.
	ErrSessionClosed = errors.New("session closed")

	// ErrSendBufferFull is returned by Send when the peer does not keep up.
	// The session is closed.
	ErrSendBufferFull = errors.New("session send buffer full")

	errHijackUnsupported = errors.New("response writer does not support hijacking")
)
