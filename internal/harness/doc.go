// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package harness runs the launch sequences of the server, client and
// launcher binaries: it builds the handles from their configuration files,
// starts blocking calls in the background where needed and prints
// diagnostics.
//
// Background units are goroutines tied to the context of the script. The
// script does not wait for them before returning, but returning cancels
// their context.
package harness
