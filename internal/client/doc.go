// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package client implements the Hostile Planets game client.
//
// A [Client] connects to a server in the background with retry and backoff,
// keeps the session alive with pings, reconnects when the session is lost,
// and publishes what happens on the session as [models.Event] values that
// the main loop started by [Client.Run] consumes.
package client
