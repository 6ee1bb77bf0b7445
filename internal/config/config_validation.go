// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"
	"net"
)

// validate checks that the merged [ServerConf] can be used to start a server.
func (c *ServerConf) validate() error {
	if c.Address != "" {
		if err := validateAddress(c.Address); err != nil {
			return err
		}
	} else if err := validatePort(c.Server.Port); err != nil {
		return err
	}

	if c.GRPC.Address != "" {
		if err := validateAddress(c.GRPC.Address); err != nil {
			return fmt.Errorf("grpc: %w", err)
		}
	}

	seen := make(map[string]struct{}, len(c.Server.Maps))
	for i, m := range c.Server.Maps {
		if m.Name == "" {
			return fmt.Errorf("%w: maps[%d] has no name", errInvalidMap, i)
		}
		if _, dup := seen[m.Name]; dup {
			return fmt.Errorf("%w: duplicate map %q", errInvalidMap, m.Name)
		}
		seen[m.Name] = struct{}{}
	}

	for name, d := range map[string]Duration{
		"session.token_duration":    c.Session.TokenDuration,
		"session.heartbeat_timeout": c.Session.HeartbeatTimeout,
		"workers.reap_interval":     c.Workers.ReapInterval,
		"workers.flush_interval":    c.Workers.FlushInterval,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s", errInvalidDuration, name)
		}
	}

	return nil
}

// validate checks that the merged [ClientConf] can be used to connect.
func (c *ClientConf) validate() error {
	if c.Address != "" {
		if err := validateAddress(c.Address); err != nil {
			return err
		}
	} else if err := validatePort(c.Client.Port); err != nil {
		return err
	}

	for i, p := range c.Client.Players {
		if p.Name == "" {
			return fmt.Errorf("%w: players[%d] has no name", errInvalidPlayer, i)
		}
	}

	switch c.Backend {
	case BackendTerminal, BackendHeadless:
	default:
		return fmt.Errorf("%w: %q", errInvalidBackend, c.Backend)
	}

	for name, d := range map[string]Duration{
		"retry.interval":     c.Retry.Interval,
		"retry.max_interval": c.Retry.MaxInterval,
		"heartbeat.interval": c.Heartbeat.Interval,
		"request_timeout":    c.RequestTimeout,
	} {
		if d <= 0 {
			return fmt.Errorf("%w: %s", errInvalidDuration, name)
		}
	}

	if c.Retry.MaxAttempts < 0 {
		return fmt.Errorf("%w: max_attempts must not be negative", errInvalidRetry)
	}

	return nil
}

func validateAddress(address string) error {
	_, port, err := net.SplitHostPort(address)
	if err != nil {
		return fmt.Errorf("%w %q: %v", errInvalidAddress, address, err)
	}
	if port == "" {
		return fmt.Errorf("%w %q: missing port", errInvalidAddress, address)
	}
	return nil
}

func validatePort(port int) error {
	if port < 1 || port > 65535 {
		return fmt.Errorf("%w: %d", errInvalidPort, port)
	}
	return nil
}
