// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package config

import (
	"fmt"

	"github.com/caarlos0/env/v11"
)

const (
	serverEnvPrefix = "HP_SERVER_"
	clientEnvPrefix = "HP_CLIENT_"
)

// parseEnv populates cfg from environment variables using the caarlos0/env
// library. Struct fields are mapped via their `env` and `envPrefix` tags,
// all of them below prefix.
//
// Returns a wrapped error if a value cannot be converted to the target type.
func parseEnv(cfg any, prefix string) error {
	err := env.ParseWithOptions(cfg, env.Options{Prefix: prefix})
	if err != nil {
		return fmt.Errorf("error getting env configs: %w", err)
	}

	return nil
}
