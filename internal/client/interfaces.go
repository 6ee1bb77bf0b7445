// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package client

import "context"

// mainLoop is a client front end. Run blocks until the user quits or ctx
// is done.
type mainLoop interface {
	Run(ctx context.Context) error
}
