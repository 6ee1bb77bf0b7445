// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

// errNoServices is returned by NewHandlers when it is given no service
// container to route requests to.
var errNoServices = errors.New("no services to handle requests")
