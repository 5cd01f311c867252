// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

package handler

import "errors"

var (
	// errNoHandlersAreCreated is returned by NewHandlers when no HTTP address
	// is configured. The server cannot start without a transport.
	errNoHandlersAreCreated = errors.New("no handlers are created")

	// errMissingDependencies is returned when the services or the hub are nil.
	errMissingDependencies = errors.New("handler dependencies are missing")
)
