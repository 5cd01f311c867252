// SPDX-License-Identifier: Apache-2.0
// Copyright 2026 Rasul Khiriev

// Package validators checks lesson files and inbound sync frames before the
// lesson hub accepts them.
//
// A Validator may be scoped to named fields, so a caller can check only the
// parts of a value it is about to use.
package validators

import "context"

// Validator validates arbitrary input values.
type Validator interface {

	// Validate validates the provided input and optionally
	// restricts validation to specific named fields.
	Validate(context.Context, any, ...string) error
}
