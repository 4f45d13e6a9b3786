// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package impact

import "errors"

// Sentinel errors for the impact package.
var (
	// ErrInvalidInput indicates a required argument is missing or malformed.
	ErrInvalidInput = errors.New("invalid input")

	// ErrNilRegistry indicates the analyzer was constructed without a
	// documentation registry.
	ErrNilRegistry = errors.New("registry must not be nil")
)
