// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docindex

import "errors"

// Sentinel errors for the docindex package.
var (
	// ErrTextNotFound indicates the substitution target was absent from the file.
	ErrTextNotFound = errors.New("text to replace not found in index file")

	// ErrOutsideRoot indicates a path resolved outside the project root.
	ErrOutsideRoot = errors.New("path escapes the project root")

	// ErrNotIndexFile indicates the path is not a documentation index.
	ErrNotIndexFile = errors.New("path is not a documentation index file")
)
