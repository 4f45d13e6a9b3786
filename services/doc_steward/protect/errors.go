// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package protect

import "errors"

// Sentinel errors for the protect package.
var (
	// ErrFileNotFound indicates the target file does not exist.
	ErrFileNotFound = errors.New("file not found")

	// ErrNoBackup indicates no snapshot exists for the path. Distinct
	// from a snapshot that needed nothing restored.
	ErrNoBackup = errors.New("no backup for path")

	// ErrStoreClosed indicates the backup store has been closed.
	ErrStoreClosed = errors.New("backup store closed")
)
