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

import "time"

// Category names one critical section and its acceptable marker phrases.
type Category struct {
	// Name identifies the category ("Limitations", "FutureWork", ...).
	Name string `json:"name"`

	// Markers is the ordered list of acceptable marker phrases; the
	// first phrase found in a header wins.
	Markers []string `json:"markers"`
}

// HeaderBackup is one stored snapshot of a file's critical sections.
//
// One backup exists per path at a time: a new snapshot overwrites any
// prior one. This is deliberately not a history stack.
type HeaderBackup struct {
	// ID is the snapshot identifier (uuid).
	ID string `json:"id"`

	// Path is the file the snapshot was taken from.
	Path string `json:"path"`

	// CapturedAt is when the snapshot was taken.
	CapturedAt time.Time `json:"captured_at"`

	// ContentHash is the sha256 hex digest of the whole file at
	// capture time.
	ContentHash string `json:"content_hash"`

	// Sections maps category name to the captured raw text span.
	// Only categories actually present at capture time appear.
	Sections map[string]string `json:"sections"`
}

// clone returns a deep copy so callers cannot mutate stored state.
func (b *HeaderBackup) clone() *HeaderBackup {
	if b == nil {
		return nil
	}
	out := *b
	out.Sections = make(map[string]string, len(b.Sections))
	for k, v := range b.Sections {
		out.Sections[k] = v
	}
	return &out
}

// RestoreResult reports the outcome of a validate-and-restore pass.
type RestoreResult struct {
	// Valid is true only when nothing needed restoring.
	Valid bool `json:"valid"`

	// Reason explains an invalid result.
	Reason string `json:"reason,omitempty"`

	// Path is the file that was checked.
	Path string `json:"path"`

	// BackupID is the snapshot consulted, when one existed.
	BackupID string `json:"backup_id,omitempty"`

	// Deleted lists categories present in the backup but missing from
	// the current file.
	Deleted []string `json:"deleted,omitempty"`

	// Restored lists categories spliced back into the file.
	Restored []string `json:"restored,omitempty"`
}
