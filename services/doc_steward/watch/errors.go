// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watch

import "errors"

// Sentinel errors for the watch package.
var (
	// ErrNilAnalyzer indicates the orchestrator was built without a
	// change analyzer.
	ErrNilAnalyzer = errors.New("analyzer must not be nil")

	// ErrNilPlanner indicates the orchestrator was built without an
	// update planner.
	ErrNilPlanner = errors.New("planner must not be nil")

	// ErrAlreadyWatching indicates Start was called on a running watcher.
	ErrAlreadyWatching = errors.New("watcher already started")

	// ErrNotWatching indicates Stop was called on a stopped watcher.
	ErrNotWatching = errors.New("watcher not started")
)
