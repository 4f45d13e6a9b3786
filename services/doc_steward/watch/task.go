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

import (
	"sync"
	"time"
)

// ScheduledTask is a one-shot delayed function with reliable
// cancellation semantics: exactly one of "fired" or "cancelled" ever
// holds, and Cancel reports which way the race went.
//
// # Thread Safety
//
// Safe for concurrent use.
type ScheduledTask struct {
	mu        sync.Mutex
	timer     *time.Timer
	cancelled bool
	fired     bool
}

// Schedule runs fn once after d on its own goroutine.
func Schedule(d time.Duration, fn func()) *ScheduledTask {
	t := &ScheduledTask{}
	t.timer = time.AfterFunc(d, func() {
		t.mu.Lock()
		if t.cancelled {
			t.mu.Unlock()
			return
		}
		t.fired = true
		t.mu.Unlock()
		fn()
	})
	return t
}

// Cancel prevents the task from firing.
//
// # Outputs
//
//   - bool: True when the task was stopped before it fired; false when
//     it already fired or was already cancelled.
func (t *ScheduledTask) Cancel() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.cancelled || t.fired {
		return false
	}
	t.cancelled = true
	t.timer.Stop()
	return true
}

// Fired reports whether the task's function ran (or is running).
func (t *ScheduledTask) Fired() bool {
	if t == nil {
		return false
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.fired
}
