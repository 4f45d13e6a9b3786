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
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestScheduledTask_Fires(t *testing.T) {
	fired := make(chan struct{})
	task := Schedule(5*time.Millisecond, func() { close(fired) })

	select {
	case <-fired:
	case <-time.After(2 * time.Second):
		t.Fatal("task never fired")
	}
	assert.True(t, task.Fired())
	assert.False(t, task.Cancel(), "Cancel after firing must report false")
}

func TestScheduledTask_Cancel(t *testing.T) {
	var calls atomic.Int32
	task := Schedule(20*time.Millisecond, func() { calls.Add(1) })

	require.True(t, task.Cancel(), "Cancel before firing must report true")
	assert.False(t, task.Fired())

	time.Sleep(60 * time.Millisecond)
	assert.Equal(t, int32(0), calls.Load(), "cancelled task must not run")
	assert.False(t, task.Cancel(), "second Cancel must report false")
}

func TestScheduledTask_NilSafe(t *testing.T) {
	var task *ScheduledTask
	assert.False(t, task.Cancel())
	assert.False(t, task.Fired())
}
