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

import (
	"context"
	"sync"
)

// BackupStore persists header snapshots keyed by file path.
//
// Put overwrites any prior snapshot for the same path. Get returns
// ErrNoBackup when no snapshot exists.
type BackupStore interface {
	Put(ctx context.Context, backup *HeaderBackup) error
	Get(ctx context.Context, path string) (*HeaderBackup, error)
	Delete(ctx context.Context, path string) error
	Clear(ctx context.Context) error
	Len(ctx context.Context) (int, error)
}

// MemoryStore is the in-memory reference BackupStore.
//
// # Thread Safety
//
// Safe for concurrent use. A single coarse mutex is enough here:
// snapshots are small and operations are map lookups.
type MemoryStore struct {
	mu      sync.RWMutex
	backups map[string]*HeaderBackup
}

// NewMemoryStore creates an empty in-memory store.
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{backups: make(map[string]*HeaderBackup)}
}

// Put stores a snapshot, overwriting any prior one for the path.
func (s *MemoryStore) Put(ctx context.Context, backup *HeaderBackup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backups[backup.Path] = backup.clone()
	return nil
}

// Get returns the snapshot for a path, or ErrNoBackup.
func (s *MemoryStore) Get(ctx context.Context, path string) (*HeaderBackup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	backup, ok := s.backups[path]
	if !ok {
		return nil, ErrNoBackup
	}
	return backup.clone(), nil
}

// Delete drops the snapshot for a path. Missing paths are a no-op.
func (s *MemoryStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.backups, path)
	return nil
}

// Clear drops every snapshot.
func (s *MemoryStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.backups = make(map[string]*HeaderBackup)
	return nil
}

// Len returns the number of stored snapshots.
func (s *MemoryStore) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.backups), nil
}

var _ BackupStore = (*MemoryStore)(nil)
