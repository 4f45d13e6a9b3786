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
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"os"

	"github.com/dgraph-io/badger/v4"
)

// backupKeyPrefix namespaces snapshot keys inside the database.
const backupKeyPrefix = "backup:"

// BadgerConfig holds configuration for the durable backup store.
type BadgerConfig struct {
	// Dir is the database directory. Required unless InMemory is true.
	Dir string

	// InMemory enables in-memory mode (no disk persistence).
	// Useful for testing.
	InMemory bool

	// SyncWrites enables synchronous writes for durability.
	SyncWrites bool

	// Logger receives BadgerDB's internal log output. If nil,
	// BadgerDB's internal logging is disabled.
	Logger *slog.Logger
}

// DefaultBadgerConfig returns production defaults for a directory.
func DefaultBadgerConfig(dir string) BadgerConfig {
	return BadgerConfig{Dir: dir, SyncWrites: true}
}

// InMemoryBadgerConfig returns a configuration for tests: no disk I/O,
// no sync overhead.
func InMemoryBadgerConfig() BadgerConfig {
	return BadgerConfig{InMemory: true}
}

// badgerLogger adapts slog.Logger to BadgerDB's Logger interface.
type badgerLogger struct {
	logger *slog.Logger
}

func (l *badgerLogger) Errorf(format string, args ...interface{}) {
	l.logger.Error(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Warningf(format string, args ...interface{}) {
	l.logger.Warn(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Infof(format string, args ...interface{}) {
	l.logger.Info(fmt.Sprintf(format, args...))
}

func (l *badgerLogger) Debugf(format string, args ...interface{}) {
	l.logger.Debug(fmt.Sprintf(format, args...))
}

// BadgerStore is the durable BackupStore: snapshots survive process
// restarts, so a crash between Backup and ValidateAndRestore does not
// lose protection.
//
// Values are JSON-encoded HeaderBackup records under `backup:`-prefixed
// keys.
//
// # Thread Safety
//
// Safe for concurrent use; BadgerDB provides transactional isolation.
type BadgerStore struct {
	db *badger.DB
}

// NewBadgerStore opens the database and returns a ready store.
// Caller must Close() when done.
func NewBadgerStore(cfg BadgerConfig) (*BadgerStore, error) {
	if !cfg.InMemory && cfg.Dir == "" {
		return nil, errors.New("dir is required for persistent backup store")
	}

	var opts badger.Options
	if cfg.InMemory {
		opts = badger.DefaultOptions("").WithInMemory(true)
	} else {
		if err := os.MkdirAll(cfg.Dir, 0750); err != nil {
			return nil, fmt.Errorf("create backup store directory %s: %w", cfg.Dir, err)
		}
		opts = badger.DefaultOptions(cfg.Dir)
	}
	opts = opts.WithSyncWrites(cfg.SyncWrites)
	opts = opts.WithNumVersionsToKeep(1)

	if cfg.Logger != nil {
		opts = opts.WithLogger(&badgerLogger{logger: cfg.Logger})
	} else {
		opts = opts.WithLogger(nil)
	}

	db, err := badger.Open(opts)
	if err != nil {
		return nil, fmt.Errorf("open backup store: %w", err)
	}
	return &BadgerStore{db: db}, nil
}

// Close releases the database. Further calls return ErrStoreClosed.
func (s *BadgerStore) Close() error {
	return s.db.Close()
}

// Put stores a snapshot, overwriting any prior one for the path.
func (s *BadgerStore) Put(ctx context.Context, backup *HeaderBackup) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	data, err := json.Marshal(backup)
	if err != nil {
		return fmt.Errorf("encode backup for %s: %w", backup.Path, err)
	}
	err = s.db.Update(func(txn *badger.Txn) error {
		return txn.Set(backupKey(backup.Path), data)
	})
	return s.mapDBErr(err)
}

// Get returns the snapshot for a path, or ErrNoBackup.
func (s *BadgerStore) Get(ctx context.Context, path string) (*HeaderBackup, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	var backup HeaderBackup
	err := s.db.View(func(txn *badger.Txn) error {
		item, err := txn.Get(backupKey(path))
		if err != nil {
			return err
		}
		return item.Value(func(val []byte) error {
			return json.Unmarshal(val, &backup)
		})
	})
	if errors.Is(err, badger.ErrKeyNotFound) {
		return nil, ErrNoBackup
	}
	if err != nil {
		return nil, s.mapDBErr(err)
	}
	return &backup, nil
}

// Delete drops the snapshot for a path. Missing paths are a no-op.
func (s *BadgerStore) Delete(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	err := s.db.Update(func(txn *badger.Txn) error {
		return txn.Delete(backupKey(path))
	})
	return s.mapDBErr(err)
}

// Clear drops every snapshot.
func (s *BadgerStore) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	return s.mapDBErr(s.db.DropPrefix([]byte(backupKeyPrefix)))
}

// Len counts stored snapshots by prefix iteration.
func (s *BadgerStore) Len(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}
	count := 0
	err := s.db.View(func(txn *badger.Txn) error {
		opts := badger.DefaultIteratorOptions
		opts.PrefetchValues = false
		it := txn.NewIterator(opts)
		defer it.Close()

		prefix := []byte(backupKeyPrefix)
		for it.Seek(prefix); it.ValidForPrefix(prefix); it.Next() {
			count++
		}
		return nil
	})
	if err != nil {
		return 0, s.mapDBErr(err)
	}
	return count, nil
}

// mapDBErr folds the closed-database condition onto ErrStoreClosed.
func (s *BadgerStore) mapDBErr(err error) error {
	if errors.Is(err, badger.ErrDBClosed) {
		return ErrStoreClosed
	}
	return err
}

func backupKey(path string) []byte {
	return []byte(backupKeyPrefix + path)
}

var _ BackupStore = (*BadgerStore)(nil)
