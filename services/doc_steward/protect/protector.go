// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package protect guards critical prose sections in file headers
// against accidental deletion by automated edits.
//
// The protocol is two-phase and caller-driven: snapshot a file's
// critical sections before an edit (Backup), then after the edit check
// whether any protected section vanished and splice the captured text
// back if so (ValidateAndRestore).
package protect

import (
	"context"
	"crypto/sha256"
	"encoding/hex"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ProtectorOptions configures a Protector.
type ProtectorOptions struct {
	// Store persists snapshots. Default: NewMemoryStore().
	Store BackupStore

	// Markers is the marker vocabulary. Default: DefaultMarkerConfig().
	Markers MarkerConfig

	// Logger receives diagnostics. Default: slog.Default().
	Logger *slog.Logger

	// Clock is the snapshot timestamp source. Default: time.Now.
	Clock func() time.Time
}

// DefaultProtectorOptions returns in-memory defaults.
func DefaultProtectorOptions() ProtectorOptions {
	return ProtectorOptions{
		Store:   NewMemoryStore(),
		Markers: DefaultMarkerConfig(),
	}
}

// Protector implements the backup/validate-restore protocol.
//
// # Thread Safety
//
// Safe for concurrent use across distinct paths. Concurrent calls
// against the same path race on the file itself and must be serialized
// by the caller.
type Protector struct {
	store  BackupStore
	parser *Parser
	logger *slog.Logger
	clock  func() time.Time
}

// NewProtector creates a Protector. A nil opts uses defaults.
func NewProtector(opts *ProtectorOptions) *Protector {
	if opts == nil {
		defaults := DefaultProtectorOptions()
		opts = &defaults
	}
	store := opts.Store
	if store == nil {
		store = NewMemoryStore()
	}
	logger := opts.Logger
	if logger == nil {
		logger = slog.Default()
	}
	clock := opts.Clock
	if clock == nil {
		clock = time.Now
	}
	return &Protector{
		store:  store,
		parser: NewParser(opts.Markers),
		logger: logger,
		clock:  clock,
	}
}

// Parser returns the header parser, for callers that only need
// marker-level inspection.
func (p *Protector) Parser() *Parser {
	return p.parser
}

// Backup snapshots the file's critical sections.
//
// # Description
//
// Reads the file, extracts every present critical-section span, and
// stores them with a whole-file sha256 hash under a fresh snapshot ID.
// Any prior snapshot for the path is overwritten. A file with no
// critical sections still gets a (sections-empty) snapshot.
//
// # Outputs
//
//   - error: ErrFileNotFound if the file does not exist; otherwise the
//     read or store failure. Nil on success.
func (p *Protector) Backup(ctx context.Context, path string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		return fmt.Errorf("%w: %s", ErrFileNotFound, path)
	}
	if err != nil {
		return fmt.Errorf("stat %s: %w", path, err)
	}
	if info.IsDir() {
		return fmt.Errorf("%w: %s is a directory", ErrFileNotFound, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read %s: %w", path, err)
	}

	backup := &HeaderBackup{
		ID:          uuid.NewString(),
		Path:        storeKey(path),
		CapturedAt:  p.clock().UTC(),
		ContentHash: hashContent(data),
		Sections:    p.parser.ExtractSections(string(data)),
	}
	if err := p.store.Put(ctx, backup); err != nil {
		return fmt.Errorf("store backup for %s: %w", path, err)
	}

	p.logger.Debug("captured header backup",
		"path", backup.Path, "backup_id", backup.ID, "sections", len(backup.Sections))
	return nil
}

// ValidateAndRestore checks the file against its snapshot and splices
// back any critical section that disappeared.
//
// # Description
//
// Requires a prior Backup for the exact path; without one the result
// is invalid with a "no backup" reason and the error is ErrNoBackup —
// deliberately distinct from "nothing needed restoring". Sections are
// re-extracted with identical marker rules; every category present in
// the snapshot but absent now is deleted. Deleted spans are
// concatenated and inserted immediately before the first restore
// anchor (end of header block as fallback), and the file is rewritten.
// The rewrite is skipped when the spliced content is byte-identical to
// the on-disk file.
//
// Restoration never duplicates a section still present and never
// alters sections that were not deleted.
//
// # Outputs
//
//   - *RestoreResult: Always non-nil. Valid is false whenever
//     restoration was needed or anything failed.
//   - error: ErrNoBackup, or an I/O failure. Nil when the check or the
//     restore completed.
func (p *Protector) ValidateAndRestore(ctx context.Context, path string) (*RestoreResult, error) {
	key := storeKey(path)
	result := &RestoreResult{Path: key}

	if err := ctx.Err(); err != nil {
		result.Reason = err.Error()
		return result, err
	}

	backup, err := p.store.Get(ctx, key)
	if errors.Is(err, ErrNoBackup) {
		result.Reason = "no backup exists for this path"
		return result, fmt.Errorf("%w: %s", ErrNoBackup, key)
	}
	if err != nil {
		result.Reason = fmt.Sprintf("backup lookup failed: %v", err)
		return result, err
	}
	result.BackupID = backup.ID

	data, err := os.ReadFile(path)
	if err != nil {
		result.Reason = fmt.Sprintf("read failed: %v", err)
		return result, fmt.Errorf("read %s: %w", path, err)
	}
	content := string(data)
	current := p.parser.ExtractSections(content)

	for _, cat := range p.parser.Categories() {
		if _, had := backup.Sections[cat.Name]; !had {
			continue
		}
		if _, still := current[cat.Name]; !still {
			result.Deleted = append(result.Deleted, cat.Name)
		}
	}
	if len(result.Deleted) == 0 {
		result.Valid = true
		return result, nil
	}

	lines := splitLines(content)
	insert := p.parser.SpliceLine(lines)

	var block []string
	for _, name := range result.Deleted {
		block = append(block, strings.Split(backup.Sections[name], "\n")...)
		block = append(block, "")
	}

	spliced := make([]string, 0, len(lines)+len(block))
	spliced = append(spliced, lines[:insert]...)
	spliced = append(spliced, block...)
	spliced = append(spliced, lines[insert:]...)
	rewritten := strings.Join(spliced, lineEnding(content))

	if rewritten != content {
		if err := os.WriteFile(path, []byte(rewritten), fileMode(path)); err != nil {
			result.Reason = fmt.Sprintf("restore write failed: %v", err)
			return result, fmt.Errorf("rewrite %s: %w", path, err)
		}
	}
	result.Restored = append(result.Restored, result.Deleted...)
	result.Reason = "critical sections were deleted and have been restored"

	p.logger.Warn("restored deleted critical sections",
		"path", key, "backup_id", backup.ID, "sections", strings.Join(result.Restored, ","))
	return result, nil
}

// QuickValidate reports whether every critical-section category has at
// least one marker phrase present. Backup-free, for project-wide
// health scans; unreadable files report false.
func (p *Protector) QuickValidate(path string) bool {
	data, err := os.ReadFile(path)
	if err != nil {
		return false
	}
	return p.parser.HasAllCategories(string(data))
}

// ClearBackup drops the snapshot for a path.
func (p *Protector) ClearBackup(ctx context.Context, path string) error {
	return p.store.Delete(ctx, storeKey(path))
}

// ClearAll drops every snapshot.
func (p *Protector) ClearAll(ctx context.Context) error {
	return p.store.Clear(ctx)
}

// storeKey canonicalizes a path for snapshot keying, so forward- and
// backslash spellings of the same file share one backup slot.
func storeKey(path string) string {
	return filepath.ToSlash(filepath.Clean(strings.ReplaceAll(path, "\\", "/")))
}

// hashContent returns the sha256 hex digest of the file bytes.
func hashContent(data []byte) string {
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:])
}

// fileMode preserves the file's permission bits across a rewrite.
func fileMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0644
}
