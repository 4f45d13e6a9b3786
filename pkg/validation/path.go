// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package validation provides input validation utilities for filesystem-critical operations.
//
// This package contains validators for caller-provided inputs that are used in
// file reads, in-place rewrites, and documentation-index lookups. Using these
// validators prevents path traversal escapes and malformed module identifiers
// from reaching filesystem code.
package validation

import (
	"fmt"
	"path"
	"regexp"
	"strings"
)

// modulePattern matches valid module directory names.
// Allows: leading letter, then letters, digits, dots, underscores, hyphens.
// Max length: 64 characters (covers every module layout we index).
var modulePattern = regexp.MustCompile(`^[A-Za-z][A-Za-z0-9_.\-]{0,63}$`)

// drivePattern matches Windows drive-rooted paths after slash normalization.
var drivePattern = regexp.MustCompile(`^[A-Za-z]:/`)

// NormalizeRelPath converts a changed-file path into canonical slash form.
//
// Both separator styles are accepted: backslashes are rewritten to forward
// slashes before cleaning, so "Services\Lookup\Client.cs" and
// "Services/Lookup/Client.cs" normalize identically. A leading "./" is
// removed; the empty string normalizes to ".".
//
// Example:
//
//	rel := validation.NormalizeRelPath(`Services\Lookup\Client.cs`)
//	// rel == "Services/Lookup/Client.cs"
func NormalizeRelPath(p string) string {
	unified := strings.ReplaceAll(p, `\`, "/")
	return path.Clean(unified)
}

// ValidateRelPath validates a project-relative file path.
//
// Valid paths:
//   - non-empty
//   - no NUL bytes
//   - not rooted (neither "/..." nor a Windows drive prefix)
//   - do not escape the project root via ".." segments
//
// Returns an error if the path is invalid.
//
// Example:
//
//	if err := validation.ValidateRelPath(rel); err != nil {
//	    return fmt.Errorf("invalid changed path: %w", err)
//	}
//	// Safe to join under the project root
func ValidateRelPath(p string) error {
	if strings.TrimSpace(p) == "" {
		return fmt.Errorf("path cannot be empty")
	}
	if strings.ContainsRune(p, 0) {
		return fmt.Errorf("path contains NUL byte")
	}

	cleaned := NormalizeRelPath(p)
	if path.IsAbs(cleaned) || drivePattern.MatchString(cleaned) {
		return fmt.Errorf("path must be project-relative: %q", p)
	}
	if cleaned == ".." || strings.HasPrefix(cleaned, "../") {
		return fmt.Errorf("path escapes the project root: %q", p)
	}

	return nil
}

// SanitizeModuleName normalizes and validates a module directory name.
// Returns the trimmed name if valid, or an error if invalid.
//
// Use this before deriving summary-document paths from caller input:
//
//	safe, err := validation.SanitizeModuleName(name)
//	if err != nil {
//	    return err
//	}
//	// safe is validated; case is preserved for display
func SanitizeModuleName(name string) (string, error) {
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return "", fmt.Errorf("module name cannot be empty")
	}
	if !modulePattern.MatchString(trimmed) {
		return "", fmt.Errorf("invalid module name: %q (must be 1-64 chars, letter first, then letters, digits, dots, underscores, or hyphens)", trimmed)
	}
	return trimmed, nil
}
