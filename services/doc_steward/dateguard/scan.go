// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package dateguard

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strings"
	"sync"

	"github.com/bmatcuk/doublestar/v4"
	"golang.org/x/sync/errgroup"
)

// DefaultScanExtensions limits project scans to text-bearing files.
var DefaultScanExtensions = []string{
	".md", ".txt", ".cs", ".go", ".py", ".js", ".ts", ".yaml", ".yml", ".json",
}

// maxConcurrentScans bounds parallel file reads during a project scan.
const maxConcurrentScans = 8

// scanPattern locates date-shaped substrings anywhere in a line.
var scanPattern = regexp.MustCompile(`\d{4}-\d{2}-\d{2}`)

// ScanProject locates every date-shaped literal under root and validates
// each one.
//
// # Description
//
// The tree is walked once collecting candidate files (extension
// allowlist, ignore globs), then files are read and checked concurrently.
// Unreadable files are recorded in the report and skipped; a single bad
// file never aborts the scan. Findings are ordered by file then line.
//
// # Inputs
//
//   - ctx: Context for cancellation.
//   - root: Project root directory.
//
// # Outputs
//
//   - *ScanReport: Findings, aggregate counts, per-file errors.
//   - error: Non-nil only for an unusable root or cancelled context.
func (g *Guard) ScanProject(ctx context.Context, root string) (*ScanReport, error) {
	if root == "" {
		return nil, fmt.Errorf("scan root is required")
	}
	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("scan root: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("scan root %s is not a directory", root)
	}

	report := &ScanReport{}
	var candidates []string

	err = filepath.WalkDir(root, func(p string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if walkErr != nil {
			report.Errors = append(report.Errors, ScanError{File: rel, Message: walkErr.Error()})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if rel != "." && g.ignoredPath(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}
		if g.ignoredPath(rel) {
			return nil
		}
		ext := strings.ToLower(filepath.Ext(rel))
		if _, ok := g.scanExts[ext]; !ok {
			return nil
		}
		candidates = append(candidates, rel)
		return nil
	})
	if err != nil {
		return nil, err
	}

	var mu sync.Mutex
	eg, egCtx := errgroup.WithContext(ctx)
	eg.SetLimit(maxConcurrentScans)

	for _, rel := range candidates {
		rel := rel
		eg.Go(func() error {
			if err := egCtx.Err(); err != nil {
				return err
			}

			findings, readErr := g.scanFile(root, rel)

			mu.Lock()
			defer mu.Unlock()
			if readErr != nil {
				report.Errors = append(report.Errors, ScanError{File: rel, Message: readErr.Error()})
				return nil
			}
			report.FilesScanned++
			report.Findings = append(report.Findings, findings...)
			return nil
		})
	}
	if err := eg.Wait(); err != nil {
		return nil, err
	}

	// Stable so same-line findings keep their in-file order.
	sort.SliceStable(report.Findings, func(i, j int) bool {
		if report.Findings[i].File != report.Findings[j].File {
			return report.Findings[i].File < report.Findings[j].File
		}
		return report.Findings[i].Line < report.Findings[j].Line
	})
	sort.Slice(report.Errors, func(i, j int) bool {
		return report.Errors[i].File < report.Errors[j].File
	})

	for _, f := range report.Findings {
		report.DatesChecked++
		if !f.Result.Valid {
			report.InvalidCount++
		}
	}
	return report, nil
}

// scanFile reads one file and validates every date-shaped substring.
func (g *Guard) scanFile(root, rel string) ([]Finding, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}

	var findings []Finding
	for i, line := range strings.Split(string(data), "\n") {
		for _, match := range scanPattern.FindAllString(line, -1) {
			findings = append(findings, Finding{
				File:   rel,
				Line:   i + 1,
				Value:  match,
				Result: g.Validate(match),
			})
		}
	}
	return findings, nil
}

// ignoredPath reports whether rel matches any configured ignore glob.
func (g *Guard) ignoredPath(rel string) bool {
	for _, pattern := range g.ignoreGlobs {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
