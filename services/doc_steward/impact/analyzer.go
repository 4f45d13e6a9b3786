// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package impact maps source-code change sets onto the documentation
// that must follow them.
package impact

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/AleutianAI/DocSteward/pkg/validation"
	"github.com/AleutianAI/DocSteward/services/doc_steward/docindex"
)

// IndexAdvisor supplies the documentation-index files a change affects.
// The rule engine implements this; the analyzer only consumes the
// decision, keeping rule dispatch out of this package.
type IndexAdvisor interface {
	AffectedIndexes(ctx context.Context, changedFile string) ([]string, error)
}

// Config carries the project constants the analyzer works from.
type Config struct {
	// Root is the project root directory. Required.
	Root string

	// Modules is the recognized module set (first path segment,
	// case-insensitive).
	Modules []string

	// ToolingModule is the module holding build/ops tooling.
	ToolingModule string

	// CoreKeywords mark high-importance files in change descriptions.
	CoreKeywords []string

	// SourceExtensions is the recognized code-extension subset.
	SourceExtensions []string

	// ExtensionClasses maps extensions to human-readable classes.
	ExtensionClasses map[string]string

	// DocsDir is the documentation root (project-relative).
	DocsDir string

	// ModulesCategory is the category directory of module summaries.
	ModulesCategory string

	// ChangelogPath is the project changelog (project-relative).
	ChangelogPath string

	// IgnoreGlobs are doublestar patterns excluded from doc scans.
	IgnoreGlobs []string

	// VersionMarker is the header tag whose value must be a valid
	// semantic version.
	VersionMarker string
}

// DefaultConfig mirrors the shipped project constants.
func DefaultConfig() Config {
	return Config{
		Modules: []string{
			"Api", "Configuration", "Controllers", "Helpers",
			"Models", "Providers", "Services", "Scripts", "Tasks",
		},
		ToolingModule:    "Scripts",
		CoreKeywords:     []string{"Service", "Manager", "Helper", "Client"},
		SourceExtensions: []string{".cs", ".go", ".py", ".js", ".ts"},
		ExtensionClasses: map[string]string{
			".cs":     "C# class",
			".go":     "Go file",
			".py":     "Python module",
			".js":     "script",
			".ts":     "script",
			".csproj": "project file",
			".json":   "configuration",
			".yaml":   "configuration",
			".yml":    "configuration",
			".xml":    "configuration",
			".md":     "documentation",
			".sh":     "script",
			".ps1":    "script",
		},
		DocsDir:         "docs",
		ModulesCategory: "modules",
		ChangelogPath:   "CHANGELOG.md",
		VersionMarker:   "Version:",
	}
}

// Analyzer turns change sets into documentation impact: affected docs,
// per-module change groupings, update recommendations, and project
// consistency reports.
//
// # Thread Safety
//
// Safe for concurrent use after construction. WithIndexAdvisor must be
// called before the analyzer is shared.
type Analyzer struct {
	cfg        Config
	registry   docindex.Registry
	classifier *docindex.Classifier
	advisor    IndexAdvisor
	logger     *slog.Logger
	sourceExts map[string]struct{}
}

// NewAnalyzer creates an analyzer over a project root.
//
// # Inputs
//
//   - cfg: Project constants. Zero-value fields fall back to
//     DefaultConfig; Root is required.
//   - registry: Documentation registry collaborator. Required.
//   - logger: Diagnostics. Nil uses slog.Default().
//
// # Outputs
//
//   - *Analyzer: Ready-to-use analyzer.
//   - error: Non-nil when cfg.Root is empty or registry is nil.
func NewAnalyzer(cfg Config, registry docindex.Registry, logger *slog.Logger) (*Analyzer, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}
	if cfg.Root == "" {
		return nil, fmt.Errorf("%w: root is required", ErrInvalidInput)
	}

	defaults := DefaultConfig()
	if len(cfg.Modules) == 0 {
		cfg.Modules = defaults.Modules
	}
	if cfg.ToolingModule == "" {
		cfg.ToolingModule = defaults.ToolingModule
	}
	if len(cfg.CoreKeywords) == 0 {
		cfg.CoreKeywords = defaults.CoreKeywords
	}
	if len(cfg.SourceExtensions) == 0 {
		cfg.SourceExtensions = defaults.SourceExtensions
	}
	if len(cfg.ExtensionClasses) == 0 {
		cfg.ExtensionClasses = defaults.ExtensionClasses
	}
	if cfg.DocsDir == "" {
		cfg.DocsDir = defaults.DocsDir
	}
	if cfg.ModulesCategory == "" {
		cfg.ModulesCategory = defaults.ModulesCategory
	}
	if cfg.ChangelogPath == "" {
		cfg.ChangelogPath = defaults.ChangelogPath
	}
	if cfg.VersionMarker == "" {
		cfg.VersionMarker = defaults.VersionMarker
	}
	if logger == nil {
		logger = slog.Default()
	}

	sourceExts := make(map[string]struct{}, len(cfg.SourceExtensions))
	for _, ext := range cfg.SourceExtensions {
		sourceExts[strings.ToLower(ext)] = struct{}{}
	}

	classifier := docindex.NewClassifier(docindex.ClassifierOptions{
		DocsDir:         cfg.DocsDir,
		ModulesCategory: cfg.ModulesCategory,
		Modules:         cfg.Modules,
	})

	return &Analyzer{
		cfg:        cfg,
		registry:   registry,
		classifier: classifier,
		logger:     logger,
		sourceExts: sourceExts,
	}, nil
}

// WithIndexAdvisor attaches the rule-engine collaborator used for
// index-file impact. Returns the analyzer for chaining.
func (a *Analyzer) WithIndexAdvisor(advisor IndexAdvisor) *Analyzer {
	a.advisor = advisor
	return a
}

// Classifier exposes the structural classifier built from this
// analyzer's module set.
func (a *Analyzer) Classifier() *docindex.Classifier {
	return a.classifier
}

// ToolingModule returns the configured tooling module name.
func (a *Analyzer) ToolingModule() string {
	return a.cfg.ToolingModule
}

// AffectedDocumentationFiles computes the union of documentation files
// a change set touches.
//
// # Description
//
// The union covers four sources:
//  1. documentation files whose text mentions a changed file's name or
//     normalized relative path;
//  2. each affected module's summary doc, when it exists on disk;
//  3. index files the rule engine flags for update (via the attached
//     IndexAdvisor; skipped when none is attached);
//  4. the project changelog, included only when at least one changed
//     file has a recognized source extension.
//
// Unreadable documentation files are recorded in the result's Errors
// and skipped; the scan never aborts on one bad file.
func (a *Analyzer) AffectedDocumentationFiles(ctx context.Context, changed []string) (*AffectedDocs, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	result := &AffectedDocs{}
	affected := make(map[string]struct{})

	normalized := make([]string, 0, len(changed))
	for _, p := range changed {
		if n := validation.NormalizeRelPath(p); n != "" && n != "." {
			normalized = append(normalized, n)
		}
	}
	if len(normalized) == 0 {
		return result, nil
	}

	// 1. Docs that mention a changed file by name or relative path.
	mentions, errs := a.scanDocMentions(ctx, normalized)
	result.Errors = append(result.Errors, errs...)
	for _, doc := range mentions {
		affected[doc] = struct{}{}
	}

	// 2. Affected module summaries that exist.
	for _, p := range normalized {
		module, ok := a.classifier.ModuleOf(p)
		if !ok {
			continue
		}
		summary := a.registry.ModuleSummaryPath(module)
		if a.exists(summary) {
			affected[summary] = struct{}{}
		}
	}

	// 3. Index files the rule engine flags.
	if a.advisor != nil {
		for _, p := range normalized {
			indexes, err := a.advisor.AffectedIndexes(ctx, p)
			if err != nil {
				result.Errors = append(result.Errors, FileError{Path: p, Message: err.Error()})
				continue
			}
			for _, idx := range indexes {
				affected[idx] = struct{}{}
			}
		}
	}

	// 4. Changelog, for source-level changes only.
	for _, p := range normalized {
		if a.isSourceFile(p) {
			affected[a.cfg.ChangelogPath] = struct{}{}
			break
		}
	}

	result.Files = make([]string, 0, len(affected))
	for doc := range affected {
		result.Files = append(result.Files, doc)
	}
	sort.Strings(result.Files)
	return result, nil
}

// scanDocMentions walks the project's markdown files looking for
// literal mentions of the changed paths or their base names.
func (a *Analyzer) scanDocMentions(ctx context.Context, changed []string) ([]string, []FileError) {
	var docs []string
	var errs []FileError

	needles := make([]string, 0, len(changed)*2)
	for _, p := range changed {
		needles = append(needles, p)
		if base := path.Base(p); base != p {
			needles = append(needles, base)
		}
	}

	walkErr := filepath.WalkDir(a.cfg.Root, func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, relErr := filepath.Rel(a.cfg.Root, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if err != nil {
			errs = append(errs, FileError{Path: rel, Message: err.Error()})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if rel != "." && a.ignored(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}
		if a.ignored(rel) || !strings.EqualFold(filepath.Ext(rel), ".md") {
			return nil
		}

		data, readErr := os.ReadFile(p)
		if readErr != nil {
			errs = append(errs, FileError{Path: rel, Message: readErr.Error()})
			return nil
		}
		content := string(data)
		for _, needle := range needles {
			if strings.Contains(content, needle) {
				docs = append(docs, rel)
				break
			}
		}
		return nil
	})
	if walkErr != nil && ctx.Err() == nil {
		errs = append(errs, FileError{Path: a.cfg.Root, Message: walkErr.Error()})
	}
	return docs, errs
}

// isSourceFile reports a recognized code extension.
func (a *Analyzer) isSourceFile(p string) bool {
	_, ok := a.sourceExts[strings.ToLower(path.Ext(p))]
	return ok
}

// exists reports whether a project-relative path is on disk.
func (a *Analyzer) exists(rel string) bool {
	_, err := os.Stat(filepath.Join(a.cfg.Root, filepath.FromSlash(rel)))
	return err == nil
}

// ignored reports whether rel matches any configured ignore glob.
func (a *Analyzer) ignored(rel string) bool {
	for _, pattern := range a.cfg.IgnoreGlobs {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
