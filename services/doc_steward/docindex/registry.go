// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docindex

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
)

// Registry is the documentation-index collaborator consumed by the
// rule engine and impact analyzer.
//
// Implementations enumerate index files, classify paths, locate or create
// module summaries, and apply approved text substitutions. The engine
// itself never generates prose; bodies for new documents come from the
// TemplateSource collaborator.
type Registry interface {
	// ListIndexFiles enumerates all documentation-index files as
	// project-relative slash paths, sorted.
	ListIndexFiles(ctx context.Context) ([]string, error)

	// Classify maps a path onto its structural index type.
	Classify(path string) Node

	// ModuleSummaryPath returns the project-relative summary-document
	// path for a module, whether or not it exists on disk.
	ModuleSummaryPath(module string) string

	// EnsureModuleSummary locates the module's summary document,
	// creating it from the template source when absent.
	// Returns the project-relative path.
	EnsureModuleSummary(ctx context.Context, module string) (string, error)

	// ApplyUpdate replaces the first occurrence of oldText with newText
	// in the index file. The write is skipped when the result is
	// byte-identical to the on-disk content.
	ApplyUpdate(ctx context.Context, path, oldText, newText string) error
}

// TemplateSource supplies prose bodies for newly created documents.
type TemplateSource interface {
	// ModuleSummary returns the full body of a fresh summary document.
	ModuleSummary(module string) string
}

// FSRegistryOptions configures the filesystem-backed registry.
type FSRegistryOptions struct {
	// Root is the project root directory. Required.
	Root string

	// Classifier performs structural classification.
	// Defaults to NewClassifier(DefaultClassifierOptions()).
	Classifier *Classifier

	// Templates supplies bodies for created documents.
	// Defaults to StaticTemplates.
	Templates TemplateSource

	// IgnoreGlobs are doublestar patterns excluded from enumeration.
	IgnoreGlobs []string

	// Logger receives scan diagnostics. Defaults to slog.Default().
	Logger *slog.Logger
}

// FSRegistry is the filesystem-backed reference Registry.
//
// Enumeration is partial-failure tolerant: an unreadable directory is
// logged and skipped, never aborting the walk.
//
// Thread Safety: Safe for concurrent reads. Callers must serialize
// updates to the same index file at a higher level.
type FSRegistry struct {
	root       string
	classifier *Classifier
	templates  TemplateSource
	ignore     []string
	logger     *slog.Logger
}

// NewFSRegistry creates a registry over a project root.
func NewFSRegistry(opts FSRegistryOptions) (*FSRegistry, error) {
	if opts.Root == "" {
		return nil, fmt.Errorf("registry root is required")
	}
	root, err := filepath.Abs(opts.Root)
	if err != nil {
		return nil, fmt.Errorf("resolving registry root: %w", err)
	}
	if opts.Classifier == nil {
		opts.Classifier = NewClassifier(DefaultClassifierOptions())
	}
	if opts.Templates == nil {
		opts.Templates = StaticTemplates{}
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}
	return &FSRegistry{
		root:       root,
		classifier: opts.Classifier,
		templates:  opts.Templates,
		ignore:     opts.IgnoreGlobs,
		logger:     opts.Logger,
	}, nil
}

// Root returns the absolute project root.
func (r *FSRegistry) Root() string {
	return r.root
}

// Classifier returns the classifier backing this registry.
func (r *FSRegistry) Classifier() *Classifier {
	return r.classifier
}

// ListIndexFiles walks the project tree collecting index files.
func (r *FSRegistry) ListIndexFiles(ctx context.Context) ([]string, error) {
	var found []string

	err := filepath.WalkDir(r.root, func(p string, d fs.DirEntry, walkErr error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		if walkErr != nil {
			// Skip unreadable entries; one bad directory must not
			// abort the enumeration.
			r.logger.Warn("skipping unreadable entry", "path", p, "error", walkErr)
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}

		rel, err := filepath.Rel(r.root, p)
		if err != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if d.IsDir() {
			if rel != "." && r.ignored(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}
		if r.ignored(rel) {
			return nil
		}
		if r.classifier.IsIndexFile(rel) {
			found = append(found, rel)
		}
		return nil
	})
	if err != nil {
		return nil, err
	}

	sort.Strings(found)
	return found, nil
}

// Classify maps a path onto its structural index type.
func (r *FSRegistry) Classify(p string) Node {
	return r.classifier.Classify(r.rel(p))
}

// ModuleSummaryPath returns the summary-document path for a module.
func (r *FSRegistry) ModuleSummaryPath(module string) string {
	return path.Join(r.classifier.DocsDir(), r.classifier.ModulesCategory(), module+".md")
}

// EnsureModuleSummary locates or creates the module's summary document.
func (r *FSRegistry) EnsureModuleSummary(ctx context.Context, module string) (string, error) {
	if ctx.Err() != nil {
		return "", ctx.Err()
	}

	safe, err := validation.SanitizeModuleName(module)
	if err != nil {
		return "", err
	}

	rel := r.ModuleSummaryPath(safe)
	abs, err := r.abs(rel)
	if err != nil {
		return "", err
	}

	if _, err := os.Stat(abs); err == nil {
		return rel, nil
	} else if !os.IsNotExist(err) {
		return "", fmt.Errorf("checking summary for %s: %w", safe, err)
	}

	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		return "", fmt.Errorf("creating summary directory: %w", err)
	}
	body := r.templates.ModuleSummary(safe)
	if err := os.WriteFile(abs, []byte(body), 0644); err != nil {
		return "", fmt.Errorf("writing summary for %s: %w", safe, err)
	}

	r.logger.Info("created module summary", "module", safe, "path", rel)
	return rel, nil
}

// ApplyUpdate replaces the first occurrence of oldText with newText.
func (r *FSRegistry) ApplyUpdate(ctx context.Context, p, oldText, newText string) error {
	if ctx.Err() != nil {
		return ctx.Err()
	}
	if oldText == "" {
		return fmt.Errorf("%w: empty substitution target", ErrTextNotFound)
	}

	abs, err := r.abs(r.rel(p))
	if err != nil {
		return err
	}

	data, err := os.ReadFile(abs)
	if err != nil {
		return fmt.Errorf("reading index %s: %w", p, err)
	}
	content := string(data)

	if !strings.Contains(content, oldText) {
		return fmt.Errorf("%w: %s", ErrTextNotFound, p)
	}

	updated := strings.Replace(content, oldText, newText, 1)
	if updated == content {
		return nil
	}
	if err := os.WriteFile(abs, []byte(updated), fileMode(abs)); err != nil {
		return fmt.Errorf("rewriting index %s: %w", p, err)
	}
	return nil
}

// fileMode preserves the file's permission bits across a rewrite.
func fileMode(path string) os.FileMode {
	if info, err := os.Stat(path); err == nil {
		return info.Mode().Perm()
	}
	return 0644
}

// rel normalizes p into a project-relative slash path, stripping the
// registry root from absolute inputs.
func (r *FSRegistry) rel(p string) string {
	normalized := validation.NormalizeRelPath(p)
	rootSlash := filepath.ToSlash(r.root)
	if strings.HasPrefix(normalized, rootSlash+"/") {
		return normalized[len(rootSlash)+1:]
	}
	return normalized
}

// abs joins a validated relative path under the root.
func (r *FSRegistry) abs(rel string) (string, error) {
	if err := validation.ValidateRelPath(rel); err != nil {
		return "", fmt.Errorf("%w: %v", ErrOutsideRoot, err)
	}
	return filepath.Join(r.root, filepath.FromSlash(rel)), nil
}

// ignored reports whether rel matches any ignore glob.
func (r *FSRegistry) ignored(rel string) bool {
	for _, pattern := range r.ignore {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}

// Ensure FSRegistry implements Registry
var _ Registry = (*FSRegistry)(nil)
