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
	"strings"
	"time"

	"github.com/AleutianAI/DocSteward/pkg/validation"
)

// ClassifierOptions configures structural classification.
type ClassifierOptions struct {
	// DocsDir is the documentation root directory name.
	DocsDir string

	// ModulesCategory is the category directory holding module summaries.
	ModulesCategory string

	// IndexFileName is the aggregator file name ("README.md").
	IndexFileName string

	// Modules is the recognized module-name set, matched case-insensitively
	// against a path's first segment.
	Modules []string
}

// DefaultClassifierOptions returns the conventional layout.
func DefaultClassifierOptions() ClassifierOptions {
	return ClassifierOptions{
		DocsDir:         "docs",
		ModulesCategory: "modules",
		IndexFileName:   "README.md",
		Modules: []string{
			"Api", "Configuration", "Controllers", "Helpers",
			"Models", "Providers", "Services", "Scripts", "Tasks",
		},
	}
}

// Classifier determines an index file's Type from its tree position.
//
// Classification is pure and total: any string input yields a Node, with
// TypeUnknown for everything that is not a recognized index shape. Both
// path-separator styles are accepted.
//
// Thread Safety: Safe for concurrent use after construction.
type Classifier struct {
	opts ClassifierOptions

	// canonical maps a lowercased module name to its declared spelling.
	canonical map[string]string
}

// NewClassifier creates a Classifier with the given options.
// Zero-valued fields fall back to DefaultClassifierOptions values.
func NewClassifier(opts ClassifierOptions) *Classifier {
	defaults := DefaultClassifierOptions()
	if opts.DocsDir == "" {
		opts.DocsDir = defaults.DocsDir
	}
	if opts.ModulesCategory == "" {
		opts.ModulesCategory = defaults.ModulesCategory
	}
	if opts.IndexFileName == "" {
		opts.IndexFileName = defaults.IndexFileName
	}
	if len(opts.Modules) == 0 {
		opts.Modules = defaults.Modules
	}

	canonical := make(map[string]string, len(opts.Modules))
	for _, m := range opts.Modules {
		canonical[strings.ToLower(m)] = m
	}

	return &Classifier{opts: opts, canonical: canonical}
}

// Classify maps a path onto its structural index type.
//
// Shapes, checked in order:
//
//	<docsDir>/README.md              -> Root (the one root aggregator)
//	<docsDir>/<category>/README.md   -> Navigation
//	<docsDir>/<category>/.../README.md -> Category
//	<Module>/.../README.md           -> Technical
//	anything else                    -> Unknown
func (c *Classifier) Classify(p string) Node {
	rel := validation.NormalizeRelPath(p)
	node := Node{Path: rel, Type: TypeUnknown, ClassifiedAt: time.Now()}

	segs := strings.Split(rel, "/")
	base := segs[len(segs)-1]
	if !strings.EqualFold(base, c.opts.IndexFileName) {
		return node
	}

	if strings.EqualFold(segs[0], c.opts.DocsDir) {
		switch len(segs) {
		case 2:
			node.Type = TypeRoot
		case 3:
			node.Type = TypeNavigation
			node.Category = segs[1]
		default:
			node.Type = TypeCategory
			node.Category = segs[1]
		}
		return node
	}

	if module, ok := c.Module(segs[0]); ok && len(segs) >= 2 {
		node.Type = TypeTechnical
		node.Module = module
	}

	return node
}

// Module resolves a name against the module set, case-insensitively.
// Returns the declared spelling and true on a match.
func (c *Classifier) Module(name string) (string, bool) {
	declared, ok := c.canonical[strings.ToLower(name)]
	return declared, ok
}

// ModuleOf extracts the owning module from any changed-file path.
// Returns not-ok when the first segment is not a recognized module.
func (c *Classifier) ModuleOf(p string) (string, bool) {
	rel := validation.NormalizeRelPath(p)
	seg, _, _ := strings.Cut(rel, "/")
	return c.Module(seg)
}

// CategoryOf extracts the docs-tree category of any path.
// Returns not-ok for paths outside the docs tree or directly at its root.
func (c *Classifier) CategoryOf(p string) (string, bool) {
	rel := validation.NormalizeRelPath(p)
	segs := strings.Split(rel, "/")
	if len(segs) < 3 || !strings.EqualFold(segs[0], c.opts.DocsDir) {
		return "", false
	}
	return segs[1], true
}

// ModuleSummary reports whether the path is a module summary document
// (<docsDir>/<modulesCategory>/<Name>.md) and returns the module name.
func (c *Classifier) ModuleSummary(p string) (string, bool) {
	rel := validation.NormalizeRelPath(p)
	segs := strings.Split(rel, "/")
	if len(segs) != 3 {
		return "", false
	}
	if !strings.EqualFold(segs[0], c.opts.DocsDir) || !strings.EqualFold(segs[1], c.opts.ModulesCategory) {
		return "", false
	}
	name := segs[2]
	if strings.EqualFold(name, c.opts.IndexFileName) {
		return "", false
	}
	if !strings.HasSuffix(strings.ToLower(name), ".md") {
		return "", false
	}
	return name[:len(name)-3], true
}

// IsIndexFile reports whether the path names an aggregator file.
func (c *Classifier) IsIndexFile(p string) bool {
	rel := validation.NormalizeRelPath(p)
	segs := strings.Split(rel, "/")
	return strings.EqualFold(segs[len(segs)-1], c.opts.IndexFileName)
}

// DocsDir returns the configured documentation root directory.
func (c *Classifier) DocsDir() string {
	return c.opts.DocsDir
}

// ModulesCategory returns the configured module-summary category.
func (c *Classifier) ModulesCategory() string {
	return c.opts.ModulesCategory
}
