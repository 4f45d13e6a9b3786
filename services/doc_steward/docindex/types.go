// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package docindex models the documentation-index tree.
//
// A documentation index is a README-style aggregator file. Its Type is
// determined structurally from its position in the tree, never from its
// contents. The package provides the classifier, the Registry interface
// consumed by the rule engine, and a filesystem-backed reference registry.
package docindex

import "time"

// IndexType classifies a documentation-index file by tree position.
type IndexType string

const (
	// TypeRoot is the one root aggregator at the top of the docs tree.
	TypeRoot IndexType = "root"

	// TypeNavigation is a directory-level index under the docs tree.
	TypeNavigation IndexType = "navigation"

	// TypeTechnical is a module-local index colocated with source.
	TypeTechnical IndexType = "technical"

	// TypeCategory is a subject-area index nested under a category folder.
	TypeCategory IndexType = "category"

	// TypeUnknown is every path that is not a classified index.
	TypeUnknown IndexType = "unknown"
)

// IsValid reports whether t is one of the defined index types.
func (t IndexType) IsValid() bool {
	switch t {
	case TypeRoot, TypeNavigation, TypeTechnical, TypeCategory, TypeUnknown:
		return true
	default:
		return false
	}
}

// Node describes one classified documentation-index file.
//
// Exactly one Type applies to a node. Category is set for Navigation and
// Category nodes; Module is set for Technical nodes.
type Node struct {
	// Path is the project-relative slash path of the index file.
	Path string

	// Type is the structural classification.
	Type IndexType

	// Category is the docs-tree category this node belongs to
	// (first directory under the docs root), when applicable.
	Category string

	// Module is the owning module for technical indexes.
	Module string

	// ClassifiedAt records when the classification was computed.
	ClassifiedAt time.Time
}
