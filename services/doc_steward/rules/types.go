// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package rules

import (
	"github.com/AleutianAI/DocSteward/services/doc_steward/docindex"
)

// Evaluation is the resolved context a rule predicate sees.
type Evaluation struct {
	// Index is the candidate documentation index, classified.
	Index docindex.Node

	// Changed is the normalized changed-file path.
	Changed string

	// ChangedNode is the changed file's own classification (most
	// changed files classify as Unknown; index files do not).
	ChangedNode docindex.Node

	// ChangedModule is the changed file's owning module, empty when
	// the first segment matches none.
	ChangedModule string

	// ChangedExists reports whether the changed file is currently on
	// disk; absence approximates a newly-created file.
	ChangedExists bool
}

// Predicate decides whether a rule applies to an evaluation.
type Predicate func(ev *Evaluation) bool

// Rule is one update rule for a documentation-index type.
//
// Within a type, rules are tried in declaration order and the first
// match wins. A rule matches when its Pattern (if any) matches the
// changed path and its predicate (if any) returns true.
type Rule struct {
	// Name identifies the rule in results and metrics.
	Name string

	// Priority is the update priority granted on a match. Must be > 0.
	Priority int

	// Pattern is an optional doublestar glob the changed path must
	// match, evaluated against normalized slash paths.
	Pattern string

	// When is the optional structural predicate.
	When Predicate

	// Reason explains the decision to a human.
	Reason string

	// Actions are suggested follow-ups, in order.
	Actions []string
}

// Result is the decision for one (index, changed file) pair.
//
// Priority is 0 exactly when Update is false.
type Result struct {
	// IndexPath is the normalized candidate index path.
	IndexPath string `json:"index_path"`

	// IndexType is the candidate's structural classification.
	IndexType docindex.IndexType `json:"index_type"`

	// ChangedFile is the normalized changed path.
	ChangedFile string `json:"changed_file"`

	// Update is true when the index needs an update.
	Update bool `json:"update"`

	// Rule names the matched rule, empty when none matched.
	Rule string `json:"rule,omitempty"`

	// Reason explains the decision.
	Reason string `json:"reason"`

	// Priority ranks the update, 0 when no update is needed.
	Priority int `json:"priority"`

	// Actions are suggested follow-ups, in order.
	Actions []string `json:"actions,omitempty"`
}
