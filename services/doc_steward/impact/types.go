// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package impact

// ChangeKind labels how a changed file differs from the tree.
//
// The kind is approximated from current existence, not VCS history: a
// path absent on disk is treated as Added (announced but not yet
// written), a present one as Modified.
type ChangeKind string

const (
	// KindAdded marks a file not currently on disk.
	KindAdded ChangeKind = "added"

	// KindModified marks a file present on disk.
	KindModified ChangeKind = "modified"
)

// IsValid returns true if the kind is a known value.
func (k ChangeKind) IsValid() bool {
	switch k {
	case KindAdded, KindModified:
		return true
	default:
		return false
	}
}

// ChangedFile is one change event enriched with inferred metadata.
type ChangedFile struct {
	// Path is the normalized project-relative path.
	Path string `json:"path"`

	// Module is the owning module, empty when the path matches none.
	Module string `json:"module,omitempty"`

	// Kind is the inferred change kind.
	Kind ChangeKind `json:"kind"`
}

// ModuleUpdateRecommendation advises updating one module's summary doc.
type ModuleUpdateRecommendation struct {
	// Module is the module name.
	Module string `json:"module"`

	// SummaryPath is the project-relative summary-doc path.
	SummaryPath string `json:"summary_path"`

	// ChangeCount is how many files changed in the module.
	ChangeCount int `json:"change_count"`

	// Priority ranks urgency from 1 (routine) to 5 (review now).
	Priority int `json:"priority"`

	// SummaryExists reports whether the summary doc is on disk.
	SummaryExists bool `json:"summary_exists"`

	// RecommendedAction is the human-readable next step.
	RecommendedAction string `json:"recommended_action"`
}

// FileError records a file an operation could not process.
type FileError struct {
	Path    string `json:"path"`
	Message string `json:"message"`
}

// AffectedDocs is the union of documentation files touched by a change
// set.
type AffectedDocs struct {
	// Files lists affected documentation paths, sorted and unique.
	Files []string `json:"files"`

	// Errors lists files skipped due to read failures.
	Errors []FileError `json:"errors,omitempty"`
}

// CheckResult is one consistency sub-check's outcome.
type CheckResult struct {
	// Name identifies the sub-check.
	Name string `json:"name"`

	// Passed is true when the sub-check found no violations.
	Passed bool `json:"passed"`

	// Details lists the violations, one line each.
	Details []string `json:"details,omitempty"`
}

// ConsistencyReport aggregates the project consistency sub-checks.
type ConsistencyReport struct {
	// Consistent is the AND of every sub-check.
	Consistent bool `json:"consistent"`

	// Checks holds per-sub-check results in a fixed order.
	Checks []CheckResult `json:"checks"`

	// Errors lists files excluded from checking due to I/O failures.
	Errors []FileError `json:"errors,omitempty"`
}

// Check returns the named sub-check result, or nil.
func (r *ConsistencyReport) Check(name string) *CheckResult {
	for i := range r.Checks {
		if r.Checks[i].Name == name {
			return &r.Checks[i]
		}
	}
	return nil
}
