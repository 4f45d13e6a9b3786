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

import "strings"

// Action is the remediation recommended for a date literal.
type Action string

const (
	// ActionUseAsIs indicates the date is valid and should be kept.
	ActionUseAsIs Action = "use_as_is"

	// ActionUseSystemDate indicates the date should be replaced with the
	// current system date.
	ActionUseSystemDate Action = "use_system_date"

	// ActionConfirmWithUser indicates a human should confirm the date
	// before it is used.
	ActionConfirmWithUser Action = "confirm_with_user"

	// ActionManualReview indicates the date needs offline review.
	ActionManualReview Action = "manual_review"
)

// IsValid returns true if the action is a known value.
func (a Action) IsValid() bool {
	switch a {
	case ActionUseAsIs, ActionUseSystemDate, ActionConfirmWithUser, ActionManualReview:
		return true
	default:
		return false
	}
}

// Flag records which validation checks a date literal failed.
// Flags combine as a bitmask.
type Flag uint8

const (
	// FlagBlacklistedDate marks an exact match against the known-bad list.
	FlagBlacklistedDate Flag = 1 << iota

	// FlagInvalidFormat marks a literal that is not a real calendar date
	// in YYYY-MM-DD form.
	FlagInvalidFormat

	// FlagTooFarInFuture marks a date beyond the allowed future window.
	FlagTooFarInFuture

	// FlagTooFarInPast marks a date beyond the allowed past window.
	FlagTooFarInPast
)

// Has returns true if f contains all bits of other.
func (f Flag) Has(other Flag) bool {
	return f&other == other
}

// String renders the set flags as a pipe-separated list.
func (f Flag) String() string {
	if f == 0 {
		return "none"
	}
	var names []string
	if f.Has(FlagBlacklistedDate) {
		names = append(names, "blacklisted_date")
	}
	if f.Has(FlagInvalidFormat) {
		names = append(names, "invalid_format")
	}
	if f.Has(FlagTooFarInFuture) {
		names = append(names, "too_far_in_future")
	}
	if f.Has(FlagTooFarInPast) {
		names = append(names, "too_far_in_past")
	}
	return strings.Join(names, "|")
}

// OperationType classifies the kind of documentation edit a date belongs
// to, used to route failed validations to an appropriate action.
type OperationType string

const (
	// OperationRoutineUpdate covers day-to-day documentation edits.
	OperationRoutineUpdate OperationType = "routine_update"

	// OperationRelease covers release notes, changelogs, and version
	// announcements, where a wrong date is costly.
	OperationRelease OperationType = "release"
)

// isRelease treats any operation mentioning "release" as release-type, so
// caller-defined subtypes such as "release_notes" route correctly.
func (o OperationType) isRelease() bool {
	return strings.Contains(strings.ToLower(string(o)), "release")
}

// Result is the outcome of validating one date literal.
type Result struct {
	// Valid is true when the literal passed every check.
	Valid bool `json:"valid"`

	// Value is the literal that was checked, whitespace-trimmed.
	Value string `json:"value"`

	// Message explains the failure. Empty when valid.
	Message string `json:"message,omitempty"`

	// Suggested is the replacement literal, when one applies.
	Suggested string `json:"suggested,omitempty"`

	// Action is the recommended remediation.
	Action Action `json:"action"`

	// Flags records which checks failed.
	Flags Flag `json:"flags,omitempty"`
}

// Finding is one date literal located by a project scan.
type Finding struct {
	File   string `json:"file"`
	Line   int    `json:"line"`
	Value  string `json:"value"`
	Result Result `json:"result"`
}

// ScanError records a file the scan could not read.
type ScanError struct {
	File    string `json:"file"`
	Message string `json:"message"`
}

// ScanReport aggregates a project-wide date scan.
type ScanReport struct {
	// Findings lists every date literal found, ordered by file then line.
	Findings []Finding `json:"findings"`

	// FilesScanned counts files successfully read.
	FilesScanned int `json:"files_scanned"`

	// DatesChecked counts date literals validated.
	DatesChecked int `json:"dates_checked"`

	// InvalidCount counts literals that failed validation.
	InvalidCount int `json:"invalid_count"`

	// Errors lists files skipped due to read failures.
	Errors []ScanError `json:"errors,omitempty"`
}

// InvalidFindings filters the report down to failed validations.
func (r *ScanReport) InvalidFindings() []Finding {
	var out []Finding
	for _, f := range r.Findings {
		if !f.Result.Valid {
			out = append(out, f)
		}
	}
	return out
}
