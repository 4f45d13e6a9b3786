// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package watch

import (
	"context"
	"time"

	"github.com/AleutianAI/DocSteward/services/doc_steward/impact"
	"github.com/AleutianAI/DocSteward/services/doc_steward/protect"
	"github.com/AleutianAI/DocSteward/services/doc_steward/rules"
)

// ChangeAnalyzer is the impact-analysis collaborator the orchestrator
// drives per batch. *impact.Analyzer satisfies it.
type ChangeAnalyzer interface {
	DetectModuleChanges(changed []string) map[string][]string
	AnalyzeModuleActivity(moduleChanges map[string][]string) []impact.ModuleUpdateRecommendation
	AffectedDocumentationFiles(ctx context.Context, changed []string) (*impact.AffectedDocs, error)
}

// UpdatePlanner is the rule-engine collaborator. *rules.Engine
// satisfies it.
type UpdatePlanner interface {
	PrioritizedUpdates(ctx context.Context, changedFile string) ([]rules.Result, error)
}

// HeaderGuard is the header-protection collaborator wrapped around
// automated edits. *protect.Protector satisfies it.
type HeaderGuard interface {
	Backup(ctx context.Context, path string) error
	ValidateAndRestore(ctx context.Context, path string) (*protect.RestoreResult, error)
}

// DateStamper supplies a validated current-date literal for handlers
// that stamp prose. *dateguard.Guard satisfies it.
type DateStamper interface {
	ValidatedCurrentDate() string
}

// BatchReport summarizes one processed change batch.
type BatchReport struct {
	// ID is the batch identifier (uuid).
	ID string `json:"id"`

	// Changed lists the batch's normalized paths, sorted.
	Changed []string `json:"changed"`

	// ModuleChanges groups changes by module with descriptions.
	ModuleChanges map[string][]string `json:"module_changes,omitempty"`

	// Recommendations advise per-module summary updates, ordered by
	// descending priority.
	Recommendations []impact.ModuleUpdateRecommendation `json:"recommendations,omitempty"`

	// AffectedDocs is the union of documentation needing attention.
	AffectedDocs *impact.AffectedDocs `json:"affected_docs,omitempty"`

	// Updates holds the prioritized index decisions per changed file.
	Updates map[string][]rules.Result `json:"updates,omitempty"`

	// Date is a validated current-date literal for stamping prose.
	// Empty when no date stamper is wired.
	Date string `json:"date,omitempty"`

	// StartedAt is when batch processing began.
	StartedAt time.Time `json:"started_at"`

	// Duration is the total processing time.
	Duration time.Duration `json:"duration"`

	// Errors lists non-fatal per-file failures hit during processing.
	Errors []string `json:"errors,omitempty"`
}

// BatchHandler receives each finished batch report. Handlers run on the
// processing goroutine; the next batch waits for them.
type BatchHandler func(ctx context.Context, report *BatchReport)
