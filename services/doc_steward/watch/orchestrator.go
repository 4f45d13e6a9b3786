// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package watch composes the documentation-safety services for batches
// of file changes.
//
// Changes are collected into a pending set and processed after a
// trailing-edge debounce: each new change restarts the quiet-window
// timer, and only an undisturbed window triggers the batch. There is no
// maximum-wait cap; a continuous change stream postpones processing
// indefinitely, which is the accepted trade-off for edit-burst
// coalescing.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"sort"
	"sync"
	"time"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/google/uuid"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"github.com/AleutianAI/DocSteward/pkg/logging"
	"github.com/AleutianAI/DocSteward/pkg/validation"
	"github.com/AleutianAI/DocSteward/services/doc_steward/protect"
	"github.com/AleutianAI/DocSteward/services/doc_steward/rules"
)

// tracerName identifies this package's otel tracer.
const tracerName = "github.com/AleutianAI/DocSteward/services/doc_steward/watch"

// Options configures an Orchestrator.
type Options struct {
	// Analyzer drives module grouping and affected-doc analysis.
	// Required.
	Analyzer ChangeAnalyzer

	// Planner produces prioritized index updates. Required.
	Planner UpdatePlanner

	// Protector wraps automated edits via GuardedEdit. Optional.
	Protector HeaderGuard

	// Stamper supplies the report's validated date. Optional.
	Stamper DateStamper

	// Handler receives each finished batch report. Optional.
	Handler BatchHandler

	// DebounceDelay is the trailing-edge quiet window. Default 500ms.
	DebounceDelay time.Duration

	// IgnoreGlobs are doublestar patterns dropped before enqueueing.
	IgnoreGlobs []string

	// Logger receives diagnostics. Default slog.Default().
	Logger *slog.Logger

	// Metrics attaches Prometheus metrics. Optional.
	Metrics *Metrics
}

// Orchestrator batches changes and runs the documentation-safety
// pipeline over each batch.
//
// # Thread Safety
//
// Safe for concurrent use. The pending set has its own lock; batch
// processing runs on one goroutine at a time (the debounce task's or
// the Flush caller's).
type Orchestrator struct {
	analyzer  ChangeAnalyzer
	planner   UpdatePlanner
	protector HeaderGuard
	stamper   DateStamper
	handler   BatchHandler
	delay     time.Duration
	ignore    []string
	logger    *slog.Logger
	metrics   *Metrics
	tracer    trace.Tracer

	mu      sync.Mutex
	pending map[string]struct{}
	task    *ScheduledTask
}

// NewOrchestrator wires the documentation-safety services together.
func NewOrchestrator(opts Options) (*Orchestrator, error) {
	if opts.Analyzer == nil {
		return nil, ErrNilAnalyzer
	}
	if opts.Planner == nil {
		return nil, ErrNilPlanner
	}
	if opts.DebounceDelay <= 0 {
		opts.DebounceDelay = 500 * time.Millisecond
	}
	if opts.Logger == nil {
		opts.Logger = slog.Default()
	}

	return &Orchestrator{
		analyzer:  opts.Analyzer,
		planner:   opts.Planner,
		protector: opts.Protector,
		stamper:   opts.Stamper,
		handler:   opts.Handler,
		delay:     opts.DebounceDelay,
		ignore:    opts.IgnoreGlobs,
		logger:    opts.Logger,
		metrics:   opts.Metrics,
		tracer:    otel.Tracer(tracerName),
		pending:   make(map[string]struct{}),
	}, nil
}

// Enqueue adds changed paths to the pending set and restarts the
// debounce timer.
//
// Ignored or degenerate paths are dropped. Each accepted call cancels
// any in-flight timer and schedules a fresh one: trailing-edge
// debouncing with no maximum-wait cap.
func (o *Orchestrator) Enqueue(paths ...string) {
	accepted := make([]string, 0, len(paths))
	for _, p := range paths {
		rel := validation.NormalizeRelPath(p)
		if rel == "" || rel == "." || o.ignored(rel) {
			continue
		}
		accepted = append(accepted, rel)
	}
	if len(accepted) == 0 {
		return
	}

	o.mu.Lock()
	for _, rel := range accepted {
		o.pending[rel] = struct{}{}
	}
	if o.task.Cancel() && o.metrics != nil {
		o.metrics.DebounceResetsTotal.Inc()
	}
	o.task = Schedule(o.delay, func() {
		if _, err := o.processPending(context.Background()); err != nil {
			o.logger.Error("debounced batch failed", "error", err)
		}
	})
	o.mu.Unlock()
}

// Pending returns a sorted snapshot of the pending set.
func (o *Orchestrator) Pending() []string {
	o.mu.Lock()
	defer o.mu.Unlock()
	out := make([]string, 0, len(o.pending))
	for p := range o.pending {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Clear cancels any in-flight timer and empties the pending set.
func (o *Orchestrator) Clear() {
	o.mu.Lock()
	defer o.mu.Unlock()
	o.task.Cancel()
	o.task = nil
	o.pending = make(map[string]struct{})
}

// Flush cancels the timer and processes the current batch now.
//
// # Outputs
//
//   - *BatchReport: Nil when the pending set was empty.
//   - error: Pipeline failure; per-file problems land in the report's
//     Errors instead.
func (o *Orchestrator) Flush(ctx context.Context) (*BatchReport, error) {
	o.mu.Lock()
	o.task.Cancel()
	o.task = nil
	o.mu.Unlock()
	return o.processPending(ctx)
}

// processPending snapshots and clears the pending set, then runs the
// pipeline over the batch.
func (o *Orchestrator) processPending(ctx context.Context) (*BatchReport, error) {
	o.mu.Lock()
	changed := make([]string, 0, len(o.pending))
	for p := range o.pending {
		changed = append(changed, p)
	}
	o.pending = make(map[string]struct{})
	o.mu.Unlock()

	if len(changed) == 0 {
		return nil, nil
	}
	sort.Strings(changed)
	return o.process(ctx, changed)
}

// process runs the documentation-safety pipeline over one batch.
func (o *Orchestrator) process(ctx context.Context, changed []string) (*BatchReport, error) {
	report := &BatchReport{
		ID:        uuid.NewString(),
		Changed:   changed,
		StartedAt: time.Now(),
	}

	ctx, span := o.tracer.Start(ctx, "docsteward.watch.process",
		trace.WithAttributes(
			attribute.String("batch.id", report.ID),
			attribute.Int("batch.size", len(changed)),
		))
	defer span.End()

	logger := logging.WithBatch(ctx, logging.WithTrace(ctx, o.logger), report.ID)
	logger.Info("processing change batch", "files", len(changed))

	report.ModuleChanges = o.analyzer.DetectModuleChanges(changed)
	report.Recommendations = o.analyzer.AnalyzeModuleActivity(report.ModuleChanges)

	docs, err := o.analyzer.AffectedDocumentationFiles(ctx, changed)
	if err != nil {
		return report, fmt.Errorf("affected documentation: %w", err)
	}
	report.AffectedDocs = docs

	report.Updates = make(map[string][]rules.Result, len(changed))
	for _, file := range changed {
		updates, err := o.planner.PrioritizedUpdates(ctx, file)
		if err != nil {
			report.Errors = append(report.Errors, fmt.Sprintf("%s: %v", file, err))
			continue
		}
		if len(updates) > 0 {
			report.Updates[file] = updates
		}
	}

	if o.stamper != nil {
		report.Date = o.stamper.ValidatedCurrentDate()
	}
	report.Duration = time.Since(report.StartedAt)

	if o.metrics != nil {
		o.metrics.BatchesTotal.Inc()
		o.metrics.BatchSize.Observe(float64(len(changed)))
	}
	logger.Info("change batch processed",
		"modules", len(report.ModuleChanges),
		"affected_docs", len(docs.Files),
		"duration", report.Duration)

	if o.handler != nil {
		o.handler(ctx, report)
	}
	return report, nil
}

// GuardedEdit wraps an automated edit in the header-protection
// protocol: snapshot, edit, validate-and-restore.
//
// # Outputs
//
//   - *protect.RestoreResult: The validation outcome; Valid is false
//     when sections had to be restored. Nil when no protector is wired
//     or the backup failed.
//   - error: Backup failure, the edit's own error, or a restore
//     failure.
func (o *Orchestrator) GuardedEdit(ctx context.Context, path string, edit func() error) (*protect.RestoreResult, error) {
	if o.protector == nil {
		return nil, edit()
	}
	if err := o.protector.Backup(ctx, path); err != nil {
		return nil, fmt.Errorf("pre-edit backup: %w", err)
	}
	if err := edit(); err != nil {
		return nil, err
	}
	result, err := o.protector.ValidateAndRestore(ctx, path)
	if err != nil {
		return result, fmt.Errorf("post-edit validation: %w", err)
	}
	if !result.Valid {
		o.logger.Warn("automated edit deleted critical sections",
			"path", path, "restored", result.Restored)
	}
	return result, nil
}

// ignored reports whether rel matches any configured ignore glob.
func (o *Orchestrator) ignored(rel string) bool {
	for _, pattern := range o.ignore {
		if ok, err := doublestar.Match(pattern, rel); err == nil && ok {
			return true
		}
	}
	return false
}
