// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package rules decides, per (documentation-index file, changed file)
// pair, whether and at what priority the index needs an update.
//
// Dispatch is strictly by the candidate index's structural type; within
// a type, rules are tried in fixed priority order and the first match
// wins. Results are memoized by exact pair key; the cache is cleared
// wholesale after a fixed time window rather than per-entry.
package rules

import (
	"context"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/bmatcuk/doublestar/v4"

	"github.com/AleutianAI/DocSteward/pkg/validation"
	"github.com/AleutianAI/DocSteward/services/doc_steward/docindex"
)

// Config carries the engine's project constants.
type Config struct {
	// Root is the project root, used for existence checks. Optional;
	// empty treats paths as relative to the working directory.
	Root string

	// Classifier performs structural classification. Defaults to
	// NewClassifier(DefaultClassifierOptions()).
	Classifier *docindex.Classifier

	// ToolingModule is the module holding build/ops tooling.
	ToolingModule string

	// SourcePattern matches recognized source files (doublestar).
	SourcePattern string

	// ToolingPattern matches tooling files (doublestar).
	ToolingPattern string

	// ConfigPattern matches configuration files (doublestar).
	ConfigPattern string

	// CacheTTL is the wholesale cache-invalidation window. Zero
	// disables expiry (explicit InvalidateCache only).
	CacheTTL time.Duration
}

// DefaultConfig mirrors the shipped project constants.
func DefaultConfig() Config {
	return Config{
		ToolingModule:  "Scripts",
		SourcePattern:  "**/*.{cs,go,py,js,ts}",
		ToolingPattern: "**/*.{sh,ps1,csproj,yml,yaml}",
		ConfigPattern:  "**/*.{json,yaml,yml,xml,config}",
		CacheTTL:       5 * time.Minute,
	}
}

// EngineOption configures an Engine beyond its Config.
type EngineOption func(*Engine)

// WithLogger sets the diagnostic logger.
func WithLogger(logger *slog.Logger) EngineOption {
	return func(e *Engine) {
		if logger != nil {
			e.logger = logger
		}
	}
}

// WithClock injects the time source driving cache expiry. Tests use a
// fake clock to step past the TTL window.
func WithClock(now func() time.Time) EngineOption {
	return func(e *Engine) {
		if now != nil {
			e.clock = now
		}
	}
}

// WithMetrics attaches Prometheus metrics.
func WithMetrics(m *Metrics) EngineOption {
	return func(e *Engine) {
		e.metrics = m
	}
}

// Engine evaluates documentation-index update rules.
//
// # Thread Safety
//
// Safe for concurrent use after construction; the result cache carries
// its own lock.
type Engine struct {
	cfg        Config
	registry   docindex.Registry
	classifier *docindex.Classifier
	ruleSet    map[docindex.IndexType][]Rule
	cache      *resultCache
	metrics    *Metrics
	logger     *slog.Logger
	clock      func() time.Time
}

// NewEngine creates an engine over a documentation registry.
//
// # Inputs
//
//   - cfg: Project constants. Zero-value fields fall back to
//     DefaultConfig.
//   - registry: Documentation registry collaborator. Required.
//   - opts: Logger, clock, and metrics wiring.
//
// # Outputs
//
//   - *Engine: Ready-to-use engine.
//   - error: ErrNilRegistry when registry is nil.
func NewEngine(cfg Config, registry docindex.Registry, opts ...EngineOption) (*Engine, error) {
	if registry == nil {
		return nil, ErrNilRegistry
	}

	defaults := DefaultConfig()
	if cfg.Classifier == nil {
		cfg.Classifier = docindex.NewClassifier(docindex.DefaultClassifierOptions())
	}
	if cfg.ToolingModule == "" {
		cfg.ToolingModule = defaults.ToolingModule
	}
	if cfg.SourcePattern == "" {
		cfg.SourcePattern = defaults.SourcePattern
	}
	if cfg.ToolingPattern == "" {
		cfg.ToolingPattern = defaults.ToolingPattern
	}
	if cfg.ConfigPattern == "" {
		cfg.ConfigPattern = defaults.ConfigPattern
	}
	if cfg.CacheTTL == 0 {
		cfg.CacheTTL = defaults.CacheTTL
	}

	e := &Engine{
		cfg:        cfg,
		registry:   registry,
		classifier: cfg.Classifier,
		logger:     slog.Default(),
		clock:      time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	e.cache = newResultCache(cfg.CacheTTL, e.clock)
	e.ruleSet = e.buildRuleSet()
	return e, nil
}

// EvaluateUpdate decides whether one index needs an update for one
// changed file.
//
// # Description
//
// The index is classified structurally and dispatched to its type's
// rule table; the first matching rule wins. Results are memoized by
// exact (index, changed) pair; repeated calls answer from the cache
// until the TTL window clears it wholesale.
func (e *Engine) EvaluateUpdate(indexPath, changedFile string) Result {
	index := validation.NormalizeRelPath(indexPath)
	changed := validation.NormalizeRelPath(changedFile)
	key := index + "\x00" + changed

	if res, ok := e.cache.get(key); ok {
		if e.metrics != nil {
			e.metrics.CacheHitsTotal.Inc()
		}
		return res
	}
	if e.metrics != nil {
		e.metrics.CacheMissesTotal.Inc()
	}

	start := e.clock()
	res := e.evaluate(index, changed)
	if e.metrics != nil {
		e.metrics.EvaluationSeconds.Observe(e.clock().Sub(start).Seconds())
		decision := "skip"
		if res.Update {
			decision = "update"
		}
		e.metrics.EvaluationsTotal.WithLabelValues(string(res.IndexType), decision).Inc()
	}

	e.cache.put(key, res)
	return res
}

// evaluate runs the rule tables for one normalized pair.
func (e *Engine) evaluate(index, changed string) Result {
	node := e.classifier.Classify(index)
	module, _ := e.classifier.ModuleOf(changed)
	ev := &Evaluation{
		Index:         node,
		Changed:       changed,
		ChangedNode:   e.classifier.Classify(changed),
		ChangedModule: module,
		ChangedExists: e.exists(changed),
	}

	res := Result{
		IndexPath:   index,
		IndexType:   node.Type,
		ChangedFile: changed,
	}
	for _, rule := range e.ruleSet[node.Type] {
		if !e.matches(rule, ev) {
			continue
		}
		res.Update = true
		res.Rule = rule.Name
		res.Reason = rule.Reason
		res.Priority = rule.Priority
		res.Actions = append([]string(nil), rule.Actions...)
		return res
	}

	res.Reason = "no update rule matched"
	return res
}

// matches applies a rule's pattern gate and predicate.
func (e *Engine) matches(rule Rule, ev *Evaluation) bool {
	if rule.Pattern != "" {
		ok, err := doublestar.Match(rule.Pattern, ev.Changed)
		if err != nil {
			e.logger.Warn("bad rule pattern", "rule", rule.Name, "pattern", rule.Pattern, "error", err)
			return false
		}
		if !ok {
			return false
		}
	}
	return rule.When == nil || rule.When(ev)
}

// EvaluateAll maps each candidate index independently onto a result.
// There is no cross-index interaction.
func (e *Engine) EvaluateAll(indexPaths []string, changedFile string) []Result {
	out := make([]Result, 0, len(indexPaths))
	for _, idx := range indexPaths {
		out = append(out, e.EvaluateUpdate(idx, changedFile))
	}
	return out
}

// PrioritizedUpdates evaluates every registered index against one
// changed file.
//
// # Outputs
//
//   - []Result: Only decision=true entries, sorted by priority
//     descending; equal priorities keep registry encounter order.
//   - error: Registry enumeration failure.
func (e *Engine) PrioritizedUpdates(ctx context.Context, changedFile string) ([]Result, error) {
	indexes, err := e.registry.ListIndexFiles(ctx)
	if err != nil {
		return nil, err
	}

	var updates []Result
	for _, idx := range indexes {
		if res := e.EvaluateUpdate(idx, changedFile); res.Update {
			updates = append(updates, res)
		}
	}
	sort.SliceStable(updates, func(i, j int) bool {
		return updates[i].Priority > updates[j].Priority
	})
	return updates, nil
}

// AffectedIndexes returns the index paths flagged for update, highest
// priority first. This satisfies the impact analyzer's IndexAdvisor.
func (e *Engine) AffectedIndexes(ctx context.Context, changedFile string) ([]string, error) {
	updates, err := e.PrioritizedUpdates(ctx, changedFile)
	if err != nil {
		return nil, err
	}
	paths := make([]string, 0, len(updates))
	for _, u := range updates {
		paths = append(paths, u.IndexPath)
	}
	return paths, nil
}

// InvalidateCache drops every memoized result immediately.
func (e *Engine) InvalidateCache() {
	e.cache.invalidate()
}

// CacheLen reports the number of memoized results, for tests and
// diagnostics.
func (e *Engine) CacheLen() int {
	return e.cache.len()
}

// exists reports whether a project-relative path is on disk.
func (e *Engine) exists(rel string) bool {
	p := filepath.FromSlash(rel)
	if e.cfg.Root != "" {
		p = filepath.Join(e.cfg.Root, p)
	}
	_, err := os.Stat(p)
	return err == nil
}
