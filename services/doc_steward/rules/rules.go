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
	"strings"

	"github.com/AleutianAI/DocSteward/services/doc_steward/docindex"
)

// buildRuleSet assembles the per-type rule tables.
//
// Order within a table is evaluation order: highest priority first,
// first match wins.
func (e *Engine) buildRuleSet() map[docindex.IndexType][]Rule {
	return map[docindex.IndexType][]Rule{
		docindex.TypeRoot: {
			{
				Name:     "navigation_index_changed",
				Priority: 10,
				When: func(ev *Evaluation) bool {
					return ev.ChangedNode.Type == docindex.TypeNavigation
				},
				Reason:  "a navigation index changed; the root aggregator lists it",
				Actions: []string{"Refresh the category listing in the root index"},
			},
			{
				Name:     "module_summary_changed",
				Priority: 7,
				When:     e.changedIsModuleSummary,
				Reason:   "a module summary changed; the root overview references it",
				Actions:  []string{"Review the module overview section of the root index"},
			},
			{
				Name:     "new_category_document",
				Priority: 5,
				When: func(ev *Evaluation) bool {
					return e.isCategoryDocument(ev) && !ev.ChangedExists
				},
				Reason:  "a new category document appeared",
				Actions: []string{"Add the new document to the root index if it is top-level material"},
			},
		},
		docindex.TypeNavigation: {
			{
				Name:     "same_category_change",
				Priority: 9,
				When:     e.underIndexCategory,
				Reason:   "a file under this index's category subtree changed",
				Actions:  []string{"Update the navigation entries for this category"},
			},
			{
				Name:     "module_summary_for_modules_navigation",
				Priority: 8,
				When: func(ev *Evaluation) bool {
					return strings.EqualFold(ev.Index.Category, e.classifier.ModulesCategory()) &&
						e.changedIsModuleSummary(ev)
				},
				Reason:  "a module summary changed; the modules navigation index lists summaries",
				Actions: []string{"Update the module listing in the navigation index"},
			},
			{
				Name:     "related_structural_change",
				Priority: 4,
				When: func(ev *Evaluation) bool {
					return e.isStructural(ev) && e.topicallyRelated(ev)
				},
				Reason:  "a structural change touches this index's subject area",
				Actions: []string{"Check whether the navigation structure still matches the tree"},
			},
		},
		docindex.TypeTechnical: {
			{
				Name:     "module_source_change",
				Priority: 10,
				Pattern:  e.cfg.SourcePattern,
				When: func(ev *Evaluation) bool {
					return ev.ChangedModule != "" &&
						strings.EqualFold(ev.ChangedModule, ev.Index.Module)
				},
				Reason:  "source in this index's own module changed",
				Actions: []string{"Update the technical index for the changed source files"},
			},
			{
				Name:     "tooling_change",
				Priority: 8,
				Pattern:  e.cfg.ToolingPattern,
				When: func(ev *Evaluation) bool {
					return strings.EqualFold(ev.Index.Module, e.cfg.ToolingModule)
				},
				Reason:  "a tooling file changed; the tooling module's index tracks them",
				Actions: []string{"Update the tooling index entries"},
			},
			{
				Name:     "module_configuration_change",
				Priority: 3,
				Pattern:  e.cfg.ConfigPattern,
				When: func(ev *Evaluation) bool {
					return ev.Index.Module != "" && containsFold(ev.Changed, ev.Index.Module)
				},
				Reason:  "a configuration file naming this module changed",
				Actions: []string{"Verify the configuration notes in the technical index"},
			},
		},
		docindex.TypeCategory: {
			{
				Name:     "new_category_document",
				Priority: 9,
				When: func(ev *Evaluation) bool {
					return e.underIndexCategory(ev) && isMarkdown(ev.Changed) && !ev.ChangedExists
				},
				Reason:  "a new document appeared under this category",
				Actions: []string{"Add the new document to the category index"},
			},
			{
				Name:     "nested_category_file",
				Priority: 6,
				When: func(ev *Evaluation) bool {
					return e.underIndexCategory(ev) && nestedBelowCategory(ev.Changed)
				},
				Reason:  "a nested file under this category changed",
				Actions: []string{"Review the category index's sub-directory listings"},
			},
		},
		docindex.TypeUnknown: {
			{
				Name:     "structural_change",
				Priority: 2,
				When:     e.isStructural,
				Reason:   "a structural change may affect unclassified documentation",
				Actions:  []string{"Review documentation impact manually"},
			},
		},
	}
}

// changedIsModuleSummary reports whether the changed file is a module
// summary document.
func (e *Engine) changedIsModuleSummary(ev *Evaluation) bool {
	_, ok := e.classifier.ModuleSummary(ev.Changed)
	return ok
}

// isCategoryDocument reports a markdown file under a docs-tree category
// that is not itself an index.
func (e *Engine) isCategoryDocument(ev *Evaluation) bool {
	if _, ok := e.classifier.CategoryOf(ev.Changed); !ok {
		return false
	}
	return isMarkdown(ev.Changed) && !e.classifier.IsIndexFile(ev.Changed)
}

// underIndexCategory reports whether the changed file sits in the same
// category subtree as the index.
func (e *Engine) underIndexCategory(ev *Evaluation) bool {
	if ev.Index.Category == "" {
		return false
	}
	category, ok := e.classifier.CategoryOf(ev.Changed)
	return ok && strings.EqualFold(category, ev.Index.Category)
}

// isStructural reports a change that itself affects documentation
// organization: a module summary, any index file, or a file under the
// tooling module.
func (e *Engine) isStructural(ev *Evaluation) bool {
	if e.changedIsModuleSummary(ev) || e.classifier.IsIndexFile(ev.Changed) {
		return true
	}
	return ev.ChangedModule != "" && strings.EqualFold(ev.ChangedModule, e.cfg.ToolingModule)
}

// topicallyRelated reports whether the change mentions the index's
// category in its path or module name.
func (e *Engine) topicallyRelated(ev *Evaluation) bool {
	if ev.Index.Category == "" {
		return false
	}
	return containsFold(ev.Changed, ev.Index.Category) ||
		containsFold(ev.ChangedModule, ev.Index.Category)
}

// nestedBelowCategory reports a path at least one directory deeper than
// the category itself (docs/<category>/<sub>/...).
func nestedBelowCategory(changed string) bool {
	return strings.Count(changed, "/") >= 3
}

func isMarkdown(p string) bool {
	return strings.HasSuffix(strings.ToLower(p), ".md")
}

func containsFold(haystack, needle string) bool {
	if needle == "" {
		return false
	}
	return strings.Contains(strings.ToLower(haystack), strings.ToLower(needle))
}
