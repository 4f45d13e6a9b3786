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

import (
	"fmt"
	"path"
	"sort"
	"strings"

	"github.com/AleutianAI/DocSteward/pkg/validation"
)

// Priority bounds for module update recommendations.
const (
	minPriority = 1
	maxPriority = 5
)

// ExtractModuleName resolves the owning module of a changed-file path.
//
// # Description
//
// Pure and total: the path's first segment (after normalizing both
// separator styles) is matched case-insensitively against the configured
// module set. Any input yields a result; unmatched or malformed paths
// return not-ok, never an error.
//
// # Outputs
//
//   - string: The module's declared spelling, empty when not-ok.
//   - bool: True when the first segment names a recognized module.
func (a *Analyzer) ExtractModuleName(p string) (string, bool) {
	return a.classifier.ModuleOf(p)
}

// ClassifyChange enriches a changed path with its module and kind.
//
// The kind is approximated from current existence: absent means Added,
// present means Modified. There is no VCS integration.
func (a *Analyzer) ClassifyChange(p string) ChangedFile {
	rel := validation.NormalizeRelPath(p)
	module, _ := a.classifier.ModuleOf(rel)
	kind := KindAdded
	if a.exists(rel) {
		kind = KindModified
	}
	return ChangedFile{Path: rel, Module: module, Kind: kind}
}

// DetectModuleChanges groups a change set by module with human-readable
// descriptions.
//
// # Description
//
// Each changed file that belongs to a recognized module contributes one
// description synthesized from its extension class and an Added/Modified
// label, e.g. "Added C# class: NewThing.cs". Files outside every module
// are dropped. Descriptions keep input encounter order within a module.
func (a *Analyzer) DetectModuleChanges(changed []string) map[string][]string {
	out := make(map[string][]string)
	for _, p := range changed {
		cf := a.ClassifyChange(p)
		if cf.Module == "" || cf.Path == "" || cf.Path == "." {
			continue
		}
		out[cf.Module] = append(out[cf.Module], a.describeChange(cf))
	}
	return out
}

// describeChange renders one change as prose.
func (a *Analyzer) describeChange(cf ChangedFile) string {
	label := "Modified"
	if cf.Kind == KindAdded {
		label = "Added"
	}
	class, ok := a.cfg.ExtensionClasses[strings.ToLower(path.Ext(cf.Path))]
	if !ok {
		class = "file"
	}
	return fmt.Sprintf("%s %s: %s", label, class, path.Base(cf.Path))
}

// AnalyzeModuleActivity turns grouped module changes into prioritized
// update recommendations.
//
// # Description
//
// Priority starts at 1 and gains: +2 when a module has five or more
// changes, +1 for three or four, +1 when any change is an addition, and
// +1 when any description mentions a core keyword; capped at 5. The
// recommended action differs by whether the module's summary document
// exists and by the added/modified mix.
//
// # Outputs
//
//   - []ModuleUpdateRecommendation: Ordered by descending priority;
//     modules with equal priority stay in name order (stable).
func (a *Analyzer) AnalyzeModuleActivity(moduleChanges map[string][]string) []ModuleUpdateRecommendation {
	modules := make([]string, 0, len(moduleChanges))
	for m := range moduleChanges {
		modules = append(modules, m)
	}
	sort.Strings(modules)

	recs := make([]ModuleUpdateRecommendation, 0, len(modules))
	for _, module := range modules {
		descriptions := moduleChanges[module]
		if len(descriptions) == 0 {
			continue
		}
		recs = append(recs, a.recommend(module, descriptions))
	}

	sort.SliceStable(recs, func(i, j int) bool {
		return recs[i].Priority > recs[j].Priority
	})
	return recs
}

// recommend builds one module's recommendation.
func (a *Analyzer) recommend(module string, descriptions []string) ModuleUpdateRecommendation {
	added, modified := 0, 0
	hasKeyword := false
	for _, d := range descriptions {
		if strings.HasPrefix(d, "Added ") {
			added++
		} else {
			modified++
		}
		for _, kw := range a.cfg.CoreKeywords {
			if strings.Contains(d, kw) {
				hasKeyword = true
				break
			}
		}
	}

	priority := minPriority
	switch n := len(descriptions); {
	case n >= 5:
		priority += 2
	case n >= 3:
		priority++
	}
	if added > 0 {
		priority++
	}
	if hasKeyword {
		priority++
	}
	if priority > maxPriority {
		priority = maxPriority
	}

	summary := a.registry.ModuleSummaryPath(module)
	summaryExists := a.exists(summary)

	return ModuleUpdateRecommendation{
		Module:            module,
		SummaryPath:       summary,
		ChangeCount:       len(descriptions),
		Priority:          priority,
		SummaryExists:     summaryExists,
		RecommendedAction: recommendAction(module, summaryExists, added, modified),
	}
}

// recommendAction renders the next step for a module's summary doc.
func recommendAction(module string, summaryExists bool, added, modified int) string {
	if !summaryExists {
		return fmt.Sprintf("Create summary documentation for the %s module (%d change(s) pending)",
			module, added+modified)
	}
	switch {
	case added > 0 && modified > 0:
		return fmt.Sprintf("Update the %s summary: document %d added file(s) and review %d modified",
			module, added, modified)
	case added > 0:
		return fmt.Sprintf("Update the %s summary: document %d added file(s)", module, added)
	default:
		return fmt.Sprintf("Review the %s summary against %d modified file(s)", module, modified)
	}
}
