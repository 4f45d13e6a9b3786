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
	"bufio"
	"context"
	"fmt"
	"io/fs"
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"
	"sync"

	"golang.org/x/mod/semver"
	"golang.org/x/sync/errgroup"
)

// Consistency sub-check names, in report order.
const (
	CheckHeaders      = "headers"
	CheckModuleDirs   = "module_dirs"
	CheckDocHierarchy = "doc_hierarchy"
	CheckDependencies = "dependencies"
)

// dependsMarker introduces a header line listing the files this file
// depends on, comma-separated, project-relative.
const dependsMarker = "Dependencies:"

// headerScanLines bounds how far into a file header markers are sought.
const headerScanLines = 40

// ValidateProjectConsistency runs the project consistency sub-checks.
//
// # Description
//
// Four independent sub-checks run concurrently and the report's
// Consistent flag is their AND:
//
//  1. headers: every recognized source file starts with a comment
//     header carrying the version marker, and the version value is a
//     valid semantic version;
//  2. module_dirs: every configured module directory exists;
//  3. doc_hierarchy: the root index, the modules navigation index, and
//     a technical index per existing module directory are present;
//  4. dependencies: the file-dependency references declared in headers
//     form no cycle (shared visited/on-stack DFS).
//
// All sub-checks are best-effort: an unreadable file is recorded in the
// report's Errors and excluded, never aborting the whole check. A
// missing root directory yields an all-passed report over zero files.
//
// # Inputs
//
//   - ctx: Cancels the walk between files.
//   - root: Project root; empty uses the configured root.
func (a *Analyzer) ValidateProjectConsistency(ctx context.Context, root string) (*ConsistencyReport, error) {
	if root == "" {
		root = a.cfg.Root
	}

	report := &ConsistencyReport{}
	checks := make([]CheckResult, 4)
	var mu sync.Mutex

	record := func(i int, check CheckResult, errs []FileError) {
		mu.Lock()
		defer mu.Unlock()
		checks[i] = check
		report.Errors = append(report.Errors, errs...)
	}

	g, gctx := errgroup.WithContext(ctx)
	g.Go(func() error {
		check, errs := a.checkHeaders(gctx, root)
		record(0, check, errs)
		return nil
	})
	g.Go(func() error {
		record(1, a.checkModuleDirs(root), nil)
		return nil
	})
	g.Go(func() error {
		record(2, a.checkDocHierarchy(root), nil)
		return nil
	})
	g.Go(func() error {
		check, errs := a.checkDependencyCycles(gctx, root)
		record(3, check, errs)
		return nil
	})
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	report.Checks = checks
	report.Consistent = true
	for _, c := range checks {
		if !c.Passed {
			report.Consistent = false
			break
		}
	}
	return report, nil
}

// checkHeaders verifies comment headers and version tags on source files.
func (a *Analyzer) checkHeaders(ctx context.Context, root string) (CheckResult, []FileError) {
	check := CheckResult{Name: CheckHeaders, Passed: true}
	var errs []FileError

	files, walkErrs := a.sourceFiles(ctx, root)
	errs = append(errs, walkErrs...)

	for _, rel := range files {
		data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
		if err != nil {
			errs = append(errs, FileError{Path: rel, Message: err.Error()})
			continue
		}
		header := headerLines(string(data))
		if len(header) == 0 {
			check.Details = append(check.Details, fmt.Sprintf("%s: missing comment header", rel))
			continue
		}
		version, found := headerValue(header, a.cfg.VersionMarker)
		if !found {
			check.Details = append(check.Details,
				fmt.Sprintf("%s: header lacks %q tag", rel, a.cfg.VersionMarker))
			continue
		}
		if !semver.IsValid(canonicalVersion(version)) {
			check.Details = append(check.Details,
				fmt.Sprintf("%s: %q is not a valid semantic version", rel, version))
		}
	}

	check.Passed = len(check.Details) == 0
	return check, errs
}

// checkModuleDirs verifies every configured module directory exists.
func (a *Analyzer) checkModuleDirs(root string) CheckResult {
	check := CheckResult{Name: CheckModuleDirs, Passed: true}
	for _, module := range a.cfg.Modules {
		info, err := os.Stat(filepath.Join(root, module))
		if err != nil || !info.IsDir() {
			check.Details = append(check.Details, fmt.Sprintf("module directory missing: %s", module))
		}
	}
	check.Passed = len(check.Details) == 0
	return check
}

// checkDocHierarchy verifies the required index files are present.
func (a *Analyzer) checkDocHierarchy(root string) CheckResult {
	check := CheckResult{Name: CheckDocHierarchy, Passed: true}

	required := []string{
		path.Join(a.cfg.DocsDir, "README.md"),
		path.Join(a.cfg.DocsDir, a.cfg.ModulesCategory, "README.md"),
	}
	for _, rel := range required {
		if !a.existsAt(root, rel) {
			check.Details = append(check.Details, fmt.Sprintf("required index missing: %s", rel))
		}
	}

	// Technical indexes are only expected for modules that exist.
	for _, module := range a.cfg.Modules {
		if !a.existsAt(root, module) {
			continue
		}
		idx := path.Join(module, "README.md")
		if !a.existsAt(root, idx) {
			check.Details = append(check.Details, fmt.Sprintf("technical index missing: %s", idx))
		}
	}

	check.Passed = len(check.Details) == 0
	return check
}

// checkDependencyCycles builds the declared file-dependency graph and
// rejects cycles.
//
// Detection is a standard iterative DFS with a shared visited set and an
// on-stack set, so cycles that do not pass through the start node are
// still found.
func (a *Analyzer) checkDependencyCycles(ctx context.Context, root string) (CheckResult, []FileError) {
	check := CheckResult{Name: CheckDependencies, Passed: true}
	var errs []FileError

	files, walkErrs := a.sourceFiles(ctx, root)
	errs = append(errs, walkErrs...)

	graph := make(map[string][]string, len(files))
	for _, rel := range files {
		deps, err := a.declaredDependencies(root, rel)
		if err != nil {
			errs = append(errs, FileError{Path: rel, Message: err.Error()})
			continue
		}
		graph[rel] = deps
	}

	nodes := make([]string, 0, len(graph))
	for n := range graph {
		nodes = append(nodes, n)
	}
	sort.Strings(nodes)

	visited := make(map[string]bool, len(graph))
	onStack := make(map[string]bool, len(graph))
	for _, start := range nodes {
		if visited[start] {
			continue
		}
		if cycle := findCycle(graph, start, visited, onStack); len(cycle) > 0 {
			check.Details = append(check.Details,
				fmt.Sprintf("cyclic dependency: %s", strings.Join(cycle, " -> ")))
		}
	}

	check.Passed = len(check.Details) == 0
	return check, errs
}

// findCycle runs one DFS pass from start, sharing visited/onStack state
// across calls. Returns the first cycle path found, or nil.
func findCycle(graph map[string][]string, start string, visited, onStack map[string]bool) []string {
	type frame struct {
		node string
		next int
	}
	stack := []frame{{node: start}}
	pathStack := []string{start}
	visited[start] = true
	onStack[start] = true

	for len(stack) > 0 {
		top := &stack[len(stack)-1]
		deps := graph[top.node]
		if top.next < len(deps) {
			dep := deps[top.next]
			top.next++
			if onStack[dep] {
				// Close the loop at the first repeated node.
				cycle := []string{dep}
				for i := len(pathStack) - 1; i >= 0; i-- {
					cycle = append(cycle, pathStack[i])
					if pathStack[i] == dep {
						break
					}
				}
				// Reverse into declaration order.
				for i, j := 0, len(cycle)-1; i < j; i, j = i+1, j-1 {
					cycle[i], cycle[j] = cycle[j], cycle[i]
				}
				return cycle
			}
			if visited[dep] {
				continue
			}
			if _, known := graph[dep]; !known {
				// Reference to a file outside the scanned set; a leaf.
				continue
			}
			visited[dep] = true
			onStack[dep] = true
			stack = append(stack, frame{node: dep})
			pathStack = append(pathStack, dep)
			continue
		}
		onStack[top.node] = false
		stack = stack[:len(stack)-1]
		pathStack = pathStack[:len(pathStack)-1]
	}
	return nil
}

// declaredDependencies parses the header's dependency list.
func (a *Analyzer) declaredDependencies(root, rel string) ([]string, error) {
	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(rel)))
	if err != nil {
		return nil, err
	}
	value, found := headerValue(headerLines(string(data)), dependsMarker)
	if !found || value == "" {
		return nil, nil
	}

	var deps []string
	for _, part := range strings.Split(value, ",") {
		dep := filepath.ToSlash(strings.TrimSpace(part))
		if dep != "" {
			deps = append(deps, dep)
		}
	}
	return deps, nil
}

// sourceFiles collects project-relative recognized source files.
func (a *Analyzer) sourceFiles(ctx context.Context, root string) ([]string, []FileError) {
	var files []string
	var errs []FileError

	walkErr := filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if ctx.Err() != nil {
			return ctx.Err()
		}
		rel, relErr := filepath.Rel(root, p)
		if relErr != nil {
			return nil
		}
		rel = filepath.ToSlash(rel)

		if err != nil {
			errs = append(errs, FileError{Path: rel, Message: err.Error()})
			if d != nil && d.IsDir() {
				return fs.SkipDir
			}
			return nil
		}
		if d.IsDir() {
			if rel != "." && a.ignored(rel+"/") {
				return fs.SkipDir
			}
			return nil
		}
		if a.ignored(rel) || !a.isSourceFile(rel) {
			return nil
		}
		files = append(files, rel)
		return nil
	})
	if walkErr != nil && ctx.Err() == nil && !os.IsNotExist(walkErr) {
		errs = append(errs, FileError{Path: root, Message: walkErr.Error()})
	}
	sort.Strings(files)
	return files, errs
}

// headerLines returns the leading comment block of a file, stripped of
// comment syntax, up to headerScanLines lines.
func headerLines(content string) []string {
	var header []string
	scanner := bufio.NewScanner(strings.NewReader(content))
	for i := 0; scanner.Scan() && i < headerScanLines; i++ {
		line := strings.TrimSpace(scanner.Text())
		if line == "" {
			if len(header) > 0 {
				continue
			}
			return header
		}
		stripped, isComment := stripCommentSyntax(line)
		if !isComment {
			break
		}
		header = append(header, stripped)
	}
	return header
}

// stripCommentSyntax removes a leading line-comment token.
func stripCommentSyntax(line string) (string, bool) {
	for _, prefix := range []string{"///", "//", "#", "*", "/*", "<!--", "--"} {
		if strings.HasPrefix(line, prefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, prefix)), true
		}
	}
	return line, false
}

// headerValue finds a marker line and returns the text after the marker.
func headerValue(header []string, marker string) (string, bool) {
	for _, line := range header {
		if idx := strings.Index(line, marker); idx >= 0 {
			return strings.TrimSpace(line[idx+len(marker):]), true
		}
	}
	return "", false
}

// canonicalVersion normalizes a version literal for semver checking.
func canonicalVersion(v string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return v
	}
	if !strings.HasPrefix(v, "v") {
		v = "v" + v
	}
	return v
}

// existsAt reports whether rel exists under root.
func (a *Analyzer) existsAt(root, rel string) bool {
	_, err := os.Stat(filepath.Join(root, filepath.FromSlash(rel)))
	return err == nil
}
