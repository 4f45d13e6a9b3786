// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package protect

import "strings"

// MarkerConfig is the marker vocabulary for the header parser. It is
// configuration data, not code: callers can rename categories, add
// marker phrases, or extend terminators without touching the parser.
type MarkerConfig struct {
	// Categories lists the protected critical sections, in the order
	// restored text is emitted.
	Categories []Category

	// Terminators are literal phrases that close a captured span when
	// a line starts with one of them. Structural terminators (rule
	// lines, file separators, import/using statements, type
	// declarations, other category markers) are always recognized.
	Terminators []string

	// RestoreAnchors are splice targets: restored sections are
	// inserted immediately before the first line containing one.
	// The end of the header block is the fallback.
	RestoreAnchors []string
}

// DefaultMarkerConfig returns the built-in marker vocabulary.
func DefaultMarkerConfig() MarkerConfig {
	return MarkerConfig{
		Categories: []Category{
			{Name: "Limitations", Markers: []string{"LIMITATIONS:", "Known Limitations:", "KNOWN LIMITATIONS"}},
			{Name: "FutureWork", Markers: []string{"FUTURE WORK:", "Future Work:", "PLANNED:"}},
			{Name: "DesignNotes", Markers: []string{"DESIGN NOTES:", "Design Notes:", "ARCHITECTURE NOTES:"}},
		},
		Terminators:    []string{"CHANGELOG:", "=== FILE:", "---8<---"},
		RestoreAnchors: []string{"CHANGELOG:", "=== FILE:", "---8<---"},
	}
}

// Parser extracts critical-section spans from a file's leading header
// block. It understands `//`, `#`, and single-line `<!-- -->` comment
// styles plus plain text headers.
//
// Thread Safety: Parser is immutable after construction and safe for
// concurrent use.
type Parser struct {
	cfg MarkerConfig
}

// NewParser creates a parser. A zero-value config falls back to
// DefaultMarkerConfig.
func NewParser(cfg MarkerConfig) *Parser {
	if len(cfg.Categories) == 0 {
		defaults := DefaultMarkerConfig()
		cfg.Categories = defaults.Categories
		if len(cfg.Terminators) == 0 {
			cfg.Terminators = defaults.Terminators
		}
		if len(cfg.RestoreAnchors) == 0 {
			cfg.RestoreAnchors = defaults.RestoreAnchors
		}
	}
	return &Parser{cfg: cfg}
}

// Categories returns the configured category list, in emission order.
func (p *Parser) Categories() []Category {
	return p.cfg.Categories
}

// ExtractSections locates every configured category inside the header
// block and captures its raw text span.
//
// A span runs from the line carrying the first matching marker phrase
// to the nearest terminator after it, trailing blank lines trimmed.
// Captured text is raw: comment prefixes are preserved so a restored
// span is byte-identical to what was backed up. Only categories whose
// marker is present appear in the result.
func (p *Parser) ExtractSections(content string) map[string]string {
	lines := splitLines(content)
	end := p.headerEnd(lines)

	sections := make(map[string]string)
	for _, cat := range p.cfg.Categories {
		start := p.findMarker(lines[:end], cat)
		if start < 0 {
			continue
		}
		stop := end
		for j := start + 1; j < end; j++ {
			if p.terminates(lines[j]) {
				stop = j
				break
			}
		}
		span := lines[start:stop]
		for len(span) > 0 && strings.TrimSpace(stripComment(span[len(span)-1])) == "" {
			span = span[:len(span)-1]
		}
		sections[cat.Name] = strings.Join(span, "\n")
	}
	return sections
}

// HasAllCategories reports whether every configured category has at
// least one marker phrase in the header block.
func (p *Parser) HasAllCategories(content string) bool {
	lines := splitLines(content)
	header := lines[:p.headerEnd(lines)]
	for _, cat := range p.cfg.Categories {
		if p.findMarker(header, cat) < 0 {
			return false
		}
	}
	return true
}

// SpliceLine returns the line index restored sections are inserted at:
// the first line containing a restore anchor, or the end of the header
// block when no anchor exists.
func (p *Parser) SpliceLine(lines []string) int {
	for i, line := range lines {
		stripped := stripComment(line)
		for _, anchor := range p.cfg.RestoreAnchors {
			if strings.Contains(stripped, anchor) {
				return i
			}
		}
	}
	return p.headerEnd(lines)
}

// findMarker returns the line index of the category's earliest-listed
// marker phrase, or -1. Phrase order expresses preference: the first
// phrase that appears anywhere wins, regardless of line position.
func (p *Parser) findMarker(lines []string, cat Category) int {
	for _, phrase := range cat.Markers {
		for i, line := range lines {
			if strings.Contains(stripComment(line), phrase) {
				return i
			}
		}
	}
	return -1
}

// terminates reports whether a line closes an open span.
func (p *Parser) terminates(line string) bool {
	stripped := stripComment(line)
	if stripped == "" {
		return false
	}
	if isRuleLine(stripped) || isFileSeparator(stripped) {
		return true
	}
	for _, phrase := range p.cfg.Terminators {
		if strings.HasPrefix(stripped, phrase) {
			return true
		}
	}
	for _, cat := range p.cfg.Categories {
		for _, phrase := range cat.Markers {
			if strings.Contains(stripped, phrase) {
				return true
			}
		}
	}
	return isImportLine(stripped) || isTypeDeclLine(stripped)
}

// headerEnd returns the index of the first code line (import/using or
// type declaration), bounding marker searches to the leading header
// block. Files without code lines, markdown typically, are all header.
func (p *Parser) headerEnd(lines []string) int {
	for i, line := range lines {
		trimmed := strings.TrimSpace(line)
		if isImportLine(trimmed) || isTypeDeclLine(trimmed) {
			return i
		}
	}
	return len(lines)
}

// splitLines normalizes both line-ending styles and splits.
func splitLines(content string) []string {
	return strings.Split(strings.ReplaceAll(content, "\r\n", "\n"), "\n")
}

// lineEnding detects the file's dominant line-ending style.
func lineEnding(content string) string {
	if strings.Contains(content, "\r\n") {
		return "\r\n"
	}
	return "\n"
}

// stripComment removes a leading line-comment token and surrounding
// whitespace, exposing the prose of a comment line. Plain text lines
// pass through trimmed.
func stripComment(line string) string {
	s := strings.TrimSpace(line)
	switch {
	case strings.HasPrefix(s, "//"):
		s = strings.TrimPrefix(s, "//")
	case strings.HasPrefix(s, "#"):
		s = strings.TrimPrefix(s, "#")
	case strings.HasPrefix(s, "<!--"):
		s = strings.TrimPrefix(s, "<!--")
		s = strings.TrimSuffix(strings.TrimSpace(s), "-->")
	}
	return strings.TrimSpace(s)
}

// isRuleLine reports a horizontal rule: four or more uniform '=' or '-'.
func isRuleLine(stripped string) bool {
	if len(stripped) < 4 {
		return false
	}
	first := stripped[0]
	if first != '=' && first != '-' {
		return false
	}
	for i := 1; i < len(stripped); i++ {
		if stripped[i] != first {
			return false
		}
	}
	return true
}

// isFileSeparator reports a multi-file bundle separator line.
func isFileSeparator(stripped string) bool {
	return strings.Contains(stripped, "---8<---") || strings.HasPrefix(stripped, "=== FILE:")
}

// isImportLine reports an import/using/include statement.
func isImportLine(stripped string) bool {
	return strings.HasPrefix(stripped, "import ") ||
		strings.HasPrefix(stripped, "import(") ||
		strings.HasPrefix(stripped, "import (") ||
		strings.HasPrefix(stripped, "using ") ||
		strings.HasPrefix(stripped, "#include ") ||
		(strings.HasPrefix(stripped, "from ") && strings.Contains(stripped, " import "))
}

// typeDeclKeywords start a type declaration once visibility and other
// modifiers are skipped.
var typeDeclKeywords = map[string]struct{}{
	"class": {}, "struct": {}, "interface": {}, "enum": {},
	"record": {}, "type": {}, "namespace": {},
}

// typeDeclModifiers may precede a type declaration keyword.
var typeDeclModifiers = map[string]struct{}{
	"public": {}, "private": {}, "protected": {}, "internal": {},
	"static": {}, "sealed": {}, "abstract": {}, "partial": {}, "final": {},
	"export": {},
}

// isTypeDeclLine reports a type declaration, tolerating leading
// modifiers ("public sealed class Foo").
func isTypeDeclLine(stripped string) bool {
	fields := strings.Fields(stripped)
	for i, f := range fields {
		if _, ok := typeDeclKeywords[f]; ok {
			// A bare keyword with nothing after it is prose, not code.
			return i+1 < len(fields)
		}
		if _, ok := typeDeclModifiers[f]; !ok {
			return false
		}
	}
	return false
}
