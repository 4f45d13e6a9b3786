package protect

import (
	"strings"
	"testing"
)

const csContent = `// ============================================================
// UserService
//
// LIMITATIONS:
//   - No retry logic yet
//   - Single-tenant only
//
// FUTURE WORK:
//   - Add response caching
//
// DESIGN NOTES:
//   - Stateless by construction
//
// CHANGELOG:
//   2026-02-01 created
// ============================================================

using System;

public class UserService {}
`

const mdContent = `# Project Notes

Known Limitations:
- requires Go 1.22

Future Work:
- split the parser

---8<---
Other content
`

func TestExtractSectionsCommentHeader(t *testing.T) {
	p := NewParser(DefaultMarkerConfig())
	sections := p.ExtractSections(csContent)

	want := map[string]string{
		"Limitations": "// LIMITATIONS:\n//   - No retry logic yet\n//   - Single-tenant only",
		"FutureWork":  "// FUTURE WORK:\n//   - Add response caching",
		"DesignNotes": "// DESIGN NOTES:\n//   - Stateless by construction",
	}
	if len(sections) != len(want) {
		t.Fatalf("sections = %d, want %d: %#v", len(sections), len(want), sections)
	}
	for name, span := range want {
		if got := sections[name]; got != span {
			t.Errorf("section %s =\n%q\nwant\n%q", name, got, span)
		}
	}
}

func TestExtractSectionsPlainTextHeader(t *testing.T) {
	p := NewParser(DefaultMarkerConfig())
	sections := p.ExtractSections(mdContent)

	if got := sections["Limitations"]; got != "Known Limitations:\n- requires Go 1.22" {
		t.Errorf("Limitations = %q", got)
	}
	if got := sections["FutureWork"]; got != "Future Work:\n- split the parser" {
		t.Errorf("FutureWork = %q", got)
	}
	if _, ok := sections["DesignNotes"]; ok {
		t.Error("DesignNotes extracted despite no marker")
	}
}

func TestExtractSectionsHashComments(t *testing.T) {
	content := "# LIMITATIONS:\n#   - single threaded\n#\n# CHANGELOG:\n# 2026-02-01\nimport os\n"
	p := NewParser(DefaultMarkerConfig())
	sections := p.ExtractSections(content)

	if got := sections["Limitations"]; got != "# LIMITATIONS:\n#   - single threaded" {
		t.Errorf("Limitations = %q", got)
	}
}

func TestExtractSectionsCRLF(t *testing.T) {
	content := strings.ReplaceAll(csContent, "\n", "\r\n")
	p := NewParser(DefaultMarkerConfig())
	sections := p.ExtractSections(content)
	if got := sections["FutureWork"]; got != "// FUTURE WORK:\n//   - Add response caching" {
		t.Errorf("FutureWork under CRLF = %q", got)
	}
}

func TestExtractSectionsMarkerAtEOF(t *testing.T) {
	content := "prose\n\nFUTURE WORK:\n- finish everything\n"
	p := NewParser(DefaultMarkerConfig())
	sections := p.ExtractSections(content)
	if got := sections["FutureWork"]; got != "FUTURE WORK:\n- finish everything" {
		t.Errorf("FutureWork = %q", got)
	}
}

func TestExtractSectionsIgnoresBodyMarkers(t *testing.T) {
	// A marker phrase inside code (after the header block) must not
	// be captured.
	content := "// header prose\n\nusing System;\n\nvar s = \"LIMITATIONS: none\";\n"
	p := NewParser(DefaultMarkerConfig())
	if sections := p.ExtractSections(content); len(sections) != 0 {
		t.Errorf("captured markers from code body: %#v", sections)
	}
}

func TestExtractSectionsRuleTerminator(t *testing.T) {
	content := "DESIGN NOTES:\n- keep it pure\n====\ntrailing\n"
	p := NewParser(DefaultMarkerConfig())
	if got := p.ExtractSections(content)["DesignNotes"]; got != "DESIGN NOTES:\n- keep it pure" {
		t.Errorf("DesignNotes = %q", got)
	}
}

func TestExtractSectionsPhraseOrderWins(t *testing.T) {
	// "PLANNED:" appears earlier in the file, but "FUTURE WORK:" is
	// listed first for the category, so it wins.
	content := "PLANNED:\n- alpha\n\nFUTURE WORK:\n- beta\n"
	p := NewParser(DefaultMarkerConfig())
	got := p.ExtractSections(content)["FutureWork"]
	if !strings.HasPrefix(got, "FUTURE WORK:") {
		t.Errorf("FutureWork = %q, want span anchored at FUTURE WORK:", got)
	}
}

func TestHasAllCategories(t *testing.T) {
	p := NewParser(DefaultMarkerConfig())

	if !p.HasAllCategories(csContent) {
		t.Error("full header reported incomplete")
	}
	partial := strings.ReplaceAll(csContent, "DESIGN NOTES:", "NOTES:")
	if p.HasAllCategories(partial) {
		t.Error("missing DesignNotes reported complete")
	}
	if p.HasAllCategories("") {
		t.Error("empty content reported complete")
	}
}

func TestSpliceLine(t *testing.T) {
	p := NewParser(DefaultMarkerConfig())

	lines := splitLines(csContent)
	idx := p.SpliceLine(lines)
	if !strings.Contains(lines[idx], "CHANGELOG:") {
		t.Errorf("SpliceLine = %d (%q), want the changelog line", idx, lines[idx])
	}

	// No anchor: falls back to the end of the header block.
	noAnchor := "// prose\n\nusing System;\n\npublic class A {}\n"
	lines = splitLines(noAnchor)
	idx = p.SpliceLine(lines)
	if strings.TrimSpace(lines[idx]) != "using System;" {
		t.Errorf("fallback SpliceLine = %d (%q), want first code line", idx, lines[idx])
	}
}

func TestNewParserZeroConfig(t *testing.T) {
	p := NewParser(MarkerConfig{})
	if len(p.Categories()) == 0 {
		t.Fatal("zero-config parser has no categories")
	}
	if got := p.ExtractSections(csContent); len(got) != 3 {
		t.Errorf("zero-config parser extracted %d sections, want 3", len(got))
	}
}

func TestStripComment(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"// LIMITATIONS:", "LIMITATIONS:"},
		{"  //   spaced", "spaced"},
		{"# hashed", "hashed"},
		{"<!-- html note -->", "html note"},
		{"plain text", "plain text"},
		{"", ""},
	}
	for _, tt := range tests {
		if got := stripComment(tt.in); got != tt.want {
			t.Errorf("stripComment(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestIsRuleLine(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"====", true},
		{"============================", true},
		{"----", true},
		{"===", false},
		{"==-=", false},
		{"- item", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isRuleLine(tt.in); got != tt.want {
			t.Errorf("isRuleLine(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsTypeDeclLine(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"public sealed class UserService", true},
		{"class Foo:", true},
		{"type Config struct {", true},
		{"namespace Aleutian.Docs", true},
		{"public interface IThing", true},
		{"class", false},
		{"The class does things", false},
		{"var class = 1", false},
		{"", false},
	}
	for _, tt := range tests {
		if got := isTypeDeclLine(tt.in); got != tt.want {
			t.Errorf("isTypeDeclLine(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestIsImportLine(t *testing.T) {
	tests := []struct {
		in   string
		want bool
	}{
		{"using System;", true},
		{"import os", true},
		{"import (", true},
		{"from pathlib import Path", true},
		{"#include <stdio.h>", true},
		{"reusing the helper", false},
		{"importance of tests", false},
	}
	for _, tt := range tests {
		if got := isImportLine(tt.in); got != tt.want {
			t.Errorf("isImportLine(%q) = %v, want %v", tt.in, got, tt.want)
		}
	}
}

func TestLineEnding(t *testing.T) {
	if got := lineEnding("a\r\nb"); got != "\r\n" {
		t.Errorf("lineEnding CRLF = %q", got)
	}
	if got := lineEnding("a\nb"); got != "\n" {
		t.Errorf("lineEnding LF = %q", got)
	}
}
