// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package docindex

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

// writeFile creates a file under root, making parent directories as needed.
func writeFile(t *testing.T, root, rel, content string) string {
	t.Helper()
	abs := filepath.Join(root, filepath.FromSlash(rel))
	if err := os.MkdirAll(filepath.Dir(abs), 0755); err != nil {
		t.Fatalf("mkdir for %s: %v", rel, err)
	}
	if err := os.WriteFile(abs, []byte(content), 0644); err != nil {
		t.Fatalf("write %s: %v", rel, err)
	}
	return abs
}

func newTestRegistry(t *testing.T, root string, ignore []string) *FSRegistry {
	t.Helper()
	reg, err := NewFSRegistry(FSRegistryOptions{Root: root, IgnoreGlobs: ignore})
	if err != nil {
		t.Fatalf("NewFSRegistry: %v", err)
	}
	return reg
}

func TestNewFSRegistryRequiresRoot(t *testing.T) {
	if _, err := NewFSRegistry(FSRegistryOptions{}); err == nil {
		t.Fatal("expected error for missing root")
	}
}

func TestListIndexFiles(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/README.md", "# Docs\n")
	writeFile(t, root, "docs/guides/README.md", "# Guides\n")
	writeFile(t, root, "docs/guides/setup.md", "# Setup\n")
	writeFile(t, root, "Services/README.md", "# Services\n")
	writeFile(t, root, "Services/UserService.cs", "class UserService {}\n")
	writeFile(t, root, "vendor/README.md", "# Vendor\n")

	reg := newTestRegistry(t, root, nil)
	got, err := reg.ListIndexFiles(context.Background())
	if err != nil {
		t.Fatalf("ListIndexFiles: %v", err)
	}

	want := []string{
		"Services/README.md",
		"docs/README.md",
		"docs/guides/README.md",
	}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListIndexFiles = %v, want %v", got, want)
	}
}

func TestListIndexFilesIgnoreGlobs(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/README.md", "# Docs\n")
	writeFile(t, root, "docs/archive/README.md", "# Old\n")
	writeFile(t, root, "Services/README.md", "# Services\n")

	reg := newTestRegistry(t, root, []string{"docs/archive/**"})
	got, err := reg.ListIndexFiles(context.Background())
	if err != nil {
		t.Fatalf("ListIndexFiles: %v", err)
	}

	want := []string{"Services/README.md", "docs/README.md"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("ListIndexFiles = %v, want %v", got, want)
	}
}

func TestListIndexFilesCancelled(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/README.md", "# Docs\n")

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	reg := newTestRegistry(t, root, nil)
	if _, err := reg.ListIndexFiles(ctx); !errors.Is(err, context.Canceled) {
		t.Errorf("ListIndexFiles on cancelled ctx = %v, want context.Canceled", err)
	}
}

func TestRegistryClassify(t *testing.T) {
	root := t.TempDir()
	reg := newTestRegistry(t, root, nil)

	node := reg.Classify("docs/guides/README.md")
	if node.Type != TypeNavigation || node.Category != "guides" {
		t.Errorf("Classify = %+v, want navigation/guides", node)
	}

	// Absolute paths under the root are stripped back to relative.
	node = reg.Classify(filepath.Join(root, "docs", "README.md"))
	if node.Type != TypeRoot {
		t.Errorf("Classify(abs) = %+v, want root index", node)
	}
}

func TestModuleSummaryPath(t *testing.T) {
	reg := newTestRegistry(t, t.TempDir(), nil)
	if got := reg.ModuleSummaryPath("Services"); got != "docs/modules/Services.md" {
		t.Errorf("ModuleSummaryPath = %q", got)
	}
}

func TestEnsureModuleSummaryCreates(t *testing.T) {
	root := t.TempDir()
	reg := newTestRegistry(t, root, nil)

	rel, err := reg.EnsureModuleSummary(context.Background(), "Services")
	if err != nil {
		t.Fatalf("EnsureModuleSummary: %v", err)
	}
	if rel != "docs/modules/Services.md" {
		t.Errorf("rel = %q", rel)
	}

	data, err := os.ReadFile(filepath.Join(root, "docs", "modules", "Services.md"))
	if err != nil {
		t.Fatalf("summary not created: %v", err)
	}
	if !strings.Contains(string(data), "# Services Module") {
		t.Errorf("summary body missing title: %q", string(data))
	}
}

func TestEnsureModuleSummaryExisting(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/modules/Services.md", "hand-written content\n")

	reg := newTestRegistry(t, root, nil)
	rel, err := reg.EnsureModuleSummary(context.Background(), "Services")
	if err != nil {
		t.Fatalf("EnsureModuleSummary: %v", err)
	}
	if rel != "docs/modules/Services.md" {
		t.Errorf("rel = %q", rel)
	}

	data, _ := os.ReadFile(filepath.Join(root, "docs", "modules", "Services.md"))
	if string(data) != "hand-written content\n" {
		t.Error("existing summary was overwritten")
	}
}

func TestEnsureModuleSummaryRejectsBadName(t *testing.T) {
	reg := newTestRegistry(t, t.TempDir(), nil)
	if _, err := reg.EnsureModuleSummary(context.Background(), "../escape"); err == nil {
		t.Fatal("expected error for traversal in module name")
	}
	if _, err := reg.EnsureModuleSummary(context.Background(), ""); err == nil {
		t.Fatal("expected error for empty module name")
	}
}

func TestApplyUpdate(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/README.md", "alpha\nbeta\nalpha\n")

	reg := newTestRegistry(t, root, nil)
	if err := reg.ApplyUpdate(context.Background(), "docs/README.md", "alpha", "gamma"); err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}

	data, _ := os.ReadFile(filepath.Join(root, "docs", "README.md"))
	if got := string(data); got != "gamma\nbeta\nalpha\n" {
		t.Errorf("content = %q, want first occurrence replaced only", got)
	}
}

func TestApplyUpdateIdempotent(t *testing.T) {
	root := t.TempDir()
	abs := writeFile(t, root, "docs/README.md", "alpha\n")
	before, err := os.Stat(abs)
	if err != nil {
		t.Fatal(err)
	}

	reg := newTestRegistry(t, root, nil)
	if err := reg.ApplyUpdate(context.Background(), "docs/README.md", "alpha", "alpha"); err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}

	after, err := os.Stat(abs)
	if err != nil {
		t.Fatal(err)
	}
	if !after.ModTime().Equal(before.ModTime()) {
		t.Error("byte-identical update rewrote the file")
	}
}

func TestApplyUpdatePreservesFileMode(t *testing.T) {
	root := t.TempDir()
	abs := writeFile(t, root, "docs/README.md", "alpha\n")
	if err := os.Chmod(abs, 0600); err != nil {
		t.Fatal(err)
	}

	reg := newTestRegistry(t, root, nil)
	if err := reg.ApplyUpdate(context.Background(), "docs/README.md", "alpha", "beta"); err != nil {
		t.Fatalf("ApplyUpdate: %v", err)
	}

	info, err := os.Stat(abs)
	if err != nil {
		t.Fatal(err)
	}
	if got := info.Mode().Perm(); got != 0600 {
		t.Errorf("mode = %o, want 0600 preserved across rewrite", got)
	}
}

func TestApplyUpdateTextNotFound(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "docs/README.md", "alpha\n")

	reg := newTestRegistry(t, root, nil)
	err := reg.ApplyUpdate(context.Background(), "docs/README.md", "missing", "whatever")
	if !errors.Is(err, ErrTextNotFound) {
		t.Errorf("err = %v, want ErrTextNotFound", err)
	}

	err = reg.ApplyUpdate(context.Background(), "docs/README.md", "", "whatever")
	if !errors.Is(err, ErrTextNotFound) {
		t.Errorf("empty target err = %v, want ErrTextNotFound", err)
	}
}

func TestApplyUpdateRejectsEscape(t *testing.T) {
	reg := newTestRegistry(t, t.TempDir(), nil)
	err := reg.ApplyUpdate(context.Background(), "../outside.md", "a", "b")
	if !errors.Is(err, ErrOutsideRoot) {
		t.Errorf("err = %v, want ErrOutsideRoot", err)
	}
}

func TestStaticTemplates(t *testing.T) {
	body := StaticTemplates{}.ModuleSummary("Api")
	if !strings.HasPrefix(body, "# Api Module\n") {
		t.Errorf("template body = %q", body)
	}
	if !strings.Contains(body, "## Overview") {
		t.Error("template missing overview section")
	}
}
