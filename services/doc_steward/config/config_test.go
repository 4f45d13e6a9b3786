// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gopkg.in/yaml.v3"
)

// =============================================================================
// Default Tests
// =============================================================================

func TestDefault_IsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())
}

func TestDefault_CoreValues(t *testing.T) {
	cfg := Default()

	assert.Contains(t, cfg.Project.Modules, "Services")
	assert.Equal(t, "Scripts", cfg.Project.ToolingModule)
	assert.Equal(t, []string{"Service", "Manager", "Helper", "Client"}, cfg.Project.CoreKeywords)
	assert.Equal(t, "docs", cfg.Docs.Dir)
	assert.Equal(t, "modules", cfg.Docs.ModulesCategory)
	assert.Equal(t, "CHANGELOG.md", cfg.Docs.ChangelogPath)
	assert.Equal(t, 1, cfg.Dates.MaxFutureDays)
	assert.Equal(t, 7, cfg.Dates.MaxPastDays)
	assert.Equal(t, 5*time.Minute, cfg.Rules.CacheTTL.Std())
	assert.Equal(t, 500*time.Millisecond, cfg.Watch.DebounceDelay.Std())
	assert.Equal(t, "memory", cfg.Protect.Store)
}

// =============================================================================
// Validation Tests
// =============================================================================

func TestValidate_Rejections(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty modules", func(c *Config) { c.Project.Modules = nil }},
		{"tooling module not declared", func(c *Config) { c.Project.ToolingModule = "Ghost" }},
		{"extension without dot", func(c *Config) { c.Project.SourceExtensions = []string{"cs"} }},
		{"no protect sections", func(c *Config) { c.Protect.Sections = nil }},
		{"section without markers", func(c *Config) {
			c.Protect.Sections = []SectionConfig{{Name: "Limitations"}}
		}},
		{"duplicate section name", func(c *Config) {
			c.Protect.Sections = append(c.Protect.Sections, c.Protect.Sections[0])
		}},
		{"badger store without dir", func(c *Config) { c.Protect.Store = "badger" }},
		{"unknown store", func(c *Config) { c.Protect.Store = "redis" }},
		{"malformed blacklist date", func(c *Config) { c.Dates.Blacklist = []string{"01/15/2025"} }},
		{"negative future window", func(c *Config) { c.Dates.MaxFutureDays = -1 }},
		{"bad ignore glob", func(c *Config) { c.Watch.IgnoreGlobs = []string{"[unclosed"} }},
		{"bad source pattern", func(c *Config) { c.Rules.SourcePattern = "{broken" }},
		{"negative cache ttl", func(c *Config) { c.Rules.CacheTTL = Duration(-time.Second) }},
		{"unknown log level", func(c *Config) { c.Logging.Level = "loud" }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(&cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestValidate_ToolingModuleCaseInsensitive(t *testing.T) {
	cfg := Default()
	cfg.Project.ToolingModule = "scripts"
	assert.NoError(t, cfg.Validate())
}

// =============================================================================
// Duration Tests
// =============================================================================

func TestDuration_YAML(t *testing.T) {
	tests := []struct {
		name    string
		in      string
		want    time.Duration
		wantErr bool
	}{
		{"millis", `"250ms"`, 250 * time.Millisecond, false},
		{"minutes", `"5m"`, 5 * time.Minute, false},
		{"integer nanoseconds", `1000000`, time.Millisecond, false},
		{"garbage", `"fast"`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Duration
			err := yaml.Unmarshal([]byte(tt.in), &d)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, d.Std())
		})
	}
}

func TestDuration_RoundTrip(t *testing.T) {
	d := Duration(750 * time.Millisecond)
	out, err := yaml.Marshal(d)
	require.NoError(t, err)
	assert.Equal(t, "750ms\n", string(out))

	var back Duration
	require.NoError(t, yaml.Unmarshal(out, &back))
	assert.Equal(t, d, back)
}

// =============================================================================
// Loader Tests
// =============================================================================

func TestLoad_MissingFileReturnsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoad_OverridesDefaults(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsteward.yaml")
	body := `
docs:
  dir: documentation
watch:
  debounce_delay: 2s
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "documentation", cfg.Docs.Dir)
	assert.Equal(t, 2*time.Second, cfg.Watch.DebounceDelay.Std())
	// Unspecified settings keep their defaults.
	assert.Equal(t, "Scripts", cfg.Project.ToolingModule)
}

func TestLoad_MalformedYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "broken.yaml")
	require.NoError(t, os.WriteFile(path, []byte("docs: [unterminated"), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestLoad_InvalidConfigRejected(t *testing.T) {
	path := filepath.Join(t.TempDir(), "invalid.yaml")
	body := `
project:
  modules: []
`
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))

	_, err := Load(path)
	assert.Error(t, err)
}

func TestSave_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "docsteward.yaml")
	cfg := Default()
	cfg.Docs.Dir = "handbook"
	cfg.Rules.CacheTTL = Duration(time.Minute)

	require.NoError(t, Save(cfg, path))

	loaded, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestSave_SkipsIdenticalWrite(t *testing.T) {
	path := filepath.Join(t.TempDir(), "docsteward.yaml")
	cfg := Default()

	require.NoError(t, Save(cfg, path))
	before, err := os.Stat(path)
	require.NoError(t, err)

	require.NoError(t, Save(cfg, path))
	after, err := os.Stat(path)
	require.NoError(t, err)

	assert.Equal(t, before.ModTime(), after.ModTime(), "identical save should not rewrite the file")
}

func TestSave_RejectsInvalidConfig(t *testing.T) {
	cfg := Default()
	cfg.Project.Modules = nil

	err := Save(cfg, filepath.Join(t.TempDir(), "bad.yaml"))
	assert.Error(t, err)
}
