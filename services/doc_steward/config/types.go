// Copyright (C) 2025 Aleutian AI (jinterlante@aleutian.ai)
// This program is free software: you can redistribute it and/or modify
// it under the terms of the GNU Affero General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
// See the LICENSE.txt file for the full license text.
//
// NOTE: This work is subject to additional terms under AGPL v3 Section 7.
// See the NOTICE.txt file for details regarding AI system attribution.

// Package config defines the DocSteward settings model.
//
// Settings are plain YAML on disk and an explicitly passed value in code:
// there is no package-global config instance. Construct defaults with
// Default(), load a file with Load(), and persist with Save(). Validation
// runs through go-playground/validator with a custom rule for glob
// patterns, so a bad config fails fast at load time instead of deep inside
// a scan.
package config

import (
	"fmt"
	"time"

	"gopkg.in/yaml.v3"
)

// Duration wraps time.Duration with YAML string encoding ("250ms", "5m").
type Duration time.Duration

// UnmarshalYAML parses a duration string or integer nanosecond value.
func (d *Duration) UnmarshalYAML(value *yaml.Node) error {
	var raw string
	if err := value.Decode(&raw); err == nil {
		parsed, err := time.ParseDuration(raw)
		if err != nil {
			return fmt.Errorf("invalid duration %q: %w", raw, err)
		}
		*d = Duration(parsed)
		return nil
	}

	var ns int64
	if err := value.Decode(&ns); err != nil {
		return fmt.Errorf("duration must be a string or integer: %w", err)
	}
	*d = Duration(ns)
	return nil
}

// MarshalYAML encodes the duration in its string form.
func (d Duration) MarshalYAML() (any, error) {
	return time.Duration(d).String(), nil
}

// Std returns the wrapped time.Duration.
func (d Duration) Std() time.Duration {
	return time.Duration(d)
}

// Config is the root settings object for all DocSteward services.
type Config struct {
	// Project describes the source tree being stewarded.
	Project ProjectConfig `yaml:"project" validate:"required"`

	// Docs describes the documentation tree layout.
	Docs DocsConfig `yaml:"docs" validate:"required"`

	// Protect configures header critical-section protection.
	Protect ProtectConfig `yaml:"protect" validate:"required"`

	// Dates configures date-literal validation.
	Dates DatesConfig `yaml:"dates" validate:"required"`

	// Rules configures the update-rule engine.
	Rules RulesConfig `yaml:"rules"`

	// Watch configures debounced change batching.
	Watch WatchConfig `yaml:"watch"`

	// Logging configures structured log output.
	Logging LoggingConfig `yaml:"logging"`
}

// ProjectConfig describes the modules and file classes of the project.
type ProjectConfig struct {
	// Modules is the fixed, case-insensitively matched module-name set.
	// A changed file belongs to the module named by its first path segment.
	Modules []string `yaml:"modules" validate:"required,min=1,dive,required"`

	// ToolingModule names the module holding build/automation files.
	ToolingModule string `yaml:"tooling_module" validate:"required"`

	// CoreKeywords mark high-signal files; a changed-file description
	// mentioning one raises the module's update priority.
	CoreKeywords []string `yaml:"core_keywords"`

	// SourceExtensions is the recognized source-code extension set
	// (with leading dot). Drives changelog inclusion and source-pattern
	// rule matches.
	SourceExtensions []string `yaml:"source_extensions" validate:"required,min=1,dive,startswith=."`

	// ExtensionClasses maps an extension to the human-readable class
	// used in change descriptions ("Added C# class: Foo.cs").
	ExtensionClasses map[string]string `yaml:"extension_classes"`

	// VersionMarker is the header marker whose value must be a valid
	// semantic version during consistency checks.
	VersionMarker string `yaml:"version_marker" validate:"required"`
}

// DocsConfig describes the documentation tree.
type DocsConfig struct {
	// Dir is the documentation root directory (project-relative).
	Dir string `yaml:"dir" validate:"required"`

	// ModulesCategory is the category directory holding module
	// summary documents.
	ModulesCategory string `yaml:"modules_category" validate:"required"`

	// ChangelogPath is the project changelog (project-relative).
	ChangelogPath string `yaml:"changelog_path" validate:"required"`

	// IgnoreGlobs are doublestar patterns excluded from doc scans.
	IgnoreGlobs []string `yaml:"ignore_globs" validate:"dive,glob"`
}

// SectionConfig names one critical section and its acceptable markers.
type SectionConfig struct {
	// Name is the section category ("Limitations", "FutureWork", ...).
	Name string `yaml:"name" validate:"required"`

	// Markers is the ordered list of acceptable marker phrases; the
	// first phrase found in a header wins.
	Markers []string `yaml:"markers" validate:"required,min=1,dive,required"`
}

// ProtectConfig configures the header protector.
type ProtectConfig struct {
	// Sections lists the protected critical-section categories.
	Sections []SectionConfig `yaml:"sections" validate:"required,min=1,dive"`

	// Terminators end a captured span: the nearest one after a section
	// marker closes the section.
	Terminators []string `yaml:"terminators" validate:"required,min=1,dive,required"`

	// RestoreAnchors are splice points for restored sections; the first
	// anchor found in the current content receives the restored text
	// immediately before it.
	RestoreAnchors []string `yaml:"restore_anchors" validate:"required,min=1,dive,required"`

	// Store selects the backup store backend.
	Store string `yaml:"store" validate:"oneof=memory badger"`

	// BadgerDir is the database directory when Store is "badger".
	BadgerDir string `yaml:"badger_dir" validate:"required_if=Store badger"`
}

// DatesConfig configures date-literal validation.
type DatesConfig struct {
	// Blacklist holds literal dates known to be erroneously copied.
	Blacklist []string `yaml:"blacklist" validate:"dive,datetime=2006-01-02"`

	// MaxFutureDays is how far ahead of today a date may sit.
	MaxFutureDays int `yaml:"max_future_days" validate:"min=0"`

	// MaxPastDays is how far behind today a date may sit.
	MaxPastDays int `yaml:"max_past_days" validate:"min=0"`

	// ScanExtensions limits project date scans to these file types.
	ScanExtensions []string `yaml:"scan_extensions" validate:"required,min=1,dive,startswith=."`

	// IgnoreGlobs are doublestar patterns excluded from date scans.
	IgnoreGlobs []string `yaml:"ignore_globs" validate:"dive,glob"`
}

// RulesConfig configures the rule engine.
type RulesConfig struct {
	// CacheTTL is the wall-clock window after which the whole
	// evaluation cache is invalidated.
	CacheTTL Duration `yaml:"cache_ttl" validate:"min=0"`

	// SourcePattern matches recognized source files (doublestar).
	SourcePattern string `yaml:"source_pattern" validate:"required,glob"`

	// ToolingPattern matches tooling files (doublestar).
	ToolingPattern string `yaml:"tooling_pattern" validate:"required,glob"`

	// ConfigPattern matches configuration files (doublestar).
	ConfigPattern string `yaml:"config_pattern" validate:"required,glob"`
}

// WatchConfig configures debounced change batching.
type WatchConfig struct {
	// DebounceDelay is the trailing-edge quiet window; each new change
	// restarts it.
	DebounceDelay Duration `yaml:"debounce_delay" validate:"min=0"`

	// IgnoreGlobs are doublestar patterns dropped before enqueueing.
	IgnoreGlobs []string `yaml:"ignore_globs" validate:"dive,glob"`
}

// LoggingConfig configures structured log output.
type LoggingConfig struct {
	// Level is the minimum level name ("debug", "info", "warn", "error").
	Level string `yaml:"level" validate:"omitempty,oneof=debug info warn warning error"`

	// Dir enables file logging when set.
	Dir string `yaml:"dir"`

	// JSON forces JSON output on stderr.
	JSON bool `yaml:"json"`

	// Quiet disables stderr output.
	Quiet bool `yaml:"quiet"`
}

// Default returns the settings DocSteward ships with.
//
// The module list and file classes cover the conventional plugin layout
// this tool grew up around; override per project in the YAML file.
func Default() Config {
	return Config{
		Project: ProjectConfig{
			Modules: []string{
				"Api", "Configuration", "Controllers", "Helpers",
				"Models", "Providers", "Services", "Scripts", "Tasks",
			},
			ToolingModule: "Scripts",
			CoreKeywords:  []string{"Service", "Manager", "Helper", "Client"},
			SourceExtensions: []string{
				".cs", ".go", ".py", ".js", ".ts",
			},
			ExtensionClasses: map[string]string{
				".cs":     "C# class",
				".go":     "Go file",
				".py":     "Python module",
				".js":     "script",
				".ts":     "script",
				".csproj": "project file",
				".json":   "configuration",
				".yaml":   "configuration",
				".yml":    "configuration",
				".xml":    "configuration",
				".md":     "documentation",
				".sh":     "script",
				".ps1":    "script",
			},
			VersionMarker: "Version:",
		},
		Docs: DocsConfig{
			Dir:             "docs",
			ModulesCategory: "modules",
			ChangelogPath:   "CHANGELOG.md",
			IgnoreGlobs:     []string{"**/node_modules/**", "**/bin/**", "**/obj/**"},
		},
		Protect: ProtectConfig{
			Sections: []SectionConfig{
				{Name: "Limitations", Markers: []string{"LIMITATIONS:", "Known Limitations:", "KNOWN LIMITATIONS"}},
				{Name: "FutureWork", Markers: []string{"FUTURE WORK:", "Future Work:", "PLANNED:"}},
				{Name: "DesignNotes", Markers: []string{"DESIGN NOTES:", "Design Notes:", "ARCHITECTURE NOTES:"}},
			},
			Terminators: []string{
				"=====", "-----", "CHANGELOG:", "=== FILE:", "---8<---",
				"import ", "using ", "namespace ", "type ", "class ",
			},
			RestoreAnchors: []string{"CHANGELOG:", "=== FILE:", "---8<---"},
			Store:          "memory",
		},
		Dates: DatesConfig{
			Blacklist:      []string{"2025-01-15"},
			MaxFutureDays:  1,
			MaxPastDays:    7,
			ScanExtensions: []string{".md", ".cs", ".go", ".py", ".js", ".ts", ".yaml", ".yml", ".json", ".txt"},
			IgnoreGlobs:    []string{"**/node_modules/**", "**/bin/**", "**/obj/**", "**/.git/**"},
		},
		Rules: RulesConfig{
			CacheTTL:       Duration(5 * time.Minute),
			SourcePattern:  "**/*.{cs,go,py,js,ts}",
			ToolingPattern: "**/*.{sh,ps1,csproj,yml,yaml}",
			ConfigPattern:  "**/*.{json,yaml,yml,xml,config}",
		},
		Watch: WatchConfig{
			DebounceDelay: Duration(500 * time.Millisecond),
			IgnoreGlobs:   []string{"**/.git/**", "**/node_modules/**", "**/bin/**", "**/obj/**"},
		},
		Logging: LoggingConfig{
			Level: "info",
		},
	}
}
