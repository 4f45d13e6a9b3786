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
	"fmt"
	"strings"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-playground/validator/v10"
)

// configValidate is the validator instance for settings.
// Initialized in init() with custom validators.
var configValidate *validator.Validate

func init() {
	configValidate = validator.New()

	// "glob" checks that a string is a well-formed doublestar pattern,
	// so malformed ignore lists fail at load time rather than being
	// silently skipped during scans.
	if err := configValidate.RegisterValidation("glob", validateGlob); err != nil {
		panic(fmt.Sprintf("failed to register glob validator: %v", err))
	}
}

// validateGlob reports whether the field holds a valid doublestar pattern.
func validateGlob(fl validator.FieldLevel) bool {
	return doublestar.ValidatePattern(fl.Field().String())
}

// Validate checks the configuration against its struct tags plus
// cross-field rules the tags cannot express.
//
// Outputs:
//
//	error - nil when the config is usable; otherwise the first set of
//	        violations, wrapped with field context.
func (c *Config) Validate() error {
	if err := configValidate.Struct(c); err != nil {
		return fmt.Errorf("config validation: %w", err)
	}

	// The tooling module must be one of the declared modules, or the
	// tooling rules could never fire.
	if !containsFold(c.Project.Modules, c.Project.ToolingModule) {
		return fmt.Errorf("config validation: tooling_module %q is not in project.modules", c.Project.ToolingModule)
	}

	// Section names must be unique; the backup map is keyed by name.
	seen := make(map[string]bool, len(c.Protect.Sections))
	for _, s := range c.Protect.Sections {
		if seen[s.Name] {
			return fmt.Errorf("config validation: duplicate protect section %q", s.Name)
		}
		seen[s.Name] = true
	}

	return nil
}

// containsFold reports whether list contains s, case-insensitively.
func containsFold(list []string, s string) bool {
	for _, item := range list {
		if strings.EqualFold(item, s) {
			return true
		}
	}
	return false
}
