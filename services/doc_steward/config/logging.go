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

	"github.com/AleutianAI/DocSteward/pkg/logging"
)

// NewLogger builds the process logger from the logging settings.
//
// This is the bridge between the YAML surface and pkg/logging: level name
// parsing, optional file logging under Dir, forced-JSON and quiet modes
// all flow through. Validation accepts only known level names, so a
// ParseLevel failure here means the config skipped Validate.
//
// Outputs:
//
//	*logging.Logger - Ready logger. Callers enabling file logging must
//	                  Close() it to flush.
//	error - Unknown level name.
func (c LoggingConfig) NewLogger() (*logging.Logger, error) {
	level, err := logging.ParseLevel(c.Level)
	if err != nil {
		return nil, fmt.Errorf("logging.level: %w", err)
	}
	return logging.New(logging.Config{
		Level:   level,
		LogDir:  c.Dir,
		Service: "doc_steward",
		JSON:    c.JSON,
		Quiet:   c.Quiet,
	}), nil
}
