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
	"fmt"
	"strings"
)

// StaticTemplates is the built-in TemplateSource.
//
// Bodies are deterministic markdown skeletons; anything richer (generated
// prose, project-specific boilerplate) belongs in a caller-supplied
// TemplateSource.
type StaticTemplates struct{}

// ModuleSummary returns a fresh summary-document body for a module.
func (StaticTemplates) ModuleSummary(module string) string {
	var b strings.Builder
	fmt.Fprintf(&b, "# %s Module\n\n", module)
	b.WriteString("## Overview\n\n")
	fmt.Fprintf(&b, "Summary documentation for the %s module.\n\n", module)
	b.WriteString("## Components\n\n")
	b.WriteString("_None recorded yet._\n")
	return b.String()
}

var _ TemplateSource = StaticTemplates{}
