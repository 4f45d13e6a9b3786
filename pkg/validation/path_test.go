package validation

import (
	"testing"
)

func TestNormalizeRelPath(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"forward slashes unchanged", "Services/Lookup/Client.cs", "Services/Lookup/Client.cs"},
		{"backslashes rewritten", `Services\Lookup\Client.cs`, "Services/Lookup/Client.cs"},
		{"mixed separators", `docs\modules/Services.md`, "docs/modules/Services.md"},
		{"leading dot-slash removed", "./docs/README.md", "docs/README.md"},
		{"double slashes collapsed", "docs//README.md", "docs/README.md"},
		{"inner dot segments resolved", "docs/./modules/../README.md", "docs/README.md"},
		{"empty becomes dot", "", "."},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NormalizeRelPath(tt.in)
			if got != tt.want {
				t.Errorf("NormalizeRelPath(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestValidateRelPath(t *testing.T) {
	tests := []struct {
		name    string
		path    string
		wantErr bool
	}{
		// Valid paths
		{"simple", "Services/Client.cs", false},
		{"backslash style", `Services\Client.cs`, false},
		{"docs index", "docs/modules/README.md", false},
		{"single file", "CHANGELOG.md", false},
		{"inner dots resolved inward", "docs/guides/../README.md", false},

		// Invalid paths
		{"empty", "", true},
		{"whitespace only", "   ", true},
		{"nul byte", "docs/\x00evil.md", true},
		{"rooted", "/etc/passwd", true},
		{"windows drive", `C:\project\file.cs`, true},
		{"parent escape", "../outside.md", true},
		{"deep escape", "docs/../../outside.md", true},
		{"bare parent", "..", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateRelPath(tt.path)
			if (err != nil) != tt.wantErr {
				t.Errorf("ValidateRelPath(%q) error = %v, wantErr %v", tt.path, err, tt.wantErr)
			}
		})
	}
}

func TestSanitizeModuleName(t *testing.T) {
	tests := []struct {
		name    string
		module  string
		want    string
		wantErr bool
	}{
		{"simple", "Services", "Services", false},
		{"lowercase kept", "helpers", "helpers", false},
		{"with digits", "Api2", "Api2", false},
		{"trimmed", "  Scripts  ", "Scripts", false},
		{"dotted", "Plugin.Core", "Plugin.Core", false},
		{"empty", "", "", true},
		{"leading digit", "2Fast", "", true},
		{"path separator", "Services/Nested", "", true},
		{"traversal", "..", "", true},
		{"space inside", "My Module", "", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := SanitizeModuleName(tt.module)
			if (err != nil) != tt.wantErr {
				t.Errorf("SanitizeModuleName(%q) error = %v, wantErr %v", tt.module, err, tt.wantErr)
				return
			}
			if got != tt.want {
				t.Errorf("SanitizeModuleName(%q) = %q, want %q", tt.module, got, tt.want)
			}
		})
	}
}
