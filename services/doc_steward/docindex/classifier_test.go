package docindex

import "testing"

func TestClassify(t *testing.T) {
	c := NewClassifier(DefaultClassifierOptions())

	tests := []struct {
		name     string
		path     string
		wantType IndexType
		wantCat  string
		wantMod  string
	}{
		{
			name:     "root index",
			path:     "docs/README.md",
			wantType: TypeRoot,
		},
		{
			name:     "root index backslash",
			path:     "docs\\README.md",
			wantType: TypeRoot,
		},
		{
			name:     "navigation index",
			path:     "docs/guides/README.md",
			wantType: TypeNavigation,
			wantCat:  "guides",
		},
		{
			name:     "modules navigation index",
			path:     "docs/modules/README.md",
			wantType: TypeNavigation,
			wantCat:  "modules",
		},
		{
			name:     "category index",
			path:     "docs/guides/setup/README.md",
			wantType: TypeCategory,
			wantCat:  "guides",
		},
		{
			name:     "deeply nested category index",
			path:     "docs/guides/setup/windows/README.md",
			wantType: TypeCategory,
			wantCat:  "guides",
		},
		{
			name:     "technical index",
			path:     "Services/README.md",
			wantType: TypeTechnical,
			wantMod:  "Services",
		},
		{
			name:     "nested technical index",
			path:     "Controllers/Admin/README.md",
			wantType: TypeTechnical,
			wantMod:  "Controllers",
		},
		{
			name:     "technical index lowercase module",
			path:     "services/README.md",
			wantType: TypeTechnical,
			wantMod:  "Services",
		},
		{
			name:     "lowercase readme",
			path:     "docs/readme.md",
			wantType: TypeRoot,
		},
		{
			name:     "non-index file",
			path:     "docs/guides/setup.md",
			wantType: TypeUnknown,
		},
		{
			name:     "index outside known roots",
			path:     "vendor/README.md",
			wantType: TypeUnknown,
		},
		{
			name:     "bare root readme",
			path:     "README.md",
			wantType: TypeUnknown,
		},
		{
			name:     "empty path",
			path:     "",
			wantType: TypeUnknown,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			node := c.Classify(tt.path)
			if node.Type != tt.wantType {
				t.Errorf("Classify(%q).Type = %v, want %v", tt.path, node.Type, tt.wantType)
			}
			if node.Category != tt.wantCat {
				t.Errorf("Classify(%q).Category = %q, want %q", tt.path, node.Category, tt.wantCat)
			}
			if node.Module != tt.wantMod {
				t.Errorf("Classify(%q).Module = %q, want %q", tt.path, node.Module, tt.wantMod)
			}
			if !node.Type.IsValid() {
				t.Errorf("Classify(%q) produced invalid type %v", tt.path, node.Type)
			}
		})
	}
}

func TestClassifyPreservesPath(t *testing.T) {
	c := NewClassifier(DefaultClassifierOptions())
	node := c.Classify("docs\\guides\\README.md")
	if node.Path != "docs/guides/README.md" {
		t.Errorf("Path = %q, want normalized slash path", node.Path)
	}
	if node.ClassifiedAt.IsZero() {
		t.Error("ClassifiedAt not set")
	}
}

func TestModuleLookup(t *testing.T) {
	c := NewClassifier(DefaultClassifierOptions())

	tests := []struct {
		in     string
		want   string
		wantOK bool
	}{
		{"Services", "Services", true},
		{"services", "Services", true},
		{"SERVICES", "Services", true},
		{"Helpers", "Helpers", true},
		{"Unknown", "", false},
		{"", "", false},
	}
	for _, tt := range tests {
		got, ok := c.Module(tt.in)
		if got != tt.want || ok != tt.wantOK {
			t.Errorf("Module(%q) = (%q, %v), want (%q, %v)", tt.in, got, ok, tt.want, tt.wantOK)
		}
	}
}

func TestModuleOf(t *testing.T) {
	c := NewClassifier(DefaultClassifierOptions())

	tests := []struct {
		path string
		want string
	}{
		{"Services/UserService.cs", "Services"},
		{"services/auth/TokenService.cs", "Services"},
		{"Controllers/HomeController.cs", "Controllers"},
		{"docs/guides/README.md", ""},
		{"ThirdParty/lib.cs", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got, _ := c.ModuleOf(tt.path); got != tt.want {
			t.Errorf("ModuleOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestCategoryOf(t *testing.T) {
	c := NewClassifier(DefaultClassifierOptions())

	tests := []struct {
		path string
		want string
	}{
		{"docs/guides/setup.md", "guides"},
		{"docs/guides/setup/windows.md", "guides"},
		{"docs/modules/Services.md", "modules"},
		{"docs/README.md", ""},
		{"Services/README.md", ""},
		{"docs", ""},
	}
	for _, tt := range tests {
		if got, _ := c.CategoryOf(tt.path); got != tt.want {
			t.Errorf("CategoryOf(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestModuleSummary(t *testing.T) {
	c := NewClassifier(DefaultClassifierOptions())

	tests := []struct {
		path string
		want string
	}{
		{"docs/modules/Services.md", "Services"},
		{"docs/modules/Api.md", "Api"},
		{"docs/modules/README.md", ""},
		{"docs/guides/Services.md", ""},
		{"docs/modules/Services.txt", ""},
		{"docs/modules/nested/Services.md", ""},
	}
	for _, tt := range tests {
		if got, _ := c.ModuleSummary(tt.path); got != tt.want {
			t.Errorf("ModuleSummary(%q) = %q, want %q", tt.path, got, tt.want)
		}
	}
}

func TestIsIndexFile(t *testing.T) {
	c := NewClassifier(DefaultClassifierOptions())

	tests := []struct {
		path string
		want bool
	}{
		{"docs/README.md", true},
		{"docs/guides/README.md", true},
		{"Services/README.md", true},
		{"README.md", false},
		{"docs/guides/setup.md", false},
		{"vendor/README.md", false},
	}
	for _, tt := range tests {
		if got := c.IsIndexFile(tt.path); got != tt.want {
			t.Errorf("IsIndexFile(%q) = %v, want %v", tt.path, got, tt.want)
		}
	}
}

func TestIndexTypeIsValid(t *testing.T) {
	valid := []IndexType{TypeRoot, TypeNavigation, TypeTechnical, TypeCategory, TypeUnknown}
	for _, typ := range valid {
		if !typ.IsValid() {
			t.Errorf("%v.IsValid() = false, want true", typ)
		}
	}
	if IndexType("bogus").IsValid() {
		t.Error(`IndexType("bogus").IsValid() = true, want false`)
	}
}

func TestNewClassifierDefaults(t *testing.T) {
	c := NewClassifier(ClassifierOptions{})
	if node := c.Classify("docs/README.md"); node.Type != TypeRoot {
		t.Errorf("zero-options classifier: Classify(docs/README.md).Type = %v, want %v", node.Type, TypeRoot)
	}
	if _, ok := c.Module("Services"); !ok {
		t.Error("zero-options classifier lost default modules")
	}
}
