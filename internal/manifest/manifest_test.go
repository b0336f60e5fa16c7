package manifest

import (
	"os"
	"path/filepath"
	"reflect"
	"strings"
	"testing"
)

const sampleManifest = `# Core GUI Framework
PyQt6>=6.5.0
PyQt6-Qt6>=6.5.0

# Parsing
lxml>=4.9.0

# Matching
python-Levenshtein~=0.21

rapidfuzz
pyinstaller==5.13.0
`

func TestParse(t *testing.T) {
	reqs, err := Parse(strings.NewReader(sampleManifest))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}

	want := []Requirement{
		{Name: "PyQt6", Constraint: &Constraint{Op: OpGte, Version: "6.5.0"}},
		{Name: "PyQt6-Qt6", Constraint: &Constraint{Op: OpGte, Version: "6.5.0"}},
		{Name: "lxml", Constraint: &Constraint{Op: OpGte, Version: "4.9.0"}},
		{Name: "python-Levenshtein", Constraint: &Constraint{Op: OpCompatible, Version: "0.21"}},
		{Name: "rapidfuzz"},
		{Name: "pyinstaller", Constraint: &Constraint{Op: OpEq, Version: "5.13.0"}},
	}

	if !reflect.DeepEqual(reqs, want) {
		t.Errorf("Parse() = %+v, want %+v", reqs, want)
	}
}

func TestParse_Idempotent(t *testing.T) {
	first, err := Parse(strings.NewReader(sampleManifest))
	if err != nil {
		t.Fatalf("first Parse() error = %v", err)
	}
	second, err := Parse(strings.NewReader(sampleManifest))
	if err != nil {
		t.Fatalf("second Parse() error = %v", err)
	}
	if !reflect.DeepEqual(first, second) {
		t.Error("Parse() should yield identical results for identical input")
	}
}

func TestParse_SkipsCommentsAndBlanks(t *testing.T) {
	in := "\n# only a comment\n\n   \n  # indented comment\n"
	reqs, err := Parse(strings.NewReader(in))
	if err != nil {
		t.Fatalf("Parse() error = %v", err)
	}
	if len(reqs) != 0 {
		t.Errorf("Parse() = %v, want empty", reqs)
	}
}

func TestParse_Invalid(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{name: "missing version", in: "PyQt6>="},
		{name: "bad name", in: "Py Qt6>=1.0"},
		{name: "empty name", in: ">=1.0"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := Parse(strings.NewReader(tt.in)); err == nil {
				t.Errorf("Parse(%q) should fail", tt.in)
			}
		})
	}
}

func TestRequirement_String(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"PyQt6>=6.5.0", "PyQt6>=6.5.0"},
		{"rapidfuzz", "rapidfuzz"},
		{"pyinstaller == 5.13.0", "pyinstaller==5.13.0"},
	}

	for _, tt := range tests {
		reqs, err := Parse(strings.NewReader(tt.in))
		if err != nil {
			t.Fatalf("Parse(%q) error = %v", tt.in, err)
		}
		if got := reqs[0].String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}

func TestConstraint_Matches(t *testing.T) {
	tests := []struct {
		name       string
		constraint Constraint
		version    string
		want       bool
		wantErr    bool
	}{
		{name: "gte satisfied", constraint: Constraint{OpGte, "6.5.0"}, version: "6.6.1", want: true},
		{name: "gte equal", constraint: Constraint{OpGte, "6.5.0"}, version: "6.5.0", want: true},
		{name: "gte below", constraint: Constraint{OpGte, "6.5.0"}, version: "6.4.9", want: false},
		{name: "eq", constraint: Constraint{OpEq, "5.13.0"}, version: "5.13.0", want: true},
		{name: "neq", constraint: Constraint{OpNeq, "5.13.0"}, version: "5.13.1", want: true},
		{name: "lt", constraint: Constraint{OpLt, "2.0.0"}, version: "1.9.0", want: true},
		{name: "compatible same minor", constraint: Constraint{OpCompatible, "0.21.0"}, version: "0.21.5", want: true},
		{name: "compatible next minor", constraint: Constraint{OpCompatible, "0.21.0"}, version: "0.22.0", want: false},
		{name: "compatible two-part", constraint: Constraint{OpCompatible, "1.2"}, version: "1.9.0", want: true},
		{name: "compatible major bump", constraint: Constraint{OpCompatible, "1.2"}, version: "2.0.0", want: false},
		{name: "non-semver eq", constraint: Constraint{OpEq, "abc"}, version: "abc", want: true},
		{name: "non-semver ordered", constraint: Constraint{OpGte, "abc"}, version: "def", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := tt.constraint.Matches(tt.version)
			if tt.wantErr {
				if err == nil {
					t.Fatal("Matches() error = nil, want error")
				}
				return
			}
			if err != nil {
				t.Fatalf("Matches() error = %v", err)
			}
			if got != tt.want {
				t.Errorf("Matches(%q) = %v, want %v", tt.version, got, tt.want)
			}
		})
	}
}

func TestParseFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "requirements.txt")
	if err := os.WriteFile(path, []byte(sampleManifest), 0644); err != nil {
		t.Fatal(err)
	}

	reqs, err := ParseFile(path)
	if err != nil {
		t.Fatalf("ParseFile() error = %v", err)
	}
	if len(reqs) != 6 {
		t.Errorf("ParseFile() returned %d requirements, want 6", len(reqs))
	}

	if _, err := ParseFile(filepath.Join(dir, "missing.txt")); err == nil {
		t.Error("ParseFile() should fail for missing file")
	}
}
