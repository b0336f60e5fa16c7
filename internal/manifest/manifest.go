// Package manifest parses line-oriented dependency manifests of the
// pip requirements.txt form: one `<name><comparator><version>` entry per
// line, with blank lines and `#` comments skipped.
package manifest

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/blang/semver/v4"

	"github.com/dbmrq/romple/internal/errors"
)

// Op is a version comparison operator.
type Op string

// Supported comparators, longest first so two-rune operators match before
// their one-rune prefixes.
const (
	OpEq         Op = "=="
	OpGte        Op = ">="
	OpLte        Op = "<="
	OpCompatible Op = "~="
	OpNeq        Op = "!="
	OpGt         Op = ">"
	OpLt         Op = "<"
)

var comparators = []Op{OpEq, OpGte, OpLte, OpCompatible, OpNeq, OpGt, OpLt}

// Constraint bounds acceptable releases of a package.
type Constraint struct {
	Op      Op
	Version string
}

// String returns the canonical text of the constraint.
func (c Constraint) String() string {
	return string(c.Op) + c.Version
}

// Matches reports whether the candidate version satisfies the constraint.
// Versions are compared as semver when both sides parse; otherwise only
// equality operators are meaningful and ordered comparisons fail.
func (c Constraint) Matches(version string) (bool, error) {
	want, errWant := semver.ParseTolerant(c.Version)
	have, errHave := semver.ParseTolerant(version)

	if errWant != nil || errHave != nil {
		// Non-semver text degrades to string comparison for equality.
		switch c.Op {
		case OpEq:
			return c.Version == version, nil
		case OpNeq:
			return c.Version != version, nil
		default:
			return false, fmt.Errorf("cannot order non-semver versions %q and %q", c.Version, version)
		}
	}

	cmp := have.Compare(want)
	switch c.Op {
	case OpEq:
		return cmp == 0, nil
	case OpNeq:
		return cmp != 0, nil
	case OpGt:
		return cmp > 0, nil
	case OpGte:
		return cmp >= 0, nil
	case OpLt:
		return cmp < 0, nil
	case OpLte:
		return cmp <= 0, nil
	case OpCompatible:
		// ~=X.Y.Z means >=X.Y.Z and same major.minor; ~=X.Y means >=X.Y, same major.
		if cmp < 0 {
			return false, nil
		}
		if have.Major != want.Major {
			return false, nil
		}
		if strings.Count(c.Version, ".") >= 2 && have.Minor != want.Minor {
			return false, nil
		}
		return true, nil
	default:
		return false, fmt.Errorf("unknown comparator %q", c.Op)
	}
}

// Requirement is one parsed dependency line.
type Requirement struct {
	Name string
	// Constraint is nil for a bare package name.
	Constraint *Constraint
}

// String returns the canonical text of the requirement.
func (r Requirement) String() string {
	if r.Constraint == nil {
		return r.Name
	}
	return r.Name + r.Constraint.String()
}

// Parse reads a manifest and returns its requirements in file order.
// Parsing the same input twice yields an identical list.
func Parse(r io.Reader) ([]Requirement, error) {
	var reqs []Requirement

	scanner := bufio.NewScanner(r)
	lineNo := 0
	for scanner.Scan() {
		lineNo++
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		req, err := parseLine(line)
		if err != nil {
			return nil, errors.Wrap(err, errors.ErrManifest, fmt.Sprintf("line %d", lineNo))
		}
		reqs = append(reqs, req)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.Wrap(err, errors.ErrManifest, "read manifest")
	}

	return reqs, nil
}

// ParseFile parses the manifest at path.
func ParseFile(path string) ([]Requirement, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrManifest, fmt.Sprintf("open manifest %s", path))
	}
	defer func() { _ = f.Close() }()

	return Parse(f)
}

// parseLine splits one dependency line into name and constraint.
func parseLine(line string) (Requirement, error) {
	idx := -1
	var op Op
	for _, c := range comparators {
		if i := strings.Index(line, string(c)); i >= 0 && (idx == -1 || i < idx) {
			idx = i
			op = c
		}
	}

	if idx == -1 {
		if !validName(line) {
			return Requirement{}, fmt.Errorf("invalid package name %q", line)
		}
		return Requirement{Name: line}, nil
	}

	name := strings.TrimSpace(line[:idx])
	version := strings.TrimSpace(line[idx+len(op):])

	if !validName(name) {
		return Requirement{}, fmt.Errorf("invalid package name %q", name)
	}
	if version == "" {
		return Requirement{}, fmt.Errorf("missing version after %q", op)
	}

	return Requirement{
		Name:       name,
		Constraint: &Constraint{Op: op, Version: version},
	}, nil
}

// validName accepts PEP 508-ish names: letters, digits, dot, dash, underscore.
func validName(name string) bool {
	if name == "" {
		return false
	}
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z':
		case r >= 'A' && r <= 'Z':
		case r >= '0' && r <= '9':
		case r == '.' || r == '-' || r == '_':
		default:
			return false
		}
	}
	return true
}
