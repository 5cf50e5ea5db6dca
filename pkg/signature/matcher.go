package signature

import (
	"strings"
)

// Matcher renames packages and classes through a rename table.
//
// The table maps dotted keys ("javax.servlet" or "javax.servlet.*") to
// dotted replacement packages. A Matcher is immutable and safe for
// concurrent use.
type Matcher struct {
	renames map[string]string
	// first segments of every key, used to skip text quickly
	heads map[string]struct{}
}

// NewMatcher builds a Matcher. Values may carry a trailing wildcard, which
// is ignored.
func NewMatcher(renames map[string]string) *Matcher {
	m := &Matcher{
		renames: make(map[string]string, len(renames)),
		heads:   make(map[string]struct{}),
	}
	for k, v := range renames {
		m.renames[k] = StripWildcard(v)
		base := StripWildcard(k)
		if i := strings.IndexByte(base, '.'); i >= 0 {
			base = base[:i]
		}
		m.heads[base] = struct{}{}
	}
	return m
}

// Empty reports whether the matcher has no rules.
func (m *Matcher) Empty() bool {
	return m == nil || len(m.renames) == 0
}

// RenamePackage renames a dotted package name. The first key of Keys(pkg)
// present in the table wins; a wildcard hit keeps the sub-package tail.
func (m *Matcher) RenamePackage(pkg string) (string, bool) {
	if m.Empty() || pkg == "" {
		return pkg, false
	}
	for _, key := range Keys(pkg, Wildcard) {
		value, ok := m.renames[key]
		if !ok {
			continue
		}
		if key == pkg {
			return value, value != pkg
		}
		base := StripWildcard(key)
		renamed := value + pkg[len(base):]
		return renamed, renamed != pkg
	}
	return pkg, false
}

// RenameSlashedPackage is RenamePackage for a/b/c forms.
func (m *Matcher) RenameSlashedPackage(pkg string) (string, bool) {
	renamed, ok := m.RenamePackage(strings.ReplaceAll(pkg, "/", "."))
	if !ok {
		return pkg, false
	}
	return strings.ReplaceAll(renamed, ".", "/"), true
}

// RenameClassName renames a dotted class name such as a.b.C. An exact key
// naming the whole class takes priority over its package rules.
func (m *Matcher) RenameClassName(name string) (string, bool) {
	if m.Empty() {
		return name, false
	}
	if value, ok := m.renames[name]; ok && !IsWildcard(value) {
		return value, value != name
	}
	i := strings.LastIndexByte(name, '.')
	if i <= 0 {
		return name, false
	}
	pkg, ok := m.RenamePackage(name[:i])
	if !ok {
		return name, false
	}
	return pkg + name[i:], true
}

// RenameBinaryType renames an internal binary name such as a/b/C$D.
// Array descriptors ([La/b/C;) are passed to TransformSignature.
func (m *Matcher) RenameBinaryType(name string) (string, bool) {
	if m.Empty() || name == "" {
		return name, false
	}
	if name[0] == '[' {
		out, n, err := m.TransformSignature(name)
		if err != nil {
			return name, false
		}
		return out, n > 0
	}
	renamed, ok := m.RenameClassName(strings.ReplaceAll(name, "/", "."))
	if !ok {
		return name, false
	}
	return strings.ReplaceAll(renamed, ".", "/"), true
}

// ReplacePackages rewrites every package reference in text, dotted or
// slashed, and returns the new text and the number of substitutions.
//
// Each candidate is validated with PackageMatch in stem mode; the full
// package path found that way is then looked up through its key sequence,
// so exact keys only match whole packages while wildcard keys also match
// sub-packages.
func (m *Matcher) ReplacePackages(text string) (string, int) {
	if m.Empty() || text == "" {
		return text, 0
	}

	var (
		b     strings.Builder
		last  int
		count int
	)
	for i := 0; i < len(text); {
		c := text[i]
		if !isIdentPart(c) {
			i++
			continue
		}
		j := i + 1
		for j < len(text) && isIdentPart(text[j]) {
			j++
		}
		if !isIdentStart(c) {
			i = j
			continue
		}
		if _, ok := m.heads[text[i:j]]; !ok {
			i = j
			continue
		}
		end := PackageMatch(text, i, j, true)
		if end < 0 {
			i = j
			continue
		}

		found := text[i:end]
		slashed := strings.IndexByte(found, '/') >= 0
		var (
			renamed string
			ok      bool
		)
		if slashed {
			renamed, ok = m.RenameSlashedPackage(found)
		} else {
			renamed, ok = m.RenamePackage(found)
		}
		if !ok {
			i = j
			continue
		}

		if b.Len() == 0 {
			b.Grow(len(text) + 16)
		}
		b.WriteString(text[last:i])
		b.WriteString(renamed)
		last = end
		count++
		i = end
	}

	if count == 0 {
		return text, 0
	}
	b.WriteString(text[last:])
	return b.String(), count
}

// TransformDescriptor rewrites a field or method descriptor. Descriptors
// are a subset of the signature grammar.
func (m *Matcher) TransformDescriptor(desc string) (string, int, error) {
	return m.TransformSignature(desc)
}

// VersionsPrefix is the directory of multi-release class variants.
const VersionsPrefix = "META-INF/versions/"

// RenameResourcePath renames the package directory of a resource path.
// Class resources are renamed as binary types so whole-class keys apply.
// A multi-release prefix (META-INF/versions/N/) is preserved.
func (m *Matcher) RenameResourcePath(path string) (string, bool) {
	if m.Empty() {
		return path, false
	}
	prefix, rest := splitVersionsPrefix(path)
	i := strings.LastIndexByte(rest, '/')
	if i <= 0 {
		return path, false
	}
	if base, ok := strings.CutSuffix(rest, ".class"); ok {
		renamed, changed := m.RenameBinaryType(base)
		if !changed {
			return path, false
		}
		return prefix + renamed + ".class", true
	}
	dir, changed := m.RenameSlashedPackage(rest[:i])
	if !changed {
		return path, false
	}
	return prefix + dir + rest[i:], true
}

func splitVersionsPrefix(path string) (string, string) {
	if !strings.HasPrefix(path, VersionsPrefix) {
		return "", path
	}
	tail := path[len(VersionsPrefix):]
	i := strings.IndexByte(tail, '/')
	if i <= 0 {
		return "", path
	}
	for _, c := range tail[:i] {
		if c < '0' || c > '9' {
			return "", path
		}
	}
	cut := len(VersionsPrefix) + i + 1
	return path[:cut], path[cut:]
}
