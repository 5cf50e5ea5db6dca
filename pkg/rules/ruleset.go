package rules

import (
	"strings"

	"github.com/arthur-debert/jrename/pkg/signature"
)

// RuleSet is the immutable, fully loaded rule set of a run.
type RuleSet struct {
	renames  map[string]string
	matcher  *signature.Matcher
	versions map[string]string
	bundles  map[string]BundleUpdate

	direct         map[string]string
	directReplacer *signature.LiteralReplacer

	perClass map[string]map[string]string
	texts    []textRule

	includes []string
	excludes []string
}

type textRule struct {
	pattern  string
	table    Table
	replacer *signature.LiteralReplacer
}

// Matcher returns the package matcher built from the rename rules.
func (rs *RuleSet) Matcher() *signature.Matcher {
	return rs.matcher
}

// HasRenames reports whether any rename rule is loaded.
func (rs *RuleSet) HasRenames() bool {
	return len(rs.renames) > 0
}

// Renames returns a copy of the rename table, keyed by dotted names.
func (rs *RuleSet) Renames() map[string]string {
	return copyMap(rs.renames)
}

// Rename renames a package given in dotted or slashed form.
func (rs *RuleSet) Rename(pkg string) (string, bool) {
	if strings.IndexByte(pkg, '/') >= 0 {
		return rs.matcher.RenameSlashedPackage(pkg)
	}
	return rs.matcher.RenamePackage(pkg)
}

// Version returns the version range for a package. A header-specific key
// (pkg;Export-Package) takes priority over the plain package key, and
// each is tried through the key sequence of the package.
func (rs *RuleSet) Version(pkg, header string) (string, bool) {
	if len(rs.versions) == 0 {
		return "", false
	}
	for _, key := range signature.Keys(pkg, signature.Wildcard) {
		if header != "" {
			if v, ok := rs.versions[key+";"+header]; ok {
				return v, true
			}
		}
		if v, ok := rs.versions[key]; ok {
			return v, true
		}
	}
	return "", false
}

// HasVersions reports whether any version rule is loaded.
func (rs *RuleSet) HasVersions() bool {
	return len(rs.versions) > 0
}

// BundleUpdate returns the update for a bundle symbolic name: the exact
// rule, else the "*" rule.
func (rs *RuleSet) BundleUpdate(symbolicName string) (BundleUpdate, bool) {
	if u, ok := rs.bundles[symbolicName]; ok {
		return u, true
	}
	u, ok := rs.bundles[AnyBundle]
	return u, ok
}

// HasExactBundle reports whether a bundle has a rule of its own, as
// opposed to the "*" rule.
func (rs *RuleSet) HasExactBundle(symbolicName string) bool {
	_, ok := rs.bundles[symbolicName]
	return ok && symbolicName != AnyBundle
}

// HasBundles reports whether any bundle rule is loaded.
func (rs *RuleSet) HasBundles() bool {
	return len(rs.bundles) > 0
}

// Direct returns a copy of the direct string replacement table.
func (rs *RuleSet) Direct() map[string]string {
	return copyMap(rs.direct)
}

// DirectReplacer returns the replacer of the direct string rules.
func (rs *RuleSet) DirectReplacer() *signature.LiteralReplacer {
	return rs.directReplacer
}

// ClassConstant returns the exact replacement of a string constant of the
// named class (binary name, a/b/C).
func (rs *RuleSet) ClassConstant(className, value string) (string, bool) {
	table, ok := rs.perClass[normalizeClassName(className)]
	if !ok {
		return "", false
	}
	v, ok := table[value]
	return v, ok
}

// HasClassConstants reports whether a class has per-class constant rules.
func (rs *RuleSet) HasClassConstants(className string) bool {
	_, ok := rs.perClass[normalizeClassName(className)]
	return ok
}

// Selected reports whether a resource is selected for transformation.
// Exclusions are checked first; without include patterns everything not
// excluded is selected.
func (rs *RuleSet) Selected(resource string) bool {
	for _, pattern := range rs.excludes {
		if matchPattern(pattern, resource) {
			return false
		}
	}
	if len(rs.includes) == 0 {
		return true
	}
	for _, pattern := range rs.includes {
		if matchPattern(pattern, resource) {
			return true
		}
	}
	return false
}

// HasTextMaster reports whether text resources are limited to the master
// text selectors.
func (rs *RuleSet) HasTextMaster() bool {
	return len(rs.texts) > 0
}

// TextRules returns the text replacement table of the first master text
// selector matching the resource.
func (rs *RuleSet) TextRules(resource string) (Table, bool) {
	if r := rs.textRule(resource); r != nil {
		return append(Table(nil), r.table...), true
	}
	return nil, false
}

// TextReplacer is TextRules as a ready replacer.
func (rs *RuleSet) TextReplacer(resource string) (*signature.LiteralReplacer, bool) {
	if r := rs.textRule(resource); r != nil {
		return r.replacer, true
	}
	return nil, false
}

func (rs *RuleSet) textRule(resource string) *textRule {
	for i := range rs.texts {
		if matchPattern(rs.texts[i].pattern, resource) {
			return &rs.texts[i]
		}
	}
	return nil
}

func copyMap(m map[string]string) map[string]string {
	out := make(map[string]string, len(m))
	for k, v := range m {
		out[k] = v
	}
	return out
}

// normalizeClassName accepts a.b.C, a/b/C and a/b/C.class.
func normalizeClassName(name string) string {
	name = strings.TrimSpace(name)
	name = strings.TrimSuffix(name, ".class")
	return strings.ReplaceAll(name, ".", "/")
}

// normalizeName turns a slashed package key into its dotted form.
func normalizeName(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), "/", ".")
}
