package actions

import (
	"strings"

	"github.com/arthur-debert/jrename/pkg/config"
	"github.com/arthur-debert/jrename/pkg/logging"
	"github.com/arthur-debert/jrename/pkg/manifest"
	"github.com/arthur-debert/jrename/pkg/rules"
	"github.com/arthur-debert/jrename/pkg/signature"
	"github.com/rs/zerolog"
)

// packageListHeaders hold comma separated package clauses.
var packageListHeaders = map[string]bool{
	"import-package":        true,
	"export-package":        true,
	"dynamicimport-package": true,
	"private-package":       true,
	"ibm-api-package":       true,
	"subsystem-content":     true,
}

// untouchedHeaders name bundles, not packages.
var untouchedHeaders = map[string]bool{
	"require-bundle":         true,
	"bundle-symbolicname":    true,
	"bundle-version":         true,
	"bundle-name":            true,
	"bundle-description":     true,
	"bundle-manifestversion": true,
	"manifest-version":       true,
	"signature-version":      true,
}

// Manifest updates package references, versions and bundle identity in
// META-INF/MANIFEST.MF.
type Manifest struct {
	rules  *rules.RuleSet
	strip  bool
	logger zerolog.Logger
}

// NewManifest creates the manifest action.
func NewManifest(rs *rules.RuleSet, opts *config.Options) *Manifest {
	return &Manifest{
		rules:  rs,
		strip:  opts.Flag(config.StripSignatures),
		logger: logging.GetLogger("actions.manifest"),
	}
}

func (a *Manifest) Kind() Kind { return KindManifest }

// Apply rewrites the manifest. When nothing changes the input bytes are
// kept as they are.
func (a *Manifest) Apply(p string, data []byte) (Result, error) {
	m, err := manifest.Parse(data)
	if err != nil {
		return Result{}, err
	}

	count := 0
	for _, s := range append([]*manifest.Section{m.Main}, m.Sections...) {
		for i := range s.Attributes {
			attr := &s.Attributes[i]
			value, n := a.updateHeader(p, attr.Name, attr.Value)
			if n > 0 {
				attr.Value = value
				count += n
			}
		}
	}
	count += a.updateBundle(m.Main, count > 0)
	if a.strip {
		count += manifest.StripDigests(m)
	}

	if count == 0 {
		return Result{}, nil
	}
	a.logger.Debug().Str("path", p).Int("changes", count).Msg("Manifest updated")
	return Result{Data: manifest.Write(m), Replacements: count}, nil
}

func (a *Manifest) updateHeader(p, name, value string) (string, int) {
	lower := strings.ToLower(name)
	switch {
	case untouchedHeaders[lower]:
		return value, 0
	case packageListHeaders[lower]:
		return a.updatePackageList(p, name, value)
	default:
		return a.rules.Matcher().ReplacePackages(value)
	}
}

// updatePackageList renames the packages of each clause, renames package
// references inside its attributes (uses:=) and applies the version rule
// of renamed packages.
func (a *Manifest) updatePackageList(p, header, value string) (string, int) {
	spans, complete := signature.Clauses(value)
	if !complete {
		a.logger.Warn().Str("path", p).Str("header", header).
			Msg("Unbalanced quotes in header, last clause processed as is")
	}

	var (
		b     strings.Builder
		count int
		last  int
	)
	for _, span := range spans {
		clause := value[span.Start:span.End]
		updated, n := a.updateClause(p, header, clause)
		count += n
		b.WriteString(value[last:span.Start])
		b.WriteString(updated)
		last = span.End
	}
	if count == 0 {
		return value, 0
	}
	b.WriteString(value[last:])
	return b.String(), count
}

func (a *Manifest) updateClause(p, header, clause string) (string, int) {
	matcher := a.rules.Matcher()
	pkgSpans := signature.ClausePackages(clause)

	var (
		b       strings.Builder
		count   int
		last    int
		renamed []string
	)
	for _, span := range pkgSpans {
		pkg := clause[span.Start:span.End]
		newPkg, ok := renameClausePackage(matcher, pkg)
		b.WriteString(clause[last:span.Start])
		b.WriteString(newPkg)
		last = span.End
		if ok {
			count++
			renamed = append(renamed, newPkg)
		}
	}

	rest, n := matcher.ReplacePackages(clause[last:])
	count += n
	b.WriteString(rest)
	out := b.String()

	for _, pkg := range renamed {
		version, ok := a.rules.Version(signature.StripWildcard(pkg), header)
		if !ok {
			continue
		}
		withVersion, err := signature.ReplaceVersion(out, version)
		if err != nil {
			a.logger.Warn().Err(err).Str("path", p).Str("header", header).
				Msg("Version attribute left unchanged")
			break
		}
		if withVersion != out {
			out = withVersion
			count++
		}
		break
	}
	return out, count
}

// renameClausePackage renames a clause package, which may be a wildcard
// in DynamicImport-Package.
func renameClausePackage(m *signature.Matcher, pkg string) (string, bool) {
	if signature.IsWildcard(pkg) {
		base, ok := m.RenamePackage(signature.StripWildcard(pkg))
		return base + signature.Wildcard, ok
	}
	return m.RenamePackage(pkg)
}

// updateBundle applies the bundle rule of Bundle-SymbolicName. The "*"
// rule applies only to bundles whose manifest had other changes.
func (a *Manifest) updateBundle(main *manifest.Section, changed bool) int {
	value, ok := main.Get("Bundle-SymbolicName")
	if !ok || !a.rules.HasBundles() {
		return 0
	}
	clause, _ := signature.FirstClause(value)
	spans := signature.ClausePackages(clause)
	if len(spans) == 0 {
		return 0
	}
	name := clause[spans[0].Start:spans[0].End]

	update, ok := a.rules.BundleUpdate(name)
	if !ok {
		return 0
	}
	if !a.rules.HasExactBundle(name) && !changed {
		return 0
	}

	count := 0
	set := func(header, newValue string) {
		old, present := main.Get(header)
		if newValue == "" || (present && old == newValue) {
			return
		}
		main.Set(header, newValue)
		count++
	}

	set("Bundle-SymbolicName", value[:spans[0].Start]+update.NewSymbolicName(name)+value[spans[0].End:])
	set("Bundle-Version", update.Version)
	if old, present := main.Get("Bundle-Name"); present || !strings.HasPrefix(update.Name, "+") {
		set("Bundle-Name", update.NewName(old))
	}
	if old, present := main.Get("Bundle-Description"); present || !strings.HasPrefix(update.Description, "+") {
		set("Bundle-Description", update.NewDescription(old))
	}
	return count
}
