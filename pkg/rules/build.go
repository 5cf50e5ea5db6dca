package rules

import (
	"fmt"
	"sort"
	"strings"

	"github.com/arthur-debert/jrename/pkg/config"
	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/arthur-debert/jrename/pkg/logging"
	"github.com/arthur-debert/jrename/pkg/signature"
	"github.com/rs/zerolog"
)

// Build loads every rule category named by the options from src.
//
// Malformed lines are skipped and reported as warnings. A reference that
// cannot be resolved, or a run left with no rules at all, is a
// configuration error.
func Build(src Source, opts *config.Options) (*RuleSet, []Warning, error) {
	b := &builder{
		src:    src,
		logger: logging.GetLogger("rules.build"),
		rs: &RuleSet{
			renames:  make(map[string]string),
			versions: make(map[string]string),
			bundles:  make(map[string]BundleUpdate),
			direct:   make(map[string]string),
			perClass: make(map[string]map[string]string),
		},
	}

	steps := []struct {
		id   config.OptionID
		load func(ref string, t Table) error
	}{
		{config.RulesSelections, b.addSelections},
		{config.RulesRenames, b.addRenames},
		{config.RulesVersions, b.addVersions},
		{config.RulesBundles, b.addBundles},
		{config.RulesDirect, b.addDirect},
		{config.RulesPerClassConstant, b.addPerClass},
		{config.RulesMasterText, b.addTexts},
	}
	for _, step := range steps {
		for _, ref := range opts.Values(step.id) {
			table, err := b.load(step.id, ref)
			if err != nil {
				return nil, b.warnings, err
			}
			if err := step.load(ref, table); err != nil {
				return nil, b.warnings, err
			}
		}
	}

	rs := b.rs
	if opts.Flag(config.Invert) {
		b.invert()
	}
	if rs.empty() {
		return nil, b.warnings, errors.New(errors.ErrConfigInvalid, "no rules were loaded")
	}

	rs.matcher = signature.NewMatcher(rs.renames)
	rs.directReplacer = signature.NewLiteralReplacer(rs.direct)

	b.logger.Info().
		Int("renames", len(rs.renames)).
		Int("versions", len(rs.versions)).
		Int("bundles", len(rs.bundles)).
		Int("direct", len(rs.direct)).
		Int("perClass", len(rs.perClass)).
		Int("texts", len(rs.texts)).
		Int("warnings", len(b.warnings)).
		Msg("Rule set built")
	return rs, b.warnings, nil
}

func (rs *RuleSet) empty() bool {
	return len(rs.renames) == 0 && len(rs.versions) == 0 && len(rs.bundles) == 0 &&
		len(rs.direct) == 0 && len(rs.perClass) == 0 && len(rs.texts) == 0
}

type builder struct {
	src      Source
	rs       *RuleSet
	warnings []Warning
	logger   zerolog.Logger
}

func (b *builder) load(id config.OptionID, ref string) (Table, error) {
	table, err := b.src.Properties(ref)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrConfigInvalid,
			"cannot load %s rules from %q", id, ref).
			WithDetail("option", string(id)).
			WithDetail("ref", ref)
	}
	return table, nil
}

func (b *builder) warn(source, key, format string, args ...interface{}) {
	w := Warning{Source: source, Key: key, Message: fmt.Sprintf(format, args...)}
	b.logger.Warn().Str("source", source).Str("key", key).Msg(w.Message)
	b.warnings = append(b.warnings, w)
}

func (b *builder) addRenames(ref string, t Table) error {
	for _, p := range t {
		key, value := normalizeName(p.Key), normalizeName(p.Value)
		if !validName(key, true) {
			b.warn(ref, p.Key, "invalid package name, rule skipped")
			continue
		}
		if !validName(value, true) {
			b.warn(ref, p.Key, "invalid replacement %q, rule skipped", p.Value)
			continue
		}
		b.rs.renames[key] = signature.StripWildcard(value)
	}
	return nil
}

func (b *builder) addVersions(ref string, t Table) error {
	for _, p := range t {
		pkg, header, _ := strings.Cut(p.Key, ";")
		pkg = normalizeName(pkg)
		header = strings.TrimSpace(header)
		value := strings.TrimSpace(p.Value)
		if !validName(pkg, true) {
			b.warn(ref, p.Key, "invalid package name, rule skipped")
			continue
		}
		if value == "" {
			b.warn(ref, p.Key, "empty version, rule skipped")
			continue
		}
		key := pkg
		if header != "" {
			key += ";" + header
		}
		b.rs.versions[key] = value
	}
	return nil
}

func (b *builder) addBundles(ref string, t Table) error {
	for _, p := range t {
		key := strings.TrimSpace(p.Key)
		if key == "" {
			b.warn(ref, p.Key, "empty bundle name, rule skipped")
			continue
		}
		u, err := parseBundleUpdate(p.Value)
		if err != nil {
			b.warn(ref, p.Key, "%v, rule skipped", err)
			continue
		}
		b.rs.bundles[key] = u
	}
	return nil
}

func (b *builder) addDirect(ref string, t Table) error {
	for _, p := range t {
		if p.Key == "" {
			b.warn(ref, p.Key, "empty direct string, rule skipped")
			continue
		}
		b.rs.direct[p.Key] = p.Value
	}
	return nil
}

func (b *builder) addPerClass(ref string, t Table) error {
	for _, p := range t {
		class := normalizeClassName(p.Key)
		if class == "" {
			b.warn(ref, p.Key, "empty class name, rule skipped")
			continue
		}
		merged := b.rs.perClass[class]
		if merged == nil {
			merged = make(map[string]string)
		}
		for _, sub := range config.SplitValues(p.Value) {
			table, err := b.load(config.RulesPerClassConstant, sub)
			if err != nil {
				return err
			}
			for _, c := range table {
				merged[c.Key] = c.Value
			}
		}
		if len(merged) == 0 {
			b.warn(ref, p.Key, "no constants for class, rule skipped")
			continue
		}
		b.rs.perClass[class] = merged
	}
	return nil
}

func (b *builder) addTexts(ref string, t Table) error {
	for _, p := range t {
		pattern := strings.TrimSpace(p.Key)
		if pattern == "" {
			b.warn(ref, p.Key, "empty text selector, rule skipped")
			continue
		}
		var table Table
		for _, sub := range config.SplitValues(p.Value) {
			loaded, err := b.load(config.RulesMasterText, sub)
			if err != nil {
				return err
			}
			table = append(table, loaded...)
		}
		b.rs.texts = append(b.rs.texts, textRule{
			pattern:  pattern,
			table:    table,
			replacer: signature.NewLiteralReplacer(table.Map()),
		})
	}
	return nil
}

func (b *builder) addSelections(ref string, t Table) error {
	for _, p := range t {
		pattern := strings.TrimSpace(p.Key)
		switch {
		case pattern == "" || pattern == "!":
			b.warn(ref, p.Key, "empty selection pattern, rule skipped")
		case strings.HasPrefix(pattern, "!"):
			b.rs.excludes = append(b.rs.excludes, strings.TrimPrefix(pattern, "!"))
		default:
			b.rs.includes = append(b.rs.includes, pattern)
		}
	}
	return nil
}

// invert swaps renames and direct strings so a run undoes a previous one.
func (b *builder) invert() {
	keys := make([]string, 0, len(b.rs.renames))
	for key := range b.rs.renames {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	inverted := make(map[string]string, len(b.rs.renames))
	for _, key := range keys {
		value := b.rs.renames[key]
		newKey, newValue := value, key
		if signature.IsWildcard(key) {
			newKey, newValue = value+signature.Wildcard, signature.StripWildcard(key)
		}
		if prev, ok := inverted[newKey]; ok && prev != newValue {
			b.warn("invert", newKey, "ambiguous inverse, keeping %q", prev)
			continue
		}
		inverted[newKey] = newValue
	}
	b.rs.renames = inverted

	direct := make(map[string]string, len(b.rs.direct))
	for key, value := range b.rs.direct {
		if value == "" {
			b.warn("invert", key, "empty replacement cannot be inverted, rule dropped")
			continue
		}
		direct[value] = key
	}
	b.rs.direct = direct
}

// validName checks a dotted Java name, optionally ending in ".*".
func validName(name string, allowWildcard bool) bool {
	if allowWildcard {
		name = signature.StripWildcard(name)
	}
	if name == "" {
		return false
	}
	for _, segment := range strings.Split(name, ".") {
		if segment == "" {
			return false
		}
		for i := 0; i < len(segment); i++ {
			c := segment[i]
			ok := c >= 'a' && c <= 'z' || c >= 'A' && c <= 'Z' || c >= '0' && c <= '9' ||
				c == '_' || c == '$' || c >= 0x80
			if !ok {
				return false
			}
		}
	}
	return true
}
