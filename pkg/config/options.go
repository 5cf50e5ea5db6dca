package config

import (
	"sort"
	"strings"

	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/go-viper/mapstructure/v2"
)

// OptionID identifies one recognized option.
type OptionID string

const (
	RulesRenames          OptionID = "RULES_RENAMES"
	RulesVersions         OptionID = "RULES_VERSIONS"
	RulesBundles          OptionID = "RULES_BUNDLES"
	RulesDirect           OptionID = "RULES_DIRECT"
	RulesMasterText       OptionID = "RULES_MASTER_TEXT"
	RulesPerClassConstant OptionID = "RULES_PER_CLASS_CONSTANT"
	RulesSelections       OptionID = "RULES_SELECTIONS"
	Overwrite             OptionID = "OVERWRITE"
	Invert                OptionID = "INVERT"
	WidenArchiveNesting   OptionID = "WIDEN_ARCHIVE_NESTING"
	StripSignatures       OptionID = "STRIP_SIGNATURES"
)

// OptionKind tells whether an option is a boolean flag or carries values.
type OptionKind int

const (
	KindFlag OptionKind = iota
	KindValues
)

var optionKinds = map[OptionID]OptionKind{
	RulesRenames:          KindValues,
	RulesVersions:         KindValues,
	RulesBundles:          KindValues,
	RulesDirect:           KindValues,
	RulesMasterText:       KindValues,
	RulesPerClassConstant: KindValues,
	RulesSelections:       KindValues,
	Overwrite:             KindFlag,
	Invert:                KindFlag,
	WidenArchiveNesting:   KindFlag,
	StripSignatures:       KindFlag,
}

// AllOptions returns every recognized option, sorted.
func AllOptions() []OptionID {
	ids := make([]OptionID, 0, len(optionKinds))
	for id := range optionKinds {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// Kind returns the kind of a recognized option.
func (id OptionID) Kind() OptionKind {
	return optionKinds[id]
}

// Key returns the lower-case dotted configuration key of an option,
// e.g. RULES_MASTER_TEXT -> rules.master.text
func (id OptionID) Key() string {
	return strings.ReplaceAll(strings.ToLower(string(id)), "_", ".")
}

// ParseOptionID maps a configuration key in any of its spellings
// (RULES_RENAMES, rules.renames, rules-renames) to an OptionID.
func ParseOptionID(key string) (OptionID, bool) {
	normalized := strings.ToUpper(key)
	normalized = strings.NewReplacer(".", "_", "-", "_").Replace(normalized)
	id := OptionID(normalized)
	_, ok := optionKinds[id]
	return id, ok
}

// Warning is a recoverable configuration anomaly.
type Warning struct {
	Option  string
	Message string
}

func (w Warning) String() string {
	return w.Option + ": " + w.Message
}

// Options is the immutable option set of one run.
type Options struct {
	flags  map[OptionID]bool
	values map[OptionID][]string
}

// NewOptions validates a raw key/value map into Options. Unrecognized keys
// are configuration errors; value options given no value produce a
// warning and are left unset.
func NewOptions(raw map[string]interface{}) (*Options, []Warning, error) {
	opts := &Options{
		flags:  make(map[OptionID]bool),
		values: make(map[OptionID][]string),
	}
	var warnings []Warning

	keys := make([]string, 0, len(raw))
	for k := range raw {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, key := range keys {
		value := raw[key]
		id, ok := ParseOptionID(key)
		if !ok {
			return nil, warnings, errors.Newf(errors.ErrUnknownOption,
				"unrecognized option %q", key).WithDetail("option", key)
		}

		switch id.Kind() {
		case KindFlag:
			var b bool
			if err := mapstructure.WeakDecode(value, &b); err != nil {
				return nil, warnings, errors.Wrapf(err, errors.ErrConfigInvalid,
					"option %s expects a boolean", id)
			}
			opts.flags[id] = b
		case KindValues:
			list, err := decodeValues(value)
			if err != nil {
				return nil, warnings, errors.Wrapf(err, errors.ErrConfigInvalid,
					"option %s expects a value list", id)
			}
			if len(list) == 0 {
				warnings = append(warnings, Warning{
					Option:  string(id),
					Message: "option requires an argument, ignored",
				})
				continue
			}
			opts.values[id] = list
		}
	}

	return opts, warnings, nil
}

// MustOptions is NewOptions for literals known to be valid; it panics on error.
func MustOptions(raw map[string]interface{}) *Options {
	opts, _, err := NewOptions(raw)
	if err != nil {
		panic(err)
	}
	return opts
}

func decodeValues(value interface{}) ([]string, error) {
	if s, ok := value.(string); ok {
		return SplitValues(s), nil
	}
	var list []string
	if err := mapstructure.WeakDecode(value, &list); err != nil {
		return nil, err
	}
	var out []string
	for _, v := range list {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out, nil
}

// Flag returns the value of a boolean option; unset flags are false.
func (o *Options) Flag(id OptionID) bool {
	if o == nil {
		return false
	}
	return o.flags[id]
}

// Values returns the values of a value-list option.
func (o *Options) Values(id OptionID) []string {
	if o == nil {
		return nil
	}
	return append([]string(nil), o.values[id]...)
}

// Value returns the first value of an option.
func (o *Options) Value(id OptionID) (string, bool) {
	if o == nil || len(o.values[id]) == 0 {
		return "", false
	}
	return o.values[id][0], true
}

// Has reports whether an option was given at all.
func (o *Options) Has(id OptionID) bool {
	if o == nil {
		return false
	}
	if _, ok := o.flags[id]; ok {
		return true
	}
	_, ok := o.values[id]
	return ok
}

// AsMap returns the options keyed by their dotted configuration key.
func (o *Options) AsMap() map[string]interface{} {
	out := make(map[string]interface{})
	if o == nil {
		return out
	}
	for id, b := range o.flags {
		out[id.Key()] = b
	}
	for id, v := range o.values {
		out[id.Key()] = append([]string(nil), v...)
	}
	return out
}
