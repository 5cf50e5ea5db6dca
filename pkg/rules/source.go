package rules

import (
	"fmt"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/arthur-debert/jrename/pkg/logging"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/v2"
	"github.com/magiconair/properties"
	"github.com/spf13/afero"
)

// Source resolves a rule reference to its table.
type Source interface {
	Properties(ref string) (Table, error)
}

// MapSource is an in-memory Source keyed by reference.
type MapSource map[string]Table

// Properties returns a copy of the named table.
func (s MapSource) Properties(ref string) (Table, error) {
	t, ok := s[ref]
	if !ok {
		return nil, errors.Newf(errors.ErrRuleSource, "rule source %q not found", ref).
			WithDetail("ref", ref)
	}
	return append(Table(nil), t...), nil
}

// DirSource reads rule files from a filesystem. References are paths
// relative to Root unless absolute. The format follows the extension:
// .properties (or none) is a Java properties file, .toml and .yaml/.yml
// are flat key/value documents.
type DirSource struct {
	Fs   afero.Fs
	Root string
}

// NewDirSource creates a source over fs rooted at root.
func NewDirSource(fs afero.Fs, root string) *DirSource {
	return &DirSource{Fs: fs, Root: root}
}

// NewOsSource creates a source over the OS filesystem.
func NewOsSource(root string) *DirSource {
	return NewDirSource(afero.NewOsFs(), root)
}

// Properties reads and parses the referenced rule file.
func (s *DirSource) Properties(ref string) (Table, error) {
	logger := logging.GetLogger("rules.source")

	path, err := s.resolve(ref)
	if err != nil {
		return nil, err
	}
	data, err := afero.ReadFile(s.Fs, path)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleSource, "failed to read rule source %q", ref).
			WithDetail("ref", ref).
			WithDetail("path", path)
	}

	var table Table
	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		table, err = parseDocument(data, toml.Parser())
	case ".yaml", ".yml":
		table, err = parseDocument(data, yaml.Parser())
	default:
		table, err = parseProperties(data)
	}
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrRuleSource, "failed to parse rule source %q", ref).
			WithDetail("ref", ref).
			WithDetail("path", path)
	}

	logger.Debug().
		Str("ref", ref).
		Str("path", path).
		Int("lines", len(table)).
		Msg("Loaded rule source")
	return table, nil
}

func (s *DirSource) resolve(ref string) (string, error) {
	path := ref
	if !filepath.IsAbs(path) && s.Root != "" {
		path = filepath.Join(s.Root, ref)
	}
	if ok, _ := afero.Exists(s.Fs, path); ok {
		return path, nil
	}
	if filepath.Ext(path) == "" {
		if ok, _ := afero.Exists(s.Fs, path+".properties"); ok {
			return path + ".properties", nil
		}
	}
	return "", errors.Newf(errors.ErrRuleSource, "rule source %q not found", ref).
		WithDetail("ref", ref).
		WithDetail("path", path)
}

func parseProperties(data []byte) (Table, error) {
	loader := &properties.Loader{Encoding: properties.UTF8, DisableExpansion: true}
	p, err := loader.LoadBytes(data)
	if err != nil {
		return nil, err
	}
	table := make(Table, 0, p.Len())
	for _, key := range p.Keys() {
		value, _ := p.Get(key)
		table = append(table, Pair{Key: key, Value: value})
	}
	return table, nil
}

type documentParser interface {
	Unmarshal([]byte) (map[string]interface{}, error)
}

// parseDocument loads a TOML or YAML document through koanf. Nested
// tables flatten to dotted keys; quoted keys such as "javax.servlet.*"
// are kept whole.
func parseDocument(data []byte, parser documentParser) (Table, error) {
	doc, err := parser.Unmarshal(data)
	if err != nil {
		return nil, err
	}
	k := koanf.New(".")
	if err := k.Load(confmap.Provider(doc, ""), nil); err != nil {
		return nil, err
	}

	all := k.All()
	keys := make([]string, 0, len(all))
	for key := range all {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	table := make(Table, 0, len(keys))
	for _, key := range keys {
		table = append(table, Pair{Key: key, Value: documentValue(all[key])})
	}
	return table, nil
}

func documentValue(v interface{}) string {
	switch val := v.(type) {
	case string:
		return val
	case []interface{}:
		parts := make([]string, 0, len(val))
		for _, item := range val {
			parts = append(parts, fmt.Sprint(item))
		}
		return strings.Join(parts, ",")
	default:
		return fmt.Sprint(val)
	}
}
