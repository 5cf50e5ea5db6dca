package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/adrg/xdg"
	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/arthur-debert/jrename/pkg/logging"
	"github.com/knadh/koanf/parsers/toml"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/v2"
)

// DefaultEnvPrefix is the prefix of environment variables read as options.
const DefaultEnvPrefix = "JRENAME_"

// configFileNames are searched, in order, in LoadParams.SearchDir.
var configFileNames = []string{"jrename.toml", ".jrename.toml", "jrename.yaml", ".jrename.yaml"}

// LoadParams controls where options are read from.
type LoadParams struct {
	// ConfigFile is an explicit config file; when empty SearchDir and the
	// XDG config directory are searched.
	ConfigFile string
	// SearchDir is searched for jrename.toml and friends. Empty means ".".
	SearchDir string
	// EnvPrefix selects environment variables; empty disables env loading.
	EnvPrefix string
	// Overrides are applied last, typically from command-line flags.
	Overrides map[string]interface{}
}

func defaults() map[string]interface{} {
	return map[string]interface{}{
		Overwrite.Key():           false,
		Invert.Key():              false,
		WidenArchiveNesting.Key(): false,
		StripSignatures.Key():     false,
	}
}

// Load reads options from defaults, config file, environment and
// overrides, later sources winning.
func Load(p LoadParams) (*Options, []Warning, error) {
	logger := logging.GetLogger("config.loader")
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(defaults(), "."), nil); err != nil {
		return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load defaults")
	}

	// 2. Config file
	path := p.ConfigFile
	if path == "" {
		path = findConfigFile(p.SearchDir)
	} else if _, err := os.Stat(path); err != nil {
		return nil, nil, errors.Wrapf(err, errors.ErrConfigLoad, "config file %s", path)
	}
	if path != "" {
		parser := koanf.Parser(toml.Parser())
		if ext := strings.ToLower(filepath.Ext(path)); ext == ".yaml" || ext == ".yml" {
			parser = yaml.Parser()
		}
		tempK := koanf.New(".")
		if err := tempK.Load(file.Provider(path), parser); err != nil {
			return nil, nil, errors.Wrapf(err, errors.ErrConfigLoad,
				"failed to load config from %s", path)
		}
		if err := mergeLayer(k, tempK); err != nil {
			return nil, nil, err
		}
		logger.Debug().Str("path", path).Msg("Loaded config file")
	}

	// 3. Environment, options only
	if p.EnvPrefix != "" {
		prefix := p.EnvPrefix
		tempK := koanf.New(".")
		err := tempK.Load(env.Provider(prefix, ".", func(s string) string {
			id, ok := ParseOptionID(strings.TrimPrefix(s, prefix))
			if !ok {
				logger.Debug().Str("variable", s).Msg("Ignoring environment variable")
				return ""
			}
			return id.Key()
		}), nil)
		if err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load env vars")
		}
		if err := mergeLayer(k, tempK); err != nil {
			return nil, nil, err
		}
	}

	// 4. Overrides
	if len(p.Overrides) > 0 {
		tempK := koanf.New(".")
		if err := tempK.Load(confmap.Provider(p.Overrides, "."), nil); err != nil {
			return nil, nil, errors.Wrap(err, errors.ErrConfigLoad, "failed to load overrides")
		}
		if err := mergeLayer(k, tempK); err != nil {
			return nil, nil, err
		}
	}

	opts, warnings, err := NewOptions(k.All())
	for _, w := range warnings {
		logger.Warn().Str("option", w.Option).Msg(w.Message)
	}
	return opts, warnings, err
}

// mergeLayer folds one source into k after rewriting every recognized key
// to its canonical dotted form, so that OVERWRITE in a file and
// JRENAME_OVERWRITE in the environment address the same option.
func mergeLayer(k, layer *koanf.Koanf) error {
	canonical := make(map[string]interface{})
	for key, value := range layer.All() {
		if id, ok := ParseOptionID(key); ok {
			key = id.Key()
		}
		canonical[key] = value
	}
	if err := k.Load(confmap.Provider(canonical, "."), nil); err != nil {
		return errors.Wrap(err, errors.ErrConfigLoad, "failed to merge configuration layer")
	}
	return nil
}

func findConfigFile(dir string) string {
	if dir == "" {
		dir = "."
	}
	for _, name := range configFileNames {
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); err == nil {
			return path
		}
	}
	xdg.Reload()
	if path, err := xdg.SearchConfigFile(filepath.Join("jrename", "config.toml")); err == nil {
		return path
	}
	return ""
}
