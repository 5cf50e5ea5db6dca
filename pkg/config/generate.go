package config

import (
	toml "github.com/pelletier/go-toml/v2"
)

// FileConfig is the on-disk shape of jrename.toml.
type FileConfig struct {
	Overwrite           bool      `toml:"overwrite"`
	Invert              bool      `toml:"invert"`
	WidenArchiveNesting bool      `toml:"widen_archive_nesting"`
	StripSignatures     bool      `toml:"strip_signatures"`
	Rules               FileRules `toml:"rules"`
}

// FileRules lists rule file references per category.
type FileRules struct {
	Renames          []string `toml:"renames,omitempty"`
	Versions         []string `toml:"versions,omitempty"`
	Bundles          []string `toml:"bundles,omitempty"`
	Direct           []string `toml:"direct,omitempty"`
	MasterText       []string `toml:"master_text,omitempty"`
	PerClassConstant []string `toml:"per_class_constant,omitempty"`
	Selections       []string `toml:"selections,omitempty"`
}

// DefaultFileConfig returns the configuration written by `jrename init`.
func DefaultFileConfig() FileConfig {
	return FileConfig{
		Rules: FileRules{
			Renames:  []string{"jakarta-renames.properties"},
			Versions: []string{"jakarta-versions.properties"},
			Bundles:  []string{"jakarta-bundles.properties"},
			Direct:   []string{"jakarta-direct.properties"},
		},
	}
}

// GenerateConfigContent renders a FileConfig as TOML.
func GenerateConfigContent(cfg FileConfig) ([]byte, error) {
	return toml.Marshal(cfg)
}

// DecodeConfigContent parses TOML written by GenerateConfigContent.
func DecodeConfigContent(data []byte) (FileConfig, error) {
	var cfg FileConfig
	err := toml.Unmarshal(data, &cfg)
	return cfg, err
}
