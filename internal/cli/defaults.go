package cli

import (
	"embed"
)

// defaultRules holds the rule files written by `jrename init`, named as
// config.DefaultFileConfig references them.
//
//go:embed defaults/*.properties
var defaultRules embed.FS
