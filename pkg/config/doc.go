// Package config holds the options of a transformation run.
//
// Options are identified by a fixed enumeration (RULES_RENAMES, OVERWRITE,
// ...). They can be loaded from several layered sources using koanf:
//
//  1. Built-in defaults
//  2. A config file (jrename.toml, .jrename.toml, or the XDG config dir;
//     TOML or YAML)
//  3. Environment variables prefixed with JRENAME_
//  4. Command-line overrides
//
// The result is an immutable *Options value that is built once per run
// and shared read-only by every component.
package config
