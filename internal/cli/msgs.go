package cli

import (
	_ "embed"
	"strings"
)

// Short messages (one-liners)
const (
	// Command descriptions
	MsgRootShort      = "Rename Java packages inside archives"
	MsgTransformShort = "Transform archives or directories"
	MsgInitShort      = "Write a default configuration and rule files"
	MsgVersionShort   = "Print version information"

	// Status messages
	MsgFileWritten = "Wrote %s\n"
	MsgFileKept    = "Kept existing %s\n"
	MsgNoChanges   = "No changes."

	// Error messages
	MsgErrNoInputs      = "no input given"
	MsgErrEntryFailures = "%d entries could not be transformed"
	MsgErrReport        = "unknown report level %q (terse, normal, verbose)"
	MsgErrSetFlag       = "invalid --set value %q, expected key=value"

	// Flag descriptions
	MsgFlagVerbose   = "Increase verbosity (-v INFO, -vv DEBUG, -vvv TRACE)"
	MsgFlagConfig    = "Configuration file (default: ./jrename.toml or $XDG_CONFIG_HOME/jrename/config.toml)"
	MsgFlagOutput    = "Output file, or output directory for several inputs"
	MsgFlagRulesDir  = "Directory rule files are resolved against"
	MsgFlagSet       = "Set an option (key=value), may be repeated"
	MsgFlagOverwrite = "Let renamed entries replace existing entries"
	MsgFlagInvert    = "Apply the rename and direct rules in reverse"
	MsgFlagWiden     = "Transform any archive nested in any archive"
	MsgFlagStrip     = "Remove signature files and manifest digests"
	MsgFlagReport    = "Report detail: terse, normal or verbose"
	MsgFlagForce     = "Overwrite existing files"
)

// Long messages from embedded files
var (
	//go:embed msgs/root-long.txt
	msgRootLongRaw string
	MsgRootLong    = strings.TrimSpace(msgRootLongRaw)

	//go:embed msgs/transform-long.txt
	msgTransformLongRaw string
	MsgTransformLong    = strings.TrimSpace(msgTransformLongRaw)

	//go:embed msgs/transform-example.txt
	msgTransformExampleRaw string
	MsgTransformExample    = strings.TrimRight(msgTransformExampleRaw, "\n")

	//go:embed msgs/init-long.txt
	msgInitLongRaw string
	MsgInitLong    = strings.TrimSpace(msgInitLongRaw)
)

// MsgUsageTemplate is the help layout of every command.
const MsgUsageTemplate = `{{boldUpper "usage"}}:{{if .Runnable}}
  {{.UseLine}}{{end}}{{if .HasAvailableSubCommands}}
  {{.CommandPath}} [command]{{end}}{{if gt (len .Aliases) 0}}

{{boldUpper "aliases"}}:
  {{.NameAndAliases}}{{end}}{{if .HasExample}}

{{boldUpper "examples"}}:
{{.Example}}{{end}}{{if .HasAvailableSubCommands}}

{{boldUpper "commands"}}:{{range .Commands}}{{if (or .IsAvailableCommand (eq .Name "help"))}}
  {{bold (rpad .Name .NamePadding)}} {{.Short}}{{end}}{{end}}{{end}}{{if .HasAvailableLocalFlags}}

{{boldUpper "flags"}}:
{{.LocalFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}{{if .HasAvailableInheritedFlags}}

{{boldUpper "global flags"}}:
{{.InheritedFlags.FlagUsages | trimTrailingWhitespaces}}{{end}}
`
