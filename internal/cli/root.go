package cli

import (
	"fmt"
	"io"

	"github.com/arthur-debert/jrename/internal/version"
	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/arthur-debert/jrename/pkg/logging"
	"github.com/rs/zerolog/log"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// Exit codes of the jrename binary.
const (
	ExitOK            = 0
	ExitFatal         = 1
	ExitEntryFailures = 2
)

// NewRootCmd creates and returns the root command
func NewRootCmd() *cobra.Command {
	return newRootCmd(afero.NewOsFs())
}

func newRootCmd(fs afero.Fs) *cobra.Command {
	// Initialize custom template formatting functions
	initTemplateFormatting()

	var verbosity int

	rootCmd := &cobra.Command{
		Use:     "jrename",
		Short:   MsgRootShort,
		Long:    MsgRootLong,
		Version: version.Version,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			logging.SetupLoggerTo(cmd.ErrOrStderr(), verbosity)
			log.Debug().Str("command", cmd.Name()).Msg("Command started")
		},
		RunE: func(cmd *cobra.Command, args []string) error {
			_ = cmd.Help()
			return fmt.Errorf("no command specified")
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		CompletionOptions: cobra.CompletionOptions{
			DisableDefaultCmd: true,
		},
		DisableAutoGenTag: true,
	}

	rootCmd.PersistentFlags().CountVarP(&verbosity, "verbose", "v", MsgFlagVerbose)
	rootCmd.SetUsageTemplate(MsgUsageTemplate)

	rootCmd.AddCommand(newTransformCmd(fs))
	rootCmd.AddCommand(newInitCmd(fs))
	rootCmd.AddCommand(newVersionCmd())

	return rootCmd
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: MsgVersionShort,
		Run: func(cmd *cobra.Command, args []string) {
			printVersion(cmd.OutOrStdout())
		},
	}
}

func printVersion(w io.Writer) {
	_, _ = fmt.Fprintf(w, "jrename version %s\n", version.Version)
	_, _ = fmt.Fprintf(w, "  commit: %s\n", version.Commit)
	_, _ = fmt.Fprintf(w, "  built:  %s\n", version.Date)
}

// ExitCode maps the error returned by the root command to the process exit
// code: entry failures exit 2, anything else non-nil exits 1.
func ExitCode(err error) int {
	switch {
	case err == nil:
		return ExitOK
	case errors.IsErrorCode(err, errors.ErrActionExecute):
		return ExitEntryFailures
	default:
		return ExitFatal
	}
}
