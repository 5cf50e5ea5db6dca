package cli

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/arthur-debert/jrename/pkg/changes"
	"github.com/arthur-debert/jrename/pkg/config"
	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/arthur-debert/jrename/pkg/logging"
	"github.com/arthur-debert/jrename/pkg/rules"
	"github.com/arthur-debert/jrename/pkg/transform"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

type transformFlags struct {
	configFile string
	output     string
	rulesDir   string
	set        []string
	report     string

	overwrite bool
	invert    bool
	widen     bool
	strip     bool
}

func newTransformCmd(fs afero.Fs) *cobra.Command {
	var flags transformFlags

	cmd := &cobra.Command{
		Use:     "transform [flags] <input>...",
		Short:   MsgTransformShort,
		Long:    MsgTransformLong,
		Example: MsgTransformExample,
		Args:    cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runTransform(cmd, fs, flags, args)
		},
	}

	f := cmd.Flags()
	f.StringVarP(&flags.configFile, "config", "c", "", MsgFlagConfig)
	f.StringVarP(&flags.output, "output", "o", "", MsgFlagOutput)
	f.StringVar(&flags.rulesDir, "rules-dir", "", MsgFlagRulesDir)
	f.StringArrayVar(&flags.set, "set", nil, MsgFlagSet)
	f.StringVar(&flags.report, "report", "normal", MsgFlagReport)
	f.BoolVar(&flags.overwrite, "overwrite", false, MsgFlagOverwrite)
	f.BoolVar(&flags.invert, "invert", false, MsgFlagInvert)
	f.BoolVar(&flags.widen, "widen", false, MsgFlagWiden)
	f.BoolVar(&flags.strip, "strip-signatures", false, MsgFlagStrip)

	return cmd
}

// overrides collects the options given on the command line. Boolean flags
// only override lower layers when given explicitly.
func (f transformFlags) overrides(cmd *cobra.Command) (map[string]interface{}, error) {
	out := make(map[string]interface{})
	for _, kv := range f.set {
		key, value, ok := strings.Cut(kv, "=")
		if !ok || strings.TrimSpace(key) == "" {
			return nil, errors.Newf(errors.ErrInvalidInput, MsgErrSetFlag, kv)
		}
		out[strings.TrimSpace(key)] = value
	}
	bools := []struct {
		flag string
		id   config.OptionID
		val  bool
	}{
		{"overwrite", config.Overwrite, f.overwrite},
		{"invert", config.Invert, f.invert},
		{"widen", config.WidenArchiveNesting, f.widen},
		{"strip-signatures", config.StripSignatures, f.strip},
	}
	for _, b := range bools {
		if cmd.Flags().Changed(b.flag) {
			out[b.id.Key()] = b.val
		}
	}
	return out, nil
}

func parseReport(level string) (changes.Verbosity, error) {
	switch strings.ToLower(level) {
	case "terse":
		return changes.Terse, nil
	case "normal", "":
		return changes.Normal, nil
	case "verbose":
		return changes.Verbose, nil
	}
	return 0, errors.Newf(errors.ErrInvalidInput, MsgErrReport, level)
}

func runTransform(cmd *cobra.Command, fs afero.Fs, flags transformFlags, inputs []string) error {
	logger := logging.GetLogger("cli.transform")

	report, err := parseReport(flags.report)
	if err != nil {
		return err
	}
	overrides, err := flags.overrides(cmd)
	if err != nil {
		return err
	}

	// Step 1: options and rules
	opts, _, err := config.Load(config.LoadParams{
		ConfigFile: flags.configFile,
		EnvPrefix:  config.DefaultEnvPrefix,
		Overrides:  overrides,
	})
	if err != nil {
		return err
	}

	rulesDir := flags.rulesDir
	if rulesDir == "" {
		rulesDir = "."
		if flags.configFile != "" {
			rulesDir = filepath.Dir(flags.configFile)
		}
	}
	rs, warnings, err := rules.Build(rules.NewDirSource(fs, rulesDir), opts)
	for _, w := range warnings {
		logger.Warn().Str("source", w.Source).Str("key", w.Key).Msg(w.Message)
	}
	if err != nil {
		return err
	}

	// Step 2: run every input
	engine := transform.NewEngine(rs, opts)
	engine.Fs = fs
	jobs := planJobs(inputs, flags.output)
	records, runErr := engine.TransformAll(cmd.Context(), jobs)

	// Step 3: report
	failures := 0
	out := cmd.OutOrStdout()
	for _, record := range records {
		if record == nil {
			continue
		}
		if err := changes.Render(out, record, report); err != nil {
			return err
		}
		failures += len(record.AllErrors())
	}
	if runErr != nil {
		return runErr
	}
	if failures > 0 {
		return errors.Newf(errors.ErrActionExecute, MsgErrEntryFailures, failures).
			WithDetail("failures", failures)
	}
	if !anyChanges(records) && report != changes.Terse {
		_, _ = fmt.Fprintln(out, MsgNoChanges)
	}
	return nil
}

// planJobs pairs inputs with outputs. Several inputs with an output write
// one copy per input into the output directory.
func planJobs(inputs []string, output string) []transform.Job {
	jobs := make([]transform.Job, 0, len(inputs))
	for _, in := range inputs {
		job := transform.Job{Input: in, Output: output}
		if output != "" && len(inputs) > 1 {
			job.Output = filepath.Join(output, filepath.Base(filepath.Clean(in)))
		}
		jobs = append(jobs, job)
	}
	return jobs
}

func anyChanges(records []*changes.Container) bool {
	for _, r := range records {
		if r != nil && r.HasChanges() {
			return true
		}
	}
	return false
}
