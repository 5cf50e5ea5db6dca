package cli

import (
	"fmt"
	"io/fs"
	"path"
	"path/filepath"

	"github.com/arthur-debert/jrename/pkg/config"
	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/spf13/afero"
	"github.com/spf13/cobra"
)

// ConfigFileName is the configuration written by `jrename init`.
const ConfigFileName = "jrename.toml"

func newInitCmd(afs afero.Fs) *cobra.Command {
	var force bool

	cmd := &cobra.Command{
		Use:   "init [dir]",
		Short: MsgInitShort,
		Long:  MsgInitLong,
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			dir := "."
			if len(args) == 1 {
				dir = args[0]
			}
			return runInit(cmd, afs, dir, force)
		},
	}
	cmd.Flags().BoolVarP(&force, "force", "f", false, MsgFlagForce)
	return cmd
}

func runInit(cmd *cobra.Command, afs afero.Fs, dir string, force bool) error {
	content, err := config.GenerateConfigContent(config.DefaultFileConfig())
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot render default configuration")
	}
	files := map[string][]byte{ConfigFileName: content}

	entries, err := fs.ReadDir(defaultRules, "defaults")
	if err != nil {
		return errors.Wrap(err, errors.ErrInternal, "cannot list default rules")
	}
	for _, e := range entries {
		data, err := fs.ReadFile(defaultRules, path.Join("defaults", e.Name()))
		if err != nil {
			return errors.Wrap(err, errors.ErrInternal, "cannot read default rules")
		}
		files[e.Name()] = data
	}

	if err := afs.MkdirAll(dir, 0755); err != nil {
		return errors.Wrapf(err, errors.ErrConfigLoad, "cannot create %s", dir)
	}

	out := cmd.OutOrStdout()
	names := append([]string{ConfigFileName}, entryNames(entries)...)
	for _, name := range names {
		target := filepath.Join(dir, name)
		if exists, _ := afero.Exists(afs, target); exists && !force {
			_, _ = fmt.Fprintf(out, MsgFileKept, target)
			continue
		}
		if err := afero.WriteFile(afs, target, files[name], 0644); err != nil {
			return errors.Wrapf(err, errors.ErrConfigLoad, "cannot write %s", target)
		}
		_, _ = fmt.Fprintf(out, MsgFileWritten, target)
	}
	return nil
}

func entryNames(entries []fs.DirEntry) []string {
	names := make([]string, 0, len(entries))
	for _, e := range entries {
		names = append(names, e.Name())
	}
	return names
}
