package transform

import (
	"context"
	"path/filepath"
	"runtime"

	"github.com/arthur-debert/jrename/pkg/changes"
	"github.com/arthur-debert/jrename/pkg/container"
	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/arthur-debert/jrename/pkg/logging"
	"github.com/spf13/afero"
	"golang.org/x/sync/errgroup"
)

// Job is one input and the path its transformed copy is written to. An
// empty Output transforms the input in place.
type Job struct {
	Input  string
	Output string
}

// TransformFile transforms an archive file or a directory tree on e.Fs.
// Directories are copied to out first and transformed there; archives are
// read whole, transformed in memory and written to out.
func (e *Engine) TransformFile(ctx context.Context, in, out string) (*changes.Container, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if out == "" {
		out = in
	}
	defer logging.LogOperationStart(e.logger, "TransformFile")()

	info, err := e.Fs.Stat(in)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrContainerOpen, "cannot open %s", in).
			WithDetail("input", in)
	}

	if info.IsDir() {
		if filepath.Clean(in) != filepath.Clean(out) {
			if err := container.CopyTree(e.Fs, in, out); err != nil {
				return nil, err
			}
		}
		return e.Transform(container.NewDir(e.Fs, out))
	}

	data, err := afero.ReadFile(e.Fs, in)
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrContainerOpen, "cannot read %s", in).
			WithDetail("input", in)
	}
	archive, err := container.OpenArchive(in, data)
	if err != nil {
		return nil, err
	}

	kind := container.ArchiveKind(in)
	if kind == container.KindNone {
		kind = container.KindJar
	}
	record := e.run(archive, kind)
	if record.Err != nil {
		return record, record.Err
	}

	output := data
	if record.HasChanges() {
		if output, err = archive.Bytes(); err != nil {
			record.Err = err
			return record, err
		}
	} else if out == in {
		return record, nil
	}
	if err := e.writeFile(out, output); err != nil {
		record.Err = err
		return record, err
	}
	e.logger.Info().
		Str("input", in).
		Str("output", out).
		Bool("changed", record.HasChanges()).
		Msg("Archive written")
	return record, nil
}

func (e *Engine) writeFile(p string, data []byte) error {
	if err := e.Fs.MkdirAll(filepath.Dir(p), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrContainerWrite, "cannot create directory for %s", p).
			WithDetail("output", p)
	}
	if err := afero.WriteFile(e.Fs, p, data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrContainerWrite, "cannot write %s", p).
			WithDetail("output", p)
	}
	return nil
}

// TransformAll runs independent jobs in parallel. Records are returned in
// job order; a job that fails leaves its record nil or partial. The first
// error cancels jobs not yet started.
func (e *Engine) TransformAll(ctx context.Context, jobs []Job) ([]*changes.Container, error) {
	records := make([]*changes.Container, len(jobs))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))

	for i, job := range jobs {
		g.Go(func() error {
			record, err := e.TransformFile(ctx, job.Input, job.Output)
			records[i] = record
			if err != nil {
				logging.WithFields(map[string]interface{}{
					"input":  job.Input,
					"output": job.Output,
				}).Warn().Err(err).Msg("Job failed")
			}
			return err
		})
	}
	err := g.Wait()
	return records, err
}
