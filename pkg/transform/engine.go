package transform

import (
	"time"

	"github.com/arthur-debert/jrename/pkg/actions"
	"github.com/arthur-debert/jrename/pkg/changes"
	"github.com/arthur-debert/jrename/pkg/config"
	"github.com/arthur-debert/jrename/pkg/container"
	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/arthur-debert/jrename/pkg/logging"
	"github.com/arthur-debert/jrename/pkg/rules"
	"github.com/rs/zerolog"
	"github.com/spf13/afero"
)

// SelectorFunc returns the action selector for a container of the given
// kind. Nested archives chosen by the selector are handed to nested.
type SelectorFunc func(kind container.Kind, nested *actions.Container) actions.Selector

// Engine applies one rule set to containers. An Engine is safe for
// concurrent use once built.
type Engine struct {
	Rules    *rules.RuleSet
	Options  *config.Options
	Selector SelectorFunc
	// Fs holds the files and directories of TransformFile.
	Fs afero.Fs

	overwrite bool
	logger    zerolog.Logger
}

// NewEngine creates an engine with the default action set on the OS
// filesystem.
func NewEngine(rs *rules.RuleSet, opts *config.Options) *Engine {
	set := actions.NewSet(rs, opts)
	return &Engine{
		Rules:     rs,
		Options:   opts,
		Selector:  set.Selector,
		Fs:        afero.NewOsFs(),
		overwrite: opts.Flag(config.Overwrite),
		logger:    logging.GetLogger("transform"),
	}
}

// Transform runs the pipeline over c, updating it in place. The error is
// set only when the container itself could not be listed; entry failures
// are in the record.
func (e *Engine) Transform(c container.Container) (*changes.Container, error) {
	record := e.run(c, kindOf(c))
	return record, record.Err
}

func kindOf(c container.Container) container.Kind {
	if _, ok := c.(*container.Dir); ok {
		return container.KindDir
	}
	if kind := container.ArchiveKind(c.Name()); kind != container.KindNone {
		return kind
	}
	return container.KindJar
}

func (e *Engine) run(c container.Container, kind container.Kind) *changes.Container {
	record := changes.NewContainer(c.Name(), string(kind))
	nested := actions.NewContainer(func(p string, data []byte) (actions.Result, error) {
		return e.runNested(record, p, data)
	})
	selector := e.Selector(kind, nested)

	logger := e.logger.With().Str("container", c.Name()).Logger()
	logger.Debug().Str("kind", string(kind)).Msg("Starting container")

	paths, err := c.Paths()
	if err != nil {
		logger.Error().Err(err).Msg("Cannot list container")
		record.Err = err
		return record
	}

	// Step 1: the manifest, stored or computed
	if c.Has(container.ManifestName) {
		e.process(c, record, selector, container.ManifestName, nil)
	} else if mp, ok := c.(container.ManifestProvider); ok {
		if data, ok := mp.Manifest(); ok {
			e.process(c, record, selector, container.ManifestName, data)
		}
	}

	// Step 2: every other entry of the snapshot
	for _, p := range paths {
		if p == container.ManifestName {
			continue
		}
		e.process(c, record, selector, p, nil)
	}

	stats := record.Stats()
	logger.Debug().
		Int("selected", stats.Selected).
		Int("changed", stats.Changed).
		Int("errors", stats.Errors).
		Msg("Finished container")
	return record
}

// process selects, applies and records one entry. When data is nil the
// entry is read from c.
func (e *Engine) process(c container.Container, record *changes.Container, selector actions.Selector, p string, data []byte) {
	if !e.Rules.Selected(p) {
		record.RecordUnselected(p)
		return
	}
	action := selector(p)
	if action.Kind() == actions.KindNone {
		record.RecordUnaccepted(p)
		return
	}

	entry := changes.Entry{InputPath: p, Action: string(action.Kind())}
	if data == nil {
		var err error
		if data, err = c.Read(p); err != nil {
			entry.Err = err
			e.recordFailure(record, c, entry)
			return
		}
	}

	result, err := apply(action, p, data)
	if err != nil {
		entry.Err = err
		e.recordFailure(record, c, entry)
		return
	}
	entry.Replacements = result.Replacements
	if err := e.store(c, p, data, result); err != nil {
		entry.Err = err
		e.recordFailure(record, c, entry)
		return
	}
	entry.OutputPath = result.OutputPath
	entry.Removed = result.Removed
	record.Record(entry)
}

// apply runs an action, turning a panic into an entry failure.
func apply(action actions.Action, p string, data []byte) (result actions.Result, err error) {
	defer func() {
		if r := recover(); r != nil {
			err = errors.Newf(errors.ErrActionExecute, "%s action failed on %s: %v", action.Kind(), p, r).
				WithDetail("path", p).
				WithDetail("action", string(action.Kind()))
		}
	}()
	return action.Apply(p, data)
}

func (e *Engine) recordFailure(record *changes.Container, c container.Container, entry changes.Entry) {
	e.logger.Warn().
		Err(entry.Err).
		Str("container", c.Name()).
		Str("path", entry.InputPath).
		Str("action", entry.Action).
		Msg("Entry left unchanged")
	record.Record(entry)
}

// mover is implemented by containers that rename entries in place.
type mover interface {
	Move(from, to string, data []byte) error
}

// store writes the result of an action back to c. A rename onto an
// existing entry fails with ErrWriteConflict unless overwrite is set; the
// existing entry is left untouched.
func (e *Engine) store(c container.Container, p string, original []byte, res actions.Result) error {
	if res.Removed {
		return c.Remove(p)
	}
	data := res.Data
	if data == nil {
		data = original
	}

	target := res.OutputPath
	if target == "" || target == p {
		if res.Data == nil {
			return nil
		}
		return c.Put(p, data)
	}

	if c.Has(target) {
		if !e.overwrite {
			return errors.Newf(errors.ErrWriteConflict, "cannot rename %s: %s already exists", p, target).
				WithDetail("container", c.Name()).
				WithDetail("path", p).
				WithDetail("target", target)
		}
		if err := c.Remove(target); err != nil {
			return err
		}
		e.logger.Debug().Str("container", c.Name()).Str("target", target).Msg("Existing entry replaced")
	}

	if m, ok := c.(mover); ok {
		return m.Move(p, target, data)
	}
	if err := c.Put(target, data); err != nil {
		return err
	}
	return c.Remove(p)
}

// runNested transforms an archive held in an entry of the parent record.
func (e *Engine) runNested(parent *changes.Container, p string, data []byte) (actions.Result, error) {
	defer logging.LogDuration(time.Now(), "nested "+p)

	archive, err := container.OpenArchive(p, data)
	if err != nil {
		return actions.Result{}, err
	}

	record := e.run(archive, container.ArchiveKind(p))
	if record.Err != nil {
		return actions.Result{}, record.Err
	}
	parent.AddNested(record)
	if !record.HasChanges() {
		return actions.Result{}, nil
	}

	out, err := archive.Bytes()
	if err != nil {
		return actions.Result{}, err
	}
	return actions.Result{Data: out, Replacements: record.TotalStats().Changed}, nil
}
