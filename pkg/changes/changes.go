// Package changes records what a run did to every entry of a container
// and of the containers nested inside it.
package changes

import (
	"sort"
)

// Outcome classifies one entry of a run.
type Outcome int

const (
	// Pending is the zero Outcome; Record derives the real one.
	Pending Outcome = iota
	// Unselected entries were filtered out by the selection rules.
	Unselected
	// Unaccepted entries were selected but no action handles them.
	Unaccepted
	Unchanged
	Changed
	Failed
)

func (o Outcome) String() string {
	switch o {
	case Unselected:
		return "unselected"
	case Unaccepted:
		return "unaccepted"
	case Unchanged:
		return "unchanged"
	case Changed:
		return "changed"
	case Failed:
		return "failed"
	}
	return "pending"
}

// Entry is the record of one container entry.
type Entry struct {
	InputPath  string
	OutputPath string
	Action     string
	// Replacements counts substitutions made in the content.
	Replacements int
	// Removed is set when the entry was dropped from the output.
	Removed bool
	Err     error
	Outcome Outcome
}

// HasChanges reports whether the entry was renamed, rewritten or removed.
func (e Entry) HasChanges() bool {
	return e.Removed || e.Replacements > 0 || e.Renamed()
}

// Renamed reports whether the entry moved.
func (e Entry) Renamed() bool {
	return !e.Removed && e.OutputPath != "" && e.OutputPath != e.InputPath
}

// Stats counts entries per outcome.
type Stats struct {
	Selected   int
	Unselected int
	Unaccepted int
	Changed    int
	Unchanged  int
	Errors     int
}

func (s *Stats) add(o Stats) {
	s.Selected += o.Selected
	s.Unselected += o.Unselected
	s.Unaccepted += o.Unaccepted
	s.Changed += o.Changed
	s.Unchanged += o.Unchanged
	s.Errors += o.Errors
}

func (s *Stats) count(o Outcome) {
	switch o {
	case Unselected:
		s.Unselected++
		return
	case Unaccepted:
		s.Unaccepted++
	case Unchanged:
		s.Unchanged++
	case Changed:
		s.Changed++
	case Failed:
		s.Errors++
	}
	s.Selected++
}

// Container is the change record of one container. Nested containers
// are recorded bottom-up and attached with AddNested.
type Container struct {
	Name   string
	Kind   string
	Nested []*Container
	// Err is set when the container itself could not be processed.
	Err error

	entries []Entry
	stats   map[string]*Stats
}

// NewContainer starts the record of a container.
func NewContainer(name, kind string) *Container {
	return &Container{Name: name, Kind: kind, stats: make(map[string]*Stats)}
}

// RecordUnselected notes an entry skipped by the selection rules.
func (c *Container) RecordUnselected(path string) {
	c.Record(Entry{InputPath: path, OutputPath: path, Outcome: Unselected})
}

// RecordUnaccepted notes a selected entry no action handles.
func (c *Container) RecordUnaccepted(path string) {
	c.Record(Entry{InputPath: path, OutputPath: path, Outcome: Unaccepted})
}

// Record adds an entry. For entries processed by an action the outcome
// is derived from the entry when not set explicitly.
func (c *Container) Record(e Entry) {
	if e.Outcome != Unselected && e.Outcome != Unaccepted {
		switch {
		case e.Err != nil:
			e.Outcome = Failed
		case e.HasChanges():
			e.Outcome = Changed
		default:
			e.Outcome = Unchanged
		}
	}
	if e.OutputPath == "" && !e.Removed {
		e.OutputPath = e.InputPath
	}
	action := e.Action
	if action == "" {
		action = "none"
	}
	s, ok := c.stats[action]
	if !ok {
		s = &Stats{}
		c.stats[action] = s
	}
	s.count(e.Outcome)
	c.entries = append(c.entries, e)
}

// AddNested attaches the record of a nested container.
func (c *Container) AddNested(n *Container) {
	c.Nested = append(c.Nested, n)
}

// Resources returns every recorded entry in processing order.
func (c *Container) Resources() []Entry {
	return append([]Entry(nil), c.entries...)
}

// SelectedCount returns the number of selected entries.
func (c *Container) SelectedCount() int {
	return c.Stats().Selected
}

// Stats returns the totals of this container, nested ones excluded.
func (c *Container) Stats() Stats {
	var total Stats
	for _, s := range c.stats {
		total.add(*s)
	}
	return total
}

// TotalStats returns the totals of this container and all nested ones.
func (c *Container) TotalStats() Stats {
	total := c.Stats()
	for _, n := range c.Nested {
		total.add(n.TotalStats())
	}
	return total
}

// ByAction returns the stats per action name.
func (c *Container) ByAction() map[string]Stats {
	out := make(map[string]Stats, len(c.stats))
	for name, s := range c.stats {
		out[name] = *s
	}
	return out
}

// Actions returns the action names with stats, sorted.
func (c *Container) Actions() []string {
	names := make([]string, 0, len(c.stats))
	for name := range c.stats {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Changed returns the changed entries.
func (c *Container) Changed() []Entry {
	return c.filter(func(e Entry) bool { return e.Outcome == Changed })
}

// Errors returns the failed entries of this container.
func (c *Container) Errors() []Entry {
	return c.filter(func(e Entry) bool { return e.Outcome == Failed })
}

// AllErrors returns the failed entries of this container and all nested
// ones, plus container level failures as entries without a path.
func (c *Container) AllErrors() []Entry {
	var out []Entry
	if c.Err != nil {
		out = append(out, Entry{InputPath: c.Name, Err: c.Err, Outcome: Failed})
	}
	out = append(out, c.Errors()...)
	for _, n := range c.Nested {
		out = append(out, n.AllErrors()...)
	}
	return out
}

// ChangedPaths returns the output paths of changed, not removed entries.
func (c *Container) ChangedPaths() []string {
	var paths []string
	for _, e := range c.entries {
		if e.Outcome == Changed && !e.Removed {
			paths = append(paths, e.OutputPath)
		}
	}
	return paths
}

// RemovedPaths returns the input paths of removed entries and of entries
// that moved to a new path.
func (c *Container) RemovedPaths() []string {
	var paths []string
	for _, e := range c.entries {
		if e.Removed || (e.Outcome == Changed && e.Renamed()) {
			paths = append(paths, e.InputPath)
		}
	}
	return paths
}

// HasChanges reports whether this container or a nested one changed.
func (c *Container) HasChanges() bool {
	for _, e := range c.entries {
		if e.Outcome == Changed {
			return true
		}
	}
	for _, n := range c.Nested {
		if n.HasChanges() {
			return true
		}
	}
	return false
}

// HasErrors reports whether any entry or container failed.
func (c *Container) HasErrors() bool {
	return len(c.AllErrors()) > 0
}

func (c *Container) filter(keep func(Entry) bool) []Entry {
	var out []Entry
	for _, e := range c.entries {
		if keep(e) {
			out = append(out, e)
		}
	}
	return out
}
