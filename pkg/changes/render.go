package changes

import (
	_ "embed"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
	"github.com/muesli/termenv"
	"gopkg.in/yaml.v3"
)

// Verbosity selects how much of a change record is rendered.
type Verbosity int

const (
	// Terse prints one summary line per top-level container.
	Terse Verbosity = iota
	// Normal adds per-action counts, changed, removed and failed entries.
	Normal
	// Verbose lists every entry.
	Verbose
)

//go:embed styles.yaml
var stylesYAML []byte

type colorDef struct {
	Light string `yaml:"light"`
	Dark  string `yaml:"dark"`
}

type styleDef struct {
	Bold       bool   `yaml:"bold,omitempty"`
	Italic     bool   `yaml:"italic,omitempty"`
	Foreground string `yaml:"foreground,omitempty"`
	Width      int    `yaml:"width,omitempty"`
}

type stylesConfig struct {
	Colors map[string]colorDef `yaml:"colors"`
	Styles map[string]styleDef `yaml:"styles"`
}

// Renderer writes change records with styles suited to its writer.
type Renderer struct {
	w      io.Writer
	styles map[string]lipgloss.Style
}

// NewRenderer creates a renderer for w. Colours are used only when w is
// a terminal that supports them and NO_COLOR is unset.
func NewRenderer(w io.Writer) (*Renderer, error) {
	var cfg stylesConfig
	if err := yaml.Unmarshal(stylesYAML, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse report styles: %w", err)
	}

	lr := lipgloss.NewRenderer(w)
	if !colorEnabled(w) {
		lr.SetColorProfile(termenv.Ascii)
	}

	r := &Renderer{w: w, styles: make(map[string]lipgloss.Style)}
	for name, def := range cfg.Styles {
		style := lr.NewStyle()
		if def.Bold {
			style = style.Bold(true)
		}
		if def.Italic {
			style = style.Italic(true)
		}
		if c, ok := cfg.Colors[def.Foreground]; ok {
			style = style.Foreground(lipgloss.AdaptiveColor{Light: c.Light, Dark: c.Dark})
		}
		if def.Width > 0 {
			style = style.Width(def.Width)
		}
		r.styles[name] = style
	}
	return r, nil
}

func colorEnabled(w io.Writer) bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	return termenv.NewOutput(f).ColorProfile() != termenv.Ascii
}

func (r *Renderer) style(name, text string) string {
	if s, ok := r.styles[name]; ok {
		return s.Render(text)
	}
	return text
}

// Render writes a change record to w.
func Render(w io.Writer, c *Container, v Verbosity) error {
	r, err := NewRenderer(w)
	if err != nil {
		return err
	}
	return r.Render(c, v)
}

// Render writes a change record.
func (r *Renderer) Render(c *Container, v Verbosity) error {
	var b strings.Builder
	if v == Terse {
		r.summary(&b, c)
	} else {
		r.container(&b, c, v, 0)
	}
	_, err := io.WriteString(r.w, b.String())
	return err
}

func (r *Renderer) summary(b *strings.Builder, c *Container) {
	s := c.TotalStats()
	fmt.Fprintf(b, "%s: %s changed, %s unchanged, %s errors\n",
		r.style("Header", c.Name),
		r.style("Count", fmt.Sprint(s.Changed)),
		r.style("Count", fmt.Sprint(s.Unchanged)),
		r.style("Count", fmt.Sprint(s.Errors)))
}

func (r *Renderer) container(b *strings.Builder, c *Container, v Verbosity, depth int) {
	indent := strings.Repeat("  ", depth)
	s := c.Stats()
	header := c.Name
	if c.Kind != "" {
		header += " [" + c.Kind + "]"
	}
	fmt.Fprintf(b, "%s%s\n", indent, r.style("Header", header))
	if c.Err != nil {
		fmt.Fprintf(b, "%s  %s %v\n", indent, r.style("Error", "!"), c.Err)
	}
	fmt.Fprintf(b, "%s  selected %d, unselected %d, unaccepted %d, changed %d, unchanged %d, errors %d\n",
		indent, s.Selected, s.Unselected, s.Unaccepted, s.Changed, s.Unchanged, s.Errors)

	byAction := c.ByAction()
	for _, name := range c.Actions() {
		if name == "none" && v != Verbose {
			continue
		}
		as := byAction[name]
		fmt.Fprintf(b, "%s  %s changed %d, unchanged %d, errors %d\n",
			indent, r.style("Action", name), as.Changed, as.Unchanged, as.Errors)
	}

	for _, e := range c.entries {
		line := r.entryLine(e, v)
		if line != "" {
			fmt.Fprintf(b, "%s  %s\n", indent, line)
		}
	}
	for _, n := range c.Nested {
		r.container(b, n, v, depth+1)
	}
}

func (r *Renderer) entryLine(e Entry, v Verbosity) string {
	switch {
	case e.Outcome == Failed:
		return fmt.Sprintf("%s %s: %v", r.style("Error", "!"), e.InputPath, e.Err)
	case e.Removed:
		return fmt.Sprintf("%s %s", r.style("Removed", "-"), e.InputPath)
	case e.Outcome == Changed && e.Renamed():
		return fmt.Sprintf("%s %s -> %s (%d)", r.style("Changed", "~"), e.InputPath, e.OutputPath, e.Replacements)
	case e.Outcome == Changed:
		return fmt.Sprintf("%s %s (%d)", r.style("Changed", "~"), e.InputPath, e.Replacements)
	case v == Verbose:
		return r.style("Muted", fmt.Sprintf("  %s [%s]", e.InputPath, e.Outcome))
	}
	return ""
}
