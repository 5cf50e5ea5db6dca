// Package actions holds the per-entry transformations of a run.
//
// Each entry of a container is handed to exactly one Action, chosen by a
// Selector from its path. The set of actions is closed: class files,
// manifests, text resources, feature.xml descriptors, service-loader
// descriptors, plain resource renames, signature files, nested archives
// and None for entries no action accepts.
package actions

// Kind names an action in results and reports.
type Kind string

const (
	KindClass     Kind = "class"
	KindManifest  Kind = "manifest"
	KindText      Kind = "text"
	KindXML       Kind = "xml"
	KindService   Kind = "service"
	KindRename    Kind = "rename"
	KindSignature Kind = "signature"
	KindContainer Kind = "container"
	KindNone      Kind = "none"
)

// Result is the outcome of applying an action to one entry.
type Result struct {
	// OutputPath is the new entry path; empty keeps the input path.
	OutputPath string
	// Data is the new content; nil keeps the input bytes.
	Data []byte
	// Replacements counts substitutions made in the content.
	Replacements int
	// Removed drops the entry from the output.
	Removed bool
}

// Action transforms one entry.
type Action interface {
	Kind() Kind
	Apply(path string, data []byte) (Result, error)
}

// Selector chooses the action for an entry path.
type Selector func(path string) Action

// None accepts nothing; entries mapped to it are recorded as unaccepted.
type None struct{}

func (None) Kind() Kind { return KindNone }

func (None) Apply(string, []byte) (Result, error) { return Result{}, nil }
