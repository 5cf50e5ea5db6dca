package actions

import (
	"github.com/arthur-debert/jrename/pkg/config"
	"github.com/arthur-debert/jrename/pkg/container"
	"github.com/arthur-debert/jrename/pkg/rules"
)

// Set holds one instance of every action for a run.
type Set struct {
	Class    *Class
	Manifest *Manifest
	Text     *Text
	XML      *XML
	Service  *Service
	Rename   *Rename

	rules *rules.RuleSet
	strip bool
	widen bool
}

// NewSet creates the actions of a run.
func NewSet(rs *rules.RuleSet, opts *config.Options) *Set {
	return &Set{
		Class:    NewClass(rs),
		Manifest: NewManifest(rs, opts),
		Text:     NewText(rs),
		XML:      NewXML(rs),
		Service:  NewService(rs),
		Rename:   NewRename(rs),
		rules:    rs,
		strip:    opts.Flag(config.StripSignatures),
		widen:    opts.Flag(config.WidenArchiveNesting),
	}
}

// Selector returns the selector for entries of a container of kind
// parent. Archives allowed there go to nested; a nil nested leaves them
// unaccepted.
func (s *Set) Selector(parent container.Kind, nested *Container) Selector {
	return func(p string) Action {
		switch {
		case p == container.ManifestName:
			return s.Manifest
		case IsSignatureFile(p):
			if s.strip {
				return Signature{}
			}
			return None{}
		case container.IsArchive(p):
			if nested != nil && container.NestingAllowed(parent, container.ArchiveKind(p), s.widen) {
				return nested
			}
			return None{}
		case !container.IsDir(p) && isClassFile(p):
			return s.Class
		case IsServiceFile(p):
			return s.Service
		case IsFeatureDescriptor(p):
			return s.XML
		case s.acceptsText(p):
			return s.Text
		}
		if _, moved := renamePath(s.rules.Matcher(), p); moved {
			return s.Rename
		}
		return None{}
	}
}

func (s *Set) acceptsText(p string) bool {
	if container.IsDir(p) {
		return false
	}
	if s.rules.HasTextMaster() {
		_, ok := s.rules.TextRules(p)
		return ok
	}
	return IsTextFile(p)
}
