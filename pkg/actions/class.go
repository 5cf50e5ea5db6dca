package actions

import (
	"strings"

	"github.com/arthur-debert/jrename/pkg/classfile"
	"github.com/arthur-debert/jrename/pkg/logging"
	"github.com/arthur-debert/jrename/pkg/rules"
	"github.com/arthur-debert/jrename/pkg/signature"
	"github.com/rs/zerolog"
)

// Class rewrites class files and moves them when the class is renamed.
type Class struct {
	rules  *rules.RuleSet
	logger zerolog.Logger
}

// NewClass creates the class action.
func NewClass(rs *rules.RuleSet) *Class {
	return &Class{rules: rs, logger: logging.GetLogger("actions.class")}
}

func (a *Class) Kind() Kind { return KindClass }

func (a *Class) Apply(p string, data []byte) (Result, error) {
	cf, err := classfile.Parse(data)
	if err != nil {
		return Result{}, err
	}
	t := &classTransformer{
		rules:     a.rules,
		matcher:   a.rules.Matcher(),
		className: cf.ClassName(),
		path:      p,
		logger:    a.logger,
	}
	out, res, err := cf.Rewrite(t)
	if err != nil {
		return Result{}, err
	}
	if res.Changes == 0 {
		return Result{}, nil
	}

	result := Result{Data: out, Replacements: res.Changes}
	if res.Renamed() {
		result.OutputPath = classPath(a.rules.Matcher(), p, res.ClassName, res.NewClassName)
	}
	a.logger.Debug().
		Str("path", p).
		Str("class", res.ClassName).
		Int("changes", res.Changes).
		Msg("Class rewritten")
	return result, nil
}

// classPath moves a class entry to match its new binary name, keeping any
// prefix such as WEB-INF/classes/ or META-INF/versions/N/.
func classPath(m *signature.Matcher, p, oldName, newName string) string {
	if prefix, ok := strings.CutSuffix(p, oldName+".class"); ok {
		return prefix + newName + ".class"
	}
	renamed, _ := renamePath(m, p)
	return renamed
}

// classTransformer applies the rule set to the Utf8 entries of one class.
type classTransformer struct {
	rules     *rules.RuleSet
	matcher   *signature.Matcher
	className string
	path      string
	logger    zerolog.Logger
}

func (t *classTransformer) ClassName(name string) (string, bool) {
	return t.matcher.RenameBinaryType(name)
}

func (t *classTransformer) Package(name string) (string, bool) {
	return t.matcher.RenameSlashedPackage(name)
}

// Module renames module names the way dotted package names are renamed.
func (t *classTransformer) Module(name string) (string, bool) {
	return t.matcher.RenamePackage(name)
}

func (t *classTransformer) Descriptor(desc string) (string, bool) {
	return t.signature(desc)
}

func (t *classTransformer) Signature(sig string) (string, bool) {
	return t.signature(sig)
}

func (t *classTransformer) signature(sig string) (string, bool) {
	out, n, err := t.matcher.TransformSignature(sig)
	if err != nil {
		t.logger.Warn().Err(err).Str("path", t.path).Msg("Unparsable signature left unchanged")
		return sig, false
	}
	return out, n > 0
}

// String handles string constants: a per-class constant rule replaces the
// whole value and nothing else applies; otherwise direct strings and then
// package renames are applied.
func (t *classTransformer) String(value string) (string, bool) {
	if replaced, ok := t.rules.ClassConstant(t.className, value); ok {
		return replaced, replaced != value
	}

	out := value
	if direct := t.rules.DirectReplacer(); !direct.Empty() {
		out, _ = direct.Replace(out)
	}
	if signature.IsDescriptorLike(out) {
		if renamed, _, err := t.matcher.TransformSignature(out); err == nil {
			return renamed, renamed != value
		}
	}
	out, _ = t.matcher.ReplacePackages(out)
	return out, out != value
}
