package actions

import (
	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/arthur-debert/jrename/pkg/logging"
	"github.com/arthur-debert/jrename/pkg/rules"
	"github.com/beevik/etree"
	"github.com/rs/zerolog"
)

// featureRefs are the elements and attributes of feature.xml naming a
// bundle.
var featureRefs = []struct {
	path, attr string
	versioned  bool
}{
	{"/feature", "plugin", false},
	{"//plugin", "id", true},
	{"//requires/import", "plugin", false},
}

// XML updates bundle references in Eclipse feature.xml descriptors, then
// renames package references in the text.
type XML struct {
	rules  *rules.RuleSet
	logger zerolog.Logger
}

// NewXML creates the feature.xml action.
func NewXML(rs *rules.RuleSet) *XML {
	return &XML{rules: rs, logger: logging.GetLogger("actions.xml")}
}

func (a *XML) Kind() Kind { return KindXML }

func (a *XML) Apply(p string, data []byte) (Result, error) {
	doc := etree.NewDocument()
	if err := doc.ReadFromBytes(data); err != nil {
		return Result{}, errors.Wrapf(err, errors.ErrActionExecute, "cannot parse %s", p).
			WithDetail("path", p)
	}

	count := 0
	for _, ref := range featureRefs {
		for _, el := range doc.FindElements(ref.path) {
			attr := el.SelectAttr(ref.attr)
			if attr == nil || !a.rules.HasExactBundle(attr.Value) {
				continue
			}
			update, _ := a.rules.BundleUpdate(attr.Value)
			if name := update.NewSymbolicName(attr.Value); name != attr.Value {
				attr.Value = name
				count++
			}
			if ref.versioned && update.Version != "" {
				if v := el.SelectAttr("version"); v != nil && v.Value != update.Version {
					v.Value = update.Version
					count++
				}
			}
		}
	}

	text := string(data)
	if count > 0 {
		out, err := doc.WriteToString()
		if err != nil {
			return Result{}, errors.Wrapf(err, errors.ErrActionExecute, "cannot write %s", p).
				WithDetail("path", p)
		}
		text = out
	}
	text, n := a.rules.Matcher().ReplacePackages(text)
	count += n

	if count == 0 {
		return Result{}, nil
	}
	a.logger.Debug().Str("path", p).Int("replacements", count).Msg("Feature descriptor updated")
	return Result{Data: []byte(text), Replacements: count}, nil
}
