package actions

import (
	"github.com/arthur-debert/jrename/pkg/logging"
	"github.com/arthur-debert/jrename/pkg/rules"
	"github.com/rs/zerolog"
)

// Text renames package references in text resources and applies the
// literal table of the matching text selector.
type Text struct {
	rules  *rules.RuleSet
	logger zerolog.Logger
}

// NewText creates the text action.
func NewText(rs *rules.RuleSet) *Text {
	return &Text{rules: rs, logger: logging.GetLogger("actions.text")}
}

func (a *Text) Kind() Kind { return KindText }

func (a *Text) Apply(p string, data []byte) (Result, error) {
	matcher := a.rules.Matcher()
	out, count := matcher.ReplacePackages(string(data))
	if literal, ok := a.rules.TextReplacer(p); ok {
		var n int
		out, n = literal.Replace(out)
		count += n
	}

	var result Result
	if count > 0 {
		result.Data = []byte(out)
		result.Replacements = count
	}
	if newPath, moved := renamePath(matcher, p); moved {
		result.OutputPath = newPath
	}
	if count > 0 {
		a.logger.Debug().Str("path", p).Int("replacements", count).Msg("Text updated")
	}
	return result, nil
}
