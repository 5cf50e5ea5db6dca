package actions

import (
	"strings"

	"github.com/arthur-debert/jrename/pkg/rules"
)

// Service renames service-loader descriptors (META-INF/services/<type>)
// and the provider classes they list.
type Service struct {
	rules *rules.RuleSet
}

// NewService creates the service-loader action.
func NewService(rs *rules.RuleSet) *Service {
	return &Service{rules: rs}
}

func (a *Service) Kind() Kind { return KindService }

func (a *Service) Apply(p string, data []byte) (Result, error) {
	matcher := a.rules.Matcher()
	var result Result

	name := strings.TrimPrefix(p, ServicesDir)
	if renamed, ok := matcher.RenameClassName(name); ok {
		result.OutputPath = ServicesDir + renamed
	}

	lines := strings.SplitAfter(string(data), "\n")
	count := 0
	for i, line := range lines {
		content := line
		if hash := strings.IndexByte(content, '#'); hash >= 0 {
			content = content[:hash]
		}
		provider := strings.TrimSpace(content)
		if provider == "" {
			continue
		}
		renamed, ok := matcher.RenameClassName(provider)
		if !ok {
			continue
		}
		at := strings.Index(line, provider)
		lines[i] = line[:at] + renamed + line[at+len(provider):]
		count++
	}
	if count > 0 {
		result.Data = []byte(strings.Join(lines, ""))
		result.Replacements = count
	}
	return result, nil
}
