package signature

import (
	"sort"
	"strings"
)

// LiteralReplacer performs verbatim substring replacement. At each
// position the longest matching key wins; replaced text is never
// rescanned.
type LiteralReplacer struct {
	table  map[string]string
	byHead map[byte][]string
}

// NewLiteralReplacer builds a replacer; empty keys are ignored.
func NewLiteralReplacer(table map[string]string) *LiteralReplacer {
	r := &LiteralReplacer{
		table:  make(map[string]string, len(table)),
		byHead: make(map[byte][]string),
	}
	for k, v := range table {
		if k == "" {
			continue
		}
		r.table[k] = v
		r.byHead[k[0]] = append(r.byHead[k[0]], k)
	}
	for _, keys := range r.byHead {
		sort.Slice(keys, func(i, j int) bool {
			if len(keys[i]) != len(keys[j]) {
				return len(keys[i]) > len(keys[j])
			}
			return keys[i] < keys[j]
		})
	}
	return r
}

// Empty reports whether the replacer has no keys.
func (r *LiteralReplacer) Empty() bool {
	return r == nil || len(r.table) == 0
}

// Replace returns text with every key occurrence replaced and the number
// of replacements made.
func (r *LiteralReplacer) Replace(text string) (string, int) {
	if r.Empty() || text == "" {
		return text, 0
	}
	var (
		b     strings.Builder
		last  int
		count int
	)
	for i := 0; i < len(text); {
		matched := ""
		for _, key := range r.byHead[text[i]] {
			if strings.HasPrefix(text[i:], key) {
				matched = key
				break
			}
		}
		if matched == "" {
			i++
			continue
		}
		b.WriteString(text[last:i])
		b.WriteString(r.table[matched])
		i += len(matched)
		last = i
		count++
	}
	if count == 0 {
		return text, 0
	}
	b.WriteString(text[last:])
	return b.String(), count
}
