package config

import "strings"

// SplitValues splits a comma-separated value list. Commas inside double
// quotes do not split, and surrounding quotes are removed from each value.
// Empty values are dropped.
//
//	a, "b,c" ,d  ->  [a, b,c, d]
func SplitValues(s string) []string {
	return splitValues(s, false)
}

// SplitValuesKeepEmpty is SplitValues but keeps empty positions, which
// matters for positional lists such as bundle updates.
func SplitValuesKeepEmpty(s string) []string {
	return splitValues(s, true)
}

func splitValues(s string, keepEmpty bool) []string {
	var (
		out     []string
		current strings.Builder
		quoted  bool
	)
	flush := func() {
		v := strings.TrimSpace(current.String())
		current.Reset()
		if len(v) >= 2 && v[0] == '"' && v[len(v)-1] == '"' {
			v = v[1 : len(v)-1]
		}
		if v != "" || keepEmpty {
			out = append(out, v)
		}
	}
	for i := 0; i < len(s); i++ {
		c := s[i]
		switch {
		case c == '"':
			quoted = !quoted
			current.WriteByte(c)
		case c == ',' && !quoted:
			flush()
		default:
			current.WriteByte(c)
		}
	}
	flush()
	return out
}
