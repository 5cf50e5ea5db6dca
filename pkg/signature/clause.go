package signature

import (
	"strings"

	"github.com/arthur-debert/jrename/pkg/errors"
)

// Span is a half-open byte range of a header value.
type Span struct {
	Start, End int
}

// FirstClause extracts the first clause of a manifest header value: the
// text up to the first comma that is not inside double quotes.
//
// When the quotes of the clause are unbalanced to the end of the text the
// whole remaining text is returned as a best-effort clause and complete is
// false.
func FirstClause(text string) (clause string, complete bool) {
	quoted := false
	for i := 0; i < len(text); i++ {
		switch text[i] {
		case '"':
			quoted = !quoted
		case ',':
			if !quoted {
				return text[:i], true
			}
		}
	}
	return text, !quoted
}

// Clauses splits a header value into clause spans, separators excluded.
// The second result is false when a clause had unbalanced quotes; that
// clause then runs to the end of the text.
func Clauses(text string) ([]Span, bool) {
	var spans []Span
	for start := 0; start <= len(text); {
		clause, complete := FirstClause(text[start:])
		spans = append(spans, Span{Start: start, End: start + len(clause)})
		if !complete {
			return spans, false
		}
		start += len(clause) + 1
	}
	return spans, true
}

// ClausePackages returns the spans of the leading names of a clause, i.e.
// the ';'-separated tokens before the first attribute or directive.
//
//	"a.b;c.d;version=1"  ->  spans of "a.b" and "c.d"
func ClausePackages(clause string) []Span {
	var spans []Span
	start := 0
	for start <= len(clause) {
		end := strings.IndexByte(clause[start:], ';')
		if end < 0 {
			end = len(clause)
		} else {
			end += start
		}
		token := clause[start:end]
		if strings.ContainsAny(token, "=\"") {
			break
		}
		// trim surrounding whitespace from the span
		s, e := start, end
		for s < e && isSpace(clause[s]) {
			s++
		}
		for e > s && isSpace(clause[e-1]) {
			e--
		}
		if s < e {
			spans = append(spans, Span{Start: s, End: e})
		}
		start = end + 1
	}
	return spans
}

// ReplaceVersion substitutes the quoted value of the version attribute of
// a clause, keeping every other byte of the clause. A clause without a
// version attribute is returned unchanged. A malformed attribute (anything
// but whitespace between the name and '=', an unquoted value, a missing
// closing quote) leaves the clause unchanged and returns an error.
func ReplaceVersion(clause, newRange string) (string, error) {
	const name = "version"
	quoted := false
	for i := 0; i < len(clause); i++ {
		c := clause[i]
		if c == '"' {
			quoted = !quoted
			continue
		}
		if quoted || c != ';' {
			continue
		}

		// attribute start after ';' and optional whitespace
		pos := i + 1
		for pos < len(clause) && isSpace(clause[pos]) {
			pos++
		}
		if !strings.HasPrefix(clause[pos:], name) {
			continue
		}
		pos += len(name)
		if pos < len(clause) && (isIdentPart(clause[pos]) || clause[pos] == '-' || clause[pos] == '.') {
			// a longer attribute name such as version-range
			continue
		}
		for pos < len(clause) && isSpace(clause[pos]) {
			pos++
		}
		if pos >= len(clause) || clause[pos] != '=' {
			return clause, malformedVersion(clause, "expected '=' after version")
		}
		pos++
		for pos < len(clause) && isSpace(clause[pos]) {
			pos++
		}
		if pos >= len(clause) || clause[pos] != '"' {
			return clause, malformedVersion(clause, "version value is not quoted")
		}
		valueStart := pos + 1
		closing := strings.IndexByte(clause[valueStart:], '"')
		if closing < 0 {
			return clause, malformedVersion(clause, "missing closing quote")
		}
		valueEnd := valueStart + closing
		return clause[:valueStart] + newRange + clause[valueEnd:], nil
	}
	return clause, nil
}

func malformedVersion(clause, reason string) error {
	return errors.Newf(errors.ErrMalformedText, "malformed version attribute: %s", reason).
		WithDetail("clause", clause)
}

func isSpace(c byte) bool {
	return c == ' ' || c == '\t' || c == '\r' || c == '\n'
}
