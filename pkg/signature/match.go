package signature

import "strings"

// PackageMatch validates a candidate package match at text[start:end] and
// returns the end of the accepted match, or -1.
//
// The match is rejected when it is the tail of a longer name (preceded by
// an identifier character or a delimiter) or the head of a longer
// identifier. When the match is followed by '.' or '/':
//
//   - with stem set, the match is extended through every following
//     lower-case package segment on the same delimiter and stops before an
//     upper-case segment (a class name); a dangling delimiter is not
//     consumed
//   - without stem, a following package segment rejects the match
func PackageMatch(text string, start, end int, stem bool) int {
	if start < 0 || end > len(text) || start >= end {
		return -1
	}
	if start > 0 {
		if c := text[start-1]; isIdentPart(c) || isDelimiter(c) {
			return -1
		}
	}
	if end == len(text) {
		return end
	}

	c := text[end]
	if isIdentPart(c) {
		return -1
	}
	if !isDelimiter(c) {
		return end
	}
	// a.b.c/d mixes forms; the name ends at the switch
	if other := otherDelimiter(c); strings.IndexByte(text[start:end], other) >= 0 {
		return end
	}

	if !stem {
		if end+1 < len(text) && isPackageSegmentStart(text[end+1]) {
			return -1
		}
		return end
	}

	delim := c
	matchEnd := end
	for pos := end; pos < len(text) && text[pos] == delim; {
		segStart := pos + 1
		if segStart >= len(text) || !isPackageSegmentStart(text[segStart]) {
			break
		}
		segEnd := segStart
		for segEnd < len(text) && isIdentPart(text[segEnd]) {
			segEnd++
		}
		matchEnd = segEnd
		pos = segEnd
	}
	return matchEnd
}

func otherDelimiter(c byte) byte {
	if c == '.' {
		return '/'
	}
	return '.'
}
