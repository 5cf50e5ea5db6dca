package signature

// Name characters are classified on bytes. Any byte of a multi-byte UTF-8
// sequence counts as an identifier character, which keeps non-ASCII
// identifiers whole without decoding.

func isIdentPart(c byte) bool {
	return c >= 'a' && c <= 'z' ||
		c >= 'A' && c <= 'Z' ||
		c >= '0' && c <= '9' ||
		c == '_' || c == '$' ||
		c >= 0x80
}

func isIdentStart(c byte) bool {
	return isIdentPart(c) && !(c >= '0' && c <= '9')
}

func isDelimiter(c byte) bool {
	return c == '.' || c == '/'
}

// isPackageSegmentStart reports whether c can begin a package segment.
// An upper-case letter conventionally starts a class name instead.
func isPackageSegmentStart(c byte) bool {
	return c >= 'a' && c <= 'z' || c == '_' || c >= 0x80
}
