package rules

import (
	"path"
	"strings"
)

// matchPattern checks a resource path against a selection glob.
//
//   - a trailing / selects everything below a directory
//   - a pattern containing / is matched against the whole path, ** spans
//     any number of directories
//   - otherwise the pattern is matched against the base name
func matchPattern(pattern, resource string) bool {
	if strings.HasSuffix(pattern, "/") {
		dir := strings.TrimSuffix(pattern, "/")
		if !strings.Contains(dir, "/") && !strings.Contains(dir, "*") {
			return strings.HasPrefix(resource, dir+"/") || strings.Contains(resource, "/"+dir+"/")
		}
		return matchSegments(strings.Split(dir+"/**", "/"), strings.Split(resource, "/"))
	}

	if strings.Contains(pattern, "/") {
		return matchSegments(strings.Split(pattern, "/"), strings.Split(resource, "/"))
	}

	matched, _ := path.Match(pattern, path.Base(resource))
	return matched
}

func matchSegments(pattern, parts []string) bool {
	for len(pattern) > 0 {
		if pattern[0] == "**" {
			rest := pattern[1:]
			for i := 0; i <= len(parts); i++ {
				if matchSegments(rest, parts[i:]) {
					return true
				}
			}
			return false
		}
		if len(parts) == 0 {
			return false
		}
		if ok, _ := path.Match(pattern[0], parts[0]); !ok {
			return false
		}
		pattern, parts = pattern[1:], parts[1:]
	}
	return len(parts) == 0
}
