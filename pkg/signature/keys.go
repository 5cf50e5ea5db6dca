package signature

import (
	"sort"
	"strings"
)

// Wildcard is the suffix marking a key that also matches sub-packages.
const Wildcard = ".*"

// Keys returns the lookup keys for name, most specific first:
//
//	Keys("a.b.c.d", ".*") = [a.b.c.d a.b.c.d.* a.b.c.* a.b.* a.*]
//
// The delimiter is the first byte of wildcard.
func Keys(name, wildcard string) []string {
	if name == "" {
		return nil
	}
	keys := []string{name, name + wildcard}
	if wildcard == "" {
		return keys[:1]
	}
	delim := wildcard[0]
	for i := len(name) - 1; i > 0; i-- {
		if name[i] == delim {
			keys = append(keys, name[:i]+wildcard)
		}
	}
	return keys
}

// IsWildcard reports whether key ends with the wildcard suffix.
func IsWildcard(key string) bool {
	return strings.HasSuffix(key, Wildcard)
}

// StripWildcard removes the wildcard suffix, if any.
func StripWildcard(key string) string {
	return strings.TrimSuffix(key, Wildcard)
}

func segmentCount(key string) int {
	return strings.Count(StripWildcard(key), ".") + 1
}

// CompareSpecificity orders rule keys from most to least specific: exact
// keys before wildcard keys, then more segments first, then lexically.
func CompareSpecificity(a, b string) int {
	aw, bw := IsWildcard(a), IsWildcard(b)
	if aw != bw {
		if aw {
			return 1
		}
		return -1
	}
	as, bs := segmentCount(a), segmentCount(b)
	if as != bs {
		if as > bs {
			return -1
		}
		return 1
	}
	return strings.Compare(a, b)
}

// SortKeys sorts keys in place by CompareSpecificity.
func SortKeys(keys []string) {
	sort.SliceStable(keys, func(i, j int) bool {
		return CompareSpecificity(keys[i], keys[j]) < 0
	})
}
