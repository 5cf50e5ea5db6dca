package rules

import "fmt"

// Pair is one key/value line of a rule table.
type Pair struct {
	Key   string
	Value string
}

// Table is an ordered list of rule lines as read from a rule source.
type Table []Pair

// Get returns the value of the last line with the given key.
func (t Table) Get(key string) (string, bool) {
	for i := len(t) - 1; i >= 0; i-- {
		if t[i].Key == key {
			return t[i].Value, true
		}
	}
	return "", false
}

// Map returns the table as a map; later lines win.
func (t Table) Map() map[string]string {
	m := make(map[string]string, len(t))
	for _, p := range t {
		m[p.Key] = p.Value
	}
	return m
}

// Keys returns the keys in source order.
func (t Table) Keys() []string {
	keys := make([]string, 0, len(t))
	for _, p := range t {
		keys = append(keys, p.Key)
	}
	return keys
}

// Warning reports a skipped rule line.
type Warning struct {
	Source  string
	Key     string
	Message string
}

func (w Warning) String() string {
	if w.Key == "" {
		return fmt.Sprintf("%s: %s", w.Source, w.Message)
	}
	return fmt.Sprintf("%s: %s: %s", w.Source, w.Key, w.Message)
}
