// Package manifest reads and writes JAR manifests (META-INF/MANIFEST.MF).
package manifest

import (
	"bytes"
	"sort"
	"strings"

	"github.com/arthur-debert/jrename/pkg/errors"
)

const (
	ManifestVersion  = "Manifest-Version"
	SignatureVersion = "Signature-Version"
	NameAttribute    = "Name"

	// MaxLineLength is the longest manifest line in bytes, line break
	// excluded.
	MaxLineLength = 72
)

// Attribute is one header of a section.
type Attribute struct {
	Name  string
	Value string
}

// Section is the main section or a named per-entry section. Attribute
// names compare case-insensitively; their order is kept as read.
type Section struct {
	Attributes []Attribute
}

// Manifest is a parsed manifest.
type Manifest struct {
	Main     *Section
	Sections []*Section
}

// New returns an empty manifest with a version header.
func New() *Manifest {
	return &Manifest{Main: &Section{Attributes: []Attribute{{Name: ManifestVersion, Value: "1.0"}}}}
}

func (s *Section) index(name string) int {
	for i, a := range s.Attributes {
		if strings.EqualFold(a.Name, name) {
			return i
		}
	}
	return -1
}

// Get returns the value of an attribute.
func (s *Section) Get(name string) (string, bool) {
	if i := s.index(name); i >= 0 {
		return s.Attributes[i].Value, true
	}
	return "", false
}

// Set replaces an attribute value in place or appends a new attribute.
func (s *Section) Set(name, value string) {
	if i := s.index(name); i >= 0 {
		s.Attributes[i].Value = value
		return
	}
	s.Attributes = append(s.Attributes, Attribute{Name: name, Value: value})
}

// Delete removes an attribute and reports whether it was present.
func (s *Section) Delete(name string) bool {
	i := s.index(name)
	if i < 0 {
		return false
	}
	s.Attributes = append(s.Attributes[:i], s.Attributes[i+1:]...)
	return true
}

// Name returns the Name attribute of a per-entry section.
func (s *Section) Name() string {
	name, _ := s.Get(NameAttribute)
	return name
}

// Section returns the per-entry section with the given name.
func (m *Manifest) Section(name string) *Section {
	for _, s := range m.Sections {
		if s.Name() == name {
			return s
		}
	}
	return nil
}

// Clone returns a deep copy.
func (m *Manifest) Clone() *Manifest {
	c := &Manifest{Main: cloneSection(m.Main)}
	for _, s := range m.Sections {
		c.Sections = append(c.Sections, cloneSection(s))
	}
	return c
}

func cloneSection(s *Section) *Section {
	if s == nil {
		return &Section{}
	}
	return &Section{Attributes: append([]Attribute(nil), s.Attributes...)}
}

// Parse reads a manifest. Lines may end in CRLF, LF or CR; a line starting
// with a single space continues the previous value.
func Parse(data []byte) (*Manifest, error) {
	m := &Manifest{Main: &Section{}}
	current := m.Main
	inSection := true
	var last *Attribute

	lines := splitLines(data)
	for n, line := range lines {
		lineNo := n + 1
		if line == "" {
			inSection = false
			last = nil
			continue
		}
		if line[0] == ' ' {
			if last == nil {
				return nil, parseError(lineNo, "continuation line without a header")
			}
			last.Value += line[1:]
			continue
		}

		name, value, ok := strings.Cut(line, ":")
		if !ok || name == "" || strings.ContainsAny(name, " \t") {
			return nil, parseError(lineNo, "expected 'Name: value'")
		}
		value = strings.TrimPrefix(value, " ")

		if !inSection {
			if !strings.EqualFold(name, NameAttribute) {
				return nil, parseError(lineNo, "section must start with a Name header")
			}
			current = &Section{}
			m.Sections = append(m.Sections, current)
			inSection = true
		}
		current.Attributes = append(current.Attributes, Attribute{Name: name, Value: value})
		last = &current.Attributes[len(current.Attributes)-1]
	}
	return m, nil
}

func parseError(line int, msg string) error {
	return errors.Newf(errors.ErrManifestParse, "manifest line %d: %s", line, msg).
		WithDetail("line", line)
}

func splitLines(data []byte) []string {
	text := string(data)
	text = strings.ReplaceAll(text, "\r\n", "\n")
	text = strings.ReplaceAll(text, "\r", "\n")
	text = strings.TrimSuffix(text, "\n")
	if text == "" {
		return nil
	}
	return strings.Split(text, "\n")
}

// Write serializes a manifest. The version header leads the main section
// and Name leads each named section; other attributes are sorted.
// Sections keep their order.
func Write(m *Manifest) []byte {
	var buf bytes.Buffer
	writeSection(&buf, m.Main, []string{ManifestVersion, SignatureVersion})
	buf.WriteString("\r\n")
	for _, s := range m.Sections {
		writeSection(&buf, s, []string{NameAttribute})
		buf.WriteString("\r\n")
	}
	return buf.Bytes()
}

func writeSection(buf *bytes.Buffer, s *Section, leading []string) {
	if s == nil {
		return
	}
	attrs := append([]Attribute(nil), s.Attributes...)
	rank := func(name string) int {
		for i, l := range leading {
			if strings.EqualFold(name, l) {
				return i
			}
		}
		return len(leading)
	}
	sort.SliceStable(attrs, func(i, j int) bool {
		ri, rj := rank(attrs[i].Name), rank(attrs[j].Name)
		if ri != rj {
			return ri < rj
		}
		if ri < len(leading) {
			return false
		}
		return attrs[i].Name < attrs[j].Name
	})
	for _, a := range attrs {
		writeLine(buf, a.Name+": "+a.Value)
	}
}

// writeLine folds a header into lines of at most MaxLineLength bytes,
// never splitting a UTF-8 sequence.
func writeLine(buf *bytes.Buffer, line string) {
	limit := MaxLineLength
	for len(line) > limit {
		cut := limit
		for cut > 1 && isContinuationByte(line[cut]) {
			cut--
		}
		buf.WriteString(line[:cut])
		buf.WriteString("\r\n ")
		line = line[cut:]
		limit = MaxLineLength - 1
	}
	buf.WriteString(line)
	buf.WriteString("\r\n")
}

func isContinuationByte(c byte) bool {
	return c&0xC0 == 0x80
}

// IsDigestAttribute reports whether an attribute is a signature digest,
// such as SHA-256-Digest or SHA1-Digest-Manifest.
func IsDigestAttribute(name string) bool {
	lower := strings.ToLower(name)
	return strings.HasSuffix(lower, "-digest") || strings.Contains(lower, "-digest-")
}

// StripDigests removes digest attributes from every section and drops
// named sections left with nothing but their Name. It returns the number
// of attributes removed.
func StripDigests(m *Manifest) int {
	removed := 0
	strip := func(s *Section) {
		kept := s.Attributes[:0]
		for _, a := range s.Attributes {
			if IsDigestAttribute(a.Name) {
				removed++
				continue
			}
			kept = append(kept, a)
		}
		s.Attributes = kept
	}

	strip(m.Main)
	sections := m.Sections[:0]
	for _, s := range m.Sections {
		strip(s)
		if len(s.Attributes) == 1 && strings.EqualFold(s.Attributes[0].Name, NameAttribute) {
			continue
		}
		sections = append(sections, s)
	}
	m.Sections = sections
	return removed
}
