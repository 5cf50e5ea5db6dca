// Test Type: Unit Test
// Description: Tests for manifest parsing, writing and line folding

package manifest_test

import (
	"strings"
	"testing"
	"unicode/utf8"

	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/arthur-debert/jrename/pkg/manifest"
	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "Manifest-Version: 1.0\r\n" +
	"Bundle-SymbolicName: com.acme.api\r\n" +
	"Import-Package: javax.servlet;version=\"[2.6,3)\",javax.servlet.htt\r\n" +
	" p;version=\"[2.6,3)\"\r\n" +
	"Created-By: hand\r\n" +
	"\r\n" +
	"Name: com/acme/Api.class\r\n" +
	"SHA-256-Digest: abc=\r\n" +
	"\r\n" +
	"Name: com/acme/\r\n" +
	"Sealed: true\r\n" +
	"SHA-256-Digest: def=\r\n" +
	"\r\n"

func TestParse(t *testing.T) {
	m, err := manifest.Parse([]byte(sample))
	require.NoError(t, err)

	v, ok := m.Main.Get("import-package")
	require.True(t, ok)
	assert.Equal(t, `javax.servlet;version="[2.6,3)",javax.servlet.http;version="[2.6,3)"`, v)

	assert.Len(t, m.Sections, 2)
	assert.Equal(t, "com/acme/Api.class", m.Sections[0].Name())
	require.NotNil(t, m.Section("com/acme/"))
	sealed, _ := m.Section("com/acme/").Get("Sealed")
	assert.Equal(t, "true", sealed)

	names := make([]string, 0)
	for _, a := range m.Main.Attributes {
		names = append(names, a.Name)
	}
	assert.Equal(t, []string{"Manifest-Version", "Bundle-SymbolicName", "Import-Package", "Created-By"}, names)
}

func TestParse_LineEndings(t *testing.T) {
	for name, sep := range map[string]string{"lf": "\n", "cr": "\r"} {
		t.Run(name, func(t *testing.T) {
			text := strings.ReplaceAll(sample, "\r\n", sep)
			m, err := manifest.Parse([]byte(text))
			require.NoError(t, err)
			assert.Len(t, m.Sections, 2)
		})
	}
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		text string
		line int
	}{
		{"no_colon", "Manifest-Version 1.0\r\n", 1},
		{"leading_continuation", " oops\r\n", 1},
		{"section_without_name", "Manifest-Version: 1.0\r\n\r\nSealed: true\r\n", 3},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := manifest.Parse([]byte(tt.text))
			require.Error(t, err)
			assert.True(t, errors.IsErrorCode(err, errors.ErrManifestParse))
			assert.Equal(t, tt.line, errors.GetErrorDetails(err)["line"])
		})
	}
}

func TestWrite_Order(t *testing.T) {
	m := &manifest.Manifest{
		Main: &manifest.Section{Attributes: []manifest.Attribute{
			{Name: "Zeta", Value: "z"},
			{Name: "Alpha", Value: "a"},
			{Name: "Manifest-Version", Value: "1.0"},
		}},
		Sections: []*manifest.Section{{Attributes: []manifest.Attribute{
			{Name: "B", Value: "b"},
			{Name: "Name", Value: "x/"},
			{Name: "A", Value: "a"},
		}}},
	}

	got := string(manifest.Write(m))
	want := "Manifest-Version: 1.0\r\nAlpha: a\r\nZeta: z\r\n\r\n" +
		"Name: x/\r\nA: a\r\nB: b\r\n\r\n"
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Write mismatch (-want +got):\n%s", diff)
	}
}

func TestWrite_Folding(t *testing.T) {
	value := strings.Repeat("javax.servlet.http,", 12)
	m := manifest.New()
	m.Main.Set("Export-Package", value)
	out := manifest.Write(m)

	for _, line := range strings.Split(strings.TrimSuffix(string(out), "\r\n\r\n"), "\r\n") {
		assert.LessOrEqual(t, len(line), manifest.MaxLineLength, line)
	}

	parsed, err := manifest.Parse(out)
	require.NoError(t, err)
	got, _ := parsed.Main.Get("Export-Package")
	assert.Equal(t, value, got)
}

func TestWrite_FoldingKeepsRunes(t *testing.T) {
	value := strings.Repeat("é", 100)
	m := manifest.New()
	m.Main.Set("Bundle-Name", value)
	out := manifest.Write(m)

	for _, line := range strings.Split(string(out), "\r\n") {
		assert.True(t, utf8.ValidString(line), "line %q splits a rune", line)
		assert.LessOrEqual(t, len(line), manifest.MaxLineLength)
	}

	parsed, err := manifest.Parse(out)
	require.NoError(t, err)
	got, _ := parsed.Main.Get("Bundle-Name")
	assert.Equal(t, value, got)
}

func TestRoundTrip(t *testing.T) {
	m, err := manifest.Parse([]byte(sample))
	require.NoError(t, err)

	again, err := manifest.Parse(manifest.Write(m))
	require.NoError(t, err)

	// attributes are reordered on write, values must survive
	for _, a := range m.Main.Attributes {
		v, ok := again.Main.Get(a.Name)
		assert.True(t, ok, a.Name)
		assert.Equal(t, a.Value, v, a.Name)
	}
	require.Len(t, again.Sections, 2)
	if diff := cmp.Diff(m.Sections[0], again.Sections[0]); diff != "" {
		t.Errorf("section mismatch (-want +got):\n%s", diff)
	}
}

func TestSectionEdits(t *testing.T) {
	s := &manifest.Section{}
	s.Set("Bundle-Name", "a")
	s.Set("bundle-name", "b")
	assert.Len(t, s.Attributes, 1)
	assert.Equal(t, "Bundle-Name", s.Attributes[0].Name)
	assert.Equal(t, "b", s.Attributes[0].Value)

	assert.True(t, s.Delete("BUNDLE-NAME"))
	assert.False(t, s.Delete("Bundle-Name"))
	assert.Empty(t, s.Attributes)
}

func TestStripDigests(t *testing.T) {
	m, err := manifest.Parse([]byte(sample))
	require.NoError(t, err)

	removed := manifest.StripDigests(m)
	assert.Equal(t, 2, removed)
	require.Len(t, m.Sections, 1)
	assert.Equal(t, "com/acme/", m.Sections[0].Name())

	assert.True(t, manifest.IsDigestAttribute("SHA1-Digest-Manifest"))
	assert.True(t, manifest.IsDigestAttribute("MD5-Digest"))
	assert.False(t, manifest.IsDigestAttribute("Bundle-Name"))
}
