// Test Type: Integration Test
// Description: Tests for container runs: nested archives, conflicts, selection and idempotence

package transform_test

import (
	"os"
	"testing"

	"github.com/arthur-debert/jrename/pkg/actions"
	"github.com/arthur-debert/jrename/pkg/changes"
	"github.com/arthur-debert/jrename/pkg/classfile"
	"github.com/arthur-debert/jrename/pkg/config"
	"github.com/arthur-debert/jrename/pkg/container"
	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/arthur-debert/jrename/pkg/manifest"
	"github.com/arthur-debert/jrename/pkg/rules"
	"github.com/arthur-debert/jrename/pkg/testutil"
	"github.com/arthur-debert/jrename/pkg/transform"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func ruleSource() rules.MapSource {
	return rules.MapSource{
		"renames": {
			{Key: "javax.servlet.*", Value: "jakarta.servlet"},
		},
		"selections": {
			{Key: "!**/skip.xml", Value: ""},
		},
	}
}

func newEngine(t *testing.T, extra map[string]interface{}) *transform.Engine {
	t.Helper()
	raw := map[string]interface{}{
		"rules.renames":    "renames",
		"rules.selections": "selections",
	}
	for k, v := range extra {
		raw[k] = v
	}
	opts := config.MustOptions(raw)
	rs, _, err := rules.Build(ruleSource(), opts)
	require.NoError(t, err)
	return transform.NewEngine(rs, opts)
}

func openArchive(t *testing.T, name string, data []byte) *container.Archive {
	t.Helper()
	a, err := container.OpenArchive(name, data)
	require.NoError(t, err)
	return a
}

func readEntry(t *testing.T, c container.Container, p string) []byte {
	t.Helper()
	data, err := c.Read(p)
	require.NoError(t, err)
	return data
}

func superName(t *testing.T, data []byte) string {
	t.Helper()
	cf, err := classfile.Parse(data)
	require.NoError(t, err)
	return cf.SuperClassName()
}

func webApp(t *testing.T) []byte {
	api := testutil.JarBytes(t,
		testutil.File(container.ManifestName, "Manifest-Version: 1.0\r\nImport-Package: javax.servlet\r\n\r\n"),
		testutil.Entry{Path: "com/acme/Api.class", Data: testutil.ClassBytes("com/acme/Api", "javax/servlet/GenericFilter")},
		testutil.File("META-INF/services/javax.servlet.ServletContainerInitializer", "com.acme.Init\n"),
	)
	plain := testutil.JarBytes(t,
		testutil.Entry{Path: "com/acme/Util.class", Data: testutil.ClassBytes("com/acme/Util", "java/lang/Object")},
	)
	return testutil.JarBytes(t,
		testutil.File(container.ManifestName, "Manifest-Version: 1.0\r\n\r\n"),
		testutil.File("WEB-INF/web.xml", "<servlet-class>javax.servlet.http.HttpServlet</servlet-class>"),
		testutil.File("WEB-INF/skip.xml", "<servlet-class>javax.servlet.http.HttpServlet</servlet-class>"),
		testutil.Entry{Path: "WEB-INF/classes/javax/servlet/Foo.class", Data: testutil.ClassBytes("javax/servlet/Foo", "java/lang/Object")},
		testutil.Entry{Path: "WEB-INF/classes/com/acme/App.class", Data: testutil.ClassBytes("com/acme/App", "javax/servlet/GenericServlet")},
		testutil.Entry{Path: "WEB-INF/lib/api.jar", Data: api},
		testutil.Entry{Path: "WEB-INF/lib/plain.jar", Data: plain},
		testutil.File("images/logo.png", "\x89PNG"),
	)
}

func TestTransformWebApp(t *testing.T) {
	engine := newEngine(t, nil)
	original := webApp(t)
	war := openArchive(t, "app.war", original)
	plainBefore := readEntry(t, war, "WEB-INF/lib/plain.jar")

	record, err := engine.Transform(war)
	require.NoError(t, err)
	assert.Equal(t, "war", record.Kind)
	assert.True(t, record.HasChanges())
	assert.False(t, record.HasErrors())

	t.Run("classes are rewritten and moved", func(t *testing.T) {
		assert.False(t, war.Has("WEB-INF/classes/javax/servlet/Foo.class"))
		assert.True(t, war.Has("WEB-INF/classes/jakarta/servlet/Foo.class"))
		app := readEntry(t, war, "WEB-INF/classes/com/acme/App.class")
		assert.Equal(t, "jakarta/servlet/GenericServlet", superName(t, app))
	})

	t.Run("text is rewritten unless unselected", func(t *testing.T) {
		assert.Equal(t, "<servlet-class>jakarta.servlet.http.HttpServlet</servlet-class>",
			string(readEntry(t, war, "WEB-INF/web.xml")))
		assert.Equal(t, "<servlet-class>javax.servlet.http.HttpServlet</servlet-class>",
			string(readEntry(t, war, "WEB-INF/skip.xml")))
	})

	t.Run("nested archives are transformed", func(t *testing.T) {
		entries := testutil.JarEntries(t, readEntry(t, war, "WEB-INF/lib/api.jar"))
		assert.Equal(t, "jakarta/servlet/GenericFilter", superName(t, entries["com/acme/Api.class"]))
		assert.Contains(t, entries, "META-INF/services/jakarta.servlet.ServletContainerInitializer")

		m, err := manifest.Parse(entries[container.ManifestName])
		require.NoError(t, err)
		imports, _ := m.Main.Get("Import-Package")
		assert.Equal(t, "jakarta.servlet", imports)

		assert.Equal(t, plainBefore, readEntry(t, war, "WEB-INF/lib/plain.jar"))
		require.Len(t, record.Nested, 2)
		assert.True(t, record.Nested[0].HasChanges())
		assert.False(t, record.Nested[1].HasChanges())
	})

	t.Run("record", func(t *testing.T) {
		stats := record.Stats()
		assert.Equal(t, 1, stats.Unselected)
		assert.Equal(t, 1, stats.Unaccepted)
		assert.Equal(t, 0, stats.Errors)

		var moved changes.Entry
		for _, e := range record.Resources() {
			if e.InputPath == "WEB-INF/classes/javax/servlet/Foo.class" {
				moved = e
			}
		}
		assert.Equal(t, "WEB-INF/classes/jakarta/servlet/Foo.class", moved.OutputPath)
		assert.Equal(t, changes.Changed, moved.Outcome)
		assert.Equal(t, "class", moved.Action)
	})
}

func TestTransformIsIdempotent(t *testing.T) {
	engine := newEngine(t, nil)
	war := openArchive(t, "app.war", webApp(t))
	_, err := engine.Transform(war)
	require.NoError(t, err)

	once, err := war.Bytes()
	require.NoError(t, err)

	again := openArchive(t, "app.war", once)
	record, err := engine.Transform(again)
	require.NoError(t, err)
	assert.False(t, record.HasChanges())
}

func TestRenameConflicts(t *testing.T) {
	fixture := func(t *testing.T) *container.Archive {
		return openArchive(t, "lib.jar", testutil.JarBytes(t,
			testutil.File("javax/servlet/logo.png", "old"),
			testutil.File("jakarta/servlet/logo.png", "existing"),
		))
	}

	t.Run("without overwrite the destination is kept", func(t *testing.T) {
		jar := fixture(t)
		record, err := newEngine(t, nil).Transform(jar)
		require.NoError(t, err)

		failed := record.Errors()
		require.Len(t, failed, 1)
		assert.Equal(t, "javax/servlet/logo.png", failed[0].InputPath)
		assert.True(t, errors.IsErrorCode(failed[0].Err, errors.ErrWriteConflict))

		assert.Equal(t, "existing", string(readEntry(t, jar, "jakarta/servlet/logo.png")))
		assert.Equal(t, "old", string(readEntry(t, jar, "javax/servlet/logo.png")))
	})

	t.Run("with overwrite the destination is replaced", func(t *testing.T) {
		jar := fixture(t)
		record, err := newEngine(t, map[string]interface{}{"overwrite": true}).Transform(jar)
		require.NoError(t, err)

		assert.False(t, record.HasErrors())
		assert.False(t, jar.Has("javax/servlet/logo.png"))
		assert.Equal(t, "old", string(readEntry(t, jar, "jakarta/servlet/logo.png")))
	})
}

func TestNestingRules(t *testing.T) {
	inner := testutil.JarBytes(t,
		testutil.Entry{Path: "javax/servlet/Foo.class", Data: testutil.ClassBytes("javax/servlet/Foo", "java/lang/Object")},
	)
	jarWithWar := func(t *testing.T) *container.Archive {
		return openArchive(t, "outer.jar", testutil.JarBytes(t, testutil.Entry{Path: "app.war", Data: inner}))
	}

	t.Run("war inside jar is left alone", func(t *testing.T) {
		jar := jarWithWar(t)
		record, err := newEngine(t, nil).Transform(jar)
		require.NoError(t, err)
		assert.Equal(t, 1, record.Stats().Unaccepted)
		assert.Equal(t, inner, readEntry(t, jar, "app.war"))
	})

	t.Run("widened nesting transforms it", func(t *testing.T) {
		jar := jarWithWar(t)
		record, err := newEngine(t, map[string]interface{}{"widen.archive.nesting": true}).Transform(jar)
		require.NoError(t, err)
		require.Len(t, record.Nested, 1)
		assert.Contains(t, testutil.JarEntries(t, readEntry(t, jar, "app.war")), "jakarta/servlet/Foo.class")
	})
}

func TestSignatureStripping(t *testing.T) {
	signed := func(t *testing.T) *container.Archive {
		return openArchive(t, "signed.jar", testutil.JarBytes(t,
			testutil.File(container.ManifestName, "Manifest-Version: 1.0\r\n\r\n"+
				"Name: javax/servlet/Foo.class\r\nSHA-256-Digest: abc=\r\n\r\n"),
			testutil.File("META-INF/ACME.SF", "Signature-Version: 1.0\r\n\r\n"),
			testutil.File("META-INF/ACME.RSA", "\x30\x82"),
			testutil.Entry{Path: "javax/servlet/Foo.class", Data: testutil.ClassBytes("javax/servlet/Foo", "java/lang/Object")},
		))
	}

	t.Run("kept by default", func(t *testing.T) {
		jar := signed(t)
		_, err := newEngine(t, nil).Transform(jar)
		require.NoError(t, err)
		assert.True(t, jar.Has("META-INF/ACME.SF"))
	})

	t.Run("stripped on request", func(t *testing.T) {
		jar := signed(t)
		record, err := newEngine(t, map[string]interface{}{"strip.signatures": true}).Transform(jar)
		require.NoError(t, err)
		assert.False(t, jar.Has("META-INF/ACME.SF"))
		assert.False(t, jar.Has("META-INF/ACME.RSA"))
		assert.ElementsMatch(t, []string{"META-INF/ACME.SF", "META-INF/ACME.RSA", "javax/servlet/Foo.class"}, record.RemovedPaths())
		assert.NotContains(t, string(readEntry(t, jar, container.ManifestName)), "Digest")
	})
}

// computedManifest serves its manifest without storing it as an entry.
type computedManifest struct {
	*container.Archive
	manifest []byte
}

func (c *computedManifest) Manifest() ([]byte, bool) {
	return c.manifest, true
}

func TestComputedManifest(t *testing.T) {
	c := &computedManifest{
		Archive:  openArchive(t, "computed.jar", testutil.JarBytes(t, testutil.File("readme.txt", "hello"))),
		manifest: []byte("Manifest-Version: 1.0\r\nImport-Package: javax.servlet.http\r\n\r\n"),
	}
	record, err := newEngine(t, nil).Transform(c)
	require.NoError(t, err)

	require.True(t, c.Has(container.ManifestName))
	m, err := manifest.Parse(readEntry(t, c, container.ManifestName))
	require.NoError(t, err)
	imports, _ := m.Main.Get("Import-Package")
	assert.Equal(t, "jakarta.servlet.http", imports)
	assert.Equal(t, container.ManifestName, record.Resources()[0].InputPath)
}

func TestDirectoryWriteBackPaths(t *testing.T) {
	fs := testutil.MemFs(t, map[string][]byte{
		"/app/javax/servlet/Foo.class": testutil.ClassBytes("javax/servlet/Foo", "java/lang/Object"),
		"/app/javax/servlet/logo.png":  []byte("\x89PNG"),
		"/app/README.txt":              []byte("plain"),
	})
	dir := container.NewDir(fs, "/app")

	record, err := newEngine(t, nil).Transform(dir)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"jakarta/servlet/Foo.class", "jakarta/servlet/logo.png"}, record.ChangedPaths())
	assert.ElementsMatch(t, []string{"javax/servlet/Foo.class", "javax/servlet/logo.png"}, record.RemovedPaths())
	for _, p := range record.RemovedPaths() {
		assert.False(t, dir.Has(p), p)
	}
}

// unlistableFs cannot open any directory.
type unlistableFs struct {
	afero.Fs
}

func (unlistableFs) Open(name string) (afero.File, error) {
	return nil, os.ErrPermission
}

func TestUnlistableDirectory(t *testing.T) {
	fs := testutil.MemFs(t, map[string][]byte{"/app/javax/servlet/Foo.class": []byte("x")})

	record, err := newEngine(t, nil).Transform(container.NewDir(unlistableFs{fs}, "/app"))
	require.Error(t, err)
	assert.True(t, errors.IsErrorCode(err, errors.ErrContainerRead))
	assert.Empty(t, record.Resources())
	assert.True(t, record.HasErrors())
}

// explodingAction panics on every entry.
type explodingAction struct{}

func (explodingAction) Kind() actions.Kind { return actions.KindText }

func (explodingAction) Apply(string, []byte) (actions.Result, error) {
	panic("index out of range")
}

func TestPanickingActionFailsOnlyItsEntry(t *testing.T) {
	engine := newEngine(t, nil)
	defaults := engine.Selector
	engine.Selector = func(kind container.Kind, nested *actions.Container) actions.Selector {
		next := defaults(kind, nested)
		return func(p string) actions.Action {
			if p == "bad.txt" {
				return explodingAction{}
			}
			return next(p)
		}
	}

	jar := openArchive(t, "lib.jar", testutil.JarBytes(t,
		testutil.File("bad.txt", "javax.servlet.Filter"),
		testutil.Entry{Path: "javax/servlet/Foo.class", Data: testutil.ClassBytes("javax/servlet/Foo", "java/lang/Object")},
	))
	record, err := engine.Transform(jar)
	require.NoError(t, err)

	failed := record.Errors()
	require.Len(t, failed, 1)
	assert.Equal(t, "bad.txt", failed[0].InputPath)
	assert.True(t, errors.IsErrorCode(failed[0].Err, errors.ErrActionExecute))
	assert.Equal(t, "javax.servlet.Filter", string(readEntry(t, jar, "bad.txt")))
	assert.True(t, jar.Has("jakarta/servlet/Foo.class"))
}
