// Test Type: Unit Test
// Description: Tests for the per-entry actions and the action selector

package actions_test

import (
	"testing"

	"github.com/arthur-debert/jrename/pkg/actions"
	"github.com/arthur-debert/jrename/pkg/classfile"
	"github.com/arthur-debert/jrename/pkg/config"
	"github.com/arthur-debert/jrename/pkg/container"
	"github.com/arthur-debert/jrename/pkg/manifest"
	"github.com/arthur-debert/jrename/pkg/rules"
	"github.com/arthur-debert/jrename/pkg/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func testSource() rules.MapSource {
	return rules.MapSource{
		"renames": {
			{Key: "javax.servlet.*", Value: "jakarta.servlet"},
		},
		"versions": {
			{Key: "jakarta.servlet", Value: "[5.0,6)"},
		},
		"bundles": {
			{Key: "com.acme.api", Value: `com.acme.jakarta.api,2.0,"Acme API (Jakarta)",`},
		},
		"master-text": {
			{Key: "*.xml", Value: "xml-text"},
		},
		"xml-text": {
			{Key: "http://java.sun.com/xml/ns/javaee", Value: "https://jakarta.ee/xml/ns/jakartaee"},
		},
	}
}

func buildRules(t *testing.T, raw map[string]interface{}) (*rules.RuleSet, *config.Options) {
	t.Helper()
	opts := config.MustOptions(raw)
	rs, _, err := rules.Build(testSource(), opts)
	require.NoError(t, err)
	return rs, opts
}

func defaultRules(t *testing.T) (*rules.RuleSet, *config.Options) {
	return buildRules(t, map[string]interface{}{
		"rules.renames":  "renames",
		"rules.versions": "versions",
		"rules.bundles":  "bundles",
	})
}

func TestClassAction(t *testing.T) {
	rs, _ := defaultRules(t)
	action := actions.NewClass(rs)
	assert.Equal(t, actions.KindClass, action.Kind())

	t.Run("rewrites references in place", func(t *testing.T) {
		data := testutil.ClassBytes("com/acme/MyServlet", "javax/servlet/GenericServlet", "javax.servlet.http.HttpServlet")
		res, err := action.Apply("com/acme/MyServlet.class", data)
		require.NoError(t, err)

		assert.Equal(t, 2, res.Replacements)
		assert.Empty(t, res.OutputPath)

		cf, err := classfile.Parse(res.Data)
		require.NoError(t, err)
		assert.Equal(t, "com/acme/MyServlet", cf.ClassName())
		assert.Equal(t, "jakarta/servlet/GenericServlet", cf.SuperClassName())
		assert.Contains(t, string(res.Data), "jakarta.servlet.http.HttpServlet")
	})

	t.Run("moves renamed classes", func(t *testing.T) {
		data := testutil.ClassBytes("javax/servlet/Filter", "java/lang/Object")
		res, err := action.Apply("WEB-INF/classes/javax/servlet/Filter.class", data)
		require.NoError(t, err)
		assert.Equal(t, "WEB-INF/classes/jakarta/servlet/Filter.class", res.OutputPath)
	})

	t.Run("unrelated class is unchanged", func(t *testing.T) {
		data := testutil.ClassBytes("com/acme/Plain", "java/lang/Object", "hello")
		res, err := action.Apply("com/acme/Plain.class", data)
		require.NoError(t, err)
		assert.Equal(t, actions.Result{}, res)
	})

	t.Run("malformed class fails", func(t *testing.T) {
		_, err := action.Apply("Broken.class", []byte{0xCA, 0xFE})
		require.Error(t, err)
	})
}

func TestManifestAction(t *testing.T) {
	input := "Manifest-Version: 1.0\r\n" +
		"Bundle-SymbolicName: com.acme.api;singleton:=true\r\n" +
		"Bundle-Version: 1.0.0\r\n" +
		"Import-Package: javax.servlet;version=\"[3.0,4)\",org.osgi.framework\r\n" +
		"\r\n"

	t.Run("renames packages versions and bundle", func(t *testing.T) {
		rs, opts := defaultRules(t)
		res, err := actions.NewManifest(rs, opts).Apply(container.ManifestName, []byte(input))
		require.NoError(t, err)
		require.NotNil(t, res.Data)

		m, err := manifest.Parse(res.Data)
		require.NoError(t, err)
		imports, _ := m.Main.Get("Import-Package")
		assert.Equal(t, `jakarta.servlet;version="[5.0,6)",org.osgi.framework`, imports)
		name, _ := m.Main.Get("Bundle-SymbolicName")
		assert.Equal(t, "com.acme.jakarta.api;singleton:=true", name)
		version, _ := m.Main.Get("Bundle-Version")
		assert.Equal(t, "2.0", version)
		title, _ := m.Main.Get("Bundle-Name")
		assert.Equal(t, "Acme API (Jakarta)", title)
	})

	t.Run("unrelated manifest is unchanged", func(t *testing.T) {
		rs, opts := defaultRules(t)
		plain := "Manifest-Version: 1.0\r\nMain-Class: com.acme.Main\r\n\r\n"
		res, err := actions.NewManifest(rs, opts).Apply(container.ManifestName, []byte(plain))
		require.NoError(t, err)
		assert.Nil(t, res.Data)
		assert.Zero(t, res.Replacements)
	})

	t.Run("strips digests when signatures are stripped", func(t *testing.T) {
		rs, _ := defaultRules(t)
		opts := config.MustOptions(map[string]interface{}{
			"rules.renames":    "renames",
			"strip.signatures": true,
		})
		signed := "Manifest-Version: 1.0\r\n\r\n" +
			"Name: com/acme/Main.class\r\nSHA-256-Digest: abc=\r\n\r\n"
		res, err := actions.NewManifest(rs, opts).Apply(container.ManifestName, []byte(signed))
		require.NoError(t, err)
		require.NotNil(t, res.Data)
		assert.NotContains(t, string(res.Data), "Digest")
	})
}

func TestTextAction(t *testing.T) {
	t.Run("package renames", func(t *testing.T) {
		rs, _ := defaultRules(t)
		res, err := actions.NewText(rs).Apply("WEB-INF/web.xml",
			[]byte("<servlet-class>javax.servlet.http.HttpServlet</servlet-class>"))
		require.NoError(t, err)
		assert.Equal(t, "<servlet-class>jakarta.servlet.http.HttpServlet</servlet-class>", string(res.Data))
		assert.Equal(t, 1, res.Replacements)
		assert.Empty(t, res.OutputPath)
	})

	t.Run("literal table of the master text selector", func(t *testing.T) {
		rs, _ := buildRules(t, map[string]interface{}{
			"rules.renames":     "renames",
			"rules.master.text": "master-text",
		})
		res, err := actions.NewText(rs).Apply("WEB-INF/web.xml",
			[]byte(`<web-app xmlns="http://java.sun.com/xml/ns/javaee"/>`))
		require.NoError(t, err)
		assert.Equal(t, `<web-app xmlns="https://jakarta.ee/xml/ns/jakartaee"/>`, string(res.Data))
	})

	t.Run("resource in renamed package moves", func(t *testing.T) {
		rs, _ := defaultRules(t)
		res, err := actions.NewText(rs).Apply("javax/servlet/LocalStrings.properties", []byte("a=b\n"))
		require.NoError(t, err)
		assert.Nil(t, res.Data)
		assert.Equal(t, "jakarta/servlet/LocalStrings.properties", res.OutputPath)
	})
}

func TestServiceAction(t *testing.T) {
	rs, _ := defaultRules(t)
	input := "# providers\ncom.acme.Init\njavax.servlet.impl.Init # legacy\n"
	res, err := actions.NewService(rs).Apply("META-INF/services/javax.servlet.ServletContainerInitializer", []byte(input))
	require.NoError(t, err)

	assert.Equal(t, "META-INF/services/jakarta.servlet.ServletContainerInitializer", res.OutputPath)
	assert.Equal(t, "# providers\ncom.acme.Init\njakarta.servlet.impl.Init # legacy\n", string(res.Data))
	assert.Equal(t, 1, res.Replacements)
}

func TestXMLAction(t *testing.T) {
	rs, _ := defaultRules(t)
	input := `<?xml version="1.0" encoding="UTF-8"?>
<feature id="com.acme.feature" version="1.0.0">
  <plugin id="com.acme.api" version="1.0.0"/>
  <plugin id="org.eclipse.core" version="3.0.0"/>
  <requires>
    <import plugin="com.acme.api"/>
  </requires>
</feature>
`
	res, err := actions.NewXML(rs).Apply("features/acme/feature.xml", []byte(input))
	require.NoError(t, err)

	out := string(res.Data)
	assert.Contains(t, out, `<plugin id="com.acme.jakarta.api" version="2.0"/>`)
	assert.Contains(t, out, `<plugin id="org.eclipse.core" version="3.0.0"/>`)
	assert.Contains(t, out, `<import plugin="com.acme.jakarta.api"/>`)
	assert.Equal(t, 3, res.Replacements)

	_, err = actions.NewXML(rs).Apply("feature.xml", []byte("<feature"))
	require.Error(t, err)
}

func TestRenameAndSignature(t *testing.T) {
	rs, _ := defaultRules(t)

	res, err := actions.NewRename(rs).Apply("javax/servlet/resources/logo.png", nil)
	require.NoError(t, err)
	assert.Equal(t, "jakarta/servlet/resources/logo.png", res.OutputPath)

	res, err = actions.NewRename(rs).Apply("com/acme/logo.png", nil)
	require.NoError(t, err)
	assert.Empty(t, res.OutputPath)

	res, err = actions.Signature{}.Apply("META-INF/ACME.SF", []byte("x"))
	require.NoError(t, err)
	assert.True(t, res.Removed)
}

func TestSelector(t *testing.T) {
	nested := actions.NewContainer(func(string, []byte) (actions.Result, error) {
		return actions.Result{}, nil
	})

	tests := []struct {
		name   string
		parent container.Kind
		raw    map[string]interface{}
		path   string
		want   actions.Kind
	}{
		{"manifest", container.KindJar, nil, "META-INF/MANIFEST.MF", actions.KindManifest},
		{"signature kept", container.KindJar, nil, "META-INF/ACME.SF", actions.KindNone},
		{"signature stripped", container.KindJar, map[string]interface{}{"strip.signatures": true}, "META-INF/ACME.RSA", actions.KindSignature},
		{"jar in war", container.KindWar, nil, "WEB-INF/lib/api.jar", actions.KindContainer},
		{"war in jar", container.KindJar, nil, "app.war", actions.KindNone},
		{"war in jar widened", container.KindJar, map[string]interface{}{"widen.archive.nesting": true}, "app.war", actions.KindContainer},
		{"class", container.KindJar, nil, "com/acme/Main.class", actions.KindClass},
		{"service", container.KindJar, nil, "META-INF/services/javax.servlet.Filter", actions.KindService},
		{"feature", container.KindJar, nil, "feature.xml", actions.KindXML},
		{"text", container.KindJar, nil, "WEB-INF/web.xml", actions.KindText},
		{"renamed resource", container.KindJar, nil, "javax/servlet/logo.png", actions.KindRename},
		{"renamed directory", container.KindJar, nil, "javax/servlet/", actions.KindRename},
		{"other binary", container.KindJar, nil, "com/acme/logo.png", actions.KindNone},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			raw := map[string]interface{}{"rules.renames": "renames"}
			for k, v := range tt.raw {
				raw[k] = v
			}
			rs, opts := buildRules(t, raw)
			selector := actions.NewSet(rs, opts).Selector(tt.parent, nested)
			assert.Equal(t, tt.want, selector(tt.path).Kind())
		})
	}

	t.Run("master text limits text resources", func(t *testing.T) {
		rs, opts := buildRules(t, map[string]interface{}{
			"rules.renames":     "renames",
			"rules.master.text": "master-text",
		})
		selector := actions.NewSet(rs, opts).Selector(container.KindJar, nested)
		assert.Equal(t, actions.KindText, selector("WEB-INF/web.xml").Kind())
		assert.Equal(t, actions.KindNone, selector("config/app.properties").Kind())
	})

	t.Run("no nested action leaves archives unaccepted", func(t *testing.T) {
		rs, opts := defaultRules(t)
		selector := actions.NewSet(rs, opts).Selector(container.KindEar, nil)
		assert.Equal(t, actions.KindNone, selector("web.war").Kind())
	})
}
