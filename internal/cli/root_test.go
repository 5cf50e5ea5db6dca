// Test Type: Integration Test
// Description: Tests for the jrename command line on an in-memory filesystem

package cli

import (
	"bytes"
	"testing"

	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/arthur-debert/jrename/pkg/testutil"
	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func execute(t *testing.T, fs afero.Fs, args ...string) (string, error) {
	t.Helper()
	var out bytes.Buffer
	cmd := newRootCmd(fs)
	cmd.SetOut(&out)
	cmd.SetErr(&bytes.Buffer{})
	cmd.SetArgs(args)
	err := cmd.Execute()
	return out.String(), err
}

func TestVersionCommand(t *testing.T) {
	out, err := execute(t, afero.NewMemMapFs(), "version")
	require.NoError(t, err)
	assert.Contains(t, out, "jrename version")
}

func TestInitCommand(t *testing.T) {
	fs := afero.NewMemMapFs()

	out, err := execute(t, fs, "init", "/work")
	require.NoError(t, err)
	assert.Contains(t, out, "Wrote /work/jrename.toml")

	for _, name := range []string{"jrename.toml", "jakarta-renames.properties", "jakarta-versions.properties"} {
		exists, _ := afero.Exists(fs, "/work/"+name)
		assert.True(t, exists, name)
	}
	content, err := afero.ReadFile(fs, "/work/jrename.toml")
	require.NoError(t, err)
	assert.Contains(t, string(content), "jakarta-renames.properties")

	out, err = execute(t, fs, "init", "/work")
	require.NoError(t, err)
	assert.Contains(t, out, "Kept existing /work/jrename.toml")
}

func TestTransformCommand(t *testing.T) {
	newFs := func(t *testing.T) afero.Fs {
		return testutil.MemFs(t, map[string][]byte{
			"/work/renames.properties": []byte("javax.servlet.*=jakarta.servlet\n"),
			"/work/app.jar": testutil.JarBytes(t,
				testutil.Entry{Path: "javax/servlet/Foo.class", Data: testutil.ClassBytes("javax/servlet/Foo", "java/lang/Object")},
			),
		})
	}

	t.Run("writes the transformed copy", func(t *testing.T) {
		fs := newFs(t)
		out, err := execute(t, fs, "transform",
			"--rules-dir", "/work",
			"--set", "rules.renames=renames.properties",
			"/work/app.jar", "-o", "/work/out.jar")
		require.NoError(t, err)
		assert.Equal(t, ExitOK, ExitCode(err))
		assert.Contains(t, out, "/work/app.jar")

		data, err := afero.ReadFile(fs, "/work/out.jar")
		require.NoError(t, err)
		assert.Contains(t, testutil.JarEntries(t, data), "jakarta/servlet/Foo.class")
	})

	t.Run("unknown option is fatal", func(t *testing.T) {
		_, err := execute(t, newFs(t), "transform",
			"--rules-dir", "/work",
			"--set", "rules.renames=renames.properties",
			"--set", "no.such.option=1",
			"/work/app.jar")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrUnknownOption))
		assert.Equal(t, ExitFatal, ExitCode(err))
	})

	t.Run("missing rule file is fatal", func(t *testing.T) {
		_, err := execute(t, newFs(t), "transform",
			"--rules-dir", "/work",
			"--set", "rules.renames=missing.properties",
			"/work/app.jar")
		require.Error(t, err)
		assert.Equal(t, ExitFatal, ExitCode(err))
	})

	t.Run("bad report level", func(t *testing.T) {
		_, err := execute(t, newFs(t), "transform", "--report", "loud", "/work/app.jar")
		require.Error(t, err)
		assert.True(t, errors.IsErrorCode(err, errors.ErrInvalidInput))
	})
}

func TestPlanJobs(t *testing.T) {
	jobs := planJobs([]string{"a/one.jar", "b/two.war"}, "out")
	require.Len(t, jobs, 2)
	assert.Equal(t, "out/one.jar", jobs[0].Output)
	assert.Equal(t, "out/two.war", jobs[1].Output)

	single := planJobs([]string{"a/one.jar"}, "copy.jar")
	assert.Equal(t, "copy.jar", single[0].Output)

	inPlace := planJobs([]string{"a/one.jar"}, "")
	assert.Empty(t, inPlace[0].Output)
}

func TestExitCode(t *testing.T) {
	assert.Equal(t, ExitOK, ExitCode(nil))
	assert.Equal(t, ExitEntryFailures, ExitCode(errors.New(errors.ErrActionExecute, "entries failed")))
	assert.Equal(t, ExitFatal, ExitCode(errors.New(errors.ErrConfigInvalid, "bad config")))
}
