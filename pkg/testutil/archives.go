package testutil

import (
	"testing"

	"github.com/arthur-debert/jrename/pkg/container"
	"github.com/stretchr/testify/require"
)

// Entry is one file of a fixture archive.
type Entry struct {
	Path string
	Data []byte
}

// File is an Entry with text content.
func File(p, content string) Entry {
	return Entry{Path: p, Data: []byte(content)}
}

// JarBytes builds a zip archive holding entries in order.
func JarBytes(t *testing.T, entries ...Entry) []byte {
	t.Helper()
	a := container.NewArchive("fixture.jar")
	for _, e := range entries {
		require.NoError(t, a.Put(e.Path, e.Data))
	}
	data, err := a.Bytes()
	require.NoError(t, err)
	return data
}

// JarEntries opens a zip archive and returns its entries by path.
func JarEntries(t *testing.T, data []byte) map[string][]byte {
	t.Helper()
	a, err := container.OpenArchive("fixture.jar", data)
	require.NoError(t, err)
	out := make(map[string][]byte)
	paths, err := a.Paths()
	require.NoError(t, err)
	for _, p := range paths {
		content, err := a.Read(p)
		require.NoError(t, err)
		out[p] = content
	}
	return out
}
