package container

import (
	"os"
	"path"
	"path/filepath"
	"sort"
	"strings"

	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/spf13/afero"
)

// Dir is a container over a directory tree. Entries are files; empty
// directories are not listed.
type Dir struct {
	fs   afero.Fs
	root string
}

// NewDir returns a container rooted at root on fs.
func NewDir(fs afero.Fs, root string) *Dir {
	return &Dir{fs: fs, root: root}
}

func (d *Dir) Name() string { return d.root }

func (d *Dir) full(p string) string {
	return filepath.Join(d.root, filepath.FromSlash(p))
}

// Paths walks the tree and returns the sorted relative file paths. An
// unreadable subtree fails the whole walk.
func (d *Dir) Paths() ([]string, error) {
	var paths []string
	err := afero.Walk(d.fs, d.root, func(p string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() {
			return nil
		}
		rel, err := filepath.Rel(d.root, p)
		if err != nil {
			return err
		}
		paths = append(paths, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrContainerRead, "cannot list %s", d.root).
			WithDetail("dir", d.root)
	}
	sort.Strings(paths)
	return paths, nil
}

func (d *Dir) Read(p string) ([]byte, error) {
	data, err := afero.ReadFile(d.fs, d.full(p))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrContainerRead, "cannot read %s", p).
			WithDetail("dir", d.root).
			WithDetail("path", p)
	}
	return data, nil
}

func (d *Dir) Put(p string, data []byte) error {
	if IsDir(p) {
		return d.mkdir(strings.TrimSuffix(p, "/"))
	}
	if err := d.mkdir(path.Dir(p)); err != nil {
		return err
	}
	if err := afero.WriteFile(d.fs, d.full(p), data, 0644); err != nil {
		return errors.Wrapf(err, errors.ErrContainerWrite, "cannot write %s", p).
			WithDetail("dir", d.root).
			WithDetail("path", p)
	}
	return nil
}

func (d *Dir) mkdir(p string) error {
	if err := d.fs.MkdirAll(d.full(p), 0755); err != nil {
		return errors.Wrapf(err, errors.ErrContainerWrite, "cannot create directory %s", p).
			WithDetail("dir", d.root)
	}
	return nil
}

// Remove deletes a file and prunes directories left empty by it.
func (d *Dir) Remove(p string) error {
	if err := d.fs.Remove(d.full(p)); err != nil && !os.IsNotExist(err) {
		return errors.Wrapf(err, errors.ErrContainerWrite, "cannot remove %s", p).
			WithDetail("dir", d.root).
			WithDetail("path", p)
	}
	for dir := path.Dir(p); dir != "." && dir != "/"; dir = path.Dir(dir) {
		entries, err := afero.ReadDir(d.fs, d.full(dir))
		if err != nil || len(entries) > 0 {
			break
		}
		if err := d.fs.Remove(d.full(dir)); err != nil {
			break
		}
	}
	return nil
}

func (d *Dir) Has(p string) bool {
	info, err := d.fs.Stat(d.full(p))
	return err == nil && !info.IsDir()
}

// CopyTree copies every file below src to dst on the same filesystem.
func CopyTree(fs afero.Fs, src, dst string) error {
	from := NewDir(fs, src)
	to := NewDir(fs, dst)
	if err := to.mkdir("."); err != nil {
		return err
	}
	paths, err := from.Paths()
	if err != nil {
		return err
	}
	for _, p := range paths {
		data, err := from.Read(p)
		if err != nil {
			return err
		}
		if err := to.Put(p, data); err != nil {
			return err
		}
	}
	return nil
}
