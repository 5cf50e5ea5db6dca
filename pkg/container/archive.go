package container

import (
	"archive/zip"
	"bytes"
	"io"
	"sort"
	"strings"

	"github.com/arthur-debert/jrename/pkg/errors"
	"github.com/arthur-debert/jrename/pkg/logging"
)

// Archive is a zip based container (jar, war, ear, rar, zip) held in
// memory. Entry order is kept; new entries are appended.
type Archive struct {
	name    string
	order   []string
	entries map[string]*archiveEntry
	comment string
}

type archiveEntry struct {
	header zip.FileHeader
	data   []byte
}

// NewArchive returns an empty archive.
func NewArchive(name string) *Archive {
	return &Archive{name: name, entries: make(map[string]*archiveEntry)}
}

// OpenArchive reads a zip file. Later duplicates of an entry name are
// dropped.
func OpenArchive(name string, data []byte) (*Archive, error) {
	logger := logging.GetLogger("container.archive")

	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return nil, errors.Wrapf(err, errors.ErrContainerOpen, "cannot open archive %s", name).
			WithDetail("archive", name)
	}

	a := NewArchive(name)
	a.comment = zr.Comment
	for _, f := range zr.File {
		if _, dup := a.entries[f.Name]; dup {
			logger.Warn().Str("archive", name).Str("path", f.Name).Msg("Duplicate entry dropped")
			continue
		}
		content, err := readZipFile(f)
		if err != nil {
			return nil, errors.Wrapf(err, errors.ErrContainerRead, "cannot read %s in %s", f.Name, name).
				WithDetail("archive", name).
				WithDetail("path", f.Name)
		}
		a.order = append(a.order, f.Name)
		a.entries[f.Name] = &archiveEntry{header: f.FileHeader, data: content}
	}

	logger.Debug().Str("archive", name).Int("entries", len(a.order)).Msg("Opened archive")
	return a, nil
}

func readZipFile(f *zip.File) ([]byte, error) {
	rc, err := f.Open()
	if err != nil {
		return nil, err
	}
	defer func() { _ = rc.Close() }()
	return io.ReadAll(rc)
}

func (a *Archive) Name() string { return a.name }

// Paths returns the entry paths in archive order.
func (a *Archive) Paths() ([]string, error) {
	return append([]string(nil), a.order...), nil
}

func (a *Archive) Read(p string) ([]byte, error) {
	e, ok := a.entries[p]
	if !ok {
		return nil, errors.Newf(errors.ErrContainerRead, "no entry %s in %s", p, a.name).
			WithDetail("archive", a.name).
			WithDetail("path", p)
	}
	return e.data, nil
}

// Put replaces an entry in place, keeping its header, or appends it.
func (a *Archive) Put(p string, data []byte) error {
	if p == "" || strings.HasPrefix(p, "/") {
		return errors.Newf(errors.ErrContainerWrite, "invalid entry path %q", p).
			WithDetail("archive", a.name)
	}
	if e, ok := a.entries[p]; ok {
		e.data = data
		return nil
	}
	method := zip.Deflate
	if IsDir(p) {
		method = zip.Store
	}
	a.order = append(a.order, p)
	a.entries[p] = &archiveEntry{
		header: zip.FileHeader{Name: p, Method: method},
		data:   data,
	}
	return nil
}

// Move renames an entry keeping its header fields and position.
func (a *Archive) Move(from, to string, data []byte) error {
	e, ok := a.entries[from]
	if !ok {
		return errors.Newf(errors.ErrContainerWrite, "no entry %s in %s", from, a.name).
			WithDetail("archive", a.name)
	}
	if _, taken := a.entries[to]; taken {
		return errors.Newf(errors.ErrWriteConflict, "entry %s already exists in %s", to, a.name).
			WithDetail("archive", a.name).
			WithDetail("path", to)
	}
	delete(a.entries, from)
	e.header.Name = to
	e.data = data
	a.entries[to] = e
	for i, name := range a.order {
		if name == from {
			a.order[i] = to
			break
		}
	}
	return nil
}

func (a *Archive) Remove(p string) error {
	if _, ok := a.entries[p]; !ok {
		return nil
	}
	delete(a.entries, p)
	for i, name := range a.order {
		if name == p {
			a.order = append(a.order[:i], a.order[i+1:]...)
			break
		}
	}
	return nil
}

func (a *Archive) Has(p string) bool {
	_, ok := a.entries[p]
	return ok
}

// Bytes writes the archive. META-INF/ and the manifest lead, as JAR
// readers expect; other entries keep their order.
func (a *Archive) Bytes() ([]byte, error) {
	order := append([]string(nil), a.order...)
	rank := func(name string) int {
		switch name {
		case "META-INF/":
			return 0
		case ManifestName:
			return 1
		}
		return 2
	}
	sort.SliceStable(order, func(i, j int) bool { return rank(order[i]) < rank(order[j]) })

	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	if a.comment != "" {
		if err := zw.SetComment(a.comment); err != nil {
			return nil, a.writeError(err, "")
		}
	}
	for _, name := range order {
		e := a.entries[name]
		header := e.header
		header.Name = name
		header.Extra = nil
		header.CompressedSize64 = 0
		header.UncompressedSize64 = 0
		header.CompressedSize = 0
		header.UncompressedSize = 0
		header.CRC32 = 0
		w, err := zw.CreateHeader(&header)
		if err != nil {
			return nil, a.writeError(err, name)
		}
		if _, err := w.Write(e.data); err != nil {
			return nil, a.writeError(err, name)
		}
	}
	if err := zw.Close(); err != nil {
		return nil, a.writeError(err, "")
	}
	return buf.Bytes(), nil
}

func (a *Archive) writeError(err error, p string) error {
	e := errors.Wrapf(err, errors.ErrContainerWrite, "cannot write archive %s", a.name).
		WithDetail("archive", a.name)
	if p != "" {
		e = e.WithDetail("path", p)
	}
	return e
}
