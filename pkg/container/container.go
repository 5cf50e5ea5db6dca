// Package container abstracts the archives and directories a run reads
// entries from and writes entries to.
package container

import (
	"path"
	"strings"
)

// ManifestName is the path of the JAR manifest inside a container.
const ManifestName = "META-INF/MANIFEST.MF"

// Container is a set of named entries. Paths use '/' separators and are
// relative to the container root; directory entries end in '/'.
type Container interface {
	// Name identifies the container in reports, usually its path.
	Name() string
	// Paths returns a snapshot of the entry paths.
	Paths() ([]string, error)
	Read(path string) ([]byte, error)
	// Put creates or replaces an entry.
	Put(path string, data []byte) error
	Remove(path string) error
	Has(path string) bool
}

// ManifestProvider is implemented by containers that compute their
// manifest instead of storing it as an entry.
type ManifestProvider interface {
	Manifest() ([]byte, bool)
}

// Kind is the archive type of a path, taken from its extension.
type Kind string

const (
	KindNone Kind = ""
	KindJar  Kind = "jar"
	KindWar  Kind = "war"
	KindEar  Kind = "ear"
	KindRar  Kind = "rar"
	KindZip  Kind = "zip"
	KindDir  Kind = "dir"
)

// ArchiveKind returns the archive kind of a path, or KindNone.
func ArchiveKind(p string) Kind {
	switch strings.ToLower(path.Ext(p)) {
	case ".jar":
		return KindJar
	case ".war":
		return KindWar
	case ".ear":
		return KindEar
	case ".rar":
		return KindRar
	case ".zip":
		return KindZip
	}
	return KindNone
}

// IsArchive reports whether a path names a nested archive.
func IsArchive(p string) bool {
	return !IsDir(p) && ArchiveKind(p) != KindNone
}

// IsDir reports whether a path is a directory entry.
func IsDir(p string) bool {
	return strings.HasSuffix(p, "/")
}

// defaultNesting lists which archive kinds are opened inside which.
var defaultNesting = map[Kind][]Kind{
	KindEar: {KindWar, KindJar, KindRar},
	KindWar: {KindJar},
	KindRar: {KindJar},
}

// NestingAllowed reports whether an archive of kind child found inside a
// container of kind parent is transformed. Directories and zip files may
// hold any archive; widen allows any archive everywhere.
func NestingAllowed(parent, child Kind, widen bool) bool {
	if child == KindNone {
		return false
	}
	if widen || parent == KindDir || parent == KindZip {
		return true
	}
	for _, k := range defaultNesting[parent] {
		if k == child {
			return true
		}
	}
	return false
}
