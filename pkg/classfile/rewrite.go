package classfile

import (
	"bytes"
	"encoding/binary"

	"github.com/arthur-debert/jrename/pkg/errors"
)

// MaxUtf8Length is the largest encodable Utf8 constant.
const MaxUtf8Length = 0xFFFF

// Transformer renames the values of Utf8 entries by role. Each method
// returns the new value and whether it differs.
type Transformer interface {
	// ClassName receives a binary name (a/b/C) or an array descriptor.
	ClassName(name string) (string, bool)
	// Package receives a slashed package name (a/b).
	Package(name string) (string, bool)
	// Module receives a dotted module name (a.b).
	Module(name string) (string, bool)
	Descriptor(desc string) (string, bool)
	Signature(sig string) (string, bool)
	String(value string) (string, bool)
}

// Result summarizes a rewrite.
type Result struct {
	ClassName    string
	NewClassName string
	// Changes counts rewritten Utf8 entries.
	Changes int
	ByRole  map[Role]int
}

// Renamed reports whether the class itself was renamed.
func (r Result) Renamed() bool {
	return r.NewClassName != r.ClassName
}

// Rewrite parses data and rewrites it with t. See ClassFile.Rewrite.
func Rewrite(data []byte, t Transformer) ([]byte, Result, error) {
	cf, err := Parse(data)
	if err != nil {
		return data, Result{}, err
	}
	return cf.Rewrite(t)
}

// Rewrite transforms every Utf8 entry with a role and re-encodes the
// constant pool. When nothing changes the original bytes are returned.
func (cf *ClassFile) Rewrite(t Transformer) ([]byte, Result, error) {
	res := Result{
		ClassName: cf.ClassName(),
		ByRole:    make(map[Role]int),
	}
	res.NewClassName = res.ClassName

	updated := make(map[int]string)
	for i, c := range cf.Pool {
		if c.Tag != TagUtf8 {
			continue
		}
		role := cf.roles[i]
		value, changed := transformRole(t, role, c.Value)
		if !changed || value == c.Value {
			continue
		}
		if len(value) > MaxUtf8Length {
			return cf.data, Result{}, errors.Newf(errors.ErrClassWrite,
				"constant pool entry %d grows to %d bytes", i, len(value)).
				WithDetail("entry", i).
				WithDetail("class", res.ClassName)
		}
		updated[i] = value
		res.ByRole[role]++
	}
	res.Changes = len(updated)
	if res.Changes == 0 {
		return cf.data, res, nil
	}

	if this := cf.Pool[cf.ThisClass].Ref1; updated[int(this)] != "" {
		res.NewClassName = updated[int(this)]
	}
	return cf.encode(updated), res, nil
}

func transformRole(t Transformer, role Role, value string) (string, bool) {
	switch role {
	case RoleClassName:
		return t.ClassName(value)
	case RolePackage:
		return t.Package(value)
	case RoleModule:
		return t.Module(value)
	case RoleDescriptor:
		return t.Descriptor(value)
	case RoleSignature:
		return t.Signature(value)
	case RoleString:
		return t.String(value)
	}
	return value, false
}

func (cf *ClassFile) encode(updated map[int]string) []byte {
	var buf bytes.Buffer
	buf.Grow(len(cf.data) + 64*len(updated))
	buf.Write(cf.data[:10]) // magic, version, pool count

	var length [2]byte
	for i := 1; i < len(cf.Pool); i++ {
		c := cf.Pool[i]
		if c.Tag == 0 {
			continue
		}
		value, ok := updated[i]
		if !ok {
			buf.Write(c.Raw)
			continue
		}
		buf.WriteByte(TagUtf8)
		binary.BigEndian.PutUint16(length[:], uint16(len(value)))
		buf.Write(length[:])
		buf.WriteString(value)
	}

	buf.Write(cf.data[cf.poolEnd:])
	return buf.Bytes()
}
