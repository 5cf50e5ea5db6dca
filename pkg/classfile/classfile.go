package classfile

import (
	"fmt"

	"github.com/arthur-debert/jrename/pkg/errors"
)

// Magic is the first four bytes of every class file.
const Magic uint32 = 0xCAFEBABE

// ClassFile is a parsed class file.
type ClassFile struct {
	Minor, Major uint16
	Pool         []Constant
	AccessFlags  uint16
	ThisClass    uint16
	SuperClass   uint16

	data    []byte
	poolEnd int
	roles   []Role
}

type poolError struct {
	index int
	msg   string
}

func (e *poolError) Error() string {
	return fmt.Sprintf("constant pool entry %d: %s", e.index, e.msg)
}

// Parse reads a class file and assigns roles to its Utf8 entries. The
// returned ClassFile keeps a reference to data.
func Parse(data []byte) (*ClassFile, error) {
	r := newReader(data)
	if magic := r.u4(); r.err == nil && magic != Magic {
		return nil, errors.Newf(errors.ErrClassParse, "bad magic 0x%08X", magic)
	}
	cf := &ClassFile{}
	cf.Minor = r.u2()
	cf.Major = r.u2()
	count := int(r.u2())
	if r.err != nil {
		return nil, errors.Wrap(r.err, errors.ErrClassParse, "truncated class header")
	}
	if count == 0 {
		return nil, errors.New(errors.ErrClassParse, "empty constant pool")
	}

	pool, err := parsePool(r, count)
	if err != nil {
		return nil, parseError(err)
	}
	cf.Pool = pool
	cf.poolEnd = r.pos
	cf.data = data
	cf.roles = make([]Role, count)

	if err := cf.assignPoolRoles(); err != nil {
		return nil, parseError(err)
	}
	if err := cf.walkBody(r); err != nil {
		return nil, parseError(err)
	}
	return cf, nil
}

func parseError(err error) error {
	e := errors.Wrap(err, errors.ErrClassParse, "malformed class file")
	if pe, ok := err.(*poolError); ok {
		e = e.WithDetail("entry", pe.index)
	}
	return e
}

// ClassName returns the binary name of the class (a/b/C).
func (cf *ClassFile) ClassName() string {
	name, _ := cf.className(cf.ThisClass)
	return name
}

// SuperClassName returns the binary name of the super class, empty for
// java/lang/Object and module-info.
func (cf *ClassFile) SuperClassName() string {
	name, _ := cf.className(cf.SuperClass)
	return name
}

// Role returns the role of a Utf8 entry.
func (cf *ClassFile) Role(index int) Role {
	if index <= 0 || index >= len(cf.roles) {
		return RoleNone
	}
	return cf.roles[index]
}

// Utf8 returns the value of a Utf8 entry.
func (cf *ClassFile) Utf8(index uint16) (string, bool) {
	if int(index) >= len(cf.Pool) || cf.Pool[index].Tag != TagUtf8 {
		return "", false
	}
	return cf.Pool[index].Value, true
}

func (cf *ClassFile) className(index uint16) (string, bool) {
	if int(index) >= len(cf.Pool) || cf.Pool[index].Tag != TagClass {
		return "", false
	}
	return cf.Utf8(cf.Pool[index].Ref1)
}

// ClassName parses just enough of data to return its binary class name.
func ClassName(data []byte) (string, error) {
	cf, err := Parse(data)
	if err != nil {
		return "", err
	}
	return cf.ClassName(), nil
}
