package testutil

import (
	"bytes"
	"encoding/binary"

	"github.com/arthur-debert/jrename/pkg/classfile"
)

// ClassBytes returns a class file named name (binary form, a/b/C) with
// the given super class and one String constant per value. The class has
// no members and no attributes.
func ClassBytes(name, super string, constants ...string) []byte {
	var pool bytes.Buffer
	next := uint16(1)
	u2 := func(v uint16) { _ = binary.Write(&pool, binary.BigEndian, v) }
	utf8 := func(s string) uint16 {
		pool.WriteByte(classfile.TagUtf8)
		u2(uint16(len(s)))
		pool.WriteString(s)
		next++
		return next - 1
	}
	ref := func(tag uint8, idx uint16) uint16 {
		pool.WriteByte(tag)
		u2(idx)
		next++
		return next - 1
	}

	this := ref(classfile.TagClass, utf8(name))
	superIdx := ref(classfile.TagClass, utf8(super))
	for _, s := range constants {
		ref(classfile.TagString, utf8(s))
	}

	var out bytes.Buffer
	w := func(v interface{}) { _ = binary.Write(&out, binary.BigEndian, v) }
	w(uint32(classfile.Magic))
	w(uint16(0))  // minor
	w(uint16(52)) // major, Java 8
	w(next)
	out.Write(pool.Bytes())
	w(uint16(0x0021)) // public super
	w(this)
	w(superIdx)
	w(uint16(0)) // interfaces
	w(uint16(0)) // fields
	w(uint16(0)) // methods
	w(uint16(0)) // attributes
	return out.Bytes()
}
