package classfile

import (
	"bytes"
	"encoding/binary"
)

// classBuilder assembles class files for tests. Pool entries may be added
// while members and attributes are built; the pool is serialized last.
type classBuilder struct {
	pool  bytes.Buffer
	next  int
	utf8s map[string]uint16
}

func newClassBuilder() *classBuilder {
	return &classBuilder{next: 1, utf8s: make(map[string]uint16)}
}

func u2(v uint16) []byte {
	return binary.BigEndian.AppendUint16(nil, v)
}

func u4(v uint32) []byte {
	return binary.BigEndian.AppendUint32(nil, v)
}

func (b *classBuilder) utf8(s string) uint16 {
	if idx, ok := b.utf8s[s]; ok {
		return idx
	}
	idx := uint16(b.next)
	b.pool.WriteByte(TagUtf8)
	b.pool.Write(u2(uint16(len(s))))
	b.pool.WriteString(s)
	b.next++
	b.utf8s[s] = idx
	return idx
}

// rawUtf8 adds a Utf8 entry that is never shared.
func (b *classBuilder) rawUtf8(s string) uint16 {
	idx := uint16(b.next)
	b.pool.WriteByte(TagUtf8)
	b.pool.Write(u2(uint16(len(s))))
	b.pool.WriteString(s)
	b.next++
	return idx
}

func (b *classBuilder) ref(tag uint8, refs ...uint16) uint16 {
	idx := uint16(b.next)
	b.pool.WriteByte(tag)
	for _, r := range refs {
		b.pool.Write(u2(r))
	}
	b.next++
	return idx
}

func (b *classBuilder) class(name string) uint16 {
	return b.ref(TagClass, b.utf8(name))
}

func (b *classBuilder) str(s string) uint16 {
	return b.ref(TagString, b.utf8(s))
}

func (b *classBuilder) long(v uint64) uint16 {
	idx := uint16(b.next)
	b.pool.WriteByte(TagLong)
	b.pool.Write(binary.BigEndian.AppendUint64(nil, v))
	b.next += 2
	return idx
}

func (b *classBuilder) integer(v uint32) uint16 {
	idx := uint16(b.next)
	b.pool.WriteByte(TagInteger)
	b.pool.Write(u4(v))
	b.next++
	return idx
}

func (b *classBuilder) methodHandle(kind uint8, ref uint16) uint16 {
	idx := uint16(b.next)
	b.pool.WriteByte(TagMethodHandle)
	b.pool.WriteByte(kind)
	b.pool.Write(u2(ref))
	b.next++
	return idx
}

func (b *classBuilder) attribute(name string, body ...[]byte) []byte {
	content := bytes.Join(body, nil)
	out := append(u2(b.utf8(name)), u4(uint32(len(content)))...)
	return append(out, content...)
}

func (b *classBuilder) member(name, desc string, attrs ...[]byte) []byte {
	out := u2(0x0001)
	out = append(out, u2(b.utf8(name))...)
	out = append(out, u2(b.utf8(desc))...)
	out = append(out, u2(uint16(len(attrs)))...)
	for _, a := range attrs {
		out = append(out, a...)
	}
	return out
}

type classDef struct {
	this, super uint16
	interfaces  []uint16
	fields      [][]byte
	methods     [][]byte
	attributes  [][]byte
}

func (b *classBuilder) build(def classDef) []byte {
	var out bytes.Buffer
	out.Write(u4(Magic))
	out.Write(u2(0))
	out.Write(u2(61))
	out.Write(u2(uint16(b.next)))
	out.Write(b.pool.Bytes())
	out.Write(u2(0x0021))
	out.Write(u2(def.this))
	out.Write(u2(def.super))
	out.Write(u2(uint16(len(def.interfaces))))
	for _, i := range def.interfaces {
		out.Write(u2(i))
	}
	for _, group := range [][][]byte{def.fields, def.methods} {
		out.Write(u2(uint16(len(group))))
		for _, m := range group {
			out.Write(m)
		}
	}
	out.Write(u2(uint16(len(def.attributes))))
	for _, a := range def.attributes {
		out.Write(a)
	}
	return out.Bytes()
}
