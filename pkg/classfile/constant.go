package classfile

import "fmt"

// Constant pool tags.
const (
	TagUtf8               uint8 = 1
	TagInteger            uint8 = 3
	TagFloat              uint8 = 4
	TagLong               uint8 = 5
	TagDouble             uint8 = 6
	TagClass              uint8 = 7
	TagString             uint8 = 8
	TagFieldref           uint8 = 9
	TagMethodref          uint8 = 10
	TagInterfaceMethodref uint8 = 11
	TagNameAndType        uint8 = 12
	TagMethodHandle       uint8 = 15
	TagMethodType         uint8 = 16
	TagDynamic            uint8 = 17
	TagInvokeDynamic      uint8 = 18
	TagModule             uint8 = 19
	TagPackage            uint8 = 20
)

// Constant is one constant pool entry. Slot 0 and the slot following a
// Long or Double are zero Constants.
type Constant struct {
	Tag uint8
	// Raw holds the entry bytes including the tag.
	Raw []byte
	// Value is the content of a Utf8 entry.
	Value string
	// Ref1 and Ref2 are the pool indices an entry refers to, in file order.
	Ref1, Ref2 uint16
}

// Role tells how a Utf8 entry is used and therefore how it is renamed.
// Higher roles win when an entry has several uses.
type Role uint8

const (
	RoleNone Role = iota
	RoleModule
	RoleString
	RoleSignature
	RoleDescriptor
	RolePackage
	RoleClassName
)

func (r Role) String() string {
	switch r {
	case RoleModule:
		return "module"
	case RoleString:
		return "string"
	case RoleSignature:
		return "signature"
	case RoleDescriptor:
		return "descriptor"
	case RolePackage:
		return "package"
	case RoleClassName:
		return "class"
	default:
		return "none"
	}
}

// entrySize returns the byte size of a constant after its tag.
func entrySize(tag uint8) (int, bool) {
	switch tag {
	case TagClass, TagString, TagMethodType, TagModule, TagPackage:
		return 2, true
	case TagMethodHandle:
		return 3, true
	case TagInteger, TagFloat, TagFieldref, TagMethodref, TagInterfaceMethodref,
		TagNameAndType, TagDynamic, TagInvokeDynamic:
		return 4, true
	case TagLong, TagDouble:
		return 8, true
	}
	return 0, false
}

func parsePool(r *reader, count int) ([]Constant, error) {
	pool := make([]Constant, count)
	for i := 1; i < count; i++ {
		start := r.pos
		tag := r.u1()
		if r.err != nil {
			return nil, r.err
		}

		c := Constant{Tag: tag}
		switch tag {
		case TagUtf8:
			n := int(r.u2())
			c.Value = string(r.bytes(n))
		case TagMethodHandle:
			r.skip(1)
			c.Ref1 = r.u2()
		default:
			size, ok := entrySize(tag)
			if !ok {
				return nil, errorAt(i, "unknown constant tag %d", tag)
			}
			switch size {
			case 2:
				c.Ref1 = r.u2()
			case 4:
				if tag == TagInteger || tag == TagFloat {
					r.skip(4)
				} else {
					c.Ref1 = r.u2()
					c.Ref2 = r.u2()
				}
			default:
				r.skip(size)
			}
		}
		if r.err != nil {
			return nil, errorAt(i, "%v", r.err)
		}
		c.Raw = r.data[start:r.pos]
		pool[i] = c

		if tag == TagLong || tag == TagDouble {
			i++
		}
	}
	return pool, nil
}

func errorAt(index int, format string, args ...interface{}) error {
	return &poolError{index: index, msg: fmt.Sprintf(format, args...)}
}
