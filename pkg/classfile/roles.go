package classfile

import "fmt"

func (cf *ClassFile) mark(index uint16, role Role, what string) error {
	if index == 0 || int(index) >= len(cf.Pool) || cf.Pool[index].Tag != TagUtf8 {
		return fmt.Errorf("%s references entry %d, which is not a Utf8 entry", what, index)
	}
	if cf.roles[index] < role {
		cf.roles[index] = role
	}
	return nil
}

func (cf *ClassFile) assignPoolRoles() error {
	for i, c := range cf.Pool {
		var err error
		switch c.Tag {
		case TagClass:
			err = cf.mark(c.Ref1, RoleClassName, "class entry")
		case TagString:
			err = cf.mark(c.Ref1, RoleString, "string entry")
		case TagNameAndType:
			err = cf.mark(c.Ref2, RoleDescriptor, "name and type entry")
		case TagMethodType:
			err = cf.mark(c.Ref1, RoleDescriptor, "method type entry")
		case TagModule:
			err = cf.mark(c.Ref1, RoleModule, "module entry")
		case TagPackage:
			err = cf.mark(c.Ref1, RolePackage, "package entry")
		}
		if err != nil {
			return errorAt(i, "%v", err)
		}
	}
	return nil
}

// walkBody reads everything after the constant pool and marks the Utf8
// entries referenced from members and attributes.
func (cf *ClassFile) walkBody(r *reader) error {
	cf.AccessFlags = r.u2()
	cf.ThisClass = r.u2()
	cf.SuperClass = r.u2()
	interfaces := int(r.u2())
	r.skip(2 * interfaces)
	if r.err != nil {
		return r.err
	}
	if _, ok := cf.className(cf.ThisClass); !ok {
		return fmt.Errorf("this_class %d is not a class entry", cf.ThisClass)
	}

	for _, kind := range []string{"field", "method"} {
		count := int(r.u2())
		for i := 0; i < count && r.err == nil; i++ {
			r.skip(4) // access flags, name
			desc := r.u2()
			if r.err != nil {
				break
			}
			if err := cf.mark(desc, RoleDescriptor, kind+" descriptor"); err != nil {
				return err
			}
			if err := cf.walkAttributes(r); err != nil {
				return fmt.Errorf("%s %d: %w", kind, i, err)
			}
		}
		if r.err != nil {
			return r.err
		}
	}

	if err := cf.walkAttributes(r); err != nil {
		return err
	}
	if r.err != nil {
		return r.err
	}
	if r.remaining() != 0 {
		return fmt.Errorf("%d trailing bytes after class attributes", r.remaining())
	}
	return nil
}

func (cf *ClassFile) walkAttributes(r *reader) error {
	count := int(r.u2())
	for i := 0; i < count; i++ {
		nameIndex := r.u2()
		length := int(r.u4())
		body := r.bytes(length)
		if r.err != nil {
			return r.err
		}
		name, ok := cf.Utf8(nameIndex)
		if !ok {
			return fmt.Errorf("attribute %d: name index %d is not a Utf8 entry", i, nameIndex)
		}
		sub := newReader(body)
		if err := cf.walkAttribute(name, sub); err != nil {
			return fmt.Errorf("attribute %s: %w", name, err)
		}
		if sub.err != nil {
			return fmt.Errorf("attribute %s: %w", name, sub.err)
		}
	}
	return nil
}

func (cf *ClassFile) walkAttribute(name string, r *reader) error {
	switch name {
	case "Signature":
		return cf.mark(r.u2(), RoleSignature, "signature")

	case "Code":
		r.skip(4) // max_stack, max_locals
		r.skip(int(r.u4()))
		r.skip(8 * int(r.u2()))
		return cf.walkAttributes(r)

	case "LocalVariableTable", "LocalVariableTypeTable":
		role := RoleDescriptor
		if name == "LocalVariableTypeTable" {
			role = RoleSignature
		}
		count := int(r.u2())
		for i := 0; i < count && r.err == nil; i++ {
			r.skip(6) // start_pc, length, name
			desc := r.u2()
			r.skip(2)
			if r.err == nil {
				if err := cf.mark(desc, role, "local variable"); err != nil {
					return err
				}
			}
		}
		return nil

	case "RuntimeVisibleAnnotations", "RuntimeInvisibleAnnotations":
		return cf.walkAnnotations(r)

	case "RuntimeVisibleParameterAnnotations", "RuntimeInvisibleParameterAnnotations":
		params := int(r.u1())
		for i := 0; i < params && r.err == nil; i++ {
			if err := cf.walkAnnotations(r); err != nil {
				return err
			}
		}
		return nil

	case "RuntimeVisibleTypeAnnotations", "RuntimeInvisibleTypeAnnotations":
		count := int(r.u2())
		for i := 0; i < count && r.err == nil; i++ {
			if err := cf.walkTypeAnnotation(r); err != nil {
				return err
			}
		}
		return nil

	case "AnnotationDefault":
		return cf.walkElementValue(r)

	case "Record":
		count := int(r.u2())
		for i := 0; i < count && r.err == nil; i++ {
			r.skip(2) // name
			desc := r.u2()
			if r.err != nil {
				break
			}
			if err := cf.mark(desc, RoleDescriptor, "record component"); err != nil {
				return err
			}
			if err := cf.walkAttributes(r); err != nil {
				return err
			}
		}
		return nil
	}

	// Module, NestHost, NestMembers, PermittedSubclasses, InnerClasses,
	// EnclosingMethod and ModuleMainClass only reference Class, Module,
	// Package and NameAndType entries, which the pool pass has covered.
	return nil
}

func (cf *ClassFile) walkAnnotations(r *reader) error {
	count := int(r.u2())
	for i := 0; i < count && r.err == nil; i++ {
		if err := cf.walkAnnotation(r); err != nil {
			return err
		}
	}
	return nil
}

func (cf *ClassFile) walkAnnotation(r *reader) error {
	typeIndex := r.u2()
	if r.err != nil {
		return nil
	}
	if err := cf.mark(typeIndex, RoleDescriptor, "annotation type"); err != nil {
		return err
	}
	pairs := int(r.u2())
	for i := 0; i < pairs && r.err == nil; i++ {
		r.skip(2) // element name
		if err := cf.walkElementValue(r); err != nil {
			return err
		}
	}
	return nil
}

func (cf *ClassFile) walkElementValue(r *reader) error {
	tag := r.u1()
	if r.err != nil {
		return nil
	}
	switch tag {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		r.skip(2)
	case 's':
		index := r.u2()
		if r.err == nil {
			return cf.mark(index, RoleString, "annotation string")
		}
	case 'e':
		typeIndex := r.u2()
		r.skip(2)
		if r.err == nil {
			return cf.mark(typeIndex, RoleDescriptor, "enum type")
		}
	case 'c':
		index := r.u2()
		if r.err == nil {
			return cf.mark(index, RoleDescriptor, "class value")
		}
	case '@':
		return cf.walkAnnotation(r)
	case '[':
		count := int(r.u2())
		for i := 0; i < count && r.err == nil; i++ {
			if err := cf.walkElementValue(r); err != nil {
				return err
			}
		}
	default:
		return fmt.Errorf("unknown element value tag %q", tag)
	}
	return nil
}

func (cf *ClassFile) walkTypeAnnotation(r *reader) error {
	switch target := r.u1(); {
	case target == 0x00 || target == 0x01 || target == 0x16:
		r.skip(1)
	case target == 0x10 || target == 0x17 || target == 0x42 ||
		target >= 0x43 && target <= 0x46:
		r.skip(2)
	case target == 0x11 || target == 0x12:
		r.skip(2)
	case target >= 0x13 && target <= 0x15:
	case target == 0x40 || target == 0x41:
		r.skip(6 * int(r.u2()))
	case target >= 0x47 && target <= 0x4B:
		r.skip(3)
	default:
		if r.err == nil {
			return fmt.Errorf("unknown type annotation target 0x%02X", target)
		}
		return nil
	}
	r.skip(2 * int(r.u1())) // type_path
	return cf.walkAnnotation(r)
}
