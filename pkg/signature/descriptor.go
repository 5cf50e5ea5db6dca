package signature

import (
	"fmt"
	"strings"
)

// TransformSignature rewrites the class names of a JVM field or method
// descriptor, or of a generic signature (class, method or field), and
// returns the new text with the number of renamed class names.
//
// Only the outer binary name of each class type is renamed; inner class
// suffixes after '.' and type variable names are simple names and stay as
// they are. An unparsable input is returned unchanged with an error.
func (m *Matcher) TransformSignature(sig string) (string, int, error) {
	if m.Empty() || sig == "" {
		return sig, 0, nil
	}
	p := &sigParser{m: m, s: sig}
	p.out.Grow(len(sig) + 8)
	if err := p.parse(); err != nil {
		return sig, 0, err
	}
	if p.changes == 0 {
		return sig, 0, nil
	}
	return p.out.String(), p.changes, nil
}

// IsDescriptorLike reports whether s has the shape of a descriptor or
// signature worth parsing, as opposed to free text.
func IsDescriptorLike(s string) bool {
	if len(s) < 3 {
		return false
	}
	switch s[0] {
	case '(', '<', '[':
		return true
	case 'L':
		return s[len(s)-1] == ';' && strings.IndexByte(s, '/') > 0 && strings.IndexByte(s, ' ') < 0
	}
	return false
}

type sigParser struct {
	m       *Matcher
	s       string
	i       int
	out     strings.Builder
	changes int
}

func (p *sigParser) errorf(format string, args ...interface{}) error {
	return fmt.Errorf("signature %q at %d: %s", p.s, p.i, fmt.Sprintf(format, args...))
}

func (p *sigParser) peek() byte {
	if p.i >= len(p.s) {
		return 0
	}
	return p.s[p.i]
}

func (p *sigParser) expect(c byte) error {
	if p.peek() != c {
		return p.errorf("expected %q", c)
	}
	p.out.WriteByte(c)
	p.i++
	return nil
}

func (p *sigParser) parse() error {
	if p.peek() == '<' {
		if err := p.typeParams(); err != nil {
			return err
		}
	}
	if p.peek() == '(' {
		return p.method()
	}
	if p.i >= len(p.s) {
		return p.errorf("empty type")
	}
	// A lone V is the class literal void.class in annotation values.
	if p.i == 0 && p.s == "V" {
		p.out.WriteByte('V')
		p.i++
		return nil
	}
	for p.i < len(p.s) {
		if err := p.javaType(false); err != nil {
			return err
		}
	}
	return nil
}

func (p *sigParser) method() error {
	if err := p.expect('('); err != nil {
		return err
	}
	for p.peek() != ')' {
		if p.i >= len(p.s) {
			return p.errorf("unterminated parameter list")
		}
		if err := p.javaType(false); err != nil {
			return err
		}
	}
	p.out.WriteByte(')')
	p.i++
	if err := p.javaType(true); err != nil {
		return err
	}
	for p.peek() == '^' {
		p.out.WriteByte('^')
		p.i++
		if err := p.refType(); err != nil {
			return err
		}
	}
	if p.i != len(p.s) {
		return p.errorf("trailing characters")
	}
	return nil
}

func (p *sigParser) typeParams() error {
	if err := p.expect('<'); err != nil {
		return err
	}
	for p.peek() != '>' {
		start := p.i
		for p.i < len(p.s) && p.s[p.i] != ':' {
			p.i++
		}
		if p.i == start || p.i >= len(p.s) {
			return p.errorf("bad type parameter")
		}
		p.out.WriteString(p.s[start:p.i])
		// class bound, possibly empty
		p.out.WriteByte(':')
		p.i++
		if c := p.peek(); c != ':' && c != '>' {
			if err := p.refType(); err != nil {
				return err
			}
		}
		// interface bounds
		for p.peek() == ':' {
			p.out.WriteByte(':')
			p.i++
			if err := p.refType(); err != nil {
				return err
			}
		}
		if p.i >= len(p.s) {
			return p.errorf("unterminated type parameters")
		}
	}
	p.out.WriteByte('>')
	p.i++
	return nil
}

func (p *sigParser) javaType(allowVoid bool) error {
	switch c := p.peek(); c {
	case 'B', 'C', 'D', 'F', 'I', 'J', 'S', 'Z':
		p.out.WriteByte(c)
		p.i++
		return nil
	case 'V':
		if !allowVoid {
			return p.errorf("void not allowed here")
		}
		p.out.WriteByte(c)
		p.i++
		return nil
	default:
		return p.refType()
	}
}

func (p *sigParser) refType() error {
	switch p.peek() {
	case 'L':
		return p.classType()
	case 'T':
		end := strings.IndexByte(p.s[p.i:], ';')
		if end < 0 {
			return p.errorf("unterminated type variable")
		}
		p.out.WriteString(p.s[p.i : p.i+end+1])
		p.i += end + 1
		return nil
	case '[':
		p.out.WriteByte('[')
		p.i++
		return p.javaType(false)
	default:
		return p.errorf("unexpected character")
	}
}

func (p *sigParser) classType() error {
	p.out.WriteByte('L')
	p.i++

	name := p.name()
	if name == "" {
		return p.errorf("empty class name")
	}
	if renamed, ok := p.m.RenameBinaryType(name); ok {
		p.out.WriteString(renamed)
		p.changes++
	} else {
		p.out.WriteString(name)
	}

	for {
		switch p.peek() {
		case '<':
			if err := p.typeArgs(); err != nil {
				return err
			}
		case '.':
			p.out.WriteByte('.')
			p.i++
			inner := p.name()
			if inner == "" {
				return p.errorf("empty inner class name")
			}
			p.out.WriteString(inner)
		case ';':
			p.out.WriteByte(';')
			p.i++
			return nil
		default:
			return p.errorf("unterminated class type")
		}
	}
}

func (p *sigParser) name() string {
	start := p.i
	for p.i < len(p.s) {
		switch p.s[p.i] {
		case ';', '<', '.', '>', ':':
			return p.s[start:p.i]
		}
		p.i++
	}
	return p.s[start:p.i]
}

func (p *sigParser) typeArgs() error {
	if err := p.expect('<'); err != nil {
		return err
	}
	for p.peek() != '>' {
		switch c := p.peek(); c {
		case 0:
			return p.errorf("unterminated type arguments")
		case '*':
			p.out.WriteByte(c)
			p.i++
		case '+', '-':
			p.out.WriteByte(c)
			p.i++
			if err := p.refType(); err != nil {
				return err
			}
		default:
			if err := p.refType(); err != nil {
				return err
			}
		}
	}
	p.out.WriteByte('>')
	p.i++
	return nil
}
