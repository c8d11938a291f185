// Package gvariant decodes the GVariant serialisation format.
//
// Decoding is lazy and zero-copy: a Value is an (offset, size, type) view into
// a caller-owned buffer, and children are located on access using the
// format's alignment and framing-offset rules. The buffer must not be
// modified while any Value derived from it is in use.
package gvariant

import (
	"fmt"
	"strings"
)

// Kind is the leading character of a type string.
type Kind byte

const (
	KindBool       Kind = 'b'
	KindByte       Kind = 'y'
	KindInt16      Kind = 'n'
	KindUint16     Kind = 'q'
	KindInt32      Kind = 'i'
	KindUint32     Kind = 'u'
	KindInt64      Kind = 'x'
	KindUint64     Kind = 't'
	KindHandle     Kind = 'h'
	KindDouble     Kind = 'd'
	KindString     Kind = 's'
	KindObjectPath Kind = 'o'
	KindSignature  Kind = 'g'
	KindVariant    Kind = 'v'
	KindArray      Kind = 'a'
	KindMaybe      Kind = 'm'
	KindTuple      Kind = '('
	KindDictEntry  Kind = '{'
)

// Type is an immutable, parsed GVariant type.
type Type struct {
	kind      Kind
	elem      *Type   // array, maybe
	fields    []*Type // tuple, dict entry
	str       string
	align     int
	fixedSize int // 0 means variable size
	depth     int
}

// MaxDepth is the deepest nesting of containers accepted in a type string
// or in a value, counting variant contents.
const MaxDepth = 128

// Commonly used types.
var (
	TypeBool       = basicType(KindBool)
	TypeByte       = basicType(KindByte)
	TypeInt16      = basicType(KindInt16)
	TypeUint16     = basicType(KindUint16)
	TypeInt32      = basicType(KindInt32)
	TypeUint32     = basicType(KindUint32)
	TypeInt64      = basicType(KindInt64)
	TypeUint64     = basicType(KindUint64)
	TypeHandle     = basicType(KindHandle)
	TypeDouble     = basicType(KindDouble)
	TypeString     = basicType(KindString)
	TypeObjectPath = basicType(KindObjectPath)
	TypeSignature  = basicType(KindSignature)
	TypeVariant    = basicType(KindVariant)
	TypeBytes      = ArrayOf(TypeByte)
	TypeVarDict    = ArrayOf(DictEntryOf(TypeString, TypeVariant))
	TypeUnit       = TupleOf()
)

func basicType(k Kind) *Type {
	t := &Type{kind: k, str: string(rune(k)), depth: 1}
	switch k {
	case KindBool, KindByte:
		t.align, t.fixedSize = 1, 1
	case KindInt16, KindUint16:
		t.align, t.fixedSize = 2, 2
	case KindInt32, KindUint32, KindHandle:
		t.align, t.fixedSize = 4, 4
	case KindInt64, KindUint64, KindDouble:
		t.align, t.fixedSize = 8, 8
	case KindString, KindObjectPath, KindSignature:
		t.align = 1
	case KindVariant:
		t.align = 8
	default:
		panic(fmt.Sprintf("gvariant: %q is not a basic type", rune(k)))
	}
	return t
}

// ArrayOf returns the type of arrays of elem.
func ArrayOf(elem *Type) *Type {
	return &Type{kind: KindArray, elem: elem, str: "a" + elem.str, align: elem.align, depth: elem.depth + 1}
}

// MaybeOf returns the type of maybes of elem.
func MaybeOf(elem *Type) *Type {
	return &Type{kind: KindMaybe, elem: elem, str: "m" + elem.str, align: elem.align, depth: elem.depth + 1}
}

// TupleOf returns the tuple type with the given members.
func TupleOf(fields ...*Type) *Type {
	return containerOf(KindTuple, "(", ")", fields)
}

// DictEntryOf returns the dict entry type {key value}. The key must be a basic type.
func DictEntryOf(key, value *Type) *Type {
	if !key.IsBasic() {
		panic(fmt.Sprintf("gvariant: dict entry key %s is not a basic type", key))
	}
	return containerOf(KindDictEntry, "{", "}", []*Type{key, value})
}

func containerOf(k Kind, open, close string, fields []*Type) *Type {
	var sb strings.Builder
	sb.WriteString(open)
	t := &Type{kind: k, fields: fields, align: 1, depth: 1}
	fixed := true
	off := 0
	for _, f := range fields {
		sb.WriteString(f.str)
		if f.align > t.align {
			t.align = f.align
		}
		if f.depth+1 > t.depth {
			t.depth = f.depth + 1
		}
		if f.fixedSize == 0 {
			fixed = false
			continue
		}
		off = alignUp(off, f.align) + f.fixedSize
	}
	sb.WriteString(close)
	t.str = sb.String()
	if fixed {
		off = alignUp(off, t.align)
		if off == 0 {
			off = 1
		}
		t.fixedSize = off
	}
	return t
}

// ParseType parses a single complete type string such as "a{sv}".
func ParseType(s string) (*Type, error) {
	t, rest, err := parseType(s, 1)
	if err != nil {
		return nil, fmt.Errorf("invalid type string %q: %w", s, err)
	}
	if rest != "" {
		return nil, fmt.Errorf("invalid type string %q: trailing %q", s, rest)
	}
	return t, nil
}

// MustParseType is like ParseType but panics on error.
func MustParseType(s string) *Type {
	t, err := ParseType(s)
	if err != nil {
		panic(err)
	}
	return t
}

func parseType(s string, depth int) (*Type, string, error) {
	if s == "" {
		return nil, "", fmt.Errorf("unexpected end of type string")
	}
	if depth > MaxDepth {
		return nil, "", fmt.Errorf("nesting deeper than %d", MaxDepth)
	}
	switch k := Kind(s[0]); k {
	case KindBool, KindByte, KindInt16, KindUint16, KindInt32, KindUint32,
		KindInt64, KindUint64, KindHandle, KindDouble,
		KindString, KindObjectPath, KindSignature, KindVariant:
		return basicType(k), s[1:], nil
	case KindArray, KindMaybe:
		elem, rest, err := parseType(s[1:], depth+1)
		if err != nil {
			return nil, "", err
		}
		if k == KindArray {
			return ArrayOf(elem), rest, nil
		}
		return MaybeOf(elem), rest, nil
	case KindTuple:
		var fields []*Type
		rest := s[1:]
		for {
			if rest == "" {
				return nil, "", fmt.Errorf("unterminated tuple")
			}
			if rest[0] == ')' {
				return TupleOf(fields...), rest[1:], nil
			}
			f, r, err := parseType(rest, depth+1)
			if err != nil {
				return nil, "", err
			}
			fields = append(fields, f)
			rest = r
		}
	case KindDictEntry:
		key, rest, err := parseType(s[1:], depth+1)
		if err != nil {
			return nil, "", err
		}
		if !key.IsBasic() {
			return nil, "", fmt.Errorf("dict entry key %s is not a basic type", key)
		}
		val, rest, err := parseType(rest, depth+1)
		if err != nil {
			return nil, "", err
		}
		if rest == "" || rest[0] != '}' {
			return nil, "", fmt.Errorf("dict entry must have exactly two members")
		}
		return DictEntryOf(key, val), rest[1:], nil
	default:
		return nil, "", fmt.Errorf("unexpected character %q", s[0])
	}
}

// Kind returns the kind of t.
func (t *Type) Kind() Kind { return t.kind }

// Depth returns the container nesting of t. Basic types have depth 1.
func (t *Type) Depth() int { return t.depth }

// String returns the type string.
func (t *Type) String() string {
	if t == nil {
		return "<invalid>"
	}
	return t.str
}

// Elem returns the element type of an array or maybe type.
func (t *Type) Elem() *Type { return t.elem }

// Fields returns the member types of a tuple or dict entry type.
func (t *Type) Fields() []*Type { return t.fields }

// Alignment returns the alignment of serialised values of this type.
func (t *Type) Alignment() int { return t.align }

// FixedSize returns the serialised size of fixed-size types, and 0 otherwise.
func (t *Type) FixedSize() int { return t.fixedSize }

// IsFixedSize reports whether all values of t serialise to the same size.
func (t *Type) IsFixedSize() bool { return t.fixedSize > 0 }

// IsBasic reports whether t may be used as a dict entry key.
func (t *Type) IsBasic() bool {
	switch t.kind {
	case KindVariant, KindArray, KindMaybe, KindTuple, KindDictEntry:
		return false
	}
	return true
}

// IsStringLike reports whether t is one of s, o or g.
func (t *Type) IsStringLike() bool {
	return t.kind == KindString || t.kind == KindObjectPath || t.kind == KindSignature
}

// IsDict reports whether t is an array of dict entries.
func (t *Type) IsDict() bool {
	return t.kind == KindArray && t.elem.kind == KindDictEntry
}

// Equal reports whether t and other describe the same type.
func (t *Type) Equal(other *Type) bool {
	if t == nil || other == nil {
		return t == other
	}
	return t.str == other.str
}

func alignUp(off, align int) int {
	return (off + align - 1) &^ (align - 1)
}
