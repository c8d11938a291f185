package gvariant

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf8"
)

// Value is a read-only view of a serialised value inside a shared buffer.
// The zero Value is invalid.
type Value struct {
	buf   []byte
	off   int
	size  int
	typ   *Type
	order binary.ByteOrder
	depth int // containers enclosing this value
}

// Parse wraps buf as a little-endian serialised value of type t.
//
// The container framing of the root value is checked immediately; children
// are checked as they are accessed. For fixed-size types, bytes beyond the
// type's size are ignored.
func Parse(buf []byte, t *Type) (Value, error) {
	return ParseOrder(buf, t, binary.LittleEndian)
}

// ParseOrder is like Parse but decodes scalars in the given byte order.
// Framing offsets are always little-endian.
func ParseOrder(buf []byte, t *Type, order binary.ByteOrder) (Value, error) {
	size := len(buf)
	if fs := t.fixedSize; fs > 0 {
		if size < fs {
			return Value{}, formatErrf(t, 0, "need %d bytes, have %d", fs, size)
		}
		size = fs
	}
	return newValue(buf, 0, size, t, order, 0)
}

func newValue(buf []byte, off, size int, t *Type, order binary.ByteOrder, depth int) (Value, error) {
	v := Value{buf: buf, off: off, size: size, typ: t, order: order, depth: depth}
	if err := v.checkFrame(); err != nil {
		return Value{}, err
	}
	return v, nil
}

// IsValid reports whether v refers to a value.
func (v Value) IsValid() bool { return v.typ != nil }

// Type returns the type of v.
func (v Value) Type() *Type { return v.typ }

// Size returns the serialised size of v in bytes.
func (v Value) Size() int { return v.size }

// Offset returns the position of v within the buffer it was parsed from.
func (v Value) Offset() int { return v.off }

// ByteOrder returns the byte order used for scalars.
func (v Value) ByteOrder() binary.ByteOrder { return v.order }

// Raw returns the serialised bytes of v. The slice aliases the parsed buffer.
func (v Value) Raw() []byte {
	if v.typ == nil {
		return nil
	}
	return v.buf[v.off : v.off+v.size : v.off+v.size]
}

func (v Value) sub(start, end int, t *Type) (Value, error) {
	return newValue(v.buf, v.off+start, end-start, t, v.order, v.depth+1)
}

func (v Value) checkFrame() error {
	switch v.typ.kind {
	case KindArray:
		if v.typ.elem.fixedSize > 0 {
			if v.size%v.typ.elem.fixedSize != 0 {
				return formatErrf(v.typ, v.off, "size %d is not a multiple of element size %d", v.size, v.typ.elem.fixedSize)
			}
			return nil
		}
		return v.checkOffsetTable()
	case KindTuple, KindDictEntry:
		if v.typ.fixedSize > 0 {
			return nil
		}
		_, err := v.member(len(v.typ.fields) - 1)
		return err
	case KindVariant:
		_, _, err := v.variantLayout()
		return err
	case KindMaybe:
		_, _, err := v.maybeLayout()
		return err
	}
	return nil
}

func offsetSize(size int) int {
	switch {
	case size > math.MaxUint32:
		return 8
	case size > math.MaxUint16:
		return 4
	case size > math.MaxUint8:
		return 2
	case size > 0:
		return 1
	}
	return 0
}

// readOffset reads a framing offset stored at pos (relative to v).
func (v Value) readOffset(pos, osz int) (int, error) {
	if osz == 0 || pos < 0 || pos+osz > v.size {
		return 0, formatErrf(v.typ, v.off, "framing offset at %d outside value of size %d", pos, v.size)
	}
	b := v.buf[v.off+pos : v.off+pos+osz]
	var o uint64
	switch osz {
	case 1:
		o = uint64(b[0])
	case 2:
		o = uint64(binary.LittleEndian.Uint16(b))
	case 4:
		o = uint64(binary.LittleEndian.Uint32(b))
	default:
		o = binary.LittleEndian.Uint64(b)
	}
	if o > uint64(v.size) {
		return 0, formatErrf(v.typ, v.off, "framing offset %d exceeds value size %d", o, v.size)
	}
	return int(o), nil
}

// arrayLayout returns the element count, offset width and offset table
// position of a variable-size element array.
func (v Value) arrayLayout() (n, osz, table int, err error) {
	if v.size == 0 {
		return 0, 0, 0, nil
	}
	osz = offsetSize(v.size)
	table, err = v.readOffset(v.size-osz, osz)
	if err != nil {
		return 0, 0, 0, err
	}
	if (v.size-table)%osz != 0 {
		return 0, 0, 0, formatErrf(v.typ, v.off, "offset table of %d bytes is not a multiple of %d", v.size-table, osz)
	}
	n = (v.size - table) / osz
	if n == 0 {
		return 0, 0, 0, formatErrf(v.typ, v.off, "array has data but no offset table")
	}
	return n, osz, table, nil
}

func (v Value) checkOffsetTable() error {
	n, osz, table, err := v.arrayLayout()
	if err != nil {
		return err
	}
	align := v.typ.elem.align
	prev := 0
	for i := 0; i < n; i++ {
		end, err := v.readOffset(table+i*osz, osz)
		if err != nil {
			return err
		}
		start := prev
		if i > 0 {
			start = alignUp(prev, align)
		}
		if start > end || end > table {
			return formatErrf(v.typ, v.off, "element %d spans [%d, %d) outside [0, %d)", i, start, end, table)
		}
		prev = end
	}
	return nil
}

func (v Value) arrayElem(i int) (Value, error) {
	elem := v.typ.elem
	if fs := elem.fixedSize; fs > 0 {
		n := v.size / fs
		if i < 0 || i >= n {
			return Value{}, &IndexError{Index: i, Len: n}
		}
		return v.sub(i*fs, (i+1)*fs, elem)
	}
	n, osz, table, err := v.arrayLayout()
	if err != nil {
		return Value{}, err
	}
	if i < 0 || i >= n {
		return Value{}, &IndexError{Index: i, Len: n}
	}
	start := 0
	if i > 0 {
		prev, err := v.readOffset(table+(i-1)*osz, osz)
		if err != nil {
			return Value{}, err
		}
		start = alignUp(prev, elem.align)
	}
	end, err := v.readOffset(table+i*osz, osz)
	if err != nil {
		return Value{}, err
	}
	if start > end || end > table {
		return Value{}, formatErrf(v.typ, v.off, "element %d spans [%d, %d) outside [0, %d)", i, start, end, table)
	}
	return v.sub(start, end, elem)
}

// member locates the i-th member of a tuple or dict entry.
func (v Value) member(i int) (Value, error) {
	fields := v.typ.fields
	if i < 0 || i >= len(fields) {
		return Value{}, &IndexError{Index: i, Len: len(fields)}
	}
	osz := offsetSize(v.size)
	frames := 0
	for j, f := range fields {
		if f.fixedSize == 0 && j != len(fields)-1 {
			frames++
		}
	}
	if v.typ.fixedSize > 0 {
		osz, frames = 0, 0
	}
	frameStart := v.size - frames*osz
	if frameStart < 0 {
		return Value{}, formatErrf(v.typ, v.off, "size %d too small for %d framing offsets", v.size, frames)
	}
	pos, used := 0, 0
	var start, end int
	for j := 0; j <= i; j++ {
		f := fields[j]
		start = alignUp(pos, f.align)
		switch {
		case f.fixedSize > 0:
			end = start + f.fixedSize
		case j == len(fields)-1:
			end = frameStart
		default:
			used++
			o, err := v.readOffset(v.size-used*osz, osz)
			if err != nil {
				return Value{}, err
			}
			end = o
		}
		if start > end || end > frameStart {
			return Value{}, formatErrf(v.typ, v.off, "member %d spans [%d, %d) outside [0, %d)", j, start, end, frameStart)
		}
		pos = end
	}
	return v.sub(start, end, fields[i])
}

func (v Value) variantLayout() (*Type, int, error) {
	data := v.Raw()
	sep := bytes.LastIndexByte(data, 0)
	if sep < 0 {
		return nil, 0, formatErrf(v.typ, v.off, "missing type separator")
	}
	t, err := ParseType(string(data[sep+1:]))
	if err != nil {
		return nil, 0, formatErrf(v.typ, v.off, "%v", err)
	}
	if v.depth+1+t.depth > MaxDepth {
		return nil, 0, formatErrf(v.typ, v.off, "variant contents nested deeper than %d", MaxDepth)
	}
	if t.fixedSize > 0 && t.fixedSize != sep {
		return nil, 0, formatErrf(v.typ, v.off, "%s payload is %d bytes, want %d", t, sep, t.fixedSize)
	}
	return t, sep, nil
}

func (v Value) maybeLayout() (size int, just bool, err error) {
	if v.size == 0 {
		return 0, false, nil
	}
	elem := v.typ.elem
	if elem.fixedSize > 0 {
		if v.size != elem.fixedSize {
			return 0, false, formatErrf(v.typ, v.off, "size %d, want 0 or %d", v.size, elem.fixedSize)
		}
		return v.size, true, nil
	}
	if v.buf[v.off+v.size-1] != 0 {
		return 0, false, formatErrf(v.typ, v.off, "missing trailing zero byte")
	}
	return v.size - 1, true, nil
}

// NumChildren returns the number of elements of an array, tuple or dict
// entry, 1 for a variant, 0 or 1 for a maybe, and 0 for scalars.
func (v Value) NumChildren() (int, error) {
	if v.typ == nil {
		return 0, mismatch("container", nil)
	}
	switch v.typ.kind {
	case KindArray:
		if fs := v.typ.elem.fixedSize; fs > 0 {
			return v.size / fs, nil
		}
		n, _, _, err := v.arrayLayout()
		return n, err
	case KindTuple, KindDictEntry:
		return len(v.typ.fields), nil
	case KindVariant:
		return 1, nil
	case KindMaybe:
		_, just, err := v.maybeLayout()
		if just {
			return 1, err
		}
		return 0, err
	}
	return 0, nil
}

// Child returns the i-th child of a container value.
func (v Value) Child(i int) (Value, error) {
	if v.typ == nil {
		return Value{}, mismatch("container", nil)
	}
	switch v.typ.kind {
	case KindArray:
		return v.arrayElem(i)
	case KindTuple, KindDictEntry:
		return v.member(i)
	case KindVariant:
		if i != 0 {
			return Value{}, &IndexError{Index: i, Len: 1}
		}
		return v.Variant()
	case KindMaybe:
		c, just, err := v.Maybe()
		if err != nil {
			return Value{}, err
		}
		if !just || i != 0 {
			n := 0
			if just {
				n = 1
			}
			return Value{}, &IndexError{Index: i, Len: n}
		}
		return c, nil
	}
	return Value{}, &IndexError{Index: i, Len: 0}
}

// Variant returns the value boxed in a variant.
func (v Value) Variant() (Value, error) {
	if v.typ == nil || v.typ.kind != KindVariant {
		return Value{}, mismatch("v", v.typ)
	}
	t, size, err := v.variantLayout()
	if err != nil {
		return Value{}, err
	}
	return v.sub(0, size, t)
}

// Maybe returns the child of a maybe value and whether it is present.
func (v Value) Maybe() (Value, bool, error) {
	if v.typ == nil || v.typ.kind != KindMaybe {
		return Value{}, false, mismatch("m*", v.typ)
	}
	size, just, err := v.maybeLayout()
	if err != nil || !just {
		return Value{}, false, err
	}
	c, err := v.sub(0, size, v.typ.elem)
	if err != nil {
		return Value{}, false, err
	}
	return c, true, nil
}

func (v Value) scalar(k Kind) ([]byte, error) {
	if v.typ == nil || v.typ.kind != k {
		return nil, mismatch(string(rune(k)), v.typ)
	}
	return v.Raw(), nil
}

// Bool returns the value of a boolean.
func (v Value) Bool() (bool, error) {
	b, err := v.scalar(KindBool)
	if err != nil {
		return false, err
	}
	if b[0] > 1 {
		return false, formatErrf(v.typ, v.off, "boolean byte %#x", b[0])
	}
	return b[0] == 1, nil
}

// Byte returns the value of a byte.
func (v Value) Byte() (byte, error) {
	b, err := v.scalar(KindByte)
	if err != nil {
		return 0, err
	}
	return b[0], nil
}

// Int16 returns the value of an int16.
func (v Value) Int16() (int16, error) {
	b, err := v.scalar(KindInt16)
	if err != nil {
		return 0, err
	}
	return int16(v.order.Uint16(b)), nil
}

// Uint16 returns the value of a uint16.
func (v Value) Uint16() (uint16, error) {
	b, err := v.scalar(KindUint16)
	if err != nil {
		return 0, err
	}
	return v.order.Uint16(b), nil
}

// Int32 returns the value of an int32.
func (v Value) Int32() (int32, error) {
	b, err := v.scalar(KindInt32)
	if err != nil {
		return 0, err
	}
	return int32(v.order.Uint32(b)), nil
}

// Uint32 returns the value of a uint32.
func (v Value) Uint32() (uint32, error) {
	b, err := v.scalar(KindUint32)
	if err != nil {
		return 0, err
	}
	return v.order.Uint32(b), nil
}

// Handle returns the value of a file descriptor handle.
func (v Value) Handle() (int32, error) {
	b, err := v.scalar(KindHandle)
	if err != nil {
		return 0, err
	}
	return int32(v.order.Uint32(b)), nil
}

// Int64 returns the value of an int64.
func (v Value) Int64() (int64, error) {
	b, err := v.scalar(KindInt64)
	if err != nil {
		return 0, err
	}
	return int64(v.order.Uint64(b)), nil
}

// Uint64 returns the value of a uint64.
func (v Value) Uint64() (uint64, error) {
	b, err := v.scalar(KindUint64)
	if err != nil {
		return 0, err
	}
	return v.order.Uint64(b), nil
}

// Float64 returns the value of a double.
func (v Value) Float64() (float64, error) {
	b, err := v.scalar(KindDouble)
	if err != nil {
		return 0, err
	}
	return math.Float64frombits(v.order.Uint64(b)), nil
}

// Str returns the value of a string, object path or signature.
func (v Value) Str() (string, error) {
	b, err := v.strBytes()
	if err != nil {
		return "", err
	}
	return string(b), nil
}

func (v Value) strBytes() ([]byte, error) {
	if v.typ == nil || !v.typ.IsStringLike() {
		return nil, mismatch("s", v.typ)
	}
	b := v.Raw()
	if len(b) == 0 || b[len(b)-1] != 0 {
		return nil, formatErrf(v.typ, v.off, "string is not nul-terminated")
	}
	b = b[:len(b)-1]
	if bytes.IndexByte(b, 0) >= 0 {
		return nil, formatErrf(v.typ, v.off, "string contains an embedded nul")
	}
	if !utf8.Valid(b) {
		return nil, formatErrf(v.typ, v.off, "string is not valid UTF-8")
	}
	return b, nil
}

// Bytes returns the contents of a byte array. The slice aliases the parsed buffer.
func (v Value) Bytes() ([]byte, error) {
	if v.typ == nil || !v.typ.Equal(TypeBytes) {
		return nil, mismatch("ay", v.typ)
	}
	return v.Raw(), nil
}
