package gvariant

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"unicode/utf8"
)

// Item is a serialised value produced by the New* constructors. Scalars are
// encoded little-endian. Constructors panic when given values that can never
// be serialised (mismatched element types, strings with nul bytes).
type Item struct {
	typ  *Type
	data []byte
}

// Type returns the type of the item.
func (it Item) Type() *Type { return it.typ }

// Bytes returns the serialised form of the item.
func (it Item) Bytes() []byte { return it.data }

// Value parses the item back into a Value.
func (it Item) Value() (Value, error) { return Parse(it.data, it.typ) }

func fixed(t *Type, put func(b []byte)) Item {
	b := make([]byte, t.fixedSize)
	put(b)
	return Item{typ: t, data: b}
}

// NewBool returns a boolean (b).
func NewBool(v bool) Item {
	return fixed(TypeBool, func(b []byte) {
		if v {
			b[0] = 1
		}
	})
}

// NewByte returns a byte (y).
func NewByte(v byte) Item {
	return fixed(TypeByte, func(b []byte) { b[0] = v })
}

// NewInt16 returns a signed 16-bit integer (n).
func NewInt16(v int16) Item {
	return fixed(TypeInt16, func(b []byte) { binary.LittleEndian.PutUint16(b, uint16(v)) })
}

// NewUint16 returns an unsigned 16-bit integer (q).
func NewUint16(v uint16) Item {
	return fixed(TypeUint16, func(b []byte) { binary.LittleEndian.PutUint16(b, v) })
}

// NewInt32 returns a signed 32-bit integer (i).
func NewInt32(v int32) Item {
	return fixed(TypeInt32, func(b []byte) { binary.LittleEndian.PutUint32(b, uint32(v)) })
}

// NewUint32 returns an unsigned 32-bit integer (u).
func NewUint32(v uint32) Item {
	return fixed(TypeUint32, func(b []byte) { binary.LittleEndian.PutUint32(b, v) })
}

// NewHandle returns a file descriptor index (h).
func NewHandle(v int32) Item {
	return fixed(TypeHandle, func(b []byte) { binary.LittleEndian.PutUint32(b, uint32(v)) })
}

// NewInt64 returns a signed 64-bit integer (x).
func NewInt64(v int64) Item {
	return fixed(TypeInt64, func(b []byte) { binary.LittleEndian.PutUint64(b, uint64(v)) })
}

// NewUint64 returns an unsigned 64-bit integer (t).
func NewUint64(v uint64) Item {
	return fixed(TypeUint64, func(b []byte) { binary.LittleEndian.PutUint64(b, v) })
}

// NewFloat64 returns a double (d).
func NewFloat64(v float64) Item {
	return fixed(TypeDouble, func(b []byte) { binary.LittleEndian.PutUint64(b, math.Float64bits(v)) })
}

func newStringLike(t *Type, s string) Item {
	if strings.IndexByte(s, 0) >= 0 || !utf8.ValidString(s) {
		panic(fmt.Sprintf("gvariant: %q cannot be serialised as %s", s, t))
	}
	b := make([]byte, len(s)+1)
	copy(b, s)
	return Item{typ: t, data: b}
}

// NewString returns a string (s). It panics if s holds a NUL byte or is not
// valid UTF-8, as do NewObjectPath and NewSignature.
func NewString(s string) Item { return newStringLike(TypeString, s) }

// NewObjectPath returns an object path (o).
func NewObjectPath(s string) Item { return newStringLike(TypeObjectPath, s) }

// NewSignature returns a type signature (g).
func NewSignature(s string) Item { return newStringLike(TypeSignature, s) }

// NewBytes returns a byte array (ay).
func NewBytes(b []byte) Item {
	return Item{typ: TypeBytes, data: append([]byte(nil), b...)}
}

// NewVariant boxes child in a variant.
func NewVariant(child Item) Item {
	b := make([]byte, 0, len(child.data)+1+len(child.typ.str))
	b = append(b, child.data...)
	b = append(b, 0)
	b = append(b, child.typ.str...)
	return Item{typ: TypeVariant, data: b}
}

// NewMaybe returns Just child, or Nothing if child is nil.
func NewMaybe(elem *Type, child *Item) Item {
	t := MaybeOf(elem)
	if child == nil {
		return Item{typ: t}
	}
	mustMatch(elem, child.typ)
	b := append([]byte(nil), child.data...)
	if elem.fixedSize == 0 {
		b = append(b, 0)
	}
	return Item{typ: t, data: b}
}

// NewTuple returns a tuple of items.
func NewTuple(items ...Item) Item {
	fields := make([]*Type, len(items))
	for i, it := range items {
		fields[i] = it.typ
	}
	t := TupleOf(fields...)
	return Item{typ: t, data: encodeMembers(t, items)}
}

// NewDictEntry returns the dict entry {key value}.
func NewDictEntry(key, value Item) Item {
	t := DictEntryOf(key.typ, value.typ)
	return Item{typ: t, data: encodeMembers(t, []Item{key, value})}
}

// NewArray returns an array of items, all of which must have type elem.
func NewArray(elem *Type, items ...Item) Item {
	t := ArrayOf(elem)
	var body []byte
	var ends []int
	for _, it := range items {
		mustMatch(elem, it.typ)
		body = pad(body, elem.align)
		body = append(body, it.data...)
		ends = append(ends, len(body))
	}
	if elem.fixedSize > 0 {
		return Item{typ: t, data: body}
	}
	return Item{typ: t, data: appendFrames(body, ends)}
}

// NewDict returns the dictionary a{key value} built from pairs of items:
// key, value, key, value, ...
func NewDict(key, value *Type, pairs ...Item) Item {
	if len(pairs)%2 != 0 {
		panic("gvariant: NewDict needs key/value pairs")
	}
	entries := make([]Item, 0, len(pairs)/2)
	for i := 0; i < len(pairs); i += 2 {
		mustMatch(key, pairs[i].typ)
		mustMatch(value, pairs[i+1].typ)
		entries = append(entries, NewDictEntry(pairs[i], pairs[i+1]))
	}
	return NewArray(DictEntryOf(key, value), entries...)
}

func encodeMembers(t *Type, items []Item) []byte {
	var body []byte
	var ends []int
	for i, it := range items {
		body = pad(body, it.typ.align)
		body = append(body, it.data...)
		if it.typ.fixedSize == 0 && i != len(items)-1 {
			ends = append(ends, len(body))
		}
	}
	if t.fixedSize > 0 {
		body = pad(body, t.align)
		if len(body) == 0 {
			body = append(body, 0)
		}
		return body
	}
	for i, j := 0, len(ends)-1; i < j; i, j = i+1, j-1 {
		ends[i], ends[j] = ends[j], ends[i]
	}
	return appendFrames(body, ends)
}

func mustMatch(want, got *Type) {
	if !want.Equal(got) {
		panic(fmt.Sprintf("gvariant: element of type %s where %s expected", got, want))
	}
}

func pad(b []byte, align int) []byte {
	for len(b)%align != 0 {
		b = append(b, 0)
	}
	return b
}

// appendFrames appends framing offsets using the smallest width that can
// address the resulting container.
func appendFrames(body []byte, offsets []int) []byte {
	n := len(offsets)
	total := len(body) + 8*n
	for _, w := range []int{1, 2, 4} {
		if len(body)+w*n <= 1<<(8*w)-1 {
			total = len(body) + w*n
			break
		}
	}
	osz := offsetSize(total)
	var tmp [8]byte
	for _, o := range offsets {
		binary.LittleEndian.PutUint64(tmp[:], uint64(o))
		body = append(body, tmp[:osz]...)
	}
	return body
}
