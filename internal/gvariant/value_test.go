package gvariant

import (
	"encoding/binary"
	"fmt"
	"math"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewArray_StringsWireFormat(t *testing.T) {
	item := NewArray(TypeString, NewString("ab"), NewString("c"))
	assert.Equal(t, []byte{'a', 'b', 0, 'c', 0, 3, 5}, item.Bytes())

	v, err := Parse(item.Bytes(), MustParseType("as"))
	require.NoError(t, err)

	n, err := v.NumChildren()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	var got []string
	for c, err := range v.All() {
		require.NoError(t, err)
		s, err := c.Str()
		require.NoError(t, err)
		got = append(got, s)
	}
	assert.Equal(t, []string{"ab", "c"}, got)
}

func TestParse_TruncatedOffsetTable(t *testing.T) {
	buf := NewArray(TypeString, NewString("ab"), NewString("c")).Bytes()

	_, err := Parse(buf[:len(buf)-1], MustParseType("as"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrFormat)

	var ferr *FormatError
	assert.ErrorAs(t, err, &ferr)
}

func TestParse_OffsetOutOfRange(t *testing.T) {
	// last offset points past the end of the array
	_, err := Parse([]byte{'a', 0, 9}, MustParseType("as"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParse_ShortFixedSize(t *testing.T) {
	_, err := Parse([]byte{1, 2, 3}, MustParseType("(ut)"))
	assert.ErrorIs(t, err, ErrFormat)

	_, err = Parse(nil, TypeUint64)
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParse_FixedSizeIgnoresTrailingBytes(t *testing.T) {
	buf := append(NewUint32(7).Bytes(), 0xff, 0xff)
	v, err := Parse(buf, TypeUint32)
	require.NoError(t, err)
	assert.Equal(t, 4, v.Size())

	n, err := v.Uint32()
	require.NoError(t, err)
	assert.Equal(t, uint32(7), n)
}

func TestParse_FixedArrayRemainder(t *testing.T) {
	_, err := Parse([]byte{1, 2, 3}, MustParseType("aq"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestTuple_Members(t *testing.T) {
	item := NewTuple(NewString("a"), NewString("b"))
	assert.Equal(t, []byte{'a', 0, 'b', 0, 2}, item.Bytes())

	v, err := item.Value()
	require.NoError(t, err)

	first, err := v.Child(0)
	require.NoError(t, err)
	s, err := first.Str()
	require.NoError(t, err)
	assert.Equal(t, "a", s)

	second, err := v.Child(1)
	require.NoError(t, err)
	s, err = second.Str()
	require.NoError(t, err)
	assert.Equal(t, "b", s)

	_, err = v.Child(2)
	var ierr *IndexError
	require.ErrorAs(t, err, &ierr)
	assert.Equal(t, 2, ierr.Len)
	assert.ErrorIs(t, err, ErrIndex)
}

func TestTuple_FixedMembers(t *testing.T) {
	item := NewTuple(NewByte(0xab), NewUint64(42), NewUint16(7))
	require.Equal(t, 24, len(item.Bytes()))

	v, err := item.Value()
	require.NoError(t, err)

	c, err := v.Child(1)
	require.NoError(t, err)
	assert.Equal(t, 8, c.Offset())
	n, err := c.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(42), n)

	c, err = v.Child(2)
	require.NoError(t, err)
	q, err := c.Uint16()
	require.NoError(t, err)
	assert.Equal(t, uint16(7), q)
}

func TestScalars_RoundTrip(t *testing.T) {
	check := func(item Item, get func(Value) (any, error), want any) {
		t.Helper()
		v, err := item.Value()
		require.NoError(t, err)
		got, err := get(v)
		require.NoError(t, err)
		assert.Equal(t, want, got)
	}

	check(NewBool(true), func(v Value) (any, error) { return v.Bool() }, true)
	check(NewBool(false), func(v Value) (any, error) { return v.Bool() }, false)
	check(NewByte(0x7f), func(v Value) (any, error) { return v.Byte() }, byte(0x7f))
	check(NewInt16(-2), func(v Value) (any, error) { return v.Int16() }, int16(-2))
	check(NewInt32(math.MinInt32), func(v Value) (any, error) { return v.Int32() }, int32(math.MinInt32))
	check(NewHandle(3), func(v Value) (any, error) { return v.Handle() }, int32(3))
	check(NewInt64(-1), func(v Value) (any, error) { return v.Int64() }, int64(-1))
	check(NewFloat64(1.5), func(v Value) (any, error) { return v.Float64() }, 1.5)
	check(NewString(""), func(v Value) (any, error) { return v.Str() }, "")
	check(NewObjectPath("/org/x"), func(v Value) (any, error) { return v.Str() }, "/org/x")
	check(NewSignature("a{sv}"), func(v Value) (any, error) { return v.Str() }, "a{sv}")
	check(NewUint16(65535), func(v Value) (any, error) { return v.Uint16() }, uint16(65535))
	check(NewUint32(math.MaxUint32), func(v Value) (any, error) { return v.Uint32() }, uint32(math.MaxUint32))
	check(NewBytes([]byte{1, 2, 3}), func(v Value) (any, error) { return v.Bytes() }, []byte{1, 2, 3})

	for _, n := range []uint64{0, 1, 255, 1 << 32, math.MaxUint64} {
		check(NewUint64(n), func(v Value) (any, error) { return v.Uint64() }, n)
	}
}

func TestBool_InvalidByte(t *testing.T) {
	v, err := Parse([]byte{2}, TypeBool)
	require.NoError(t, err)
	_, err = v.Bool()
	assert.ErrorIs(t, err, ErrFormat)
}

func TestStr_Invalid(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", []byte{}},
		{"no terminator", []byte{'a', 'b'}},
		{"embedded nul", []byte{'a', 0, 'b', 0}},
		{"invalid utf8", []byte{0xff, 0}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v, err := Parse(tt.buf, TypeString)
			require.NoError(t, err)
			_, err = v.Str()
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func TestAccessors_TypeMismatch(t *testing.T) {
	v, err := NewString("x").Value()
	require.NoError(t, err)

	_, err = v.Uint64()
	var terr *TypeMismatchError
	require.ErrorAs(t, err, &terr)
	assert.Equal(t, "t", terr.Want)
	assert.ErrorIs(t, err, ErrTypeMismatch)
	assert.ErrorIs(t, err, ErrFormat)

	_, err = v.Bytes()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = v.Variant()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, _, err = v.Maybe()
	assert.ErrorIs(t, err, ErrTypeMismatch)

	_, err = Value{}.Str()
	assert.ErrorIs(t, err, ErrTypeMismatch)
	_, err = Value{}.Child(0)
	assert.ErrorIs(t, err, ErrTypeMismatch)
}

func TestScalar_HasNoChildren(t *testing.T) {
	v, err := NewUint32(1).Value()
	require.NoError(t, err)

	n, err := v.NumChildren()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = v.Child(0)
	assert.ErrorIs(t, err, ErrIndex)
}

func TestVariant(t *testing.T) {
	item := NewVariant(NewString("T"))
	assert.Equal(t, []byte{'T', 0, 0, 's'}, item.Bytes())

	v, err := item.Value()
	require.NoError(t, err)

	n, err := v.NumChildren()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	inner, err := v.Variant()
	require.NoError(t, err)
	assert.Equal(t, "s", inner.Type().String())

	viaChild, err := v.Child(0)
	require.NoError(t, err)
	assert.Equal(t, inner, viaChild)
}

func TestVariant_Invalid(t *testing.T) {
	tests := []struct {
		name string
		buf  []byte
	}{
		{"empty", []byte{}},
		{"no separator", []byte{'a', 'b'}},
		{"bad type", []byte{'a', 0, 0, 'z'}},
		{"fixed size mismatch", []byte{1, 2, 0, 't'}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse(tt.buf, TypeVariant)
			assert.ErrorIs(t, err, ErrFormat)
		})
	}
}

func nestedVariants(n int) Item {
	item := NewBool(true)
	for range n {
		item = NewVariant(item)
	}
	return item
}

func TestVariant_DepthLimit(t *testing.T) {
	t.Run("within limit", func(t *testing.T) {
		v, err := nestedVariants(100).Value()
		require.NoError(t, err)
		got, err := Print(v)
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(got, "<<<"))
		assert.Contains(t, got, "true")
	})

	t.Run("nested variants past limit", func(t *testing.T) {
		v, err := nestedVariants(MaxDepth + 10).Value()
		require.NoError(t, err)
		_, err = Print(v)
		require.ErrorIs(t, err, ErrFormat)
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.Contains(t, fe.Msg, "nested deeper than 128")
	})

	t.Run("deep type string", func(t *testing.T) {
		buf := append([]byte{0}, strings.Repeat("a", MaxDepth-1)+"y"...)
		_, err := Parse(buf, TypeVariant)
		var fe *FormatError
		require.ErrorAs(t, err, &fe)
		assert.ErrorIs(t, err, ErrFormat)
	})

	t.Run("unwrapping stops at limit", func(t *testing.T) {
		v, err := nestedVariants(MaxDepth + 10).Value()
		require.NoError(t, err)
		levels := 0
		for v.Type().Kind() == KindVariant {
			if v, err = v.Variant(); err != nil {
				break
			}
			levels++
		}
		assert.ErrorIs(t, err, ErrFormat)
		assert.Less(t, levels, MaxDepth)
	})
}

func TestMaybe(t *testing.T) {
	just := NewString("x")
	item := NewMaybe(TypeString, &just)
	assert.Equal(t, []byte{'x', 0, 0}, item.Bytes())

	v, err := item.Value()
	require.NoError(t, err)
	c, ok, err := v.Maybe()
	require.NoError(t, err)
	require.True(t, ok)
	s, err := c.Str()
	require.NoError(t, err)
	assert.Equal(t, "x", s)

	nothing, err := NewMaybe(TypeUint64, nil).Value()
	require.NoError(t, err)
	_, ok, err = nothing.Maybe()
	require.NoError(t, err)
	assert.False(t, ok)
	n, err := nothing.NumChildren()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = Parse([]byte{1, 2, 3}, MustParseType("mt"))
	assert.ErrorIs(t, err, ErrFormat)
}

func TestParseOrder_BigEndian(t *testing.T) {
	buf := make([]byte, 8)
	binary.BigEndian.PutUint64(buf, 0x0102030405060708)

	v, err := ParseOrder(buf, TypeUint64, binary.BigEndian)
	require.NoError(t, err)
	n, err := v.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(0x0102030405060708), n)
	assert.Equal(t, binary.BigEndian, v.ByteOrder())
}

func TestArray_WideOffsets(t *testing.T) {
	items := make([]Item, 100)
	for i := range items {
		items[i] = NewString(fmt.Sprintf("ref-%02d/%s", i, strings.Repeat("x", 8)))
	}
	item := NewArray(TypeString, items...)
	require.Greater(t, len(item.Bytes()), 255)

	v, err := item.Value()
	require.NoError(t, err)
	n, err := v.NumChildren()
	require.NoError(t, err)
	require.Equal(t, 100, n)

	c, err := v.Child(57)
	require.NoError(t, err)
	s, err := c.Str()
	require.NoError(t, err)
	assert.Equal(t, "ref-57/xxxxxxxx", s)
}

func TestArray_Empty(t *testing.T) {
	v, err := NewArray(TypeString).Value()
	require.NoError(t, err)
	n, err := v.NumChildren()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	_, err = v.Child(0)
	assert.ErrorIs(t, err, ErrIndex)
}

func TestAll_RestartableAndStoppable(t *testing.T) {
	v, err := NewArray(TypeUint32, NewUint32(1), NewUint32(2), NewUint32(3)).Value()
	require.NoError(t, err)

	collect := func(limit int) []uint32 {
		var out []uint32
		for c, err := range v.All() {
			require.NoError(t, err)
			n, err := c.Uint32()
			require.NoError(t, err)
			out = append(out, n)
			if len(out) == limit {
				break
			}
		}
		return out
	}

	assert.Equal(t, []uint32{1, 2, 3}, collect(-1))
	assert.Equal(t, []uint32{1, 2, 3}, collect(-1))
	assert.Equal(t, []uint32{1}, collect(1))
}

func TestRoundTrip_Nested(t *testing.T) {
	meta := NewArray(DictEntryOf(TypeString, TypeVariant),
		NewDictEntry(NewString("k1"), NewVariant(NewUint64(9))),
		NewDictEntry(NewString("k2"), NewVariant(NewArray(TypeString))),
	)
	root := NewTuple(
		NewArray(TupleOf(TypeString, TypeUint64)),
		meta,
		NewBytes(nil),
		NewTuple(),
		NewInt32(-5),
	)
	assert.Equal(t, "(a(st)a{sv}ay()i)", root.Type().String())

	v, err := root.Value()
	require.NoError(t, err)

	refs, err := v.Child(0)
	require.NoError(t, err)
	n, err := refs.NumChildren()
	require.NoError(t, err)
	assert.Equal(t, 0, n)

	dict, err := v.Child(1)
	require.NoError(t, err)
	k1, ok, err := dict.Lookup("k1", TypeUint64)
	require.NoError(t, err)
	require.True(t, ok)
	got, err := k1.Uint64()
	require.NoError(t, err)
	assert.Equal(t, uint64(9), got)

	k2, ok, err := dict.Lookup("k2", nil)
	require.NoError(t, err)
	require.True(t, ok)
	assert.Equal(t, "as", k2.Type().String())

	b, err := v.Child(2)
	require.NoError(t, err)
	raw, err := b.Bytes()
	require.NoError(t, err)
	assert.Empty(t, raw)

	unit, err := v.Child(3)
	require.NoError(t, err)
	assert.Equal(t, 1, unit.Size())

	last, err := v.Child(4)
	require.NoError(t, err)
	i, err := last.Int32()
	require.NoError(t, err)
	assert.Equal(t, int32(-5), i)
}

func TestEncode_PanicsOnMisuse(t *testing.T) {
	assert.Panics(t, func() { NewString("a\x00b") })
	assert.Panics(t, func() { NewArray(TypeString, NewUint32(1)) })
}
