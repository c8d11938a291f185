package gvariant

import (
	"fmt"
	"strconv"
	"strings"
)

// Print renders v in the GVariant text format, annotating types that
// cannot be inferred from the literal (for example "uint64 5").
func Print(v Value) (string, error) {
	if !v.IsValid() {
		return "", mismatch("value", nil)
	}
	var sb strings.Builder
	if err := printValue(&sb, v, true); err != nil {
		return "", err
	}
	return sb.String(), nil
}

var annotations = map[Kind]string{
	KindByte:   "byte ",
	KindInt16:  "int16 ",
	KindUint16: "uint16 ",
	KindUint32: "uint32 ",
	KindInt64:  "int64 ",
	KindUint64: "uint64 ",
	KindHandle: "handle ",
}

func printValue(sb *strings.Builder, v Value, annotate bool) error {
	if annotate {
		sb.WriteString(annotations[v.typ.kind])
	}
	switch v.typ.kind {
	case KindBool:
		b, err := v.Bool()
		if err != nil {
			return err
		}
		sb.WriteString(strconv.FormatBool(b))
	case KindByte:
		b, _ := v.Byte()
		fmt.Fprintf(sb, "0x%02x", b)
	case KindInt16:
		n, _ := v.Int16()
		sb.WriteString(strconv.FormatInt(int64(n), 10))
	case KindUint16:
		n, _ := v.Uint16()
		sb.WriteString(strconv.FormatUint(uint64(n), 10))
	case KindInt32:
		n, _ := v.Int32()
		sb.WriteString(strconv.FormatInt(int64(n), 10))
	case KindUint32:
		n, _ := v.Uint32()
		sb.WriteString(strconv.FormatUint(uint64(n), 10))
	case KindHandle:
		n, _ := v.Handle()
		sb.WriteString(strconv.FormatInt(int64(n), 10))
	case KindInt64:
		n, _ := v.Int64()
		sb.WriteString(strconv.FormatInt(n, 10))
	case KindUint64:
		n, _ := v.Uint64()
		sb.WriteString(strconv.FormatUint(n, 10))
	case KindDouble:
		f, _ := v.Float64()
		sb.WriteString(strconv.FormatFloat(f, 'g', -1, 64))
	case KindString, KindObjectPath, KindSignature:
		s, err := v.Str()
		if err != nil {
			return err
		}
		switch v.typ.kind {
		case KindObjectPath:
			sb.WriteString("objectpath ")
		case KindSignature:
			sb.WriteString("signature ")
		}
		sb.WriteString(quote(s))
	case KindVariant:
		inner, err := v.Variant()
		if err != nil {
			return err
		}
		sb.WriteByte('<')
		if err := printValue(sb, inner, true); err != nil {
			return err
		}
		sb.WriteByte('>')
	case KindMaybe:
		c, just, err := v.Maybe()
		if err != nil {
			return err
		}
		if !just {
			sb.WriteString("nothing")
			return nil
		}
		return printValue(sb, c, false)
	case KindArray:
		return printArray(sb, v, annotate)
	case KindTuple:
		return printTuple(sb, v)
	case KindDictEntry:
		sb.WriteByte('{')
		if err := printChildren(sb, v, ", "); err != nil {
			return err
		}
		sb.WriteByte('}')
	}
	return nil
}

func printArray(sb *strings.Builder, v Value, annotate bool) error {
	n, err := v.NumChildren()
	if err != nil {
		return err
	}
	if n == 0 {
		sb.WriteString("@" + v.typ.str + " ")
		if v.typ.IsDict() {
			sb.WriteString("{}")
		} else {
			sb.WriteString("[]")
		}
		return nil
	}
	if !v.typ.IsDict() {
		sb.WriteByte('[')
		first := true
		for c, err := range v.All() {
			if err != nil {
				return err
			}
			if !first {
				sb.WriteString(", ")
			}
			if err := printValue(sb, c, annotate && first); err != nil {
				return err
			}
			first = false
		}
		sb.WriteByte(']')
		return nil
	}
	sb.WriteByte('{')
	first := true
	for e, err := range v.Entries() {
		if err != nil {
			return err
		}
		if !first {
			sb.WriteString(", ")
		}
		if err := printValue(sb, e.Key, annotate && first); err != nil {
			return err
		}
		sb.WriteString(": ")
		if err := printValue(sb, e.Value, annotate && first); err != nil {
			return err
		}
		first = false
	}
	sb.WriteByte('}')
	return nil
}

func printTuple(sb *strings.Builder, v Value) error {
	sb.WriteByte('(')
	if err := printChildren(sb, v, ", "); err != nil {
		return err
	}
	if len(v.typ.fields) == 1 {
		sb.WriteByte(',')
	}
	sb.WriteByte(')')
	return nil
}

func printChildren(sb *strings.Builder, v Value, sep string) error {
	first := true
	for c, err := range v.All() {
		if err != nil {
			return err
		}
		if !first {
			sb.WriteString(sep)
		}
		if err := printValue(sb, c, true); err != nil {
			return err
		}
		first = false
	}
	return nil
}

func quote(s string) string {
	var sb strings.Builder
	sb.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '\'', '\\':
			sb.WriteByte('\\')
			sb.WriteRune(r)
		case '\n':
			sb.WriteString(`\n`)
		case '\t':
			sb.WriteString(`\t`)
		default:
			if r < 0x20 {
				fmt.Fprintf(&sb, `\u%04x`, r)
			} else {
				sb.WriteRune(r)
			}
		}
	}
	sb.WriteByte('\'')
	return sb.String()
}
