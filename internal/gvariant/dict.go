package gvariant

import "iter"

// Entry is one key/value pair of a dictionary.
type Entry struct {
	Key   Value
	Value Value
}

// All iterates over the children of v in serialised order. Iteration stops
// after the first error.
func (v Value) All() iter.Seq2[Value, error] {
	return func(yield func(Value, error) bool) {
		n, err := v.NumChildren()
		if err != nil {
			yield(Value{}, err)
			return
		}
		for i := 0; i < n; i++ {
			c, err := v.Child(i)
			if !yield(c, err) || err != nil {
				return
			}
		}
	}
}

// Entries iterates over the entries of an array of dict entries.
func (v Value) Entries() iter.Seq2[Entry, error] {
	return func(yield func(Entry, error) bool) {
		if v.typ == nil || !v.typ.IsDict() {
			yield(Entry{}, mismatch("a{**}", v.typ))
			return
		}
		for c, err := range v.All() {
			if err != nil {
				yield(Entry{}, err)
				return
			}
			e, err := c.entry()
			if !yield(e, err) || err != nil {
				return
			}
		}
	}
}

func (v Value) entry() (Entry, error) {
	k, err := v.member(0)
	if err != nil {
		return Entry{}, err
	}
	val, err := v.member(1)
	if err != nil {
		return Entry{}, err
	}
	return Entry{Key: k, Value: val}, nil
}

// Lookup finds the first entry with the given key in a string-keyed
// dictionary. Keys need not be sorted.
//
// If the entry's value is a variant it is unwrapped, unless want is the
// variant type. A missing key is reported as ok == false with a nil error;
// a present value whose type differs from want (when want is non-nil) is a
// *TypeMismatchError.
func (v Value) Lookup(key string, want *Type) (Value, bool, error) {
	if v.typ == nil || !v.typ.IsDict() || !v.typ.elem.fields[0].IsStringLike() {
		return Value{}, false, mismatch("a{s*}", v.typ)
	}
	for e, err := range v.Entries() {
		if err != nil {
			return Value{}, false, err
		}
		k, err := e.Key.strBytes()
		if err != nil {
			return Value{}, false, err
		}
		if string(k) != key {
			continue
		}
		val := e.Value
		if val.typ.kind == KindVariant && (want == nil || want.kind != KindVariant) {
			if val, err = val.Variant(); err != nil {
				return Value{}, false, err
			}
		}
		if want != nil && !val.typ.Equal(want) {
			return Value{}, false, mismatch(want.String(), val.typ)
		}
		return val, true, nil
	}
	return Value{}, false, nil
}
