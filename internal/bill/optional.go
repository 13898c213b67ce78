package bill

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Number is the set of numeric types carried by line items.
type Number interface {
	~int64 | ~float64
}

// Opt is an optional numeric field. Sparse (non-priced) rows leave their
// numeric fields absent; presentation code renders absent values as blanks.
type Opt[T Number] struct {
	value T
	set   bool
}

// Some returns a present value.
func Some[T Number](v T) Opt[T] { return Opt[T]{value: v, set: true} }

// None returns an absent value.
func None[T Number]() Opt[T] { return Opt[T]{} }

func (o Opt[T]) Valid() bool    { return o.set }
func (o Opt[T]) Get() (T, bool) { return o.value, o.set }

// Or returns the value, or def when absent.
func (o Opt[T]) Or(def T) T {
	if !o.set {
		return def
	}
	return o.value
}

// Format renders the value for display, or "" when absent.
func (o Opt[T]) Format() string {
	if !o.set {
		return ""
	}
	return strconv.FormatFloat(float64(o.value), 'f', -1, 64)
}

// MarshalJSON encodes an absent value as null.
func (o Opt[T]) MarshalJSON() ([]byte, error) {
	if !o.set {
		return []byte("null"), nil
	}
	return json.Marshal(o.value)
}

// UnmarshalJSON accepts null, a number, or the empty string (legacy blank).
func (o *Opt[T]) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if bytes.Equal(trimmed, []byte("null")) || bytes.Equal(trimmed, []byte(`""`)) {
		*o = Opt[T]{}
		return nil
	}
	var v T
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return err
	}
	*o = Some(v)
	return nil
}
