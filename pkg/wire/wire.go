// Package wire holds JSON scalar types shared by the response schemas.
//
// encoding/json silently leaves a number or boolean at its zero value when the
// payload carries an explicit null. Counts and flags in the upstream payloads
// are never legitimately null, so these types turn a null into a decode error
// instead of a fabricated zero. An absent field still decodes to zero.
package wire

import (
	"encoding/json"
	"errors"
)

// ErrNull is returned when a non-nullable field holds JSON null.
var ErrNull = errors.New("unexpected null")

func isNull(b []byte) bool { return string(b) == "null" }

// Int is a non-nullable JSON integer.
type Int int

// UnmarshalJSON implements json.Unmarshaler.
func (n *Int) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return ErrNull
	}
	var v int
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*n = Int(v)
	return nil
}

// Bool is a non-nullable JSON boolean.
type Bool bool

// UnmarshalJSON implements json.Unmarshaler.
func (f *Bool) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return ErrNull
	}
	var v bool
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*f = Bool(v)
	return nil
}

// Float is a non-nullable JSON number with a fractional part.
type Float float64

// UnmarshalJSON implements json.Unmarshaler.
func (x *Float) UnmarshalJSON(b []byte) error {
	if isNull(b) {
		return ErrNull
	}
	var v float64
	if err := json.Unmarshal(b, &v); err != nil {
		return err
	}
	*x = Float(v)
	return nil
}
