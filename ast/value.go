package ast

import (
	"bytes"
	"encoding/hex"
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Kind tags the closed set of runtime value types.
type Kind uint8

const (
	KindInteger Kind = iota
	KindBoolean
	KindText
	KindIPv4
	KindHexBlob
)

func (k Kind) String() string {
	switch k {
	case KindInteger:
		return "integer"
	case KindBoolean:
		return "boolean"
	case KindText:
		return "text"
	case KindIPv4:
		return "ipv4"
	case KindHexBlob:
		return "hex"
	default:
		return "unknown"
	}
}

// ErrNoByteForm is returned by Bytes for values that have no canonical
// byte representation (integers, booleans, and IPv4 literals whose
// octets fall outside 0-255).
var ErrNoByteForm = errors.New("no canonical byte form")

// ErrIncomparable is returned by Equal when the two operands cannot be
// brought to a common representation.
var ErrIncomparable = errors.New("incomparable values")

// Value is a tagged union over the five literal kinds. Values are
// immutable once constructed; every operation yields a new Value.
type Value struct {
	kind   Kind
	num    int64
	b      bool
	data   []byte
	octets [4]int
}

// NewInteger builds an integer value.
func NewInteger(n int64) Value {
	return Value{kind: KindInteger, num: n}
}

// NewBoolean builds a boolean value.
func NewBoolean(b bool) Value {
	return Value{kind: KindBoolean, b: b}
}

// NewText builds a text value over a copy of b.
func NewText(b []byte) Value {
	return Value{kind: KindText, data: bytes.Clone(b)}
}

// NewHexBlob builds a hex blob value over a copy of b. An empty blob is
// legal and denotes a zero-length byte sequence.
func NewHexBlob(b []byte) Value {
	return Value{kind: KindHexBlob, data: bytes.Clone(b)}
}

// NewIPv4 builds an IPv4 value from four octets. The grammar does not
// range-check octets, so values outside 0-255 are accepted here but
// leave the value without a canonical byte form; any later use in a
// comparison then fails at evaluation time.
func NewIPv4(octets [4]int) Value {
	v := Value{kind: KindIPv4, octets: octets}
	for _, o := range octets {
		if o < 0 || o > 255 {
			return v
		}
	}
	v.data = []byte{byte(octets[0]), byte(octets[1]), byte(octets[2]), byte(octets[3])}
	return v
}

// Kind returns the value's type tag.
func (v Value) Kind() Kind { return v.kind }

// Int returns the integer payload. Only meaningful for KindInteger.
func (v Value) Int() int64 { return v.num }

// Bool returns the boolean payload. Only meaningful for KindBoolean.
func (v Value) Bool() bool { return v.b }

// Bytes returns the canonical byte form used for cross-type comparison:
// text content, decoded hex bytes, or the 4 address bytes. Callers must
// not modify the returned slice.
func (v Value) Bytes() ([]byte, error) {
	switch v.kind {
	case KindText, KindHexBlob:
		return v.data, nil
	case KindIPv4:
		if v.data == nil {
			return nil, fmt.Errorf("%w: ipv4 octet out of range in %s", ErrNoByteForm, v)
		}
		return v.data, nil
	default:
		return nil, fmt.Errorf("%w: %s", ErrNoByteForm, v.kind)
	}
}

// Equal compares two values. Integers compare numerically, booleans
// structurally, and the byte-like kinds by their canonical byte forms.
// Mixing booleans or integers with byte-like kinds is an error.
func (v Value) Equal(o Value) (bool, error) {
	switch {
	case v.kind == KindInteger && o.kind == KindInteger:
		return v.num == o.num, nil
	case v.kind == KindBoolean && o.kind == KindBoolean:
		return v.b == o.b, nil
	case v.kind == KindBoolean || o.kind == KindBoolean,
		v.kind == KindInteger || o.kind == KindInteger:
		return false, fmt.Errorf("%w: %s and %s", ErrIncomparable, v.kind, o.kind)
	}
	a, err := v.Bytes()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrIncomparable, err)
	}
	b, err := o.Bytes()
	if err != nil {
		return false, fmt.Errorf("%w: %v", ErrIncomparable, err)
	}
	return bytes.Equal(a, b), nil
}

// String renders the value back in its literal syntax.
func (v Value) String() string {
	switch v.kind {
	case KindInteger:
		return strconv.FormatInt(v.num, 10)
	case KindBoolean:
		if v.b {
			return "true"
		}
		return "false"
	case KindText:
		return "'" + strings.ReplaceAll(string(v.data), "'", "''") + "'"
	case KindIPv4:
		return fmt.Sprintf("%d.%d.%d.%d", v.octets[0], v.octets[1], v.octets[2], v.octets[3])
	case KindHexBlob:
		return "0x" + hex.EncodeToString(v.data)
	default:
		return "<invalid>"
	}
}
