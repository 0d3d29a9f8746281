package lang

import (
	"math"
	"math/big"
	"strings"
)

// ValueType indicates the variant held by a [Value].
type ValueType int

const (
	// TypeInteger is an arbitrary-precision signed integer.
	TypeInteger ValueType = iota

	// TypeArray is an ordered, possibly empty, sequence of values.
	TypeArray
)

// String returns the human-readable name of a ValueType.
func (t ValueType) String() string {
	switch t {
	case TypeInteger:
		return "integer"
	case TypeArray:
		return "array"
	default:
		return "unknown"
	}
}

// Value is the result of evaluating a value expression.
//
// Values are immutable once constructed. Int is set only when Type is
// TypeInteger; Elems is used only when Type is TypeArray.
type Value struct {
	Type  ValueType
	Int   *big.Int
	Elems []Value
}

// Integer returns an integer value.
func Integer(n int64) Value {
	return Value{Type: TypeInteger, Int: big.NewInt(n)}
}

// BigInteger returns an integer value holding a copy of n.
func BigInteger(n *big.Int) Value {
	return Value{Type: TypeInteger, Int: new(big.Int).Set(n)}
}

// Array returns an array value of the given elements.
func Array(elems ...Value) Value {
	if elems == nil {
		elems = []Value{}
	}

	return Value{Type: TypeArray, Elems: elems}
}

// IsInteger reports whether v is an integer.
func (v Value) IsInteger() bool { return v.Type == TypeInteger }

// IsArray reports whether v is an array.
func (v Value) IsArray() bool { return v.Type == TypeArray }

// Equal reports whether v and w are structurally identical.
// Arrays are equal when they have equal elements in the same order.
func (v Value) Equal(w Value) bool {
	if v.Type != w.Type {
		return false
	}

	switch v.Type {
	case TypeInteger:
		if v.Int == nil || w.Int == nil {
			return v.Int == w.Int
		}

		return v.Int.Cmp(w.Int) == 0

	case TypeArray:
		if len(v.Elems) != len(w.Elems) {
			return false
		}

		for i := range v.Elems {
			if !v.Elems[i].Equal(w.Elems[i]) {
				return false
			}
		}

		return true
	}

	return false
}

// String renders v with decimal integers, e.g. [8, 16, [0]].
func (v Value) String() string {
	var b strings.Builder

	v.write(&b, func(n *big.Int) string { return n.String() })

	return b.String()
}

// Octal renders v in konf source syntax. Non-negative integers are written
// as octal literals; negative integers as a subtraction from zero, since the
// language has no negative literals.
func (v Value) Octal() string {
	var b strings.Builder

	v.write(&b, octal)

	return b.String()
}

func (v Value) write(b *strings.Builder, num func(*big.Int) string) {
	switch v.Type {
	case TypeInteger:
		if v.Int == nil {
			b.WriteString(num(new(big.Int)))
		} else {
			b.WriteString(num(v.Int))
		}

	case TypeArray:
		b.WriteByte('[')

		for i, e := range v.Elems {
			if i > 0 {
				b.WriteString(", ")
			}

			e.write(b, num)
		}

		b.WriteByte(']')
	}
}

func octal(n *big.Int) string {
	if n.Sign() < 0 {
		return "^(0o0 - 0o" + new(big.Int).Neg(n).Text(8) + ")"
	}

	return "0o" + n.Text(8)
}

// Int64 returns v as an int64 if v is an integer within range.
func (v Value) Int64() (int64, bool) {
	if v.Type != TypeInteger || v.Int == nil {
		return 0, v.Type == TypeInteger
	}

	if !v.Int.IsInt64() {
		return 0, false
	}

	return v.Int.Int64(), true
}

// fitsInt reports whether v is an integer within the range of int.
func (v Value) fitsInt() bool {
	n, ok := v.Int64()

	return ok && n >= math.MinInt && n <= math.MaxInt
}
