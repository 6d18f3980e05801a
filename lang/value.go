package lang

import (
	"fmt"
	"log/slog"
	"math"
	"reflect"
	"strconv"
)

// Type is the runtime type tag of a [Value].
type Type int

const (
	TypeNil Type = iota
	TypeBool
	TypeNumber
	TypeText
)

// String returns the name used in diagnostics.
func (t Type) String() string {
	switch t {
	case TypeNil:
		return "nil"
	case TypeBool:
		return "bool"
	case TypeNumber:
		return "number"
	case TypeText:
		return "string"
	default:
		return "Type(" + strconv.Itoa(int(t)) + ")"
	}
}

// Value is a runtime value. The set of implementations is closed:
// [Number], [Text], [Bool] and [Nil].
type Value interface {
	// Type returns the type tag.
	Type() Type
	// String returns the canonical text printed by a print statement.
	String() string

	value()
}

// Number is a 64-bit floating point value.
type Number float64

// Text is a string value.
type Text string

// Bool is a boolean value.
type Bool bool

// Nil is the absence of a value.
type Nil struct{}

func (Number) Type() Type { return TypeNumber }
func (Text) Type() Type   { return TypeText }
func (Bool) Type() Type   { return TypeBool }
func (Nil) Type() Type    { return TypeNil }

func (Number) value() {}
func (Text) value()   {}
func (Bool) value()   {}
func (Nil) value()    {}

// String returns the shortest decimal that round-trips, without an exponent
// and without a trailing ".0" on integers.
func (n Number) String() string {
	f := float64(n)

	switch {
	case math.IsInf(f, 1):
		return "inf"
	case math.IsInf(f, -1):
		return "-inf"
	case math.IsNaN(f):
		return "nan"
	}

	return strconv.FormatFloat(f, 'f', -1, 64)
}

func (t Text) String() string { return string(t) }

func (b Bool) String() string { return strconv.FormatBool(bool(b)) }

func (Nil) String() string { return "nil" }

// LogValue implements slog.LogValuer.
func (n Number) LogValue() slog.Value { return slog.Float64Value(float64(n)) }

// LogValue implements slog.LogValuer.
func (t Text) LogValue() slog.Value { return slog.StringValue(string(t)) }

// LogValue implements slog.LogValuer.
func (b Bool) LogValue() slog.Value { return slog.BoolValue(bool(b)) }

// LogValue implements slog.LogValuer.
func (Nil) LogValue() slog.Value { return slog.StringValue("nil") }

// IsFalsy reports whether v counts as false in a condition: nil, false, the
// number 0 and the empty string. A nil interface is treated as Nil.
func IsFalsy(v Value) bool {
	switch v := v.(type) {
	case nil, Nil:
		return true
	case Bool:
		return !bool(v)
	case Number:
		return v == 0
	case Text:
		return v == ""
	default:
		return false
	}
}

// Equal reports structural equality: both the type and the payload must
// match. Numbers follow IEEE 754, so NaN is not equal to itself.
func Equal(a, b Value) bool {
	if a == nil {
		a = Nil{}
	}

	if b == nil {
		b = Nil{}
	}

	return a == b
}

// Native converts v to the plain Go value used by host integrations:
// float64, string, bool or nil.
func Native(v Value) any {
	switch v := v.(type) {
	case Number:
		return float64(v)
	case Text:
		return string(v)
	case Bool:
		return bool(v)
	default:
		return nil
	}
}

// FromNative converts a Go value produced by a host integration into a
// [Value]. Integers and floats become [Number], strings [Text], booleans
// [Bool] and nil [Nil]; anything else is an error wrapping
// [ErrInvalidValueType].
func FromNative(x any) (Value, error) {
	switch x := x.(type) {
	case nil:
		return Nil{}, nil
	case Value:
		return x, nil
	case string:
		return Text(x), nil
	case fmt.Stringer:
		return Text(x.String()), nil
	case bool:
		return Bool(x), nil
	}

	rv := reflect.ValueOf(x)

	switch rv.Kind() {
	case reflect.Int, reflect.Int8, reflect.Int16, reflect.Int32, reflect.Int64:
		return Number(rv.Int()), nil
	case reflect.Uint, reflect.Uint8, reflect.Uint16, reflect.Uint32,
		reflect.Uint64, reflect.Uintptr:
		return Number(rv.Uint()), nil
	case reflect.Float32, reflect.Float64:
		return Number(rv.Float()), nil
	case reflect.String:
		return Text(rv.String()), nil
	case reflect.Bool:
		return Bool(rv.Bool()), nil
	default:
		return nil, ErrInvalidValueType.Wrapf("%T", x)
	}
}
