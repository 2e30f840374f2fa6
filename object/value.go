// Package object implements the guest value and object model: primitive
// values, ordered-property objects with prototype chains, accessor
// descriptors, and the Array/Error special cases spec.md §4.3 calls out.
package object

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Kind tags a Value's primitive category.
type Kind uint8

const (
	KindUndefined Kind = iota
	KindNull
	KindBoolean
	KindNumber
	KindString
	KindObject
)

// Value is a guest-language value: one of undefined, null, boolean,
// number, string, or object reference. It is a plain struct (not an
// interface) so it can be copied and compared cheaply, the way otto's
// Value and paserati's Value both avoid boxing primitives behind an
// interface.
type Value struct {
	kind    Kind
	boolean bool
	number  float64
	str     string
	obj     *Object
}

var Undefined = Value{kind: KindUndefined}
var Null = Value{kind: KindNull}

func Bool(b bool) Value    { return Value{kind: KindBoolean, boolean: b} }
func Number(n float64) Value { return Value{kind: KindNumber, number: n} }
func String(s string) Value  { return Value{kind: KindString, str: s} }
func FromObject(o *Object) Value {
	if o == nil {
		return Undefined
	}
	return Value{kind: KindObject, obj: o}
}

func (v Value) Kind() Kind        { return v.kind }
func (v Value) IsUndefined() bool { return v.kind == KindUndefined }
func (v Value) IsNull() bool      { return v.kind == KindNull }
func (v Value) IsNullOrUndefined() bool { return v.kind == KindNull || v.kind == KindUndefined }
func (v Value) IsBoolean() bool   { return v.kind == KindBoolean }
func (v Value) IsNumber() bool    { return v.kind == KindNumber }
func (v Value) IsString() bool    { return v.kind == KindString }
func (v Value) IsObject() bool    { return v.kind == KindObject }

func (v Value) Bool() bool     { return v.boolean }
func (v Value) Num() float64   { return v.number }
func (v Value) Str() string    { return v.str }
func (v Value) Object() *Object { return v.obj }

// ToBoolean implements the ToBoolean abstract operation.
func (v Value) ToBoolean() bool {
	switch v.kind {
	case KindUndefined, KindNull:
		return false
	case KindBoolean:
		return v.boolean
	case KindNumber:
		return v.number != 0 && !math.IsNaN(v.number)
	case KindString:
		return v.str != ""
	default:
		return true
	}
}

// ToNumber implements the primitive half of ToNumber; object-to-primitive
// coercion (calling valueOf/toString) requires the interpreter and is
// handled by interp.ToNumber, which falls back to this for primitives.
func (v Value) ToNumber() float64 {
	switch v.kind {
	case KindUndefined:
		return math.NaN()
	case KindNull:
		return 0
	case KindBoolean:
		if v.boolean {
			return 1
		}
		return 0
	case KindNumber:
		return v.number
	case KindString:
		return stringToNumber(v.str)
	default:
		return math.NaN()
	}
}

func stringToNumber(s string) float64 {
	t := trimJSWhitespace(s)
	if t == "" {
		return 0
	}
	if t == "Infinity" || t == "+Infinity" {
		return math.Inf(1)
	}
	if t == "-Infinity" {
		return math.Inf(-1)
	}
	if len(t) > 2 && t[0] == '0' && (t[1] == 'x' || t[1] == 'X') {
		n, err := strconv.ParseUint(t[2:], 16, 64)
		if err != nil {
			return math.NaN()
		}
		return float64(n)
	}
	n, err := strconv.ParseFloat(t, 64)
	if err != nil {
		return math.NaN()
	}
	return n
}

func trimJSWhitespace(s string) string {
	isWS := func(r byte) bool {
		switch r {
		case ' ', '\t', '\n', '\r', '\v', '\f':
			return true
		}
		return false
	}
	i, j := 0, len(s)
	for i < j && isWS(s[i]) {
		i++
	}
	for j > i && isWS(s[j-1]) {
		j--
	}
	return s[i:j]
}

// ToStringPrimitive implements ToString for non-object values. Objects
// need valueOf/toString dispatch, handled in interp.ToString.
func (v Value) ToStringPrimitive() string {
	switch v.kind {
	case KindUndefined:
		return "undefined"
	case KindNull:
		return "null"
	case KindBoolean:
		if v.boolean {
			return "true"
		}
		return "false"
	case KindNumber:
		return NumberToString(v.number)
	case KindString:
		return v.str
	default:
		return fmt.Sprintf("%v", v.obj)
	}
}

// NumberToString implements the Number::toString abstract operation (base
// 10), matching ES5 semantics for ±0, NaN, Infinity, and the shortest
// round-tripping decimal form.
func NumberToString(n float64) string {
	switch {
	case math.IsNaN(n):
		return "NaN"
	case math.IsInf(n, 1):
		return "Infinity"
	case math.IsInf(n, -1):
		return "-Infinity"
	case n == 0:
		return "0"
	}
	if a := math.Abs(n); a >= 1e-6 && a < 1e21 {
		return strconv.FormatFloat(n, 'f', -1, 64)
	}
	// Go pads the exponent to two digits ("1e-07"); ES5 does not ("1e-7").
	s := strconv.FormatFloat(n, 'e', -1, 64)
	return strings.Replace(strings.Replace(s, "e-0", "e-", 1), "e+0", "e+", 1)
}

// SameValue implements the SameValue algorithm (used by property
// descriptor comparisons), which treats NaN as equal to itself and +0/-0
// as distinct, unlike ===.
func SameValue(a, b Value) bool {
	if a.kind != b.kind {
		return false
	}
	switch a.kind {
	case KindUndefined, KindNull:
		return true
	case KindBoolean:
		return a.boolean == b.boolean
	case KindString:
		return a.str == b.str
	case KindNumber:
		if math.IsNaN(a.number) && math.IsNaN(b.number) {
			return true
		}
		if a.number == 0 && b.number == 0 {
			return math.Signbit(a.number) == math.Signbit(b.number)
		}
		return a.number == b.number
	default:
		return a.obj == b.obj
	}
}
