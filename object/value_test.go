package object

import (
	"math"
	"testing"
)

func TestToBoolean(t *testing.T) {
	cases := []struct {
		v    Value
		want bool
	}{
		{Undefined, false},
		{Null, false},
		{Bool(false), false},
		{Bool(true), true},
		{Number(0), false},
		{Number(math.NaN()), false},
		{Number(1), true},
		{String(""), false},
		{String("a"), true},
		{FromObject(New(nil, ClassObject)), true},
	}
	for _, c := range cases {
		if got := c.v.ToBoolean(); got != c.want {
			t.Errorf("ToBoolean(%v): want %v, got %v", c.v, c.want, got)
		}
	}
}

func TestToNumberPrimitives(t *testing.T) {
	if got := Bool(true).ToNumber(); got != 1 {
		t.Errorf("true.ToNumber(): want 1, got %v", got)
	}
	if got := String("  42  ").ToNumber(); got != 42 {
		t.Errorf("%q.ToNumber(): want 42, got %v", "  42  ", got)
	}
	if got := String("0x1F").ToNumber(); got != 31 {
		t.Errorf("%q.ToNumber(): want 31, got %v", "0x1F", got)
	}
	if got := String("Infinity").ToNumber(); !math.IsInf(got, 1) {
		t.Errorf(`"Infinity".ToNumber(): want +Inf, got %v`, got)
	}
	if got := String("").ToNumber(); got != 0 {
		t.Errorf("empty string ToNumber(): want 0, got %v", got)
	}
	if got := String("not a number").ToNumber(); !math.IsNaN(got) {
		t.Errorf("garbage string ToNumber(): want NaN, got %v", got)
	}
}

func TestNumberToString(t *testing.T) {
	cases := map[float64]string{
		0:                "0",
		math.NaN():       "NaN",
		math.Inf(1):      "Infinity",
		math.Inf(-1):     "-Infinity",
		42:               "42",
		3.5:              "3.5",
	}
	for n, want := range cases {
		if got := NumberToString(n); got != want {
			t.Errorf("NumberToString(%v): want %q, got %q", n, want, got)
		}
	}
	if got := NumberToString(-0.0); got != "0" {
		t.Errorf("NumberToString(-0): want %q, got %q", "0", got)
	}
}

func TestSameValueDistinguishesSignedZero(t *testing.T) {
	if SameValue(Number(0), Number(math.Copysign(0, -1))) {
		t.Fatalf("SameValue(+0, -0) should be false")
	}
	if !SameValue(Number(0), Number(0)) {
		t.Fatalf("SameValue(+0, +0) should be true")
	}
}

func TestSameValueTreatsNaNAsEqualToItself(t *testing.T) {
	if !SameValue(Number(math.NaN()), Number(math.NaN())) {
		t.Fatalf("SameValue(NaN, NaN) should be true")
	}
}

func TestFromObjectNilIsUndefined(t *testing.T) {
	v := FromObject(nil)
	if !v.IsUndefined() {
		t.Fatalf("FromObject(nil) should be undefined, got %v", v)
	}
}
