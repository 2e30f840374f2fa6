package object

import (
	"strconv"
	"testing"
)

func TestArrayIndexGrammar(t *testing.T) {
	cases := []struct {
		name string
		want uint32
		ok   bool
	}{
		{"0", 0, true},
		{"1", 1, true},
		{"42", 42, true},
		{"", 0, false},
		{"01", 0, false},  // leading zero
		{"-1", 0, false},
		{"4294967294", 4294967294, true},
		{"4294967295", 0, false}, // 2^32-1 is not a valid array index
		{"abc", 0, false},
	}
	for _, c := range cases {
		got, ok := ArrayIndex(c.name)
		if ok != c.ok || (ok && got != c.want) {
			t.Errorf("ArrayIndex(%q): want (%d, %v), got (%d, %v)", c.name, c.want, c.ok, got, ok)
		}
	}
}

func TestBumpLengthForIndexExtendsOnlyWhenNeeded(t *testing.T) {
	arr := NewArray(nil, 2)
	BumpLengthForIndex(arr, 0)
	if ArrayLength(arr) != 2 {
		t.Fatalf("want length unchanged at 2, got %d", ArrayLength(arr))
	}
	BumpLengthForIndex(arr, 5)
	if ArrayLength(arr) != 6 {
		t.Fatalf("want length bumped to 6, got %d", ArrayLength(arr))
	}
}

func TestSetArrayLengthTruncatesIndices(t *testing.T) {
	arr := NewArray(nil, 0)
	for i := uint32(0); i < 5; i++ {
		arr.DefineDataProperty(strconv.FormatUint(uint64(i), 10), Number(float64(i)), true, true, true)
	}
	BumpLengthForIndex(arr, 4)

	actual, ok := SetArrayLength(arr, 2)
	if !ok || actual != 2 {
		t.Fatalf("want truncation to succeed at length 2, got (%d, %v)", actual, ok)
	}
	for i := uint32(2); i < 5; i++ {
		if arr.GetOwnProperty(strconv.FormatUint(uint64(i), 10)) != nil {
			t.Fatalf("index %d should have been deleted by truncation", i)
		}
	}
	for i := uint32(0); i < 2; i++ {
		if arr.GetOwnProperty(strconv.FormatUint(uint64(i), 10)) == nil {
			t.Fatalf("index %d should survive truncation", i)
		}
	}
}

func TestSetArrayLengthStopsAtNonConfigurableIndex(t *testing.T) {
	arr := NewArray(nil, 0)
	arr.DefineDataProperty("0", Number(0), true, true, true)
	arr.DefineDataProperty("1", Number(1), true, true, false) // non-configurable
	arr.DefineDataProperty("2", Number(2), true, true, true)
	BumpLengthForIndex(arr, 2)

	actual, ok := SetArrayLength(arr, 0)
	if ok {
		t.Fatalf("truncation past a non-configurable index should report failure")
	}
	if actual != 2 {
		t.Fatalf("want length to settle just past the non-configurable index (2), got %d", actual)
	}
	if arr.GetOwnProperty("1") == nil {
		t.Fatalf("non-configurable index 1 must survive")
	}
}
