package object

import (
	"strconv"
)

// NewArray creates an Array instance with the given proto and initial
// length, per the Array length/index coupling spec.md §4.3 calls out:
// length is a data property whose Set truncates or extends the index
// range, and every integer-index property assignment bumps length to
// index+1 when it would otherwise fall out of range.
func NewArray(proto *Object, length uint32) *Object {
	o := New(proto, ClassArray)
	o.DefineDataProperty("length", Number(float64(length)), true, false, false)
	return o
}

// ArrayIndex parses name as a valid array index ("0", "1", ... "4294967294"),
// matching the ToUint32 array-index grammar (no leading zeros, no sign).
func ArrayIndex(name string) (uint32, bool) {
	if name == "" {
		return 0, false
	}
	if name == "0" {
		return 0, true
	}
	if name[0] < '1' || name[0] > '9' {
		return 0, false
	}
	for _, c := range name {
		if c < '0' || c > '9' {
			return 0, false
		}
	}
	n, err := strconv.ParseUint(name, 10, 32)
	if err != nil || n > 4294967294 {
		return 0, false
	}
	return uint32(n), true
}

func ArrayLength(o *Object) uint32 {
	d := o.GetOwnProperty("length")
	if d == nil {
		return 0
	}
	return uint32(d.Value.ToNumber())
}

// SetArrayLength implements the length-property Put-time truncation
// algorithm: shrinking length deletes index properties at or above the new
// length, stopping at (and reporting) the first non-configurable index it
// could not delete - the array's length then sits just past that index,
// per 15.4.5.1.
func SetArrayLength(o *Object, newLen uint32) (actual uint32, ok bool) {
	oldLen := ArrayLength(o)
	if newLen >= oldLen {
		o.DefineDataProperty("length", Number(float64(newLen)), true, false, false)
		return newLen, true
	}
	for idx := oldLen; idx > newLen; idx-- {
		key := strconv.FormatUint(uint64(idx-1), 10)
		if _, exists := o.props[key]; exists {
			if !o.DeleteOwn(key) {
				o.DefineDataProperty("length", Number(float64(idx)), true, false, false)
				return idx, false
			}
		}
	}
	o.DefineDataProperty("length", Number(float64(newLen)), true, false, false)
	return newLen, true
}

// BumpLengthForIndex extends length to index+1 if the array's current
// length doesn't already cover it - the side effect of assigning
// arr[index] = v when index >= length.
func BumpLengthForIndex(o *Object, index uint32) {
	if index >= ArrayLength(o) {
		o.DefineDataProperty("length", Number(float64(index)+1), true, false, false)
	}
}
