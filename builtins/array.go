package builtins

import (
	"strconv"
	"strings"

	"stepjs/object"
)

// NewArrayObject creates a guest array pre-populated with elems.
func NewArrayObject(r *Realm, elems []object.Value) *object.Object {
	a := object.NewArray(r.ArrayProto, uint32(len(elems)))
	for i, v := range elems {
		a.DefineDataProperty(strconv.Itoa(i), v, true, true, true)
	}
	return a
}

// ArrayPush appends v as a new own index property and bumps length.
func ArrayPush(a *object.Object, v object.Value) {
	idx := object.ArrayLength(a)
	a.DefineDataProperty(strconv.FormatUint(uint64(idx), 10), v, true, true, true)
	object.BumpLengthForIndex(a, idx)
}

func arrayGet(a *object.Object, i uint32) object.Value {
	d := a.GetOwnProperty(strconv.FormatUint(uint64(i), 10))
	if d == nil {
		return object.Undefined
	}
	return d.Value
}

func bootstrapArray(r *Realm) {
	proto := object.NewArray(r.ObjectProto, 0)
	r.ArrayProto = proto

	r.ArrayCtor = r.NativeFunction("Array", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 1 && args[0].IsNumber() {
			n := args[0].Num()
			if n < 0 || n != float64(uint32(n)) {
				return object.Undefined, r.ThrowRangeError("Invalid array length")
			}
			return object.FromObject(object.NewArray(proto, uint32(n))), nil
		}
		return object.FromObject(NewArrayObject(r, args)), nil
	})
	r.ArrayCtor.Construct = r.ArrayCtor.Call
	r.ArrayCtor.DefineDataProperty("prototype", object.FromObject(proto), false, false, false)
	proto.DefineDataProperty("constructor", object.FromObject(r.ArrayCtor), true, false, true)

	r.method(r.ArrayCtor, "isArray", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		return object.Bool(v.IsObject() && v.Object().Class == object.ClassArray), nil
	})

	r.method(proto, "push", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		a := this.Object()
		for _, v := range args {
			ArrayPush(a, v)
		}
		return object.Number(float64(object.ArrayLength(a))), nil
	})

	r.method(proto, "pop", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		a := this.Object()
		n := object.ArrayLength(a)
		if n == 0 {
			return object.Undefined, nil
		}
		v := arrayGet(a, n-1)
		a.DeleteOwn(strconv.FormatUint(uint64(n-1), 10))
		object.SetArrayLength(a, n-1)
		return v, nil
	})

	r.method(proto, "shift", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		a := this.Object()
		n := object.ArrayLength(a)
		if n == 0 {
			return object.Undefined, nil
		}
		first := arrayGet(a, 0)
		for i := uint32(1); i < n; i++ {
			key, prev := strconv.FormatUint(uint64(i), 10), strconv.FormatUint(uint64(i-1), 10)
			if d := a.GetOwnProperty(key); d != nil {
				a.DefineDataProperty(prev, d.Value, true, true, true)
			} else {
				a.DeleteOwn(prev)
			}
		}
		a.DeleteOwn(strconv.FormatUint(uint64(n-1), 10))
		object.SetArrayLength(a, n-1)
		return first, nil
	})

	r.method(proto, "unshift", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		a := this.Object()
		n := object.ArrayLength(a)
		shift := uint32(len(args))
		for i := n; i > 0; i-- {
			key, dst := strconv.FormatUint(uint64(i-1), 10), strconv.FormatUint(uint64(i-1+shift), 10)
			if d := a.GetOwnProperty(key); d != nil {
				a.DefineDataProperty(dst, d.Value, true, true, true)
			}
		}
		for i, v := range args {
			a.DefineDataProperty(strconv.Itoa(i), v, true, true, true)
		}
		object.SetArrayLength(a, n+shift)
		return object.Number(float64(n + shift)), nil
	})

	r.method(proto, "slice", 2, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		a := this.Object()
		n := int(object.ArrayLength(a))
		start := normalizeIndex(arg(args, 0), n, 0)
		end := normalizeIndex(arg(args, 1), n, n)
		var out []object.Value
		for i := start; i < end; i++ {
			out = append(out, arrayGet(a, uint32(i)))
		}
		return object.FromObject(NewArrayObject(r, out)), nil
	})

	r.method(proto, "concat", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		var out []object.Value
		appendAll := func(v object.Value) {
			if v.IsObject() && v.Object().Class == object.ClassArray {
				n := object.ArrayLength(v.Object())
				for i := uint32(0); i < n; i++ {
					out = append(out, arrayGet(v.Object(), i))
				}
				return
			}
			out = append(out, v)
		}
		appendAll(this)
		for _, a := range args {
			appendAll(a)
		}
		return object.FromObject(NewArrayObject(r, out)), nil
	})

	r.method(proto, "join", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		sep := ","
		if len(args) > 0 && !args[0].IsUndefined() {
			s, err := inv.ToString(args[0])
			if err != nil {
				return object.Undefined, err
			}
			sep = s
		}
		a := this.Object()
		n := object.ArrayLength(a)
		parts := make([]string, n)
		for i := uint32(0); i < n; i++ {
			v := arrayGet(a, i)
			if v.IsNullOrUndefined() {
				parts[i] = ""
				continue
			}
			s, err := inv.ToString(v)
			if err != nil {
				return object.Undefined, err
			}
			parts[i] = s
		}
		return object.String(strings.Join(parts, sep)), nil
	})

	r.method(proto, "toString", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		join := proto.GetOwnProperty("join").Value.Object()
		return inv.Call(join, this, nil)
	})

	r.method(proto, "indexOf", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		a := this.Object()
		n := object.ArrayLength(a)
		target := arg(args, 0)
		start := 0
		if len(args) > 1 {
			f, err := inv.ToNumber(args[1])
			if err != nil {
				return object.Undefined, err
			}
			start = int(f)
			if start < 0 {
				start += int(n)
			}
		}
		for i := start; i >= 0 && i < int(n); i++ {
			if strictEquals(arrayGet(a, uint32(i)), target) {
				return object.Number(float64(i)), nil
			}
		}
		return object.Number(-1), nil
	})

	// forEach/map/filter/some/every/reduce/reduceRight are guest-source
	// polyfills (Polyfills in polyfills.go): each is just a loop calling
	// back into guest code, nothing a native Go method does better.

	r.method(proto, "reverse", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		a := this.Object()
		n := int(object.ArrayLength(a))
		for i, j := 0, n-1; i < j; i, j = i+1, j-1 {
			vi, vj := arrayGet(a, uint32(i)), arrayGet(a, uint32(j))
			a.DefineDataProperty(strconv.Itoa(i), vj, true, true, true)
			a.DefineDataProperty(strconv.Itoa(j), vi, true, true, true)
		}
		return this, nil
	})
}

func normalizeIndex(v object.Value, n, def int) int {
	if v.IsUndefined() {
		return def
	}
	f := v.ToNumber()
	i := int(f)
	if i < 0 {
		i += n
	}
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	return i
}

func strictEquals(a, b object.Value) bool {
	if a.Kind() != b.Kind() {
		return false
	}
	switch a.Kind() {
	case object.KindUndefined, object.KindNull:
		return true
	case object.KindBoolean:
		return a.Bool() == b.Bool()
	case object.KindNumber:
		return a.Num() == b.Num()
	case object.KindString:
		return a.Str() == b.Str()
	default:
		return a.Object() == b.Object()
	}
}
