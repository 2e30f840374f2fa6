package builtins

import (
	"math"
	"strings"
	"unicode/utf16"

	"stepjs/object"
)

func toUTF16(s string) []uint16 { return utf16.Encode([]rune(s)) }
func fromUTF16(u []uint16) string { return string(utf16.Decode(u)) }

// ToUTF16/FromUTF16 expose the same UTF-16 code-unit conversion used
// throughout String.prototype's methods to package interp, which needs it
// for the string-as-primitive-receiver "length"/index magic §4.3 describes.
func ToUTF16(s string) []uint16  { return toUTF16(s) }
func FromUTF16(u []uint16) string { return fromUTF16(u) }

func thisString(inv Invoker, this object.Value) (string, error) {
	if this.IsObject() && this.Object().HasPrimitive {
		return this.Object().PrimitiveValue.Str(), nil
	}
	return inv.ToString(this)
}

func bootstrapString(r *Realm) {
	proto := object.New(r.ObjectProto, object.ClassString)
	proto.HasPrimitive = true
	proto.PrimitiveValue = object.String("")
	r.StringProto = proto

	r.StringCtor = r.NativeFunction("String", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return object.String(""), nil
		}
		s, err := inv.ToString(args[0])
		if err != nil {
			return object.Undefined, err
		}
		return object.String(s), nil
	})
	r.StringCtor.Construct = nativeCallable(func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s := ""
		if len(args) > 0 {
			v, err := inv.ToString(args[0])
			if err != nil {
				return object.Undefined, err
			}
			s = v
		}
		o := object.New(proto, object.ClassString)
		o.HasPrimitive = true
		o.PrimitiveValue = object.String(s)
		o.DefineDataProperty("length", object.Number(float64(len(toUTF16(s)))), false, false, false)
		return object.FromObject(o), nil
	})
	r.StringCtor.DefineDataProperty("prototype", object.FromObject(proto), false, false, false)
	proto.DefineDataProperty("constructor", object.FromObject(r.StringCtor), true, false, true)

	r.method(r.StringCtor, "fromCharCode", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		units := make([]uint16, len(args))
		for i, a := range args {
			n, err := inv.ToNumber(a)
			if err != nil {
				return object.Undefined, err
			}
			units[i] = uint16(int64(n))
		}
		return object.String(fromUTF16(units)), nil
	})

	r.method(proto, "toString", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		return object.String(s), err
	})
	r.method(proto, "valueOf", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		return object.String(s), err
	})

	r.method(proto, "charAt", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return object.Undefined, err
		}
		u := toUTF16(s)
		i, err := inv.ToNumber(arg(args, 0))
		if err != nil {
			return object.Undefined, err
		}
		idx := int(i)
		if idx < 0 || idx >= len(u) {
			return object.String(""), nil
		}
		return object.String(fromUTF16(u[idx : idx+1])), nil
	})

	r.method(proto, "charCodeAt", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return object.Undefined, err
		}
		u := toUTF16(s)
		i, err := inv.ToNumber(arg(args, 0))
		if err != nil {
			return object.Undefined, err
		}
		idx := int(i)
		if idx < 0 || idx >= len(u) {
			return object.Number(math.NaN()), nil
		}
		return object.Number(float64(u[idx])), nil
	})

	r.method(proto, "indexOf", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return object.Undefined, err
		}
		needle, err := inv.ToString(arg(args, 0))
		if err != nil {
			return object.Undefined, err
		}
		return object.Number(float64(indexOfUTF16(s, needle, 0))), nil
	})

	r.method(proto, "lastIndexOf", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return object.Undefined, err
		}
		needle, err := inv.ToString(arg(args, 0))
		if err != nil {
			return object.Undefined, err
		}
		su, nu := toUTF16(s), toUTF16(needle)
		last := -1
		for i := 0; i+len(nu) <= len(su); i++ {
			if equalUnits(su[i:i+len(nu)], nu) {
				last = i
			}
		}
		return object.Number(float64(last)), nil
	})

	r.method(proto, "slice", 2, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return object.Undefined, err
		}
		u := toUTF16(s)
		n := len(u)
		start := normalizeIndex(arg(args, 0), n, 0)
		end := normalizeIndex(arg(args, 1), n, n)
		if start > end {
			return object.String(""), nil
		}
		return object.String(fromUTF16(u[start:end])), nil
	})

	r.method(proto, "substring", 2, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return object.Undefined, err
		}
		u := toUTF16(s)
		n := len(u)
		start := clampIndex(arg(args, 0), n, 0)
		end := clampIndex(arg(args, 1), n, n)
		if start > end {
			start, end = end, start
		}
		return object.String(fromUTF16(u[start:end])), nil
	})

	r.method(proto, "toUpperCase", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		return object.String(strings.ToUpper(s)), err
	})
	r.method(proto, "toLowerCase", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		return object.String(strings.ToLower(s)), err
	})
	r.method(proto, "trim", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		return object.String(strings.TrimSpace(s)), err
	})
	r.method(proto, "concat", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return object.Undefined, err
		}
		var b strings.Builder
		b.WriteString(s)
		for _, a := range args {
			p, err := inv.ToString(a)
			if err != nil {
				return object.Undefined, err
			}
			b.WriteString(p)
		}
		return object.String(b.String()), nil
	})

	r.method(proto, "split", 2, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		s, err := thisString(inv, this)
		if err != nil {
			return object.Undefined, err
		}
		sepArg := arg(args, 0)
		if sepArg.IsUndefined() {
			return object.FromObject(NewArrayObject(r, []object.Value{object.String(s)})), nil
		}
		sep, err := inv.ToString(sepArg)
		if err != nil {
			return object.Undefined, err
		}
		var parts []string
		if sep == "" {
			for _, u := range toUTF16(s) {
				parts = append(parts, fromUTF16([]uint16{u}))
			}
		} else {
			parts = strings.Split(s, sep)
		}
		out := make([]object.Value, len(parts))
		for i, p := range parts {
			out[i] = object.String(p)
		}
		return object.FromObject(NewArrayObject(r, out)), nil
	})

	// replace is a guest-source polyfill (Polyfills in polyfills.go): both
	// the string-pattern and RegExp-pattern forms, with a callback or a
	// $&/$1.../$$ replacement template, are expressed in terms of
	// indexOf/slice and RegExp.prototype.exec rather than native Go.
}

func indexOfUTF16(s, needle string, from int) int {
	su, nu := toUTF16(s), toUTF16(needle)
	for i := from; i+len(nu) <= len(su); i++ {
		if equalUnits(su[i:i+len(nu)], nu) {
			return i
		}
	}
	return -1
}

func equalUnits(a, b []uint16) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func clampIndex(v object.Value, n, def int) int {
	if v.IsUndefined() {
		return def
	}
	f := v.ToNumber()
	i := int(f)
	if i < 0 {
		i = 0
	}
	if i > n {
		i = n
	}
	return i
}
