package builtins

import (
	"math"
	"strconv"

	"stepjs/object"
)

func thisNumber(inv Invoker, this object.Value) (float64, error) {
	if this.IsObject() && this.Object().HasPrimitive {
		return this.Object().PrimitiveValue.Num(), nil
	}
	return inv.ToNumber(this)
}

func bootstrapNumber(r *Realm) {
	proto := object.New(r.ObjectProto, object.ClassNumber)
	proto.HasPrimitive = true
	proto.PrimitiveValue = object.Number(0)
	r.NumberProto = proto

	r.NumberCtor = r.NativeFunction("Number", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		if len(args) == 0 {
			return object.Number(0), nil
		}
		n, err := inv.ToNumber(args[0])
		return object.Number(n), err
	})
	r.NumberCtor.Construct = nativeCallable(func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		n := 0.0
		if len(args) > 0 {
			v, err := inv.ToNumber(args[0])
			if err != nil {
				return object.Undefined, err
			}
			n = v
		}
		o := object.New(proto, object.ClassNumber)
		o.HasPrimitive = true
		o.PrimitiveValue = object.Number(n)
		return object.FromObject(o), nil
	})
	r.NumberCtor.DefineDataProperty("prototype", object.FromObject(proto), false, false, false)
	proto.DefineDataProperty("constructor", object.FromObject(r.NumberCtor), true, false, true)
	r.NumberCtor.DefineDataProperty("MAX_VALUE", object.Number(1.7976931348623157e308), false, false, false)
	r.NumberCtor.DefineDataProperty("MIN_VALUE", object.Number(5e-324), false, false, false)
	r.NumberCtor.DefineDataProperty("NaN", object.Number(math.NaN()), false, false, false)
	r.NumberCtor.DefineDataProperty("POSITIVE_INFINITY", object.Number(math.Inf(1)), false, false, false)
	r.NumberCtor.DefineDataProperty("NEGATIVE_INFINITY", object.Number(math.Inf(-1)), false, false, false)

	r.method(proto, "valueOf", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		n, err := thisNumber(inv, this)
		return object.Number(n), err
	})
	r.method(proto, "toString", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		n, err := thisNumber(inv, this)
		if err != nil {
			return object.Undefined, err
		}
		radix := 10
		if len(args) > 0 && !args[0].IsUndefined() {
			f, err := inv.ToNumber(args[0])
			if err != nil {
				return object.Undefined, err
			}
			radix = int(f)
		}
		if radix == 10 {
			return object.String(object.NumberToString(n)), nil
		}
		return object.String(strconv.FormatInt(int64(n), radix)), nil
	})
}
