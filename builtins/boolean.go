package builtins

import "stepjs/object"

func bootstrapBoolean(r *Realm) {
	proto := object.New(r.ObjectProto, object.ClassBoolean)
	proto.HasPrimitive = true
	proto.PrimitiveValue = object.Bool(false)
	r.BooleanProto = proto

	r.BooleanCtor = r.NativeFunction("Boolean", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Bool(arg(args, 0).ToBoolean()), nil
	})
	r.BooleanCtor.Construct = nativeCallable(func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		o := object.New(proto, object.ClassBoolean)
		o.HasPrimitive = true
		o.PrimitiveValue = object.Bool(arg(args, 0).ToBoolean())
		return object.FromObject(o), nil
	})
	r.BooleanCtor.DefineDataProperty("prototype", object.FromObject(proto), false, false, false)
	proto.DefineDataProperty("constructor", object.FromObject(r.BooleanCtor), true, false, true)

	r.method(proto, "valueOf", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		if this.IsObject() && this.Object().HasPrimitive {
			return this.Object().PrimitiveValue, nil
		}
		return object.Bool(this.ToBoolean()), nil
	})
	r.method(proto, "toString", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		b := this.ToBoolean()
		if this.IsObject() && this.Object().HasPrimitive {
			b = this.Object().PrimitiveValue.Bool()
		}
		if b {
			return object.String("true"), nil
		}
		return object.String("false"), nil
	})
}
