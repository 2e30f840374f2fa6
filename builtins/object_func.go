package builtins

import "stepjs/object"

func bootstrapObject(r *Realm) {
	proto := r.ObjectProto

	r.method(proto, "toString", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		if this.IsUndefined() {
			return object.String("[object Undefined]"), nil
		}
		if this.IsNull() {
			return object.String("[object Null]"), nil
		}
		class := "Object"
		if this.IsObject() {
			class = string(this.Object().Class)
		}
		return object.String("[object " + class + "]"), nil
	})

	// toLocaleString is a guest-source polyfill (Polyfills in polyfills.go):
	// the ES5 default just calls this.toString().

	r.method(proto, "valueOf", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return this, nil
	})

	r.method(proto, "hasOwnProperty", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		if !this.IsObject() {
			return object.Bool(false), nil
		}
		name, err := inv.ToString(arg(args, 0))
		if err != nil {
			return object.Undefined, err
		}
		return object.Bool(this.Object().GetOwnProperty(name) != nil), nil
	})

	r.method(proto, "isPrototypeOf", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		if !v.IsObject() || !this.IsObject() {
			return object.Bool(false), nil
		}
		for cur := v.Object().Proto; cur != nil; cur = cur.Proto {
			if cur == this.Object() {
				return object.Bool(true), nil
			}
		}
		return object.Bool(false), nil
	})

	r.method(proto, "propertyIsEnumerable", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		if !this.IsObject() {
			return object.Bool(false), nil
		}
		name, err := inv.ToString(arg(args, 0))
		if err != nil {
			return object.Undefined, err
		}
		d := this.Object().GetOwnProperty(name)
		return object.Bool(d != nil && d.Enumerable), nil
	})

	r.ObjectCtor = r.NativeFunction("Object", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		a := arg(args, 0)
		if a.IsNullOrUndefined() {
			return object.FromObject(r.NewObject()), nil
		}
		if a.IsObject() {
			return a, nil
		}
		return a, nil
	})
	r.ObjectCtor.Construct = r.ObjectCtor.Call
	r.ObjectCtor.DefineDataProperty("prototype", object.FromObject(proto), false, false, false)
	proto.DefineDataProperty("constructor", object.FromObject(r.ObjectCtor), true, false, true)

	r.method(r.ObjectCtor, "keys", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		if !v.IsObject() {
			return object.Undefined, r.ThrowTypeError("Object.keys called on non-object")
		}
		keys := v.Object().OwnKeys()
		arr := NewArrayObject(r, nil)
		i := 0
		for _, k := range keys {
			d := v.Object().GetOwnProperty(k)
			if d != nil && d.Enumerable {
				ArrayPush(arr, object.String(k))
				i++
			}
		}
		return object.FromObject(arr), nil
	})

	r.method(r.ObjectCtor, "getPrototypeOf", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		v := arg(args, 0)
		if !v.IsObject() {
			return object.Undefined, r.ThrowTypeError("Object.getPrototypeOf called on non-object")
		}
		if v.Object().Proto == nil {
			return object.Null, nil
		}
		return object.FromObject(v.Object().Proto), nil
	})

	// create builds bare proto-linked objects; the properties argument
	// (15.2.3.5) is applied by a guest-source wrapper in polyfills.go that
	// layers Object.defineProperties on top of this.
	r.method(r.ObjectCtor, "create", 2, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		protoArg := arg(args, 0)
		var proto *object.Object
		if protoArg.IsObject() {
			proto = protoArg.Object()
		} else if !protoArg.IsNull() {
			return object.Undefined, r.ThrowTypeError("Object.create proto must be an object or null")
		}
		return object.FromObject(object.New(proto, object.ClassObject)), nil
	})

	// defineProperty implements 15.2.3.6's ToPropertyDescriptor/DefineOwnProperty
	// pair in the common (non-merging) case: writable/enumerable/configurable
	// default to false when absent, matching a freshly defined property.
	// Object.defineProperties (polyfills.go) is built on top of this.
	r.method(r.ObjectCtor, "defineProperty", 3, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		target := arg(args, 0)
		if !target.IsObject() {
			return object.Undefined, r.ThrowTypeError("Object.defineProperty called on non-object")
		}
		name, err := inv.ToString(arg(args, 1))
		if err != nil {
			return object.Undefined, err
		}
		descArg := arg(args, 2)
		if !descArg.IsObject() {
			return object.Undefined, r.ThrowTypeError("property descriptor must be an object")
		}
		if err := applyPropertyDescriptor(r, target.Object(), name, descArg.Object()); err != nil {
			return object.Undefined, err
		}
		return target, nil
	})
}

// applyPropertyDescriptor implements 15.2.3.6's ToPropertyDescriptor validation:
// a descriptor mixing value/writable (the data half) with get/set (the
// accessor half) is invalid and must throw, not silently pick one half and
// drop the other.
func applyPropertyDescriptor(r *Realm, o *object.Object, name string, desc *object.Object) error {
	hasGet := desc.GetOwnProperty("get") != nil
	hasSet := desc.GetOwnProperty("set") != nil
	hasValue := desc.GetOwnProperty("value") != nil
	hasWritable := desc.GetOwnProperty("writable") != nil
	if (hasGet || hasSet) && (hasValue || hasWritable) {
		return r.ThrowTypeError("property descriptor cannot specify both accessors and a value or writable attribute")
	}
	if hasGet || hasSet {
		var get, set *object.Object
		if d := desc.GetOwnProperty("get"); d != nil && d.Value.IsObject() {
			get = d.Value.Object()
		}
		if d := desc.GetOwnProperty("set"); d != nil && d.Value.IsObject() {
			set = d.Value.Object()
		}
		o.DefineAccessorProperty(name, get, set, descBool(desc, "enumerable"), descBool(desc, "configurable"))
		return nil
	}
	value := object.Undefined
	if d := desc.GetOwnProperty("value"); d != nil {
		value = d.Value
	}
	o.DefineDataProperty(name, value, descBool(desc, "writable"), descBool(desc, "enumerable"), descBool(desc, "configurable"))
	return nil
}

func descBool(desc *object.Object, name string) bool {
	d := desc.GetOwnProperty(name)
	return d != nil && d.Value.ToBoolean()
}
