package builtins

import "stepjs/object"

func bootstrapFunction(r *Realm) {
	proto := r.FunctionProto

	r.method(proto, "call", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		if !this.IsObject() || !this.Object().IsCallable() {
			return object.Undefined, r.ThrowTypeError("Function.prototype.call called on non-callable")
		}
		thisArg := arg(args, 0)
		var rest []object.Value
		if len(args) > 1 {
			rest = args[1:]
		}
		return inv.Call(this.Object(), thisArg, rest)
	})

	r.method(proto, "apply", 2, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		if !this.IsObject() || !this.Object().IsCallable() {
			return object.Undefined, r.ThrowTypeError("Function.prototype.apply called on non-callable")
		}
		thisArg := arg(args, 0)
		argArray := arg(args, 1)
		var rest []object.Value
		if argArray.IsObject() {
			n := object.ArrayLength(argArray.Object())
			for i := uint32(0); i < n; i++ {
				rest = append(rest, arrayGet(argArray.Object(), i))
			}
		}
		return inv.Call(this.Object(), thisArg, rest)
	})

	// bind is a guest-source polyfill (Polyfills in polyfills.go): the
	// classic MDN shim, built from apply/instanceof/a throwaway prototype.

	r.method(proto, "toString", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		name := "anonymous"
		if this.IsObject() {
			if nd := this.Object().GetOwnProperty("name"); nd != nil {
				name = nd.Value.Str()
			}
		}
		return object.String("function " + name + "() { [native or guest code] }"), nil
	})

	r.FunctionCtor = r.NativeFunction("Function", 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Undefined, r.ThrowTypeError("Function constructor from source text is not supported")
	})
	r.FunctionCtor.DefineDataProperty("prototype", object.FromObject(proto), false, false, false)
	proto.DefineDataProperty("constructor", object.FromObject(r.FunctionCtor), true, false, true)
}
