package builtins

import "stepjs/object"

var errorKinds = []string{"TypeError", "RangeError", "ReferenceError", "SyntaxError", "EvalError", "URIError"}

func bootstrapErrors(r *Realm) {
	r.ErrorProto = object.New(r.ObjectProto, object.ClassError)
	r.ErrorProto.DefineDataProperty("name", object.String("Error"), true, false, true)
	r.ErrorProto.DefineDataProperty("message", object.String(""), true, false, true)
	r.method(r.ErrorProto, "toString", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		name, err := inv.ToString(getOwnOrDefault(this, "name", "Error"))
		if err != nil {
			return object.Undefined, err
		}
		msg, err := inv.ToString(getOwnOrDefault(this, "message", ""))
		if err != nil {
			return object.Undefined, err
		}
		if msg == "" {
			return object.String(name), nil
		}
		return object.String(name + ": " + msg), nil
	})

	makeCtor := func(name string, proto *object.Object) *object.Object {
		ctor := r.NativeFunction(name, 1, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
			o := object.New(proto, object.ClassError)
			if len(args) > 0 && !args[0].IsUndefined() {
				msg, err := inv.ToString(args[0])
				if err != nil {
					return object.Undefined, err
				}
				o.DefineDataProperty("message", object.String(msg), true, false, true)
			}
			return object.FromObject(o), nil
		})
		ctor.Construct = ctor.Call
		ctor.DefineDataProperty("prototype", object.FromObject(proto), false, false, false)
		proto.DefineDataProperty("constructor", object.FromObject(ctor), true, false, true)
		return ctor
	}

	r.ErrorCtors["Error"] = makeCtor("Error", r.ErrorProto)

	for _, kind := range errorKinds {
		proto := object.New(r.ErrorProto, object.ClassError)
		proto.DefineDataProperty("name", object.String(kind), true, false, true)
		r.ErrorProtos[kind] = proto
		r.ErrorCtors[kind] = makeCtor(kind, proto)
	}
}

func getOwnOrDefault(this object.Value, name, def string) object.Value {
	if this.IsObject() {
		d, _ := this.Object().FindProperty(name)
		if d != nil && !d.IsAccessor() {
			return d.Value
		}
	}
	return object.String(def)
}
