package interp

import (
	"stepjs/builtins"
	"stepjs/object"
)

// protoForPrimitive returns the built-in prototype a primitive's property
// lookup falls back to, per §4.3's "prototype chain lookup for a primitive
// first goes to the matching built-in prototype".
func (ip *Interpreter) protoForPrimitive(v object.Value) *object.Object {
	switch v.Kind() {
	case object.KindString:
		return ip.Realm.StringProto
	case object.KindNumber:
		return ip.Realm.NumberProto
	case object.KindBoolean:
		return ip.Realm.BooleanProto
	default:
		return nil
	}
}


// propAccess describes how to realize a property access without yet
// performing it: either an immediate value (plain data read, or nothing to
// do) or a getter/setter (fn, possibly nil for a missing half of an
// accessor pair) that must be invoked against this.
type propAccess struct {
	fn   *object.Object
	this object.Value
	call bool
}

// resolveGet finds what base[name] reads as, without invoking anything:
// either the value directly, or (call=true) the getter to invoke. Shared by
// getProp (native, synchronous) and propertyGetFrame (step-driven
// trampoline) so both paths agree on lookup semantics.
func resolveGet(ip *Interpreter, base object.Value, name string) (object.Value, propAccess) {
	if base.IsObject() {
		o := base.Object()
		d, _ := o.FindProperty(name)
		if d == nil {
			return object.Undefined, propAccess{}
		}
		if d.IsAccessor() {
			return object.Undefined, propAccess{fn: d.Get, this: base, call: true}
		}
		return d.Value, propAccess{}
	}
	if base.IsString() {
		units := builtins.ToUTF16(base.Str())
		if name == "length" {
			return object.Number(float64(len(units))), propAccess{}
		}
		if idx, ok := object.ArrayIndex(name); ok && int(idx) < len(units) {
			return object.String(builtins.FromUTF16(units[idx : idx+1])), propAccess{}
		}
	}
	proto := ip.protoForPrimitive(base)
	if proto == nil {
		return object.Undefined, propAccess{}
	}
	d, _ := proto.FindProperty(name)
	if d == nil {
		return object.Undefined, propAccess{}
	}
	if d.IsAccessor() {
		return object.Undefined, propAccess{fn: d.Get, this: base, call: true}
	}
	return d.Value, propAccess{}
}

// resolveSet finds what writing o[name] should do: apply immediately
// (call=false), or invoke a setter (call=true, fn possibly nil for an
// accessor with no setter half).
func resolveSet(o *object.Object, name string) propAccess {
	d, _ := o.FindProperty(name)
	if d != nil && d.IsAccessor() {
		return propAccess{fn: d.Set, this: object.FromObject(o), call: true}
	}
	return propAccess{}
}

// propertyGetFrame evaluates base[name] as a genuine Trampoline step (spec
// glossary): a data property (or nothing found) finishes in one step with
// no call involved, while an accessor getter is invoked by suspending on a
// synthetic CallExpression frame (callFunctionFrame) and resuming with its
// result - so a user-defined getter body single-steps exactly like any
// other function call instead of draining inside one native step.
func propertyGetFrame(ip *Interpreter, base object.Value, name string) *Frame {
	if base.IsNullOrUndefined() {
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishComp(ip.throwCompletion(ip.wrapThrow(object.FromObject(ip.Realm.NewError("TypeError",
				"cannot read property '"+name+"' of "+base.ToStringPrimitive())))))
		}}
	}
	v, access := resolveGet(ip, base, name)
	if !access.call {
		return &Frame{run: func(object.Value, Completion) stepResult { return finishValue(v) }}
	}
	if access.fn == nil {
		return &Frame{run: func(object.Value, Completion) stepResult { return finishValue(object.Undefined) }}
	}
	started := false
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return suspend(callFunctionFrame(ip, access.fn, access.this, nil))
		}
		if childComp.Type == Throw {
			return finishComp(childComp)
		}
		return finishValue(childVal)
	}}
}

// propertySetFrame writes base[name] = val as a genuine Trampoline step,
// mirroring propertyGetFrame: an accessor setter is invoked through a
// suspended callFunctionFrame instead of draining synchronously. base must
// be an object for a setter to apply at all; primitive bases fall back to
// setValueProp's plain-value rules (silently ignored, or a strict-mode
// TypeError).
func propertySetFrame(ip *Interpreter, base object.Value, name string, val object.Value, strict bool) *Frame {
	if !base.IsObject() {
		return &Frame{run: func(object.Value, Completion) stepResult {
			if err := ip.setValueProp(base, name, val, strict); err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			return finishValue(val)
		}}
	}
	o := base.Object()
	access := resolveSet(o, name)
	if !access.call {
		return &Frame{run: func(object.Value, Completion) stepResult {
			if err := ip.setDataProp(o, name, val); err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			return finishValue(val)
		}}
	}
	if access.fn == nil {
		return &Frame{run: func(object.Value, Completion) stepResult { return finishValue(val) }}
	}
	started := false
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return suspend(callFunctionFrame(ip, access.fn, access.this, []object.Value{val}))
		}
		if childComp.Type == Throw {
			return finishComp(childComp)
		}
		return finishValue(val)
	}}
}

// setValueProp implements property write on a primitive base (object bases
// go through propertySetFrame instead): silently ignored in non-strict
// mode, a TypeError in strict mode (§4.3).
func (ip *Interpreter) setValueProp(v object.Value, name string, val object.Value, strict bool) error {
	if v.IsNullOrUndefined() {
		return ip.wrapThrow(object.FromObject(ip.Realm.NewError("TypeError",
			"cannot set property '"+name+"' of "+v.ToStringPrimitive())))
	}
	if strict {
		return ip.wrapThrow(object.FromObject(ip.Realm.NewError("TypeError",
			"cannot create property '"+name+"' on a primitive value")))
	}
	return nil
}

// boxThis implements the non-strict `this`-boxing rule at call time
// (§4.6): undefined/null become the global object, primitives are wrapped,
// and strict-mode calls pass thisArg through unchanged.
func (ip *Interpreter) boxThis(v object.Value, strict bool) object.Value {
	if strict {
		return v
	}
	if v.IsNullOrUndefined() {
		return object.FromObject(ip.Realm.GlobalObject)
	}
	if v.IsObject() {
		return v
	}
	o, err := ip.Realm.ToObject(v)
	if err != nil {
		return v
	}
	return object.FromObject(o)
}
