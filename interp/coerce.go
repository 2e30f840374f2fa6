package interp

import (
	"math"

	"stepjs/builtins"
	"stepjs/object"
)

// GuestThrow wraps a guest-level thrown value as a Go error, letting
// package builtins and the interpreter's own synchronous coercion helpers
// (ToNumber, ToString, property getters/setters) surface a thrown value
// through an ordinary error return instead of threading a Completion
// through every call site.
type GuestThrow struct{ Value object.Value }

func (e *GuestThrow) Error() string { return "guest exception" }

// throwCompletion turns any error Call/Construct/a native returned into a
// Throw completion: GuestThrow and builtins.ThrownError carry the actual
// guest value; anything else (a host-side bug surfacing through a native)
// becomes a plain Error object so it's still catchable by guest try/catch
// rather than crashing the embedder.
func (ip *Interpreter) throwCompletion(err error) Completion {
	switch e := err.(type) {
	case *GuestThrow:
		return Completion{Type: Throw, Value: e.Value}
	case *builtins.ThrownError:
		return Completion{Type: Throw, Value: e.Value}
	default:
		return Completion{Type: Throw, Value: object.FromObject(ip.Realm.NewError("Error", err.Error()))}
	}
}

func (ip *Interpreter) wrapThrow(v object.Value) error { return &GuestThrow{Value: v} }

// runSyncFrame drives f (and whatever it suspends on) to completion without
// touching ip.paused/ip.done. This is the synchronous native-call boundary,
// not the Trampoline technique (spec glossary) - a plain Go function (a
// builtin's Fn) cannot itself be suspended and resumed later, so when one
// needs a guest function's return value (Invoker.Call/Construct, or
// ToNumber/ToString/ToPrimitive invoked from native code) there is no
// alternative to draining the call here before returning to the caller.
// Genuine step-driven evaluation - property accessor dispatch and
// ToPrimitive coercion reached during ordinary expression evaluation -
// instead pushes a synthetic CallExpression frame and lets step() resume it
// later; see propertyGetFrame/propertySetFrame (member.go) and
// toPrimitiveFrame below.
func (ip *Interpreter) runSyncFrame(f *Frame) (object.Value, Completion) {
	base := len(ip.stack)
	ip.stack = append(ip.stack, f)
	var childVal object.Value
	var childComp Completion
	for {
		top := ip.stack[len(ip.stack)-1]
		res := top.run(childVal, childComp)
		if res.pending {
			// An async function was invoked from a synchronous native call
			// path (e.g. valueOf/toString coercion): there is no later
			// Step()/Run() call to resume it from here, so surface this as
			// a host-level misuse rather than silently losing the frame.
			panic("stepjs: async function called from a synchronous native context")
		}
		if res.push != nil {
			ip.stack = append(ip.stack, res.push)
			childVal, childComp = object.Undefined, Completion{}
			continue
		}
		ip.stack = ip.stack[:len(ip.stack)-1]
		if len(ip.stack) == base {
			return res.value, res.comp
		}
		childVal, childComp = res.value, res.comp
	}
}

// Call implements builtins.Invoker, letting native code invoke guest or
// native callables synchronously.
func (ip *Interpreter) Call(fn *object.Object, this object.Value, args []object.Value) (object.Value, error) {
	if fn == nil || !fn.IsCallable() {
		return object.Undefined, ip.wrapThrow(object.FromObject(ip.Realm.NewError("TypeError", "value is not a function")))
	}
	val, comp := ip.runSyncFrame(callFunctionFrame(ip, fn, this, args))
	if comp.Type == Throw {
		return object.Undefined, ip.wrapThrow(comp.Value)
	}
	return val, nil
}

// Construct implements builtins.Invoker's `new` half.
func (ip *Interpreter) Construct(fn *object.Object, args []object.Value) (object.Value, error) {
	if fn == nil || !fn.IsConstructor() {
		return object.Undefined, ip.wrapThrow(object.FromObject(ip.Realm.NewError("TypeError", "value is not a constructor")))
	}
	val, comp := ip.runSyncFrame(constructFunctionFrame(ip, fn, args))
	if comp.Type == Throw {
		return object.Undefined, ip.wrapThrow(comp.Value)
	}
	return val, nil
}

// ToNumber implements ToNumber for objects by calling ToPrimitive with hint
// "number" then falling back to the primitive conversion (§4.3's ToNumber
// abstract operation).
func (ip *Interpreter) ToNumber(v object.Value) (float64, error) {
	if !v.IsObject() {
		return v.ToNumber(), nil
	}
	prim, err := ip.ToPrimitive(v, "number")
	if err != nil {
		return math.NaN(), err
	}
	if prim.IsObject() {
		return math.NaN(), nil
	}
	return prim.ToNumber(), nil
}

// ToString implements ToString for objects (Invoker's ToString), calling
// ToPrimitive with hint "string".
func (ip *Interpreter) ToString(v object.Value) (string, error) {
	if !v.IsObject() {
		return v.ToStringPrimitive(), nil
	}
	prim, err := ip.ToPrimitive(v, "string")
	if err != nil {
		return "", err
	}
	if prim.IsObject() {
		return "[object Object]", nil
	}
	return prim.ToStringPrimitive(), nil
}

// ToPrimitive implements the ToPrimitive abstract operation for native Go
// callers (the Invoker interface, and the handful of interpreter helpers
// below): it tries valueOf/toString (or the reverse order for hint
// "string"), calling each through the synchronous runSyncFrame boundary
// since a native Go function has no way to suspend itself. Step-driven
// expression evaluation (binaryExprFrame, unaryExprFrame) instead coerces
// through toPrimitiveFrame, a genuine trampoline that lets a user-defined
// valueOf/toString single-step like any other call.
func (ip *Interpreter) ToPrimitive(v object.Value, hint string) (object.Value, error) {
	if !v.IsObject() {
		return v, nil
	}
	methods := []string{"valueOf", "toString"}
	if hint == "string" {
		methods = []string{"toString", "valueOf"}
	}
	o := v.Object()
	for _, name := range methods {
		d, _ := o.FindProperty(name)
		if d == nil || d.IsAccessor() || !d.Value.IsObject() || !d.Value.Object().IsCallable() {
			continue
		}
		res, err := ip.Call(d.Value.Object(), v, nil)
		if err != nil {
			return object.Undefined, err
		}
		if !res.IsObject() {
			return res, nil
		}
	}
	return object.Undefined, ip.wrapThrow(object.FromObject(ip.Realm.NewError("TypeError", "cannot convert object to primitive value")))
}

// toPrimitiveFrame is the Trampoline-technique counterpart of ToPrimitive
// (spec glossary: "pushing a synthetic CallExpression frame to evaluate a
// getter/setter as part of another step"): instead of draining valueOf/
// toString synchronously, it suspends on a real callFunctionFrame for each
// candidate, so a user-defined valueOf body is visited step by step just
// like any other function call. Used by binaryExprFrame/unaryExprFrame for
// operators whose operands may need coercing to a primitive.
func toPrimitiveFrame(ip *Interpreter, v object.Value, hint string) *Frame {
	if !v.IsObject() {
		return &Frame{run: func(object.Value, Completion) stepResult { return finishValue(v) }}
	}
	methods := []string{"valueOf", "toString"}
	if hint == "string" {
		methods = []string{"toString", "valueOf"}
	}
	o := v.Object()
	idx := 0
	dispatching := false
	var advance func() stepResult
	advance = func() stepResult {
		for idx < len(methods) {
			d, _ := o.FindProperty(methods[idx])
			idx++
			if d == nil || d.IsAccessor() || !d.Value.IsObject() || !d.Value.Object().IsCallable() {
				continue
			}
			dispatching = true
			return suspend(callFunctionFrame(ip, d.Value.Object(), v, nil))
		}
		return finishComp(ip.throwCompletion(ip.wrapThrow(object.FromObject(
			ip.Realm.NewError("TypeError", "cannot convert object to primitive value")))))
	}
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if !dispatching {
			return advance()
		}
		dispatching = false
		if childComp.Type == Throw {
			return finishComp(childComp)
		}
		if !childVal.IsObject() {
			return finishValue(childVal)
		}
		return advance()
	}}
}

// GetProperty reads a property off a guest object, invoking an accessor
// getter synchronously if present. Exported for package bridge, which needs
// getter-aware reads when lowering a guest object to a native value.
func (ip *Interpreter) GetProperty(o *object.Object, name string) (object.Value, error) {
	return ip.getProp(o, name)
}

// getProp reads a property for native Go callers, invoking an accessor
// getter through the synchronous runSyncFrame boundary if present. Built on
// the same resolveGet lookup propertyGetFrame (member.go) uses for the
// step-driven trampoline path.
func (ip *Interpreter) getProp(o *object.Object, name string) (object.Value, error) {
	v, access := resolveGet(ip, object.FromObject(o), name)
	if !access.call {
		return v, nil
	}
	if access.fn == nil {
		return object.Undefined, nil
	}
	return ip.Call(access.fn, access.this, nil)
}

// setProp writes a property for native Go callers, invoking an accessor
// setter through the synchronous runSyncFrame boundary if present.
func (ip *Interpreter) setProp(o *object.Object, name string, v object.Value) error {
	access := resolveSet(o, name)
	if access.call {
		if access.fn == nil {
			return nil
		}
		_, err := ip.Call(access.fn, access.this, []object.Value{v})
		return err
	}
	return ip.setDataProp(o, name, v)
}

// setDataProp applies a non-accessor property write, including Array's
// length/index coupling (§4.3). Shared by setProp (native context) and
// propertySetFrame (member.go's step-driven trampoline).
func (ip *Interpreter) setDataProp(o *object.Object, name string, v object.Value) error {
	if o.Class == object.ClassArray {
		if idx, ok := object.ArrayIndex(name); ok {
			o.DefineDataProperty(name, v, true, true, true)
			object.BumpLengthForIndex(o, idx)
			return nil
		}
		if name == "length" {
			n, err := ip.ToNumber(v)
			if err != nil {
				return err
			}
			_, ok := object.SetArrayLength(o, uint32(n))
			if !ok {
				return ip.wrapThrow(object.FromObject(ip.Realm.NewError("RangeError", "invalid array length")))
			}
			return nil
		}
	}
	if existing := o.GetOwnProperty(name); existing != nil {
		if existing.Writable {
			existing.Value = v
		}
		return nil
	}
	if !o.Extensible {
		return nil
	}
	o.DefineDataProperty(name, v, true, true, true)
	return nil
}

func (ip *Interpreter) ToStringV(v object.Value) string {
	s, err := ip.ToString(v)
	if err != nil {
		return "?"
	}
	return s
}
