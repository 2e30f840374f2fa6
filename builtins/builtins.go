// Package builtins bootstraps the ES5 global object: Object/Function/
// Array/String/Number/Boolean/Error/Math/JSON/RegExp/Date, wired in the
// prototype-then-constructor order §4.5 requires (Object.prototype and
// Function.prototype must exist before any other constructor can inherit
// from Function.prototype).
package builtins

import (
	"math"

	"stepjs/object"
)

// ThrownError wraps a guest value thrown by a native builtin (e.g.
// `new Array(-1)` throwing a RangeError), letting native Go functions
// signal guest exceptions without a dependency on package interp's
// Completion type.
type ThrownError struct{ Value object.Value }

func (e *ThrownError) Error() string { return "thrown guest value" }

// Invoker is implemented by the interpreter, letting builtins call back
// into guest code (Array.prototype.forEach's callback, a getter invoked
// during JSON.stringify, ...) without package builtins importing package
// interp.
type Invoker interface {
	Call(fn *object.Object, this object.Value, args []object.Value) (object.Value, error)
	Construct(fn *object.Object, args []object.Value) (object.Value, error)
	ToString(v object.Value) (string, error)
	ToNumber(v object.Value) (float64, error)
	ToPrimitive(v object.Value, hint string) (object.Value, error)
}

// NativeFunc is a Go-implemented guest function body.
type NativeFunc func(inv Invoker, this object.Value, args []object.Value) (object.Value, error)

// NativeCallable wraps a Go-implemented function body behind
// object.Callable, the value stored in an *object.Object's Call/Construct
// slot for every builtin. Package interp type-asserts o.Call to
// *NativeCallable to invoke it, to *interp.GuestFunction for
// guest-defined closures, and to package interp's asyncCallable for host
// async functions - the three concrete Callable implementations in the
// system.
type NativeCallable struct {
	Fn NativeFunc
}

func (n *NativeCallable) IsCallable() bool { return true }

func nativeCallable(fn NativeFunc) *NativeCallable { return &NativeCallable{Fn: fn} }

// Realm holds every prototype/constructor the bootstrap wires up, handed
// to package interp so its global scope and `new`/instanceof machinery
// can reach them.
type Realm struct {
	GlobalObject *object.Object

	ObjectProto   *object.Object
	FunctionProto *object.Object
	ArrayProto    *object.Object
	StringProto   *object.Object
	NumberProto   *object.Object
	BooleanProto  *object.Object
	ErrorProto    *object.Object
	DateProto     *object.Object
	RegExpProto   *object.Object

	ErrorProtos map[string]*object.Object // TypeError, RangeError, ReferenceError, SyntaxError, EvalError, URIError

	ObjectCtor   *object.Object
	ArrayCtor    *object.Object
	FunctionCtor *object.Object
	StringCtor   *object.Object
	NumberCtor   *object.Object
	BooleanCtor  *object.Object
	DateCtor     *object.Object
	RegExpCtor   *object.Object
	ErrorCtors   map[string]*object.Object

	mathObj *object.Object
	jsonObj *object.Object

	inv Invoker
}

func arg(args []object.Value, i int) object.Value {
	if i < len(args) {
		return args[i]
	}
	return object.Undefined
}

// NativeFunction creates a callable object wrapping fn, the building
// block every native constructor/method below is made of.
func (r *Realm) NativeFunction(name string, length int, fn NativeFunc) *object.Object {
	o := object.New(r.FunctionProto, object.ClassFunction)
	o.Call = nativeCallable(fn)
	o.DefineDataProperty("length", object.Number(float64(length)), false, false, false)
	o.DefineDataProperty("name", object.String(name), false, false, false)
	return o
}

func (r *Realm) method(proto *object.Object, name string, length int, fn NativeFunc) {
	f := r.NativeFunction(name, length, fn)
	proto.DefineDataProperty(name, object.FromObject(f), true, false, true)
}

// Bootstrap builds a fresh Realm. inv is supplied by package interp
// (typically the *Interpreter itself) to let natives call back into guest
// code.
func Bootstrap(inv Invoker) *Realm {
	r := &Realm{inv: inv, ErrorProtos: map[string]*object.Object{}, ErrorCtors: map[string]*object.Object{}}

	r.ObjectProto = object.New(nil, object.ClassObject)
	r.FunctionProto = object.New(r.ObjectProto, object.ClassFunction)
	r.FunctionProto.Call = nativeCallable(func(Invoker, object.Value, []object.Value) (object.Value, error) {
		return object.Undefined, nil
	})

	r.GlobalObject = object.New(r.ObjectProto, object.ClassObject)

	bootstrapObject(r)
	bootstrapFunction(r)
	bootstrapArray(r)
	bootstrapString(r)
	bootstrapNumber(r)
	bootstrapBoolean(r)
	bootstrapMath(r)
	bootstrapErrors(r)
	bootstrapJSON(r)
	bootstrapRegExp(r)
	bootstrapDate(r)

	g := r.GlobalObject
	g.DefineDataProperty("undefined", object.Undefined, false, false, false)
	g.DefineDataProperty("NaN", object.Number(math.NaN()), false, false, false)
	g.DefineDataProperty("Infinity", object.Number(math.Inf(1)), false, false, false)
	g.DefineDataProperty("Object", object.FromObject(r.ObjectCtor), true, false, true)
	g.DefineDataProperty("Function", object.FromObject(r.FunctionCtor), true, false, true)
	g.DefineDataProperty("Array", object.FromObject(r.ArrayCtor), true, false, true)
	g.DefineDataProperty("String", object.FromObject(r.StringCtor), true, false, true)
	g.DefineDataProperty("Number", object.FromObject(r.NumberCtor), true, false, true)
	g.DefineDataProperty("Boolean", object.FromObject(r.BooleanCtor), true, false, true)
	g.DefineDataProperty("Date", object.FromObject(r.DateCtor), true, false, true)
	g.DefineDataProperty("RegExp", object.FromObject(r.RegExpCtor), true, false, true)
	g.DefineDataProperty("Math", object.FromObject(r.mathObj), true, false, true)
	g.DefineDataProperty("JSON", object.FromObject(r.jsonObj), true, false, true)
	for name, ctor := range r.ErrorCtors {
		g.DefineDataProperty(name, object.FromObject(ctor), true, false, true)
	}

	return r
}

func (r *Realm) NewObject() *object.Object { return object.New(r.ObjectProto, object.ClassObject) }

// ToObject implements the ToObject abstract operation: boxing a primitive
// into its wrapper object, used both by Object(x)/new Object(x) and by
// non-strict `this` boxing at call time (§4.4, §4.6).
func (r *Realm) ToObject(v object.Value) (*object.Object, error) {
	if v.IsObject() {
		return v.Object(), nil
	}
	switch v.Kind() {
	case object.KindString:
		o := object.New(r.StringProto, object.ClassString)
		o.HasPrimitive = true
		o.PrimitiveValue = v
		o.DefineDataProperty("length", object.Number(float64(len(ToUTF16(v.Str())))), false, false, false)
		return o, nil
	case object.KindNumber:
		o := object.New(r.NumberProto, object.ClassNumber)
		o.HasPrimitive = true
		o.PrimitiveValue = v
		return o, nil
	case object.KindBoolean:
		o := object.New(r.BooleanProto, object.ClassBoolean)
		o.HasPrimitive = true
		o.PrimitiveValue = v
		return o, nil
	default:
		return nil, r.ThrowTypeError("cannot convert undefined or null to object")
	}
}

func (r *Realm) NewError(kind, message string) *object.Object {
	proto := r.ErrorProtos[kind]
	if proto == nil {
		proto = r.ErrorProto
	}
	e := object.New(proto, object.ClassError)
	e.DefineDataProperty("message", object.String(message), true, false, true)
	return e
}

func (r *Realm) ThrowTypeError(message string) error {
	return &ThrownError{Value: object.FromObject(r.NewError("TypeError", message))}
}

func (r *Realm) ThrowRangeError(message string) error {
	return &ThrownError{Value: object.FromObject(r.NewError("RangeError", message))}
}
