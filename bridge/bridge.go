// Package bridge implements the host/guest value translation spec.md §4.7
// (C7) describes: native_to_guest, guest_to_native, and the native/async
// function wrappers that let host Go code sit behind a guest-callable
// object, grounded on the teacher's NewNativeFunction/NativeCallback shape
// and daios-ai-msg's ffi.go cycle-map technique for cyclic object graphs.
package bridge

import (
	"fmt"

	"stepjs/builtins"
	"stepjs/interp"
	"stepjs/object"
)

// Undefined is the host-side sentinel that NativeToGuest maps to the guest
// `undefined` value; a bare Go nil maps to guest `null` instead, since Go
// has only one zero-value "nothing" but the guest language has two.
type Undefined struct{}

// RegExp is the native representation a guest RegExp lowers to under
// GuestToNative, and the representation NativeToGuest accepts to build one,
// since a host Go value has no standard regex type with JS semantics.
type RegExp struct {
	Pattern string
	Flags   string
}

// HostFunc is the native Go function shape NativeToGuest wraps behind a
// guest-callable object: arguments already lowered via GuestToNative, the
// result raised back via NativeToGuest on return (§4.7's "Function ->
// native-function wrapper whose body invokes native_to_guest(fn(args.map
// (guest_to_native)))").
type HostFunc func(args []interface{}) (interface{}, error)

// NativeToGuest lifts a host Go value into a guest Value, recursing
// element-wise into slices and property-wise into maps (§4.7).
func NativeToGuest(ip *interp.Interpreter, x interface{}) (object.Value, error) {
	switch v := x.(type) {
	case nil:
		return object.Null, nil
	case Undefined:
		return object.Undefined, nil
	case object.Value:
		return v, nil
	case bool:
		return object.Bool(v), nil
	case string:
		return object.String(v), nil
	case float64:
		return object.Number(v), nil
	case float32:
		return object.Number(float64(v)), nil
	case int:
		return object.Number(float64(v)), nil
	case int32:
		return object.Number(float64(v)), nil
	case int64:
		return object.Number(float64(v)), nil
	case uint:
		return object.Number(float64(v)), nil
	case uint32:
		return object.Number(float64(v)), nil
	case uint64:
		return object.Number(float64(v)), nil
	case *RegExp:
		o, err := ip.Realm.NewRegExp(v.Pattern, v.Flags)
		if err != nil {
			return object.Undefined, err
		}
		return object.FromObject(o), nil
	case HostFunc:
		return object.FromObject(WrapNative(ip, "", 0, v)), nil
	case []interface{}:
		arr := object.NewArray(ip.Realm.ArrayProto, uint32(len(v)))
		for i, el := range v {
			gv, err := NativeToGuest(ip, el)
			if err != nil {
				return object.Undefined, err
			}
			arr.DefineDataProperty(object.NumberToString(float64(i)), gv, true, true, true)
		}
		return object.FromObject(arr), nil
	case map[string]interface{}:
		o := ip.Realm.NewObject()
		for k, el := range v {
			gv, err := NativeToGuest(ip, el)
			if err != nil {
				return object.Undefined, err
			}
			o.DefineDataProperty(k, gv, true, true, true)
		}
		return object.FromObject(o), nil
	default:
		return object.Undefined, fmt.Errorf("bridge: cannot convert %T to a guest value", x)
	}
}

// GuestToNative lowers a guest Value into a host Go value, reconstructing
// arrays/objects and threading cycleMap so a cyclic guest graph lowers to a
// cyclic native one instead of recursing forever (§4.7, §8 invariant 2).
func GuestToNative(ip *interp.Interpreter, v object.Value, cycleMap map[*object.Object]interface{}) (interface{}, error) {
	if cycleMap == nil {
		cycleMap = make(map[*object.Object]interface{})
	}
	switch v.Kind() {
	case object.KindUndefined, object.KindNull:
		return nil, nil
	case object.KindBoolean:
		return v.Bool(), nil
	case object.KindNumber:
		return v.Num(), nil
	case object.KindString:
		return v.Str(), nil
	}

	o := v.Object()
	if cached, ok := cycleMap[o]; ok {
		return cached, nil
	}

	if o.Class == object.ClassRegExp {
		pattern, flags, ok := builtins.RegExpSourceFlags(o)
		if ok {
			return &RegExp{Pattern: pattern, Flags: flags}, nil
		}
	}

	if o.Class == object.ClassArray {
		n := int(object.ArrayLength(o))
		out := make([]interface{}, n)
		cycleMap[o] = out
		for i := 0; i < n; i++ {
			d := o.GetOwnProperty(object.NumberToString(float64(i)))
			if d == nil {
				continue
			}
			el, err := GuestToNative(ip, d.Value, cycleMap)
			if err != nil {
				return nil, err
			}
			out[i] = el
		}
		return out, nil
	}

	if o.IsCallable() {
		fn := o
		wrapped := func(args []interface{}) (interface{}, error) {
			guestArgs := make([]object.Value, len(args))
			for i, a := range args {
				gv, err := NativeToGuest(ip, a)
				if err != nil {
					return nil, err
				}
				guestArgs[i] = gv
			}
			res, err := ip.Call(fn, object.Undefined, guestArgs)
			if err != nil {
				return nil, err
			}
			return GuestToNative(ip, res, nil)
		}
		cycleMap[o] = HostFunc(wrapped)
		return HostFunc(wrapped), nil
	}

	out := make(map[string]interface{})
	cycleMap[o] = out
	for _, k := range o.OwnKeys() {
		d := o.GetOwnProperty(k)
		if d == nil || !d.Enumerable {
			continue
		}
		val, err := ip.GetProperty(o, k)
		if err != nil {
			return nil, err
		}
		nv, err := GuestToNative(ip, val, cycleMap)
		if err != nil {
			return nil, err
		}
		out[k] = nv
	}
	return out, nil
}

// WrapNative wraps fn behind a guest-callable native function object,
// lowering its arguments and raising its result through the bridge - the
// `create_native_function` host operation (§4.7, §6).
func WrapNative(ip *interp.Interpreter, name string, length int, fn HostFunc) *object.Object {
	return ip.Realm.NativeFunction(name, length, func(inv builtins.Invoker, this object.Value, args []object.Value) (object.Value, error) {
		nativeArgs := make([]interface{}, len(args))
		for i, a := range args {
			nv, err := GuestToNative(ip, a, nil)
			if err != nil {
				return object.Undefined, err
			}
			nativeArgs[i] = nv
		}
		result, err := fn(nativeArgs)
		if err != nil {
			return object.Undefined, err
		}
		return NativeToGuest(ip, result)
	})
}

// AsyncHostFunc is the host function shape behind `create_async_function`:
// args already lowered via GuestToNative, resolve raises the result (or
// error) back through the bridge and clears the interpreter's paused flag
// (§4.7, §5).
type AsyncHostFunc func(args []interface{}, resolve func(interface{}, error))

// WrapAsync wraps fn as a guest-callable async function (§4.7): calling it
// from guest code parks the current frame via interp.AsyncFunc's
// pause/resume mechanism until resolve is invoked.
func WrapAsync(ip *interp.Interpreter, name string, length int, fn AsyncHostFunc) *object.Object {
	return ip.NewAsyncFunction(name, length, func(inv *interp.Interpreter, this object.Value, args []object.Value, done func(object.Value, error)) {
		nativeArgs := make([]interface{}, len(args))
		for i, a := range args {
			nv, err := GuestToNative(inv, a, nil)
			if err != nil {
				done(object.Undefined, err)
				return
			}
			nativeArgs[i] = nv
		}
		fn(nativeArgs, func(result interface{}, err error) {
			if err != nil {
				done(object.Undefined, err)
				return
			}
			gv, gerr := NativeToGuest(inv, result)
			done(gv, gerr)
		})
	})
}
