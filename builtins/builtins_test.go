package builtins

import (
	"testing"

	"stepjs/object"
)

// fakeInvoker is a minimal Invoker good enough for builtins that don't
// actually need to call back into guest code during these tests.
type fakeInvoker struct{}

func (fakeInvoker) Call(fn *object.Object, this object.Value, args []object.Value) (object.Value, error) {
	return object.Undefined, nil
}
func (fakeInvoker) Construct(fn *object.Object, args []object.Value) (object.Value, error) {
	return object.Undefined, nil
}
func (fakeInvoker) ToString(v object.Value) (string, error) { return v.ToStringPrimitive(), nil }
func (fakeInvoker) ToNumber(v object.Value) (float64, error) { return v.ToNumber(), nil }
func (fakeInvoker) ToPrimitive(v object.Value, hint string) (object.Value, error) { return v, nil }

func TestBootstrapWiresGlobalConstructors(t *testing.T) {
	r := Bootstrap(fakeInvoker{})

	for _, name := range []string{"Object", "Function", "Array", "String", "Number", "Boolean", "Date", "RegExp", "Math", "JSON"} {
		if !r.GlobalObject.HasProperty(name) {
			t.Errorf("want global property %q to be defined", name)
		}
	}
	for _, name := range []string{"undefined", "NaN", "Infinity"} {
		if !r.GlobalObject.HasProperty(name) {
			t.Errorf("want global value %q to be defined", name)
		}
	}
	for _, kind := range []string{"TypeError", "RangeError", "ReferenceError", "SyntaxError", "EvalError", "URIError"} {
		if _, ok := r.ErrorCtors[kind]; !ok {
			t.Errorf("want an error constructor for %q", kind)
		}
	}
}

func TestFunctionProtoInheritsFromObjectProto(t *testing.T) {
	r := Bootstrap(fakeInvoker{})
	if r.FunctionProto.Proto != r.ObjectProto {
		t.Fatalf("want Function.prototype's [[Prototype]] to be Object.prototype")
	}
}

func TestToObjectBoxesPrimitives(t *testing.T) {
	r := Bootstrap(fakeInvoker{})

	strObj, err := r.ToObject(object.String("hi"))
	if err != nil {
		t.Fatalf("ToObject(string): %v", err)
	}
	if strObj.Class != object.ClassString || strObj.PrimitiveValue.Str() != "hi" {
		t.Fatalf("want a String wrapper object, got class=%v primitive=%v", strObj.Class, strObj.PrimitiveValue)
	}
	if strObj.GetOwnProperty("length").Value.Num() != 2 {
		t.Fatalf("want boxed string length 2, got %v", strObj.GetOwnProperty("length").Value)
	}

	numObj, err := r.ToObject(object.Number(42))
	if err != nil || numObj.Class != object.ClassNumber {
		t.Fatalf("want a Number wrapper object, got class=%v err=%v", numObj.Class, err)
	}

	alreadyObj := object.New(r.ObjectProto, object.ClassObject)
	same, err := r.ToObject(object.FromObject(alreadyObj))
	if err != nil || same != alreadyObj {
		t.Fatalf("want ToObject on an object value to return it unchanged")
	}
}

func TestToObjectRejectsNullAndUndefined(t *testing.T) {
	r := Bootstrap(fakeInvoker{})
	if _, err := r.ToObject(object.Undefined); err == nil {
		t.Fatalf("want ToObject(undefined) to raise a TypeError")
	}
	if _, err := r.ToObject(object.Null); err == nil {
		t.Fatalf("want ToObject(null) to raise a TypeError")
	}
}

func TestThrowTypeErrorProducesThrownError(t *testing.T) {
	r := Bootstrap(fakeInvoker{})
	err := r.ThrowTypeError("boom")
	thrown, ok := err.(*ThrownError)
	if !ok {
		t.Fatalf("want *ThrownError, got %T", err)
	}
	if thrown.Value.Object().Class != object.ClassError {
		t.Fatalf("want thrown value to be an Error object")
	}
	msg := thrown.Value.Object().GetOwnProperty("message")
	if msg == nil || msg.Value.Str() != "boom" {
		t.Fatalf("want message property 'boom', got %#v", msg)
	}
}

func TestApplyPropertyDescriptorRejectsMixedDataAndAccessor(t *testing.T) {
	r := Bootstrap(fakeInvoker{})
	target := object.New(r.ObjectProto, object.ClassObject)

	getter := r.NativeFunction("get", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(2), nil
	})
	desc := object.New(r.ObjectProto, object.ClassObject)
	desc.DefineDataProperty("value", object.Number(1), true, true, true)
	desc.DefineDataProperty("get", object.FromObject(getter), true, true, true)

	if err := applyPropertyDescriptor(r, target, "x", desc); err == nil {
		t.Fatalf("want a TypeError for a descriptor specifying both value and get")
	}
	if target.GetOwnProperty("x") != nil {
		t.Fatalf("want no property installed when the descriptor is rejected")
	}
}

func TestApplyPropertyDescriptorAcceptsPlainDataOrAccessor(t *testing.T) {
	r := Bootstrap(fakeInvoker{})
	target := object.New(r.ObjectProto, object.ClassObject)

	dataDesc := object.New(r.ObjectProto, object.ClassObject)
	dataDesc.DefineDataProperty("value", object.Number(1), true, true, true)
	if err := applyPropertyDescriptor(r, target, "x", dataDesc); err != nil {
		t.Fatalf("applyPropertyDescriptor(data): %v", err)
	}
	if target.GetOwnProperty("x").Value.Num() != 1 {
		t.Fatalf("want x defined to 1")
	}

	getter := r.NativeFunction("get", 0, func(inv Invoker, this object.Value, args []object.Value) (object.Value, error) {
		return object.Number(2), nil
	})
	accessorDesc := object.New(r.ObjectProto, object.ClassObject)
	accessorDesc.DefineDataProperty("get", object.FromObject(getter), true, true, true)
	if err := applyPropertyDescriptor(r, target, "y", accessorDesc); err != nil {
		t.Fatalf("applyPropertyDescriptor(accessor): %v", err)
	}
	if !target.GetOwnProperty("y").IsAccessor() {
		t.Fatalf("want y defined as an accessor property")
	}
}

func TestNewArrayAndLengthDefaults(t *testing.T) {
	r := Bootstrap(fakeInvoker{})
	arr := object.NewArray(r.ArrayProto, 3)
	if object.ArrayLength(arr) != 3 {
		t.Fatalf("want length 3, got %d", object.ArrayLength(arr))
	}
	if arr.Proto != r.ArrayProto {
		t.Fatalf("want array prototype wired to Array.prototype")
	}
}
