package bridge

import (
	"reflect"
	"testing"

	"stepjs/ast"
	"stepjs/interp"
	"stepjs/object"
	"stepjs/parser"
)

func TestNativeToGuestPrimitives(t *testing.T) {
	ip := interp.New()

	cases := []struct {
		in   interface{}
		kind object.Kind
	}{
		{nil, object.KindNull},
		{Undefined{}, object.KindUndefined},
		{true, object.KindBoolean},
		{"hi", object.KindString},
		{3.5, object.KindNumber},
		{7, object.KindNumber},
	}
	for _, c := range cases {
		v, err := NativeToGuest(ip, c.in)
		if err != nil {
			t.Fatalf("NativeToGuest(%#v): %v", c.in, err)
		}
		if v.Kind() != c.kind {
			t.Fatalf("NativeToGuest(%#v): want kind %v, got %v", c.in, c.kind, v.Kind())
		}
	}
}

func TestNativeToGuestArrayAndBack(t *testing.T) {
	ip := interp.New()
	in := []interface{}{float64(1), "two", false}
	gv, err := NativeToGuest(ip, in)
	if err != nil {
		t.Fatalf("NativeToGuest: %v", err)
	}
	if !gv.IsObject() || gv.Object().Class != object.ClassArray {
		t.Fatalf("want a guest array, got %#v", gv)
	}

	out, err := GuestToNative(ip, gv, nil)
	if err != nil {
		t.Fatalf("GuestToNative: %v", err)
	}
	slice, ok := out.([]interface{})
	if !ok || len(slice) != 3 {
		t.Fatalf("want a 3-element slice, got %#v", out)
	}
	if slice[0] != float64(1) || slice[1] != "two" || slice[2] != false {
		t.Fatalf("unexpected round trip: %#v", slice)
	}
}

func TestGuestToNativeCyclicObject(t *testing.T) {
	ip := interp.New()
	o := ip.Realm.NewObject()
	o.DefineDataProperty("self", object.FromObject(o), true, true, true)

	out, err := GuestToNative(ip, object.FromObject(o), nil)
	if err != nil {
		t.Fatalf("GuestToNative: %v", err)
	}
	m, ok := out.(map[string]interface{})
	if !ok {
		t.Fatalf("want map[string]interface{}, got %T", out)
	}
	if m["self"].(map[string]interface{})["self"] == nil {
		t.Fatalf("expected cyclic structure to be preserved")
	}
	self, ok := m["self"].(map[string]interface{})
	if !ok {
		t.Fatalf("want m[\"self\"] to be a map, got %T", m["self"])
	}
	if reflect.ValueOf(self["self"]).Pointer() != reflect.ValueOf(m).Pointer() {
		// pointer identity through the cycle map: self["self"] must be the
		// very same map m, not a freshly built copy.
		t.Fatalf("cycle was not preserved by identity")
	}
}

func TestWrapNativeBridgesArgsAndResult(t *testing.T) {
	ip := interp.New()
	var gotArgs []interface{}
	fn := WrapNative(ip, "concat", 2, func(args []interface{}) (interface{}, error) {
		gotArgs = args
		return "result", nil
	})
	res, err := ip.Call(fn, object.Undefined, []object.Value{object.Number(1), object.String("x")})
	if err != nil {
		t.Fatalf("Call: %v", err)
	}
	if !res.IsString() || res.Str() != "result" {
		t.Fatalf("want \"result\", got %#v", res)
	}
	if len(gotArgs) != 2 || gotArgs[0] != float64(1) || gotArgs[1] != "x" {
		t.Fatalf("unexpected bridged args: %#v", gotArgs)
	}
}

func TestWrapAsyncParksUntilResolve(t *testing.T) {
	ip := interp.New()
	var resolve func(interface{}, error)
	fn := WrapAsync(ip, "later", 0, func(args []interface{}, r func(interface{}, error)) {
		resolve = r
	})
	ip.Realm.GlobalObject.DefineDataProperty("later", object.FromObject(fn), true, true, true)

	if err := ip.AppendCode(func() ([]ast.Statement, error) {
		prog, err := parser.Parse("var t = later(); t + 1;", parser.Options{})
		if err != nil {
			return nil, err
		}
		return prog.Body, nil
	}); err != nil {
		t.Fatalf("AppendCode: %v", err)
	}

	if err := ip.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if ip.Done() {
		t.Fatalf("program should be parked awaiting later()'s callback")
	}
	if resolve == nil {
		t.Fatalf("later() was never invoked")
	}

	resolve(float64(4), nil)
	if err := ip.Run(); err != nil {
		t.Fatalf("Run: %v", err)
	}
	if !ip.Done() {
		t.Fatalf("program should have completed after resolve")
	}
	v := ip.Value()
	if !v.IsNumber() || v.Num() != 5 {
		t.Fatalf("want 5, got %#v", v)
	}
}
