package stepjs

import (
	"testing"

	"stepjs/bridge"
	"stepjs/object"
)

func mustRunToValue(t *testing.T, src string) object.Value {
	t.Helper()
	ip, err := New(src, Options{}, nil)
	if err != nil {
		t.Fatalf("New(%q): %v", src, err)
	}
	ip.Run()
	if err := ip.Err(); err != nil {
		t.Fatalf("Err() for %q: %v", src, err)
	}
	if !ip.Done() {
		t.Fatalf("program %q did not complete", src)
	}
	return ip.Value()
}

func TestVarArithmetic(t *testing.T) {
	v := mustRunToValue(t, "var a = 1; a + 2;")
	if !v.IsNumber() || v.Num() != 3 {
		t.Fatalf("want 3, got %#v", v)
	}
}

func TestFunctionCall(t *testing.T) {
	v := mustRunToValue(t, "function f(x){return x*x;} f(7);")
	if !v.IsNumber() || v.Num() != 49 {
		t.Fatalf("want 49, got %#v", v)
	}
}

func TestGetterInvocation(t *testing.T) {
	v := mustRunToValue(t, "var o = {get x(){ return 42; }}; o.x;")
	if !v.IsNumber() || v.Num() != 42 {
		t.Fatalf("want 42, got %#v", v)
	}
}

func TestArrayPushJoin(t *testing.T) {
	v := mustRunToValue(t, "var r = []; for (var i=0;i<3;i++) r.push(i); r.join(',');")
	if !v.IsString() || v.Str() != "0,1,2" {
		t.Fatalf("want \"0,1,2\", got %#v", v)
	}
}

func TestTryCatchRangeError(t *testing.T) {
	v := mustRunToValue(t, `try { throw new RangeError("x"); } catch(e) { e.name + ':' + e.message; }`)
	if !v.IsString() || v.Str() != "RangeError:x" {
		t.Fatalf("want \"RangeError:x\", got %#v", v)
	}
}

func TestStrictModeReferenceError(t *testing.T) {
	v := mustRunToValue(t, `(function(){ "use strict"; try { undeclared = 1; return 'no'; } catch(e){ return e.name; } })();`)
	if !v.IsString() || v.Str() != "ReferenceError" {
		t.Fatalf("want \"ReferenceError\", got %#v", v)
	}
}

func TestEmptyProgram(t *testing.T) {
	ip, err := New("", Options{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ip.Run()
	if !ip.Done() {
		t.Fatalf("empty program did not complete")
	}
	if !ip.Value().IsUndefined() {
		t.Fatalf("want undefined, got %#v", ip.Value())
	}
}

func TestAsyncSleepPauseResume(t *testing.T) {
	var resolve func(interface{}, error)
	ip, err := New("var t = sleep(10); t+1;", Options{}, func(ip *Interpreter, global *object.Object) error {
		fn := ip.CreateAsyncFunction("sleep", 1, func(args []interface{}, r func(interface{}, error)) {
			resolve = r
		})
		ip.SetProperty(global, "sleep", DefaultDescriptor(object.FromObject(fn)))
		return nil
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}

	if paused := ip.Run(); !paused {
		t.Fatalf("expected the interpreter to be paused awaiting sleep's callback")
	}
	if ip.Done() {
		t.Fatalf("program should not be done before sleep resolves")
	}
	if resolve == nil {
		t.Fatalf("sleep was never invoked")
	}

	resolve(float64(0), nil)
	if paused := ip.Run(); paused {
		t.Fatalf("expected the interpreter to finish after sleep resolves")
	}
	v := ip.Value()
	if !v.IsNumber() || v.Num() != 1 {
		t.Fatalf("want 1, got %#v", v)
	}
}

func TestAppendCodeEquivalentToConcatenation(t *testing.T) {
	ip, err := New("var a = 1;", Options{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ip.Run()
	if err := ip.AppendCode("a = a + 41; a;", Options{}); err != nil {
		t.Fatalf("AppendCode: %v", err)
	}
	ip.Run()
	if err := ip.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	v := ip.Value()
	if !v.IsNumber() || v.Num() != 42 {
		t.Fatalf("want 42, got %#v", v)
	}

	direct, err := New("var a = 1; a = a + 41; a;", Options{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	direct.Run()
	dv := direct.Value()
	if !dv.IsNumber() || dv.Num() != v.Num() {
		t.Fatalf("append_code result %v diverged from concatenation result %v", v.Num(), dv.Num())
	}
}

func TestNativeToGuestGuestToNativeRoundTrip(t *testing.T) {
	ip, err := New("", Options{}, nil)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	in := map[string]interface{}{
		"name": "ok",
		"tags": []interface{}{"a", "b", float64(3)},
	}
	gv, err := ip.NativeToGuest(in)
	if err != nil {
		t.Fatalf("NativeToGuest: %v", err)
	}
	out, err := ip.GuestToNative(gv)
	if err != nil {
		t.Fatalf("GuestToNative: %v", err)
	}
	m, ok := out.(map[string]interface{})
	if !ok {
		t.Fatalf("want map[string]interface{}, got %T", out)
	}
	if m["name"] != "ok" {
		t.Fatalf("want name=ok, got %#v", m["name"])
	}
	tags, ok := m["tags"].([]interface{})
	if !ok || len(tags) != 3 || tags[0] != "a" || tags[2] != float64(3) {
		t.Fatalf("unexpected tags round-trip: %#v", m["tags"])
	}
}

func TestCreateNativeFunctionBridgesArguments(t *testing.T) {
	var seen []interface{}
	ip, err := New("add(1, 'two', true);", Options{}, func(ip *Interpreter, global *object.Object) error {
		fn := ip.CreateNativeFunction("add", 2, bridge.HostFunc(func(args []interface{}) (interface{}, error) {
			seen = args
			return "done", nil
		}))
		ip.SetProperty(global, "add", DefaultDescriptor(object.FromObject(fn)))
		return nil
	})
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	ip.Run()
	if err := ip.Err(); err != nil {
		t.Fatalf("Err: %v", err)
	}
	if len(seen) != 3 || seen[0] != float64(1) || seen[1] != "two" || seen[2] != true {
		t.Fatalf("unexpected bridged args: %#v", seen)
	}
	v := ip.Value()
	if !v.IsString() || v.Str() != "done" {
		t.Fatalf("want \"done\", got %#v", v)
	}
}
