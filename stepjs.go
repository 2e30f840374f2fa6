// Package stepjs is the embedder-facing surface spec.md §6 describes: a
// sandboxed, step-driven ES5 interpreter that can be paused between any two
// evaluation steps and driven either one step() at a time or to completion
// via run(), plus the host/guest object-manipulation surface
// (set_property/get_property/create_native_function/create_async_function/
// native_to_guest/guest_to_native) needed to wire native bindings in.
package stepjs

import (
	"stepjs/ast"
	"stepjs/bridge"
	"stepjs/interp"
	"stepjs/object"
	"stepjs/parser"
)

// Interpreter wraps the step-driven evaluator behind the embedder contract:
// construct once, optionally wire native bindings via the InitHook, then
// drive with Step/Run/AppendCode.
type Interpreter struct {
	ip *interp.Interpreter
}

// Options mirrors the parser options an embedder may want to pin for every
// AppendCode call (ecmaVersion, strict-semicolon handling, and so on);
// zero value parses with parser.Options' own defaults (ES5).
type Options struct {
	Parser parser.Options
}

// New constructs an interpreter, bootstraps its realm, runs initHook (if
// non-nil) so the embedder can register native bindings against the global
// object before any guest code runs, then parses and loads source as the
// Program's initial body.
func New(source string, opts Options, initHook func(ip *Interpreter, global *object.Object) error) (*Interpreter, error) {
	wrapped := &Interpreter{ip: interp.New()}
	if initHook != nil {
		if err := initHook(wrapped, wrapped.ip.Realm.GlobalObject); err != nil {
			return nil, err
		}
	}
	if err := wrapped.AppendCode(source, opts); err != nil {
		return nil, err
	}
	return wrapped, nil
}

// AppendCode parses source and adds its top-level statements to the running
// Program (§6's append_code), picking up exactly where the last statement
// left off - hoisting `var`/function declarations immediately, the way a
// second <script> tag would.
func (s *Interpreter) AppendCode(source string, opts Options) error {
	return s.ip.AppendCode(func() ([]ast.Statement, error) {
		prog, err := parser.Parse(source, opts.Parser)
		if err != nil {
			return nil, err
		}
		return prog.Body, nil
	})
}

// Step executes a single frame transition, reporting whether more work
// remains (§6's step()).
func (s *Interpreter) Step() bool { return s.ip.Step() }

// Run drives Step to completion or until Pause takes effect, reporting
// whether the interpreter suspended (true) or the program completed
// (false), per §6's run() contract.
func (s *Interpreter) Run() bool {
	s.ip.Run()
	return !s.ip.Done()
}

// Pause requests suspension before the next step runs. It is a plain field
// write with no synchronisation.
func (s *Interpreter) Pause() { s.ip.Pause() }

// Resume clears a pause requested via Pause, letting a subsequent Step/Run
// continue.
func (s *Interpreter) Resume() { s.ip.Resume() }

// Done reports whether the Program has run to completion.
func (s *Interpreter) Done() bool { return s.ip.Done() }

// Value is the last expression-statement's value, the embedding surface
// E1-E6 exercise for eval-style host/guest round trips (§6).
func (s *Interpreter) Value() object.Value { return s.ip.Value() }

// Err returns the uncaught guest error (wrapped as a host RuntimeError), if
// the Program terminated via an unhandled throw.
func (s *Interpreter) Err() error { return s.ip.Err() }

// GlobalObject exposes the realm's global object for direct property
// inspection/manipulation beyond SetProperty/GetProperty.
func (s *Interpreter) GlobalObject() *object.Object { return s.ip.Realm.GlobalObject }

// PropertyDescriptor mirrors §6's recognized descriptor options
// {configurable, enumerable, writable, get, set, value}; the zero value is
// not the default - use DefaultDescriptor to get "configurable=true,
// enumerable=true, writable=true, no accessors".
type PropertyDescriptor struct {
	Value        object.Value
	Get, Set     *object.Object
	Writable     bool
	Enumerable   bool
	Configurable bool
}

// DefaultDescriptor builds the descriptor §6 specifies as the default for
// set_property: a writable, enumerable, configurable data property.
func DefaultDescriptor(v object.Value) PropertyDescriptor {
	return PropertyDescriptor{Value: v, Writable: true, Enumerable: true, Configurable: true}
}

// SetProperty defines or replaces a property on obj per desc, the host-side
// half of §6's set_property.
func (s *Interpreter) SetProperty(obj *object.Object, name string, desc PropertyDescriptor) {
	if desc.IsAccessor() {
		obj.DefineAccessorProperty(name, desc.Get, desc.Set, desc.Enumerable, desc.Configurable)
		return
	}
	obj.DefineDataProperty(name, desc.Value, desc.Writable, desc.Enumerable, desc.Configurable)
}

// IsAccessor reports whether d describes an accessor (get/set) rather than
// a plain data property.
func (d PropertyDescriptor) IsAccessor() bool { return d.Get != nil || d.Set != nil }

// GetProperty reads a property off obj, invoking an accessor getter
// synchronously if present - §6's get_property.
func (s *Interpreter) GetProperty(obj *object.Object, name string) (object.Value, error) {
	return s.ip.GetProperty(obj, name)
}

// CreateNativeFunction wraps a host Go function behind a guest-callable
// object (§6's create_native_function); fn receives already-lowered native
// arguments and returns a native result, raised back through NativeToGuest.
func (s *Interpreter) CreateNativeFunction(name string, length int, fn bridge.HostFunc) *object.Object {
	return bridge.WrapNative(s.ip, name, length, fn)
}

// CreateAsyncFunction wraps a host Go function that delivers its result
// later through resolve (§6's create_async_function, E7's `sleep` scenario):
// calling it from guest code parks the current frame until resolve fires.
func (s *Interpreter) CreateAsyncFunction(name string, length int, fn bridge.AsyncHostFunc) *object.Object {
	return bridge.WrapAsync(s.ip, name, length, fn)
}

// NativeToGuest lifts a host Go value into a guest Value (§6's
// native_to_guest).
func (s *Interpreter) NativeToGuest(x interface{}) (object.Value, error) {
	return bridge.NativeToGuest(s.ip, x)
}

// GuestToNative lowers a guest Value into a host Go value (§6's
// guest_to_native), handling self-referential object/array graphs.
func (s *Interpreter) GuestToNative(v object.Value) (interface{}, error) {
	return bridge.GuestToNative(s.ip, v, nil)
}

// Call invokes a guest-callable object synchronously from host code, the
// building block CreateNativeFunction's callback argument support needs
// (e.g. Array.prototype.forEach's user callback, here exposed for embedders
// that hold a guest function value directly).
func (s *Interpreter) Call(fn *object.Object, this object.Value, args []object.Value) (object.Value, error) {
	return s.ip.Call(fn, this, args)
}
