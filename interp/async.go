package interp

import "stepjs/object"

// AsyncFunc is a host function whose result is delivered later through the
// done callback it receives, instead of returning synchronously (§4.7's
// create_async_function, §5's single suspension point between steps).
// Invoking one sets the interpreter's paused_ flag; the next Step()/Run()
// call after done fires resumes the waiting CallExpression with the
// delivered value or error.
type AsyncFunc func(inv *Interpreter, this object.Value, args []object.Value, done func(object.Value, error))

// asyncCallable wraps an AsyncFunc behind object.Callable, mirroring
// builtins.NativeCallable's shape so the two host-callable kinds sit side
// by side in an Object's Call slot.
type asyncCallable struct {
	fn AsyncFunc
}

func (a *asyncCallable) IsCallable() bool { return true }

// NewAsyncFunction wraps fn as a guest-callable function object, the host
// surface behind §6's create_async_function.
func (ip *Interpreter) NewAsyncFunction(name string, length int, fn AsyncFunc) *object.Object {
	o := object.New(ip.Realm.FunctionProto, object.ClassFunction)
	o.Call = &asyncCallable{fn: fn}
	o.DefineDataProperty("length", object.Number(float64(length)), false, false, false)
	o.DefineDataProperty("name", object.String(name), false, false, false)
	return o
}

// asyncCallFrame drives one invocation of an async native function: the
// first run() call hands control to fn and parks (ip.paused = true,
// pendingResult()); fn's done callback stores the settled value/error and
// clears ip.paused so a later Step()/Run() call re-enters this same frame,
// which then finishes with the delivered result.
func asyncCallFrame(ip *Interpreter, callee *asyncCallable, this object.Value, args []object.Value) *Frame {
	started := false
	settled := false
	var resultVal object.Value
	var resultErr error

	return &Frame{run: func(object.Value, Completion) stepResult {
		if settled {
			if resultErr != nil {
				return finishComp(ip.throwCompletion(resultErr))
			}
			return finishValue(resultVal)
		}
		if !started {
			started = true
			ip.paused = true
			callee.fn(ip, this, args, func(v object.Value, err error) {
				resultVal, resultErr = v, err
				settled = true
				ip.paused = false
			})
		}
		return pendingResult()
	}}
}
