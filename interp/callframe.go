package interp

import (
	"stepjs/ast"
	"stepjs/builtins"
	"stepjs/object"
	"stepjs/scope"
)

// GuestFunction wraps a guest-defined closure: the parameter list and body
// parsed from source, plus the scope it closed over at definition time. It
// implements object.Callable so it can sit in an Object's Call/Construct
// slot right alongside *builtins.NativeCallable (§4.5's "one Callable
// interface for both" design).
type GuestFunction struct {
	Name    string
	Params  []*ast.Identifier
	Body    *ast.BlockStatement
	Closure *scope.Scope
	Strict  bool
}

func (f *GuestFunction) IsCallable() bool { return true }

// makeFunctionObject builds the Function-typed object a FunctionDeclaration
// or FunctionExpression evaluates to: a callable/constructible object with
// length/name data properties and a fresh "prototype" object carrying the
// "constructor" back-link, mirroring what builtins.NativeFunction does for
// native functions (§4.5).
func makeFunctionObject(ip *Interpreter, gf *GuestFunction) *object.Object {
	o := object.New(ip.Realm.FunctionProto, object.ClassFunction)
	o.Call = gf
	o.Construct = gf
	o.DefineDataProperty("length", object.Number(float64(len(gf.Params))), false, false, false)
	o.DefineDataProperty("name", object.String(gf.Name), false, false, false)
	proto := object.New(ip.Realm.ObjectProto, object.ClassObject)
	proto.DefineDataProperty("constructor", object.FromObject(o), true, false, true)
	o.DefineDataProperty("prototype", object.FromObject(proto), true, false, false)
	return o
}

// bindArguments creates the per-call Arguments object (§4.4): a plain
// indexed object, not live-linked to the named parameters - a
// simplification of ES5's argument/parameter aliasing, which
// guest code reading `arguments[i]` or `arguments.length` never notices.
func bindArguments(ip *Interpreter, args []object.Value) *object.Object {
	a := object.New(ip.Realm.ObjectProto, object.ClassArgs)
	for i, v := range args {
		a.DefineDataProperty(object.NumberToString(float64(i)), v, true, true, true)
	}
	a.DefineDataProperty("length", object.Number(float64(len(args))), true, false, true)
	return a
}

// callFunctionFrame evaluates invoking fn with the given this/args. The
// same Frame serves both callers: ordinary step-driven CallExpression
// evaluation suspends it onto the stack and resumes it through later Step()
// calls (the Trampoline technique - spec glossary), while native Go code's
// Invoker.Call drains it synchronously via runSyncFrame, since a plain Go
// function has no way to suspend itself across Step() calls.
func callFunctionFrame(ip *Interpreter, fn *object.Object, this object.Value, args []object.Value) *Frame {
	switch callee := fn.Call.(type) {
	case *builtins.NativeCallable:
		return &Frame{run: func(object.Value, Completion) stepResult {
			v, err := callee.Fn(ip, this, args)
			if err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			return finishValue(v)
		}}
	case *GuestFunction:
		return invokeGuestFrame(ip, callee, this, args, false, nil)
	case *asyncCallable:
		return asyncCallFrame(ip, callee, this, args)
	default:
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishComp(ip.throwCompletion(ip.wrapThrow(object.FromObject(ip.Realm.NewError("TypeError", "value is not a function")))))
		}}
	}
}

// constructFunctionFrame evaluates a `new` expression against fn.
func constructFunctionFrame(ip *Interpreter, fn *object.Object, args []object.Value) *Frame {
	switch ctor := fn.Construct.(type) {
	case *builtins.NativeCallable:
		return &Frame{run: func(object.Value, Completion) stepResult {
			v, err := ctor.Fn(ip, object.Undefined, args)
			if err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			return finishValue(v)
		}}
	case *GuestFunction:
		protoVal, _ := ip.getProp(fn, "prototype")
		proto := ip.Realm.ObjectProto
		if protoVal.IsObject() {
			proto = protoVal.Object()
		}
		newObj := object.New(proto, object.ClassObject)
		return invokeGuestFrame(ip, ctor, object.FromObject(newObj), args, true, newObj)
	default:
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishComp(ip.throwCompletion(ip.wrapThrow(object.FromObject(ip.Realm.NewError("TypeError", "value is not a constructor")))))
		}}
	}
}

// invokeGuestFrame runs a guest function body to completion: it pushes a
// fresh function scope (parameters + arguments bound, vars/functions
// hoisted) and suspends on the body's statement-list frame, then translates
// the resulting Completion into a call's return value (Return -> its value,
// Normal -> undefined, Throw -> propagated) or, for `new`, substitutes
// newObj whenever the body didn't explicitly return an object (§4.4, §4.6).
func invokeGuestFrame(ip *Interpreter, gf *GuestFunction, this object.Value, args []object.Value, isConstruct bool, newObj *object.Object) *Frame {
	if !isConstruct {
		this = ip.boxThis(this, gf.Strict)
	}
	fnScope := scope.NewFunctionScope(gf.Closure, this, gf.Strict)
	for i, p := range gf.Params {
		var v object.Value
		if i < len(args) {
			v = args[i]
		} else {
			v = object.Undefined
		}
		fnScope.Declare(p.Name, v, false)
	}
	argsObj := bindArguments(ip, args)
	fnScope.Declare("arguments", object.FromObject(argsObj), false)
	scope.HoistVars(fnScope, gf.Body.Body)
	hoistFunctionDecls(ip, fnScope, gf.Body.Body)

	started := false
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return suspend(newStatementListFrame(ip, fnScope, gf.Body.Body))
		}
		switch childComp.Type {
		case Throw:
			return finishComp(childComp)
		case Return:
			if isConstruct && !childComp.Value.IsObject() {
				return finishValue(object.FromObject(newObj))
			}
			return finishValue(childComp.Value)
		default:
			if isConstruct {
				return finishValue(object.FromObject(newObj))
			}
			return finishValue(object.Undefined)
		}
	}}
}

// hoistFunctionDecls builds and binds the closure value for every top-level
// FunctionDeclaration in body, the half of declaration binding instantiation
// that scope.HoistVars defers to the evaluator (§4.4).
func hoistFunctionDecls(ip *Interpreter, sc *scope.Scope, body []ast.Statement) {
	for _, stmt := range body {
		fd, ok := stmt.(*ast.FunctionDeclaration)
		if !ok {
			continue
		}
		gf := &GuestFunction{Name: fd.Id.Name, Params: fd.Params, Body: fd.Body, Closure: sc, Strict: fd.Strict || sc.NearestStrict()}
		fn := makeFunctionObject(ip, gf)
		sc.Declare(fd.Id.Name, object.FromObject(fn), true)
	}
}
