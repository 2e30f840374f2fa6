// Package interp implements the step-driven tree-walking evaluator: an
// explicit frame stack that drives AST execution one step() at a time
// instead of recursing through Go's call stack, so execution can pause
// between any two steps and resume later (spec.md §4.6, §9).
package interp

import (
	"fmt"

	"stepjs/ast"
	"stepjs/builtins"
	"stepjs/object"
	"stepjs/parser"
	"stepjs/scope"
)

// CompletionType classifies how a statement finished, driving unwinding
// through enclosing loops/switches/try-blocks (§4.6).
type CompletionType uint8

const (
	Normal CompletionType = iota
	Break
	Continue
	Return
	Throw
)

// Completion is the result threaded between statement frames.
type Completion struct {
	Type  CompletionType
	Value object.Value
	Label string
}

func normal(v object.Value) Completion { return Completion{Type: Normal, Value: v} }

// stepResult is what a frame's run function produces on each invocation:
// either "push this child frame and call me again once it completes" or
// "I'm done, here is my value/completion".
type stepResult struct {
	push    *Frame
	done    bool
	pending bool // true while an async-function call is parked waiting on its host callback
	value   object.Value
	comp    Completion
}

func suspend(child *Frame) stepResult { return stepResult{push: child} }
func finishValue(v object.Value) stepResult { return stepResult{done: true, value: v} }
func finishComp(c Completion) stepResult { return stepResult{done: true, comp: c} }

// pendingResult leaves the current frame on the stack untouched: used by an
// async-function call frame the first time it runs, after it has handed
// control to the host's async Fn and set ip.paused (§4.7, §5).
func pendingResult() stepResult { return stepResult{pending: true} }

// Frame is one node's in-progress evaluation. run is called with the
// result of the most recently completed child frame (zero value the first
// time) and returns either a new child to suspend on or a final result.
type Frame struct {
	run func(childVal object.Value, childComp Completion) stepResult
}

// RuntimeError is a guest-level thrown value surfaced to host Go code
// (e.g. from Run/Call), distinct from an internal interpreter bug.
type RuntimeError struct {
	Value object.Value
	Interp *Interpreter
}

func (e *RuntimeError) Error() string {
	return fmt.Sprintf("Uncaught %s", e.Interp.describeThrown(e.Value))
}

// Interpreter holds the guest program, realm (global object/builtins),
// and the explicit execution stack that step()/Run() drive.
type Interpreter struct {
	Realm *builtins.Realm

	program *ast.Program
	global  *scope.Scope

	stack []*Frame

	paused  bool
	pauseCh chan struct{} // never set; async calls park through paused alone

	done     bool
	result   object.Value
	thrown   *RuntimeError
}

// New constructs an interpreter with a freshly bootstrapped realm
// (Object/Function/Array/String/... prototypes and constructors wired per
// §4.5's bootstrap order), then runs builtins.Polyfills to completion so its
// guest-source Array/String methods are in place before any host code runs.
func New() *Interpreter {
	ip := &Interpreter{program: &ast.Program{}}
	ip.Realm = builtins.Bootstrap(ip)
	ip.global = scope.NewGlobal(ip.Realm.GlobalObject)
	if err := ip.loadPolyfills(); err != nil {
		panic(err) // a broken polyfill is an interpreter bug, not a guest error
	}
	return ip
}

// loadPolyfills parses and runs builtins.Polyfills once, synchronously,
// against the global scope. Its AST is discarded afterward - it never
// becomes part of ip.program, so it is invisible to AppendCode/Step callers.
func (ip *Interpreter) loadPolyfills() error {
	prog, err := parser.Parse(builtins.Polyfills, parser.Options{})
	if err != nil {
		return err
	}
	scope.HoistVars(ip.global, prog.Body)
	hoistFunctionDecls(ip, ip.global, prog.Body)
	_, comp := ip.runSyncFrame(newStatementListFrame(ip, ip.global, prog.Body))
	if comp.Type == Throw {
		return fmt.Errorf("polyfill error: %s", ip.describeThrown(comp.Value))
	}
	return nil
}

// AppendCode parses src and appends its top-level statements to the
// running program, backing the host-facing incremental-loading operation
// (§6's append_code). Top-level var/function hoisting for the new code
// runs immediately, the way a browser's script tag eval would.
func (ip *Interpreter) AppendCode(parseAndExtend func() ([]ast.Statement, error)) error {
	body, err := parseAndExtend()
	if err != nil {
		return err
	}
	ip.program.Body = append(ip.program.Body, body...)
	scope.HoistVars(ip.global, body)
	hoistFunctionDecls(ip, ip.global, body)
	ip.stack = append(ip.stack, newStatementListFrame(ip, ip.global, body))
	ip.done = false
	return nil
}

// Step executes a single frame transition. It reports false once the
// program has run to completion (or paused). Guest code that throws
// uncaught surfaces via Err().
func (ip *Interpreter) Step() bool {
	if ip.paused || ip.done || len(ip.stack) == 0 {
		return false
	}
	top := ip.stack[len(ip.stack)-1]
	res := top.run(object.Undefined, Completion{})
	return ip.applyResult(res)
}

// applyResult is also called by frames that resume with a specific
// child-completed value, via resumeStep below; kept separate from Step so
// the stack bookkeeping lives in one place.
func (ip *Interpreter) applyResult(res stepResult) bool {
	if res.pending {
		return false
	}
	if res.push != nil {
		ip.stack = append(ip.stack, res.push)
		return true
	}
	ip.stack = ip.stack[:len(ip.stack)-1]
	if len(ip.stack) == 0 {
		ip.done = true
		if res.comp.Type == Throw {
			ip.thrown = &RuntimeError{Value: res.comp.Value, Interp: ip}
		} else {
			ip.result = res.comp.Value
		}
		return false
	}
	return ip.resumeStep(res.value, res.comp)
}

func (ip *Interpreter) resumeStep(val object.Value, comp Completion) bool {
	top := ip.stack[len(ip.stack)-1]
	res := top.run(val, comp)
	return ip.applyResult(res)
}

// Run drives Step to completion, honoring Pause() requests between steps.
func (ip *Interpreter) Run() error {
	for !ip.paused && !ip.done {
		if !ip.Step() {
			break
		}
	}
	return ip.Err()
}

// Pause requests that execution suspend before the next step runs. It is a
// plain field write with no synchronisation.
func (ip *Interpreter) Pause() { ip.paused = true }

// Resume clears a pause requested via Pause.
func (ip *Interpreter) Resume() { ip.paused = false }

func (ip *Interpreter) Done() bool  { return ip.done }
func (ip *Interpreter) Value() object.Value { return ip.result }
func (ip *Interpreter) Err() error {
	if ip.thrown != nil {
		return ip.thrown
	}
	return nil
}

func (ip *Interpreter) describeThrown(v object.Value) string {
	if v.IsObject() && v.Object().Class == object.ClassError {
		name, _ := ip.getProp(v.Object(), "name")
		msg, _ := ip.getProp(v.Object(), "message")
		return fmt.Sprintf("%s: %s", ip.ToStringV(name), ip.ToStringV(msg))
	}
	return ip.ToStringV(v)
}
