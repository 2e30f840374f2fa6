// Package scope implements variable environments: the chain of bindings
// searched by identifier resolution, var/function hoisting, and the
// special object-backed scopes `catch` and `with` introduce.
package scope

import (
	"stepjs/ast"
	"stepjs/object"
)

// Binding is a single variable slot. Guest `var`/function declarations
// live here; the with-statement's object-backed scope never allocates
// Bindings, routing straight through to its bound object instead.
type Binding struct {
	Value     object.Value
	Mutable   bool // false only for the "arguments" binding in some edge cases; var bindings are always mutable
	Deletable bool // true only for the synthetic vars an eval() call introduces directly into its caller's scope
}

// Scope is one link in the lexical-environment chain. A plain scope holds
// its own binding table; a with-scope instead forwards Get/Set/Has to
// Object, matching the with-statement's "make the object's properties
// behave like local variables" semantics (§4.4).
type Scope struct {
	Parent *Scope
	Object *object.Object // non-nil for with/global-object scopes
	vars   map[string]*Binding

	IsFunctionScope bool // var declarations hoist up to the nearest one of these
	Strict          bool
	ThisValue       object.Value
	HasThis         bool // false for non-function scopes, which defer `this` lookup to an enclosing function scope
}

func newScope(parent *Scope) *Scope {
	return &Scope{Parent: parent, vars: make(map[string]*Binding)}
}

// NewGlobal creates the top-level scope, backed by the global object so
// that `var x` at top level is visible as a property of the global object
// (§4.4's "the global scope is the global object").
func NewGlobal(globalObject *object.Object) *Scope {
	s := newScope(nil)
	s.Object = globalObject
	s.IsFunctionScope = true
	s.HasThis = true
	s.ThisValue = object.FromObject(globalObject)
	return s
}

// NewFunctionScope creates the scope for a function invocation.
func NewFunctionScope(parent *Scope, this object.Value, strict bool) *Scope {
	s := newScope(parent)
	s.IsFunctionScope = true
	s.Strict = strict
	s.ThisValue = this
	s.HasThis = true
	return s
}

// NewCatchScope creates the single-binding scope a catch clause
// introduces, which shadows only its own parameter name (§4.2).
func NewCatchScope(parent *Scope, paramName string, value object.Value) *Scope {
	s := newScope(parent)
	s.vars[paramName] = &Binding{Value: value, Mutable: true}
	return s
}

// NewWithScope creates the object-backed scope a with-statement
// introduces.
func NewWithScope(parent *Scope, obj *object.Object) *Scope {
	s := newScope(parent)
	s.Object = obj
	return s
}

// Declare introduces a var/function binding in the nearest enclosing
// function (or global) scope, implementing hoisting: repeated `var x`
// declarations are idempotent, and function declarations always
// (re-)assign even if a var with the same name was hoisted first.
func (s *Scope) Declare(name string, initial object.Value, isFunctionDecl bool) {
	fs := s.functionScope()
	if fs.Object != nil {
		if isFunctionDecl || !fs.Object.HasProperty(name) {
			fs.Object.DefineDataProperty(name, initial, true, true, false)
		}
		return
	}
	if b, ok := fs.vars[name]; ok {
		if isFunctionDecl {
			b.Value = initial
		}
		return
	}
	fs.vars[name] = &Binding{Value: initial, Mutable: true}
}

func (s *Scope) functionScope() *Scope {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.IsFunctionScope {
			return cur
		}
	}
	return s
}

// Lookup resolves name along the scope chain, returning the scope that
// owns the binding (nil if unresolved, meaning ReferenceError on read or
// implicit-global creation on write in non-strict mode per §4.4).
func (s *Scope) Lookup(name string) (owner *Scope, found bool) {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.Object != nil {
			if cur.Object.HasProperty(name) {
				return cur, true
			}
			continue
		}
		if _, ok := cur.vars[name]; ok {
			return cur, true
		}
	}
	return nil, false
}

// Get reads a resolved binding's value.
func (s *Scope) Get(name string) object.Value {
	if s.Object != nil {
		d, owner := s.Object.FindProperty(name)
		if d == nil || d.IsAccessor() {
			return object.Undefined
		}
		_ = owner
		return d.Value
	}
	if b, ok := s.vars[name]; ok {
		return b.Value
	}
	return object.Undefined
}

// Set writes a resolved binding's value (data properties only; accessor
// bindings introduced via a with-scope's object are the interpreter's
// responsibility, since invoking a setter may need to pause).
func (s *Scope) Set(name string, v object.Value) {
	if s.Object != nil {
		s.Object.DefineDataProperty(name, v, true, true, false)
		return
	}
	if b, ok := s.vars[name]; ok {
		b.Value = v
	}
}

// NearestThis returns the `this` value of the nearest enclosing function
// scope, per §4.4's dynamic `this` binding.
func (s *Scope) NearestThis() object.Value {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.HasThis {
			return cur.ThisValue
		}
	}
	return object.Undefined
}

// NearestStrict reports whether code running in s is in strict mode.
func (s *Scope) NearestStrict() bool {
	for cur := s; cur != nil; cur = cur.Parent {
		if cur.IsFunctionScope {
			return cur.Strict
		}
	}
	return false
}

// HoistVars walks a function or program body and binds every var name it
// contains to undefined ahead of execution (declaration binding
// instantiation's var half, §4.4). Function declarations need their own
// pass, done by the evaluator (scope.Declare with isFunctionDecl=true),
// since only it can build the closure value a function declaration binds.
func HoistVars(s *Scope, body []ast.Statement) {
	for _, stmt := range body {
		walkVarNames(stmt, func(name string) {
			if s.Object != nil {
				if !s.Object.HasProperty(name) {
					s.Object.DefineDataProperty(name, object.Undefined, true, true, false)
				}
				return
			}
			if _, found := s.vars[name]; !found {
				s.vars[name] = &Binding{Value: object.Undefined, Mutable: true}
			}
		})
	}
}

// walkVarNames visits every name a `var` statement introduces within
// stmt, not descending into nested function bodies (their own vars hoist
// into their own scope, not the enclosing one).
func walkVarNames(stmt ast.Statement, visit func(name string)) {
	switch s := stmt.(type) {
	case *ast.VariableDeclaration:
		for _, d := range s.Declarations {
			visit(d.Id.Name)
		}
	case *ast.BlockStatement:
		for _, c := range s.Body {
			walkVarNames(c, visit)
		}
	case *ast.IfStatement:
		walkVarNames(s.Consequent, visit)
		if s.Alternate != nil {
			walkVarNames(s.Alternate, visit)
		}
	case *ast.ForStatement:
		if decl, ok := s.Init.(*ast.VariableDeclaration); ok {
			walkVarNames(decl, visit)
		}
		walkVarNames(s.Body, visit)
	case *ast.ForInStatement:
		if decl, ok := s.Left.(*ast.VariableDeclaration); ok {
			walkVarNames(decl, visit)
		}
		walkVarNames(s.Body, visit)
	case *ast.WhileStatement:
		walkVarNames(s.Body, visit)
	case *ast.DoWhileStatement:
		walkVarNames(s.Body, visit)
	case *ast.TryStatement:
		walkVarNames(s.Block, visit)
		if s.Handler != nil {
			walkVarNames(s.Handler.Body, visit)
		}
		if s.Finalizer != nil {
			walkVarNames(s.Finalizer, visit)
		}
	case *ast.WithStatement:
		walkVarNames(s.Body, visit)
	case *ast.LabeledStatement:
		walkVarNames(s.Body, visit)
	case *ast.SwitchStatement:
		for _, c := range s.Cases {
			for _, cs := range c.Consequent {
				walkVarNames(cs, visit)
			}
		}
	}
}
