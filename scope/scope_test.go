package scope

import (
	"testing"

	"stepjs/ast"
	"stepjs/object"
)

func TestGlobalScopeVarsAreGlobalObjectProperties(t *testing.T) {
	global := object.New(nil, object.ClassObject)
	s := NewGlobal(global)

	s.Declare("x", object.Number(1), false)
	if !global.HasProperty("x") {
		t.Fatalf("want var declared in global scope to land on the global object")
	}
	if s.Get("x").Num() != 1 {
		t.Fatalf("want x == 1, got %v", s.Get("x"))
	}
}

func TestDeclareIsIdempotentForVarButNotFunctionDecl(t *testing.T) {
	global := object.New(nil, object.ClassObject)
	s := NewGlobal(global)

	s.Declare("x", object.Number(1), false)
	s.Declare("x", object.Number(2), false) // repeated var, should not clobber
	if s.Get("x").Num() != 1 {
		t.Fatalf("want repeated var declare to leave existing value, got %v", s.Get("x"))
	}

	s.Declare("x", object.Number(3), true) // function decl always (re-)assigns
	if s.Get("x").Num() != 3 {
		t.Fatalf("want function declaration to overwrite, got %v", s.Get("x"))
	}
}

func TestLookupWalksParentChain(t *testing.T) {
	global := object.New(nil, object.ClassObject)
	outer := NewGlobal(global)
	outer.Declare("outerVar", object.String("outer"), false)

	inner := NewFunctionScope(outer, object.Undefined, false)
	inner.vars["innerVar"] = &Binding{Value: object.String("inner"), Mutable: true}

	if owner, found := inner.Lookup("innerVar"); !found || owner != inner {
		t.Fatalf("want innerVar resolved in the inner scope")
	}
	if owner, found := inner.Lookup("outerVar"); !found || owner != outer {
		t.Fatalf("want outerVar resolved by walking up to the outer scope")
	}
	if _, found := inner.Lookup("missing"); found {
		t.Fatalf("want an unresolved name to report not found")
	}
}

func TestWithScopeRoutesThroughObject(t *testing.T) {
	obj := object.New(nil, object.ClassObject)
	obj.DefineDataProperty("x", object.Number(42), true, true, true)

	global := object.New(nil, object.ClassObject)
	outer := NewGlobal(global)
	withScope := NewWithScope(outer, obj)

	owner, found := withScope.Lookup("x")
	if !found || owner != withScope {
		t.Fatalf("want x resolved via the with-scope's object")
	}
	if withScope.Get("x").Num() != 42 {
		t.Fatalf("want x == 42 via with-scope Get, got %v", withScope.Get("x"))
	}
	withScope.Set("x", object.Number(43))
	if obj.GetOwnProperty("x").Value.Num() != 43 {
		t.Fatalf("want Set on a with-scope to write through to the object")
	}
}

func TestCatchScopeShadowsOnlyItsParameter(t *testing.T) {
	global := object.New(nil, object.ClassObject)
	outer := NewGlobal(global)
	outer.Declare("e", object.String("outer e"), false)

	catchScope := NewCatchScope(outer, "e", object.String("caught"))
	if catchScope.Get("e").Str() != "caught" {
		t.Fatalf("want catch scope to shadow e, got %v", catchScope.Get("e"))
	}
	owner, _ := catchScope.Lookup("e")
	if owner != catchScope {
		t.Fatalf("want e resolved in the catch scope itself")
	}
}

func TestNearestThisAndNearestStrict(t *testing.T) {
	global := object.New(nil, object.ClassObject)
	outer := NewGlobal(global)
	fn := NewFunctionScope(outer, object.String("this-value"), true)
	block := NewCatchScope(fn, "e", object.Undefined)

	if block.NearestThis().Str() != "this-value" {
		t.Fatalf("want nearest enclosing function's this, got %v", block.NearestThis())
	}
	if !block.NearestStrict() {
		t.Fatalf("want nearest enclosing function scope's strict flag to propagate")
	}
}

func TestHoistVarsBindsNestedVarsNotNestedFunctionBodies(t *testing.T) {
	global := object.New(nil, object.ClassObject)
	s := NewGlobal(global)

	body := []ast.Statement{
		&ast.VariableDeclaration{
			Kind: "var",
			Declarations: []*ast.VariableDeclarator{
				{Id: &ast.Identifier{Name: "a"}},
			},
		},
		&ast.IfStatement{
			Consequent: &ast.VariableDeclaration{
				Kind: "var",
				Declarations: []*ast.VariableDeclarator{
					{Id: &ast.Identifier{Name: "b"}},
				},
			},
		},
		&ast.FunctionDeclaration{
			Id: &ast.Identifier{Name: "inner"},
			Body: &ast.BlockStatement{
				Body: []ast.Statement{
					&ast.VariableDeclaration{
						Kind: "var",
						Declarations: []*ast.VariableDeclarator{
							{Id: &ast.Identifier{Name: "shouldNotHoist"}},
						},
					},
				},
			},
		},
	}

	HoistVars(s, body)

	if !global.HasProperty("a") || !global.HasProperty("b") {
		t.Fatalf("want a and b hoisted onto the global object")
	}
	if global.HasProperty("shouldNotHoist") {
		t.Fatalf("want vars inside a nested function body to not hoist into the enclosing scope")
	}
}
