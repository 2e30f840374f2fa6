package parser

import (
	"testing"

	"stepjs/ast"
)

func mustParse(t *testing.T, src string, opts Options) *ast.Program {
	t.Helper()
	prog, err := Parse(src, opts)
	if err != nil {
		t.Fatalf("Parse(%q): %v", src, err)
	}
	return prog
}

func TestParseVarDeclaration(t *testing.T) {
	prog := mustParse(t, "var a = 1, b;", Options{})
	if len(prog.Body) != 1 {
		t.Fatalf("want 1 statement, got %d", len(prog.Body))
	}
	decl, ok := prog.Body[0].(*ast.VariableDeclaration)
	if !ok {
		t.Fatalf("want *ast.VariableDeclaration, got %T", prog.Body[0])
	}
	if decl.Kind != "var" || len(decl.Declarations) != 2 {
		t.Fatalf("want kind=var with 2 declarators, got kind=%s n=%d", decl.Kind, len(decl.Declarations))
	}
	if decl.Declarations[0].Id.Name != "a" || decl.Declarations[1].Id.Name != "b" {
		t.Fatalf("unexpected declarator names: %v", decl.Declarations)
	}
	if decl.Declarations[1].Init != nil {
		t.Fatalf("want uninitialized second declarator, got %#v", decl.Declarations[1].Init)
	}
}

func TestOperatorPrecedence(t *testing.T) {
	prog := mustParse(t, "1 + 2 * 3;", Options{})
	es := prog.Body[0].(*ast.ExpressionStatement)
	bin := es.Expression.(*ast.BinaryExpression)
	if bin.Operator.String() != "+" {
		t.Fatalf("want top-level +, got %s", bin.Operator)
	}
	rhs, ok := bin.Right.(*ast.BinaryExpression)
	if !ok || rhs.Operator.String() != "*" {
		t.Fatalf("want right side to be a * expression, got %#v", bin.Right)
	}
}

func TestASIInsertsSemicolonBeforeNewline(t *testing.T) {
	prog := mustParse(t, "var a = 1\nvar b = 2", Options{})
	if len(prog.Body) != 2 {
		t.Fatalf("want 2 statements via ASI, got %d", len(prog.Body))
	}
}

func TestASIBeforeClosingBrace(t *testing.T) {
	prog := mustParse(t, "function f() { return 1 }", Options{})
	fn := prog.Body[0].(*ast.FunctionDeclaration)
	if len(fn.Body.Body) != 1 {
		t.Fatalf("want 1 statement in function body, got %d", len(fn.Body.Body))
	}
}

func TestStrictSemicolonsRejectsMissingSemicolon(t *testing.T) {
	_, err := Parse("var a = 1\nvar b = 2", Options{StrictSemicolons: true})
	if err == nil {
		t.Fatalf("expected a syntax error with StrictSemicolons")
	}
}

func TestUseStrictDirectiveParsesAsStatement(t *testing.T) {
	prog := mustParse(t, "\"use strict\";\nvar a = 1;", Options{})
	if len(prog.Body) != 2 {
		t.Fatalf("want 2 statements, got %d", len(prog.Body))
	}
}

func TestUseStrictWithEscapeDoesNotCount(t *testing.T) {
	prog := mustParse(t, "\"use\\u0020strict\";\nvar a = 1;", Options{})
	if len(prog.Body) != 2 {
		t.Fatalf("want 2 statements, got %d", len(prog.Body))
	}
	es, ok := prog.Body[0].(*ast.ExpressionStatement)
	if !ok {
		t.Fatalf("want an expression statement, got %T", prog.Body[0])
	}
	if _, ok := es.Expression.(*ast.Literal); !ok {
		t.Fatalf("want a literal expression, got %T", es.Expression)
	}
}

func TestIfElseChain(t *testing.T) {
	prog := mustParse(t, "if (a) b(); else if (c) d(); else e();", Options{})
	ifst := prog.Body[0].(*ast.IfStatement)
	elseIf, ok := ifst.Alternate.(*ast.IfStatement)
	if !ok {
		t.Fatalf("want nested else-if, got %T", ifst.Alternate)
	}
	if _, ok := elseIf.Alternate.(*ast.ExpressionStatement); !ok {
		t.Fatalf("want trailing else clause, got %T", elseIf.Alternate)
	}
}

func TestForStatementClauses(t *testing.T) {
	prog := mustParse(t, "for (var i = 0; i < 10; i++) { }", Options{})
	forst := prog.Body[0].(*ast.ForStatement)
	if _, ok := forst.Init.(*ast.VariableDeclaration); !ok {
		t.Fatalf("want var-declaration init, got %T", forst.Init)
	}
	if forst.Test == nil || forst.Update == nil {
		t.Fatalf("want non-nil test/update clauses")
	}
}

func TestForInStatement(t *testing.T) {
	prog := mustParse(t, "for (var k in obj) { }", Options{})
	forIn, ok := prog.Body[0].(*ast.ForInStatement)
	if !ok {
		t.Fatalf("want *ast.ForInStatement, got %T", prog.Body[0])
	}
	if _, ok := forIn.Left.(*ast.VariableDeclaration); !ok {
		t.Fatalf("want var-declaration left side, got %T", forIn.Left)
	}
}

func TestFunctionDeclarationParamsAndBody(t *testing.T) {
	prog := mustParse(t, "function add(a, b) { return a + b; }", Options{})
	fn := prog.Body[0].(*ast.FunctionDeclaration)
	if fn.Id.Name != "add" {
		t.Fatalf("want name add, got %q", fn.Id.Name)
	}
	if len(fn.Params) != 2 || fn.Params[0].Name != "a" || fn.Params[1].Name != "b" {
		t.Fatalf("unexpected params: %v", fn.Params)
	}
}

func TestObjectAndArrayLiterals(t *testing.T) {
	prog := mustParse(t, "var o = { x: 1, get y() { return 2; } }; var a = [1, , 3];", Options{})
	decl := prog.Body[0].(*ast.VariableDeclaration)
	obj := decl.Declarations[0].Init.(*ast.ObjectExpression)
	if len(obj.Properties) != 2 {
		t.Fatalf("want 2 properties, got %d", len(obj.Properties))
	}
	if obj.Properties[0].Kind != "init" || obj.Properties[1].Kind != "get" {
		t.Fatalf("unexpected property kinds: %v", obj.Properties)
	}

	arrDecl := prog.Body[1].(*ast.VariableDeclaration)
	arr := arrDecl.Declarations[0].Init.(*ast.ArrayExpression)
	if len(arr.Elements) != 3 || arr.Elements[1] != nil {
		t.Fatalf("want an elision at index 1, got %v", arr.Elements)
	}
}

func TestMemberAndCallChain(t *testing.T) {
	prog := mustParse(t, "a.b[c](1, 2);", Options{})
	es := prog.Body[0].(*ast.ExpressionStatement)
	call := es.Expression.(*ast.CallExpression)
	if len(call.Arguments) != 2 {
		t.Fatalf("want 2 call arguments, got %d", len(call.Arguments))
	}
	member, ok := call.Callee.(*ast.MemberExpression)
	if !ok || !member.Computed {
		t.Fatalf("want a computed member callee, got %#v", call.Callee)
	}
}

func TestNewExpressionWithArguments(t *testing.T) {
	prog := mustParse(t, "new Foo(1);", Options{})
	es := prog.Body[0].(*ast.ExpressionStatement)
	newExpr, ok := es.Expression.(*ast.NewExpression)
	if !ok {
		t.Fatalf("want *ast.NewExpression, got %T", es.Expression)
	}
	if len(newExpr.Arguments) != 1 {
		t.Fatalf("want 1 argument, got %d", len(newExpr.Arguments))
	}
}

func TestTryCatchFinally(t *testing.T) {
	prog := mustParse(t, "try { a(); } catch (e) { b(); } finally { c(); }", Options{})
	tryst := prog.Body[0].(*ast.TryStatement)
	if tryst.Handler == nil || tryst.Handler.Param.Name != "e" {
		t.Fatalf("want catch handler binding e, got %#v", tryst.Handler)
	}
	if tryst.Finalizer == nil {
		t.Fatalf("want a finally block")
	}
}

func TestLabeledStatementAndBreak(t *testing.T) {
	prog := mustParse(t, "outer: for (;;) { break outer; }", Options{})
	label, ok := prog.Body[0].(*ast.LabeledStatement)
	if !ok || label.Label != "outer" {
		t.Fatalf("want labeled statement 'outer', got %#v", prog.Body[0])
	}
}

func TestBreakOutsideLoopIsSyntaxError(t *testing.T) {
	_, err := Parse("break;", Options{})
	if err == nil {
		t.Fatalf("expected a syntax error for break outside a loop/switch")
	}
}

func TestReturnOutsideFunctionIsSyntaxError(t *testing.T) {
	_, err := Parse("return 1;", Options{})
	if err == nil {
		t.Fatalf("expected a syntax error for return outside a function")
	}
}

func TestLocationsOptionPopulatesLoc(t *testing.T) {
	prog := mustParse(t, "var a = 1;\nvar b = 2;", Options{Locations: true})
	if prog.Body[1].Pos().Loc == nil {
		t.Fatalf("want Loc populated when Locations is set")
	}
}

func TestRangesOptionPopulatesRange(t *testing.T) {
	prog := mustParse(t, "1;", Options{Ranges: true})
	if prog.Body[0].Pos().Range == nil {
		t.Fatalf("want Range populated when Ranges is set")
	}
}

func TestOnCommentCallback(t *testing.T) {
	var comments []string
	opts := Options{OnComment: func(block bool, text string, start, end int) {
		comments = append(comments, text)
	}}
	mustParse(t, "// hello\nvar a = 1;", opts)
	if len(comments) != 1 || comments[0] != " hello" {
		t.Fatalf("want one comment ' hello', got %v", comments)
	}
}

func TestExtendAppendsStatementsToExistingProgram(t *testing.T) {
	prog := mustParse(t, "var a = 1;", Options{})
	if err := Extend(prog, "var b = 2;", Options{}); err != nil {
		t.Fatalf("Extend: %v", err)
	}
	if len(prog.Body) != 2 {
		t.Fatalf("want 2 statements after Extend, got %d", len(prog.Body))
	}
}

func TestExtendLeavesProgramUntouchedOnError(t *testing.T) {
	prog := mustParse(t, "var a = 1;", Options{})
	if err := Extend(prog, "var b = ;", Options{}); err == nil {
		t.Fatalf("expected a syntax error from malformed appended source")
	}
	if len(prog.Body) != 1 {
		t.Fatalf("want program body untouched after a failed Extend, got %d statements", len(prog.Body))
	}
}
