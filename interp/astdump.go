package interp

import (
	"fmt"
	"io"
	"strings"

	"stepjs/ast"
	"stepjs/diag"
)

// DumpAST prints prog's tree to w, one node per line, indented by nesting
// depth and annotated with its source location - adapted from the teacher's
// printer.go, which walked otto's ast.Node tree via ast.Walk/ast.Visitor.
// Our own ast package carries no such walker, so this dispatches on concrete
// node type directly instead of introducing a generic Visitor nothing else
// in this module needs.
func DumpAST(src string, prog *ast.Program, w io.Writer) {
	d := &astDumper{src: src, w: w}
	d.statements(prog.Body, 0)
}

type astDumper struct {
	src string
	w   io.Writer
}

func (d *astDumper) line(depth int, n ast.Node, extra string) {
	loc := diag.Describe(d.src, n)
	indent := strings.Repeat("  ", depth)
	if extra != "" {
		fmt.Fprintf(d.w, "%s%s %s (%s)\n", indent, n.Type(), extra, loc.Start)
	} else {
		fmt.Fprintf(d.w, "%s%s (%s)\n", indent, n.Type(), loc.Start)
	}
}

func (d *astDumper) statements(stmts []ast.Statement, depth int) {
	for _, s := range stmts {
		d.statement(s, depth)
	}
}

func (d *astDumper) statement(s ast.Statement, depth int) {
	if s == nil {
		return
	}
	switch n := s.(type) {
	case *ast.BlockStatement:
		d.line(depth, n, "")
		d.statements(n.Body, depth+1)
	case *ast.ExpressionStatement:
		d.line(depth, n, "")
		d.expression(n.Expression, depth+1)
	case *ast.EmptyStatement:
		d.line(depth, n, "")
	case *ast.DebuggerStatement:
		d.line(depth, n, "")
	case *ast.IfStatement:
		d.line(depth, n, "")
		d.expression(n.Test, depth+1)
		d.statement(n.Consequent, depth+1)
		d.statement(n.Alternate, depth+1)
	case *ast.SwitchStatement:
		d.line(depth, n, "")
		d.expression(n.Discriminant, depth+1)
		for _, c := range n.Cases {
			d.line(depth+1, c, "")
			d.expression(c.Test, depth+2)
			d.statements(c.Consequent, depth+2)
		}
	case *ast.ForStatement:
		d.line(depth, n, "")
		if init, ok := n.Init.(ast.Expression); ok {
			d.expression(init, depth+1)
		} else if init, ok := n.Init.(*ast.VariableDeclaration); ok {
			d.statement(init, depth+1)
		}
		d.expression(n.Test, depth+1)
		d.expression(n.Update, depth+1)
		d.statement(n.Body, depth+1)
	case *ast.ForInStatement:
		d.line(depth, n, "")
		d.expression(n.Right, depth+1)
		d.statement(n.Body, depth+1)
	case *ast.WhileStatement:
		d.line(depth, n, "")
		d.expression(n.Test, depth+1)
		d.statement(n.Body, depth+1)
	case *ast.DoWhileStatement:
		d.line(depth, n, "")
		d.statement(n.Body, depth+1)
		d.expression(n.Test, depth+1)
	case *ast.BreakStatement:
		d.line(depth, n, n.Label)
	case *ast.ContinueStatement:
		d.line(depth, n, n.Label)
	case *ast.ReturnStatement:
		d.line(depth, n, "")
		d.expression(n.Argument, depth+1)
	case *ast.ThrowStatement:
		d.line(depth, n, "")
		d.expression(n.Argument, depth+1)
	case *ast.TryStatement:
		d.line(depth, n, "")
		d.statement(n.Block, depth+1)
		if n.Handler != nil {
			d.line(depth+1, n.Handler, "")
			d.statement(n.Handler.Body, depth+2)
		}
		if n.Finalizer != nil {
			d.statement(n.Finalizer, depth+1)
		}
	case *ast.WithStatement:
		d.line(depth, n, "")
		d.expression(n.Object, depth+1)
		d.statement(n.Body, depth+1)
	case *ast.LabeledStatement:
		d.line(depth, n, n.Label)
		d.statement(n.Body, depth+1)
	case *ast.VariableDeclaration:
		d.line(depth, n, n.Kind)
		for _, decl := range n.Declarations {
			d.line(depth+1, decl, decl.Id.Name)
			d.expression(decl.Init, depth+2)
		}
	case *ast.FunctionDeclaration:
		name := ""
		if n.Id != nil {
			name = n.Id.Name
		}
		d.line(depth, n, name)
		d.statement(n.Body, depth+1)
	default:
		d.line(depth, n, "")
	}
}

func (d *astDumper) expression(e ast.Expression, depth int) {
	if e == nil {
		return
	}
	switch n := e.(type) {
	case *ast.FunctionExpression:
		name := ""
		if n.Id != nil {
			name = n.Id.Name
		}
		d.line(depth, n, name)
		d.statement(n.Body, depth+1)
	case *ast.ArrayExpression:
		d.line(depth, n, "")
		for _, el := range n.Elements {
			d.expression(el, depth+1)
		}
	case *ast.ObjectExpression:
		d.line(depth, n, "")
		for _, p := range n.Properties {
			d.line(depth+1, p, p.Key+" "+p.Kind)
			d.expression(p.Value, depth+2)
		}
	case *ast.SequenceExpression:
		d.line(depth, n, "")
		for _, sub := range n.Expressions {
			d.expression(sub, depth+1)
		}
	case *ast.AssignmentExpression:
		d.line(depth, n, n.Operator.String())
		d.expression(n.Left, depth+1)
		d.expression(n.Right, depth+1)
	case *ast.BinaryExpression:
		d.line(depth, n, n.Operator.String())
		d.expression(n.Left, depth+1)
		d.expression(n.Right, depth+1)
	case *ast.LogicalExpression:
		d.line(depth, n, n.Operator.String())
		d.expression(n.Left, depth+1)
		d.expression(n.Right, depth+1)
	case *ast.ConditionalExpression:
		d.line(depth, n, "")
		d.expression(n.Test, depth+1)
		d.expression(n.Consequent, depth+1)
		d.expression(n.Alternate, depth+1)
	case *ast.UnaryExpression:
		d.line(depth, n, n.Operator.String())
		d.expression(n.Argument, depth+1)
	case *ast.UpdateExpression:
		d.line(depth, n, n.Operator.String())
		d.expression(n.Argument, depth+1)
	case *ast.MemberExpression:
		d.line(depth, n, "")
		d.expression(n.Object, depth+1)
		d.expression(n.Property, depth+1)
	case *ast.CallExpression:
		d.line(depth, n, "")
		d.expression(n.Callee, depth+1)
		for _, a := range n.Arguments {
			d.expression(a, depth+1)
		}
	case *ast.NewExpression:
		d.line(depth, n, "")
		d.expression(n.Callee, depth+1)
		for _, a := range n.Arguments {
			d.expression(a, depth+1)
		}
	case *ast.ThisExpression:
		d.line(depth, n, "")
	case *ast.Identifier:
		d.line(depth, n, n.Name)
	case *ast.Literal:
		d.line(depth, n, n.Raw)
	default:
		d.line(depth, n, "")
	}
}
