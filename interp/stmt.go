package interp

import (
	"stepjs/ast"
	"stepjs/object"
	"stepjs/scope"
)

// newStatementListFrame steps through body in order, propagating the first
// abrupt completion (Break/Continue/Return/Throw) without running any
// statement after it - a function body, block, or Program's top level all
// share this shape (§4.6).
func newStatementListFrame(ip *Interpreter, sc *scope.Scope, body []ast.Statement) *Frame {
	i := 0
	last := object.Undefined
	started := false
	var run func(childVal object.Value, childComp Completion) stepResult

	advance := func() stepResult {
		for i < len(body) {
			if _, ok := body[i].(*ast.FunctionDeclaration); ok {
				// already bound by hoistFunctionDecls before this frame ran
				i++
				continue
			}
			break
		}
		if i >= len(body) {
			return finishComp(normal(last))
		}
		return suspend(stmtFrame(ip, sc, body[i]))
	}

	run = func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return advance()
		}
		if childComp.Type != Normal {
			return finishComp(childComp)
		}
		last = childComp.Value
		i++
		return advance()
	}
	return &Frame{run: run}
}

// stmtFrame builds the Frame that evaluates stmt, the statement-side
// counterpart to exprFrame. Every case finishes via finishComp(comp) with
// comp.Type ranging over all five completion kinds (§4.6).
func stmtFrame(ip *Interpreter, sc *scope.Scope, stmt ast.Statement) *Frame {
	return labeledStmtFrame(ip, sc, stmt, nil)
}

// labeledStmtFrame peels nested LabeledStatement wrappers into a flat label
// set, handed to the loop/switch builders below so `continue outer` can
// resume the right enclosing iteration statement (§4.6, §8).
func labeledStmtFrame(ip *Interpreter, sc *scope.Scope, stmt ast.Statement, labels []string) *Frame {
	switch s := stmt.(type) {
	case *ast.LabeledStatement:
		return labeledStmtFrame(ip, sc, s.Body, append(labels, s.Label))
	case *ast.ForStatement:
		return forStmtFrame(ip, sc, s, labels)
	case *ast.ForInStatement:
		return forInStmtFrame(ip, sc, s, labels)
	case *ast.WhileStatement:
		return whileStmtFrame(ip, sc, s, labels)
	case *ast.DoWhileStatement:
		return doWhileStmtFrame(ip, sc, s, labels)
	case *ast.SwitchStatement:
		return switchStmtFrame(ip, sc, s, labels)
	default:
		f := plainStmtFrame(ip, sc, stmt)
		if len(labels) == 0 {
			return f
		}
		return labelAbsorbFrame(f, labels)
	}
}

// labelAbsorbFrame catches a labeled `break label;` aimed at a non-loop,
// non-switch statement (e.g. `outer: { ...; break outer; }`), letting an
// ordinary block act as a break target the way ES5 allows (§4.6).
func labelAbsorbFrame(body *Frame, labels []string) *Frame {
	started := false
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return suspend(body)
		}
		if childComp.Type == Break && childComp.Label != "" && labelMatches(childComp.Label, labels) {
			return finishComp(normal(object.Undefined))
		}
		return finishComp(childComp)
	}}
}

// labelMatches reports whether an (unlabeled, or labeled) break/continue
// targets a construct carrying labels: an empty completion label always
// targets the nearest enclosing loop/switch, a named one only a construct
// actually wearing that label.
func labelMatches(label string, labels []string) bool {
	if label == "" {
		return true
	}
	for _, l := range labels {
		if l == label {
			return true
		}
	}
	return false
}

// plainStmtFrame handles every statement kind that isn't a label/loop/switch
// wrapper: blocks, declarations, control transfer, try/with.
func plainStmtFrame(ip *Interpreter, sc *scope.Scope, stmt ast.Statement) *Frame {
	switch s := stmt.(type) {

	case *ast.BlockStatement:
		return newStatementListFrame(ip, sc, s.Body)

	case *ast.ExpressionStatement:
		phase := 0
		return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
			if phase == 0 {
				phase = 1
				return suspend(exprFrame(ip, sc, s.Expression))
			}
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			return finishComp(normal(childVal))
		}}

	case *ast.EmptyStatement:
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishComp(normal(object.Undefined))
		}}

	case *ast.DebuggerStatement:
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishComp(normal(object.Undefined))
		}}

	case *ast.VariableDeclaration:
		return varDeclFrame(ip, sc, s)

	case *ast.FunctionDeclaration:
		// bound ahead of time by hoistFunctionDecls; evaluating it is a no-op
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishComp(normal(object.Undefined))
		}}

	case *ast.IfStatement:
		return ifStmtFrame(ip, sc, s)

	case *ast.BreakStatement:
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishComp(Completion{Type: Break, Label: s.Label})
		}}

	case *ast.ContinueStatement:
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishComp(Completion{Type: Continue, Label: s.Label})
		}}

	case *ast.ReturnStatement:
		if s.Argument == nil {
			return &Frame{run: func(object.Value, Completion) stepResult {
				return finishComp(Completion{Type: Return, Value: object.Undefined})
			}}
		}
		phase := 0
		return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
			if phase == 0 {
				phase = 1
				return suspend(exprFrame(ip, sc, s.Argument))
			}
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			return finishComp(Completion{Type: Return, Value: childVal})
		}}

	case *ast.ThrowStatement:
		phase := 0
		return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
			if phase == 0 {
				phase = 1
				return suspend(exprFrame(ip, sc, s.Argument))
			}
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			return finishComp(Completion{Type: Throw, Value: childVal})
		}}

	case *ast.TryStatement:
		return tryStmtFrame(ip, sc, s)

	case *ast.WithStatement:
		return withStmtFrame(ip, sc, s)

	default:
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishComp(ip.throwCompletion(ip.wrapThrow(object.FromObject(
				ip.Realm.NewError("SyntaxError", "unsupported statement node")))))
		}}
	}
}

// varDeclFrame evaluates each declarator's initializer in order, assigning
// into the already-hoisted binding; declarators with no initializer are a
// no-op, since HoistVars already bound them to undefined (§4.4).
func varDeclFrame(ip *Interpreter, sc *scope.Scope, s *ast.VariableDeclaration) *Frame {
	i := 0
	started := false
	var run func(childVal object.Value, childComp Completion) stepResult
	advance := func() stepResult {
		for i < len(s.Declarations) && s.Declarations[i].Init == nil {
			i++
		}
		if i >= len(s.Declarations) {
			return finishComp(normal(object.Undefined))
		}
		return suspend(exprFrame(ip, sc, s.Declarations[i].Init))
	}
	run = func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return advance()
		}
		if childComp.Type == Throw {
			return finishComp(childComp)
		}
		if err := ip.assignIdentifier(sc, s.Declarations[i].Id.Name, childVal); err != nil {
			return finishComp(ip.throwCompletion(err))
		}
		i++
		return advance()
	}
	return &Frame{run: run}
}

func ifStmtFrame(ip *Interpreter, sc *scope.Scope, s *ast.IfStatement) *Frame {
	phase := 0
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if phase == 0 {
			phase = 1
			return suspend(exprFrame(ip, sc, s.Test))
		}
		if phase == 1 {
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			phase = 2
			if childVal.ToBoolean() {
				return suspend(stmtFrame(ip, sc, s.Consequent))
			}
			if s.Alternate != nil {
				return suspend(stmtFrame(ip, sc, s.Alternate))
			}
			return finishComp(normal(object.Undefined))
		}
		return finishComp(childComp)
	}}
}

// tryStmtFrame implements try/catch/finally, including the ES5 rule that a
// finally block's own completion overrides whatever the try/catch produced
// (§4.6's completion-record unwinding).
func tryStmtFrame(ip *Interpreter, sc *scope.Scope, s *ast.TryStatement) *Frame {
	const (
		stBlock = iota
		stCatch
		stFinally
	)
	state := stBlock
	started := false
	var blockComp Completion
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return suspend(newStatementListFrame(ip, sc, s.Block.Body))
		}
		switch state {
		case stBlock:
			blockComp = childComp
			if childComp.Type == Throw && s.Handler != nil {
				state = stCatch
				catchScope := scope.NewCatchScope(sc, s.Handler.Param.Name, childComp.Value)
				return suspend(newStatementListFrame(ip, catchScope, s.Handler.Body.Body))
			}
			if s.Finalizer != nil {
				state = stFinally
				return suspend(newStatementListFrame(ip, sc, s.Finalizer.Body))
			}
			return finishComp(blockComp)
		case stCatch:
			blockComp = childComp
			if s.Finalizer != nil {
				state = stFinally
				return suspend(newStatementListFrame(ip, sc, s.Finalizer.Body))
			}
			return finishComp(blockComp)
		default: // stFinally
			if childComp.Type != Normal {
				return finishComp(childComp)
			}
			return finishComp(blockComp)
		}
	}}
}

// withStmtFrame evaluates the with-object once and runs body under an
// object-backed scope that resolves unqualified names against it (§4.4).
func withStmtFrame(ip *Interpreter, sc *scope.Scope, s *ast.WithStatement) *Frame {
	phase := 0
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if phase == 0 {
			phase = 1
			return suspend(exprFrame(ip, sc, s.Object))
		}
		if phase == 1 {
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			obj, err := ip.Realm.ToObject(childVal)
			if err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			phase = 2
			withScope := scope.NewWithScope(sc, obj)
			return suspend(stmtFrame(ip, withScope, s.Body))
		}
		return finishComp(childComp)
	}}
}
