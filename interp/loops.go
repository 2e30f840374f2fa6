package interp

import (
	"stepjs/ast"
	"stepjs/object"
	"stepjs/scope"
	"stepjs/token"
)

// forStmtFrame steps init -> test -> body -> update -> test -> ... (§4.6).
// labels carries every LabeledStatement name wrapping this loop directly, so
// a matching `break`/`continue` (labeled or bare) is caught here rather than
// propagated further up the frame stack.
func forStmtFrame(ip *Interpreter, sc *scope.Scope, s *ast.ForStatement, labels []string) *Frame {
	const (
		stInit = iota
		stTest
		stBody
		stUpdate
	)
	state := stInit
	started := false
	var run func(childVal object.Value, childComp Completion) stepResult

	toTest := func() stepResult {
		if s.Test == nil {
			state = stBody
			return suspend(stmtFrame(ip, sc, s.Body))
		}
		state = stTest
		return suspend(exprFrame(ip, sc, s.Test))
	}
	toUpdate := func() stepResult {
		if s.Update == nil {
			return toTest()
		}
		state = stUpdate
		return suspend(exprFrame(ip, sc, s.Update))
	}

	run = func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			if s.Init != nil {
				if decl, ok := s.Init.(*ast.VariableDeclaration); ok {
					return suspend(varDeclFrame(ip, sc, decl))
				}
				return suspend(exprFrame(ip, sc, s.Init.(ast.Expression)))
			}
			return toTest()
		}
		switch state {
		case stInit:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			return toTest()
		case stTest:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			if !childVal.ToBoolean() {
				return finishComp(normal(object.Undefined))
			}
			state = stBody
			return suspend(stmtFrame(ip, sc, s.Body))
		case stBody:
			switch childComp.Type {
			case Throw, Return:
				return finishComp(childComp)
			case Break:
				if labelMatches(childComp.Label, labels) {
					return finishComp(normal(object.Undefined))
				}
				return finishComp(childComp)
			case Continue:
				if !labelMatches(childComp.Label, labels) {
					return finishComp(childComp)
				}
			}
			return toUpdate()
		default: // stUpdate
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			return toTest()
		}
	}
	return &Frame{run: run}
}

func whileStmtFrame(ip *Interpreter, sc *scope.Scope, s *ast.WhileStatement, labels []string) *Frame {
	const (
		stTest = iota
		stBody
	)
	state := stTest
	started := false
	var run func(childVal object.Value, childComp Completion) stepResult
	run = func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return suspend(exprFrame(ip, sc, s.Test))
		}
		switch state {
		case stTest:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			if !childVal.ToBoolean() {
				return finishComp(normal(object.Undefined))
			}
			state = stBody
			return suspend(stmtFrame(ip, sc, s.Body))
		default:
			switch childComp.Type {
			case Throw, Return:
				return finishComp(childComp)
			case Break:
				if labelMatches(childComp.Label, labels) {
					return finishComp(normal(object.Undefined))
				}
				return finishComp(childComp)
			case Continue:
				if !labelMatches(childComp.Label, labels) {
					return finishComp(childComp)
				}
			}
			state = stTest
			return suspend(exprFrame(ip, sc, s.Test))
		}
	}
	return &Frame{run: run}
}

func doWhileStmtFrame(ip *Interpreter, sc *scope.Scope, s *ast.DoWhileStatement, labels []string) *Frame {
	const (
		stBody = iota
		stTest
	)
	state := stBody
	started := false
	var run func(childVal object.Value, childComp Completion) stepResult
	run = func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return suspend(stmtFrame(ip, sc, s.Body))
		}
		switch state {
		case stBody:
			switch childComp.Type {
			case Throw, Return:
				return finishComp(childComp)
			case Break:
				if labelMatches(childComp.Label, labels) {
					return finishComp(normal(object.Undefined))
				}
				return finishComp(childComp)
			case Continue:
				if !labelMatches(childComp.Label, labels) {
					return finishComp(childComp)
				}
			}
			state = stTest
			return suspend(exprFrame(ip, sc, s.Test))
		default:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			if !childVal.ToBoolean() {
				return finishComp(normal(object.Undefined))
			}
			state = stBody
			return suspend(stmtFrame(ip, sc, s.Body))
		}
	}
	return &Frame{run: run}
}

// forInStmtFrame enumerates obj's enumerable property names (own first,
// then up the prototype chain, first occurrence wins) snapshotted once at
// loop entry - a documented simplification of ES5's live enumeration
// (DESIGN.md), assigning each in turn to Left before running Body.
func forInStmtFrame(ip *Interpreter, sc *scope.Scope, s *ast.ForInStatement, labels []string) *Frame {
	const (
		stRight = iota
		stAssign
		stBody
	)
	state := stRight
	started := false
	var keys []string
	idx := 0

	var leftExpr ast.Expression
	if decl, ok := s.Left.(*ast.VariableDeclaration); ok {
		leftExpr = decl.Declarations[0].Id
	} else {
		leftExpr = s.Left.(ast.Expression)
	}

	var run func(childVal object.Value, childComp Completion) stepResult
	advance := func() stepResult {
		if idx >= len(keys) {
			return finishComp(normal(object.Undefined))
		}
		key := keys[idx]
		idx++
		state = stAssign
		return suspend(assignmentExprFrame(ip, sc, &ast.AssignmentExpression{
			Operator: token.ASSIGN,
			Left:     leftExpr,
			Right:    &ast.Literal{Value: key},
		}))
	}

	run = func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return suspend(exprFrame(ip, sc, s.Right))
		}
		switch state {
		case stRight:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			if childVal.IsNullOrUndefined() {
				return finishComp(normal(object.Undefined))
			}
			obj, err := ip.Realm.ToObject(childVal)
			if err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			keys = enumerateKeys(obj)
			return advance()
		case stAssign:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			state = stBody
			return suspend(stmtFrame(ip, sc, s.Body))
		default: // stBody
			switch childComp.Type {
			case Throw, Return:
				return finishComp(childComp)
			case Break:
				if labelMatches(childComp.Label, labels) {
					return finishComp(normal(object.Undefined))
				}
				return finishComp(childComp)
			case Continue:
				if !labelMatches(childComp.Label, labels) {
					return finishComp(childComp)
				}
			}
			return advance()
		}
	}
	return &Frame{run: run}
}

// enumerateKeys collects for-in's visitation order: own enumerable keys
// first in insertion order, then each prototype's in turn, skipping any
// name already seen further down the chain (§4.3, §4.6).
func enumerateKeys(o *object.Object) []string {
	seen := make(map[string]bool)
	var out []string
	for cur := o; cur != nil; cur = cur.Proto {
		for _, k := range cur.OwnKeys() {
			if seen[k] {
				continue
			}
			seen[k] = true
			if d := cur.GetOwnProperty(k); d != nil && d.Enumerable {
				out = append(out, k)
			}
		}
	}
	return out
}

// switchStmtFrame implements switch/case fallthrough semantics: evaluate
// case tests strictly in source order (stopping at the first === match, so
// later tests' side effects never run), then execute every statement from
// the matched clause (or default, if nothing matched) through the end of
// the switch regardless of later clauses' own tests (§4.6).
func switchStmtFrame(ip *Interpreter, sc *scope.Scope, s *ast.SwitchStatement, labels []string) *Frame {
	const (
		stDisc = iota
		stCaseTest
		stBody
	)
	state := stDisc
	started := false
	var disc object.Value
	testIdx := 0
	defaultIdx := -1
	runIdx := -1

	var run func(childVal object.Value, childComp Completion) stepResult
	var nextTest func() stepResult
	var startBody func() stepResult

	nextTest = func() stepResult {
		for testIdx < len(s.Cases) {
			c := s.Cases[testIdx]
			if c.Test == nil {
				if defaultIdx < 0 {
					defaultIdx = testIdx
				}
				testIdx++
				continue
			}
			state = stCaseTest
			return suspend(exprFrame(ip, sc, c.Test))
		}
		if runIdx < 0 {
			runIdx = defaultIdx
		}
		return startBody()
	}

	startBody = func() stepResult {
		if runIdx < 0 {
			return finishComp(normal(object.Undefined))
		}
		state = stBody
		var stmts []ast.Statement
		for i := runIdx; i < len(s.Cases); i++ {
			stmts = append(stmts, s.Cases[i].Consequent...)
		}
		return suspend(newStatementListFrame(ip, sc, stmts))
	}

	run = func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return suspend(exprFrame(ip, sc, s.Discriminant))
		}
		switch state {
		case stDisc:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			disc = childVal
			return nextTest()
		case stCaseTest:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			if strictEquals(disc, childVal) {
				runIdx = testIdx
				testIdx = len(s.Cases)
				return startBody()
			}
			testIdx++
			return nextTest()
		default: // stBody
			if childComp.Type == Break && labelMatches(childComp.Label, labels) {
				return finishComp(normal(object.Undefined))
			}
			return finishComp(childComp)
		}
	}
	return &Frame{run: run}
}
