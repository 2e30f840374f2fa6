package interp

import (
	"strconv"

	"stepjs/ast"
	"stepjs/object"
	"stepjs/scope"
	"stepjs/token"
)

// exprFrame builds the Frame that evaluates expr under sc, one node kind
// per case (§4.6's "one handler per AST node type"). Every case finishes
// via finishValue(v) on normal completion or finishComp(Completion{Throw})
// on a thrown exception - the two-outcome convention package interp's
// native-call frames already established, so any frame that suspends on an
// expression can check childComp.Type == Throw uniformly.
func exprFrame(ip *Interpreter, sc *scope.Scope, expr ast.Expression) *Frame {
	switch e := expr.(type) {

	case *ast.Literal:
		return &Frame{run: func(object.Value, Completion) stepResult {
			v, err := ip.literalValue(e)
			if err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			return finishValue(v)
		}}

	case *ast.ThisExpression:
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishValue(sc.NearestThis())
		}}

	case *ast.Identifier:
		return &Frame{run: func(object.Value, Completion) stepResult {
			owner, found := sc.Lookup(e.Name)
			if !found {
				return finishComp(ip.throwCompletion(ip.refError(e.Name)))
			}
			return finishValue(owner.Get(e.Name))
		}}

	case *ast.FunctionExpression:
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishValue(object.FromObject(ip.makeFunctionExpression(sc, e)))
		}}

	case *ast.ArrayExpression:
		return arrayExprFrame(ip, sc, e)

	case *ast.ObjectExpression:
		return objectExprFrame(ip, sc, e)

	case *ast.SequenceExpression:
		return sequenceExprFrame(ip, sc, e)

	case *ast.BinaryExpression:
		return binaryExprFrame(ip, sc, e)

	case *ast.LogicalExpression:
		return logicalExprFrame(ip, sc, e)

	case *ast.ConditionalExpression:
		return conditionalExprFrame(ip, sc, e)

	case *ast.UnaryExpression:
		return unaryExprFrame(ip, sc, e)

	case *ast.UpdateExpression:
		return updateExprFrame(ip, sc, e)

	case *ast.AssignmentExpression:
		return assignmentExprFrame(ip, sc, e)

	case *ast.MemberExpression:
		return memberExprFrame(ip, sc, e, nil)

	case *ast.CallExpression:
		return callExprFrame(ip, sc, e)

	case *ast.NewExpression:
		return newExprFrame(ip, sc, e)

	default:
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishComp(ip.throwCompletion(ip.wrapThrow(object.FromObject(
				ip.Realm.NewError("SyntaxError", "unsupported expression node")))))
		}}
	}
}

func (ip *Interpreter) refError(name string) error {
	return ip.wrapThrow(object.FromObject(ip.Realm.NewError("ReferenceError", name+" is not defined")))
}

// makeFunctionExpression builds the closure value for a FunctionExpression,
// wiring a self-reference scope for named function expressions so the
// function can recurse by its own name without that name leaking into the
// enclosing scope (§4.4).
func (ip *Interpreter) makeFunctionExpression(sc *scope.Scope, e *ast.FunctionExpression) *object.Object {
	strict := e.Strict || sc.NearestStrict()
	closure := sc
	if e.Id != nil {
		closure = scope.NewCatchScope(sc, e.Id.Name, object.Undefined)
	}
	gf := &GuestFunction{Params: e.Params, Body: e.Body, Closure: closure, Strict: strict}
	if e.Id != nil {
		gf.Name = e.Id.Name
	}
	fn := makeFunctionObject(ip, gf)
	if e.Id != nil {
		closure.Set(e.Id.Name, object.FromObject(fn))
	}
	return fn
}

// assignIdentifier implements set_value_to_scope (§4.4): write to the
// nearest enclosing scope that already binds name, or create an implicit
// global in non-strict code, or throw ReferenceError in strict code.
func (ip *Interpreter) assignIdentifier(sc *scope.Scope, name string, v object.Value) error {
	if owner, found := sc.Lookup(name); found {
		owner.Set(name, v)
		return nil
	}
	if sc.NearestStrict() {
		return ip.refError(name)
	}
	ip.global.Set(name, v)
	return nil
}

// ---- array/object/sequence literals ----

func arrayExprFrame(ip *Interpreter, sc *scope.Scope, e *ast.ArrayExpression) *Frame {
	arr := object.NewArray(ip.Realm.ArrayProto, uint32(len(e.Elements)))
	i := 0
	var run func(childVal object.Value, childComp Completion) stepResult
	advance := func() stepResult {
		for i < len(e.Elements) && e.Elements[i] == nil {
			i++ // elision: no own property, length already accounts for it
		}
		if i >= len(e.Elements) {
			return finishValue(object.FromObject(arr))
		}
		return suspend(exprFrame(ip, sc, e.Elements[i]))
	}
	started := false
	run = func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return advance()
		}
		if childComp.Type == Throw {
			return finishComp(childComp)
		}
		arr.DefineDataProperty(strconv.Itoa(i), childVal, true, true, true)
		i++
		return advance()
	}
	return &Frame{run: run}
}

func objectExprFrame(ip *Interpreter, sc *scope.Scope, e *ast.ObjectExpression) *Frame {
	obj := ip.Realm.NewObject()
	i := 0
	var run func(childVal object.Value, childComp Completion) stepResult
	advance := func() stepResult {
		if i >= len(e.Properties) {
			return finishValue(object.FromObject(obj))
		}
		return suspend(exprFrame(ip, sc, e.Properties[i].Value))
	}
	started := false
	run = func(childVal object.Value, childComp Completion) stepResult {
		if !started {
			started = true
			return advance()
		}
		if childComp.Type == Throw {
			return finishComp(childComp)
		}
		prop := e.Properties[i]
		switch prop.Kind {
		case "get":
			obj.DefineAccessorProperty(prop.Key, childVal.Object(), nil, true, true)
		case "set":
			obj.DefineAccessorProperty(prop.Key, nil, childVal.Object(), true, true)
		default:
			obj.DefineDataProperty(prop.Key, childVal, true, true, true)
		}
		i++
		return advance()
	}
	return &Frame{run: run}
}

func sequenceExprFrame(ip *Interpreter, sc *scope.Scope, e *ast.SequenceExpression) *Frame {
	i := 0
	var last object.Value
	var run func(childVal object.Value, childComp Completion) stepResult
	started := false
	run = func(childVal object.Value, childComp Completion) stepResult {
		if started {
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			last = childVal
			i++
		}
		started = true
		if i >= len(e.Expressions) {
			return finishValue(last)
		}
		return suspend(exprFrame(ip, sc, e.Expressions[i]))
	}
	return &Frame{run: run}
}

// ---- operators ----

// binaryCoercionHint names the ToPrimitive hint an operator needs applied
// to an object operand before applyBinaryOp can finish it on primitives
// alone. Operators absent from this map (==/!=, ===/!==, in, instanceof)
// either need no ToPrimitive coercion or, for == and !=, recurse through
// more than a single fixed two-operand coercion step (11.9.3's cross-type
// table), which stays on applyBinaryOp's existing synchronous ip.ToPrimitive
// path rather than being unrolled into frame phases here.
var binaryCoercionHint = map[token.Type]string{
	token.PLUS: "default",
	token.MINUS: "number", token.MULTIPLY: "number", token.SLASH: "number", token.REMAINDER: "number",
	token.LESS: "number", token.GREATER: "number", token.LESS_OR_EQUAL: "number", token.GREATER_OR_EQUAL: "number",
	token.AND: "number", token.OR: "number", token.XOR: "number",
	token.SHIFT_LEFT: "number", token.SHIFT_RIGHT: "number", token.UNSIGNED_SHIFT_RIGHT: "number",
}

// binaryExprFrame evaluates left, then right, then - for operators that may
// need it - coerces whichever operand(s) are objects to a primitive through
// toPrimitiveFrame's genuine trampoline before handing both (now-primitive)
// operands to applyBinaryOp, whose own ip.ToPrimitive calls become no-ops
// once their input is no longer an object.
func binaryExprFrame(ip *Interpreter, sc *scope.Scope, e *ast.BinaryExpression) *Frame {
	phase := 0
	var lval, rval object.Value
	hint, needsCoercion := binaryCoercionHint[e.Operator]
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		switch phase {
		case 0:
			phase = 1
			return suspend(exprFrame(ip, sc, e.Left))
		case 1:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			lval = childVal
			phase = 2
			return suspend(exprFrame(ip, sc, e.Right))
		case 2:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			rval = childVal
			if needsCoercion && lval.IsObject() {
				phase = 3
				return suspend(toPrimitiveFrame(ip, lval, hint))
			}
			if needsCoercion && rval.IsObject() {
				phase = 4
				return suspend(toPrimitiveFrame(ip, rval, hint))
			}
			return finishBinaryOp(ip, e.Operator, lval, rval)
		case 3:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			lval = childVal
			if rval.IsObject() {
				phase = 4
				return suspend(toPrimitiveFrame(ip, rval, hint))
			}
			return finishBinaryOp(ip, e.Operator, lval, rval)
		default:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			rval = childVal
			return finishBinaryOp(ip, e.Operator, lval, rval)
		}
	}}
}

func finishBinaryOp(ip *Interpreter, op token.Type, l, r object.Value) stepResult {
	v, err := ip.applyBinaryOp(op, l, r)
	if err != nil {
		return finishComp(ip.throwCompletion(err))
	}
	return finishValue(v)
}

func logicalExprFrame(ip *Interpreter, sc *scope.Scope, e *ast.LogicalExpression) *Frame {
	phase := 0
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		switch phase {
		case 0:
			phase = 1
			return suspend(exprFrame(ip, sc, e.Left))
		default:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			if e.Operator == token.LOGICAL_AND && !childVal.ToBoolean() {
				return finishValue(childVal)
			}
			if e.Operator == token.LOGICAL_OR && childVal.ToBoolean() {
				return finishValue(childVal)
			}
			if phase == 1 {
				phase = 2
				return suspend(exprFrame(ip, sc, e.Right))
			}
			return finishValue(childVal)
		}
	}}
}

func conditionalExprFrame(ip *Interpreter, sc *scope.Scope, e *ast.ConditionalExpression) *Frame {
	phase := 0
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if phase == 0 {
			phase = 1
			return suspend(exprFrame(ip, sc, e.Test))
		}
		if phase == 1 {
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			phase = 2
			if childVal.ToBoolean() {
				return suspend(exprFrame(ip, sc, e.Consequent))
			}
			return suspend(exprFrame(ip, sc, e.Alternate))
		}
		if childComp.Type == Throw {
			return finishComp(childComp)
		}
		return finishValue(childVal)
	}}
}

// unaryExprFrame handles delete/typeof/void/!/~/+/- (§4.2's precedence
// level, §4.6's "delete/typeof need the un-evaluated reference" note).
func unaryExprFrame(ip *Interpreter, sc *scope.Scope, e *ast.UnaryExpression) *Frame {
	if e.Operator == token.DELETE {
		return deleteExprFrame(ip, sc, e.Argument)
	}
	if e.Operator == token.TYPEOF {
		return typeofExprFrame(ip, sc, e.Argument)
	}
	needsCoercion := e.Operator == token.PLUS || e.Operator == token.MINUS || e.Operator == token.BITWISE_NOT
	phase := 0
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		switch phase {
		case 0:
			phase = 1
			return suspend(exprFrame(ip, sc, e.Argument))
		case 1:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			if e.Operator == token.VOID {
				return finishValue(object.Undefined)
			}
			if needsCoercion && childVal.IsObject() {
				phase = 2
				return suspend(toPrimitiveFrame(ip, childVal, "number"))
			}
			return finishUnaryOp(ip, e.Operator, childVal)
		default:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			return finishUnaryOp(ip, e.Operator, childVal)
		}
	}}
}

func finishUnaryOp(ip *Interpreter, op token.Type, v object.Value) stepResult {
	res, err := ip.applyUnaryOp(op, v)
	if err != nil {
		return finishComp(ip.throwCompletion(err))
	}
	return finishValue(res)
}

// typeofExprFrame suppresses ReferenceError for an undeclared identifier,
// yielding "undefined" instead (§4.4, §8 boundary behavior).
func typeofExprFrame(ip *Interpreter, sc *scope.Scope, arg ast.Expression) *Frame {
	if id, ok := arg.(*ast.Identifier); ok {
		return &Frame{run: func(object.Value, Completion) stepResult {
			owner, found := sc.Lookup(id.Name)
			if !found {
				return finishValue(object.String("undefined"))
			}
			return finishValue(object.String(typeOf(owner.Get(id.Name))))
		}}
	}
	phase := 0
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if phase == 0 {
			phase = 1
			return suspend(exprFrame(ip, sc, arg))
		}
		if childComp.Type == Throw {
			return finishComp(childComp)
		}
		return finishValue(object.String(typeOf(childVal)))
	}}
}

// deleteExprFrame implements `delete` on an identifier (strict mode rejects
// this at parse time per spec.md; non-strict unqualified delete is a no-op
// returning false) or a MemberExpression (property delete, §4.3).
func deleteExprFrame(ip *Interpreter, sc *scope.Scope, arg ast.Expression) *Frame {
	if _, ok := arg.(*ast.Identifier); ok {
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishValue(object.Bool(false))
		}}
	}
	me, ok := arg.(*ast.MemberExpression)
	if !ok {
		return &Frame{run: func(object.Value, Completion) stepResult {
			return finishValue(object.Bool(true))
		}}
	}
	phase := 0
	var base object.Value
	var name string
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		switch phase {
		case 0:
			phase = 1
			return suspend(exprFrame(ip, sc, me.Object))
		case 1:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			base = childVal
			if me.Computed {
				phase = 2
				return suspend(exprFrame(ip, sc, me.Property))
			}
			name = me.Property.(*ast.Identifier).Name
			phase = 3
			return deleteFinish(ip, sc, base, name)
		case 2:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			s, err := ip.ToString(childVal)
			if err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			name = s
			phase = 3
			return deleteFinish(ip, sc, base, name)
		default:
			return finishValue(object.Bool(true))
		}
	}}
}

func deleteFinish(ip *Interpreter, sc *scope.Scope, base object.Value, name string) stepResult {
	if !base.IsObject() {
		return finishValue(object.Bool(true))
	}
	ok := base.Object().DeleteOwn(name)
	if !ok && sc.NearestStrict() {
		return finishComp(ip.throwCompletion(ip.wrapThrow(object.FromObject(
			ip.Realm.NewError("TypeError", "property \""+name+"\" is non-configurable and cannot be deleted")))))
	}
	return finishValue(object.Bool(ok))
}

// ---- update (++/--) ----

func updateExprFrame(ip *Interpreter, sc *scope.Scope, e *ast.UpdateExpression) *Frame {
	delta := 1.0
	if e.Operator == token.DECREMENT {
		delta = -1.0
	}
	if id, ok := e.Argument.(*ast.Identifier); ok {
		return &Frame{run: func(object.Value, Completion) stepResult {
			owner, found := sc.Lookup(id.Name)
			if !found {
				return finishComp(ip.throwCompletion(ip.refError(id.Name)))
			}
			old, err := ip.ToNumber(owner.Get(id.Name))
			if err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			updated := old + delta
			if err := ip.assignIdentifier(sc, id.Name, object.Number(updated)); err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			if e.Prefix {
				return finishValue(object.Number(updated))
			}
			return finishValue(object.Number(old))
		}}
	}

	me := e.Argument.(*ast.MemberExpression)
	// phase 0/1: evaluate object (and, if computed, the property name).
	// phase 2: dispatch the read - possibly through a getter, via the
	// propertyGetFrame trampoline. phase 3: dispatch the write - possibly
	// through a setter, via propertySetFrame. default: done.
	phase := 0
	var base object.Value
	var name string
	var old float64
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		switch phase {
		case 0:
			phase = 1
			return suspend(exprFrame(ip, sc, me.Object))
		case 1:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			base = childVal
			if me.Computed {
				phase = 2
				return suspend(exprFrame(ip, sc, me.Property))
			}
			name = me.Property.(*ast.Identifier).Name
			phase = 3
			return suspend(propertyGetFrame(ip, base, name))
		case 2:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			s, err := ip.ToString(childVal)
			if err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			name = s
			phase = 3
			return suspend(propertyGetFrame(ip, base, name))
		case 3:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			n, err := ip.ToNumber(childVal)
			if err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			old = n
			phase = 4
			return suspend(propertySetFrame(ip, base, name, object.Number(old+delta), sc.NearestStrict()))
		default:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			if e.Prefix {
				return finishValue(object.Number(old + delta))
			}
			return finishValue(object.Number(old))
		}
	}}
}

// ---- assignment ----

func assignmentExprFrame(ip *Interpreter, sc *scope.Scope, e *ast.AssignmentExpression) *Frame {
	if id, ok := e.Left.(*ast.Identifier); ok {
		return identifierAssignFrame(ip, sc, e, id)
	}
	return memberAssignFrame(ip, sc, e, e.Left.(*ast.MemberExpression))
}

func identifierAssignFrame(ip *Interpreter, sc *scope.Scope, e *ast.AssignmentExpression, id *ast.Identifier) *Frame {
	binOp := token.BinaryOpForAssign(e.Operator)
	phase := 0
	var oldVal object.Value
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if phase == 0 {
			if binOp != token.ILLEGAL {
				owner, found := sc.Lookup(id.Name)
				if !found {
					return finishComp(ip.throwCompletion(ip.refError(id.Name)))
				}
				oldVal = owner.Get(id.Name)
			}
			phase = 1
			return suspend(exprFrame(ip, sc, e.Right))
		}
		if childComp.Type == Throw {
			return finishComp(childComp)
		}
		result := childVal
		if binOp != token.ILLEGAL {
			v, err := ip.applyBinaryOp(binOp, oldVal, childVal)
			if err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			result = v
		}
		if err := ip.assignIdentifier(sc, id.Name, result); err != nil {
			return finishComp(ip.throwCompletion(err))
		}
		return finishValue(result)
	}}
}

// memberAssignFrame implements `a.b = c` / `a.b += c`, preserving the
// left-to-right evaluation order §8 invariant 8 requires: object, then
// (for compound ops) the current value, then the right-hand side, then the
// store.
// memberAssignFrame's phases: 0/1 evaluate the object (and, if computed,
// the property name); 2 (compound assignment only) read the current value
// through propertyGetFrame's trampoline; 3 evaluate the right-hand side; 4
// write the result through propertySetFrame's trampoline; default: done.
func memberAssignFrame(ip *Interpreter, sc *scope.Scope, e *ast.AssignmentExpression, me *ast.MemberExpression) *Frame {
	binOp := token.BinaryOpForAssign(e.Operator)
	phase := 0
	var base object.Value
	var name string
	var oldVal object.Value
	var result object.Value
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		switch phase {
		case 0:
			phase = 1
			return suspend(exprFrame(ip, sc, me.Object))
		case 1:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			base = childVal
			if me.Computed {
				phase = 2
				return suspend(exprFrame(ip, sc, me.Property))
			}
			name = me.Property.(*ast.Identifier).Name
			return memberAssignGotName(ip, sc, e, binOp, base, name, &phase)
		case 2:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			s, err := ip.ToString(childVal)
			if err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			name = s
			return memberAssignGotName(ip, sc, e, binOp, base, name, &phase)
		case 3:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			oldVal = childVal
			phase = 4
			return suspend(exprFrame(ip, sc, e.Right))
		case 4:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			result = childVal
			if binOp != token.ILLEGAL {
				v, err := ip.applyBinaryOp(binOp, oldVal, childVal)
				if err != nil {
					return finishComp(ip.throwCompletion(err))
				}
				result = v
			}
			phase = 5
			return suspend(propertySetFrame(ip, base, name, result, sc.NearestStrict()))
		default:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			return finishValue(result)
		}
	}}
}

// memberAssignGotName decides, once the property name is known, whether a
// compound assignment needs its current value first (suspending on
// propertyGetFrame, phase 3) or can go straight to the right-hand side
// (phase 4).
func memberAssignGotName(ip *Interpreter, sc *scope.Scope, e *ast.AssignmentExpression, binOp token.Type, base object.Value, name string, phase *int) stepResult {
	if binOp != token.ILLEGAL {
		*phase = 3
		return suspend(propertyGetFrame(ip, base, name))
	}
	*phase = 4
	return suspend(exprFrame(ip, sc, e.Right))
}

// ---- member access ----

// memberExprFrame evaluates a MemberExpression to its value. When thisOut
// is non-nil, *thisOut is set to the evaluated base object's value, letting
// CallExpression recover the correct receiver for `obj.method()` calls
// without re-evaluating obj.
func memberExprFrame(ip *Interpreter, sc *scope.Scope, e *ast.MemberExpression, thisOut *object.Value) *Frame {
	phase := 0
	var base object.Value
	dispatching := false
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if dispatching {
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			return finishValue(childVal)
		}
		switch phase {
		case 0:
			phase = 1
			return suspend(exprFrame(ip, sc, e.Object))
		case 1:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			base = childVal
			if thisOut != nil {
				*thisOut = base
			}
			if e.Computed {
				phase = 2
				return suspend(exprFrame(ip, sc, e.Property))
			}
			dispatching = true
			return suspend(propertyGetFrame(ip, base, e.Property.(*ast.Identifier).Name))
		default:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			name, err := ip.ToString(childVal)
			if err != nil {
				return finishComp(ip.throwCompletion(err))
			}
			dispatching = true
			return suspend(propertyGetFrame(ip, base, name))
		}
	}}
}

// ---- call / new ----

// callExprFrame steps through callee, (for a member callee) the receiver,
// each argument left-to-right, and finally the call itself. evaluating is
// true while we are still gathering callee/args; once false, the next
// resumption carries the call's own result straight through.
func callExprFrame(ip *Interpreter, sc *scope.Scope, e *ast.CallExpression) *Frame {
	phase := 0
	evaluating := true
	var this object.Value
	var callee object.Value
	args := make([]object.Value, 0, len(e.Arguments))
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if !evaluating {
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			return finishValue(childVal)
		}
		switch phase {
		case 0:
			phase = 1
			if me, ok := e.Callee.(*ast.MemberExpression); ok {
				return suspend(memberExprFrame(ip, sc, me, &this))
			}
			return suspend(exprFrame(ip, sc, e.Callee))
		case 1:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			callee = childVal
			phase = 2
		default:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			args = append(args, childVal)
		}
		if len(args) < len(e.Arguments) {
			return suspend(exprFrame(ip, sc, e.Arguments[len(args)]))
		}
		if !callee.IsObject() || !callee.Object().IsCallable() {
			return finishComp(ip.throwCompletion(ip.wrapThrow(object.FromObject(
				ip.Realm.NewError("TypeError", "value is not a function")))))
		}
		evaluating = false
		return suspend(callFunctionFrame(ip, callee.Object(), this, args))
	}}
}

func newExprFrame(ip *Interpreter, sc *scope.Scope, e *ast.NewExpression) *Frame {
	phase := 0
	evaluating := true
	var callee object.Value
	args := make([]object.Value, 0, len(e.Arguments))
	return &Frame{run: func(childVal object.Value, childComp Completion) stepResult {
		if !evaluating {
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			return finishValue(childVal)
		}
		switch phase {
		case 0:
			phase = 1
			return suspend(exprFrame(ip, sc, e.Callee))
		case 1:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			callee = childVal
			phase = 2
		default:
			if childComp.Type == Throw {
				return finishComp(childComp)
			}
			args = append(args, childVal)
		}
		if len(args) < len(e.Arguments) {
			return suspend(exprFrame(ip, sc, e.Arguments[len(args)]))
		}
		if !callee.IsObject() || !callee.Object().IsConstructor() {
			return finishComp(ip.throwCompletion(ip.wrapThrow(object.FromObject(
				ip.Realm.NewError("TypeError", "value is not a constructor")))))
		}
		evaluating = false
		return suspend(constructFunctionFrame(ip, callee.Object(), args))
	}}
}
