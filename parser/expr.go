package parser

import (
	"stepjs/ast"
	"stepjs/token"
)

// parseExpression parses a comma-separated Expression, folding into a
// SequenceExpression when more than one is present. noIn suppresses `in`
// as a binary operator while parsing a for-statement head (§4.2).
func (p *parser) parseExpression(noIn bool) ast.Expression {
	pos := p.pos()
	first := p.parseAssignExpr(noIn)
	if !p.at(token.COMMA) {
		return first
	}
	exprs := []ast.Expression{first}
	for p.at(token.COMMA) {
		p.advance()
		exprs = append(exprs, p.parseAssignExpr(noIn))
	}
	s := &ast.SequenceExpression{Expressions: exprs}
	s.Position = p.finish(pos, p.lastEnd)
	return s
}

func (p *parser) parseAssignExpr(noIn bool) ast.Expression {
	pos := p.pos()
	left := p.parseConditional(noIn)
	if token.IsAssign(p.cur.Type) {
		op := p.cur.Type
		p.checkAssignTarget(left)
		p.advance()
		right := p.parseAssignExpr(noIn)
		a := &ast.AssignmentExpression{Operator: op, Left: left, Right: right}
		a.Position = p.finish(pos, p.lastEnd)
		return a
	}
	return left
}

func (p *parser) parseConditional(noIn bool) ast.Expression {
	pos := p.pos()
	test := p.parseBinary(noIn, 1)
	if p.at(token.QUESTION) {
		p.advance()
		cons := p.parseAssignExpr(false)
		p.expect(token.COLON)
		alt := p.parseAssignExpr(noIn)
		c := &ast.ConditionalExpression{Test: test, Consequent: cons, Alternate: alt}
		c.Position = p.finish(pos, p.lastEnd)
		return c
	}
	return test
}

// parseBinary climbs operator precedence per token.Precedence, building
// LogicalExpression nodes for &&/|| and BinaryExpression for everything
// else.
func (p *parser) parseBinary(noIn bool, minPrec int) ast.Expression {
	left := p.parseUnary()
	for {
		prec := token.Precedence(p.cur.Type, noIn)
		if prec == 0 || prec < minPrec {
			return left
		}
		op := p.cur.Type
		pos := left.Pos()
		p.advance()
		right := p.parseBinary(noIn, prec+1)
		if op == token.LOGICAL_AND || op == token.LOGICAL_OR {
			l := &ast.LogicalExpression{Operator: op, Left: left, Right: right}
			l.Position = p.finish(pos, p.lastEnd)
			left = l
		} else {
			b := &ast.BinaryExpression{Operator: op, Left: left, Right: right}
			b.Position = p.finish(pos, p.lastEnd)
			left = b
		}
	}
}

func (p *parser) parseUnary() ast.Expression {
	switch p.cur.Type {
	case token.PLUS, token.MINUS, token.NOT, token.BITWISE_NOT, token.TYPEOF, token.VOID, token.DELETE:
		pos := p.pos()
		op := p.cur.Type
		p.advance()
		arg := p.parseUnary()
		if op == token.DELETE && p.strict {
			if _, ok := arg.(*ast.Identifier); ok {
				p.failNode("delete of an unqualified identifier is not allowed in strict mode")
			}
		}
		u := &ast.UnaryExpression{Operator: op, Argument: arg, Prefix: true}
		u.Position = p.finish(pos, p.lastEnd)
		return u
	case token.INCREMENT, token.DECREMENT:
		pos := p.pos()
		op := p.cur.Type
		p.advance()
		arg := p.parseUnary()
		p.checkAssignTarget(arg)
		u := &ast.UpdateExpression{Operator: op, Argument: arg, Prefix: true}
		u.Position = p.finish(pos, p.lastEnd)
		return u
	default:
		return p.parsePostfix()
	}
}

// parsePostfix handles trailing ++/--, forbidden across a line break per
// ASI (§4.2: "a line terminator may not appear between the operand and ++
// or --").
func (p *parser) parsePostfix() ast.Expression {
	pos := p.pos()
	expr := p.parseLeftHandSide()
	if !p.cur.NewlineBefore && (p.at(token.INCREMENT) || p.at(token.DECREMENT)) {
		op := p.cur.Type
		p.checkAssignTarget(expr)
		p.advance()
		u := &ast.UpdateExpression{Operator: op, Argument: expr, Prefix: false}
		u.Position = p.finish(pos, p.lastEnd)
		return u
	}
	return expr
}

// checkAssignTarget enforces that expr is a valid simple assignment target
// (identifier or member expression), rejecting `eval`/`arguments` as
// targets in strict mode (§4.2).
func (p *parser) checkAssignTarget(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		if p.strict && (e.Name == "eval" || e.Name == "arguments") {
			p.failNode("invalid assignment target %q in strict mode", e.Name)
		}
	case *ast.MemberExpression:
	default:
		p.failNode("invalid assignment target")
	}
}

func (p *parser) parseLeftHandSide() ast.Expression {
	var expr ast.Expression
	if p.at(token.NEW) {
		expr = p.parseNewExpression()
	} else {
		expr = p.parsePrimary()
	}
	return p.parseCallMemberTail(expr, true)
}

// parseNewExpression implements `new Callee(args)`, where Callee is itself
// a (possibly nested) new-expression or member chain but may not swallow
// call arguments meant for the enclosing new (§4.2's NewExpression
// production).
func (p *parser) parseNewExpression() ast.Expression {
	pos := p.pos()
	p.expect(token.NEW)
	var callee ast.Expression
	if p.at(token.NEW) {
		callee = p.parseNewExpression()
	} else {
		callee = p.parsePrimary()
	}
	callee = p.parseCallMemberTail(callee, false)
	var args []ast.Expression
	if p.at(token.LPAREN) {
		args = p.parseArguments()
	}
	n := &ast.NewExpression{Callee: callee, Arguments: args}
	n.Position = p.finish(pos, p.lastEnd)
	return n
}

// parseCallMemberTail consumes a chain of `.prop`, `[expr]` and, if
// allowCall, `(args)` suffixes.
func (p *parser) parseCallMemberTail(expr ast.Expression, allowCall bool) ast.Expression {
	for {
		switch {
		case p.at(token.PERIOD):
			pos := expr.Pos()
			p.advance()
			if p.cur.Kind != token.IDENT && p.cur.Kind != token.KEYWORD {
				p.failNode("expected property name after '.'")
			}
			propPos := p.pos()
			name := p.cur.Literal
			p.advance()
			id := &ast.Identifier{Name: name}
			id.Position = p.finish(propPos, p.lastEnd)
			m := &ast.MemberExpression{Object: expr, Property: id, Computed: false}
			m.Position = p.finish(pos, p.lastEnd)
			expr = m
		case p.at(token.LBRACKET):
			pos := expr.Pos()
			p.advance()
			prop := p.parseExpression(false)
			p.expect(token.RBRACKET)
			m := &ast.MemberExpression{Object: expr, Property: prop, Computed: true}
			m.Position = p.finish(pos, p.lastEnd)
			expr = m
		case allowCall && p.at(token.LPAREN):
			pos := expr.Pos()
			args := p.parseArguments()
			c := &ast.CallExpression{Callee: expr, Arguments: args}
			c.Position = p.finish(pos, p.lastEnd)
			expr = c
		default:
			return expr
		}
	}
}

func (p *parser) parseArguments() []ast.Expression {
	p.expect(token.LPAREN)
	var args []ast.Expression
	for !p.at(token.RPAREN) {
		args = append(args, p.parseAssignExpr(false))
		if !p.at(token.RPAREN) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.RPAREN)
	return args
}

func (p *parser) parsePrimary() ast.Expression {
	pos := p.pos()
	switch p.cur.Type {
	case token.THIS:
		p.advance()
		t := &ast.ThisExpression{}
		t.Position = p.finish(pos, p.lastEnd)
		return t
	case token.NULL:
		p.advance()
		l := &ast.Literal{Value: nil, Raw: "null"}
		l.Position = p.finish(pos, p.lastEnd)
		return l
	case token.TRUE, token.FALSE:
		v := p.cur.Type == token.TRUE
		raw := p.cur.Literal
		p.advance()
		l := &ast.Literal{Value: v, Raw: raw}
		l.Position = p.finish(pos, p.lastEnd)
		return l
	case token.NUMBER_TOK:
		if p.strict && p.cur.IllegalOctal {
			p.failNode("octal literals are not allowed in strict mode")
		}
		v, raw := p.cur.Value, p.cur.Literal
		p.advance()
		l := &ast.Literal{Value: v, Raw: raw}
		l.Position = p.finish(pos, p.lastEnd)
		return l
	case token.STRING_TOK:
		if p.strict && p.cur.OctalEscape {
			p.failNode("octal escape sequences are not allowed in strict mode")
		}
		v, raw := p.cur.Value, p.cur.Literal
		p.advance()
		l := &ast.Literal{Value: v, Raw: raw}
		l.Position = p.finish(pos, p.lastEnd)
		return l
	case token.REGEXP_TOK:
		pair := p.cur.Value.([2]string)
		raw := p.cur.Literal
		p.advance()
		l := &ast.Literal{Value: &ast.RegExpLiteral{Pattern: pair[0], Flags: pair[1]}, Raw: raw}
		l.Position = p.finish(pos, p.lastEnd)
		return l
	case token.IDENTIFIER_TOK:
		name := p.cur.Literal
		if p.strict {
			if _, reserved := token.StrictReserved[name]; reserved {
				p.failNode("unexpected strict-mode reserved word %q", name)
			}
		}
		p.advance()
		id := &ast.Identifier{Name: name}
		id.Position = p.finish(pos, p.lastEnd)
		return id
	case token.LPAREN:
		p.advance()
		expr := p.parseExpression(false)
		p.expect(token.RPAREN)
		return expr
	case token.LBRACKET:
		return p.parseArrayLiteral()
	case token.LBRACE:
		return p.parseObjectLiteral()
	case token.FUNCTION:
		return p.parseFunctionExpression()
	default:
		p.failNode("unexpected token %q", p.cur.Literal)
		return nil
	}
}

func (p *parser) parseArrayLiteral() ast.Expression {
	pos := p.pos()
	p.expect(token.LBRACKET)
	var elems []ast.Expression
	for !p.at(token.RBRACKET) {
		if p.at(token.COMMA) {
			elems = append(elems, nil) // elision
			p.advance()
			continue
		}
		elems = append(elems, p.parseAssignExpr(false))
		if !p.at(token.RBRACKET) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.RBRACKET)
	a := &ast.ArrayExpression{Elements: elems}
	a.Position = p.finish(pos, p.lastEnd)
	return a
}

func (p *parser) parseObjectLiteral() ast.Expression {
	pos := p.pos()
	p.expect(token.LBRACE)
	var props []*ast.Property
	seen := map[string]map[string]bool{}
	for !p.at(token.RBRACE) {
		prop := p.parseObjectProperty()
		kinds := seen[prop.Key]
		if kinds == nil {
			kinds = map[string]bool{}
			seen[prop.Key] = kinds
		}
		switch {
		case prop.Kind == "init" && p.strict && kinds["init"]:
			p.failNode("duplicate data property %q in strict mode", prop.Key)
		case prop.Kind != "init" && kinds[prop.Kind]:
			p.failNode("duplicate %s accessor for %q", prop.Kind, prop.Key)
		case prop.Kind != "init" && kinds["init"], prop.Kind == "init" && (kinds["get"] || kinds["set"]):
			p.failNode("cannot mix accessor and data property for %q", prop.Key)
		}
		kinds[prop.Kind] = true
		props = append(props, prop)
		if !p.at(token.RBRACE) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.RBRACE)
	o := &ast.ObjectExpression{Properties: props}
	o.Position = p.finish(pos, p.lastEnd)
	return o
}

func (p *parser) parseObjectProperty() *ast.Property {
	pos := p.pos()
	if p.cur.Kind == token.IDENT && (p.cur.Literal == "get" || p.cur.Literal == "set") {
		kind := p.cur.Literal
		plainKey := p.cur.Literal
		p.advance()
		if p.at(token.COLON) {
			// "get"/"set" used as an ordinary property name.
			p.advance()
			val := p.parseAssignExpr(false)
			prop := &ast.Property{Key: plainKey, Value: val, Kind: "init"}
			prop.Position = p.finish(pos, p.lastEnd)
			return prop
		}
		key := p.parsePropertyKey()
		params := p.parseParams()
		if kind == "get" && len(params) != 0 {
			p.failNode("getter must not have any formal parameters")
		}
		if kind == "set" && len(params) != 1 {
			p.failNode("setter must have exactly one formal parameter")
		}
		saveStrict := p.strict
		p.inFunction++
		body := p.parseFunctionBody()
		p.inFunction--
		fn := &ast.FunctionExpression{Params: params, Body: body, Strict: p.strict}
		fn.Position = p.finish(pos, p.lastEnd)
		p.strict = saveStrict
		prop := &ast.Property{Key: key, Value: fn, Kind: kind}
		prop.Position = p.finish(pos, p.lastEnd)
		return prop
	}

	key := p.parsePropertyKey()
	p.expect(token.COLON)
	val := p.parseAssignExpr(false)
	prop := &ast.Property{Key: key, Value: val, Kind: "init"}
	prop.Position = p.finish(pos, p.lastEnd)
	return prop
}

func (p *parser) parsePropertyKey() string {
	switch p.cur.Type {
	case token.STRING_TOK:
		s := p.cur.Value.(string)
		p.advance()
		return s
	case token.NUMBER_TOK:
		raw := p.cur.Literal
		p.advance()
		return raw
	default:
		if p.cur.Kind != token.IDENT && p.cur.Kind != token.KEYWORD {
			p.failNode("expected property name, got %q", p.cur.Literal)
		}
		name := p.cur.Literal
		p.advance()
		return name
	}
}

func (p *parser) parseFunctionExpression() ast.Expression {
	pos := p.pos()
	p.expect(token.FUNCTION)
	var id *ast.Identifier
	if p.cur.Kind == token.IDENT {
		id = p.parseBindingIdentifier()
	}
	params := p.parseParams()
	saveStrict := p.strict
	p.inFunction++
	body := p.parseFunctionBody()
	p.inFunction--
	fn := &ast.FunctionExpression{Id: id, Params: params, Body: body, Strict: p.strict}
	fn.Position = p.finish(pos, p.lastEnd)
	p.strict = saveStrict
	return fn
}
