package parser

import (
	"stepjs/ast"
	"stepjs/token"
)

func (p *parser) parseStatement() ast.Statement {
	pos := p.pos()

	switch p.cur.Type {
	case token.LBRACE:
		return p.parseBlock()
	case token.SEMICOLON:
		p.advance()
		s := &ast.EmptyStatement{}
		s.Position = p.finish(pos, p.lastEnd)
		return s
	case token.VAR:
		decl := p.parseVariableDeclaration()
		p.semicolon()
		return decl
	case token.FUNCTION:
		return p.parseFunctionDeclaration()
	case token.IF:
		return p.parseIf()
	case token.FOR:
		return p.parseFor()
	case token.WHILE:
		return p.parseWhile()
	case token.DO:
		return p.parseDoWhile()
	case token.BREAK:
		return p.parseBreakContinue(true)
	case token.CONTINUE:
		return p.parseBreakContinue(false)
	case token.RETURN:
		return p.parseReturn()
	case token.THROW:
		return p.parseThrow()
	case token.TRY:
		return p.parseTry()
	case token.SWITCH:
		return p.parseSwitch()
	case token.WITH:
		return p.parseWith()
	case token.DEBUGGER:
		p.advance()
		p.semicolon()
		s := &ast.DebuggerStatement{}
		s.Position = p.finish(pos, p.lastEnd)
		return s
	default:
		// identifier-led statements fall through to parseExpressionStatement,
		// which itself detects the `identifier :` label form after parsing
		// the leading expression.
		return p.parseExpressionStatement()
	}
}

func (p *parser) parseBlock() *ast.BlockStatement {
	pos := p.pos()
	p.expect(token.LBRACE)
	var body []ast.Statement
	for !p.at(token.RBRACE) && !p.at(token.EOF_TOK) {
		body = append(body, p.parseStatement())
	}
	p.expect(token.RBRACE)
	b := &ast.BlockStatement{Body: body}
	b.Position = p.finish(pos, p.lastEnd)
	return b
}

func (p *parser) parseVariableDeclaration() *ast.VariableDeclaration {
	pos := p.pos()
	p.expect(token.VAR)
	var decls []*ast.VariableDeclarator
	for {
		dpos := p.pos()
		name := p.parseBindingIdentifier()
		d := &ast.VariableDeclarator{Id: name}
		if p.at(token.ASSIGN) {
			p.advance()
			d.Init = p.parseAssignExpr(false)
		}
		d.Position = p.finish(dpos, p.lastEnd)
		decls = append(decls, d)
		if !p.at(token.COMMA) {
			break
		}
		p.advance()
	}
	v := &ast.VariableDeclaration{Declarations: decls, Kind: "var"}
	v.Position = p.finish(pos, p.lastEnd)
	return v
}

func (p *parser) parseBindingIdentifier() *ast.Identifier {
	pos := p.pos()
	if p.cur.Kind != token.IDENT {
		p.failNode("expected identifier, got %q", p.cur.Literal)
	}
	name := p.cur.Literal
	p.checkBindingName(name)
	p.advance()
	id := &ast.Identifier{Name: name}
	id.Position = p.finish(pos, p.lastEnd)
	return id
}

// checkBindingName enforces strict-mode binding restrictions: strict mode
// forbids binding `eval` or `arguments`, and reserves the ES5 additional
// keyword set (let, yield, ...).
func (p *parser) checkBindingName(name string) {
	if !p.strict {
		return
	}
	if name == "eval" || name == "arguments" {
		p.failNode("cannot bind %q in strict mode", name)
	}
	if _, reserved := token.StrictReserved[name]; reserved {
		p.failNode("unexpected strict-mode reserved word %q", name)
	}
}

func (p *parser) parseFunctionDeclaration() *ast.FunctionDeclaration {
	pos := p.pos()
	p.expect(token.FUNCTION)
	name := p.parseBindingIdentifier()
	params := p.parseParams()
	saveStrict := p.strict
	p.inFunction++
	body := p.parseFunctionBody()
	p.inFunction--
	p.strict = saveStrict

	fn := &ast.FunctionDeclaration{Id: name, Params: params, Body: body, Strict: body != nil && hasUseStrictDirective(body.Body) || p.strict}
	fn.Position = p.finish(pos, p.lastEnd)
	return fn
}

func (p *parser) parseParams() []*ast.Identifier {
	p.expect(token.LPAREN)
	var params []*ast.Identifier
	seen := map[string]bool{}
	for !p.at(token.RPAREN) {
		id := p.parseBindingIdentifier()
		if p.strict {
			if seen[id.Name] {
				p.failNode("duplicate parameter name %q in strict-mode function", id.Name)
			}
			seen[id.Name] = true
		}
		params = append(params, id)
		if !p.at(token.RPAREN) {
			p.expect(token.COMMA)
		}
	}
	p.expect(token.RPAREN)
	return params
}

func (p *parser) parseFunctionBody() *ast.BlockStatement {
	body := p.parseBlock()
	if hasUseStrictDirective(body.Body) {
		p.strict = true
	}
	return body
}

func (p *parser) parseIf() ast.Statement {
	pos := p.pos()
	p.expect(token.IF)
	p.expect(token.LPAREN)
	test := p.parseExpression(false)
	p.expect(token.RPAREN)
	cons := p.parseStatement()
	var alt ast.Statement
	if p.at(token.ELSE) {
		p.advance()
		alt = p.parseStatement()
	}
	s := &ast.IfStatement{Test: test, Consequent: cons, Alternate: alt}
	s.Position = p.finish(pos, p.lastEnd)
	return s
}

// parseFor disambiguates `for (var x in y)` from `for (;;;)` per §4.2: the
// initializer is parsed with `in` forbidden as a binary operator; if the
// next token is `in`, the for-in production takes over.
func (p *parser) parseFor() ast.Statement {
	pos := p.pos()
	p.expect(token.FOR)
	p.expect(token.LPAREN)

	var init ast.Node
	if p.at(token.VAR) {
		vpos := p.pos()
		p.expect(token.VAR)
		id := p.parseBindingIdentifier()
		if p.at(token.IN) {
			p.advance()
			right := p.parseExpression(false)
			p.expect(token.RPAREN)
			body := p.parseStatement()
			decl := &ast.VariableDeclaration{Kind: "var", Declarations: []*ast.VariableDeclarator{{Id: id}}}
			decl.Position = p.finish(vpos, id.End)
			s := &ast.ForInStatement{Left: decl, Right: right, Body: body}
			s.Position = p.finish(pos, p.lastEnd)
			return s
		}
		var initExpr ast.Expression
		if p.at(token.ASSIGN) {
			p.advance()
			initExpr = p.parseAssignExpr(true)
		}
		decls := []*ast.VariableDeclarator{{Id: id, Init: initExpr}}
		for p.at(token.COMMA) {
			p.advance()
			did := p.parseBindingIdentifier()
			var dinit ast.Expression
			if p.at(token.ASSIGN) {
				p.advance()
				dinit = p.parseAssignExpr(true)
			}
			decls = append(decls, &ast.VariableDeclarator{Id: did, Init: dinit})
		}
		decl := &ast.VariableDeclaration{Kind: "var", Declarations: decls}
		decl.Position = p.finish(vpos, p.lastEnd)
		init = decl
	} else if !p.at(token.SEMICOLON) {
		expr := p.parseExpression(true)
		if p.at(token.IN) {
			p.advance()
			right := p.parseExpression(false)
			p.expect(token.RPAREN)
			body := p.parseStatement()
			s := &ast.ForInStatement{Left: expr, Right: right, Body: body}
			s.Position = p.finish(pos, p.lastEnd)
			return s
		}
		init = expr
	}

	p.expect(token.SEMICOLON)
	var test ast.Expression
	if !p.at(token.SEMICOLON) {
		test = p.parseExpression(false)
	}
	p.expect(token.SEMICOLON)
	var update ast.Expression
	if !p.at(token.RPAREN) {
		update = p.parseExpression(false)
	}
	p.expect(token.RPAREN)

	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--

	s := &ast.ForStatement{Init: init, Test: test, Update: update, Body: body}
	s.Position = p.finish(pos, p.lastEnd)
	return s
}

func (p *parser) parseWhile() ast.Statement {
	pos := p.pos()
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	test := p.parseExpression(false)
	p.expect(token.RPAREN)
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	s := &ast.WhileStatement{Test: test, Body: body}
	s.Position = p.finish(pos, p.lastEnd)
	return s
}

func (p *parser) parseDoWhile() ast.Statement {
	pos := p.pos()
	p.expect(token.DO)
	p.loopDepth++
	body := p.parseStatement()
	p.loopDepth--
	p.expect(token.WHILE)
	p.expect(token.LPAREN)
	test := p.parseExpression(false)
	p.expect(token.RPAREN)
	if p.at(token.SEMICOLON) {
		p.advance()
	}
	s := &ast.DoWhileStatement{Test: test, Body: body}
	s.Position = p.finish(pos, p.lastEnd)
	return s
}

func (p *parser) parseBreakContinue(isBreak bool) ast.Statement {
	pos := p.pos()
	p.advance() // break/continue
	label := ""
	if !p.cur.NewlineBefore && p.cur.Kind == token.IDENT {
		label = p.cur.Literal
		p.advance()
	}
	p.semicolon()

	if label != "" {
		found := false
		for _, l := range p.labels {
			if l == label {
				found = true
				break
			}
		}
		if !found {
			p.failNode("undefined label %q", label)
		}
	} else if isBreak {
		if p.loopDepth == 0 && p.switchDepth == 0 {
			p.failNode("illegal break statement")
		}
	} else {
		if p.loopDepth == 0 {
			p.failNode("illegal continue statement")
		}
	}

	if isBreak {
		s := &ast.BreakStatement{Label: label}
		s.Position = p.finish(pos, p.lastEnd)
		return s
	}
	s := &ast.ContinueStatement{Label: label}
	s.Position = p.finish(pos, p.lastEnd)
	return s
}

func (p *parser) parseReturn() ast.Statement {
	pos := p.pos()
	p.expect(token.RETURN)
	if p.inFunction == 0 {
		p.failNode("return statement outside function")
	}
	var arg ast.Expression
	if !p.at(token.SEMICOLON) && !p.at(token.RBRACE) && !p.at(token.EOF_TOK) && !p.cur.NewlineBefore {
		arg = p.parseExpression(false)
	}
	p.semicolon()
	s := &ast.ReturnStatement{Argument: arg}
	s.Position = p.finish(pos, p.lastEnd)
	return s
}

func (p *parser) parseThrow() ast.Statement {
	pos := p.pos()
	p.expect(token.THROW)
	if p.cur.NewlineBefore {
		p.failNode("illegal newline after throw")
	}
	arg := p.parseExpression(false)
	p.semicolon()
	s := &ast.ThrowStatement{Argument: arg}
	s.Position = p.finish(pos, p.lastEnd)
	return s
}

func (p *parser) parseTry() ast.Statement {
	pos := p.pos()
	p.expect(token.TRY)
	block := p.parseBlock()
	var handler *ast.CatchClause
	var finalizer *ast.BlockStatement

	if p.at(token.CATCH) {
		cpos := p.pos()
		p.advance()
		p.expect(token.LPAREN)
		param := p.parseBindingIdentifier()
		if p.strict && (param.Name == "eval" || param.Name == "arguments") {
			p.failNode("cannot bind %q in strict mode", param.Name)
		}
		p.expect(token.RPAREN)
		body := p.parseBlock()
		handler = &ast.CatchClause{Param: param, Body: body}
		handler.Position = p.finish(cpos, p.lastEnd)
	}
	if p.at(token.FINALLY) {
		p.advance()
		finalizer = p.parseBlock()
	}
	if handler == nil && finalizer == nil {
		p.failNode("missing catch or finally after try")
	}

	s := &ast.TryStatement{Block: block, Handler: handler, Finalizer: finalizer}
	s.Position = p.finish(pos, p.lastEnd)
	return s
}

func (p *parser) parseSwitch() ast.Statement {
	pos := p.pos()
	p.expect(token.SWITCH)
	p.expect(token.LPAREN)
	disc := p.parseExpression(false)
	p.expect(token.RPAREN)
	p.expect(token.LBRACE)

	p.switchDepth++
	var cases []*ast.SwitchCase
	sawDefault := false
	for !p.at(token.RBRACE) {
		cpos := p.pos()
		var test ast.Expression
		if p.at(token.CASE) {
			p.advance()
			test = p.parseExpression(false)
		} else {
			p.expect(token.DEFAULT)
			if sawDefault {
				p.failNode("more than one default clause in switch statement")
			}
			sawDefault = true
		}
		p.expect(token.COLON)
		var body []ast.Statement
		for !p.at(token.CASE) && !p.at(token.DEFAULT) && !p.at(token.RBRACE) {
			body = append(body, p.parseStatement())
		}
		c := &ast.SwitchCase{Test: test, Consequent: body}
		c.Position = p.finish(cpos, p.lastEnd)
		cases = append(cases, c)
	}
	p.switchDepth--
	p.expect(token.RBRACE)

	s := &ast.SwitchStatement{Discriminant: disc, Cases: cases}
	s.Position = p.finish(pos, p.lastEnd)
	return s
}

func (p *parser) parseWith() ast.Statement {
	if p.strict {
		p.failNode("`with` statements are not allowed in strict mode")
	}
	pos := p.pos()
	p.expect(token.WITH)
	p.expect(token.LPAREN)
	obj := p.parseExpression(false)
	p.expect(token.RPAREN)
	body := p.parseStatement()
	s := &ast.WithStatement{Object: obj, Body: body}
	s.Position = p.finish(pos, p.lastEnd)
	return s
}

func (p *parser) parseExpressionStatement() ast.Statement {
	pos := p.pos()
	expr := p.parseExpression(false)

	if id, ok := expr.(*ast.Identifier); ok && p.at(token.COLON) {
		p.advance()
		p.labels = append(p.labels, id.Name)
		body := p.parseStatement()
		p.labels = p.labels[:len(p.labels)-1]
		s := &ast.LabeledStatement{Label: id.Name, Body: body}
		s.Position = p.finish(pos, p.lastEnd)
		return s
	}

	p.semicolon()
	s := &ast.ExpressionStatement{Expression: expr}
	s.Position = p.finish(pos, p.lastEnd)
	return s
}
