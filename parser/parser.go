// Package parser implements the recursive-descent + operator-precedence
// parser for the ES5 subset (spec.md C2), producing the ast package's
// ESTree-shaped tree.
package parser

import (
	"fmt"

	"stepjs/ast"
	"stepjs/lexer"
	"stepjs/token"
)

// Options mirrors spec.md §6's enumerated parser options.
type Options struct {
	EcmaVersion      int // 3 or 5; defaults to 5
	StrictSemicolons bool
	AllowTrailingCommas bool
	ForbidReserved   bool
	Locations        bool
	Ranges           bool
	OnComment        func(block bool, text string, start, end int)
	SourceFile       string
	DirectSourceFile string
}

// SyntaxError reports a parse-time error with a source position, per
// spec.md §4.2 "Errors".
type SyntaxError struct {
	Message string
	Line    int
	Column  int
	Offset  int
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("SyntaxError: %s (line %d, column %d)", e.Message, e.Line, e.Column)
}

// Parse parses src into a new *ast.Program.
func Parse(src string, opts Options) (*ast.Program, error) {
	p := newParser(src, opts)
	return p.parseProgram()
}

// Extend parses src and appends its top-level statements to an existing
// Program, the parser-level form of the host-facing append_code operation
// (§6); the root package's AppendCode parses with Parse and appends the
// statements itself. The existing program's statements are left
// untouched; parse errors leave prog unmodified.
func Extend(prog *ast.Program, src string, opts Options) (err error) {
	p := newParser(src, opts)
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*SyntaxError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()
	body := p.parseStatementsUntilEOF()
	prog.Body = append(prog.Body, body...)
	prog.End = p.lastEnd
	return nil
}

type parser struct {
	opts   Options
	lex    *lexer.Lexer
	cur    lexer.Token
	src    string

	inFunction int  // nesting depth, for `return` legality (§4.2)
	labels     []string // active label stack, for break/continue legality
	loopDepth  int
	switchDepth int
	strict     bool // current strict-mode state

	lastEnd int
}

func newParser(src string, opts Options) *parser {
	if opts.EcmaVersion == 0 {
		opts.EcmaVersion = 5
	}
	p := &parser{opts: opts, lex: lexer.New(src, opts.SourceFile), src: src}
	p.advance()
	return p
}

func (p *parser) fail(format string, args ...interface{}) error {
	return &SyntaxError{Message: fmt.Sprintf(format, args...), Line: p.cur.Line, Offset: p.cur.Start}
}

func (p *parser) failNode(format string, args ...interface{}) {
	panic(&SyntaxError{Message: fmt.Sprintf(format, args...), Line: p.cur.Line, Offset: p.cur.Start})
}

// advance pulls the next token, first telling the lexer whether `/` here
// would start a regexp literal (§4.1's before_expr disambiguation).
func (p *parser) advance() {
	p.lex.SetRegexpContext(p.cur.Type == 0 || p.cur.Type.BeforeExpr())
	p.lastEnd = p.cur.End
	p.cur = p.lex.Next()
}

func (p *parser) at(t token.Type) bool { return p.cur.Type == t }

func (p *parser) expect(t token.Type) lexer.Token {
	if !p.at(t) {
		p.failNode("expected %s, got %q", t, p.cur.Literal)
	}
	tok := p.cur
	p.advance()
	return tok
}

// pos starts a node's Position at the current token. With the Locations
// option, Loc.Start carries that token's line; the lexer does not track
// columns, so Loc.Start.Column is 0, and Loc.End is left zero.
func (p *parser) pos() ast.Position {
	pos := ast.Position{Start: p.cur.Start, End: p.cur.Start}
	if p.opts.Locations {
		pos.Loc = &ast.SourceLoc{Start: ast.LineColumn{Line: p.cur.Line, Column: p.cur.Column}}
	}
	return pos
}

func (p *parser) finish(pos ast.Position, end int) ast.Position {
	pos.End = end
	if p.opts.Ranges {
		r := [2]int{pos.Start, end}
		pos.Range = &r
	}
	return pos
}

// ---- top level ----

func (p *parser) parseProgram() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*SyntaxError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()

	startPos := p.pos()
	body := p.parseStatementsUntilEOF()
	prog = &ast.Program{Body: body, SourceFile: p.opts.SourceFile}
	prog.Position = p.finish(startPos, p.lastEnd)
	return prog, nil
}

func (p *parser) parseStatementsUntilEOF() []ast.Statement {
	p.strict = false
	var body []ast.Statement
	for !p.at(token.EOF_TOK) {
		body = append(body, p.parseStatement())
	}
	if hasUseStrictDirective(body) {
		p.strict = true
	}
	return body
}

// hasUseStrictDirective mirrors the teacher's hasUseStrict helper
// (grounded on modeledjs.go's hasUseStrict, which checked otto's
// already-parsed body for a leading "use strict" ExpressionStatement); we
// make the same check during parsing instead of after, since we own the
// lexer/parser and strict mode must be known before parsing nested
// functions.
func hasUseStrictDirective(body []ast.Statement) bool {
	if len(body) == 0 {
		return false
	}
	es, ok := body[0].(*ast.ExpressionStatement)
	if !ok {
		return false
	}
	lit, ok := es.Expression.(*ast.Literal)
	if !ok {
		return false
	}
	s, ok := lit.Value.(string)
	if !ok || s != "use strict" {
		return false
	}
	// a directive with an escape sequence in its source does not count
	// (§4.2: `"use strict"` literally, no escapes).
	return lit.Raw == `"use strict"` || lit.Raw == `'use strict'`
}

// ---- ASI ----

// semicolon consumes a statement-terminating `;`, applying automatic
// semicolon insertion per spec.md §4.2: a semicolon is deemed present when
// the next token is `}`, EOF, or preceded by a line terminator.
func (p *parser) semicolon() {
	if p.at(token.SEMICOLON) {
		p.advance()
		return
	}
	if p.opts.StrictSemicolons {
		p.failNode("missing semicolon")
	}
	if p.at(token.RBRACE) || p.at(token.EOF_TOK) || p.cur.NewlineBefore {
		return
	}
	p.failNode("unexpected token %q (missing semicolon?)", p.cur.Literal)
}
