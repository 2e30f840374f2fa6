// Package lexer implements the tokenizer for the ES5 subset (spec.md C1).
//
// It walks the source as UTF-16 code units (per §4.1's "UTF-16-indexed
// source string" requirement) after stripping a leading BOM, using
// golang.org/x/text/encoding/unicode the way nooga-paserati's lexer leans
// on golang.org/x/text for source decoding - here specifically for the
// BOM sniff/strip step, since Go source strings are UTF-8 and we still
// need UTF-16 code-unit offsets for \uXXXX-escape-aware identifier
// scanning and surrogate-pair-aware string literals.
package lexer

import (
	"fmt"
	"strings"
	"unicode"
	"unicode/utf16"

	xunicode "golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"

	"stepjs/token"
)

// SyntaxError is a lexer-raised error carrying a source position, per
// spec.md "Failure modes" (§4.1); the parser has its own SyntaxError type.
type SyntaxError struct {
	Message    string
	Line       int // 1-based
	Column     int // 0-based
	Offset     int
	SourceFile string
}

func (e *SyntaxError) Error() string {
	file := e.SourceFile
	if file == "" {
		file = "<anonymous>"
	}
	return fmt.Sprintf("SyntaxError: %s (%s:%d:%d)", e.Message, file, e.Line, e.Column)
}

// Token is one lexical token plus positional/disambiguation metadata.
type Token struct {
	Kind           token.Kind
	Type           token.Type
	Literal        string // raw text
	Value          interface{} // decoded literal value: float64, string, *ast-level RegExpLiteral fields
	Start, End     int // UTF-16 code-unit offsets
	Line           int
	Column         int
	NewlineBefore  bool // a line terminator appeared between this token and the previous one (ASI)
	OctalEscape    bool // string literal contained a legacy octal escape (forbidden in strict mode, §4.1)
	IllegalOctal   bool // numeric literal has a leading-zero octal sequence containing 8/9 (forbidden in strict mode)
}

// Lexer scans a source string into a Token stream.
type Lexer struct {
	src        []uint16 // UTF-16 code units
	runeIdx    []int    // src[i] -> byte offset in original string, for Position reporting against the original text
	pos        int      // index into src
	line       int
	sourceFile string

	// beforeExpr is set by the parser (via SetRegexpContext) before
	// requesting the next token, to disambiguate `/` as regexp-literal
	// start vs division (§4.1). Defaults to true (start of input is an
	// expression position).
	beforeExpr bool
}

// New creates a Lexer over src, stripping a leading BOM.
func New(src string, sourceFile string) *Lexer {
	src = stripBOM(src)
	units := utf16.Encode([]rune(src))
	l := &Lexer{
		src:        units,
		line:       1,
		sourceFile: sourceFile,
		beforeExpr: true,
	}
	return l
}

// stripBOM removes a leading UTF-8 byte-order mark from an already-decoded
// Go string. Source that arrives as raw bytes (e.g. read from a host file)
// should go through DecodeSource first, which uses
// golang.org/x/text/encoding/unicode to sniff and strip a UTF-8/UTF-16LE/
// UTF-16BE BOM and normalize to UTF-8 before the lexer ever sees it; this
// second, cheap check covers sources the host already decoded itself.
func stripBOM(s string) string {
	const bom = "\ufeff"
	return strings.TrimPrefix(s, bom)
}

// DecodeSource sniffs and strips a leading BOM from raw source bytes and
// decodes to a UTF-8 Go string, honoring UTF-8, UTF-16LE and UTF-16BE
// encodings the way a host loading a guest script file might encounter
// (§4.1: "Whitespace includes ... BOM"). Plain ASCII/UTF-8 source without a
// BOM passes through unchanged.
func DecodeSource(raw []byte) (string, error) {
	transformer := xunicode.BOMOverride(xunicode.UTF8.NewDecoder())
	decoded, _, err := transform.Bytes(transformer, raw)
	if err != nil {
		return "", fmt.Errorf("decoding source: %w", err)
	}
	return string(decoded), nil
}

// SetRegexpContext tells the lexer whether the next `/` token should be
// scanned as the start of a regexp literal (true) or as division (false).
// The parser calls this based on the previous token's BeforeExpr() flag.
func (l *Lexer) SetRegexpContext(beforeExpr bool) { l.beforeExpr = beforeExpr }

func (l *Lexer) errorf(format string, args ...interface{}) *SyntaxError {
	return &SyntaxError{
		Message:    fmt.Sprintf(format, args...),
		Line:       l.line,
		Offset:     l.pos,
		SourceFile: l.sourceFile,
	}
}

func (l *Lexer) eof() bool { return l.pos >= len(l.src) }

func (l *Lexer) peek() uint16 {
	if l.eof() {
		return 0
	}
	return l.src[l.pos]
}

func (l *Lexer) peekAt(off int) uint16 {
	if l.pos+off >= len(l.src) {
		return 0
	}
	return l.src[l.pos+off]
}

func (l *Lexer) advance() uint16 {
	c := l.src[l.pos]
	l.pos++
	return c
}

// isLineTerminator matches LF, CR, LS (U+2028), PS (U+2029); CRLF is
// consumed as a single break by the caller.
func isLineTerminator(c uint16) bool {
	return c == '\n' || c == '\r' || c == 0x2028 || c == 0x2029
}

// isWhitespace matches ASCII space/tab/VT/FF/NBSP/BOM and Unicode Zs,
// excluding line terminators (handled separately so ASI can observe them).
func isWhitespace(c uint16) bool {
	switch c {
	case ' ', '\t', 0x0B, 0x0C, 0xA0, 0xFEFF:
		return true
	}
	if c > 127 && unicode.In(rune(c), unicode.Zs) {
		return true
	}
	return false
}

func isIdentStart(c uint16) bool {
	if c == '$' || c == '_' {
		return true
	}
	r := rune(c)
	return unicode.IsLetter(r) || unicode.In(r, unicode.Other_ID_Start)
}

func isIdentPart(c uint16) bool {
	if isIdentStart(c) || (c >= '0' && c <= '9') {
		return true
	}
	r := rune(c)
	return unicode.In(r, unicode.Mn, unicode.Mc, unicode.Nd, unicode.Pc, unicode.Other_ID_Continue)
}

func isDigit(c uint16) bool { return c >= '0' && c <= '9' }

func isHexDigit(c uint16) bool {
	return isDigit(c) || (c >= 'a' && c <= 'f') || (c >= 'A' && c <= 'F')
}

// skipWhitespaceAndComments advances past whitespace and comments,
// reporting whether a line terminator was crossed (for ASI) and invoking
// onComment for each comment, matching spec.md §6's `onComment` parser
// option signature.
func (l *Lexer) skipWhitespaceAndComments(onComment func(block bool, text string, start, end int)) (sawNewline bool) {
	for !l.eof() {
		c := l.peek()
		switch {
		case isLineTerminator(c):
			sawNewline = true
			l.line++
			l.pos++
			if c == '\r' && l.peek() == '\n' {
				l.pos++ // CRLF counts as one break
			}
		case isWhitespace(c):
			l.pos++
		case c == '/' && l.peekAt(1) == '/':
			start := l.pos
			l.pos += 2
			for !l.eof() && !isLineTerminator(l.peek()) {
				l.pos++
			}
			if onComment != nil {
				onComment(false, l.sliceString(start+2, l.pos), start, l.pos)
			}
		case c == '/' && l.peekAt(1) == '*':
			start := l.pos
			l.pos += 2
			closed := false
			for !l.eof() {
				if isLineTerminator(l.peek()) {
					sawNewline = true
					l.line++
				}
				if l.peek() == '*' && l.peekAt(1) == '/' {
					l.pos += 2
					closed = true
					break
				}
				l.pos++
			}
			if !closed {
				panic(l.errorf("unterminated comment"))
			}
			if onComment != nil {
				onComment(true, l.sliceString(start+2, l.pos-2), start, l.pos)
			}
		case sawNewline && c == '-' && l.peekAt(1) == '-' && l.peekAt(2) == '>':
			l.pos += 3
			for !l.eof() && !isLineTerminator(l.peek()) {
				l.pos++
			}
		case c == '<' && l.peekAt(1) == '!' && l.peekAt(2) == '-' && l.peekAt(3) == '-':
			l.pos += 4
			for !l.eof() && !isLineTerminator(l.peek()) {
				l.pos++
			}
		default:
			return
		}
	}
	return
}

func (l *Lexer) sliceString(start, end int) string {
	return string(utf16.Decode(l.src[start:end]))
}

// Next scans and returns the next token. It panics with *SyntaxError on
// lexical errors; callers at the parser boundary recover and convert to a
// returned error (matches the teacher's ParseReader wrapping convention,
// which also surfaces a single formatted error rather than threading error
// returns through every recursive-descent production).
func (l *Lexer) Next() Token {
	sawNewline := l.skipWhitespaceAndComments(nil)
	startLine := l.line
	start := l.pos

	if l.eof() {
		return Token{Kind: token.EOF, Type: token.EOF_TOK, Start: start, End: start, Line: startLine, NewlineBefore: sawNewline}
	}

	c := l.peek()

	switch {
	case isIdentStart(c) || c == '\\':
		return l.scanIdentifier(start, startLine, sawNewline)
	case isDigit(c):
		return l.scanNumber(start, startLine, sawNewline)
	case c == '.' && isDigit(l.peekAt(1)):
		return l.scanNumber(start, startLine, sawNewline)
	case c == '"' || c == '\'':
		return l.scanString(start, startLine, sawNewline)
	case c == '/' && l.beforeExpr:
		return l.scanRegexp(start, startLine, sawNewline)
	default:
		return l.scanPunct(start, startLine, sawNewline)
	}
}

func (l *Lexer) scanIdentifier(start, startLine int, nl bool) Token {
	var sb strings.Builder
	hasEscape := false
	for !l.eof() {
		c := l.peek()
		if c == '\\' {
			hasEscape = true
			l.pos++
			if l.peek() != 'u' {
				panic(l.errorf("invalid identifier escape"))
			}
			l.pos++
			r := l.readHex4()
			sb.WriteRune(rune(r))
			continue
		}
		if sb.Len() == 0 && l.pos == start {
			if !isIdentStart(c) {
				break
			}
		} else if !isIdentPart(c) {
			break
		}
		sb.WriteRune(rune(c))
		l.pos++
	}
	name := sb.String()

	typ := token.IDENTIFIER_TOK
	kind := token.IDENT
	if !hasEscape {
		if kw, ok := token.Keywords[name]; ok {
			typ = kw
			kind = token.KEYWORD
		}
	}
	return Token{
		Kind: kind, Type: typ, Literal: name, Value: name,
		Start: start, End: l.pos, Line: startLine, NewlineBefore: nl,
	}
}

func (l *Lexer) readHex4() uint16 {
	var v uint16
	for i := 0; i < 4; i++ {
		if l.eof() || !isHexDigit(l.peek()) {
			panic(l.errorf("invalid unicode escape"))
		}
		v = v<<4 + hexVal(l.advance())
	}
	return v
}

func hexVal(c uint16) uint16 {
	switch {
	case c >= '0' && c <= '9':
		return c - '0'
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10
	default:
		return c - 'A' + 10
	}
}

func (l *Lexer) scanNumber(start, startLine int, nl bool) Token {
	isOctal := false
	isHex := false
	hasIllegalOctalDigit := false

	if l.peek() == '0' && (l.peekAt(1) == 'x' || l.peekAt(1) == 'X') {
		isHex = true
		l.pos += 2
		for !l.eof() && isHexDigit(l.peek()) {
			l.pos++
		}
	} else if l.peek() == '0' && isDigit(l.peekAt(1)) {
		isOctal = true
		l.pos++
		for !l.eof() && isDigit(l.peek()) {
			if l.peek() > '7' {
				hasIllegalOctalDigit = true
			}
			l.pos++
		}
	} else {
		for !l.eof() && isDigit(l.peek()) {
			l.pos++
		}
		if l.peek() == '.' {
			l.pos++
			for !l.eof() && isDigit(l.peek()) {
				l.pos++
			}
		}
		if l.peek() == 'e' || l.peek() == 'E' {
			l.pos++
			if l.peek() == '+' || l.peek() == '-' {
				l.pos++
			}
			for !l.eof() && isDigit(l.peek()) {
				l.pos++
			}
		}
	}

	if !l.eof() && isIdentStart(l.peek()) {
		panic(l.errorf("identifier starts immediately after numeric literal"))
	}

	raw := l.sliceString(start, l.pos)
	var value float64
	switch {
	case isHex:
		value = parseHexFloat(raw[2:])
	case isOctal:
		if hasIllegalOctalDigit {
			// a digit 8/9 in a leading-zero sequence: strict mode rejects
			// this; non-strict parses as decimal (§4.1). The lexer reports
			// both forms; the parser applies the strict-mode rule.
			value = parseDecimal(raw)
		} else {
			value = parseOctal(raw[1:])
		}
	default:
		value = parseDecimal(raw)
	}

	return Token{
		Kind: token.NUMBER, Type: token.NUMBER_TOK, Literal: raw, Value: value,
		Start: start, End: l.pos, Line: startLine, NewlineBefore: nl,
		IllegalOctal: isOctal && hasIllegalOctalDigit,
	}
}

func parseDecimal(s string) float64 {
	var v float64
	fmt.Sscanf(s, "%g", &v)
	return v
}

func parseHexFloat(s string) float64 {
	var v float64
	for _, c := range s {
		v = v*16 + float64(hexVal(uint16(c)))
	}
	return v
}

func parseOctal(s string) float64 {
	var v float64
	for _, c := range s {
		v = v*8 + float64(c-'0')
	}
	return v
}

func (l *Lexer) scanString(start, startLine int, nl bool) Token {
	quote := l.advance()
	var sb strings.Builder
	octalInStrict := false

	for {
		if l.eof() {
			panic(l.errorf("unterminated string literal"))
		}
		c := l.peek()
		if c == quote {
			l.pos++
			break
		}
		if isLineTerminator(c) {
			panic(l.errorf("unterminated string literal"))
		}
		if c == '\\' {
			l.pos++
			esc := l.scanEscape(&octalInStrict)
			sb.WriteString(esc)
			continue
		}
		sb.WriteRune(rune(c))
		l.pos++
	}

	return Token{
		Kind: token.STRING, Type: token.STRING_TOK, Literal: l.sliceString(start, l.pos),
		Value:         sb.String(),
		Start:         start, End: l.pos, Line: startLine, NewlineBefore: nl,
		OctalEscape: octalInStrict,
	}
}

func (l *Lexer) scanEscape(octalSeen *bool) string {
	if l.eof() {
		panic(l.errorf("unterminated escape"))
	}
	c := l.advance()
	switch c {
	case 'n':
		return "\n"
	case 'r':
		return "\r"
	case 't':
		return "\t"
	case 'b':
		return "\b"
	case 'f':
		return "\f"
	case 'v':
		return "\v"
	case '0':
		if isDigit(l.peek()) {
			*octalSeen = true
			return l.scanOctalEscapeRest('0')
		}
		return "\x00"
	case '1', '2', '3', '4', '5', '6', '7':
		*octalSeen = true
		return l.scanOctalEscapeRest(byte(c))
	case 'x':
		v := l.readHex2()
		return string(rune(v))
	case 'u':
		v := l.readHex4()
		if utf16.IsSurrogate(rune(v)) {
			return string(utf16.Decode([]uint16{v}))
		}
		return string(rune(v))
	case '\r':
		if l.peek() == '\n' {
			l.pos++
		}
		l.line++
		return ""
	case '\n', 0x2028, 0x2029:
		l.line++
		return ""
	default:
		return string(rune(c))
	}
}

func (l *Lexer) scanOctalEscapeRest(first byte) string {
	v := int(first - '0')
	for i := 0; i < 2 && isDigit(l.peek()) && l.peek() <= '7'; i++ {
		v = v*8 + int(l.advance()-'0')
	}
	return string(rune(v))
}

func (l *Lexer) readHex2() uint16 {
	var v uint16
	for i := 0; i < 2; i++ {
		if l.eof() || !isHexDigit(l.peek()) {
			panic(l.errorf("invalid hex escape"))
		}
		v = v<<4 + hexVal(l.advance())
	}
	return v
}

func (l *Lexer) scanRegexp(start, startLine int, nl bool) Token {
	l.pos++ // '/'
	inClass := false
	for {
		if l.eof() || isLineTerminator(l.peek()) {
			panic(l.errorf("unterminated regular expression literal"))
		}
		c := l.advance()
		if c == '\\' {
			if l.eof() || isLineTerminator(l.peek()) {
				panic(l.errorf("unterminated regular expression literal"))
			}
			l.pos++
			continue
		}
		if c == '[' {
			inClass = true
		} else if c == ']' {
			inClass = false
		} else if c == '/' && !inClass {
			break
		}
	}
	bodyEnd := l.pos - 1
	flagsStart := l.pos
	for !l.eof() && isIdentPart(l.peek()) {
		l.pos++
	}
	flags := l.sliceString(flagsStart, l.pos)
	if !validRegexpFlags(flags) {
		panic(l.errorf("invalid regular expression flags: %q", flags))
	}
	pattern := l.sliceString(start+1, bodyEnd)

	return Token{
		Kind: token.REGEXP, Type: token.REGEXP_TOK,
		Literal: l.sliceString(start, l.pos),
		Value:   [2]string{pattern, flags},
		Start:   start, End: l.pos, Line: startLine, NewlineBefore: nl,
	}
}

func validRegexpFlags(flags string) bool {
	seen := map[rune]bool{}
	for _, c := range flags {
		if !strings.ContainsRune("gmsiy", c) || seen[c] {
			return false
		}
		seen[c] = true
	}
	return true
}

type punctDef struct {
	text string
	typ  token.Type
}

// ordered longest-first so greedy matching picks >>>'= over >>> over >>.
var puncts = []punctDef{
	{">>>=", token.ASSIGN_UNSIGNED_SHIFT_RIGHT},
	{"===", token.STRICT_EQUAL},
	{"!==", token.STRICT_NOT_EQUAL},
	{">>>", token.UNSIGNED_SHIFT_RIGHT},
	{"<<=", token.ASSIGN_SHIFT_LEFT},
	{">>=", token.ASSIGN_SHIFT_RIGHT},
	{"==", token.EQUAL},
	{"!=", token.NOT_EQUAL},
	{"<=", token.LESS_OR_EQUAL},
	{">=", token.GREATER_OR_EQUAL},
	{"&&", token.LOGICAL_AND},
	{"||", token.LOGICAL_OR},
	{"++", token.INCREMENT},
	{"--", token.DECREMENT},
	{"<<", token.SHIFT_LEFT},
	{">>", token.SHIFT_RIGHT},
	{"+=", token.ASSIGN_ADD},
	{"-=", token.ASSIGN_SUBTRACT},
	{"*=", token.ASSIGN_MULTIPLY},
	{"/=", token.ASSIGN_DIVIDE},
	{"%=", token.ASSIGN_MODULO},
	{"&=", token.ASSIGN_AND},
	{"|=", token.ASSIGN_OR},
	{"^=", token.ASSIGN_XOR},
	{"=>", token.ARROW},
	{"{", token.LBRACE}, {"}", token.RBRACE},
	{"(", token.LPAREN}, {")", token.RPAREN},
	{"[", token.LBRACKET}, {"]", token.RBRACKET},
	{".", token.PERIOD}, {";", token.SEMICOLON}, {",", token.COMMA},
	{":", token.COLON}, {"?", token.QUESTION},
	{"=", token.ASSIGN}, {"+", token.PLUS}, {"-", token.MINUS},
	{"*", token.MULTIPLY}, {"/", token.SLASH}, {"%", token.REMAINDER},
	{"<", token.LESS}, {">", token.GREATER},
	{"!", token.NOT}, {"~", token.BITWISE_NOT},
	{"&", token.AND}, {"|", token.OR}, {"^", token.XOR},
}

func (l *Lexer) scanPunct(start, startLine int, nl bool) Token {
	rest := l.sliceString(start, minInt(start+4, len(l.src)))
	for _, p := range puncts {
		if strings.HasPrefix(rest, p.text) {
			l.pos = start + utf16Len(p.text)
			return Token{
				Kind: token.PUNCT, Type: p.typ, Literal: p.text,
				Start: start, End: l.pos, Line: startLine, NewlineBefore: nl,
			}
		}
	}
	panic(l.errorf("unexpected character %q", string(rune(l.peek()))))
}

func utf16Len(s string) int { return len(utf16.Encode([]rune(s))) }

func minInt(a, b int) int {
	if a < b {
		return a
	}
	return b
}

// SourceText returns the UTF-8 text spanning the given UTF-16 code-unit
// offsets, used by the parser's `re-parsing a node's Start:End slice
// yields an equivalent sub-AST` invariant (spec.md §8.1) and by
// Function.prototype.toString.
func SourceText(src string, start, end int) string {
	units := utf16.Encode([]rune(src))
	if start < 0 || end > len(units) || start > end {
		return ""
	}
	return string(utf16.Decode(units[start:end]))
}
