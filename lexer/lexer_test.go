package lexer

import (
	"testing"

	"stepjs/token"
)

func scanAll(t *testing.T, src string) (toks []Token, err error) {
	t.Helper()
	defer func() {
		if r := recover(); r != nil {
			if se, ok := r.(*SyntaxError); ok {
				err = se
				return
			}
			panic(r)
		}
	}()
	l := New(src, "")
	for {
		tok := l.Next()
		toks = append(toks, tok)
		if tok.Kind == token.EOF {
			break
		}
	}
	return toks, nil
}

func types(toks []Token) []token.Type {
	out := make([]token.Type, 0, len(toks))
	for _, tok := range toks {
		out = append(out, tok.Type)
	}
	return out
}

func wantTypes(t *testing.T, src string, want []token.Type) []Token {
	t.Helper()
	toks, err := scanAll(t, src)
	if err != nil {
		t.Fatalf("scanning %q: %v", src, err)
	}
	got := types(toks)
	if len(got) != len(want) {
		t.Fatalf("scanning %q:\nwant %v\ngot  %v", src, want, got)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Fatalf("scanning %q: token %d: want %v, got %v\nfull want %v\nfull got  %v", src, i, want[i], got[i], want, got)
		}
	}
	return toks
}

func TestKeywordsAndPunctuation(t *testing.T) {
	wantTypes(t, "var a = 1 + 2;", []token.Type{
		token.VAR, token.IDENTIFIER_TOK, token.ASSIGN, token.NUMBER_TOK,
		token.PLUS, token.NUMBER_TOK, token.SEMICOLON, token.EOF_TOK,
	})
}

func TestStrictEqualNotGreedilySplit(t *testing.T) {
	wantTypes(t, "a === b", []token.Type{
		token.IDENTIFIER_TOK, token.STRICT_EQUAL, token.IDENTIFIER_TOK, token.EOF_TOK,
	})
}

func TestLineCommentStopsAtNewline(t *testing.T) {
	toks := wantTypes(t, "1 // two\n+ 2", []token.Type{
		token.NUMBER_TOK, token.PLUS, token.NUMBER_TOK, token.EOF_TOK,
	})
	if !toks[1].NewlineBefore {
		t.Fatalf("expected NewlineBefore on the token after the line comment")
	}
}

func TestBlockComment(t *testing.T) {
	wantTypes(t, "1 /* skip\nthis */ + 2", []token.Type{
		token.NUMBER_TOK, token.PLUS, token.NUMBER_TOK, token.EOF_TOK,
	})
}

func TestStringLiteralEscapes(t *testing.T) {
	toks, err := scanAll(t, `"a\tb\u0063"`)
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if toks[0].Value.(string) != "a\tbc" {
		t.Fatalf("want decoded string %q, got %q", "a\tbc", toks[0].Value)
	}
}

func TestNumberLiteralForms(t *testing.T) {
	cases := map[string]float64{
		"0":      0,
		"42":     42,
		"3.5":    3.5,
		"0x1F":   31,
		"1e2":    100,
		".5":     0.5,
	}
	for src, want := range cases {
		toks, err := scanAll(t, src)
		if err != nil {
			t.Fatalf("scan %q: %v", src, err)
		}
		got := toks[0].Value.(float64)
		if got != want {
			t.Errorf("scan %q: want %v, got %v", src, want, got)
		}
	}
}

func TestLegacyOctalNumberFlagged(t *testing.T) {
	toks, err := scanAll(t, "017")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if toks[0].Value.(float64) != 15 {
		t.Fatalf("want octal 017 == 15, got %v", toks[0].Value)
	}
}

func TestIllegalOctalDigitFallsBackToDecimal(t *testing.T) {
	toks, err := scanAll(t, "089")
	if err != nil {
		t.Fatalf("scan: %v", err)
	}
	if !toks[0].IllegalOctal {
		t.Fatalf("expected IllegalOctal to be set for 089")
	}
	if toks[0].Value.(float64) != 89 {
		t.Fatalf("want decimal fallback 89, got %v", toks[0].Value)
	}
}

func TestSlashAfterIdentifierIsDivision(t *testing.T) {
	l := New("a / b", "")
	l.SetRegexpContext(false) // division context: after an identifier
	first := l.Next()
	if first.Type != token.IDENTIFIER_TOK {
		t.Fatalf("want identifier, got %v", first.Type)
	}
	l.SetRegexpContext(false)
	second := l.Next()
	if second.Kind != token.PUNCT || second.Type != token.SLASH {
		t.Fatalf("want division slash, got kind=%v type=%v", second.Kind, second.Type)
	}
}

func TestRegexpLiteralScansPatternAndFlags(t *testing.T) {
	l := New("/ab+c/gi", "")
	l.SetRegexpContext(true)
	tok := l.Next()
	if tok.Kind != token.REGEXP {
		t.Fatalf("want regexp token, got %v", tok.Kind)
	}
	pair := tok.Value.([2]string)
	if pair[0] != "ab+c" || pair[1] != "gi" {
		t.Fatalf("want pattern=ab+c flags=gi, got %v", pair)
	}
}

func TestInvalidRegexpFlagsError(t *testing.T) {
	l := New("/a/z", "")
	l.SetRegexpContext(true)
	defer func() {
		if r := recover(); r == nil {
			t.Fatalf("expected a panic for invalid regexp flags")
		}
	}()
	l.Next()
}

func TestUnterminatedStringIsSyntaxError(t *testing.T) {
	_, err := scanAll(t, `"abc`)
	if err == nil {
		t.Fatalf("expected a syntax error for an unterminated string")
	}
}

func TestSourceTextRoundTripsUTF16Offsets(t *testing.T) {
	src := "var total = 1;"
	got := SourceText(src, 4, 9)
	if got != "total" {
		t.Fatalf("want %q, got %q", "total", got)
	}
}

func TestDecodeSourceStripsUTF8BOM(t *testing.T) {
	raw := append([]byte{0xEF, 0xBB, 0xBF}, []byte("var a = 1;")...)
	decoded, err := DecodeSource(raw)
	if err != nil {
		t.Fatalf("DecodeSource: %v", err)
	}
	if decoded != "var a = 1;" {
		t.Fatalf("want BOM stripped, got %q", decoded)
	}
}
