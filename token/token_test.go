package token

import "testing"

func TestBeforeExprDisambiguatesSlash(t *testing.T) {
	if IDENTIFIER_TOK.BeforeExpr() {
		t.Fatalf("an identifier should not be beforeExpr (so a following / is division)")
	}
	if !PLUS.BeforeExpr() {
		t.Fatalf("an operator like + should be beforeExpr (so a following / starts a regexp)")
	}
}

func TestPrecedenceOrdering(t *testing.T) {
	if Precedence(MULTIPLY, false) <= Precedence(PLUS, false) {
		t.Fatalf("want * to bind tighter than +")
	}
	if Precedence(LOGICAL_AND, false) <= Precedence(LOGICAL_OR, false) {
		t.Fatalf("want && to bind tighter than ||")
	}
	if Precedence(IDENTIFIER_TOK, false) != 0 {
		t.Fatalf("want a non-operator token to have precedence 0")
	}
}

func TestPrecedenceHonorsNoIn(t *testing.T) {
	if Precedence(IN, true) != 0 {
		t.Fatalf("want `in` to have no precedence inside a for-header (noIn=true)")
	}
	if Precedence(IN, false) == 0 {
		t.Fatalf("want `in` to have ordinary relational precedence outside a for-header")
	}
}

func TestIsAssign(t *testing.T) {
	if !IsAssign(ASSIGN) || !IsAssign(ASSIGN_ADD) {
		t.Fatalf("want = and += to be recognized as assignment operators")
	}
	if IsAssign(PLUS) {
		t.Fatalf("want + to not be an assignment operator")
	}
}

func TestBinaryOpForAssign(t *testing.T) {
	if BinaryOpForAssign(ASSIGN_ADD) != PLUS {
		t.Fatalf("want += to decompose to +")
	}
	if BinaryOpForAssign(ASSIGN_SUBTRACT) != MINUS {
		t.Fatalf("want -= to decompose to -")
	}
}

func TestKeywordLookup(t *testing.T) {
	if Keywords["var"] != VAR {
		t.Fatalf("want 'var' to map to the VAR token type")
	}
	if _, ok := Keywords["notakeyword"]; ok {
		t.Fatalf("want an unknown word to not be a keyword")
	}
}

func TestTypeStringKnownOperators(t *testing.T) {
	if STRICT_EQUAL.String() != "===" {
		t.Fatalf("want STRICT_EQUAL.String() == %q, got %q", "===", STRICT_EQUAL.String())
	}
	if VAR.String() != "var" {
		t.Fatalf("want VAR.String() == %q, got %q", "var", VAR.String())
	}
}
