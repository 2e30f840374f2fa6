package interp

import (
	"strings"
	"testing"

	"stepjs/parser"
)

func TestDumpASTCoversCoreNodeShapes(t *testing.T) {
	src := `
var total = 0;
function add(a, b) {
	return a + b;
}
for (var i = 0; i < 3; i++) {
	if (i % 2 === 0) {
		total = add(total, i);
	} else {
		continue;
	}
}
try {
	throw total;
} catch (e) {
	total = e;
} finally {
	total += 1;
}
`
	prog, err := parser.Parse(src, parser.Options{Locations: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}

	var buf strings.Builder
	DumpAST(src, prog, &buf)
	out := buf.String()

	for _, want := range []string{
		"VariableDeclaration",
		"FunctionDeclaration add",
		"ForStatement",
		"IfStatement",
		"CallExpression",
		"TryStatement",
		"CatchClause",
		"BinaryExpression ===",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("DumpAST output missing %q\nfull output:\n%s", want, out)
		}
	}
}

func TestDumpASTHandlesEmptyProgram(t *testing.T) {
	prog, err := parser.Parse("", parser.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	var buf strings.Builder
	DumpAST("", prog, &buf)
	if buf.Len() != 0 {
		t.Fatalf("expected no output for an empty program, got %q", buf.String())
	}
}
