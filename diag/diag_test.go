package diag

import (
	"testing"

	"stepjs/parser"
)

func TestOffsetToLineColumn(t *testing.T) {
	src := "var a = 1;\nvar b = 2;\nvar c = 3;"
	cases := []struct {
		offset int
		want   LineColumn
	}{
		{0, LineColumn{Line: 1, Column: 0}},
		{11, LineColumn{Line: 2, Column: 0}},
		{15, LineColumn{Line: 2, Column: 4}},
	}
	for _, c := range cases {
		got := OffsetToLineColumn(src, c.offset)
		if got != c.want {
			t.Errorf("OffsetToLineColumn(%d): want %v, got %v", c.offset, c.want, got)
		}
	}
}

func TestDescribeWithoutLocations(t *testing.T) {
	src := "var a = 1;\nvar b = a + 1;"
	prog, err := parser.Parse(src, parser.Options{})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	if len(prog.Body) != 2 {
		t.Fatalf("want 2 statements, got %d", len(prog.Body))
	}
	loc := Describe(src, prog.Body[1])
	if loc.Start.Line != 2 {
		t.Fatalf("want statement 2 to start on line 2, got %d", loc.Start.Line)
	}
}

func TestDescribeWithLocations(t *testing.T) {
	src := "var a = 1;\nvar b = 2;"
	prog, err := parser.Parse(src, parser.Options{Locations: true})
	if err != nil {
		t.Fatalf("Parse: %v", err)
	}
	loc := Describe(src, prog.Body[1])
	if loc.Start.Line != 2 {
		t.Fatalf("want line 2, got %d", loc.Start.Line)
	}
}
