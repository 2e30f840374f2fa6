package oracle

import "testing"

func TestCompareAgreesOnArithmetic(t *testing.T) {
	progs := []string{
		"1 + 2;",
		"var a = 1; a + 2;",
		"var r = []; for (var i=0;i<3;i++) r.push(i); r.join(',');",
		"'a' + 'b' + 'c';",
		"(3 > 2) && (1 < 2);",
	}
	for _, src := range progs {
		if err := Compare(src); err != nil {
			t.Errorf("Compare(%q): %v", src, err)
		}
	}
}

func TestDivergenceErrorMessage(t *testing.T) {
	d := &Divergence{Source: "1+1;", Ours: "2", Otto: "3"}
	got := d.Error()
	if got == "" {
		t.Fatalf("expected a non-empty message")
	}
}
