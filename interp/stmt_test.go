package interp

import (
	"testing"

	"stepjs/ast"
	"stepjs/object"
	"stepjs/parser"
)

func runSource(t *testing.T, src string) (object.Value, error) {
	t.Helper()
	ip := New()
	if err := ip.AppendCode(func() ([]ast.Statement, error) {
		prog, err := parser.Parse(src, parser.Options{})
		if err != nil {
			return nil, err
		}
		return prog.Body, nil
	}); err != nil {
		t.Fatalf("parse %q: %v", src, err)
	}
	if err := ip.Run(); err != nil {
		return object.Undefined, err
	}
	return ip.Value(), nil
}

func wantNumber(t *testing.T, v object.Value, want float64) {
	t.Helper()
	if !v.IsNumber() || v.Num() != want {
		t.Fatalf("want number %g, got %#v", want, v)
	}
}

func wantString(t *testing.T, v object.Value, want string) {
	t.Helper()
	if !v.IsString() || v.Str() != want {
		t.Fatalf("want string %q, got %#v", want, v)
	}
}

func TestIfElse(t *testing.T) {
	v, err := runSource(t, "var x; if (1 < 2) { x = 'yes'; } else { x = 'no'; } x;")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantString(t, v, "yes")
}

func TestWhileLoop(t *testing.T) {
	v, err := runSource(t, "var i = 0, sum = 0; while (i < 5) { sum += i; i++; } sum;")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantNumber(t, v, 10)
}

func TestDoWhileRunsOnce(t *testing.T) {
	v, err := runSource(t, "var i = 0; do { i++; } while (false); i;")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantNumber(t, v, 1)
}

func TestForLoopBreak(t *testing.T) {
	v, err := runSource(t, "var i; for (i = 0; i < 10; i++) { if (i === 3) break; } i;")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantNumber(t, v, 3)
}

func TestForLoopContinue(t *testing.T) {
	v, err := runSource(t, "var sum = 0; for (var i = 0; i < 5; i++) { if (i % 2 === 0) continue; sum += i; } sum;")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantNumber(t, v, 4) // 1 + 3
}

func TestLabeledBreakOuterLoop(t *testing.T) {
	v, err := runSource(t, `
		var found = -1;
		outer:
		for (var i = 0; i < 3; i++) {
			for (var j = 0; j < 3; j++) {
				if (i === 1 && j === 1) {
					found = i * 10 + j;
					break outer;
				}
			}
		}
		found;
	`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantNumber(t, v, 11)
}

func TestLabeledContinueOuterLoop(t *testing.T) {
	v, err := runSource(t, `
		var count = 0;
		outer:
		for (var i = 0; i < 3; i++) {
			for (var j = 0; j < 3; j++) {
				if (j === 1) continue outer;
				count++;
			}
		}
		count;
	`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantNumber(t, v, 3) // one increment per outer iteration before j===1
}

func TestLabeledBlockBreak(t *testing.T) {
	v, err := runSource(t, `
		var x = 0;
		block: {
			x = 1;
			break block;
			x = 2;
		}
		x;
	`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantNumber(t, v, 1)
}

func TestForIn(t *testing.T) {
	v, err := runSource(t, `
		var o = { a: 1, b: 2, c: 3 };
		var keys = [];
		for (var k in o) { keys.push(k); }
		keys.join(',');
	`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantString(t, v, "a,b,c")
}

func TestSwitchFallthrough(t *testing.T) {
	v, err := runSource(t, `
		function classify(n) {
			var out = '';
			switch (n) {
			case 1:
				out += 'one';
			case 2:
				out += 'two';
				break;
			case 3:
				out += 'three';
				break;
			default:
				out += 'other';
			}
			return out;
		}
		classify(1) + '|' + classify(2) + '|' + classify(3) + '|' + classify(9);
	`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantString(t, v, "onetwo|two|three|other")
}

func TestSwitchStopsAtFirstMatch(t *testing.T) {
	v, err := runSource(t, `
		var calls = [];
		function mark(n) { calls.push(n); return n; }
		switch (2) {
		case mark(1): break;
		case mark(2): break;
		case mark(3): break;
		}
		calls.join(',');
	`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantString(t, v, "1,2")
}

func TestTryFinallyOverridesCompletion(t *testing.T) {
	v, err := runSource(t, `
		function f() {
			try {
				return 'try';
			} finally {
				return 'finally';
			}
		}
		f();
	`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantString(t, v, "finally")
}

func TestTryCatchThenFinallyBothRun(t *testing.T) {
	v, err := runSource(t, `
		var log = [];
		function f() {
			try {
				throw 'boom';
			} catch (e) {
				log.push('catch:' + e);
			} finally {
				log.push('finally');
			}
		}
		f();
		log.join(',');
	`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantString(t, v, "catch:boom,finally")
}

func TestWithStatement(t *testing.T) {
	v, err := runSource(t, `
		var o = { x: 5 };
		var result;
		with (o) { result = x + 1; }
		result;
	`)
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	wantNumber(t, v, 6)
}
