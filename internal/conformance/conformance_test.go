package conformance

import (
	"os"
	"path/filepath"
	"testing"
)

func writeFixture(t *testing.T, dir, name, body string) {
	t.Helper()
	if err := os.WriteFile(filepath.Join(dir, name), []byte(body), 0o644); err != nil {
		t.Fatalf("write fixture %s: %v", name, err)
	}
}

func TestRunAllMixedOutcomes(t *testing.T) {
	dir := t.TempDir()
	writeFixture(t, dir, "arith.yaml", `
name: arith
source: "1 + 2;"
expectValue: "3"
`)
	writeFixture(t, dir, "throws.yaml", `
name: throws
source: "throw new TypeError('bad');"
expectError: "TypeError"
`)
	writeFixture(t, dir, "strict-only.yaml", `
name: strict-only
source: "(function(){ \"use strict\"; return typeof undeclaredThing; })();"
expectValue: "undefined"
onlyStrict: true
`)

	report, err := RunAll(dir)
	if err != nil {
		t.Fatalf("RunAll: %v", err)
	}
	if len(report.Outcomes) != 2+2+1 {
		t.Fatalf("want 5 outcomes (2 fixtures x2 modes + 1 strict-only), got %d", len(report.Outcomes))
	}
	if failures := report.Failures(); len(failures) != 0 {
		for _, f := range failures {
			t.Errorf("unexpected failure: %s (strict=%v): %v", f.Fixture.Name, f.StrictMode, f.Err)
		}
	}
}

func TestRunFixtureDetectsDivergence(t *testing.T) {
	f := Fixture{Name: "wrong", Source: "1 + 1;", ExpectValue: strPtr("3")}
	if err := RunFixture(f, false); err == nil {
		t.Fatalf("expected a mismatch error for a wrong expectValue")
	}
}

func strPtr(s string) *string { return &s }
