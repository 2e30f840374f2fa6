// Package conformance runs a corpus of YAML-described test fixtures against
// the interpreter, the same success/failure-tallying shape as the teacher's
// cmd/run262 test262 runner (run262.go's runMany/runTestCase), adapted into
// a fixture-corpus runner since test262 itself isn't vendored in this
// module.
package conformance

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"stepjs"
)

// Fixture describes one conformance case: source text plus the expected
// terminal value (stringified) or thrown error name, mirroring the
// metadata block run262.go's parseMetadata extracts from a `/*--- ... ---*/`
// comment, but as a standalone YAML document instead of an embedded comment.
type Fixture struct {
	Name        string `yaml:"name"`
	Source      string `yaml:"source"`
	ExpectValue *string `yaml:"expectValue"`
	ExpectError string  `yaml:"expectError"`
	NoStrict    bool    `yaml:"noStrict"`
	OnlyStrict  bool    `yaml:"onlyStrict"`
}

// Outcome records one fixture's result under one strictness mode.
type Outcome struct {
	Fixture    Fixture
	StrictMode bool
	Err        error
}

// Success reports whether this outcome matched the fixture's expectation.
func (o Outcome) Success() bool { return o.Err == nil }

// Report is the full corpus run, the same successes/failures split
// run262.go's main prints.
type Report struct {
	Outcomes []Outcome
}

func (r Report) Failures() []Outcome {
	var out []Outcome
	for _, o := range r.Outcomes {
		if !o.Success() {
			out = append(out, o)
		}
	}
	return out
}

func (r Report) Summary() string {
	failures := len(r.Failures())
	return fmt.Sprintf("total: %d; %d successes; %d failures", len(r.Outcomes), len(r.Outcomes)-failures, failures)
}

// LoadFixtures reads every *.yaml/*.yml file in dir into a Fixture, the
// fixture-corpus analogue of run262.go reading testConfig.json's testCases
// list.
func LoadFixtures(dir string) ([]Fixture, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var fixtures []Fixture
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		ext := filepath.Ext(e.Name())
		if ext != ".yaml" && ext != ".yml" {
			continue
		}
		raw, err := os.ReadFile(filepath.Join(dir, e.Name()))
		if err != nil {
			return nil, err
		}
		var f Fixture
		if err := yaml.Unmarshal(raw, &f); err != nil {
			return nil, fmt.Errorf("%s: %w", e.Name(), err)
		}
		if f.Name == "" {
			f.Name = strings.TrimSuffix(e.Name(), ext)
		}
		fixtures = append(fixtures, f)
	}
	return fixtures, nil
}

// RunFixture runs f once under the given strictness, reporting a non-nil
// error when the outcome diverges from f's expectation - either an
// unexpected throw, a missing expected throw, or a terminal value other
// than ExpectValue.
func RunFixture(f Fixture, strict bool) error {
	src := f.Source
	if strict {
		src = "\"use strict\";\n" + src
	}
	ip, err := stepjs.New(src, stepjs.Options{}, nil)
	if err != nil {
		return fmt.Errorf("parse: %w", err)
	}
	ip.Run()

	if runErr := ip.Err(); runErr != nil {
		if f.ExpectError == "" {
			return fmt.Errorf("unexpected throw: %w", runErr)
		}
		if !strings.Contains(runErr.Error(), f.ExpectError) {
			return fmt.Errorf("want error containing %q, got %q", f.ExpectError, runErr.Error())
		}
		return nil
	}
	if f.ExpectError != "" {
		return fmt.Errorf("expected an error containing %q, but the program completed normally", f.ExpectError)
	}
	if f.ExpectValue != nil {
		got := ip.Value().ToStringPrimitive()
		if got != *f.ExpectValue {
			return fmt.Errorf("want value %q, got %q", *f.ExpectValue, got)
		}
	}
	return nil
}

// RunAll loads every fixture in dir and runs each in both strict and
// non-strict mode (skipping whichever mode the fixture opts out of),
// exactly run262.go's runMany strict/sloppy fan-out.
func RunAll(dir string) (Report, error) {
	fixtures, err := LoadFixtures(dir)
	if err != nil {
		return Report{}, err
	}
	var report Report
	for _, f := range fixtures {
		if !f.OnlyStrict {
			report.Outcomes = append(report.Outcomes, Outcome{Fixture: f, StrictMode: false, Err: RunFixture(f, false)})
		}
		if !f.NoStrict {
			report.Outcomes = append(report.Outcomes, Outcome{Fixture: f, StrictMode: true, Err: RunFixture(f, true)})
		}
	}
	return report, nil
}
