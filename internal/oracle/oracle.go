// Package oracle cross-checks the interpreter's result for a program
// against github.com/robertkrimen/otto, a second independent ES5
// implementation already in the module graph (the teacher imports otto's
// parser/ast/token packages for its own parsing; this package is the first
// consumer of otto's actual evaluator, used purely as a differential
// oracle, never as the interpreter under test).
package oracle

import (
	"fmt"

	"github.com/robertkrimen/otto"

	"stepjs"
)

// Divergence reports that the interpreter and otto disagreed on a program's
// outcome.
type Divergence struct {
	Source    string
	Ours      string
	OursErr   error
	Otto      string
	OttoErr   error
}

func (d *Divergence) Error() string {
	return fmt.Sprintf("divergence on %q: ours=(%q, err=%v) otto=(%q, err=%v)", d.Source, d.Ours, d.OursErr, d.Otto, d.OttoErr)
}

// Compare runs src through both engines and reports a *Divergence if their
// terminal value or error-ness disagree. A nil return means the two engines
// agree (both produce the same stringified value, or both throw).
func Compare(src string) error {
	ourVal, ourErr := runOurs(src)
	ottoVal, ottoErr := runOtto(src)

	if (ourErr == nil) != (ottoErr == nil) {
		return &Divergence{Source: src, Ours: ourVal, OursErr: ourErr, Otto: ottoVal, OttoErr: ottoErr}
	}
	if ourErr == nil && ourVal != ottoVal {
		return &Divergence{Source: src, Ours: ourVal, OursErr: ourErr, Otto: ottoVal, OttoErr: ottoErr}
	}
	return nil
}

func runOurs(src string) (string, error) {
	ip, err := stepjs.New(src, stepjs.Options{}, nil)
	if err != nil {
		return "", err
	}
	ip.Run()
	if err := ip.Err(); err != nil {
		return "", err
	}
	return ip.Value().ToStringPrimitive(), nil
}

func runOtto(src string) (string, error) {
	vm := otto.New()
	v, err := vm.Run(src)
	if err != nil {
		return "", err
	}
	s, err := v.ToString()
	if err != nil {
		return "", err
	}
	return s, nil
}
