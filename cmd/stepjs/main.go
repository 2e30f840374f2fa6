// Command stepjs runs a single ES5 script file to completion, printing its
// terminal value or uncaught error, or (with -conformance) runs a directory
// of YAML conformance fixtures and prints a pass/fail summary - the same
// flag-driven shape as the teacher's cmd/run262 (test262Root/testCase/
// showAST/cpuProfile flags), retargeted from a test262 harness onto this
// module's own script-running and fixture-corpus surfaces.
package main

import (
	"flag"
	"fmt"
	"log"
	"os"
	"runtime/pprof"

	"stepjs"
	"stepjs/internal/conformance"
	"stepjs/interp"
	"stepjs/parser"
)

func main() {
	file := flag.String("file", "", "path to a .js source file to run")
	conformanceDir := flag.String("conformance", "", "path to a directory of YAML conformance fixtures to run instead of -file")
	showValue := flag.Bool("showValue", true, "print the program's terminal value")
	showAST := flag.Bool("showAST", false, "print the parsed AST instead of running the program")
	cpuProfile := flag.String("cpuProfile", "", "write CPU profile to this file")
	flag.Parse()

	if *cpuProfile != "" {
		f, err := os.Create(*cpuProfile)
		if err != nil {
			log.Fatalf("can't create cpu profile file: %s: %s", *cpuProfile, err)
		}
		pprof.StartCPUProfile(f)
		defer pprof.StopCPUProfile()
	}

	if *conformanceDir != "" {
		runConformance(*conformanceDir)
		return
	}

	if *file == "" {
		log.Fatalf("command line argument is required: -file or -conformance (see -help)")
	}
	if *showAST {
		dumpAST(*file)
		return
	}
	runScript(*file, *showValue)
}

func dumpAST(path string) {
	src, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("reading %s: %v", path, err)
	}
	prog, err := parser.Parse(string(src), parser.Options{Locations: true})
	if err != nil {
		log.Fatalf("parsing %s: %v", path, err)
	}
	interp.DumpAST(string(src), prog, os.Stdout)
}

func runScript(path string, showValue bool) {
	src, err := os.ReadFile(path)
	if err != nil {
		log.Fatalf("reading %s: %v", path, err)
	}

	ip, err := stepjs.New(string(src), stepjs.Options{}, nil)
	if err != nil {
		log.Fatalf("parsing %s: %v", path, err)
	}
	ip.Run()
	if err := ip.Err(); err != nil {
		fmt.Fprintf(os.Stderr, "uncaught: %v\n", err)
		os.Exit(1)
	}
	if showValue {
		fmt.Println(ip.Value().ToStringPrimitive())
	}
}

func runConformance(dir string) {
	report, err := conformance.RunAll(dir)
	if err != nil {
		log.Fatalf("loading fixtures from %s: %v", dir, err)
	}

	for _, o := range report.Outcomes {
		mode := "sloppy"
		if o.StrictMode {
			mode = "strict"
		}
		if o.Success() {
			fmt.Printf("case\t%s\t%s\tok\n", o.Fixture.Name, mode)
		} else {
			fmt.Printf("case\t%s\t%s\tFAIL\t%v\n", o.Fixture.Name, mode, o.Err)
		}
	}
	fmt.Println(report.Summary())
	if len(report.Failures()) > 0 {
		os.Exit(1)
	}
}
