// Command tsxcheck parses a source file with both this module's own
// recursive-descent parser and tree-sitter's independent JavaScript
// grammar, flagging any file where the two parsers disagree on whether the
// source is syntactically valid - a cross-check against our own parser's
// blind spots, adapted from the teacher's ts-parser/parser.go (kept there
// as an otherwise-unused stub; here it becomes a standalone comparison
// tool).
package main

import (
	"context"
	"flag"
	"fmt"
	"log"
	"os"

	ts "github.com/smacker/go-tree-sitter"
	javascript "github.com/smacker/go-tree-sitter/javascript"

	"stepjs/parser"
)

func main() {
	file := flag.String("file", "", "path to a .js source file to cross-check")
	flag.Parse()

	if *file == "" {
		log.Fatalf("command line argument is required: -file (see -help)")
	}

	src, err := os.ReadFile(*file)
	if err != nil {
		log.Fatalf("reading %s: %v", *file, err)
	}

	ourErr := parseWithOurs(string(src))
	tsHasErrors, err := parseWithTreeSitter(src)
	if err != nil {
		log.Fatalf("tree-sitter parse of %s: %v", *file, err)
	}

	ourAccepts := ourErr == nil
	tsAccepts := !tsHasErrors

	switch {
	case ourAccepts && tsAccepts:
		fmt.Printf("agree\taccepted\t%s\n", *file)
	case !ourAccepts && !tsAccepts:
		fmt.Printf("agree\trejected\t%s\t%v\n", *file, ourErr)
	case ourAccepts && !tsAccepts:
		fmt.Printf("divergence\tours=accept tree-sitter=reject\t%s\n", *file)
		os.Exit(1)
	default:
		fmt.Printf("divergence\tours=reject tree-sitter=accept\t%s\t%v\n", *file, ourErr)
		os.Exit(1)
	}
}

func parseWithOurs(src string) error {
	_, err := parser.Parse(src, parser.Options{})
	return err
}

func parseWithTreeSitter(src []byte) (hasError bool, err error) {
	p := ts.NewParser()
	p.SetLanguage(javascript.GetLanguage())

	tree, err := p.ParseCtx(context.Background(), nil, src)
	if err != nil {
		return false, err
	}
	return tree.RootNode().HasError(), nil
}
