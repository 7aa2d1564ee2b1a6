/*
Parsegen builds and drives a recursive-descent parser generated from an EBNF
grammar.

It reads a grammar from either a file or an inline string, and can print it
back out after a round trip through the parser and pretty-printer, emit
generated Go source for a standalone dispatcher, or build an in-process
dispatcher and run it against an input file.

Usage:

	parsegen [flags]

The flags are:

	-v, --version
		Give the current version of parsegen and then exit.

	-g, --grammar FILE
		Read the EBNF grammar from FILE. Mutually exclusive with --grammar-inline.

	--grammar-inline TEXT
		Use TEXT as the EBNF grammar. Mutually exclusive with --grammar.

	-p, --print
		Parse the grammar and print it back out.

	--generate PKG
		Emit Go source for the dispatcher, as package PKG, to stdout or --out.

	-o, --out FILE
		Write --generate output to FILE instead of stdout.

	-r, --rule NAME
		Together with --input, build a dispatcher and run the named rule.

	-i, --input FILE
		The file to parse when --rule is given.

Exactly one of --print, --generate, or --rule (with --input) must be given
alongside a grammar source.
*/
package main

import (
	"fmt"
	"os"

	"github.com/google/uuid"
	"github.com/spf13/pflag"

	"github.com/dekarrin/parsegen/internal/codegen"
	"github.com/dekarrin/parsegen/internal/derive"
	"github.com/dekarrin/parsegen/internal/pgerr"
	"github.com/dekarrin/parsegen/internal/version"
)

const (
	// ExitSuccess indicates a successful program execution.
	ExitSuccess = iota

	// ExitUsageError indicates bad or contradictory flags.
	ExitUsageError

	// ExitGrammarError indicates the grammar source could not be loaded,
	// parsed, or validated.
	ExitGrammarError

	// ExitRunError indicates a requested operation (generate, parse) failed
	// once the grammar was already loaded.
	ExitRunError
)

var (
	returnCode = ExitSuccess

	flagVersion       = pflag.BoolP("version", "v", false, "Gives the version info")
	flagGrammarFile   = pflag.StringP("grammar", "g", "", "Read the EBNF grammar from this file")
	flagGrammarInline = pflag.String("grammar-inline", "", "Use this string as the EBNF grammar")
	flagPrint         = pflag.BoolP("print", "p", false, "Parse the grammar and print it back out")
	flagGenerate      = pflag.String("generate", "", "Emit Go source for the dispatcher, as the given package name")
	flagOut           = pflag.StringP("out", "o", "", "Write --generate output to this file instead of stdout")
	flagRule          = pflag.StringP("rule", "r", "", "Run this rule against --input")
	flagInput         = pflag.StringP("input", "i", "", "The file to parse when --rule is given")
)

func main() {
	defer func() {
		if panicErr := recover(); panicErr != nil {
			panic(fmt.Sprintf("unrecoverable panic occurred: %v", panicErr))
		} else {
			os.Exit(returnCode)
		}
	}()

	pflag.Parse()

	if *flagVersion {
		fmt.Printf("%s\n", version.Current)
		return
	}

	src := derive.Source{GrammarFile: *flagGrammarFile, GrammarInline: *flagGrammarInline}

	switch {
	case *flagPrint:
		runPrint(src)
	case *flagGenerate != "":
		runGenerate(src, *flagGenerate)
	case *flagRule != "":
		runParse(src, *flagRule, *flagInput)
	default:
		fmt.Fprintln(os.Stderr, "ERROR: one of --print, --generate, or --rule must be given")
		returnCode = ExitUsageError
	}
}

func runPrint(src derive.Source) {
	g, err := derive.Grammar(src, ".")
	if err != nil {
		reportGrammarError(err)
		return
	}
	fmt.Print(g.String())
}

func runGenerate(src derive.Source, pkg string) {
	out, err := derive.Generate(src, ".", pkg)
	if err != nil {
		reportGrammarError(err)
		return
	}

	header := fmt.Sprintf("// generated by parsegen, run %s\n", uuid.New().String())
	out = header + out

	if *flagOut == "" {
		fmt.Print(out)
		return
	}

	if err := os.WriteFile(*flagOut, []byte(out), 0o644); err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: writing %s: %v\n", *flagOut, err)
		returnCode = ExitRunError
	}
}

func runParse(src derive.Source, rule, inputPath string) {
	if inputPath == "" {
		fmt.Fprintln(os.Stderr, "ERROR: --rule requires --input")
		returnCode = ExitUsageError
		return
	}

	input, err := os.ReadFile(inputPath)
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: reading %s: %v\n", inputPath, err)
		returnCode = ExitRunError
		return
	}

	d, err := derive.Build(src, ".")
	if err != nil {
		reportGrammarError(err)
		return
	}

	tokens, err := d.Parse(codegen.Rule(rule), string(input))
	if err != nil {
		fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
		returnCode = ExitRunError
		return
	}

	for _, tok := range tokens {
		fmt.Printf("%s@%d:%d %q\n", tok.Rule, tok.Span.Start, tok.Span.End, tok.Text())
	}
}

func reportGrammarError(err error) {
	fmt.Fprintf(os.Stderr, "ERROR: %s\n", err.Error())
	if pgerr.KindOf(err) == pgerr.KindUnknown {
		returnCode = ExitRunError
		return
	}
	returnCode = ExitGrammarError
}
