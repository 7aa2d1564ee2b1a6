// Package derive resolves a user-declared grammar source and hands it to
// internal/codegen: callers describe where their grammar lives with a Source
// value, and this package validates it, reads it, parses it, and builds or
// emits the parser for it.
package derive

import (
	"os"
	"path/filepath"

	"github.com/dekarrin/parsegen/internal/codegen"
	"github.com/dekarrin/parsegen/internal/ebnf"
	"github.com/dekarrin/parsegen/internal/pgerr"
)

// Source names exactly one grammar source. A caller must set exactly one of
// GrammarFile or GrammarInline; zero is MissingGrammarSource and both is
// MultipleGrammarSources.
type Source struct {
	// GrammarFile is a path to an EBNF source file, resolved against the
	// projectRoot argument passed to Build or Generate.
	GrammarFile string

	// GrammarInline is the EBNF grammar as a literal string.
	GrammarInline string
}

func (s Source) validate() error {
	count := 0
	if s.GrammarFile != "" {
		count++
	}
	if s.GrammarInline != "" {
		count++
	}
	switch count {
	case 0:
		return pgerr.New(pgerr.KindMissingGrammarSource,
			"exactly one of GrammarFile or GrammarInline must be set")
	case 1:
		return nil
	default:
		return pgerr.New(pgerr.KindMultipleGrammarSources,
			"only one of GrammarFile or GrammarInline may be set, got both")
	}
}

// text materializes s's grammar source as EBNF text, reading GrammarFile
// relative to projectRoot if that's the source in use.
func (s Source) text(projectRoot string) (string, error) {
	if s.GrammarInline != "" {
		return s.GrammarInline, nil
	}

	path := s.GrammarFile
	if !filepath.IsAbs(path) {
		path = filepath.Join(projectRoot, path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return "", pgerr.Wrap(pgerr.KindGrammarFileReadError, err, "reading grammar file %q", path)
	}
	return string(data), nil
}

// loadGrammar runs the shared validate-source/read/parse pipeline common to
// Build, Generate, and Grammar. It does not call Grammar.Validate; Build and
// Generate get grammar-level validation from internal/codegen.
func loadGrammar(src Source, projectRoot string) (ebnf.Grammar, error) {
	if err := src.validate(); err != nil {
		return ebnf.Grammar{}, err
	}

	text, err := src.text(projectRoot)
	if err != nil {
		return ebnf.Grammar{}, err
	}

	g, err := ebnf.Parse(text)
	if err != nil {
		return ebnf.Grammar{}, err
	}

	return g, nil
}

// Build discovers, parses, and lowers src's grammar into a ready-to-use
// in-process dispatcher.
func Build(src Source, projectRoot string) (*codegen.Dispatcher, error) {
	g, err := loadGrammar(src, projectRoot)
	if err != nil {
		return nil, err
	}
	return codegen.Build(g)
}

// Generate discovers and parses src's grammar and emits Go source text for a
// standalone dispatcher package named pkg, for ahead-of-time generation
// (e.g. from the CLI's --generate flag).
func Generate(src Source, projectRoot, pkg string) (string, error) {
	g, err := loadGrammar(src, projectRoot)
	if err != nil {
		return "", err
	}
	return codegen.EmitSource(g, pkg)
}

// Grammar discovers, reads, and parses src's grammar without lowering it,
// for callers that only need the parsed AST -- e.g. the CLI's --print flag,
// which round-trips the grammar through the pretty-printer.
func Grammar(src Source, projectRoot string) (ebnf.Grammar, error) {
	return loadGrammar(src, projectRoot)
}
