package codegen

import (
	"testing"

	"github.com/dekarrin/parsegen/internal/ebnf"
	"github.com/dekarrin/parsegen/internal/pgerr"
	"github.com/stretchr/testify/assert"
)

func mustParse(t *testing.T, source string) ebnf.Grammar {
	t.Helper()
	g, err := ebnf.Parse(source)
	if !assert.NoError(t, err) {
		t.FailNow()
	}
	return g
}

func Test_Build_RejectsInvalidGrammar(t *testing.T) {
	g := mustParse(t, `a = b ;`)
	_, err := Build(g)
	if assert.Error(t, err) {
		assert.Equal(t, pgerr.KindUnresolvedReference, pgerr.KindOf(err))
	}
}

func Test_Build_RejectsException(t *testing.T) {
	g := mustParse(t, `a = "x" - "y" ;`)
	_, err := Build(g)
	if assert.Error(t, err) {
		assert.Equal(t, pgerr.KindUnsupportedConstruct, pgerr.KindOf(err))
	}
}

func Test_Dispatcher_Parse_E2_SingleDigit(t *testing.T) {
	g := mustParse(t, `digit = "0" | "1" | "2" | "3" | "4" | "5" | "6" | "7" | "8" | "9" ;`)
	d, err := Build(g)
	if !assert.NoError(t, err) {
		return
	}

	tokens, err := d.Parse(Rule("digit"), "7")
	if assert.NoError(t, err) {
		if assert.Len(t, tokens, 1) {
			assert.Equal(t, Rule("digit"), tokens[0].Rule)
			assert.Equal(t, "7", tokens[0].Text())
		}
	}
}

func Test_Dispatcher_Parse_E1_CSV(t *testing.T) {
	// The record terminator is a real newline inside the terminal's quotes;
	// terminals are uninterpreted text, so a backslash-n escape would match
	// the two literal bytes `\n`, not a line break.
	source := "csv = { record } ;\n" +
		"record = fields , \"\n\" ;\n" +
		"fields = field , [ \",\" , fields ] ;\n" +
		"field = digit , { digit } ;\n" +
		`digit = "0" | "1" | "2" | "3" | "4" | "5" | "6" | "7" | "8" | "9" ;`

	g := mustParse(t, source)
	d, err := Build(g)
	if !assert.NoError(t, err) {
		return
	}

	tokens, err := d.Parse(Rule("csv"), "184,754\n33,22222\n")
	if !assert.NoError(t, err) {
		return
	}

	var records, fields int
	var fieldTexts []string
	for _, tok := range tokens {
		switch tok.Rule {
		case "record":
			records++
		case "field":
			fields++
			fieldTexts = append(fieldTexts, tok.Text())
		}
	}

	assert.Equal(t, 2, records)
	assert.Equal(t, 4, fields)
	assert.Equal(t, []string{"184", "754", "33", "22222"}, fieldTexts)
	assert.Equal(t, tokens[0].Rule, Rule("csv"))
	assert.Equal(t, "184,754\n33,22222\n", tokens[0].Text())
}

// Test_Dispatcher_Parse_RepetitionUntilFailure checks that a lowered
// repetition consumes matching input until the first failure and stops
// there: {digit} over "789X" emits three digit tokens and leaves the
// enclosing rule's span ending at index 3.
func Test_Dispatcher_Parse_RepetitionUntilFailure(t *testing.T) {
	g := mustParse(t, `digits = { digit } ;
digit = "0" | "1" | "2" | "3" | "4" | "5" | "6" | "7" | "8" | "9" ;`)
	d, err := Build(g)
	if !assert.NoError(t, err) {
		return
	}

	tokens, err := d.Parse(Rule("digits"), "789X")
	if !assert.NoError(t, err) {
		return
	}

	if assert.Len(t, tokens, 4) {
		assert.Equal(t, Rule("digits"), tokens[0].Rule)
		assert.Equal(t, 0, tokens[0].Span.Start)
		assert.Equal(t, 3, tokens[0].Span.End)

		for i, text := range []string{"7", "8", "9"} {
			assert.Equal(t, Rule("digit"), tokens[i+1].Rule)
			assert.Equal(t, text, tokens[i+1].Text())
		}
	}
}

func Test_Dispatcher_Parse_Failure(t *testing.T) {
	g := mustParse(t, `digit = "0" | "1" ;`)
	d, err := Build(g)
	if !assert.NoError(t, err) {
		return
	}

	_, err = d.Parse(Rule("digit"), "x")
	if assert.Error(t, err) {
		assert.Equal(t, pgerr.KindParseFailed, pgerr.KindOf(err))
	}
}

func Test_Dispatcher_CyclicReferences(t *testing.T) {
	// a references b and b references a. Build must not fail or deadlock
	// constructing the table; parsing "y" as a follows a's reference to b,
	// while b's reference back to a is never reached.
	g := mustParse(t, `a = "x" | b ;
b = "y" | a ;`)

	d, err := Build(g)
	if !assert.NoError(t, err) {
		return
	}

	tokens, err := d.Parse(Rule("a"), "y")
	if assert.NoError(t, err) {
		assert.Equal(t, Rule("a"), tokens[0].Rule)
	}
}
