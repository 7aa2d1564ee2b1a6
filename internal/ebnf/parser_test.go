package ebnf

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func Test_terminal(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		rem       string
		expected  Terminal
		expectErr bool
	}{
		{name: "double quoted", input: `"hello"`, rem: "", expected: NewTerminal("hello")},
		{name: "double quoted with trailing", input: `"hello" world`, rem: " world", expected: NewTerminal("hello")},
		{name: "single quoted with trailing", input: `'hello' world`, rem: " world", expected: NewTerminal("hello")},
		{name: "unterminated", input: `"hello`, expectErr: true},
		{name: "not a terminal", input: `hello`, expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rem, got, err := terminal(tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			if assert.NoError(t, err) {
				assert.Equal(t, tc.expected, got)
				assert.Equal(t, tc.rem, rem)
			}
		})
	}
}

func Test_identifier(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		rem       string
		expected  Identifier
		expectErr bool
	}{
		{name: "bare", input: "hello", rem: "", expected: NewIdentifier("hello")},
		{name: "with trailing", input: "hello world", rem: " world", expected: NewIdentifier("hello")},
		{name: "with digits and underscore", input: "a_1b2 rest", rem: " rest", expected: NewIdentifier("a_1b2")},
		{name: "leading underscore", input: "_priv x", rem: " x", expected: NewIdentifier("_priv")},
		{name: "cannot start with digit", input: "1abc", expectErr: true},
		{name: "empty", input: "", expectErr: true},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			rem, got, err := identifier(tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			if assert.NoError(t, err) {
				assert.Equal(t, tc.expected, got)
				assert.Equal(t, tc.rem, rem)
			}
		})
	}
}

func Test_rhs(t *testing.T) {
	testCases := []struct {
		name      string
		input     string
		expected  Rhs
		expectErr bool
	}{
		{
			name:     "identifier",
			input:    "digit",
			expected: RhsOfIdentifier(NewIdentifier("digit")),
		},
		{
			name:     "terminal",
			input:    `"hello"`,
			expected: RhsOfTerminal(NewTerminal("hello")),
		},
		{
			name:     "group",
			input:    "( digit )",
			expected: RhsOfGroup(RhsOfIdentifier(NewIdentifier("digit"))),
		},
		{
			name:     "repeat",
			input:    "{ digit }",
			expected: RhsOfRepeat(RhsOfIdentifier(NewIdentifier("digit"))),
		},
		{
			name:     "optional",
			input:    "[ sign ]",
			expected: RhsOfOptional(RhsOfIdentifier(NewIdentifier("sign"))),
		},
		{
			name:  "alternation",
			input: "a | b",
			expected: RhsOfAlternation(
				RhsOfIdentifier(NewIdentifier("a")),
				RhsOfIdentifier(NewIdentifier("b")),
			),
		},
		{
			name:  "concatenation",
			input: "a , b",
			expected: RhsOfConcatenation(
				RhsOfIdentifier(NewIdentifier("a")),
				RhsOfIdentifier(NewIdentifier("b")),
			),
		},
		{
			name:  "exception",
			input: "a - b",
			expected: RhsOfException(
				RhsOfIdentifier(NewIdentifier("a")),
				RhsOfIdentifier(NewIdentifier("b")),
			),
		},
		{
			// E6 Grouped alternation.
			name:  "grouped alternation",
			input: `hello | ( "hello" | world )`,
			expected: RhsOfAlternation(
				RhsOfIdentifier(NewIdentifier("hello")),
				RhsOfGroup(RhsOfAlternation(
					RhsOfTerminal(NewTerminal("hello")),
					RhsOfIdentifier(NewIdentifier("world")),
				)),
			),
		},
		{
			// The leading "," is terminal text, not a concatenation
			// operator; the split must land on the second comma.
			name:  "operator inside terminal does not split",
			input: `"," , fields`,
			expected: RhsOfConcatenation(
				RhsOfTerminal(NewTerminal(",")),
				RhsOfIdentifier(NewIdentifier("fields")),
			),
		},
		{
			name:  "alternation operator inside terminal",
			input: `"|" | dash`,
			expected: RhsOfAlternation(
				RhsOfTerminal(NewTerminal("|")),
				RhsOfIdentifier(NewIdentifier("dash")),
			),
		},
		{
			name:  "optional separator then recursion",
			input: `field , [ "," , fields ]`,
			expected: RhsOfConcatenation(
				RhsOfIdentifier(NewIdentifier("field")),
				RhsOfOptional(RhsOfConcatenation(
					RhsOfTerminal(NewTerminal(",")),
					RhsOfIdentifier(NewIdentifier("fields")),
				)),
			),
		},
		{
			name:  "right associative alternation chain",
			input: "a | b | c",
			expected: RhsOfAlternation(
				RhsOfIdentifier(NewIdentifier("a")),
				RhsOfAlternation(
					RhsOfIdentifier(NewIdentifier("b")),
					RhsOfIdentifier(NewIdentifier("c")),
				),
			),
		},
	}

	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := ParseRhs(tc.input)
			if tc.expectErr {
				assert.Error(t, err)
				return
			}
			if assert.NoError(t, err) {
				assert.True(t, tc.expected.Equal(got), "expected %v, got %v", tc.expected, got)
			}
		})
	}
}

func Test_production(t *testing.T) {
	p, err := ParseProduction(`digits = digit , { digit } ;`)
	if assert.NoError(t, err) {
		expected := Production{
			Lhs: NewLhs("digits"),
			Rhs: RhsOfConcatenation(
				RhsOfIdentifier(NewIdentifier("digit")),
				RhsOfRepeat(RhsOfIdentifier(NewIdentifier("digit"))),
			),
		}
		assert.True(t, expected.Equal(p))
	}
}

func Test_Parse_RoundTrip_E5(t *testing.T) {
	source := "a = \"b\" ;\nc = \"d\" ;"

	g1, err := Parse(source)
	if !assert.NoError(t, err) {
		return
	}

	g2, err := Parse(g1.String())
	if assert.NoError(t, err) {
		assert.True(t, g1.Equal(g2))
	}
}

func Test_Parse_CSV_Grammar_E1(t *testing.T) {
	source := `csv = { record } ;
record = fields , "\n" ;
fields = field , [ "," , fields ] ;
field = digit , { digit } ;
digit = "0" | "1" | "2" | "3" | "4" | "5" | "6" | "7" | "8" | "9" ;`

	g, err := Parse(source)
	if assert.NoError(t, err) {
		assert.Len(t, g.Rules, 5)
		names := make([]string, len(g.Rules))
		for i, r := range g.Rules {
			names[i] = r.Lhs.Identifier.Name
		}
		assert.Equal(t, []string{"csv", "record", "fields", "field", "digit"}, names)
	}
}

func Test_Parse_SkipsComments(t *testing.T) {
	source := `(* the start rule *)
greeting = "hello" ;
(* unused for now *)
farewell = "goodbye" ;`

	g, err := Parse(source)
	if assert.NoError(t, err) {
		assert.Len(t, g.Rules, 2)
	}
}

func Test_Parse_UnconsumedInput(t *testing.T) {
	_, err := Parse(`a = "b" ; not-a-production-at-all !!!`)
	assert.Error(t, err)
}
