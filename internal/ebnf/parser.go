package ebnf

import (
	"strings"

	"github.com/dekarrin/parsegen/internal/pgerr"
)

// Parse reads EBNF source text and builds a Grammar. Unlike the lower-level
// grammar function, Parse requires the entire input (after trailing
// comments/whitespace) to be consumed; any leftover text is reported as a
// GrammarParseError.
func Parse(source string) (Grammar, error) {
	rem, g, err := grammar(source)
	if err != nil {
		return Grammar{}, err
	}
	rem = stripCommentsAndWhitespace(rem)
	if rem != "" {
		return Grammar{}, pgerr.New(pgerr.KindGrammarParseError,
			"unconsumed input after grammar: %q", truncate(rem, 40))
	}
	return g, nil
}

// ParseProduction reads a single "lhs = rhs ;" production, requiring the
// entire input to be consumed.
func ParseProduction(source string) (Production, error) {
	rem, p, err := production(source)
	if err != nil {
		return Production{}, err
	}
	if strings.TrimSpace(rem) != "" {
		return Production{}, pgerr.New(pgerr.KindGrammarParseError,
			"unconsumed input after production: %q", truncate(rem, 40))
	}
	return p, nil
}

// ParseRhs reads a single right-hand side expression, requiring the entire
// input to be consumed.
func ParseRhs(source string) (Rhs, error) {
	rem, r, err := rhs(source)
	if err != nil {
		return Rhs{}, err
	}
	if strings.TrimSpace(rem) != "" {
		return Rhs{}, pgerr.New(pgerr.KindGrammarParseError,
			"unconsumed input after rhs: %q", truncate(rem, 40))
	}
	return r, nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n] + "..."
}

// identifier parses [A-Za-z_][A-Za-z0-9_]*.
func identifier(input string) (rem string, id Identifier, err error) {
	if input == "" || !isIdentStart(input[0]) {
		return input, Identifier{}, pgerr.New(pgerr.KindGrammarParseError,
			"expected identifier, got %q", truncate(input, 20))
	}
	i := 1
	for i < len(input) && isIdentCont(input[i]) {
		i++
	}
	return input[i:], NewIdentifier(input[:i]), nil
}

func isIdentStart(c byte) bool {
	return (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c == '_'
}

func isIdentCont(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// terminal parses a "..." or '...' literal, stripping the matched
// delimiters.
func terminal(input string) (rem string, t Terminal, err error) {
	if input == "" || (input[0] != '"' && input[0] != '\'') {
		return input, Terminal{}, pgerr.New(pgerr.KindGrammarParseError,
			"expected terminal, got %q", truncate(input, 20))
	}
	delim := input[0]
	body, after, ok := splitAtFirst(input[1:], string(delim))
	if !ok {
		return input, Terminal{}, pgerr.New(pgerr.KindGrammarParseError,
			"unterminated terminal starting at %q", truncate(input, 20))
	}
	return after, NewTerminal(body), nil
}

// lhs parses the left-hand side of a production: a bare identifier.
func lhs(input string) (rem string, l Lhs, err error) {
	rem, id, err := identifier(input)
	if err != nil {
		return input, Lhs{}, err
	}
	return rem, Lhs{Identifier: id}, nil
}

// rhs parses the right-hand side of a production, trying each alternative
// in turn and taking the first one that succeeds: group, repeat, optional,
// alternation, concatenation, exception, terminal, identifier.
func rhs(input string) (rem string, r Rhs, err error) {
	input = skipWhitespace(input)

	type attempt func(string) (string, Rhs, error)
	attempts := []attempt{
		rhsGroup,
		rhsRepeat,
		rhsOptional,
		rhsAlternation,
		rhsConcatenation,
		rhsException,
		rhsTerminal,
		rhsIdentifier,
	}

	for _, a := range attempts {
		if rem, r, err = a(input); err == nil {
			return rem, r, nil
		}
	}

	return input, Rhs{}, pgerr.New(pgerr.KindGrammarParseError,
		"could not parse rhs starting at %q", truncate(input, 20))
}

func rhsIdentifier(input string) (string, Rhs, error) {
	rem, id, err := identifier(input)
	if err != nil {
		return input, Rhs{}, err
	}
	return rem, RhsOfIdentifier(id), nil
}

func rhsTerminal(input string) (string, Rhs, error) {
	rem, t, err := terminal(input)
	if err != nil {
		return input, Rhs{}, err
	}
	return rem, RhsOfTerminal(t), nil
}

// rhsGroup, rhsRepeat, and rhsOptional all have the same shape: a bracketed
// span whose closer is the *first* matching delimiter -- not nesting-aware.
// A grammar with nested brackets of the same kind in a single Rhs (e.g.
// "{ { a } }") will therefore parse incorrectly; this is a documented
// limitation, not a bug to fix here.
func rhsGroup(input string) (string, Rhs, error) {
	inner, rem, err := bracketed(input, "(", ")")
	if err != nil {
		return input, Rhs{}, err
	}
	innerRhs, parseErr := parseFullRhs(inner)
	if parseErr != nil {
		return input, Rhs{}, parseErr
	}
	return rem, RhsOfGroup(innerRhs), nil
}

func rhsRepeat(input string) (string, Rhs, error) {
	inner, rem, err := bracketed(input, "{", "}")
	if err != nil {
		return input, Rhs{}, err
	}
	innerRhs, parseErr := parseFullRhs(inner)
	if parseErr != nil {
		return input, Rhs{}, parseErr
	}
	return rem, RhsOfRepeat(innerRhs), nil
}

func rhsOptional(input string) (string, Rhs, error) {
	inner, rem, err := bracketed(input, "[", "]")
	if err != nil {
		return input, Rhs{}, err
	}
	innerRhs, parseErr := parseFullRhs(inner)
	if parseErr != nil {
		return input, Rhs{}, parseErr
	}
	return rem, RhsOfOptional(innerRhs), nil
}

// rhsAlternation, rhsConcatenation, and rhsException all split on the first
// unqualified occurrence of their operator, then recursively parse both
// sides -- this produces right-associative trees ("a|b|c" == Alt(a, Alt(b,
// c))), which is the intended shape.
func rhsAlternation(input string) (string, Rhs, error) {
	return rhsSplit(input, "|", RhsOfAlternation)
}

func rhsConcatenation(input string) (string, Rhs, error) {
	return rhsSplit(input, ",", RhsOfConcatenation)
}

func rhsException(input string) (string, Rhs, error) {
	return rhsSplit(input, "-", RhsOfException)
}

func rhsSplit(input, op string, combine func(a, b Rhs) Rhs) (string, Rhs, error) {
	before, after, ok := splitAtFirstUnqualified(input, op)
	if !ok {
		return input, Rhs{}, pgerr.New(pgerr.KindGrammarParseError,
			"no unqualified %q found in %q", op, truncate(input, 20))
	}

	left, err := parseFullRhs(before)
	if err != nil {
		return input, Rhs{}, err
	}

	rem, right, err := rhs(after)
	if err != nil {
		return input, Rhs{}, err
	}

	return rem, combine(left, right), nil
}

// parseFullRhs parses s as an rhs and discards any leftover text, matching
// the source material's behavior of re-parsing a pre-sliced span without
// checking that the slice was consumed exactly.
func parseFullRhs(s string) (Rhs, error) {
	_, r, err := rhs(s)
	if err != nil {
		return Rhs{}, err
	}
	return r, nil
}

// bracketed extracts the text between open and the first occurrence of
// close, returning that inner text and the remainder following close.
func bracketed(input, open, close string) (inner, rem string, err error) {
	if !strings.HasPrefix(input, open) {
		return "", input, pgerr.New(pgerr.KindGrammarParseError,
			"expected %q, got %q", open, truncate(input, 20))
	}
	inner, rem, ok := splitAtFirst(input[len(open):], close)
	if !ok {
		return "", input, pgerr.New(pgerr.KindGrammarParseError,
			"no closing %q found for %q", close, truncate(input, 20))
	}
	return inner, rem, nil
}

// splitAtFirst finds the first occurrence of sep in s and returns the text
// before it and the text strictly after it.
func splitAtFirst(s, sep string) (before, after string, ok bool) {
	idx := strings.Index(s, sep)
	if idx < 0 {
		return "", "", false
	}
	return s[:idx], s[idx+len(sep):], true
}

// splitAtFirstUnqualified is splitAtFirst restricted to occurrences of sep
// outside a quoted terminal. An operator character inside "..." or '...' is
// part of the terminal's text, not structure, and must not split the
// expression: the first "," of `"," , fields` belongs to the terminal.
func splitAtFirstUnqualified(s, sep string) (before, after string, ok bool) {
	var quote byte
	for i := 0; i < len(s); i++ {
		c := s[i]
		if quote != 0 {
			if c == quote {
				quote = 0
			}
			continue
		}
		if c == '"' || c == '\'' {
			quote = c
			continue
		}
		if strings.HasPrefix(s[i:], sep) {
			return s[:i], s[i+len(sep):], true
		}
	}
	return "", "", false
}

// production parses "lhs = rhs ;". The rhs text is everything between the
// first "=" and the first ";" -- not aware of ";" appearing inside a nested
// rhs construct, matching the EBNF front end's documented limitations.
func production(input string) (rem string, p Production, err error) {
	lhsText, after, ok := splitAtFirst(input, "=")
	if !ok {
		return input, Production{}, pgerr.New(pgerr.KindGrammarParseError,
			"no '=' found in production starting at %q", truncate(input, 20))
	}
	rhsText, after, ok := splitAtFirst(after, ";")
	if !ok {
		return input, Production{}, pgerr.New(pgerr.KindGrammarParseError,
			"no ';' found in production starting at %q", truncate(input, 20))
	}

	_, ruleLhs, err := lhs(strings.TrimSpace(lhsText))
	if err != nil {
		return input, Production{}, err
	}
	ruleRhs, err := parseFullRhs(rhsText)
	if err != nil {
		return input, Production{}, err
	}

	return after, Production{Lhs: ruleLhs, Rhs: ruleRhs}, nil
}

// grammar parses zero or more productions, discarding comments and
// whitespace surrounding each one. It never fails -- an input with zero
// productions yields an empty Grammar, and the caller is responsible for
// inspecting the returned remainder if strict whole-input parsing is
// required (see Parse, which does).
func grammar(input string) (rem string, g Grammar, err error) {
	var rules []Production

	for {
		trimmed := stripCommentsAndWhitespace(input)
		next, p, perr := production(trimmed)
		if perr != nil {
			return input, Grammar{Rules: rules}, nil
		}
		rules = append(rules, p)
		input = stripCommentsAndWhitespace(next)
	}
}

func skipSpaces(s string) string {
	i := 0
	for i < len(s) && (s[i] == ' ' || s[i] == '\t') {
		i++
	}
	return s[i:]
}

func skipWhitespace(s string) string {
	i := 0
	for i < len(s) && strings.ContainsRune(" \t\r\n", rune(s[i])) {
		i++
	}
	return s[i:]
}

// stripCommentsAndWhitespace discards any run of whitespace, an optional
// "(* ... *)" comment, and any further whitespace, repeatedly -- so that
// multiple comments between productions are all discarded.
func stripCommentsAndWhitespace(s string) string {
	for {
		stripped := skipWhitespace(s)
		if strings.HasPrefix(stripped, "(*") {
			_, after, ok := splitAtFirst(stripped[2:], "*)")
			if !ok {
				return stripped
			}
			stripped = skipWhitespace(after)
		}
		if stripped == s {
			return stripped
		}
		s = stripped
	}
}
