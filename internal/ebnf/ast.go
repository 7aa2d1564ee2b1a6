// Package ebnf implements the EBNF grammar front end: a typed AST for
// grammars, a reversible pretty-printer, a hand-written recursive-descent
// parser for EBNF source text, and grammar-level validation.
//
// Grammars accepted by this package must be right-recursive: the runtime
// this package feeds (internal/runtime and internal/codegen) is a plain
// recursive-descent engine with no left-recursion support.
package ebnf

import "strings"

// Identifier is a production or reference name matching
// [A-Za-z_][A-Za-z0-9_]*.
type Identifier struct {
	Name string
}

// NewIdentifier wraps name as an Identifier.
func NewIdentifier(name string) Identifier {
	return Identifier{Name: name}
}

func (i Identifier) String() string {
	return i.Name
}

// Terminal is an uninterpreted literal to be matched verbatim. The quote
// delimiter used on parse (either " or ') is not retained; Terminal stores
// only the text between the delimiters.
type Terminal struct {
	Text string
}

// NewTerminal wraps text as a Terminal.
func NewTerminal(text string) Terminal {
	return Terminal{Text: text}
}

func (t Terminal) String() string {
	return `"` + t.Text + `"`
}

// Lhs is the left-hand side of a production: exactly one Identifier.
type Lhs struct {
	Identifier Identifier
}

// NewLhs wraps name as an Lhs.
func NewLhs(name string) Lhs {
	return Lhs{Identifier: NewIdentifier(name)}
}

func (l Lhs) String() string {
	return l.Identifier.String()
}

// RhsKind discriminates the tagged-sum cases of Rhs.
type RhsKind int

const (
	RhsIdentifier RhsKind = iota
	RhsTerminal
	RhsOptional
	RhsRepeat
	RhsGroup
	RhsException
	RhsAlternation
	RhsConcatenation
)

func (k RhsKind) String() string {
	switch k {
	case RhsIdentifier:
		return "Identifier"
	case RhsTerminal:
		return "Terminal"
	case RhsOptional:
		return "Optional"
	case RhsRepeat:
		return "Repeat"
	case RhsGroup:
		return "Group"
	case RhsException:
		return "Exception"
	case RhsAlternation:
		return "Alternation"
	case RhsConcatenation:
		return "Concatenation"
	default:
		return "RhsKind(?)"
	}
}

// Rhs is the right-hand side of a production: a tagged sum of Identifier,
// Terminal, Optional, Repeat, Group, Exception, Alternation, and
// Concatenation. It is recursive; child Rhs values are held behind pointers
// since the type is self-referential.
//
// Exactly the fields relevant to Kind are populated:
//
//	Identifier     -> Kind == RhsIdentifier
//	Terminal       -> Kind == RhsTerminal
//	Left           -> Kind in {Optional, Repeat, Group}
//	Left and Right -> Kind in {Exception, Alternation, Concatenation}
type Rhs struct {
	Kind       RhsKind
	Identifier Identifier
	Terminal   Terminal
	Left       *Rhs
	Right      *Rhs
}

// RhsOfIdentifier builds a leaf Rhs referencing the given identifier.
func RhsOfIdentifier(id Identifier) Rhs {
	return Rhs{Kind: RhsIdentifier, Identifier: id}
}

// RhsOfTerminal builds a leaf Rhs matching the given terminal verbatim.
func RhsOfTerminal(t Terminal) Rhs {
	return Rhs{Kind: RhsTerminal, Terminal: t}
}

// RhsOfOptional wraps r in an Optional node.
func RhsOfOptional(r Rhs) Rhs {
	return Rhs{Kind: RhsOptional, Left: &r}
}

// RhsOfRepeat wraps r in a Repeat node.
func RhsOfRepeat(r Rhs) Rhs {
	return Rhs{Kind: RhsRepeat, Left: &r}
}

// RhsOfGroup wraps r in a Group node.
func RhsOfGroup(r Rhs) Rhs {
	return Rhs{Kind: RhsGroup, Left: &r}
}

// RhsOfException builds an Exception node: match a but not b.
func RhsOfException(a, b Rhs) Rhs {
	return Rhs{Kind: RhsException, Left: &a, Right: &b}
}

// RhsOfAlternation builds an Alternation node: match a or, failing that, b.
func RhsOfAlternation(a, b Rhs) Rhs {
	return Rhs{Kind: RhsAlternation, Left: &a, Right: &b}
}

// RhsOfConcatenation builds a Concatenation node: match a followed by b.
func RhsOfConcatenation(a, b Rhs) Rhs {
	return Rhs{Kind: RhsConcatenation, Left: &a, Right: &b}
}

func (r Rhs) String() string {
	switch r.Kind {
	case RhsIdentifier:
		return r.Identifier.String()
	case RhsTerminal:
		return r.Terminal.String()
	case RhsOptional:
		return "[ " + r.Left.String() + " ]"
	case RhsRepeat:
		return "{ " + r.Left.String() + " }"
	case RhsGroup:
		return "( " + r.Left.String() + " )"
	case RhsException:
		return r.Left.String() + " - " + r.Right.String()
	case RhsAlternation:
		return r.Left.String() + " | " + r.Right.String()
	case RhsConcatenation:
		return r.Left.String() + " , " + r.Right.String()
	default:
		return ""
	}
}

// Equal reports whether two Rhs trees are structurally identical.
func (r Rhs) Equal(o Rhs) bool {
	if r.Kind != o.Kind {
		return false
	}
	switch r.Kind {
	case RhsIdentifier:
		return r.Identifier == o.Identifier
	case RhsTerminal:
		return r.Terminal == o.Terminal
	case RhsOptional, RhsRepeat, RhsGroup:
		return r.Left.Equal(*o.Left)
	default:
		return r.Left.Equal(*o.Left) && r.Right.Equal(*o.Right)
	}
}

// Production is a single named rewrite rule: Lhs = Rhs.
type Production struct {
	Lhs Lhs
	Rhs Rhs
}

func (p Production) String() string {
	return p.Lhs.String() + " = " + p.Rhs.String() + " ;"
}

// Equal reports whether two productions are structurally identical.
func (p Production) Equal(o Production) bool {
	return p.Lhs == o.Lhs && p.Rhs.Equal(o.Rhs)
}

// Grammar is an ordered sequence of Productions. Order is the order of
// declaration in the source, and is the order rule identifiers appear in the
// generated rule-identifier enumeration.
type Grammar struct {
	Rules []Production
}

func (g Grammar) String() string {
	var sb strings.Builder
	for _, rule := range g.Rules {
		sb.WriteString(rule.String())
		sb.WriteRune('\n')
	}
	return sb.String()
}

// Equal reports whether two grammars declare the same productions in the
// same order.
func (g Grammar) Equal(o Grammar) bool {
	if len(g.Rules) != len(o.Rules) {
		return false
	}
	for i := range g.Rules {
		if !g.Rules[i].Equal(o.Rules[i]) {
			return false
		}
	}
	return true
}
