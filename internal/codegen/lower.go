package codegen

import (
	"github.com/dekarrin/parsegen/internal/ebnf"
	"github.com/dekarrin/parsegen/internal/pgerr"
	"github.com/dekarrin/parsegen/internal/runtime"
)

// Dispatcher is an in-process, runnable parser built from a Grammar: a table
// of rule functions, keyed by Rule, that a caller drives through Parse. Each
// rule's function already wraps its lowered body in runtime.Tokenize, so a
// call through the table both recognizes the rule and records its token.
type Dispatcher struct {
	rules []Rule
	table map[Rule]runtime.Combinator[Rule]
}

// Build validates and lowers g into a Dispatcher. Validation failures
// (DuplicateProduction, UnresolvedReference) are reported before any rule
// function is built; an unsupported construct (Exception) is reported when
// lowering reaches its production. Either way no Dispatcher is returned.
func Build(g ebnf.Grammar) (*Dispatcher, error) {
	if err := g.Validate(); err != nil {
		return nil, err
	}

	d := &Dispatcher{table: make(map[Rule]runtime.Combinator[Rule], len(g.Rules))}

	// Every production's lowered body may reference any other rule by
	// name, including ones declared later or itself (cyclic rule
	// references are ordinary name resolutions, see §4.8). callRule
	// closes over d and looks the referenced rule's function up in
	// d.table at call time, so the order rules are inserted below doesn't
	// matter -- the table is fully populated before Parse can ever invoke
	// any of them.
	for _, prod := range g.Rules {
		rule := Rule(prod.Lhs.Identifier.Name)
		body, err := lower(prod.Rhs, d)
		if err != nil {
			return nil, err
		}
		d.rules = append(d.rules, rule)
		d.table[rule] = tokenizeRule(rule, body)
	}

	return d, nil
}

func tokenizeRule(rule Rule, body runtime.Combinator[Rule]) runtime.Combinator[Rule] {
	return func(s runtime.State[Rule]) (runtime.State[Rule], error) {
		return s.Tokenize(rule, body)
	}
}

// callRule builds a combinator that looks up name in d's table at call
// time and invokes it. This is the only place Identifier references are
// resolved, which is what lets cyclic and forward references work without
// any dependency ordering during Build.
func callRule(d *Dispatcher, name Rule) runtime.Combinator[Rule] {
	return func(s runtime.State[Rule]) (runtime.State[Rule], error) {
		fn, ok := d.table[name]
		if !ok {
			return s, pgerr.New(pgerr.KindParseFailed, "no such rule: %s", name)
		}
		return s.Apply(fn)
	}
}

// Rules returns every rule identifier known to the dispatcher, in
// declaration order.
func (d *Dispatcher) Rules() []Rule {
	return append([]Rule(nil), d.rules...)
}

// Parse runs the named rule from position 0 of input and returns the
// resulting token sequence in depth-first pre-order, or ParseFailed if the
// rule does not match the entire combinator chain it's built from.
func (d *Dispatcher) Parse(rule Rule, input string) ([]runtime.Token[Rule], error) {
	fn, ok := d.table[rule]
	if !ok {
		return nil, pgerr.New(pgerr.KindParseFailed, "no such rule: %s", rule)
	}

	state, err := runtime.NewState[Rule](input)
	if err != nil {
		return nil, err
	}

	final, err := fn(state)
	if err != nil {
		return nil, err
	}

	return final.Finalize(), nil
}

// lower maps a single Rhs to the runtime combinator composition described by
// the lowering table: Identifier calls the referenced rule through d,
// Terminal matches a literal, Optional/Repeat/Group wrap a sub-combinator,
// Alternation/Concatenation compose two, and Exception is rejected outright
// since the runtime has no lowering for it.
func lower(r ebnf.Rhs, d *Dispatcher) (runtime.Combinator[Rule], error) {
	switch r.Kind {
	case ebnf.RhsIdentifier:
		return callRule(d, Rule(r.Identifier.Name)), nil

	case ebnf.RhsTerminal:
		text := r.Terminal.Text
		return func(s runtime.State[Rule]) (runtime.State[Rule], error) {
			return s.MatchStr(text)
		}, nil

	case ebnf.RhsOptional:
		inner, err := lower(*r.Left, d)
		if err != nil {
			return nil, err
		}
		return func(s runtime.State[Rule]) (runtime.State[Rule], error) {
			return s.Optional(inner)
		}, nil

	case ebnf.RhsRepeat:
		inner, err := lower(*r.Left, d)
		if err != nil {
			return nil, err
		}
		return func(s runtime.State[Rule]) (runtime.State[Rule], error) {
			return s.Repeat(inner)
		}, nil

	case ebnf.RhsGroup:
		inner, err := lower(*r.Left, d)
		if err != nil {
			return nil, err
		}
		return func(s runtime.State[Rule]) (runtime.State[Rule], error) {
			return s.Apply(inner)
		}, nil

	case ebnf.RhsAlternation:
		left, err := lower(*r.Left, d)
		if err != nil {
			return nil, err
		}
		right, err := lower(*r.Right, d)
		if err != nil {
			return nil, err
		}
		return func(s runtime.State[Rule]) (runtime.State[Rule], error) {
			return runtime.Or(s, left, right)
		}, nil

	case ebnf.RhsConcatenation:
		left, err := lower(*r.Left, d)
		if err != nil {
			return nil, err
		}
		right, err := lower(*r.Right, d)
		if err != nil {
			return nil, err
		}
		return func(s runtime.State[Rule]) (runtime.State[Rule], error) {
			return runtime.Then(s, left, right)
		}, nil

	case ebnf.RhsException:
		return nil, pgerr.New(pgerr.KindUnsupportedConstruct,
			"exception operator has no lowering: %s", r.String())

	default:
		return nil, pgerr.New(pgerr.KindUnsupportedConstruct,
			"unrecognized rhs kind: %v", r.Kind)
	}
}
