package codegen

import (
	"bytes"
	"fmt"
	"strconv"
	"strings"
	"text/template"

	"github.com/dekarrin/parsegen/internal/ebnf"
	"github.com/dekarrin/parsegen/internal/pgerr"
)

// TemplateData is the preprocessed, template-ready view of a grammar: one
// entry per production, each carrying the Go source expression its body
// lowers to.
type TemplateData struct {
	PackageName string
	Rules       []templateRule
}

type templateRule struct {
	Name string // production's Lhs name, used as the Rule value
	Body string // Go source for a func literal of type runtime.Combinator[Rule]
}

// TemplateRegistry holds the named Go-source components EmitSource
// composes. Keeping each concern (header, rule table, dispatch function) as
// its own named template, rather than one monolithic string, is what lets
// GetTemplate hand back any single piece for inspection or reuse.
type TemplateRegistry struct {
	templates map[string]string
}

// NewTemplateRegistry builds a registry with every component template
// registered.
func NewTemplateRegistry() *TemplateRegistry {
	r := &TemplateRegistry{templates: make(map[string]string)}
	r.registerComponents()
	return r
}

func (r *TemplateRegistry) registerComponents() {
	r.templates["header"] = headerTemplate
	r.templates["rule-table"] = ruleTableTemplate
	r.templates["dispatch"] = dispatchTemplate
}

// GetTemplate returns a single named component, if registered.
func (r *TemplateRegistry) GetTemplate(name string) (string, bool) {
	t, ok := r.templates[name]
	return t, ok
}

// GetAllTemplates concatenates every component plus the master template that
// ties them together under the "main" name EmitSource executes.
func (r *TemplateRegistry) GetAllTemplates() string {
	var parts []string
	for _, t := range r.templates {
		parts = append(parts, t)
	}
	parts = append(parts, masterTemplate)
	return strings.Join(parts, "\n")
}

const headerTemplate = `{{define "header"}}// Code generated by parsegen. DO NOT EDIT.

package {{.PackageName}}

import "github.com/dekarrin/parsegen/internal/runtime"

// Rule is the generated RuleID implementation: one value per production in
// the source grammar.
type Rule string

func (r Rule) String() string { return string(r) }
{{end}}`

const ruleTableTemplate = `{{define "rule-table"}}// The table is populated in init rather than in the composite literal: the
// rule functions resolve cross-references through callRule, which reads the
// table, and a package-level literal referencing them back would be an
// initialization cycle.
var ruleTable = make(map[Rule]runtime.Combinator[Rule], {{len .Rules}})

func init() {
{{- range .Rules}}
	ruleTable[{{printf "%q" .Name}}] = ruleFunc_{{.Name}}
{{- end}}
}

func callRule(name Rule) runtime.Combinator[Rule] {
	return func(s runtime.State[Rule]) (runtime.State[Rule], error) {
		fn, ok := ruleTable[name]
		if !ok {
			return s, runtimeNoSuchRule(name)
		}
		return s.Apply(fn)
	}
}

{{range .Rules}}
func ruleFunc_{{.Name}}(s runtime.State[Rule]) (runtime.State[Rule], error) {
	return s.Tokenize(Rule({{printf "%q" .Name}}), {{.Body}})
}
{{end}}{{end}}`

const dispatchTemplate = `{{define "dispatch"}}// Parse runs the named rule from position 0 of input and returns the
// resulting token sequence in depth-first pre-order.
func Parse(rule Rule, input string) ([]runtime.Token[Rule], error) {
	fn, ok := ruleTable[rule]
	if !ok {
		return nil, runtimeNoSuchRule(rule)
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

func runtimeNoSuchRule(name Rule) error {
	return &noSuchRuleError{name: name}
}

type noSuchRuleError struct{ name Rule }

func (e *noSuchRuleError) Error() string { return "no such rule: " + string(e.name) }
{{end}}`

const masterTemplate = `{{define "main"}}{{template "header" .}}
{{template "rule-table" .}}
{{template "dispatch" .}}{{end}}`

// EmitSource generates Go source text for a standalone file implementing the
// same dispatcher Build constructs in-process, for callers that prefer a
// committed, go generate-produced file. The emitted package imports this
// module's internal/runtime package, so the output is only consumable from
// within this module's own tree -- see DESIGN.md for why that scope is
// accepted rather than widened.
func EmitSource(g ebnf.Grammar, pkg string) (string, error) {
	if err := g.Validate(); err != nil {
		return "", err
	}
	if strings.TrimSpace(pkg) == "" {
		return "", pgerr.New(pgerr.KindGrammarParseError, "package name must not be empty")
	}

	data := TemplateData{PackageName: pkg}
	for _, prod := range g.Rules {
		body, err := renderExpr(prod.Rhs)
		if err != nil {
			return "", err
		}
		data.Rules = append(data.Rules, templateRule{
			Name: prod.Lhs.Identifier.Name,
			Body: body,
		})
	}

	registry := NewTemplateRegistry()
	tmpl, err := template.New("parsegen-dispatcher").Parse(registry.GetAllTemplates())
	if err != nil {
		return "", fmt.Errorf("parsing generator templates: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, "main", data); err != nil {
		return "", fmt.Errorf("executing generator templates: %w", err)
	}

	out := buf.String()
	if strings.TrimSpace(out) == "" {
		return "", pgerr.New(pgerr.KindGrammarParseError, "generated empty Go source")
	}
	return out, nil
}

// renderExpr renders r as a Go source expression of type
// runtime.Combinator[Rule], following the same lowering table as Build.
func renderExpr(r ebnf.Rhs) (string, error) {
	switch r.Kind {
	case ebnf.RhsIdentifier:
		return fmt.Sprintf("callRule(%s)", strconv.Quote(r.Identifier.Name)), nil

	case ebnf.RhsTerminal:
		return fmt.Sprintf(
			"func(s runtime.State[Rule]) (runtime.State[Rule], error) { return s.MatchStr(%s) }",
			strconv.Quote(r.Terminal.Text),
		), nil

	case ebnf.RhsOptional:
		inner, err := renderExpr(*r.Left)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"func(s runtime.State[Rule]) (runtime.State[Rule], error) { return s.Optional(%s) }",
			inner,
		), nil

	case ebnf.RhsRepeat:
		inner, err := renderExpr(*r.Left)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"func(s runtime.State[Rule]) (runtime.State[Rule], error) { return s.Repeat(%s) }",
			inner,
		), nil

	case ebnf.RhsGroup:
		inner, err := renderExpr(*r.Left)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"func(s runtime.State[Rule]) (runtime.State[Rule], error) { return s.Apply(%s) }",
			inner,
		), nil

	case ebnf.RhsAlternation:
		left, err := renderExpr(*r.Left)
		if err != nil {
			return "", err
		}
		right, err := renderExpr(*r.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"func(s runtime.State[Rule]) (runtime.State[Rule], error) { return runtime.Or(s, %s, %s) }",
			left, right,
		), nil

	case ebnf.RhsConcatenation:
		left, err := renderExpr(*r.Left)
		if err != nil {
			return "", err
		}
		right, err := renderExpr(*r.Right)
		if err != nil {
			return "", err
		}
		return fmt.Sprintf(
			"func(s runtime.State[Rule]) (runtime.State[Rule], error) { return runtime.Then(s, %s, %s) }",
			left, right,
		), nil

	case ebnf.RhsException:
		return "", pgerr.New(pgerr.KindUnsupportedConstruct,
			"exception operator has no lowering: %s", r.String())

	default:
		return "", pgerr.New(pgerr.KindUnsupportedConstruct,
			"unrecognized rhs kind: %v", r.Kind)
	}
}
