package ebnf

import (
	"sort"
	"strings"

	"github.com/dekarrin/parsegen/internal/pgerr"
	"github.com/dekarrin/parsegen/internal/util"
)

// Validate checks the invariants required before a Grammar can be lowered by
// internal/codegen: every Lhs occurs at most once, and every identifier
// referenced on a right-hand side resolves to some production's Lhs.
func (g Grammar) Validate() error {
	defined := util.NewStringSet()
	var duplicates []Identifier

	for _, rule := range g.Rules {
		id := rule.Lhs.Identifier
		if defined.Has(id.Name) {
			duplicates = append(duplicates, id)
			continue
		}
		defined.Add(id.Name)
	}

	if len(duplicates) > 0 {
		sort.Slice(duplicates, func(i, j int) bool { return duplicates[i].Name < duplicates[j].Name })
		return pgerr.New(pgerr.KindDuplicateProduction,
			"production(s) declared more than once: %s", identifierList(duplicates))
	}

	referenced := util.NewStringSet()
	for _, rule := range g.Rules {
		collectIdentifiers(rule.Rhs, referenced)
	}

	unresolved := referenced.Difference(defined)
	if unresolved.Len() > 0 {
		names := unresolved.Elements()
		sort.Strings(names)
		ids := make([]Identifier, len(names))
		for i, name := range names {
			ids[i] = NewIdentifier(name)
		}
		return pgerr.New(pgerr.KindUnresolvedReference,
			"undefined rule(s) referenced: %s", identifierList(ids))
	}

	return nil
}

// identifierList renders ids as a backtick-quoted, oxford-comma-joined list
// for use inside a DuplicateProduction or UnresolvedReference message, e.g.
// "`a`, `b`, and `c`". Callers are expected to have already sorted ids.
func identifierList(ids []Identifier) string {
	if len(ids) == 0 {
		return ""
	}

	quoted := make([]string, len(ids))
	for i, id := range ids {
		quoted[i] = "`" + id.Name + "`"
	}

	switch len(quoted) {
	case 1:
		return quoted[0]
	case 2:
		return quoted[0] + " and " + quoted[1]
	default:
		quoted[len(quoted)-1] = "and " + quoted[len(quoted)-1]
		return strings.Join(quoted, ", ")
	}
}

func collectIdentifiers(r Rhs, into util.StringSet) {
	switch r.Kind {
	case RhsIdentifier:
		into.Add(r.Identifier.Name)
	case RhsTerminal:
		// nothing to collect
	case RhsOptional, RhsRepeat, RhsGroup:
		collectIdentifiers(*r.Left, into)
	default:
		collectIdentifiers(*r.Left, into)
		collectIdentifiers(*r.Right, into)
	}
}
