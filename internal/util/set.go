// Package util holds small data-structure helpers used by the grammar
// package.
package util

import (
	"fmt"
	"sort"
	"strings"
)

// StringSet is a map[string]bool with set-style methods added, used by
// grammar validation to track defined left-hand sides and referenced
// identifiers.
type StringSet map[string]bool

// NewStringSet creates a StringSet, optionally seeded from the given maps.
func NewStringSet(of ...map[string]bool) StringSet {
	s := StringSet{}
	for _, m := range of {
		for k := range m {
			s.Add(k)
		}
	}
	return s
}

// StringSetOf creates a StringSet containing every element of sl.
func StringSetOf(sl []string) StringSet {
	if sl == nil {
		return nil
	}

	s := StringSet{}
	for i := range sl {
		s.Add(sl[i])
	}
	return s
}

// Add adds value to the set. Has no effect if it's already there.
func (s StringSet) Add(value string) {
	s[value] = true
}

// Remove removes value from the set. Has no effect if it isn't there.
func (s StringSet) Remove(value string) {
	delete(s, value)
}

// Has returns whether value is in the set.
func (s StringSet) Has(value string) bool {
	_, has := s[value]
	return has
}

// Len returns the number of elements in the set.
func (s StringSet) Len() int {
	return len(s)
}

// Difference returns a new StringSet containing elements of s not in o.
func (s StringSet) Difference(o StringSet) StringSet {
	newSet := NewStringSet()
	for k := range s {
		if !o.Has(k) {
			newSet.Add(k)
		}
	}
	return newSet
}

// Elements returns the elements of s as a slice. No particular order is
// guaranteed.
func (s StringSet) Elements() []string {
	if s == nil {
		return nil
	}

	sl := make([]string, 0, len(s))
	for item := range s {
		sl = append(sl, item)
	}
	return sl
}

// StringOrdered shows the contents of the set, alphabetized.
func (s StringSet) StringOrdered() string {
	convs := make([]string, 0, len(s))
	for k := range s {
		convs = append(convs, fmt.Sprintf("%v", k))
	}
	sort.Strings(convs)

	var sb strings.Builder
	sb.WriteRune('{')
	for i := range convs {
		sb.WriteString(convs[i])
		if i+1 < len(convs) {
			sb.WriteString(", ")
		}
	}
	sb.WriteRune('}')
	return sb.String()
}

// String shows the contents of the set, alphabetized (see StringOrdered).
func (s StringSet) String() string {
	return s.StringOrdered()
}
