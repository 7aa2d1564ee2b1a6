package runtime

import "github.com/dekarrin/parsegen/internal/pgerr"

// Combinator is the shape every State-threading operation has: it takes a
// State by value and returns the state after the operation along with an
// error that is nil on success.
type Combinator[R RuleID] func(State[R]) (State[R], error)

// State drives a single parse. It owns the cursor and the reserve-vector of
// tokens produced so far. Every combinator method takes a State by value and
// returns a new one -- Go has no move semantics, so single ownership is
// enforced by convention (never reuse a State you have already threaded
// onward) rather than by the compiler.
type State[R RuleID] struct {
	tokens ReserveVec[Token[R]]
	cursor Position
}

// NewState creates a fresh State over input, with the cursor at 0 and an
// empty token buffer.
func NewState[R RuleID](input string) (State[R], error) {
	cursor, err := NewPosition(input, 0)
	if err != nil {
		return State[R]{}, err
	}
	return State[R]{tokens: NewReserveVec[Token[R]](), cursor: cursor}, nil
}

// MatchStr attempts to match s at the current cursor position. The state is
// advanced only if the match succeeds.
func (s State[R]) MatchStr(str string) (State[R], error) {
	if s.cursor.MatchStr(str) {
		return s, nil
	}
	return s, pgerr.Sentinel(pgerr.KindParseFailed)
}

// Apply runs f against the state, returning its result verbatim. It exists
// as plumbing so that a named rule call and a parenthesized Group both read
// the same way at the call site.
func (s State[R]) Apply(f Combinator[R]) (State[R], error) {
	return f(s)
}

// Optional runs f and always succeeds, regardless of whether f itself
// succeeded. If f failed after making partial progress on the cursor, that
// partial progress is kept -- the contract is "non-failing", not
// "transactional".
func (s State[R]) Optional(f Combinator[R]) (State[R], error) {
	next, err := f(s)
	if err != nil {
		return next, nil
	}
	return next, nil
}

// Repeat applies f repeatedly until it first fails, returning the state at
// the last success (or the initial state, if f failed immediately) with a
// nil error. An iteration that succeeds without advancing the cursor is
// treated as the loop's termination condition rather than looped on forever,
// guaranteeing termination for any f that cannot make unbounded progress.
func (s State[R]) Repeat(f Combinator[R]) (State[R], error) {
	current := s
	for {
		before := current.cursor.Idx
		next, err := f(current)
		if err != nil {
			return current, nil
		}
		if next.cursor.Idx == before {
			return next, nil
		}
		current = next
	}
}

// Tokenize runs body and, on success, wraps the span it consumed in a token
// for rule and records it in depth-first pre-order: the token's slot is
// reserved before body runs, so that any tokens body produces for child
// rules are recorded after it, and the parent token is written into its
// reserved slot only once the whole rule has succeeded.
//
// On failure, Tokenize unwinds: the reservation and everything body appended
// after it are discarded, and the cursor is reset to its pre-call position,
// so a failed branch of an alternation leaves no trace in either the token
// buffer or the cursor.
func (s State[R]) Tokenize(rule R, body Combinator[R]) (State[R], error) {
	start := s.cursor
	preLen := s.tokens.Len()
	pos := s.tokens.ReserveNext()

	next, err := body(s)
	if err != nil {
		next.tokens.Truncate(preLen)
		next.cursor = start
		return next, err
	}

	span, spanErr := NewSpanFromPositions(start, next.cursor)
	if spanErr != nil {
		pgerr.Bug("tokenize produced an invalid span for rule %v: %v", rule, spanErr)
	}
	next.tokens.InsertAtReserved(pos, NewToken(rule, span))
	return next, nil
}

// Or runs g; if it fails, it runs h against the state g returned (the
// lowering of EBNF Alternation).
func Or[R RuleID](s State[R], g, h Combinator[R]) (State[R], error) {
	next, err := g(s)
	if err == nil {
		return next, nil
	}
	return h(next)
}

// Then runs g and, if it succeeds, runs h against the resulting state (the
// lowering of EBNF Concatenation). If g fails, its failure propagates and h
// is never run.
func Then[R RuleID](s State[R], g, h Combinator[R]) (State[R], error) {
	next, err := g(s)
	if err != nil {
		return next, err
	}
	return h(next)
}

// Finalize consumes the state and returns its tokens in depth-first
// pre-order: parent before all descendants, siblings left to right.
func (s State[R]) Finalize() []Token[R] {
	return s.tokens.Finalize()
}
