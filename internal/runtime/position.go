// Package runtime implements the recursive-descent parser engine: cursor
// tracking, span arithmetic, the depth-first token buffer, and the State
// combinators that a generated parser is built from.
package runtime

import "github.com/dekarrin/parsegen/internal/pgerr"

// Position is a cursor over an input string. It advances only on a
// successful match and never observes the input out of bounds.
type Position struct {
	Input string
	Idx   int
}

// NewPosition creates a cursor over input starting at start. It fails if
// start is beyond the end of input.
func NewPosition(input string, start int) (Position, error) {
	if start < 0 || start > len(input) {
		return Position{}, pgerr.New(pgerr.KindInputPositionOutOfRange,
			"start beyond end of input, start: %d, len: %d", start, len(input))
	}
	return Position{Input: input, Idx: start}, nil
}

// MatchStr checks whether s matches the input starting at the current
// index. On a match the index is advanced by len(s) and true is returned;
// on a mismatch the index is left unchanged and false is returned. The
// comparison is exact bytes, with no normalization.
func (p *Position) MatchStr(s string) bool {
	end := p.Idx + len(s)
	if end > len(p.Input) {
		return false
	}
	if p.Input[p.Idx:end] != s {
		return false
	}
	p.Idx = end
	return true
}
