package runtime

import "github.com/dekarrin/parsegen/internal/pgerr"

// RelativeLocation describes the location of a span relative to another
// span on the same input.
type RelativeLocation int

const (
	// Before means this span ends at or before the other span starts.
	Before RelativeLocation = iota

	// After means this span starts at or after the other span ends.
	After

	// Within means this span is completely contained within the other
	// span's region, or the two spans cover the same region.
	Within

	// Encompasses means this span completely contains the other span.
	Encompasses
)

func (r RelativeLocation) String() string {
	switch r {
	case Before:
		return "Before"
	case After:
		return "After"
	case Within:
		return "Within"
	case Encompasses:
		return "Encompasses"
	default:
		return "RelativeLocation(?)"
	}
}

// Span is an immutable half-open [start, end) region over an input string.
type Span struct {
	Input string
	Start int
	End   int
}

// NewSpanFromPositions builds a Span covering [start.Idx, end.Idx) of the
// shared input. It fails if the two positions are over different input
// strings, or if start is after end.
func NewSpanFromPositions(start, end Position) (Span, error) {
	if start.Input != end.Input {
		return Span{}, pgerr.New(pgerr.KindInputPositionOutOfRange,
			"positions on different strings: %q, %q", start.Input, end.Input)
	}
	if start.Idx > end.Idx {
		return Span{}, pgerr.New(pgerr.KindInputPositionOutOfRange,
			"start idx after end idx, start: %d, end: %d", start.Idx, end.Idx)
	}
	return Span{Input: start.Input, Start: start.Idx, End: end.Idx}, nil
}

// Text returns the substring of the input covered by the span.
func (s Span) Text() string {
	return s.Input[s.Start:s.End]
}

// Equal reports whether two spans cover equal text. Note this compares the
// substrings, not the positions -- two spans over different inputs that
// happen to contain the same text are equal.
func (s Span) Equal(o Span) bool {
	return s.Text() == o.Text()
}

// Contains reports whether s fully contains other. Both spans must be over
// the same input.
func (s Span) Contains(other Span) (bool, error) {
	if s.Input != other.Input {
		return false, pgerr.New(pgerr.KindInputPositionOutOfRange,
			"span inputs differ, self: %q, other: %q", s.Input, other.Input)
	}
	return s.Start <= other.Start && s.End >= other.End, nil
}

// RelativeLocation classifies this span's location relative to other.
// Spans must be over the same input and must not partially overlap; a
// partial overlap is reported as an error.
func (s Span) RelativeLocation(other Span) (RelativeLocation, error) {
	if s.Input != other.Input {
		return 0, pgerr.New(pgerr.KindInputPositionOutOfRange,
			"span string references differ, self: %q, other: %q", s.Input, other.Input)
	}

	switch {
	case s.Start <= other.Start && s.End <= other.Start:
		return Before, nil
	case s.Start >= other.End:
		return After, nil
	case s.Start >= other.Start && s.End <= other.End:
		return Within, nil
	case s.Start <= other.Start && s.End >= other.End:
		return Encompasses, nil
	default:
		return 0, pgerr.New(pgerr.KindInputPositionOutOfRange,
			"invalid spans, self: %+v, other: %+v", s, other)
	}
}
