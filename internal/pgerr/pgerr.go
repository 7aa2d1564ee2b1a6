// Package pgerr defines the typed error taxonomy shared by the grammar
// front end, the code generator, and the parser runtime.
package pgerr

import "fmt"

// Kind classifies an Error so that callers can branch on the taxonomy
// without string matching.
type Kind int

const (
	// KindUnknown is the zero value. KindOf reports it for an error that is
	// not (and does not wrap) a *Error.
	KindUnknown Kind = iota

	// grammar-load errors
	KindMissingGrammarSource
	KindMultipleGrammarSources
	KindGrammarFileReadError
	KindGrammarParseError

	// grammar-validation errors
	KindDuplicateProduction
	KindUnresolvedReference
	KindUnsupportedConstruct

	// runtime errors
	KindInputPositionOutOfRange
	KindParseFailed
)

func (k Kind) String() string {
	switch k {
	case KindMissingGrammarSource:
		return "MissingGrammarSource"
	case KindMultipleGrammarSources:
		return "MultipleGrammarSources"
	case KindGrammarFileReadError:
		return "GrammarFileReadError"
	case KindGrammarParseError:
		return "GrammarParseError"
	case KindDuplicateProduction:
		return "DuplicateProduction"
	case KindUnresolvedReference:
		return "UnresolvedReference"
	case KindUnsupportedConstruct:
		return "UnsupportedConstruct"
	case KindInputPositionOutOfRange:
		return "InputPositionOutOfRange"
	case KindParseFailed:
		return "ParseFailed"
	default:
		return "Unknown"
	}
}

// Error is the single wrapped error type used across the module's taxonomy.
// It carries a Kind for programmatic dispatch plus a human-readable message,
// and optionally wraps a lower-level cause.
type Error struct {
	kind  Kind
	msg   string
	cause error
}

func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.kind, e.msg, e.cause)
	}
	return fmt.Sprintf("%s: %s", e.kind, e.msg)
}

// Unwrap gives the error that this Error wraps, if any, so that errors.Is and
// errors.As see through to the underlying cause.
func (e *Error) Unwrap() error {
	return e.cause
}

// Kind returns the taxonomy classification of the error.
func (e *Error) Kind() Kind {
	return e.kind
}

// Is allows errors.Is(err, pgerr.New(kind, "")) to match purely on Kind,
// ignoring message and cause.
func (e *Error) Is(target error) bool {
	other, ok := target.(*Error)
	if !ok {
		return false
	}
	return e.kind == other.kind
}

// New constructs an Error of the given kind with a formatted message.
func New(kind Kind, format string, a ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, a...)}
}

// Wrap constructs an Error of the given kind that wraps cause.
func Wrap(kind Kind, cause error, format string, a ...interface{}) *Error {
	return &Error{kind: kind, msg: fmt.Sprintf(format, a...), cause: cause}
}

// Sentinel returns a bare Error of the given kind, suitable for use as the
// target of errors.Is.
func Sentinel(kind Kind) *Error {
	return &Error{kind: kind}
}

// KindOf returns the Kind of err if it is (or wraps) a *Error, and
// KindUnknown otherwise.
func KindOf(err error) Kind {
	var e *Error
	if ok := asError(err, &e); ok {
		return e.kind
	}
	return KindUnknown
}

func asError(err error, target **Error) bool {
	for err != nil {
		if e, ok := err.(*Error); ok {
			*target = e
			return true
		}
		u, ok := err.(interface{ Unwrap() error })
		if !ok {
			return false
		}
		err = u.Unwrap()
	}
	return false
}

// Bug panics with a message marking the failure as an internal invariant
// violation rather than a recoverable error in the taxonomy. It is used where
// a condition is never expected at steady state: State.Tokenize calls it if
// the span it forms for a successful rule is invalid. Span construction and
// comparison report bad inputs as errors instead, and ReserveVec.Finalize
// silently drops unfilled markers.
func Bug(format string, a ...interface{}) {
	panic(fmt.Sprintf("parsegen: internal invariant violated: %s", fmt.Sprintf(format, a...)))
}
