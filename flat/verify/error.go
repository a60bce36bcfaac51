package verify

import "golang.org/x/xerrors"

// Kind is the Verifier's error taxonomy. Every failure the Verifier can
// report fits in exactly one of these three buckets.
type Kind int

const (
	// OutOfBounds covers any access, or arithmetic step leading to an
	// access, that falls outside [0, len(buf)) — including overflow
	// during a checked offset follow.
	OutOfBounds Kind = iota + 1
	// NonNullTerminatedString means a string's declared length put its
	// terminator byte somewhere other than a 0x00.
	NonNullTerminatedString
	// UnmatchedUnion means a union's discriminant was zero while its
	// payload offset was present, out of range for the schema's known
	// variants, or the variant it names failed verification itself.
	UnmatchedUnion
)

func (k Kind) String() string {
	switch k {
	case OutOfBounds:
		return "out of bounds"
	case NonNullTerminatedString:
		return "non-null-terminated string"
	case UnmatchedUnion:
		return "unmatched union"
	default:
		return "unknown verify error"
	}
}

// Error is the Verifier's failable return type. Pos is the byte position
// the failing check was anchored at, for diagnostics; it is not part of
// the error's identity for Is/As purposes.
type Error struct {
	Kind Kind
	Pos  int
	msg  string
	from error
}

func (e *Error) Error() string {
	if e.msg != "" {
		return e.msg
	}
	return e.Kind.String()
}

func (e *Error) Unwrap() error { return e.from }

func newError(kind Kind, pos int, format string, args ...interface{}) *Error {
	return &Error{Kind: kind, Pos: pos, msg: xerrors.Errorf(format, args...).Error()}
}

func outOfBounds(pos int, format string, args ...interface{}) *Error {
	return newError(OutOfBounds, pos, format, args...)
}

func nonNullTerminated(pos int) *Error {
	return newError(NonNullTerminatedString, pos, "string at %d is missing its null terminator", pos)
}

func unmatchedUnion(pos int, format string, args ...interface{}) *Error {
	return newError(UnmatchedUnion, pos, format, args...)
}
