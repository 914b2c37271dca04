package syntax

import "strconv"

// ErrorCode names a category of pattern parse failure.
type ErrorCode string

const (
	// ErrMissingRepeatArgument reports a quantifier with no preceding atom.
	ErrMissingRepeatArgument ErrorCode = "missing argument to repetition operator"
	// ErrMissingParen reports an opening parenthesis that is never closed.
	ErrMissingParen ErrorCode = "missing closing )"
	// ErrUnexpectedParen reports a closing parenthesis with no open group.
	ErrUnexpectedParen ErrorCode = "unexpected )"
	// ErrMissingBracket reports a character class that is never closed.
	ErrMissingBracket ErrorCode = "missing closing ]"
	// ErrTrailingBackslash reports an escape cut off by the pattern end.
	ErrTrailingBackslash ErrorCode = "trailing backslash at end of pattern"
	// ErrInvalidClassRange reports a lo-hi range with lo greater than hi.
	ErrInvalidClassRange ErrorCode = "invalid character class range"
	// ErrNestingDepth reports groups nested beyond the parser limit.
	ErrNestingDepth ErrorCode = "expression nests too deeply"
)

func (c ErrorCode) String() string {
	return string(c)
}

// Error is the error returned by Parse for a malformed pattern.
type Error struct {
	Code    ErrorCode
	Pattern string
	Pos     int // byte offset at which the parser gave up
}

func (e *Error) Error() string {
	return "error parsing pattern: " + string(e.Code) +
		" at offset " + strconv.Itoa(e.Pos) + ": `" + e.Pattern + "`"
}
