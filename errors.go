package parsing

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrNoMoreInput is the kind of failure produced when a primitive
	// needs one more rune but the input was exhausted
	ErrNoMoreInput = errors.New("No more input")

	// ErrUnexpected is the kind of failure produced when the rune
	// under the cursor doesn't satisfy the predicate of a primitive
	ErrUnexpected = errors.New("Unexpected input")

	// ErrOverflow is returned by the number parsers when the digits
	// don't fit the target type
	ErrOverflow = errors.New("Integer overflow")

	// ErrInvalidNumber is returned by the number parsers when the
	// matched text can't be converted
	ErrInvalidNumber = errors.New("Invalid number")
)

// ParserPosition is the part of an InputState kept around by errors:
// just enough to print the offending line with a caret under the
// failing column.
type ParserPosition struct {
	CurrentLine string
	Line        int
	Column      int
}

func newParserPosition(s InputState) ParserPosition {
	return ParserPosition{
		CurrentLine: s.CurrentLine(),
		Line:        s.position.Line,
		Column:      s.position.Column,
	}
}

// ParseError is the only error produced by parsers.  Label names the
// parser that failed, Message describes what went wrong, and Kind is
// one of the sentinel errors of this package, so callers can use
// errors.Is on it.
type ParseError struct {
	Label    string
	Message  string
	Position ParserPosition
	Kind     error
}

// Error renders the failure with the offending line and a caret right
// under the column that failed:
//
//	Line:0 Col:1 Error parsing B
//	A|C
//	 ^Unexpected '|'
func (e *ParseError) Error() string {
	caret := strings.Repeat(" ", e.Position.Column) + "^" + e.Message
	return fmt.Sprintf(
		"Line:%d Col:%d Error parsing %s\n%s\n%s",
		e.Position.Line,
		e.Position.Column,
		e.Label,
		e.Position.CurrentLine,
		caret,
	)
}

func (e *ParseError) Unwrap() error { return e.Kind }

// withLabel returns a copy of the error carrying a different label.
// Message and position are never touched.
func (e *ParseError) withLabel(label string) *ParseError {
	c := *e
	c.Label = label
	return &c
}

func noMoreInput(label string, s InputState) *ParseError {
	return &ParseError{
		Label:    label,
		Message:  ErrNoMoreInput.Error(),
		Position: newParserPosition(s),
		Kind:     ErrNoMoreInput,
	}
}

func unexpected(label string, r rune, s InputState) *ParseError {
	return &ParseError{
		Label:    label,
		Message:  fmt.Sprintf("Unexpected %q", r),
		Position: newParserPosition(s),
		Kind:     ErrUnexpected,
	}
}

// FormatResult returns the string representation of the outcome of a
// parser: the produced value on success (strings are quoted) or the
// rendered error on failure.
func FormatResult[T any](_ InputState, value T, err error) string {
	if err != nil {
		return err.Error()
	}
	switch v := any(value).(type) {
	case string:
		return fmt.Sprintf("%q", v)
	case rune:
		return fmt.Sprintf("%q", v)
	}
	return fmt.Sprintf("%v", value)
}
