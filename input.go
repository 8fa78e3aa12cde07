package parsing

import (
	"fmt"
	"strings"
)

// endOfFile is reported by CurrentLine when the state is past the
// last line.  It only shows up in error messages.
const endOfFile = "end of file"

// Position is a zero based line/column pair.  Columns count runes
// within the current line.
type Position struct {
	Line   int
	Column int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Compare orders positions lexicographically, first by line and then
// by column.  It returns -1, 0 or 1.
func (p Position) Compare(other Position) int {
	switch {
	case p.Line < other.Line:
		return -1
	case p.Line > other.Line:
		return 1
	case p.Column < other.Column:
		return -1
	case p.Column > other.Column:
		return 1
	}
	return 0
}

func (p Position) nextColumn() Position {
	return Position{Line: p.Line, Column: p.Column + 1}
}

func (p Position) nextLine() Position {
	return Position{Line: p.Line + 1}
}

// InputState is an immutable view of the input text decomposed in
// lines plus the position the parser is currently at.  Advancing
// returns a new value and leaves the receiver untouched, so earlier
// states can be handed to alternatives after a failure.
type InputState struct {
	lines    []string
	runes    [][]rune
	position Position
}

// NewInputState splits text in lines and places the state at the
// beginning of the first one.  Line endings (`\n` or `\r\n`) are
// stripped and a trailing line ending doesn't produce an extra empty
// line.  The empty string has no lines at all.
func NewInputState(text string) InputState {
	if text == "" {
		return InputState{}
	}
	lines := strings.Split(text, "\n")
	if lines[len(lines)-1] == "" {
		lines = lines[:len(lines)-1]
	}
	runes := make([][]rune, len(lines))
	for i, line := range lines {
		line = strings.TrimSuffix(line, "\r")
		lines[i] = line
		runes[i] = []rune(line)
	}
	return InputState{lines: lines, runes: runes}
}

// Position returns where the state currently points to
func (s InputState) Position() Position { return s.position }

// CurrentLine returns the text of the line under the cursor or "end of
// file" when all the lines were consumed.
func (s InputState) CurrentLine() string {
	if s.position.Line < len(s.lines) {
		return s.lines[s.position.Line]
	}
	return endOfFile
}

// Next returns the rune under the cursor and the state right after
// it.  The end of every line yields a single '\n' and moves to the
// first column of the next line.  Once the lines are exhausted the
// same state is returned with ok set to false.
func (s InputState) Next() (next InputState, r rune, ok bool) {
	if s.position.Line >= len(s.lines) {
		return s, 0, false
	}
	line := s.runes[s.position.Line]
	next = s
	if s.position.Column < len(line) {
		next.position = s.position.nextColumn()
		return next, line[s.position.Column], true
	}
	next.position = s.position.nextLine()
	return next, '\n', true
}

// AtEnd reports whether Next has nothing else to return
func (s InputState) AtEnd() bool {
	return s.position.Line >= len(s.lines)
}

// Remaining returns the source text that wasn't consumed yet.  The
// newline emitted after the last line isn't part of the source, so a
// state sitting at the end of the last line has nothing remaining even
// though Next would still return '\n'.
func (s InputState) Remaining() string {
	if s.AtEnd() {
		return ""
	}
	var b strings.Builder
	b.WriteString(string(s.runes[s.position.Line][s.position.Column:]))
	for _, line := range s.lines[s.position.Line+1:] {
		b.WriteByte('\n')
		b.WriteString(line)
	}
	return b.String()
}

func (s InputState) String() string {
	return fmt.Sprintf("InputState(%s)", s.position)
}
