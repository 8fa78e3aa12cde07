// Package ascii provides terminal ANSI color codes semantic names for
// colors so they can be grouped in themes.
package ascii

import "fmt"

const (
	Reset  = "\033[0m"
	Red    = "\033[1;31m"
	Yellow = "\033[1;33m"
	Green  = "\033[1;32m"
	Cyan   = "\033[1;36m"
	Gray   = "\033[90m" // Bright black, actually

	// 256-color palette
	Orange = "\033[38;5;208m"
	Purple = "\033[1;38;5;99m"
	Pink   = "\033[1;38;5;127m"
)

// Theme defines semantic color mappings
type Theme struct {
	// Diagnostics
	Error string
	Caret string
	Info  string

	// Results
	Value string
	Muted string // remaining input, timings, etc

	// Rule trees
	Rule    string
	Literal string
	Marker  string
}

// DefaultTheme provides a sensible default color mapping.
var DefaultTheme = Theme{
	Error: Red,
	Caret: Orange,
	Info:  Cyan,

	Value: Green,
	Muted: Gray,

	Rule:    Purple,
	Literal: Pink,
	Marker:  Yellow,
}

// PlainTheme leaves the text alone
var PlainTheme = Theme{}

// Color formats the arguments and wraps the result with color.  An
// empty color means no escape codes at all.
func Color(color, format string, args ...any) string {
	if color == "" {
		return fmt.Sprintf(format, args...)
	}
	return fmt.Sprintf(color+format+Reset, args...)
}
