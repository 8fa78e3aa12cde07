// Package parsing is a small parser combinator library.
//
// A Parser is a value describing how to match some text and what to
// produce out of it.  Parsers are built from a handful of primitives
// (Satisfy, PChar) and combined into bigger ones:
//
//	integer := PInt(10)
//	comma := PChar(',')
//	list := Between(PChar('['), SepBy(integer, comma), PChar(']'))
//
//	rest, numbers, err := list.Parse("[1,2,3]")
//
// The input is held by an InputState, an immutable view of the text
// split in lines that knows the line and column it points to.  Parsers
// never modify the state they receive, they return a new one instead.
// That's what allows OrElse and Choice to try the next alternative
// from the exact same place the previous one started from.
//
// Failures are values of type *ParseError.  They carry the label of the
// parser that failed, a message, and the line and column where it
// happened, and render themselves with a caret under the failing
// column:
//
//	Line:0 Col:1 Error parsing B
//	A|C
//	 ^Unexpected '|'
//
// Recursive grammars are written with Lazy, which defers resolving a
// parser until it's first used.
package parsing
