package parsing

import (
	"fmt"
	"sync"
)

// parseFn is the computation shared by all the copies of a Parser.
// On failure the returned state is the one the function received.
type parseFn[T any] func(InputState) (InputState, T, *ParseError)

// Parser is a reusable value that turns an InputState into either the
// state after the match plus the produced value, or a ParseError.
// Parsers hold no mutable state, so the same value can be invoked any
// number of times, from recursive grammars or repetitions.
//
// Combinators that change the type produced by a parser (Map, Bind,
// AndThen, ...) are top-level functions because methods can't take
// their own type parameters.  The ones that keep the type are also
// exposed as methods.
type Parser[T any] struct {
	parse parseFn[T]

	// Label is the human readable description of the parser used in
	// error messages
	Label string
}

// NewParser creates a parser out of a function.  fn must not mutate
// anything, and on failure it should return the state it received.
func NewParser[T any](label string, fn func(InputState) (InputState, T, *ParseError)) Parser[T] {
	return Parser[T]{Label: label, parse: fn}
}

// Parse runs the parser against the whole input text
func (p Parser[T]) Parse(input string) (InputState, T, error) {
	return p.Run(NewInputState(input))
}

// Run runs the parser from the given state.  The error, when not nil,
// is always a *ParseError.
func (p Parser[T]) Run(state InputState) (InputState, T, error) {
	next, value, err := p.parse(state)
	if err != nil {
		return state, value, err
	}
	return next, value, nil
}

func (p Parser[T]) String() string {
	return fmt.Sprintf("Parser %s", p.Label)
}

// WithLabel returns an equivalent parser whose failures carry label
// instead of the original one.  The receiver is not modified.
func (p Parser[T]) WithLabel(label string) Parser[T] {
	return WithLabel(p, label)
}

// OrElse is the method form of OrElse
func (p Parser[T]) OrElse(other Parser[T]) Parser[T] {
	return OrElse(p, other)
}

// Of lifts a value into a parser that always succeeds without
// consuming any input.  It's the identity element of sequencing.
func Of[T any](value T) Parser[T] {
	return Parser[T]{
		Label: "unknown",
		parse: func(s InputState) (InputState, T, *ParseError) {
			return s, value, nil
		},
	}
}

// Map applies f to the value produced by p.  The label is inherited
// from p.
func Map[T, U any](p Parser[T], f func(T) U) Parser[U] {
	return Parser[U]{
		Label: p.Label,
		parse: func(s InputState) (InputState, U, *ParseError) {
			next, value, err := p.parse(s)
			if err != nil {
				var zero U
				return s, zero, err
			}
			return next, f(value), nil
		},
	}
}

// TryMap is like Map but f is allowed to reject the value.  The
// rejection is reported at the position where p started, with p's
// label and f's error as both message and kind.
func TryMap[T, U any](p Parser[T], f func(T) (U, error)) Parser[U] {
	return Parser[U]{
		Label: p.Label,
		parse: func(s InputState) (InputState, U, *ParseError) {
			var zero U
			next, value, err := p.parse(s)
			if err != nil {
				return s, zero, err
			}
			mapped, ferr := f(value)
			if ferr != nil {
				return s, zero, &ParseError{
					Label:    p.Label,
					Message:  ferr.Error(),
					Position: newParserPosition(s),
					Kind:     ferr,
				}
			}
			return next, mapped, nil
		},
	}
}

// Bind runs p and feeds its value to f to obtain the parser that runs
// next, on the remaining input.  It's what allows a parser to depend
// on a value parsed earlier.
func Bind[T, U any](p Parser[T], f func(T) Parser[U]) Parser[U] {
	return Parser[U]{
		Label: p.Label,
		parse: func(s InputState) (InputState, U, *ParseError) {
			next, value, err := p.parse(s)
			if err != nil {
				var zero U
				return s, zero, err
			}
			following, result, err := f(value).parse(next)
			if err != nil {
				return s, result, err
			}
			return following, result, nil
		},
	}
}

// Apply runs pf and then pa, and calls the function produced by the
// first with the value produced by the second.
func Apply[A, B any](pf Parser[func(A) B], pa Parser[A]) Parser[B] {
	return Map(AndThen(pf, pa), func(v Pair[func(A) B, A]) B {
		return v.First(v.Second)
	})
}

// WithLabel returns a parser that behaves like p but whose failures are
// rewritten to carry label.  Message and position are preserved.
func WithLabel[T any](p Parser[T], label string) Parser[T] {
	return Parser[T]{
		Label: label,
		parse: func(s InputState) (InputState, T, *ParseError) {
			next, value, err := p.parse(s)
			if err != nil {
				return s, value, err.withLabel(label)
			}
			return next, value, nil
		},
	}
}

// Lazy defers the construction of a parser until it's first run.
// That's the indirection needed by grammars that refer to themselves:
// the thunk can capture a variable that's only assigned after the
// grammar is fully built.  The thunk is called once.
func Lazy[T any](label string, thunk func() Parser[T]) Parser[T] {
	var (
		once     sync.Once
		resolved Parser[T]
	)
	return Parser[T]{
		Label: label,
		parse: func(s InputState) (InputState, T, *ParseError) {
			once.Do(func() { resolved = thunk() })
			return resolved.parse(s)
		},
	}
}

// Satisfy matches the rune under the cursor if predicate accepts it.
// Both failure modes, running out of input and finding the wrong rune,
// are reported at the position before the rune.
func Satisfy(predicate func(rune) bool, label string) Parser[rune] {
	return Parser[rune]{
		Label: label,
		parse: func(s InputState) (InputState, rune, *ParseError) {
			next, r, ok := s.Next()
			if !ok {
				return s, 0, noMoreInput(label, s)
			}
			if !predicate(r) {
				return s, 0, unexpected(label, r, s)
			}
			return next, r, nil
		},
	}
}
