package parsing

import (
	"fmt"
	"strings"

	"github.com/bassosimone/runtimex"
)

// Pair holds the values produced by the two sides of AndThen
type Pair[A, B any] struct {
	First  A
	Second B
}

func (p Pair[A, B]) String() string {
	return fmt.Sprintf("(%v, %v)", p.First, p.Second)
}

// AndThen runs p1 and then p2 on what p1 left behind.  The first
// failure is returned as is, and there's no second attempt.
func AndThen[T, U any](p1 Parser[T], p2 Parser[U]) Parser[Pair[T, U]] {
	return Parser[Pair[T, U]]{
		Label: fmt.Sprintf("%s and then %s", p1.Label, p2.Label),
		parse: func(s InputState) (InputState, Pair[T, U], *ParseError) {
			var zero Pair[T, U]
			next, first, err := p1.parse(s)
			if err != nil {
				return s, zero, err
			}
			next, second, err := p2.parse(next)
			if err != nil {
				return s, zero, err
			}
			return next, Pair[T, U]{First: first, Second: second}, nil
		},
	}
}

// OrElse runs p1 and, if it fails, runs p2 from the very same state p1
// started from.  This is the only place where the parser backtracks.
func OrElse[T any](p1, p2 Parser[T]) Parser[T] {
	return Parser[T]{
		Label: fmt.Sprintf("%s or else %s", p1.Label, p2.Label),
		parse: func(s InputState) (InputState, T, *ParseError) {
			if next, value, err := p1.parse(s); err == nil {
				return next, value, nil
			}
			return p2.parse(s)
		},
	}
}

// Choice folds OrElse over parsers, so the first one that matches
// wins.  Calling it without parsers is a programming error.
func Choice[T any](parsers ...Parser[T]) Parser[T] {
	runtimex.Assert(len(parsers) > 0)
	p := parsers[0]
	for _, next := range parsers[1:] {
		p = OrElse(p, next)
	}
	return p
}

// ZeroOrMore runs p until it fails, collecting the values it produced.
// The failed attempt is discarded and the state after the last success
// is returned, so it never fails.  It also stops when p succeeds
// without consuming anything, otherwise it would spin forever.
func ZeroOrMore[T any](p Parser[T]) Parser[[]T] {
	return Parser[[]T]{
		Label: fmt.Sprintf("zero or more %s", p.Label),
		parse: func(s InputState) (InputState, []T, *ParseError) {
			return repeat(s, p, []T{})
		},
	}
}

// Many matches zero or more occurrences of p
func Many[T any](p Parser[T]) Parser[[]T] {
	return WithLabel(ZeroOrMore(p), fmt.Sprintf("many %s", p.Label))
}

// OneOrMore matches p once and then zero or more times.  It fails
// exactly when the first attempt fails, with its own label.
func OneOrMore[T any](p Parser[T]) Parser[[]T] {
	label := fmt.Sprintf("one or more %s", p.Label)
	return Parser[[]T]{
		Label: label,
		parse: func(s InputState) (InputState, []T, *ParseError) {
			next, first, err := p.parse(s)
			if err != nil {
				return s, nil, err.withLabel(label)
			}
			return repeat(next, p, []T{first})
		},
	}
}

// repeat is the loop behind the repetition combinators.  It appends to
// values until p fails or stops making progress.
func repeat[T any](s InputState, p Parser[T], values []T) (InputState, []T, *ParseError) {
	for {
		next, value, err := p.parse(s)
		if err != nil || next.position.Compare(s.position) <= 0 {
			return s, values, nil
		}
		values = append(values, value)
		s = next
	}
}

// Optional matches p or nothing at all.  A match is returned as a
// pointer to the value, and the absence of a match as nil.
func Optional[T any](p Parser[T]) Parser[*T] {
	some := Map(p, func(v T) *T { return &v })
	return OrElse(some, Of[*T](nil))
}

// Sequence runs parsers one after the other and collects their values
// in order.  No parsers at all produce an empty slice.
func Sequence[T any](parsers ...Parser[T]) Parser[[]T] {
	if len(parsers) == 0 {
		return Of([]T{})
	}
	labels := make([]string, len(parsers))
	for i, p := range parsers {
		labels[i] = p.Label
	}
	return Parser[[]T]{
		Label: strings.Join(labels, " and then "),
		parse: func(s InputState) (InputState, []T, *ParseError) {
			values := make([]T, 0, len(parsers))
			next := s
			for _, p := range parsers {
				var (
					value T
					err   *ParseError
				)
				next, value, err = p.parse(next)
				if err != nil {
					return s, nil, err
				}
				values = append(values, value)
			}
			return next, values, nil
		},
	}
}

// KeepFirst runs p1 and then p2 but only keeps what p1 produced
func KeepFirst[T, U any](p1 Parser[T], p2 Parser[U]) Parser[T] {
	return Map(AndThen(p1, p2), func(v Pair[T, U]) T { return v.First })
}

// KeepSecond runs p1 and then p2 but only keeps what p2 produced
func KeepSecond[T, U any](p1 Parser[T], p2 Parser[U]) Parser[U] {
	return Map(AndThen(p1, p2), func(v Pair[T, U]) U { return v.Second })
}

// Between matches open, p and close, in this order, and keeps only the
// value produced by p
func Between[T, U, V any](open Parser[T], p Parser[U], close Parser[V]) Parser[U] {
	return KeepFirst(KeepSecond(open, p), close)
}

// SepByOne matches one or more occurrences of p separated by sep
func SepByOne[T, U any](p Parser[T], sep Parser[U]) Parser[[]T] {
	rest := Many(KeepSecond(sep, p))
	return Map(AndThen(p, rest), func(v Pair[T, []T]) []T {
		return append([]T{v.First}, v.Second...)
	})
}

// SepBy matches zero or more occurrences of p separated by sep
func SepBy[T, U any](p Parser[T], sep Parser[U]) Parser[[]T] {
	return OrElse(SepByOne(p, sep), Of([]T{}))
}

// Not succeeds, without consuming anything, only when p fails
func Not[T any](p Parser[T]) Parser[struct{}] {
	label := fmt.Sprintf("not %s", p.Label)
	return Parser[struct{}]{
		Label: label,
		parse: func(s InputState) (InputState, struct{}, *ParseError) {
			if _, _, err := p.parse(s); err != nil {
				return s, struct{}{}, nil
			}
			_, r, ok := s.Next()
			if !ok {
				return s, struct{}{}, noMoreInput(label, s)
			}
			return s, struct{}{}, unexpected(label, r, s)
		},
	}
}

// LookAhead runs p but doesn't consume the input it matched
func LookAhead[T any](p Parser[T]) Parser[T] {
	return Parser[T]{
		Label: p.Label,
		parse: func(s InputState) (InputState, T, *ParseError) {
			_, value, err := p.parse(s)
			return s, value, err
		},
	}
}

// EndOfInput succeeds only when there's no source text left
func EndOfInput() Parser[struct{}] {
	const label = "end of input"
	return Parser[struct{}]{
		Label: label,
		parse: func(s InputState) (InputState, struct{}, *ParseError) {
			if s.Remaining() == "" {
				return s, struct{}{}, nil
			}
			_, r, _ := s.Next()
			return s, struct{}{}, unexpected(label, r, s)
		},
	}
}
