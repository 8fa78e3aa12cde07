package parsing

import (
	"errors"
	"fmt"
	"math"
	"reflect"
	"strconv"
	"strings"
	"unicode"

	"github.com/bassosimone/runtimex"
	"golang.org/x/exp/constraints"
)

// PChar matches exactly the rune c.  The label is the rune itself.
func PChar(c rune) Parser[rune] {
	return Satisfy(func(r rune) bool { return r == c }, string(c))
}

// AnyOf matches any of the given runes, trying them in order
func AnyOf(chars ...rune) Parser[rune] {
	quoted := make([]string, len(chars))
	parsers := make([]Parser[rune], len(chars))
	for i, c := range chars {
		quoted[i] = fmt.Sprintf("%q", c)
		parsers[i] = PChar(c)
	}
	label := fmt.Sprintf("anyOf [%s]", strings.Join(quoted, ", "))
	return Choice(parsers...).WithLabel(label)
}

// DigitChar matches a single digit in base.  Letters are digits from
// base 11 on, regardless of their case.
func DigitChar(base int) Parser[rune] {
	runtimex.Assert(base >= 2 && base <= 36)
	return Satisfy(func(r rune) bool {
		d, ok := digitValue(r)
		return ok && d < base
	}, "digit")
}

// WhitespaceChar matches a single unicode white space
func WhitespaceChar() Parser[rune] {
	return Satisfy(unicode.IsSpace, "whitespace")
}

// ManyChars matches zero or more runes with cp and returns them as a
// string
func ManyChars(cp Parser[rune]) Parser[string] {
	return Map(Many(cp), runesToString)
}

// OneOrMoreChars matches one or more runes with cp and returns them as
// a string
func OneOrMoreChars(cp Parser[rune]) Parser[string] {
	return Map(OneOrMore(cp), runesToString)
}

// PString matches the literal string.  When it fails, the error points
// to the first rune that didn't match, not to the start of the literal.
func PString(literal string) Parser[string] {
	var parsers []Parser[rune]
	for _, c := range literal {
		parsers = append(parsers, PChar(c))
	}
	return Map(Sequence(parsers...), runesToString).WithLabel(literal)
}

// Spaces matches zero or more white spaces
func Spaces() Parser[[]rune] {
	return Many(WhitespaceChar())
}

// OneOrMoreSpaces matches one or more white spaces
func OneOrMoreSpaces() Parser[[]rune] {
	return OneOrMore(WhitespaceChar())
}

// PInt matches an optionally negative integer written in base.  Values
// that don't fit an int fail with ErrOverflow.
func PInt(base int) Parser[int] {
	return PSigned[int](base)
}

// PSigned is the generic form of PInt.  The digits are checked against
// the size of T, so PSigned[int8](10) fails on "128" with ErrOverflow,
// reported at the position where the number starts.
func PSigned[T constraints.Signed](base int) Parser[T] {
	var zero T
	bits := reflect.TypeFor[T]().Bits()
	number := AndThen(Optional(PChar('-')), OneOrMore(DigitChar(base)))
	return TryMap(number, func(v Pair[*rune, []rune]) (T, error) {
		text := signed(v.First, v.Second)
		n, err := strconv.ParseInt(text, base, bits)
		if err != nil {
			return zero, numberError(err)
		}
		return T(n), nil
	}).WithLabel("integer")
}

// PFloat matches an optionally negative number with an integer part, a
// dot and a fractional part.  Exponents aren't supported.
func PFloat(base int) Parser[float64] {
	digits := OneOrMore(DigitChar(base))
	number := AndThen(AndThen(AndThen(Optional(PChar('-')), digits), PChar('.')), digits)
	type parsed = Pair[Pair[Pair[*rune, []rune], rune], []rune]
	return TryMap(number, func(v parsed) (float64, error) {
		integer, fraction := v.First.First.Second, v.Second
		f, err := toFloat(integer, fraction, base)
		if err != nil {
			return 0, err
		}
		if v.First.First.First != nil {
			f = -f
		}
		return f, nil
	}).WithLabel("float")
}

func toFloat(integer, fraction []rune, base int) (float64, error) {
	if base == 10 {
		text := string(integer) + "." + string(fraction)
		f, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return 0, numberError(err)
		}
		return f, nil
	}
	whole, err := strconv.ParseInt(string(integer), base, 64)
	if err != nil {
		return 0, numberError(err)
	}
	f := float64(whole)
	scale := 1.0
	for _, r := range fraction {
		d, _ := digitValue(r)
		scale /= float64(base)
		f += float64(d) * scale
	}
	if math.IsInf(f, 0) {
		return 0, ErrOverflow
	}
	return f, nil
}

func signed(sign *rune, digits []rune) string {
	if sign != nil {
		return "-" + string(digits)
	}
	return string(digits)
}

func numberError(err error) error {
	if errors.Is(err, strconv.ErrRange) {
		return ErrOverflow
	}
	return ErrInvalidNumber
}

func digitValue(r rune) (int, bool) {
	switch {
	case r >= '0' && r <= '9':
		return int(r - '0'), true
	case r >= 'a' && r <= 'z':
		return int(r-'a') + 10, true
	case r >= 'A' && r <= 'Z':
		return int(r-'A') + 10, true
	}
	return 0, false
}

func runesToString(rs []rune) string {
	return string(rs)
}
