package parsing_test

import (
	"fmt"

	"github.com/advent2020/parsing"
)

func Example() {
	// a list of comma separated integers between brackets
	list := parsing.Between(
		parsing.PChar('['),
		parsing.SepBy(parsing.PInt(10), parsing.PChar(',')),
		parsing.PChar(']'),
	)

	_, numbers, err := list.Parse("[1,-2,30]")
	if err != nil {
		panic(err)
	}
	fmt.Println(numbers)

	_, _, err = list.Parse("[1,2;")
	fmt.Println(err)
	// Output:
	// [1 -2 30]
	// Line:0 Col:4 Error parsing ]
	// [1,2;
	//     ^Unexpected ';'
}

func ExampleBind() {
	// the first digit tells how many letters follow
	counted := parsing.Bind(parsing.PInt(10), func(n int) parsing.Parser[string] {
		letters := make([]parsing.Parser[rune], n)
		for i := range letters {
			letters[i] = parsing.Satisfy(func(r rune) bool { return r >= 'a' && r <= 'z' }, "letter")
		}
		return parsing.Map(parsing.Sequence(letters...), func(rs []rune) string { return string(rs) })
	})

	rest, word, _ := counted.Parse("3abcdef")
	fmt.Println(word, rest.Remaining())
	// Output: abc def
}

func ExampleLazy() {
	// expr := digit | "(" expr "+" expr ")"
	var expr parsing.Parser[int]
	ref := parsing.Lazy("expr", func() parsing.Parser[int] { return expr })
	sum := parsing.Map(
		parsing.AndThen(parsing.KeepFirst(ref, parsing.PChar('+')), ref),
		func(v parsing.Pair[int, int]) int { return v.First + v.Second },
	)
	expr = parsing.Choice(
		parsing.Map(parsing.DigitChar(10), func(r rune) int { return int(r - '0') }),
		parsing.Between(parsing.PChar('('), sum, parsing.PChar(')')),
	)

	_, v, _ := expr.Parse("(1+(2+3))")
	fmt.Println(v)
	// Output: 6
}
