package rules

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/advent2020/parsing"
)

func readSample(t testing.TB, name string) (*Grammar, []string) {
	t.Helper()
	data, err := os.ReadFile(filepath.Join("testdata", name))
	require.NoError(t, err)
	g, messages, err := ParseInput(string(data))
	require.NoError(t, err)
	return g, messages
}

func TestParseRule(t *testing.T) {
	tests := []struct {
		line     string
		expected Rule
	}{
		{line: `4: "a"`, expected: Rule{ID: 4, Terminal: 'a'}},
		{line: `14: "b"  `, expected: Rule{ID: 14, Terminal: 'b'}},
		{line: "0: 4 1 5", expected: Rule{ID: 0, Alternatives: [][]int{{4, 1, 5}}}},
		{line: "1: 2 3 | 3 2", expected: Rule{ID: 1, Alternatives: [][]int{{2, 3}, {3, 2}}}},
		{line: "8: 42 | 42 8", expected: Rule{ID: 8, Alternatives: [][]int{{42}, {42, 8}}}},
		{line: "15:1|14", expected: Rule{ID: 15, Alternatives: [][]int{{1}, {14}}}},
	}
	for _, test := range tests {
		t.Run(test.line, func(t *testing.T) {
			r, err := ParseRule(test.line)
			require.NoError(t, err)
			assert.Equal(t, test.expected, r)
		})
	}

	t.Run("round trips through String", func(t *testing.T) {
		for _, line := range []string{`4: "a"`, "0: 4 1 5", "11: 42 31 | 42 11 31"} {
			r, err := ParseRule(line)
			require.NoError(t, err)
			assert.Equal(t, line, r.String())
		}
	})

	t.Run("errors", func(t *testing.T) {
		for _, line := range []string{`4: "ab"`, "4 1 5", "0: 4 1 |", "-1: 2", "0: 1 -2", `3: ""`, "0:"} {
			_, err := ParseRule(line)
			assert.ErrorIs(t, err, ErrInvalidRule, line)

			var perr *parsing.ParseError
			assert.ErrorAs(t, err, &perr, line)
		}

		_, err := ParseRule(`4: "ab"`)
		var perr *parsing.ParseError
		require.ErrorAs(t, err, &perr)
		assert.Equal(t, 3, perr.Position.Column)
	})
}

func TestRule_Refs(t *testing.T) {
	r, err := ParseRule("11: 42 31 | 42 11 31")
	require.NoError(t, err)
	assert.Equal(t, []int{42, 31, 11}, r.Refs())

	r, err = ParseRule(`1: "a"`)
	require.NoError(t, err)
	assert.True(t, r.IsTerminal())
	assert.Empty(t, r.Refs())
}

func TestParseInput(t *testing.T) {
	g, messages := readSample(t, "sample1.txt")
	assert.Equal(t, []int{0, 1, 2, 3, 4, 5}, g.IDs())
	assert.Equal(t, []string{"ababbb", "bababa", "abbbab", "aaabbb", "aaaabbb"}, messages)

	r, ok := g.Rule(1)
	require.True(t, ok)
	assert.Equal(t, "1: 2 3 | 3 2", r.String())

	_, ok = g.Rule(6)
	assert.False(t, ok)

	t.Run("windows line endings", func(t *testing.T) {
		g, messages, err := ParseInput("0: \"a\"\r\n\r\na\r\nb\r\n")
		require.NoError(t, err)
		assert.Equal(t, 1, g.Len())
		assert.Equal(t, []string{"a", "b"}, messages)
	})

	t.Run("without messages", func(t *testing.T) {
		_, _, err := ParseInput("0: \"a\"\n")
		assert.ErrorIs(t, err, ErrMissingMessages)
	})

	t.Run("invalid rule names the line", func(t *testing.T) {
		_, _, err := ParseInput("0: 1\n1: ?\n\na\n")
		require.Error(t, err)
		assert.ErrorIs(t, err, ErrInvalidRule)
		assert.Contains(t, err.Error(), "line 2:")
	})

	t.Run("duplicate rule", func(t *testing.T) {
		_, _, err := ParseInput("0: \"a\"\n0: \"b\"\n\na\n")
		assert.ErrorIs(t, err, ErrDuplicateRule)
	})
}

func TestGrammar_Replace(t *testing.T) {
	g, _ := readSample(t, "sample2.txt")
	looped, err := g.WithLoops()
	require.NoError(t, err)

	r, _ := looped.Rule(8)
	assert.Equal(t, "8: 42 | 42 8", r.String())
	r, _ = looped.Rule(11)
	assert.Equal(t, "11: 42 31 | 42 11 31", r.String())

	r, _ = g.Rule(8)
	assert.Equal(t, "8: 42", r.String(), "the original grammar is left alone")

	require.NoError(t, g.Replace(`99: "z"`))
	_, ok := g.Rule(99)
	assert.True(t, ok)

	assert.ErrorIs(t, g.Replace("99 is z"), ErrInvalidRule)
}

func TestGrammar_Reachable(t *testing.T) {
	g, err := ParseGrammar("0: 1 2\n1: \"a\"\n2: 1 | 3\n3: \"b\"\n4: \"c\"\n")
	require.NoError(t, err)

	ids, err := g.Reachable(0)
	require.NoError(t, err)
	assert.Equal(t, []int{0, 1, 2, 3}, ids)

	ids, err = g.Reachable(2)
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 3}, ids)

	_, err = g.Reachable(7)
	assert.ErrorIs(t, err, ErrUnknownRule)

	g, err = ParseGrammar("0: 1 9\n1: \"a\"\n")
	require.NoError(t, err)
	_, err = g.Reachable(0)
	require.ErrorIs(t, err, ErrUnknownRule)
	assert.Contains(t, err.Error(), "9 (referenced by rule 0)")
}

func TestGrammar_Cycle(t *testing.T) {
	g, _ := readSample(t, "sample2.txt")
	assert.Nil(t, g.Cycle(0, false))

	looped, err := g.WithLoops()
	require.NoError(t, err)
	assert.NotNil(t, looped.Cycle(0, false))
	assert.Nil(t, looped.Cycle(0, true), "the loops are right recursive")

	left, err := ParseGrammar("0: 1\n1: 1 2 | 2\n2: \"a\"\n")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 1}, left.Cycle(0, true))

	mutual, err := ParseGrammar("0: 1 3\n1: 2 3 | 3\n2: 1 3\n3: \"a\"\n")
	require.NoError(t, err)
	assert.Equal(t, []int{1, 2, 1}, mutual.Cycle(0, true))
}

func TestGrammar_LeftRecursion(t *testing.T) {
	g, err := ParseGrammar("0: 3 2\n2: 2 3 | 3\n3: \"a\"\n")
	require.NoError(t, err)
	assert.Nil(t, g.Cycle(0, true))
	assert.Equal(t, []int{2, 2}, g.LeftRecursion(0))
	assert.Nil(t, g.LeftRecursion(3))

	g2, _ := readSample(t, "sample2.txt")
	looped, err := g2.WithLoops()
	require.NoError(t, err)
	assert.Nil(t, looped.LeftRecursion(0))
}

func TestNewGrammar(t *testing.T) {
	g, err := NewGrammar(Rule{ID: 0, Alternatives: [][]int{{1}}}, Rule{ID: 1, Terminal: 'a'})
	require.NoError(t, err)
	assert.Equal(t, 2, g.Len())

	_, err = NewGrammar(Rule{ID: 0, Alternatives: [][]int{{}}})
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = NewGrammar(Rule{ID: 0, Alternatives: [][]int{{1}, {}}}, Rule{ID: 1, Terminal: 'a'})
	assert.ErrorIs(t, err, ErrInvalidRule)

	_, err = NewGrammar(Rule{ID: 1, Terminal: 'a'}, Rule{ID: 1, Terminal: 'b'})
	assert.ErrorIs(t, err, ErrDuplicateRule)
}
