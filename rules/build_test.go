package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuild_Count(t *testing.T) {
	tests := []struct {
		name     string
		sample   string
		strategy string
		loops    bool
		expected int
	}{
		{name: "first sample", sample: "sample1.txt", strategy: StrategyCombinator, expected: 2},
		{name: "first sample exhaustive", sample: "sample1.txt", strategy: StrategyExhaustive, expected: 2},
		{name: "second sample", sample: "sample2.txt", strategy: StrategyCombinator, expected: 3},
		{name: "second sample exhaustive", sample: "sample2.txt", strategy: StrategyExhaustive, expected: 3},
		{name: "second sample with loops", sample: "sample2.txt", strategy: StrategyExhaustive, loops: true, expected: 12},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			g, messages := readSample(t, test.sample)
			cfg := NewConfig()
			cfg.SetString("rules.strategy", test.strategy)
			cfg.SetBool("rules.loops", test.loops)

			rs, err := Build(g, cfg)
			require.NoError(t, err)
			assert.Equal(t, test.strategy, rs.Strategy())
			assert.Equal(t, test.expected, rs.Count(messages))
		})
	}
}

func TestBuild_Matches(t *testing.T) {
	g, _ := readSample(t, "sample1.txt")
	rs, err := Build(g, NewConfig())
	require.NoError(t, err)

	assert.True(t, rs.Matches("ababbb"))
	assert.True(t, rs.Matches("abbbab"))
	assert.False(t, rs.Matches("bababa"))
	assert.False(t, rs.Matches("aaabbb"))
	assert.False(t, rs.Matches("aaaabbb"), "a matching prefix isn't enough")
	assert.False(t, rs.Matches(""))
}

func TestBuild_Errors(t *testing.T) {
	g, _ := readSample(t, "sample2.txt")

	t.Run("recursion needs the exhaustive strategy", func(t *testing.T) {
		cfg := NewConfig()
		cfg.SetBool("rules.loops", true)
		_, err := Build(g, cfg)
		assert.ErrorIs(t, err, ErrRecursiveRule)
	})

	t.Run("left recursion", func(t *testing.T) {
		left, err := ParseGrammar("0: 1\n1: 1 2 | 2\n2: \"a\"\n")
		require.NoError(t, err)
		cfg := NewConfig()
		cfg.SetString("rules.strategy", StrategyExhaustive)
		_, err = Build(left, cfg)
		require.ErrorIs(t, err, ErrLeftRecursion)
		assert.Contains(t, err.Error(), "1 -> 1")
	})

	t.Run("left recursion away from the leftmost path", func(t *testing.T) {
		left, err := ParseGrammar("0: 3 2\n2: 2 3 | 3\n3: \"a\"\n")
		require.NoError(t, err)
		cfg := NewConfig()
		cfg.SetString("rules.strategy", StrategyExhaustive)
		_, err = Build(left, cfg)
		require.ErrorIs(t, err, ErrLeftRecursion)
		assert.Contains(t, err.Error(), "2 -> 2")
	})

	t.Run("unknown strategy", func(t *testing.T) {
		cfg := NewConfig()
		cfg.SetString("rules.strategy", "magic")
		_, err := Build(g, cfg)
		assert.ErrorIs(t, err, ErrUnknownStrategy)
	})

	t.Run("unknown start rule", func(t *testing.T) {
		cfg := NewConfig()
		cfg.SetInt("rules.start", 1000)
		_, err := Build(g, cfg)
		assert.ErrorIs(t, err, ErrUnknownRule)
	})
}

func TestBuild_OrderedChoice(t *testing.T) {
	// rule 1 can take one or two a's, and only the second option lets
	// rule 2 match what's left
	g, err := ParseGrammar("0: 1 2\n1: 3 | 3 3\n2: 3 4\n3: \"a\"\n4: \"b\"\n")
	require.NoError(t, err)

	combinator, err := Build(g, NewConfig())
	require.NoError(t, err)
	assert.True(t, combinator.Matches("aab"))
	assert.False(t, combinator.Matches("aaab"))

	cfg := NewConfig()
	cfg.SetString("rules.strategy", StrategyExhaustive)
	exhaustive, err := Build(g, cfg)
	require.NoError(t, err)
	assert.True(t, exhaustive.Matches("aab"))
	assert.True(t, exhaustive.Matches("aaab"))
}

func TestRuleSet_Parser(t *testing.T) {
	g, _ := readSample(t, "sample1.txt")
	rs, err := Build(g, NewConfig())
	require.NoError(t, err)

	p, ok := rs.Parser(3)
	require.True(t, ok)
	assert.Equal(t, "rule 3", p.Label)

	rest, v, err := p.Parse("baab")
	require.NoError(t, err)
	assert.Equal(t, "ba", v)
	assert.Equal(t, "ab", rest.Remaining())

	_, _, err = p.Parse("aa")
	require.Error(t, err)
	assert.Equal(t, "Line:0 Col:0 Error parsing rule 3\naa\n^Unexpected 'a'", err.Error())

	_, ok = rs.Parser(42)
	assert.False(t, ok)

	t.Run("recursive rules share parsers", func(t *testing.T) {
		// rule 1 is a list of a's built through a reference to itself
		g, err := ParseGrammar("0: 1 2\n1: 3 1 | 3\n2: \"b\"\n3: \"a\"\n")
		require.NoError(t, err)
		b := newBuilder(g)
		p := b.resolve(0)

		rest, v, err := p.Parse("aaab")
		require.NoError(t, err)
		assert.Equal(t, "aaab", v)
		assert.Equal(t, "", rest.Remaining())
	})

	t.Run("not for rules reaching left recursion", func(t *testing.T) {
		left, err := ParseGrammar("0: 3\n1: 3 2\n2: 2 3 | 3\n3: \"a\"\n")
		require.NoError(t, err)
		rs, err := Build(left, NewConfig())
		require.NoError(t, err)
		_, ok := rs.Parser(1)
		assert.False(t, ok)
		_, ok = rs.Parser(3)
		assert.True(t, ok)
	})

	t.Run("not with the exhaustive strategy", func(t *testing.T) {
		cfg := NewConfig()
		cfg.SetString("rules.strategy", StrategyExhaustive)
		rs, err := Build(g, cfg)
		require.NoError(t, err)
		_, ok := rs.Parser(0)
		assert.False(t, ok)
	})
}
