package rules

import (
	"errors"
	"fmt"
	"strings"

	"github.com/advent2020/parsing"
)

const (
	// StrategyCombinator matches with the parsers built out of the
	// rules.  Alternatives are ordered and committed, so it's only
	// exact for grammars without recursion.
	StrategyCombinator = "combinator"

	// StrategyExhaustive tracks every position each rule can end at.
	// It accepts recursive grammars as long as no rule is left
	// recursive.
	StrategyExhaustive = "exhaustive"
)

var (
	ErrRecursiveRule   = errors.New("recursive rule")
	ErrLeftRecursion   = errors.New("left recursive rule")
	ErrUnknownStrategy = errors.New("unknown strategy")
)

// RuleSet is a grammar ready to match messages
type RuleSet struct {
	grammar  *Grammar
	start    int
	strategy string

	builder *builder
	matcher *Matcher
}

// Build validates the rules reachable from the `rules.start` setting
// and prepares them for matching with the strategy named by
// `rules.strategy`.  When `rules.loops` is set, LoopRules replace the
// original rules 8 and 11 first.
func Build(g *Grammar, cfg *Config) (*RuleSet, error) {
	if cfg.GetBool("rules.loops") {
		looped, err := g.WithLoops()
		if err != nil {
			return nil, err
		}
		g = looped
	}

	rs := &RuleSet{
		grammar:  g,
		start:    cfg.GetInt("rules.start"),
		strategy: cfg.GetString("rules.strategy"),
	}

	reachable, err := g.Reachable(rs.start)
	if err != nil {
		return nil, err
	}

	switch rs.strategy {
	case StrategyCombinator:
		if cycle := g.Cycle(rs.start, false); cycle != nil {
			return nil, fmt.Errorf("%w: %s (try the %s strategy)", ErrRecursiveRule, formatPath(cycle), StrategyExhaustive)
		}
		rs.builder = newBuilder(g)
		rs.builder.resolve(rs.start)
	case StrategyExhaustive:
		if cycle := g.LeftRecursion(rs.start); cycle != nil {
			return nil, fmt.Errorf("%w: %s", ErrLeftRecursion, formatPath(cycle))
		}
		rs.matcher = NewMatcher(g)
	default:
		return nil, fmt.Errorf("%w: `%s`", ErrUnknownStrategy, rs.strategy)
	}

	log.Debugf("built %d rules reachable from %d with the %s strategy", len(reachable), rs.start, rs.strategy)
	return rs, nil
}

// Grammar returns the rules the set was built from, loops included
func (rs *RuleSet) Grammar() *Grammar { return rs.grammar }

func (rs *RuleSet) Strategy() string { return rs.strategy }

// Parser returns the combinator parser of rule id.  It's only
// available with the combinator strategy, and not for rules that are
// left recursive.
func (rs *RuleSet) Parser(id int) (parsing.Parser[string], bool) {
	if rs.builder == nil {
		return parsing.Parser[string]{}, false
	}
	if _, err := rs.grammar.Reachable(id); err != nil {
		return parsing.Parser[string]{}, false
	}
	if rs.grammar.LeftRecursion(id) != nil {
		return parsing.Parser[string]{}, false
	}
	return rs.builder.resolve(id), true
}

// Matches tells if the whole message is matched by the start rule
func (rs *RuleSet) Matches(message string) bool {
	if rs.matcher != nil {
		return rs.matcher.Match(rs.start, message)
	}
	rest, _, err := rs.builder.resolve(rs.start).Parse(message)
	return err == nil && rest.Remaining() == ""
}

// Count returns how many messages match
func (rs *RuleSet) Count(messages []string) int {
	count := 0
	for _, m := range messages {
		if rs.Matches(m) {
			count++
		}
	}
	return count
}

type builder struct {
	grammar *Grammar
	memo    map[int]parsing.Parser[string]
}

func newBuilder(g *Grammar) *builder {
	return &builder{grammar: g, memo: make(map[int]parsing.Parser[string])}
}

// resolve returns the parser of rule id.  A lazy reference to the
// rule is memoized before its children are resolved, so rules that
// refer to each other end up sharing parsers instead of recursing
// forever.  The rule must exist.
func (b *builder) resolve(id int) parsing.Parser[string] {
	if p, ok := b.memo[id]; ok {
		return p
	}

	rule := b.grammar.rules[id]
	label := fmt.Sprintf("rule %d", id)

	var resolved parsing.Parser[string]
	b.memo[id] = parsing.Lazy(label, func() parsing.Parser[string] { return resolved })

	if rule.IsTerminal() {
		resolved = parsing.Map(parsing.PChar(rule.Terminal), func(r rune) string { return string(r) })
	} else {
		alternatives := make([]parsing.Parser[string], len(rule.Alternatives))
		for i, seq := range rule.Alternatives {
			parts := make([]parsing.Parser[string], len(seq))
			for j, ref := range seq {
				parts[j] = b.resolve(ref)
			}
			alternatives[i] = parsing.Map(parsing.Sequence(parts...), func(matched []string) string {
				return strings.Join(matched, "")
			})
		}
		resolved = parsing.Choice(alternatives...)
	}
	resolved = resolved.WithLabel(label)
	b.memo[id] = resolved
	return resolved
}
