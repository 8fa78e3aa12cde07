// Package rules matches messages against the numbered rule tables of
// the Advent of Code 2020 day 19 puzzle:
//
//	0: 4 1 5
//	1: 2 3 | 3 2
//	4: "a"
//
// Each rule is either a single quoted character or a list of
// alternatives, each one a sequence of rule numbers.  The rule lines
// themselves are read with the parsing package, and Build turns a
// Grammar into parsers built out of the same combinators.
package rules

import (
	"errors"
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/tliron/commonlog"

	"github.com/advent2020/parsing"
)

var (
	ErrInvalidRule     = errors.New("invalid rule")
	ErrDuplicateRule   = errors.New("duplicate rule")
	ErrUnknownRule     = errors.New("unknown rule")
	ErrMissingMessages = errors.New("missing blank line between rules and messages")
)

var log = commonlog.GetLogger("parsing.rules")

// LoopRules are the replacements for rules 8 and 11 that turn the
// puzzle grammar into a recursive one
var LoopRules = []string{
	"8: 42 | 42 8",
	"11: 42 31 | 42 11 31",
}

// Rule is one line of the rule table.  Terminal rules have no
// Alternatives.
type Rule struct {
	ID           int
	Terminal     rune
	Alternatives [][]int
}

func (r Rule) IsTerminal() bool { return len(r.Alternatives) == 0 }

// Refs returns the rules referenced by r, without repetitions, in
// the order they first appear
func (r Rule) Refs() []int {
	var refs []int
	seen := make(map[int]bool)
	for _, seq := range r.Alternatives {
		for _, id := range seq {
			if !seen[id] {
				seen[id] = true
				refs = append(refs, id)
			}
		}
	}
	return refs
}

// Body is the text after the colon
func (r Rule) Body() string {
	if r.IsTerminal() {
		return strconv.Quote(string(r.Terminal))
	}
	alternatives := make([]string, len(r.Alternatives))
	for i, seq := range r.Alternatives {
		ids := make([]string, len(seq))
		for j, id := range seq {
			ids[j] = strconv.Itoa(id)
		}
		alternatives[i] = strings.Join(ids, " ")
	}
	return strings.Join(alternatives, " | ")
}

func (r Rule) String() string {
	return fmt.Sprintf("%d: %s", r.ID, r.Body())
}

// Grammar is a table of rules indexed by their number
type Grammar struct {
	rules map[int]Rule
}

// NewGrammar creates a grammar out of rules.  Rule numbers must be
// unique and every alternative must refer to at least one rule.
func NewGrammar(rules ...Rule) (*Grammar, error) {
	g := &Grammar{rules: make(map[int]Rule, len(rules))}
	for _, r := range rules {
		for _, seq := range r.Alternatives {
			if len(seq) == 0 {
				return nil, fmt.Errorf("%w: rule %d has an empty alternative", ErrInvalidRule, r.ID)
			}
		}
		if _, ok := g.rules[r.ID]; ok {
			return nil, fmt.Errorf("%w: %d", ErrDuplicateRule, r.ID)
		}
		g.rules[r.ID] = r
	}
	return g, nil
}

// ParseGrammar reads one rule per line.  Blank lines are skipped.
func ParseGrammar(text string) (*Grammar, error) {
	var rules []Rule
	for i, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		r, err := ParseRule(line)
		if err != nil {
			return nil, fmt.Errorf("line %d: %w", i+1, err)
		}
		rules = append(rules, r)
	}
	return NewGrammar(rules...)
}

// ParseInput splits a puzzle input in its rule block and the
// messages that follow the first blank line
func ParseInput(text string) (*Grammar, []string, error) {
	text = strings.ReplaceAll(text, "\r\n", "\n")
	block, rest, found := strings.Cut(text, "\n\n")
	if !found {
		return nil, nil, ErrMissingMessages
	}
	g, err := ParseGrammar(block)
	if err != nil {
		return nil, nil, err
	}
	var messages []string
	for _, line := range strings.Split(rest, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			messages = append(messages, line)
		}
	}
	log.Debugf("read %d rules and %d messages", len(g.rules), len(messages))
	return g, messages, nil
}

// ParseRule reads a single rule line.  Failures are *parsing.ParseError
// values wrapped with ErrInvalidRule.
func ParseRule(line string) (Rule, error) {
	_, r, err := ruleParser.Parse(line)
	if err != nil {
		return Rule{}, fmt.Errorf("%w: %w", ErrInvalidRule, err)
	}
	return r, nil
}

var ruleParser = newRuleParser()

func newRuleParser() parsing.Parser[Rule] {
	blanks := parsing.Many(parsing.PChar(' '))
	index := parsing.TryMap(parsing.PInt(10), func(id int) (int, error) {
		if id < 0 {
			return 0, errors.New("negative rule number")
		}
		return id, nil
	}).WithLabel("rule number")

	header := parsing.KeepFirst(index, parsing.AndThen(parsing.PChar(':'), blanks))

	quote := parsing.PChar('"')
	terminal := parsing.Map(
		parsing.Between(quote, parsing.Satisfy(func(r rune) bool { return r != '"' && r != '\n' }, "character"), quote),
		func(c rune) Rule { return Rule{Terminal: c} },
	)

	sequence := parsing.SepByOne(index, parsing.OneOrMore(parsing.PChar(' ')))
	bar := parsing.Between(blanks, parsing.PChar('|'), blanks)
	alternatives := parsing.Map(
		parsing.SepByOne(sequence, bar),
		func(alts [][]int) Rule { return Rule{Alternatives: alts} },
	)

	body := parsing.KeepFirst(
		parsing.Choice(terminal, alternatives),
		parsing.AndThen(blanks, parsing.EndOfInput()),
	)

	return parsing.Map(parsing.AndThen(header, body), func(v parsing.Pair[int, Rule]) Rule {
		r := v.Second
		r.ID = v.First
		return r
	})
}

// Rule returns the rule numbered id
func (g *Grammar) Rule(id int) (Rule, bool) {
	r, ok := g.rules[id]
	return r, ok
}

// IDs returns the numbers of all rules, sorted
func (g *Grammar) IDs() []int {
	ids := make([]int, 0, len(g.rules))
	for id := range g.rules {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids
}

func (g *Grammar) Len() int { return len(g.rules) }

// Clone returns a grammar that can be modified without affecting g
func (g *Grammar) Clone() *Grammar {
	rules := make(map[int]Rule, len(g.rules))
	for id, r := range g.rules {
		rules[id] = r
	}
	return &Grammar{rules: rules}
}

// Replace parses line and puts the rule in place of the one with the
// same number, adding it if there wasn't one
func (g *Grammar) Replace(line string) error {
	r, err := ParseRule(line)
	if err != nil {
		return err
	}
	log.Debugf("replacing rule %d with %q", r.ID, r.Body())
	g.rules[r.ID] = r
	return nil
}

// WithLoops returns a copy of g with LoopRules applied
func (g *Grammar) WithLoops() (*Grammar, error) {
	looped := g.Clone()
	for _, line := range LoopRules {
		if err := looped.Replace(line); err != nil {
			return nil, err
		}
	}
	return looped, nil
}

// Reachable returns the numbers of the rules reachable from start,
// start included, sorted.  References to rules that don't exist are
// reported with ErrUnknownRule.
func (g *Grammar) Reachable(start int) ([]int, error) {
	if _, ok := g.rules[start]; !ok {
		return nil, fmt.Errorf("%w: %d", ErrUnknownRule, start)
	}
	seen := map[int]bool{start: true}
	stack := []int{start}
	for len(stack) > 0 {
		id := stack[len(stack)-1]
		stack = stack[:len(stack)-1]
		for _, ref := range g.rules[id].Refs() {
			if seen[ref] {
				continue
			}
			if _, ok := g.rules[ref]; !ok {
				return nil, fmt.Errorf("%w: %d (referenced by rule %d)", ErrUnknownRule, ref, id)
			}
			seen[ref] = true
			stack = append(stack, ref)
		}
	}
	ids := make([]int, 0, len(seen))
	for id := range seen {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	return ids, nil
}

// Cycle returns a path of rule numbers starting and ending on the same
// rule, or nil when no rule reachable from start refers back to
// itself.  With leftmost set, only the first element of each sequence
// is followed, which finds left recursion.
func (g *Grammar) Cycle(start int, leftmost bool) []int {
	const (
		unvisited = iota
		visiting
		done
	)
	state := make(map[int]int)
	var path []int

	var visit func(id int) []int
	visit = func(id int) []int {
		switch state[id] {
		case visiting:
			for i, p := range path {
				if p == id {
					return append(append([]int{}, path[i:]...), id)
				}
			}
		case done:
			return nil
		}
		r, ok := g.rules[id]
		if !ok {
			return nil
		}
		state[id] = visiting
		path = append(path, id)

		var next []int
		if leftmost {
			for _, seq := range r.Alternatives {
				next = append(next, seq[0])
			}
		} else {
			next = r.Refs()
		}
		for _, ref := range next {
			if cycle := visit(ref); cycle != nil {
				return cycle
			}
		}

		path = path[:len(path)-1]
		state[id] = done
		return nil
	}
	return visit(start)
}

// LeftRecursion looks for left recursion in every rule reachable from
// start, not only along the leftmost path of start itself.  It returns
// the first cycle found, or nil.
func (g *Grammar) LeftRecursion(start int) []int {
	reachable, err := g.Reachable(start)
	if err != nil {
		return nil
	}
	for _, id := range reachable {
		if cycle := g.Cycle(id, true); cycle != nil {
			return cycle
		}
	}
	return nil
}

func formatPath(ids []int) string {
	parts := make([]string, len(ids))
	for i, id := range ids {
		parts[i] = strconv.Itoa(id)
	}
	return strings.Join(parts, " -> ")
}
