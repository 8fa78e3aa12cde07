package rules

import "sort"

// Matcher decides if a message belongs to the language of a rule by
// computing, for each rule and starting offset, every offset the rule
// can end at.  Unlike the ordered choice of the combinators, no
// alternative is ever discarded, so rules like `11: 42 31 | 42 11 31`
// are matched correctly.  The grammar must not be left recursive.
type Matcher struct {
	grammar *Grammar
}

func NewMatcher(g *Grammar) *Matcher {
	return &Matcher{grammar: g}
}

// Match tells if rule id matches the whole message
func (m *Matcher) Match(id int, message string) bool {
	input := []rune(message)
	for _, end := range m.Ends(id, message, 0) {
		if end == len(input) {
			return true
		}
	}
	return false
}

// Ends returns the sorted offsets, in runes, where rule id can stop
// matching when started at offset from
func (m *Matcher) Ends(id int, message string, from int) []int {
	run := &matchRun{
		grammar: m.grammar,
		input:   []rune(message),
		memo:    make(map[matchKey][]int),
	}
	return run.ends(id, from)
}

type matchKey struct {
	rule, offset int
}

type matchRun struct {
	grammar *Grammar
	input   []rune
	memo    map[matchKey][]int
}

func (r *matchRun) ends(id, offset int) []int {
	key := matchKey{id, offset}
	if ends, ok := r.memo[key]; ok {
		return ends
	}

	rule, ok := r.grammar.rules[id]
	var ends []int
	switch {
	case !ok:
	case rule.IsTerminal():
		if offset < len(r.input) && r.input[offset] == rule.Terminal {
			ends = []int{offset + 1}
		}
	default:
		seen := make(map[int]bool)
		for _, seq := range rule.Alternatives {
			for _, end := range r.sequence(seq, offset) {
				if !seen[end] {
					seen[end] = true
					ends = append(ends, end)
				}
			}
		}
		sort.Ints(ends)
	}

	r.memo[key] = ends
	return ends
}

// sequence feeds every end offset of one element as a start offset
// of the next
func (r *matchRun) sequence(seq []int, offset int) []int {
	offsets := []int{offset}
	for _, id := range seq {
		var next []int
		seen := make(map[int]bool)
		for _, o := range offsets {
			for _, end := range r.ends(id, o) {
				if !seen[end] {
					seen[end] = true
					next = append(next, end)
				}
			}
		}
		if len(next) == 0 {
			return nil
		}
		offsets = next
	}
	return offsets
}
