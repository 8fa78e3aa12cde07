package rules

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/exp/ebnf"
)

var ErrInvalidGrammar = errors.New("invalid grammar")

// EBNF renders the grammar in the notation understood by
// golang.org/x/exp/ebnf, one production per rule, sorted by number.
// Rule N is named RN.
func (g *Grammar) EBNF() string {
	var b strings.Builder
	for _, id := range g.IDs() {
		r := g.rules[id]
		fmt.Fprintf(&b, "%s = ", productionName(id))
		if r.IsTerminal() {
			b.WriteString(strconv.Quote(string(r.Terminal)))
		} else {
			for i, seq := range r.Alternatives {
				if i > 0 {
					b.WriteString(" | ")
				}
				for j, ref := range seq {
					if j > 0 {
						b.WriteByte(' ')
					}
					b.WriteString(productionName(ref))
				}
			}
		}
		b.WriteString(" .\n")
	}
	return b.String()
}

// Check verifies that every rule referenced exists and that every
// rule can be reached from start
func Check(g *Grammar, start int) error {
	grammar, err := ebnf.Parse("rules", strings.NewReader(g.EBNF()))
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGrammar, err)
	}
	if err := ebnf.Verify(grammar, productionName(start)); err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidGrammar, err)
	}
	log.Debugf("grammar with %d rules verified from %d", g.Len(), start)
	return nil
}

func productionName(id int) string {
	return "R" + strconv.Itoa(id)
}
