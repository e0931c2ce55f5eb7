package importer

import (
	"strings"

	"github.com/ledgerly/ledgerly/internal/statement"
)

// CategoryRule maps a set of description keywords to a category label.
type CategoryRule struct {
	Category string   `yaml:"category"`
	Keywords []string `yaml:"keywords"`
}

// Categorizer assigns categories by matching keywords against transaction
// descriptions. The rule table is an ordered priority list: the first rule
// with any matching keyword wins, so more specific rules belong earlier.
type Categorizer struct {
	rules []CategoryRule
}

func NewCategorizer(rules []CategoryRule) *Categorizer {
	return &Categorizer{rules: rules}
}

// Apply returns a copy of rows with each transaction's category set to the
// first matching rule, or left empty when nothing matches. The input slice
// is not mutated.
func (c *Categorizer) Apply(rows []statement.Transaction) []statement.Transaction {
	out := make([]statement.Transaction, len(rows))
	copy(out, rows)

	for i := range out {
		out[i].Category = c.categorize(out[i].Description)
	}

	return out
}

func (c *Categorizer) categorize(description string) string {
	desc := strings.ToLower(description)

	for _, rule := range c.rules {
		for _, keyword := range rule.Keywords {
			if strings.Contains(desc, strings.ToLower(keyword)) {
				return rule.Category
			}
		}
	}

	return ""
}
