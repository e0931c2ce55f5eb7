package importer

import (
	"fmt"
	"io"
	"os"

	"gopkg.in/yaml.v3"
)

// LoadRules reads an ordered category rule table from YAML:
//
//	- category: Groceries
//	  keywords: [supermarket, grocery]
//	- category: Dining
//	  keywords: [restaurant, cafe]
//
// Document order is preserved; it is the match priority.
func LoadRules(r io.Reader) ([]CategoryRule, error) {
	var rules []CategoryRule

	dec := yaml.NewDecoder(r)
	if err := dec.Decode(&rules); err != nil {
		return nil, fmt.Errorf("decoding category rules: %w", err)
	}

	for i, rule := range rules {
		if rule.Category == "" {
			return nil, fmt.Errorf("category rule %d: missing category", i)
		}

		if len(rule.Keywords) == 0 {
			return nil, fmt.Errorf("category rule %d (%s): no keywords", i, rule.Category)
		}
	}

	return rules, nil
}

func LoadRulesFile(path string) ([]CategoryRule, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("opening category rules: %w", err)
	}
	defer f.Close()

	return LoadRules(f)
}

// DefaultRules is the built-in rule table used when no rules file is
// configured. Order matters: specific merchants before broad fallbacks.
func DefaultRules() []CategoryRule {
	return []CategoryRule{
		{Category: "Groceries", Keywords: []string{"supermarket", "grocery", "aldi", "lidl", "whole foods", "trader joe"}},
		{Category: "Dining", Keywords: []string{"restaurant", "cafe", "coffee", "starbucks", "pizza", "takeaway", "mcdonald"}},
		{Category: "Transport", Keywords: []string{"uber", "lyft", "taxi", "transit", "metro", "parking", "fuel", "shell", "gas station"}},
		{Category: "Utilities", Keywords: []string{"electric", "water", "internet", "broadband", "phone", "mobile"}},
		{Category: "Subscriptions", Keywords: []string{"netflix", "spotify", "prime", "subscription", "icloud"}},
		{Category: "Income", Keywords: []string{"payroll", "salary", "wages", "direct deposit"}},
		{Category: "Rent & Mortgage", Keywords: []string{"rent", "mortgage", "landlord"}},
		{Category: "Bank Fees", Keywords: []string{"fee", "charge", "interest", "overdraft"}},
	}
}
