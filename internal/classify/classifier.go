package classify

import (
	"strings"
	"unicode"

	"github.com/clipperhouse/uax29/v2/words"
)

// Classifier assigns a category label to article text. Implementations
// must be deterministic and total: every input maps to some category.
type Classifier interface {
	Classify(text string) string
}

// DefaultCategory is assigned when no rule matches.
const DefaultCategory = "Other"

// Rule maps word roots to a category. A rule matches when any word
// token of the text starts with one of its roots, so "terror" covers
// "terrorist" and "terrorism".
type Rule struct {
	Category string   `yaml:"category"`
	Roots    []string `yaml:"roots"`
}

// DefaultRules returns the built-in rule table.
func DefaultRules() []Rule {
	return []Rule{
		{Category: "Terrorism", Roots: []string{"terror"}},
		{Category: "NaturalDisasters", Roots: []string{"earthquake"}},
	}
}

// RuleClassifier evaluates a configured rule table against the word
// tokens of the text. Rules are checked in order; the first match wins.
type RuleClassifier struct {
	rules    []Rule
	fallback string
}

// NewRuleClassifier builds a classifier from the given rules, falling
// back to the built-in table when none are provided.
func NewRuleClassifier(rules []Rule) *RuleClassifier {
	if len(rules) == 0 {
		rules = DefaultRules()
	}
	return &RuleClassifier{rules: rules, fallback: DefaultCategory}
}

// Classify returns the category of the first matching rule, or the
// default category when nothing matches.
func (c *RuleClassifier) Classify(text string) string {
	tokens := tokenize(text)
	for _, rule := range c.rules {
		for _, root := range rule.Roots {
			prefix := strings.ToLower(root)
			for _, token := range tokens {
				if strings.HasPrefix(token, prefix) {
					return rule.Category
				}
			}
		}
	}
	return c.fallback
}

func tokenize(text string) []string {
	var tokens []string
	iter := words.FromString(strings.ToLower(text))
	for iter.Next() {
		token := iter.Value()
		if strings.ContainsFunc(token, unicode.IsLetter) {
			tokens = append(tokens, token)
		}
	}
	return tokens
}
