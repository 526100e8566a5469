// Package rules implements the heuristic stages of the categorization
// pipeline: hard refund/transfer rules, the income classifier, and the
// weighted keyword scorer with its category rule table.
package rules

import (
	"fmt"
	"strings"

	"github.com/saffron-ledger/saffron/internal/model"
)

// SelectionThreshold is the minimum keyword score required before the top
// category is selected; anything below it falls through to the terminal
// fallback stage.
const SelectionThreshold = 0.6

// Rule is one weighted keyword rule within a category's rule list. A hit on
// any Include keyword adds Weight to the category score; a hit on any Exclude
// keyword also adds Weight, so exclusion rules carry a negative weight to
// subtract score. Keywords must be in normalized form (lowercase, no
// punctuation) because matching runs against the normalized merchant name.
type Rule struct {
	Include []string `yaml:"include,omitempty"`
	Exclude []string `yaml:"exclude,omitempty"`
	Weight  float64  `yaml:"weight"`
}

// Table maps each budget category to its list of scoring rules.
type Table map[string][]Rule

// Validate ensures every category has at least one rule and every rule has a
// nonzero weight and at least one keyword.
func (t Table) Validate() error {
	if len(t) == 0 {
		return fmt.Errorf("rule table is empty")
	}
	for category, ruleList := range t {
		if category == "" {
			return fmt.Errorf("rule table contains an empty category name")
		}
		if len(ruleList) == 0 {
			return fmt.Errorf("category %q has no rules", category)
		}
		for i, r := range ruleList {
			if len(r.Include) == 0 && len(r.Exclude) == 0 {
				return fmt.Errorf("category %q rule %d has no keywords", category, i)
			}
			if r.Weight == 0 {
				return fmt.Errorf("category %q rule %d has zero weight", category, i)
			}
			for _, kw := range append(append([]string{}, r.Include...), r.Exclude...) {
				if strings.TrimSpace(kw) == "" {
					return fmt.Errorf("category %q rule %d has a blank keyword", category, i)
				}
			}
		}
	}
	return nil
}

// Scorer evaluates normalized merchant names against a rule table. The table
// is immutable after construction, so a single Scorer is safe for concurrent
// use.
type Scorer struct {
	table Table
}

// NewScorer creates a scorer over the given table, validating it first.
func NewScorer(table Table) (*Scorer, error) {
	if err := table.Validate(); err != nil {
		return nil, fmt.Errorf("invalid rule table: %w", err)
	}
	return &Scorer{table: table}, nil
}

// Score computes the total rule weight per category for the given normalized
// name. Categories score independently: rules in one category's list never
// affect another category's total. Categories with a zero total are omitted.
func (s *Scorer) Score(normalized string) model.CategoryScores {
	var scores model.CategoryScores

	for category, ruleList := range s.table {
		total := 0.0
		for _, r := range ruleList {
			if anyContains(normalized, r.Include) {
				total += r.Weight
			}
			if anyContains(normalized, r.Exclude) {
				total += r.Weight
			}
		}
		if total != 0 {
			scores = append(scores, model.CategoryScore{Category: category, Score: total})
		}
	}

	scores.Sort()
	return scores
}

// Best returns the top-scoring category if its score clears the selection
// threshold, with the score clamped to [0,1] as the confidence.
func (s *Scorer) Best(normalized string) (category string, confidence float64, ok bool) {
	top := s.Score(normalized).Top()
	if top == nil || top.Score < SelectionThreshold {
		return "", 0, false
	}
	return top.Category, clamp01(top.Score), true
}

// anyContains reports whether the name contains any keyword as a substring.
// Matching is substring, not whole-word: "carl" matches inside "carlsbad",
// an accepted limitation of the heuristic.
func anyContains(name string, keywords []string) bool {
	if name == "" {
		return false
	}
	for _, kw := range keywords {
		if kw != "" && strings.Contains(name, kw) {
			return true
		}
	}
	return false
}

func clamp01(f float64) float64 {
	if f < 0 {
		return 0
	}
	if f > 1 {
		return 1
	}
	return f
}
