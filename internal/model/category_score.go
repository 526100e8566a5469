package model

import (
	"fmt"
	"sort"
)

// CategoryScore represents how strongly a transaction matched a category
// during keyword scoring. Scores are raw rule-weight sums and may be
// negative; they are clamped to [0,1] only when converted to a confidence.
type CategoryScore struct {
	Category string
	Score    float64
}

// CategoryScores is a slice of CategoryScore that supports sorting and
// selection helpers.
type CategoryScores []CategoryScore

// Len implements sort.Interface.
func (s CategoryScores) Len() int { return len(s) }

// Less implements sort.Interface - higher scores come first.
func (s CategoryScores) Less(i, j int) bool {
	if s[i].Score != s[j].Score {
		return s[i].Score > s[j].Score
	}
	// Equal scores sort by category name for deterministic results
	return s[i].Category < s[j].Category
}

// Swap implements sort.Interface.
func (s CategoryScores) Swap(i, j int) { s[i], s[j] = s[j], s[i] }

// Sort sorts the scores in descending order.
func (s CategoryScores) Sort() { sort.Sort(s) }

// Top returns the highest-scoring category, or nil if empty.
func (s CategoryScores) Top() *CategoryScore {
	if len(s) == 0 {
		return nil
	}
	s.Sort()
	return &s[0]
}

// Validate ensures the slice contains no duplicate categories.
func (s CategoryScores) Validate() error {
	seen := make(map[string]bool, len(s))
	for _, score := range s {
		if score.Category == "" {
			return fmt.Errorf("category name is required")
		}
		if seen[score.Category] {
			return fmt.Errorf("duplicate category %q in scores", score.Category)
		}
		seen[score.Category] = true
	}
	return nil
}
