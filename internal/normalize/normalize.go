// Package normalize produces canonical merchant lookup keys from raw
// transaction descriptions. The normalized form is the matching key for both
// keyword scoring and override-by-name lookups, so Normalize must be
// idempotent: normalizing an already-normalized string yields the same string.
package normalize

import (
	"regexp"
	"strings"
)

var (
	// Payment-channel prefixes banks prepend to descriptions.
	channelPrefix = regexp.MustCompile(`(?i)\b(pos|card|ach|online)\b[:\-]?\s+`)
	nonAlnum      = regexp.MustCompile(`[^a-z0-9\s]`)
	whitespace    = regexp.MustCompile(`\s+`)
)

// Multi-word processor boilerplate removed as whole phrases.
var stopPhrases = []string{
	"apple pay",
	"google pay",
}

// Single-token boilerplate that carries no merchant signal.
var stopwords = map[string]bool{
	"inc":        true,
	"llc":        true,
	"ltd":        true,
	"co":         true,
	"corp":       true,
	"store":      true,
	"online":     true,
	"payment":    true,
	"purchase":   true,
	"debit":      true,
	"credit":     true,
	"pos":        true,
	"card":       true,
	"auth":       true,
	"visa":       true,
	"mastercard": true,
	"discover":   true,
	"txn":        true,
	"id":         true,
}

// Normalize lower-cases a merchant description, strips payment-channel
// prefixes, punctuation, and processor stopwords, and collapses whitespace.
// Returns "" for empty input. Pure and deterministic.
func Normalize(raw string) string {
	if raw == "" {
		return ""
	}

	s := strings.ToLower(raw)
	s = channelPrefix.ReplaceAllString(s, " ")
	s = nonAlnum.ReplaceAllString(s, "")
	s = whitespace.ReplaceAllString(s, " ")
	s = strings.TrimSpace(s)

	tokens := strings.Fields(s)
	kept := tokens[:0]
	for _, tok := range tokens {
		if !stopwords[tok] {
			kept = append(kept, tok)
		}
	}
	s = strings.Join(kept, " ")

	// Phrase removal runs after token filtering so that stopword tokens
	// between phrase words (e.g. "apple card pay") cannot leave a phrase
	// behind, which would break idempotency.
	for _, phrase := range stopPhrases {
		s = strings.ReplaceAll(s, phrase, " ")
	}

	return strings.Join(strings.Fields(s), " ")
}
