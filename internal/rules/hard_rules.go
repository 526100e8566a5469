package rules

import (
	"strings"

	"github.com/saffron-ledger/saffron/internal/model"
)

// Match is the outcome of a hard rule or income heuristic.
type Match struct {
	Category   string
	Confidence float64
	Reason     string
}

// Refund indicators checked against the raw transaction code.
var refundCodes = []string{"refund", "reversal", "chargeback", "return"}

// Refund indicators checked against the normalized merchant name.
var refundKeywords = []string{"refund", "return", "reversal", "chargeback"}

// Peer-to-peer and transfer indicators.
var transferKeywords = []string{"transfer", "zelle", "venmo", "cash app", "paypal"}

// MatchHardRule runs the ordered expense-only hard rules: transaction-code
// refund detection, then keyword refund detection, then transfer detection.
// First match wins; nil means fall through to keyword scoring.
func MatchHardRule(normalizedName, transactionCode string) *Match {
	code := strings.ToLower(transactionCode)
	if code != "" && anyContains(code, refundCodes) {
		return &Match{
			Category:   model.CategoryAdjustments,
			Confidence: 0.9,
			Reason:     model.ReasonTransactionCode,
		}
	}

	if anyContains(normalizedName, refundKeywords) {
		return &Match{
			Category:   model.CategoryAdjustments,
			Confidence: 0.85,
			Reason:     model.ReasonKeywordRefund,
		}
	}

	if anyContains(normalizedName, transferKeywords) {
		return &Match{
			Category:   model.CategoryTransfersOut,
			Confidence: 0.85,
			Reason:     model.ReasonKeywordTransfer,
		}
	}

	return nil
}
