package ledger

import (
	"github.com/shopspring/decimal"
)

type StatusKind string

const (
	StatusUnpaid   StatusKind = "unpaid"
	StatusPartial  StatusKind = "partial"
	StatusComplete StatusKind = "complete"
	StatusOverpaid StatusKind = "overpaid"
)

// Status is the classification of a paid amount against a due amount.
//
// Amount is what is still owed for unpaid and partial, the surplus for
// overpaid and zero for complete.
type Status struct {
	Kind   StatusKind      `json:"kind"`
	Amount decimal.Decimal `json:"amount"`
}

// Classify maps a (paid, due) pair to exactly one status.
//
// Comparisons are exact. When nothing is due, a zero payment is complete
// and anything above it is overpaid.
func Classify(paid, due decimal.Decimal) Status {
	switch {
	case paid.Equal(due):
		return Status{Kind: StatusComplete, Amount: decimal.Zero}
	case paid.GreaterThan(due):
		return Status{Kind: StatusOverpaid, Amount: paid.Sub(due)}
	case paid.IsZero():
		return Status{Kind: StatusUnpaid, Amount: due}
	default:
		return Status{Kind: StatusPartial, Amount: due.Sub(paid)}
	}
}
