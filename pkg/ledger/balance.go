package ledger

import (
	"github.com/cotisations/backend/pkg/models"
	"github.com/shopspring/decimal"
)

var hundred = decimal.NewFromInt(100)

// AmountDueForNeighbor returns the sum of the amount per unit of all contributions.
//
// Every neighbor owes every contribution, so the result is the same for all neighbors.
func AmountDueForNeighbor(contributions []models.Contribution) decimal.Decimal {
	due := decimal.Zero
	for _, c := range contributions {
		due = due.Add(c.AmountPerUnit)
	}
	return due
}

// AmountPaidForNeighbor returns the sum of all payments of the neighbor.
func AmountPaidForNeighbor(neighborID uint64, payments []models.Payment) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range payments {
		if p.NeighborID == neighborID {
			paid = paid.Add(p.AmountPaid)
		}
	}
	return paid
}

// AmountPaidForPair returns the sum of the payments of the neighbor for one contribution.
func AmountPaidForPair(neighborID, contributionID uint64, payments []models.Payment) decimal.Decimal {
	paid := decimal.Zero
	for _, p := range payments {
		if p.NeighborID == neighborID && p.ContributionID == contributionID {
			paid = paid.Add(p.AmountPaid)
		}
	}
	return paid
}

// InstallmentCount returns the number of payments of the neighbor for one contribution.
func InstallmentCount(neighborID, contributionID uint64, payments []models.Payment) int {
	count := 0
	for _, p := range payments {
		if p.NeighborID == neighborID && p.ContributionID == contributionID {
			count++
		}
	}
	return count
}

// Remaining returns due - paid. A negative value is a surplus.
func Remaining(due, paid decimal.Decimal) decimal.Decimal {
	return due.Sub(paid)
}

// PercentagePaid returns paid / due * 100, or zero if nothing is due.
func PercentagePaid(paid, due decimal.Decimal) decimal.Decimal {
	if !due.IsPositive() {
		return decimal.Zero
	}

	// Multiplying first keeps results like 60/100 exact
	return paid.Mul(hundred).Div(due)
}
