package ledger

import (
	"github.com/cotisations/backend/pkg/models"
	"github.com/shopspring/decimal"
	"golang.org/x/exp/slices"
)

// DefaultLeaderboardSize is used when a leaderboard is requested without a valid size.
const DefaultLeaderboardSize = 5

// Ledger is a read only view over the three collections that all reports are computed from.
//
// Payments that reference a neighbor or contribution that does not exist
// (anymore) are not part of any report. Orphans returns their number.
type Ledger struct {
	neighbors     []models.Neighbor
	contributions []models.Contribution
	payments      []models.Payment
	byNeighbor    map[uint64][]models.Payment
	orphans       int
	due           decimal.Decimal
}

// NeighborRow is the overall balance of one neighbor across all contributions.
type NeighborRow struct {
	Neighbor   models.Neighbor `json:"neighbor"`
	Due        decimal.Decimal `json:"due"`
	Paid       decimal.Decimal `json:"paid"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
	Status     Status          `json:"status"`
}

// ContributionLine is the balance of one neighbor for one contribution.
type ContributionLine struct {
	Contribution models.Contribution `json:"contribution"`
	Paid         decimal.Decimal     `json:"paid"`
	Remaining    decimal.Decimal     `json:"remaining"`
	Installments int                 `json:"installments"`
	Settled      bool                `json:"settled"` // Paid is at least the amount of the contribution
	Status       Status              `json:"status"`
}

type Overview struct {
	NeighborCount     int             `json:"neighborCount"`
	ContributionCount int             `json:"contributionCount"`
	DuePerNeighbor    decimal.Decimal `json:"duePerNeighbor"`
	TotalExpected     decimal.Decimal `json:"totalExpected"`
	TotalCollected    decimal.Decimal `json:"totalCollected"`
	TotalOutstanding  decimal.Decimal `json:"totalOutstanding"`
	Neighbors         []NeighborRow   `json:"neighbors"` // Sorted by remaining, highest first
}

type DelinquentNeighbor struct {
	NeighborRow
	Contributions []ContributionLine `json:"contributions"`
}

type Delinquency struct {
	Total     decimal.Decimal      `json:"total"`
	Neighbors []DelinquentNeighbor `json:"neighbors"`
}

type PartialEntry struct {
	Neighbor     models.Neighbor `json:"neighbor"`
	Installments int             `json:"installments"`
	Paid         decimal.Decimal `json:"paid"`
	Percentage   decimal.Decimal `json:"percentage"`
	Remaining    decimal.Decimal `json:"remaining"`
}

// PartialGroup lists the neighbors that paid some but not all of a contribution.
type PartialGroup struct {
	Contribution models.Contribution `json:"contribution"`
	Entries      []PartialEntry      `json:"entries"`
}

type NeighborStatusLine struct {
	Neighbor     models.Neighbor `json:"neighbor"`
	Paid         decimal.Decimal `json:"paid"`
	Installments int             `json:"installments"`
	Status       Status          `json:"status"`
}

type ContributionDetail struct {
	Contribution  models.Contribution  `json:"contribution"`
	TotalExpected decimal.Decimal      `json:"totalExpected"`
	TotalReceived decimal.Decimal      `json:"totalReceived"`
	Remaining     decimal.Decimal      `json:"remaining"`
	Neighbors     []NeighborStatusLine `json:"neighbors"`
}

type LeaderboardEntry struct {
	Rank       int             `json:"rank"`
	Neighbor   models.Neighbor `json:"neighbor"`
	Paid       decimal.Decimal `json:"paid"`
	Due        decimal.Decimal `json:"due"`
	Remaining  decimal.Decimal `json:"remaining"`
	Percentage decimal.Decimal `json:"percentage"`
	Surplus    bool            `json:"surplus"`  // Paid more than is due
	UpToDate   bool            `json:"upToDate"` // Nothing remaining
}

type Leaderboard struct {
	Size    int                `json:"size"`
	Top     []LeaderboardEntry `json:"top"`
	Bottom  []LeaderboardEntry `json:"bottom"`
	Ranking []LeaderboardEntry `json:"ranking"`
}

type NeighborBalance struct {
	NeighborRow
	Contributions []ContributionLine `json:"contributions"`
}

// New creates a Ledger. The slices are not modified.
func New(neighbors []models.Neighbor, contributions []models.Contribution, payments []models.Payment) Ledger {
	l := Ledger{
		neighbors:     slices.Clone(neighbors),
		contributions: slices.Clone(contributions),
		byNeighbor:    make(map[uint64][]models.Payment, len(neighbors)),
		due:           AmountDueForNeighbor(contributions),
	}

	neighborIDs := make(map[uint64]struct{}, len(neighbors))
	for _, n := range neighbors {
		neighborIDs[n.ID] = struct{}{}
	}

	contributionIDs := make(map[uint64]struct{}, len(contributions))
	for _, c := range contributions {
		contributionIDs[c.ID] = struct{}{}
	}

	for _, p := range payments {
		_, okN := neighborIDs[p.NeighborID]
		_, okC := contributionIDs[p.ContributionID]
		if !okN || !okC {
			l.orphans++
			continue
		}

		l.payments = append(l.payments, p)
		l.byNeighbor[p.NeighborID] = append(l.byNeighbor[p.NeighborID], p)
	}

	return l
}

// FromSnapshot creates a Ledger from all collections of the snapshot.
func FromSnapshot(s models.Snapshot) Ledger {
	return New(s.Neighbors.Records, s.Contributions.Records, s.Payments.Records)
}

// Orphans returns the number of payments that are ignored because their neighbor or contribution does not exist.
func (l Ledger) Orphans() int {
	return l.orphans
}

func (l Ledger) neighborRow(n models.Neighbor) NeighborRow {
	paid := AmountPaidForNeighbor(n.ID, l.byNeighbor[n.ID])

	return NeighborRow{
		Neighbor:   n,
		Due:        l.due,
		Paid:       paid,
		Remaining:  Remaining(l.due, paid),
		Percentage: PercentagePaid(paid, l.due),
		Status:     Classify(paid, l.due),
	}
}

func (l Ledger) contributionLines(n models.Neighbor) []ContributionLine {
	payments := l.byNeighbor[n.ID]

	lines := make([]ContributionLine, 0, len(l.contributions))
	for _, c := range l.contributions {
		paid := AmountPaidForPair(n.ID, c.ID, payments)
		lines = append(lines, ContributionLine{
			Contribution: c,
			Paid:         paid,
			Remaining:    Remaining(c.AmountPerUnit, paid),
			Installments: InstallmentCount(n.ID, c.ID, payments),
			Settled:      paid.GreaterThanOrEqual(c.AmountPerUnit),
			Status:       Classify(paid, c.AmountPerUnit),
		})
	}

	return lines
}

func (l Ledger) neighborRows() []NeighborRow {
	rows := make([]NeighborRow, 0, len(l.neighbors))
	for _, n := range l.neighbors {
		rows = append(rows, l.neighborRow(n))
	}
	return rows
}

func byRemainingDesc(a, b NeighborRow) int {
	return b.Remaining.Cmp(a.Remaining)
}

// Overview returns the building totals and the balance of every neighbor.
func (l Ledger) Overview() Overview {
	collected := decimal.Zero
	for _, p := range l.payments {
		collected = collected.Add(p.AmountPaid)
	}

	expected := l.due.Mul(decimal.NewFromInt(int64(len(l.neighbors))))

	rows := l.neighborRows()
	slices.SortStableFunc(rows, byRemainingDesc)

	return Overview{
		NeighborCount:     len(l.neighbors),
		ContributionCount: len(l.contributions),
		DuePerNeighbor:    l.due,
		TotalExpected:     expected,
		TotalCollected:    collected,
		TotalOutstanding:  expected.Sub(collected),
		Neighbors:         rows,
	}
}

// Delinquency returns all neighbors that still owe money across all contributions.
func (l Ledger) Delinquency() Delinquency {
	d := Delinquency{Total: decimal.Zero, Neighbors: []DelinquentNeighbor{}}

	for _, n := range l.neighbors {
		row := l.neighborRow(n)
		if !row.Remaining.IsPositive() {
			continue
		}

		d.Total = d.Total.Add(row.Remaining)
		d.Neighbors = append(d.Neighbors, DelinquentNeighbor{
			NeighborRow:   row,
			Contributions: l.contributionLines(n),
		})
	}

	slices.SortStableFunc(d.Neighbors, func(a, b DelinquentNeighbor) int {
		return byRemainingDesc(a.NeighborRow, b.NeighborRow)
	})

	return d
}

// PartialPayments returns one group per contribution with the neighbors
// that paid more than nothing but less than the amount.
func (l Ledger) PartialPayments() []PartialGroup {
	groups := make([]PartialGroup, 0, len(l.contributions))

	for _, c := range l.contributions {
		group := PartialGroup{Contribution: c, Entries: []PartialEntry{}}

		for _, n := range l.neighbors {
			payments := l.byNeighbor[n.ID]
			paid := AmountPaidForPair(n.ID, c.ID, payments)
			if !paid.IsPositive() || !paid.LessThan(c.AmountPerUnit) {
				continue
			}

			group.Entries = append(group.Entries, PartialEntry{
				Neighbor:     n,
				Installments: InstallmentCount(n.ID, c.ID, payments),
				Paid:         paid,
				Percentage:   PercentagePaid(paid, c.AmountPerUnit),
				Remaining:    Remaining(c.AmountPerUnit, paid),
			})
		}

		groups = append(groups, group)
	}

	return groups
}

// ContributionDetails returns the totals of every contribution and the status of every neighbor for it.
func (l Ledger) ContributionDetails() []ContributionDetail {
	details := make([]ContributionDetail, 0, len(l.contributions))
	neighborCount := decimal.NewFromInt(int64(len(l.neighbors)))

	for _, c := range l.contributions {
		expected := c.AmountPerUnit.Mul(neighborCount)
		received := decimal.Zero

		lines := make([]NeighborStatusLine, 0, len(l.neighbors))
		for _, n := range l.neighbors {
			payments := l.byNeighbor[n.ID]
			paid := AmountPaidForPair(n.ID, c.ID, payments)
			received = received.Add(paid)

			lines = append(lines, NeighborStatusLine{
				Neighbor:     n,
				Paid:         paid,
				Installments: InstallmentCount(n.ID, c.ID, payments),
				Status:       Classify(paid, c.AmountPerUnit),
			})
		}

		details = append(details, ContributionDetail{
			Contribution:  c,
			TotalExpected: expected,
			TotalReceived: received,
			Remaining:     Remaining(expected, received),
			Neighbors:     lines,
		})
	}

	return details
}

// Leaderboard ranks the neighbors by the total amount they paid.
//
// Top holds the n neighbors that paid the most, Bottom the n that paid the
// least, lowest first. A size of zero or less uses DefaultLeaderboardSize.
// Size is the number of entries in Top and Bottom, which is capped at the
// number of neighbors.
func (l Ledger) Leaderboard(n int) Leaderboard {
	if n <= 0 {
		n = DefaultLeaderboardSize
	}

	entries := make([]LeaderboardEntry, 0, len(l.neighbors))
	for _, row := range l.neighborRows() {
		entries = append(entries, LeaderboardEntry{
			Neighbor:   row.Neighbor,
			Paid:       row.Paid,
			Due:        row.Due,
			Remaining:  row.Remaining,
			Percentage: row.Percentage,
			Surplus:    row.Paid.GreaterThan(row.Due),
			UpToDate:   !row.Remaining.IsPositive(),
		})
	}

	ascending := slices.Clone(entries)
	slices.SortStableFunc(ascending, func(a, b LeaderboardEntry) int {
		return a.Paid.Cmp(b.Paid)
	})

	ranking := entries
	slices.SortStableFunc(ranking, func(a, b LeaderboardEntry) int {
		return b.Paid.Cmp(a.Paid)
	})
	for i := range ranking {
		ranking[i].Rank = i + 1
	}

	// Bottom entries carry their rank in the full ranking
	rank := make(map[uint64]int, len(ranking))
	for _, e := range ranking {
		rank[e.Neighbor.ID] = e.Rank
	}
	for i := range ascending {
		ascending[i].Rank = rank[ascending[i].Neighbor.ID]
	}

	size := min(n, len(ranking))

	return Leaderboard{
		Size:    size,
		Top:     slices.Clone(ranking[:size]),
		Bottom:  slices.Clone(ascending[:size]),
		Ranking: ranking,
	}
}

// NeighborBalance returns the balance of one neighbor with one line per contribution.
func (l Ledger) NeighborBalance(id uint64) (NeighborBalance, error) {
	i := slices.IndexFunc(l.neighbors, func(n models.Neighbor) bool { return n.ID == id })
	if i < 0 {
		return NeighborBalance{}, models.ErrNeighborNotFound
	}

	n := l.neighbors[i]
	return NeighborBalance{
		NeighborRow:   l.neighborRow(n),
		Contributions: l.contributionLines(n),
	}, nil
}
