// Package export writes the ledger reports to an XLSX workbook.
package export

import (
	"fmt"
	"strings"

	"github.com/cotisations/backend/pkg/ledger"
	"github.com/shopspring/decimal"
	"github.com/xuri/excelize/v2"
)

// ContentType is the MIME type of XLSX workbooks.
const ContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"

const (
	SheetOverview        = "Overview"
	SheetDelinquency     = "Delinquency"
	SheetPartialPayments = "Partial payments"
	SheetContributions   = "Contributions"
	SheetLeaderboard     = "Leaderboard"
)

type Options struct {
	LeaderboardSize int
	Currency        string // Label added to the headers of amount columns
}

// Workbook creates a workbook with one sheet per report.
//
// The caller must close the returned file.
func Workbook(l ledger.Ledger, opts Options) (*excelize.File, error) {
	f := excelize.NewFile()

	bold, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Bold: true}})
	if err != nil {
		_ = f.Close()
		return nil, err
	}

	sheets := []struct {
		name string
		rows [][]any
	}{
		{SheetOverview, overviewRows(l.Overview(), opts.Currency)},
		{SheetDelinquency, delinquencyRows(l.Delinquency(), opts.Currency)},
		{SheetPartialPayments, partialRows(l.PartialPayments(), opts.Currency)},
		{SheetContributions, contributionRows(l.ContributionDetails(), opts.Currency)},
		{SheetLeaderboard, leaderboardRows(l.Leaderboard(opts.LeaderboardSize), opts.Currency)},
	}

	for i, s := range sheets {
		if i == 0 {
			err = f.SetSheetName(f.GetSheetName(0), s.name)
		} else {
			_, err = f.NewSheet(s.name)
		}
		if err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("could not create sheet %s: %w", s.name, err)
		}

		if err := writeRows(f, s.name, s.rows); err != nil {
			_ = f.Close()
			return nil, fmt.Errorf("could not write sheet %s: %w", s.name, err)
		}

		if err := f.SetRowStyle(s.name, 1, 1, bold); err != nil {
			_ = f.Close()
			return nil, err
		}
	}

	f.SetActiveSheet(0)
	return f, nil
}

func writeRows(f *excelize.File, sheet string, rows [][]any) error {
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		if err != nil {
			return err
		}

		if err := f.SetSheetRow(sheet, cell, &row); err != nil {
			return err
		}
	}

	return nil
}

// money converts an amount for a numeric cell.
func money(d decimal.Decimal) float64 {
	return d.InexactFloat64()
}

// amount returns a header with the currency label.
func amount(header, currency string) string {
	if currency == "" {
		return header
	}
	return fmt.Sprintf("%s (%s)", header, currency)
}

func overviewRows(o ledger.Overview, currency string) [][]any {
	rows := [][]any{{
		"Floor", "Unit", "Name",
		amount("Due", currency), amount("Paid", currency), amount("Remaining", currency),
		"Percentage", "Status",
	}}

	for _, r := range o.Neighbors {
		rows = append(rows, []any{
			r.Neighbor.Floor, r.Neighbor.Unit, r.Neighbor.Name,
			money(r.Due), money(r.Paid), money(r.Remaining),
			money(r.Percentage), string(r.Status.Kind),
		})
	}

	return append(rows, []any{
		"Total", fmt.Sprintf("%d neighbors", o.NeighborCount), fmt.Sprintf("%d contributions", o.ContributionCount),
		money(o.TotalExpected), money(o.TotalCollected), money(o.TotalOutstanding),
	})
}

func delinquencyRows(d ledger.Delinquency, currency string) [][]any {
	rows := [][]any{{
		"Floor", "Unit", "Name", "Contribution",
		amount("Amount", currency), amount("Paid", currency), amount("Remaining", currency),
		"Installments", "Settled",
	}}

	for _, n := range d.Neighbors {
		for _, line := range n.Contributions {
			rows = append(rows, []any{
				n.Neighbor.Floor, n.Neighbor.Unit, n.Neighbor.Name, line.Contribution.Title,
				money(line.Contribution.AmountPerUnit), money(line.Paid), money(line.Remaining),
				line.Installments, line.Settled,
			})
		}
	}

	return append(rows, []any{"Total", "", "", "", "", "", money(d.Total)})
}

func partialRows(groups []ledger.PartialGroup, currency string) [][]any {
	rows := [][]any{{
		"Contribution", "Floor", "Unit", "Name", "Installments",
		amount("Paid", currency), "Percentage", amount("Remaining", currency),
	}}

	for _, g := range groups {
		for _, e := range g.Entries {
			rows = append(rows, []any{
				g.Contribution.Title, e.Neighbor.Floor, e.Neighbor.Unit, e.Neighbor.Name, e.Installments,
				money(e.Paid), money(e.Percentage), money(e.Remaining),
			})
		}
	}

	return rows
}

func contributionRows(details []ledger.ContributionDetail, currency string) [][]any {
	rows := [][]any{{
		"Title", "Kind", "Effective date",
		amount("Amount per unit", currency), amount("Total expected", currency),
		amount("Total received", currency), amount("Remaining", currency),
		"Complete", "Partial", "Unpaid", "Overpaid",
	}}

	for _, d := range details {
		counts := map[ledger.StatusKind]int{}
		for _, n := range d.Neighbors {
			counts[n.Status.Kind]++
		}

		rows = append(rows, []any{
			d.Contribution.Title, string(d.Contribution.Kind), d.Contribution.EffectiveDate.String(),
			money(d.Contribution.AmountPerUnit), money(d.TotalExpected),
			money(d.TotalReceived), money(d.Remaining),
			counts[ledger.StatusComplete], counts[ledger.StatusPartial], counts[ledger.StatusUnpaid], counts[ledger.StatusOverpaid],
		})
	}

	return rows
}

func leaderboardRows(l ledger.Leaderboard, currency string) [][]any {
	rows := [][]any{{
		"Rank", "Floor", "Unit", "Name",
		amount("Paid", currency), amount("Due", currency), amount("Remaining", currency),
		"Percentage", "Surplus", "Up to date", "Group",
	}}

	top := make(map[uint64]bool, len(l.Top))
	for _, e := range l.Top {
		top[e.Neighbor.ID] = true
	}

	bottom := make(map[uint64]bool, len(l.Bottom))
	for _, e := range l.Bottom {
		bottom[e.Neighbor.ID] = true
	}

	for _, e := range l.Ranking {
		var groups []string
		if top[e.Neighbor.ID] {
			groups = append(groups, fmt.Sprintf("Top %d", l.Size))
		}
		if bottom[e.Neighbor.ID] {
			groups = append(groups, fmt.Sprintf("Bottom %d", l.Size))
		}

		rows = append(rows, []any{
			e.Rank, e.Neighbor.Floor, e.Neighbor.Unit, e.Neighbor.Name,
			money(e.Paid), money(e.Due), money(e.Remaining),
			money(e.Percentage), e.Surplus, e.UpToDate, strings.Join(groups, ", "),
		})
	}

	return rows
}
