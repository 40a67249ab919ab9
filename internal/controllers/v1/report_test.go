package v1_test

import (
	"bytes"
	"fmt"
	"net/http"
	"strings"
	"testing"

	v1 "github.com/cotisations/backend/internal/controllers/v1"
	"github.com/cotisations/backend/internal/export"
	"github.com/cotisations/backend/pkg/ledger"
	"github.com/cotisations/backend/test"
	"github.com/stretchr/testify/assert"
	"github.com/xuri/excelize/v2"
)

// createBuilding creates two neighbors and two contributions of 50 and 75.
// B pays everything, A nothing.
func (suite *TestSuiteStandard) createBuilding() (a, b v1.NeighborResponse) {
	a = suite.createTestNeighbor(suite.T(), v1.NeighborEditable{Floor: 0, Unit: "A", Name: "Alami"})
	b = suite.createTestNeighbor(suite.T(), v1.NeighborEditable{Floor: 0, Unit: "B", Name: "Berrada"})
	c1 := suite.createTestContribution(suite.T(), v1.ContributionEditable{Title: "Door", AmountPerUnit: d("50")})
	c2 := suite.createTestContribution(suite.T(), v1.ContributionEditable{Title: "Paint", AmountPerUnit: d("75")})

	suite.createTestPayment(suite.T(), v1.PaymentEditable{NeighborID: b.Data.ID, ContributionID: c1.Data.ID, AmountPaid: d("50")})
	suite.createTestPayment(suite.T(), v1.PaymentEditable{NeighborID: b.Data.ID, ContributionID: c2.Data.ID, AmountPaid: d("75")})

	return a, b
}

func (suite *TestSuiteStandard) TestReports() {
	r := suite.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ReportsResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Assert().Equal("http://example.com/v1/reports/overview", response.Links.Overview)
	suite.Assert().Equal("http://example.com/v1/reports/delinquency", response.Links.Delinquency)
	suite.Assert().Equal("http://example.com/v1/reports/partial-payments", response.Links.PartialPayments)
	suite.Assert().Equal("http://example.com/v1/reports/contributions", response.Links.Contributions)
	suite.Assert().Equal("http://example.com/v1/reports/leaderboard", response.Links.Leaderboard)
	suite.Assert().Equal("http://example.com/v1/reports/export", response.Links.Export)
}

func (suite *TestSuiteStandard) TestReportsOverview() {
	a, b := suite.createBuilding()

	r := suite.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/overview", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.OverviewResponse
	test.DecodeResponse(suite.T(), &r, &response)

	o := response.Data
	suite.Assert().Equal(2, o.NeighborCount)
	suite.Assert().Equal(2, o.ContributionCount)
	assertDecimal(suite.T(), "125", o.DuePerNeighbor)
	assertDecimal(suite.T(), "250", o.TotalExpected)
	assertDecimal(suite.T(), "125", o.TotalCollected)
	assertDecimal(suite.T(), "125", o.TotalOutstanding)

	suite.Require().Len(o.Neighbors, 2)
	suite.Assert().Equal(a.Data.ID, o.Neighbors[0].Neighbor.ID, "Highest remaining amount first")
	suite.Assert().Equal(ledger.StatusUnpaid, o.Neighbors[0].Status.Kind)
	suite.Assert().Equal(b.Data.ID, o.Neighbors[1].Neighbor.ID)
	suite.Assert().Equal(ledger.StatusComplete, o.Neighbors[1].Status.Kind)
	assertDecimal(suite.T(), "100", o.Neighbors[1].Percentage)
}

func (suite *TestSuiteStandard) TestReportsOverviewEmpty() {
	r := suite.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/overview", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.OverviewResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Assert().Equal(0, response.Data.NeighborCount)
	assertDecimal(suite.T(), "0", response.Data.TotalExpected)
	assertDecimal(suite.T(), "0", response.Data.TotalOutstanding)
}

func (suite *TestSuiteStandard) TestReportsDelinquency() {
	a, _ := suite.createBuilding()

	r := suite.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/delinquency", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.DelinquencyResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().Len(response.Data.Neighbors, 1)
	suite.Assert().Equal(a.Data.ID, response.Data.Neighbors[0].Neighbor.ID)
	assertDecimal(suite.T(), "125", response.Data.Neighbors[0].Remaining)
	assertDecimal(suite.T(), "125", response.Data.Total)
	suite.Assert().Len(response.Data.Neighbors[0].Contributions, 2)
}

func (suite *TestSuiteStandard) TestReportsPartialPayments() {
	n := suite.createTestNeighbor(suite.T(), v1.NeighborEditable{Floor: 0, Unit: "1"})
	c := suite.createTestContribution(suite.T(), v1.ContributionEditable{AmountPerUnit: d("100")})
	suite.createTestContribution(suite.T(), v1.ContributionEditable{AmountPerUnit: d("20")})
	suite.createTestPayment(suite.T(), v1.PaymentEditable{NeighborID: n.Data.ID, ContributionID: c.Data.ID, AmountPaid: d("30")})
	suite.createTestPayment(suite.T(), v1.PaymentEditable{NeighborID: n.Data.ID, ContributionID: c.Data.ID, AmountPaid: d("30")})

	r := suite.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/partial-payments", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.PartialPaymentsResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().Len(response.Data, 2)
	suite.Require().Len(response.Data[0].Entries, 1)
	entry := response.Data[0].Entries[0]
	suite.Assert().Equal(2, entry.Installments)
	assertDecimal(suite.T(), "60", entry.Paid)
	assertDecimal(suite.T(), "60", entry.Percentage)
	assertDecimal(suite.T(), "40", entry.Remaining)

	suite.Assert().Empty(response.Data[1].Entries, "Unpaid contributions are not partial")
}

func (suite *TestSuiteStandard) TestReportsContributionDetails() {
	suite.createBuilding()

	r := suite.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/contributions", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.ContributionDetailsResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().Len(response.Data, 2)
	door := response.Data[0]
	suite.Assert().Equal("Door", door.Contribution.Title)
	assertDecimal(suite.T(), "100", door.TotalExpected)
	assertDecimal(suite.T(), "50", door.TotalReceived)
	assertDecimal(suite.T(), "50", door.Remaining)
	suite.Require().Len(door.Neighbors, 2)
	suite.Assert().Equal(ledger.StatusUnpaid, door.Neighbors[0].Status.Kind)
	suite.Assert().Equal(ledger.StatusComplete, door.Neighbors[1].Status.Kind)
	suite.Assert().Equal(1, door.Neighbors[1].Installments)
}

func (suite *TestSuiteStandard) TestReportsLeaderboard() {
	c := suite.createTestContribution(suite.T(), v1.ContributionEditable{AmountPerUnit: d("100")})
	for _, amount := range []string{"10", "50", "100", "120"} {
		n := suite.createTestNeighbor(suite.T(), v1.NeighborEditable{})
		suite.createTestPayment(suite.T(), v1.PaymentEditable{NeighborID: n.Data.ID, ContributionID: c.Data.ID, AmountPaid: d(amount)})
	}
	suite.createTestNeighbor(suite.T(), v1.NeighborEditable{})

	tests := []struct {
		name   string
		query  string
		status int
		size   int
		top    []string
		bottom []string
	}{
		{"Configured size", "", http.StatusOK, 3, []string{"120", "100", "50"}, []string{"0", "10", "50"}},
		{"Limit", "limit=1", http.StatusOK, 1, []string{"120"}, []string{"0"}},
		{"Limit larger than neighbors", "limit=10", http.StatusOK, 5, []string{"120", "100", "50", "10", "0"}, []string{"0", "10", "50", "100", "120"}},
		{"Zero uses the default", "limit=0", http.StatusOK, ledger.DefaultLeaderboardSize, []string{"120", "100", "50", "10", "0"}, []string{"0", "10", "50", "100", "120"}},
		{"Negative", "limit=-1", http.StatusBadRequest, 0, nil, nil},
		{"Not a number", "limit=all", http.StatusBadRequest, 0, nil, nil},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/reports/leaderboard?%s", tt.query), nil)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.LeaderboardResponse
			test.DecodeResponse(t, &r, &response)

			if tt.status != http.StatusOK {
				assert.NotNil(t, response.Error)
				return
			}

			paid := func(entries []ledger.LeaderboardEntry) []string {
				s := make([]string, 0, len(entries))
				for _, e := range entries {
					s = append(s, e.Paid.String())
				}
				return s
			}

			assert.Equal(t, tt.size, response.Data.Size)
			assert.Equal(t, tt.top, paid(response.Data.Top))
			assert.Equal(t, tt.bottom, paid(response.Data.Bottom))
			assert.Len(t, response.Data.Ranking, 5)
		})
	}
}

func (suite *TestSuiteStandard) TestReportsLeaderboardFlags() {
	c := suite.createTestContribution(suite.T(), v1.ContributionEditable{AmountPerUnit: d("100")})
	p := suite.createTestPayment(suite.T(), v1.PaymentEditable{ContributionID: c.Data.ID, AmountPaid: d("120")})

	r := suite.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/leaderboard", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.LeaderboardResponse
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Require().Len(response.Data.Top, 1)
	first := response.Data.Top[0]
	suite.Assert().Equal(p.Data.NeighborID, first.Neighbor.ID)
	suite.Assert().Equal(1, first.Rank)
	suite.Assert().True(first.Surplus)
	suite.Assert().True(first.UpToDate)
	assertDecimal(suite.T(), "-20", first.Remaining)
}

// TestReportsAfterDelete verifies that reports keep working after a
// contribution with payments is deleted or its deletion is refused.
func (suite *TestSuiteStandard) TestReportsAfterDelete() {
	for _, cascade := range []bool{false, true} {
		suite.T().Run(fmt.Sprintf("cascade=%t", cascade), func(t *testing.T) {
			expected := http.StatusConflict
			if cascade {
				suite.UseCascade()
				expected = http.StatusNoContent
			}

			p := suite.createTestPayment(t, v1.PaymentEditable{AmountPaid: d("60")})
			r := suite.Request(t, http.MethodDelete, p.Data.Links.Contribution, nil)
			test.AssertHTTPStatus(t, &r, expected)

			for _, path := range []string{"overview", "delinquency", "partial-payments", "contributions", "leaderboard", "export"} {
				r := suite.Request(t, http.MethodGet, "http://example.com/v1/reports/"+path, nil)
				test.AssertHTTPStatus(t, &r, http.StatusOK)
			}
		})
	}
}

func (suite *TestSuiteStandard) TestReportsExport() {
	suite.createBuilding()

	r := suite.Request(suite.T(), http.MethodGet, "http://example.com/v1/reports/export", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	suite.Assert().Equal(export.ContentType, r.Header().Get("Content-Type"))
	disposition := r.Header().Get("Content-Disposition")
	suite.Assert().True(strings.HasPrefix(disposition, `attachment; filename="cotisations-`), disposition)
	suite.Assert().True(strings.HasSuffix(disposition, `.xlsx"`), disposition)

	f, err := excelize.OpenReader(bytes.NewReader(r.Body.Bytes()))
	suite.Require().Nil(err)
	defer f.Close()

	suite.Assert().Equal([]string{
		export.SheetOverview,
		export.SheetDelinquency,
		export.SheetPartialPayments,
		export.SheetContributions,
		export.SheetLeaderboard,
	}, f.GetSheetList())

	rows, err := f.GetRows(export.SheetOverview)
	suite.Require().Nil(err)
	suite.Assert().Len(rows, 4, "Header, two neighbors and the total")
	suite.Assert().Contains(strings.Join(rows[0], ","), "(DH)")
}
