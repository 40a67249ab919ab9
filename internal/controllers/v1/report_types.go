package v1

import (
	"fmt"

	"github.com/cotisations/backend/internal/httputil"
	"github.com/cotisations/backend/pkg/ledger"
	"github.com/gin-gonic/gin"
)

type ReportLinks struct {
	Overview        string `json:"overview" example:"https://example.com/api/v1/reports/overview"`
	Delinquency     string `json:"delinquency" example:"https://example.com/api/v1/reports/delinquency"`
	PartialPayments string `json:"partialPayments" example:"https://example.com/api/v1/reports/partial-payments"`
	Contributions   string `json:"contributions" example:"https://example.com/api/v1/reports/contributions"`
	Leaderboard     string `json:"leaderboard" example:"https://example.com/api/v1/reports/leaderboard"`
	Export          string `json:"export" example:"https://example.com/api/v1/reports/export"` // All reports as XLSX workbook
}

type ReportsResponse struct {
	Links ReportLinks `json:"links"`
}

type OverviewResponse struct {
	Data  *ledger.Overview `json:"data"`
	Error *string          `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
}

type DelinquencyResponse struct {
	Data  *ledger.Delinquency `json:"data"`
	Error *string             `json:"error" example:"an error occurred on the server during your request"` // The error, if any occurred
}

type PartialPaymentsResponse struct {
	Data  []ledger.PartialGroup `json:"data"` // One group per contribution
	Error *string               `json:"error" example:"an error occurred on the server during your request"`
}

type ContributionDetailsResponse struct {
	Data  []ledger.ContributionDetail `json:"data"` // One entry per contribution
	Error *string                     `json:"error" example:"an error occurred on the server during your request"`
}

type LeaderboardResponse struct {
	Data  *ledger.Leaderboard `json:"data"`
	Error *string             `json:"error" example:"the data you sent is not valid: Limit must be at least 0"` // The error, if any occurred
}

type LeaderboardQueryFilter struct {
	Limit int `form:"limit" binding:"gte=0"` // Number of neighbors at the top and the bottom. Defaults to the configured size.
}

type NeighborBalanceLinks struct {
	Neighbor string `json:"neighbor" example:"https://example.com/api/v1/neighbors/3"`         // The neighbor
	Payments string `json:"payments" example:"https://example.com/api/v1/payments?neighbor=3"` // Payments of the neighbor
}

type NeighborBalance struct {
	ledger.NeighborBalance
	Links NeighborBalanceLinks `json:"links"`
}

func newNeighborBalance(c *gin.Context, balance ledger.NeighborBalance) NeighborBalance {
	url := c.GetString(string(httputil.ContextURL))

	return NeighborBalance{
		NeighborBalance: balance,
		Links: NeighborBalanceLinks{
			Neighbor: fmt.Sprintf("%s/v1/neighbors/%d", url, balance.Neighbor.ID),
			Payments: fmt.Sprintf("%s/v1/payments?neighbor=%d", url, balance.Neighbor.ID),
		},
	}
}
