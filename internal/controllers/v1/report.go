package v1

import (
	"fmt"
	"net/http"
	"time"

	"github.com/cotisations/backend/internal/export"
	"github.com/cotisations/backend/internal/httputil"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterReportRoutes registers the routes for reports with
// the RouterGroup that is passed.
func (co Controller) RegisterReportRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", httputil.OptionsGet)
	r.GET("", co.GetReports)

	for path, handler := range map[string]gin.HandlerFunc{
		"/overview":         co.GetOverview,
		"/delinquency":      co.GetDelinquency,
		"/partial-payments": co.GetPartialPayments,
		"/contributions":    co.GetContributionDetails,
		"/leaderboard":      co.GetLeaderboard,
		"/export":           co.GetExport,
	} {
		r.OPTIONS(path, httputil.OptionsGet)
		r.GET(path, handler)
	}
}

// GetReports returns the link list for all reports
func (co Controller) GetReports(c *gin.Context) {
	url := c.GetString(string(httputil.ContextURL)) + "/v1/reports"

	c.JSON(http.StatusOK, ReportsResponse{
		Links: ReportLinks{
			Overview:        url + "/overview",
			Delinquency:     url + "/delinquency",
			PartialPayments: url + "/partial-payments",
			Contributions:   url + "/contributions",
			Leaderboard:     url + "/leaderboard",
			Export:          url + "/export",
		},
	})
}

// GetOverview returns the totals of the building and the balance of every
// neighbor, highest remaining amount first.
func (co Controller) GetOverview(c *gin.Context) {
	overview := co.state.Ledger().Overview()
	c.JSON(http.StatusOK, OverviewResponse{Data: &overview})
}

// GetDelinquency returns all neighbors that still owe money.
func (co Controller) GetDelinquency(c *gin.Context) {
	delinquency := co.state.Ledger().Delinquency()
	c.JSON(http.StatusOK, DelinquencyResponse{Data: &delinquency})
}

func (co Controller) GetPartialPayments(c *gin.Context) {
	c.JSON(http.StatusOK, PartialPaymentsResponse{Data: co.state.Ledger().PartialPayments()})
}

func (co Controller) GetContributionDetails(c *gin.Context) {
	c.JSON(http.StatusOK, ContributionDetailsResponse{Data: co.state.Ledger().ContributionDetails()})
}

// GetLeaderboard returns the neighbors ranked by the amount they paid.
func (co Controller) GetLeaderboard(c *gin.Context) {
	var filter LeaderboardQueryFilter
	if err := httputil.BindQuery(c, &filter); err != nil {
		c.JSON(status(err), LeaderboardResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	limit := co.state.LeaderboardSize()
	if slices.Contains(httputil.GetURLFields(c.Request.URL, filter), "Limit") {
		limit = filter.Limit
	}

	leaderboard := co.state.Ledger().Leaderboard(limit)
	c.JSON(http.StatusOK, LeaderboardResponse{Data: &leaderboard})
}

// GetExport returns all reports as XLSX workbook.
func (co Controller) GetExport(c *gin.Context) {
	f, err := export.Workbook(co.state.Ledger(), export.Options{
		LeaderboardSize: co.state.LeaderboardSize(),
		Currency:        co.currency,
	})
	if err != nil {
		c.JSON(status(err), httputil.HTTPError{Error: *errorMessage(c, err)})
		return
	}
	defer f.Close()

	buf, err := f.WriteToBuffer()
	if err != nil {
		c.JSON(status(err), httputil.HTTPError{Error: *errorMessage(c, err)})
		return
	}

	filename := fmt.Sprintf("cotisations-%s.xlsx", time.Now().Format("2006-01-02"))
	c.Header("Content-Disposition", fmt.Sprintf("attachment; filename=%q", filename))
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}
