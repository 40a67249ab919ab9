package v1_test

import (
	"fmt"
	"net/http"
	"testing"

	v1 "github.com/cotisations/backend/internal/controllers/v1"
	"github.com/cotisations/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestOptions() {
	p := suite.createTestPayment(suite.T(), v1.PaymentEditable{AmountPaid: d("10")})

	tests := []struct {
		path   string
		status int
		allow  string
	}{
		{"/v1", http.StatusNoContent, "OPTIONS, GET"},
		{"/v1/neighbors", http.StatusNoContent, "OPTIONS, GET, POST"},
		{fmt.Sprintf("/v1/neighbors/%d", p.Data.NeighborID), http.StatusNoContent, "OPTIONS, GET, PATCH, DELETE"},
		{fmt.Sprintf("/v1/neighbors/%d/balance", p.Data.NeighborID), http.StatusNoContent, "OPTIONS, GET"},
		{"/v1/contributions", http.StatusNoContent, "OPTIONS, GET, POST"},
		{fmt.Sprintf("/v1/contributions/%d", p.Data.ContributionID), http.StatusNoContent, "OPTIONS, GET, PATCH, DELETE"},
		{"/v1/payments", http.StatusNoContent, "OPTIONS, GET, POST"},
		{fmt.Sprintf("/v1/payments/%d", p.Data.ID), http.StatusNoContent, "OPTIONS, GET, PATCH, DELETE"},
		{"/v1/reports", http.StatusNoContent, "OPTIONS, GET"},
		{"/v1/reports/overview", http.StatusNoContent, "OPTIONS, GET"},
		{"/v1/reports/leaderboard", http.StatusNoContent, "OPTIONS, GET"},
		{"/v1/reports/export", http.StatusNoContent, "OPTIONS, GET"},
		{"/healthz", http.StatusNoContent, "OPTIONS, GET"},

		{"/v1/neighbors/404", http.StatusNotFound, ""},
		{"/v1/neighbors/404/balance", http.StatusNotFound, ""},
		{"/v1/contributions/404", http.StatusNotFound, ""},
		{"/v1/payments/404", http.StatusNotFound, ""},
		{"/v1/neighbors/Alami", http.StatusBadRequest, ""},
		{"/v1/payments/-3", http.StatusBadRequest, ""},
	}

	for _, tt := range tests {
		suite.T().Run(tt.path, func(t *testing.T) {
			r := suite.Request(t, http.MethodOptions, "http://example.com"+tt.path, nil)
			test.AssertHTTPStatus(t, &r, tt.status)
			assert.Equal(t, tt.allow, r.Header().Get("allow"))

			if tt.status != http.StatusNoContent {
				assert.NotEmpty(t, test.DecodeError(t, r.Body.Bytes()))
			}
		})
	}
}
