package v1_test

import (
	"net/http"
	"testing"

	v1 "github.com/cotisations/backend/internal/controllers/v1"
	"github.com/cotisations/backend/test"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func d(s string) decimal.Decimal {
	return decimal.RequireFromString(s)
}

func (suite *TestSuiteStandard) createTestNeighbor(t *testing.T, n v1.NeighborEditable, expectedStatus ...int) v1.NeighborResponse {
	if n.Unit == "" {
		n.Unit = uuid.NewString()[:8]
	}

	// Default to 201 Created as expected status
	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := suite.Request(t, http.MethodPost, "http://example.com/v1/neighbors", []v1.NeighborEditable{n})
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.NeighborCreateResponse
	test.DecodeResponse(t, &r, &response)

	if len(response.Data) == 0 {
		return v1.NeighborResponse{Error: response.Error}
	}

	return response.Data[0]
}

func (suite *TestSuiteStandard) createTestContribution(t *testing.T, c v1.ContributionEditable, expectedStatus ...int) v1.ContributionResponse {
	if c.Title == "" {
		c.Title = "Contribution " + uuid.NewString()[:8]
	}

	if c.AmountPerUnit.IsZero() {
		c.AmountPerUnit = d("100")
	}

	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := suite.Request(t, http.MethodPost, "http://example.com/v1/contributions", []v1.ContributionEditable{c})
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.ContributionCreateResponse
	test.DecodeResponse(t, &r, &response)

	if len(response.Data) == 0 {
		return v1.ContributionResponse{Error: response.Error}
	}

	return response.Data[0]
}

// createTestPayment records a payment. Neighbor and contribution are created if they are not set.
func (suite *TestSuiteStandard) createTestPayment(t *testing.T, p v1.PaymentEditable, expectedStatus ...int) v1.PaymentResponse {
	if p.NeighborID == 0 {
		p.NeighborID = suite.createTestNeighbor(t, v1.NeighborEditable{}).Data.ID
	}

	if p.ContributionID == 0 {
		p.ContributionID = suite.createTestContribution(t, v1.ContributionEditable{}).Data.ID
	}

	if len(expectedStatus) == 0 {
		expectedStatus = append(expectedStatus, http.StatusCreated)
	}

	r := suite.Request(t, http.MethodPost, "http://example.com/v1/payments", []v1.PaymentEditable{p})
	test.AssertHTTPStatus(t, &r, expectedStatus...)

	var response v1.PaymentCreateResponse
	test.DecodeResponse(t, &r, &response)

	if len(response.Data) == 0 {
		return v1.PaymentResponse{Error: response.Error}
	}

	return response.Data[0]
}

// assertDecimal verifies that the amount equals the expected value exactly.
func assertDecimal(t *testing.T, expected string, actual decimal.Decimal) {
	t.Helper()
	assert.True(t, d(expected).Equal(actual), "expected %s, got %s", expected, actual.String())
}
