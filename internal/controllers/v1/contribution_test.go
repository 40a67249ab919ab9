package v1_test

import (
	"fmt"
	"net/http"
	"testing"
	"time"

	v1 "github.com/cotisations/backend/internal/controllers/v1"
	"github.com/cotisations/backend/internal/httputil"
	"github.com/cotisations/backend/internal/types"
	"github.com/cotisations/backend/pkg/models"
	"github.com/cotisations/backend/test"
	"github.com/stretchr/testify/assert"
)

func (suite *TestSuiteStandard) TestContributionsCreate() {
	c := suite.createTestContribution(suite.T(), v1.ContributionEditable{
		Title:         "  Elevator repair ",
		AmountPerUnit: d("250.50"),
		Kind:          models.KindService,
		EffectiveDate: types.NewDate(2024, 2, 1),
	})

	suite.Require().Nil(c.Error)
	suite.Assert().Equal("Elevator repair", c.Data.Title)
	assertDecimal(suite.T(), "250.5", c.Data.AmountPerUnit)
	suite.Assert().Equal(models.KindService, c.Data.Kind)
	suite.Assert().Equal("2024-02-01", c.Data.EffectiveDate.String())
	suite.Assert().WithinDuration(time.Now(), c.Data.CreatedAt, test.TOLERANCE)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/contributions/%d", c.Data.ID), c.Data.Links.Self)
	suite.Assert().Equal(fmt.Sprintf("http://example.com/v1/payments?contribution=%d", c.Data.ID), c.Data.Links.Payments)
}

func (suite *TestSuiteStandard) TestContributionsCreateDefaults() {
	c := suite.createTestContribution(suite.T(), v1.ContributionEditable{})

	suite.Assert().Equal(models.KindPurchase, c.Data.Kind)
	suite.Assert().True(c.Data.EffectiveDate.Equal(types.Today()))
}

func (suite *TestSuiteStandard) TestContributionsCreateFails() {
	tests := []struct {
		name   string
		body   string
		status int
		err    string
	}{
		{"Empty body", "", http.StatusBadRequest, httputil.ErrRequestBodyEmpty.Error()},
		{"Zero amount", `[{ "title": "Paint", "amountPerUnit": "0" }]`, http.StatusBadRequest, models.ErrAmountNotPositive.Error()},
		{"Negative amount", `[{ "title": "Paint", "amountPerUnit": -10 }]`, http.StatusBadRequest, models.ErrAmountNotPositive.Error()},
		{"Amount not a number", `[{ "title": "Paint", "amountPerUnit": "ten" }]`, http.StatusBadRequest, "the body of your request contains invalid"},
		{"Missing title", `[{ "amountPerUnit": 10 }]`, http.StatusBadRequest, models.ErrTitleRequired.Error()},
		{"Invalid kind", `[{ "title": "Paint", "amountPerUnit": 10, "kind": "donation" }]`, http.StatusBadRequest, models.ErrInvalidKind.Error()},
		{"Invalid date", `[{ "title": "Paint", "amountPerUnit": 10, "effectiveDate": "01.02.2024" }]`, http.StatusBadRequest, "the body of your request contains invalid"},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.Request(t, http.MethodPost, "http://example.com/v1/contributions", tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.ContributionCreateResponse
			test.DecodeResponse(t, &r, &response)

			if response.Error != nil {
				assert.Contains(t, *response.Error, tt.err)
				return
			}

			if assert.Len(t, response.Data, 1) && assert.NotNil(t, response.Data[0].Error) {
				assert.Contains(t, *response.Data[0].Error, tt.err)
			}
		})
	}

	suite.Assert().Equal(0, suite.state.Contributions().Len())
}

func (suite *TestSuiteStandard) TestContributionsGet() {
	suite.createTestContribution(suite.T(), v1.ContributionEditable{Title: "Door", Kind: models.KindPurchase})
	suite.createTestContribution(suite.T(), v1.ContributionEditable{Title: "Cleaning", Kind: models.KindService})
	suite.createTestContribution(suite.T(), v1.ContributionEditable{Title: "Lights", Kind: models.KindPurchase})

	tests := []struct {
		name   string
		query  string
		titles []string
		status int
	}{
		{"All", "", []string{"Door", "Cleaning", "Lights"}, http.StatusOK},
		{"Purchases", "kind=purchase", []string{"Door", "Lights"}, http.StatusOK},
		{"Services", "kind=service", []string{"Cleaning"}, http.StatusOK},
		{"Invalid kind", "kind=gift", nil, http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/contributions?%s", tt.query), nil)
			test.AssertHTTPStatus(t, &r, tt.status)

			var response v1.ContributionListResponse
			test.DecodeResponse(t, &r, &response)

			if tt.status != http.StatusOK {
				assert.NotNil(t, response.Error)
				return
			}

			titles := make([]string, 0, len(response.Data))
			for _, c := range response.Data {
				titles = append(titles, c.Title)
			}
			assert.Equal(t, tt.titles, titles)
		})
	}
}

func (suite *TestSuiteStandard) TestContributionsGetSingle() {
	c := suite.createTestContribution(suite.T(), v1.ContributionEditable{})

	tests := []struct {
		name   string
		id     string
		status int
	}{
		{"Existing", fmt.Sprint(c.Data.ID), http.StatusOK},
		{"Not existing", "1337", http.StatusNotFound},
		{"Zero", "0", http.StatusBadRequest},
		{"Text", "Elevator", http.StatusBadRequest},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.Request(t, http.MethodGet, fmt.Sprintf("http://example.com/v1/contributions/%s", tt.id), nil)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

// TestContributionsUpdateKeepsAmountDue verifies that payments keep the amount
// that was due when they were recorded.
func (suite *TestSuiteStandard) TestContributionsUpdateKeepsAmountDue() {
	c := suite.createTestContribution(suite.T(), v1.ContributionEditable{AmountPerUnit: d("100")})
	p := suite.createTestPayment(suite.T(), v1.PaymentEditable{ContributionID: c.Data.ID, AmountPaid: d("100")})

	r := suite.Request(suite.T(), http.MethodPatch, c.Data.Links.Self, `{ "amountPerUnit": "150", "description": "More expensive" }`)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var updated v1.ContributionResponse
	test.DecodeResponse(suite.T(), &r, &updated)
	assertDecimal(suite.T(), "150", updated.Data.AmountPerUnit)
	suite.Assert().Equal("More expensive", updated.Data.Description)
	suite.Assert().Equal(c.Data.Title, updated.Data.Title)

	r = suite.Request(suite.T(), http.MethodGet, p.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var payment v1.PaymentResponse
	test.DecodeResponse(suite.T(), &r, &payment)
	assertDecimal(suite.T(), "100", payment.Data.AmountDue)

	// The balance uses the current amount
	r = suite.Request(suite.T(), http.MethodGet, p.Data.Links.Neighbor+"/balance", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var balance v1.NeighborBalanceResponse
	test.DecodeResponse(suite.T(), &r, &balance)
	assertDecimal(suite.T(), "50", balance.Data.Remaining)
}

func (suite *TestSuiteStandard) TestContributionsUpdateFails() {
	c := suite.createTestContribution(suite.T(), v1.ContributionEditable{})

	tests := []struct {
		name   string
		id     string
		body   string
		status int
	}{
		{"Zero amount", fmt.Sprint(c.Data.ID), `{ "amountPerUnit": 0 }`, http.StatusBadRequest},
		{"Empty title", fmt.Sprint(c.Data.ID), `{ "title": " " }`, http.StatusBadRequest},
		{"Invalid kind", fmt.Sprint(c.Data.ID), `{ "kind": "loan" }`, http.StatusBadRequest},
		{"Broken body", fmt.Sprint(c.Data.ID), `{ "title": "Door`, http.StatusBadRequest},
		{"Not existing", "999", `{ "title": "Door" }`, http.StatusNotFound},
	}

	for _, tt := range tests {
		suite.T().Run(tt.name, func(t *testing.T) {
			r := suite.Request(t, http.MethodPatch, fmt.Sprintf("http://example.com/v1/contributions/%s", tt.id), tt.body)
			test.AssertHTTPStatus(t, &r, tt.status)
		})
	}
}

func (suite *TestSuiteStandard) TestContributionsDelete() {
	c := suite.createTestContribution(suite.T(), v1.ContributionEditable{})

	r := suite.Request(suite.T(), http.MethodDelete, c.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.Request(suite.T(), http.MethodDelete, c.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}

func (suite *TestSuiteStandard) TestContributionsDeleteReferenced() {
	p := suite.createTestPayment(suite.T(), v1.PaymentEditable{AmountPaid: d("20")})

	r := suite.Request(suite.T(), http.MethodDelete, p.Data.Links.Contribution, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusConflict)

	// Once the payment is gone, the contribution can be deleted
	r = suite.Request(suite.T(), http.MethodDelete, p.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	r = suite.Request(suite.T(), http.MethodDelete, p.Data.Links.Contribution, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestContributionsDeleteCascade() {
	suite.UseCascade()

	c := suite.createTestContribution(suite.T(), v1.ContributionEditable{})
	suite.createTestPayment(suite.T(), v1.PaymentEditable{ContributionID: c.Data.ID, AmountPaid: d("20")})
	other := suite.createTestPayment(suite.T(), v1.PaymentEditable{AmountPaid: d("20")})

	r := suite.Request(suite.T(), http.MethodDelete, c.Data.Links.Self, nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)

	suite.Require().Equal(1, suite.state.Payments().Len())
	suite.Assert().Equal(other.Data.ID, suite.state.Payments().Records[0].ID)
}
