package v1_test

import (
	"net/http"

	v1 "github.com/cotisations/backend/internal/controllers/v1"
	"github.com/cotisations/backend/pkg/models"
	"github.com/cotisations/backend/test"
)

func (suite *TestSuiteStandard) TestGet() {
	r := suite.Request(suite.T(), http.MethodGet, "http://example.com/v1", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusOK)

	var response v1.Response
	test.DecodeResponse(suite.T(), &r, &response)

	suite.Assert().Equal("http://example.com/v1/neighbors", response.Links.Neighbors)
	suite.Assert().Equal("http://example.com/v1/contributions", response.Links.Contributions)
	suite.Assert().Equal("http://example.com/v1/payments", response.Links.Payments)
	suite.Assert().Equal("http://example.com/v1/reports", response.Links.Reports)
}

func (suite *TestSuiteStandard) TestHealthz() {
	r := suite.Request(suite.T(), http.MethodGet, "http://example.com/healthz", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNoContent)
}

func (suite *TestSuiteStandard) TestHealthzStorageFailure() {
	suite.BreakStorage()

	r := suite.Request(suite.T(), http.MethodGet, "http://example.com/healthz", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusInternalServerError)
	suite.Assert().Equal(models.ErrGeneral.Error(), test.DecodeError(suite.T(), r.Body.Bytes()))
}

func (suite *TestSuiteStandard) TestMethodNotAllowed() {
	r := suite.Request(suite.T(), http.MethodPut, "http://example.com/v1/neighbors", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusMethodNotAllowed)

	r = suite.Request(suite.T(), http.MethodGet, "http://example.com/v1/apartments", nil)
	test.AssertHTTPStatus(suite.T(), &r, http.StatusNotFound)
}
