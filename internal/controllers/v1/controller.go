// Package v1 is the JSON HTTP API for neighbors, contributions, payments and reports.
package v1

import (
	"errors"
	"net/http"

	"github.com/cotisations/backend/internal/httputil"
	"github.com/cotisations/backend/pkg/models"
	"github.com/cotisations/backend/pkg/state"
	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
)

// Controller handles all v1 requests on the application state.
type Controller struct {
	state    *state.State
	currency string
}

// New returns a controller for the state. The currency is used as label in exports.
func New(s *state.State, currency string) Controller {
	return Controller{state: s, currency: currency}
}

type URIID struct {
	ID uint64 `uri:"id" binding:"required"` // ID of the resource
}

// bindID binds the ID of the resource from the path.
func bindID(c *gin.Context) (uint64, error) {
	var uri URIID
	if err := c.ShouldBindUri(&uri); err != nil {
		return 0, httputil.ErrInvalidID
	}
	return uri.ID, nil
}

// exists returns a check for OPTIONS requests on the resource with the ID
// in the path. If the ID is invalid or find fails, the error is sent.
func exists(find func(id uint64) error) func(*gin.Context) bool {
	return func(c *gin.Context) bool {
		id, err := bindID(c)
		if err == nil {
			err = find(id)
		}

		if err != nil {
			c.JSON(status(err), httputil.HTTPError{Error: *errorMessage(c, err)})
			return false
		}
		return true
	}
}

// status returns the HTTP status code for an error.
func status(err error) int {
	switch {
	case errors.Is(err, models.ErrResourceNotFound):
		return http.StatusNotFound
	case errors.Is(err, models.ErrReferenced):
		return http.StatusConflict
	case errors.Is(err, models.ErrInvalid), httputil.IsRequestError(err):
		return http.StatusBadRequest
	}

	return http.StatusInternalServerError
}

// errorMessage returns the message for the error that is sent to the client.
//
// Server errors are logged and replaced with a general message.
func errorMessage(c *gin.Context, err error) *string {
	if status(err) >= http.StatusInternalServerError {
		log.Error().Str("request-id", requestid.Get(c)).Msgf("%T: %v", err, err.Error())
		s := models.ErrGeneral.Error()
		return &s
	}

	s := err.Error()
	return &s
}

// RegisterRoutes registers all v1 routes with the RouterGroup that is passed.
func (co Controller) RegisterRoutes(r *gin.RouterGroup) {
	r.GET("", Get)
	r.OPTIONS("", Options)

	co.RegisterNeighborRoutes(r.Group("/neighbors"))
	co.RegisterContributionRoutes(r.Group("/contributions"))
	co.RegisterPaymentRoutes(r.Group("/payments"))
	co.RegisterReportRoutes(r.Group("/reports"))
}

type Response struct {
	Links Links `json:"links"` // Links for the v1 API
}

type Links struct {
	Neighbors     string `json:"neighbors" example:"https://example.com/api/v1/neighbors"`         // URL of neighbor list endpoint
	Contributions string `json:"contributions" example:"https://example.com/api/v1/contributions"` // URL of contribution list endpoint
	Payments      string `json:"payments" example:"https://example.com/api/v1/payments"`           // URL of payment list endpoint
	Reports       string `json:"reports" example:"https://example.com/api/v1/reports"`             // URL of report list endpoint
}

// Get returns the link list for v1
func Get(c *gin.Context) {
	url := c.GetString(string(httputil.ContextURL))

	c.JSON(http.StatusOK, Response{
		Links: Links{
			Neighbors:     url + "/v1/neighbors",
			Contributions: url + "/v1/contributions",
			Payments:      url + "/v1/payments",
			Reports:       url + "/v1/reports",
		},
	})
}

// Options returns the allowed HTTP methods
func Options(c *gin.Context) {
	httputil.OptionsGet(c)
}
