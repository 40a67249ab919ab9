package v1

import (
	"net/http"

	"github.com/cotisations/backend/internal/httputil"
	"github.com/gin-gonic/gin"
)

// RegisterHealthzRoutes registers the routes for the healthz endpoint.
func (co Controller) RegisterHealthzRoutes(r *gin.RouterGroup) {
	r.OPTIONS("", co.OptionsHealthz)
	r.GET("", co.GetHealthz)
}

// OptionsHealthz returns the allowed HTTP verbs
func (co Controller) OptionsHealthz(c *gin.Context) {
	httputil.OptionsGet(c)
}

// GetHealthz returns 204 if the storage is reachable.
func (co Controller) GetHealthz(c *gin.Context) {
	if err := co.state.Ping(c.Request.Context()); err != nil {
		c.JSON(http.StatusInternalServerError, httputil.HTTPError{
			Error: *errorMessage(c, err),
		})
		return
	}

	c.Status(http.StatusNoContent)
}
