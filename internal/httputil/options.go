package httputil

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

// allow answers an OPTIONS request with the methods of the endpoint.
func allow(c *gin.Context, methods ...string) {
	c.Header("allow", strings.Join(append([]string{http.MethodOptions}, methods...), ", "))
	c.Status(http.StatusNoContent)
}

// AllowIf answers an OPTIONS request for a single resource. The methods are
// only sent if exists passes, otherwise exists has written the error response.
func AllowIf(c *gin.Context, exists func(*gin.Context) bool, methods ...string) {
	if !exists(c) {
		return
	}
	allow(c, methods...)
}

func OptionsGet(c *gin.Context) {
	allow(c, http.MethodGet)
}

func OptionsGetPost(c *gin.Context) {
	allow(c, http.MethodGet, http.MethodPost)
}

func OptionsGetPatchDelete(c *gin.Context) {
	allow(c, http.MethodGet, http.MethodPatch, http.MethodDelete)
}
