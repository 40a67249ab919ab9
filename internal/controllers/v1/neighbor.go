package v1

import (
	"net/http"
	"strings"

	"github.com/cotisations/backend/internal/httputil"
	"github.com/cotisations/backend/pkg/models"
	"github.com/cotisations/backend/pkg/state"
	"github.com/gin-gonic/gin"
	"github.com/ryanuber/go-glob"
	"golang.org/x/exp/slices"
)

// RegisterNeighborRoutes registers the routes for neighbors with
// the RouterGroup that is passed.
func (co Controller) RegisterNeighborRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsNeighborList)
		r.GET("", co.GetNeighbors)
		r.POST("", co.CreateNeighbors)
	}

	// Neighbor with ID
	{
		r.OPTIONS("/:id", co.OptionsNeighborDetail)
		r.GET("/:id", co.GetNeighbor)
		r.PATCH("/:id", co.UpdateNeighbor)
		r.DELETE("/:id", co.DeleteNeighbor)
		r.OPTIONS("/:id/balance", co.OptionsNeighborBalance)
		r.GET("/:id/balance", co.GetNeighborBalance)
	}
}

func (co Controller) OptionsNeighborList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func (co Controller) OptionsNeighborDetail(c *gin.Context) {
	httputil.AllowIf(c, exists(func(id uint64) error {
		_, err := co.state.Neighbor(id)
		return err
	}), http.MethodGet, http.MethodPatch, http.MethodDelete)
}

func (co Controller) OptionsNeighborBalance(c *gin.Context) {
	httputil.AllowIf(c, exists(func(id uint64) error {
		_, err := co.state.Neighbor(id)
		return err
	}), http.MethodGet)
}

// CreateNeighbors creates all neighbors in the request body, which must be an array.
func (co Controller) CreateNeighbors(c *gin.Context) {
	var editables []NeighborEditable

	// Bind data and return error if not possible
	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), NeighborCreateResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	// The final http status. Will be modified when errors occur
	status := http.StatusCreated
	r := NeighborCreateResponse{}

	for _, editable := range editables {
		neighbor, _, err := co.state.CreateNeighbor(c.Request.Context(), editable.model())
		if err != nil {
			status = r.appendError(c, err, status)
			continue
		}

		data := newNeighbor(c, neighbor)
		r.Data = append(r.Data, NeighborResponse{Data: &data})
	}

	c.JSON(status, r)
}

// GetNeighbors returns all neighbors matching the filter, sorted by floor and unit.
func (co Controller) GetNeighbors(c *gin.Context) {
	var filter NeighborQueryFilter
	if err := httputil.BindQuery(c, &filter); err != nil {
		c.JSON(status(err), NeighborListResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	// Get the fields that we are filtering for
	setFields := httputil.GetURLFields(c.Request.URL, filter)
	unit := models.Neighbor{Unit: filter.Unit}.Normalize().Unit
	name := strings.ToLower(filter.Name)

	neighbors := slices.Clone(co.state.Neighbors().Records)
	neighbors = slices.DeleteFunc(neighbors, func(n models.Neighbor) bool {
		if slices.Contains(setFields, "Floor") && n.Floor != filter.Floor {
			return true
		}

		if slices.Contains(setFields, "Unit") && n.Unit != unit {
			return true
		}

		if slices.Contains(setFields, "Name") && !glob.Glob(name, strings.ToLower(n.Name)) {
			return true
		}

		return false
	})

	slices.SortStableFunc(neighbors, func(a, b models.Neighbor) int {
		if a.Floor != b.Floor {
			return a.Floor - b.Floor
		}
		return strings.Compare(a.Unit, b.Unit)
	})

	data := make([]Neighbor, 0, len(neighbors))
	for _, n := range neighbors {
		data = append(data, newNeighbor(c, n))
	}

	c.JSON(http.StatusOK, NeighborListResponse{Data: data})
}

func (co Controller) GetNeighbor(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		c.JSON(status(err), NeighborResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	neighbor, err := co.state.Neighbor(id)
	if err != nil {
		c.JSON(status(err), NeighborResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	data := newNeighbor(c, neighbor)
	c.JSON(http.StatusOK, NeighborResponse{Data: &data})
}

// UpdateNeighbor updates floor, unit and name. Only values to be updated need to be specified.
func (co Controller) UpdateNeighbor(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		c.JSON(status(err), NeighborResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	var patch state.NeighborPatch
	err = httputil.BindData(c, &patch)
	if err != nil {
		c.JSON(status(err), NeighborResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	neighbor, _, err := co.state.UpdateNeighbor(c.Request.Context(), id, patch)
	if err != nil {
		c.JSON(status(err), NeighborResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	data := newNeighbor(c, neighbor)
	c.JSON(http.StatusOK, NeighborResponse{Data: &data})
}

// DeleteNeighbor deletes a neighbor. Payments of the neighbor are handled
// according to the delete policy.
func (co Controller) DeleteNeighbor(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		c.JSON(status(err), httputil.HTTPError{Error: *errorMessage(c, err)})
		return
	}

	_, err = co.state.DeleteNeighbor(c.Request.Context(), id)
	if err != nil {
		c.JSON(status(err), httputil.HTTPError{Error: *errorMessage(c, err)})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}

type NeighborBalanceResponse struct {
	Data  *NeighborBalance `json:"data"`                                                     // Balance of the neighbor
	Error *string          `json:"error" example:"there is no neighbor matching your query"` // The error, if any occurred
}

// GetNeighborBalance returns the overall balance of a neighbor and one line per contribution.
func (co Controller) GetNeighborBalance(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		c.JSON(status(err), NeighborBalanceResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	balance, err := co.state.Ledger().NeighborBalance(id)
	if err != nil {
		c.JSON(status(err), NeighborBalanceResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	data := newNeighborBalance(c, balance)
	c.JSON(http.StatusOK, NeighborBalanceResponse{Data: &data})
}
