package v1

import (
	"fmt"

	"github.com/cotisations/backend/internal/httputil"
	"github.com/cotisations/backend/internal/types"
	"github.com/cotisations/backend/pkg/models"
	"github.com/gin-gonic/gin"
)

// NeighborEditable represents all user configurable parameters
type NeighborEditable struct {
	Floor     int        `json:"floor" example:"2" binding:"gte=0"` // Floor of the unit, 0 is the ground floor
	Unit      string     `json:"unit" example:"4B"`                 // Unit number, unique per floor
	Name      string     `json:"name" example:"Benali" default:""`  // Name of the resident. Defaults to "Apartment {unit}"
	DateAdded types.Date `json:"dateAdded" example:"2024-01-15"`    // Defaults to the current date
}

func (editable NeighborEditable) model() models.Neighbor {
	return models.Neighbor{
		Floor:     editable.Floor,
		Unit:      editable.Unit,
		Name:      editable.Name,
		DateAdded: editable.DateAdded,
	}
}

type NeighborLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/neighbors/3"`             // The neighbor itself
	Payments string `json:"payments" example:"https://example.com/api/v1/payments?neighbor=3"` // Payments of the neighbor
	Balance  string `json:"balance" example:"https://example.com/api/v1/neighbors/3/balance"`  // Balance of the neighbor
}

type Neighbor struct {
	ID uint64 `json:"id" example:"3"`
	NeighborEditable
	Label string        `json:"label" example:"Floor 2 - Apt 4B (Benali)"` // Display name
	Links NeighborLinks `json:"links"`
}

func newNeighbor(c *gin.Context, model models.Neighbor) Neighbor {
	url := c.GetString(string(httputil.ContextURL))

	return Neighbor{
		ID: model.ID,
		NeighborEditable: NeighborEditable{
			Floor:     model.Floor,
			Unit:      model.Unit,
			Name:      model.Name,
			DateAdded: model.DateAdded,
		},
		Label: model.Label(),
		Links: NeighborLinks{
			Self:     fmt.Sprintf("%s/v1/neighbors/%d", url, model.ID),
			Payments: fmt.Sprintf("%s/v1/payments?neighbor=%d", url, model.ID),
			Balance:  fmt.Sprintf("%s/v1/neighbors/%d/balance", url, model.ID),
		},
	}
}

type NeighborListResponse struct {
	Data  []Neighbor `json:"data"`                                                        // List of neighbors
	Error *string    `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

type NeighborCreateResponse struct {
	Data  []NeighborResponse `json:"data"`                                                        // List of the created neighbors or their respective error
	Error *string            `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

func (r *NeighborCreateResponse) appendError(c *gin.Context, err error, currentStatus int) int {
	r.Data = append(r.Data, NeighborResponse{Error: errorMessage(c, err)})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type NeighborResponse struct {
	Data  *Neighbor `json:"data"`                                                        // Data for the neighbor
	Error *string   `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

type NeighborQueryFilter struct {
	Floor int    `form:"floor"` // By floor
	Unit  string `form:"unit"`  // By unit
	Name  string `form:"name"`  // By name, supports * as wildcard
}
