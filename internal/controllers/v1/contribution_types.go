package v1

import (
	"fmt"
	"time"

	"github.com/cotisations/backend/internal/httputil"
	"github.com/cotisations/backend/internal/types"
	"github.com/cotisations/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// ContributionEditable represents all user configurable parameters
type ContributionEditable struct {
	Title         string                  `json:"title" example:"Elevator repair"`             // Title of the contribution
	AmountPerUnit decimal.Decimal         `json:"amountPerUnit" example:"250"`                 // Amount every neighbor owes
	Kind          models.ContributionKind `json:"kind" example:"service" default:"purchase"`   // purchase or service
	Description   string                  `json:"description" example:"New cables" default:""` // Description of the contribution
	EffectiveDate types.Date              `json:"effectiveDate" example:"2024-02-01"`          // Defaults to the current date
}

func (editable ContributionEditable) model() models.Contribution {
	return models.Contribution{
		Title:         editable.Title,
		AmountPerUnit: editable.AmountPerUnit,
		Kind:          editable.Kind,
		Description:   editable.Description,
		EffectiveDate: editable.EffectiveDate,
	}
}

type ContributionLinks struct {
	Self     string `json:"self" example:"https://example.com/api/v1/contributions/2"`             // The contribution itself
	Payments string `json:"payments" example:"https://example.com/api/v1/payments?contribution=2"` // Payments for the contribution
}

type Contribution struct {
	ID uint64 `json:"id" example:"2"`
	ContributionEditable
	CreatedAt time.Time         `json:"createdAt" example:"2024-02-01T10:15:00Z"`
	Links     ContributionLinks `json:"links"`
}

func newContribution(c *gin.Context, model models.Contribution) Contribution {
	url := c.GetString(string(httputil.ContextURL))

	return Contribution{
		ID: model.ID,
		ContributionEditable: ContributionEditable{
			Title:         model.Title,
			AmountPerUnit: model.AmountPerUnit,
			Kind:          model.Kind,
			Description:   model.Description,
			EffectiveDate: model.EffectiveDate,
		},
		CreatedAt: model.CreatedAt,
		Links: ContributionLinks{
			Self:     fmt.Sprintf("%s/v1/contributions/%d", url, model.ID),
			Payments: fmt.Sprintf("%s/v1/payments?contribution=%d", url, model.ID),
		},
	}
}

type ContributionListResponse struct {
	Data  []Contribution `json:"data"`                                                        // List of contributions
	Error *string        `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

type ContributionCreateResponse struct {
	Data  []ContributionResponse `json:"data"`                                                        // List of the created contributions or their respective error
	Error *string                `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

func (r *ContributionCreateResponse) appendError(c *gin.Context, err error, currentStatus int) int {
	r.Data = append(r.Data, ContributionResponse{Error: errorMessage(c, err)})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type ContributionResponse struct {
	Data  *Contribution `json:"data"`                                                        // Data for the contribution
	Error *string       `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

type ContributionQueryFilter struct {
	Kind models.ContributionKind `form:"kind" binding:"omitempty,oneof=purchase service"` // By kind
}
