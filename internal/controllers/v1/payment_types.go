package v1

import (
	"fmt"
	"time"

	"github.com/cotisations/backend/internal/httputil"
	"github.com/cotisations/backend/internal/types"
	"github.com/cotisations/backend/pkg/ledger"
	"github.com/cotisations/backend/pkg/models"
	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

// PaymentEditable represents all user configurable parameters
type PaymentEditable struct {
	NeighborID     uint64               `json:"neighborId" example:"3" binding:"required"`     // ID of the neighbor who paid
	ContributionID uint64               `json:"contributionId" example:"2" binding:"required"` // ID of the contribution paid for
	AmountPaid     decimal.Decimal      `json:"amountPaid" example:"100"`                      // Must be larger than zero
	PaymentDate    types.Date           `json:"paymentDate" example:"2024-02-03"`              // Defaults to the current date
	Method         models.PaymentMethod `json:"method" example:"transfer" default:"cash"`      // cash, transfer or check
	Note           string               `json:"note" example:"First installment" default:""`   // Note about the payment
}

func (editable PaymentEditable) model() models.Payment {
	return models.Payment{
		NeighborID:     editable.NeighborID,
		ContributionID: editable.ContributionID,
		AmountPaid:     editable.AmountPaid,
		PaymentDate:    editable.PaymentDate,
		Method:         editable.Method,
		Note:           editable.Note,
	}
}

type PaymentLinks struct {
	Self         string `json:"self" example:"https://example.com/api/v1/payments/7"`              // The payment itself
	Neighbor     string `json:"neighbor" example:"https://example.com/api/v1/neighbors/3"`         // The neighbor who paid
	Contribution string `json:"contribution" example:"https://example.com/api/v1/contributions/2"` // The contribution paid for
}

type Payment struct {
	ID uint64 `json:"id" example:"7"`
	PaymentEditable
	AmountDue  decimal.Decimal `json:"amountDue" example:"250"`                   // Amount of the contribution when the payment was recorded
	RecordedAt time.Time       `json:"recordedAt" example:"2024-02-03T18:42:00Z"` // When the payment was recorded
	Status     ledger.Status   `json:"status"`                                    // This payment against the amount due
	Links      PaymentLinks    `json:"links"`

	// Status of all payments of the neighbor for the contribution against its
	// current amount. Only set in responses to create requests.
	ContributionStatus *ledger.Status `json:"contributionStatus,omitempty"`
}

func newPayment(c *gin.Context, model models.Payment) Payment {
	url := c.GetString(string(httputil.ContextURL))

	return Payment{
		ID: model.ID,
		PaymentEditable: PaymentEditable{
			NeighborID:     model.NeighborID,
			ContributionID: model.ContributionID,
			AmountPaid:     model.AmountPaid,
			PaymentDate:    model.PaymentDate,
			Method:         model.Method,
			Note:           model.Note,
		},
		AmountDue:  model.AmountDue,
		RecordedAt: model.RecordedAt,
		Status:     ledger.Classify(model.AmountPaid, model.AmountDue),
		Links: PaymentLinks{
			Self:         fmt.Sprintf("%s/v1/payments/%d", url, model.ID),
			Neighbor:     fmt.Sprintf("%s/v1/neighbors/%d", url, model.NeighborID),
			Contribution: fmt.Sprintf("%s/v1/contributions/%d", url, model.ContributionID),
		},
	}
}

type PaymentListResponse struct {
	Data  []Payment `json:"data"`                                                        // List of payments
	Error *string   `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

type PaymentCreateResponse struct {
	Data  []PaymentResponse `json:"data"`                                                        // List of the created payments or their respective error
	Error *string           `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

func (r *PaymentCreateResponse) appendError(c *gin.Context, err error, currentStatus int) int {
	r.Data = append(r.Data, PaymentResponse{Error: errorMessage(c, err)})

	// The final status code is the highest HTTP status code number
	newStatus := status(err)
	if newStatus > currentStatus {
		return newStatus
	}

	return currentStatus
}

type PaymentResponse struct {
	Data  *Payment `json:"data"`                                                        // Data for the payment
	Error *string  `json:"error" example:"the specified resource ID is not a valid ID"` // The error, if any occurred
}

type PaymentQueryFilter struct {
	NeighborID     uint64               `form:"neighbor"`                                             // By ID of the neighbor
	ContributionID uint64               `form:"contribution"`                                         // By ID of the contribution
	Method         models.PaymentMethod `form:"method" binding:"omitempty,oneof=cash transfer check"` // By payment method
}
