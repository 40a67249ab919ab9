package v1

import (
	"net/http"

	"github.com/cotisations/backend/internal/httputil"
	"github.com/cotisations/backend/pkg/ledger"
	"github.com/cotisations/backend/pkg/models"
	"github.com/cotisations/backend/pkg/state"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterPaymentRoutes registers the routes for payments with
// the RouterGroup that is passed.
func (co Controller) RegisterPaymentRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsPaymentList)
		r.GET("", co.GetPayments)
		r.POST("", co.CreatePayments)
	}

	// Payment with ID
	{
		r.OPTIONS("/:id", co.OptionsPaymentDetail)
		r.GET("/:id", co.GetPayment)
		r.PATCH("/:id", co.UpdatePayment)
		r.DELETE("/:id", co.DeletePayment)
	}
}

func (co Controller) OptionsPaymentList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func (co Controller) OptionsPaymentDetail(c *gin.Context) {
	httputil.AllowIf(c, exists(func(id uint64) error {
		_, err := co.state.Payment(id)
		return err
	}), http.MethodGet, http.MethodPatch, http.MethodDelete)
}

// CreatePayments records all payments in the request body, which must be an array.
//
// Every created payment carries the status of all payments of its neighbor
// for its contribution after it was recorded.
func (co Controller) CreatePayments(c *gin.Context) {
	var editables []PaymentEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), PaymentCreateResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	status := http.StatusCreated
	r := PaymentCreateResponse{}

	for _, editable := range editables {
		payment, payments, err := co.state.CreatePayment(c.Request.Context(), editable.model())
		if err != nil {
			status = r.appendError(c, err, status)
			continue
		}

		contribution, err := co.state.Contribution(payment.ContributionID)
		if err != nil {
			status = r.appendError(c, err, status)
			continue
		}

		paid := ledger.AmountPaidForPair(payment.NeighborID, payment.ContributionID, payments.Records)
		contributionStatus := ledger.Classify(paid, contribution.AmountPerUnit)

		data := newPayment(c, payment)
		data.ContributionStatus = &contributionStatus
		r.Data = append(r.Data, PaymentResponse{Data: &data})
	}

	c.JSON(status, r)
}

// GetPayments returns all payments matching the filter, newest first.
func (co Controller) GetPayments(c *gin.Context) {
	var filter PaymentQueryFilter
	if err := httputil.BindQuery(c, &filter); err != nil {
		c.JSON(status(err), PaymentListResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	setFields := httputil.GetURLFields(c.Request.URL, filter)

	payments := slices.Clone(co.state.Payments().Records)
	payments = slices.DeleteFunc(payments, func(p models.Payment) bool {
		if slices.Contains(setFields, "NeighborID") && p.NeighborID != filter.NeighborID {
			return true
		}

		if slices.Contains(setFields, "ContributionID") && p.ContributionID != filter.ContributionID {
			return true
		}

		if slices.Contains(setFields, "Method") && p.Method != filter.Method {
			return true
		}

		return false
	})

	// Newest payment date first, later recorded payments first for the same date
	slices.SortStableFunc(payments, func(a, b models.Payment) int {
		switch {
		case a.PaymentDate.After(b.PaymentDate):
			return -1
		case a.PaymentDate.Before(b.PaymentDate):
			return 1
		case a.ID > b.ID:
			return -1
		case a.ID < b.ID:
			return 1
		}
		return 0
	})

	data := make([]Payment, 0, len(payments))
	for _, p := range payments {
		data = append(data, newPayment(c, p))
	}

	c.JSON(http.StatusOK, PaymentListResponse{Data: data})
}

func (co Controller) GetPayment(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		c.JSON(status(err), PaymentResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	payment, err := co.state.Payment(id)
	if err != nil {
		c.JSON(status(err), PaymentResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	data := newPayment(c, payment)
	c.JSON(http.StatusOK, PaymentResponse{Data: &data})
}

// UpdatePayment updates amount, date, method and note of a payment.
// Only values to be updated need to be specified.
func (co Controller) UpdatePayment(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		c.JSON(status(err), PaymentResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	var patch state.PaymentPatch
	err = httputil.BindData(c, &patch)
	if err != nil {
		c.JSON(status(err), PaymentResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	payment, _, err := co.state.UpdatePayment(c.Request.Context(), id, patch)
	if err != nil {
		c.JSON(status(err), PaymentResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	data := newPayment(c, payment)
	c.JSON(http.StatusOK, PaymentResponse{Data: &data})
}

func (co Controller) DeletePayment(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		c.JSON(status(err), httputil.HTTPError{Error: *errorMessage(c, err)})
		return
	}

	_, err = co.state.DeletePayment(c.Request.Context(), id)
	if err != nil {
		c.JSON(status(err), httputil.HTTPError{Error: *errorMessage(c, err)})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
