package v1

import (
	"net/http"

	"github.com/cotisations/backend/internal/httputil"
	"github.com/cotisations/backend/pkg/models"
	"github.com/cotisations/backend/pkg/state"
	"github.com/gin-gonic/gin"
	"golang.org/x/exp/slices"
)

// RegisterContributionRoutes registers the routes for contributions with
// the RouterGroup that is passed.
func (co Controller) RegisterContributionRoutes(r *gin.RouterGroup) {
	// Root group
	{
		r.OPTIONS("", co.OptionsContributionList)
		r.GET("", co.GetContributions)
		r.POST("", co.CreateContributions)
	}

	// Contribution with ID
	{
		r.OPTIONS("/:id", co.OptionsContributionDetail)
		r.GET("/:id", co.GetContribution)
		r.PATCH("/:id", co.UpdateContribution)
		r.DELETE("/:id", co.DeleteContribution)
	}
}

func (co Controller) OptionsContributionList(c *gin.Context) {
	httputil.OptionsGetPost(c)
}

func (co Controller) OptionsContributionDetail(c *gin.Context) {
	httputil.AllowIf(c, exists(func(id uint64) error {
		_, err := co.state.Contribution(id)
		return err
	}), http.MethodGet, http.MethodPatch, http.MethodDelete)
}

// CreateContributions creates all contributions in the request body, which must be an array.
func (co Controller) CreateContributions(c *gin.Context) {
	var editables []ContributionEditable

	err := httputil.BindData(c, &editables)
	if err != nil {
		c.JSON(status(err), ContributionCreateResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	status := http.StatusCreated
	r := ContributionCreateResponse{}

	for _, editable := range editables {
		contribution, _, err := co.state.CreateContribution(c.Request.Context(), editable.model())
		if err != nil {
			status = r.appendError(c, err, status)
			continue
		}

		data := newContribution(c, contribution)
		r.Data = append(r.Data, ContributionResponse{Data: &data})
	}

	c.JSON(status, r)
}

// GetContributions returns all contributions in the order they were created.
func (co Controller) GetContributions(c *gin.Context) {
	var filter ContributionQueryFilter
	if err := httputil.BindQuery(c, &filter); err != nil {
		c.JSON(status(err), ContributionListResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	contributions := slices.Clone(co.state.Contributions().Records)
	if filter.Kind != "" {
		contributions = slices.DeleteFunc(contributions, func(m models.Contribution) bool {
			return m.Kind != filter.Kind
		})
	}

	data := make([]Contribution, 0, len(contributions))
	for _, m := range contributions {
		data = append(data, newContribution(c, m))
	}

	c.JSON(http.StatusOK, ContributionListResponse{Data: data})
}

func (co Controller) GetContribution(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		c.JSON(status(err), ContributionResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	contribution, err := co.state.Contribution(id)
	if err != nil {
		c.JSON(status(err), ContributionResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	data := newContribution(c, contribution)
	c.JSON(http.StatusOK, ContributionResponse{Data: &data})
}

// UpdateContribution updates a contribution. Only values to be updated need to be specified.
//
// The amount due recorded on existing payments does not change.
func (co Controller) UpdateContribution(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		c.JSON(status(err), ContributionResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	var patch state.ContributionPatch
	err = httputil.BindData(c, &patch)
	if err != nil {
		c.JSON(status(err), ContributionResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	contribution, _, err := co.state.UpdateContribution(c.Request.Context(), id, patch)
	if err != nil {
		c.JSON(status(err), ContributionResponse{
			Error: errorMessage(c, err),
		})
		return
	}

	data := newContribution(c, contribution)
	c.JSON(http.StatusOK, ContributionResponse{Data: &data})
}

func (co Controller) DeleteContribution(c *gin.Context) {
	id, err := bindID(c)
	if err != nil {
		c.JSON(status(err), httputil.HTTPError{Error: *errorMessage(c, err)})
		return
	}

	_, err = co.state.DeleteContribution(c.Request.Context(), id)
	if err != nil {
		c.JSON(status(err), httputil.HTTPError{Error: *errorMessage(c, err)})
		return
	}

	c.JSON(http.StatusNoContent, nil)
}
