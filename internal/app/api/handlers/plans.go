package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/keurgym/membership/internal/app/service/plan"
	"github.com/keurgym/membership/internal/models"
	"github.com/keurgym/membership/pkg/response"
)

// @Summary      List Plans
// @Description  Returns the plan catalog. Only active plans unless all=true.
// @Tags         Plan
// @Produce      json
// @Param        all query bool false "Include deactivated plans"
// @Success      200  {object}  handlers.RespPlans
// @Router       /api/v1/plans [get]
func ApiListPlans(svc *plan.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		all := c.Query("all") == "true"
		plans, err := svc.List(c.Request.Context(), !all)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(plans))
	}
}

// @Summary      Get Plan
// @Description  Returns one plan by id, active or not.
// @Tags         Plan
// @Produce      json
// @Param        id path string true "Plan ID"
// @Success      200  {object}  handlers.RespPlan
// @Router       /api/v1/plans/{id} [get]
func ApiGetPlan(svc *plan.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

type CreatePlanRequest struct {
	Name         string   `json:"name" binding:"required"`
	PriceXOF     int64    `json:"price_xof" binding:"required,gt=0"`
	DurationDays int      `json:"duration_days" binding:"required,gt=0"`
	Features     []string `json:"features"`
}

// @Summary      Create Plan (Admin)
// @Description  Adds a new plan to the catalog.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body handlers.CreatePlanRequest true "New plan"
// @Success      200  {object}  handlers.RespPlan
// @Router       /api/v1/admin/plans [post]
func ApiCreatePlan(svc *plan.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreatePlanRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		p, err := svc.Create(c.Request.Context(), &models.Plan{
			Name:         req.Name,
			PriceXOF:     req.PriceXOF,
			DurationDays: req.DurationDays,
			Features:     datatypes.NewJSONSlice(req.Features),
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

// @Summary      Deactivate Plan (Admin)
// @Description  Removes a plan from sale. Existing memberships keep referencing it.
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Plan ID"
// @Success      200  {object}  handlers.RespPlan
// @Router       /api/v1/admin/plans/{id}/deactivate [post]
func ApiDeactivatePlan(svc *plan.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		p, err := svc.Deactivate(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(p))
	}
}

func RegisterPlanRoutes(r gin.IRouter, svc *plan.Service) {
	r.GET("/plans", ApiListPlans(svc))
	r.GET("/plans/:id", ApiGetPlan(svc))
}

func RegisterAdminPlanRoutes(r gin.IRouter, svc *plan.Service) {
	r.POST("/plans", ApiCreatePlan(svc))
	r.POST("/plans/:id/deactivate", ApiDeactivatePlan(svc))
}
