package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	mw "github.com/keurgym/membership/internal/app/api/middleware"
	"github.com/keurgym/membership/internal/app/service/membership"
	"github.com/keurgym/membership/internal/app/service/payment"
	"github.com/keurgym/membership/pkg/response"
	"github.com/keurgym/membership/pkg/types"
)

type SuspendRequest struct {
	Reason string `json:"reason" binding:"required"`
}

// @Summary      Suspend Membership (Admin)
// @Description  Freezes an active membership, e.g. over a payment dispute. Idempotent.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        id path string true "Membership ID"
// @Param        request body handlers.SuspendRequest true "Suspension reason"
// @Success      200  {object}  handlers.RespMembership
// @Router       /api/v1/admin/memberships/{id}/suspend [post]
func ApiSuspendMembership(engine *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req SuspendRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		m, err := engine.Suspend(c.Request.Context(), c.Param("id"), req.Reason)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(m))
	}
}

// @Summary      Reinstate Membership (Admin)
// @Description  Lifts a suspension. The membership lands on whatever state its paid period implies.
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Membership ID"
// @Success      200  {object}  handlers.RespMembership
// @Router       /api/v1/admin/memberships/{id}/reinstate [post]
func ApiReinstateMembership(engine *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := engine.Reinstate(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(m))
	}
}

// @Summary      Cancel Membership (Admin)
// @Description  Terminally cancels a membership. Idempotent; later payments for it are rejected.
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Membership ID"
// @Success      200  {object}  handlers.RespMembership
// @Router       /api/v1/admin/memberships/{id}/cancel [post]
func ApiCancelMembership(engine *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := engine.Cancel(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(m))
	}
}

// @Summary      Override Activate Membership (Admin)
// @Description  Activates a pending membership without a payment, e.g. cash taken at the desk. Audited against the operator.
// @Tags         Admin
// @Produce      json
// @Param        id path string true "Membership ID"
// @Success      200  {object}  handlers.RespMembership
// @Router       /api/v1/admin/memberships/{id}/activate [post]
func ApiOverrideActivate(engine *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := engine.OverrideActivate(c.Request.Context(), c.Param("id"), mw.OperatorID(c))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(m))
	}
}

type ListPaymentsRequest struct {
	Filters   []*types.CommonFilter `json:"filters"`
	From      int                   `json:"from"`
	Size      int                   `json:"size"`
	SortBy    string                `json:"sort_by"`
	SortOrder string                `json:"sort_order"`
}

// @Summary      List Payments (Admin)
// @Description  Paginated, filterable scan over the payment ledger.
// @Tags         Admin
// @Accept       json
// @Produce      json
// @Param        request body handlers.ListPaymentsRequest true "Filters, pagination and sorting"
// @Success      200  {object}  handlers.RespPaymentScan
// @Router       /api/v1/admin/payments/scan [post]
func ApiScanPayments(ledger *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req ListPaymentsRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := ledger.ScanPayments(c.Request.Context(), &payment.ScanPaymentsRequest{
			Filters:   req.Filters,
			From:      req.From,
			Size:      req.Size,
			SortBy:    req.SortBy,
			SortOrder: req.SortOrder,
		})
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

func RegisterAdminMembershipRoutes(r gin.IRouter, engine *membership.Service, ledger *payment.Service) {
	r.POST("/memberships/:id/suspend", ApiSuspendMembership(engine))
	r.POST("/memberships/:id/reinstate", ApiReinstateMembership(engine))
	r.POST("/memberships/:id/cancel", ApiCancelMembership(engine))
	r.POST("/memberships/:id/activate", ApiOverrideActivate(engine))
	r.POST("/payments/scan", ApiScanPayments(ledger))
}
