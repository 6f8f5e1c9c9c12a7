package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/keurgym/membership/internal/app/service/checkin"
	"github.com/keurgym/membership/internal/app/service/membership"
	"github.com/keurgym/membership/internal/app/service/payment"
	"github.com/keurgym/membership/pkg/response"
	"github.com/keurgym/membership/pkg/types"
)

type PurchaseRequest struct {
	MemberID string              `json:"member_id" binding:"required"`
	PlanID   string              `json:"plan_id" binding:"required"`
	Method   types.PaymentMethod `json:"method" binding:"required,paymentmethod"`
}

// @Summary      Purchase Membership
// @Description  Creates a pending membership for a plan together with an initiated payment. Any open membership of the member is superseded.
// @Tags         Membership
// @Accept       json
// @Produce      json
// @Param        request body handlers.PurchaseRequest true "Purchase request"
// @Success      200  {object}  handlers.RespPurchase
// @Router       /api/v1/memberships/purchase [post]
func ApiPurchase(engine *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req PurchaseRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}
		res, err := engine.Purchase(c.Request.Context(), req.MemberID, req.PlanID, req.Method)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(res))
	}
}

// @Summary      Get Membership
// @Description  Returns one membership. A lapsed active membership is expired before it is returned.
// @Tags         Membership
// @Produce      json
// @Param        id path string true "Membership ID"
// @Success      200  {object}  handlers.RespMembership
// @Router       /api/v1/memberships/{id} [get]
func ApiGetMembership(engine *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		m, err := engine.Get(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(m))
	}
}

// @Summary      Current Membership Status
// @Description  Returns the membership status after lazy expiry evaluation.
// @Tags         Membership
// @Produce      json
// @Param        id path string true "Membership ID"
// @Success      200  {object}  handlers.RespStatus
// @Router       /api/v1/memberships/{id}/status [get]
func ApiMembershipStatus(engine *membership.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		st, err := engine.CurrentStatus(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(map[string]types.MembershipStatus{"status": st}))
	}
}

// @Summary      Membership Payment History
// @Description  Returns a membership's payments, oldest first.
// @Tags         Membership
// @Produce      json
// @Param        id path string true "Membership ID"
// @Success      200  {object}  handlers.RespPayments
// @Router       /api/v1/memberships/{id}/payments [get]
func ApiMembershipPayments(ledger *payment.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		payments, err := ledger.List(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(payments))
	}
}

// @Summary      Membership Visit History
// @Description  Returns a membership's check-ins, most recent first.
// @Tags         Membership
// @Produce      json
// @Param        id path string true "Membership ID"
// @Success      200  {object}  handlers.RespCheckIns
// @Router       /api/v1/memberships/{id}/visits [get]
func ApiMembershipVisits(tracker *checkin.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		visits, err := tracker.List(c.Request.Context(), c.Param("id"))
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(visits))
	}
}

func RegisterMembershipRoutes(r gin.IRouter, engine *membership.Service, ledger *payment.Service, tracker *checkin.Service) {
	r.POST("/memberships/purchase", ApiPurchase(engine))
	r.GET("/memberships/:id", ApiGetMembership(engine))
	r.GET("/memberships/:id/status", ApiMembershipStatus(engine))
	r.GET("/memberships/:id/payments", ApiMembershipPayments(ledger))
	r.GET("/memberships/:id/visits", ApiMembershipVisits(tracker))
}
