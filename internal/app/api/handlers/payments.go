package handlers

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/datatypes"

	"github.com/keurgym/membership/internal/app/service/gatewaylog"
	"github.com/keurgym/membership/internal/app/service/membership"
	"github.com/keurgym/membership/internal/app/service/payment"
	"github.com/keurgym/membership/internal/app/service/plan"
	"github.com/keurgym/membership/internal/models"
	"github.com/keurgym/membership/pkg/config"
	"github.com/keurgym/membership/pkg/logctx"
	"github.com/keurgym/membership/pkg/response"
	"github.com/keurgym/membership/pkg/tool"
	"github.com/keurgym/membership/pkg/types"

	"go.uber.org/zap"
)

type InitiatePaymentRequest struct {
	MembershipID string              `json:"membership_id" binding:"required"`
	Method       types.PaymentMethod `json:"method" binding:"required,paymentmethod"`
}

// @Summary      Initiate Payment
// @Description  Creates a fresh payment attempt for an existing membership, typically retrying after a failed one. The amount is snapshotted from the plan.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        request body handlers.InitiatePaymentRequest true "Initiate payment request"
// @Success      200  {object}  handlers.RespPayment
// @Router       /api/v1/payments/initiate [post]
func ApiInitiatePayment(ledger *payment.Service, engine *membership.Service, plans *plan.Service) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req InitiatePaymentRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, err.Error()))
			return
		}

		m, err := engine.Get(c.Request.Context(), req.MembershipID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		p, err := plans.Get(c.Request.Context(), m.PlanID)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}

		pay, err := ledger.Initiate(c.Request.Context(), m.ID, p.PriceXOF, req.Method)
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}
		c.JSON(http.StatusOK, response.OKT(pay))
	}
}

// GatewayWebhookRequest is the callback shape the mobile-money gateway posts.
type GatewayWebhookRequest struct {
	ExternalRef string                 `json:"external_ref" binding:"required"`
	Status      string                 `json:"status" binding:"required"`
	EventTime   *time.Time             `json:"event_time"`
	Metadata    map[string]interface{} `json:"metadata"`
}

// mapGatewayStatus translates the gateway's status vocabulary to the
// ledger's. Unknown values are rejected rather than guessed.
func mapGatewayStatus(s string) (types.PaymentStatus, bool) {
	switch strings.ToLower(s) {
	case "pending", "transaction_pending":
		return types.PaymentStatusPending, true
	case "succeeded", "success", "transaction_success":
		return types.PaymentStatusSucceeded, true
	case "failed", "transaction_failed":
		return types.PaymentStatusFailed, true
	case "refunded", "transaction_refunded":
		return types.PaymentStatusRefunded, true
	default:
		return "", false
	}
}

// @Summary      Gateway Webhook
// @Description  Receives a payment status callback from the gateway. Deliveries are at-least-once; replays are acknowledged without re-applying.
// @Tags         Payment
// @Accept       json
// @Produce      json
// @Param        X-Signature header string true "Hex HMAC-SHA256 of the raw body"
// @Param        request body handlers.GatewayWebhookRequest true "Gateway event"
// @Success      200  {object}  handlers.RespPayment
// @Router       /api/v1/gateway/webhook [post]
func ApiGatewayWebhook(ledger *payment.Service, events *gatewaylog.Service, cfg *config.Config, log *zap.SugaredLogger) gin.HandlerFunc {
	return func(c *gin.Context) {
		body, err := c.GetRawData()
		if err != nil {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "unreadable body"))
			return
		}

		if !payment.VerifyWebhookSignature(cfg.Gateway.WebhookSecret, body, c.GetHeader("X-Signature")) {
			logctx.FromGin(c, log).Warnw("webhook signature rejected", "remote", c.ClientIP())
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeUnauthorized, "invalid signature"))
			return
		}

		var req GatewayWebhookRequest
		if err := json.Unmarshal(body, &req); err != nil || req.ExternalRef == "" || req.Status == "" {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "malformed gateway event"))
			return
		}

		entry := models.GatewayEventLog{
			ID:          tool.GenerateUUIDV7(),
			ExternalRef: req.ExternalRef,
			TraceID:     c.GetString("traceID"),
			EventTime:   time.Now(),
			Data:        datatypes.JSON(body),
			Status:      models.GatewayEventLogStatusReceived,
		}
		if req.EventTime != nil {
			entry.EventTime = *req.EventTime
		}
		events.Save(c.Request.Context(), &entry)

		status, ok := mapGatewayStatus(req.Status)
		if !ok {
			c.JSON(http.StatusOK, response.ErrorT[any](response.APIResponseCodeBadRequest, "unknown gateway status: "+req.Status))
			return
		}

		pay, err := ledger.RecordGatewayEvent(c.Request.Context(), req.ExternalRef, status, req.Metadata)
		if err != nil {
			res := datatypes.JSON(`{"error":` + strconv.Quote(err.Error()) + `}`)
			entry.Result = &res
			entry.Status = models.GatewayEventLogStatusHandleFailed
			events.Save(c.Request.Context(), &entry)
			c.JSON(http.StatusOK, response.ErrorT[any](errCode(err), err.Error()))
			return
		}

		if resBytes, mErr := json.Marshal(pay); mErr == nil {
			res := datatypes.JSON(resBytes)
			entry.Result = &res
		}
		entry.Status = models.GatewayEventLogStatusHandled
		events.Save(c.Request.Context(), &entry)

		c.JSON(http.StatusOK, response.OKT(pay))
	}
}

func RegisterPaymentRoutes(r gin.IRouter, ledger *payment.Service, engine *membership.Service, plans *plan.Service) {
	r.POST("/payments/initiate", ApiInitiatePayment(ledger, engine, plans))
}

func RegisterWebhookRoutes(r gin.IRouter, ledger *payment.Service, events *gatewaylog.Service, cfg *config.Config, log *zap.SugaredLogger) {
	r.POST("/gateway/webhook", ApiGatewayWebhook(ledger, events, cfg, log))
}
