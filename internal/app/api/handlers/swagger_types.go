package handlers

import (
	"github.com/keurgym/membership/internal/app/service/membership"
	"github.com/keurgym/membership/internal/app/service/payment"
	"github.com/keurgym/membership/internal/app/service/reporting"
	"github.com/keurgym/membership/internal/models"
	"github.com/keurgym/membership/pkg/response"
)

// Envelope wrappers for swagger documentation only; handlers construct the
// real responses through pkg/response generics.

type RespOK struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    interface{}              `json:"data"`
}

type RespPlan struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Plan              `json:"data"`
}

type RespPlans struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Plan            `json:"data"`
}

type RespMembership struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Membership        `json:"data"`
}

type RespStatus struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    map[string]string        `json:"data"`
}

type RespPurchase struct {
	Code    response.APIResponseCode  `json:"code"`
	Message string                    `json:"message"`
	Data    membership.PurchaseResult `json:"data"`
}

type RespPayment struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.Payment           `json:"data"`
}

type RespPayments struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.Payment         `json:"data"`
}

type RespPaymentScan struct {
	Code    response.APIResponseCode     `json:"code"`
	Message string                       `json:"message"`
	Data    payment.ScanPaymentsResponse `json:"data"`
}

type RespCheckIn struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    models.CheckIn           `json:"data"`
}

type RespCheckIns struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []models.CheckIn         `json:"data"`
}

type RespVisitStats struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    VisitStatsResponse       `json:"data"`
}

type RespRevenue struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    reporting.RevenueReport  `json:"data"`
}

type RespExpiring struct {
	Code    response.APIResponseCode       `json:"code"`
	Message string                         `json:"message"`
	Data    []reporting.ExpiringMembership `json:"data"`
}

type RespOccupancy struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    []reporting.GymOccupancy `json:"data"`
}

type RespChurn struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    reporting.ChurnReport    `json:"data"`
}

type RespSummary struct {
	Code    response.APIResponseCode `json:"code"`
	Message string                   `json:"message"`
	Data    reporting.Summary        `json:"data"`
}
