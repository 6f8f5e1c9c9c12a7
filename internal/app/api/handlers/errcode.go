package handlers

import (
	"errors"

	"github.com/keurgym/membership/internal/app/service/checkin"
	"github.com/keurgym/membership/internal/app/service/membership"
	"github.com/keurgym/membership/internal/app/service/payment"
	"github.com/keurgym/membership/internal/app/service/plan"
	"github.com/keurgym/membership/pkg/response"
)

// errCode maps service sentinel errors onto envelope codes so every handler
// classifies failures the same way.
func errCode(err error) response.APIResponseCode {
	switch {
	case errors.Is(err, membership.ErrMembershipNotFound),
		errors.Is(err, payment.ErrPaymentNotFound),
		errors.Is(err, plan.ErrPlanNotFound),
		errors.Is(err, checkin.ErrGymNotFound):
		return response.APIResponseCodeNotFound
	case errors.Is(err, membership.ErrInvalidState),
		errors.Is(err, checkin.ErrMembershipNotActive),
		errors.Is(err, plan.ErrPlanInactive):
		return response.APIResponseCodeInvalidState
	case errors.Is(err, membership.ErrStalePayment),
		errors.Is(err, payment.ErrConflictingPaymentState):
		return response.APIResponseCodeConflict
	case errors.Is(err, payment.ErrInvalidMembership):
		return response.APIResponseCodeBadRequest
	default:
		return response.APIResponseCodeError
	}
}
