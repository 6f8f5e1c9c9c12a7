package payment

import "github.com/keurgym/membership/pkg/types"

// resolveGatewayTransition decides what a gateway event does to a stored
// payment. Webhook delivery is at-least-once, so this is where idempotence
// lives:
//
//   - same status again (terminal or not): no-op, not an error;
//   - a legal forward transition: apply it;
//   - anything else — in particular a terminal status contradicting an
//     already-terminal one: ErrConflictingPaymentState. The stored row is
//     never overwritten; reconciliation is manual.
func resolveGatewayTransition(current, incoming types.PaymentStatus) (apply bool, err error) {
	if incoming == current {
		return false, nil
	}
	switch current {
	case types.PaymentStatusInitiated:
		switch incoming {
		case types.PaymentStatusPending, types.PaymentStatusSucceeded, types.PaymentStatusFailed:
			return true, nil
		}
	case types.PaymentStatusPending:
		switch incoming {
		case types.PaymentStatusSucceeded, types.PaymentStatusFailed:
			return true, nil
		}
	case types.PaymentStatusSucceeded:
		if incoming == types.PaymentStatusRefunded {
			return true, nil
		}
	}
	return false, ErrConflictingPaymentState
}
