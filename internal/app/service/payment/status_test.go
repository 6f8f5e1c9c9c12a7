package payment

import (
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/require"

	"github.com/keurgym/membership/pkg/types"
)

func TestResolveGatewayTransition_ReplayIsNoOp(t *testing.T) {
	for _, st := range []types.PaymentStatus{
		types.PaymentStatusInitiated,
		types.PaymentStatusPending,
		types.PaymentStatusSucceeded,
		types.PaymentStatusFailed,
		types.PaymentStatusRefunded,
	} {
		apply, err := resolveGatewayTransition(st, st)
		require.NoError(t, err, st)
		require.False(t, apply, st)
	}
}

func TestResolveGatewayTransition_ForwardPaths(t *testing.T) {
	legal := [][2]types.PaymentStatus{
		{types.PaymentStatusInitiated, types.PaymentStatusPending},
		{types.PaymentStatusInitiated, types.PaymentStatusSucceeded},
		{types.PaymentStatusInitiated, types.PaymentStatusFailed},
		{types.PaymentStatusPending, types.PaymentStatusSucceeded},
		{types.PaymentStatusPending, types.PaymentStatusFailed},
		{types.PaymentStatusSucceeded, types.PaymentStatusRefunded},
	}
	for _, pair := range legal {
		apply, err := resolveGatewayTransition(pair[0], pair[1])
		require.NoError(t, err, "%s -> %s", pair[0], pair[1])
		require.True(t, apply, "%s -> %s", pair[0], pair[1])
	}
}

func TestResolveGatewayTransition_ConflictingTerminal(t *testing.T) {
	conflicts := [][2]types.PaymentStatus{
		{types.PaymentStatusSucceeded, types.PaymentStatusFailed},
		{types.PaymentStatusFailed, types.PaymentStatusSucceeded},
		{types.PaymentStatusFailed, types.PaymentStatusRefunded},
		{types.PaymentStatusRefunded, types.PaymentStatusSucceeded},
		{types.PaymentStatusPending, types.PaymentStatusInitiated},
		{types.PaymentStatusSucceeded, types.PaymentStatusPending},
	}
	for _, pair := range conflicts {
		apply, err := resolveGatewayTransition(pair[0], pair[1])
		require.ErrorIs(t, err, ErrConflictingPaymentState, "%s -> %s", pair[0], pair[1])
		require.False(t, apply)
	}
}

func TestErrConflictingPaymentState_IsWrapFriendly(t *testing.T) {
	err := fmt.Errorf("wrapped: %w", ErrConflictingPaymentState)
	require.True(t, errors.Is(err, ErrConflictingPaymentState))
}
