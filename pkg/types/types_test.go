package types

import (
	"testing"

	"github.com/stretchr/testify/require"
)

func TestPaymentMethod_Valid(t *testing.T) {
	require.True(t, PaymentMethodWave.Valid())
	require.True(t, PaymentMethodOrangeMoney.Valid())
	require.True(t, PaymentMethodCard.Valid())
	require.False(t, PaymentMethod("paypal").Valid())
	require.False(t, PaymentMethod("").Valid())
}

func TestPaymentStatus_Terminal(t *testing.T) {
	require.True(t, PaymentStatusSucceeded.Terminal())
	require.True(t, PaymentStatusFailed.Terminal())
	require.True(t, PaymentStatusRefunded.Terminal())
	require.False(t, PaymentStatusInitiated.Terminal())
	require.False(t, PaymentStatusPending.Terminal())
}

func TestMembershipStatus_Terminal(t *testing.T) {
	require.True(t, MembershipStatusCancelled.Terminal())
	require.False(t, MembershipStatusExpired.Terminal())
	require.False(t, MembershipStatusSuspended.Terminal())
}
