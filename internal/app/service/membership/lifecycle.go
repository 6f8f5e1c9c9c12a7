package membership

import (
	"time"

	"github.com/keurgym/membership/internal/models"
	"github.com/keurgym/membership/pkg/types"
)

// applySucceededPayment mutates m in place per the activation/renewal rules:
//
//   - pending: activate; start = paidAt, expiry = paidAt + duration.
//   - renewal before expiry: expiry = old expiry + duration. Extending from
//     the old expiry rather than paidAt is what keeps already-paid time.
//   - renewal after expiry (lapsed): expiry = paidAt + duration; no grace
//     time is owed, and an expired membership returns to active.
//
// A suspended membership keeps its suspension but still banks the paid time.
// A cancelled membership rejects the payment with ErrStalePayment.
//
// Callers must pass a row read under lock in the same transaction that saves
// the result, so two near-simultaneous renewals each see the other's
// extension instead of a stale expiry.
func applySucceededPayment(m *models.Membership, duration time.Duration, paidAt time.Time) (types.MembershipChangeReason, error) {
	switch m.Status {
	case types.MembershipStatusCancelled:
		return "", ErrStalePayment
	case types.MembershipStatusPending:
		start := paidAt
		exp := paidAt.Add(duration)
		m.Status = types.MembershipStatusActive
		m.StartAt = &start
		m.ExpireAt = &exp
		return types.MembershipChangeReasonActivation, nil
	}

	if m.ExpireAt != nil && !paidAt.After(*m.ExpireAt) {
		exp := m.ExpireAt.Add(duration)
		m.ExpireAt = &exp
	} else {
		exp := paidAt.Add(duration)
		m.ExpireAt = &exp
	}
	if m.Status != types.MembershipStatusSuspended {
		m.Status = types.MembershipStatusActive
	}
	return types.MembershipChangeReasonRenewal, nil
}

// shouldExpire reports whether a lazily-evaluated read must flip the row to
// expired before returning it.
func shouldExpire(m *models.Membership, now time.Time) bool {
	return m != nil && m.Status == types.MembershipStatusActive && m.Lapsed(now)
}

// reinstateTarget resolves where a suspended membership goes on reinstate:
// back to active while the paid period still runs, to expired once it is
// over, and back to pending when it was suspended before ever activating.
func reinstateTarget(m *models.Membership, now time.Time) types.MembershipStatus {
	if m.StartAt == nil {
		return types.MembershipStatusPending
	}
	if m.Lapsed(now) {
		return types.MembershipStatusExpired
	}
	return types.MembershipStatusActive
}
