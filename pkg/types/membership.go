package types

type MembershipStatus string

const (
	MembershipStatusPending   MembershipStatus = "pending"
	MembershipStatusActive    MembershipStatus = "active"
	MembershipStatusSuspended MembershipStatus = "suspended"
	MembershipStatusExpired   MembershipStatus = "expired"
	MembershipStatusCancelled MembershipStatus = "cancelled"
)

// Terminal reports whether no further lifecycle transition is possible.
func (s MembershipStatus) Terminal() bool {
	return s == MembershipStatusCancelled
}

type MembershipChangeReason string

const (
	MembershipChangeReasonPurchase         MembershipChangeReason = "purchase"
	MembershipChangeReasonActivation       MembershipChangeReason = "payment_activation"
	MembershipChangeReasonRenewal          MembershipChangeReason = "renewal"
	MembershipChangeReasonSuspend          MembershipChangeReason = "suspend"
	MembershipChangeReasonReinstate        MembershipChangeReason = "reinstate"
	MembershipChangeReasonCancel           MembershipChangeReason = "cancel"
	MembershipChangeReasonExpire           MembershipChangeReason = "expire"
	MembershipChangeReasonSuperseded       MembershipChangeReason = "superseded"
	MembershipChangeReasonOperatorOverride MembershipChangeReason = "operator_override"
)
