package models

import (
	"time"

	"github.com/keurgym/membership/pkg/types"
)

// Membership is one member's subscription instance against a plan.
//
// StartAt and ExpireAt are nil until the first succeeded payment activates
// the membership. Status is authoritative in the database but expiry is
// evaluated lazily: readers must go through the lifecycle service, which
// flips active rows past their expiry to expired before returning them.
type Membership struct {
	ID       string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	MemberID string `gorm:"column:member_id;type:varchar(64);not null;index:idx_member_status,priority:1" json:"member_id"`
	// PlanID references the plan snapshot the member bought. Plans are
	// immutable once referenced, so price/duration lookups stay stable.
	PlanID string                 `gorm:"column:plan_id;type:uuid;not null" json:"plan_id"`
	Status types.MembershipStatus `gorm:"column:status;type:varchar(32);not null;index:idx_member_status,priority:2" json:"status"`
	// StartAt is when the first succeeded payment activated the membership.
	StartAt *time.Time `gorm:"column:start_at;default:null" json:"start_at"`
	// ExpireAt = StartAt + plan duration at activation, extended on renewal.
	ExpireAt      *time.Time `gorm:"column:expire_at;default:null;index" json:"expire_at"`
	SuspendReason *string    `gorm:"column:suspend_reason;type:varchar(255);default:null" json:"suspend_reason,omitempty"`
	CreatedAt     time.Time  `json:"created_at"`
	UpdatedAt     time.Time  `json:"updated_at"`
}

func (Membership) TableName() string {
	return "membership"
}

// Lapsed reports whether the paid period is over at the given instant.
// A membership with no expiry yet (never activated) is not lapsed.
func (m *Membership) Lapsed(now time.Time) bool {
	return m != nil && m.ExpireAt != nil && now.After(*m.ExpireAt)
}
