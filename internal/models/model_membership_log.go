package models

import (
	"time"

	"github.com/keurgym/membership/pkg/types"

	"gorm.io/datatypes"
)

// MembershipLog records every lifecycle transition with before/after
// snapshots. Use case: troubleshooting, reconciliation and the churn report.
// Operator overrides are required to land here (they are the only way a
// membership becomes active without a succeeded payment).
type MembershipLog struct {
	ID           string                       `gorm:"column:id;type:uuid;primary_key" json:"id"`
	MembershipID string                       `gorm:"column:membership_id;type:uuid;not null;index:idx_membership_id_id,priority:1" json:"membership_id"`
	MemberID     string                       `gorm:"column:member_id;type:varchar(64);not null;index" json:"member_id"`
	Reason       types.MembershipChangeReason `gorm:"column:reason;type:varchar(64);not null;index" json:"reason"`
	// Before stores the membership before the change in JSON format.
	Before datatypes.JSONType[*Membership] `gorm:"column:before;type:jsonb;default:'null'" json:"before"`
	// After stores the membership after the change in JSON format.
	After datatypes.JSONType[*Membership] `gorm:"column:after;type:jsonb;default:'null'" json:"after"`
	// Extra holds context such as the operator id or the triggering payment id.
	Extra     datatypes.JSONMap `gorm:"column:extra;type:jsonb;default:'{}'" json:"extra"`
	CreatedAt time.Time         `json:"created_at"`
}

func (MembershipLog) TableName() string {
	return "membership_log"
}
