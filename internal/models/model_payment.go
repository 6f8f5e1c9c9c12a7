package models

import (
	"time"

	"github.com/keurgym/membership/pkg/types"

	"gorm.io/datatypes"
)

// Payment is one attempt to pay for a membership period. Rows are append-only
// except for the status transitions initiated→pending→{succeeded|failed} and
// succeeded→refunded, all driven by gateway events keyed on ExternalRef.
type Payment struct {
	ID           string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	MembershipID string `gorm:"column:membership_id;type:uuid;not null;index" json:"membership_id"`
	AmountXOF    int64  `gorm:"column:amount_xof;type:bigint;not null" json:"amount_xof"`
	Currency     string `gorm:"column:currency;type:varchar(8);not null;default:'XOF'" json:"currency"`
	Method       types.PaymentMethod `gorm:"column:method;type:varchar(32);not null" json:"method"`
	Status       types.PaymentStatus `gorm:"column:status;type:varchar(32);not null" json:"status"`
	// ExternalRef is the reference shared with the payment gateway. Webhook
	// deliveries are at-least-once, so it carries the idempotency key.
	ExternalRef string     `gorm:"column:external_ref;type:varchar(128);not null;uniqueIndex" json:"external_ref"`
	PaidAt      *time.Time `gorm:"column:paid_at;default:null" json:"paid_at"`
	RefundedAt  *time.Time `gorm:"column:refunded_at;default:null" json:"refunded_at"`
	// Metadata holds whatever the gateway sent alongside the last event.
	Metadata  datatypes.JSONMap `gorm:"column:metadata;type:jsonb;default:'{}'" json:"metadata"`
	CreatedAt time.Time         `json:"created_at"`
	UpdatedAt time.Time         `json:"updated_at"`
}

func (Payment) TableName() string {
	return "payment"
}
