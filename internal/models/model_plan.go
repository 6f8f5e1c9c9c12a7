package models

import (
	"time"

	"gorm.io/datatypes"
)

// Plan is a purchasable membership tier. Plans are never deleted: once a
// membership references a plan the row must stay readable for historical
// integrity, so operators can only flip Active off.
type Plan struct {
	ID string `gorm:"column:id;type:uuid;primary_key" json:"id"`
	// Name is the operator-facing label, e.g. "Basique", "Premium", "VIP".
	Name string `gorm:"column:name;type:varchar(128);not null" json:"name"`
	// PriceXOF is the plan price in whole CFA francs.
	PriceXOF int64 `gorm:"column:price_xof;type:bigint;not null" json:"price_xof"`
	// DurationDays is how long one paid period lasts.
	DurationDays int `gorm:"column:duration_days;type:integer;not null" json:"duration_days"`
	// Features is the marketing feature list shown in the app.
	Features  datatypes.JSONSlice[string] `gorm:"column:features;type:jsonb;default:'[]'" json:"features"`
	Active    bool                        `gorm:"column:active;not null;default:true" json:"active"`
	CreatedAt time.Time                   `json:"created_at"`
	UpdatedAt time.Time                   `json:"updated_at"`
}

func (Plan) TableName() string {
	return "plan"
}

// Duration converts the day count to a time.Duration for expiry arithmetic.
func (p *Plan) Duration() time.Duration {
	return time.Duration(p.DurationDays) * 24 * time.Hour
}
