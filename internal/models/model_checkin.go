package models

import "time"

// CheckIn records one gym visit. Append-only; never mutated.
type CheckIn struct {
	ID           string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	MembershipID string    `gorm:"column:membership_id;type:uuid;not null;index:idx_membership_time,priority:1" json:"membership_id"`
	GymID        string    `gorm:"column:gym_id;type:uuid;not null;index" json:"gym_id"`
	CheckedInAt  time.Time `gorm:"column:checked_in_at;not null;index:idx_membership_time,priority:2" json:"checked_in_at"`
	CreatedAt    time.Time `json:"created_at"`
}

func (CheckIn) TableName() string {
	return "check_in"
}
