package models

import "time"

// Gym is a physical location members check in at. Gym provisioning sits with
// the operator dashboard; the lifecycle core only needs the capacity figure
// for occupancy reporting.
type Gym struct {
	ID        string    `gorm:"column:id;type:uuid;primary_key" json:"id"`
	Name      string    `gorm:"column:name;type:varchar(128);not null" json:"name"`
	Location  string    `gorm:"column:location;type:varchar(255)" json:"location"`
	Capacity  int       `gorm:"column:capacity;type:integer;not null;default:0" json:"capacity"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (Gym) TableName() string {
	return "gym"
}
