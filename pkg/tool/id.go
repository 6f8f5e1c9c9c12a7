package tool

import "github.com/google/uuid"

// GenerateUUIDV7 returns a time-ordered UUID, used for every primary key so
// insertion order roughly matches index order.
func GenerateUUIDV7() string {
	return uuid.Must(uuid.NewV7()).String()
}
