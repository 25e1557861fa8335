package models

const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// Role rows are seeded with fixed IDs at migration time.
const (
	RoleIDUser  uint = 1
	RoleIDAdmin uint = 2
)

type Role struct {
	ID   uint   `gorm:"primaryKey;autoIncrement" json:"id"`
	Name string `gorm:"uniqueIndex;not null" json:"name"`
}
