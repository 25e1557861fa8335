package models

import (
	"time"
)

type User struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash, never exposed
	Bio      string `json:"bio"`
	Balance  int    `gorm:"not null;default:0" json:"balance"`
	Active   bool   `gorm:"not null;default:true" json:"active"`

	RoleID uint `gorm:"not null" json:"role_id"`
	Role   Role `gorm:"foreignKey:RoleID" json:"role"`

	Listings []Listing `gorm:"foreignKey:SellerID" json:"listings,omitempty"`
}

// IsAdmin reports whether the account carries the admin role. Authorization
// checks go through this capability, never through the username.
func (u *User) IsAdmin() bool {
	return u.Role.Name == RoleAdmin
}
