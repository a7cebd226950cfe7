package models

import (
	"time"
)

// Role names understood by the booking policy. Any other value falls back
// to the guest tier when the advance-booking ceiling is evaluated.
const (
	RoleGuest          = "guest"
	RoleUser           = "user"
	RoleDepartmentHead = "department_head"
	RoleAdmin          = "admin"
)

type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	Email     string    `gorm:"column:email;size:128;uniqueIndex" json:"email"`
	Username  string    `gorm:"column:username;size:128;uniqueIndex" json:"username"`
	Password  string    `gorm:"column:password;size:256" json:"-"`
	FullName  string    `gorm:"column:full_name;size:128" json:"full_name,omitempty"`
	Role      string    `gorm:"column:role;size:64;default:user" json:"role"`
	CreatedAt time.Time `json:"created_at"`
}
