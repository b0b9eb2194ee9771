package models

import "time"

const (
	RoleOwner = "owner"
	RoleStaff = "staff"
)

// User is a salon staff account. The first account registered is the owner;
// the owner adds staff afterwards.
type User struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name         string `gorm:"size:100;not null" json:"name"`
	Email        string `gorm:"size:100;uniqueIndex;not null" json:"email"`
	PasswordHash string `gorm:"size:255;not null" json:"-"`
	Phone        string `gorm:"size:20" json:"phone"`
	Role         string `gorm:"size:20;not null;default:'staff';index" json:"role"`
	Active       bool   `gorm:"not null;default:true" json:"active"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (u *User) IsOwner() bool {
	return u.Role == RoleOwner
}
