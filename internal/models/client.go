package models

import "time"

const (
	ClientStatusGreen  = "Green"
	ClientStatusYellow = "Yellow"
	ClientStatusRed    = "Red"
)

// Client is a salon customer. Phone is optional but unique when present.
type Client struct {
	ID uint `gorm:"primaryKey" json:"id"`

	Name  string     `gorm:"size:100;not null;index" json:"name"`
	Phone *string    `gorm:"size:20;uniqueIndex" json:"phone"`
	Email *string    `gorm:"size:100" json:"email"`
	DOB   *time.Time `gorm:"column:dob;type:date" json:"dob"`
	Notes string     `gorm:"type:text" json:"notes"`

	Status string `gorm:"size:10;default:'Green'" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (c *Client) PhoneNumber() string {
	if c == nil || c.Phone == nil {
		return ""
	}
	return *c.Phone
}
