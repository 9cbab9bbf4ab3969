package models

import "time"

// User represents a forum user identified by a WeChat open id.
// There is no password material; identity comes from the WeChat code exchange.
type User struct {
	ID        uint      `gorm:"primaryKey" json:"id"`
	OpenID    string    `gorm:"size:64;not null;uniqueIndex" json:"-"`
	Username  *string   `gorm:"size:20;uniqueIndex" json:"username"`
	Gender    *bool     `json:"gender"`
	CreatedAt time.Time `json:"created_at"`
}
