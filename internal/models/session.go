package models

import "time"

// Session maps the digest of a bearer token to its user.
type Session struct {
	TokenHash string    `gorm:"primarykey;type:char(64)"`
	UserID    string    `gorm:"type:varchar(26);not null;index"`
	CreatedAt time.Time
}
