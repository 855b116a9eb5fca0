package models

import (
	"time"
)

type User struct {
	ID           string    `gorm:"primarykey;type:varchar(26)" json:"id"`
	Username     string    `gorm:"type:varchar(255);uniqueIndex;not null" json:"username"`
	FullName     *string   `gorm:"type:varchar(255)" json:"full_name"`
	PasswordHash string    `gorm:"type:varchar(255);not null" json:"-"`
	CreatedAt    time.Time `json:"created_at"`
}

// Clone returns a copy of u that shares no pointers with it.
func (u User) Clone() User {
	c := u
	if u.FullName != nil {
		n := *u.FullName
		c.FullName = &n
	}
	return c
}
