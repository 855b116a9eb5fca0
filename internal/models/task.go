package models

import (
	"fmt"
	"time"
)

type Priority string

const (
	PriorityLow    Priority = "low"
	PriorityMedium Priority = "medium"
	PriorityHigh   Priority = "high"
)

// Priorities lists every priority in ascending order.
var Priorities = []Priority{PriorityLow, PriorityMedium, PriorityHigh}

// Valid reports whether p is one of the known priorities.
func (p Priority) Valid() bool {
	switch p {
	case PriorityLow, PriorityMedium, PriorityHigh:
		return true
	}
	return false
}

// ParsePriority converts s into a Priority.
func ParsePriority(s string) (Priority, error) {
	p := Priority(s)
	if !p.Valid() {
		return "", fmt.Errorf("unknown priority %q", s)
	}
	return p, nil
}

type Task struct {
	ID          string     `gorm:"primarykey;type:varchar(26)" json:"id"`
	Title       string     `gorm:"type:varchar(200);not null" json:"title"`
	Description *string    `gorm:"type:text" json:"description"`
	Priority    Priority   `gorm:"type:varchar(10);not null;index" json:"priority"`
	DueDate     *string    `gorm:"type:varchar(64)" json:"due_date"`
	Done        bool       `gorm:"not null;index" json:"done"`
	OwnerID     string     `gorm:"type:varchar(26);not null;index" json:"owner_id"`
	CreatedAt   time.Time  `json:"created_at"`
	UpdatedAt   *time.Time `gorm:"autoUpdateTime:false" json:"updated_at,omitempty"`
}

// Clone returns a copy of t that shares no pointers with it.
func (t Task) Clone() Task {
	c := t
	if t.Description != nil {
		d := *t.Description
		c.Description = &d
	}
	if t.DueDate != nil {
		d := *t.DueDate
		c.DueDate = &d
	}
	if t.UpdatedAt != nil {
		u := *t.UpdatedAt
		c.UpdatedAt = &u
	}
	return c
}
