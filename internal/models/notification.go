package models

import (
	"time"

	"gorm.io/datatypes"
)

// Notification is the durable in-app record created by the dispatcher.
// Realtime pushes are best-effort; this row is the source of truth.
type Notification struct {
	ID        uint           `gorm:"primaryKey" json:"id"`
	UserID    uint           `gorm:"not null;index" json:"user_id"`
	Message   string         `gorm:"type:text;not null" json:"message"`
	Type      string         `gorm:"size:20;not null;index" json:"type"` // swap, session, message, system
	Data      datatypes.JSON `gorm:"type:json" json:"data"`
	Priority  string         `gorm:"size:10;not null;default:medium" json:"priority"` // low, medium, high
	IsRead    bool           `gorm:"default:false;index" json:"is_read"`
	CreatedAt time.Time      `gorm:"index" json:"created_at"`

	User User `gorm:"foreignKey:UserID" json:"-"`
}

func (Notification) TableName() string {
	return "notifications"
}
