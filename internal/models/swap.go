package models

import (
	"time"

	"gorm.io/gorm"
)

// Swap is a proposed exchange of one user's offered skill for another's.
type Swap struct {
	ID           uint           `gorm:"primaryKey" json:"id"`
	RequesterID  uint           `gorm:"not null;index" json:"requester_id"`
	ResponderID  uint           `gorm:"not null;index" json:"responder_id"`
	SkillOffered string         `gorm:"size:128;not null" json:"skill_offered"`
	SkillNeeded  string         `gorm:"size:128;not null" json:"skill_needed"`
	Status       string         `gorm:"size:20;not null;default:pending;index" json:"status"` // pending, accepted, rejected, completed
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `gorm:"index" json:"-"`

	Requester User `gorm:"foreignKey:RequesterID" json:"-"`
	Responder User `gorm:"foreignKey:ResponderID" json:"-"`
}

func (Swap) TableName() string {
	return "swaps"
}
