package models

import (
	"time"

	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type User struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	Name          string         `gorm:"size:128;not null" json:"name"`
	Email         string         `gorm:"uniqueIndex;size:255;not null" json:"email"`
	PasswordHash  string         `gorm:"size:255" json:"-"`
	Bio           string         `gorm:"type:text" json:"bio"`
	ProfilePic    string         `gorm:"size:512" json:"profile_pic"`
	GoogleID      *string        `gorm:"uniqueIndex;size:255" json:"-"` // nil for email signups (avoids duplicate '' on unique index)
	SkillsOffered datatypes.JSON `gorm:"type:json" json:"skills_offered"` // JSON array of strings
	SkillsNeeded  datatypes.JSON `gorm:"type:json" json:"skills_needed"`
	Rating        float64        `gorm:"default:0" json:"rating"`
	PhoneNumber   string         `gorm:"size:32" json:"phone_number"`
	DeviceToken   string         `gorm:"size:512" json:"-"` // For push notifications

	// Per-channel notification toggles, read by the dispatcher before every send.
	EmailNotifications bool `gorm:"default:true" json:"email_notifications"`
	SMSNotifications   bool `gorm:"default:false" json:"sms_notifications"`
	PushNotifications  bool `gorm:"default:true" json:"push_notifications"`
	InAppNotifications bool `gorm:"default:true" json:"in_app_notifications"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`
}

func (User) TableName() string {
	return "users"
}

// ProfileSummary is the trimmed user shape embedded in conversation rows.
type ProfileSummary struct {
	ID            uint           `json:"id"`
	Name          string         `json:"name"`
	Email         string         `json:"email"`
	ProfilePic    string         `json:"profile_pic"`
	SkillsOffered datatypes.JSON `json:"skills_offered"`
	SkillsNeeded  datatypes.JSON `json:"skills_needed"`
}

func (u *User) Summary() ProfileSummary {
	return ProfileSummary{
		ID:            u.ID,
		Name:          u.Name,
		Email:         u.Email,
		ProfilePic:    u.ProfilePic,
		SkillsOffered: u.SkillsOffered,
		SkillsNeeded:  u.SkillsNeeded,
	}
}
