package models

import (
	"time"

	"gorm.io/gorm"
)

// Session is a scheduled meeting between two users tied to a skill exchange.
// The two reminder flags are write-once-true and only ever flipped by the
// reminder scheduler through a conditional update.
type Session struct {
	ID            uint           `gorm:"primaryKey" json:"id"`
	CreatorID     uint           `gorm:"not null;index" json:"creator_id"`
	ParticipantID uint           `gorm:"not null;index" json:"participant_id"`
	Title         string         `gorm:"size:255;not null" json:"title"`
	Date          time.Time      `gorm:"not null;index" json:"date"`
	Time          string         `gorm:"size:5;not null" json:"time"` // "HH:MM", combined with Date for the start instant
	Mode          string         `gorm:"size:10;not null" json:"mode"` // online, offline
	Location      string         `gorm:"size:255" json:"location"`
	MeetingLink   string         `gorm:"size:512" json:"meeting_link"`
	Notes         string         `gorm:"type:text" json:"notes"`
	Status        string         `gorm:"size:20;not null;default:pending;index" json:"status"` // pending, confirmed, completed, cancelled
	SkillOffered  string         `gorm:"size:128;not null" json:"skill_offered"`
	SkillNeeded   string         `gorm:"size:128;not null" json:"skill_needed"`

	EmailReminderSent bool `gorm:"default:false" json:"email_reminder_sent"`
	SMSReminderSent   bool `gorm:"default:false" json:"sms_reminder_sent"`

	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
	DeletedAt gorm.DeletedAt `gorm:"index" json:"-"`

	Creator     User `gorm:"foreignKey:CreatorID" json:"-"`
	Participant User `gorm:"foreignKey:ParticipantID" json:"-"`
}

func (Session) TableName() string {
	return "sessions"
}

// StartsAt combines Date and the "HH:MM" Time field into the session's start
// instant in the given location. A malformed time falls back to midnight.
func (s *Session) StartsAt(loc *time.Location) time.Time {
	t, err := time.Parse("15:04", s.Time)
	if err != nil {
		return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), 0, 0, 0, 0, loc)
	}
	return time.Date(s.Date.Year(), s.Date.Month(), s.Date.Day(), t.Hour(), t.Minute(), 0, 0, loc)
}

// Place returns the human-readable meeting point for reminder renderings.
func (s *Session) Place() string {
	if s.Mode == "online" {
		return "Meeting link: " + s.MeetingLink
	}
	return "Location: " + s.Location
}
