package models

import "time"

// Message is a direct message between two users. Messages are immutable once
// created except for the IsRead flip, and are never deleted.
type Message struct {
	ID         uint      `gorm:"primaryKey" json:"id"`
	SenderID   uint      `gorm:"not null;index" json:"sender_id"`
	ReceiverID uint      `gorm:"not null;index" json:"receiver_id"`
	Text       string    `gorm:"type:text;not null" json:"text"`
	IsRead     bool      `gorm:"default:false" json:"is_read"`
	CreatedAt  time.Time `gorm:"index" json:"created_at"`

	Sender   User `gorm:"foreignKey:SenderID" json:"-"`
	Receiver User `gorm:"foreignKey:ReceiverID" json:"-"`
}

func (Message) TableName() string {
	return "messages"
}

// Conversation is derived from the message log, one row per counterpart.
// It is computed on demand, never stored.
type Conversation struct {
	CounterpartID uint           `json:"counterpart_id"`
	Counterpart   ProfileSummary `json:"counterpart"`
	LastMessage   Message        `json:"last_message"`
	UnreadCount   int            `json:"unread_count"`
}
