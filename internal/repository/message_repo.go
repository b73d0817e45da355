package repository

import (
	"skillswap/internal/models"

	"gorm.io/gorm"
)

type MessageRepository struct {
	db *gorm.DB
}

func NewMessageRepository(db *gorm.DB) *MessageRepository {
	return &MessageRepository{db: db}
}

func (r *MessageRepository) Create(m *models.Message) error {
	return r.db.Create(m).Error
}

// ListBetween returns the full history between two users, oldest first.
func (r *MessageRepository) ListBetween(userA, userB uint) ([]models.Message, error) {
	var list []models.Message
	err := r.db.Where(
		"(sender_id = ? AND receiver_id = ?) OR (sender_id = ? AND receiver_id = ?)",
		userA, userB, userB, userA,
	).Order("created_at ASC").Find(&list).Error
	return list, err
}

// ListInvolving returns every message the user sent or received, newest first.
// The conversation aggregation groups this in memory.
func (r *MessageRepository) ListInvolving(userID uint) ([]models.Message, error) {
	var list []models.Message
	err := r.db.Where("sender_id = ? OR receiver_id = ?", userID, userID).
		Order("created_at DESC").Find(&list).Error
	return list, err
}

// MarkReadFrom flips unread messages from sender to receiver.
func (r *MessageRepository) MarkReadFrom(senderID, receiverID uint) error {
	return r.db.Model(&models.Message{}).
		Where("sender_id = ? AND receiver_id = ? AND is_read = ?", senderID, receiverID, false).
		Update("is_read", true).Error
}
