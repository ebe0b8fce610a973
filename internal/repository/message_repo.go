package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/winklab/wink-backend/internal/db"
)

// MessageRepository provides data access for the append-only message log.
type MessageRepository struct {
	db *gorm.DB
}

// NewMessageRepository creates a new repository bound to the given DB connection.
func NewMessageRepository(database *gorm.DB) *MessageRepository {
	return &MessageRepository{db: database}
}

// Append stores a new message and fills in its assigned ID and timestamp.
// Messages are never updated or deleted after this point.
func (r *MessageRepository) Append(ctx context.Context, m *db.Message) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// History returns the full message log for a conversation, oldest first.
// ID order is creation order.
func (r *MessageRepository) History(ctx context.Context, conversationKey string) ([]db.Message, error) {
	var messages []db.Message
	err := r.db.WithContext(ctx).
		Where("conversation_key = ?", conversationKey).
		Order("id ASC").
		Find(&messages).Error
	return messages, err
}

// Last returns the most recent message in a conversation, or nil if the
// conversation has no messages yet.
func (r *MessageRepository) Last(ctx context.Context, conversationKey string) (*db.Message, error) {
	var m db.Message
	err := r.db.WithContext(ctx).
		Where("conversation_key = ?", conversationKey).
		Order("id DESC").
		First(&m).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &m, nil
}
