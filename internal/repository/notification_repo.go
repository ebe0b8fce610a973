package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/winklab/wink-backend/internal/db"
)

// NotificationRepository provides data access for notification records.
type NotificationRepository struct {
	db *gorm.DB
}

// NewNotificationRepository creates a new repository bound to the given DB connection.
func NewNotificationRepository(database *gorm.DB) *NotificationRepository {
	return &NotificationRepository{db: database}
}

// Create persists a new notification (unread) and fills in its assigned ID.
func (r *NotificationRepository) Create(ctx context.Context, n *db.Notification) error {
	return r.db.WithContext(ctx).Create(n).Error
}

// ListByRecipient returns all notifications for a user, newest first.
func (r *NotificationRepository) ListByRecipient(ctx context.Context, recipientID string) ([]db.Notification, error) {
	var notifications []db.Notification
	err := r.db.WithContext(ctx).
		Where("recipient_id = ?", recipientID).
		Order("created_at DESC, id DESC").
		Find(&notifications).Error
	return notifications, err
}

// Get returns a notification by id, or gorm.ErrRecordNotFound.
func (r *NotificationRepository) Get(ctx context.Context, id uint64) (*db.Notification, error) {
	var n db.Notification
	if err := r.db.WithContext(ctx).First(&n, "id = ?", id).Error; err != nil {
		return nil, err
	}
	return &n, nil
}

// MarkRead flips a notification's read flag to true. Idempotent on
// already-read rows.
func (r *NotificationRepository) MarkRead(ctx context.Context, id uint64) error {
	return r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("id = ?", id).
		Update("read", true).Error
}

// MarkAllRead flips every unread notification for the recipient.
func (r *NotificationRepository) MarkAllRead(ctx context.Context, recipientID string) error {
	return r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("recipient_id = ? AND `read` = ?", recipientID, false).
		Update("read", true).Error
}

// CountUnread counts unread notifications for the recipient; the Redis
// counter cache falls back to this on a miss.
func (r *NotificationRepository) CountUnread(ctx context.Context, recipientID string) (int64, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Notification{}).
		Where("recipient_id = ? AND `read` = ?", recipientID, false).
		Count(&count).Error
	return count, err
}
