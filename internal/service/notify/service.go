// Package notify persists notification records and pushes them to the
// recipient's live sessions through the room router.
package notify

import (
	"context"

	"github.com/winklab/wink-backend/internal/app"
	"github.com/winklab/wink-backend/internal/db"
	"github.com/winklab/wink-backend/internal/httperr"
	"github.com/winklab/wink-backend/internal/realtime"
	"github.com/winklab/wink-backend/internal/repository"
)

// Service is the notification fanout. Durability comes first: the record is
// written before any push, and a recipient without an active session simply
// gets the stored record on their next fetch; there is no catch-up push.
type Service struct {
	appCtx        *app.Context
	notifications *repository.NotificationRepository
	hub           *realtime.Hub
}

// NewService creates the fanout with its dependencies. The hub is injected
// explicitly; the service never reaches into shared global state to publish.
func NewService(appCtx *app.Context, hub *realtime.Hub) *Service {
	return &Service{
		appCtx:        appCtx,
		notifications: repository.NewNotificationRepository(appCtx.DB),
		hub:           hub,
	}
}

// Notify persists a notification and pushes it to the recipient if online.
//
// Behavior:
//   - The store write is mandatory: its failure surfaces to the caller.
//   - The unread-counter bump and the live push are best-effort; an offline
//     recipient is a normal outcome, not an error.
func (s *Service) Notify(ctx context.Context, recipientID, kind, title, body string) (*db.Notification, error) {
	if recipientID == "" || title == "" {
		return nil, httperr.InvalidInput("recipient and title are required")
	}
	switch kind {
	case db.NotificationKindMatch, db.NotificationKindMessage, db.NotificationKindSystem:
	default:
		return nil, httperr.InvalidInput("unknown notification kind")
	}

	n := &db.Notification{
		RecipientID: recipientID,
		Kind:        kind,
		Title:       title,
		Body:        body,
	}
	if err := s.notifications.Create(ctx, n); err != nil {
		return nil, err
	}

	if err := s.appCtx.RedisCache.IncrUnreadCount(ctx, recipientID); err != nil {
		s.appCtx.Logger.Warn("failed to bump unread counter", "recipient", recipientID, "err", err)
	}

	if delivered := s.hub.Publish(recipientID, realtime.EventNewNotification, n); delivered == 0 {
		s.appCtx.Logger.Debug("recipient offline, push skipped", "recipient", recipientID, "kind", kind)
	}

	return n, nil
}

// List returns all notifications for a user, newest first.
func (s *Service) List(ctx context.Context, recipientID string) ([]db.Notification, error) {
	if recipientID == "" {
		return nil, httperr.InvalidInput("recipient is required")
	}
	return s.notifications.ListByRecipient(ctx, recipientID)
}

// MarkRead flips one notification to read. Idempotent; unknown ids are NotFound.
func (s *Service) MarkRead(ctx context.Context, id uint64) error {
	n, err := s.notifications.Get(ctx, id)
	if err != nil {
		return err
	}
	if n.Read {
		return nil
	}
	if err := s.notifications.MarkRead(ctx, id); err != nil {
		return err
	}
	if err := s.appCtx.RedisCache.InvalidateUnreadCount(ctx, n.RecipientID); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate unread counter", "recipient", n.RecipientID, "err", err)
	}
	return nil
}

// MarkAllRead flips every unread notification for the recipient. Idempotent.
func (s *Service) MarkAllRead(ctx context.Context, recipientID string) error {
	if recipientID == "" {
		return httperr.InvalidInput("recipient is required")
	}
	if err := s.notifications.MarkAllRead(ctx, recipientID); err != nil {
		return err
	}
	if err := s.appCtx.RedisCache.InvalidateUnreadCount(ctx, recipientID); err != nil {
		s.appCtx.Logger.Warn("failed to invalidate unread counter", "recipient", recipientID, "err", err)
	}
	return nil
}

// UnreadCount returns the user's unread-notification count.
// Cache-first strategy:
//  1. Attempts to read the Redis counter.
//  2. On a miss, falls back to the store and repopulates the cache.
func (s *Service) UnreadCount(ctx context.Context, recipientID string) (int64, error) {
	if recipientID == "" {
		return 0, httperr.InvalidInput("recipient is required")
	}

	if count, ok, err := s.appCtx.RedisCache.GetUnreadCount(ctx, recipientID); err == nil && ok {
		return count, nil
	}

	count, err := s.notifications.CountUnread(ctx, recipientID)
	if err != nil {
		return 0, err
	}
	if err := s.appCtx.RedisCache.SetUnreadCount(ctx, recipientID, count); err != nil {
		s.appCtx.Logger.Warn("failed to store unread counter", "recipient", recipientID, "err", err)
	}
	return count, nil
}
