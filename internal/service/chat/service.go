// Package chat owns the append-only message store and the live-delivery leg
// of chat. Durability and delivery are independent: a stored message reaches
// an offline receiver on their next history fetch.
package chat

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"github.com/winklab/wink-backend/internal/app"
	"github.com/winklab/wink-backend/internal/db"
	"github.com/winklab/wink-backend/internal/httperr"
	"github.com/winklab/wink-backend/internal/identity"
	"github.com/winklab/wink-backend/internal/pair"
	"github.com/winklab/wink-backend/internal/realtime"
	"github.com/winklab/wink-backend/internal/repository"
	"github.com/winklab/wink-backend/internal/service/notify"
)

// Service implements message send and history.
type Service struct {
	appCtx   *app.Context
	messages *repository.MessageRepository
	profiles *repository.ProfileRepository
	hub      *realtime.Hub
	notifier *notify.Service
	resolver identity.Resolver
}

// NewService wires the chat service. The hub and notifier are injected so
// both the HTTP route and the socket send_message event share one path.
func NewService(appCtx *app.Context, hub *realtime.Hub, notifier *notify.Service, resolver identity.Resolver) *Service {
	return &Service{
		appCtx:   appCtx,
		messages: repository.NewMessageRepository(appCtx.DB),
		profiles: repository.NewProfileRepository(appCtx.DB),
		hub:      hub,
		notifier: notifier,
		resolver: resolver,
	}
}

// Send stores a message under the canonical conversation key, then delivers
// it live and notifies the receiver.
//
// Behavior:
//   - The store write is the only mandatory step; its failure surfaces.
//   - Live delivery to the receiver's room is best-effort (empty room is a
//     normal outcome).
//   - Exactly one message-kind notification is created for the receiver,
//     naming the sender; display-name lookup failure substitutes a
//     placeholder and never blocks the send.
func (s *Service) Send(ctx context.Context, senderID, receiverID, body string) (*db.Message, error) {
	if !pair.ValidID(senderID) || !pair.ValidID(receiverID) || body == "" {
		return nil, httperr.InvalidInput(`sender, receiver and body are required; ids must not contain ":"`)
	}
	if senderID == receiverID {
		return nil, httperr.InvalidInput("cannot message yourself")
	}
	if err := s.ensureProfile(ctx, senderID, "sender not found"); err != nil {
		return nil, err
	}
	if err := s.ensureProfile(ctx, receiverID, "receiver not found"); err != nil {
		return nil, err
	}

	m := &db.Message{
		ConversationKey: pair.Key(senderID, receiverID),
		SenderID:        senderID,
		ReceiverID:      receiverID,
		Body:            body,
	}
	if err := s.messages.Append(ctx, m); err != nil {
		return nil, err
	}

	s.hub.Publish(receiverID, realtime.EventReceiveMessage, m)

	name := identity.DisplayNameOrPlaceholder(ctx, s.resolver, senderID)
	if _, err := s.notifier.Notify(ctx, receiverID, db.NotificationKindMessage,
		"New message", "You have a new message from "+name); err != nil {
		s.appCtx.Logger.Warn("failed to create message notification", "receiver", receiverID, "err", err)
	}

	return m, nil
}

// History returns the conversation's messages, oldest first. The key must be
// a canonical pair key; both participants resolve to the same history.
func (s *Service) History(ctx context.Context, conversationKey string) ([]db.Message, error) {
	if _, _, err := pair.Parse(conversationKey); err != nil {
		return nil, httperr.InvalidInput("invalid conversation key")
	}
	return s.messages.History(ctx, conversationKey)
}

func (s *Service) ensureProfile(ctx context.Context, userID, msg string) error {
	if _, err := s.profiles.Find(ctx, userID); err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return httperr.NotFound(msg)
		}
		return err
	}
	return nil
}
