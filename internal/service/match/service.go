// Package match owns the swipe/match state engine: like and pass decisions,
// mutual-like detection, unmatching and discovery.
package match

import (
	"context"
	"errors"
	"time"

	"gorm.io/gorm"

	"github.com/winklab/wink-backend/internal/app"
	"github.com/winklab/wink-backend/internal/db"
	"github.com/winklab/wink-backend/internal/httperr"
	"github.com/winklab/wink-backend/internal/identity"
	"github.com/winklab/wink-backend/internal/pair"
	"github.com/winklab/wink-backend/internal/repository"
	"github.com/winklab/wink-backend/internal/service/notify"
)

// Decisions accepted by RecordSwipe.
const (
	DecisionLike = "like"
	DecisionPass = "pass"
)

// Service implements the swipe/match engine. Mutual-like detection and the
// match write run inside one transaction under a per-pair lock keyed by the
// canonical pair key, so concurrent mirror swipes on the same pair produce
// exactly one match.
type Service struct {
	appCtx   *app.Context
	profiles *repository.ProfileRepository
	swipes   *repository.SwipeRepository
	matches  *repository.MatchRepository
	messages *repository.MessageRepository
	notifier *notify.Service
	resolver identity.Resolver
	locks    *pairLocks
}

// NewService wires the match engine. The notifier (and through it the room
// router) is injected explicitly.
func NewService(appCtx *app.Context, notifier *notify.Service, resolver identity.Resolver) *Service {
	return &Service{
		appCtx:   appCtx,
		profiles: repository.NewProfileRepository(appCtx.DB),
		swipes:   repository.NewSwipeRepository(appCtx.DB),
		matches:  repository.NewMatchRepository(appCtx.DB),
		messages: repository.NewMessageRepository(appCtx.DB),
		notifier: notifier,
		resolver: resolver,
		locks:    newPairLocks(),
	}
}

// RecordSwipe applies an actor's decision on a target and reports whether it
// created a new match.
//
// Behavior:
//   - pass: recorded idempotently, never matches.
//   - like after a stored pass: the pass stands and the like is discarded,
//     so a passed pair can never become matched.
//   - like: recorded idempotently, then the reciprocal like is checked and,
//     if present and the pair has never matched before, a match row is
//     created. The check and the write share a transaction under the pair
//     lock, so "A likes B" and "B likes A" racing yields exactly one match.
//   - A pair that matched before, including one later unmatched, never
//     produces a second match or a second event.
func (s *Service) RecordSwipe(ctx context.Context, actorID, targetID, decision string) (bool, error) {
	if !pair.ValidID(actorID) || !pair.ValidID(targetID) {
		return false, httperr.InvalidInput(`actor and target ids are required and must not contain ":"`)
	}
	if actorID == targetID {
		return false, httperr.InvalidInput("cannot swipe on yourself")
	}
	var liked bool
	switch decision {
	case DecisionLike:
		liked = true
	case DecisionPass:
		liked = false
	default:
		return false, httperr.InvalidInput(`decision must be "like" or "pass"`)
	}
	if err := s.ensureProfile(ctx, actorID, "actor not found"); err != nil {
		return false, err
	}
	if err := s.ensureProfile(ctx, targetID, "target not found"); err != nil {
		return false, err
	}

	key := pair.Key(actorID, targetID)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	newMatch := false
	err := s.appCtx.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		swipes := repository.NewSwipeRepository(tx)
		if err := swipes.Record(ctx, actorID, targetID, liked); err != nil {
			return err
		}
		if !liked {
			return nil
		}

		// The stored decision is authoritative: first decision wins, so a
		// like arriving after a pass leaves the pass in place and must not
		// reach the mutuality check.
		stored, err := swipes.HasLiked(ctx, actorID, targetID)
		if err != nil || !stored {
			return err
		}

		reciprocal, err := swipes.HasLiked(ctx, targetID, actorID)
		if err != nil || !reciprocal {
			return err
		}

		matches := repository.NewMatchRepository(tx)
		if _, err := matches.Get(ctx, key); err == nil {
			return nil // already matched (or unmatched, which is terminal)
		} else if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		lo, hi := pair.Ordered(actorID, targetID)
		if err := matches.Create(ctx, &db.Match{PairKey: key, UserAID: lo, UserBID: hi}); err != nil {
			return err
		}
		newMatch = true
		return nil
	})
	if err != nil {
		return false, err
	}

	if newMatch {
		s.appCtx.Logger.Info("new match", "pair", key)
		s.emitMatchNotifications(ctx, actorID, targetID)
	}
	return newMatch, nil
}

// Unmatch dissolves the match between two users. The transition is a single
// row update, so neither party can observe a half-unmatched state. Idempotent
// for pairs that are already unmatched or never matched.
func (s *Service) Unmatch(ctx context.Context, userA, userB string) error {
	if !pair.ValidID(userA) || !pair.ValidID(userB) {
		return httperr.InvalidInput(`both user ids are required and must not contain ":"`)
	}
	if userA == userB {
		return httperr.InvalidInput("user ids must differ")
	}
	if err := s.ensureProfile(ctx, userA, "user not found"); err != nil {
		return err
	}
	if err := s.ensureProfile(ctx, userB, "user not found"); err != nil {
		return err
	}

	key := pair.Key(userA, userB)
	s.locks.Lock(key)
	defer s.locks.Unlock(key)

	return s.matches.Unmatch(ctx, key)
}

// Discover returns the profiles the user can still swipe on: everyone except
// themselves and anyone they already liked or passed.
func (s *Service) Discover(ctx context.Context, userID string) ([]db.Profile, error) {
	if err := s.ensureProfile(ctx, userID, "user not found"); err != nil {
		return nil, err
	}

	decided, err := s.swipes.TargetIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	excluded := append(decided, userID)
	return s.profiles.FindAllExcluding(ctx, excluded)
}

// Matches returns the profiles of everyone currently matched with the user.
func (s *Service) Matches(ctx context.Context, userID string) ([]db.Profile, error) {
	if err := s.ensureProfile(ctx, userID, "user not found"); err != nil {
		return nil, err
	}
	partners, err := s.matches.PartnerIDs(ctx, userID)
	if err != nil {
		return nil, err
	}
	return s.profiles.FindByIDs(ctx, partners)
}

// MatchSummary is a matched profile with its conversation preview.
type MatchSummary struct {
	Profile      db.Profile `json:"profile"`
	LastMessage  string     `json:"lastMessage"`
	LastSenderID string     `json:"lastSenderId,omitempty"`
	Timestamp    *time.Time `json:"timestamp,omitempty"`
}

// MatchSummaries returns the user's matches with the last message of each
// conversation, for the match-list screen.
func (s *Service) MatchSummaries(ctx context.Context, userID string) ([]MatchSummary, error) {
	profiles, err := s.Matches(ctx, userID)
	if err != nil {
		return nil, err
	}

	summaries := make([]MatchSummary, 0, len(profiles))
	for _, p := range profiles {
		summary := MatchSummary{Profile: p, LastMessage: "Tap to chat"}
		last, err := s.messages.Last(ctx, pair.Key(userID, p.UserID))
		if err != nil {
			return nil, err
		}
		if last != nil {
			summary.LastMessage = last.Body
			summary.LastSenderID = last.SenderID
			ts := last.CreatedAt
			summary.Timestamp = &ts
		}
		summaries = append(summaries, summary)
	}
	return summaries, nil
}

// emitMatchNotifications creates the two match notifications, each naming
// the other participant. The match is already committed; notification
// failures are logged, never propagated.
func (s *Service) emitMatchNotifications(ctx context.Context, userA, userB string) {
	nameA := identity.DisplayNameOrPlaceholder(ctx, s.resolver, userA)
	nameB := identity.DisplayNameOrPlaceholder(ctx, s.resolver, userB)

	if _, err := s.notifier.Notify(ctx, userA, db.NotificationKindMatch,
		"It's a match!", "You matched with "+nameB+"!"); err != nil {
		s.appCtx.Logger.Error("failed to notify match", "recipient", userA, "err", err)
	}
	if _, err := s.notifier.Notify(ctx, userB, db.NotificationKindMatch,
		"It's a match!", "You matched with "+nameA+"!"); err != nil {
		s.appCtx.Logger.Error("failed to notify match", "recipient", userB, "err", err)
	}
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
