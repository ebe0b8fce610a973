package repository

import (
	"context"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/winklab/wink-backend/internal/db"
)

// SwipeRepository provides data access for like/pass decisions.
type SwipeRepository struct {
	db *gorm.DB
}

// NewSwipeRepository creates a new repository bound to the given DB connection.
func NewSwipeRepository(database *gorm.DB) *SwipeRepository {
	return &SwipeRepository{db: database}
}

// Record inserts the decision made by actor on target.
//
// Behavior:
//   - First decision wins: if a row for (actor_id, target_id) already exists
//     the insert is a no-op, so likes stay monotonic and passes terminal.
//
// Example:
//
//	repo.Record(ctx, "alice", "bob", true) // alice liked bob
func (r *SwipeRepository) Record(ctx context.Context, actorID, targetID string, liked bool) error {
	swipe := db.Swipe{
		ActorID:  actorID,
		TargetID: targetID,
		Liked:    liked,
	}
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{DoNothing: true}).
		Create(&swipe).Error
}

// HasLiked checks whether actor has liked target.
//
// Used for the mutual-like test: HasLiked(target, actor) while handling
// actor's like answers "does the target already like me back".
func (r *SwipeRepository) HasLiked(ctx context.Context, actorID, targetID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("actor_id = ? AND target_id = ? AND liked = ?", actorID, targetID, true).
		Count(&count).Error
	return count > 0, err
}

// TargetIDs returns every user the actor has already decided on, liked or
// passed. Discovery excludes these along with the actor themselves.
func (r *SwipeRepository) TargetIDs(ctx context.Context, actorID string) ([]string, error) {
	var ids []string
	err := r.db.WithContext(ctx).
		Model(&db.Swipe{}).
		Where("actor_id = ?", actorID).
		Pluck("target_id", &ids).Error
	return ids, err
}
