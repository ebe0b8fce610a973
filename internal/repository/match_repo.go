package repository

import (
	"context"
	"time"

	"gorm.io/gorm"

	"github.com/winklab/wink-backend/internal/db"
)

// MatchRepository provides data access for match rows. A match is one row
// per unordered pair, keyed by the canonical pair key; rows are stamped
// rather than deleted on unmatch.
type MatchRepository struct {
	db *gorm.DB
}

// NewMatchRepository creates a new repository bound to the given DB connection.
func NewMatchRepository(database *gorm.DB) *MatchRepository {
	return &MatchRepository{db: database}
}

// Create inserts a new match row. The caller is responsible for holding the
// pair lock and having verified no row exists for the key.
func (r *MatchRepository) Create(ctx context.Context, m *db.Match) error {
	return r.db.WithContext(ctx).Create(m).Error
}

// Get returns the match row for the canonical pair key, whether active or
// unmatched, or gorm.ErrRecordNotFound if the pair never matched.
func (r *MatchRepository) Get(ctx context.Context, pairKey string) (*db.Match, error) {
	var m db.Match
	if err := r.db.WithContext(ctx).First(&m, "pair_key = ?", pairKey).Error; err != nil {
		return nil, err
	}
	return &m, nil
}

// Unmatch stamps the match row for the pair as unmatched. A single-row
// update, so both sides observe the transition atomically. Idempotent:
// already-unmatched or never-matched pairs are a no-op.
func (r *MatchRepository) Unmatch(ctx context.Context, pairKey string) error {
	now := time.Now().UTC()
	return r.db.WithContext(ctx).
		Model(&db.Match{}).
		Where("pair_key = ? AND unmatched_at IS NULL", pairKey).
		Update("unmatched_at", now).Error
}

// PartnerIDs returns the ids of every user currently matched with userID,
// excluding unmatched pairs.
func (r *MatchRepository) PartnerIDs(ctx context.Context, userID string) ([]string, error) {
	var matches []db.Match
	err := r.db.WithContext(ctx).
		Where("(user_a_id = ? OR user_b_id = ?) AND unmatched_at IS NULL", userID, userID).
		Find(&matches).Error
	if err != nil {
		return nil, err
	}

	partners := make([]string, 0, len(matches))
	for _, m := range matches {
		if m.UserAID == userID {
			partners = append(partners, m.UserBID)
		} else {
			partners = append(partners, m.UserAID)
		}
	}
	return partners, nil
}
