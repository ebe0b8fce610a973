package repository

import (
	"context"

	"gorm.io/gorm"

	"github.com/winklab/wink-backend/internal/db"
)

// ProfileRepository provides data access for user profiles. It is the
// in-process stand-in for the external profile store: the services depend
// only on these contracts, not on the schema behind them.
type ProfileRepository struct {
	db *gorm.DB
}

// NewProfileRepository creates a new repository bound to the given DB connection.
func NewProfileRepository(database *gorm.DB) *ProfileRepository {
	return &ProfileRepository{db: database}
}

// Find returns the profile for the given user id, or gorm.ErrRecordNotFound.
func (r *ProfileRepository) Find(ctx context.Context, userID string) (*db.Profile, error) {
	var p db.Profile
	if err := r.db.WithContext(ctx).First(&p, "user_id = ?", userID).Error; err != nil {
		return nil, err
	}
	return &p, nil
}

// FindAllExcluding returns every profile whose user id is not in the given
// exclusion set. The caller includes the requesting user's own id.
func (r *ProfileRepository) FindAllExcluding(ctx context.Context, excluded []string) ([]db.Profile, error) {
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Where("user_id NOT IN ?", excluded).
		Order("user_id ASC").
		Find(&profiles).Error
	return profiles, err
}

// FindByIDs returns the profiles for the given ids, in id order.
// Missing ids are silently skipped.
func (r *ProfileRepository) FindByIDs(ctx context.Context, ids []string) ([]db.Profile, error) {
	if len(ids) == 0 {
		return nil, nil
	}
	var profiles []db.Profile
	err := r.db.WithContext(ctx).
		Where("user_id IN ?", ids).
		Order("user_id ASC").
		Find(&profiles).Error
	return profiles, err
}

// Create inserts a new profile row.
func (r *ProfileRepository) Create(ctx context.Context, p *db.Profile) error {
	return r.db.WithContext(ctx).Create(p).Error
}

// Update applies a partial update to a profile.
func (r *ProfileRepository) Update(ctx context.Context, userID string, patch map[string]any) error {
	res := r.db.WithContext(ctx).
		Model(&db.Profile{}).
		Where("user_id = ?", userID).
		Updates(patch)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
