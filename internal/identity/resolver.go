// Package identity is the boundary to the external identity provider. The
// core only ever needs one thing from it: a human-readable display name for
// notification text. Lookups are cosmetic, so callers degrade to a
// placeholder instead of propagating failures.
package identity

import (
	"context"

	"github.com/winklab/wink-backend/internal/repository"
)

// PlaceholderName substitutes for a display name when resolution fails.
const PlaceholderName = "Someone"

// Resolver resolves a user id to a display name.
type Resolver interface {
	DisplayName(ctx context.Context, userID string) (string, error)
}

// ProfileResolver resolves display names from the profile store.
type ProfileResolver struct {
	profiles *repository.ProfileRepository
}

func NewProfileResolver(profiles *repository.ProfileRepository) *ProfileResolver {
	return &ProfileResolver{profiles: profiles}
}

func (r *ProfileResolver) DisplayName(ctx context.Context, userID string) (string, error) {
	p, err := r.profiles.Find(ctx, userID)
	if err != nil {
		return "", err
	}
	return p.Name, nil
}

// DisplayNameOrPlaceholder resolves a display name, substituting the
// placeholder on any failure. Resolution failure must never block
// notification creation or message delivery.
func DisplayNameOrPlaceholder(ctx context.Context, r Resolver, userID string) string {
	name, err := r.DisplayName(ctx, userID)
	if err != nil || name == "" {
		return PlaceholderName
	}
	return name
}
