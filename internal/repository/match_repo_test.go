package repository_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"

	"github.com/winklab/wink-backend/internal/db"
	"github.com/winklab/wink-backend/internal/pair"
	"github.com/winklab/wink-backend/internal/repository"
)

func createMatch(t *testing.T, repo *repository.MatchRepository, a, b string) string {
	t.Helper()
	lo, hi := pair.Ordered(a, b)
	key := pair.Key(a, b)
	require.NoError(t, repo.Create(context.Background(), &db.Match{PairKey: key, UserAID: lo, UserBID: hi}))
	return key
}

func TestPartnerIDsExcludesUnmatched(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	createMatch(t, repo, "alice", "bob")
	key := createMatch(t, repo, "carol", "alice")
	require.NoError(t, repo.Unmatch(ctx, key))

	partners, err := repo.PartnerIDs(ctx, "alice")
	assert.NoError(t, err)
	assert.Equal(t, []string{"bob"}, partners)
}

func TestUnmatchIsIdempotent(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	key := createMatch(t, repo, "alice", "bob")
	require.NoError(t, repo.Unmatch(ctx, key))

	m, err := repo.Get(ctx, key)
	require.NoError(t, err)
	require.NotNil(t, m.UnmatchedAt)
	stamped := *m.UnmatchedAt

	// second unmatch changes nothing
	require.NoError(t, repo.Unmatch(ctx, key))
	m, err = repo.Get(ctx, key)
	require.NoError(t, err)
	assert.Equal(t, stamped, *m.UnmatchedAt)

	// never-matched pair is also a no-op, not an error
	assert.NoError(t, repo.Unmatch(ctx, pair.Key("erin", "frank")))
}

func TestGetReturnsNotFoundForUnknownPair(t *testing.T) {
	ctx := context.Background()
	dbase := setupTestDB(t)
	repo := repository.NewMatchRepository(dbase)

	_, err := repo.Get(ctx, pair.Key("alice", "bob"))
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)
}
