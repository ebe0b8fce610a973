package pair_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/winklab/wink-backend/internal/pair"
)

func TestKeyIsOrderIndependent(t *testing.T) {
	cases := [][2]string{
		{"alice", "bob"},
		{"bob", "alice"},
		{"user_9", "user_10"},
		{"zz", "aa"},
	}
	for _, c := range cases {
		assert.Equal(t, pair.Key(c[0], c[1]), pair.Key(c[1], c[0]))
	}
}

func TestOrdered(t *testing.T) {
	lo, hi := pair.Ordered("bob", "alice")
	assert.Equal(t, "alice", lo)
	assert.Equal(t, "bob", hi)

	lo, hi = pair.Ordered("alice", "bob")
	assert.Equal(t, "alice", lo)
	assert.Equal(t, "bob", hi)
}

func TestParseRoundTrip(t *testing.T) {
	key := pair.Key("carol", "bob")
	lo, hi, err := pair.Parse(key)
	require.NoError(t, err)
	assert.Equal(t, "bob", lo)
	assert.Equal(t, "carol", hi)
}

func TestParseRejectsMalformedKeys(t *testing.T) {
	for _, key := range []string{"", "alice", ":bob", "alice:", "bob:alice", "alice:bob:carol"} {
		_, _, err := pair.Parse(key)
		assert.Error(t, err, "key %q", key)
	}
}

func TestValidIDRejectsSeparator(t *testing.T) {
	assert.True(t, pair.ValidID("alice"))
	assert.True(t, pair.ValidID("user_10"))
	assert.False(t, pair.ValidID(""))
	assert.False(t, pair.ValidID("ali:ce"))
}
