// Package pair derives canonical identifiers for unordered user pairs.
//
// A conversation between two users, and the lock guarding a pair's match
// state, must both resolve to the same identifier regardless of which side
// initiates. Key provides that: it orders the two identities lexicographically
// and joins them, so Key(a, b) == Key(b, a) for every distinct a and b.
package pair

import (
	"fmt"
	"strings"
)

const sep = ":"

// Key returns the canonical key for the unordered pair {a, b}.
func Key(a, b string) string {
	lo, hi := Ordered(a, b)
	return lo + sep + hi
}

// Ordered returns the two identities in canonical (lexicographic) order.
func Ordered(a, b string) (string, string) {
	if a > b {
		return b, a
	}
	return a, b
}

// ValidID reports whether an identity may participate in a pair key. The
// separator is reserved: an id containing it would let two different pairs
// alias to one key.
func ValidID(id string) bool {
	return id != "" && !strings.Contains(id, sep)
}

// Parse splits a canonical key back into its two identities. It rejects keys
// that are malformed, carry extra separators or are not in canonical order.
func Parse(key string) (string, string, error) {
	parts := strings.SplitN(key, sep, 2)
	if len(parts) != 2 || !ValidID(parts[0]) || !ValidID(parts[1]) {
		return "", "", fmt.Errorf("malformed pair key %q", key)
	}
	if parts[0] > parts[1] {
		return "", "", fmt.Errorf("pair key %q is not in canonical order", key)
	}
	return parts[0], parts[1], nil
}
