package db

import (
	"time"
)

// Profile holds the demographic record for one user. The UserID is the
// stable external identity issued by the identity provider; this service
// never creates or owns identities, only profiles keyed by them.
type Profile struct {
	UserID    string    `gorm:"primaryKey;size:64" json:"userId"`
	Name      string    `gorm:"size:128;not null" json:"name"`
	Age       int       `gorm:"not null" json:"age"`
	Gender    string    `gorm:"size:16;not null" json:"gender"`
	City      string    `gorm:"size:64" json:"city"`
	Bio       string    `gorm:"size:512" json:"bio"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Swipe records an actor's like/pass decision on a target.
//
// Composite PK: (ActorID, TargetID), a single row per directed pair. The
// first decision wins: inserts conflict-ignore, so a like is never downgraded
// to a pass and re-swipes are no-ops. The PK also serves the two hot lookups
// (mutual-like check on (target, actor), exclusion scan on actor_id prefix).
type Swipe struct {
	ActorID   string    `gorm:"primaryKey;size:64" json:"actorId"`
	TargetID  string    `gorm:"primaryKey;size:64" json:"targetId"`
	Liked     bool      `gorm:"not null" json:"liked"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Match is the single row representing a mutual like between an unordered
// pair. UserAID is always the lexicographically smaller identity and PairKey
// is the canonical pair key, so symmetry cannot be violated by construction.
// Rows are never deleted: unmatching stamps UnmatchedAt, and the engine
// refuses to create a second row for a pair that already has one, which makes
// the unmatched state terminal.
type Match struct {
	PairKey     string     `gorm:"primaryKey;size:160" json:"pairKey"`
	UserAID     string     `gorm:"size:64;not null;index" json:"userAId"`
	UserBID     string     `gorm:"size:64;not null;index" json:"userBId"`
	CreatedAt   time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UnmatchedAt *time.Time `json:"unmatchedAt,omitempty"`
}

// Message is one chat message, immutable once created. ConversationKey is
// the canonical pair key of sender and receiver; history reads in ID order,
// which is creation order.
type Message struct {
	ID              uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	ConversationKey string    `gorm:"size:160;not null;index" json:"conversationKey"`
	SenderID        string    `gorm:"size:64;not null" json:"senderId"`
	ReceiverID      string    `gorm:"size:64;not null" json:"receiverId"`
	Body            string    `gorm:"size:2000;not null" json:"body"`
	CreatedAt       time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// Notification kinds.
const (
	NotificationKindMatch   = "match"
	NotificationKindMessage = "message"
	NotificationKindSystem  = "system"
)

// Notification is a durable per-user notification. Created unread; the only
// mutation is flipping Read to true.
type Notification struct {
	ID          uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	RecipientID string    `gorm:"size:64;not null;index" json:"recipientId"`
	Kind        string    `gorm:"size:16;not null;default:system" json:"kind"`
	Title       string    `gorm:"size:128;not null" json:"title"`
	Body        string    `gorm:"size:512;not null" json:"body"`
	Read        bool      `gorm:"not null;default:false" json:"read"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
}
