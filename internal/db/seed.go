package db

import (
	"fmt"
	"log"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/winklab/wink-backend/internal/pair"
)

// SeedDemoData resets the database and populates it with demo profiles,
// a swipe graph with guaranteed mutual likes, the resulting match rows,
// and a short conversation with its notifications.
//
// Compatible with both MySQL and SQLite so it can back local dev and tests.
func SeedDemoData(db *gorm.DB) error {
	for _, table := range []string{"notifications", "messages", "matches", "swipes", "profiles"} {
		if err := db.Exec("DELETE FROM " + table).Error; err != nil {
			return fmt.Errorf("failed to clear %s: %w", table, err)
		}
	}
	log.Println("Cleared existing data")

	profiles := []Profile{
		{UserID: "alice", Name: "Alice", Age: 27, Gender: "female", City: "London", Bio: "Climbing and flat whites."},
		{UserID: "bob", Name: "Bob", Age: 30, Gender: "male", City: "London", Bio: "Weekend cyclist."},
		{UserID: "carol", Name: "Carol", Age: 25, Gender: "female", City: "Manchester", Bio: "Gig photographer."},
		{UserID: "dave", Name: "Dave", Age: 33, Gender: "male", City: "Bristol", Bio: "Chef, mostly pastry."},
		{UserID: "erin", Name: "Erin", Age: 29, Gender: "female", City: "Leeds", Bio: "Runs ultras, slowly."},
		{UserID: "frank", Name: "Frank", Age: 31, Gender: "male", City: "London", Bio: "Board game hoarder."},
	}
	if err := db.Create(&profiles).Error; err != nil {
		return fmt.Errorf("failed to seed profiles: %w", err)
	}
	log.Printf("Seeded %d profiles.", len(profiles))

	// Mutual pairs become matches; the rest are one-way likes or passes.
	swipes := []Swipe{
		{ActorID: "alice", TargetID: "bob", Liked: true},
		{ActorID: "bob", TargetID: "alice", Liked: true}, // mutual
		{ActorID: "carol", TargetID: "dave", Liked: true},
		{ActorID: "dave", TargetID: "carol", Liked: true}, // mutual
		{ActorID: "erin", TargetID: "bob", Liked: true},   // one-way
		{ActorID: "frank", TargetID: "alice", Liked: true},
		{ActorID: "alice", TargetID: "frank", Liked: false}, // pass
		{ActorID: "bob", TargetID: "carol", Liked: false},   // pass
	}
	for _, s := range swipes {
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&s).Error; err != nil {
			return fmt.Errorf("failed to seed swipe: %w", err)
		}
	}

	for _, p := range [][2]string{{"alice", "bob"}, {"carol", "dave"}} {
		lo, hi := pair.Ordered(p[0], p[1])
		m := Match{PairKey: pair.Key(lo, hi), UserAID: lo, UserBID: hi}
		if err := db.Clauses(clause.OnConflict{DoNothing: true}).Create(&m).Error; err != nil {
			return fmt.Errorf("failed to seed match: %w", err)
		}
	}

	messages := []Message{
		{ConversationKey: pair.Key("alice", "bob"), SenderID: "alice", ReceiverID: "bob", Body: "Hey! Nice bike in your photo."},
		{ConversationKey: pair.Key("alice", "bob"), SenderID: "bob", ReceiverID: "alice", Body: "Thanks! Ever ridden the Surrey hills?"},
	}
	if err := db.Create(&messages).Error; err != nil {
		return fmt.Errorf("failed to seed messages: %w", err)
	}

	notifications := []Notification{
		{RecipientID: "alice", Kind: NotificationKindMatch, Title: "It's a match!", Body: "You matched with Bob!"},
		{RecipientID: "bob", Kind: NotificationKindMatch, Title: "It's a match!", Body: "You matched with Alice!"},
		{RecipientID: "alice", Kind: NotificationKindMessage, Title: "New message", Body: "You have a new message from Bob"},
	}
	if err := db.Create(&notifications).Error; err != nil {
		return fmt.Errorf("failed to seed notifications: %w", err)
	}

	log.Println("Seeding completed.")
	return nil
}
