package notify_test

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/winklab/wink-backend/internal/app"
	"github.com/winklab/wink-backend/internal/cache"
	"github.com/winklab/wink-backend/internal/config"
	"github.com/winklab/wink-backend/internal/db"
	"github.com/winklab/wink-backend/internal/httperr"
	"github.com/winklab/wink-backend/internal/realtime"
	"github.com/winklab/wink-backend/internal/service/notify"
)

// recorder is a fake room-router connection capturing published events.
type recorder struct {
	mu     sync.Mutex
	events []realtime.Event
}

func (r *recorder) Send(data []byte) error {
	var ev realtime.Event
	if err := json.Unmarshal(data, &ev); err != nil {
		return err
	}
	r.mu.Lock()
	r.events = append(r.events, ev)
	r.mu.Unlock()
	return nil
}

func (r *recorder) named(name string) []realtime.Event {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []realtime.Event
	for _, ev := range r.events {
		if ev.Name == name {
			out = append(out, ev)
		}
	}
	return out
}

// setupService spins up an in-memory SQLite DB, a miniredis, and a hub, and
// wires them into a notification service. Each test gets its own isolated
// DB + Redis.
func setupService(t *testing.T) (*notify.Service, *realtime.Hub, *gorm.DB) {
	t.Helper()

	dbName := fmt.Sprintf("file:%s?mode=memory&cache=shared", t.Name())
	dbase, err := gorm.Open(sqlite.Open(dbName), &gorm.Config{
		NowFunc:                func() time.Time { return time.Now().UTC().Truncate(time.Millisecond) },
		SkipDefaultTransaction: true,
	})
	require.NoError(t, err)

	sqlDB, err := dbase.DB()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	require.NoError(t, dbase.AutoMigrate(&db.Notification{}))

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	hub := realtime.NewHub(log)
	appCtx := app.New(dbase, redisCache, log)
	return notify.NewService(appCtx, hub), hub, dbase
}

func TestNotifyStoresAndPushesWhenOnline(t *testing.T) {
	ctx := context.Background()
	svc, hub, dbase := setupService(t)

	conn := &recorder{}
	hub.Join(conn, "alice")

	n, err := svc.Notify(ctx, "alice", db.NotificationKindMatch, "It's a match!", "You matched with Bob!")
	require.NoError(t, err)
	assert.False(t, n.Read)
	assert.NotZero(t, n.ID)

	var stored db.Notification
	require.NoError(t, dbase.First(&stored, "recipient_id = ?", "alice").Error)
	assert.Equal(t, db.NotificationKindMatch, stored.Kind)

	pushes := conn.named(realtime.EventNewNotification)
	require.Len(t, pushes, 1)
	var payload db.Notification
	require.NoError(t, json.Unmarshal(pushes[0].Data, &payload))
	assert.Equal(t, "It's a match!", payload.Title)
}

func TestNotifyOfflineRecipientIsStoredNotPushed(t *testing.T) {
	ctx := context.Background()
	svc, _, dbase := setupService(t)

	_, err := svc.Notify(ctx, "bob", db.NotificationKindMessage, "New message", "You have a new message from Alice")
	require.NoError(t, err)

	var count int64
	require.NoError(t, dbase.Model(&db.Notification{}).Where("recipient_id = ?", "bob").Count(&count).Error)
	assert.Equal(t, int64(1), count)
}

func TestNotifyRejectsUnknownKind(t *testing.T) {
	svc, _, _ := setupService(t)

	_, err := svc.Notify(context.Background(), "alice", "nudge", "t", "b")
	require.Error(t, err)
	assert.Equal(t, 400, httperr.Map(err).Status)
}

func TestMarkReadIsIdempotent(t *testing.T) {
	ctx := context.Background()
	svc, _, dbase := setupService(t)

	n, err := svc.Notify(ctx, "alice", db.NotificationKindSystem, "Welcome", "Have fun")
	require.NoError(t, err)

	require.NoError(t, svc.MarkRead(ctx, n.ID))
	require.NoError(t, svc.MarkRead(ctx, n.ID)) // second read-ack is a no-op

	var stored db.Notification
	require.NoError(t, dbase.First(&stored, "id = ?", n.ID).Error)
	assert.True(t, stored.Read)
}

func TestMarkReadUnknownIDIsNotFound(t *testing.T) {
	svc, _, _ := setupService(t)

	err := svc.MarkRead(context.Background(), 9999)
	require.Error(t, err)
	assert.Equal(t, 404, httperr.Map(err).Status)
}

func TestUnreadCountCacheFirst(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	_, err := svc.Notify(ctx, "alice", db.NotificationKindMessage, "New message", "one")
	require.NoError(t, err)
	_, err = svc.Notify(ctx, "alice", db.NotificationKindMessage, "New message", "two")
	require.NoError(t, err)

	// first call -> DB, repopulates the cache
	count, err := svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(2), count)

	// subsequent notifications bump the now-warm counter
	_, err = svc.Notify(ctx, "alice", db.NotificationKindMessage, "New message", "three")
	require.NoError(t, err)

	count, err = svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestMarkAllReadResetsCount(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t)

	for i := 0; i < 3; i++ {
		_, err := svc.Notify(ctx, "alice", db.NotificationKindMessage, "New message", "hi")
		require.NoError(t, err)
	}
	require.NoError(t, svc.MarkAllRead(ctx, "alice"))

	count, err := svc.UnreadCount(ctx, "alice")
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)

	notifications, err := svc.List(ctx, "alice")
	require.NoError(t, err)
	require.Len(t, notifications, 3)
	for _, n := range notifications {
		assert.True(t, n.Read)
	}
}
