package chat_test

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strings"
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
	"github.com/winklab/wink-backend/internal/identity"
	"github.com/winklab/wink-backend/internal/pair"
	"github.com/winklab/wink-backend/internal/realtime"
	"github.com/winklab/wink-backend/internal/repository"
	"github.com/winklab/wink-backend/internal/service/chat"
	"github.com/winklab/wink-backend/internal/service/notify"
)

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

// failingResolver simulates an identity provider outage.
type failingResolver struct{}

func (failingResolver) DisplayName(context.Context, string) (string, error) {
	return "", errors.New("identity provider unavailable")
}

func seedProfiles(t *testing.T, gdb *gorm.DB) {
	t.Helper()
	profiles := []db.Profile{
		{UserID: "alice", Name: "Alice", Age: 27, Gender: "female", City: "London"},
		{UserID: "bob", Name: "Bob", Age: 30, Gender: "male", City: "London"},
	}
	require.NoError(t, gdb.Create(&profiles).Error)
}

func setupService(t *testing.T, resolver identity.Resolver) (*chat.Service, *realtime.Hub, *gorm.DB) {
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

	require.NoError(t, dbase.AutoMigrate(&db.Profile{}, &db.Message{}, &db.Notification{}))
	seedProfiles(t, dbase)

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(func() { mr.Close() })

	cfg := config.New()
	cfg.Redis.Addr = mr.Addr()

	redisCache := cache.NewRedisCache(cfg)
	log := slog.New(slog.NewTextHandler(io.Discard, nil))

	hub := realtime.NewHub(log)
	appCtx := app.New(dbase, redisCache, log)
	if resolver == nil {
		resolver = identity.NewProfileResolver(repository.NewProfileRepository(dbase))
	}

	notifySvc := notify.NewService(appCtx, hub)
	return chat.NewService(appCtx, hub, notifySvc, resolver), hub, dbase
}

func TestSendStoresUnderCanonicalKey(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t, nil)

	m1, err := svc.Send(ctx, "alice", "bob", "hi")
	require.NoError(t, err)
	m2, err := svc.Send(ctx, "bob", "alice", "hey")
	require.NoError(t, err)

	// both directions land in the same conversation
	assert.Equal(t, m1.ConversationKey, m2.ConversationKey)
	assert.Equal(t, pair.Key("alice", "bob"), m1.ConversationKey)

	history, err := svc.History(ctx, pair.Key("bob", "alice"))
	require.NoError(t, err)
	require.Len(t, history, 2)
	assert.Equal(t, "hi", history[0].Body)
	assert.Equal(t, "hey", history[1].Body)
}

func TestSendDeliversAndNotifiesOnlineReceiver(t *testing.T) {
	ctx := context.Background()
	svc, hub, _ := setupService(t, nil)

	conn := &recorder{}
	hub.Join(conn, "bob")

	_, err := svc.Send(ctx, "alice", "bob", "hello there")
	require.NoError(t, err)

	delivered := conn.named(realtime.EventReceiveMessage)
	require.Len(t, delivered, 1)
	var m db.Message
	require.NoError(t, json.Unmarshal(delivered[0].Data, &m))
	assert.Equal(t, "hello there", m.Body)
	assert.Equal(t, "alice", m.SenderID)

	pushes := conn.named(realtime.EventNewNotification)
	require.Len(t, pushes, 1)
	var n db.Notification
	require.NoError(t, json.Unmarshal(pushes[0].Data, &n))
	assert.Equal(t, db.NotificationKindMessage, n.Kind)
	assert.Contains(t, n.Body, "Alice")
}

func TestSendToOfflineReceiverIsDurable(t *testing.T) {
	ctx := context.Background()
	svc, _, dbase := setupService(t, nil)

	_, err := svc.Send(ctx, "alice", "bob", "are you there?")
	require.NoError(t, err)

	// message retrievable on next fetch
	history, err := svc.History(ctx, pair.Key("alice", "bob"))
	require.NoError(t, err)
	require.Len(t, history, 1)

	// notification stored, unread
	var n db.Notification
	require.NoError(t, dbase.First(&n, "recipient_id = ?", "bob").Error)
	assert.False(t, n.Read)
}

func TestResolverFailureSubstitutesPlaceholder(t *testing.T) {
	ctx := context.Background()
	svc, _, dbase := setupService(t, failingResolver{})

	_, err := svc.Send(ctx, "alice", "bob", "hi")
	require.NoError(t, err)

	var n db.Notification
	require.NoError(t, dbase.First(&n, "recipient_id = ?", "bob").Error)
	assert.True(t, strings.HasSuffix(n.Body, identity.PlaceholderName), "body %q", n.Body)
}

func TestSendValidation(t *testing.T) {
	ctx := context.Background()
	svc, _, _ := setupService(t, nil)

	_, err := svc.Send(ctx, "alice", "bob", "")
	require.Error(t, err)
	assert.Equal(t, 400, httperr.Map(err).Status)

	_, err = svc.Send(ctx, "alice", "alice", "hi me")
	require.Error(t, err)
	assert.Equal(t, 400, httperr.Map(err).Status)

	_, err = svc.Send(ctx, "alice", "ghost", "anyone?")
	require.Error(t, err)
	assert.Equal(t, 404, httperr.Map(err).Status)

	// the conversation-key separator is reserved
	_, err = svc.Send(ctx, "ali:ce", "bob", "hi")
	require.Error(t, err)
	assert.Equal(t, 400, httperr.Map(err).Status)
}

func TestHistoryRejectsMalformedKey(t *testing.T) {
	svc, _, _ := setupService(t, nil)

	_, err := svc.History(context.Background(), "not-a-key")
	require.Error(t, err)
	assert.Equal(t, 400, httperr.Map(err).Status)
}
