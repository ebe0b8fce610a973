package realtime

import (
	"encoding/json"
	"errors"
	"io"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fakeSender struct {
	frames [][]byte
	fail   bool
}

func (f *fakeSender) Send(data []byte) error {
	if f.fail {
		return errors.New("send fail")
	}
	f.frames = append(f.frames, data)
	return nil
}

func (f *fakeSender) lastEvent(t *testing.T) Event {
	t.Helper()
	require.NotEmpty(t, f.frames)
	var ev Event
	require.NoError(t, json.Unmarshal(f.frames[len(f.frames)-1], &ev))
	return ev
}

func newTestHub() *Hub {
	return NewHub(slog.New(slog.NewTextHandler(io.Discard, nil)))
}

func TestPublishReachesAllRoomConnections(t *testing.T) {
	hub := newTestHub()

	a := &fakeSender{}
	b := &fakeSender{}
	hub.Join(a, "alice")
	hub.Join(b, "alice") // second device

	n := hub.Publish("alice", EventNewNotification, map[string]string{"title": "hi"})
	assert.Equal(t, 2, n)
	assert.Equal(t, EventNewNotification, a.lastEvent(t).Name)
	assert.Equal(t, EventNewNotification, b.lastEvent(t).Name)
}

func TestPublishToEmptyRoomIsNoop(t *testing.T) {
	hub := newTestHub()
	assert.Equal(t, 0, hub.Publish("nobody", EventReceiveMessage, nil))
}

func TestRejoinMovesConnectionBetweenRooms(t *testing.T) {
	hub := newTestHub()

	s := &fakeSender{}
	hub.Join(s, "alice")
	hub.Join(s, "bob") // replaces the prior association

	assert.False(t, hub.Connected("alice"))
	assert.True(t, hub.Connected("bob"))
	assert.Equal(t, 0, hub.Publish("alice", EventUserTyping, nil))
	assert.Equal(t, 1, hub.Publish("bob", EventUserTyping, nil))
}

func TestLeaveIsSafeForUnknownConnection(t *testing.T) {
	hub := newTestHub()
	hub.Leave(&fakeSender{}) // never joined

	s := &fakeSender{}
	hub.Join(s, "alice")
	hub.Leave(s)
	hub.Leave(s) // double leave
	assert.False(t, hub.Connected("alice"))
}

func TestFailedSenderIsDroppedFromRoom(t *testing.T) {
	hub := newTestHub()

	ok := &fakeSender{}
	bad := &fakeSender{fail: true}
	hub.Join(ok, "dave")
	hub.Join(bad, "dave")

	n := hub.Publish("dave", EventReceiveMessage, map[string]string{"body": "x"})
	assert.Equal(t, 1, n)

	// the failing connection was unregistered; later publishes only count
	// the healthy one
	n = hub.Publish("dave", EventReceiveMessage, map[string]string{"body": "y"})
	assert.Equal(t, 1, n)
	assert.Len(t, ok.frames, 2)
}

func TestPublishPayloadRoundTrip(t *testing.T) {
	hub := newTestHub()

	s := &fakeSender{}
	hub.Join(s, "erin")
	hub.Publish("erin", EventUserTyping, TypingData{SenderID: "frank", ReceiverID: "erin"})

	ev := s.lastEvent(t)
	assert.Equal(t, EventUserTyping, ev.Name)

	var data TypingData
	require.NoError(t, json.Unmarshal(ev.Data, &data))
	assert.Equal(t, "frank", data.SenderID)
}
