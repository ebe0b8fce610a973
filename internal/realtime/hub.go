package realtime

import (
	"encoding/json"
	"log/slog"
	"sync"
)

// Sender is the minimal interface the hub needs from a connection: the
// ability to hand it a pre-encoded frame without blocking indefinitely.
type Sender interface {
	Send(data []byte) error
}

// Hub is the room router. A room is the set of live connections belonging to
// one user identity; the hub maps users to rooms and fans events out to every
// connection in a room. All membership access is serialized behind one lock
// so join/leave/publish never observe a torn membership set.
type Hub struct {
	log *slog.Logger

	mu    sync.RWMutex
	rooms map[string]map[Sender]struct{}
	users map[Sender]string
}

// NewHub creates an empty hub.
func NewHub(log *slog.Logger) *Hub {
	return &Hub{
		log:   log,
		rooms: make(map[string]map[Sender]struct{}),
		users: make(map[Sender]string),
	}
}

// Join associates a connection with the given user's room. A connection
// belongs to at most one room: rejoining moves it out of its previous room.
// Idempotent for repeated joins to the same room.
func (h *Hub) Join(s Sender, userID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if prev, ok := h.users[s]; ok {
		if prev == userID {
			return
		}
		h.removeLocked(s, prev)
	}

	if h.rooms[userID] == nil {
		h.rooms[userID] = make(map[Sender]struct{})
	}
	h.rooms[userID][s] = struct{}{}
	h.users[s] = userID
}

// Leave removes a connection from whatever room it belongs to. Safe to call
// for connections that never joined, and on disconnects of any kind.
func (h *Hub) Leave(s Sender) {
	h.mu.Lock()
	defer h.mu.Unlock()

	userID, ok := h.users[s]
	if !ok {
		return
	}
	h.removeLocked(s, userID)
}

func (h *Hub) removeLocked(s Sender, userID string) {
	delete(h.users, s)
	if room, ok := h.rooms[userID]; ok {
		delete(room, s)
		if len(room) == 0 {
			delete(h.rooms, userID)
		}
	}
}

// Connected reports whether the user has at least one live connection.
func (h *Hub) Connected(userID string) bool {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return len(h.rooms[userID]) > 0
}

// Publish delivers an event to every live connection in the user's room and
// returns the number of connections reached. An empty room is a silent
// no-op. Connections whose send fails (dead or too slow to drain their
// buffer) are dropped from the room so they never block later deliveries.
func (h *Hub) Publish(userID, event string, payload any) int {
	data, err := json.Marshal(payload)
	if err != nil {
		h.log.Error("failed to encode event payload", "event", event, "err", err)
		return 0
	}
	frame, err := json.Marshal(Event{Name: event, Data: data})
	if err != nil {
		h.log.Error("failed to encode event frame", "event", event, "err", err)
		return 0
	}

	h.mu.RLock()
	targets := make([]Sender, 0, len(h.rooms[userID]))
	for s := range h.rooms[userID] {
		targets = append(targets, s)
	}
	h.mu.RUnlock()

	delivered := 0
	for _, s := range targets {
		if err := s.Send(frame); err != nil {
			h.log.Debug("dropping connection after failed send", "user", userID, "event", event, "err", err)
			h.Leave(s)
			continue
		}
		delivered++
	}
	return delivered
}
