package realtime

import "encoding/json"

// Wire event names. Client→server events arrive through the socket read
// loop; server→client events are published through the hub.
const (
	// client → server
	EventJoinRoom    = "join_room"
	EventSendMessage = "send_message"
	EventTyping      = "typing"
	EventStopTyping  = "stop_typing"

	// server → client
	EventReceiveMessage  = "receive_message"
	EventNewNotification = "new_notification"
	EventUserTyping      = "user_typing"
	EventUserStopTyping  = "user_stop_typing"
)

// Event is the JSON envelope carried in both directions over a socket.
type Event struct {
	Name string          `json:"event"`
	Data json.RawMessage `json:"data"`
}

// JoinRoomData is the payload of a join_room event.
type JoinRoomData struct {
	UserID string `json:"userId"`
}

// SendMessageData is the payload of a send_message event.
type SendMessageData struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
	Body       string `json:"body"`
}

// TypingData is the payload of typing / stop_typing events.
type TypingData struct {
	SenderID   string `json:"senderId"`
	ReceiverID string `json:"receiverId"`
}
