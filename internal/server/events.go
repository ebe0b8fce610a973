package server

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/gin-gonic/gin"

	"github.com/winklab/wink-backend/internal/realtime"
	"github.com/winklab/wink-backend/internal/service/chat"
)

// EventDispatcher routes client→server socket events. join_room binds the
// connection to a user's room; send_message goes through the same chat
// service path as the HTTP route; typing indicators are relayed
// fire-and-forget, with no persistence and no delivery guarantee.
func EventDispatcher(hub *realtime.Hub, chatSvc *chat.Service, log *slog.Logger) realtime.EventHandler {
	return func(ctx context.Context, conn realtime.Sender, ev realtime.Event) {
		switch ev.Name {
		case realtime.EventJoinRoom:
			var data realtime.JoinRoomData
			if err := json.Unmarshal(ev.Data, &data); err != nil || data.UserID == "" {
				log.Debug("ignoring malformed join_room", "err", err)
				return
			}
			hub.Join(conn, data.UserID)

		case realtime.EventSendMessage:
			var data realtime.SendMessageData
			if err := json.Unmarshal(ev.Data, &data); err != nil {
				log.Debug("ignoring malformed send_message", "err", err)
				return
			}
			if _, err := chatSvc.Send(ctx, data.SenderID, data.ReceiverID, data.Body); err != nil {
				log.Warn("socket send_message rejected", "sender", data.SenderID, "err", err)
			}

		case realtime.EventTyping:
			relayTyping(hub, ev, realtime.EventUserTyping, log)

		case realtime.EventStopTyping:
			relayTyping(hub, ev, realtime.EventUserStopTyping, log)

		default:
			log.Debug("ignoring unknown event", "event", ev.Name)
		}
	}
}

func relayTyping(hub *realtime.Hub, ev realtime.Event, outbound string, log *slog.Logger) {
	var data realtime.TypingData
	if err := json.Unmarshal(ev.Data, &data); err != nil || data.ReceiverID == "" {
		log.Debug("ignoring malformed typing event", "err", err)
		return
	}
	hub.Publish(data.ReceiverID, outbound, gin.H{"senderId": data.SenderID})
}
