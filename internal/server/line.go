package server

import (
	"time"

	"github.com/line/line-bot-sdk-go/v8/linebot/webhook"

	"github.com/eltgood/line-sheet-bridge/internal/biz/domain"
)

// decodeEvents converts SDK webhook events into domain events, keeping
// delivery order. Event kinds the service does not handle are dropped
// here so the dispatcher switch stays exhaustive over its own union.
func decodeEvents(events []webhook.EventInterface) []domain.Event {
	out := make([]domain.Event, 0, len(events))
	for _, raw := range events {
		switch e := raw.(type) {
		case webhook.JoinEvent:
			ev := domain.Event{
				Kind:       domain.EventJoin,
				ReplyToken: e.ReplyToken,
				Timestamp:  time.UnixMilli(e.Timestamp),
			}
			applySource(&ev, e.Source)
			out = append(out, ev)

		case webhook.LeaveEvent:
			ev := domain.Event{
				Kind:      domain.EventLeave,
				Timestamp: time.UnixMilli(e.Timestamp),
			}
			applySource(&ev, e.Source)
			out = append(out, ev)

		case webhook.MessageEvent:
			ev := domain.Event{
				Kind:       domain.EventMessage,
				ReplyToken: e.ReplyToken,
				Timestamp:  time.UnixMilli(e.Timestamp),
			}
			applySource(&ev, e.Source)
			if msg, ok := e.Message.(webhook.TextMessageContent); ok {
				ev.MessageID = msg.Id
				ev.Text = msg.Text
			}
			out = append(out, ev)
		}
	}
	return out
}

func applySource(ev *domain.Event, src webhook.SourceInterface) {
	switch s := src.(type) {
	case webhook.GroupSource:
		ev.GroupID = s.GroupId
		ev.UserID = s.UserId
	case webhook.RoomSource:
		// Multi-person rooms are not registered; treat like a user source.
		ev.UserID = s.UserId
	case webhook.UserSource:
		ev.UserID = s.UserId
	}
}
