package domain

import (
	"strings"
	"time"
)

// EventKind tags an inbound webhook event.
type EventKind string

const (
	EventJoin    EventKind = "join"
	EventLeave   EventKind = "leave"
	EventMessage EventKind = "message"
)

// Event is a decoded webhook event. Kind selects which fields are
// meaningful: Text and MessageID are set for message events only, and
// leave events carry no reply token.
type Event struct {
	Kind       EventKind
	GroupID    string // empty when the source is a bare user
	UserID     string
	ReplyToken string
	MessageID  string
	Text       string
	Timestamp  time.Time
}

// FromGroup reports whether the event originated in a group chat.
func (e *Event) FromGroup() bool {
	return e.GroupID != ""
}

// CanReply reports whether the reply token is usable. Platform
// verification pings carry an all-zero sentinel token that the reply API
// always rejects, so those are treated as non-repliable.
func (e *Event) CanReply() bool {
	if e.ReplyToken == "" {
		return false
	}
	return strings.Trim(e.ReplyToken, "0") != ""
}
