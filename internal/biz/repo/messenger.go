package repo

import "context"

// MessengerRepo sends messages through the chat platform's HTTP API.
type MessengerRepo interface {
	// Reply sends a text message on the reply channel of one inbound
	// event. Reply tokens are single use.
	Reply(ctx context.Context, replyToken, text string) error

	// Push sends a server-initiated text message to a group.
	Push(ctx context.Context, groupID, text string) error
}
