package data

import (
	"context"

	"github.com/line/line-bot-sdk-go/v8/linebot/messaging_api"

	"github.com/eltgood/line-sheet-bridge/internal/biz/repo"
)

// lineRepo implements the messenger repository over the LINE Messaging API.
type lineRepo struct {
	api *messaging_api.MessagingApiAPI
}

// NewLineRepo creates a LINE messenger repository.
func NewLineRepo(api *messaging_api.MessagingApiAPI) repo.MessengerRepo {
	return &lineRepo{api: api}
}

func (r *lineRepo) Reply(ctx context.Context, replyToken, text string) error {
	_, err := r.api.ReplyMessage(&messaging_api.ReplyMessageRequest{
		ReplyToken: replyToken,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	})
	return err
}

func (r *lineRepo) Push(ctx context.Context, groupID, text string) error {
	_, err := r.api.PushMessage(&messaging_api.PushMessageRequest{
		To: groupID,
		Messages: []messaging_api.MessageInterface{
			messaging_api.TextMessage{Text: text},
		},
	}, "")
	return err
}
