package telegram

import (
	"context"
	"fmt"

	tg "github.com/amarnathcjd/gogram/telegram"

	"github.com/shubhampopalghat/userbot/internal/ports"
)

// messageEvent wraps one matched incoming message for the dispatcher.
type messageEvent struct {
	client  *Client
	message *tg.NewMessage
}

var _ ports.MessageEvent = (*messageEvent)(nil)

func (e *messageEvent) Chat() ports.ChatRef {
	return ports.ChatRef{ID: e.message.ChatID()}
}

func (e *messageEvent) Text() string {
	return e.message.Text()
}

func (e *messageEvent) SenderID() int64 {
	return e.message.SenderID()
}

func (e *messageEvent) Reply(ctx context.Context, text string) (ports.MessageRef, error) {
	if err := ctx.Err(); err != nil {
		return ports.MessageRef{}, err
	}

	sent, err := e.message.Reply(text)
	if err != nil {
		return ports.MessageRef{}, fmt.Errorf("reply: %w", classify(err))
	}

	return ports.MessageRef{Chat: e.Chat(), ID: sent.ID}, nil
}
