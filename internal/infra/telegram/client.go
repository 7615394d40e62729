// internal/infra/telegram/client.go
package telegram

import (
	"fmt"
	"strconv"

	"gopkg.in/telebot.v3"
)

// TelebotAdapter implements the domain telegram.Client interface using the
// gopkg.in/telebot.v3 library. All messages go to a single configured chat.
type TelebotAdapter struct {
	bot    *telebot.Bot
	chatID int64
}

func NewTelebotAdapter(b *telebot.Bot, chatID int64) *TelebotAdapter {
	return &TelebotAdapter{bot: b, chatID: chatID}
}

// SendMessage sends HTML-formatted text to the configured chat and returns
// the provider-assigned message id.
func (tba *TelebotAdapter) SendMessage(text string) (string, error) {
	msg, err := tba.bot.Send(telebot.ChatID(tba.chatID), text, &telebot.SendOptions{
		ParseMode: telebot.ModeHTML,
	})
	if err != nil {
		return "", fmt.Errorf("failed to send message: %w", err)
	}
	return strconv.Itoa(msg.ID), nil
}

// DeleteMessage deletes a previously sent message from the configured chat.
func (tba *TelebotAdapter) DeleteMessage(messageID string) error {
	ref := &telebot.StoredMessage{ChatID: tba.chatID, MessageID: messageID}
	if err := tba.bot.Delete(ref); err != nil {
		return fmt.Errorf("failed to delete message %s: %w", messageID, err)
	}
	return nil
}
