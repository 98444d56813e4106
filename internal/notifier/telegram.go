// Package notifier delivers review reminders to learners over Telegram.
package notifier

import (
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends reminder messages through the Telegram Bot API
type Telegram struct {
	api *tgbotapi.BotAPI
}

// NewTelegram creates a notifier from a bot token
func NewTelegram(token string) (*Telegram, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create telegram bot: %v", err)
	}
	return &Telegram{api: api}, nil
}

// SendReminder tells a learner how many cards are waiting for review
func (t *Telegram) SendReminder(chatID int64, dueCount int) error {
	text := fmt.Sprintf("📚 You have %d cards due for review!", dueCount)
	if dueCount == 1 {
		text = "📚 You have 1 card due for review!"
	}
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := t.api.Send(msg); err != nil {
		return fmt.Errorf("failed to send reminder: %v", err)
	}
	return nil
}
