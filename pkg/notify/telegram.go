package notify

import (
	"context"
	"fmt"
	"strings"

	"hlwatcher/internal/position"

	tgbot "github.com/go-telegram-bot-api/telegram-bot-api/v5"
)

// Telegram sends alerts to a single chat through a bot.
type Telegram struct {
	bot    *tgbot.BotAPI
	chatID int64
}

func NewTelegram(token string, chatID int64) (*Telegram, error) {
	b, err := tgbot.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("telegram bot: %w", err)
	}
	return &Telegram{bot: b, chatID: chatID}, nil
}

// NewTelegramWithBot wraps an already configured bot (custom endpoint or HTTP client).
func NewTelegramWithBot(bot *tgbot.BotAPI, chatID int64) *Telegram {
	return &Telegram{bot: bot, chatID: chatID}
}

func (t *Telegram) Notify(ctx context.Context, ev position.Event) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	// Discord bold markers read as noise in plain Telegram text
	msg := tgbot.NewMessage(t.chatID, strings.ReplaceAll(ev.Message(), "**", ""))
	msg.DisableWebPagePreview = true

	if _, err := t.bot.Send(msg); err != nil {
		return fmt.Errorf("%w: telegram: %v", ErrDelivery, err)
	}
	return nil
}
