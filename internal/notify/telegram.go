// Package notify announces freshly resolved predictions.
package notify

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"predtrack/models"
)

// TelegramNotifier posts a short message to a chat whenever the reconciler
// resolves a record. Implements models.ResolutionSink.
type TelegramNotifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
	logger zerolog.Logger
}

// NewTelegram creates a notifier for the given bot token and chat.
func NewTelegram(token string, chatID int64) (*TelegramNotifier, error) {
	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("initializing Telegram bot: %w", err)
	}
	return &TelegramNotifier{
		bot:    bot,
		chatID: chatID,
		logger: log.With().Str("component", "telegram_notifier").Logger(),
	}, nil
}

// RecordResolution sends the announcement for one resolved record.
func (n *TelegramNotifier) RecordResolution(_ context.Context, rec *models.Record) error {
	emoji := "✅"
	if rec.Status == models.StatusIncorrect {
		emoji = "❌"
	}
	text := fmt.Sprintf("%s *Prediction resolved: %s*\n\n%s\n\nStated confidence: %d%%\n%s",
		emoji, rec.Status, rec.Statement, rec.Confidence, rec.Resolution)

	msg := tgbotapi.NewMessage(n.chatID, text)
	msg.ParseMode = "Markdown"

	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("sending Telegram message: %w", err)
	}
	n.logger.Info().Str("id", rec.ID).Msg("Announced resolution")
	return nil
}
