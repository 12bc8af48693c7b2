// Package telegram is an optional second transport feeding the same mentor
// core; the Telegram chat id becomes the session id.
package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/xaenox/study-buddy/internal/mentor"
	"go.uber.org/zap"
)

type Bot struct {
	api    *tgbotapi.BotAPI
	mentor *mentor.Mentor
	logger *zap.Logger
}

func New(token string, m *mentor.Mentor, logger *zap.Logger) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot: %w", err)
	}

	return &Bot{
		api:    api,
		mentor: m,
		logger: logger,
	}, nil
}

func (b *Bot) Start() error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60

	updates := b.api.GetUpdatesChan(u)

	for update := range updates {
		if update.Message == nil {
			continue
		}

		go b.handleMessage(update.Message)
	}

	return nil
}

func (b *Bot) handleMessage(message *tgbotapi.Message) {
	ctx := context.Background()

	if message.IsCommand() {
		b.handleCommand(message)
		return
	}

	sessionID := fmt.Sprintf("tg:%d", message.Chat.ID)

	reply, err := b.mentor.HandleMessage(ctx, sessionID, message.Text)
	if err != nil {
		b.logger.Error("Failed to handle message",
			zap.Error(err),
			zap.String("session_id", sessionID))
		b.sendMessage(message.Chat.ID, "Sorry, something went wrong. Please try again.")
		return
	}

	b.sendMessage(message.Chat.ID, reply)
}

func (b *Bot) handleCommand(message *tgbotapi.Message) {
	switch message.Command() {
	case "start":
		b.sendMessage(message.Chat.ID, "I am Study Buddy, your academic and wellness companion.\nWhat should I call you?")
	case "help":
		b.sendMessage(message.Chat.ID, `I can track your marks and grades, and I'm here when you want to talk.

Try:
- "Maths - 91, Physics - 80" to record marks
- "show my grades" for your summary
- or just tell me how your day went`)
	default:
		b.sendMessage(message.Chat.ID, "Unknown command. Use /help to see what I can do.")
	}
}

func (b *Bot) sendMessage(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	if _, err := b.api.Send(msg); err != nil {
		b.logger.Error("Failed to send message",
			zap.Error(err),
			zap.Int64("chat_id", chatID))
	}
}
