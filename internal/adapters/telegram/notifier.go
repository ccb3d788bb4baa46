package telegram

import (
	"context"
	"fmt"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/finsent/newsradar/pkg/models"
)

// Notifier sends one-way run digests to a Telegram chat. A nil Notifier
// (no token configured) is valid and does nothing.
type Notifier struct {
	bot    *tgbotapi.BotAPI
	chatID int64
}

// New creates the notifier. Returns nil, nil when token is empty so the
// caller can wire notifications conditionally.
func New(token string, chatID int64) (*Notifier, error) {
	if token == "" {
		return nil, nil
	}

	bot, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create telegram bot: %w", err)
	}

	return &Notifier{bot: bot, chatID: chatID}, nil
}

// NotifyRunFinished posts the terminal digest of one pipeline run.
func (n *Notifier) NotifyRunFinished(_ context.Context, run models.PipelineRun) error {
	text := fmt.Sprintf(
		"News pipeline finished\n\nStatus: %s\nNew links: %d\nArticles scraped: %d\nEntities analyzed: %d\nStarted: %s",
		run.Status,
		run.NewLinksFound,
		run.ArticlesScraped,
		run.EntitiesAnalyzed,
		run.RunTimestamp.Format("2006-01-02 15:04 MST"),
	)

	msg := tgbotapi.NewMessage(n.chatID, text)
	if _, err := n.bot.Send(msg); err != nil {
		return fmt.Errorf("send telegram message: %w", err)
	}
	return nil
}
