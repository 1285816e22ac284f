package bot

import (
	"context"
	"errors"
	"strconv"
	"strings"

	"tutor-desk/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

const helpText = "📋 Commands:\n" +
	"/subscription &lt;id&gt; - subscription summary\n" +
	"/help - this message"

func (b *Bot) handleMessage(ctx context.Context, message *tgbotapi.Message) {
	chatID := message.Chat.ID
	if !b.admins[chatID] {
		b.log.Debug("ignoring message from non-admin", zap.Int64("chat_id", chatID))
		return
	}
	if !message.IsCommand() {
		b.sendWithKeyboard(chatID, helpText)
		return
	}

	switch message.Command() {
	case "start", "help":
		b.sendWithKeyboard(chatID, helpText)
	case "subscription":
		b.handleSubscriptionCommand(ctx, chatID, message.CommandArguments())
	default:
		b.send(chatID, "❓ Unknown command. "+helpText)
	}
}

func (b *Bot) handleSubscriptionCommand(ctx context.Context, chatID int64, args string) {
	id, err := strconv.ParseInt(strings.TrimSpace(args), 10, 64)
	if err != nil || id <= 0 {
		b.send(chatID, "⚠️ Usage: /subscription &lt;id&gt;")
		return
	}

	sub, err := b.subscriptions.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			b.send(chatID, "🔍 Subscription not found")
			return
		}
		b.log.Error("load subscription", zap.Int64("subscription_id", id), zap.Error(err))
		b.send(chatID, "❌ Could not load the subscription")
		return
	}

	b.send(chatID, formatSubscription(sub))
}
