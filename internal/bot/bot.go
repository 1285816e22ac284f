package bot

import (
	"context"
	"fmt"

	"tutor-desk/internal/models/config"
	"tutor-desk/internal/repository"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api"
	"go.uber.org/zap"
)

// sender is the part of the telegram API the bot uses to reply.
type sender interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
}

// Bot notifies administrators about new subscriptions and lessons and
// answers their lookup commands.
type Bot struct {
	api           *tgbotapi.BotAPI
	sender        sender
	subscriptions repository.SubscriptionRepository
	admins        map[int64]bool
	adminIDs      []int64
	log           *zap.Logger
}

func NewBot(cfg config.BotConfig, subscriptions repository.SubscriptionRepository, log *zap.Logger) (*Bot, error) {
	if cfg.Token == "" {
		return nil, fmt.Errorf("BOT_TOKEN is not set")
	}

	api, err := tgbotapi.NewBotAPI(cfg.Token)
	if err != nil {
		return nil, fmt.Errorf("failed to create bot API: %w", err)
	}
	api.Debug = cfg.Debug

	b := newBot(api, cfg.AdminIDs, subscriptions, log)
	b.api = api
	b.log.Info("bot initialized",
		zap.String("username", api.Self.UserName),
		zap.Bool("debug", cfg.Debug),
		zap.Int64s("admins", cfg.AdminIDs),
	)
	return b, nil
}

func newBot(s sender, adminIDs []int64, subscriptions repository.SubscriptionRepository, log *zap.Logger) *Bot {
	admins := make(map[int64]bool, len(adminIDs))
	for _, id := range adminIDs {
		admins[id] = true
	}
	return &Bot{
		sender:        s,
		subscriptions: subscriptions,
		admins:        admins,
		adminIDs:      adminIDs,
		log:           log.Named("bot"),
	}
}

// Start reads updates until ctx is cancelled.
func (b *Bot) Start(ctx context.Context) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = 60
	updates, err := b.api.GetUpdatesChan(u)
	if err != nil {
		return fmt.Errorf("get updates: %w", err)
	}
	b.log.Info("listening for updates", zap.String("username", b.api.Self.UserName))

	for {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
			return nil
		case update, ok := <-updates:
			if !ok {
				return nil
			}
			if update.Message == nil {
				continue
			}
			b.handleMessage(ctx, update.Message)
		}
	}
}

func (b *Bot) send(chatID int64, text string) {
	msg := tgbotapi.NewMessage(chatID, text)
	msg.ParseMode = tgbotapi.ModeHTML
	if _, err := b.sender.Send(msg); err != nil {
		b.log.Warn("send message failed", zap.Int64("chat_id", chatID), zap.Error(err))
	}
}
