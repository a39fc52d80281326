package bot

import (
	"context"
	"fmt"

	sentry "github.com/getsentry/sentry-go"
	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"promo-bot/internal/logger"
	"promo-bot/internal/service"
)

const (
	cmdStart     = "start"
	cmdTips      = "tips"
	cmdSubscribe = "subscribe"
)

// API is the subset of *tgbotapi.BotAPI the bot relies on.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

// UserStore records users on their first /start.
type UserStore interface {
	EnsureUser(ctx context.Context, userID int64) (bool, error)
}

// Bot dispatches Telegram commands to their handlers.
type Bot struct {
	api   API
	users UserStore
	promo *service.PromoService
}

// New authorizes against Telegram with token. An invalid token fails here.
func New(token string, users UserStore, promo *service.PromoService) (*Bot, error) {
	api, err := tgbotapi.NewBotAPI(token)
	if err != nil {
		return nil, fmt.Errorf("create bot api: %w", err)
	}

	logger.Log.Infow("bot authorized", "account", api.Self.UserName)

	return NewWithAPI(api, users, promo), nil
}

func NewWithAPI(api API, users UserStore, promo *service.PromoService) *Bot {
	return &Bot{api: api, users: users, promo: promo}
}

// RegisterCommands publishes the command menu shown by Telegram clients.
func (b *Bot) RegisterCommands() error {
	cfg := tgbotapi.NewSetMyCommands(
		tgbotapi.BotCommand{Command: cmdStart, Description: "加入福利群，领取注册链接"},
		tgbotapi.BotCommand{Command: cmdTips, Description: "获取今日信号"},
		tgbotapi.BotCommand{Command: cmdSubscribe, Description: "订阅VIP"},
	)
	if _, err := b.api.Request(cfg); err != nil {
		return fmt.Errorf("set commands: %w", err)
	}
	return nil
}

// Start begins polling updates until ctx is cancelled or the update channel closes.
func (b *Bot) Start(ctx context.Context) error {
	if err := b.RegisterCommands(); err != nil {
		logger.Log.Warnw("register commands", "error", err)
	}

	updateConfig := tgbotapi.NewUpdate(0)
	updateConfig.Timeout = 60
	updates := b.api.GetUpdatesChan(updateConfig)

	logger.Log.Info("start polling updates")

	done := make(chan struct{})
	defer close(done)
	go func() {
		select {
		case <-ctx.Done():
			b.api.StopReceivingUpdates()
		case <-done:
		}
	}()

	for update := range updates {
		if err := b.handleUpdate(ctx, update); err != nil {
			logger.Log.Errorw("handle update", "update_id", update.UpdateID, "error", err)
			sentry.CaptureException(err)
		}
	}

	return ctx.Err()
}

func (b *Bot) handleUpdate(ctx context.Context, update tgbotapi.Update) error {
	msg := update.Message
	if msg == nil || msg.From == nil || msg.Chat == nil {
		return nil
	}
	if !msg.IsCommand() {
		logger.Log.Debugw("skip non-command message", "user", msg.From.ID)
		return nil
	}

	logger.Log.Infow("command", "user", msg.From.ID, "command", msg.Command())

	switch msg.Command() {
	case cmdStart:
		return b.handleStart(ctx, msg)
	case cmdTips:
		return b.handleTips(msg)
	case cmdSubscribe:
		return b.handleSubscribe(msg)
	default:
		logger.Log.Debugw("unknown command", "user", msg.From.ID, "command", msg.Command())
		return nil
	}
}

func (b *Bot) handleStart(ctx context.Context, msg *tgbotapi.Message) error {
	created, err := b.users.EnsureUser(ctx, msg.From.ID)
	if err != nil {
		return fmt.Errorf("start: %w", err)
	}
	if created {
		logger.Log.Infow("new user", "user", msg.From.ID)
	}

	reply := tgbotapi.NewMessage(msg.Chat.ID, b.promo.Welcome())
	reply.ReplyMarkup = tgbotapi.NewInlineKeyboardMarkup(
		tgbotapi.NewInlineKeyboardRow(
			tgbotapi.NewInlineKeyboardButtonURL(service.WelcomeButtonText, b.promo.PlatformURL()),
		),
	)
	return b.send(reply)
}

func (b *Bot) handleTips(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, b.promo.Tip())
}

func (b *Bot) handleSubscribe(msg *tgbotapi.Message) error {
	return b.sendText(msg.Chat.ID, b.promo.Subscribe())
}

func (b *Bot) sendText(chatID int64, text string) error {
	return b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) send(msg tgbotapi.MessageConfig) error {
	if _, err := b.api.Send(msg); err != nil {
		return fmt.Errorf("send to %d: %w", msg.ChatID, err)
	}
	return nil
}
