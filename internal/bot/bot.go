package bot

import (
	"context"
	"log/slog"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/linetrack/internal/dialog"
	"github.com/Spok95/linetrack/internal/domain/order"
	"github.com/Spok95/linetrack/internal/domain/overtime"
	"github.com/Spok95/linetrack/internal/domain/production"
	"github.com/Spok95/linetrack/internal/domain/users"
)

// API is the part of tgbotapi.BotAPI the bot uses.
type API interface {
	Send(c tgbotapi.Chattable) (tgbotapi.Message, error)
	Request(c tgbotapi.Chattable) (*tgbotapi.APIResponse, error)
	GetUpdatesChan(config tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel
	StopReceivingUpdates()
}

type UserStore interface {
	GetByTelegramID(ctx context.Context, tgID int64) (*users.User, error)
	UpsertFromTelegram(ctx context.Context, tg users.Telegram, role users.Role) (*users.User, error)
	SetLine(ctx context.Context, tgID int64, line string) error
}

type StateStore interface {
	Get(ctx context.Context, chatID int64) (*dialog.Item, error)
	Set(ctx context.Context, chatID int64, state dialog.State, payload dialog.Payload) error
	Reset(ctx context.Context, chatID int64) error
}

type Metrics interface {
	BotUpdate(kind string)
}

type Deps struct {
	Users       UserStore
	States      StateStore
	Production  *production.Service
	Overtime    *overtime.Repo
	AdminChatID int64
	Location    *time.Location
	Metrics     Metrics
}

type Bot struct {
	api       API
	log       *slog.Logger
	users     UserStore
	states    StateStore
	prod      *production.Service
	ot        *overtime.Repo
	adminChat int64
	loc       *time.Location
	metrics   Metrics
}

func New(api API, log *slog.Logger, d Deps) *Bot {
	loc := d.Location
	if loc == nil {
		loc = time.UTC
	}
	return &Bot{
		api: api, log: log.With("component", "bot"),
		users: d.Users, states: d.States,
		prod: d.Production, ot: d.Overtime,
		adminChat: d.AdminChatID, loc: loc, metrics: d.Metrics,
	}
}

func (b *Bot) Run(ctx context.Context, timeoutSec int) error {
	u := tgbotapi.NewUpdate(0)
	u.Timeout = timeoutSec
	updates := b.api.GetUpdatesChan(u)
	defer b.api.StopReceivingUpdates()
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case upd, ok := <-updates:
			if !ok {
				return nil
			}
			b.HandleUpdate(ctx, upd)
		}
	}
}

func (b *Bot) HandleUpdate(ctx context.Context, upd tgbotapi.Update) {
	switch {
	case upd.Message != nil && upd.Message.IsCommand():
		b.observe("command")
		b.handleCommand(ctx, upd.Message)
	case upd.Message != nil:
		b.observe("message")
		b.handleStateMessage(ctx, upd.Message)
	case upd.CallbackQuery != nil:
		b.observe("callback")
		b.handleCallback(ctx, upd.CallbackQuery)
	}
}

func (b *Bot) observe(kind string) {
	if b.metrics != nil {
		b.metrics.BotUpdate(kind)
	}
}

func (b *Bot) today() string { return order.Today(b.loc) }
