package bot

import (
	"context"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/linetrack/internal/dialog"
	"github.com/Spok95/linetrack/internal/domain/users"
)

func (b *Bot) register(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	tg := users.Telegram{
		ID:        msg.From.ID,
		Username:  msg.From.UserName,
		FirstName: msg.From.FirstName,
		LastName:  msg.From.LastName,
	}
	role := users.RoleOperator
	if msg.From.ID == b.adminChat {
		role = users.RoleAdmin
	}
	u, err := b.users.UpsertFromTelegram(ctx, tg, role)
	if err != nil {
		b.log.Error("upsert user failed", "tg_id", tg.ID, "err", err)
		b.reply(chatID, "Error: could not save your profile")
		return
	}
	if !u.IsAdmin() && u.LineNumber == "" {
		b.askLine(ctx, chatID)
		return
	}
	b.greet(chatID, u)
}

func (b *Bot) askLine(ctx context.Context, chatID int64) {
	_ = b.states.Set(ctx, chatID, dialog.StateAwaitLine, dialog.Payload{})
	m := tgbotapi.NewMessage(chatID, "Which line number do you report for?")
	m.ReplyMarkup = navKeyboard(false, true)
	b.send(m)
}

func (b *Bot) saveLine(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	line := strings.TrimSpace(msg.Text)
	if line == "" {
		b.reply(chatID, "Send the line number, e.g. 5")
		return
	}
	if err := b.users.SetLine(ctx, msg.From.ID, line); err != nil {
		b.log.Error("set line failed", "tg_id", msg.From.ID, "err", err)
		b.reply(chatID, "Error: could not save the line. Send /start first.")
		return
	}
	_ = b.states.Reset(ctx, chatID)
	u, err := b.users.GetByTelegramID(ctx, msg.From.ID)
	if err != nil || u == nil {
		b.reply(chatID, "Line saved.")
		return
	}
	b.greet(chatID, u)
}

func (b *Bot) greet(chatID int64, u *users.User) {
	if u.IsAdmin() {
		m := tgbotapi.NewMessage(chatID, "Hello, admin! Use the buttons below to review lines and download reports.")
		m.ReplyMarkup = adminReplyKeyboard()
		b.send(m)
		return
	}
	m := tgbotapi.NewMessage(chatID, "Ready. You log hourly output for line "+u.LineNumber+". Press «"+btnToday+"».")
	m.ReplyMarkup = operatorReplyKeyboard()
	b.send(m)
}
