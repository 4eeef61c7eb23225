package bot

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"

	"github.com/Spok95/linetrack/internal/dialog"
	"github.com/Spok95/linetrack/internal/docstore"
	"github.com/Spok95/linetrack/internal/domain/order"
	"github.com/Spok95/linetrack/internal/domain/production"
	"github.com/Spok95/linetrack/internal/domain/users"
	"github.com/Spok95/linetrack/internal/report"
)

const helpText = `Commands:
/start - register or open the menu
/today - today's sections for your line
/line - change your line number
/report [YYYY-MM-DD] - hourly production workbook
/ot [YYYY-MM-DD] - overtime head count
/cancel - abort the current step
/help - this message`

func (b *Bot) handleCommand(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	switch msg.Command() {
	case "start":
		_ = b.states.Reset(ctx, chatID)
		b.register(ctx, msg)
	case "help":
		b.reply(chatID, helpText)
	case "line":
		b.askLine(ctx, chatID)
	case "today":
		b.showToday(ctx, msg)
	case "report":
		b.sendHourlyReport(ctx, msg, msg.CommandArguments())
	case "ot":
		b.sendOTSummary(ctx, chatID, msg.CommandArguments())
	case "cancel":
		_ = b.states.Reset(ctx, chatID)
		b.reply(chatID, "Cancelled.")
	default:
		b.reply(chatID, "Unknown command. Type /help")
	}
}

func (b *Bot) handleStateMessage(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID

	switch msg.Text {
	case btnToday:
		b.showToday(ctx, msg)
		return
	case btnReport:
		b.sendHourlyReport(ctx, msg, "")
		return
	case btnOT:
		b.sendOTSummary(ctx, chatID, "")
		return
	case btnLine:
		b.askLine(ctx, chatID)
		return
	}

	st, err := b.states.Get(ctx, chatID)
	if err != nil {
		b.log.Error("load dialog state failed", "chat_id", chatID, "err", err)
		return
	}

	switch st.State {
	case dialog.StateAwaitLine:
		b.saveLine(ctx, msg)

	case dialog.StateLogHour:
		hour, err := parseHour(msg.Text)
		if err != nil {
			b.reply(chatID, fmt.Sprintf("Send an hour from 1 to %d.", production.Hours))
			return
		}
		st.Payload[dialog.KeyHour] = hour
		_ = b.states.Set(ctx, chatID, dialog.StateLogCount, st.Payload)
		b.reply(chatID, fmt.Sprintf("Hour %d: how many pieces?", hour))

	case dialog.StateLogCount:
		count, err := parseNonNegative(msg.Text)
		if err != nil {
			b.reply(chatID, "Send the piece count as a whole number.")
			return
		}
		id, _ := dialog.GetString(st.Payload, dialog.KeySection)
		proc, _ := dialog.GetInt(st.Payload, dialog.KeyProcess)
		hour, _ := dialog.GetInt(st.Payload, dialog.KeyHour)
		doc, err := b.prod.SetObserved(ctx, id, production.Process(proc), hour, count)
		b.finishEdit(ctx, chatID, doc, err)

	case dialog.StateTargetInput:
		target, err := parseNonNegative(msg.Text)
		if err != nil {
			b.reply(chatID, "Send the daily target as a whole number.")
			return
		}
		id, _ := dialog.GetString(st.Payload, dialog.KeySection)
		doc, err := b.prod.SetDailyTarget(ctx, id, target)
		b.finishEdit(ctx, chatID, doc, err)

	case dialog.StateSMVInput:
		smv, err := parseSMV(msg.Text)
		if err != nil {
			b.reply(chatID, "Send the SMV in minutes, e.g. 12.5")
			return
		}
		id, _ := dialog.GetString(st.Payload, dialog.KeySection)
		doc, err := b.prod.SetSMV(ctx, id, smv)
		b.finishEdit(ctx, chatID, doc, err)

	default:
		b.reply(chatID, "Use the menu buttons or /help")
	}
}

func (b *Bot) finishEdit(ctx context.Context, chatID int64, doc production.Doc, err error) {
	_ = b.states.Reset(ctx, chatID)
	if err != nil {
		if errors.Is(err, docstore.ErrNotFound) {
			b.reply(chatID, "This section no longer exists.")
			return
		}
		b.log.Error("section edit failed", "chat_id", chatID, "err", err)
		b.reply(chatID, "Error: could not save the change.")
		return
	}
	b.reply(chatID, "Saved.\n\n"+sectionCard(doc))
}

func (b *Bot) handleCallback(ctx context.Context, cb *tgbotapi.CallbackQuery) {
	if cb.Message == nil {
		return
	}
	chatID := cb.Message.Chat.ID
	msgID := cb.Message.MessageID
	b.answerCallback(cb, "")

	u, err := b.users.GetByTelegramID(ctx, cb.From.ID)
	if err != nil || u == nil {
		b.editTextAndClear(chatID, msgID, "Send /start to register first.")
		return
	}

	data := cb.Data
	switch {
	case data == "nav:cancel" || data == "nav:back":
		_ = b.states.Reset(ctx, chatID)
		b.editTextAndClear(chatID, msgID, "Cancelled.")

	case strings.HasPrefix(data, "sec:"):
		id, _ := callbackArg(data, "sec")
		doc, ok := b.sectionFor(ctx, u, chatID, msgID, id)
		if !ok {
			return
		}
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, sectionCard(doc), sectionKeyboard(id, u.IsAdmin()))
		b.send(edit)

	case strings.HasPrefix(data, "log:"):
		id, _ := callbackArg(data, "log")
		if _, ok := b.sectionFor(ctx, u, chatID, msgID, id); !ok {
			return
		}
		_ = b.states.Set(ctx, chatID, dialog.StateLogPickProcess, dialog.Payload{dialog.KeySection: id})
		edit := tgbotapi.NewEditMessageTextAndMarkup(chatID, msgID, "Which process?", processKeyboard())
		b.send(edit)

	case strings.HasPrefix(data, "proc:"):
		arg, _ := callbackArg(data, "proc")
		n, err := strconv.Atoi(arg)
		st, serr := b.states.Get(ctx, chatID)
		if err != nil || !production.Process(n).Valid() || serr != nil || st.State != dialog.StateLogPickProcess {
			b.editTextAndClear(chatID, msgID, "This step has expired. Open the section again.")
			return
		}
		st.Payload[dialog.KeyProcess] = n
		_ = b.states.Set(ctx, chatID, dialog.StateLogHour, st.Payload)
		b.editTextAndClear(chatID, msgID, fmt.Sprintf("%s: which hour (1-%d)?", production.Process(n), production.Hours))

	case strings.HasPrefix(data, "tgt:"), strings.HasPrefix(data, "smv:"):
		if !u.IsAdmin() {
			b.editTextAndClear(chatID, msgID, "Only an admin can change targets.")
			return
		}
		state, prompt := dialog.StateTargetInput, "Send the new daily target."
		id, ok := callbackArg(data, "tgt")
		if !ok {
			id, _ = callbackArg(data, "smv")
			state, prompt = dialog.StateSMVInput, "Send the new SMV in minutes."
		}
		_ = b.states.Set(ctx, chatID, state, dialog.Payload{dialog.KeySection: id})
		b.editTextAndClear(chatID, msgID, prompt)

	default:
		b.log.Debug("unknown callback", "data", data)
	}
}

// sectionFor loads a section the user may act on, answering in place when
// it is gone or belongs to another line.
func (b *Bot) sectionFor(ctx context.Context, u *users.User, chatID int64, msgID int, id string) (production.Doc, bool) {
	doc, err := b.prod.Get(ctx, id)
	if err != nil {
		b.editTextAndClear(chatID, msgID, "This section no longer exists.")
		return production.Doc{}, false
	}
	if len(visibleTo(u, []production.Doc{doc})) == 0 {
		b.editTextAndClear(chatID, msgID, "This section is on another line.")
		return production.Doc{}, false
	}
	return doc, true
}

func (b *Bot) showToday(ctx context.Context, msg *tgbotapi.Message) {
	chatID := msg.Chat.ID
	u, err := b.users.GetByTelegramID(ctx, msg.From.ID)
	if err != nil || u == nil {
		b.reply(chatID, "Send /start to register first.")
		return
	}
	docs, err := b.prod.ListByDate(ctx, b.today())
	if err != nil {
		b.log.Error("list sections failed", "err", err)
		b.reply(chatID, "Error: could not load today's sections.")
		return
	}
	docs = visibleTo(u, docs)
	if len(docs) == 0 {
		b.reply(chatID, "No sections for today yet.")
		return
	}
	m := tgbotapi.NewMessage(chatID, "Today's sections:")
	m.ReplyMarkup = sectionsKeyboard(docs)
	b.send(m)
}

// visibleTo keeps an operator to their own line; admins see every line.
func visibleTo(u *users.User, docs []production.Doc) []production.Doc {
	if u.IsAdmin() {
		return docs
	}
	out := docs[:0:0]
	for _, d := range docs {
		if d.Data.LineNumber == u.LineNumber {
			out = append(out, d)
		}
	}
	return out
}

func (b *Bot) dateArg(chatID int64, arg string) (string, bool) {
	date := strings.TrimSpace(arg)
	if date == "" {
		return b.today(), true
	}
	if !order.ValidDate(date) {
		b.reply(chatID, "Date must be YYYY-MM-DD")
		return "", false
	}
	return date, true
}

func (b *Bot) sendHourlyReport(ctx context.Context, msg *tgbotapi.Message, arg string) {
	chatID := msg.Chat.ID
	date, ok := b.dateArg(chatID, arg)
	if !ok {
		return
	}
	docs, err := b.prod.ListByDate(ctx, date)
	if err != nil {
		b.log.Error("list sections failed", "err", err)
		b.reply(chatID, "Error: could not load sections.")
		return
	}
	data, err := report.Hourly(date, docstore.Data(docs))
	if err != nil {
		b.log.Error("render hourly report failed", "date", date, "err", err)
		b.reply(chatID, "Error: could not build the report.")
		return
	}
	doc := tgbotapi.NewDocument(chatID, tgbotapi.FileBytes{Name: fmt.Sprintf("hourly_report_%s.xlsx", date), Bytes: data})
	doc.Caption = fmt.Sprintf("Hourly production report, %s", date)
	b.send(doc)
}

func (b *Bot) sendOTSummary(ctx context.Context, chatID int64, arg string) {
	date, ok := b.dateArg(chatID, arg)
	if !ok {
		return
	}
	sums, err := b.ot.Summaries(ctx, date)
	if err != nil {
		b.log.Error("ot summaries failed", "date", date, "err", err)
		b.reply(chatID, "Error: could not load OT lists.")
		return
	}
	if len(sums) == 0 {
		b.reply(chatID, "No OT lists for "+date)
		return
	}
	var sb strings.Builder
	sb.WriteString("OT " + date + "\n")
	for _, s := range sums {
		fmt.Fprintf(&sb, "Line %s · %s: %s\n", s.Key.LineNumber, s.Key.PF, s.Text)
	}
	b.reply(chatID, strings.TrimRight(sb.String(), "\n"))
}
