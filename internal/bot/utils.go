package bot

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"

	"github.com/Spok95/linetrack/internal/domain/production"
)

/*** HELPERS ***/

func (b *Bot) send(msg tgbotapi.Chattable) {
	if _, err := b.api.Send(msg); err != nil {
		b.log.Error("send failed", "err", err)
	}
}

func (b *Bot) reply(chatID int64, text string) {
	b.send(tgbotapi.NewMessage(chatID, text))
}

func (b *Bot) answerCallback(cb *tgbotapi.CallbackQuery, text string) {
	if _, err := b.api.Request(tgbotapi.NewCallback(cb.ID, text)); err != nil {
		b.log.Warn("callback answer failed", "err", err)
	}
}

func (b *Bot) editTextAndClear(chatID int64, messageID int, text string) {
	edit := tgbotapi.NewEditMessageTextAndMarkup(
		chatID, messageID, text,
		tgbotapi.InlineKeyboardMarkup{InlineKeyboard: [][]tgbotapi.InlineKeyboardButton{}},
	)
	b.send(edit)
}

var errNotNumber = errors.New("not a whole number")

func parseNonNegative(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, errNotNumber
	}
	return n, nil
}

func parseHour(s string) (int, error) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 1 || n > production.Hours {
		return 0, production.ErrHourOutOfRange
	}
	return n, nil
}

// parseSMV accepts a decimal comma as typed on local keyboards.
func parseSMV(s string) (decimal.Decimal, error) {
	d, err := decimal.NewFromString(strings.ReplaceAll(strings.TrimSpace(s), ",", "."))
	if err != nil || d.IsNegative() {
		return decimal.Zero, fmt.Errorf("invalid SMV %q", s)
	}
	return d, nil
}

// callbackArg splits "prefix:value".
func callbackArg(data, prefix string) (string, bool) {
	if !strings.HasPrefix(data, prefix+":") {
		return "", false
	}
	return strings.TrimPrefix(data, prefix+":"), true
}

func sectionLabel(d production.Doc) string {
	s := d.Data
	return fmt.Sprintf("#%d Line %s · %s %s", d.SlNo, s.LineNumber, s.PF, s.Style)
}

func sectionCard(d production.Doc) string {
	s := d.Data
	var sb strings.Builder
	fmt.Fprintf(&sb, "#%d Line %s · %s\n", d.SlNo, s.LineNumber, s.Date)
	fmt.Fprintf(&sb, "%s / %s / %s / %s / %s\n", s.Buyer, s.PO, s.PF, s.Style, s.Color)
	fmt.Fprintf(&sb, "Target %d/day · SMV %s · Manpower %d\n", s.DailyTarget, s.SMV.StringFixed(4), s.TotalManpower)
	for _, p := range s.Processes {
		fmt.Fprintf(&sb, "%s: %d/h, total %d, variation %s\n",
			p.Process, p.HourlyTarget, p.TotalOutput, p.TotalVariance.String())
	}
	fmt.Fprintf(&sb, "Output %d · Efficiency %s%%", s.TotalOutput, s.Efficiency.StringFixed(2))
	return sb.String()
}
