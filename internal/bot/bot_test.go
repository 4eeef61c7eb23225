package bot

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"testing"
	"time"

	tgbotapi "github.com/go-telegram-bot-api/telegram-bot-api/v5"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"

	"github.com/Spok95/linetrack/internal/dialog"
	"github.com/Spok95/linetrack/internal/docstore"
	"github.com/Spok95/linetrack/internal/domain/breakdown"
	"github.com/Spok95/linetrack/internal/domain/employees"
	"github.com/Spok95/linetrack/internal/domain/order"
	"github.com/Spok95/linetrack/internal/domain/overtime"
	"github.com/Spok95/linetrack/internal/domain/production"
	"github.com/Spok95/linetrack/internal/domain/users"
)

const (
	operatorID = int64(10)
	adminID    = int64(99)
)

type fakeAPI struct {
	mu      sync.Mutex
	sent    []tgbotapi.Chattable
	updates chan tgbotapi.Update
}

func (f *fakeAPI) Send(c tgbotapi.Chattable) (tgbotapi.Message, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sent = append(f.sent, c)
	return tgbotapi.Message{MessageID: len(f.sent)}, nil
}

func (f *fakeAPI) Request(tgbotapi.Chattable) (*tgbotapi.APIResponse, error) {
	return &tgbotapi.APIResponse{Ok: true}, nil
}

func (f *fakeAPI) GetUpdatesChan(tgbotapi.UpdateConfig) tgbotapi.UpdatesChannel { return f.updates }

func (f *fakeAPI) StopReceivingUpdates() {}

func (f *fakeAPI) last() tgbotapi.Chattable {
	f.mu.Lock()
	defer f.mu.Unlock()
	if len(f.sent) == 0 {
		return nil
	}
	return f.sent[len(f.sent)-1]
}

func (f *fakeAPI) lastText() string {
	switch m := f.last().(type) {
	case tgbotapi.MessageConfig:
		return m.Text
	case tgbotapi.EditMessageTextConfig:
		return m.Text
	case tgbotapi.DocumentConfig:
		return m.Caption
	}
	return ""
}

type fixture struct {
	api    *fakeAPI
	bot    *Bot
	prod   *production.Service
	states *dialog.Memory
	secID  string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	log := slog.New(slog.NewJSONHandler(io.Discard, nil))
	prod := production.NewService(
		production.NewRepo(docstore.NewMemory[production.Section](production.CollectionName)), log, nil)
	ot := overtime.NewRepo(docstore.NewMemory[overtime.List](overtime.CollectionName),
		employees.NewRepo(docstore.NewMemory[employees.Employee](employees.CollectionName)),
		breakdown.NewRepo(docstore.NewMemory[breakdown.Breakdown](breakdown.CollectionName)))

	h := production.Header{Date: order.Today(time.UTC), Key: order.Key{
		Buyer: "H&M", PO: "PO123", PF: "PF2401", Color: "Red", Style: "Basic Tee", LineNumber: "5"}}
	sec := production.NewSection(h)
	sec, err := sec.UpdateManpower(sec.Manpower[0].ID, 10, decimal.NewFromInt(10))
	require.NoError(t, err)
	docs, err := prod.Create(context.Background(), []production.Section{sec.WithDailyTarget(1000)})
	require.NoError(t, err)

	api := &fakeAPI{updates: make(chan tgbotapi.Update)}
	states := dialog.NewMemory()
	b := New(api, log, Deps{
		Users:       users.NewMemory(),
		States:      states,
		Production:  prod,
		Overtime:    ot,
		AdminChatID: adminID,
		Location:    time.UTC,
	})
	return &fixture{api: api, bot: b, prod: prod, states: states, secID: docs[0].ID}
}

func command(from int64, text string) tgbotapi.Update {
	cmdLen := len(text)
	for i, r := range text {
		if r == ' ' {
			cmdLen = i
			break
		}
	}
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat:     &tgbotapi.Chat{ID: from},
		From:     &tgbotapi.User{ID: from},
		Text:     text,
		Entities: []tgbotapi.MessageEntity{{Type: "bot_command", Offset: 0, Length: cmdLen}},
	}}
}

func text(from int64, s string) tgbotapi.Update {
	return tgbotapi.Update{Message: &tgbotapi.Message{
		Chat: &tgbotapi.Chat{ID: from},
		From: &tgbotapi.User{ID: from},
		Text: s,
	}}
}

func callback(from int64, data string) tgbotapi.Update {
	return tgbotapi.Update{CallbackQuery: &tgbotapi.CallbackQuery{
		ID:      "cb",
		From:    &tgbotapi.User{ID: from},
		Message: &tgbotapi.Message{MessageID: 1, Chat: &tgbotapi.Chat{ID: from}},
		Data:    data,
	}}
}

func (f *fixture) state(t *testing.T, chatID int64) dialog.State {
	t.Helper()
	it, err := f.states.Get(context.Background(), chatID)
	require.NoError(t, err)
	return it.State
}

func TestOperatorLogsHour(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bot.HandleUpdate(ctx, command(operatorID, "/start"))
	assert.Contains(t, f.api.lastText(), "Which line number")
	assert.Equal(t, dialog.StateAwaitLine, f.state(t, operatorID))

	f.bot.HandleUpdate(ctx, text(operatorID, "5"))
	assert.Contains(t, f.api.lastText(), "line 5")

	f.bot.HandleUpdate(ctx, text(operatorID, btnToday))
	msg, ok := f.api.last().(tgbotapi.MessageConfig)
	require.True(t, ok)
	kb, ok := msg.ReplyMarkup.(tgbotapi.InlineKeyboardMarkup)
	require.True(t, ok)
	require.NotNil(t, kb.InlineKeyboard[0][0].CallbackData)
	assert.Equal(t, "sec:"+f.secID, *kb.InlineKeyboard[0][0].CallbackData)

	f.bot.HandleUpdate(ctx, callback(operatorID, "sec:"+f.secID))
	assert.Contains(t, f.api.lastText(), "PAD: 100/h")

	f.bot.HandleUpdate(ctx, callback(operatorID, "log:"+f.secID))
	assert.Equal(t, dialog.StateLogPickProcess, f.state(t, operatorID))
	f.bot.HandleUpdate(ctx, callback(operatorID, "proc:5"))
	assert.Equal(t, dialog.StateLogHour, f.state(t, operatorID))

	f.bot.HandleUpdate(ctx, text(operatorID, "11"))
	assert.Contains(t, f.api.lastText(), "from 1 to 10")
	f.bot.HandleUpdate(ctx, text(operatorID, "1"))
	assert.Equal(t, dialog.StateLogCount, f.state(t, operatorID))

	f.bot.HandleUpdate(ctx, text(operatorID, "95"))
	assert.Contains(t, f.api.lastText(), "Saved.")
	assert.Equal(t, dialog.StateIdle, f.state(t, operatorID))

	doc, err := f.prod.Get(ctx, f.secID)
	require.NoError(t, err)
	pad := doc.Data.Processes[production.PAD]
	assert.Equal(t, 95, pad.Observed[0])
	assert.Equal(t, -5, pad.Variance[0])
	assert.Equal(t, 95, doc.Data.TotalOutput)
}

func TestOperatorCannotSetTarget(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bot.HandleUpdate(ctx, command(operatorID, "/start"))
	f.bot.HandleUpdate(ctx, text(operatorID, "5"))
	f.bot.HandleUpdate(ctx, callback(operatorID, "tgt:"+f.secID))
	assert.Equal(t, "Only an admin can change targets.", f.api.lastText())
	assert.Equal(t, dialog.StateIdle, f.state(t, operatorID))
}

func TestOperatorStaysOnOwnLine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	h := production.Header{Date: order.Today(time.UTC), Key: order.Key{
		Buyer: "H&M", PO: "PO124", PF: "PF2402", Color: "Blue", Style: "Polo", LineNumber: "6"}}
	docs, err := f.prod.Create(ctx, []production.Section{production.NewSection(h)})
	require.NoError(t, err)
	other := docs[0].ID

	f.bot.HandleUpdate(ctx, command(operatorID, "/start"))
	f.bot.HandleUpdate(ctx, text(operatorID, "5"))

	f.bot.HandleUpdate(ctx, callback(operatorID, "sec:"+other))
	assert.Equal(t, "This section is on another line.", f.api.lastText())

	f.bot.HandleUpdate(ctx, callback(operatorID, "log:"+other))
	assert.Equal(t, "This section is on another line.", f.api.lastText())
	assert.Equal(t, dialog.StateIdle, f.state(t, operatorID))

	f.bot.HandleUpdate(ctx, callback(operatorID, "log:missing"))
	assert.Equal(t, "This section no longer exists.", f.api.lastText())

	f.bot.HandleUpdate(ctx, command(adminID, "/start"))
	f.bot.HandleUpdate(ctx, callback(adminID, "log:"+other))
	assert.Equal(t, dialog.StateLogPickProcess, f.state(t, adminID))
}

func TestAdminSetsTargetAndSMV(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bot.HandleUpdate(ctx, command(adminID, "/start"))
	assert.Contains(t, f.api.lastText(), "Hello, admin")

	f.bot.HandleUpdate(ctx, callback(adminID, "tgt:"+f.secID))
	assert.Equal(t, dialog.StateTargetInput, f.state(t, adminID))
	f.bot.HandleUpdate(ctx, text(adminID, "1200"))
	assert.Contains(t, f.api.lastText(), "Target 1200/day")

	f.bot.HandleUpdate(ctx, callback(adminID, "smv:"+f.secID))
	f.bot.HandleUpdate(ctx, text(adminID, "0,75"))

	doc, err := f.prod.Get(ctx, f.secID)
	require.NoError(t, err)
	assert.Equal(t, 1200, doc.Data.DailyTarget)
	assert.Equal(t, 132, doc.Data.Processes[production.FrontPart].HourlyTarget)
	assert.True(t, decimal.RequireFromString("0.75").Equal(doc.Data.SMV))
}

func TestReportsAndOT(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.bot.HandleUpdate(ctx, command(adminID, "/report"))
	doc, ok := f.api.last().(tgbotapi.DocumentConfig)
	require.True(t, ok)
	assert.Contains(t, doc.Caption, order.Today(time.UTC))

	f.bot.HandleUpdate(ctx, command(adminID, "/report 2024-13-45"))
	assert.Equal(t, "Date must be YYYY-MM-DD", f.api.lastText())

	f.bot.HandleUpdate(ctx, command(adminID, "/ot 2024-07-20"))
	assert.Equal(t, "No OT lists for 2024-07-20", f.api.lastText())

	f.bot.HandleUpdate(ctx, command(adminID, "/nope"))
	assert.Contains(t, f.api.lastText(), "Unknown command")
}

func TestRunStopsOnCancel(t *testing.T) {
	defer goleak.VerifyNone(t)

	f := newFixture(t)
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- f.bot.Run(ctx, 1) }()

	f.api.updates <- command(adminID, "/help")
	cancel()
	select {
	case err := <-done:
		assert.ErrorIs(t, err, context.Canceled)
	case <-time.After(time.Second):
		t.Fatal("Run did not return after cancel")
	}
	assert.Contains(t, f.api.lastText(), "/report")
}

func TestParseHelpers(t *testing.T) {
	_, err := parseHour("0")
	assert.ErrorIs(t, err, production.ErrHourOutOfRange)
	h, err := parseHour(" 10 ")
	require.NoError(t, err)
	assert.Equal(t, 10, h)

	_, err = parseNonNegative("-1")
	assert.Error(t, err)
	_, err = parseSMV("abc")
	assert.Error(t, err)
	d, err := parseSMV("12,5")
	require.NoError(t, err)
	assert.True(t, decimal.RequireFromString("12.5").Equal(d))

	arg, ok := callbackArg("sec:abc", "sec")
	assert.True(t, ok)
	assert.Equal(t, "abc", arg)
	_, ok = callbackArg("log:abc", "sec")
	assert.False(t, ok)
}
