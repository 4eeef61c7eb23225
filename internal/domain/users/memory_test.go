package users

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestUpsertNeverDemotesAdmin(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	u, err := m.UpsertFromTelegram(ctx, Telegram{ID: 7, Username: "boss"}, RoleAdmin)
	require.NoError(t, err)
	assert.True(t, u.IsAdmin())

	u, err = m.UpsertFromTelegram(ctx, Telegram{ID: 7, Username: "boss2"}, RoleOperator)
	require.NoError(t, err)
	assert.Equal(t, RoleAdmin, u.Role)
	assert.Equal(t, "boss2", u.Username)

	op, err := m.UpsertFromTelegram(ctx, Telegram{ID: 8}, RoleOperator)
	require.NoError(t, err)
	assert.False(t, op.IsAdmin())
	op, err = m.UpsertFromTelegram(ctx, Telegram{ID: 8}, RoleAdmin)
	require.NoError(t, err)
	assert.True(t, op.IsAdmin())

	all, err := m.List(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.EqualValues(t, 7, all[0].TelegramID)
}

func TestSetLineAndLookup(t *testing.T) {
	ctx := context.Background()
	m := NewMemory()

	missing, err := m.GetByTelegramID(ctx, 1)
	require.NoError(t, err)
	assert.Nil(t, missing)
	assert.ErrorIs(t, m.SetLine(ctx, 1, "5"), ErrNotFound)

	_, err = m.UpsertFromTelegram(ctx, Telegram{ID: 1}, RoleOperator)
	require.NoError(t, err)
	require.NoError(t, m.SetLine(ctx, 1, "5"))

	u, err := m.GetByTelegramID(ctx, 1)
	require.NoError(t, err)
	assert.Equal(t, "5", u.LineNumber)
}
