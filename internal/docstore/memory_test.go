package docstore

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type note struct {
	Date string `json:"date"`
	Text string `json:"text"`
}

func TestMemoryNumbering(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[note]("notes")

	first, err := c.Add(ctx, note{Date: "2024-07-20", Text: "a"})
	require.NoError(t, err)
	assert.Equal(t, 1, first.SlNo)
	assert.NotEmpty(t, first.ID)

	batch, err := c.AddBatch(ctx, []note{{Date: "2024-07-21", Text: "b"}, {Date: "2024-07-20", Text: "c"}})
	require.NoError(t, err)
	require.Len(t, batch, 2)
	assert.Equal(t, 2, batch[0].SlNo)
	assert.Equal(t, 3, batch[1].SlNo)

	// the next serial is max+1 over what is stored now
	require.NoError(t, c.Delete(ctx, batch[1].ID))
	next, err := c.Add(ctx, note{Text: "d"})
	require.NoError(t, err)
	assert.Equal(t, 3, next.SlNo)

	require.NoError(t, c.Delete(ctx, first.ID))
	again, err := c.Add(ctx, note{Text: "e"})
	require.NoError(t, err)
	assert.Equal(t, 4, again.SlNo)

	all, err := c.List(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"b", "d", "e"}, texts(all))
}

func TestMemoryCRUD(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[note]("notes")

	doc, err := c.Add(ctx, note{Date: "2024-07-20", Text: "a"})
	require.NoError(t, err)

	got, err := c.Get(ctx, doc.ID)
	require.NoError(t, err)
	assert.Equal(t, "a", got.Data.Text)

	upd, err := c.Update(ctx, doc.ID, note{Date: "2024-07-20", Text: "a2"})
	require.NoError(t, err)
	assert.Equal(t, doc.SlNo, upd.SlNo)
	assert.Equal(t, "a2", upd.Data.Text)

	t.Run("unknown id", func(t *testing.T) {
		_, err := c.Get(ctx, "missing")
		assert.ErrorIs(t, err, ErrNotFound)
		_, err = c.Update(ctx, "missing", note{})
		assert.ErrorIs(t, err, ErrNotFound)
		assert.ErrorIs(t, c.Delete(ctx, "missing"), ErrNotFound)
	})

	require.NoError(t, c.Delete(ctx, doc.ID))
	_, err = c.Get(ctx, doc.ID)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestMemoryFind(t *testing.T) {
	ctx := context.Background()
	c := NewMemory[note]("notes")
	_, err := c.AddBatch(ctx, []note{
		{Date: "2024-07-20", Text: "a"},
		{Date: "2024-07-21", Text: "b"},
		{Date: "2024-07-20", Text: "c"},
	})
	require.NoError(t, err)

	found, err := c.Find(ctx, "date", "2024-07-20")
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, texts(found))

	none, err := c.Find(ctx, "date", "2030-01-01")
	require.NoError(t, err)
	assert.Empty(t, none)
}

func TestMemoryObserver(t *testing.T) {
	ctx := context.Background()
	var ops []string
	c := NewMemory[note]("notes", WithObserver(func(collection, op string) {
		ops = append(ops, collection+":"+op)
	}))

	doc, err := c.Add(ctx, note{Text: "a"})
	require.NoError(t, err)
	_, err = c.Update(ctx, doc.ID, note{Text: "b"})
	require.NoError(t, err)
	require.NoError(t, c.Delete(ctx, doc.ID))

	assert.Equal(t, []string{"notes:add", "notes:update", "notes:delete"}, ops)
}

func TestMemoryCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	c := NewMemory[note]("notes")
	_, err := c.Add(ctx, note{})
	assert.ErrorIs(t, err, context.Canceled)
}

func texts(docs []Doc[note]) []string {
	out := []string{}
	for _, d := range Data(docs) {
		out = append(out, d.Text)
	}
	return out
}
