package production

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

func TestRecomputeBatchKeepsOrder(t *testing.T) {
	var in []Section
	for i := 1; i <= 25; i++ {
		s := NewSection(Header{Date: "2024-07-20"})
		s.DailyTarget = 100 * i
		s.Manpower = []ManpowerEntry{entry(i, "10")}
		s.Processes[5].Observed[0] = i
		in = append(in, s)
	}

	out, err := RecomputeBatch(context.Background(), in)
	require.NoError(t, err)
	require.Len(t, out, len(in))
	for i := range in {
		assert.Empty(t, cmp.Diff(Recompute(in[i]), out[i], decimalEqual))
		assert.Equal(t, i+1, out[i].TotalOutput)
		assert.Equal(t, 10*(i+1), out[i].Processes[5].HourlyTarget)
	}
}

func TestRecomputeBatchCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := RecomputeBatch(ctx, []Section{NewSection(Header{}), NewSection(Header{})})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestRecomputeBatchEmpty(t *testing.T) {
	out, err := RecomputeBatch(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, out)
}
