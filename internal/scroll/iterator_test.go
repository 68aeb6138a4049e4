package scroll_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/scrollwindow/internal/scroll"
)

func TestIterator_WalksAllWindows(t *testing.T) {
	src := &countingSource{rows: seq(7)}
	it := scroll.NewIterator(scroll.NewQuery().WithLimit(3), src.fetch, scroll.InitialOffset())

	got, err := scroll.Collect(context.Background(), it)
	require.NoError(t, err)
	assert.Equal(t, seq(7), got)
	assert.Equal(t, 3, src.calls)

	offsets := make([]int64, 0, len(src.queries))
	for _, q := range src.queries {
		offsets = append(offsets, q.Offset())
	}
	assert.Equal(t, []int64{0, 3, 6}, offsets)
}

func TestIterator_ExactMultipleStopsWithoutEmptyFetch(t *testing.T) {
	src := &countingSource{rows: seq(6)}
	got, err := scroll.Collect(context.Background(),
		scroll.NewIterator(scroll.NewQuery().WithLimit(3), src.fetch, scroll.InitialOffset()))
	require.NoError(t, err)
	assert.Len(t, got, 6)
	assert.Equal(t, 2, src.calls)
}

func TestIterator_Empty(t *testing.T) {
	src := &countingSource{}
	it := scroll.NewIterator(scroll.NewQuery().WithLimit(3), src.fetch, scroll.InitialOffset())
	assert.False(t, it.Next(context.Background()))
	assert.NoError(t, it.Err())
	assert.False(t, it.Next(context.Background()))
	assert.Equal(t, 1, src.calls)
}

func TestIterator_Unlimited(t *testing.T) {
	src := &countingSource{rows: seq(5)}
	got, err := scroll.Collect(context.Background(),
		scroll.NewIterator(scroll.NewQuery(), src.fetch, scroll.AtOffset(2)))
	require.NoError(t, err)
	assert.Equal(t, []int{3, 4, 5}, got)
	assert.Equal(t, 1, src.calls)
}

func TestIterator_StopsOnError(t *testing.T) {
	boom := errors.New("boom")
	src := &countingSource{err: boom}
	it := scroll.NewIterator(scroll.NewQuery().WithLimit(2), src.fetch, scroll.InitialOffset())
	assert.False(t, it.Next(context.Background()))
	assert.ErrorIs(t, it.Err(), boom)
}

func TestIterator_UnsupportedStart(t *testing.T) {
	src := &countingSource{rows: seq(3)}
	it := scroll.NewIterator(scroll.NewQuery().WithLimit(2), src.fetch, scroll.KeysetPosition{})
	assert.False(t, it.Next(context.Background()))
	assert.ErrorIs(t, it.Err(), scroll.ErrUnsupportedPosition)
	assert.Zero(t, src.calls)
}

func TestIterator_CanceledContext(t *testing.T) {
	src := &countingSource{rows: seq(3)}
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	it := scroll.NewIterator(scroll.NewQuery().WithLimit(2), src.fetch, scroll.InitialOffset())
	assert.False(t, it.Next(ctx))
	assert.ErrorIs(t, it.Err(), context.Canceled)
}
