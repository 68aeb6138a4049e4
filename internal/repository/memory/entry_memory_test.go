package memory_test

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/sync/errgroup"

	"github.com/maxviazov/scrollwindow/internal/model"
	"github.com/maxviazov/scrollwindow/internal/repository"
	"github.com/maxviazov/scrollwindow/internal/repository/contract"
	"github.com/maxviazov/scrollwindow/internal/repository/memory"
)

func TestEntryRepositoryContract(t *testing.T) {
	contract.RunEntryRepositoryContract(t, func(t *testing.T) (repository.EntryRepository, func()) {
		return memory.NewEntryRepository(), func() {}
	})
}

func TestPingerContract(t *testing.T) {
	contract.RunPingerContract(t, func(t *testing.T) (repository.Pinger, func()) {
		return memory.NewPinger(), func() {}
	})
}

func TestConcurrentAppendAndScroll(t *testing.T) {
	repo := memory.NewEntryRepository()
	ctx := context.Background()

	g, gctx := errgroup.WithContext(ctx)
	for i := 0; i < 50; i++ {
		g.Go(func() error {
			_, err := repo.Append(gctx, model.Entry{Topic: "load", Body: "x"})
			return err
		})
		g.Go(func() error {
			_, err := repo.Scroll(gctx, repository.EntryFilter{Topic: "load"}, repository.PageRequest{Limit: 10}.Query(), repository.PageRequest{}.Position())
			return err
		})
	}
	require.NoError(t, g.Wait())

	w, err := repo.Scroll(ctx, repository.EntryFilter{}, repository.PageRequest{}.Query(), repository.PageRequest{}.Position())
	require.NoError(t, err)
	assert.Equal(t, 50, w.Len())
	assert.False(t, w.HasMore())
}

func TestTxManager_PassesContextThrough(t *testing.T) {
	type key struct{}
	ctx := context.WithValue(context.Background(), key{}, "v")
	called := false
	err := memory.NewTxManager().WithinTx(ctx, func(inner context.Context) error {
		called = true
		assert.Equal(t, "v", inner.Value(key{}))
		return nil
	})
	require.NoError(t, err)
	assert.True(t, called)

	boom := errors.New("boom")
	assert.Same(t, boom, memory.NewTxManager().WithinTx(context.Background(), func(context.Context) error { return boom }))

	cancelled, cancel := context.WithCancel(context.Background())
	cancel()
	err = memory.NewTxManager().WithinTx(cancelled, func(context.Context) error {
		t.Fatal("fn must not run on a cancelled context")
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
}
