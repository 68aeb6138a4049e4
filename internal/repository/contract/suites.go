// Package contract holds behavior suites every repository implementation must pass.
package contract

import (
	"context"
	"errors"
	"testing"

	"github.com/maxviazov/scrollwindow/internal/model"
	"github.com/maxviazov/scrollwindow/internal/repository"
	"github.com/maxviazov/scrollwindow/internal/scroll"
)

type EntryFactory func(t *testing.T) (repository.EntryRepository, func())

type TxFactory func(t *testing.T) (tx repository.TxManager, entries repository.EntryRepository, cleanup func())

type PingerFactory func(t *testing.T) (repository.Pinger, func())

func seed(t *testing.T, repo repository.EntryRepository, topics ...string) []model.Entry {
	t.Helper()
	out := make([]model.Entry, 0, len(topics))
	for i, topic := range topics {
		e, err := repo.Append(context.Background(), model.Entry{Topic: topic, Body: "body-" + string(rune('a'+i))})
		if err != nil {
			t.Fatalf("seed: %v", err)
		}
		out = append(out, e)
	}
	return out
}

func ids(entries []model.Entry) []int64 {
	out := make([]int64, len(entries))
	for i, e := range entries {
		out[i] = e.ID
	}
	return out
}

func equalIDs(a, b []int64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

func RunEntryRepositoryContract(t *testing.T, makeRepo EntryFactory) {
	t.Helper()

	t.Run("append_and_get", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		created, err := repo.Append(ctx, model.Entry{Topic: "deploy", Body: "v1.2.0 rolled out"})
		if err != nil {
			t.Fatalf("append failed: %v", err)
		}
		if created.ID == 0 || created.CreatedAt.IsZero() {
			t.Fatalf("append did not assign id/created_at: %+v", created)
		}
		got, err := repo.GetByID(ctx, created.ID)
		if err != nil {
			t.Fatalf("get failed: %v", err)
		}
		if got.ID != created.ID || got.Topic != created.Topic || got.Body != created.Body {
			t.Fatalf("mismatch: %+v vs %+v", got, created)
		}
	})

	t.Run("get_not_found", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.GetByID(context.Background(), 999999)
		if !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected ErrNotFound, got %v", err)
		}
	})

	t.Run("scroll_windows", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		all := seed(t, repo, "a", "a", "a", "a", "a", "a", "a")
		q := repository.PageRequest{Limit: 3}.Query()

		w, err := repo.Scroll(ctx, repository.EntryFilter{}, q, scroll.InitialOffset())
		if err != nil {
			t.Fatalf("scroll: %v", err)
		}
		if !equalIDs(ids(w.Items()), ids(all[:3])) || !w.HasMore() {
			t.Fatalf("unexpected first window: ids=%v hasMore=%v", ids(w.Items()), w.HasMore())
		}
		next, ok := w.NextPosition()
		if !ok || next != (scroll.OffsetPosition{Offset: 3}) {
			t.Fatalf("unexpected next position: %v %v", next, ok)
		}

		w, err = repo.Scroll(ctx, repository.EntryFilter{}, q, scroll.AtOffset(6))
		if err != nil {
			t.Fatalf("scroll last: %v", err)
		}
		if !equalIDs(ids(w.Items()), ids(all[6:])) || w.HasMore() {
			t.Fatalf("unexpected last window: ids=%v hasMore=%v", ids(w.Items()), w.HasMore())
		}
	})

	t.Run("scroll_exact_boundary", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		all := seed(t, repo, "x", "x", "x")
		w, err := repo.Scroll(context.Background(), repository.EntryFilter{}, repository.PageRequest{Limit: 3}.Query(), scroll.InitialOffset())
		if err != nil {
			t.Fatalf("scroll: %v", err)
		}
		if w.HasMore() || !equalIDs(ids(w.Items()), ids(all)) {
			t.Fatalf("expected all 3 entries without more, got ids=%v hasMore=%v", ids(w.Items()), w.HasMore())
		}
	})

	t.Run("scroll_unlimited", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		all := seed(t, repo, "u", "u", "u", "u")
		w, err := repo.Scroll(context.Background(), repository.EntryFilter{}, scroll.NewQuery(), scroll.InitialOffset())
		if err != nil {
			t.Fatalf("scroll: %v", err)
		}
		if w.HasMore() || w.Len() != len(all) {
			t.Fatalf("expected %d entries without more, got %d hasMore=%v", len(all), w.Len(), w.HasMore())
		}
	})

	t.Run("scroll_topic_filter", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		all := seed(t, repo, "red", "blue", "red", "blue", "red")
		w, err := repo.Scroll(context.Background(), repository.EntryFilter{Topic: "red"}, repository.PageRequest{Limit: 2}.Query(), scroll.InitialOffset())
		if err != nil {
			t.Fatalf("scroll: %v", err)
		}
		want := []int64{all[0].ID, all[2].ID}
		if !equalIDs(ids(w.Items()), want) || !w.HasMore() {
			t.Fatalf("unexpected filtered window: ids=%v hasMore=%v", ids(w.Items()), w.HasMore())
		}
	})

	t.Run("scroll_descending", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		all := seed(t, repo, "d", "d", "d")
		q := scroll.NewQuery().WithLimit(2).WithSort(scroll.Order{Property: "id", Desc: true})
		w, err := repo.Scroll(context.Background(), repository.EntryFilter{}, q, scroll.InitialOffset())
		if err != nil {
			t.Fatalf("scroll: %v", err)
		}
		want := []int64{all[2].ID, all[1].ID}
		if !equalIDs(ids(w.Items()), want) || !w.HasMore() {
			t.Fatalf("unexpected descending window: ids=%v hasMore=%v", ids(w.Items()), w.HasMore())
		}
	})

	t.Run("scroll_rejects_keyset_position", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		_, err := repo.Scroll(context.Background(), repository.EntryFilter{}, scroll.NewQuery().WithLimit(2), scroll.KeysetPosition{Keys: map[string]any{"id": 1}})
		if !errors.Is(err, scroll.ErrUnsupportedPosition) {
			t.Fatalf("expected ErrUnsupportedPosition, got %v", err)
		}
	})

	t.Run("scroll_rejects_unknown_sort", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		q := scroll.NewQuery().WithLimit(2).WithSort(scroll.Order{Property: "nope"})
		_, err := repo.Scroll(context.Background(), repository.EntryFilter{}, q, scroll.InitialOffset())
		if !errors.Is(err, scroll.ErrInvalidQuery) {
			t.Fatalf("expected ErrInvalidQuery, got %v", err)
		}
	})

	t.Run("list_plain_rows", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		all := seed(t, repo, "l", "l", "l", "l", "l")
		got, err := repo.List(context.Background(), repository.EntryFilter{}, scroll.NewQuery().WithLimit(2).WithOffset(1))
		if err != nil {
			t.Fatalf("list: %v", err)
		}
		if !equalIDs(ids(got), ids(all[1:3])) {
			t.Fatalf("list must return exactly limit rows from offset, got %v", ids(got))
		}
		got, err = repo.List(context.Background(), repository.EntryFilter{}, scroll.NewQuery().WithOffset(3))
		if err != nil {
			t.Fatalf("list unlimited: %v", err)
		}
		if !equalIDs(ids(got), ids(all[3:])) {
			t.Fatalf("unexpected unlimited tail: %v", ids(got))
		}
	})

	t.Run("iterate_all", func(t *testing.T) {
		repo, cleanup := makeRepo(t)
		t.Cleanup(cleanup)
		all := seed(t, repo, "i", "i", "i", "i", "i")
		fetch := func(ctx context.Context, q scroll.Query) ([]model.Entry, error) {
			return repo.List(ctx, repository.EntryFilter{}, q)
		}
		got, err := scroll.Collect(context.Background(),
			scroll.NewIterator(repository.PageRequest{Limit: 2}.Query(), fetch, scroll.InitialOffset()))
		if err != nil {
			t.Fatalf("iterate: %v", err)
		}
		if !equalIDs(ids(got), ids(all)) {
			t.Fatalf("iterator skipped or repeated entries: %v", ids(got))
		}
	})
}

func RunTxManagerContract(t *testing.T, makeTx TxFactory) {
	t.Helper()

	t.Run("rollback_on_error", func(t *testing.T) {
		tx, entries, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		ctx := context.Background()
		var created model.Entry
		err := tx.WithinTx(ctx, func(ctx context.Context) error {
			var err error
			created, err = entries.Append(ctx, model.Entry{Topic: "tx", Body: "rolled back"})
			if err != nil {
				return err
			}
			return errors.New("force rollback")
		})
		if err == nil {
			t.Fatalf("expected error from tx")
		}
		if _, err := entries.GetByID(ctx, created.ID); !errors.Is(err, repository.ErrNotFound) {
			t.Fatalf("expected entry to be rolled back, got %v", err)
		}
	})

	t.Run("scroll_sees_own_writes", func(t *testing.T) {
		tx, entries, cleanup := makeTx(t)
		t.Cleanup(cleanup)
		err := tx.WithinTx(context.Background(), func(ctx context.Context) error {
			for i := 0; i < 3; i++ {
				if _, err := entries.Append(ctx, model.Entry{Topic: "tx", Body: "committed"}); err != nil {
					return err
				}
			}
			w, err := entries.Scroll(ctx, repository.EntryFilter{Topic: "tx"}, repository.PageRequest{Limit: 2}.Query(), scroll.InitialOffset())
			if err != nil {
				return err
			}
			if w.Len() != 2 || !w.HasMore() {
				return errors.New("scroll inside tx did not see uncommitted entries")
			}
			return nil
		})
		if err != nil {
			t.Fatalf("tx: %v", err)
		}
	})
}

func RunPingerContract(t *testing.T, makePinger PingerFactory) {
	t.Helper()
	p, cleanup := makePinger(t)
	t.Cleanup(cleanup)
	if err := p.Ping(context.Background()); err != nil {
		t.Fatalf("ping: %v", err)
	}
}
