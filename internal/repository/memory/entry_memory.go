// Package memory holds an in-process EntryRepository. It backs tests and the
// server when no database is configured.
package memory

import (
	"cmp"
	"context"
	"fmt"
	"slices"
	"sync"
	"time"

	"github.com/maxviazov/scrollwindow/internal/model"
	"github.com/maxviazov/scrollwindow/internal/repository"
	"github.com/maxviazov/scrollwindow/internal/scroll"
)

type entryRepository struct {
	mu      sync.RWMutex
	nextID  int64
	entries []model.Entry
	now     func() time.Time
}

func NewEntryRepository() repository.EntryRepository {
	return &entryRepository{nextID: 1, now: time.Now}
}

func (r *entryRepository) Append(_ context.Context, e model.Entry) (model.Entry, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	e.ID = r.nextID
	e.CreatedAt = r.now().UTC()
	r.nextID++
	r.entries = append(r.entries, e)
	return e, nil
}

func (r *entryRepository) GetByID(_ context.Context, id int64) (model.Entry, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, e := range r.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Entry{}, repository.ErrNotFound
}

func (r *entryRepository) List(ctx context.Context, f repository.EntryFilter, q scroll.Query) ([]model.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if err := q.Validate(); err != nil {
		return nil, err
	}
	less, err := comparator(q.Sort())
	if err != nil {
		return nil, err
	}

	r.mu.RLock()
	matched := make([]model.Entry, 0, len(r.entries))
	for _, e := range r.entries {
		if f.Topic == "" || e.Topic == f.Topic {
			matched = append(matched, e)
		}
	}
	r.mu.RUnlock()

	slices.SortStableFunc(matched, less)
	start := min(int(q.Offset()), len(matched))
	matched = matched[start:]
	if q.IsLimited() && q.Limit() < len(matched) {
		matched = matched[:q.Limit()]
	}
	return matched, nil
}

func (r *entryRepository) Scroll(ctx context.Context, f repository.EntryFilter, q scroll.Query, pos scroll.Position) (scroll.Window[model.Entry], error) {
	q, err := scroll.Apply(q, pos)
	if err != nil {
		return scroll.Window[model.Entry]{}, err
	}
	return scroll.Scroll(ctx, q, func(ctx context.Context, q scroll.Query) ([]model.Entry, error) {
		return r.List(ctx, f, q)
	}, pos)
}

func comparator(orders []scroll.Order) (func(a, b model.Entry) int, error) {
	keys := make([]func(a, b model.Entry) int, 0, len(orders)+1)
	for _, o := range orders {
		var key func(a, b model.Entry) int
		switch o.Property {
		case "id":
			key = func(a, b model.Entry) int { return cmp.Compare(a.ID, b.ID) }
		case "topic":
			key = func(a, b model.Entry) int { return cmp.Compare(a.Topic, b.Topic) }
		case "created_at":
			key = func(a, b model.Entry) int { return a.CreatedAt.Compare(b.CreatedAt) }
		default:
			return nil, fmt.Errorf("%w: cannot sort by %q", scroll.ErrInvalidQuery, o.Property)
		}
		if o.Desc {
			asc := key
			key = func(a, b model.Entry) int { return -asc(a, b) }
		}
		keys = append(keys, key)
	}
	keys = append(keys, func(a, b model.Entry) int { return cmp.Compare(a.ID, b.ID) })
	return func(a, b model.Entry) int {
		for _, k := range keys {
			if c := k(a, b); c != 0 {
				return c
			}
		}
		return 0
	}, nil
}

var _ repository.EntryRepository = (*entryRepository)(nil)
