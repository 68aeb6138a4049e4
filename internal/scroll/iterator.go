package scroll

import (
	"context"
	"fmt"
)

// Iterator walks every row of a query window by window.
// Each window re-runs the same query from the previous window's next position.
//
//	it := scroll.NewIterator(q, fetch, scroll.InitialOffset())
//	for it.Next(ctx) {
//		use(it.Value())
//	}
//	if err := it.Err(); err != nil { ... }
type Iterator[T any] struct {
	query Query
	fn    QueryFunc[T]
	next  Position

	window Window[T]
	idx    int
	done   bool
	cur    T
	err    error
}

// NewIterator returns an iterator starting at start.
func NewIterator[T any](q Query, fn QueryFunc[T], start Position) *Iterator[T] {
	return &Iterator[T]{query: q, fn: fn, next: start}
}

// Next advances to the next row, fetching a new window when the current one
// is exhausted. It returns false at the end or on error.
func (it *Iterator[T]) Next(ctx context.Context) bool {
	if it.err != nil {
		return false
	}
	for it.idx >= it.window.Len() {
		if it.done {
			return false
		}
		if err := it.fetch(ctx); err != nil {
			it.err = err
			return false
		}
	}
	it.cur = it.window.items[it.idx]
	it.idx++
	return true
}

func (it *Iterator[T]) fetch(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	q, err := Apply(it.query, it.next)
	if err != nil {
		return err
	}
	w, err := Scroll(ctx, q, it.fn, it.next)
	if err != nil {
		return fmt.Errorf("scroll from %v: %w", it.next, err)
	}
	it.window, it.idx = w, 0

	pos, ok := w.NextPosition()
	if !ok {
		it.done = true
		it.next = nil
		return nil
	}
	it.next = pos
	return nil
}

// Value returns the row Next advanced to.
func (it *Iterator[T]) Value() T { return it.cur }

// Err returns the first error met while fetching.
func (it *Iterator[T]) Err() error { return it.err }

// Collect drains the iterator into a slice.
func Collect[T any](ctx context.Context, it *Iterator[T]) ([]T, error) {
	var out []T
	for it.Next(ctx) {
		out = append(out, it.Value())
	}
	return out, it.Err()
}
