package scroll

import "fmt"

// Window is one page of a scroll plus whether more rows follow it.
type Window[T any] struct {
	items    []T
	position PositionFunc
	hasMore  bool
}

func newWindow[T any](items []T, fn PositionFunc, hasMore bool) Window[T] {
	return Window[T]{items: items, position: fn, hasMore: hasMore}
}

// Items returns the page in query order.
func (w Window[T]) Items() []T { return w.items }

func (w Window[T]) Len() int { return len(w.items) }

func (w Window[T]) IsEmpty() bool { return len(w.items) == 0 }

// HasMore reports whether rows exist beyond this window.
func (w Window[T]) HasMore() bool { return w.hasMore }

// PositionAt returns the position resuming right after item i.
func (w Window[T]) PositionAt(i int) (Position, error) {
	if i < 0 || i >= len(w.items) {
		return nil, fmt.Errorf("%w: index %d, window size %d", ErrIndexOutOfRange, i, len(w.items))
	}
	if w.position == nil {
		return nil, fmt.Errorf("%w: position function", ErrNilArgument)
	}
	return w.position(i), nil
}

// Last returns the last item of the window.
func (w Window[T]) Last() (T, bool) {
	var zero T
	if len(w.items) == 0 {
		return zero, false
	}
	return w.items[len(w.items)-1], true
}

// NextPosition returns the position to request the following window from.
// It is false for an empty window or when nothing follows.
func (w Window[T]) NextPosition() (Position, bool) {
	if !w.hasMore || len(w.items) == 0 {
		return nil, false
	}
	pos, err := w.PositionAt(len(w.items) - 1)
	if err != nil {
		return nil, false
	}
	return pos, true
}

// MapWindow converts the items of w while keeping its positions and has-more flag.
func MapWindow[T, R any](w Window[T], fn func(T) R) Window[R] {
	out := make([]R, len(w.items))
	for i, it := range w.items {
		out[i] = fn(it)
	}
	return newWindow(out, w.position, w.hasMore)
}

// FirstN returns the first count elements of list. list is returned as is when
// count <= 0 or it holds no more than count elements. It never fails.
func FirstN[T any](count int, list []T) []T {
	if count > 0 && len(list) > count {
		return list[:count:count]
	}
	return list
}
