package scroll

import "fmt"

// Position identifies where a scroll resumes within an ordered result.
// The set of variants is closed: only types in this package implement it.
type Position interface {
	isPosition()
}

// PositionFunc maps a zero-based index within a window to the position
// that resumes the sequence right after that element.
type PositionFunc func(index int) Position

// OffsetPosition is an offset-based position. Offset counts the rows already
// consumed, so it is also the OFFSET of the page that starts here.
type OffsetPosition struct {
	Offset int64
}

// InitialOffset is the position before the first row.
func InitialOffset() OffsetPosition { return OffsetPosition{} }

// AtOffset returns an offset position; negative offsets clamp to the start.
func AtOffset(offset int64) OffsetPosition {
	if offset < 0 {
		offset = 0
	}
	return OffsetPosition{Offset: offset}
}

func (OffsetPosition) isPosition() {}

// IsInitial reports whether nothing has been consumed yet.
func (p OffsetPosition) IsInitial() bool { return p.Offset == 0 }

// PositionFunction returns the function resolving element i of a window that
// started at p to the position after it.
func (p OffsetPosition) PositionFunction() PositionFunc {
	start := p.Offset
	return func(index int) Position {
		return OffsetPosition{Offset: start + int64(index) + 1}
	}
}

func (p OffsetPosition) String() string { return fmt.Sprintf("offset(%d)", p.Offset) }

// KeysetPosition is a value-based cursor keyed by sort properties.
// Windowing over it is not implemented; Scroll rejects it with ErrUnsupportedPosition.
type KeysetPosition struct {
	Keys map[string]any
}

func (KeysetPosition) isPosition() {}

func (p KeysetPosition) String() string { return fmt.Sprintf("keyset(%v)", p.Keys) }
