package scroll

import (
	"fmt"
	"slices"

	"github.com/go-playground/validator/v10"
)

// Unlimited is the canonical "no limit" value of a Query.
const Unlimited = 0

// Order is a single sort clause. The windower never looks at it; executors do.
type Order struct {
	Property string `validate:"required"`
	Desc     bool
}

// Query is an immutable description of a bounded data request.
// Every With* method returns a copy and leaves the receiver untouched.
type Query struct {
	limit  int
	offset int64
	sort   []Order
}

// NewQuery returns an unlimited query starting at offset 0.
func NewQuery() Query { return Query{} }

// Limit returns the row limit, or Unlimited.
func (q Query) Limit() int { return q.limit }

// Offset returns the number of rows skipped before the first returned row.
func (q Query) Offset() int64 { return q.offset }

// Sort returns a copy of the sort clauses.
func (q Query) Sort() []Order { return slices.Clone(q.sort) }

// IsLimited reports whether a finite positive limit applies.
func (q Query) IsLimited() bool { return q.limit > 0 }

// WithLimit returns a copy with the limit replaced. Non-positive values mean Unlimited.
func (q Query) WithLimit(n int) Query {
	if n < 0 {
		n = Unlimited
	}
	q.sort = slices.Clone(q.sort)
	q.limit = n
	return q
}

// WithOffset returns a copy with the offset replaced. Negative values clamp to 0.
func (q Query) WithOffset(n int64) Query {
	if n < 0 {
		n = 0
	}
	q.sort = slices.Clone(q.sort)
	q.offset = n
	return q
}

// WithSort returns a copy whose sort clauses are replaced by orders.
func (q Query) WithSort(orders ...Order) Query {
	q.sort = slices.Clone(orders)
	return q
}

func (q Query) String() string {
	return fmt.Sprintf("query(limit=%d offset=%d sort=%v)", q.limit, q.offset, q.sort)
}

type queryRules struct {
	Limit  int     `validate:"gte=0"`
	Offset int64   `validate:"gte=0"`
	Sort   []Order `validate:"dive"`
}

var validate = validator.New()

// Validate checks the query's field constraints. Queries built through the
// With* methods are always valid except for sort clauses with empty properties.
func (q Query) Validate() error {
	if err := validate.Struct(queryRules{Limit: q.limit, Offset: q.offset, Sort: q.sort}); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidQuery, err)
	}
	return nil
}

// Apply seeds q with the offset carried by pos.
func Apply(q Query, pos Position) (Query, error) {
	switch p := pos.(type) {
	case nil:
		return Query{}, fmt.Errorf("%w: position", ErrNilArgument)
	case OffsetPosition:
		return q.WithOffset(p.Offset), nil
	default:
		return Query{}, fmt.Errorf("%w: %T", ErrUnsupportedPosition, pos)
	}
}
