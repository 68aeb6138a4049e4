package repository_test

import (
	"errors"
	"testing"

	"github.com/jackc/pgerrcode"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"

	"github.com/maxviazov/scrollwindow/internal/repository"
	"github.com/maxviazov/scrollwindow/internal/scroll"
)

func TestMapPgError(t *testing.T) {
	boom := errors.New("boom")
	other := &pgconn.PgError{Code: pgerrcode.SyntaxError}
	cases := []struct {
		name string
		in   error
		want error
	}{
		{"nil", nil, nil},
		{"unique", &pgconn.PgError{Code: pgerrcode.UniqueViolation}, repository.ErrAlreadyExists},
		{"foreign key", &pgconn.PgError{Code: pgerrcode.ForeignKeyViolation}, repository.ErrConflict},
		{"check", &pgconn.PgError{Code: pgerrcode.CheckViolation}, repository.ErrConflict},
		{"other pg", other, other},
		{"plain", boom, boom},
		{"scroll", scroll.ErrUnsupportedPosition, scroll.ErrUnsupportedPosition},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			assert.Equal(t, tc.want, repository.MapPgError(tc.in))
		})
	}
}

func TestPageRequest(t *testing.T) {
	p := repository.PageRequest{Limit: 20, Offset: 40}
	q := p.Query()
	assert.Equal(t, 20, q.Limit())
	assert.Equal(t, int64(40), q.Offset())
	assert.Equal(t, []scroll.Order{{Property: "id"}}, q.Sort())
	assert.Equal(t, scroll.OffsetPosition{Offset: 40}, p.Position())
}
