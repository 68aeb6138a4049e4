package postgres

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/maxviazov/scrollwindow/internal/model"
	"github.com/maxviazov/scrollwindow/internal/repository"
	"github.com/maxviazov/scrollwindow/internal/scroll"
)

const entryColumns = `id, topic, body, created_at`

// sortColumns whitelists the properties a scroll may order by.
var sortColumns = map[string]string{
	"id":         "id",
	"topic":      "topic",
	"created_at": "created_at",
}

type entryRepository struct{ pool *pgxpool.Pool }

func NewEntryRepository(pool *pgxpool.Pool) repository.EntryRepository {
	return &entryRepository{pool: pool}
}

func (r *entryRepository) Append(ctx context.Context, e model.Entry) (model.Entry, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Entry{}, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx,
		`INSERT INTO entries (topic, body) VALUES ($1, $2)
		 RETURNING `+entryColumns,
		e.Topic, e.Body,
	)
	if err != nil {
		return model.Entry{}, repository.MapPgError(err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Entry])
	if err != nil {
		return model.Entry{}, repository.MapPgError(err)
	}
	return out, nil
}

func (r *entryRepository) GetByID(ctx context.Context, id int64) (model.Entry, error) {
	if err := ensurePool(r.pool); err != nil {
		return model.Entry{}, err
	}
	exec := getQ(ctx, r.pool)
	rows, err := exec.Query(ctx, `SELECT `+entryColumns+` FROM entries WHERE id = $1`, id)
	if err != nil {
		return model.Entry{}, repository.MapPgError(err)
	}
	out, err := pgx.CollectExactlyOneRow(rows, pgx.RowToStructByName[model.Entry])
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.Entry{}, repository.ErrNotFound
		}
		return model.Entry{}, repository.MapPgError(err)
	}
	return out, nil
}

// List runs the filtered statement with q's limit and offset bound as is.
// A NULL limit stands for no limit.
func (r *entryRepository) List(ctx context.Context, f repository.EntryFilter, q scroll.Query) ([]model.Entry, error) {
	if err := ensurePool(r.pool); err != nil {
		return nil, err
	}
	orderBy, err := orderClause(q.Sort())
	if err != nil {
		return nil, err
	}

	var topic *string
	if f.Topic != "" {
		topic = &f.Topic
	}
	var limit *int64
	if q.IsLimited() {
		l := int64(q.Limit())
		limit = &l
	}
	rows, err := getQ(ctx, r.pool).Query(ctx,
		`SELECT `+entryColumns+`
		 FROM entries
		 WHERE ($1::TEXT IS NULL OR topic = $1)
		 ORDER BY `+orderBy+`
		 LIMIT $2 OFFSET $3`,
		topic, limit, q.Offset(),
	)
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	out, err := pgx.CollectRows(rows, pgx.RowToStructByName[model.Entry])
	if err != nil {
		return nil, repository.MapPgError(err)
	}
	return out, nil
}

// Scroll reads one window of entries: List with the windower's look-ahead row.
func (r *entryRepository) Scroll(ctx context.Context, f repository.EntryFilter, query scroll.Query, pos scroll.Position) (scroll.Window[model.Entry], error) {
	query, err := scroll.Apply(query, pos)
	if err != nil {
		return scroll.Window[model.Entry]{}, err
	}
	return scroll.Scroll(ctx, query, func(ctx context.Context, sq scroll.Query) ([]model.Entry, error) {
		return r.List(ctx, f, sq)
	}, pos)
}

// orderClause renders whitelisted sort clauses, always ending with id so
// offsets address a total order.
func orderClause(orders []scroll.Order) (string, error) {
	parts := make([]string, 0, len(orders)+1)
	hasID := false
	for _, o := range orders {
		col, ok := sortColumns[o.Property]
		if !ok {
			return "", fmt.Errorf("%w: cannot sort by %q", scroll.ErrInvalidQuery, o.Property)
		}
		dir := "ASC"
		if o.Desc {
			dir = "DESC"
		}
		parts = append(parts, col+" "+dir)
		if col == "id" {
			hasID = true
		}
	}
	if !hasID {
		parts = append(parts, "id ASC")
	}
	return strings.Join(parts, ", "), nil
}

var _ repository.EntryRepository = (*entryRepository)(nil)
