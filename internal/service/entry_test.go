package service_test

import (
	"context"
	"errors"
	"io"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/maxviazov/scrollwindow/internal/model"
	"github.com/maxviazov/scrollwindow/internal/repository"
	"github.com/maxviazov/scrollwindow/internal/repository/memory"
	"github.com/maxviazov/scrollwindow/internal/scroll"
	"github.com/maxviazov/scrollwindow/internal/service"
)

// fakeEntryRepo records the last scroll request and serves a canned window.
type fakeEntryRepo struct {
	appendErr error
	scrollErr error
	window    scroll.Window[model.Entry]

	lastFilter repository.EntryFilter
	lastQuery  scroll.Query
	lastPos    scroll.Position
	appended   []model.Entry

	rows        []model.Entry
	listQueries []scroll.Query
	listCtx     context.Context
}

func (f *fakeEntryRepo) Append(_ context.Context, e model.Entry) (model.Entry, error) {
	if f.appendErr != nil {
		return model.Entry{}, f.appendErr
	}
	e.ID = int64(len(f.appended) + 1)
	f.appended = append(f.appended, e)
	return e, nil
}

func (f *fakeEntryRepo) GetByID(_ context.Context, id int64) (model.Entry, error) {
	for _, e := range f.appended {
		if e.ID == id {
			return e, nil
		}
	}
	return model.Entry{}, repository.ErrNotFound
}

// List serves rows from f.rows the way a database would, recording each query.
func (f *fakeEntryRepo) List(ctx context.Context, filter repository.EntryFilter, q scroll.Query) ([]model.Entry, error) {
	f.lastFilter, f.listCtx = filter, ctx
	f.listQueries = append(f.listQueries, q)
	start := min(int(q.Offset()), len(f.rows))
	out := f.rows[start:]
	if q.IsLimited() && q.Limit() < len(out) {
		out = out[:q.Limit()]
	}
	return out, nil
}

func (f *fakeEntryRepo) Scroll(_ context.Context, filter repository.EntryFilter, q scroll.Query, pos scroll.Position) (scroll.Window[model.Entry], error) {
	f.lastFilter, f.lastQuery, f.lastPos = filter, q, pos
	return f.window, f.scrollErr
}

var _ repository.EntryRepository = (*fakeEntryRepo)(nil)

type txMarker struct{}

// fakeTx marks the context it hands to fn so callers can tell work ran inside it.
type fakeTx struct{ calls int }

func (f *fakeTx) WithinTx(ctx context.Context, fn repository.TxFunc) error {
	f.calls++
	return fn(context.WithValue(ctx, txMarker{}, f.calls))
}

func newSvc(repo repository.EntryRepository) service.EntryService {
	return service.NewEntryService(repo, memory.NewTxManager(), service.Limits{Default: 50, Max: 200}, zerolog.New(io.Discard))
}

func hasField(err error, field string) bool {
	for _, f := range service.FieldErrors(err) {
		if f.Field == field {
			return true
		}
	}
	return false
}

func TestEntryService_AppendEntry_Validation(t *testing.T) {
	svc := newSvc(&fakeEntryRepo{})

	cases := []struct {
		name      string
		topic     string
		body      string
		wantField string
	}{
		{"empty topic", "", "x", "topic"},
		{"spaces topic", "   ", "x", "topic"},
		{"topic with space", "a b", "x", "topic"},
		{"long topic", strings.Repeat("t", 65), "x", "topic"},
		{"empty body", "deploy", "  ", "body"},
		{"long body", "deploy", strings.Repeat("b", 4097), "body"},
		{"ok", "deploy", "shipped", ""},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := svc.AppendEntry(context.Background(), tc.topic, tc.body)
			if tc.wantField == "" {
				require.NoError(t, err)
				return
			}
			require.ErrorIs(t, err, service.ErrInvalidInput)
			assert.True(t, hasField(err, tc.wantField), "fields: %+v", service.FieldErrors(err))
		})
	}
}

func TestEntryService_AppendEntry_RepoErrorPropagates(t *testing.T) {
	svc := newSvc(&fakeEntryRepo{appendErr: repository.ErrConflict})
	_, err := svc.AppendEntry(context.Background(), "deploy", "x")
	assert.Same(t, repository.ErrConflict, err)
}

func TestEntryService_GetEntry_InvalidID(t *testing.T) {
	svc := newSvc(&fakeEntryRepo{})
	_, err := svc.GetEntry(context.Background(), 0)
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestEntryService_ScrollEntries_NormalizesLimit(t *testing.T) {
	cases := []struct {
		name      string
		limit     int
		wantLimit int
	}{
		{"default", 0, 50},
		{"kept", 10, 10},
		{"capped", 1000, 200},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := &fakeEntryRepo{}
			svc := newSvc(repo)
			_, err := svc.ScrollEntries(context.Background(), service.ScrollRequest{Limit: tc.limit, Offset: 7, Topic: " ops "})
			require.NoError(t, err)
			assert.Equal(t, tc.wantLimit, repo.lastQuery.Limit())
			assert.Equal(t, scroll.OffsetPosition{Offset: 7}, repo.lastPos)
			assert.Equal(t, "ops", repo.lastFilter.Topic)
		})
	}
}

func TestEntryService_ScrollEntries_Validation(t *testing.T) {
	repo := &fakeEntryRepo{}
	svc := newSvc(repo)
	_, err := svc.ScrollEntries(context.Background(), service.ScrollRequest{Limit: -1, Offset: -1})
	require.ErrorIs(t, err, service.ErrInvalidInput)
	assert.True(t, hasField(err, "limit"))
	assert.True(t, hasField(err, "offset"))
	assert.Nil(t, repo.lastPos, "repository must not be reached")
}

func TestEntryService_ScrollEntries_Descending(t *testing.T) {
	repo := &fakeEntryRepo{}
	svc := newSvc(repo)
	_, err := svc.ScrollEntries(context.Background(), service.ScrollRequest{Desc: true})
	require.NoError(t, err)
	assert.Equal(t, []scroll.Order{{Property: "id", Desc: true}}, repo.lastQuery.Sort())
}

func TestEntryService_ScrollEntries_NextOffset(t *testing.T) {
	repo := memory.NewEntryRepository()
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		_, err := repo.Append(ctx, model.Entry{Topic: "ops", Body: "b"})
		require.NoError(t, err)
	}
	svc := newSvc(repo)

	w, err := svc.ScrollEntries(ctx, service.ScrollRequest{Limit: 2})
	require.NoError(t, err)
	assert.Len(t, w.Items, 2)
	assert.True(t, w.HasMore)
	require.NotNil(t, w.NextOffset)
	assert.Equal(t, int64(2), *w.NextOffset)

	w, err = svc.ScrollEntries(ctx, service.ScrollRequest{Limit: 2, Offset: 4})
	require.NoError(t, err)
	assert.Len(t, w.Items, 1)
	assert.False(t, w.HasMore)
	assert.Nil(t, w.NextOffset)
}

func TestEntryService_ScrollEntries_EmptyItemsNotNil(t *testing.T) {
	svc := newSvc(memory.NewEntryRepository())
	w, err := svc.ScrollEntries(context.Background(), service.ScrollRequest{})
	require.NoError(t, err)
	assert.NotNil(t, w.Items)
	assert.Empty(t, w.Items)
}

func TestEntryService_ScrollEntries_RepoErrorPropagates(t *testing.T) {
	boom := errors.New("db down")
	svc := newSvc(&fakeEntryRepo{scrollErr: boom})
	_, err := svc.ScrollEntries(context.Background(), service.ScrollRequest{})
	assert.Same(t, boom, err)
}

func TestEntryService_ExportTopic(t *testing.T) {
	repo := memory.NewEntryRepository()
	ctx := context.Background()
	for i := 0; i < 7; i++ {
		topic := "ops"
		if i%2 == 1 {
			topic = "dev"
		}
		_, err := repo.Append(ctx, model.Entry{Topic: topic, Body: "b"})
		require.NoError(t, err)
	}
	svc := service.NewEntryService(repo, memory.NewTxManager(), service.Limits{Default: 2, Max: 2}, zerolog.New(io.Discard))

	var got []int64
	n, err := svc.ExportTopic(ctx, "ops", func(e model.Entry) error {
		got = append(got, e.ID)
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, 4, n)
	assert.Equal(t, []int64{1, 3, 5, 7}, got)
}

func TestEntryService_ExportTopic_CallbackErrorStops(t *testing.T) {
	repo := memory.NewEntryRepository()
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		_, err := repo.Append(ctx, model.Entry{Topic: "ops", Body: "b"})
		require.NoError(t, err)
	}
	svc := newSvc(repo)
	stop := errors.New("stop")
	n, err := svc.ExportTopic(ctx, "ops", func(model.Entry) error { return stop })
	assert.ErrorIs(t, err, stop)
	assert.Zero(t, n)
}

func TestEntryService_ExportTopic_RequiresTopic(t *testing.T) {
	svc := newSvc(&fakeEntryRepo{})
	_, err := svc.ExportTopic(context.Background(), "", func(model.Entry) error { return nil })
	assert.ErrorIs(t, err, service.ErrInvalidInput)
}

func TestEntryService_ExportTopic_OneSnapshotPlainFetch(t *testing.T) {
	repo := &fakeEntryRepo{}
	for i := 1; i <= 5; i++ {
		repo.rows = append(repo.rows, model.Entry{ID: int64(i), Topic: "ops"})
	}
	tx := &fakeTx{}
	svc := service.NewEntryService(repo, tx, service.Limits{Default: 2, Max: 2}, zerolog.New(io.Discard))

	n, err := svc.ExportTopic(context.Background(), "ops", func(model.Entry) error { return nil })
	require.NoError(t, err)
	assert.Equal(t, 5, n)

	assert.Equal(t, 1, tx.calls, "all windows share one transaction")
	assert.Equal(t, 1, repo.listCtx.Value(txMarker{}), "reads must run inside the transaction")
	assert.Equal(t, "ops", repo.lastFilter.Topic)

	require.Len(t, repo.listQueries, 3)
	for i, q := range repo.listQueries {
		assert.Equal(t, 3, q.Limit(), "window %d asks for page size plus one look-ahead row", i)
		assert.Equal(t, int64(i*2), q.Offset())
	}
}

func TestEntryService_ExportTopic_TxErrorPropagates(t *testing.T) {
	boom := errors.New("begin failed")
	svc := service.NewEntryService(&fakeEntryRepo{}, failingTx{err: boom}, service.Limits{}, zerolog.New(io.Discard))
	n, err := svc.ExportTopic(context.Background(), "ops", func(model.Entry) error { return nil })
	assert.Same(t, boom, err)
	assert.Zero(t, n)
}

type failingTx struct{ err error }

func (f failingTx) WithinTx(context.Context, repository.TxFunc) error { return f.err }
