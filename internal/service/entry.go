package service

import (
	"context"
	"strings"
	"time"

	"github.com/maxviazov/scrollwindow/internal/model"
	"github.com/maxviazov/scrollwindow/internal/repository"
	"github.com/maxviazov/scrollwindow/internal/scroll"
	"github.com/rs/zerolog"
)

// entryService holds journal use-case logic: validation + orchestration, no transport / SQL details.
type entryService struct {
	repo     repository.EntryRepository
	snapshot repository.TxManager
	limits   Limits
	log      zerolog.Logger
}

// NewEntryService builds the journal service. snapshot wraps multi-window reads
// such as ExportTopic, so it should hand out one consistent view per call.
func NewEntryService(repo repository.EntryRepository, snapshot repository.TxManager, limits Limits, logger zerolog.Logger) EntryService {
	if limits.Default <= 0 {
		limits.Default = 50
	}
	if limits.Max < limits.Default {
		limits.Max = limits.Default
	}
	l := logger.With().Str("module", "service").Str("component", "entry").Logger()
	return &entryService{repo: repo, snapshot: snapshot, limits: limits, log: l}
}

func (s *entryService) AppendEntry(ctx context.Context, topic, body string) (model.Entry, error) {
	start := time.Now()
	topic = strings.TrimSpace(topic)

	ferrs := validateTopic("topic", topic, true)
	if strings.TrimSpace(body) == "" {
		ferrs = append(ferrs, FieldError{Field: "body", Message: "must not be empty"})
	} else if len(body) > maxBodyLen {
		ferrs = append(ferrs, FieldError{Field: "body", Message: "length must be at most 4096 bytes"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		s.log.Debug().Str("topic", topic).Interface("field_errors", ferrs).Msg("entry validation failed")
		return model.Entry{}, err
	}

	out, err := s.repo.Append(ctx, model.Entry{Topic: topic, Body: body})
	if err != nil {
		// Repository surfaces domain-level errors already, do not wrap.
		s.log.Error().Err(err).Str("topic", topic).Msg("append entry failed")
		return model.Entry{}, err
	}
	s.log.Info().Dur("took", time.Since(start)).Int64("entry_id", out.ID).Str("topic", topic).Msg("entry appended")
	return out, nil
}

func (s *entryService) GetEntry(ctx context.Context, id int64) (model.Entry, error) {
	if id <= 0 {
		return model.Entry{}, newInvalidInput([]FieldError{{Field: "id", Message: "must be > 0"}})
	}
	return s.repo.GetByID(ctx, id)
}

func (s *entryService) ScrollEntries(ctx context.Context, req ScrollRequest) (model.EntryWindow, error) {
	ferrs := validateTopic("topic", strings.TrimSpace(req.Topic), false)
	if req.Offset < 0 {
		ferrs = append(ferrs, FieldError{Field: "offset", Message: "must be >= 0"})
	}
	if req.Limit < 0 {
		ferrs = append(ferrs, FieldError{Field: "limit", Message: "must be >= 0"})
	}
	if err := newInvalidInput(ferrs); err != nil {
		return model.EntryWindow{}, err
	}

	page := repository.PageRequest{Limit: s.limits.normalize(req.Limit), Offset: req.Offset}
	q := page.Query()
	if req.Desc {
		q = q.WithSort(scroll.Order{Property: "id", Desc: true})
	}
	filter := repository.EntryFilter{Topic: strings.TrimSpace(req.Topic)}

	start := time.Now()
	w, err := s.repo.Scroll(ctx, filter, q, page.Position())
	if err != nil {
		s.log.Error().Err(err).Int("limit", page.Limit).Int64("offset", page.Offset).Msg("scroll entries failed")
		return model.EntryWindow{}, err
	}
	s.log.Debug().
		Dur("took", time.Since(start)).
		Int("limit", page.Limit).
		Int64("offset", page.Offset).
		Int("returned", w.Len()).
		Bool("has_more", w.HasMore()).
		Msg("entries scrolled")

	return toEntryWindow(w), nil
}

func (s *entryService) ExportTopic(ctx context.Context, topic string, fn func(model.Entry) error) (int, error) {
	topic = strings.TrimSpace(topic)
	if err := newInvalidInput(validateTopic("topic", topic, true)); err != nil {
		return 0, err
	}
	filter := repository.EntryFilter{Topic: topic}
	fetch := func(ctx context.Context, q scroll.Query) ([]model.Entry, error) {
		return s.repo.List(ctx, filter, q)
	}

	n := 0
	err := s.snapshot.WithinTx(ctx, func(ctx context.Context) error {
		it := scroll.NewIterator(repository.PageRequest{Limit: s.limits.Max}.Query(), fetch, scroll.InitialOffset())
		for it.Next(ctx) {
			if err := fn(it.Value()); err != nil {
				return err
			}
			n++
		}
		return it.Err()
	})
	if err != nil {
		s.log.Error().Err(err).Str("topic", topic).Int("exported", n).Msg("export topic failed")
		return n, err
	}
	s.log.Info().Str("topic", topic).Int("exported", n).Msg("topic exported")
	return n, nil
}

func toEntryWindow(w scroll.Window[model.Entry]) model.EntryWindow {
	out := model.EntryWindow{Items: w.Items(), HasMore: w.HasMore()}
	if out.Items == nil {
		out.Items = []model.Entry{}
	}
	if pos, ok := w.NextPosition(); ok {
		if off, ok := pos.(scroll.OffsetPosition); ok {
			next := off.Offset
			out.NextOffset = &next
		}
	}
	return out
}
