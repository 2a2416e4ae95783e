package services

import (
	"context"
	"strings"
	"sync"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/realtime"

	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const (
	defaultSearchLimit = 20
	maxSearchLimit     = 100
)

// Коллекции, которые попадают в поиск.
var searchableCollections = []string{models.CollectionProjects, models.CollectionBlogs}

type SearchQuery struct {
	Text       string
	Collection string
	Limit      int
}

type SearchResult struct {
	Collection string `json:"collection"`
	ID         string `json:"id"`
	Slug       string `json:"slug,omitempty"`
	Title      string `json:"title"`
	Snippet    string `json:"snippet"`
}

// SearchIndex — внешний полнотекстовый индекс (Meilisearch).
type SearchIndex interface {
	Healthy() bool
	Put(records []SearchRecord) error
	Delete(id string) error
	Search(q SearchQuery) ([]SearchResult, error)
}

// SearchService ищет по публичным проектам и статьям. Индекс поддерживается
// подпиской на изменения хранилища; без индекса поиск идёт по хранилищу.
type SearchService struct {
	store *ContentStore
	index SearchIndex
	text  *bluemonday.Policy

	mu     sync.Mutex
	detach []func()
}

// NewSearchService: index может быть nil.
func NewSearchService(store *ContentStore, index SearchIndex) *SearchService {
	return &SearchService{store: store, index: index, text: bluemonday.StrictPolicy()}
}

// Start выполняет полную переиндексацию и подписывается на изменения.
func (s *SearchService) Start(ctx context.Context) error {
	if s.index == nil {
		return nil
	}
	if err := s.Reindex(ctx); err != nil {
		logger.Log.Warn("search: первичная индексация не удалась", zap.Error(err))
	}

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range searchableCollections {
		s.detach = append(s.detach, s.store.Hub().Subscribe(c, func(ch realtime.Change) {
			go s.sync(ch)
		}))
	}
	return nil
}

func (s *SearchService) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, d := range s.detach {
		d()
	}
	s.detach = nil
}

// Reindex заново отправляет в индекс все публичные документы.
func (s *SearchService) Reindex(ctx context.Context) error {
	if s.index == nil || !s.index.Healthy() {
		return nil
	}
	var records []SearchRecord
	for _, c := range searchableCollections {
		docs, err := s.store.FetchAll(ctx, c)
		if err != nil {
			return err
		}
		for _, d := range docs {
			if rec, ok := s.record(d); ok {
				records = append(records, rec)
			}
		}
	}
	if err := s.index.Put(records); err != nil {
		return err
	}
	logger.Log.Info("search: индекс перестроен", zap.Int("documents", len(records)))
	return nil
}

func (s *SearchService) sync(ch realtime.Change) {
	if s.index == nil || !s.index.Healthy() {
		return
	}
	id := recordID(ch.Collection, ch.ID)
	if ch.Op == realtime.OpDelete {
		if err := s.index.Delete(id); err != nil {
			logger.Log.Warn("search: не удалось удалить из индекса", zap.String("id", id), zap.Error(err))
		}
		return
	}

	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()
	doc, err := s.store.Get(ctx, ch.Collection, ch.ID)
	if err != nil {
		logger.Log.Warn("search: документ для индексации не прочитан", zap.String("id", id), zap.Error(err))
		return
	}
	rec, ok := s.record(*doc)
	if !ok {
		err = s.index.Delete(id)
	} else {
		err = s.index.Put([]SearchRecord{rec})
	}
	if err != nil {
		logger.Log.Warn("search: ошибка обновления индекса", zap.String("id", id), zap.Error(err))
	}
}

func (s *SearchService) Search(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	q.Text = strings.TrimSpace(q.Text)
	if q.Text == "" {
		return nil, models.Validationf("search query is empty")
	}
	if q.Collection != "" && q.Collection != models.CollectionProjects && q.Collection != models.CollectionBlogs {
		return nil, models.Validationf("collection %q is not searchable", q.Collection)
	}
	if q.Limit <= 0 {
		q.Limit = defaultSearchLimit
	}
	if q.Limit > maxSearchLimit {
		q.Limit = maxSearchLimit
	}

	if s.index != nil && s.index.Healthy() {
		res, err := s.index.Search(q)
		if err == nil {
			return res, nil
		}
		logger.WithCtx(ctx).Warn("search: ошибка индекса, ищем по хранилищу", zap.Error(err))
	}
	return s.fallback(ctx, q)
}

func (s *SearchService) fallback(ctx context.Context, q SearchQuery) ([]SearchResult, error) {
	needle := strings.ToLower(q.Text)
	out := []SearchResult{}
	for _, c := range searchableCollections {
		if q.Collection != "" && q.Collection != c {
			continue
		}
		docs, err := s.store.FetchAll(ctx, c)
		if err != nil {
			return nil, err
		}
		if c == models.CollectionProjects {
			models.SortByOrder(docs)
		} else {
			models.SortByDate(docs)
		}
		for _, d := range docs {
			rec, ok := s.record(d)
			if !ok || !rec.matches(needle) {
				continue
			}
			out = append(out, SearchResult{
				Collection: rec.Collection,
				ID:         rec.DocID,
				Slug:       rec.Slug,
				Title:      rec.Title,
				Snippet:    rec.Summary,
			})
			if len(out) >= q.Limit {
				return out, nil
			}
		}
	}
	return out, nil
}

// record строит запись индекса; false — документ не публичный.
// В индекс попадает только текст: HTML вырезается строгой политикой.
func (s *SearchService) record(d models.ContentDocument) (SearchRecord, bool) {
	rec := SearchRecord{
		ID:         recordID(d.Collection, d.ID),
		DocID:      d.ID,
		Collection: d.Collection,
		Title:      d.Payload.String("title"),
		Slug:       d.Payload.String("slug"),
	}
	if !models.IsPublic(d) {
		return rec, false
	}
	switch d.Collection {
	case models.CollectionProjects:
		p, err := models.Decode[models.ProjectPayload](d.Payload)
		if err != nil {
			return rec, false
		}
		rec.Summary = s.text.Sanitize(p.Summary)
		rec.Technologies = p.Technologies
		rec.Body = s.plain(p.Content.About, p.Content.Features, p.Content.Challenges, p.Content.Achievements)
	case models.CollectionBlogs:
		p, err := models.Decode[models.BlogPayload](d.Payload)
		if err != nil {
			return rec, false
		}
		rec.Summary = s.text.Sanitize(p.Excerpt)
		rec.Technologies = p.Tags
		rec.Body = s.plain(p.Content)
	default:
		return rec, false
	}
	return rec, true
}

func (s *SearchService) plain(parts ...string) string {
	var b strings.Builder
	for _, p := range parts {
		if p == "" {
			continue
		}
		if b.Len() > 0 {
			b.WriteByte(' ')
		}
		b.WriteString(s.text.Sanitize(p))
	}
	return b.String()
}

func (r SearchRecord) matches(needle string) bool {
	if strings.Contains(strings.ToLower(r.Title), needle) ||
		strings.Contains(strings.ToLower(r.Summary), needle) ||
		strings.Contains(strings.ToLower(r.Body), needle) {
		return true
	}
	for _, t := range r.Technologies {
		if strings.Contains(strings.ToLower(t), needle) {
			return true
		}
	}
	return false
}
