package services

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"portfolio/internal/models"
	"portfolio/internal/realtime"
	"portfolio/internal/repository"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore() *ContentStore {
	return NewContentStore(repository.NewMemoryDocumentRepo(), realtime.NewHub())
}

// brokenRepo имитирует недоступное хранилище.
type brokenRepo struct{ repository.DocumentRepo }

var errBroken = errors.New("connection refused")

func (brokenRepo) List(context.Context, string) ([]models.ContentDocument, error) {
	return nil, errBroken
}

func (brokenRepo) Get(context.Context, string, string) (*models.ContentDocument, error) {
	return nil, errBroken
}

func (brokenRepo) Insert(context.Context, *models.ContentDocument) error { return errBroken }

func TestContentStoreCreateAndGet(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	id, err := s.Create(ctx, models.CollectionTools, models.ToolPayload{Name: "Figma", Order: 1})
	require.NoError(t, err)
	require.NotEmpty(t, id)

	doc, err := s.Get(ctx, models.CollectionTools, id)
	require.NoError(t, err)
	assert.Equal(t, "Figma", doc.Payload.String("name"))
	assert.Equal(t, doc.CreatedAt, doc.UpdatedAt)

	all, err := s.FetchAll(ctx, models.CollectionTools)
	require.NoError(t, err)
	assert.Len(t, all, 1)
}

func TestContentStoreValidation(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	_, err := s.Create(ctx, models.CollectionProjects, models.Payload{"title": ""})
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = s.FetchAll(ctx, "users")
	assert.True(t, errors.Is(err, models.ErrValidation))

	all, err := s.FetchAll(ctx, models.CollectionProjects)
	require.NoError(t, err)
	assert.Empty(t, all, "невалидный документ не должен попасть в хранилище")
}

func TestContentStoreNotFound(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	_, err := s.Get(ctx, models.CollectionBlogs, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = s.Update(ctx, models.CollectionBlogs, "missing", models.Payload{"title": "x"})
	assert.True(t, errors.Is(err, models.ErrNotFound))

	err = s.Remove(ctx, models.CollectionBlogs, "missing")
	assert.True(t, errors.Is(err, models.ErrNotFound))

	one, err := s.FetchOne(ctx, models.CollectionHome)
	require.NoError(t, err)
	assert.Nil(t, one)
}

func TestContentStoreUpdateTimestamps(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	fixed := time.Date(2025, 3, 1, 12, 0, 0, 0, time.UTC)
	s.now = func() time.Time { return fixed }

	id, err := s.Create(ctx, models.CollectionHome, models.Payload{"headline": "Hi", "tagline": "Go dev"})
	require.NoError(t, err)

	prev, err := s.Get(ctx, models.CollectionHome, id)
	require.NoError(t, err)

	for i := 0; i < 3; i++ {
		require.NoError(t, s.Update(ctx, models.CollectionHome, id, models.Payload{"headline": "Hello"}))
		cur, err := s.Get(ctx, models.CollectionHome, id)
		require.NoError(t, err)
		assert.True(t, cur.UpdatedAt.After(prev.UpdatedAt), "updatedAt обязан расти даже при тех же часах")
		assert.Equal(t, prev.CreatedAt, cur.CreatedAt)
		prev = cur
	}

	assert.Equal(t, "Hello", prev.Payload.String("headline"))
	assert.Equal(t, "Go dev", prev.Payload.String("tagline"), "поля вне patch не трогаются")
}

func TestContentStoreUpsert(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	id, err := s.Upsert(ctx, models.CollectionTools, models.Payload{"name": "Vim"}, "")
	require.NoError(t, err)
	require.NotEmpty(t, id)

	same, err := s.Upsert(ctx, models.CollectionTools, models.Payload{"description": "editor"}, id)
	require.NoError(t, err)
	assert.Equal(t, id, same)

	doc, err := s.Get(ctx, models.CollectionTools, id)
	require.NoError(t, err)
	assert.Equal(t, "Vim", doc.Payload.String("name"))
	assert.Equal(t, "editor", doc.Payload.String("description"))

	created, err := s.Upsert(ctx, models.CollectionTools, models.Payload{"name": "Zed"}, "fixed-id")
	require.NoError(t, err)
	assert.Equal(t, "fixed-id", created)

	all, err := s.FetchAll(ctx, models.CollectionTools)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestContentStoreUpsertInvalidPatch(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	id, err := s.Create(ctx, models.CollectionTools, models.Payload{"name": "Vim"})
	require.NoError(t, err)

	_, err = s.Upsert(ctx, models.CollectionTools, models.Payload{"name": ""}, id)
	assert.True(t, errors.Is(err, models.ErrValidation))

	doc, err := s.Get(ctx, models.CollectionTools, id)
	require.NoError(t, err)
	assert.Equal(t, "Vim", doc.Payload.String("name"))
}

func TestContentStoreUnavailable(t *testing.T) {
	ctx := context.Background()
	s := NewContentStore(brokenRepo{}, realtime.NewHub())

	_, err := s.FetchAll(ctx, models.CollectionTools)
	assert.True(t, errors.Is(err, models.ErrStoreUnavailable))
	assert.True(t, errors.Is(err, errBroken))

	_, err = s.Get(ctx, models.CollectionTools, "x")
	assert.True(t, errors.Is(err, models.ErrStoreUnavailable))

	_, err = s.Create(ctx, models.CollectionTools, models.Payload{"name": "Vim"})
	assert.True(t, errors.Is(err, models.ErrWriteFailed))
}

// recorder собирает снимки подписки.
type recorder struct {
	mu    sync.Mutex
	snaps []realtime.Snapshot
	errs  []error
}

func (r *recorder) data(s realtime.Snapshot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.snaps = append(r.snaps, s)
}

func (r *recorder) fail(err error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.errs = append(r.errs, err)
}

func (r *recorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.snaps)
}

func (r *recorder) last() realtime.Snapshot {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.snaps[len(r.snaps)-1]
}

func TestContentStoreSubscribeCollection(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	_, err := s.Create(ctx, models.CollectionTools, models.Payload{"name": "Vim"})
	require.NoError(t, err)

	rec := &recorder{}
	unsubscribe := s.Subscribe(models.CollectionTools, "", rec.data, rec.fail)

	require.Equal(t, 1, rec.count(), "снимок приходит сразу при подписке")
	assert.Len(t, rec.last().Documents, 1)

	_, err = s.Create(ctx, models.CollectionTools, models.Payload{"name": "Zed"})
	require.NoError(t, err)
	require.Equal(t, 2, rec.count())
	assert.Len(t, rec.last().Documents, 2)

	unsubscribe()
	unsubscribe()
	assert.Equal(t, 0, s.Hub().Listeners(models.CollectionTools))

	_, err = s.Create(ctx, models.CollectionTools, models.Payload{"name": "Emacs"})
	require.NoError(t, err)
	assert.Equal(t, 2, rec.count(), "после отписки снимков нет")
	assert.Empty(t, rec.errs)
}

func TestContentStoreSubscribeDocument(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()
	id, err := s.Create(ctx, models.CollectionTools, models.Payload{"name": "Vim"})
	require.NoError(t, err)
	other, err := s.Create(ctx, models.CollectionTools, models.Payload{"name": "Zed"})
	require.NoError(t, err)

	rec := &recorder{}
	defer s.Subscribe(models.CollectionTools, id, rec.data, rec.fail)()

	require.Equal(t, 1, rec.count())
	require.NotNil(t, rec.last().Document)

	require.NoError(t, s.Update(ctx, models.CollectionTools, other, models.Payload{"order": 3}))
	assert.Equal(t, 1, rec.count(), "изменения других документов не доставляются")

	require.NoError(t, s.Update(ctx, models.CollectionTools, id, models.Payload{"description": "modal"}))
	require.Equal(t, 2, rec.count())
	assert.Equal(t, "modal", rec.last().Document.Payload.String("description"))

	require.NoError(t, s.Remove(ctx, models.CollectionTools, id))
	require.Equal(t, 3, rec.count())
	assert.Nil(t, rec.last().Document, "удалённый документ приходит как nil")
}

func TestContentStoreSubscribeErrors(t *testing.T) {
	rec := &recorder{}
	unsubscribe := NewContentStore(brokenRepo{}, realtime.NewHub()).Subscribe(models.CollectionTools, "", rec.data, rec.fail)
	defer unsubscribe()

	assert.Equal(t, 0, rec.count())
	require.Len(t, rec.errs, 1)
	assert.True(t, errors.Is(rec.errs[0], models.ErrStoreUnavailable))

	rec2 := &recorder{}
	NewContentStore(repository.NewMemoryDocumentRepo(), realtime.NewHub()).Subscribe("users", "", rec2.data, rec2.fail)()
	require.Len(t, rec2.errs, 1)
	assert.True(t, errors.Is(rec2.errs[0], models.ErrValidation))
}

func TestContentStoreSubscriberMayWrite(t *testing.T) {
	ctx := context.Background()
	s := newTestStore()

	var (
		mu    sync.Mutex
		sizes []int
		wrote bool
		werr  error
	)
	done := make(chan func())
	go func() {
		unsubscribe := s.Subscribe(models.CollectionTools, "", func(snap realtime.Snapshot) {
			mu.Lock()
			sizes = append(sizes, len(snap.Documents))
			first := !wrote
			wrote = true
			mu.Unlock()
			if first {
				_, err := s.Create(ctx, models.CollectionTools, models.Payload{"name": "Vim"})
				mu.Lock()
				werr = err
				mu.Unlock()
			}
		}, nil)
		done <- unsubscribe
	}()

	select {
	case unsubscribe := <-done:
		defer unsubscribe()
	case <-time.After(2 * time.Second):
		t.Fatal("подписка зависла на записи из onData")
	}

	mu.Lock()
	defer mu.Unlock()
	require.NoError(t, werr)
	assert.Equal(t, []int{0, 1}, sizes, "запись из onData приходит следующим снимком")
}
