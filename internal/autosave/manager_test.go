package autosave

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	"portfolio/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type upsertCall struct {
	collection string
	id         string
	payload    models.Payload
}

// fakeStore запоминает вызовы Upsert; Get находит только документы из existing.
type fakeStore struct {
	mu       sync.Mutex
	existing map[string]bool
	getErr   error
	calls    []upsertCall
}

func newFakeStore(keys ...string) *fakeStore {
	f := &fakeStore{existing: map[string]bool{}}
	for _, k := range keys {
		f.existing[k] = true
	}
	return f
}

func (f *fakeStore) Get(_ context.Context, collection, id string) (*models.ContentDocument, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.getErr != nil {
		return nil, f.getErr
	}
	if !f.existing[key(collection, id)] {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, models.ErrNotFound)
	}
	return &models.ContentDocument{ID: id, Collection: collection, Payload: models.Payload{}}, nil
}

func (f *fakeStore) Upsert(_ context.Context, collection string, payload any, id string) (string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, upsertCall{collection: collection, id: id, payload: payload.(models.Payload).Clone()})
	return id, nil
}

func (f *fakeStore) count() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

func TestManagerEditAndFlush(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore("projects/p1")
	m := NewManager(store, time.Hour)
	defer m.Close(ctx)

	st, err := m.Edit(ctx, models.CollectionProjects, "p1", models.Payload{"title": "New"})
	require.NoError(t, err)
	assert.Equal(t, StatePending, st.State)
	assert.True(t, st.Dirty)

	st, ok := m.Status(models.CollectionProjects, "p1")
	require.True(t, ok)
	assert.Equal(t, "p1", st.ID)

	st, err = m.Flush(ctx, models.CollectionProjects, "p1")
	require.NoError(t, err)
	assert.Equal(t, 1, st.Writes)

	require.Equal(t, 1, store.count())
	assert.Equal(t, models.CollectionProjects, store.calls[0].collection)
	assert.Equal(t, "p1", store.calls[0].id)
	assert.Equal(t, "New", store.calls[0].payload.String("title"))
}

func TestManagerRejects(t *testing.T) {
	ctx := context.Background()
	m := NewManager(newFakeStore(), time.Hour)

	_, err := m.Edit(ctx, "users", "u1", models.Payload{"x": 1})
	assert.True(t, errors.Is(err, models.ErrValidation))

	_, err = m.Edit(ctx, models.CollectionProjects, "", models.Payload{"title": "x"})
	assert.ErrorIs(t, err, ErrUnsavedDocument)

	_, ok := m.Status(models.CollectionProjects, "unknown")
	assert.False(t, ok)
}

func TestManagerReleaseFlushesDraft(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore("blogs/b1")
	m := NewManager(store, time.Hour)

	_, err := m.Edit(ctx, models.CollectionBlogs, "b1", models.Payload{"content": "draft"})
	require.NoError(t, err)
	require.NoError(t, m.Release(ctx, models.CollectionBlogs, "b1"))

	assert.Equal(t, 1, store.count())
	_, ok := m.Status(models.CollectionBlogs, "b1")
	assert.False(t, ok, "после Release документ забыт")

	require.NoError(t, m.Release(ctx, models.CollectionBlogs, "b1"))
}

func TestManagerCloseFlushesAll(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore("projects/p1", "projects/p2")
	m := NewManager(store, time.Hour)

	_, err := m.Edit(ctx, models.CollectionProjects, "p1", models.Payload{"title": "a"})
	require.NoError(t, err)
	_, err = m.Edit(ctx, models.CollectionProjects, "p2", models.Payload{"title": "b"})
	require.NoError(t, err)

	m.Close(ctx)
	assert.Equal(t, 2, store.count())
}

func TestManagerSkipsDocumentsNotInStore(t *testing.T) {
	ctx := context.Background()
	store := newFakeStore()
	m := NewManager(store, 10*time.Millisecond)
	defer m.Close(ctx)

	_, err := m.Edit(ctx, models.CollectionTools, "never-created", models.Payload{"name": "Vim"})
	assert.ErrorIs(t, err, ErrUnsavedDocument)

	_, ok := m.Status(models.CollectionTools, "never-created")
	assert.False(t, ok, "координатор не создаётся")

	time.Sleep(50 * time.Millisecond)
	assert.Equal(t, 0, store.count(), "несохранённый документ не пишется")

	store.getErr = errors.New("connection refused")
	_, err = m.Edit(ctx, models.CollectionTools, "t1", models.Payload{"name": "Vim"})
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrUnsavedDocument)
}
