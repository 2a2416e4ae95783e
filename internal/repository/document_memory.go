package repository

import (
	"context"
	"fmt"
	"sync"
	"time"

	"portfolio/internal/models"
)

// memoryDocumentRepo — хранилище в памяти процесса (STORE_DRIVER=memory и тесты).
type memoryDocumentRepo struct {
	mu   sync.RWMutex
	docs map[string][]*models.ContentDocument

	locksMu sync.Mutex
	locks   map[string]*sync.Mutex
}

func NewMemoryDocumentRepo() DocumentRepo {
	return &memoryDocumentRepo{
		docs:  make(map[string][]*models.ContentDocument),
		locks: make(map[string]*sync.Mutex),
	}
}

// WithLock: в памяти экземпляр один, хватает мьютекса на имя.
func (r *memoryDocumentRepo) WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	r.locksMu.Lock()
	l, ok := r.locks[name]
	if !ok {
		l = &sync.Mutex{}
		r.locks[name] = l
	}
	r.locksMu.Unlock()

	l.Lock()
	defer l.Unlock()
	return fn(ctx)
}

func (r *memoryDocumentRepo) List(_ context.Context, collection string) ([]models.ContentDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := make([]models.ContentDocument, 0, len(r.docs[collection]))
	for _, d := range r.docs[collection] {
		list = append(list, d.Clone())
	}
	return list, nil
}

func (r *memoryDocumentRepo) First(_ context.Context, collection string) (*models.ContentDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	if len(r.docs[collection]) == 0 {
		return nil, nil
	}
	d := r.docs[collection][0].Clone()
	return &d, nil
}

func (r *memoryDocumentRepo) Get(_ context.Context, collection, id string) (*models.ContentDocument, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	_, d := r.find(collection, id)
	if d == nil {
		return nil, models.ErrNotFound
	}
	out := d.Clone()
	return &out, nil
}

func (r *memoryDocumentRepo) Insert(_ context.Context, doc *models.ContentDocument) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, d := r.find(doc.Collection, doc.ID); d != nil {
		return fmt.Errorf("duplicate id %q in %s", doc.ID, doc.Collection)
	}
	stored := doc.Clone()
	r.docs[doc.Collection] = append(r.docs[doc.Collection], &stored)
	return nil
}

func (r *memoryDocumentRepo) Update(_ context.Context, collection, id string, patch models.Payload, updatedAt time.Time) (*models.ContentDocument, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	_, d := r.find(collection, id)
	if d == nil {
		return nil, models.ErrNotFound
	}
	d.Payload = d.Payload.Merge(patch)
	d.UpdatedAt = updatedAt
	out := d.Clone()
	return &out, nil
}

func (r *memoryDocumentRepo) Delete(_ context.Context, collection, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i, d := r.find(collection, id)
	if d == nil {
		return models.ErrNotFound
	}
	list := r.docs[collection]
	r.docs[collection] = append(list[:i:i], list[i+1:]...)
	return nil
}

func (r *memoryDocumentRepo) find(collection, id string) (int, *models.ContentDocument) {
	for i, d := range r.docs[collection] {
		if d.ID == id {
			return i, d
		}
	}
	return -1, nil
}
