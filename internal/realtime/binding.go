package realtime

import (
	"context"
	"sync"

	"portfolio/internal/models"
)

// Snapshot — полный снимок коллекции или одного документа.
// Для подписки на документ Documents пуст, а Document == nil означает «не найден».
type Snapshot struct {
	Collection string                   `json:"collection"`
	ID         string                   `json:"id,omitempty"`
	Documents  []models.ContentDocument `json:"documents,omitempty"`
	Document   *models.ContentDocument  `json:"document,omitempty"`
}

// Source — то, на что может подписаться представление.
type Source interface {
	Subscribe(collection, id string, onData func(Snapshot), onError func(error)) (unsubscribe func())
}

// Bind подписывает представление на коллекцию (или документ при id != "")
// и отписывает, когда ctx завершён. render получает каждый снимок целиком.
// Возвращённый stop позволяет отписаться раньше; повторный вызов — no-op.
func Bind(ctx context.Context, src Source, collection, id string, render func(Snapshot), onError func(error)) (stop func()) {
	if onError == nil {
		onError = func(error) {}
	}
	unsubscribe := src.Subscribe(collection, id, render, onError)

	var once sync.Once
	stopped := make(chan struct{})
	stop = func() {
		once.Do(func() {
			unsubscribe()
			close(stopped)
		})
	}

	go func() {
		select {
		case <-ctx.Done():
			stop()
		case <-stopped:
		}
	}()
	return stop
}

// Projection — локальная проекция представления: только чтение,
// каждый снимок заменяет её полностью.
type Projection struct {
	mu      sync.RWMutex
	snap    Snapshot
	version int
}

// Replace подменяет проекцию новым снимком.
func (p *Projection) Replace(s Snapshot) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.snap = s
	p.version++
}

// Current возвращает последний снимок и число полученных снимков.
func (p *Projection) Current() (Snapshot, int) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.snap, p.version
}
