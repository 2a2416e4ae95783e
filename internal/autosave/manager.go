package autosave

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"

	"go.uber.org/zap"
)

// Store — то, куда пишет автосохранение (services.ContentStore).
type Store interface {
	Get(ctx context.Context, collection, id string) (*models.ContentDocument, error)
	Upsert(ctx context.Context, collection string, payload any, id string) (string, error)
}

// Manager держит по координатору на каждый открытый в админке документ.
// Автосохраняются только документы, которые уже есть в хранилище.
type Manager struct {
	mu     sync.Mutex
	store  Store
	delay  time.Duration
	coords map[string]*Coordinator
}

func NewManager(store Store, delay time.Duration) *Manager {
	return &Manager{
		store:  store,
		delay:  delay,
		coords: make(map[string]*Coordinator),
	}
}

func key(collection, id string) string { return collection + "/" + id }

// Edit передаёт правку координатору документа, создавая его при первой правке.
func (m *Manager) Edit(ctx context.Context, collection, id string, fields models.Payload) (Status, error) {
	if !models.KnownCollection(collection) {
		return Status{}, models.Validationf("unknown collection %q", collection)
	}
	c, err := m.coordinator(ctx, collection, id)
	if err != nil {
		return Status{}, err
	}
	if err := c.Edit(fields); err != nil {
		return Status{}, err
	}
	logger.WithCtx(ctx).Debug("autosave: правка принята",
		zap.String("collection", collection), zap.String("id", id), zap.Int("fields", len(fields)))
	return c.Status(), nil
}

func (m *Manager) Status(collection, id string) (Status, bool) {
	m.mu.Lock()
	c, ok := m.coords[key(collection, id)]
	m.mu.Unlock()
	if !ok {
		return Status{ID: id, State: StateIdle}, false
	}
	return c.Status(), true
}

// Flush — ручное сохранение открытого документа.
func (m *Manager) Flush(ctx context.Context, collection, id string) (Status, error) {
	m.mu.Lock()
	c, ok := m.coords[key(collection, id)]
	m.mu.Unlock()
	if !ok {
		return Status{ID: id, State: StateIdle}, nil
	}
	err := c.Flush(ctx)
	return c.Status(), err
}

// Release вызывается при закрытии редактора: дописывает черновик и забывает документ.
func (m *Manager) Release(ctx context.Context, collection, id string) error {
	m.mu.Lock()
	c, ok := m.coords[key(collection, id)]
	delete(m.coords, key(collection, id))
	m.mu.Unlock()
	if !ok {
		return nil
	}
	err := c.Flush(ctx)
	c.Close()
	return err
}

// Close дописывает все черновики (остановка сервиса).
func (m *Manager) Close(ctx context.Context) {
	m.mu.Lock()
	all := m.coords
	m.coords = make(map[string]*Coordinator)
	m.mu.Unlock()

	for k, c := range all {
		if err := c.Flush(ctx); err != nil {
			logger.Log.Warn("autosave: черновик не сохранён при остановке", zap.String("doc", k), zap.Error(err))
		}
		c.Close()
	}
}

func (m *Manager) coordinator(ctx context.Context, collection, id string) (*Coordinator, error) {
	k := key(collection, id)
	m.mu.Lock()
	c, ok := m.coords[k]
	m.mu.Unlock()
	if ok {
		return c, nil
	}
	if id == "" {
		return nil, ErrUnsavedDocument
	}

	// Upsert создал бы документ под любым id, поэтому наличие проверяется
	// до первой правки.
	if _, err := m.store.Get(ctx, collection, id); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return nil, fmt.Errorf("%s/%s: %w", collection, id, ErrUnsavedDocument)
		}
		return nil, err
	}

	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.coords[k]; ok {
		return c, nil
	}
	save := func(ctx context.Context, fields models.Payload) error {
		_, err := m.store.Upsert(ctx, collection, fields, id)
		return err
	}
	notify := func(st Status, err error) {
		if err != nil {
			logger.Log.Warn("autosave: запись не удалась",
				zap.String("collection", collection), zap.String("id", id), zap.Error(err))
			return
		}
		logger.Log.Info("autosave: документ сохранён",
			zap.String("collection", collection), zap.String("id", id), zap.Time("last_saved", st.LastSaved))
	}
	c, err := New(id, m.delay, save, WithNotify(notify))
	if err != nil {
		return nil, err
	}
	m.coords[k] = c
	return c, nil
}
