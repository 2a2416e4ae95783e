package services

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/realtime"
	"portfolio/internal/repository"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// snapshotTimeout ограничивает чтение снимка для подписчика.
const snapshotTimeout = 5 * time.Second

// ContentStore — единственная точка записи и чтения контента.
// Каждая успешная запись публикуется в Hub, так что подписчики
// (включая самого пишущего) видят её без ручного обновления.
type ContentStore struct {
	repo repository.DocumentRepo
	hub  *realtime.Hub
	now  func() time.Time
}

func NewContentStore(repo repository.DocumentRepo, hub *realtime.Hub) *ContentStore {
	return &ContentStore{
		repo: repo,
		hub:  hub,
		now:  func() time.Time { return time.Now().UTC() },
	}
}

// Hub — шина изменений этого хранилища.
func (s *ContentStore) Hub() *realtime.Hub { return s.hub }

// WithLock выполняет fn под именованной блокировкой хранилища, общей для всех
// экземпляров сервиса (для Postgres — advisory lock).
func (s *ContentStore) WithLock(ctx context.Context, name string, fn func(ctx context.Context) error) error {
	if err := s.repo.WithLock(ctx, name, fn); err != nil {
		if errors.Is(err, models.ErrValidation) || errors.Is(err, models.ErrStoreUnavailable) || errors.Is(err, models.ErrWriteFailed) {
			return err
		}
		return fmt.Errorf("%w: lock %s: %w", models.ErrStoreUnavailable, name, err)
	}
	return nil
}

func (s *ContentStore) FetchAll(ctx context.Context, collection string) ([]models.ContentDocument, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	docs, err := s.repo.List(ctx, collection)
	if err != nil {
		logger.WithCtx(ctx).Error("content: ошибка чтения коллекции", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("%w: fetch %s: %w", models.ErrStoreUnavailable, collection, err)
	}
	return docs, nil
}

// FetchOne возвращает первый документ коллекции-одиночки или nil, если она пуста.
func (s *ContentStore) FetchOne(ctx context.Context, collection string) (*models.ContentDocument, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	doc, err := s.repo.First(ctx, collection)
	if err != nil {
		logger.WithCtx(ctx).Error("content: ошибка чтения документа", zap.String("collection", collection), zap.Error(err))
		return nil, fmt.Errorf("%w: fetch one %s: %w", models.ErrStoreUnavailable, collection, err)
	}
	return doc, nil
}

func (s *ContentStore) Get(ctx context.Context, collection, id string) (*models.ContentDocument, error) {
	if err := checkCollection(collection); err != nil {
		return nil, err
	}
	doc, err := s.repo.Get(ctx, collection, id)
	if errors.Is(err, models.ErrNotFound) {
		return nil, fmt.Errorf("%s/%s: %w", collection, id, models.ErrNotFound)
	}
	if err != nil {
		logger.WithCtx(ctx).Error("content: ошибка чтения документа", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return nil, fmt.Errorf("%w: get %s/%s: %w", models.ErrStoreUnavailable, collection, id, err)
	}
	return doc, nil
}

// Create сохраняет новый документ и возвращает его id.
func (s *ContentStore) Create(ctx context.Context, collection string, payload any) (string, error) {
	return s.create(ctx, collection, "", payload)
}

func (s *ContentStore) create(ctx context.Context, collection, id string, payload any) (string, error) {
	log := logger.WithCtx(ctx)
	if err := checkCollection(collection); err != nil {
		return "", err
	}
	p, err := models.ToPayload(payload)
	if err != nil {
		return "", err
	}
	if err := models.ValidatePayload(collection, p); err != nil {
		log.Warn("content: валидация не пройдена", zap.String("collection", collection), zap.Error(err))
		return "", err
	}

	if id == "" {
		id = newDocumentID()
	}
	now := s.now().Truncate(time.Microsecond)
	doc := &models.ContentDocument{
		ID:         id,
		Collection: collection,
		Payload:    p,
		CreatedAt:  now,
		UpdatedAt:  now,
	}
	if err := s.repo.Insert(ctx, doc); err != nil {
		log.Error("content: ошибка создания документа", zap.String("collection", collection), zap.Error(err))
		return "", fmt.Errorf("%w: create in %s: %w", models.ErrWriteFailed, collection, err)
	}

	log.Info("content: документ создан", zap.String("collection", collection), zap.String("id", id))
	s.hub.Publish(realtime.Change{Collection: collection, ID: id, Op: realtime.OpCreate})
	return id, nil
}

// Update сливает поля partial в документ; createdAt не меняется, updatedAt растёт.
func (s *ContentStore) Update(ctx context.Context, collection, id string, partial any) error {
	log := logger.WithCtx(ctx)
	current, err := s.Get(ctx, collection, id)
	if err != nil {
		return err
	}
	patch, err := models.ToPayload(partial)
	if err != nil {
		return err
	}
	if err := models.ValidatePayload(collection, current.Payload.Merge(patch)); err != nil {
		log.Warn("content: валидация не пройдена", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return err
	}

	updatedAt := s.now().Truncate(time.Microsecond)
	if !updatedAt.After(current.UpdatedAt) {
		updatedAt = current.UpdatedAt.Add(time.Microsecond)
	}

	if _, err := s.repo.Update(ctx, collection, id, patch, updatedAt); err != nil {
		if errors.Is(err, models.ErrNotFound) {
			return fmt.Errorf("%s/%s: %w", collection, id, models.ErrNotFound)
		}
		log.Error("content: ошибка обновления документа", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("%w: update %s/%s: %w", models.ErrWriteFailed, collection, id, err)
	}

	log.Info("content: документ обновлён", zap.String("collection", collection), zap.String("id", id), zap.Int("fields", len(patch)))
	s.hub.Publish(realtime.Change{Collection: collection, ID: id, Op: realtime.OpUpdate})
	return nil
}

// Upsert создаёт документ, если id пуст или неизвестен, иначе обновляет.
func (s *ContentStore) Upsert(ctx context.Context, collection string, payload any, id string) (string, error) {
	if id == "" {
		return s.create(ctx, collection, "", payload)
	}
	err := s.Update(ctx, collection, id, payload)
	if errors.Is(err, models.ErrNotFound) {
		return s.create(ctx, collection, id, payload)
	}
	if err != nil {
		return "", err
	}
	return id, nil
}

func (s *ContentStore) Remove(ctx context.Context, collection, id string) error {
	log := logger.WithCtx(ctx)
	if err := checkCollection(collection); err != nil {
		return err
	}
	err := s.repo.Delete(ctx, collection, id)
	if errors.Is(err, models.ErrNotFound) {
		return fmt.Errorf("%s/%s: %w", collection, id, models.ErrNotFound)
	}
	if err != nil {
		log.Error("content: ошибка удаления документа", zap.String("collection", collection), zap.String("id", id), zap.Error(err))
		return fmt.Errorf("%w: remove %s/%s: %w", models.ErrWriteFailed, collection, id, err)
	}

	log.Info("content: документ удалён", zap.String("collection", collection), zap.String("id", id))
	s.hub.Publish(realtime.Change{Collection: collection, ID: id, Op: realtime.OpDelete})
	return nil
}

// Subscribe сразу отдаёт текущий снимок и затем новый снимок после каждого
// изменения. Ошибки чтения уходят в onError и подписку не снимают.
// onData может сам писать в хранилище: такие изменения придут следующим
// снимком после его возврата. Близкие по времени изменения могут слиться
// в один снимок; последний снимок всегда отражает последнее состояние.
// unsubscribe отцепляет ровно этого подписчика; повторный вызов — no-op.
func (s *ContentStore) Subscribe(collection, id string, onData func(realtime.Snapshot), onError func(error)) (unsubscribe func()) {
	if onError == nil {
		onError = func(error) {}
	}
	if err := checkCollection(collection); err != nil {
		onError(err)
		return func() {}
	}

	var (
		closed  atomic.Bool
		mu      sync.Mutex
		running bool
		pending bool
	)
	deliver := func() {
		if closed.Load() {
			return
		}
		snap, err := s.snapshot(collection, id)
		if err != nil {
			onError(err)
			return
		}
		if closed.Load() {
			return
		}
		onData(snap)
	}
	// Доставка идёт по одной за раз. Изменение во время доставки (в том числе
	// запись из самого onData) не ждёт, а ставит флаг: текущий цикл перечитает
	// снимок после возврата onData.
	push := func() {
		mu.Lock()
		if running {
			pending = true
			mu.Unlock()
			return
		}
		running = true
		mu.Unlock()

		finished := false
		defer func() {
			// паника в onData не должна навсегда заблокировать доставку
			if !finished {
				mu.Lock()
				running, pending = false, false
				mu.Unlock()
			}
		}()
		for {
			deliver()
			mu.Lock()
			if !pending {
				running = false
				finished = true
				mu.Unlock()
				return
			}
			pending = false
			mu.Unlock()
		}
	}

	detach := s.hub.Subscribe(collection, func(c realtime.Change) {
		if id != "" && c.ID != id {
			return
		}
		push()
	})
	logger.Log.Debug("content: подписка", zap.String("collection", collection), zap.String("id", id))

	push()

	var once sync.Once
	return func() {
		once.Do(func() {
			closed.Store(true)
			detach()
			logger.Log.Debug("content: отписка", zap.String("collection", collection), zap.String("id", id))
		})
	}
}

func (s *ContentStore) snapshot(collection, id string) (realtime.Snapshot, error) {
	ctx, cancel := context.WithTimeout(context.Background(), snapshotTimeout)
	defer cancel()

	snap := realtime.Snapshot{Collection: collection, ID: id}
	if id == "" {
		docs, err := s.FetchAll(ctx, collection)
		if err != nil {
			return snap, err
		}
		snap.Documents = docs
		return snap, nil
	}

	doc, err := s.Get(ctx, collection, id)
	if errors.Is(err, models.ErrNotFound) {
		return snap, nil
	}
	if err != nil {
		return snap, err
	}
	snap.Document = doc
	return snap, nil
}

func checkCollection(collection string) error {
	if !models.KnownCollection(collection) {
		return models.Validationf("unknown collection %q", collection)
	}
	return nil
}

// newDocumentID — UUID v7, чтобы id сортировались по времени создания.
func newDocumentID() string {
	id, err := uuid.NewV7()
	if err != nil {
		return uuid.NewString()
	}
	return id.String()
}
