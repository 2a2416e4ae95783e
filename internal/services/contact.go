package services

import (
	"context"
	"strings"

	"portfolio/internal/logger"
	"portfolio/internal/models"

	"go.uber.org/zap"
)

// ContactService принимает сообщения из публичной формы обратной связи.
type ContactService struct {
	store    *ContentStore
	notifier *Notifier
}

func NewContactService(store *ContentStore, notifier *Notifier) *ContactService {
	return &ContactService{store: store, notifier: notifier}
}

// Submit валидирует и сохраняет сообщение, затем уведомляет администратора.
func (s *ContactService) Submit(ctx context.Context, in models.ContactMessagePayload) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	in.Email = strings.TrimSpace(in.Email)
	in.Subject = strings.TrimSpace(in.Subject)
	in.Message = strings.TrimSpace(in.Message)
	in.Read = false

	id, err := s.store.Create(ctx, models.CollectionContactMessages, in)
	if err != nil {
		return "", err
	}
	logger.WithCtx(ctx).Info("Сообщение из формы сохранено", zap.String("id", id), zap.String("email", in.Email))

	s.notifier.NotifyContactMessage(context.WithoutCancel(ctx), id, in)
	return id, nil
}

// Inbox — сообщения от новых к старым.
func (s *ContactService) Inbox(ctx context.Context) ([]models.ContentDocument, error) {
	docs, err := s.store.FetchAll(ctx, models.CollectionContactMessages)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(docs)-1; i < j; i, j = i+1, j-1 {
		docs[i], docs[j] = docs[j], docs[i]
	}
	return docs, nil
}

func (s *ContactService) MarkRead(ctx context.Context, id string, read bool) error {
	return s.store.Update(ctx, models.CollectionContactMessages, id, map[string]any{"read": read})
}
