package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"portfolio/internal/icons"
	"portfolio/internal/logger"
	"portfolio/internal/models"

	"go.uber.org/zap"
)

// ProjectView — проект вместе с разрешёнными иконками технологий.
type ProjectView struct {
	models.ContentDocument
	Icons []models.IconPreview `json:"icons"`
}

type ProjectService struct {
	store    *ContentStore
	resolver *icons.Resolver
}

func NewProjectService(store *ContentStore, resolver *icons.Resolver) *ProjectService {
	return &ProjectService{store: store, resolver: resolver}
}

// ListVisible — видимые проекты по возрастанию order. Видимость та же, что
// у публичных маршрутов контента (models.IsPublic).
func (s *ProjectService) ListVisible(ctx context.Context) ([]ProjectView, error) {
	docs, err := s.store.FetchAll(ctx, models.CollectionProjects)
	if err != nil {
		return nil, err
	}
	visible := models.PublicView(models.CollectionProjects, docs)

	out := make([]ProjectView, 0, len(visible))
	for _, d := range visible {
		out = append(out, s.view(d))
	}
	return out, nil
}

// Find ищет проект по id, затем по slug. Скрытые проекты отдаются только при includeHidden.
func (s *ProjectService) Find(ctx context.Context, key string, includeHidden bool) (*ProjectView, error) {
	doc, err := s.store.Get(ctx, models.CollectionProjects, key)
	if errors.Is(err, models.ErrNotFound) {
		doc, err = s.bySlug(ctx, key)
	}
	if err != nil {
		return nil, err
	}
	if !includeHidden && !models.IsPublic(*doc) {
		return nil, fmt.Errorf("project %s: %w", key, models.ErrNotFound)
	}
	view := s.view(*doc)
	return &view, nil
}

func (s *ProjectService) bySlug(ctx context.Context, slug string) (*models.ContentDocument, error) {
	slug = strings.ToLower(strings.TrimSpace(slug))
	docs, err := s.store.FetchAll(ctx, models.CollectionProjects)
	if err != nil {
		return nil, err
	}
	for i := range docs {
		if strings.ToLower(docs[i].Payload.String("slug")) == slug && slug != "" {
			return &docs[i], nil
		}
	}
	return nil, fmt.Errorf("project %s: %w", slug, models.ErrNotFound)
}

// ReorderPipeline переносит шаг процесса разработки и сохраняет перенумерованный список.
func (s *ProjectService) ReorderPipeline(ctx context.Context, id string, from, to int) ([]models.PipelineStep, error) {
	doc, err := s.store.Get(ctx, models.CollectionProjects, id)
	if err != nil {
		return nil, err
	}
	p, err := models.Decode[models.ProjectPayload](doc.Payload)
	if err != nil {
		return nil, err
	}
	steps, err := models.ReorderPipelineSteps(p.DevelopmentPipeline, from, to)
	if err != nil {
		return nil, err
	}
	if err := s.store.Update(ctx, models.CollectionProjects, id, map[string]any{"developmentPipeline": steps}); err != nil {
		return nil, err
	}
	logger.WithCtx(ctx).Info("Шаги проекта переупорядочены", zap.String("id", id), zap.Int("from", from), zap.Int("to", to))
	return steps, nil
}

func (s *ProjectService) SetVisible(ctx context.Context, id string, visible bool) error {
	return s.store.Update(ctx, models.CollectionProjects, id, map[string]any{"visible": visible})
}

// Reorder выставляет order по позиции id в списке. Неизвестный id прерывает операцию.
func (s *ProjectService) Reorder(ctx context.Context, ids []string) error {
	for i, id := range ids {
		if err := s.store.Update(ctx, models.CollectionProjects, id, map[string]any{"order": i + 1}); err != nil {
			return err
		}
	}
	logger.WithCtx(ctx).Info("Проекты переупорядочены", zap.Int("count", len(ids)))
	return nil
}

func (s *ProjectService) view(d models.ContentDocument) ProjectView {
	var techs []string
	if raw, ok := d.Payload["technologies"].([]any); ok {
		for _, t := range raw {
			if name, ok := t.(string); ok {
				techs = append(techs, name)
			}
		}
	}
	return ProjectView{ContentDocument: d, Icons: s.resolver.ResolveAll(techs)}
}
