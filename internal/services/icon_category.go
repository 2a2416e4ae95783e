package services

import (
	"context"
	"strings"

	"portfolio/internal/icons"
	"portfolio/internal/logger"
	"portfolio/internal/models"

	"go.uber.org/zap"
)

// OtherCategoryName — корзина для иконок, чья категория удалена.
const OtherCategoryName = "Other"

// DefaultIconCategories создаются при первом запуске.
var DefaultIconCategories = []models.IconCategoryPayload{
	{Name: "Languages", Description: "Programming languages", Color: "#3B82F6"},
	{Name: "Frameworks", Description: "Frameworks and libraries", Color: "#10B981"},
	{Name: "Databases", Description: "Databases and storage", Color: "#F59E0B"},
	{Name: "Cloud & DevOps", Description: "Infrastructure, CI/CD and hosting", Color: "#8B5CF6"},
	{Name: "Tools", Description: "Editors, design and productivity tools", Color: "#EC4899"},
}

// IconCategoryRegistry — таксономия иконок поверх ContentStore.
type IconCategoryRegistry struct {
	store *ContentStore
}

func NewIconCategoryRegistry(store *ContentStore) *IconCategoryRegistry {
	return &IconCategoryRegistry{store: store}
}

// bootstrapLock — имя блокировки, под которой экземпляры по очереди
// досоздают категории по умолчанию.
const bootstrapLock = "icon_categories:bootstrap"

// EnsureDefaultCategories досоздаёт категории по умолчанию, которых нет по имени
// (без учёта регистра и пробелов). Безопасно вызывать при каждом запуске, в том
// числе одновременно с нескольких экземпляров.
func (r *IconCategoryRegistry) EnsureDefaultCategories(ctx context.Context) error {
	return r.store.WithLock(ctx, bootstrapLock, func(ctx context.Context) error {
		log := logger.WithCtx(ctx)
		existing, err := r.ListCategories(ctx)
		if err != nil {
			return err
		}
		have := make(map[string]bool, len(existing))
		for _, c := range existing {
			have[categoryKey(c.Name)] = true
		}

		created := 0
		for _, c := range DefaultIconCategories {
			k := categoryKey(c.Name)
			if have[k] {
				continue
			}
			if _, err := r.store.Create(ctx, models.CollectionIconCategories, c); err != nil {
				log.Error("icons: не удалось создать категорию по умолчанию", zap.String("name", c.Name), zap.Error(err))
				return err
			}
			have[k] = true
			created++
		}
		if created > 0 {
			log.Info("icons: созданы категории по умолчанию", zap.Int("count", created))
		} else {
			log.Debug("icons: категории по умолчанию уже есть")
		}
		return nil
	})
}

func categoryKey(name string) string { return strings.ToLower(strings.TrimSpace(name)) }

func (r *IconCategoryRegistry) CreateCategory(ctx context.Context, in models.IconCategoryPayload) (string, error) {
	in.Name = strings.TrimSpace(in.Name)
	if in.Name == "" {
		return "", models.Validationf("category name is required")
	}
	if in.Color == "" {
		in.Color = icons.NeutralColor
	}
	return r.store.Create(ctx, models.CollectionIconCategories, in)
}

func (r *IconCategoryRegistry) ListCategories(ctx context.Context) ([]models.IconCategory, error) {
	docs, err := r.store.FetchAll(ctx, models.CollectionIconCategories)
	if err != nil {
		return nil, err
	}
	out := make([]models.IconCategory, 0, len(docs))
	for _, d := range docs {
		c, err := categoryFromDoc(d)
		if err != nil {
			logger.WithCtx(ctx).Warn("icons: пропускаем битую категорию", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		out = append(out, c)
	}
	return out, nil
}

// AddIconToCategory сохраняет iconName как есть: нормализует вызывающий (icons.Normalize).
func (r *IconCategoryRegistry) AddIconToCategory(ctx context.Context, in models.CategoryIconPayload) (string, error) {
	return r.store.Create(ctx, models.CollectionCategoryIcons, in)
}

// ListIconsByCategory — в порядке добавления.
func (r *IconCategoryRegistry) ListIconsByCategory(ctx context.Context, categoryID string) ([]models.CategoryIcon, error) {
	all, err := r.listIcons(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.CategoryIcon{}
	for _, ic := range all {
		if ic.CategoryID == categoryID {
			out = append(out, ic)
		}
	}
	return out, nil
}

// FindIcons — точный поиск по нормализованному имени.
func (r *IconCategoryRegistry) FindIcons(ctx context.Context, iconName string) ([]models.CategoryIcon, error) {
	all, err := r.listIcons(ctx)
	if err != nil {
		return nil, err
	}
	out := []models.CategoryIcon{}
	for _, ic := range all {
		if ic.IconName == iconName {
			out = append(out, ic)
		}
	}
	return out, nil
}

// ListAllCategorizedIcons соединяет иконки с категориями. Иконки с
// несуществующей категорией попадают в «Other».
func (r *IconCategoryRegistry) ListAllCategorizedIcons(ctx context.Context) ([]models.CategorizedIcon, error) {
	cats, err := r.ListCategories(ctx)
	if err != nil {
		return nil, err
	}
	byID := make(map[string]models.IconCategory, len(cats))
	for _, c := range cats {
		byID[c.ID] = c
	}

	all, err := r.listIcons(ctx)
	if err != nil {
		return nil, err
	}
	out := make([]models.CategorizedIcon, 0, len(all))
	orphans := 0
	for _, ic := range all {
		row := models.CategorizedIcon{Icon: ic, CategoryName: OtherCategoryName, CategoryColor: icons.NeutralColor}
		if c, ok := byID[ic.CategoryID]; ok {
			row.CategoryName = c.Name
			row.CategoryColor = c.Color
		} else {
			orphans++
		}
		out = append(out, row)
	}
	if orphans > 0 {
		logger.WithCtx(ctx).Debug("icons: иконки без категории", zap.Int("count", orphans))
	}
	return out, nil
}

func (r *IconCategoryRegistry) RemoveIconFromCategory(ctx context.Context, iconID string) error {
	return r.store.Remove(ctx, models.CollectionCategoryIcons, iconID)
}

// DeleteCategory удаляет только категорию; её иконки остаются и показываются в «Other».
func (r *IconCategoryRegistry) DeleteCategory(ctx context.Context, categoryID string) error {
	return r.store.Remove(ctx, models.CollectionIconCategories, categoryID)
}

func (r *IconCategoryRegistry) listIcons(ctx context.Context) ([]models.CategoryIcon, error) {
	docs, err := r.store.FetchAll(ctx, models.CollectionCategoryIcons)
	if err != nil {
		return nil, err
	}
	out := make([]models.CategoryIcon, 0, len(docs))
	for _, d := range docs {
		p, err := models.Decode[models.CategoryIconPayload](d.Payload)
		if err != nil {
			logger.WithCtx(ctx).Warn("icons: пропускаем битую иконку", zap.String("id", d.ID), zap.Error(err))
			continue
		}
		out = append(out, models.CategoryIcon{
			ID:          d.ID,
			CategoryID:  p.CategoryID,
			IconName:    p.IconName,
			DisplayName: p.DisplayName,
			CreatedAt:   d.CreatedAt,
		})
	}
	return out, nil
}

func categoryFromDoc(d models.ContentDocument) (models.IconCategory, error) {
	p, err := models.Decode[models.IconCategoryPayload](d.Payload)
	if err != nil {
		return models.IconCategory{}, err
	}
	return models.IconCategory{
		ID:          d.ID,
		Name:        p.Name,
		Description: p.Description,
		Color:       p.Color,
		CreatedAt:   d.CreatedAt,
	}, nil
}
