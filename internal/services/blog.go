package services

import (
	"context"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/sanitize"

	"go.uber.org/zap"
)

const maxBlogTags = 10

// BlogService — статьи блога поверх ContentStore: slug, теги, публикация.
type BlogService struct {
	store     *ContentStore
	sanitizer *sanitize.Sanitizer
	now       func() time.Time
}

func NewBlogService(store *ContentStore, sanitizer *sanitize.Sanitizer) *BlogService {
	return &BlogService{store: store, sanitizer: sanitizer, now: time.Now}
}

// PreviewHTML показывает, как HTML статьи будет выглядеть на сайте.
func (s *BlogService) PreviewHTML(rawHTML string) string {
	clean := s.sanitizer.HTML(rawHTML)
	logger.Log.Debug("Предпросмотр HTML (sanitize)",
		zap.Int("raw_len", len(rawHTML)),
		zap.Int("clean_len", len(clean)),
	)
	return clean
}

// Save создаёт (id == "") или перезаписывает статью. Slug выводится из
// заголовка, если не задан; теги приводятся к нижнему регистру без повторов.
func (s *BlogService) Save(ctx context.Context, id string, in models.BlogPayload) (string, error) {
	log := logger.WithCtx(ctx)

	in.Title = strings.TrimSpace(in.Title)
	if l := utf8.RuneCountInString(in.Title); l < 3 || l > 255 {
		log.Warn("Валидация не пройдена: заголовок", zap.Int("runes", l))
		return "", models.Validationf("длина заголовка должна быть от 3 до 255 символов")
	}
	in.Tags = normalizeTags(in.Tags)
	if len(in.Tags) > maxBlogTags {
		return "", models.Validationf("максимум %d тегов", maxBlogTags)
	}
	in.Slug = Slugify(in.Slug)
	if in.Slug == "" {
		in.Slug = Slugify(in.Title)
	}
	if in.Published && in.Date == "" {
		in.Date = s.now().UTC().Format("2006-01-02")
	}

	// Статья сохраняется целиком: пустые необязательные поля тоже перезаписываются.
	payload, err := models.ToPayload(in)
	if err != nil {
		return "", err
	}
	for _, k := range []string{"slug", "excerpt", "coverImage", "date"} {
		if _, ok := payload[k]; !ok {
			payload[k] = ""
		}
	}
	if _, ok := payload["tags"]; !ok {
		payload["tags"] = []any{}
	}

	saved, err := s.store.Upsert(ctx, models.CollectionBlogs, payload, id)
	if err != nil {
		return "", err
	}
	log.Info("Статья сохранена", zap.String("id", saved), zap.String("slug", in.Slug), zap.Bool("published", in.Published))
	return saved, nil
}

// SetPublish публикует или снимает статью. При первой публикации проставляется дата.
func (s *BlogService) SetPublish(ctx context.Context, id string, publish bool) error {
	doc, err := s.store.Get(ctx, models.CollectionBlogs, id)
	if err != nil {
		return err
	}
	patch := map[string]any{"published": publish}
	if publish && doc.Payload.String("date") == "" {
		patch["date"] = s.now().UTC().Format("2006-01-02")
	}
	if err := s.store.Update(ctx, models.CollectionBlogs, id, patch); err != nil {
		return err
	}
	logger.WithCtx(ctx).Info("Статус публикации изменён", zap.String("id", id), zap.Bool("published", publish))
	return nil
}

// Slugify: нижний регистр, буквы и цифры, остальное схлопывается в «-».
func Slugify(s string) string {
	var b strings.Builder
	dash := false
	for _, r := range strings.ToLower(strings.TrimSpace(s)) {
		if unicode.IsLetter(r) || unicode.IsDigit(r) {
			b.WriteRune(r)
			dash = false
			continue
		}
		if !dash && b.Len() > 0 {
			b.WriteByte('-')
			dash = true
		}
	}
	return strings.TrimSuffix(b.String(), "-")
}

func normalizeTags(in []string) []string {
	seen := map[string]struct{}{}
	out := make([]string, 0, len(in))
	for _, t := range in {
		t = strings.ToLower(strings.TrimSpace(t))
		if t == "" {
			continue
		}
		if _, ok := seen[t]; ok {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
