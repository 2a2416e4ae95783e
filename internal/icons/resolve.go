package icons

import (
	"strings"

	"portfolio/internal/models"
)

// NeutralColor — цвет заглушки, когда иконка не найдена.
const NeutralColor = "#6B7280"

const glyphBaseURL = "https://cdn.simpleicons.org/"

type Resolver struct {
	catalog Catalog
}

func NewResolver(c Catalog) *Resolver {
	return &Resolver{catalog: c}
}

var defaultResolver = NewResolver(SimpleIcons())

// Resolve разрешает название встроенным каталогом.
func Resolve(raw string) models.IconPreview {
	return defaultResolver.Resolve(raw)
}

// Resolve: точное совпадение ключа, затем первое совпадение по подстроке
// в порядке каталога, иначе заглушка. Подстрока может промахнуться
// ("java" внутри "javascript"), это допустимо.
func (r *Resolver) Resolve(raw string) models.IconPreview {
	n := Normalize(raw)
	if n == "" {
		return r.notFound(raw, n)
	}

	if key := r.catalog.Key(n); key != "" {
		if g, ok := r.catalog.Lookup(key); ok {
			return r.preview(key, g)
		}
	}

	for _, e := range r.catalog.Entries() {
		payload := r.catalog.PayloadName(e.Key)
		if strings.Contains(strings.ToLower(e.Key), n) || (payload != "" && strings.Contains(n, payload)) {
			return r.preview(e.Key, e.Glyph)
		}
	}

	return r.notFound(raw, n)
}

// ResolveAll разрешает список технологий проекта с сохранением порядка.
func (r *Resolver) ResolveAll(names []string) []models.IconPreview {
	out := make([]models.IconPreview, 0, len(names))
	for _, n := range names {
		out = append(out, r.Resolve(n))
	}
	return out
}

func (r *Resolver) preview(key string, g Glyph) models.IconPreview {
	return models.IconPreview{
		Name:        r.catalog.PayloadName(key),
		DisplayName: g.Title,
		GlyphData:   glyphBaseURL + g.Slug,
		Color:       "#" + g.Hex,
		Found:       true,
	}
}

func (r *Resolver) notFound(raw, normalized string) models.IconPreview {
	return models.IconPreview{
		Name:        normalized,
		DisplayName: strings.TrimSpace(raw),
		Color:       NeutralColor,
		Found:       false,
	}
}
