// Package sanitize чистит сохранённый HTML перед отдачей на публичные страницы.
package sanitize

import (
	"strings"

	"portfolio/internal/models"

	"github.com/microcosm-cc/bluemonday"
)

type Sanitizer struct {
	policy *bluemonday.Policy
}

func New() *Sanitizer {
	p := bluemonday.UGCPolicy()
	p.AllowElements("img")
	p.AllowAttrs("src", "alt").OnElements("img")
	p.AllowAttrs("class").Matching(bluemonday.SpaceSeparatedTokens).OnElements("code", "pre", "span")
	return &Sanitizer{policy: p}
}

func (s *Sanitizer) HTML(raw string) string {
	return s.policy.Sanitize(raw)
}

// Document возвращает копию документа с очищенными HTML-полями коллекции.
func (s *Sanitizer) Document(d models.ContentDocument) models.ContentDocument {
	out := d.Clone()
	for _, path := range models.HTMLFields(d.Collection) {
		s.walk(map[string]any(out.Payload), strings.Split(path, "."))
	}
	return out
}

func (s *Sanitizer) Documents(docs []models.ContentDocument) []models.ContentDocument {
	out := make([]models.ContentDocument, 0, len(docs))
	for _, d := range docs {
		out = append(out, s.Document(d))
	}
	return out
}

func (s *Sanitizer) walk(node map[string]any, path []string) {
	if len(path) == 0 || node == nil {
		return
	}
	v, ok := node[path[0]]
	if !ok {
		return
	}
	if len(path) == 1 {
		if str, ok := v.(string); ok {
			node[path[0]] = s.policy.Sanitize(str)
		}
		return
	}
	switch x := v.(type) {
	case map[string]any:
		s.walk(x, path[1:])
	case []any:
		for _, item := range x {
			if m, ok := item.(map[string]any); ok {
				s.walk(m, path[1:])
			}
		}
	}
}
