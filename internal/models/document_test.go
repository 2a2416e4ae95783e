package models

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPayloadMergeDoesNotTouchSource(t *testing.T) {
	base := Payload{"title": "A", "content": map[string]any{"about": "x"}}
	merged := base.Merge(Payload{"title": "B"})

	assert.Equal(t, "B", merged.String("title"))
	assert.Equal(t, "A", base.String("title"))

	merged["content"].(map[string]any)["about"] = "changed"
	assert.Equal(t, "x", base["content"].(map[string]any)["about"], "merge обязан копировать вложенные значения")
}

func TestPayloadCloneIsDeep(t *testing.T) {
	p := Payload{"tags": []any{"go", "redis"}}
	c := p.Clone()
	c["tags"].([]any)[0] = "rust"
	assert.Equal(t, "go", p["tags"].([]any)[0])
}

func TestToPayload(t *testing.T) {
	p, err := ToPayload(BlogPayload{Title: "Привет", Content: "<p>x</p>", Published: true})
	require.NoError(t, err)
	assert.Equal(t, "Привет", p.String("title"))
	assert.Equal(t, true, p["published"])

	p, err = ToPayload(nil)
	require.NoError(t, err)
	assert.Empty(t, p)

	_, err = ToPayload([]int{1, 2})
	assert.True(t, errors.Is(err, ErrValidation))
}

func TestPayloadInt(t *testing.T) {
	p := Payload{"a": float64(3), "b": 4, "c": "5"}
	n, ok := p.Int("a")
	assert.True(t, ok)
	assert.Equal(t, 3, n)
	n, ok = p.Int("b")
	assert.True(t, ok)
	assert.Equal(t, 4, n)
	_, ok = p.Int("c")
	assert.False(t, ok)
	_, ok = p.Int("missing")
	assert.False(t, ok)
}

func TestSortByOrder(t *testing.T) {
	docs := []ContentDocument{
		{ID: "none", Payload: Payload{}},
		{ID: "two", Payload: Payload{"order": float64(2)}},
		{ID: "one", Payload: Payload{"order": float64(1)}},
		{ID: "none2", Payload: Payload{}},
	}
	SortByOrder(docs)
	assert.Equal(t, []string{"one", "two", "none", "none2"}, ids(docs))
}

func TestSortByDate(t *testing.T) {
	now := time.Now()
	docs := []ContentDocument{
		{ID: "old", Payload: Payload{"date": "2023-01-01"}},
		{ID: "created", CreatedAt: now},
		{ID: "mid", Payload: Payload{"date": "2024-05-01T10:00:00Z"}},
	}
	SortByDate(docs)
	assert.Equal(t, []string{"created", "mid", "old"}, ids(docs))
}

func TestValidatePayload(t *testing.T) {
	cases := []struct {
		name       string
		collection string
		payload    Payload
		ok         bool
	}{
		{"неизвестная коллекция", "nope", Payload{}, false},
		{"проект без названия", CollectionProjects, Payload{"title": " "}, false},
		{"проект", CollectionProjects, Payload{"title": "Portfolio", "status": "active"}, true},
		{"неизвестный статус", CollectionProjects, Payload{"title": "P", "status": "done"}, false},
		{"битая ссылка", CollectionProjects, Payload{"title": "P", "githubUrl": "not a url"}, false},
		{"относительная ссылка", CollectionProjects, Payload{"title": "P", "coverImage": "/uploads/a.png"}, true},
		{"шаг без названия", CollectionProjects, Payload{"title": "P", "developmentPipeline": []any{map[string]any{"title": ""}}}, false},
		{"письмо", CollectionContactMessages, Payload{"name": "Ann", "email": "ann@example.com", "message": "hi"}, true},
		{"письмо с битым email", CollectionContactMessages, Payload{"name": "Ann", "email": "ann", "message": "hi"}, false},
		{"неверный тип поля", CollectionBlogs, Payload{"title": 42}, false},
		{"категория с цветом", CollectionIconCategories, Payload{"name": "Frontend", "color": "#3B82F6"}, true},
		{"категория с битым цветом", CollectionIconCategories, Payload{"name": "Frontend", "color": "blue"}, false},
		{"иконка не нормализована", CollectionCategoryIcons, Payload{"categoryId": "c", "iconName": "React", "displayName": "React"}, false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			err := ValidatePayload(tc.collection, tc.payload)
			if tc.ok {
				assert.NoError(t, err)
				return
			}
			assert.True(t, errors.Is(err, ErrValidation), "ожидалась ошибка валидации, получено %v", err)
		})
	}
}

func TestKnownCollections(t *testing.T) {
	for _, c := range Collections() {
		assert.True(t, KnownCollection(c), c)
	}
	assert.False(t, KnownCollection("users"))
}

func ids(docs []ContentDocument) []string {
	out := make([]string, len(docs))
	for i, d := range docs {
		out[i] = d.ID
	}
	return out
}
