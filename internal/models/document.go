package models

import (
	"encoding/json"
	"sort"
	"time"
)

// Коллекции контента.
const (
	CollectionHome            = "home"
	CollectionAbout           = "about"
	CollectionProjects        = "projects"
	CollectionApps            = "apps"
	CollectionBlogs           = "blogs"
	CollectionTools           = "tools"
	CollectionContactItems    = "contact_items"
	CollectionResponseTimes   = "response_times"
	CollectionContactMessages = "contact_messages"
	CollectionIconCategories  = "icon_categories"
	CollectionCategoryIcons   = "category_icons"
)

// Payload — поля документа конкретной коллекции в JSON-представлении.
type Payload map[string]any

// ContentDocument — конверт документа в коллекции.
type ContentDocument struct {
	ID         string    `json:"id"`
	Collection string    `json:"collection"`
	Payload    Payload   `json:"payload"`
	CreatedAt  time.Time `json:"createdAt"`
	UpdatedAt  time.Time `json:"updatedAt"`
}

// ToPayload приводит произвольное значение (структуру или map) к Payload
// через JSON, чтобы внутри хранилища жили только JSON-типы.
func ToPayload(v any) (Payload, error) {
	if v == nil {
		return Payload{}, nil
	}
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, Validationf("payload is not serializable: %v", err)
	}
	var out Payload
	if err := json.Unmarshal(raw, &out); err != nil {
		return nil, Validationf("payload must be an object")
	}
	if out == nil {
		out = Payload{}
	}
	return out, nil
}

// Decode раскладывает payload в типизированную структуру.
func Decode[T any](p Payload) (T, error) {
	var out T
	raw, err := json.Marshal(p)
	if err != nil {
		return out, err
	}
	err = json.Unmarshal(raw, &out)
	return out, err
}

// Merge возвращает копию p с перезаписанными верхнеуровневыми полями patch.
func (p Payload) Merge(patch Payload) Payload {
	out := p.Clone()
	for k, v := range patch {
		out[k] = cloneValue(v)
	}
	return out
}

// Clone — глубокая копия JSON-значений.
func (p Payload) Clone() Payload {
	out := make(Payload, len(p))
	for k, v := range p {
		out[k] = cloneValue(v)
	}
	return out
}

func cloneValue(v any) any {
	switch x := v.(type) {
	case map[string]any:
		m := make(map[string]any, len(x))
		for k, vv := range x {
			m[k] = cloneValue(vv)
		}
		return m
	case Payload:
		return map[string]any(x.Clone())
	case []any:
		s := make([]any, len(x))
		for i, vv := range x {
			s[i] = cloneValue(vv)
		}
		return s
	default:
		return x
	}
}

// String возвращает строковое поле или "".
func (p Payload) String(key string) string {
	s, _ := p[key].(string)
	return s
}

// Int возвращает числовое поле (JSON-числа приходят как float64).
func (p Payload) Int(key string) (int, bool) {
	switch n := p[key].(type) {
	case float64:
		return int(n), true
	case int:
		return n, true
	case int64:
		return int(n), true
	case json.Number:
		i, err := n.Int64()
		return int(i), err == nil
	}
	return 0, false
}

// Clone копирует документ вместе с payload.
func (d ContentDocument) Clone() ContentDocument {
	d.Payload = d.Payload.Clone()
	return d
}

// SortByOrder — стабильная сортировка по полю order; документы без order идут в конец.
func SortByOrder(docs []ContentDocument) {
	sort.SliceStable(docs, func(i, j int) bool {
		oi, okI := docs[i].Payload.Int("order")
		oj, okJ := docs[j].Payload.Int("order")
		switch {
		case okI && okJ:
			return oi < oj
		case okI:
			return true
		default:
			return false
		}
	})
}

// SortByDate — новые сверху. Берётся поле date, иначе createdAt.
func SortByDate(docs []ContentDocument) {
	sort.SliceStable(docs, func(i, j int) bool {
		return docDate(docs[i]).After(docDate(docs[j]))
	})
}

func docDate(d ContentDocument) time.Time {
	if s := d.Payload.String("date"); s != "" {
		for _, layout := range []string{time.RFC3339, "2006-01-02"} {
			if t, err := time.Parse(layout, s); err == nil {
				return t
			}
		}
	}
	return d.CreatedAt
}
