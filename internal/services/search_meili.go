package services

import (
	"encoding/json"
	"fmt"
	"strings"
	"sync/atomic"
	"time"

	"portfolio/internal/logger"

	meili "github.com/meilisearch/meilisearch-go"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"
)

const meiliIndexUID = "portfolio_content"

// SearchRecord — документ поискового индекса. ID уникален между коллекциями.
type SearchRecord struct {
	ID           string   `json:"id"`
	DocID        string   `json:"docId"`
	Collection   string   `json:"collection"`
	Title        string   `json:"title"`
	Slug         string   `json:"slug,omitempty"`
	Summary      string   `json:"summary"`
	Body         string   `json:"body"`
	Technologies []string `json:"technologies,omitempty"`
}

func recordID(collection, id string) string { return collection + "_" + id }

// MeiliIndex — индекс в Meilisearch с фоновой проверкой здоровья.
type MeiliIndex struct {
	client  meili.ServiceManager
	healthy atomic.Bool
	done    chan struct{}
	// highlight пропускает из ответа только подсветку <mark>
	highlight *bluemonday.Policy
}

func highlightPolicy() *bluemonday.Policy {
	return bluemonday.NewPolicy().AllowElements("mark")
}

// NewMeiliIndex подключается к Meilisearch. Недоступность при старте не фатальна:
// индекс помечается нездоровым, а поиск идёт по хранилищу до восстановления.
func NewMeiliIndex(url, apiKey string) *MeiliIndex {
	m := &MeiliIndex{
		client:    meili.New(url, meili.WithAPIKey(apiKey)),
		done:      make(chan struct{}),
		highlight: highlightPolicy(),
	}
	if _, err := m.client.Health(); err != nil {
		logger.Log.Warn("search: meilisearch недоступен", zap.String("url", url), zap.Error(err))
	} else {
		m.healthy.Store(true)
		m.configure()
	}
	go m.healthLoop()
	return m
}

func (m *MeiliIndex) configure() {
	if _, err := m.client.CreateIndex(&meili.IndexConfig{Uid: meiliIndexUID, PrimaryKey: "id"}); err != nil {
		logger.Log.Debug("search: индекс уже существует или не создан", zap.Error(err))
	}
	index := m.client.Index(meiliIndexUID)
	filterable := []interface{}{"collection"}
	if _, err := index.UpdateFilterableAttributes(&filterable); err != nil {
		logger.Log.Warn("search: не удалось обновить filterable", zap.Error(err))
	}
	searchable := []string{"title", "summary", "technologies", "body"}
	if _, err := index.UpdateSearchableAttributes(&searchable); err != nil {
		logger.Log.Warn("search: не удалось обновить searchable", zap.Error(err))
	}
}

func (m *MeiliIndex) healthLoop() {
	ticker := time.NewTicker(10 * time.Second)
	defer ticker.Stop()
	for {
		select {
		case <-m.done:
			return
		case <-ticker.C:
			_, err := m.client.Health()
			was := m.healthy.Load()
			m.healthy.Store(err == nil)
			if err == nil && !was {
				logger.Log.Info("search: meilisearch снова доступен")
				m.configure()
			}
		}
	}
}

func (m *MeiliIndex) Healthy() bool { return m.healthy.Load() }

func (m *MeiliIndex) Close() { close(m.done) }

func (m *MeiliIndex) Put(records []SearchRecord) error {
	if len(records) == 0 {
		return nil
	}
	_, err := m.client.Index(meiliIndexUID).AddDocuments(records, nil)
	return err
}

func (m *MeiliIndex) Delete(id string) error {
	_, err := m.client.Index(meiliIndexUID).DeleteDocument(id, nil)
	return err
}

func (m *MeiliIndex) Search(q SearchQuery) ([]SearchResult, error) {
	if !m.healthy.Load() {
		return nil, fmt.Errorf("meilisearch unhealthy")
	}
	req := &meili.SearchRequest{
		Limit:                 int64(q.Limit),
		AttributesToHighlight: []string{"title", "summary"},
		HighlightPreTag:       "<mark>",
		HighlightPostTag:      "</mark>",
	}
	if q.Collection != "" {
		req.Filter = []string{fmt.Sprintf("collection = %q", q.Collection)}
	}

	resp, err := m.client.Index(meiliIndexUID).Search(q.Text, req)
	if err != nil {
		m.healthy.Store(false)
		return nil, fmt.Errorf("meilisearch search: %w", err)
	}

	out := make([]SearchResult, 0, len(resp.Hits))
	for _, hit := range resp.Hits {
		out = append(out, m.result(hit))
	}
	return out, nil
}

// result собирает ответ из хита. Индекс мог быть заполнен старой версией
// без очистки, поэтому текст ещё раз проходит через политику.
func (m *MeiliIndex) result(hit meili.Hit) SearchResult {
	return SearchResult{
		Collection: hitString(hit, "collection"),
		ID:         hitString(hit, "docId"),
		Slug:       hitString(hit, "slug"),
		Title:      m.highlight.Sanitize(firstNonBlank(hitFormatted(hit, "title"), hitString(hit, "title"))),
		Snippet:    m.highlight.Sanitize(firstNonBlank(hitFormatted(hit, "summary"), hitString(hit, "summary"))),
	}
}

func hitString(hit meili.Hit, key string) string {
	raw, ok := hit[key]
	if !ok {
		return ""
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return ""
	}
	return s
}

func hitFormatted(hit meili.Hit, key string) string {
	raw, ok := hit["_formatted"]
	if !ok {
		return ""
	}
	var formatted map[string]any
	if err := json.Unmarshal(raw, &formatted); err != nil {
		return ""
	}
	s, _ := formatted[key].(string)
	return strings.TrimSpace(s)
}

func firstNonBlank(values ...string) string {
	for _, v := range values {
		if strings.TrimSpace(v) != "" {
			return v
		}
	}
	return ""
}
