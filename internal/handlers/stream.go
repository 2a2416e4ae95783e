package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/realtime"
	"portfolio/internal/sanitize"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

const streamPingInterval = 25 * time.Second

// StreamHandler отдаёт живые снимки коллекции или документа через Server-Sent Events.
type StreamHandler struct {
	source    realtime.Source
	sanitizer *sanitize.Sanitizer
	ping      time.Duration
}

func NewStreamHandler(source realtime.Source, sanitizer *sanitize.Sanitizer) *StreamHandler {
	return &StreamHandler{source: source, sanitizer: sanitizer, ping: streamPingInterval}
}

// Stream godoc
// @Summary Живая подписка на коллекцию или документ (SSE)
// @Description Сразу после подключения приходит событие snapshot с текущим состоянием,
// @Description затем новое snapshot после каждого изменения. Отключение клиента снимает подписку.
// @Tags stream
// @Produce text/event-stream
// @Param collection path string true "Коллекция"
// @Param id path string false "ID документа"
// @Router /api/stream/{collection} [get]
// @Router /api/stream/{collection}/{id} [get]
func (h *StreamHandler) Stream(w http.ResponseWriter, r *http.Request) {
	collection, ok := publicCollection(w, r)
	if !ok {
		return
	}
	id := mux.Vars(r)["id"]
	log := logger.WithCtx(r.Context()).With(zap.String("collection", collection), zap.String("id", id))

	rc := http.NewResponseController(w)
	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")
	w.Header().Set("X-Accel-Buffering", "no")
	w.WriteHeader(http.StatusOK)
	if err := rc.Flush(); err != nil {
		log.Error("SSE: поток не поддерживается", zap.Error(err))
		return
	}

	// Медленному клиенту достаточно последнего снимка: промежуточные вытесняются.
	latest := make(chan realtime.Snapshot, 1)
	errs := make(chan error, 1)
	render := func(s realtime.Snapshot) {
		for {
			select {
			case latest <- s:
				return
			default:
			}
			select {
			case <-latest:
			default:
			}
		}
	}
	onError := func(err error) {
		select {
		case errs <- err:
		default:
		}
	}

	ctx := r.Context()
	stop := realtime.Bind(ctx, h.source, collection, id, render, onError)
	defer stop()
	log.Debug("SSE: клиент подключён")

	ticker := time.NewTicker(h.ping)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			log.Debug("SSE: клиент отключился")
			return
		case s := <-latest:
			if err := h.writeEvent(w, "snapshot", h.public(s)); err != nil {
				log.Debug("SSE: запись не удалась", zap.Error(err))
				return
			}
		case err := <-errs:
			log.Warn("SSE: ошибка чтения снимка", zap.Error(err))
			if werr := h.writeEvent(w, "error", map[string]string{"error": "Хранилище недоступно"}); werr != nil {
				return
			}
		case <-ticker.C:
			if _, err := fmt.Fprint(w, ": ping\n\n"); err != nil {
				return
			}
		}
		if err := rc.Flush(); err != nil {
			return
		}
	}
}

func (h *StreamHandler) writeEvent(w http.ResponseWriter, event string, v any) error {
	data, err := json.Marshal(v)
	if err != nil {
		return err
	}
	_, err = fmt.Fprintf(w, "event: %s\ndata: %s\n\n", event, data)
	return err
}

// public оставляет в снимке только то, что видно посетителю сайта.
func (h *StreamHandler) public(s realtime.Snapshot) realtime.Snapshot {
	out := realtime.Snapshot{Collection: s.Collection, ID: s.ID}
	if s.ID == "" {
		out.Documents = h.sanitizer.Documents(models.PublicView(s.Collection, s.Documents))
		return out
	}
	if s.Document != nil && models.IsPublic(*s.Document) {
		d := h.sanitizer.Document(*s.Document)
		out.Document = &d
	}
	return out
}
