package handlers

import (
	"net/http"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/sanitize"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"github.com/gorilla/mux"
	"go.uber.org/zap"
)

// ContentHandler — чтение и запись документов коллекций.
// Публичные маршруты отдают только публичные документы с очищенным HTML,
// админские — всё как есть.
type ContentHandler struct {
	store     *services.ContentStore
	sanitizer *sanitize.Sanitizer
}

func NewContentHandler(store *services.ContentStore, sanitizer *sanitize.Sanitizer) *ContentHandler {
	return &ContentHandler{store: store, sanitizer: sanitizer}
}

func publicCollection(w http.ResponseWriter, r *http.Request) (string, bool) {
	collection := mux.Vars(r)["collection"]
	if !models.PublicCollection(collection) {
		helpers.Error(w, http.StatusNotFound, "Коллекция не найдена")
		return "", false
	}
	return collection, true
}

// List godoc
// @Summary Публичные документы коллекции
// @Tags content
// @Produce json
// @Param collection path string true "Коллекция"
// @Success 200 {array} models.ContentDocument
// @Failure 404 {object} helpers.Response
// @Failure 503 {object} helpers.Response
// @Router /api/content/{collection} [get]
func (h *ContentHandler) List(w http.ResponseWriter, r *http.Request) {
	collection, ok := publicCollection(w, r)
	if !ok {
		return
	}
	docs, err := h.store.FetchAll(r.Context(), collection)
	if err != nil {
		writeError(w, r, err, "Ошибка получения коллекции")
		return
	}
	helpers.JSON(w, http.StatusOK, h.sanitizer.Documents(models.PublicView(collection, docs)))
}

// Get godoc
// @Summary Публичный документ по id
// @Tags content
// @Produce json
// @Param collection path string true "Коллекция"
// @Param id path string true "ID документа"
// @Success 200 {object} models.ContentDocument
// @Failure 404 {object} helpers.Response
// @Router /api/content/{collection}/{id} [get]
func (h *ContentHandler) Get(w http.ResponseWriter, r *http.Request) {
	collection, ok := publicCollection(w, r)
	if !ok {
		return
	}
	doc, err := h.store.Get(r.Context(), collection, mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, "Ошибка получения документа")
		return
	}
	if !models.IsPublic(*doc) {
		helpers.Error(w, http.StatusNotFound, "Не найдено")
		return
	}
	helpers.JSON(w, http.StatusOK, h.sanitizer.Document(*doc))
}

// Singleton godoc
// @Summary Документ коллекции-одиночки (home, about)
// @Description Пустая коллекция отдаёт data: null, а не ошибку.
// @Tags content
// @Produce json
// @Param collection path string true "Коллекция"
// @Success 200 {object} models.ContentDocument
// @Router /api/singleton/{collection} [get]
func (h *ContentHandler) Singleton(w http.ResponseWriter, r *http.Request) {
	collection, ok := publicCollection(w, r)
	if !ok {
		return
	}
	doc, err := h.store.FetchOne(r.Context(), collection)
	if err != nil {
		writeError(w, r, err, "Ошибка получения документа")
		return
	}
	if doc == nil {
		helpers.JSON(w, http.StatusOK, nil)
		return
	}
	helpers.JSON(w, http.StatusOK, h.sanitizer.Document(*doc))
}

// AdminList godoc
// @Summary Все документы коллекции без фильтрации
// @Tags admin-content
// @Security ApiKeyAuth
// @Produce json
// @Param collection path string true "Коллекция"
// @Success 200 {array} models.ContentDocument
// @Router /api/admin/content/{collection} [get]
func (h *ContentHandler) AdminList(w http.ResponseWriter, r *http.Request) {
	docs, err := h.store.FetchAll(r.Context(), mux.Vars(r)["collection"])
	if err != nil {
		writeError(w, r, err, "Ошибка получения коллекции")
		return
	}
	helpers.JSON(w, http.StatusOK, docs)
}

// AdminGet godoc
// @Summary Документ по id (сырой HTML)
// @Tags admin-content
// @Security ApiKeyAuth
// @Produce json
// @Param collection path string true "Коллекция"
// @Param id path string true "ID документа"
// @Success 200 {object} models.ContentDocument
// @Failure 404 {object} helpers.Response
// @Router /api/admin/content/{collection}/{id} [get]
func (h *ContentHandler) AdminGet(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	doc, err := h.store.Get(r.Context(), vars["collection"], vars["id"])
	if err != nil {
		writeError(w, r, err, "Ошибка получения документа")
		return
	}
	helpers.JSON(w, http.StatusOK, doc)
}

// Create godoc
// @Summary Создать документ
// @Tags admin-content
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param collection path string true "Коллекция"
// @Param input body object true "Поля документа"
// @Success 201 {object} idResponse
// @Failure 400 {object} helpers.Response
// @Router /api/admin/content/{collection} [post]
func (h *ContentHandler) Create(w http.ResponseWriter, r *http.Request) {
	collection := mux.Vars(r)["collection"]
	var payload models.Payload
	if err := helpers.DecodeJSON(w, r, &payload); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.store.Create(r.Context(), collection, payload)
	if err != nil {
		writeError(w, r, err, "Ошибка создания документа")
		return
	}
	helpers.JSON(w, http.StatusCreated, idResponse{ID: id})
}

// Upsert godoc
// @Summary Сохранить документ (создать, если id неизвестен)
// @Tags admin-content
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param collection path string true "Коллекция"
// @Param id path string true "ID документа"
// @Param input body object true "Поля документа"
// @Success 200 {object} idResponse
// @Router /api/admin/content/{collection}/{id} [put]
func (h *ContentHandler) Upsert(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var payload models.Payload
	if err := helpers.DecodeJSON(w, r, &payload); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.store.Upsert(r.Context(), vars["collection"], payload, vars["id"])
	if err != nil {
		writeError(w, r, err, "Ошибка сохранения документа")
		return
	}
	helpers.JSON(w, http.StatusOK, idResponse{ID: id})
}

// Update godoc
// @Summary Частичное обновление документа
// @Tags admin-content
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param collection path string true "Коллекция"
// @Param id path string true "ID документа"
// @Param input body object true "Изменённые поля"
// @Success 200 {object} idResponse
// @Failure 404 {object} helpers.Response
// @Router /api/admin/content/{collection}/{id} [patch]
func (h *ContentHandler) Update(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var patch models.Payload
	if err := helpers.DecodeJSON(w, r, &patch); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.store.Update(r.Context(), vars["collection"], vars["id"], patch); err != nil {
		writeError(w, r, err, "Ошибка обновления документа")
		return
	}
	helpers.JSON(w, http.StatusOK, idResponse{ID: vars["id"]})
}

// Delete godoc
// @Summary Удалить документ
// @Tags admin-content
// @Security ApiKeyAuth
// @Param collection path string true "Коллекция"
// @Param id path string true "ID документа"
// @Success 204
// @Failure 404 {object} helpers.Response
// @Router /api/admin/content/{collection}/{id} [delete]
func (h *ContentHandler) Delete(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	if err := h.store.Remove(r.Context(), vars["collection"], vars["id"]); err != nil {
		writeError(w, r, err, "Ошибка удаления документа")
		return
	}
	logger.WithCtx(r.Context()).Info("Документ удалён администратором",
		zap.String("collection", vars["collection"]), zap.String("id", vars["id"]))
	w.WriteHeader(http.StatusNoContent)
}
