package handlers

import (
	"net/http"

	"portfolio/internal/models"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type ContactHandler struct {
	contact *services.ContactService
}

func NewContactHandler(contact *services.ContactService) *ContactHandler {
	return &ContactHandler{contact: contact}
}

type markReadRequest struct {
	Read bool `json:"read"`
}

// Submit godoc
// @Summary Отправить сообщение через форму обратной связи
// @Tags contact
// @Accept json
// @Produce json
// @Param input body models.ContactMessagePayload true "Сообщение"
// @Success 201 {object} idResponse
// @Failure 400 {object} helpers.Response
// @Router /api/contact [post]
func (h *ContactHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var req models.ContactMessagePayload
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.contact.Submit(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Ошибка отправки сообщения")
		return
	}
	helpers.JSON(w, http.StatusCreated, idResponse{ID: id})
}

// Inbox godoc
// @Summary Сообщения из формы, новые сверху
// @Tags admin-contact
// @Security ApiKeyAuth
// @Produce json
// @Success 200 {array} models.ContentDocument
// @Router /api/admin/messages [get]
func (h *ContactHandler) Inbox(w http.ResponseWriter, r *http.Request) {
	docs, err := h.contact.Inbox(r.Context())
	if err != nil {
		writeError(w, r, err, "Ошибка получения сообщений")
		return
	}
	helpers.JSON(w, http.StatusOK, docs)
}

// MarkRead godoc
// @Summary Отметить сообщение прочитанным
// @Tags admin-contact
// @Security ApiKeyAuth
// @Accept json
// @Param id path string true "ID сообщения"
// @Param input body markReadRequest true "Флаг"
// @Success 204
// @Router /api/admin/messages/{id}/read [put]
func (h *ContactHandler) MarkRead(w http.ResponseWriter, r *http.Request) {
	var req markReadRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.contact.MarkRead(r.Context(), mux.Vars(r)["id"], req.Read); err != nil {
		writeError(w, r, err, "Ошибка обновления сообщения")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
