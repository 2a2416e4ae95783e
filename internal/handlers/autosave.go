package handlers

import (
	"context"
	"errors"
	"net/http"
	"time"

	"portfolio/internal/autosave"
	"portfolio/internal/models"
	"portfolio/internal/utils/helpers"

	"github.com/gorilla/mux"
)

const flushTimeout = 15 * time.Second

// AutosaveHandler — эндпоинты редактора: правки копятся и пишутся с задержкой.
type AutosaveHandler struct {
	manager *autosave.Manager
}

func NewAutosaveHandler(manager *autosave.Manager) *AutosaveHandler {
	return &AutosaveHandler{manager: manager}
}

func (h *AutosaveHandler) fail(w http.ResponseWriter, r *http.Request, err error, msg string) {
	if errors.Is(err, autosave.ErrUnsavedDocument) {
		helpers.Error(w, http.StatusBadRequest, "Сначала сохраните документ")
		return
	}
	writeError(w, r, err, msg)
}

// Edit godoc
// @Summary Правка черновика (сохранится после паузы)
// @Tags admin-autosave
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param collection path string true "Коллекция"
// @Param id path string true "ID документа"
// @Param input body object true "Изменённые поля"
// @Success 202 {object} autosave.Status
// @Failure 400 {object} helpers.Response
// @Router /api/admin/autosave/{collection}/{id} [patch]
func (h *AutosaveHandler) Edit(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	var fields models.Payload
	if err := helpers.DecodeJSON(w, r, &fields); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	st, err := h.manager.Edit(r.Context(), vars["collection"], vars["id"], fields)
	if err != nil {
		h.fail(w, r, err, "Ошибка автосохранения")
		return
	}
	helpers.JSON(w, http.StatusAccepted, st)
}

// Status godoc
// @Summary Состояние автосохранения документа
// @Tags admin-autosave
// @Security ApiKeyAuth
// @Produce json
// @Param collection path string true "Коллекция"
// @Param id path string true "ID документа"
// @Success 200 {object} autosave.Status
// @Router /api/admin/autosave/{collection}/{id} [get]
func (h *AutosaveHandler) Status(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	st, _ := h.manager.Status(vars["collection"], vars["id"])
	helpers.JSON(w, http.StatusOK, st)
}

// Flush godoc
// @Summary Сохранить черновик немедленно
// @Tags admin-autosave
// @Security ApiKeyAuth
// @Produce json
// @Param collection path string true "Коллекция"
// @Param id path string true "ID документа"
// @Success 200 {object} autosave.Status
// @Router /api/admin/autosave/{collection}/{id}/flush [post]
func (h *AutosaveHandler) Flush(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ctx, cancel := context.WithTimeout(r.Context(), flushTimeout)
	defer cancel()
	st, err := h.manager.Flush(ctx, vars["collection"], vars["id"])
	if err != nil {
		h.fail(w, r, err, "Ошибка сохранения черновика")
		return
	}
	helpers.JSON(w, http.StatusOK, st)
}

// Release godoc
// @Summary Редактор закрыт: дописать черновик и освободить документ
// @Tags admin-autosave
// @Security ApiKeyAuth
// @Param collection path string true "Коллекция"
// @Param id path string true "ID документа"
// @Success 204
// @Router /api/admin/autosave/{collection}/{id} [delete]
func (h *AutosaveHandler) Release(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	ctx, cancel := context.WithTimeout(r.Context(), flushTimeout)
	defer cancel()
	if err := h.manager.Release(ctx, vars["collection"], vars["id"]); err != nil {
		h.fail(w, r, err, "Ошибка сохранения черновика")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
