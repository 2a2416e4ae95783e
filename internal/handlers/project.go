package handlers

import (
	"net/http"

	"portfolio/internal/reqctx"
	"portfolio/internal/sanitize"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type ProjectHandler struct {
	projects  *services.ProjectService
	sanitizer *sanitize.Sanitizer
}

func NewProjectHandler(projects *services.ProjectService, sanitizer *sanitize.Sanitizer) *ProjectHandler {
	return &ProjectHandler{projects: projects, sanitizer: sanitizer}
}

type reorderPipelineRequest struct {
	From int `json:"from"`
	To   int `json:"to"`
}

type visibilityRequest struct {
	Visible bool `json:"visible"`
}

type reorderRequest struct {
	IDs []string `json:"ids"`
}

// List godoc
// @Summary Видимые проекты с иконками технологий
// @Tags projects
// @Produce json
// @Success 200 {array} services.ProjectView
// @Router /api/projects [get]
func (h *ProjectHandler) List(w http.ResponseWriter, r *http.Request) {
	list, err := h.projects.ListVisible(r.Context())
	if err != nil {
		writeError(w, r, err, "Ошибка получения проектов")
		return
	}
	for i := range list {
		list[i].ContentDocument = h.sanitizer.Document(list[i].ContentDocument)
	}
	helpers.JSON(w, http.StatusOK, list)
}

// Get godoc
// @Summary Проект по id или slug
// @Tags projects
// @Produce json
// @Param key path string true "ID или slug"
// @Success 200 {object} services.ProjectView
// @Failure 404 {object} helpers.Response
// @Router /api/projects/{key} [get]
// @Router /api/admin/projects/{key} [get]
func (h *ProjectHandler) Get(w http.ResponseWriter, r *http.Request) {
	view, err := h.projects.Find(r.Context(), mux.Vars(r)["key"], reqctx.IsAdmin(r.Context()))
	if err != nil {
		writeError(w, r, err, "Ошибка получения проекта")
		return
	}
	view.ContentDocument = h.sanitizer.Document(view.ContentDocument)
	helpers.JSON(w, http.StatusOK, view)
}

// ReorderPipeline godoc
// @Summary Перенести шаг процесса разработки
// @Tags admin-projects
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID проекта"
// @Param input body reorderPipelineRequest true "Индексы (с нуля)"
// @Success 200 {array} models.PipelineStep
// @Failure 400 {object} helpers.Response
// @Router /api/admin/projects/{id}/pipeline/reorder [post]
func (h *ProjectHandler) ReorderPipeline(w http.ResponseWriter, r *http.Request) {
	var req reorderPipelineRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	steps, err := h.projects.ReorderPipeline(r.Context(), mux.Vars(r)["id"], req.From, req.To)
	if err != nil {
		writeError(w, r, err, "Ошибка переупорядочивания шагов")
		return
	}
	helpers.JSON(w, http.StatusOK, steps)
}

// SetVisibility godoc
// @Summary Показать или скрыть проект
// @Tags admin-projects
// @Security ApiKeyAuth
// @Accept json
// @Param id path string true "ID проекта"
// @Param input body visibilityRequest true "Видимость"
// @Success 204
// @Router /api/admin/projects/{id}/visibility [put]
func (h *ProjectHandler) SetVisibility(w http.ResponseWriter, r *http.Request) {
	var req visibilityRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.projects.SetVisible(r.Context(), mux.Vars(r)["id"], req.Visible); err != nil {
		writeError(w, r, err, "Ошибка изменения видимости")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// Reorder godoc
// @Summary Задать порядок проектов
// @Tags admin-projects
// @Security ApiKeyAuth
// @Accept json
// @Param input body reorderRequest true "ID в нужном порядке"
// @Success 204
// @Router /api/admin/projects/reorder [post]
func (h *ProjectHandler) Reorder(w http.ResponseWriter, r *http.Request) {
	var req reorderRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.projects.Reorder(r.Context(), req.IDs); err != nil {
		writeError(w, r, err, "Ошибка переупорядочивания проектов")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
