package handlers

import (
	"net/http"

	"portfolio/internal/models"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type BlogHandler struct {
	blogs *services.BlogService
}

func NewBlogHandler(blogs *services.BlogService) *BlogHandler {
	return &BlogHandler{blogs: blogs}
}

type previewRequest struct {
	HTML string `json:"html"`
}

type previewResponse struct {
	HTML string `json:"html"`
}

type publishRequest struct {
	Publish bool `json:"publish"`
}

// Preview godoc
// @Summary Предпросмотр HTML статьи
// @Tags admin-blogs
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body previewRequest true "HTML из редактора"
// @Success 200 {object} previewResponse
// @Router /api/admin/blogs/preview [post]
func (h *BlogHandler) Preview(w http.ResponseWriter, r *http.Request) {
	var req previewRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	helpers.JSON(w, http.StatusOK, previewResponse{HTML: h.blogs.PreviewHTML(req.HTML)})
}

// Create godoc
// @Summary Создать статью
// @Tags admin-blogs
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.BlogPayload true "Статья"
// @Success 201 {object} idResponse
// @Failure 400 {object} helpers.Response
// @Router /api/admin/blogs [post]
func (h *BlogHandler) Create(w http.ResponseWriter, r *http.Request) {
	var req models.BlogPayload
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.blogs.Save(r.Context(), "", req)
	if err != nil {
		writeError(w, r, err, "Ошибка создания статьи")
		return
	}
	helpers.JSON(w, http.StatusCreated, idResponse{ID: id})
}

// Save godoc
// @Summary Сохранить статью целиком
// @Tags admin-blogs
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param id path string true "ID статьи"
// @Param input body models.BlogPayload true "Статья"
// @Success 200 {object} idResponse
// @Router /api/admin/blogs/{id} [put]
func (h *BlogHandler) Save(w http.ResponseWriter, r *http.Request) {
	var req models.BlogPayload
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.blogs.Save(r.Context(), mux.Vars(r)["id"], req)
	if err != nil {
		writeError(w, r, err, "Ошибка сохранения статьи")
		return
	}
	helpers.JSON(w, http.StatusOK, idResponse{ID: id})
}

// SetPublish godoc
// @Summary Опубликовать или снять статью
// @Tags admin-blogs
// @Security ApiKeyAuth
// @Accept json
// @Param id path string true "ID статьи"
// @Param input body publishRequest true "Флаг публикации"
// @Success 204
// @Router /api/admin/blogs/{id}/publish [patch]
func (h *BlogHandler) SetPublish(w http.ResponseWriter, r *http.Request) {
	var req publishRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	if err := h.blogs.SetPublish(r.Context(), mux.Vars(r)["id"], req.Publish); err != nil {
		writeError(w, r, err, "Ошибка изменения публикации")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
