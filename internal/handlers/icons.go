package handlers

import (
	"net/http"
	"strings"

	"portfolio/internal/icons"
	"portfolio/internal/models"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"github.com/gorilla/mux"
)

type IconHandler struct {
	registry *services.IconCategoryRegistry
	resolver *icons.Resolver
}

func NewIconHandler(registry *services.IconCategoryRegistry, resolver *icons.Resolver) *IconHandler {
	return &IconHandler{registry: registry, resolver: resolver}
}

type addIconRequest struct {
	CategoryID  string `json:"categoryId"`
	IconName    string `json:"iconName"`
	DisplayName string `json:"displayName"`
}

// Resolve godoc
// @Summary Разрешить названия технологий в иконки
// @Tags icons
// @Produce json
// @Param name query []string true "Название (можно несколько)" collectionFormat(multi)
// @Success 200 {array} models.IconPreview
// @Router /api/icons/resolve [get]
func (h *IconHandler) Resolve(w http.ResponseWriter, r *http.Request) {
	names := r.URL.Query()["name"]
	if len(names) == 0 {
		helpers.Error(w, http.StatusBadRequest, "Параметр name обязателен")
		return
	}
	helpers.JSON(w, http.StatusOK, h.resolver.ResolveAll(names))
}

// Categories godoc
// @Summary Категории иконок
// @Tags icons
// @Produce json
// @Success 200 {array} models.IconCategory
// @Router /api/icons/categories [get]
func (h *IconHandler) Categories(w http.ResponseWriter, r *http.Request) {
	cats, err := h.registry.ListCategories(r.Context())
	if err != nil {
		writeError(w, r, err, "Ошибка получения категорий")
		return
	}
	helpers.JSON(w, http.StatusOK, cats)
}

// CategoryIcons godoc
// @Summary Иконки категории в порядке добавления
// @Tags icons
// @Produce json
// @Param id path string true "ID категории"
// @Success 200 {array} models.CategoryIcon
// @Router /api/icons/categories/{id}/icons [get]
func (h *IconHandler) CategoryIcons(w http.ResponseWriter, r *http.Request) {
	list, err := h.registry.ListIconsByCategory(r.Context(), mux.Vars(r)["id"])
	if err != nil {
		writeError(w, r, err, "Ошибка получения иконок")
		return
	}
	helpers.JSON(w, http.StatusOK, list)
}

// Categorized godoc
// @Summary Все иконки с названием и цветом категории (блок «стек технологий»)
// @Tags icons
// @Produce json
// @Success 200 {array} models.CategorizedIcon
// @Router /api/icons/categorized [get]
func (h *IconHandler) Categorized(w http.ResponseWriter, r *http.Request) {
	list, err := h.registry.ListAllCategorizedIcons(r.Context())
	if err != nil {
		writeError(w, r, err, "Ошибка получения иконок")
		return
	}
	helpers.JSON(w, http.StatusOK, list)
}

// Find godoc
// @Summary Найти иконку по имени во всех категориях
// @Tags icons
// @Produce json
// @Param name path string true "Название иконки"
// @Success 200 {array} models.CategoryIcon
// @Router /api/icons/find/{name} [get]
func (h *IconHandler) Find(w http.ResponseWriter, r *http.Request) {
	list, err := h.registry.FindIcons(r.Context(), icons.Normalize(mux.Vars(r)["name"]))
	if err != nil {
		writeError(w, r, err, "Ошибка поиска иконки")
		return
	}
	helpers.JSON(w, http.StatusOK, list)
}

// CreateCategory godoc
// @Summary Создать категорию иконок
// @Tags admin-icons
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body models.IconCategoryPayload true "Категория"
// @Success 201 {object} idResponse
// @Failure 400 {object} helpers.Response
// @Router /api/admin/icons/categories [post]
func (h *IconHandler) CreateCategory(w http.ResponseWriter, r *http.Request) {
	var req models.IconCategoryPayload
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	id, err := h.registry.CreateCategory(r.Context(), req)
	if err != nil {
		writeError(w, r, err, "Ошибка создания категории")
		return
	}
	helpers.JSON(w, http.StatusCreated, idResponse{ID: id})
}

// DeleteCategory godoc
// @Summary Удалить категорию (иконки остаются и уходят в Other)
// @Tags admin-icons
// @Security ApiKeyAuth
// @Param id path string true "ID категории"
// @Success 204
// @Router /api/admin/icons/categories/{id} [delete]
func (h *IconHandler) DeleteCategory(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.DeleteCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err, "Ошибка удаления категории")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

// AddIcon godoc
// @Summary Добавить иконку в категорию
// @Description iconName нормализуется; без displayName берётся название из каталога.
// @Tags admin-icons
// @Security ApiKeyAuth
// @Accept json
// @Produce json
// @Param input body addIconRequest true "Иконка"
// @Success 201 {object} idResponse
// @Failure 400 {object} helpers.Response
// @Router /api/admin/icons [post]
func (h *IconHandler) AddIcon(w http.ResponseWriter, r *http.Request) {
	var req addIconRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	in := models.CategoryIconPayload{
		CategoryID:  strings.TrimSpace(req.CategoryID),
		IconName:    icons.Normalize(req.IconName),
		DisplayName: strings.TrimSpace(req.DisplayName),
	}
	if in.DisplayName == "" {
		in.DisplayName = h.resolver.Resolve(req.IconName).DisplayName
	}
	id, err := h.registry.AddIconToCategory(r.Context(), in)
	if err != nil {
		writeError(w, r, err, "Ошибка добавления иконки")
		return
	}
	helpers.JSON(w, http.StatusCreated, idResponse{ID: id})
}

// RemoveIcon godoc
// @Summary Убрать иконку из категории
// @Tags admin-icons
// @Security ApiKeyAuth
// @Param id path string true "ID иконки"
// @Success 204
// @Router /api/admin/icons/{id} [delete]
func (h *IconHandler) RemoveIcon(w http.ResponseWriter, r *http.Request) {
	if err := h.registry.RemoveIconFromCategory(r.Context(), mux.Vars(r)["id"]); err != nil {
		writeError(w, r, err, "Ошибка удаления иконки")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
