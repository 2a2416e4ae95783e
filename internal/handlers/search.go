package handlers

import (
	"net/http"
	"strconv"

	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"
)

type SearchHandler struct {
	search *services.SearchService
}

func NewSearchHandler(search *services.SearchService) *SearchHandler {
	return &SearchHandler{search: search}
}

// Search godoc
// @Summary Поиск по проектам и статьям
// @Tags search
// @Produce json
// @Param q query string true "Запрос"
// @Param collection query string false "projects или blogs"
// @Param limit query int false "Не больше 100"
// @Success 200 {array} services.SearchResult
// @Failure 400 {object} helpers.Response
// @Router /api/search [get]
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	limit, _ := strconv.Atoi(q.Get("limit"))
	res, err := h.search.Search(r.Context(), services.SearchQuery{
		Text:       q.Get("q"),
		Collection: q.Get("collection"),
		Limit:      limit,
	})
	if err != nil {
		writeError(w, r, err, "Ошибка поиска")
		return
	}
	helpers.JSON(w, http.StatusOK, res)
}
