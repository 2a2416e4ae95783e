package handlers

import (
	"net/http"

	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"
)

type UploadHandler struct {
	uploads *services.UploadService
}

func NewUploadHandler(uploads *services.UploadService) *UploadHandler {
	return &UploadHandler{uploads: uploads}
}

type uploadResponse struct {
	URL string `json:"url"`
}

// Upload godoc
// @Summary Загрузить изображение (обложка, скриншот)
// @Tags admin-uploads
// @Security ApiKeyAuth
// @Accept multipart/form-data
// @Produce json
// @Param file formData file true "Изображение"
// @Success 201 {object} uploadResponse
// @Failure 400 {object} helpers.Response
// @Router /api/admin/uploads [post]
func (h *UploadHandler) Upload(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		helpers.Error(w, http.StatusServiceUnavailable, "Загрузка файлов не настроена")
		return
	}
	r.Body = http.MaxBytesReader(w, r.Body, services.MaxUploadSize+1<<20)
	if err := r.ParseMultipartForm(1 << 20); err != nil {
		helpers.Error(w, http.StatusBadRequest, "Некорректная форма или слишком большой файл")
		return
	}
	file, header, err := r.FormFile("file")
	if err != nil {
		helpers.Error(w, http.StatusBadRequest, "Поле file обязательно")
		return
	}
	defer file.Close()

	url, err := h.uploads.Upload(r.Context(), header.Header.Get("Content-Type"), header.Size, file)
	if err != nil {
		writeError(w, r, err, "Ошибка загрузки файла")
		return
	}
	helpers.JSON(w, http.StatusCreated, uploadResponse{URL: url})
}

// Delete godoc
// @Summary Удалить загруженный файл
// @Tags admin-uploads
// @Security ApiKeyAuth
// @Param url query string true "URL, выданный при загрузке"
// @Success 204
// @Router /api/admin/uploads [delete]
func (h *UploadHandler) Delete(w http.ResponseWriter, r *http.Request) {
	if h.uploads == nil {
		helpers.Error(w, http.StatusServiceUnavailable, "Загрузка файлов не настроена")
		return
	}
	if err := h.uploads.Delete(r.Context(), r.URL.Query().Get("url")); err != nil {
		writeError(w, r, err, "Ошибка удаления файла")
		return
	}
	w.WriteHeader(http.StatusNoContent)
}
