package handlers

import (
	"errors"
	"net/http"

	"portfolio/internal/logger"
	"portfolio/internal/models"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

// writeError отвечает по виду ошибки: 400 валидация, 404 нет документа,
// 503 хранилище недоступно, иначе 500.
func writeError(w http.ResponseWriter, r *http.Request, err error, msg string) {
	log := logger.WithCtx(r.Context())
	switch {
	case errors.Is(err, models.ErrValidation):
		log.Warn(msg, zap.Error(err))
		helpers.Error(w, http.StatusBadRequest, err.Error())
	case errors.Is(err, models.ErrNotFound):
		log.Info(msg, zap.Error(err))
		helpers.Error(w, http.StatusNotFound, "Не найдено")
	case errors.Is(err, models.ErrStoreUnavailable):
		log.Error(msg, zap.Error(err))
		helpers.Error(w, http.StatusServiceUnavailable, "Хранилище недоступно")
	default:
		log.Error(msg, zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, msg)
	}
}

type idResponse struct {
	ID string `json:"id"`
}
