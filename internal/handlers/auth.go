package handlers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"portfolio/internal/logger"
	"portfolio/internal/services"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

type AuthHandler struct {
	auth *services.AuthService
}

func NewAuthHandler(auth *services.AuthService) *AuthHandler {
	return &AuthHandler{auth: auth}
}

type loginRequest struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

type loginResponse struct {
	AccessToken string    `json:"access_token"`
	ExpiresAt   time.Time `json:"expires_at"`
}

// sessionResponse повторяет форму состояния авторизации админки.
type sessionResponse struct {
	IsAuthenticated bool   `json:"isAuthenticated"`
	IsLoading       bool   `json:"isLoading"`
	Username        string `json:"username,omitempty"`
}

// Login godoc
// @Summary Вход администратора
// @Tags auth
// @Accept json
// @Produce json
// @Param input body loginRequest true "Логин и пароль"
// @Success 200 {object} loginResponse
// @Failure 401 {object} helpers.Response
// @Router /api/admin/login [post]
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req loginRequest
	if err := helpers.DecodeJSON(w, r, &req); err != nil {
		helpers.Error(w, http.StatusBadRequest, err.Error())
		return
	}
	token, exp, err := h.auth.Login(r.Context(), req.Username, req.Password)
	switch {
	case errors.Is(err, services.ErrInvalidCredentials):
		helpers.Error(w, http.StatusUnauthorized, err.Error())
		return
	case errors.Is(err, services.ErrLoginDisabled):
		helpers.Error(w, http.StatusServiceUnavailable, err.Error())
		return
	case err != nil:
		logger.WithCtx(r.Context()).Error("Ошибка входа", zap.Error(err))
		helpers.Error(w, http.StatusInternalServerError, "Ошибка входа")
		return
	}
	helpers.JSON(w, http.StatusOK, loginResponse{AccessToken: token, ExpiresAt: exp})
}

// Session godoc
// @Summary Состояние авторизации
// @Description Без токена или с невалидным токеном отвечает isAuthenticated=false, а не 401.
// @Tags auth
// @Produce json
// @Success 200 {object} sessionResponse
// @Router /api/admin/session [get]
func (h *AuthHandler) Session(w http.ResponseWriter, r *http.Request) {
	resp := sessionResponse{}
	if raw, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer "); ok {
		if claims, err := h.auth.Verify(raw); err == nil && claims.Role == services.RoleAdmin {
			resp.IsAuthenticated = true
			resp.Username = claims.Subject
		}
	}
	helpers.JSON(w, http.StatusOK, resp)
}
