package middleware

import (
	"net/http"
	"strings"

	"portfolio/internal/logger"
	"portfolio/internal/reqctx"
	"portfolio/internal/utils"
	"portfolio/internal/utils/helpers"

	"go.uber.org/zap"
)

// TokenVerifier проверяет access-токен (services.AuthService).
type TokenVerifier interface {
	Verify(token string) (*utils.AccessClaims, error)
}

func JWTAuth(verifier TokenVerifier, next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method == http.MethodOptions {
			w.WriteHeader(http.StatusNoContent)
			return
		}

		authHeader := r.Header.Get("Authorization")
		if authHeader == "" || !strings.HasPrefix(authHeader, "Bearer ") {
			logger.WithCtx(r.Context()).Warn("JWTAuth: отсутствует access token")
			helpers.Error(w, http.StatusUnauthorized, "Отсутствует access token")
			return
		}

		claims, err := verifier.Verify(strings.TrimPrefix(authHeader, "Bearer "))
		if err != nil {
			logger.WithCtx(r.Context()).Warn("JWTAuth: неверный или просроченный токен", zap.Error(err))
			helpers.Error(w, http.StatusUnauthorized, "Неверный или просроченный токен")
			return
		}

		ctx := WithRole(r.Context(), claims.Role)
		if claims.Role == "admin" {
			ctx = reqctx.WithAdmin(ctx, claims.Subject)
		}

		logger.WithCtx(ctx).Debug("JWTAuth: токен валиден",
			zap.String("sub", claims.Subject), zap.String("role", claims.Role))

		next.ServeHTTP(w, r.WithContext(ctx))
	})
}
