package middleware

import (
	"net/http"

	"portfolio/internal/utils/helpers"
)

// OnlyRole пропускает только запросы с ролью role. Ставится после JWTAuth.
func OnlyRole(role string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			userRole, ok := RoleFrom(r.Context())
			if !ok || userRole != role {
				helpers.Error(w, http.StatusForbidden, "Доступ запрещён")
				return
			}
			next.ServeHTTP(w, r)
		})
	}
}
