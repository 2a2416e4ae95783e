package middleware

import (
	"context"
	"net/http"

	"portfolio/internal/reqctx"

	"github.com/google/uuid"
)

type ctxKey string

const ContextRole ctxKey = "role"

// HeaderRequestID — заголовок, через который прокидывается id запроса.
const HeaderRequestID = "X-Request-ID"

func WithRole(ctx context.Context, role string) context.Context {
	return context.WithValue(ctx, ContextRole, role)
}

func RoleFrom(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(ContextRole).(string)
	return v, ok
}

// RequestID берёт X-Request-ID клиента или генерирует новый и кладёт его в контекст.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		rid := r.Header.Get(HeaderRequestID)
		if rid == "" || len(rid) > 64 {
			rid = uuid.NewString()
		}
		w.Header().Set(HeaderRequestID, rid)
		next.ServeHTTP(w, r.WithContext(reqctx.WithRequestID(r.Context(), rid)))
	})
}
