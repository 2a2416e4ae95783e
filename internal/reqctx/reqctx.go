// internal/reqctx/reqctx.go
package reqctx

import "context"

type key int

const (
	keyRequestID key = iota
	keySubject
	keyAdmin
)

func WithRequestID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, keyRequestID, id)
}

func GetRequestID(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keyRequestID).(string)
	return v, ok
}

// WithAdmin помечает запрос как авторизованный администратором.
func WithAdmin(ctx context.Context, subject string) context.Context {
	ctx = context.WithValue(ctx, keySubject, subject)
	return context.WithValue(ctx, keyAdmin, true)
}

func IsAdmin(ctx context.Context) bool {
	v, _ := ctx.Value(keyAdmin).(bool)
	return v
}

func GetSubject(ctx context.Context) (string, bool) {
	v, ok := ctx.Value(keySubject).(string)
	return v, ok
}
