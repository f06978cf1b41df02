package httpx

import "context"

type ctxKey string

const (
	// CtxKeyUserID holds the authenticated user's id.
	CtxKeyUserID ctxKey = "user_id"

	// CtxKeySession holds the resolved session view for downstream handlers.
	CtxKeySession ctxKey = "session"
)

// UserIDFromContext returns the authenticated user id, if any.
func UserIDFromContext(ctx context.Context) string {
	if v, ok := ctx.Value(CtxKeyUserID).(string); ok {
		return v
	}
	return ""
}
