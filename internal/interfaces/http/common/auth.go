package common

import (
	"context"
	"net/http"

	"go.uber.org/zap"
)

type contextKey string

const authUserContextKey contextKey = "authUser"

// AuthenticatedUser は JWT から取り出した利用者。ID がドキュメントの所有者 ID になる。
type AuthenticatedUser struct {
	ID       string `json:"id"`
	Name     string `json:"name,omitempty"`
	Username string `json:"username,omitempty"`
	Picture  string `json:"picture,omitempty"`
}

// ContextWithUser はコンテキストへ利用者を格納する。
func ContextWithUser(ctx context.Context, user AuthenticatedUser) context.Context {
	return context.WithValue(ctx, authUserContextKey, user)
}

// UserFromContext はコンテキストから利用者を取り出す。
func UserFromContext(ctx context.Context) (AuthenticatedUser, bool) {
	user, ok := ctx.Value(authUserContextKey).(AuthenticatedUser)
	return user, ok
}

// RequireUser は利用者を取り出し、無ければ 401 を書いて false を返す。
func RequireUser(logger *zap.Logger, w http.ResponseWriter, r *http.Request) (AuthenticatedUser, bool) {
	user, ok := UserFromContext(r.Context())
	if !ok || user.ID == "" {
		WriteJSON(logger, w, http.StatusUnauthorized, map[string]string{"error": "認証情報の取得に失敗しました"})
		return AuthenticatedUser{}, false
	}
	return user, true
}
