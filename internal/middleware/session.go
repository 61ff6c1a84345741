// Package middleware はHTTPミドルウェアを提供する。
package middleware

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/taskbook/internal/auth"
)

// SessionCookieName はセッショントークンを保持するCookieの名前。
const SessionCookieName = "session_id"

// contextKey はコンテキストに値を格納するための型安全なキー。
type contextKey string

// principalContextKey はリクエストコンテキストに認証済みユーザーを格納するためのキー。
var principalContextKey = contextKey("principal")

// Principal は認証済みリクエストの主体を表す。
// ハンドラーはリソースの所有者として常にこの値を使用し、
// リクエストボディに含まれる所有者情報は無視する。
type Principal struct {
	ID    int64
	Email string
	Name  string
}

// Authenticator はセッショントークンの検証に必要なインターフェース。
// auth.Gateの部分集合として定義する。
type Authenticator interface {
	Authenticate(ctx context.Context, token string, now time.Time) (*auth.Result, error)
}

// SessionToucher はスライディング有効期限の延長に必要なインターフェース。
// repository.SessionRepositoryの部分集合として定義する。
type SessionToucher interface {
	Touch(ctx context.Context, id string, expiresAt time.Time) error
}

// SessionConfig はセッションミドルウェアの設定。
type SessionConfig struct {
	LoginPath string // 未認証リクエストのリダイレクト先
	Sliding   bool   // アクセスごとに有効期限を延長するか
	MaxAge    int    // セッション有効期間（秒）。スライディング延長の幅
}

// NewSessionMiddleware はHTTP Only Cookieからセッショントークンを読み取り、
// 認証ゲートで検証するミドルウェアを返す。
// 認証済みの場合はPrincipalをリクエストコンテキストに注入する。
// 未認証リクエスト（トークン無し、不明、期限切れ、ログイン未完了）は
// ログインページへリダイレクトする。ストア障害時もフェイルクローズで同様に扱う。
func NewSessionMiddleware(gate Authenticator, toucher SessionToucher, config SessionConfig) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ""
			if cookie, err := r.Cookie(SessionCookieName); err == nil {
				token = cookie.Value
			}

			result, err := gate.Authenticate(r.Context(), token, time.Now())
			if err != nil {
				slog.Error("session check failed",
					slog.String("error", err.Error()),
				)
				http.Redirect(w, r, config.LoginPath, http.StatusFound)
				return
			}

			if !result.Authenticated() {
				slog.Info("unauthenticated request",
					slog.String("state", result.State.String()),
					slog.String("path", r.URL.Path),
				)
				http.Redirect(w, r, config.LoginPath, http.StatusFound)
				return
			}

			// スライディング有効期限: アクセスごとに期限を延長する。
			// 延長の失敗はリクエスト自体を妨げない。
			if config.Sliding {
				newExpiry := time.Now().Add(time.Duration(config.MaxAge) * time.Second)
				if err := toucher.Touch(r.Context(), result.Session.ID, newExpiry); err != nil {
					slog.Warn("failed to extend session expiry",
						slog.String("error", err.Error()),
					)
				}
			}

			principal := &Principal{
				ID:    result.User.ID,
				Email: result.User.Email,
				Name:  result.User.Name,
			}
			ctx := context.WithValue(r.Context(), principalContextKey, principal)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// PrincipalFromContext はリクエストコンテキストから認証済みユーザーを取得する。
// セッションミドルウェアを通過したリクエストでのみ有効。
func PrincipalFromContext(ctx context.Context) (*Principal, error) {
	principal, ok := ctx.Value(principalContextKey).(*Principal)
	if !ok || principal == nil {
		return nil, fmt.Errorf("principal not found in context")
	}
	return principal, nil
}

// ContextWithPrincipal はコンテキストに認証済みユーザーを注入する。
// テストやミドルウェア以外のコンテキスト生成で使用する。
func ContextWithPrincipal(ctx context.Context, principal *Principal) context.Context {
	return context.WithValue(ctx, principalContextKey, principal)
}
