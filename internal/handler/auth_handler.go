// Package handler はHTTPハンドラーを提供する。
package handler

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/hitoshi/taskbook/internal/auth"
	"github.com/hitoshi/taskbook/internal/middleware"
	"github.com/hitoshi/taskbook/internal/model"
)

const oauthStateCookie = "oauth_state"

// AuthServiceInterface は認証ハンドラーが必要とするサービスインターフェース。
type AuthServiceInterface interface {
	GetLoginURL(state string) string
	HandleCallback(ctx context.Context, code string) (*model.Session, error)
	Logout(ctx context.Context, sessionID string) error
}

// LoginMetrics はログイン結果の記録に必要なインターフェース。
// metrics.MetricsCollectorの部分集合として定義する。nilの場合は記録しない。
type LoginMetrics interface {
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
}

// AuthHandlerConfig は認証ハンドラーの設定。
type AuthHandlerConfig struct {
	BaseURL       string
	CookieDomain  string
	CookieSecure  bool
	SessionMaxAge int // セッションCookieの有効期間（秒）
}

// AuthHandler はOAuth認証関連のHTTPハンドラー。
type AuthHandler struct {
	service AuthServiceInterface
	gate    middleware.Authenticator
	metrics LoginMetrics
	config  AuthHandlerConfig
}

// NewAuthHandler はAuthHandlerを生成する。
func NewAuthHandler(service AuthServiceInterface, gate middleware.Authenticator, metrics LoginMetrics, config AuthHandlerConfig) *AuthHandler {
	return &AuthHandler{
		service: service,
		gate:    gate,
		metrics: metrics,
		config:  config,
	}
}

// Login はGoogle OAuthフローを開始する。
// GET /auth/google/login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	state, err := auth.GenerateState()
	if err != nil {
		slog.Error("failed to generate oauth state", slog.String("error", err.Error()))
		writeAPIErrorResponse(w, http.StatusInternalServerError, model.NewInternalError())
		return
	}

	// stateをCookieに保存（CSRF対策）
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    state,
		Path:     "/",
		MaxAge:   600, // 10分
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.service.GetLoginURL(state), http.StatusTemporaryRedirect)
}

// Callback はOAuthコールバックを処理する。
// GET /auth/google/callback?code=xxx&state=yyy
// プロバイダーがエラーを返した場合（ユーザーが同意画面を拒否した等）は
// セッションを発行せずログインページへ差し戻す。
func (h *AuthHandler) Callback(w http.ResponseWriter, r *http.Request) {
	// 1. プロバイダー側のエラー
	if providerErr := r.URL.Query().Get("error"); providerErr != "" {
		slog.Warn("oauth provider returned error", slog.String("error", providerErr))
		h.recordLoginFailure("provider_error")
		http.Redirect(w, r, h.config.BaseURL+"/login?error=oauth", http.StatusTemporaryRedirect)
		return
	}

	// 2. stateの検証（CSRF対策）
	state := r.URL.Query().Get("state")
	stateCookie, err := r.Cookie(oauthStateCookie)
	if err != nil || state == "" || stateCookie.Value != state {
		slog.Warn("oauth state mismatch")
		h.recordLoginFailure("state_mismatch")
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("stateパラメータが一致しません"))
		return
	}

	// stateクッキーを削除
	http.SetCookie(w, &http.Cookie{
		Name:     oauthStateCookie,
		Value:    "",
		Path:     "/",
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	// 3. 認可コードの取得
	code := r.URL.Query().Get("code")
	if code == "" {
		h.recordLoginFailure("missing_code")
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("認可コードがありません"))
		return
	}

	// 4. 認証処理
	session, err := h.service.HandleCallback(r.Context(), code)
	if err != nil {
		slog.Error("oauth callback failed", slog.String("error", err.Error()))
		h.recordLoginFailure("callback_failed")
		handleServiceError(w, err)
		return
	}

	// 5. セッションCookieを設定（HTTP Only）
	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    session.ID,
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   h.config.SessionMaxAge,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	h.recordLoginSuccess()

	// 6. フロントエンドにリダイレクト
	http.Redirect(w, r, h.config.BaseURL, http.StatusTemporaryRedirect)
}

// Logout はセッションを破棄する。
// POST /auth/logout
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	cookie, err := r.Cookie(middleware.SessionCookieName)
	if err == nil && cookie.Value != "" {
		// セッションをDBから削除。失敗してもCookieはクリアする
		if logoutErr := h.service.Logout(r.Context(), cookie.Value); logoutErr != nil {
			slog.Error("failed to logout", slog.String("error", logoutErr.Error()))
		}
	}

	http.SetCookie(w, &http.Cookie{
		Name:     middleware.SessionCookieName,
		Value:    "",
		Path:     "/",
		Domain:   h.config.CookieDomain,
		MaxAge:   -1,
		HttpOnly: true,
		Secure:   h.config.CookieSecure,
		SameSite: http.SameSiteLaxMode,
	})

	http.Redirect(w, r, h.config.BaseURL, http.StatusTemporaryRedirect)
}

// Me は現在のログインユーザー情報を返す。
// GET /auth/me
// セッションミドルウェアの外に置かれるため、認証ゲートを直接使用する。
func (h *AuthHandler) Me(w http.ResponseWriter, r *http.Request) {
	token := ""
	if cookie, err := r.Cookie(middleware.SessionCookieName); err == nil {
		token = cookie.Value
	}

	result, err := h.gate.Authenticate(r.Context(), token, time.Now())
	if err != nil {
		slog.Error("session check failed", slog.String("error", err.Error()))
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}
	if !result.Authenticated() {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	writeJSON(w, http.StatusOK, map[string]interface{}{
		"id":    result.User.ID,
		"email": result.User.Email,
		"name":  result.User.Name,
	})
}

func (h *AuthHandler) recordLoginSuccess() {
	if h.metrics != nil {
		h.metrics.RecordLoginSuccess()
	}
}

func (h *AuthHandler) recordLoginFailure(reason string) {
	if h.metrics != nil {
		h.metrics.RecordLoginFailure(reason)
	}
}
