package handler

import (
	"context"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"

	"github.com/hitoshi/taskbook/internal/metrics"
	"github.com/hitoshi/taskbook/internal/middleware"
	"github.com/hitoshi/taskbook/internal/model"
)

// Pinger はヘルスチェックに必要なインターフェース。*sql.DBが満たす。
type Pinger interface {
	PingContext(ctx context.Context) error
}

// RouterDeps はNewRouterに必要な依存関係をまとめた構造体。
type RouterDeps struct {
	Logger *slog.Logger

	// ミドルウェア依存
	Gate              middleware.Authenticator
	SessionToucher    middleware.SessionToucher
	SessionConfig     middleware.SessionConfig
	CORSAllowedOrigin string
	CSRFConfig        middleware.CSRFConfig
	RateLimiter       *middleware.RateLimiter

	// メトリクス
	Metrics  *metrics.Collector
	Gatherer prometheus.Gatherer

	// 認証
	AuthService AuthServiceInterface
	AuthConfig  AuthHandlerConfig

	// リソース
	TodoService    TodoServiceInterface
	ProfileService ProfileServiceInterface

	// ヘルスチェック
	DB Pinger
}

// NewRouter は全APIエンドポイントのルーティングとミドルウェアチェーンを構成したchi.Routerを返す。
//
// ミドルウェアスタックの実行順序:
//
//	RequestID → Logging → Recovery → SecurityHeaders → CORS → Metrics
//
// 認証ルート（/auth/*）、/health、/metricsはセッションミドルウェアの外に配置する。
// /api/* はSession → RateLimit(General) → RateLimit(Write) → CSRFの順で保護される。
func NewRouter(deps *RouterDeps) http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.NewRequestIDMiddleware())
	r.Use(middleware.NewLoggingMiddleware(deps.Logger))
	r.Use(middleware.NewRecoveryMiddleware())
	r.Use(middleware.NewSecurityHeadersMiddleware())
	r.Use(middleware.NewCORSMiddleware(deps.CORSAllowedOrigin))
	if deps.Metrics != nil {
		r.Use(deps.Metrics.Middleware())
	}

	var loginMetrics LoginMetrics
	if deps.Metrics != nil {
		loginMetrics = deps.Metrics
	}
	authHandler := NewAuthHandler(deps.AuthService, deps.Gate, loginMetrics, deps.AuthConfig)
	todoHandler := NewTodoHandler(deps.TodoService)
	profileHandler := NewProfileHandler(deps.ProfileService)

	// --- 認証不要のルート ---

	r.Route("/auth", func(r chi.Router) {
		r.Get("/google/login", authHandler.Login)
		r.Get("/google/callback", authHandler.Callback)
		r.Post("/logout", authHandler.Logout)
		r.Get("/me", authHandler.Me)
	})

	r.Get("/health", newHealthHandler(deps.DB))

	if deps.Gatherer != nil {
		r.Method(http.MethodGet, "/metrics", metrics.Handler(deps.Gatherer))
	}

	// --- 認証が必要なルート ---
	r.Group(func(r chi.Router) {
		r.Use(middleware.NewSessionMiddleware(deps.Gate, deps.SessionToucher, deps.SessionConfig))
		r.Use(deps.RateLimiter.GeneralMiddleware())
		r.Use(deps.RateLimiter.WriteMiddleware())
		r.Use(middleware.NewCSRFMiddleware(deps.CSRFConfig))

		// ToDo管理
		r.Route("/api/todos", func(r chi.Router) {
			r.Get("/", todoHandler.List)
			r.Post("/", todoHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", todoHandler.Get)
				r.Patch("/", todoHandler.Update)
				r.Put("/", todoHandler.Update)
				r.Delete("/", todoHandler.Delete)
			})
		})

		// プロフィール管理
		r.Route("/api/profile", func(r chi.Router) {
			r.Get("/", profileHandler.List)
			r.Post("/", profileHandler.Create)

			r.Route("/{id}", func(r chi.Router) {
				r.Get("/", profileHandler.Get)
				r.Patch("/", profileHandler.Update)
				r.Put("/", profileHandler.Update)
				r.Delete("/", profileHandler.Delete)
			})
		})

		// CSRFトークン取得
		r.Method(http.MethodGet, "/api/csrf-token", middleware.NewCSRFTokenHandler(deps.CSRFConfig))
	})

	return r
}

// newHealthHandler はデータベース接続を確認するヘルスチェックハンドラーを返す。
func newHealthHandler(db Pinger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				slog.Error("health check failed", slog.String("error", err.Error()))
				writeAPIErrorResponse(w, http.StatusServiceUnavailable, model.NewInternalError())
				return
			}
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
	}
}
