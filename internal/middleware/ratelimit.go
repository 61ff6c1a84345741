package middleware

import (
	"log/slog"
	"math"
	"net/http"
	"strconv"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"github.com/hitoshi/taskbook/internal/model"
)

// RateLimiterConfig はレート制限の設定を保持する。
type RateLimiterConfig struct {
	GeneralRate     rate.Limit    // API全般のレート（req/sec）
	GeneralBurst    int           // API全般のバーストサイズ
	WriteRate       rate.Limit    // 書き込み操作のレート（req/sec）
	WriteBurst      int           // 書き込み操作のバーストサイズ
	CleanupInterval time.Duration // 期限切れエントリのクリーンアップ間隔
}

// DefaultRateLimiterConfig はデフォルトのレート制限設定を返す。
// API全般 120 req/min/user、書き込み操作 30 req/min/user。
func DefaultRateLimiterConfig() RateLimiterConfig {
	return RateLimiterConfig{
		GeneralRate:     rate.Limit(120.0 / 60.0),
		GeneralBurst:    120,
		WriteRate:       rate.Limit(30.0 / 60.0),
		WriteBurst:      30,
		CleanupInterval: 5 * time.Minute,
	}
}

// RateLimiterConfigFromLimits は毎分のリクエスト数からレート制限設定を組み立てる。
func RateLimiterConfigFromLimits(generalPerMin, writePerMin int) RateLimiterConfig {
	config := DefaultRateLimiterConfig()
	if generalPerMin > 0 {
		config.GeneralRate = rate.Limit(float64(generalPerMin) / 60.0)
		config.GeneralBurst = generalPerMin
	}
	if writePerMin > 0 {
		config.WriteRate = rate.Limit(float64(writePerMin) / 60.0)
		config.WriteBurst = writePerMin
	}
	return config
}

// userLimiter はユーザーごとのレートリミッターとアクセス時刻を保持する。
type userLimiter struct {
	limiter    *rate.Limiter
	lastAccess time.Time
}

// RateLimiter はユーザーごとのレート制限を管理する。
// API全般のレート制限と書き込み操作のレート制限の2種類を提供する。
type RateLimiter struct {
	config RateLimiterConfig

	generalMu       sync.RWMutex
	generalLimiters map[int64]*userLimiter

	writeMu       sync.RWMutex
	writeLimiters map[int64]*userLimiter

	stopCh chan struct{}
}

// NewRateLimiter は新しいRateLimiterを生成する。
// バックグラウンドで期限切れエントリのクリーンアップを開始する。
func NewRateLimiter(config RateLimiterConfig) *RateLimiter {
	rl := &RateLimiter{
		config:          config,
		generalLimiters: make(map[int64]*userLimiter),
		writeLimiters:   make(map[int64]*userLimiter),
		stopCh:          make(chan struct{}),
	}

	go rl.cleanupLoop()

	return rl
}

// Stop はクリーンアップのバックグラウンドゴルーチンを停止する。
func (rl *RateLimiter) Stop() {
	close(rl.stopCh)
}

// GeneralMiddleware はAPI全般のレート制限ミドルウェアを返す。
// リクエストコンテキストにPrincipalが含まれている必要がある（SessionMiddlewareの後に配置）。
func (rl *RateLimiter) GeneralMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			principal, err := PrincipalFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			limiter := rl.getOrCreateLimiter(&rl.generalMu, rl.generalLimiters, principal.ID, rl.config.GeneralRate, rl.config.GeneralBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.GeneralRate)
				slog.Warn("rate limit exceeded",
					slog.Int64("user_id", principal.ID),
					slog.String("limit_type", "general"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// WriteMiddleware は書き込み操作（POST, PUT, PATCH, DELETE）専用の
// レート制限ミドルウェアを返す。API全般のレート制限とは独立に動作する。
// 読み取りメソッドはそのまま通過させる。
func (rl *RateLimiter) WriteMiddleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if isSafeMethod(r.Method) {
				next.ServeHTTP(w, r)
				return
			}

			principal, err := PrincipalFromContext(r.Context())
			if err != nil {
				WriteErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
				return
			}

			limiter := rl.getOrCreateLimiter(&rl.writeMu, rl.writeLimiters, principal.ID, rl.config.WriteRate, rl.config.WriteBurst)

			if !limiter.Allow() {
				writeRateLimitResponse(w, rl.config.WriteRate)
				slog.Warn("rate limit exceeded",
					slog.Int64("user_id", principal.ID),
					slog.String("limit_type", "write"),
				)
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}

// GeneralLimiterCount は現在管理されているAPI全般リミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) GeneralLimiterCount() int {
	rl.generalMu.RLock()
	defer rl.generalMu.RUnlock()
	return len(rl.generalLimiters)
}

// WriteLimiterCount は現在管理されている書き込みリミッターのエントリ数を返す。
// テストおよびメトリクス用。
func (rl *RateLimiter) WriteLimiterCount() int {
	rl.writeMu.RLock()
	defer rl.writeMu.RUnlock()
	return len(rl.writeLimiters)
}

// getOrCreateLimiter はユーザーのリミッターを取得または作成する。
func (rl *RateLimiter) getOrCreateLimiter(mu *sync.RWMutex, limiters map[int64]*userLimiter, userID int64, limit rate.Limit, burst int) *rate.Limiter {
	mu.RLock()
	ul, exists := limiters[userID]
	mu.RUnlock()

	if exists {
		mu.Lock()
		ul.lastAccess = time.Now()
		mu.Unlock()
		return ul.limiter
	}

	mu.Lock()
	defer mu.Unlock()

	// ダブルチェック
	if ul, exists := limiters[userID]; exists {
		ul.lastAccess = time.Now()
		return ul.limiter
	}

	limiter := rate.NewLimiter(limit, burst)
	limiters[userID] = &userLimiter{
		limiter:    limiter,
		lastAccess: time.Now(),
	}

	return limiter
}

// cleanupLoop はバックグラウンドで期限切れエントリを定期的にクリーンアップする。
func (rl *RateLimiter) cleanupLoop() {
	ticker := time.NewTicker(rl.config.CleanupInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanup()
		case <-rl.stopCh:
			return
		}
	}
}

// cleanup は最終アクセス時刻がCleanupIntervalの2倍を超えたエントリを削除する。
func (rl *RateLimiter) cleanup() {
	ttl := rl.config.CleanupInterval * 2
	now := time.Now()

	rl.generalMu.Lock()
	for userID, ul := range rl.generalLimiters {
		if now.Sub(ul.lastAccess) > ttl {
			delete(rl.generalLimiters, userID)
		}
	}
	rl.generalMu.Unlock()

	rl.writeMu.Lock()
	for userID, ul := range rl.writeLimiters {
		if now.Sub(ul.lastAccess) > ttl {
			delete(rl.writeLimiters, userID)
		}
	}
	rl.writeMu.Unlock()
}

// writeRateLimitResponse は429 Too Many Requestsレスポンスを書き込む。
// Retry-Afterヘッダーにはトークンが補充されるまでの推定秒数を設定する。
func writeRateLimitResponse(w http.ResponseWriter, r rate.Limit) {
	retryAfterSec := int(math.Ceil(1.0 / float64(r)))
	if retryAfterSec < 1 {
		retryAfterSec = 1
	}

	w.Header().Set("Retry-After", strconv.Itoa(retryAfterSec))
	WriteErrorResponse(w, http.StatusTooManyRequests, &model.APIError{
		Code:     "RATE_LIMIT_EXCEEDED",
		Message:  "リクエストが多すぎます。しばらく待ってから再度お試しください。",
		Category: "system",
		Action:   "指定された時間が経過してから再度お試しください。",
	})
}
