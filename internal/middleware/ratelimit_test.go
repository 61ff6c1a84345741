package middleware

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"golang.org/x/time/rate"
)

func newTestRateLimiter(t *testing.T, config RateLimiterConfig) *RateLimiter {
	t.Helper()
	rl := NewRateLimiter(config)
	t.Cleanup(rl.Stop)
	return rl
}

func requestWithPrincipal(method, target string, userID int64) *http.Request {
	req := httptest.NewRequest(method, target, nil)
	principal := &Principal{ID: userID, Email: "u@x.com", Name: "User"}
	return req.WithContext(ContextWithPrincipal(req.Context(), principal))
}

func TestRateLimiter_General_AllowsWithinLimit(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.GeneralBurst = 3
	rl := newTestRateLimiter(t, config)

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	for i := 0; i < 3; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithPrincipal(http.MethodGet, "/api/todos", 1))
		if rec.Code != http.StatusOK {
			t.Fatalf("request %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}
}

func TestRateLimiter_General_RejectsOverLimit(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.GeneralRate = rate.Limit(0.001)
	config.GeneralBurst = 1
	rl := newTestRateLimiter(t, config)

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithPrincipal(http.MethodGet, "/api/todos", 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("first request: status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithPrincipal(http.MethodGet, "/api/todos", 1))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("second request: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
	if rec.Header().Get("Retry-After") == "" {
		t.Error("Retry-After header should be set")
	}

	var body ErrorResponseBody
	if err := json.NewDecoder(rec.Body).Decode(&body); err != nil {
		t.Fatalf("failed to decode error body: %v", err)
	}
	if body.Code != "RATE_LIMIT_EXCEEDED" {
		t.Errorf("error code = %q, want RATE_LIMIT_EXCEEDED", body.Code)
	}
}

// ユーザーごとに独立したリミッターを持つ。
func TestRateLimiter_General_PerUser(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.GeneralRate = rate.Limit(0.001)
	config.GeneralBurst = 1
	rl := newTestRateLimiter(t, config)

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithPrincipal(http.MethodGet, "/api/todos", 1))
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithPrincipal(http.MethodGet, "/api/todos", 1))
	if rec.Code != http.StatusTooManyRequests {
		t.Fatalf("user 1 second request: status = %d, want 429", rec.Code)
	}

	// user 2 は影響を受けない
	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithPrincipal(http.MethodGet, "/api/todos", 2))
	if rec.Code != http.StatusOK {
		t.Errorf("user 2 first request: status = %d, want %d", rec.Code, http.StatusOK)
	}

	if count := rl.GeneralLimiterCount(); count != 2 {
		t.Errorf("limiter count = %d, want 2", count)
	}
}

func TestRateLimiter_Write_SkipsSafeMethods(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.WriteRate = rate.Limit(0.001)
	config.WriteBurst = 1
	rl := newTestRateLimiter(t, config)

	handler := rl.WriteMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	// GETは書き込みリミッターを消費しない
	for i := 0; i < 5; i++ {
		rec := httptest.NewRecorder()
		handler.ServeHTTP(rec, requestWithPrincipal(http.MethodGet, "/api/todos", 1))
		if rec.Code != http.StatusOK {
			t.Fatalf("GET %d: status = %d, want %d", i+1, rec.Code, http.StatusOK)
		}
	}

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithPrincipal(http.MethodPost, "/api/todos", 1))
	if rec.Code != http.StatusOK {
		t.Fatalf("first POST: status = %d, want %d", rec.Code, http.StatusOK)
	}

	rec = httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithPrincipal(http.MethodPost, "/api/todos", 1))
	if rec.Code != http.StatusTooManyRequests {
		t.Errorf("second POST: status = %d, want %d", rec.Code, http.StatusTooManyRequests)
	}
}

func TestRateLimiter_MissingPrincipal_Unauthorized(t *testing.T) {
	rl := newTestRateLimiter(t, DefaultRateLimiterConfig())

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		t.Error("handler should not be reached")
	}))

	req := httptest.NewRequest(http.MethodGet, "/api/todos", nil)
	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, req)

	if rec.Code != http.StatusUnauthorized {
		t.Errorf("status = %d, want %d", rec.Code, http.StatusUnauthorized)
	}
}

func TestRateLimiter_Cleanup_RemovesStaleEntries(t *testing.T) {
	config := DefaultRateLimiterConfig()
	config.CleanupInterval = 10 * time.Millisecond
	rl := newTestRateLimiter(t, config)

	handler := rl.GeneralMiddleware()(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	}))

	rec := httptest.NewRecorder()
	handler.ServeHTTP(rec, requestWithPrincipal(http.MethodGet, "/api/todos", 1))
	if rl.GeneralLimiterCount() != 1 {
		t.Fatalf("limiter count = %d, want 1", rl.GeneralLimiterCount())
	}

	// TTL（CleanupInterval * 2）経過後にエントリが掃除される
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if rl.GeneralLimiterCount() == 0 {
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Error("stale limiter entry was not cleaned up")
}

func TestRateLimiterConfigFromLimits(t *testing.T) {
	config := RateLimiterConfigFromLimits(60, 10)

	if config.GeneralBurst != 60 {
		t.Errorf("GeneralBurst = %d, want 60", config.GeneralBurst)
	}
	if config.WriteBurst != 10 {
		t.Errorf("WriteBurst = %d, want 10", config.WriteBurst)
	}
	if config.GeneralRate != rate.Limit(1.0) {
		t.Errorf("GeneralRate = %v, want 1.0", config.GeneralRate)
	}

	// 0以下はデフォルトのまま
	config = RateLimiterConfigFromLimits(0, 0)
	defaults := DefaultRateLimiterConfig()
	if config.GeneralBurst != defaults.GeneralBurst {
		t.Errorf("GeneralBurst = %d, want default %d", config.GeneralBurst, defaults.GeneralBurst)
	}
}
