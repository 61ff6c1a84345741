// Package metrics はPrometheusメトリクスの収集と公開を提供する。
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// MetricsCollector はメトリクス収集のインターフェース。
// ハンドラーやワーカーから利用する。
type MetricsCollector interface {
	RecordHTTPRequest(method string, statusCode int)
	RecordHTTPLatency(duration time.Duration)
	RecordLoginSuccess()
	RecordLoginFailure(reason string)
	RecordSessionsSwept(count int64)
}

// Collector はPrometheusメトリクスを収集する実装。
type Collector struct {
	httpRequests  *prometheus.CounterVec
	httpLatency   prometheus.Histogram
	loginSuccess  prometheus.Counter
	loginFailure  *prometheus.CounterVec
	sessionsSwept prometheus.Counter
}

// NewCollector は新しいCollectorを生成し、指定されたレジストリにメトリクスを登録する。
func NewCollector(reg prometheus.Registerer) *Collector {
	c := &Collector{
		httpRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskbook_http_requests_total",
			Help: "HTTPメソッド・ステータスコード別のリクエスト数",
		}, []string{"method", "status_code"}),
		httpLatency: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "taskbook_http_latency_seconds",
			Help:    "HTTPリクエストのレイテンシ（秒）",
			Buckets: prometheus.DefBuckets,
		}),
		loginSuccess: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskbook_login_success_total",
			Help: "ログイン成功の合計数",
		}),
		loginFailure: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "taskbook_login_failure_total",
			Help: "理由別のログイン失敗数",
		}, []string{"reason"}),
		sessionsSwept: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "taskbook_sessions_swept_total",
			Help: "掃除された期限切れセッションの合計数",
		}),
	}

	reg.MustRegister(
		c.httpRequests,
		c.httpLatency,
		c.loginSuccess,
		c.loginFailure,
		c.sessionsSwept,
	)

	return c
}

// RecordHTTPRequest はHTTPリクエストの完了を記録する。
func (c *Collector) RecordHTTPRequest(method string, statusCode int) {
	c.httpRequests.WithLabelValues(method, strconv.Itoa(statusCode)).Inc()
}

// RecordHTTPLatency はHTTPリクエストのレイテンシを記録する。
func (c *Collector) RecordHTTPLatency(duration time.Duration) {
	c.httpLatency.Observe(duration.Seconds())
}

// RecordLoginSuccess はログイン成功を記録する。
func (c *Collector) RecordLoginSuccess() {
	c.loginSuccess.Inc()
}

// RecordLoginFailure はログイン失敗を理由付きで記録する。
func (c *Collector) RecordLoginFailure(reason string) {
	c.loginFailure.WithLabelValues(reason).Inc()
}

// RecordSessionsSwept は掃除された期限切れセッション数を記録する。
func (c *Collector) RecordSessionsSwept(count int64) {
	c.sessionsSwept.Add(float64(count))
}

// Handler はPrometheusスクレイプ用のHTTPハンドラーを返す。
func Handler(gatherer prometheus.Gatherer) http.Handler {
	return promhttp.HandlerFor(gatherer, promhttp.HandlerOpts{})
}

// Middleware はリクエスト数とレイテンシを記録するHTTPミドルウェアを返す。
func (c *Collector) Middleware() func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := &statusRecorder{ResponseWriter: w, statusCode: http.StatusOK}

			next.ServeHTTP(rec, r)

			c.RecordHTTPRequest(r.Method, rec.statusCode)
			c.RecordHTTPLatency(time.Since(start))
		})
	}
}

// statusRecorder はhttp.ResponseWriterをラップし、ステータスコードを記録する。
type statusRecorder struct {
	http.ResponseWriter
	statusCode int
	written    bool
}

func (sr *statusRecorder) WriteHeader(code int) {
	if !sr.written {
		sr.statusCode = code
		sr.written = true
	}
	sr.ResponseWriter.WriteHeader(code)
}

func (sr *statusRecorder) Write(b []byte) (int, error) {
	if !sr.written {
		sr.statusCode = http.StatusOK
		sr.written = true
	}
	return sr.ResponseWriter.Write(b)
}
