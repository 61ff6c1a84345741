// Package sessionsweep は期限切れセッションの自動削除ジョブを提供する。
// 認証時の有効期限チェックが正しさを保証するため、このジョブは
// テーブル肥大化を防ぐ衛生処理であり、遅延しても認可には影響しない。
package sessionsweep

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/hitoshi/taskbook/internal/repository"
)

// SweepMetrics は削除件数の記録インターフェース。nilの場合は記録しない。
type SweepMetrics interface {
	RecordSessionsSwept(count int64)
}

// Sweeper は期限切れセッションを定期的に一括削除するバックグラウンドジョブ。
// 冪等: 削除対象がない場合でもエラーにならない。
type Sweeper struct {
	sessionRepo repository.SessionRepository
	logger      *slog.Logger
	metrics     SweepMetrics
}

// NewSweeper はSweeperの新しいインスタンスを生成する。
// metricsはnilを許容する。
func NewSweeper(sessionRepo repository.SessionRepository, logger *slog.Logger, metrics SweepMetrics) *Sweeper {
	return &Sweeper{
		sessionRepo: sessionRepo,
		logger:      logger,
		metrics:     metrics,
	}
}

// Start は指定間隔のティッカーでスイープを起動する。
// コンテキストがキャンセルされるまで実行を継続する。
func (s *Sweeper) Start(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	s.logger.Info("セッションスイープを開始しました",
		slog.Duration("interval", interval),
	)

	// 起動直後に1回実行
	if err := s.RunOnce(ctx); err != nil {
		s.logger.Error("セッションスイープの実行に失敗しました",
			slog.String("error", err.Error()),
		)
	}

	for {
		select {
		case <-ctx.Done():
			s.logger.Info("セッションスイープを停止しました")
			return
		case <-ticker.C:
			if err := s.RunOnce(ctx); err != nil {
				s.logger.Error("セッションスイープの実行に失敗しました",
					slog.String("error", err.Error()),
				)
			}
		}
	}
}

// RunOnce は期限切れセッションを1回一括削除する。
func (s *Sweeper) RunOnce(ctx context.Context) error {
	start := time.Now()

	deletedCount, err := s.sessionRepo.DeleteExpired(ctx, time.Now())
	if err != nil {
		return fmt.Errorf("期限切れセッションの削除に失敗: %w", err)
	}

	if s.metrics != nil {
		s.metrics.RecordSessionsSwept(deletedCount)
	}

	duration := time.Since(start)
	s.logger.Info("セッションスイープが完了しました",
		slog.Int64("deleted_count", deletedCount),
		slog.Float64("duration_ms", float64(duration.Milliseconds())),
	)

	return nil
}
