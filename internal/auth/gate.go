package auth

import (
	"context"
	"fmt"
	"time"

	"github.com/hitoshi/taskbook/internal/model"
	"github.com/hitoshi/taskbook/internal/repository"
)

// State はセッショントークンの検証結果を表す。
type State int

const (
	// StateUnknown はトークンが無い、またはどのセッションにも対応しない状態。
	StateUnknown State = iota
	// StatePendingLogin はセッションは存在するがログインが完了していない状態。
	StatePendingLogin
	// StateAuthenticated はログイン済みの有効なセッション。
	StateAuthenticated
	// StateExpired は有効期限を過ぎたセッション。ログインフラグの値に関わらず拒否される。
	StateExpired
)

// String はStateの文字列表現を返す。ログ出力用。
func (s State) String() string {
	switch s {
	case StatePendingLogin:
		return "pending_login"
	case StateAuthenticated:
		return "authenticated"
	case StateExpired:
		return "expired"
	default:
		return "unknown"
	}
}

// Result は認証ゲートの判定結果。
// StateがStateAuthenticatedの場合のみUserとSessionが設定される。
type Result struct {
	State   State
	User    *model.User
	Session *model.Session
}

// Authenticated はリクエストを通過させてよいかを返す。
func (r *Result) Authenticated() bool {
	return r.State == StateAuthenticated
}

// Gate はセッショントークンを検証する認証ゲート。
// トランスポートには依存せず、トークン文字列と判定時刻を受け取って
// 状態を返す。ストア障害時はエラーを返し、呼び出し側はフェイルクローズする。
type Gate struct {
	sessionRepo repository.SessionRepository
	userRepo    repository.UserRepository
}

// NewGate はGateを生成する。
func NewGate(sessionRepo repository.SessionRepository, userRepo repository.UserRepository) *Gate {
	return &Gate{
		sessionRepo: sessionRepo,
		userRepo:    userRepo,
	}
}

// Authenticate はトークンをnow時点で検証する。
// 判定順序は固定: トークン有無 → セッション存在 → 有効期限 → ログインフラグ → ユーザー解決。
// 有効期限のチェックはログインフラグより先に行われるため、
// 期限切れセッションはフラグの値に関わらず拒否される。
func (g *Gate) Authenticate(ctx context.Context, token string, now time.Time) (*Result, error) {
	if token == "" {
		return &Result{State: StateUnknown}, nil
	}

	session, err := g.sessionRepo.FindByID(ctx, token)
	if err != nil {
		return nil, fmt.Errorf("failed to look up session: %w", err)
	}
	if session == nil {
		return &Result{State: StateUnknown}, nil
	}

	if session.Expired(now) {
		return &Result{State: StateExpired}, nil
	}

	if !session.LoggedIn || session.UserID == nil {
		return &Result{State: StatePendingLogin}, nil
	}

	user, err := g.userRepo.FindByID(ctx, *session.UserID)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve session user: %w", err)
	}
	if user == nil {
		// セッションが削除済みユーザーを指している。認証失敗として扱う。
		return &Result{State: StateUnknown}, nil
	}

	return &Result{
		State:   StateAuthenticated,
		User:    user,
		Session: session,
	}, nil
}
