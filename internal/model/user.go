// Package model はドメインモデルを定義する。
package model

import "time"

// User はサービス利用ユーザーを表す。
// IDはデータベースが採番する。外部プロバイダーでの初回ログイン時に作成され、
// 以降このシステムから削除・変更されることはない。
type User struct {
	ID        int64
	Email     string
	Name      string
	CreatedAt time.Time
	UpdatedAt time.Time
}

// Identity は外部IdPとの紐付け情報を表す。
// (Provider, ProviderUserID) の組は一意かつ不変。
// 将来的に複数のIdP（Google, GitHub等）に対応可能な構造。
type Identity struct {
	ID             int64
	UserID         int64
	Provider       string
	ProviderUserID string
	CreatedAt      time.Time
}

// Session はユーザーのログインセッションを表す。
// IDは暗号的に安全な不透明トークン。UserIDは参照先ユーザーが
// 削除された場合にnilとなる（ON DELETE SET NULL）。
// Dataはフレームワーク・プロバイダー定義の半構造化ペイロードで、
// 認証判定には使用しない。
type Session struct {
	ID        string
	LoggedIn  bool
	UserID    *int64
	ExpiresAt time.Time
	Data      []byte
	CreatedAt time.Time
}

// Expired はセッションが指定時刻で期限切れかどうかを返す。
// expires_at <= now のセッションはLoggedInフラグに関わらず無効として扱う。
func (s *Session) Expired(now time.Time) bool {
	return !s.ExpiresAt.After(now)
}
