// Package repository はデータ永続化のインターフェースを定義する。
package repository

import (
	"context"
	"time"

	"github.com/hitoshi/taskbook/internal/model"
)

// UserRepository はユーザーデータの永続化インターフェース。
type UserRepository interface {
	// FindByID は指定IDのユーザーを取得する。見つからない場合はnilを返す。
	FindByID(ctx context.Context, id int64) (*model.User, error)

	// CreateWithIdentity はユーザーとidentityを同一トランザクションで作成する。
	// 採番されたIDをuser.ID、identity.ID、identity.UserIDに書き戻す。
	// 別の外部IDが既存メールアドレスを主張した場合は
	// model.ErrCodeEmailConflict のAPIErrorを返す。
	CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error
}

// IdentityRepository は外部IdP紐付け情報の永続化インターフェース。
type IdentityRepository interface {
	// FindByProviderAndProviderUserID はproviderとprovider_user_idでidentityを検索する。
	// 見つからない場合はnilを返す。
	FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

// SessionRepository はセッションデータの永続化インターフェース。
// レコードのライフサイクルはこのストアが排他的に所有する。
// 認証ゲートは読み取るだけで、作成・更新は行わない。
type SessionRepository interface {
	// Create はセッションを作成する。
	Create(ctx context.Context, session *model.Session) error
	// FindByID は指定IDのセッションを期限切れ判定なしにそのまま返す。
	// 有効性の判定（期限・logged_inフラグ）は呼び出し側の責務。
	// 見つからない場合はnilを返す。
	FindByID(ctx context.Context, id string) (*model.Session, error)
	// Touch はセッションの有効期限を更新する（スライディング有効期限用）。
	Touch(ctx context.Context, id string, expiresAt time.Time) error
	// DeleteByID は指定IDのセッションを削除する（ログアウト）。
	DeleteByID(ctx context.Context, id string) error
	// DeleteExpired は期限切れセッションを一括削除し、削除件数を返す。
	// 正しさは認証ゲートのチェック時判定が保証するため、これは衛生処理。
	DeleteExpired(ctx context.Context, now time.Time) (int64, error)
}

// TodoRepository はToDoデータの永続化インターフェース。
// 全操作が所有者スコープ付き: 読み取り・更新・削除は id と user_id の
// 両方で絞り込み、他ユーザーの行には一切到達できない。
type TodoRepository interface {
	// ListByUserID は指定ユーザーの全ToDoを返す。順序はストアのデフォルト。
	ListByUserID(ctx context.Context, userID int64) ([]*model.Todo, error)

	// FindByIDAndUserID はidと所有者でToDoを取得する。
	// 所有者不一致と未存在は区別せず、どちらもnilを返す。
	FindByIDAndUserID(ctx context.Context, id, userID int64) (*model.Todo, error)

	// Create はToDoを作成し、採番されたIDをtodo.IDに書き戻す。
	// 所有者はtodo.UserIDの値がそのまま使われる（呼び出し側が認証済み
	// ユーザーを設定する）。
	Create(ctx context.Context, todo *model.Todo) error

	// Update は部分更新を行う。nilのフィールドは変更しない。
	// 1文のSQLで id AND user_id に絞り込み、該当行がない場合は
	// nilを返す（所有者不一致と未存在は区別しない）。
	Update(ctx context.Context, id, userID int64, task *string, completed *bool) (*model.Todo, error)

	// Delete はidと所有者でToDoを削除する。
	// 該当行がなくてもエラーにしない（冪等）。
	Delete(ctx context.Context, id, userID int64) error
}

// ProfileRepository はプロフィール項目の永続化インターフェース。
// スコープ規約はTodoRepositoryと同一。
type ProfileRepository interface {
	// ListByUserID は指定ユーザーの全プロフィール項目を返す。
	ListByUserID(ctx context.Context, userID int64) ([]*model.ProfileEntry, error)

	// FindByIDAndUserID はidと所有者でプロフィール項目を取得する。
	// 所有者不一致と未存在は区別せず、どちらもnilを返す。
	FindByIDAndUserID(ctx context.Context, id, userID int64) (*model.ProfileEntry, error)

	// Create はプロフィール項目を作成し、採番されたIDをentry.IDに書き戻す。
	Create(ctx context.Context, entry *model.ProfileEntry) error

	// Update は部分更新を行う。nilのフィールドは変更しない。
	// 該当行がない場合はnilを返す。
	Update(ctx context.Context, id, userID int64, hobby, profession *string) (*model.ProfileEntry, error)

	// Delete はidと所有者でプロフィール項目を削除する。冪等。
	Delete(ctx context.Context, id, userID int64) error
}
