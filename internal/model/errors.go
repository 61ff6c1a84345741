// Package model はドメインモデルを定義する。
package model

import "fmt"

// APIError は統一エラーフォーマットを表す。
// UIに表示する原因カテゴリと対処方法を含む。
type APIError struct {
	Code     string // エラーコード
	Message  string // エラーメッセージ
	Category string // カテゴリ: auth, validation, resource, system
	Action   string // ユーザー向け対処方法
}

// Error はerrorインターフェースを実装する。
func (e *APIError) Error() string {
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// 定義済みエラーコード
const (
	ErrCodeUnauthorized         = "UNAUTHORIZED"
	ErrCodeInvalidRequest       = "INVALID_REQUEST"
	ErrCodeEmailConflict        = "EMAIL_CONFLICT"
	ErrCodeTodoNotFound         = "TODO_NOT_FOUND"
	ErrCodeProfileEntryNotFound = "PROFILE_ENTRY_NOT_FOUND"
	ErrCodeEmptyTask            = "EMPTY_TASK"
	ErrCodeEmptyProfileEntry    = "EMPTY_PROFILE_ENTRY"
	ErrCodeInternal             = "INTERNAL_ERROR"
)

// NewUnauthorizedError は未認証エラーを生成する。
func NewUnauthorizedError() *APIError {
	return &APIError{
		Code:     ErrCodeUnauthorized,
		Message:  "認証が必要です。",
		Category: "auth",
		Action:   "ログインしてください。",
	}
}

// NewInvalidRequestError はリクエスト形式エラーを生成する。
func NewInvalidRequestError(reason string) *APIError {
	return &APIError{
		Code:     ErrCodeInvalidRequest,
		Message:  fmt.Sprintf("リクエストが不正です: %s", reason),
		Category: "validation",
		Action:   "リクエスト内容を確認してください。",
	}
}

// NewEmailConflictError は別の外部IDが登録済みメールアドレスを
// 主張した場合のエラーを生成する。
func NewEmailConflictError(email string) *APIError {
	return &APIError{
		Code:     ErrCodeEmailConflict,
		Message:  fmt.Sprintf("このメールアドレスは既に別のアカウントで使用されています: %s", email),
		Category: "auth",
		Action:   "初回ログインに使用したプロバイダーでログインしてください。",
	}
}

// NewTodoNotFoundError はToDo未検出エラーを生成する。
// 他ユーザーの所有リソースへのアクセスも存在を秘匿するため同じエラーになる。
func NewTodoNotFoundError(todoID int64) *APIError {
	return &APIError{
		Code:     ErrCodeTodoNotFound,
		Message:  fmt.Sprintf("指定されたToDoが見つかりません: %d", todoID),
		Category: "resource",
		Action:   "ToDoのIDを確認してください。",
	}
}

// NewProfileEntryNotFoundError はプロフィール項目未検出エラーを生成する。
// 他ユーザーの所有リソースへのアクセスも存在を秘匿するため同じエラーになる。
func NewProfileEntryNotFoundError(entryID int64) *APIError {
	return &APIError{
		Code:     ErrCodeProfileEntryNotFound,
		Message:  fmt.Sprintf("指定されたプロフィール項目が見つかりません: %d", entryID),
		Category: "resource",
		Action:   "プロフィール項目のIDを確認してください。",
	}
}

// NewEmptyTaskError はタスク本文が空の場合のエラーを生成する。
func NewEmptyTaskError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyTask,
		Message:  "タスクの内容が空です。",
		Category: "validation",
		Action:   "タスクの内容を入力してください。",
	}
}

// NewEmptyProfileEntryError は趣味・職業の両方が空の場合のエラーを生成する。
func NewEmptyProfileEntryError() *APIError {
	return &APIError{
		Code:     ErrCodeEmptyProfileEntry,
		Message:  "趣味または職業のいずれかを入力してください。",
		Category: "validation",
		Action:   "更新するフィールドを指定してください。",
	}
}

// NewInternalError は内部エラーを生成する。
// 詳細はログのみに記録し、ユーザーには一般的なメッセージを返す。
func NewInternalError() *APIError {
	return &APIError{
		Code:     ErrCodeInternal,
		Message:  "内部エラーが発生しました。",
		Category: "system",
		Action:   "しばらく待ってから再度お試しください。",
	}
}
