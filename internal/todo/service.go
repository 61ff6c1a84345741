// Package todo はToDo管理のドメインロジックを提供する。
package todo

import (
	"context"
	"fmt"

	"github.com/hitoshi/taskbook/internal/model"
	"github.com/hitoshi/taskbook/internal/repository"
)

// Sanitizer はユーザー入力のサニタイズに必要なインターフェース。
// security.TextSanitizerServiceの部分集合として定義する。
type Sanitizer interface {
	Sanitize(raw string) string
}

// Service はToDo管理のサービス層。
// すべての操作は認証済みユーザーのIDを所有者として受け取り、
// 他ユーザーのToDoには一切到達できない。
type Service struct {
	todoRepo  repository.TodoRepository
	sanitizer Sanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(todoRepo repository.TodoRepository, sanitizer Sanitizer) *Service {
	return &Service{
		todoRepo:  todoRepo,
		sanitizer: sanitizer,
	}
}

// List はユーザーのToDo一覧を返す。
func (s *Service) List(ctx context.Context, userID int64) ([]*model.Todo, error) {
	todos, err := s.todoRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("ToDo一覧の取得に失敗しました: %w", err)
	}
	return todos, nil
}

// Get は指定IDのToDoを返す。
// 未存在と他ユーザーの所有はどちらも同じ未検出エラーになる。
func (s *Service) Get(ctx context.Context, userID, id int64) (*model.Todo, error) {
	todo, err := s.todoRepo.FindByIDAndUserID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("ToDoの取得に失敗しました: %w", err)
	}
	if todo == nil {
		return nil, model.NewTodoNotFoundError(id)
	}
	return todo, nil
}

// Create はToDoを作成する。所有者は常にuserIDであり、
// リクエスト由来の所有者情報は受け付けない。
func (s *Service) Create(ctx context.Context, userID int64, task string) (*model.Todo, error) {
	task = s.sanitizer.Sanitize(task)
	if task == "" {
		return nil, model.NewEmptyTaskError()
	}

	todo := &model.Todo{
		UserID: userID,
		Task:   task,
	}
	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("ToDoの作成に失敗しました: %w", err)
	}

	return todo, nil
}

// Update はToDoを部分更新する。nilのフィールドは変更しない。
// 両方nilの場合はバリデーションエラーを返す。
func (s *Service) Update(ctx context.Context, userID, id int64, task *string, completed *bool) (*model.Todo, error) {
	if task == nil && completed == nil {
		return nil, model.NewInvalidRequestError("更新するフィールドが指定されていません")
	}

	if task != nil {
		sanitized := s.sanitizer.Sanitize(*task)
		if sanitized == "" {
			return nil, model.NewEmptyTaskError()
		}
		task = &sanitized
	}

	todo, err := s.todoRepo.Update(ctx, id, userID, task, completed)
	if err != nil {
		return nil, fmt.Errorf("ToDoの更新に失敗しました: %w", err)
	}
	if todo == nil {
		return nil, model.NewTodoNotFoundError(id)
	}

	return todo, nil
}

// Delete はToDoを削除する。対象が存在しなくてもエラーにしない（冪等）。
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if err := s.todoRepo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("ToDoの削除に失敗しました: %w", err)
	}
	return nil
}
