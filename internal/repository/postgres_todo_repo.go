package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskbook/internal/model"
)

// PostgresTodoRepo はPostgreSQLを使用したToDoリポジトリ。
// 全クエリが user_id で絞り込まれ、所有者以外の行には到達できない。
type PostgresTodoRepo struct {
	db *sql.DB
}

// NewPostgresTodoRepo はPostgresTodoRepoを生成する。
func NewPostgresTodoRepo(db *sql.DB) *PostgresTodoRepo {
	return &PostgresTodoRepo{db: db}
}

// ListByUserID は指定ユーザーの全ToDoを返す。
func (r *PostgresTodoRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.Todo, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, task, completed, created_at, updated_at
		 FROM todos
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list todos: %w", err)
	}
	defer rows.Close()

	todos := []*model.Todo{}
	for rows.Next() {
		todo := &model.Todo{}
		if err := rows.Scan(&todo.ID, &todo.UserID, &todo.Task, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan todo: %w", err)
		}
		todos = append(todos, todo)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate todos: %w", err)
	}

	return todos, nil
}

// FindByIDAndUserID はidと所有者でToDoを取得する。
// 所有者不一致と未存在はどちらもnilを返す。
func (r *PostgresTodoRepo) FindByIDAndUserID(ctx context.Context, id, userID int64) (*model.Todo, error) {
	todo := &model.Todo{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, task, completed, created_at, updated_at
		 FROM todos
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&todo.ID, &todo.UserID, &todo.Task, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find todo: %w", err)
	}

	return todo, nil
}

// Create はToDoを作成し、採番されたIDをtodo.IDに書き戻す。
func (r *PostgresTodoRepo) Create(ctx context.Context, todo *model.Todo) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO todos (user_id, task, completed)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		todo.UserID, todo.Task, todo.Completed,
	).Scan(&todo.ID, &todo.CreatedAt, &todo.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create todo: %w", err)
	}
	return nil
}

// Update は部分更新を行う。nilのフィールドは変更しない。
// 1文のSQLで id AND user_id に絞り込む。該当行がない場合はnilを返す。
func (r *PostgresTodoRepo) Update(ctx context.Context, id, userID int64, task *string, completed *bool) (*model.Todo, error) {
	todo := &model.Todo{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE todos
		 SET task = COALESCE($3, task),
		     completed = COALESCE($4, completed),
		     updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, task, completed, created_at, updated_at`,
		id, userID, task, completed,
	).Scan(&todo.ID, &todo.UserID, &todo.Task, &todo.Completed, &todo.CreatedAt, &todo.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update todo: %w", err)
	}

	return todo, nil
}

// Delete はidと所有者でToDoを削除する。該当行がなくてもエラーにしない。
func (r *PostgresTodoRepo) Delete(ctx context.Context, id, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM todos WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete todo: %w", err)
	}
	return nil
}

// compile-time interface check
var _ TodoRepository = (*PostgresTodoRepo)(nil)
