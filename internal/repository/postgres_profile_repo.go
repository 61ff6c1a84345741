package repository

import (
	"context"
	"database/sql"
	"fmt"

	"github.com/hitoshi/taskbook/internal/model"
)

// PostgresProfileRepo はPostgreSQLを使用したプロフィール項目リポジトリ。
// スコープ規約はPostgresTodoRepoと同一: 全クエリが user_id で絞り込まれる。
type PostgresProfileRepo struct {
	db *sql.DB
}

// NewPostgresProfileRepo はPostgresProfileRepoを生成する。
func NewPostgresProfileRepo(db *sql.DB) *PostgresProfileRepo {
	return &PostgresProfileRepo{db: db}
}

// ListByUserID は指定ユーザーの全プロフィール項目を返す。
func (r *PostgresProfileRepo) ListByUserID(ctx context.Context, userID int64) ([]*model.ProfileEntry, error) {
	rows, err := r.db.QueryContext(ctx,
		`SELECT id, user_id, hobby, profession, created_at, updated_at
		 FROM profile_entries
		 WHERE user_id = $1`,
		userID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list profile entries: %w", err)
	}
	defer rows.Close()

	entries := []*model.ProfileEntry{}
	for rows.Next() {
		entry := &model.ProfileEntry{}
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.Hobby, &entry.Profession, &entry.CreatedAt, &entry.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan profile entry: %w", err)
		}
		entries = append(entries, entry)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile entries: %w", err)
	}

	return entries, nil
}

// FindByIDAndUserID はidと所有者でプロフィール項目を取得する。
// 所有者不一致と未存在はどちらもnilを返す。
func (r *PostgresProfileRepo) FindByIDAndUserID(ctx context.Context, id, userID int64) (*model.ProfileEntry, error) {
	entry := &model.ProfileEntry{}
	err := r.db.QueryRowContext(ctx,
		`SELECT id, user_id, hobby, profession, created_at, updated_at
		 FROM profile_entries
		 WHERE id = $1 AND user_id = $2`,
		id, userID,
	).Scan(&entry.ID, &entry.UserID, &entry.Hobby, &entry.Profession, &entry.CreatedAt, &entry.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find profile entry: %w", err)
	}

	return entry, nil
}

// Create はプロフィール項目を作成し、採番されたIDをentry.IDに書き戻す。
func (r *PostgresProfileRepo) Create(ctx context.Context, entry *model.ProfileEntry) error {
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO profile_entries (user_id, hobby, profession)
		 VALUES ($1, $2, $3)
		 RETURNING id, created_at, updated_at`,
		entry.UserID, entry.Hobby, entry.Profession,
	).Scan(&entry.ID, &entry.CreatedAt, &entry.UpdatedAt)
	if err != nil {
		return fmt.Errorf("failed to create profile entry: %w", err)
	}
	return nil
}

// Update は部分更新を行う。nilのフィールドは変更しない。
// 該当行がない場合はnilを返す。
func (r *PostgresProfileRepo) Update(ctx context.Context, id, userID int64, hobby, profession *string) (*model.ProfileEntry, error) {
	entry := &model.ProfileEntry{}
	err := r.db.QueryRowContext(ctx,
		`UPDATE profile_entries
		 SET hobby = COALESCE($3, hobby),
		     profession = COALESCE($4, profession),
		     updated_at = now()
		 WHERE id = $1 AND user_id = $2
		 RETURNING id, user_id, hobby, profession, created_at, updated_at`,
		id, userID, hobby, profession,
	).Scan(&entry.ID, &entry.UserID, &entry.Hobby, &entry.Profession, &entry.CreatedAt, &entry.UpdatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to update profile entry: %w", err)
	}

	return entry, nil
}

// Delete はidと所有者でプロフィール項目を削除する。該当行がなくてもエラーにしない。
func (r *PostgresProfileRepo) Delete(ctx context.Context, id, userID int64) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM profile_entries WHERE id = $1 AND user_id = $2`,
		id, userID,
	)
	if err != nil {
		return fmt.Errorf("failed to delete profile entry: %w", err)
	}
	return nil
}

// compile-time interface check
var _ ProfileRepository = (*PostgresProfileRepo)(nil)
