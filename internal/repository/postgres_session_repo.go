package repository

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/hitoshi/taskbook/internal/model"
)

// PostgresSessionRepo はPostgreSQLを使用したセッションリポジトリ。
type PostgresSessionRepo struct {
	db *sql.DB
}

// NewPostgresSessionRepo はPostgresSessionRepoを生成する。
func NewPostgresSessionRepo(db *sql.DB) *PostgresSessionRepo {
	return &PostgresSessionRepo{db: db}
}

// Create はセッションを作成する。
func (r *PostgresSessionRepo) Create(ctx context.Context, session *model.Session) error {
	data := session.Data
	if len(data) == 0 {
		data = []byte("{}")
	}

	_, err := r.db.ExecContext(ctx,
		`INSERT INTO sessions (id, logged_in, user_id, expires_at, data, created_at)
		 VALUES ($1, $2, $3, $4, $5, $6)`,
		session.ID, session.LoggedIn, session.UserID, session.ExpiresAt, data, session.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to create session: %w", err)
	}
	return nil
}

// FindByID は指定IDのセッションをそのまま返す。
// 期限切れ判定は認証ゲートがチェック時刻を使って行うため、SQLでは絞り込まない。
// 見つからない場合はnilを返す。
func (r *PostgresSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	session := &model.Session{}
	var userID sql.NullInt64

	err := r.db.QueryRowContext(ctx,
		`SELECT id, logged_in, user_id, expires_at, data, created_at
		 FROM sessions
		 WHERE id = $1`,
		id,
	).Scan(&session.ID, &session.LoggedIn, &userID, &session.ExpiresAt, &session.Data, &session.CreatedAt)

	if err == sql.ErrNoRows {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to find session: %w", err)
	}

	if userID.Valid {
		session.UserID = &userID.Int64
	}

	return session, nil
}

// Touch はセッションの有効期限を更新する（スライディング有効期限用）。
// 対象セッションが存在しない場合もエラーにしない。
func (r *PostgresSessionRepo) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	_, err := r.db.ExecContext(ctx,
		`UPDATE sessions SET expires_at = $2 WHERE id = $1`,
		id, expiresAt,
	)
	if err != nil {
		return fmt.Errorf("failed to touch session: %w", err)
	}
	return nil
}

// DeleteByID は指定IDのセッションを削除する。
func (r *PostgresSessionRepo) DeleteByID(ctx context.Context, id string) error {
	_, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE id = $1`,
		id,
	)
	if err != nil {
		return fmt.Errorf("failed to delete session: %w", err)
	}
	return nil
}

// DeleteExpired は期限切れセッションを一括削除し、削除件数を返す。
func (r *PostgresSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	result, err := r.db.ExecContext(ctx,
		`DELETE FROM sessions WHERE expires_at <= $1`,
		now,
	)
	if err != nil {
		return 0, fmt.Errorf("failed to delete expired sessions: %w", err)
	}

	deleted, err := result.RowsAffected()
	if err != nil {
		return 0, fmt.Errorf("failed to get rows affected: %w", err)
	}
	return deleted, nil
}

// compile-time interface check
var _ SessionRepository = (*PostgresSessionRepo)(nil)
