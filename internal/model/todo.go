package model

import "time"

// Todo は認証ユーザーが所有するToDoアイテムを表す。
// UserIDは作成時に認証済みユーザーから設定され、以降変更されない。
type Todo struct {
	ID        int64
	UserID    int64
	Task      string
	Completed bool
	CreatedAt time.Time
	UpdatedAt time.Time
}
