package model

import "time"

// ProfileEntry は認証ユーザーが所有するプロフィール項目を表す。
// 趣味と職業のペアを1レコードとして保持する。
type ProfileEntry struct {
	ID         int64
	UserID     int64
	Hobby      string
	Profession string
	CreatedAt  time.Time
	UpdatedAt  time.Time
}
