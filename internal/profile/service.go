// Package profile はプロフィール項目管理のドメインロジックを提供する。
package profile

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

// Service はプロフィール項目管理のサービス層。
// すべての操作は認証済みユーザーのIDを所有者として受け取り、
// 他ユーザーの項目には一切到達できない。
type Service struct {
	profileRepo repository.ProfileRepository
	sanitizer   Sanitizer
}

// NewService はServiceの新しいインスタンスを生成する。
func NewService(profileRepo repository.ProfileRepository, sanitizer Sanitizer) *Service {
	return &Service{
		profileRepo: profileRepo,
		sanitizer:   sanitizer,
	}
}

// List はユーザーのプロフィール項目一覧を返す。
func (s *Service) List(ctx context.Context, userID int64) ([]*model.ProfileEntry, error) {
	entries, err := s.profileRepo.ListByUserID(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("プロフィール一覧の取得に失敗しました: %w", err)
	}
	return entries, nil
}

// Get は指定IDのプロフィール項目を返す。
// 未存在と他ユーザーの所有はどちらも同じ未検出エラーになる。
func (s *Service) Get(ctx context.Context, userID, id int64) (*model.ProfileEntry, error) {
	entry, err := s.profileRepo.FindByIDAndUserID(ctx, id, userID)
	if err != nil {
		return nil, fmt.Errorf("プロフィール項目の取得に失敗しました: %w", err)
	}
	if entry == nil {
		return nil, model.NewProfileEntryNotFoundError(id)
	}
	return entry, nil
}

// Create はプロフィール項目を作成する。所有者は常にuserIDであり、
// リクエスト由来の所有者情報は受け付けない。
// 趣味と職業の両方が空の場合はバリデーションエラーを返す。
func (s *Service) Create(ctx context.Context, userID int64, hobby, profession string) (*model.ProfileEntry, error) {
	hobby = s.sanitizer.Sanitize(hobby)
	profession = s.sanitizer.Sanitize(profession)
	if hobby == "" && profession == "" {
		return nil, model.NewEmptyProfileEntryError()
	}

	entry := &model.ProfileEntry{
		UserID:     userID,
		Hobby:      hobby,
		Profession: profession,
	}
	if err := s.profileRepo.Create(ctx, entry); err != nil {
		return nil, fmt.Errorf("プロフィール項目の作成に失敗しました: %w", err)
	}

	return entry, nil
}

// Update はプロフィール項目を部分更新する。nilのフィールドは変更しない。
// 両方nilの場合はバリデーションエラーを返す。
func (s *Service) Update(ctx context.Context, userID, id int64, hobby, profession *string) (*model.ProfileEntry, error) {
	if hobby == nil && profession == nil {
		return nil, model.NewEmptyProfileEntryError()
	}

	if hobby != nil {
		sanitized := s.sanitizer.Sanitize(*hobby)
		hobby = &sanitized
	}
	if profession != nil {
		sanitized := s.sanitizer.Sanitize(*profession)
		profession = &sanitized
	}

	entry, err := s.profileRepo.Update(ctx, id, userID, hobby, profession)
	if err != nil {
		return nil, fmt.Errorf("プロフィール項目の更新に失敗しました: %w", err)
	}
	if entry == nil {
		return nil, model.NewProfileEntryNotFoundError(id)
	}

	return entry, nil
}

// Delete はプロフィール項目を削除する。対象が存在しなくてもエラーにしない（冪等）。
func (s *Service) Delete(ctx context.Context, userID, id int64) error {
	if err := s.profileRepo.Delete(ctx, id, userID); err != nil {
		return fmt.Errorf("プロフィール項目の削除に失敗しました: %w", err)
	}
	return nil
}
