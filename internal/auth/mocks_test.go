package auth

import (
	"context"
	"time"

	"github.com/hitoshi/taskbook/internal/model"
)

// mockUserRepo はUserRepositoryのテスト用モック。
type mockUserRepo struct {
	findByIDFunc           func(ctx context.Context, id int64) (*model.User, error)
	createWithIdentityFunc func(ctx context.Context, user *model.User, identity *model.Identity) error
}

func (m *mockUserRepo) FindByID(ctx context.Context, id int64) (*model.User, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockUserRepo) CreateWithIdentity(ctx context.Context, user *model.User, identity *model.Identity) error {
	return m.createWithIdentityFunc(ctx, user, identity)
}

// mockIdentityRepo はIdentityRepositoryのテスト用モック。
type mockIdentityRepo struct {
	findFunc func(ctx context.Context, provider, providerUserID string) (*model.Identity, error)
}

func (m *mockIdentityRepo) FindByProviderAndProviderUserID(ctx context.Context, provider, providerUserID string) (*model.Identity, error) {
	return m.findFunc(ctx, provider, providerUserID)
}

// mockSessionRepo はSessionRepositoryのテスト用モック。
type mockSessionRepo struct {
	createFunc        func(ctx context.Context, session *model.Session) error
	findByIDFunc      func(ctx context.Context, id string) (*model.Session, error)
	touchFunc         func(ctx context.Context, id string, expiresAt time.Time) error
	deleteByIDFunc    func(ctx context.Context, id string) error
	deleteExpiredFunc func(ctx context.Context, now time.Time) (int64, error)
}

func (m *mockSessionRepo) Create(ctx context.Context, session *model.Session) error {
	return m.createFunc(ctx, session)
}

func (m *mockSessionRepo) FindByID(ctx context.Context, id string) (*model.Session, error) {
	return m.findByIDFunc(ctx, id)
}

func (m *mockSessionRepo) Touch(ctx context.Context, id string, expiresAt time.Time) error {
	return m.touchFunc(ctx, id, expiresAt)
}

func (m *mockSessionRepo) DeleteByID(ctx context.Context, id string) error {
	return m.deleteByIDFunc(ctx, id)
}

func (m *mockSessionRepo) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	return m.deleteExpiredFunc(ctx, now)
}

// mockOAuthProvider はOAuthProviderのテスト用モック。
type mockOAuthProvider struct {
	getLoginURLFunc  func(state string) string
	exchangeCodeFunc func(ctx context.Context, code string) (*OAuthUserInfo, error)
}

func (m *mockOAuthProvider) GetLoginURL(state string) string {
	return m.getLoginURLFunc(state)
}

func (m *mockOAuthProvider) ExchangeCode(ctx context.Context, code string) (*OAuthUserInfo, error) {
	return m.exchangeCodeFunc(ctx, code)
}
