package auth

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/hitoshi/taskbook/internal/model"
)

func TestGate_Authenticate_EmptyToken(t *testing.T) {
	gate := NewGate(&mockSessionRepo{}, &mockUserRepo{})

	result, err := gate.Authenticate(context.Background(), "", time.Now())
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if result.State != StateUnknown {
		t.Errorf("State = %v, want %v", result.State, StateUnknown)
	}
	if result.Authenticated() {
		t.Error("empty token should not authenticate")
	}
}

func TestGate_Authenticate_UnknownToken(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, nil
		},
	}
	gate := NewGate(sessionRepo, &mockUserRepo{})

	result, err := gate.Authenticate(context.Background(), "no-such-token", time.Now())
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if result.State != StateUnknown {
		t.Errorf("State = %v, want %v", result.State, StateUnknown)
	}
}

// 期限切れセッションはログインフラグの値に関わらず拒否される。
func TestGate_Authenticate_ExpiredRegardlessOfLoginFlag(t *testing.T) {
	now := time.Now()
	userID := int64(1)

	for _, loggedIn := range []bool{true, false} {
		sessionRepo := &mockSessionRepo{
			findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
				return &model.Session{
					ID:        id,
					LoggedIn:  loggedIn,
					UserID:    &userID,
					ExpiresAt: now.Add(-1 * time.Minute),
				}, nil
			},
		}
		userRepo := &mockUserRepo{
			findByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
				t.Error("user lookup should not happen for an expired session")
				return nil, nil
			},
		}
		gate := NewGate(sessionRepo, userRepo)

		result, err := gate.Authenticate(context.Background(), "some-token", now)
		if err != nil {
			t.Fatalf("Authenticate() error = %v", err)
		}
		if result.State != StateExpired {
			t.Errorf("loggedIn=%v: State = %v, want %v", loggedIn, result.State, StateExpired)
		}
	}
}

func TestGate_Authenticate_PendingLogin(t *testing.T) {
	now := time.Now()
	userID := int64(1)

	tests := []struct {
		name     string
		loggedIn bool
		userID   *int64
	}{
		{"ログインフラグがfalse", false, &userID},
		{"ユーザーIDが未設定", true, nil},
		{"どちらも未設定", false, nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			sessionRepo := &mockSessionRepo{
				findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
					return &model.Session{
						ID:        id,
						LoggedIn:  tt.loggedIn,
						UserID:    tt.userID,
						ExpiresAt: now.Add(1 * time.Hour),
					}, nil
				},
			}
			gate := NewGate(sessionRepo, &mockUserRepo{})

			result, err := gate.Authenticate(context.Background(), "some-token", now)
			if err != nil {
				t.Fatalf("Authenticate() error = %v", err)
			}
			if result.State != StatePendingLogin {
				t.Errorf("State = %v, want %v", result.State, StatePendingLogin)
			}
		})
	}
}

func TestGate_Authenticate_Success(t *testing.T) {
	now := time.Now()
	userID := int64(42)

	sessionRepo := &mockSessionRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{
				ID:        id,
				LoggedIn:  true,
				UserID:    &userID,
				ExpiresAt: now.Add(1 * time.Hour),
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
			return &model.User{ID: id, Email: "a@x.com", Name: "Alice"}, nil
		},
	}
	gate := NewGate(sessionRepo, userRepo)

	result, err := gate.Authenticate(context.Background(), "valid-token", now)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if !result.Authenticated() {
		t.Fatalf("State = %v, want %v", result.State, StateAuthenticated)
	}
	if result.User == nil || result.User.ID != 42 {
		t.Errorf("User = %+v, want ID 42", result.User)
	}
	if result.Session == nil || result.Session.ID != "valid-token" {
		t.Errorf("Session = %+v, want ID valid-token", result.Session)
	}
}

// ストア障害時はエラーを返す。呼び出し側はフェイルクローズする。
func TestGate_Authenticate_StoreError_FailsClosed(t *testing.T) {
	sessionRepo := &mockSessionRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return nil, errors.New("connection refused")
		},
	}
	gate := NewGate(sessionRepo, &mockUserRepo{})

	result, err := gate.Authenticate(context.Background(), "some-token", time.Now())
	if err == nil {
		t.Fatal("expected error on store failure")
	}
	if result != nil {
		t.Errorf("result should be nil on error, got %+v", result)
	}
}

func TestGate_Authenticate_DeletedUser(t *testing.T) {
	now := time.Now()
	userID := int64(7)

	sessionRepo := &mockSessionRepo{
		findByIDFunc: func(ctx context.Context, id string) (*model.Session, error) {
			return &model.Session{
				ID:        id,
				LoggedIn:  true,
				UserID:    &userID,
				ExpiresAt: now.Add(1 * time.Hour),
			}, nil
		},
	}
	userRepo := &mockUserRepo{
		findByIDFunc: func(ctx context.Context, id int64) (*model.User, error) {
			return nil, nil
		},
	}
	gate := NewGate(sessionRepo, userRepo)

	result, err := gate.Authenticate(context.Background(), "orphan-token", now)
	if err != nil {
		t.Fatalf("Authenticate() error = %v", err)
	}
	if result.State != StateUnknown {
		t.Errorf("State = %v, want %v", result.State, StateUnknown)
	}
}

func TestState_String(t *testing.T) {
	tests := []struct {
		state State
		want  string
	}{
		{StateUnknown, "unknown"},
		{StatePendingLogin, "pending_login"},
		{StateAuthenticated, "authenticated"},
		{StateExpired, "expired"},
	}
	for _, tt := range tests {
		if got := tt.state.String(); got != tt.want {
			t.Errorf("String() = %q, want %q", got, tt.want)
		}
	}
}
