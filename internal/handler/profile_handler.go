package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"time"

	"github.com/hitoshi/taskbook/internal/middleware"
	"github.com/hitoshi/taskbook/internal/model"
)

// ProfileServiceInterface はプロフィールハンドラーが必要とするサービスインターフェース。
type ProfileServiceInterface interface {
	List(ctx context.Context, userID int64) ([]*model.ProfileEntry, error)
	Get(ctx context.Context, userID, id int64) (*model.ProfileEntry, error)
	Create(ctx context.Context, userID int64, hobby, profession string) (*model.ProfileEntry, error)
	Update(ctx context.Context, userID, id int64, hobby, profession *string) (*model.ProfileEntry, error)
	Delete(ctx context.Context, userID, id int64) error
}

// ProfileHandler はプロフィール項目管理のHTTPハンドラー。
type ProfileHandler struct {
	service ProfileServiceInterface
}

// NewProfileHandler はProfileHandlerを生成する。
func NewProfileHandler(service ProfileServiceInterface) *ProfileHandler {
	return &ProfileHandler{service: service}
}

// createProfileRequest はプロフィール項目作成リクエストのボディ。
// 所有者フィールドは受け付けない。所有者は常に認証済みユーザーになる。
type createProfileRequest struct {
	Hobby      string `json:"hobby"`
	Profession string `json:"profession"`
}

// updateProfileRequest はプロフィール項目更新リクエストのボディ。nilフィールドは変更しない。
type updateProfileRequest struct {
	Hobby      *string `json:"hobby,omitempty"`
	Profession *string `json:"profession,omitempty"`
}

// profileEntryResponse はプロフィール項目のレスポンス。
type profileEntryResponse struct {
	ID         int64     `json:"id"`
	Hobby      string    `json:"hobby"`
	Profession string    `json:"profession"`
	CreatedAt  time.Time `json:"created_at"`
	UpdatedAt  time.Time `json:"updated_at"`
}

func toProfileEntryResponse(entry *model.ProfileEntry) profileEntryResponse {
	return profileEntryResponse{
		ID:         entry.ID,
		Hobby:      entry.Hobby,
		Profession: entry.Profession,
		CreatedAt:  entry.CreatedAt,
		UpdatedAt:  entry.UpdatedAt,
	}
}

// List はユーザーのプロフィール項目一覧を取得する。
// GET /api/profile
func (h *ProfileHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	entries, err := h.service.List(r.Context(), principal.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]profileEntryResponse, len(entries))
	for i, entry := range entries {
		results[i] = toProfileEntryResponse(entry)
	}

	writeJSON(w, http.StatusOK, results)
}

// Get は指定IDのプロフィール項目を取得する。
// GET /api/profile/:id
func (h *ProfileHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	entry, err := h.service.Get(r.Context(), principal.ID, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileEntryResponse(entry))
}

// Create はプロフィール項目を作成する。
// POST /api/profile
func (h *ProfileHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	entry, err := h.service.Create(r.Context(), principal.ID, req.Hobby, req.Profession)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toProfileEntryResponse(entry))
}

// Update はプロフィール項目を部分更新する。
// PATCH /api/profile/:id （PUTも同じ部分更新として受け付ける）
func (h *ProfileHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req updateProfileRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	entry, err := h.service.Update(r.Context(), principal.ID, id, req.Hobby, req.Profession)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toProfileEntryResponse(entry))
}

// Delete はプロフィール項目を削除する。対象が存在しなくても204を返す（冪等）。
// DELETE /api/profile/:id
func (h *ProfileHandler) Delete(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	if err := h.service.Delete(r.Context(), principal.ID, id); err != nil {
		handleServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}
