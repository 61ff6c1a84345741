package handler

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/hitoshi/taskbook/internal/middleware"
	"github.com/hitoshi/taskbook/internal/model"
)

// TodoServiceInterface はToDoハンドラーが必要とするサービスインターフェース。
type TodoServiceInterface interface {
	List(ctx context.Context, userID int64) ([]*model.Todo, error)
	Get(ctx context.Context, userID, id int64) (*model.Todo, error)
	Create(ctx context.Context, userID int64, task string) (*model.Todo, error)
	Update(ctx context.Context, userID, id int64, task *string, completed *bool) (*model.Todo, error)
	Delete(ctx context.Context, userID, id int64) error
}

// TodoHandler はToDo管理のHTTPハンドラー。
type TodoHandler struct {
	service TodoServiceInterface
}

// NewTodoHandler はTodoHandlerを生成する。
func NewTodoHandler(service TodoServiceInterface) *TodoHandler {
	return &TodoHandler{service: service}
}

// createTodoRequest はToDo作成リクエストのボディ。
// 所有者フィールドは受け付けない。所有者は常に認証済みユーザーになる。
type createTodoRequest struct {
	Task string `json:"task"`
}

// updateTodoRequest はToDo更新リクエストのボディ。nilフィールドは変更しない。
type updateTodoRequest struct {
	Task      *string `json:"task,omitempty"`
	Completed *bool   `json:"completed,omitempty"`
}

// todoResponse はToDoのレスポンス。
type todoResponse struct {
	ID        int64     `json:"id"`
	Task      string    `json:"task"`
	Completed bool      `json:"completed"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func toTodoResponse(todo *model.Todo) todoResponse {
	return todoResponse{
		ID:        todo.ID,
		Task:      todo.Task,
		Completed: todo.Completed,
		CreatedAt: todo.CreatedAt,
		UpdatedAt: todo.UpdatedAt,
	}
}

// List はユーザーのToDo一覧を取得する。
// GET /api/todos
func (h *TodoHandler) List(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	todos, err := h.service.List(r.Context(), principal.ID)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	results := make([]todoResponse, len(todos))
	for i, todo := range todos {
		results[i] = toTodoResponse(todo)
	}

	writeJSON(w, http.StatusOK, results)
}

// Get は指定IDのToDoを取得する。
// GET /api/todos/:id
func (h *TodoHandler) Get(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	todo, err := h.service.Get(r.Context(), principal.ID, id)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTodoResponse(todo))
}

// Create はToDoを作成する。
// POST /api/todos
func (h *TodoHandler) Create(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	var req createTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	todo, err := h.service.Create(r.Context(), principal.ID, req.Task)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, toTodoResponse(todo))
}

// Update はToDoを部分更新する。
// PATCH /api/todos/:id （PUTも同じ部分更新として受け付ける）
func (h *TodoHandler) Update(w http.ResponseWriter, r *http.Request) {
	principal, err := middleware.PrincipalFromContext(r.Context())
	if err != nil {
		writeAPIErrorResponse(w, http.StatusUnauthorized, model.NewUnauthorizedError())
		return
	}

	id, ok := parseIDParam(w, r)
	if !ok {
		return
	}

	var req updateTodoRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("リクエストボディの解析に失敗しました"))
		return
	}

	todo, err := h.service.Update(r.Context(), principal.ID, id, req.Task, req.Completed)
	if err != nil {
		handleServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, toTodoResponse(todo))
}

// Delete はToDoを削除する。対象が存在しなくても204を返す（冪等）。
// DELETE /api/todos/:id
func (h *TodoHandler) Delete(w http.ResponseWriter, r *http.Request) {
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

// parseIDParam はURLパスのidパラメータを数値として解析する。
// 解析できない場合は400を書き込みfalseを返す。
func parseIDParam(w http.ResponseWriter, r *http.Request) (int64, bool) {
	raw := chi.URLParam(r, "id")
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		writeAPIErrorResponse(w, http.StatusBadRequest, model.NewInvalidRequestError("IDは正の整数で指定してください"))
		return 0, false
	}
	return id, true
}
