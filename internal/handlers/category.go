package handlers

import (
	"KeyGuardian/internal/access"
	"net/http"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// CategoryHandler: категории текущего пользователя.
type CategoryHandler struct {
	Gate   *access.Gate
	Logger *zap.SugaredLogger
}

func NewCategoryHandler(gate *access.Gate, logger *zap.SugaredLogger) *CategoryHandler {
	return &CategoryHandler{Gate: gate, Logger: logger}
}

type categoryRequest struct {
	Name string `json:"name"`
}

func (h *CategoryHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	list, err := scope.ListCategories(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *CategoryHandler) Create(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := scope.CreateCategory(r.Context(), req.Name)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, c)
}

func (h *CategoryHandler) Rename(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	var req categoryRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	c, err := scope.RenameCategory(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, c)
}

// Delete удаляет категорию; её секреты остаются без категории.
func (h *CategoryHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	if err := scope.DeleteCategory(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}
