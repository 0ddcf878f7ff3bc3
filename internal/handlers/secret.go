package handlers

import (
	"KeyGuardian/internal/access"
	"KeyGuardian/internal/service"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"
)

// SecretHandler: операции над секретами текущего пользователя.
type SecretHandler struct {
	Gate   *access.Gate
	Logger *zap.SugaredLogger
}

func NewSecretHandler(gate *access.Gate, logger *zap.SugaredLogger) *SecretHandler {
	return &SecretHandler{Gate: gate, Logger: logger}
}

type addSecretRequest struct {
	Name       string     `json:"name"`
	Secret     string     `json:"secret"`
	CategoryID *string    `json:"category_id"`
	ExpiresAt  *time.Time `json:"expires_at"`
}

func (h *SecretHandler) Add(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	var req addSecretRequest
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := scope.AddSecret(r.Context(), service.AddSecretInput{
		Name:       req.Name,
		Secret:     req.Secret,
		CategoryID: req.CategoryID,
		ExpiresAt:  req.ExpiresAt,
	})
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusCreated, v)
}

// Reveal: единственный ответ, содержащий открытое значение секрета.
func (h *SecretHandler) Reveal(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	plain, err := scope.RevealSecret(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	w.Header().Set("Cache-Control", "no-store")
	writeJSON(w, http.StatusOK, map[string]string{"secret": plain})
}

func (h *SecretHandler) Rename(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	var req struct {
		Name string `json:"name"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := scope.RenameSecret(r.Context(), chi.URLParam(r, "id"), req.Name)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]string{"new_name": v.Name})
}

func (h *SecretHandler) Revoke(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	if err := scope.RevokeSecret(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

func (h *SecretHandler) Delete(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	if err := scope.DeleteSecret(r.Context(), chi.URLParam(r, "id")); err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, struct{}{})
}

// SetExpiration: {"expires_at": "<RFC3339>"} или {"expires_at": null} для снятия срока.
func (h *SecretHandler) SetExpiration(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	var req struct {
		ExpiresAt *time.Time `json:"expires_at"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := scope.SetSecretExpiration(r.Context(), chi.URLParam(r, "id"), req.ExpiresAt)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"expires_at": v.ExpiresAt, "is_active": v.IsActive})
}

// SetCategory: {"category_id": "<id>"} или {"category_id": null} для «Uncategorized».
func (h *SecretHandler) SetCategory(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	var req struct {
		CategoryID *string `json:"category_id"`
	}
	if !decodeJSON(w, r, &req) {
		return
	}
	v, err := scope.SetSecretCategory(r.Context(), chi.URLParam(r, "id"), req.CategoryID)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, map[string]any{"category_id": v.CategoryID, "category_name": v.CategoryName})
}

// List: ?category=<id>: одна категория, ?category=none: без категории.
func (h *SecretHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	var filter service.ListFilter
	switch c := r.URL.Query().Get("category"); c {
	case "":
	case "none":
		filter.Uncategorized = true
	default:
		filter.CategoryID = &c
	}
	list, err := scope.ListSecrets(r.Context(), filter)
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, list)
}

func (h *SecretHandler) Grouped(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	g, err := scope.GroupedSecrets(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, g)
}
