package handlers

import (
	"KeyGuardian/internal/access"
	"KeyGuardian/internal/crypto"
	"KeyGuardian/internal/middleware"
	"KeyGuardian/internal/service"
	"encoding/json"
	"errors"
	"io"
	"net/http"

	"go.uber.org/zap"
)

// maxBodySize: ограничение тела JSON-запроса.
const maxBodySize = 1 << 20

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func decodeJSON(w http.ResponseWriter, r *http.Request, v any) bool {
	if err := json.NewDecoder(io.LimitReader(r.Body, maxBodySize)).Decode(v); err != nil {
		http.Error(w, "invalid json", http.StatusBadRequest)
		return false
	}
	return true
}

// scopeFor возвращает Scope пользователя из контекста запроса.
func scopeFor(w http.ResponseWriter, r *http.Request, gate *access.Gate) (*access.Scope, bool) {
	uid, ok := middleware.GetUserIDFromContext(r.Context())
	if !ok {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
		return nil, false
	}
	return gate.For(uid), true
}

// writeError переводит ошибку сервиса в HTTP-ответ.
// Ошибки хранилища логируются, клиенту уходит общий текст.
func writeError(w http.ResponseWriter, logger *zap.SugaredLogger, err error) {
	switch {
	case errors.Is(err, service.ErrInvalidInput):
		http.Error(w, err.Error(), http.StatusBadRequest)
	case errors.Is(err, service.ErrNotFound):
		http.Error(w, "not found", http.StatusNotFound)
	case errors.Is(err, crypto.ErrDecryption):
		http.Error(w, "secret cannot be decrypted", http.StatusUnprocessableEntity)
	case errors.Is(err, service.ErrTokenNotFound):
		http.Error(w, "verification link is invalid", http.StatusNotFound)
	case errors.Is(err, service.ErrTokenExpired):
		http.Error(w, "verification link has expired", http.StatusGone)
	case errors.Is(err, service.ErrEmailTaken):
		http.Error(w, "email already registered", http.StatusConflict)
	case errors.Is(err, service.ErrInvalidCredentials):
		http.Error(w, "invalid email or password", http.StatusUnauthorized)
	case errors.Is(err, service.ErrEmailNotVerified):
		http.Error(w, "email is not verified", http.StatusForbidden)
	default:
		logger.Errorw("request failed", "error", err)
		http.Error(w, "internal server error", http.StatusInternalServerError)
	}
}
