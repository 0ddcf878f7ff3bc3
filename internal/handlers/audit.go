package handlers

import (
	"KeyGuardian/internal/access"
	"net/http"

	"go.uber.org/zap"
)

type AuditHandler struct {
	Gate   *access.Gate
	Logger *zap.SugaredLogger
}

func NewAuditHandler(gate *access.Gate, logger *zap.SugaredLogger) *AuditHandler {
	return &AuditHandler{Gate: gate, Logger: logger}
}

// List: журнал пользователя, новые записи первыми.
func (h *AuditHandler) List(w http.ResponseWriter, r *http.Request) {
	scope, ok := scopeFor(w, r, h.Gate)
	if !ok {
		return
	}
	entries, err := scope.ListAudit(r.Context())
	if err != nil {
		writeError(w, h.Logger, err)
		return
	}
	writeJSON(w, http.StatusOK, entries)
}
