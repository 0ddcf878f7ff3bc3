package service

import (
	"KeyGuardian/internal/model"
	"KeyGuardian/internal/repo"
	"context"
	"time"

	"go.uber.org/zap"
)

// AuditService: чтение журнала аудита. Запись в журнал происходит только
// внутри транзакций VaultService и CategoryService.
type AuditService struct {
	store  repo.Store
	logger *zap.SugaredLogger
}

func NewAuditService(store repo.Store, logger *zap.SugaredLogger) *AuditService {
	return &AuditService{store: store, logger: logger}
}

// AuditView: запись журнала в ответах API.
type AuditView struct {
	Action    model.AuditAction `json:"action"`
	SecretID  *string           `json:"secret_id"`
	Timestamp time.Time         `json:"timestamp"`
}

// List возвращает журнал владельца, новые записи первыми.
func (s *AuditService) List(ctx context.Context, owner int64) ([]AuditView, error) {
	entries, err := s.store.Audit().ListForUser(ctx, owner)
	if err != nil {
		err = classify(err)
		s.logger.Errorw("audit list failed", "user_id", owner, "error", err)
		return nil, err
	}
	out := make([]AuditView, 0, len(entries))
	for _, e := range entries {
		out = append(out, AuditView{Action: e.Action, SecretID: e.SecretID, Timestamp: e.CreatedAt})
	}
	return out, nil
}
