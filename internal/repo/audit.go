package repo

import (
	"KeyGuardian/internal/model"
	"context"

	"gorm.io/gorm"
)

// AuditRepository: журнал только на добавление: методов изменения и удаления нет.
type AuditRepository interface {
	Append(ctx context.Context, e *model.AuditEntry) error
	ListForUser(ctx context.Context, userID int64) ([]model.AuditEntry, error)
}

type auditRepo struct {
	db *gorm.DB
}

// NewAuditRepository создаёт реализацию репозитория для AuditEntry.
func NewAuditRepository(db *gorm.DB) AuditRepository {
	return &auditRepo{db: db}
}

func (r *auditRepo) Append(ctx context.Context, e *model.AuditEntry) error {
	return r.db.WithContext(ctx).Create(e).Error
}

// ListForUser: от новых к старым.
func (r *auditRepo) ListForUser(ctx context.Context, userID int64) ([]model.AuditEntry, error) {
	var out []model.AuditEntry
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("created_at DESC").Order("id DESC").
		Find(&out).Error
	return out, err
}
