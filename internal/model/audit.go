package model

import "time"

// AuditAction: тег действия в журнале аудита.
type AuditAction string

const (
	AuditAdd              AuditAction = "add"
	AuditReveal           AuditAction = "reveal"
	AuditRename           AuditAction = "rename"
	AuditRevoke           AuditAction = "revoke"
	AuditUpdateExpiration AuditAction = "update_expiration"
	AuditDelete           AuditAction = "delete"
	AuditCategoryChange   AuditAction = "category_change"
)

// AuditEntry: неизменяемая запись журнала.
// SecretID без внешнего ключа: запись переживает удаление секрета.
type AuditEntry struct {
	ID       int64       `gorm:"primaryKey;autoIncrement"`
	UserID   int64       `gorm:"not null;index"`
	Action   AuditAction `gorm:"not null;size:32"`
	SecretID *string     `gorm:"type:uuid;index"`

	CreatedAt time.Time `gorm:"not null;index"`
}
