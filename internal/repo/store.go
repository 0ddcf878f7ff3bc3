package repo

import (
	"context"

	"gorm.io/gorm"
)

// Store: набор репозиториев поверх одного соединения или одной транзакции.
type Store interface {
	Users() UserRepository
	Categories() CategoryRepository
	Secrets() SecretRepository
	Audit() AuditRepository

	// WithinTx выполняет fn в транзакции: commit при nil, rollback при ошибке/панике.
	// Транзакция не зависит от отмены ctx вызывающего: отключение клиента
	// не оставляет изменение без записи аудита.
	WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error
}

type gormStore struct {
	db *gorm.DB
}

// NewStore создаёт Store поверх *gorm.DB.
func NewStore(db *gorm.DB) Store {
	return &gormStore{db: db}
}

func (s *gormStore) Users() UserRepository { return NewUserRepository(s.db) }
func (s *gormStore) Categories() CategoryRepository { return NewCategoryRepository(s.db) }
func (s *gormStore) Secrets() SecretRepository { return NewSecretRepository(s.db) }
func (s *gormStore) Audit() AuditRepository { return NewAuditRepository(s.db) }

func (s *gormStore) WithinTx(ctx context.Context, fn func(ctx context.Context, tx Store) error) error {
	ctx = context.WithoutCancel(ctx)
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(ctx, &gormStore{db: tx})
	})
}
