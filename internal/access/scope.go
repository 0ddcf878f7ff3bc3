// Package access привязывает операции хранилища к аутентифицированному пользователю.
// Обработчики получают владельца только из контекста запроса и работают через Scope.
package access

import (
	"KeyGuardian/internal/service"
	"context"
	"time"
)

// Gate собирает сервисы, через которые проходят все операции над секретами и категориями.
type Gate struct {
	vault      *service.VaultService
	categories *service.CategoryService
	audit      *service.AuditService
}

func New(vault *service.VaultService, categories *service.CategoryService, audit *service.AuditService) *Gate {
	return &Gate{vault: vault, categories: categories, audit: audit}
}

// For возвращает Scope для аутентифицированного пользователя.
func (g *Gate) For(principalID int64) *Scope {
	return &Scope{gate: g, owner: principalID}
}

// Scope: операции одного пользователя. Чужие записи неотличимы от несуществующих.
type Scope struct {
	gate  *Gate
	owner int64
}

func (s *Scope) Owner() int64 { return s.owner }

func (s *Scope) AddSecret(ctx context.Context, in service.AddSecretInput) (service.SecretView, error) {
	return s.gate.vault.Add(ctx, s.owner, in)
}

func (s *Scope) RevealSecret(ctx context.Context, id string) (string, error) {
	return s.gate.vault.Reveal(ctx, s.owner, id)
}

func (s *Scope) RenameSecret(ctx context.Context, id, name string) (service.SecretView, error) {
	return s.gate.vault.Rename(ctx, s.owner, id, name)
}

func (s *Scope) SetSecretCategory(ctx context.Context, id string, categoryID *string) (service.SecretView, error) {
	return s.gate.vault.SetCategory(ctx, s.owner, id, categoryID)
}

func (s *Scope) SetSecretExpiration(ctx context.Context, id string, expiresAt *time.Time) (service.SecretView, error) {
	return s.gate.vault.SetExpiration(ctx, s.owner, id, expiresAt)
}

func (s *Scope) RevokeSecret(ctx context.Context, id string) error {
	return s.gate.vault.Revoke(ctx, s.owner, id)
}

func (s *Scope) DeleteSecret(ctx context.Context, id string) error {
	return s.gate.vault.Delete(ctx, s.owner, id)
}

func (s *Scope) ListSecrets(ctx context.Context, filter service.ListFilter) ([]service.SecretView, error) {
	return s.gate.vault.List(ctx, s.owner, filter)
}

func (s *Scope) GroupedSecrets(ctx context.Context) (service.GroupedSecrets, error) {
	return s.gate.vault.Grouped(ctx, s.owner)
}

func (s *Scope) CreateCategory(ctx context.Context, name string) (service.CategoryView, error) {
	return s.gate.categories.Create(ctx, s.owner, name)
}

func (s *Scope) RenameCategory(ctx context.Context, id, name string) (service.CategoryView, error) {
	return s.gate.categories.Rename(ctx, s.owner, id, name)
}

func (s *Scope) DeleteCategory(ctx context.Context, id string) error {
	return s.gate.categories.Delete(ctx, s.owner, id)
}

func (s *Scope) ListCategories(ctx context.Context) ([]service.CategoryView, error) {
	return s.gate.categories.List(ctx, s.owner)
}

func (s *Scope) ListAudit(ctx context.Context) ([]service.AuditView, error) {
	return s.gate.audit.List(ctx, s.owner)
}
