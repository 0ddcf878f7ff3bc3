package repo

import (
	"KeyGuardian/internal/model"
	"context"
	"errors"

	"gorm.io/gorm"
)

var (
	// ErrImmutableField: попытка изменить владельца, шифртекст или дату создания.
	ErrImmutableField = errors.New("field is immutable")
	// ErrRevokeIrreversible: revoked нельзя вернуть в false.
	ErrRevokeIrreversible = errors.New("revoked flag cannot be cleared")
)

// immutableSecretColumns не меняются после создания записи.
var immutableSecretColumns = []string{"id", "user_id", "ciphertext", "created_at"}

// SecretFilter: фильтр выборки секретов пользователя.
type SecretFilter struct {
	CategoryID    *string // только указанная категория
	Uncategorized bool    // только без категории
}

// SecretRepository: доступ к секретам; все методы ограничены владельцем.
type SecretRepository interface {
	Create(ctx context.Context, s *model.Secret) error
	GetByID(ctx context.Context, userID int64, id string) (*model.Secret, error)
	Update(ctx context.Context, userID int64, id string, updates map[string]any) error
	Delete(ctx context.Context, userID int64, id string) error
	List(ctx context.Context, userID int64, filter SecretFilter) ([]model.Secret, error)

	// ClearCategory переводит все секреты категории в «Uncategorized».
	ClearCategory(ctx context.Context, userID int64, categoryID string) (int64, error)
}

type secretRepo struct {
	db *gorm.DB
}

// NewSecretRepository создаёт реализацию репозитория для Secret.
func NewSecretRepository(db *gorm.DB) SecretRepository {
	return &secretRepo{db: db}
}

func (r *secretRepo) Create(ctx context.Context, s *model.Secret) error {
	if s.Ciphertext == "" {
		return errors.New("secret ciphertext is empty")
	}
	return r.db.WithContext(ctx).Omit("Category", "User").Create(s).Error
}

// GetByID ищет секрет по id среди записей владельца (чужие записи неотличимы от несуществующих).
func (r *secretRepo) GetByID(ctx context.Context, userID int64, id string) (*model.Secret, error) {
	var s model.Secret
	err := r.db.WithContext(ctx).
		Preload("Category").
		Where("id = ? AND user_id = ?", id, userID).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *secretRepo) Update(ctx context.Context, userID int64, id string, updates map[string]any) error {
	if len(updates) == 0 {
		return nil
	}
	for _, col := range immutableSecretColumns {
		if _, ok := updates[col]; ok {
			return ErrImmutableField
		}
	}
	if v, ok := updates["revoked"]; ok && v != true {
		return ErrRevokeIrreversible
	}
	tx := r.db.WithContext(ctx).Model(&model.Secret{}).
		Where("id = ? AND user_id = ?", id, userID).
		Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *secretRepo) Delete(ctx context.Context, userID int64, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Secret{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List возвращает секреты по имени, при равных именах: по времени создания.
func (r *secretRepo) List(ctx context.Context, userID int64, filter SecretFilter) ([]model.Secret, error) {
	q := r.db.WithContext(ctx).Preload("Category").Where("user_id = ?", userID)
	switch {
	case filter.CategoryID != nil:
		q = q.Where("category_id = ?", *filter.CategoryID)
	case filter.Uncategorized:
		q = q.Where("category_id IS NULL")
	}
	var out []model.Secret
	err := q.Order("name ASC").Order("created_at ASC").Order("id ASC").Find(&out).Error
	return out, err
}

func (r *secretRepo) ClearCategory(ctx context.Context, userID int64, categoryID string) (int64, error) {
	tx := r.db.WithContext(ctx).Model(&model.Secret{}).
		Where("user_id = ? AND category_id = ?", userID, categoryID).
		Update("category_id", nil)
	return tx.RowsAffected, tx.Error
}
