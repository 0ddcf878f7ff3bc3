package repo

import (
	"KeyGuardian/internal/model"
	"context"

	"gorm.io/gorm"
)

// CategoryRepository: доступ к категориям; все методы ограничены владельцем.
type CategoryRepository interface {
	Create(ctx context.Context, c *model.Category) error
	GetByID(ctx context.Context, userID int64, id string) (*model.Category, error)
	Rename(ctx context.Context, userID int64, id string, name string) error
	Delete(ctx context.Context, userID int64, id string) error
	List(ctx context.Context, userID int64) ([]model.Category, error)
}

type categoryRepo struct {
	db *gorm.DB
}

// NewCategoryRepository создаёт реализацию репозитория для Category.
func NewCategoryRepository(db *gorm.DB) CategoryRepository {
	return &categoryRepo{db: db}
}

func (r *categoryRepo) Create(ctx context.Context, c *model.Category) error {
	return r.db.WithContext(ctx).Create(c).Error
}

func (r *categoryRepo) GetByID(ctx context.Context, userID int64, id string) (*model.Category, error) {
	var c model.Category
	if err := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).First(&c).Error; err != nil {
		return nil, err
	}
	return &c, nil
}

func (r *categoryRepo) Rename(ctx context.Context, userID int64, id string, name string) error {
	tx := r.db.WithContext(ctx).Model(&model.Category{}).
		Where("id = ? AND user_id = ?", id, userID).
		Update("name", name)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

func (r *categoryRepo) Delete(ctx context.Context, userID int64, id string) error {
	tx := r.db.WithContext(ctx).Where("id = ? AND user_id = ?", id, userID).Delete(&model.Category{})
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}

// List возвращает категории пользователя по имени.
func (r *categoryRepo) List(ctx context.Context, userID int64) ([]model.Category, error) {
	var out []model.Category
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("name ASC").Order("created_at ASC").
		Find(&out).Error
	return out, err
}
