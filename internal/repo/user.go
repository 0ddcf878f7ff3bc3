package repo

import (
	"KeyGuardian/internal/model"
	"context"
	"time"

	"gorm.io/gorm"
)

// UserRepository: доступ к пользователям и их токенам подтверждения.
type UserRepository interface {
	CreateUser(ctx context.Context, user *model.User) (*model.User, error)
	GetUserByEmail(ctx context.Context, email string) (*model.User, error)
	GetUserByID(ctx context.Context, id int64) (*model.User, error)
	GetUserByTokenHash(ctx context.Context, hash string) (*model.User, error)

	// SetVerificationToken заменяет токен пользователя; hash == nil очищает его.
	SetVerificationToken(ctx context.Context, userID int64, hash *string, expiresAt *time.Time) error
	// MarkEmailVerified подтверждает email и очищает токен.
	MarkEmailVerified(ctx context.Context, userID int64) error
}

type userRepo struct {
	db *gorm.DB
}

// NewUserRepository создаёт реализацию репозитория для User.
func NewUserRepository(db *gorm.DB) UserRepository {
	return &userRepo{db: db}
}

func (r *userRepo) CreateUser(ctx context.Context, user *model.User) (*model.User, error) {
	if err := r.db.WithContext(ctx).Create(user).Error; err != nil {
		return nil, err
	}
	return user, nil
}

func (r *userRepo) GetUserByEmail(ctx context.Context, email string) (*model.User, error) {
	return r.first(ctx, "email = ?", email)
}

func (r *userRepo) GetUserByID(ctx context.Context, id int64) (*model.User, error) {
	return r.first(ctx, "id = ?", id)
}

func (r *userRepo) GetUserByTokenHash(ctx context.Context, hash string) (*model.User, error) {
	return r.first(ctx, "verification_token_hash = ?", hash)
}

func (r *userRepo) first(ctx context.Context, query string, arg any) (*model.User, error) {
	var u model.User
	if err := r.db.WithContext(ctx).Where(query, arg).First(&u).Error; err != nil {
		return nil, err
	}
	return &u, nil
}

func (r *userRepo) SetVerificationToken(ctx context.Context, userID int64, hash *string, expiresAt *time.Time) error {
	updates := map[string]any{
		"verification_token_hash": nil,
		"verification_expires_at": nil,
	}
	if hash != nil {
		updates["verification_token_hash"] = *hash
	}
	if expiresAt != nil {
		updates["verification_expires_at"] = *expiresAt
	}
	return r.updateUser(ctx, userID, updates)
}

func (r *userRepo) MarkEmailVerified(ctx context.Context, userID int64) error {
	return r.updateUser(ctx, userID, map[string]any{
		"email_verified":          true,
		"verification_token_hash": nil,
		"verification_expires_at": nil,
	})
}

func (r *userRepo) updateUser(ctx context.Context, userID int64, updates map[string]any) error {
	tx := r.db.WithContext(ctx).Model(&model.User{}).Where("id = ?", userID).Updates(updates)
	if tx.Error != nil {
		return tx.Error
	}
	if tx.RowsAffected == 0 {
		return gorm.ErrRecordNotFound
	}
	return nil
}
