package model

import "time"

// User: владелец хранилища (principal).
type User struct {
	ID       int64  `gorm:"primaryKey;autoIncrement"`
	Email    string `gorm:"not null;uniqueIndex"` // нормализованный email
	Password string `gorm:"not null"`             // bcrypt hash

	EmailVerified bool `gorm:"not null;default:false"`

	// Хранится только SHA-256 от выданного токена подтверждения
	VerificationTokenHash *string `gorm:"uniqueIndex"`
	VerificationExpiresAt *time.Time

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
