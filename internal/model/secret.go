package model

import "time"

// Secret: зашифрованный API-ключ пользователя.
type Secret struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID int64  `gorm:"not null;index"` // неизменяем после создания
	User   *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Name string `gorm:"not null;size:120"`

	// Ciphertext: токен crypto.Box. Никогда не сериализуется наружу.
	Ciphertext string `gorm:"not null" json:"-"`

	// CategoryID == nil означает «Uncategorized»
	CategoryID *string   `gorm:"type:uuid;index"`
	Category   *Category `gorm:"constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`

	ExpiresAt *time.Time
	Revoked   bool `gorm:"not null;default:false"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}

// IsExpired: срок действия задан и уже прошёл относительно now.
func (s *Secret) IsExpired(now time.Time) bool {
	return s.ExpiresAt != nil && s.ExpiresAt.Before(now)
}

// IsActive: не отозван и не просрочен.
func (s *Secret) IsActive(now time.Time) bool {
	return !s.Revoked && !s.IsExpired(now)
}

// CategoryName возвращает имя категории или "Uncategorized".
func (s *Secret) CategoryName() string {
	if s.Category == nil {
		return UncategorizedName
	}
	return s.Category.Name
}

// UncategorizedName: имя неявной группы для секретов без категории.
const UncategorizedName = "Uncategorized"
