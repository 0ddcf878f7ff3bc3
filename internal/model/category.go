package model

import "time"

// Category: именованная группа секретов одного пользователя.
type Category struct {
	ID     string `gorm:"primaryKey;type:uuid"`
	UserID int64  `gorm:"not null;index"`
	User   *User  `gorm:"constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`

	Name string `gorm:"not null;size:120"`

	CreatedAt time.Time `gorm:"autoCreateTime"`
}
