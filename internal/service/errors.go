package service

import (
	"KeyGuardian/internal/crypto"
	"errors"
	"fmt"

	"gorm.io/gorm"
)

var (
	// ErrInvalidInput: ошибка вызывающего: пустое имя/секрет, слишком длинное имя и т.п.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCategory: категория не найдена среди категорий владельца.
	ErrInvalidCategory = fmt.Errorf("%w: unknown category", ErrInvalidInput)
	// ErrNotFound: записи нет или она принадлежит другому пользователю.
	ErrNotFound = errors.New("not found")
	// ErrStorageUnavailable: ошибка хранилища; изменение откатано.
	ErrStorageUnavailable = errors.New("storage unavailable")

	ErrTokenNotFound = errors.New("verification token not found")
	ErrTokenExpired  = errors.New("verification token expired")

	ErrEmailTaken         = errors.New("email already registered")
	ErrInvalidCredentials = errors.New("invalid email or password")
	ErrEmailNotVerified   = errors.New("email is not verified")
)

// known: ошибки, которые отдаются вызывающему как есть.
var known = []error{
	ErrInvalidInput,
	ErrNotFound,
	ErrStorageUnavailable,
	ErrTokenNotFound,
	ErrTokenExpired,
	ErrEmailTaken,
	ErrInvalidCredentials,
	ErrEmailNotVerified,
	crypto.ErrDecryption,
}

// classify приводит ошибку репозитория к ошибкам сервиса.
func classify(err error) error {
	if err == nil {
		return nil
	}
	for _, k := range known {
		if errors.Is(err, k) {
			return err
		}
	}
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return fmt.Errorf("%w: %w", ErrStorageUnavailable, err)
}

func invalid(msg string) error {
	return fmt.Errorf("%w: %s", ErrInvalidInput, msg)
}
