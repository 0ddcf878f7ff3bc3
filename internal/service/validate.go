package service

import (
	"strings"
	"unicode/utf8"

	"github.com/google/uuid"
)

// MaxNameLen: максимальная длина имени секрета или категории (в символах).
const MaxNameLen = 120

func validateName(name string) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", invalid("name is required")
	}
	if utf8.RuneCountInString(name) > MaxNameLen {
		return "", invalid("name is too long")
	}
	return name, nil
}

// validID отсекает строки, которые не могут быть идентификатором записи.
func validID(id string) bool {
	_, err := uuid.Parse(id)
	return err == nil
}

// normalizeCategory: nil и пустая строка означают «без категории».
func normalizeCategory(id *string) *string {
	if id == nil {
		return nil
	}
	v := strings.TrimSpace(*id)
	if v == "" {
		return nil
	}
	return &v
}
