package repo

import (
	"KeyGuardian/internal/model"
	"context"
	"fmt"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// newTestDB инициализирует отдельную in-memory SQLite (modernc.org/sqlite) для каждого теста
func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:%s?mode=memory&cache=shared", uuid.NewString())
	db, err := InitDB(dsn)
	if err != nil {
		t.Fatalf("failed to open sqlite (modernc): %v", err)
	}
	t.Cleanup(func() {
		if sqlDB, err := db.DB(); err == nil {
			_ = sqlDB.Close()
		}
	})
	return db
}

// mkUser создаёт пользователя: секреты и категории ссылаются на users.id
func mkUser(t *testing.T, db *gorm.DB, email string) *model.User {
	t.Helper()
	u, err := NewUserRepository(db).CreateUser(context.Background(), &model.User{Email: email, Password: "hash"})
	require.NoError(t, err)
	return u
}

func mkCategory(t *testing.T, db *gorm.DB, userID int64, name string) *model.Category {
	t.Helper()
	c := &model.Category{ID: uuid.NewString(), UserID: userID, Name: name}
	require.NoError(t, NewCategoryRepository(db).Create(context.Background(), c))
	return c
}

func TestDialectorFor(t *testing.T) {
	cases := []struct {
		dsn    string
		sqlite bool
		name   string
	}{
		{"postgres://u:p@localhost:5432/vault", false, "postgres"},
		{"postgresql://localhost/vault", false, "postgres"},
		{"host=localhost user=u dbname=vault", false, "postgres"},
		{"", true, "sqlite"},
		{"sqlite://data/vault.db", true, "sqlite"},
		{"file:test?mode=memory", true, "sqlite"},
	}
	for _, tc := range cases {
		d, isSQLite := dialectorFor(tc.dsn)
		require.Equal(t, tc.sqlite, isSQLite, tc.dsn)
		require.Equal(t, tc.name, d.Name(), tc.dsn)
	}
}
