package repo

import (
	"KeyGuardian/internal/model"
	"fmt"
	"strings"

	"gorm.io/driver/postgres"
	gormsqlite "gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
	_ "modernc.org/sqlite"
)

// InitDB открывает БД по DSN и применяет миграции.
// postgres://… или host=…: PostgreSQL, иначе DSN считается путём/URI SQLite (modernc).
func InitDB(dsn string) (*gorm.DB, error) {
	dial, sqlite := dialectorFor(dsn)
	db, err := gorm.Open(dial, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("open db: %w", err)
	}
	if sqlite {
		// SQLite не любит параллельных писателей, транзакции сериализуем на одном соединении
		sqlDB, err := db.DB()
		if err != nil {
			return nil, fmt.Errorf("sql db: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}
	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// Migrate создаёт/обновляет таблицы users, categories, secrets, audit_entries.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(&model.User{}, &model.Category{}, &model.Secret{}, &model.AuditEntry{}); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	return nil
}

func dialectorFor(dsn string) (gorm.Dialector, bool) {
	switch {
	case strings.HasPrefix(dsn, "postgres://"), strings.HasPrefix(dsn, "postgresql://"), strings.Contains(dsn, "host="):
		return postgres.Open(dsn), false
	default:
		path := strings.TrimPrefix(dsn, "sqlite://")
		if path == "" {
			path = "keyguardian.db"
		}
		if !strings.Contains(path, "_pragma=foreign_keys") {
			sep := "?"
			if strings.Contains(path, "?") {
				sep = "&"
			}
			path += sep + "_pragma=foreign_keys(1)"
		}
		return gormsqlite.Dialector{DriverName: "sqlite", DSN: path}, true
	}
}
