package infra

import (
	"fmt"

	"github.com/jpm92/simple-fact/internal/model"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// NewDatabase opens (or creates) the SQLite file at path and runs AutoMigrate.
//
// The DSN enables foreign keys (off by default in SQLite, and the ON DELETE
// CASCADE on ventas depends on them), WAL journaling and a busy timeout.
// MaxOpenConns is pinned to 1: SQLite allows a single writer, and funneling
// every connection through one handle avoids SQLITE_BUSY under concurrency.
func NewDatabase(path string) (*gorm.DB, error) {
	dsn := fmt.Sprintf("file:%s?_foreign_keys=on&_journal_mode=WAL&_busy_timeout=5000", path)

	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.AutoMigrate(
		&model.Cliente{},
		&model.Venta{},
		&model.VentaItem{},
		&model.DocumentoVenta{},
		&model.Serie{},
	); err != nil {
		return nil, fmt.Errorf("AutoMigrate: %w", err)
	}

	return db, nil
}
