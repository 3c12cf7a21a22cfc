package models

import (
	"fmt"

	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Database wraps the gorm connection and exposes per-entity query methods.
// TranslateError is enabled so storage-level unique constraint violations
// surface as gorm.ErrDuplicatedKey, which the coordinators treat as the
// authoritative conflict signal.
type Database struct {
	db *gorm.DB
}

// NewDatabase opens (or creates) the sqlite database at path and migrates
// the schema.
func NewDatabase(path string) (*Database, error) {
	dsn := fmt.Sprintf("%s?_foreign_keys=on", path)
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Discard,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	if err := db.AutoMigrate(
		&User{},
		&Title{},
		&Episode{},
		&Rating{},
		&Comment{},
		&Favorite{},
		&ViewEvent{},
	); err != nil {
		return nil, fmt.Errorf("failed to migrate schema: %w", err)
	}

	return &Database{db: db}, nil
}

// Close closes the underlying connection.
func (d *Database) Close() error {
	sqlDB, err := d.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// Page is one page of a listing, sized for the fixed page size of the read
// paths.
type Page[T any] struct {
	Items      []T   `json:"items"`
	Page       int   `json:"page"`
	Size       int   `json:"size"`
	Total      int64 `json:"total"`
	TotalPages int   `json:"totalPages"`
}

func newPage[T any](items []T, page, size int, total int64) *Page[T] {
	totalPages := int(total) / size
	if int(total)%size != 0 {
		totalPages++
	}
	return &Page[T]{
		Items:      items,
		Page:       page,
		Size:       size,
		Total:      total,
		TotalPages: totalPages,
	}
}

func offset(page, size int) int {
	if page < 0 {
		page = 0
	}
	return page * size
}
