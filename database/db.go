package database

import (
	"go.uber.org/zap"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"

	"github.com/hkato/kanban/internal/board"
	"github.com/hkato/kanban/internal/models"
)

func Init(dbPath string) *gorm.DB {
	dbFile := sqlite.Open(dbPath)
	db, err := gorm.Open(dbFile, &gorm.Config{})
	if err != nil {
		zap.L().Fatal("Failed to connect to database", zap.Error(err))
	}

	// SQLite: single writer, and the FK pragma is per-connection.
	sqlDB, err := db.DB()
	if err != nil {
		zap.L().Fatal("Failed to access underlying database handle", zap.Error(err))
	}
	sqlDB.SetMaxOpenConns(1)

	if err := db.Exec("PRAGMA foreign_keys = ON").Error; err != nil {
		zap.L().Fatal("Failed to enable foreign keys", zap.Error(err))
	}

	if err := db.AutoMigrate(&models.Card{}, &models.Tag{}, &models.Comment{}); err != nil {
		zap.L().Fatal("Failed to migrate database", zap.Error(err))
	}

	zap.L().Info("Database initialised and migrated successfully")

	return db
}

// Seed inserts a couple of starter cards, but only into an empty board.
func Seed(db *gorm.DB, cards *board.CardStore) error {
	var n int64
	if err := db.Model(&models.Card{}).Count(&n).Error; err != nil {
		return err
	}
	if n > 0 {
		return nil
	}

	due := "2025-12-15"
	samples := []board.CardInput{
		{
			Title:       "Sample task 1",
			Description: "# Task notes\n\nThis is a sample card.",
			Column:      "todo",
			DueDate:     &due,
			Tags:        []string{"important", "sample"},
		},
		{
			Title:       "Sample task 2",
			Description: "## Urgent\n\n- item 1\n- item 2",
			Column:      "today",
			Tags:        []string{"urgent", "sample"},
		},
	}
	for _, sample := range samples {
		if _, err := cards.Create(sample); err != nil {
			return err
		}
	}

	zap.L().Info("Sample data inserted", zap.Int("cards", len(samples)))
	return nil
}
