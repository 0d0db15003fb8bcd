package persistence

import (
	"fmt"

	"github.com/FatihZee/tele-bot/domain/model"
	"github.com/FatihZee/tele-bot/infrastructure/configuration"

	"gorm.io/driver/mysql"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"
)

// NewMySQLDB opens the MySQL vendor via gorm and migrates the videos table.
func NewMySQLDB() (*gorm.DB, error) {
	cfg := configuration.C.Database.MySql

	db, err := gorm.Open(mysql.Open(cfg.URI), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect mysql: %w", err)
	}
	if err := db.AutoMigrate(&model.VideoRecord{}); err != nil {
		return nil, fmt.Errorf("failed to migrate videos table: %w", err)
	}
	return db, nil
}
