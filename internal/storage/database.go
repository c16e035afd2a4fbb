package storage

import (
	"fmt"

	"go.uber.org/zap"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"

	"todo_bank/internal/models"
	"todo_bank/pkg/config"
)

// Database 包裝 gorm 連接，供 SQL 後端的 repositories 使用
type Database struct {
	*gorm.DB
}

// Open 依照設定的 driver 建立連接。memory driver 不需要資料庫，回傳 nil。
func Open(cfg config.StorageConfig, log *zap.Logger) (*Database, error) {
	var dialector gorm.Dialector
	switch cfg.Driver {
	case "memory":
		return nil, nil
	case "postgres":
		dialector = postgres.Open(cfg.PostgresDSN())
	case "sqlite":
		dialector = sqlite.Open(cfg.Path)
	default:
		return nil, fmt.Errorf("unknown storage driver %q", cfg.Driver)
	}

	db, err := gorm.Open(dialector, &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to %s database: %w", cfg.Driver, err)
	}

	if log != nil {
		log.Info("database connected", zap.String("driver", cfg.Driver))
	}

	return &Database{DB: db}, nil
}

// OpenSQLiteMemory 開啟一個私有的記憶體 SQLite 資料庫，用於測試
func OpenSQLiteMemory() (*Database, error) {
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{
		TranslateError: true,
		Logger:         logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		return nil, err
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	// 每個連接都是獨立的記憶體資料庫，只保留一個
	sqlDB.SetMaxOpenConns(1)

	return &Database{DB: db}, nil
}

func (db *Database) Close() error {
	sqlDB, err := db.DB.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}

// AutoMigrate 自動遷移所有模型的資料表結構
func (db *Database) AutoMigrate() error {
	return db.DB.AutoMigrate(&models.Account{}, &models.Operation{}, &models.User{}, &models.Todo{})
}
