package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"todo_bank/internal/storage"
)

var migrateCmd = &cobra.Command{
	Use:   "migrate",
	Short: "Create or update the database schema",
	RunE: func(cmd *cobra.Command, args []string) error {
		cfg, log, err := bootstrap()
		if err != nil {
			return err
		}
		defer log.Sync()

		db, err := storage.Open(cfg.Storage, log)
		if err != nil {
			return err
		}
		if db == nil {
			log.Info("memory storage needs no migration")
			return nil
		}
		defer db.Close()

		// 根據模型自動創建或更新資料表
		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to auto migrate database: %w", err)
		}

		log.Info("migration complete", zap.String("driver", cfg.Storage.Driver))
		return nil
	},
}
