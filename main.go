package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"todo_bank/internal/logger"
	"todo_bank/pkg/config"
)

var configPath string

var rootCmd = &cobra.Command{
	Use:   "todo_bank",
	Short: "Ledger and todo REST API server",
	Long: `todo_bank serves two JSON APIs from one process: a bank-account ledger
identified by CPF and a user/todo manager identified by user tokens.

Running without a subcommand is the same as "todo_bank serve".`,
	SilenceUsage: true,
	RunE:         runServe,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "config file (default: ./pkg/config/config.yaml)")
	rootCmd.AddCommand(serveCmd, migrateCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// bootstrap 載入配置並建立 logger，所有子命令共用
func bootstrap() (*config.Config, *zap.Logger, error) {
	cfg, err := config.Load(configPath)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to load config: %w", err)
	}

	log, err := logger.New(cfg.Log.Level, cfg.Log.Development)
	if err != nil {
		return nil, nil, err
	}

	return cfg, log, nil
}
