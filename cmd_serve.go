package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"

	"github.com/gin-gonic/gin"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"todo_bank/internal/api"
	"todo_bank/internal/repository"
	"todo_bank/internal/service"
	"todo_bank/internal/storage"
	"todo_bank/internal/utils"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP server",
	RunE:  runServe,
}

func runServe(cmd *cobra.Command, args []string) error {
	cfg, log, err := bootstrap()
	if err != nil {
		return err
	}
	defer log.Sync()

	if cfg.UsesPlaceholderSecret() {
		log.Warn("auth.secret is still the sample value, user tokens can be forged; set TODO_BANK_AUTH_SECRET")
	}

	// 初始化資料庫連接，memory driver 時 db 為 nil
	db, err := storage.Open(cfg.Storage, log)
	if err != nil {
		return err
	}
	if db != nil {
		defer db.Close()
		if err := db.AutoMigrate(); err != nil {
			return fmt.Errorf("failed to auto migrate database: %w", err)
		}
	}

	location, err := cfg.Ledger.Location()
	if err != nil {
		return err
	}

	repos := repository.NewRepositories(db)
	services := service.NewServices(repos, service.Options{
		Tokens:   utils.NewTokenManager(cfg.Auth.Secret, cfg.Auth.TokenTTL),
		Location: location,
		Logger:   log,
	})

	gin.SetMode(cfg.Server.Mode)
	server := &http.Server{
		Addr:    cfg.Server.Address,
		Handler: api.NewRouter(services, log),
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errCh := make(chan error, 1)
	go func() {
		log.Info("server listening",
			zap.String("address", cfg.Server.Address),
			zap.String("storage", cfg.Storage.Driver))
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err := <-errCh:
		if err != nil {
			return fmt.Errorf("failed to run server: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	log.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.Server.ShutdownTimeout)
	defer cancel()

	return server.Shutdown(shutdownCtx)
}
