package repository

import (
	"context"
	"time"

	"todo_bank/internal/models"
	"todo_bank/internal/storage"
)

// OperationRepository 儲存帳戶流水，所有查詢依建立時間由舊到新排序
type OperationRepository interface {
	Create(ctx context.Context, op *models.Operation) error
	FindByAccount(ctx context.Context, accountID string) ([]models.Operation, error)
	// FindByAccountBetween 查詢 [from, to) 區間內的流水
	FindByAccountBetween(ctx context.Context, accountID string, from, to time.Time) ([]models.Operation, error)
	DeleteByAccount(ctx context.Context, accountID string) error
}

type operationRepository struct {
	db *storage.Database
}

func NewOperationRepository(db *storage.Database) OperationRepository {
	return &operationRepository{db: db}
}

func (r *operationRepository) Create(ctx context.Context, op *models.Operation) error {
	return translate(r.db.WithContext(ctx).Create(op).Error)
}

func (r *operationRepository) FindByAccount(ctx context.Context, accountID string) ([]models.Operation, error) {
	operations := []models.Operation{}
	err := r.db.WithContext(ctx).
		Where("account_id = ?", accountID).
		Order("created_at asc, seq asc").
		Find(&operations).Error
	return operations, translate(err)
}

func (r *operationRepository) FindByAccountBetween(ctx context.Context, accountID string, from, to time.Time) ([]models.Operation, error) {
	operations := []models.Operation{}
	err := r.db.WithContext(ctx).
		Where("account_id = ? AND created_at >= ? AND created_at < ?", accountID, from, to).
		Order("created_at asc, seq asc").
		Find(&operations).Error
	return operations, translate(err)
}

func (r *operationRepository) DeleteByAccount(ctx context.Context, accountID string) error {
	return translate(r.db.WithContext(ctx).Where("account_id = ?", accountID).Delete(&models.Operation{}).Error)
}
