package repository

import (
	"context"

	"todo_bank/internal/models"
	"todo_bank/internal/storage"
)

type AccountRepository interface {
	Create(ctx context.Context, account *models.Account) error
	FindByCPF(ctx context.Context, cpf string) (*models.Account, error)
	Update(ctx context.Context, account *models.Account) error
	Delete(ctx context.Context, id string) error
}

type accountRepository struct {
	db *storage.Database
}

func NewAccountRepository(db *storage.Database) AccountRepository {
	return &accountRepository{db: db}
}

func (r *accountRepository) Create(ctx context.Context, account *models.Account) error {
	return translate(r.db.WithContext(ctx).Omit("Statement").Create(account).Error)
}

func (r *accountRepository) FindByCPF(ctx context.Context, cpf string) (*models.Account, error) {
	var account models.Account
	err := r.db.WithContext(ctx).Where("cpf = ?", cpf).First(&account).Error
	if err != nil {
		return nil, translate(err)
	}
	return &account, nil
}

func (r *accountRepository) Update(ctx context.Context, account *models.Account) error {
	tx := r.db.WithContext(ctx).Model(&models.Account{}).
		Where("id = ?", account.ID).
		Updates(map[string]any{"name": account.Name, "updated_at": account.UpdatedAt})
	return affected(tx)
}

func (r *accountRepository) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Account{}, "id = ?", id))
}
