package repository

import (
	"errors"

	"gorm.io/gorm"

	"todo_bank/internal/storage"
)

var (
	ErrNotFound  = errors.New("record not found")
	ErrDuplicate = errors.New("duplicate record")
)

type Repositories struct {
	Account   AccountRepository
	Operation OperationRepository
	User      UserRepository
	Todo      TodoRepository
}

// NewRepositories 建立 SQL 後端的 repositories；db 為 nil 時使用記憶體後端
func NewRepositories(db *storage.Database) *Repositories {
	if db == nil {
		return NewMemoryRepositories()
	}
	return &Repositories{
		Account:   NewAccountRepository(db),
		Operation: NewOperationRepository(db),
		User:      NewUserRepository(db),
		Todo:      NewTodoRepository(db),
	}
}

func NewMemoryRepositories() *Repositories {
	return &Repositories{
		Account:   NewMemoryAccountRepository(),
		Operation: NewMemoryOperationRepository(),
		User:      NewMemoryUserRepository(),
		Todo:      NewMemoryTodoRepository(),
	}
}

// translate 將 gorm 的錯誤轉換為 repository 的錯誤
func translate(err error) error {
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, gorm.ErrDuplicatedKey):
		return ErrDuplicate
	default:
		return err
	}
}

// affected 在沒有任何資料被修改時回傳 ErrNotFound
func affected(tx *gorm.DB) error {
	if tx.Error != nil {
		return translate(tx.Error)
	}
	if tx.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}
