package repository

import (
	"context"
	"slices"
	"sync"
	"time"

	"todo_bank/internal/models"
)

// 記憶體後端：每個 repository 以讀寫鎖保護自己的資料，回傳值一律是副本

type memoryAccountRepository struct {
	mu       sync.RWMutex
	accounts map[string]models.Account // id -> account
	byCPF    map[string]string         // cpf -> id
}

func NewMemoryAccountRepository() AccountRepository {
	return &memoryAccountRepository{
		accounts: make(map[string]models.Account),
		byCPF:    make(map[string]string),
	}
}

func (r *memoryAccountRepository) Create(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.byCPF[account.CPF]; ok {
		return ErrDuplicate
	}
	if _, ok := r.accounts[account.ID]; ok {
		return ErrDuplicate
	}

	stored := *account
	stored.Statement = nil
	r.accounts[account.ID] = stored
	r.byCPF[account.CPF] = account.ID
	return nil
}

func (r *memoryAccountRepository) FindByCPF(_ context.Context, cpf string) (*models.Account, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.byCPF[cpf]
	if !ok {
		return nil, ErrNotFound
	}
	account := r.accounts[id]
	return &account, nil
}

func (r *memoryAccountRepository) Update(_ context.Context, account *models.Account) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[account.ID]
	if !ok {
		return ErrNotFound
	}
	stored.Name = account.Name
	stored.UpdatedAt = account.UpdatedAt
	r.accounts[account.ID] = stored
	return nil
}

func (r *memoryAccountRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.accounts[id]
	if !ok {
		return ErrNotFound
	}
	delete(r.byCPF, stored.CPF)
	delete(r.accounts, id)
	return nil
}

type memoryOperationRepository struct {
	mu         sync.RWMutex
	operations map[string][]models.Operation // accountID -> 依插入順序的流水
}

func NewMemoryOperationRepository() OperationRepository {
	return &memoryOperationRepository{
		operations: make(map[string][]models.Operation),
	}
}

func (r *memoryOperationRepository) Create(_ context.Context, op *models.Operation) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.operations[op.AccountID] = append(r.operations[op.AccountID], *op)
	return nil
}

func (r *memoryOperationRepository) FindByAccount(_ context.Context, accountID string) ([]models.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return append([]models.Operation{}, r.operations[accountID]...), nil
}

func (r *memoryOperationRepository) FindByAccountBetween(_ context.Context, accountID string, from, to time.Time) ([]models.Operation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	operations := []models.Operation{}
	for _, op := range r.operations[accountID] {
		if !op.CreatedAt.Before(from) && op.CreatedAt.Before(to) {
			operations = append(operations, op)
		}
	}
	return operations, nil
}

func (r *memoryOperationRepository) DeleteByAccount(_ context.Context, accountID string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	delete(r.operations, accountID)
	return nil
}

type memoryUserRepository struct {
	mu    sync.RWMutex
	users []models.User
}

func NewMemoryUserRepository() UserRepository {
	return &memoryUserRepository{}
}

func (r *memoryUserRepository) Create(_ context.Context, user *models.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, u := range r.users {
		if u.Username == user.Username || u.ID == user.ID {
			return ErrDuplicate
		}
	}
	r.users = append(r.users, *user)
	return nil
}

func (r *memoryUserRepository) FindByID(_ context.Context, id string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.ID == id })
}

func (r *memoryUserRepository) FindByUsername(_ context.Context, username string) (*models.User, error) {
	return r.find(func(u models.User) bool { return u.Username == username })
}

func (r *memoryUserRepository) find(match func(models.User) bool) (*models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := slices.IndexFunc(r.users, match)
	if i < 0 {
		return nil, ErrNotFound
	}
	user := r.users[i]
	return &user, nil
}

func (r *memoryUserRepository) FindAll(_ context.Context) ([]models.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	users := make([]models.User, len(r.users))
	copy(users, r.users)
	return users, nil
}

type memoryTodoRepository struct {
	mu    sync.RWMutex
	todos []models.Todo
}

func NewMemoryTodoRepository() TodoRepository {
	return &memoryTodoRepository{}
}

func (r *memoryTodoRepository) Create(_ context.Context, todo *models.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if slices.ContainsFunc(r.todos, func(t models.Todo) bool { return t.ID == todo.ID }) {
		return ErrDuplicate
	}
	r.todos = append(r.todos, *todo)
	return nil
}

func (r *memoryTodoRepository) FindByID(_ context.Context, id string) (*models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	i := r.index(id)
	if i < 0 {
		return nil, ErrNotFound
	}
	todo := r.todos[i]
	return &todo, nil
}

func (r *memoryTodoRepository) FindByUser(_ context.Context, userID string) ([]models.Todo, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	todos := []models.Todo{}
	for _, todo := range r.todos {
		if todo.UserID == userID {
			todos = append(todos, todo)
		}
	}
	return todos, nil
}

func (r *memoryTodoRepository) Update(_ context.Context, todo *models.Todo) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(todo.ID)
	if i < 0 {
		return ErrNotFound
	}
	stored := &r.todos[i]
	stored.Title = todo.Title
	stored.Deadline = todo.Deadline
	stored.Done = todo.Done
	stored.UpdatedAt = todo.UpdatedAt
	return nil
}

func (r *memoryTodoRepository) Delete(_ context.Context, id string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	i := r.index(id)
	if i < 0 {
		return ErrNotFound
	}
	r.todos = slices.Delete(r.todos, i, i+1)
	return nil
}

// index 必須在持有鎖的情況下呼叫
func (r *memoryTodoRepository) index(id string) int {
	return slices.IndexFunc(r.todos, func(t models.Todo) bool { return t.ID == id })
}
