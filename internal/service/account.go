package service

import (
	"context"
	"errors"
	"fmt"
	"hash/fnv"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"todo_bank/internal/models"
	"todo_bank/internal/repository"
	"todo_bank/internal/utils"
)

const lockStripes = 64

// AccountService 處理帳戶與流水相關的業務邏輯
type AccountService struct {
	accountRepo   repository.AccountRepository
	operationRepo repository.OperationRepository
	events        EventPublisher
	location      *time.Location
	now           func() time.Time

	// 同一帳戶的寫入操作依序執行，確保提款的餘額檢查與記帳不可分割
	locks [lockStripes]sync.Mutex
}

func NewAccountService(accountRepo repository.AccountRepository, operationRepo repository.OperationRepository, events EventPublisher, location *time.Location, now func() time.Time) *AccountService {
	if events == nil {
		events = NopPublisher{}
	}
	return &AccountService{
		accountRepo:   accountRepo,
		operationRepo: operationRepo,
		events:        events,
		location:      location,
		now:           now,
	}
}

func (s *AccountService) lock(accountID string) func() {
	h := fnv.New32a()
	h.Write([]byte(accountID))
	mu := &s.locks[h.Sum32()%lockStripes]
	mu.Lock()
	return mu.Unlock
}

// CreateAccount 以 CPF 開立新帳戶
func (s *AccountService) CreateAccount(ctx context.Context, cpf, name string) (*models.Account, error) {
	cpf = utils.NormalizeCPF(cpf)
	if !utils.ValidCPF(cpf) {
		return nil, ErrInvalidCPF
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	account := &models.Account{
		ID:        uuid.NewString(),
		CPF:       cpf,
		Name:      name,
		CreatedAt: now,
		UpdatedAt: now,
		Statement: []models.Operation{},
	}

	if err := s.accountRepo.Create(ctx, account); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, ErrAccountExists
		}
		return nil, fmt.Errorf("create account: %w", err)
	}

	return account, nil
}

// FindByCPF 查詢帳戶（不含流水）
func (s *AccountService) FindByCPF(ctx context.Context, cpf string) (*models.Account, error) {
	cpf = utils.NormalizeCPF(cpf)
	if cpf == "" {
		return nil, ErrAccountNotFound
	}
	if !utils.ValidCPF(cpf) {
		return nil, ErrInvalidCPF
	}

	account, err := s.accountRepo.FindByCPF(ctx, cpf)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("find account: %w", err)
	}
	return account, nil
}

// GetAccount 回傳帳戶及完整流水
func (s *AccountService) GetAccount(ctx context.Context, account *models.Account) (*models.Account, error) {
	statement, err := s.Statement(ctx, account)
	if err != nil {
		return nil, err
	}

	result := *account
	result.Statement = statement
	return &result, nil
}

func (s *AccountService) UpdateName(ctx context.Context, account *models.Account, name string) (*models.Account, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return nil, fmt.Errorf("%w: name is required", ErrInvalidInput)
	}

	updated := *account
	updated.Name = name
	updated.UpdatedAt = s.now().UTC()

	if err := s.accountRepo.Update(ctx, &updated); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrAccountNotFound
		}
		return nil, fmt.Errorf("update account: %w", err)
	}

	s.events.Publish(models.AccountTopic(account.ID), models.EventAccountUpdated, &updated)
	return &updated, nil
}

// DeleteAccount 刪除帳戶及其所有流水
func (s *AccountService) DeleteAccount(ctx context.Context, account *models.Account) error {
	unlock := s.lock(account.ID)
	defer unlock()

	if err := s.accountRepo.Delete(ctx, account.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("delete account: %w", err)
	}

	if err := s.operationRepo.DeleteByAccount(ctx, account.ID); err != nil {
		return fmt.Errorf("delete statement: %w", err)
	}
	return nil
}

func (s *AccountService) Statement(ctx context.Context, account *models.Account) ([]models.Operation, error) {
	statement, err := s.operationRepo.FindByAccount(ctx, account.ID)
	if err != nil {
		return nil, fmt.Errorf("load statement: %w", err)
	}
	return statement, nil
}

// StatementByDate 回傳指定日期（帳本時區）內建立的流水，date 格式為 YYYY-MM-DD
func (s *AccountService) StatementByDate(ctx context.Context, account *models.Account, date string) ([]models.Operation, error) {
	day, err := time.ParseInLocation(time.DateOnly, strings.TrimSpace(date), s.location)
	if err != nil {
		return nil, ErrInvalidDate
	}

	from := day.UTC()
	to := day.AddDate(0, 0, 1).UTC()

	statement, err := s.operationRepo.FindByAccountBetween(ctx, account.ID, from, to)
	if err != nil {
		return nil, fmt.Errorf("load statement: %w", err)
	}
	return statement, nil
}

func (s *AccountService) Balance(ctx context.Context, account *models.Account) (models.Cents, error) {
	statement, err := s.Statement(ctx, account)
	if err != nil {
		return 0, err
	}
	return models.Balance(statement), nil
}

// Deposit 存款，記錄一筆 credit 流水；存款後餘額不得超過 models.MaxCents
func (s *AccountService) Deposit(ctx context.Context, account *models.Account, description string, amount models.Cents) (*models.Operation, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}
	if amount > models.MaxCents {
		return nil, ErrAmountTooLarge
	}
	if strings.TrimSpace(description) == "" {
		return nil, fmt.Errorf("%w: description is required", ErrInvalidInput)
	}

	unlock := s.lock(account.ID)
	defer unlock()

	if err := s.ensureExists(ctx, account); err != nil {
		return nil, err
	}

	balance, err := s.Balance(ctx, account)
	if err != nil {
		return nil, err
	}
	if balance > models.MaxCents-amount {
		return nil, ErrAmountTooLarge
	}

	op, err := s.record(ctx, account, models.OperationCredit, description, amount)
	if err != nil {
		return nil, err
	}

	s.events.Publish(models.AccountTopic(account.ID), models.EventDeposit, op)
	return op, nil
}

// Withdraw 提款；餘額不足時回傳 ErrInsufficientFunds
func (s *AccountService) Withdraw(ctx context.Context, account *models.Account, description string, amount models.Cents) (*models.Operation, error) {
	if amount <= 0 {
		return nil, ErrInvalidAmount
	}

	unlock := s.lock(account.ID)
	defer unlock()

	if err := s.ensureExists(ctx, account); err != nil {
		return nil, err
	}

	balance, err := s.Balance(ctx, account)
	if err != nil {
		return nil, err
	}
	if balance < amount {
		return nil, ErrInsufficientFunds
	}

	op, err := s.record(ctx, account, models.OperationDebit, description, amount)
	if err != nil {
		return nil, err
	}

	s.events.Publish(models.AccountTopic(account.ID), models.EventWithdraw, op)
	return op, nil
}

// ensureExists 在持有帳戶鎖後重新確認帳戶仍存在；中介層查到的帳戶可能已被並行的刪除移除
func (s *AccountService) ensureExists(ctx context.Context, account *models.Account) error {
	current, err := s.accountRepo.FindByCPF(ctx, account.CPF)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrAccountNotFound
		}
		return fmt.Errorf("find account: %w", err)
	}
	if current.ID != account.ID {
		return ErrAccountNotFound
	}
	return nil
}

// record 必須在持有帳戶鎖的情況下呼叫
func (s *AccountService) record(ctx context.Context, account *models.Account, kind models.OperationType, description string, amount models.Cents) (*models.Operation, error) {
	op := &models.Operation{
		ID:          uuid.NewString(),
		AccountID:   account.ID,
		Type:        kind,
		Description: strings.TrimSpace(description),
		Amount:      amount,
		CreatedAt:   s.now().UTC(),
	}

	if err := s.operationRepo.Create(ctx, op); err != nil {
		return nil, fmt.Errorf("record %s: %w", kind, err)
	}
	return op, nil
}
