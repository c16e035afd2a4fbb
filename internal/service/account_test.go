package service

import (
	"context"
	"sync"
	"testing"
	"time"
	_ "time/tzdata"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_bank/internal/models"
	"todo_bank/internal/repository"
)

func newAccountService(t *testing.T, clock *fakeClock, loc *time.Location) (*AccountService, *recordingPublisher) {
	t.Helper()
	events := &recordingPublisher{}
	repos := repository.NewMemoryRepositories()
	return NewAccountService(repos.Account, repos.Operation, events, loc, clock.Now), events
}

func TestCreateAccount(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t, newFakeClock(time.Now()), time.UTC)

	account, err := svc.CreateAccount(ctx, "529.982.247-25", "  Ana  ")
	require.NoError(t, err)
	assert.NotEmpty(t, account.ID)
	assert.Equal(t, validCPF, account.CPF)
	assert.Equal(t, "Ana", account.Name)
	assert.NotNil(t, account.Statement)

	_, err = svc.CreateAccount(ctx, validCPF, "Another")
	assert.ErrorIs(t, err, ErrAccountExists)

	_, err = svc.CreateAccount(ctx, "12345678900", "Bad")
	assert.ErrorIs(t, err, ErrInvalidCPF)

	_, err = svc.CreateAccount(ctx, otherValidCPF, " ")
	assert.ErrorIs(t, err, ErrInvalidInput)
}

func TestFindByCPF(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t, newFakeClock(time.Now()), time.UTC)

	created, err := svc.CreateAccount(ctx, validCPF, "Ana")
	require.NoError(t, err)

	found, err := svc.FindByCPF(ctx, "529.982.247-25")
	require.NoError(t, err)
	assert.Equal(t, created.ID, found.ID)

	_, err = svc.FindByCPF(ctx, otherValidCPF)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.FindByCPF(ctx, "")
	assert.ErrorIs(t, err, ErrAccountNotFound)

	_, err = svc.FindByCPF(ctx, "123")
	assert.ErrorIs(t, err, ErrInvalidCPF)
}

func TestDepositWithdrawBalance(t *testing.T) {
	ctx := context.Background()
	svc, events := newAccountService(t, newFakeClock(time.Now()), time.UTC)

	account, err := svc.CreateAccount(ctx, validCPF, "Ana")
	require.NoError(t, err)

	op, err := svc.Deposit(ctx, account, "salary", 10000)
	require.NoError(t, err)
	assert.Equal(t, models.OperationCredit, op.Type)
	assert.Equal(t, "salary", op.Description)

	_, err = svc.Deposit(ctx, account, "", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Deposit(ctx, account, "", -5)
	assert.ErrorIs(t, err, ErrInvalidAmount)
	_, err = svc.Deposit(ctx, account, "  ", 100)
	assert.ErrorIs(t, err, ErrInvalidInput)

	op, err = svc.Withdraw(ctx, account, "", 2550)
	require.NoError(t, err)
	assert.Equal(t, models.OperationDebit, op.Type)

	_, err = svc.Withdraw(ctx, account, "", 7451)
	assert.ErrorIs(t, err, ErrInsufficientFunds)

	_, err = svc.Withdraw(ctx, account, "", 0)
	assert.ErrorIs(t, err, ErrInvalidAmount)

	balance, err := svc.Balance(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, models.Cents(7450), balance)

	// 剛好等於餘額的提款是允許的
	_, err = svc.Withdraw(ctx, account, "", 7450)
	require.NoError(t, err)

	balance, err = svc.Balance(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, models.Cents(0), balance)

	statement, err := svc.Statement(ctx, account)
	require.NoError(t, err)
	assert.Len(t, statement, 3)

	assert.Equal(t, []string{models.EventDeposit, models.EventWithdraw, models.EventWithdraw}, events.types())
}

func TestConcurrentWithdrawalsNeverOverdraw(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t, newFakeClock(time.Now()), time.UTC)

	account, err := svc.CreateAccount(ctx, validCPF, "Ana")
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, account, "opening", 1000)
	require.NoError(t, err)

	var wg sync.WaitGroup
	var mu sync.Mutex
	succeeded := 0
	for i := 0; i < 50; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if _, err := svc.Withdraw(ctx, account, "", 100); err == nil {
				mu.Lock()
				succeeded++
				mu.Unlock()
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 10, succeeded)
	balance, err := svc.Balance(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, models.Cents(0), balance)
}

func TestStatementByDate(t *testing.T) {
	ctx := context.Background()
	saoPaulo, err := time.LoadLocation("America/Sao_Paulo")
	require.NoError(t, err)

	clock := newFakeClock(time.Date(2024, 3, 10, 23, 30, 0, 0, saoPaulo))
	svc, _ := newAccountService(t, clock, saoPaulo)

	account, err := svc.CreateAccount(ctx, validCPF, "Ana")
	require.NoError(t, err)

	// 23:30 local on the 10th is already the 11th in UTC
	_, err = svc.Deposit(ctx, account, "late", 100)
	require.NoError(t, err)

	clock.Set(time.Date(2024, 3, 11, 0, 30, 0, 0, saoPaulo))
	_, err = svc.Deposit(ctx, account, "next day", 200)
	require.NoError(t, err)

	day, err := svc.StatementByDate(ctx, account, "2024-03-10")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "late", day[0].Description)

	day, err = svc.StatementByDate(ctx, account, "2024-03-11")
	require.NoError(t, err)
	require.Len(t, day, 1)
	assert.Equal(t, "next day", day[0].Description)

	day, err = svc.StatementByDate(ctx, account, "2024-03-12")
	require.NoError(t, err)
	assert.Empty(t, day)

	_, err = svc.StatementByDate(ctx, account, "10/03/2024")
	assert.ErrorIs(t, err, ErrInvalidDate)
}

func TestUpdateAndDeleteAccount(t *testing.T) {
	ctx := context.Background()
	svc, events := newAccountService(t, newFakeClock(time.Now()), time.UTC)

	account, err := svc.CreateAccount(ctx, validCPF, "Ana")
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, account, "opening", 500)
	require.NoError(t, err)

	updated, err := svc.UpdateName(ctx, account, "Ana Maria")
	require.NoError(t, err)
	assert.Equal(t, "Ana Maria", updated.Name)
	assert.Contains(t, events.types(), models.EventAccountUpdated)

	_, err = svc.UpdateName(ctx, account, "")
	assert.ErrorIs(t, err, ErrInvalidInput)

	full, err := svc.GetAccount(ctx, updated)
	require.NoError(t, err)
	assert.Len(t, full.Statement, 1)

	require.NoError(t, svc.DeleteAccount(ctx, account))
	_, err = svc.FindByCPF(ctx, validCPF)
	assert.ErrorIs(t, err, ErrAccountNotFound)
	assert.ErrorIs(t, svc.DeleteAccount(ctx, account), ErrAccountNotFound)

	// the CPF is free again and the new account starts empty
	again, err := svc.CreateAccount(ctx, validCPF, "Ana")
	require.NoError(t, err)
	balance, err := svc.Balance(ctx, again)
	require.NoError(t, err)
	assert.Equal(t, models.Cents(0), balance)
}

func TestDepositNeverOverflowsBalance(t *testing.T) {
	ctx := context.Background()
	svc, _ := newAccountService(t, newFakeClock(time.Now()), time.UTC)

	account, err := svc.CreateAccount(ctx, validCPF, "Ana")
	require.NoError(t, err)

	_, err = svc.Deposit(ctx, account, "too big", models.MaxCents+1)
	assert.ErrorIs(t, err, ErrAmountTooLarge)

	_, err = svc.Deposit(ctx, account, "half", models.MaxCents/2)
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, account, "other half", models.MaxCents/2)
	require.NoError(t, err)

	// 餘額已達上限，再存一分錢也不行
	_, err = svc.Deposit(ctx, account, "one more", 1)
	assert.ErrorIs(t, err, ErrAmountTooLarge)

	balance, err := svc.Balance(ctx, account)
	require.NoError(t, err)
	assert.Equal(t, models.MaxCents, balance)

	_, err = svc.Withdraw(ctx, account, "", 1)
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, account, "refill", 1)
	require.NoError(t, err)
}

func TestWritesAfterDeleteAreRejected(t *testing.T) {
	ctx := context.Background()
	repos := repository.NewMemoryRepositories()
	svc := NewAccountService(repos.Account, repos.Operation, nil, time.UTC, newFakeClock(time.Now()).Now)

	account, err := svc.CreateAccount(ctx, validCPF, "Ana")
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, account, "opening", 500)
	require.NoError(t, err)

	// account 是刪除前由中介層查到的舊值
	require.NoError(t, svc.DeleteAccount(ctx, account))

	_, err = svc.Deposit(ctx, account, "late", 100)
	assert.ErrorIs(t, err, ErrAccountNotFound)
	_, err = svc.Withdraw(ctx, account, "late", 100)
	assert.ErrorIs(t, err, ErrAccountNotFound)

	operations, err := repos.Operation.FindByAccount(ctx, account.ID)
	require.NoError(t, err)
	assert.Empty(t, operations)

	// 同一 CPF 重新開戶後，舊帳戶的參照仍然無效
	again, err := svc.CreateAccount(ctx, validCPF, "Ana")
	require.NoError(t, err)
	_, err = svc.Deposit(ctx, account, "stale", 100)
	assert.ErrorIs(t, err, ErrAccountNotFound)
	_, err = svc.Deposit(ctx, again, "fresh", 100)
	require.NoError(t, err)
}
