package repository

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_bank/internal/models"
	"todo_bank/internal/storage"
)

// backends 回傳記憶體後端，以及可用時的 SQLite 後端
func backends(t *testing.T) map[string]*Repositories {
	t.Helper()

	result := map[string]*Repositories{
		"memory": NewMemoryRepositories(),
	}

	db, err := storage.OpenSQLiteMemory()
	if err != nil {
		t.Logf("sqlite unavailable, testing memory backend only: %v", err)
		return result
	}
	t.Cleanup(func() { db.Close() })
	require.NoError(t, db.AutoMigrate())
	result["sqlite"] = NewRepositories(db)

	return result
}

var base = time.Date(2024, 3, 10, 12, 0, 0, 0, time.UTC)

func TestAccountRepository(t *testing.T) {
	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			account := &models.Account{ID: uuid.NewString(), CPF: "52998224725", Name: "Ana", CreatedAt: base, UpdatedAt: base}

			require.NoError(t, repos.Account.Create(ctx, account))

			dup := &models.Account{ID: uuid.NewString(), CPF: "52998224725", Name: "Bia", CreatedAt: base, UpdatedAt: base}
			assert.ErrorIs(t, repos.Account.Create(ctx, dup), ErrDuplicate)

			found, err := repos.Account.FindByCPF(ctx, "52998224725")
			require.NoError(t, err)
			assert.Equal(t, account.ID, found.ID)
			assert.Equal(t, "Ana", found.Name)

			found.Name = "Ana Maria"
			found.UpdatedAt = base.Add(time.Hour)
			require.NoError(t, repos.Account.Update(ctx, found))

			found, err = repos.Account.FindByCPF(ctx, "52998224725")
			require.NoError(t, err)
			assert.Equal(t, "Ana Maria", found.Name)

			require.NoError(t, repos.Account.Delete(ctx, account.ID))
			_, err = repos.Account.FindByCPF(ctx, "52998224725")
			assert.ErrorIs(t, err, ErrNotFound)

			assert.ErrorIs(t, repos.Account.Delete(ctx, account.ID), ErrNotFound)
			assert.ErrorIs(t, repos.Account.Update(ctx, account), ErrNotFound)
		})
	}
}

func TestOperationRepository(t *testing.T) {
	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			account := &models.Account{ID: uuid.NewString(), CPF: "11144477735", Name: "Caio", CreatedAt: base, UpdatedAt: base}
			require.NoError(t, repos.Account.Create(ctx, account))

			empty, err := repos.Operation.FindByAccount(ctx, account.ID)
			require.NoError(t, err)
			assert.NotNil(t, empty)
			assert.Empty(t, empty)

			times := []time.Time{
				base.Add(-24 * time.Hour),
				base,
				base.Add(11*time.Hour + 59*time.Minute),
				base.Add(12 * time.Hour),
			}
			for i, at := range times {
				op := &models.Operation{
					ID:        uuid.NewString(),
					AccountID: account.ID,
					Type:      models.OperationCredit,
					Amount:    models.Cents(100 * (i + 1)),
					CreatedAt: at,
				}
				require.NoError(t, repos.Operation.Create(ctx, op))
			}

			all, err := repos.Operation.FindByAccount(ctx, account.ID)
			require.NoError(t, err)
			require.Len(t, all, 4)
			assert.Equal(t, models.Cents(100), all[0].Amount)
			assert.Equal(t, models.Cents(400), all[3].Amount)

			dayStart := time.Date(2024, 3, 10, 0, 0, 0, 0, time.UTC)
			day, err := repos.Operation.FindByAccountBetween(ctx, account.ID, dayStart, dayStart.AddDate(0, 0, 1))
			require.NoError(t, err)
			require.Len(t, day, 2)
			assert.Equal(t, models.Cents(200), day[0].Amount)
			assert.Equal(t, models.Cents(300), day[1].Amount)

			require.NoError(t, repos.Operation.DeleteByAccount(ctx, account.ID))
			all, err = repos.Operation.FindByAccount(ctx, account.ID)
			require.NoError(t, err)
			assert.Empty(t, all)
		})
	}
}

func TestSameInstantKeepsCreationOrder(t *testing.T) {
	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			account := &models.Account{ID: uuid.NewString(), CPF: "11144477735", Name: "Caio", CreatedAt: base, UpdatedAt: base}
			require.NoError(t, repos.Account.Create(ctx, account))

			// 時鐘停住：所有記錄的建立時間相同，ID 的字典序與建立順序相反
			for i := 1; i <= 5; i++ {
				op := &models.Operation{
					ID:        fmt.Sprintf("op-%d", 9-i),
					AccountID: account.ID,
					Type:      models.OperationCredit,
					Amount:    models.Cents(i),
					CreatedAt: base,
				}
				require.NoError(t, repos.Operation.Create(ctx, op))

				todo := &models.Todo{ID: fmt.Sprintf("todo-%d", 9-i), UserID: "owner", Title: fmt.Sprint(i), Deadline: base, CreatedAt: base, UpdatedAt: base}
				require.NoError(t, repos.Todo.Create(ctx, todo))
			}

			all, err := repos.Operation.FindByAccount(ctx, account.ID)
			require.NoError(t, err)
			day, err := repos.Operation.FindByAccountBetween(ctx, account.ID, base, base.Add(time.Second))
			require.NoError(t, err)
			todos, err := repos.Todo.FindByUser(ctx, "owner")
			require.NoError(t, err)

			for _, statement := range [][]models.Operation{all, day} {
				require.Len(t, statement, 5)
				for i, op := range statement {
					assert.Equal(t, models.Cents(i+1), op.Amount)
				}
			}
			require.Len(t, todos, 5)
			for i, todo := range todos {
				assert.Equal(t, fmt.Sprint(i+1), todo.Title)
			}
		})
	}
}

func TestUserRepository(t *testing.T) {
	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			first := &models.User{ID: uuid.NewString(), Name: "Ana", Username: "ana", CreatedAt: base, UpdatedAt: base}
			second := &models.User{ID: uuid.NewString(), Name: "Bia", Username: "bia", CreatedAt: base.Add(time.Minute), UpdatedAt: base}

			require.NoError(t, repos.User.Create(ctx, first))
			require.NoError(t, repos.User.Create(ctx, second))

			dup := &models.User{ID: uuid.NewString(), Name: "Other", Username: "ana", CreatedAt: base, UpdatedAt: base}
			assert.ErrorIs(t, repos.User.Create(ctx, dup), ErrDuplicate)

			found, err := repos.User.FindByID(ctx, second.ID)
			require.NoError(t, err)
			assert.Equal(t, "bia", found.Username)

			found, err = repos.User.FindByUsername(ctx, "ana")
			require.NoError(t, err)
			assert.Equal(t, first.ID, found.ID)

			_, err = repos.User.FindByUsername(ctx, "nobody")
			assert.ErrorIs(t, err, ErrNotFound)

			all, err := repos.User.FindAll(ctx)
			require.NoError(t, err)
			require.Len(t, all, 2)
			assert.Equal(t, "ana", all[0].Username)
		})
	}
}

func TestTodoRepository(t *testing.T) {
	for name, repos := range backends(t) {
		t.Run(name, func(t *testing.T) {
			ctx := context.Background()
			owner, other := uuid.NewString(), uuid.NewString()

			todo := &models.Todo{ID: uuid.NewString(), UserID: owner, Title: "write", Deadline: base, CreatedAt: base, UpdatedAt: base}
			require.NoError(t, repos.Todo.Create(ctx, todo))
			require.NoError(t, repos.Todo.Create(ctx, &models.Todo{ID: uuid.NewString(), UserID: other, Title: "read", Deadline: base, CreatedAt: base, UpdatedAt: base}))

			mine, err := repos.Todo.FindByUser(ctx, owner)
			require.NoError(t, err)
			require.Len(t, mine, 1)
			assert.Equal(t, "write", mine[0].Title)

			todo.Title = "rewrite"
			todo.Done = true
			todo.UpdatedAt = base.Add(time.Hour)
			require.NoError(t, repos.Todo.Update(ctx, todo))

			found, err := repos.Todo.FindByID(ctx, todo.ID)
			require.NoError(t, err)
			assert.Equal(t, "rewrite", found.Title)
			assert.True(t, found.Done)

			require.NoError(t, repos.Todo.Delete(ctx, todo.ID))
			_, err = repos.Todo.FindByID(ctx, todo.ID)
			assert.ErrorIs(t, err, ErrNotFound)
			assert.ErrorIs(t, repos.Todo.Delete(ctx, todo.ID), ErrNotFound)

			none, err := repos.Todo.FindByUser(ctx, owner)
			require.NoError(t, err)
			assert.Empty(t, none)
		})
	}
}
