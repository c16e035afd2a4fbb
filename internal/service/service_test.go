package service

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"todo_bank/internal/repository"
	"todo_bank/internal/utils"
)

const (
	validCPF      = "52998224725"
	otherValidCPF = "11144477735"
)

type recordedEvent struct {
	Topic   string
	Type    string
	Payload any
}

// recordingPublisher 記錄服務發布的事件
type recordingPublisher struct {
	mu     sync.Mutex
	events []recordedEvent
}

func (p *recordingPublisher) Publish(topic, eventType string, payload any) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.events = append(p.events, recordedEvent{Topic: topic, Type: eventType, Payload: payload})
}

func (p *recordingPublisher) types() []string {
	p.mu.Lock()
	defer p.mu.Unlock()
	types := make([]string, 0, len(p.events))
	for _, e := range p.events {
		types = append(types, e.Type)
	}
	return types
}

// fakeClock 是可手動推進的時鐘
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func newFakeClock(now time.Time) *fakeClock {
	return &fakeClock{now: now}
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Set(now time.Time) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = now
}

func newTestServices(clock *fakeClock) *Services {
	return NewServices(repository.NewMemoryRepositories(), Options{
		Tokens: utils.NewTokenManager("test-secret", time.Hour),
		Now:    clock.Now,
	})
}

func TestNewServicesSharesEventHub(t *testing.T) {
	ctx := context.Background()
	clock := newFakeClock(time.Date(2024, 1, 2, 3, 4, 5, 0, time.UTC))
	services := newTestServices(clock)
	require.NotNil(t, services.Events)

	account, err := services.Account.CreateAccount(ctx, validCPF, "Ana")
	require.NoError(t, err)
	assert.Equal(t, clock.Now(), account.CreatedAt)

	user, _, err := services.User.CreateUser(ctx, "Ana", "ana")
	require.NoError(t, err)

	todo, err := services.Todo.CreateTodo(ctx, user, "pay bills", clock.Now())
	require.NoError(t, err)
	assert.Equal(t, user.ID, todo.UserID)
}
