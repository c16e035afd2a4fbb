package service

import (
	"time"

	"go.uber.org/zap"

	"todo_bank/internal/repository"
	"todo_bank/internal/utils"
)

type Services struct {
	Account *AccountService
	User    *UserService
	Todo    *TodoService
	Events  *EventHub
}

// Options 收集建立服務所需的外部依賴
type Options struct {
	Tokens   *utils.TokenManager
	Location *time.Location
	Logger   *zap.Logger
	Now      func() time.Time
}

func NewServices(repos *repository.Repositories, opts Options) *Services {
	if opts.Now == nil {
		opts.Now = time.Now
	}
	if opts.Location == nil {
		opts.Location = time.UTC
	}
	if opts.Logger == nil {
		opts.Logger = zap.NewNop()
	}

	hub := NewEventHub(opts.Logger)

	return &Services{
		Account: NewAccountService(repos.Account, repos.Operation, hub, opts.Location, opts.Now),
		User:    NewUserService(repos.User, opts.Tokens, opts.Now),
		Todo:    NewTodoService(repos.Todo, hub, opts.Now),
		Events:  hub,
	}
}
