package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"todo_bank/internal/models"
	"todo_bank/internal/repository"
	"todo_bank/internal/utils"
)

type UserService struct {
	userRepo repository.UserRepository
	tokens   *utils.TokenManager
	now      func() time.Time
}

func NewUserService(userRepo repository.UserRepository, tokens *utils.TokenManager, now func() time.Time) *UserService {
	return &UserService{userRepo: userRepo, tokens: tokens, now: now}
}

// CreateUser 建立新用戶並簽發 token
func (s *UserService) CreateUser(ctx context.Context, name, username string) (*models.User, string, error) {
	name, username = strings.TrimSpace(name), strings.TrimSpace(username)
	if name == "" || username == "" {
		return nil, "", fmt.Errorf("%w: name and username are required", ErrInvalidInput)
	}

	now := s.now().UTC()
	user := &models.User{
		ID:        uuid.NewString(),
		Name:      name,
		Username:  username,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.userRepo.Create(ctx, user); err != nil {
		if errors.Is(err, repository.ErrDuplicate) {
			return nil, "", ErrUserExists
		}
		return nil, "", fmt.Errorf("create user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}

	return user, token, nil
}

// Login 為已存在的用戶重新簽發 token
func (s *UserService) Login(ctx context.Context, username string) (*models.User, string, error) {
	user, err := s.userRepo.FindByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, "", ErrUserNotFound
		}
		return nil, "", fmt.Errorf("find user: %w", err)
	}

	token, err := s.tokens.GenerateToken(user.ID)
	if err != nil {
		return nil, "", fmt.Errorf("issue token: %w", err)
	}
	return user, token, nil
}

func (s *UserService) GetUser(ctx context.Context, id string) (*models.User, error) {
	user, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("find user: %w", err)
	}
	return user, nil
}

func (s *UserService) ListUsers(ctx context.Context) ([]models.User, error) {
	users, err := s.userRepo.FindAll(ctx)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	return users, nil
}

// Authenticate 驗證 token 並回傳對應的用戶
func (s *UserService) Authenticate(ctx context.Context, token string) (*models.User, error) {
	if token == "" {
		return nil, ErrInvalidToken
	}

	userID, err := s.tokens.ParseToken(token)
	if err != nil {
		return nil, ErrInvalidToken
	}

	return s.GetUser(ctx, userID)
}
