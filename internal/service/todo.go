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
)

// TodoChanges 描述更新待辦事項時要修改的欄位，nil 表示不變
type TodoChanges struct {
	Title    *string
	Deadline *time.Time
}

type TodoService struct {
	todoRepo repository.TodoRepository
	events   EventPublisher
	now      func() time.Time
}

func NewTodoService(todoRepo repository.TodoRepository, events EventPublisher, now func() time.Time) *TodoService {
	if events == nil {
		events = NopPublisher{}
	}
	return &TodoService{todoRepo: todoRepo, events: events, now: now}
}

// ParseDeadline 接受 RFC3339 或 YYYY-MM-DD 格式的期限
func ParseDeadline(value string) (time.Time, error) {
	value = strings.TrimSpace(value)
	if t, err := time.Parse(time.RFC3339, value); err == nil {
		return t.UTC(), nil
	}
	if t, err := time.Parse(time.DateOnly, value); err == nil {
		return t, nil
	}
	return time.Time{}, fmt.Errorf("%w: deadline must be RFC3339 or YYYY-MM-DD", ErrInvalidInput)
}

func (s *TodoService) CreateTodo(ctx context.Context, user *models.User, title string, deadline time.Time) (*models.Todo, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return nil, fmt.Errorf("%w: title is required", ErrInvalidInput)
	}

	now := s.now().UTC()
	todo := &models.Todo{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Title:     title,
		Deadline:  deadline.UTC(),
		Done:      false,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.todoRepo.Create(ctx, todo); err != nil {
		return nil, fmt.Errorf("create todo: %w", err)
	}

	s.events.Publish(models.UserTopic(user.ID), models.EventTodoCreated, todo)
	return todo, nil
}

func (s *TodoService) ListTodos(ctx context.Context, user *models.User) ([]models.Todo, error) {
	todos, err := s.todoRepo.FindByUser(ctx, user.ID)
	if err != nil {
		return nil, fmt.Errorf("list todos: %w", err)
	}
	return todos, nil
}

// GetTodo 回傳屬於該用戶的待辦事項；屬於其他用戶時回傳 ErrTodoForbidden
func (s *TodoService) GetTodo(ctx context.Context, user *models.User, id string) (*models.Todo, error) {
	todo, err := s.todoRepo.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return nil, ErrTodoNotFound
		}
		return nil, fmt.Errorf("find todo: %w", err)
	}

	if todo.UserID != user.ID {
		return nil, ErrTodoForbidden
	}
	return todo, nil
}

func (s *TodoService) UpdateTodo(ctx context.Context, user *models.User, id string, changes TodoChanges) (*models.Todo, error) {
	todo, err := s.GetTodo(ctx, user, id)
	if err != nil {
		return nil, err
	}

	if changes.Title != nil {
		title := strings.TrimSpace(*changes.Title)
		if title == "" {
			return nil, fmt.Errorf("%w: title must not be empty", ErrInvalidInput)
		}
		todo.Title = title
	}
	if changes.Deadline != nil {
		todo.Deadline = changes.Deadline.UTC()
	}

	if err := s.save(ctx, todo); err != nil {
		return nil, err
	}

	s.events.Publish(models.UserTopic(user.ID), models.EventTodoUpdated, todo)
	return todo, nil
}

// CompleteTodo 將待辦事項標記為完成
func (s *TodoService) CompleteTodo(ctx context.Context, user *models.User, id string) (*models.Todo, error) {
	todo, err := s.GetTodo(ctx, user, id)
	if err != nil {
		return nil, err
	}

	todo.Done = true
	if err := s.save(ctx, todo); err != nil {
		return nil, err
	}

	s.events.Publish(models.UserTopic(user.ID), models.EventTodoDone, todo)
	return todo, nil
}

func (s *TodoService) DeleteTodo(ctx context.Context, user *models.User, id string) error {
	todo, err := s.GetTodo(ctx, user, id)
	if err != nil {
		return err
	}

	if err := s.todoRepo.Delete(ctx, todo.ID); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("delete todo: %w", err)
	}

	s.events.Publish(models.UserTopic(user.ID), models.EventTodoDeleted, map[string]string{"id": todo.ID})
	return nil
}

func (s *TodoService) save(ctx context.Context, todo *models.Todo) error {
	todo.UpdatedAt = s.now().UTC()
	if err := s.todoRepo.Update(ctx, todo); err != nil {
		if errors.Is(err, repository.ErrNotFound) {
			return ErrTodoNotFound
		}
		return fmt.Errorf("update todo: %w", err)
	}
	return nil
}
