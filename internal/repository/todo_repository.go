package repository

import (
	"context"

	"todo_bank/internal/models"
	"todo_bank/internal/storage"
)

type TodoRepository interface {
	Create(ctx context.Context, todo *models.Todo) error
	FindByID(ctx context.Context, id string) (*models.Todo, error)
	FindByUser(ctx context.Context, userID string) ([]models.Todo, error)
	Update(ctx context.Context, todo *models.Todo) error
	Delete(ctx context.Context, id string) error
}

type todoRepository struct {
	db *storage.Database
}

func NewTodoRepository(db *storage.Database) TodoRepository {
	return &todoRepository{db: db}
}

func (r *todoRepository) Create(ctx context.Context, todo *models.Todo) error {
	return translate(r.db.WithContext(ctx).Create(todo).Error)
}

func (r *todoRepository) FindByID(ctx context.Context, id string) (*models.Todo, error) {
	var todo models.Todo
	if err := r.db.WithContext(ctx).First(&todo, "id = ?", id).Error; err != nil {
		return nil, translate(err)
	}
	return &todo, nil
}

func (r *todoRepository) FindByUser(ctx context.Context, userID string) ([]models.Todo, error) {
	todos := []models.Todo{}
	err := r.db.WithContext(ctx).Where("user_id = ?", userID).Order("created_at asc, seq asc").Find(&todos).Error
	return todos, translate(err)
}

func (r *todoRepository) Update(ctx context.Context, todo *models.Todo) error {
	tx := r.db.WithContext(ctx).Model(&models.Todo{}).
		Where("id = ?", todo.ID).
		Updates(map[string]any{
			"title":      todo.Title,
			"deadline":   todo.Deadline,
			"done":       todo.Done,
			"updated_at": todo.UpdatedAt,
		})
	return affected(tx)
}

func (r *todoRepository) Delete(ctx context.Context, id string) error {
	return affected(r.db.WithContext(ctx).Delete(&models.Todo{}, "id = ?", id))
}
