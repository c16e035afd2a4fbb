package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo_bank/internal/middleware"
	"todo_bank/internal/service"
)

// TodoHandler 處理待辦事項相關的請求
type TodoHandler struct {
	todoService *service.TodoService
}

func NewTodoHandler(todoService *service.TodoService) *TodoHandler {
	return &TodoHandler{todoService: todoService}
}

type CreateTodoInput struct {
	Title    string `json:"title" binding:"required"`
	Deadline string `json:"deadline" binding:"required"`
}

// UpdateTodoInput 中省略的欄位保持不變
type UpdateTodoInput struct {
	Title    *string `json:"title"`
	Deadline *string `json:"deadline"`
}

func (h *TodoHandler) CreateTodo(c *gin.Context) {
	var input CreateTodoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	deadline, err := service.ParseDeadline(input.Deadline)
	if err != nil {
		respondError(c, err)
		return
	}

	todo, err := h.todoService.CreateTodo(c.Request.Context(), middleware.CurrentUser(c), input.Title, deadline)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, todo)
}

func (h *TodoHandler) ListTodos(c *gin.Context) {
	todos, err := h.todoService.ListTodos(c.Request.Context(), middleware.CurrentUser(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, todos)
}

func (h *TodoHandler) GetTodo(c *gin.Context) {
	todo, err := h.todoService.GetTodo(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, todo)
}

func (h *TodoHandler) UpdateTodo(c *gin.Context) {
	var input UpdateTodoInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	changes := service.TodoChanges{Title: input.Title}
	if input.Deadline != nil {
		deadline, err := service.ParseDeadline(*input.Deadline)
		if err != nil {
			respondError(c, err)
			return
		}
		changes.Deadline = &deadline
	}

	todo, err := h.todoService.UpdateTodo(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"), changes)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, todo)
}

// CompleteTodo 將待辦事項標記為完成
func (h *TodoHandler) CompleteTodo(c *gin.Context) {
	todo, err := h.todoService.CompleteTodo(c.Request.Context(), middleware.CurrentUser(c), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, todo)
}

func (h *TodoHandler) DeleteTodo(c *gin.Context) {
	if err := h.todoService.DeleteTodo(c.Request.Context(), middleware.CurrentUser(c), c.Param("id")); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

