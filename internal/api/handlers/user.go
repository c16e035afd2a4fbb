package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo_bank/internal/models"
	"todo_bank/internal/service"
)

// UserHandler 處理用戶相關的請求
type UserHandler struct {
	userService *service.UserService
}

func NewUserHandler(userService *service.UserService) *UserHandler {
	return &UserHandler{userService: userService}
}

type CreateUserInput struct {
	Name     string `json:"name" binding:"required"`
	Username string `json:"username" binding:"required"`
}

type LoginInput struct {
	Username string `json:"username" binding:"required"`
}

// SessionResponse 是建立用戶與登入的回應
type SessionResponse struct {
	User  *models.User `json:"user"`
	Token string       `json:"token"`
}

func (h *UserHandler) CreateUser(c *gin.Context) {
	var input CreateUserInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.userService.CreateUser(c.Request.Context(), input.Name, input.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, SessionResponse{User: user, Token: token})
}

// Login 為已存在的用戶重新簽發 token
func (h *UserHandler) Login(c *gin.Context) {
	var input LoginInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	user, token, err := h.userService.Login(c.Request.Context(), input.Username)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, SessionResponse{User: user, Token: token})
}

func (h *UserHandler) ListUsers(c *gin.Context) {
	users, err := h.userService.ListUsers(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, users)
}

func (h *UserHandler) GetUser(c *gin.Context) {
	user, err := h.userService.GetUser(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, user)
}
