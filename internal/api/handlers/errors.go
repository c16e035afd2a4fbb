package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo_bank/internal/service"
)

// statusFor 將服務層的錯誤對應到 HTTP 狀態碼
func statusFor(err error) int {
	switch {
	case errors.Is(err, service.ErrInvalidCPF),
		errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrAmountTooLarge),
		errors.Is(err, service.ErrInvalidDate),
		errors.Is(err, service.ErrInvalidInput),
		errors.Is(err, service.ErrInsufficientFunds):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrInvalidToken):
		return http.StatusUnauthorized
	case errors.Is(err, service.ErrTodoForbidden):
		return http.StatusForbidden
	case errors.Is(err, service.ErrAccountNotFound),
		errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrTodoNotFound):
		return http.StatusNotFound
	case errors.Is(err, service.ErrAccountExists),
		errors.Is(err, service.ErrUserExists):
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// respondError 以 {"error": ...} 回應；未預期的錯誤不會把內容洩漏給客戶端
func respondError(c *gin.Context, err error) {
	status := statusFor(err)
	message := err.Error()
	if status == http.StatusInternalServerError {
		message = "Internal server error"
	}
	_ = c.Error(err)
	c.JSON(status, gin.H{"error": message})
}

func respondBindError(c *gin.Context, err error) {
	_ = c.Error(err).SetType(gin.ErrorTypeBind)
	c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
}
