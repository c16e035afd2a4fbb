package middleware

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"todo_bank/internal/models"
	"todo_bank/internal/service"
	"todo_bank/internal/utils"
)

const (
	accountKey = "account"
	userKey    = "user"

	// CPFHeader 與 UserTokenHeader 是識別身份用的請求標頭
	CPFHeader       = "cpf"
	UserTokenHeader = "userToken"
)

// AccountFinder 依 CPF 查詢帳戶
type AccountFinder interface {
	FindByCPF(ctx context.Context, cpf string) (*models.Account, error)
}

// UserAuthenticator 依 token 查詢用戶
type UserAuthenticator interface {
	Authenticate(ctx context.Context, token string) (*models.User, error)
}

// AccountMiddleware 依 cpf 標頭載入帳戶並放入上下文
func AccountMiddleware(accounts AccountFinder) gin.HandlerFunc {
	return func(c *gin.Context) {
		account, err := accounts.FindByCPF(c.Request.Context(), c.GetHeader(CPFHeader))
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, service.ErrAccountNotFound):
				status = http.StatusNotFound
			case errors.Is(err, service.ErrInvalidCPF):
				status = http.StatusBadRequest
			}
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}

		c.Set(accountKey, account)
		c.Next()
	}
}

// UserMiddleware 驗證 userToken（或 Bearer）標頭並將用戶放入上下文
func UserMiddleware(users UserAuthenticator) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := utils.ExtractToken(c.GetHeader(UserTokenHeader), c.GetHeader("Authorization"))

		user, err := users.Authenticate(c.Request.Context(), token)
		if err != nil {
			status := http.StatusInternalServerError
			switch {
			case errors.Is(err, service.ErrInvalidToken):
				status = http.StatusUnauthorized
			case errors.Is(err, service.ErrUserNotFound):
				status = http.StatusNotFound
			}
			c.AbortWithStatusJSON(status, gin.H{"error": err.Error()})
			return
		}

		c.Set(userKey, user)
		c.Next()
	}
}

// CurrentAccount 取出 AccountMiddleware 放入的帳戶
func CurrentAccount(c *gin.Context) *models.Account {
	return c.MustGet(accountKey).(*models.Account)
}

// CurrentUser 取出 UserMiddleware 放入的用戶
func CurrentUser(c *gin.Context) *models.User {
	return c.MustGet(userKey).(*models.User)
}
