package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"todo_bank/internal/middleware"
	"todo_bank/internal/models"
	"todo_bank/internal/service"
)

// AccountHandler 處理帳戶、流水與餘額相關的請求
type AccountHandler struct {
	accountService *service.AccountService
}

func NewAccountHandler(accountService *service.AccountService) *AccountHandler {
	return &AccountHandler{accountService: accountService}
}

type CreateAccountInput struct {
	CPF  string `json:"cpf" binding:"required,cpf"`
	Name string `json:"name" binding:"required"`
}

type UpdateAccountInput struct {
	Name string `json:"name" binding:"required"`
}

type OperationInput struct {
	Description string       `json:"description"`
	Amount      models.Cents `json:"amount" binding:"required"`
}

// CreateAccount 處理開立帳戶
func (h *AccountHandler) CreateAccount(c *gin.Context) {
	var input CreateAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.accountService.CreateAccount(c.Request.Context(), input.CPF, input.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, account)
}

// GetAccount 回傳帳戶及其流水
func (h *AccountHandler) GetAccount(c *gin.Context) {
	account, err := h.accountService.GetAccount(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) UpdateAccount(c *gin.Context) {
	var input UpdateAccountInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	account, err := h.accountService.UpdateName(c.Request.Context(), middleware.CurrentAccount(c), input.Name)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, account)
}

func (h *AccountHandler) DeleteAccount(c *gin.Context) {
	if err := h.accountService.DeleteAccount(c.Request.Context(), middleware.CurrentAccount(c)); err != nil {
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *AccountHandler) Statement(c *gin.Context) {
	statement, err := h.accountService.Statement(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statement)
}

// StatementByDate 依日期查詢流水；日期可放在 date 查詢參數或 date 標頭
func (h *AccountHandler) StatementByDate(c *gin.Context) {
	date := c.Query("date")
	if date == "" {
		date = c.GetHeader("date")
	}
	if date == "" {
		respondError(c, service.ErrInvalidDate)
		return
	}

	statement, err := h.accountService.StatementByDate(c.Request.Context(), middleware.CurrentAccount(c), date)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, statement)
}

func (h *AccountHandler) Deposit(c *gin.Context) {
	var input OperationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	op, err := h.accountService.Deposit(c.Request.Context(), middleware.CurrentAccount(c), input.Description, input.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, op)
}

func (h *AccountHandler) Withdraw(c *gin.Context) {
	var input OperationInput
	if err := c.ShouldBindJSON(&input); err != nil {
		respondBindError(c, err)
		return
	}

	op, err := h.accountService.Withdraw(c.Request.Context(), middleware.CurrentAccount(c), input.Description, input.Amount)
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, op)
}

func (h *AccountHandler) Balance(c *gin.Context) {
	balance, err := h.accountService.Balance(c.Request.Context(), middleware.CurrentAccount(c))
	if err != nil {
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"balance": balance})
}
