package service

import "errors"

var (
	ErrAccountNotFound   = errors.New("Customer not found")
	ErrAccountExists     = errors.New("Customer already exists")
	ErrInvalidCPF        = errors.New("Invalid CPF")
	ErrInvalidAmount     = errors.New("Amount must be greater than zero")
	ErrInsufficientFunds = errors.New("Insufficient funds")
	ErrAmountTooLarge    = errors.New("Amount exceeds the account limit")
	ErrInvalidDate       = errors.New("Date must be formatted as YYYY-MM-DD")

	ErrUserNotFound  = errors.New("User not found")
	ErrUserExists    = errors.New("User already exists")
	ErrInvalidToken  = errors.New("Invalid user token")
	ErrTodoNotFound  = errors.New("Todo not found")
	ErrTodoForbidden = errors.New("Todo does not belong to this user")
	ErrInvalidInput  = errors.New("Invalid input")
)
