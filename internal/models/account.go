package models

import (
	"time"
)

// Account 表示一個以 CPF 識別的銀行帳戶
type Account struct {
	ID        string      `gorm:"primaryKey;type:varchar(36)" json:"id"`
	CPF       string      `gorm:"uniqueIndex;size:11;not null" json:"cpf"`
	Name      string      `gorm:"not null" json:"name"`
	CreatedAt time.Time   `json:"created_at"`
	UpdatedAt time.Time   `json:"updated_at"`
	Statement []Operation `gorm:"foreignKey:AccountID;constraint:OnDelete:CASCADE" json:"statement,omitempty"`
}

// OperationType 定義帳戶流水的類型
type OperationType string

const (
	OperationCredit OperationType = "credit" // 存款
	OperationDebit  OperationType = "debit"  // 提款
)

// Operation 是帳戶流水中的一筆記錄
type Operation struct {
	ID          string        `gorm:"primaryKey;type:varchar(36)" json:"id"`
	AccountID   string        `gorm:"index;type:varchar(36);not null" json:"account_id"`
	Type        OperationType `gorm:"type:varchar(10);not null" json:"type"`
	Description string        `json:"description,omitempty"`
	Amount      Cents         `gorm:"not null" json:"amount"`
	CreatedAt   time.Time     `gorm:"index" json:"created_at"`
	Seq         int64         `gorm:"not null;default:0" json:"-"` // 同一時間建立的流水依此排序
}

// Balance 計算流水的餘額：存款總和減去提款總和
func Balance(statement []Operation) Cents {
	var balance Cents
	for _, op := range statement {
		switch op.Type {
		case OperationCredit:
			balance += op.Amount
		case OperationDebit:
			balance -= op.Amount
		}
	}
	return balance
}
