package models

import (
	"time"
)

// 事件類型
const (
	EventDeposit        = "deposit"
	EventWithdraw       = "withdraw"
	EventAccountUpdated = "account.updated"
	EventTodoCreated    = "todo.created"
	EventTodoUpdated    = "todo.updated"
	EventTodoDone       = "todo.done"
	EventTodoDeleted    = "todo.deleted"
)

// Event 代表推送給 WebSocket 訂閱者的消息
type Event struct {
	Type      string    `json:"type"`
	Topic     string    `json:"topic"`
	Payload   any       `json:"payload,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// AccountTopic 和 UserTopic 產生事件的主題名稱
func AccountTopic(accountID string) string {
	return "account:" + accountID
}

func UserTopic(userID string) string {
	return "user:" + userID
}
