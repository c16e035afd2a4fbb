package models

import (
	"time"
)

// Todo 表示屬於某個用戶的待辦事項
type Todo struct {
	ID        string    `gorm:"primaryKey;type:varchar(36)" json:"id"`
	UserID    string    `gorm:"index;type:varchar(36);not null" json:"user_id"`
	Title     string    `gorm:"not null" json:"title"`
	Deadline  time.Time `json:"deadline"`
	Done      bool      `gorm:"not null;default:false" json:"done"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
	Seq       int64     `gorm:"not null;default:0" json:"-"`
}
