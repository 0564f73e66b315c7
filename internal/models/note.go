package models

import "time"

type Note struct {
	ID        uint64    `gorm:"primarykey" json:"id"`
	Title     string    `gorm:"not null" json:"title"`
	Content   string    `gorm:"type:text;not null" json:"content"`
	Progress  int       `gorm:"not null;default:0" json:"progress"`
	AccountID uint64    `gorm:"not null;index" json:"account_id"`
	CreatedAt time.Time `json:"created_at"`
}
