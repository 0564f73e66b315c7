package models

import (
	"time"
)

type Account struct {
	ID               uint64     `gorm:"primarykey" json:"id"`
	Name             string     `gorm:"type:varchar(100);not null" json:"name"`
	Email            string     `gorm:"type:varchar(255);uniqueIndex;not null" json:"email"`
	PasswordHash     string     `gorm:"type:varchar(255);not null" json:"-"`
	ResetToken       *string    `gorm:"type:varchar(64);index" json:"-"`
	ResetTokenExpiry *time.Time `json:"-"`
	CreatedAt        time.Time  `json:"created_at"`
	UpdatedAt        time.Time  `json:"updated_at"`

	// Relations
	Tasks []Task `gorm:"foreignKey:AccountID" json:"-"`
	Notes []Note `gorm:"foreignKey:AccountID" json:"-"`
}
