package models

import (
	"time"

	"gorm.io/gorm"
)

type Task struct {
	ID                  uint64         `gorm:"primarykey" json:"id"`
	Title               string         `gorm:"not null" json:"title"`
	Description         string         `gorm:"type:text" json:"description"`
	Completed           bool           `gorm:"not null;default:false" json:"completed"`
	Category            string         `gorm:"type:varchar(50)" json:"category"`
	DueDate             *time.Time     `json:"due_date"`
	RemindBeforeMinutes int            `gorm:"not null;default:60" json:"remind_before_minutes"`
	ReminderSent        bool           `gorm:"not null;default:false" json:"reminder_sent"`
	AccountID           uint64         `gorm:"not null;index" json:"account_id"`
	CreatedAt           time.Time      `json:"created_at"`
	UpdatedAt           time.Time      `json:"updated_at"`
	DeletedAt           gorm.DeletedAt `gorm:"index" json:"-"`

	// Relations
	Account Account `gorm:"foreignKey:AccountID" json:"-"`
}

// RemindAt returns the start of the task's reminder window, or nil when the
// task has no due date.
func (t *Task) RemindAt() *time.Time {
	if t.DueDate == nil {
		return nil
	}
	at := t.DueDate.Add(-time.Duration(t.RemindBeforeMinutes) * time.Minute)
	return &at
}
