package dto

import (
	"time"

	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/utils"
)

// AccountDTO represents an account in API responses
type AccountDTO struct {
	ID    uint64 `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}

// TaskDTO represents a task in API responses
type TaskDTO struct {
	ID                  uint64     `json:"id"`
	Title               string     `json:"title"`
	Description         string     `json:"description"`
	Completed           bool       `json:"completed"`
	Category            string     `json:"category"`
	DueDate             *time.Time `json:"due_date"`
	RemindBeforeMinutes int        `json:"remind_before_minutes"`
	ReminderSent        bool       `json:"reminder_sent"`
	CreatedAt           time.Time  `json:"created_at"`
	UpdatedAt           time.Time  `json:"updated_at"`
}

// NoteDTO represents a note in API responses
type NoteDTO struct {
	ID        uint64    `json:"id"`
	Title     string    `json:"title"`
	Content   string    `json:"content"`
	Progress  int       `json:"progress"`
	CreatedAt time.Time `json:"created_at"`
}

// DashboardResponse represents the paginated dashboard task listing
type DashboardResponse struct {
	Tasks      []TaskDTO                `json:"tasks"`
	Pagination utils.PaginationResponse `json:"pagination"`
}

// Conversion functions

// ToAccountDTO converts an Account model to AccountDTO
func ToAccountDTO(account models.Account) AccountDTO {
	return AccountDTO{
		ID:    account.ID,
		Name:  account.Name,
		Email: account.Email,
	}
}

// ToTaskDTO converts a Task model to TaskDTO
func ToTaskDTO(task models.Task) TaskDTO {
	return TaskDTO{
		ID:                  task.ID,
		Title:               task.Title,
		Description:         task.Description,
		Completed:           task.Completed,
		Category:            task.Category,
		DueDate:             task.DueDate,
		RemindBeforeMinutes: task.RemindBeforeMinutes,
		ReminderSent:        task.ReminderSent,
		CreatedAt:           task.CreatedAt,
		UpdatedAt:           task.UpdatedAt,
	}
}

// ToTaskDTOs converts a slice of Task models
func ToTaskDTOs(tasks []models.Task) []TaskDTO {
	dtos := make([]TaskDTO, len(tasks))
	for i, task := range tasks {
		dtos[i] = ToTaskDTO(task)
	}
	return dtos
}

// ToNoteDTO converts a Note model to NoteDTO
func ToNoteDTO(note models.Note) NoteDTO {
	return NoteDTO{
		ID:        note.ID,
		Title:     note.Title,
		Content:   note.Content,
		Progress:  note.Progress,
		CreatedAt: note.CreatedAt,
	}
}

// ToNoteDTOs converts a slice of Note models
func ToNoteDTOs(notes []models.Note) []NoteDTO {
	dtos := make([]NoteDTO, len(notes))
	for i, note := range notes {
		dtos[i] = ToNoteDTO(note)
	}
	return dtos
}
