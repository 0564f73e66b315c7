package repository

import (
	"time"

	"github.com/taskhub/taskhub/internal/models"
)

// AccountRepository defines the interface for account data access
type AccountRepository interface {
	// Create creates a new account
	Create(account *models.Account) error

	// FindByID finds an account by ID
	FindByID(id uint64) (*models.Account, error)

	// FindByEmail finds an account by its lowercased email
	FindByEmail(email string) (*models.Account, error)

	// SetResetToken stores a password-reset token and its expiry on an account
	SetResetToken(id uint64, token string, expiry time.Time) error

	// FindByValidResetToken finds an account whose reset token matches and has not expired
	FindByValidResetToken(token string, now time.Time) (*models.Account, error)

	// ResetPassword sets a new password hash and clears the reset token in a single update
	ResetPassword(id uint64, passwordHash string) error
}

// TaskFilter holds filtering options for listing tasks
type TaskFilter struct {
	AccountID     uint64
	Category      *string
	Completed     *bool
	HasDueDate    bool
	SortByDueDate bool
	Page          int
	PageSize      int
}

// TaskRepository defines the interface for task data access
type TaskRepository interface {
	// Create creates a new task
	Create(task *models.Task) error

	// FindByIDAndOwner finds a task by ID scoped to its owning account
	FindByIDAndOwner(id, accountID uint64) (*models.Task, error)

	// List retrieves an account's tasks with filtering and pagination
	List(filter TaskFilter) ([]models.Task, int64, error)

	// Update updates a task
	Update(task *models.Task) error

	// Delete soft deletes a task scoped to its owning account
	Delete(id, accountID uint64) error

	// ListReminderCandidates returns unreminded, incomplete tasks with a due
	// date, with the owning account preloaded
	ListReminderCandidates() ([]models.Task, error)

	// MarkReminderSent flips reminder_sent to true only if it is still false.
	// Returns false when another sweep already claimed the task.
	MarkReminderSent(id uint64) (bool, error)
}

// NoteRepository defines the interface for note data access
type NoteRepository interface {
	// Create creates a new note
	Create(note *models.Note) error

	// ListByOwner retrieves all notes for an account
	ListByOwner(accountID uint64) ([]models.Note, error)

	// Delete deletes a note scoped to its owning account
	Delete(id, accountID uint64) error
}
