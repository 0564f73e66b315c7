package services

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/taskhub/taskhub/internal/constants"
	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/repository"
	"gorm.io/gorm"
)

// Dashboard filter values accepted from the query string.
const (
	FilterCompleted = "completed"
	FilterPlanned   = "planned"
	FilterActive    = "active"
)

var (
	ErrTaskNotFound  = errors.New("task not found")
	ErrTitleRequired = errors.New("title is required")
	ErrTitleEmpty    = errors.New("title cannot be empty")
)

// TaskService handles task business logic
type TaskService struct {
	taskRepo repository.TaskRepository
}

// NewTaskService creates a new TaskService
func NewTaskService(taskRepo repository.TaskRepository) *TaskService {
	return &TaskService{
		taskRepo: taskRepo,
	}
}

// ListTasksInput represents dashboard filters for listing tasks
type ListTasksInput struct {
	AccountID     uint64
	Category      string
	Filter        string
	SortByDueDate bool
	Page          int
	PageSize      int
}

// ListTasks returns the account's tasks matching the dashboard filters.
// Unknown filter values behave like no filter.
func (s *TaskService) ListTasks(input ListTasksInput) ([]models.Task, int64, error) {
	filter := repository.TaskFilter{
		AccountID:     input.AccountID,
		Page:          input.Page,
		PageSize:      input.PageSize,
		SortByDueDate: input.SortByDueDate,
	}

	if category := strings.TrimSpace(input.Category); category != "" {
		filter.Category = &category
	}

	completed := true
	incomplete := false
	switch input.Filter {
	case FilterCompleted:
		filter.Completed = &completed
	case FilterPlanned:
		filter.Completed = &incomplete
		filter.HasDueDate = true
	case FilterActive:
		filter.Completed = &incomplete
	}

	tasks, total, err := s.taskRepo.List(filter)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list tasks: %w", err)
	}

	return tasks, total, nil
}

// ListAllTasks returns every task the account owns, unfiltered.
func (s *TaskService) ListAllTasks(accountID uint64) ([]models.Task, error) {
	tasks, _, err := s.taskRepo.List(repository.TaskFilter{AccountID: accountID})
	if err != nil {
		return nil, fmt.Errorf("failed to list tasks: %w", err)
	}
	return tasks, nil
}

// CreateTaskInput represents input for creating a task
type CreateTaskInput struct {
	AccountID           uint64
	Title               string
	Description         string
	Category            string
	DueDate             *time.Time
	RemindBeforeMinutes *int
}

// CreateTask creates a new task for the account
func (s *TaskService) CreateTask(input CreateTaskInput) (*models.Task, error) {
	if strings.TrimSpace(input.Title) == "" {
		return nil, ErrTitleRequired
	}

	remindBefore := constants.DefaultRemindBeforeMinutes
	if input.RemindBeforeMinutes != nil && *input.RemindBeforeMinutes > 0 {
		remindBefore = *input.RemindBeforeMinutes
	}

	task := &models.Task{
		Title:               strings.TrimSpace(input.Title),
		Description:         input.Description,
		Category:            input.Category,
		DueDate:             input.DueDate,
		RemindBeforeMinutes: remindBefore,
		AccountID:           input.AccountID,
	}

	if err := s.taskRepo.Create(task); err != nil {
		return nil, fmt.Errorf("failed to create task: %w", err)
	}

	return task, nil
}

// UpdateTaskInput represents input for updating a task
type UpdateTaskInput struct {
	Title               *string
	Description         *string
	Completed           *bool
	Category            *string
	DueDate             *time.Time
	ClearDueDate        bool
	RemindBeforeMinutes *int
}

// UpdateTask updates an account's task. Changing the due date re-arms the
// reminder so the new deadline is announced.
func (s *TaskService) UpdateTask(taskID, accountID uint64, input UpdateTaskInput) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(taskID, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	if input.Title != nil {
		if strings.TrimSpace(*input.Title) == "" {
			return nil, ErrTitleEmpty
		}
		task.Title = strings.TrimSpace(*input.Title)
	}
	if input.Description != nil {
		task.Description = *input.Description
	}
	if input.Completed != nil {
		task.Completed = *input.Completed
	}
	if input.Category != nil {
		task.Category = *input.Category
	}
	if input.ClearDueDate {
		task.DueDate = nil
		task.ReminderSent = false
	} else if input.DueDate != nil {
		task.DueDate = input.DueDate
		task.ReminderSent = false
	}
	if input.RemindBeforeMinutes != nil && *input.RemindBeforeMinutes > 0 {
		task.RemindBeforeMinutes = *input.RemindBeforeMinutes
	}

	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to update task: %w", err)
	}

	return task, nil
}

// CompleteTask marks an account's task as completed
func (s *TaskService) CompleteTask(taskID, accountID uint64) (*models.Task, error) {
	task, err := s.taskRepo.FindByIDAndOwner(taskID, accountID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrTaskNotFound
		}
		return nil, fmt.Errorf("failed to find task: %w", err)
	}

	task.Completed = true
	if err := s.taskRepo.Update(task); err != nil {
		return nil, fmt.Errorf("failed to complete task: %w", err)
	}

	return task, nil
}

// DeleteTask deletes an account's task. A foreign or unknown id matches zero
// records and is not an error.
func (s *TaskService) DeleteTask(taskID, accountID uint64) error {
	if err := s.taskRepo.Delete(taskID, accountID); err != nil {
		return fmt.Errorf("failed to delete task: %w", err)
	}
	return nil
}
