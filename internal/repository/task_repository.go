package repository

import (
	"github.com/taskhub/taskhub/internal/database"
	"github.com/taskhub/taskhub/internal/models"
	"github.com/taskhub/taskhub/internal/utils"
	"gorm.io/gorm"
)

// GormTaskRepository is a GORM implementation of TaskRepository
type GormTaskRepository struct {
	db *gorm.DB
}

// NewTaskRepository creates a new TaskRepository
func NewTaskRepository(db *gorm.DB) TaskRepository {
	return &GormTaskRepository{db: db}
}

// Create creates a new task
func (r *GormTaskRepository) Create(task *models.Task) error {
	return r.db.Create(task).Error
}

// FindByIDAndOwner finds a task by ID scoped to its owning account.
// A foreign account's task is indistinguishable from a missing one.
func (r *GormTaskRepository) FindByIDAndOwner(id, accountID uint64) (*models.Task, error) {
	var task models.Task
	if err := r.db.
		Where("id = ? AND account_id = ?", id, accountID).
		First(&task).Error; err != nil {
		return nil, err
	}
	return &task, nil
}

// List retrieves an account's tasks with filtering and pagination
func (r *GormTaskRepository) List(filter TaskFilter) ([]models.Task, int64, error) {
	var tasks []models.Task

	query := r.db.Model(&models.Task{}).Where("account_id = ?", filter.AccountID)

	// Apply filters
	if filter.Category != nil {
		query = query.Where("category = ?", *filter.Category)
	}
	if filter.Completed != nil {
		query = query.Where("completed = ?", *filter.Completed)
	}
	if filter.HasDueDate {
		query = query.Where("due_date IS NOT NULL")
	}

	var total int64
	if err := query.Count(&total).Error; err != nil {
		return nil, 0, err
	}

	listQuery := query
	if filter.SortByDueDate {
		listQuery = listQuery.Order("CASE WHEN due_date IS NULL THEN 1 ELSE 0 END, due_date ASC")
	} else {
		listQuery = listQuery.Order("created_at DESC")
	}

	if filter.Page > 0 && filter.PageSize > 0 {
		listQuery = listQuery.Scopes(database.Paginate(utils.PaginationParams{
			Offset: (filter.Page - 1) * filter.PageSize,
			Limit:  filter.PageSize,
		}))
	}

	if err := listQuery.Find(&tasks).Error; err != nil {
		return nil, 0, err
	}

	return tasks, total, nil
}

// Update updates a task
func (r *GormTaskRepository) Update(task *models.Task) error {
	return r.db.Save(task).Error
}

// Delete soft deletes a task scoped to its owning account
func (r *GormTaskRepository) Delete(id, accountID uint64) error {
	return r.db.
		Where("id = ? AND account_id = ?", id, accountID).
		Delete(&models.Task{}).Error
}

// ListReminderCandidates returns unreminded, incomplete tasks with a due date
func (r *GormTaskRepository) ListReminderCandidates() ([]models.Task, error) {
	var tasks []models.Task
	err := r.db.
		Preload("Account").
		Where("reminder_sent = ? AND completed = ? AND due_date IS NOT NULL", false, false).
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

// MarkReminderSent flips reminder_sent to true only if it is still false,
// so concurrent sweeps cannot both claim the same task.
func (r *GormTaskRepository) MarkReminderSent(id uint64) (bool, error) {
	result := r.db.Model(&models.Task{}).
		Where("id = ? AND reminder_sent = ?", id, false).
		Update("reminder_sent", true)
	if result.Error != nil {
		return false, result.Error
	}
	return result.RowsAffected > 0, nil
}
